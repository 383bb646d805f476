// Package drive wraps the Google Drive v3 API calls the assistant needs.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Google-native document types.
const (
	MimeFolder       = "application/vnd.google-apps.folder"
	MimeDocument     = "application/vnd.google-apps.document"
	MimeSpreadsheet  = "application/vnd.google-apps.spreadsheet"
	MimePresentation = "application/vnd.google-apps.presentation"
	nativePrefix     = "application/vnd.google-apps."

	exportPDF  = "application/pdf"
	exportXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// defaultExports maps native types onto the format they are exported as.
var defaultExports = map[string]string{
	MimeDocument:     exportPDF,
	MimeSpreadsheet:  exportXLSX,
	MimePresentation: exportPDF,
}

// shortMimeTypes lets callers say "pdf" instead of "application/pdf".
var shortMimeTypes = map[string]string{
	"folder":       MimeFolder,
	"doc":          MimeDocument,
	"document":     MimeDocument,
	"sheet":        MimeSpreadsheet,
	"spreadsheet":  MimeSpreadsheet,
	"slides":       MimePresentation,
	"presentation": MimePresentation,
	"pdf":          exportPDF,
	"xlsx":         exportXLSX,
	"docx":         "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"csv":          "text/csv",
	"txt":          "text/plain",
	"text":         "text/plain",
	"html":         "text/html",
}

// ResolveMimeType expands short names; full MIME types pass through.
func ResolveMimeType(s string) string {
	s = strings.TrimSpace(s)
	if full, ok := shortMimeTypes[strings.ToLower(s)]; ok {
		return full
	}
	return s
}

// IsNative reports whether mimeType is a Google Docs editor type that must
// be exported rather than downloaded.
func IsNative(mimeType string) bool {
	return strings.HasPrefix(mimeType, nativePrefix)
}

// DefaultExportType returns the export format used for a native type.
func DefaultExportType(mimeType string) string {
	if t, ok := defaultExports[mimeType]; ok {
		return t
	}
	return exportPDF
}

// ErrTooLarge is returned when a download exceeds the configured limit.
var ErrTooLarge = errors.New("drive: file exceeds download limit")

// File is the metadata the tools use.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
}

// ListQuery filters a listing. Empty fields are not applied.
type ListQuery struct {
	FolderID   string
	MimeType   string
	MaxResults int
}

// Query renders the Drive search expression for q.
func (q ListQuery) Query() string {
	var parts []string
	if q.FolderID != "" {
		parts = append(parts, fmt.Sprintf("'%s' in parents", escape(q.FolderID)))
	}
	if q.MimeType != "" {
		parts = append(parts, fmt.Sprintf("mimeType='%s'", escape(q.MimeType)))
	}
	return strings.Join(parts, " and ")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// Store is the read-only document store the tools depend on.
type Store interface {
	List(ctx context.Context, q ListQuery) ([]File, error)
	Get(ctx context.Context, fileID string) (File, error)
	Export(ctx context.Context, fileID, mimeType string) ([]byte, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// Client implements Store on top of the Drive v3 service.
type Client struct {
	svc      *gdrive.Service
	maxBytes int64
}

// NewClient creates a Drive client. opts usually carry credentials, see
// CredentialOption.
func NewClient(ctx context.Context, maxBytes int64, opts ...option.ClientOption) (*Client, error) {
	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	return &Client{svc: svc, maxBytes: maxBytes}, nil
}

func (c *Client) List(ctx context.Context, q ListQuery) ([]File, error) {
	limit := q.MaxResults
	if limit <= 0 {
		limit = 100
	}

	call := c.svc.Files.List().
		Context(ctx).
		Spaces("drive").
		Fields("nextPageToken, files(id, name)").
		PageSize(int64(min(limit, 1000)))
	if expr := q.Query(); expr != "" {
		call = call.Q(expr)
	}

	files := make([]File, 0)
	err := call.Pages(ctx, func(page *gdrive.FileList) error {
		for _, f := range page.Files {
			files = append(files, File{ID: f.Id, Name: f.Name})
			if len(files) == limit {
				return errPageLimit
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errPageLimit) {
		return nil, err
	}
	return files, nil
}

var errPageLimit = errors.New("page limit reached")

func (c *Client) Get(ctx context.Context, fileID string) (File, error) {
	f, err := c.svc.Files.Get(fileID).
		Context(ctx).
		Fields("id, name, mimeType").
		SupportsAllDrives(true).
		Do()
	if err != nil {
		return File{}, err
	}
	return File{ID: f.Id, Name: f.Name, MimeType: f.MimeType}, nil
}

func (c *Client) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	resp, err := c.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return c.readLimited(resp.Body)
}

func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Get(fileID).Context(ctx).SupportsAllDrives(true).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return c.readLimited(resp.Body)
}

func (c *Client) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read drive content: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// APIErrorMessage returns a readable message when err is an error answer
// from the Drive API rather than a transport failure.
func APIErrorMessage(err error) (string, bool) {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return "", false
	}
	msg := apiErr.Message
	if msg == "" {
		msg = strings.TrimSpace(apiErr.Body)
	}
	return fmt.Sprintf("HTTP %d: %s", apiErr.Code, msg), true
}

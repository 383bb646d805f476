package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deskpilot/deskpilot/internal/drive"
	"github.com/deskpilot/deskpilot/internal/extract"
)

// DocumentLoaderTool reads a Drive file and returns its text.
type DocumentLoaderTool struct {
	store    drive.Store
	maxChars int
}

// NewDocumentLoaderTool creates a DocumentLoaderTool; maxChars defaults to 100000.
func NewDocumentLoaderTool(store drive.Store, maxChars int) *DocumentLoaderTool {
	if maxChars <= 0 {
		maxChars = 100000
	}
	return &DocumentLoaderTool{store: store, maxChars: maxChars}
}

func (t *DocumentLoaderTool) Name() string { return string(ToolDocumentLoader) }
func (t *DocumentLoaderTool) Description() string {
	return "Load and extract the text content of a Google Drive document. " +
		"Input should be the Google Drive file ID. Returns the full text content of the document."
}
func (t *DocumentLoaderTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_id": {
				"type": "string",
				"description": "The Google Drive file ID"
			},
			"mime_type": {
				"type": "string",
				"description": "Format to export Google Docs files as, e.g. application/pdf. Optional."
			},
			"clean_text": {
				"type": "boolean",
				"description": "Collapse whitespace in the extracted text. Defaults to true."
			}
		},
		"required": ["file_id"]
	}`)
}

type loadDocumentArgs struct {
	FileID    string `mapstructure:"file_id"`
	MimeType  string `mapstructure:"mime_type"`
	CleanText *bool  `mapstructure:"clean_text"`
}

func (t *DocumentLoaderTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	var a loadDocumentArgs
	if err := decodeArgs(args, &a, "file_id"); err != nil {
		return nil, err
	}
	clean := a.CleanText == nil || *a.CleanText

	meta, err := t.store.Get(ctx, a.FileID)
	if err != nil {
		return driveFailure(err)
	}

	format := meta.MimeType
	native := drive.IsNative(meta.MimeType)
	if native {
		format = drive.DefaultExportType(meta.MimeType)
		if a.MimeType != "" {
			format = drive.ResolveMimeType(a.MimeType)
		}
	}
	if !extract.Supported(format) {
		return fmt.Sprintf("Unsupported file type for text extraction: %s", format), nil
	}

	var data []byte
	if native {
		data, err = t.store.Export(ctx, meta.ID, format)
	} else {
		data, err = t.store.Download(ctx, meta.ID)
	}
	if err != nil {
		return driveFailure(err)
	}

	text, err := extract.Text(data, format)
	if err != nil {
		return errorResult("could not extract text from %q: %v", meta.Name, err), nil
	}
	if clean {
		text = extract.Clean(text)
	}
	return truncateText(text, t.maxChars), nil
}

// driveFailure keeps Drive's own refusals visible to the model and treats
// everything else as the tool failing to run.
func driveFailure(err error) (any, error) {
	if msg, ok := drive.APIErrorMessage(err); ok {
		return errorResult("An error occurred: %s", msg), nil
	}
	if errors.Is(err, drive.ErrTooLarge) {
		return errorResult("the file is too large to read"), nil
	}
	if errors.Is(err, drive.ErrNotConfigured) {
		return errorResult("%v", err), nil
	}
	return nil, err
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + fmt.Sprintf("\n\n[truncated: %d more characters]", len(runes)-max)
}

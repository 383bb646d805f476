package tools

import (
	"context"
	"encoding/json"

	"github.com/deskpilot/deskpilot/internal/drive"
)

// DriveListerTool lists files in Drive, optionally inside one folder.
type DriveListerTool struct {
	store      drive.Store
	maxResults int
}

// NewDriveListerTool creates a DriveListerTool; maxResults defaults to 100.
func NewDriveListerTool(store drive.Store, maxResults int) *DriveListerTool {
	if maxResults <= 0 {
		maxResults = 100
	}
	return &DriveListerTool{store: store, maxResults: maxResults}
}

func (t *DriveListerTool) Name() string { return string(ToolDriveLister) }
func (t *DriveListerTool) Description() string {
	return "List documents in Google Drive. Returns a JSON list of {id, name}. " +
		"Pass folder_id to list one folder and mime_type (e.g. application/pdf or a short name like pdf, csv, doc, sheet) to filter."
}
func (t *DriveListerTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"folder_id": {
				"type": "string",
				"description": "ID of the folder to list documents from"
			},
			"mime_type": {
				"type": "string",
				"description": "Only return files of this MIME type"
			}
		}
	}`)
}

type listDriveArgs struct {
	FolderID string `mapstructure:"folder_id"`
	MimeType string `mapstructure:"mime_type"`
}

func (t *DriveListerTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	var a listDriveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	files, err := t.store.List(ctx, drive.ListQuery{
		FolderID:   a.FolderID,
		MimeType:   drive.ResolveMimeType(a.MimeType),
		MaxResults: t.maxResults,
	})
	if err != nil {
		return driveFailure(err)
	}
	if files == nil {
		files = []drive.File{}
	}
	for i := range files {
		files[i].MimeType = ""
	}
	return files, nil
}

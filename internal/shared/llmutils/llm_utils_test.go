package llmutils

import (
	"testing"

	"github.com/deskpilot/deskpilot/internal/schema"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantKey string
		wantErr bool
	}{
		{"empty", "", "", false},
		{"valid", `{"folder_id":"X"}`, "folder_id", false},
		{"extra brace", `{"folder_id":"X"}}`, "folder_id", false},
		{"missing brace", `{"folder_id":"X"`, "folder_id", false},
		{"garbage", `not json at all`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RepairJSON(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil map")
			}
			if tt.wantKey != "" && got[tt.wantKey] != "X" {
				t.Errorf("expected %s=X, got %v", tt.wantKey, got)
			}
		})
	}
}

func TestToolHint(t *testing.T) {
	got := ToolHint([]schema.ToolCall{
		{Name: "google_drive_lister", Arguments: map[string]any{"mime_type": "", "folder_id": "abc"}},
		{Name: "noop", Arguments: map[string]any{"n": 1}},
	})
	want := `google_drive_lister("abc"), noop`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé..." {
		t.Errorf("expected hé..., got %q", got)
	}
	if got := Truncate("hi", 5); got != "hi" {
		t.Errorf("expected hi, got %q", got)
	}
}

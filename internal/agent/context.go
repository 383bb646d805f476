package agent

import (
	"fmt"
	"strings"
	"time"
)

// PromptBuilder assembles the system prompt for a new conversation.
type PromptBuilder struct {
	instructions string
	now          func() time.Time
}

// NewPromptBuilder creates a PromptBuilder. instructions is appended to the
// built-in prompt and may be empty.
func NewPromptBuilder(instructions string) *PromptBuilder {
	return &PromptBuilder{instructions: strings.TrimSpace(instructions), now: time.Now}
}

// WithClock replaces the clock used for the current date.
func (b *PromptBuilder) WithClock(now func() time.Time) *PromptBuilder {
	b.now = now
	return b
}

// SystemPrompt returns the prompt seeded into every new conversation.
func (b *PromptBuilder) SystemPrompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a personal assistant who helps manage interaction with Google Drive "+
		"and create tasks in Asana. The current date is %s (%s).",
		b.now().Format("2006-01-02"), b.now().Weekday())

	sb.WriteString(`

Use google_drive_lister to find files and google_document_loader to read one by its ID.
Use create_asana_task to add a task; due dates are YYYY-MM-DD.
When a tool result starts with "Error:", explain the problem to the user instead of retrying blindly.
Before calling tools, briefly tell the user what you're about to do.`)

	if b.instructions != "" {
		sb.WriteString("\n\n## Instructions\n\n")
		sb.WriteString(b.instructions)
	}
	return sb.String()
}

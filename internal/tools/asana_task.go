package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/deskpilot/deskpilot/internal/asana"
)

const dateLayout = "2006-01-02"

// TaskCreator creates tasks in the configured tracker project.
type TaskCreator interface {
	Configured() bool
	CreateTask(ctx context.Context, req asana.CreateTaskRequest) (*asana.Task, error)
}

// CreateAsanaTaskTool creates a task in the fixed Asana project.
type CreateAsanaTaskTool struct {
	client TaskCreator
	now    func() time.Time
}

func NewCreateAsanaTaskTool(client TaskCreator) *CreateAsanaTaskTool {
	return &CreateAsanaTaskTool{client: client, now: time.Now}
}

// WithClock replaces the clock used to resolve relative dates.
func (t *CreateAsanaTaskTool) WithClock(now func() time.Time) *CreateAsanaTaskTool {
	t.now = now
	return t
}

func (t *CreateAsanaTaskTool) Name() string { return string(ToolCreateAsanaTask) }
func (t *CreateAsanaTaskTool) Description() string {
	return "Create a task in Asana. Use it whenever the user asks to add, schedule or remember a to-do."
}
func (t *CreateAsanaTaskTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"task_name": {
				"type": "string",
				"description": "Short title of the task"
			},
			"due_on": {
				"type": "string",
				"description": "Due date as YYYY-MM-DD, or 'today' / 'tomorrow'. Defaults to today."
			},
			"notes": {
				"type": "string",
				"description": "Optional longer description"
			}
		},
		"required": ["task_name"]
	}`)
}

type createTaskArgs struct {
	TaskName string `mapstructure:"task_name"`
	DueOn    string `mapstructure:"due_on"`
	Notes    string `mapstructure:"notes"`
}

func (t *CreateAsanaTaskTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	var a createTaskArgs
	if err := decodeArgs(args, &a, "task_name"); err != nil {
		return nil, err
	}

	due, ok := resolveDueDate(a.DueOn, t.now())
	if !ok {
		return errorResult("due_on must be a date in YYYY-MM-DD format, 'today' or 'tomorrow', got %q", a.DueOn), nil
	}
	if !t.client.Configured() {
		return errorResult("Asana is not configured. Set ASANA_ACCESS_TOKEN and ASANA_PROJECT_ID."), nil
	}

	task, err := t.client.CreateTask(ctx, asana.CreateTaskRequest{
		Name:  strings.TrimSpace(a.TaskName),
		DueOn: due,
		Notes: a.Notes,
	})
	var apiErr *asana.APIError
	switch {
	case errors.As(err, &apiErr):
		return errorResult("Asana rejected the task: %v", apiErr), nil
	case err != nil:
		return nil, err
	}
	return task, nil
}

// resolveDueDate turns the model's due_on into YYYY-MM-DD.
func resolveDueDate(s string, now time.Time) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now.Format(dateLayout), true
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(dateLayout), true
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return d.Format(dateLayout), true
}

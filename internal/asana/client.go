// Package asana is a minimal client for the Asana REST API.
package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://app.asana.com/api/1.0"

// ErrNotConfigured is returned when no access token or project is set.
var ErrNotConfigured = errors.New("asana: access token and project id are required")

// APIError is a non-2xx answer from Asana.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("asana: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("asana: HTTP %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Compact is the short form Asana uses for referenced objects.
type Compact struct {
	GID          string `json:"gid"`
	Name         string `json:"name,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

// Task is the subset of an Asana task returned after creation.
type Task struct {
	GID          string    `json:"gid"`
	Name         string    `json:"name"`
	DueOn        string    `json:"due_on,omitempty"`
	Completed    bool      `json:"completed"`
	PermalinkURL string    `json:"permalink_url,omitempty"`
	ResourceType string    `json:"resource_type,omitempty"`
	Projects     []Compact `json:"projects,omitempty"`
	CreatedAt    string    `json:"created_at,omitempty"`
}

// CreateTaskRequest describes a task to create.
type CreateTaskRequest struct {
	Name     string   `json:"name"`
	DueOn    string   `json:"due_on,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	Projects []string `json:"projects,omitempty"`
}

// Client talks to Asana on behalf of one personal access token and creates
// tasks in one fixed project.
type Client struct {
	token      string
	projectID  string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(token, projectID string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		projectID:  projectID,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client has what it needs to create tasks.
func (c *Client) Configured() bool {
	return c.token != "" && c.projectID != ""
}

func (c *Client) ProjectID() string { return c.projectID }

// CreateTask creates a task in the configured project.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if len(req.Projects) == 0 {
		req.Projects = []string{c.projectID}
	}

	body, err := json.Marshal(map[string]any{"data": req})
	if err != nil {
		return nil, fmt.Errorf("marshal task: %w", err)
	}

	var out struct {
		Data Task `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asana request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read asana response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode asana response: %w", err)
	}
	return nil
}

func parseAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var body struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, e := range body.Errors {
			apiErr.Messages = append(apiErr.Messages, e.Message)
		}
	}
	if len(apiErr.Messages) == 0 {
		if s := strings.TrimSpace(string(raw)); s != "" {
			if len(s) > 300 {
				s = s[:300]
			}
			apiErr.Messages = []string{s}
		}
	}
	return apiErr
}

package tools

import (
	"context"
	"encoding/json"

	"github.com/deskpilot/deskpilot/internal/asana"
	"github.com/deskpilot/deskpilot/internal/drive"
)

type fakeStore struct {
	files    map[string]drive.File
	content  map[string][]byte
	listed   []drive.File
	err      error
	lastList drive.ListQuery
	exported []string
}

func (s *fakeStore) List(_ context.Context, q drive.ListQuery) ([]drive.File, error) {
	s.lastList = q
	return s.listed, s.err
}

func (s *fakeStore) Get(_ context.Context, id string) (drive.File, error) {
	if s.err != nil {
		return drive.File{}, s.err
	}
	return s.files[id], nil
}

func (s *fakeStore) Export(_ context.Context, id, mimeType string) ([]byte, error) {
	s.exported = append(s.exported, id+":"+mimeType)
	return s.content[id], nil
}

func (s *fakeStore) Download(_ context.Context, id string) ([]byte, error) {
	return s.content[id], nil
}

type fakeTasks struct {
	configured bool
	got        []asana.CreateTaskRequest
	err        error
}

func (f *fakeTasks) Configured() bool { return f.configured }

func (f *fakeTasks) CreateTask(_ context.Context, req asana.CreateTaskRequest) (*asana.Task, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &asana.Task{GID: "42", Name: req.Name, DueOn: req.DueOn}, nil
}

type echoTool struct{ name string }

func (e echoTool) Name() string                { return e.name }
func (e echoTool) Description() string         { return "echo" }
func (e echoTool) Parameters() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (e echoTool) Execute(_ context.Context, args map[string]any) (any, error) {
	return args, nil
}

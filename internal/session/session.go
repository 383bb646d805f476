package session

import (
	"sync"
	"time"

	"github.com/deskpilot/deskpilot/internal/schema"
)

// Session holds one conversation's history and metadata.
//
// A turn holds the session lock from the user message to the final answer,
// so a conversation never has two generations in flight.
type Session struct {
	Key       string
	CreatedAt time.Time
	UpdatedAt time.Time
	Metadata  map[string]any

	history schema.Messages
	mu      sync.Mutex
}

func newSession(key string) *Session {
	now := time.Now()
	return &Session{
		Key:       key,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  map[string]any{},
		history:   schema.NewMessages(),
	}
}

// Lock claims the session for one turn.
func (s *Session) Lock() { s.mu.Lock() }

// TryLock claims the session unless a turn is already running.
func (s *Session) TryLock() bool { return s.mu.TryLock() }

func (s *Session) Unlock() { s.mu.Unlock() }

// History returns the live history. The caller must hold the lock.
func (s *Session) History() *schema.Messages { return &s.history }

// Touch records activity. The caller must hold the lock.
func (s *Session) Touch() { s.UpdatedAt = time.Now() }

// Reset drops the history and seeds it with systemPrompt, if not empty.
// The caller must hold the lock.
func (s *Session) Reset(systemPrompt string) {
	s.history = schema.NewMessages()
	if systemPrompt != "" {
		s.history.AddSystem(systemPrompt)
	}
	s.Touch()
}

// Snapshot returns a copy of the history, waiting for a running turn to end.
func (s *Session) Snapshot() schema.Messages {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Clone()
}

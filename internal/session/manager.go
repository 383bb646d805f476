// Package session keeps per-conversation history in memory. Nothing is
// written to disk: a conversation lives as long as the process.
package session

import (
	"sort"
	"sync"
)

// Manager owns every live session. Sessions never share state.
type Manager struct {
	cache sync.Map // key → *Session
}

func NewManager() *Manager {
	return &Manager{}
}

// GetOrCreate returns the session for key, creating an empty one if needed.
func (m *Manager) GetOrCreate(key string) *Session {
	if v, ok := m.cache.Load(key); ok {
		return v.(*Session)
	}
	actual, _ := m.cache.LoadOrStore(key, newSession(key))
	return actual.(*Session)
}

// Get returns the session for key, if it exists.
func (m *Manager) Get(key string) (*Session, bool) {
	v, ok := m.cache.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Delete forgets the session for key.
func (m *Manager) Delete(key string) {
	m.cache.Delete(key)
}

// Keys returns the keys of all live sessions, sorted.
func (m *Manager) Keys() []string {
	var keys []string
	m.cache.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

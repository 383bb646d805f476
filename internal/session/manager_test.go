package session

import (
	"sync"
	"testing"
)

func TestGetOrCreate_ReturnsSameSession(t *testing.T) {
	m := NewManager()
	a := m.GetOrCreate("cli:direct")
	b := m.GetOrCreate("cli:direct")
	if a != b {
		t.Fatal("expected the same session for the same key")
	}
	if c := m.GetOrCreate("ws:1"); c == a {
		t.Fatal("expected distinct sessions for distinct keys")
	}
	if keys := m.Keys(); len(keys) != 2 || keys[0] != "cli:direct" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	got := make([]*Session, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = m.GetOrCreate("k")
		}(i)
	}
	wg.Wait()
	for _, s := range got {
		if s != got[0] {
			t.Fatal("concurrent callers received different sessions")
		}
	}
}

func TestReset_SeedsSystemPrompt(t *testing.T) {
	s := NewManager().GetOrCreate("k")
	s.Lock()
	s.History().AddUser("hello")
	s.Reset("be brief")
	s.Unlock()

	snap := s.Snapshot()
	if snap.Len() != 1 || snap.Messages[0].Role != "system" || snap.Messages[0].Content != "be brief" {
		t.Errorf("unexpected history after reset: %+v", snap.Messages)
	}
}

func TestDelete(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("k")
	m.Delete("k")
	if _, ok := m.Get("k"); ok {
		t.Error("expected session to be gone")
	}
}

func TestTryLock(t *testing.T) {
	s := NewManager().GetOrCreate("k")
	if !s.TryLock() {
		t.Fatal("expected first TryLock to succeed")
	}
	if s.TryLock() {
		t.Fatal("expected second TryLock to fail while held")
	}
	s.Unlock()
}

package snapshot

import (
	"context"
	"sync"

	"github.com/agentstation/deskbridge/pkg/errors"
)

// Memory is a Store held in process memory.
type Memory struct {
	mu   sync.RWMutex
	rows map[string]Snapshot
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rows: make(map[string]Snapshot)}
}

// Upsert implements Store.
func (m *Memory) Upsert(_ context.Context, s Snapshot) error {
	if s.Login == "" {
		return errors.NewValidationError("login", s.Login, "login is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.Login] = s
	return nil
}

// Find implements Store.
func (m *Memory) Find(_ context.Context, login string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.rows[login]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Len returns the number of stored rows.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}

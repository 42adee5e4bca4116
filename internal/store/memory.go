package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store with the same ordering contract as the
// SQLite backend. It backs tests and ephemeral deployments; nothing
// survives a restart.
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	messages []Message
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, sessionID, role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.messages = append(m.messages, Message{
		ID:        m.nextID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (m *Memory) History(_ context.Context, sessionID string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Message{}
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *Memory) AllSessions(_ context.Context) (map[string][]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := make(map[string][]Message)
	for _, msg := range m.messages {
		sessions[msg.SessionID] = append(sessions[msg.SessionID], msg)
	}
	return sessions, nil
}

func (m *Memory) Close() error { return nil }

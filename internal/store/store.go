// Package store persists per-session conversation history. Messages
// are append-only and read back in insertion order.
package store

import (
	"context"
	"time"
)

// Message roles. RoleSystem never appears in stored history written by
// this service; it is accepted on read for databases written by the
// previous implementation, which mislabeled assistant replies.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single persisted conversation turn.
type Message struct {
	ID        int64     `json:"-"`
	SessionID string    `json:"-"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// Store is the conversation history contract. A session comes into
// existence on its first Append; History of an unknown session is an
// empty slice, never an error.
type Store interface {
	// Append durably records one message with a server-assigned
	// timestamp before returning.
	Append(ctx context.Context, sessionID, role, content string) error

	// History returns a session's messages in insertion order.
	History(ctx context.Context, sessionID string) ([]Message, error)

	// AllSessions returns every session's messages, each in insertion
	// order, keyed by session id.
	AllSessions(ctx context.Context) (map[string][]Message, error)

	Close() error
}

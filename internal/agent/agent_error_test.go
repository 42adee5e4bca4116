package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sthorat/persona-chat/internal/config"
	"github.com/sthorat/persona-chat/internal/store"
)

type failingStore struct {
	store.Store
	historyErr error
	appendErr  error
}

func (f *failingStore) History(ctx context.Context, sessionID string) ([]store.Message, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.Store.History(ctx, sessionID)
}

func (f *failingStore) Append(ctx context.Context, sessionID, role, content string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.Store.Append(ctx, sessionID, role, content)
}

func TestChat_LLMError(t *testing.T) {
	mock := &mockLLM{err: context.DeadlineExceeded}
	a, mem := newTestAgent(t, mock, config.LLMConfig{})

	_, err := a.Chat(context.Background(), "s1", "hi")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)

	// A failed call must not persist the user turn.
	history, err := mem.History(context.Background(), "s1")
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestChat_EmptyCompletion(t *testing.T) {
	mock := &mockLLM{} // responds with zero choices
	a, _ := newTestAgent(t, mock, config.LLMConfig{})

	_, err := a.Chat(context.Background(), "s1", "hi")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestChat_HistoryLoadError(t *testing.T) {
	boom := errors.New("disk gone")
	mock := &mockLLM{replies: []string{"never sent"}}
	a := New(mock, &failingStore{Store: store.NewMemory(), historyErr: boom}, testPersona(t), config.LLMConfig{Model: "m"})

	_, err := a.Chat(context.Background(), "s1", "hi")
	var se *StorageError
	require.ErrorAs(t, err, &se)
	require.ErrorIs(t, err, boom)
	require.Empty(t, mock.requests, "no completion call after a failed history read")
}

func TestChat_AppendError(t *testing.T) {
	boom := errors.New("disk full")
	mock := &mockLLM{replies: []string{"reply"}}
	a := New(mock, &failingStore{Store: store.NewMemory(), appendErr: boom}, testPersona(t), config.LLMConfig{Model: "m"})

	_, err := a.Chat(context.Background(), "s1", "hi")
	var se *StorageError
	require.ErrorAs(t, err, &se)
}

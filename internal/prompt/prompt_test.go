package prompt

import (
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/sthorat/persona-chat/internal/store"
)

func TestAssemble(t *testing.T) {
	history := []store.Message{
		{Role: store.RoleUser, Content: "Hi"},
		{Role: store.RoleAssistant, Content: "Hello"},
	}

	messages := Assemble("be yourself", history, "What do you do?")
	require.Len(t, messages, 4)
	require.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	require.Equal(t, "be yourself", messages[0].Content)
	require.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	require.Equal(t, "Hi", messages[1].Content)
	require.Equal(t, openai.ChatMessageRoleAssistant, messages[2].Role)
	require.Equal(t, "Hello", messages[2].Content)
	require.Equal(t, openai.ChatMessageRoleUser, messages[3].Role)
	require.Equal(t, "What do you do?", messages[3].Content)
}

func TestAssemble_EmptyHistory(t *testing.T) {
	messages := Assemble("sys", nil, "first turn")
	require.Len(t, messages, 2)
	require.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	require.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
}

// Rows persisted under "system" by the previous implementation are
// assistant replies; they must replay as assistant, never as a second
// system message.
func TestAssemble_RemapsLegacySystemRows(t *testing.T) {
	history := []store.Message{
		{Role: store.RoleUser, Content: "Hi"},
		{Role: store.RoleSystem, Content: "mislabeled reply"},
	}

	messages := Assemble("sys", history, "next")
	require.Equal(t, openai.ChatMessageRoleAssistant, messages[2].Role)
	require.Equal(t, "mislabeled reply", messages[2].Content)
}

func TestAssemble_Deterministic(t *testing.T) {
	history := []store.Message{{Role: store.RoleUser, Content: "Hi"}}
	first := Assemble("sys", history, "msg")
	second := Assemble("sys", history, "msg")
	require.Equal(t, first, second)
}

func TestTail(t *testing.T) {
	history := []store.Message{
		{Content: "a"}, {Content: "b"}, {Content: "c"},
	}
	require.Equal(t, history, Tail(history, 0))
	require.Equal(t, history, Tail(history, 5))
	require.Equal(t, history[1:], Tail(history, 2))
}

// Package prompt builds the message list sent to the chat-completion
// endpoint: one system message, the replayed history, the new user
// turn. Pure functions, no truncation beyond the explicit Tail helper.
package prompt

import (
	"github.com/sashabaranov/go-openai"

	"github.com/sthorat/persona-chat/internal/store"
)

// Assemble returns system + history + user, preserving stored order
// and content verbatim. Replayed roles are limited to user/assistant:
// rows the previous implementation persisted under "system" were
// assistant replies and are remapped accordingly.
func Assemble(system string, history []store.Message, userMessage string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, m := range history {
		role := m.Role
		if role != store.RoleUser {
			role = store.RoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})
	return messages
}

// Tail returns the most recent limit messages; limit <= 0 returns the
// whole history.
func Tail(history []store.Message, limit int) []store.Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

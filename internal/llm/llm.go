package llm

import (
	"github.com/sashabaranov/go-openai"

	"github.com/sthorat/persona-chat/internal/config"
)

// NewClient creates the chat-completion client. The provider speaks
// the OpenAI wire protocol at a configurable base URL (Gemini's
// OpenAI-compatible endpoint by default). One client is constructed at
// startup and shared by every request; it holds no request state.
func NewClient(cfg config.LLMConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

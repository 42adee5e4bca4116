// Package agent orchestrates a single chat turn: load history,
// assemble the prompt, call the model, persist both new messages.
package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/qmuntal/stateless"
	"github.com/sashabaranov/go-openai"

	"github.com/sthorat/persona-chat/internal/config"
	"github.com/sthorat/persona-chat/internal/llm"
	"github.com/sthorat/persona-chat/internal/logger"
	"github.com/sthorat/persona-chat/internal/persona"
	"github.com/sthorat/persona-chat/internal/prompt"
	"github.com/sthorat/persona-chat/internal/store"
)

// FSM states of one chat turn.
type FSMState stateless.State

var (
	StateReceived        FSMState = "Received"
	StateHistoryLoaded   FSMState = "HistoryLoaded"
	StatePromptAssembled FSMState = "PromptAssembled"
	StateAwaitingReply   FSMState = "AwaitingReply"
	StatePersisted       FSMState = "Persisted"
	StateReplied         FSMState = "Replied" // Terminal: reply returned
	StateFailed          FSMState = "Failed"  // Terminal: error surfaced
)

// FSM triggers.
type FSMTrigger stateless.Trigger

var (
	TriggerHistoryLoaded FSMTrigger = "HistoryLoaded"
	TriggerPromptReady   FSMTrigger = "PromptReady"
	TriggerCallStarted   FSMTrigger = "CallStarted"
	TriggerPersisted     FSMTrigger = "Persisted"
	TriggerReplied       FSMTrigger = "Replied"
	TriggerFailed        FSMTrigger = "Failed"
)

// StorageError marks a conversation-store failure.
type StorageError struct{ Err error }

func (e *StorageError) Error() string { return "storage: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// UpstreamError marks a chat-completion provider failure.
type UpstreamError struct{ Err error }

func (e *UpstreamError) Error() string { return "upstream llm: " + e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// ErrEmptyCompletion is returned when the provider answers with no
// choices.
var ErrEmptyCompletion = errors.New("completion returned no choices")

// Agent coordinates the store, the prompt assembler, and the shared
// LLM client. Stateless across requests; every turn re-reads its
// session's full history.
type Agent struct {
	llmClient    llm.Client
	store        store.Store
	persona      *persona.Persona
	model        string
	timeout      time.Duration
	historyLimit int

	sessions sync.Map // session id -> *sync.Mutex
}

// New creates the orchestrator.
func New(llmClient llm.Client, st store.Store, p *persona.Persona, cfg config.LLMConfig) *Agent {
	return &Agent{
		llmClient:    llmClient,
		store:        st,
		persona:      p,
		model:        cfg.Model,
		timeout:      cfg.Timeout,
		historyLimit: cfg.HistoryLimit,
	}
}

// sessionLock returns the mutex serializing turns of one session.
// Locks are never removed; sessions at this scale number in the
// hundreds at most.
func (a *Agent) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := a.sessions.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// newTurnFSM wires the legal transitions of one chat turn. Every
// working state can fail; the happy path is strictly linear.
func newTurnFSM() *stateless.StateMachine {
	fsm := stateless.NewStateMachine(StateReceived)
	fsm.Configure(StateReceived).
		Permit(TriggerHistoryLoaded, StateHistoryLoaded).
		Permit(TriggerFailed, StateFailed)
	fsm.Configure(StateHistoryLoaded).
		Permit(TriggerPromptReady, StatePromptAssembled).
		Permit(TriggerFailed, StateFailed)
	fsm.Configure(StatePromptAssembled).
		Permit(TriggerCallStarted, StateAwaitingReply).
		Permit(TriggerFailed, StateFailed)
	fsm.Configure(StateAwaitingReply).
		Permit(TriggerPersisted, StatePersisted).
		Permit(TriggerFailed, StateFailed)
	fsm.Configure(StatePersisted).
		Permit(TriggerReplied, StateReplied).
		Permit(TriggerFailed, StateFailed)
	return fsm
}

// Chat runs one turn for a session and returns the assistant's reply.
// Turns of the same session are serialized; distinct sessions proceed
// concurrently.
func (a *Agent) Chat(ctx context.Context, sessionID, message string) (string, error) {
	mu := a.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	fsm := newTurnFSM()
	fail := func(err error) (string, error) {
		if fireErr := fsm.FireCtx(ctx, TriggerFailed); fireErr != nil {
			logger.L.Warn("turn fsm fire error", "error", fireErr)
		}
		return "", err
	}

	history, err := a.store.History(ctx, sessionID)
	if err != nil {
		return fail(&StorageError{Err: err})
	}
	if err := fsm.FireCtx(ctx, TriggerHistoryLoaded); err != nil {
		return fail(err)
	}

	messages := prompt.Assemble(a.persona.SystemPrompt(), prompt.Tail(history, a.historyLimit), message)
	if err := fsm.FireCtx(ctx, TriggerPromptReady); err != nil {
		return fail(err)
	}

	if err := fsm.FireCtx(ctx, TriggerCallStarted); err != nil {
		return fail(err)
	}
	reply, err := a.complete(ctx, messages)
	if err != nil {
		return fail(&UpstreamError{Err: err})
	}

	// User turn first, then the reply. A crash between the two leaves
	// a user message without its reply, which is detectable and not
	// corruption.
	if err := a.store.Append(ctx, sessionID, store.RoleUser, message); err != nil {
		return fail(&StorageError{Err: err})
	}
	if err := a.store.Append(ctx, sessionID, store.RoleAssistant, reply); err != nil {
		return fail(&StorageError{Err: err})
	}
	if err := fsm.FireCtx(ctx, TriggerPersisted); err != nil {
		return fail(err)
	}

	if err := fsm.FireCtx(ctx, TriggerReplied); err != nil {
		return fail(err)
	}
	logger.L.Debug("turn complete", "session_id", sessionID, "history_len", len(history))
	return reply, nil
}

// complete makes the single synchronous chat-completion call, bounded
// by the configured timeout. No retry.
func (a *Agent) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	resp, err := a.llmClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

package main

import (
	"net"
	"os"

	"github.com/sthorat/persona-chat/internal/agent"
	"github.com/sthorat/persona-chat/internal/config"
	"github.com/sthorat/persona-chat/internal/llm"
	"github.com/sthorat/persona-chat/internal/logger"
	"github.com/sthorat/persona-chat/internal/persona"
	"github.com/sthorat/persona-chat/internal/server"
	"github.com/sthorat/persona-chat/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Log.Level)

	// The persona documents are the whole point of the service; refuse
	// to start without them.
	p, err := persona.Load(cfg.Persona)
	if err != nil {
		logger.L.Error("failed to load persona documents", "error", err)
		os.Exit(1)
	}
	logger.L.Info("persona loaded", "name", p.Name())

	st, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		logger.L.Error("failed to open conversation store", "error", err, "path", cfg.Store.Path)
		os.Exit(1)
	}
	defer st.Close()

	llmClient := llm.NewClient(cfg.LLM)
	orchestrator := agent.New(llmClient, st, p, cfg.LLM)
	srv := server.New(orchestrator, st, cfg.CORS)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	if err := srv.Run(addr); err != nil {
		logger.L.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sthorat/persona-chat/internal/agent"
	"github.com/sthorat/persona-chat/internal/logger"
)

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

func (srv *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the AI Chatbot API!"})
}

func (srv *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (srv *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message and session_id are required"})
		return
	}

	reply, err := srv.agent.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		log := logger.WithRequest(c.GetString(requestIDKey))
		log.Error("chat turn failed", "session_id", req.SessionID, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

func (srv *Server) allSessions(c *gin.Context) {
	sessions, err := srv.store.AllSessions(c.Request.Context())
	if err != nil {
		logger.WithRequest(c.GetString(requestIDKey)).Error("list sessions failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// statusFor maps orchestrator error kinds to HTTP statuses: provider
// failures are a bad gateway, storage failures are internal.
func statusFor(err error) int {
	var upstream *agent.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

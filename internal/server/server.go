// Package server is the HTTP delivery layer: route registration,
// CORS, request correlation, and error-to-status mapping.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sthorat/persona-chat/internal/config"
	"github.com/sthorat/persona-chat/internal/logger"
	"github.com/sthorat/persona-chat/internal/store"
)

// Chatter runs one conversation turn. Satisfied by *agent.Agent.
type Chatter interface {
	Chat(ctx context.Context, sessionID, message string) (string, error)
}

// Server holds the HTTP dependencies.
type Server struct {
	engine *gin.Engine
	agent  Chatter
	store  store.Store
}

// New builds the gin engine with all middlewares and routes
// registered.
func New(chatter Chatter, st store.Store, corsCfg config.CORSConfig) *Server {
	srv := &Server{
		engine: gin.New(),
		agent:  chatter,
		store:  st,
	}
	srv.registerMiddlewares(corsCfg)
	srv.registerRoutes()
	return srv
}

// Handler exposes the underlying engine for net/http and tests.
func (srv *Server) Handler() http.Handler {
	return srv.engine
}

// Run serves until the listener fails.
func (srv *Server) Run(addr string) error {
	logger.L.Info("starting server", "address", addr)
	return srv.engine.Run(addr)
}

func (srv *Server) registerMiddlewares(corsCfg config.CORSConfig) {
	srv.engine.Use(gin.Recovery())
	srv.engine.Use(requestID())

	if len(corsCfg.AllowedOrigins) > 0 {
		srv.engine.Use(cors.New(cors.Config{
			AllowOrigins:     corsCfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
}

func (srv *Server) registerRoutes() {
	srv.engine.GET("/", srv.root)
	srv.engine.GET("/health", srv.healthCheck)
	srv.engine.POST("/ai/chat", srv.chat)
	srv.engine.GET("/all-sessions", srv.allSessions)
}

const requestIDKey = "request_id"

// requestID tags every request with a correlation id, echoed in the
// X-Request-Id response header and the request log line.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header("X-Request-Id", id)

		start := time.Now()
		c.Next()
		logger.WithRequest(id).Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

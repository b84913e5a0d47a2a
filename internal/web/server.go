// Package web serves the browser chat front-end: a small JSON API plus an
// embedded single-page client. Chat history lives on the client and is
// posted with every query.
package web

import (
	"embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xaenox/support-bot/internal/models"
	"github.com/xaenox/support-bot/internal/resolver"
	"go.uber.org/zap"
)

//go:embed static
var staticFS embed.FS

type Server struct {
	engine   *gin.Engine
	resolver *resolver.Resolver
	logger   *zap.Logger
}

func NewServer(res *resolver.Resolver, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   gin.New(),
		resolver: res,
		logger:   logger,
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/tickets", s.handleCreateTicket)
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	s.logger.Info("web server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

type ChatRequest struct {
	Query   string               `json:"query" binding:"required"`
	History []models.ChatMessage `json:"history"`
}

type TicketRequest struct {
	Query   string `json:"query" binding:"required"`
	Contact string `json:"contact"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	resp := s.resolver.GetResponse(c.Request.Context(), req.Query, req.History)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreateTicket(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	ticket, err := s.resolver.CreateTicket(c.Request.Context(), req.Query, req.Contact)
	if err != nil {
		s.logger.Error("failed to create ticket", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create ticket"})
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "chat page unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		s.logger.Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

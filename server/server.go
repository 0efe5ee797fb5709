package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/loreforge/npcchat/chat"
	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/logging"
	"github.com/loreforge/npcchat/model"
	"github.com/loreforge/npcchat/persona"
)

// Options configure the Server.
type Options struct {
	Logger logging.Logger
}

// Server wires the coordinator, catalog and (optional) session store into an
// HTTP API. A nil store marks the vault as not configured; vault endpoints
// then answer 503.
type Server struct {
	echo        *echo.Echo
	coordinator *chat.Coordinator
	catalog     *persona.Catalog
	store       core.SessionStore
	logger      logging.Logger
}

// New creates a Server with routes registered.
func New(coordinator *chat.Coordinator, catalog *persona.Catalog, store core.SessionStore, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), middleware.CORS())

	s := &Server{echo: e, coordinator: coordinator, catalog: catalog, store: store, logger: opts.Logger}
	s.setupRoutes()
	return s
}

// Start begins serving on addr and blocks until shutdown or failure.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	api.POST("/agent/:agentID", s.handleTurn)
	api.GET("/agents", s.handleListAgents)

	api.GET("/vault/status", s.handleVaultStatus)
	api.GET("/vault/conversations", s.handleListConversations)
	api.GET("/vault/conversations/:agentID", s.handleListConversationsByAgent)
	api.GET("/vault/conversation/:conversationID", s.handleGetConversation)
	api.POST("/vault/conversation", s.handleSaveConversation)
	api.DELETE("/vault/conversation/:conversationID", s.handleDeleteConversation)

	s.echo.GET("/health", s.handleHealth)
}

// historyMessage is the inbound wire shape for prior turns.
type historyMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

type turnRequest struct {
	Prompt              string           `json:"prompt"`
	ConversationHistory []historyMessage `json:"conversationHistory"`
	UserID              string           `json:"userId"`
	SessionID           string           `json:"sessionId"`
}

type turnResponse struct {
	Agent      string            `json:"agent"`
	Response   string            `json:"response"`
	Usage      *model.TokenUsage `json:"usage,omitempty"`
	SessionID  string            `json:"sessionId,omitempty"`
	VaultError string            `json:"vaultError,omitempty"`
}

func (s *Server) handleTurn(c echo.Context) error {
	var req turnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}
	if req.Prompt == "" {
		return c.JSON(http.StatusBadRequest, errorBody("Prompt is required"))
	}

	history := make([]core.Message, len(req.ConversationHistory))
	for i, m := range req.ConversationHistory {
		history[i] = core.Message{Role: core.Role(m.Role), Content: m.Content, Timestamp: m.Timestamp}
	}

	result, err := s.coordinator.Turn(c.Request().Context(), chat.TurnRequest{
		UserID:    req.UserID,
		NPCID:     c.Param("agentID"),
		Prompt:    req.Prompt,
		SessionID: req.SessionID,
		History:   history,
	})
	if err != nil {
		s.logger.Error("turn failed", "agent_id", c.Param("agentID"), "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to process request"))
	}

	resp := turnResponse{
		Agent:     result.Agent,
		Response:  result.Reply,
		Usage:     result.Usage,
		SessionID: result.SessionID,
	}
	if result.PersistErr != nil {
		resp.VaultError = "Failed to save conversation"
	}
	return c.JSON(http.StatusOK, resp)
}

type agentSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Personality string `json:"personality"`
}

func (s *Server) handleListAgents(c echo.Context) error {
	configs := s.catalog.List()
	agents := make([]agentSummary, len(configs))
	for i, cfg := range configs {
		agents[i] = agentSummary{ID: cfg.ID, Name: cfg.Name, Personality: cfg.Summary()}
	}
	return c.JSON(http.StatusOK, map[string]any{"agents": agents})
}

// pinger is implemented by stores that can verify backend reachability.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleVaultStatus(c echo.Context) error {
	if s.store == nil {
		return c.JSON(http.StatusOK, map[string]any{"enabled": false})
	}
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusOK, map[string]any{
				"enabled": false,
				"error":   "Vault configured but failed to initialize",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"enabled": true})
}

func (s *Server) handleListConversations(c echo.Context) error {
	if s.store == nil {
		return vaultUnavailable(c)
	}
	userID := queryUserID(c)
	records, err := s.store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return s.storeError(c, err, "Failed to retrieve conversations")
	}
	return c.JSON(http.StatusOK, map[string]any{"conversations": records})
}

func (s *Server) handleListConversationsByAgent(c echo.Context) error {
	if s.store == nil {
		return vaultUnavailable(c)
	}
	userID := queryUserID(c)
	records, err := s.store.ListByUserAndNPC(c.Request().Context(), userID, c.Param("agentID"))
	if err != nil {
		return s.storeError(c, err, "Failed to retrieve conversations")
	}
	return c.JSON(http.StatusOK, map[string]any{"conversations": records})
}

func (s *Server) handleGetConversation(c echo.Context) error {
	if s.store == nil {
		return vaultUnavailable(c)
	}
	record, err := s.store.Get(c.Request().Context(), c.Param("conversationID"))
	if err != nil {
		return s.storeError(c, err, "Failed to retrieve conversation")
	}
	return c.JSON(http.StatusOK, map[string]any{"conversation": record})
}

type saveConversationRequest struct {
	UserID   string         `json:"userId"`
	AgentID  string         `json:"agentId"`
	Messages []core.Message `json:"messages"`
}

func (s *Server) handleSaveConversation(c echo.Context) error {
	if s.store == nil {
		return vaultUnavailable(c)
	}
	var req saveConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}
	if req.AgentID == "" || len(req.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request data"))
	}
	userID := req.UserID
	if userID == "" {
		userID = chat.AnonymousUserID
	}
	id, err := s.store.Save(c.Request().Context(), userID, req.AgentID, req.Messages)
	if err != nil {
		return s.storeError(c, err, "Failed to save conversation")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "conversationId": id})
}

func (s *Server) handleDeleteConversation(c echo.Context) error {
	if s.store == nil {
		return vaultUnavailable(c)
	}
	if err := s.store.Delete(c.Request().Context(), c.Param("conversationID")); err != nil {
		return s.storeError(c, err, "Failed to delete conversation")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

func queryUserID(c echo.Context) string {
	if userID := c.QueryParam("userId"); userID != "" {
		return userID
	}
	return chat.AnonymousUserID
}

// storeError maps store failures to status codes: 503 while the vault cannot
// initialize, 404 for missing records, 500 otherwise.
func (s *Server) storeError(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, core.ErrStoreNotInitialized):
		return vaultUnavailable(c)
	case errors.Is(err, core.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody("Conversation not found"))
	default:
		s.logger.Error("vault operation failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorBody(msg))
	}
}

func vaultUnavailable(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, errorBody("Vault service not available"))
}

func errorBody(msg string) map[string]any {
	return map[string]any{"error": msg}
}

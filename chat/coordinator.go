package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/logging"
	"github.com/loreforge/npcchat/model"
	"github.com/loreforge/npcchat/orchestrator"
	"github.com/loreforge/npcchat/persona"
)

// AnonymousUserID is assumed when a turn arrives without a user id.
const AnonymousUserID = "anonymous"

// TurnRequest is one user-message-in cycle addressed to a persona.
type TurnRequest struct {
	UserID    string
	NPCID     string
	Prompt    string
	SessionID string // optional; continues an existing session
	History   []core.Message
}

// TurnResult is the outcome of a turn. Reply is always populated; SessionID
// is empty when persistence is disabled or failed, and PersistErr carries the
// advisory persistence failure without failing the turn.
type TurnResult struct {
	Agent      string
	Reply      string
	Usage      *model.TokenUsage
	SessionID  string
	PersistErr error
}

// Options configure the Coordinator.
type Options struct {
	Logger logging.Logger
}

// Coordinator runs turns end-to-end. A nil store disables persistence
// entirely; turns still succeed and return no session id.
type Coordinator struct {
	catalog *persona.Catalog
	orch    *orchestrator.Orchestrator
	store   core.SessionStore
	logger  logging.Logger
}

// NewCoordinator wires the catalog, orchestrator and (optional) store.
func NewCoordinator(catalog *persona.Catalog, orch *orchestrator.Orchestrator, store core.SessionStore, optFns ...func(o *Options)) *Coordinator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Coordinator{catalog: catalog, orch: orch, store: store, logger: opts.Logger}
}

// PersistenceEnabled reports whether turns are persisted.
func (c *Coordinator) PersistenceEnabled() bool { return c.store != nil }

// Turn runs one user-message-in, assistant-message-out cycle.
//
// The reply is produced first and is never lost to a persistence failure.
// When a session id is supplied and still exists in the store, the same
// record is updated so the id stays stable across turns; otherwise a new
// record (and id) is created.
func (c *Coordinator) Turn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	userID := req.UserID
	if userID == "" {
		userID = AnonymousUserID
	}
	cfg := c.catalog.Resolve(req.NPCID)

	now := time.Now().UTC()
	userMsg := core.Message{Role: core.RoleUser, Content: req.Prompt, Timestamp: now}

	conv := core.NewConversation(userID, req.NPCID, req.History)
	conv.Append(userMsg)

	reply := c.orch.GenerateReply(ctx, conv, cfg)
	result := &TurnResult{Agent: cfg.Name, Reply: reply.Text, Usage: reply.Usage}

	if c.store == nil {
		return result, nil
	}

	assistantMsg := core.Message{Role: core.RoleAssistant, Content: reply.Text, Timestamp: time.Now().UTC()}
	complete := make([]core.Message, 0, len(req.History)+2)
	complete = append(complete, core.StampedMessages(req.History, now)...)
	complete = append(complete, userMsg, assistantMsg)

	sessionID, err := c.store.Resume(ctx, req.SessionID, userID, req.NPCID, complete)
	if err != nil {
		c.logger.Warn("failed to persist conversation",
			"user_id", userID,
			"npc_id", req.NPCID,
			"session_id", req.SessionID,
			"error", err.Error(),
		)
		result.PersistErr = err
		return result, nil
	}
	result.SessionID = sessionID
	return result, nil
}

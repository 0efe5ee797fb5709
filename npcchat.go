// Package npcchat provides a high-level façade over the conversation
// coordinator and service abstractions (personas, provider models, session
// storage & logging) enabling rapid construction of persona-driven NPC chat
// systems. Most applications interact with this package by:
//  1. Creating an NPCChat via New() (optionally overriding default services)
//  2. Registering provider models (OpenAI, Anthropic, local — or mocks)
//  3. Running conversational turns (Turn)
//
// The façade delegates per-turn orchestration to chat.Coordinator while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply the
// vault-backed session store and a structured logger.
package npcchat

import (
	"context"
	"time"

	"github.com/loreforge/npcchat/chat"
	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/logging"
	"github.com/loreforge/npcchat/model"
	"github.com/loreforge/npcchat/orchestrator"
	"github.com/loreforge/npcchat/persona"
	"github.com/loreforge/npcchat/session"
)

// Options configures the NPCChat instance.
type Options struct {
	// Catalog resolves agent ids to persona configurations
	// (defaults to the built-in roster).
	Catalog *persona.Catalog

	// Models maps provider families to their implementations. Providers
	// without a model answer with their fallback apology.
	Models map[persona.Provider]model.Model

	// Fallbacks overrides the per-provider-family apology strings.
	Fallbacks map[persona.Provider]string

	// ProviderTimeout bounds each outbound model call.
	ProviderTimeout time.Duration

	// SessionStore persists conversation transcripts (defaults to an
	// in-memory store; set nil explicitly to disable persistence).
	SessionStore core.SessionStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// NPCChat is the high-level façade aggregating the coordinator and services.
type NPCChat struct {
	opts        Options
	orch        *orchestrator.Orchestrator
	coordinator *chat.Coordinator
}

// New creates a new NPCChat instance with optional overrides. Any unset
// service is initialized with a safe local default.
func New(optFns ...func(o *Options)) *NPCChat {
	opts := Options{
		Catalog:         persona.DefaultCatalog(),
		Models:          map[persona.Provider]model.Model{},
		Fallbacks:       orchestrator.DefaultFallbacks(),
		ProviderTimeout: orchestrator.DefaultTimeout,
		SessionStore:    session.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Models = opts.Models
		o.Fallbacks = opts.Fallbacks
		o.Timeout = opts.ProviderTimeout
		o.Logger = opts.Logger
	})

	coordinator := chat.NewCoordinator(opts.Catalog, orch, opts.SessionStore, func(o *chat.Options) {
		o.Logger = opts.Logger
	})

	return &NPCChat{opts: opts, orch: orch, coordinator: coordinator}
}

// RegisterModel adds or replaces the model implementation for a provider family.
func (n *NPCChat) RegisterModel(p persona.Provider, m model.Model) { n.orch.Register(p, m) }

// Turn runs one conversational turn end-to-end.
func (n *NPCChat) Turn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error) {
	return n.coordinator.Turn(ctx, req)
}

// Catalog returns the persona catalog in use.
func (n *NPCChat) Catalog() *persona.Catalog { return n.opts.Catalog }

// SessionStore returns the configured session store (nil when persistence is
// disabled).
func (n *NPCChat) SessionStore() core.SessionStore { return n.opts.SessionStore }

// Coordinator returns the underlying per-turn coordinator.
func (n *NPCChat) Coordinator() *chat.Coordinator { return n.coordinator }

package orchestrator

import (
	"context"
	"time"

	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/logging"
	"github.com/loreforge/npcchat/model"
	"github.com/loreforge/npcchat/persona"
)

// Fallback apology strings, one per provider family. The conversational
// contract requires some in-character reply on every call, so these replace
// any provider failure verbatim.
const (
	FallbackOpenAI    = "I seem to be at a loss for words right now."
	FallbackAnthropic = "My thoughts are clouded at the moment."
	FallbackLocal     = "I cannot find the words to respond right now."
)

// DefaultTimeout bounds a single provider call. The upstream design had no
// timeout at all; one is required here so a hung provider cannot stall a turn
// indefinitely.
const DefaultTimeout = 30 * time.Second

// DefaultFallbacks returns the stock provider-family apology table.
func DefaultFallbacks() map[persona.Provider]string {
	return map[persona.Provider]string{
		persona.ProviderOpenAI:    FallbackOpenAI,
		persona.ProviderAnthropic: FallbackAnthropic,
		persona.ProviderLocal:     FallbackLocal,
	}
}

// Options configure the Orchestrator.
type Options struct {
	// Models maps each provider family to its implementation.
	Models map[persona.Provider]model.Model
	// Fallbacks overrides the apology string per provider family.
	Fallbacks map[persona.Provider]string
	// Timeout bounds each provider call.
	Timeout time.Duration
	// Logger receives provider failures; defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator routes conversations to provider models and guarantees a reply.
type Orchestrator struct {
	models    map[persona.Provider]model.Model
	fallbacks map[persona.Provider]string
	timeout   time.Duration
	logger    logging.Logger
}

// New creates an Orchestrator. Providers without a registered model fall back
// to the apology string for their family (the catalog rejects unknown
// providers at load time, so this only covers partial deployments, e.g. no
// local endpoint configured).
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Models:    map[persona.Provider]model.Model{},
		Fallbacks: DefaultFallbacks(),
		Timeout:   DefaultTimeout,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		models:    opts.Models,
		fallbacks: opts.Fallbacks,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}
}

// Register adds or replaces the model implementation for a provider family.
func (o *Orchestrator) Register(p persona.Provider, m model.Model) {
	o.models[p] = m
}

// GenerateReply turns the conversation into a reply using the persona's
// provider. It never fails: any provider error yields the family's fallback
// apology with nil usage. The conversation is not mutated.
func (o *Orchestrator) GenerateReply(ctx context.Context, conv *core.Conversation, cfg persona.Config) *model.Reply {
	m, ok := o.models[cfg.Provider]
	if !ok {
		o.logger.Error("no model registered for provider", "provider", string(cfg.Provider), "npc_id", conv.SessionInfo.NPCID)
		return &model.Reply{Text: o.fallback(cfg.Provider)}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := model.Request{
		SystemPrompt: cfg.SystemPrompt,
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		Messages:     conv.Messages,
	}

	start := time.Now()
	reply, err := m.Generate(callCtx, req)
	if err != nil {
		o.logger.Error("llm call failed",
			"provider", string(cfg.Provider),
			"model", cfg.Model,
			"npc_id", conv.SessionInfo.NPCID,
			"duration", time.Since(start).String(),
			"error", err.Error(),
		)
		return &model.Reply{Text: o.fallback(cfg.Provider)}
	}
	o.logger.Debug("llm call completed",
		"provider", string(cfg.Provider),
		"model", cfg.Model,
		"duration", time.Since(start).String(),
	)
	return reply
}

func (o *Orchestrator) fallback(p persona.Provider) string {
	if s, ok := o.fallbacks[p]; ok {
		return s
	}
	return FallbackOpenAI
}

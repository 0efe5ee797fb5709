package model

import (
	"context"
	"fmt"

	"github.com/loreforge/npcchat/core"
)

// Request captures the normalized model input produced from a conversation
// and its persona configuration. The system prompt is carried separately
// because providers disagree about where it belongs on the wire.
type Request struct {
	SystemPrompt string         `json:"system_prompt"`
	Model        string         `json:"model"`
	Temperature  float64        `json:"temperature"`
	Messages     []core.Message `json:"messages"`
}

// TokenUsage captures token usage statistics for a reply. Informational only;
// it is never persisted with the conversation.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Reply is the normalized model output. Usage is nil when the provider does
// not report it; its absence never fails a call.
type Reply struct {
	Text  string      `json:"text"`
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Provider string `json:"provider"` // "openai", "anthropic", "local"
}

// Model is the minimal interface required to drive generation for one
// provider family.
type Model interface {
	Generate(ctx context.Context, req Request) (*Reply, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
	usage     *TokenUsage
	err       error
}

// NewMockModel constructs a MockModel for the given provider family.
func NewMockModel(provider string) *MockModel {
	return &MockModel{
		info:      Info{Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// SetUsage attaches canned token usage to every reply.
func (m *MockModel) SetUsage(u *TokenUsage) { m.usage = u }

// FailWith forces every Generate call to return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Generate implements Model; replies to the last message in the request.
func (m *MockModel) Generate(_ context.Context, req Request) (*Reply, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1].Content
	text := m.responses[last]
	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", last)
	}
	return &Reply{Text: text, Usage: m.usage}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }

// Package anthropic provides a model wrapper for the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/model"
)

// maxTokens is part of the outbound wire contract for NPC dialogue.
const maxTokens = 500

// Options configure the Anthropic model adapter.
type Options struct {
	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey string
	// BaseURL points the client at a compatible non-default endpoint.
	BaseURL string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := anthropic.NewClient(clientOpts...)
	return NewModelFromClient(&client)
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client) *Model {
	return &Model{client: client}
}

// Generate issues one messages request and normalizes the reply.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Reply, error) {
	resp, err := m.client.Messages.New(ctx, buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}
	return extract(resp)
}

// buildParams assembles the request: the persona prompt rides in the
// top-level system field, never as a system role inside the message list.
func buildParams(req model.Request) anthropic.MessageNewParams {
	var messages []anthropic.MessageParam
	for _, msg := range req.Messages {
		switch msg.Role {
		case core.RoleSystem:
			// System content is top-level only for this API family.
			continue
		case core.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		System:      []anthropic.TextBlockParam{{Text: req.SystemPrompt}},
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
	}
}

// extract normalizes the first text content block plus token usage.
func extract(resp *anthropic.Message) (*model.Reply, error) {
	reply := &model.Reply{}
	for _, block := range resp.Content {
		if block.Type == "text" {
			reply.Text = block.AsText().Text
			break
		}
	}
	if reply.Text == "" {
		return nil, fmt.Errorf("no text content returned")
	}
	if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
		reply.Usage = &model.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		}
	}
	return reply, nil
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Provider: "anthropic"}
}

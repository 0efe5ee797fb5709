// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. It adapts npcchat's normalized Request/Reply
// structures into the SDK's message format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Fixed sampling parameters for NPC dialogue. These are part of the outbound
// wire contract and must match the documented request shape exactly.
const (
	maxTokens        = 500
	presencePenalty  = 0.6
	frequencyPenalty = 0.5
)

// Options configure the OpenAI model adapter.
type Options struct {
	// APIKey overrides the OPENAI_API_KEY environment variable.
	APIKey string
	// BaseURL points the client at a compatible non-default endpoint.
	BaseURL string
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
}

// NewModel creates a new OpenAI model using the official client.
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
	client := openai.NewClient(clientOpts...)
	return NewModelFromClient(&client)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client) *Model {
	return &Model{client: client}
}

// Generate issues one chat completion request and normalizes the reply.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Reply, error) {
	resp, err := m.client.Chat.Completions.New(ctx, buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	return extract(resp)
}

// buildParams assembles the request: the persona system message first, then
// the history mapped to role messages, with the fixed sampling parameters.
func buildParams(req model.Request) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	for _, msg := range req.Messages {
		switch msg.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return openai.ChatCompletionNewParams{
		Model:            openai.ChatModel(req.Model),
		Messages:         messages,
		Temperature:      openai.Float(req.Temperature),
		MaxTokens:        openai.Int(maxTokens),
		PresencePenalty:  openai.Float(presencePenalty),
		FrequencyPenalty: openai.Float(frequencyPenalty),
	}
}

// extract normalizes the first choice's content plus token usage when present.
func extract(resp *openai.ChatCompletion) (*model.Reply, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}
	reply := &model.Reply{Text: resp.Choices[0].Message.Content}
	if resp.Usage.TotalTokens > 0 {
		reply.Usage = &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}
	return reply, nil
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Provider: "openai"}
}

// Package local provides a model wrapper for a locally hosted completion
// endpoint (Ollama-style /api/generate). The conversation is flattened into a
// single prompt string because these endpoints take no structured history.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/loreforge/npcchat/model"
)

// maxTokens is part of the outbound wire contract for NPC dialogue.
const maxTokens = 500

// DefaultEndpoint is the conventional local generation endpoint.
const DefaultEndpoint = "http://localhost:11434/api/generate"

// Options configure the local model adapter.
type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	// Timeout bounds each generation call when no HTTPClient is supplied.
	Timeout time.Duration
}

// Model wraps a local completion endpoint behind the generic model.Model interface.
type Model struct {
	endpoint string
	client   *http.Client
}

// NewModel creates a new local model adapter.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Endpoint: DefaultEndpoint,
		Timeout:  60 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Model{endpoint: opts.Endpoint, client: client}
}

// generateRequest is the wire shape for the local endpoint.
type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// generateResponse carries the raw completion text.
type generateResponse struct {
	Response string `json:"response"`
}

// Generate issues one completion request and returns the response verbatim.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Reply, error) {
	body, err := json.Marshal(generateRequest{
		Model:       req.Model,
		Prompt:      BuildPrompt(req),
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("local llm call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("local llm error: status %d: %s", resp.StatusCode, snippet)
	}
	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	// Local endpoints report no token usage; its absence never fails the call.
	return &model.Reply{Text: gr.Response}, nil
}

// BuildPrompt flattens the system prompt and history into a single prompt
// string: the system prompt, a blank line, then one "role: content" line per
// message.
func BuildPrompt(req model.Request) string {
	var b strings.Builder
	b.WriteString(req.SystemPrompt)
	b.WriteString("\n\n")
	for i, msg := range req.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// Info returns metadata describing this local model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Provider: "local"}
}

package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/model"
	"github.com/loreforge/npcchat/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConv(prompt string) *core.Conversation {
	conv := core.NewConversation("u1", "guard-1234", nil)
	conv.Append(core.Message{Role: core.RoleUser, Content: prompt})
	return conv
}

func TestGenerateReply_Success(t *testing.T) {
	mock := model.NewMockModel("openai")
	mock.AddResponse("Halt!", "State your business.")
	mock.SetUsage(&model.TokenUsage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16})

	orch := New(func(o *Options) {
		o.Models = map[persona.Provider]model.Model{persona.ProviderOpenAI: mock}
	})

	cfg := persona.Config{ID: "guard-1234", Provider: persona.ProviderOpenAI, Model: "gpt-3.5-turbo"}
	reply := orch.GenerateReply(context.Background(), newConv("Halt!"), cfg)

	require.NotNil(t, reply)
	assert.Equal(t, "State your business.", reply.Text)
	require.NotNil(t, reply.Usage)
	assert.Equal(t, 16, reply.Usage.TotalTokens)
}

func TestGenerateReply_ProviderFailureYieldsFamilyFallback(t *testing.T) {
	tests := []struct {
		provider persona.Provider
		want     string
	}{
		{persona.ProviderOpenAI, "I seem to be at a loss for words right now."},
		{persona.ProviderAnthropic, "My thoughts are clouded at the moment."},
		{persona.ProviderLocal, "I cannot find the words to respond right now."},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			mock := model.NewMockModel(string(tt.provider))
			mock.FailWith(errors.New("api exploded"))

			orch := New(func(o *Options) {
				o.Models = map[persona.Provider]model.Model{tt.provider: mock}
			})

			reply := orch.GenerateReply(context.Background(), newConv("hi"), persona.Config{Provider: tt.provider})
			assert.Equal(t, tt.want, reply.Text)
			assert.Nil(t, reply.Usage)
		})
	}
}

func TestGenerateReply_UnregisteredProviderFallsBack(t *testing.T) {
	orch := New()
	reply := orch.GenerateReply(context.Background(), newConv("hi"), persona.Config{Provider: persona.ProviderLocal})
	assert.Equal(t, FallbackLocal, reply.Text)
}

func TestGenerateReply_FallbackOverride(t *testing.T) {
	orch := New(func(o *Options) {
		o.Fallbacks = map[persona.Provider]string{persona.ProviderOpenAI: "The guard stares silently."}
	})
	reply := orch.GenerateReply(context.Background(), newConv("hi"), persona.Config{Provider: persona.ProviderOpenAI})
	assert.Equal(t, "The guard stares silently.", reply.Text)
}

// slowModel blocks until its context is canceled.
type slowModel struct{}

func (slowModel) Generate(ctx context.Context, _ model.Request) (*model.Reply, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowModel) Info() model.Info { return model.Info{Provider: "openai"} }

func TestGenerateReply_TimeoutFallsBack(t *testing.T) {
	orch := New(func(o *Options) {
		o.Models = map[persona.Provider]model.Model{persona.ProviderOpenAI: slowModel{}}
		o.Timeout = 10 * time.Millisecond
	})

	start := time.Now()
	reply := orch.GenerateReply(context.Background(), newConv("hi"), persona.Config{Provider: persona.ProviderOpenAI})
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, FallbackOpenAI, reply.Text)
}

func TestRegister_ReplacesModel(t *testing.T) {
	orch := New()
	mock := model.NewMockModel("openai")
	mock.AddResponse("hi", "hello")
	orch.Register(persona.ProviderOpenAI, mock)

	reply := orch.GenerateReply(context.Background(), newConv("hi"), persona.Config{Provider: persona.ProviderOpenAI})
	assert.Equal(t, "hello", reply.Text)
}

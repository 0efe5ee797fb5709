package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loreforge/npcchat/chat"
	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/model"
	"github.com/loreforge/npcchat/orchestrator"
	"github.com/loreforge/npcchat/persona"
	"github.com/loreforge/npcchat/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store core.SessionStore) (*Server, *model.MockModel) {
	t.Helper()
	mock := model.NewMockModel("openai")
	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Models = map[persona.Provider]model.Model{persona.ProviderOpenAI: mock}
	})
	catalog := persona.DefaultCatalog()
	coord := chat.NewCoordinator(catalog, orch, store)
	return New(coord, catalog, store), mock
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHandleTurn(t *testing.T) {
	srv, mock := newTestServer(t, session.NewInMemoryStore())
	mock.AddResponse("Halt!", "State your business.")
	mock.SetUsage(&model.TokenUsage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16})

	rec, body := doJSON(t, srv, http.MethodPost, "/api/agent/guard-1234",
		`{"prompt":"Halt!","userId":"u1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "State your business.", body["response"])
	assert.NotEmpty(t, body["agent"])
	assert.NotEmpty(t, body["sessionId"])
	assert.Nil(t, body["vaultError"])

	usage, ok := body["usage"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(16), usage["total_tokens"])
}

func TestHandleTurn_WithHistoryAndSession(t *testing.T) {
	srv, mock := newTestServer(t, session.NewInMemoryStore())
	mock.AddResponse("Halt!", "State your business.")
	mock.AddResponse("Just passing through.", "Move along, then.")

	_, first := doJSON(t, srv, http.MethodPost, "/api/agent/guard-1234", `{"prompt":"Halt!"}`)
	sessionID := first["sessionId"].(string)

	rec, second := doJSON(t, srv, http.MethodPost, "/api/agent/guard-1234",
		`{"prompt":"Just passing through.","sessionId":"`+sessionID+`","conversationHistory":[`+
			`{"role":"user","content":"Halt!"},{"role":"assistant","content":"State your business."}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, second["sessionId"], "session id must stay stable across turns")
}

func TestHandleTurn_MissingPrompt(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec, body := doJSON(t, srv, http.MethodPost, "/api/agent/guard-1234", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Prompt is required", body["error"])
}

func TestHandleTurn_ProviderFailureStillAnswers(t *testing.T) {
	srv, mock := newTestServer(t, nil)
	mock.FailWith(errors.New("api down"))

	rec, body := doJSON(t, srv, http.MethodPost, "/api/agent/guard-1234", `{"prompt":"Halt!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orchestrator.FallbackOpenAI, body["response"])
}

func TestHandleTurn_PersistFailureReportsVaultError(t *testing.T) {
	srv, mock := newTestServer(t, brokenStore{})
	mock.AddResponse("Halt!", "State your business.")

	rec, body := doJSON(t, srv, http.MethodPost, "/api/agent/guard-1234", `{"prompt":"Halt!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "State your business.", body["response"])
	assert.Equal(t, "Failed to save conversation", body["vaultError"])
	assert.Nil(t, body["sessionId"])
}

func TestHandleListAgents(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec, body := doJSON(t, srv, http.MethodGet, "/api/agents", "")
	require.Equal(t, http.StatusOK, rec.Code)

	agents, ok := body["agents"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, agents)

	first := agents[0].(map[string]any)
	assert.NotEmpty(t, first["id"])
	assert.NotEmpty(t, first["name"])
	assert.NotEmpty(t, first["personality"])
}

func TestHandleVaultStatus(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec, body := doJSON(t, srv, http.MethodGet, "/api/vault/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["enabled"])

	srv, _ = newTestServer(t, session.NewInMemoryStore())
	_, body = doJSON(t, srv, http.MethodGet, "/api/vault/status", "")
	assert.Equal(t, true, body["enabled"])

	srv, _ = newTestServer(t, unreachableStore{})
	rec, body = doJSON(t, srv, http.MethodGet, "/api/vault/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["enabled"])
	assert.Equal(t, "Vault configured but failed to initialize", body["error"])
}

func TestVaultEndpoints_NoStoreConfigured(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/vault/conversations"},
		{http.MethodGet, "/api/vault/conversations/guard-1234"},
		{http.MethodGet, "/api/vault/conversation/some-id"},
		{http.MethodDelete, "/api/vault/conversation/some-id"},
	}
	for _, p := range paths {
		rec, body := doJSON(t, srv, p.method, p.path, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "%s %s", p.method, p.path)
		assert.Equal(t, "Vault service not available", body["error"])
	}

	rec, body := doJSON(t, srv, http.MethodPost, "/api/vault/conversation",
		`{"agentId":"guard-1234","messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Vault service not available", body["error"])
}

func TestSaveListGetDeleteConversation(t *testing.T) {
	srv, _ := newTestServer(t, session.NewInMemoryStore())

	rec, body := doJSON(t, srv, http.MethodPost, "/api/vault/conversation",
		`{"userId":"u1","agentId":"guard-1234","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	id := body["conversationId"].(string)
	require.NotEmpty(t, id)

	rec, body = doJSON(t, srv, http.MethodGet, "/api/vault/conversations?userId=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	conversations := body["conversations"].([]any)
	require.Len(t, conversations, 1)

	rec, body = doJSON(t, srv, http.MethodGet, "/api/vault/conversations/guard-1234?userId=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["conversations"].([]any), 1)

	rec, body = doJSON(t, srv, http.MethodGet, "/api/vault/conversation/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	conversation := body["conversation"].(map[string]any)
	assert.Equal(t, id, conversation["_id"])

	rec, body = doJSON(t, srv, http.MethodDelete, "/api/vault/conversation/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, body = doJSON(t, srv, http.MethodGet, "/api/vault/conversation/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Conversation not found", body["error"])
}

func TestSaveConversation_Validation(t *testing.T) {
	srv, _ := newTestServer(t, session.NewInMemoryStore())

	rec, body := doJSON(t, srv, http.MethodPost, "/api/vault/conversation", `{"agentId":"guard-1234"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request data", body["error"])

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/vault/conversation",
		`{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveConversation_DefaultsToAnonymousUser(t *testing.T) {
	store := session.NewInMemoryStore()
	srv, _ := newTestServer(t, store)

	rec, body := doJSON(t, srv, http.MethodPost, "/api/vault/conversation",
		`{"agentId":"guard-1234","messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	record, err := store.Get(context.Background(), body["conversationId"].(string))
	require.NoError(t, err)
	assert.Equal(t, chat.AnonymousUserID, record.SessionInfo.UserID)
}

func TestStoreNotInitializedMapsTo503(t *testing.T) {
	srv, _ := newTestServer(t, unreachableStore{})

	rec, body := doJSON(t, srv, http.MethodGet, "/api/vault/conversations", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Vault service not available", body["error"])
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec, body := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

// brokenStore fails every write but is otherwise healthy.
type brokenStore struct{ *session.InMemoryStore }

func (brokenStore) Resume(_ context.Context, _, _, _ string, _ []core.Message) (string, error) {
	return "", errors.New("vault write failed")
}

// unreachableStore simulates a configured vault whose cluster is down.
type unreachableStore struct{ *session.InMemoryStore }

func (unreachableStore) Ping(_ context.Context) error {
	return core.ErrStoreNotInitialized
}

func (unreachableStore) ListByUser(_ context.Context, _ string) ([]core.SessionRecord, error) {
	return nil, core.ErrStoreNotInitialized
}

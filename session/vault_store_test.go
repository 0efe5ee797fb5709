package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory vault.Client with scriptable failures.
type fakeClient struct {
	records map[string]core.SessionRecord

	initCalls  int
	initErr    error
	insertErr  error
	queryErr   error
	deleteErr  error
	dropWrites bool // Insert confirms nothing without erroring
}

var _ vault.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{records: map[string]core.SessionRecord{}}
}

func (f *fakeClient) Init(_ context.Context) error {
	f.initCalls++
	return f.initErr
}

func (f *fakeClient) Insert(_ context.Context, records []core.SessionRecord) ([]string, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.dropWrites {
		return nil, nil
	}
	var created []string
	for _, rec := range records {
		f.records[rec.ID] = rec
		created = append(created, rec.ID)
	}
	return created, nil
}

func (f *fakeClient) Query(_ context.Context, filter vault.Filter) ([]core.SessionRecord, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []core.SessionRecord
	for _, rec := range f.records {
		if id, ok := filter[vault.FieldID]; ok && rec.ID != id {
			continue
		}
		if userID, ok := filter[vault.FieldUserID]; ok && rec.SessionInfo.UserID != userID {
			continue
		}
		if npcID, ok := filter[vault.FieldNPCID]; ok && rec.SessionInfo.NPCID != npcID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeClient) Delete(_ context.Context, ids []string) (int, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	n := 0
	for _, id := range ids {
		if _, ok := f.records[id]; ok {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeClient) CreateSchema(_ context.Context, _ string, _ json.RawMessage) (string, error) {
	return "schema-id", nil
}

func TestVaultStore_InitializesLazilyExactlyOnce(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewVaultStore(client)

	assert.Equal(t, 0, client.initCalls, "construction must not touch the vault")

	_, err := store.Save(ctx, "u1", "guard-1234", []core.Message{{Role: core.RoleUser, Content: "a"}})
	require.NoError(t, err)
	_, err = store.ListByUser(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, client.initCalls)
}

func TestVaultStore_InitFailureIsSticky(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	client.initErr = errors.New("cluster unreachable")
	store := NewVaultStore(client)

	_, err := store.Save(ctx, "u1", "guard-1234", []core.Message{{Role: core.RoleUser, Content: "a"}})
	assert.ErrorIs(t, err, core.ErrStoreNotInitialized)

	// The failure is remembered; the client is not probed again.
	client.initErr = nil
	_, err = store.ListByUser(ctx, "u1")
	assert.ErrorIs(t, err, core.ErrStoreNotInitialized)
	assert.Equal(t, 1, client.initCalls)
}

func TestVaultStore_Ping(t *testing.T) {
	client := newFakeClient()
	store := NewVaultStore(client)
	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, 1, client.initCalls)

	failing := newFakeClient()
	failing.initErr = errors.New("down")
	assert.ErrorIs(t, NewVaultStore(failing).Ping(context.Background()), core.ErrStoreNotInitialized)
}

func TestVaultStore_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewVaultStore(newFakeClient())

	id, err := store.Save(ctx, "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "Halt!"},
		{Role: core.RoleAssistant, Content: "State your business."},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.SessionInfo.UserID)
	assert.Equal(t, "guard-1234", rec.SessionInfo.NPCID)
	require.Len(t, rec.Messages, 2)
	assert.False(t, rec.SessionInfo.Timestamp.IsZero())
}

func TestVaultStore_SaveNoConfirmedWrites(t *testing.T) {
	client := newFakeClient()
	client.dropWrites = true
	store := NewVaultStore(client)

	_, err := store.Save(context.Background(), "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "a"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no records confirmed created")
}

func TestVaultStore_ResumeKeepsIDStable(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewVaultStore(client)

	id, err := store.Save(ctx, "u1", "guard-1234", []core.Message{{Role: core.RoleUser, Content: "Halt!"}})
	require.NoError(t, err)

	resumed, err := store.Resume(ctx, id, "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "Halt!"},
		{Role: core.RoleAssistant, Content: "State your business."},
	})
	require.NoError(t, err)
	assert.Equal(t, id, resumed)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, rec.Messages, 2)
	assert.Len(t, client.records, 1, "resume must not leave duplicate records behind")
}

func TestVaultStore_ResumeUnknownIDCreatesNewRecord(t *testing.T) {
	ctx := context.Background()
	store := NewVaultStore(newFakeClient())

	id, err := store.Resume(ctx, "stale-id", "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "stale-id", id)
}

func TestVaultStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewVaultStore(client)

	// Seed records directly so the session timestamps are controlled.
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		client.records[id] = core.SessionRecord{
			ID: id,
			SessionInfo: core.SessionInfo{
				Timestamp: base.Add(time.Duration(i) * time.Hour),
				UserID:    "u1",
				NPCID:     "guard-1234",
			},
		}
	}

	records, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, "mid", records[1].ID)
	assert.Equal(t, "old", records[2].ID)

	byNPC, err := store.ListByUserAndNPC(ctx, "u1", "guard-1234")
	require.NoError(t, err)
	assert.Len(t, byNPC, 3)

	none, err := store.ListByUserAndNPC(ctx, "u1", "wizard-5678")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVaultStore_GetUnknownID(t *testing.T) {
	store := NewVaultStore(newFakeClient())
	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestVaultStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewVaultStore(newFakeClient())

	id, err := store.Save(ctx, "u1", "guard-1234", []core.Message{{Role: core.RoleUser, Content: "a"}})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Deleting an id with no record is not an error.
	assert.NoError(t, store.Delete(ctx, "no-such-id"))
}

func TestVaultStore_QueryErrorsAreWrapped(t *testing.T) {
	client := newFakeClient()
	client.queryErr = errors.New("all nodes down")
	store := NewVaultStore(client)

	_, err := store.ListByUser(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve conversations")
}

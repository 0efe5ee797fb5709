package session

import (
	"context"
	"testing"
	"time"

	"github.com/loreforge/npcchat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Save(ctx, "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "Halt!"},
		{Role: core.RoleAssistant, Content: "State your business."},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "u1", rec.SessionInfo.UserID)
	assert.Equal(t, "guard-1234", rec.SessionInfo.NPCID)
	require.Len(t, rec.Messages, 2)
	assert.False(t, rec.Messages[0].Timestamp.IsZero(), "persisted messages must be stamped")
}

func TestInMemoryStore_GetUnknownID(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInMemoryStore_ResumeKeepsIDStable(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Save(ctx, "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "Halt!"},
	})
	require.NoError(t, err)

	resumed, err := store.Resume(ctx, id, "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "Halt!"},
		{Role: core.RoleAssistant, Content: "State your business."},
		{Role: core.RoleUser, Content: "Just passing through."},
	})
	require.NoError(t, err)
	assert.Equal(t, id, resumed)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, rec.Messages, 3)
}

func TestInMemoryStore_ResumeUnknownIDCreatesNewRecord(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Resume(ctx, "stale-id", "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "stale-id", id)

	_, err = store.Get(ctx, id)
	assert.NoError(t, err)
}

func TestInMemoryStore_ResumeEmptyIDSaves(t *testing.T) {
	store := NewInMemoryStore()
	id, err := store.Resume(context.Background(), "", "u1", "guard-1234", []core.Message{
		{Role: core.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestInMemoryStore_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	first, err := store.Save(ctx, "u1", "guard-1234", []core.Message{{Role: core.RoleUser, Content: "a"}})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := store.Save(ctx, "u1", "wizard-5678", []core.Message{{Role: core.RoleUser, Content: "b"}})
	require.NoError(t, err)
	_, err = store.Save(ctx, "u2", "guard-1234", []core.Message{{Role: core.RoleUser, Content: "c"}})
	require.NoError(t, err)

	all, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].ID, "newest record first")
	assert.Equal(t, first, all[1].ID)

	guards, err := store.ListByUserAndNPC(ctx, "u1", "guard-1234")
	require.NoError(t, err)
	require.Len(t, guards, 1)
	assert.Equal(t, first, guards[0].ID)

	none, err := store.ListByUser(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Save(ctx, "u1", "guard-1234", []core.Message{{Role: core.RoleUser, Content: "a"}})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Deleting an unknown id is not an error.
	assert.NoError(t, store.Delete(ctx, "no-such-id"))
}

func TestInMemoryStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Save(ctx, "u1", "guard-1234", []core.Message{{Role: core.RoleUser, Content: "original"}})
	require.NoError(t, err)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	rec.Messages[0].Content = "mutated"

	again, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Messages[0].Content)
}

package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/loreforge/npcchat/core"
)

// InMemoryStore is a volatile core.SessionStore implementation storing
// records in a process local map. It is safe for concurrent access and best
// suited for tests or ephemeral demo servers. Returned records are copies to
// prevent external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]core.SessionRecord
}

// Compile-time assertion.
var _ core.SessionStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]core.SessionRecord)}
}

// Save creates a new record under a freshly minted id.
func (s *InMemoryStore) Save(_ context.Context, userID, npcID string, messages []core.Message) (string, error) {
	rec := newRecord(uuid.NewString(), userID, npcID, messages)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return rec.ID, nil
}

// Resume replaces the record with the given id keeping the id stable, or
// creates a new record when the id is unknown or empty.
func (s *InMemoryStore) Resume(ctx context.Context, sessionID, userID, npcID string, messages []core.Message) (string, error) {
	if sessionID == "" {
		return s.Save(ctx, userID, npcID, messages)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[sessionID]; !ok {
		rec := newRecord(uuid.NewString(), userID, npcID, messages)
		s.records[rec.ID] = rec
		return rec.ID, nil
	}
	s.records[sessionID] = newRecord(sessionID, userID, npcID, messages)
	return sessionID, nil
}

// ListByUser returns the user's records sorted by session timestamp descending.
func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]core.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []core.SessionRecord{}
	for _, rec := range s.records {
		if rec.SessionInfo.UserID == userID {
			out = append(out, copyRecord(rec))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListByUserAndNPC returns the user's records for one NPC sorted by session
// timestamp descending.
func (s *InMemoryStore) ListByUserAndNPC(_ context.Context, userID, npcID string) ([]core.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []core.SessionRecord{}
	for _, rec := range s.records {
		if rec.SessionInfo.UserID == userID && rec.SessionInfo.NPCID == npcID {
			out = append(out, copyRecord(rec))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Get returns the record with the given id, or core.ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, sessionID string) (*core.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[sessionID]
	if !ok {
		return nil, fmt.Errorf("conversation %q: %w", sessionID, core.ErrNotFound)
	}
	out := copyRecord(rec)
	return &out, nil
}

// Delete removes the record with the given id. Deleting an id with no record
// is not an error.
func (s *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
	return nil
}

func copyRecord(rec core.SessionRecord) core.SessionRecord {
	msgs := make([]core.Message, len(rec.Messages))
	copy(msgs, rec.Messages)
	rec.Messages = msgs
	return rec
}

package core

import "context"

// SessionStore persists conversation records keyed by a durable session id.
//
// Contract:
//   - Save mints a fresh session id and creates a new record
//   - Resume updates the record with the given id in place (keeping the id
//     stable across appends) or falls back to creating a new record when the
//     id is unknown; the effective id is returned either way
//   - List operations return records sorted by session timestamp descending;
//     ordering is applied at this boundary, never assumed from the backend
//   - Get returns ErrNotFound (possibly wrapped) when no record matches
type SessionStore interface {
	Save(ctx context.Context, userID, npcID string, messages []Message) (string, error)
	Resume(ctx context.Context, sessionID, userID, npcID string, messages []Message) (string, error)
	ListByUser(ctx context.Context, userID string) ([]SessionRecord, error)
	ListByUserAndNPC(ctx context.Context, userID, npcID string) ([]SessionRecord, error)
	Get(ctx context.Context, sessionID string) (*SessionRecord, error)
	Delete(ctx context.Context, sessionID string) error
}

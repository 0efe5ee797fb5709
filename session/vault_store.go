package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/logging"
	"github.com/loreforge/npcchat/vault"
)

// VaultStoreOptions configure the vault-backed store.
type VaultStoreOptions struct {
	Logger logging.Logger
}

// VaultStore is a core.SessionStore persisting conversation records in the
// external encrypted store. The backing client is initialized lazily exactly
// once before the first operation; an initialization failure is sticky and
// surfaces as core.ErrStoreNotInitialized until the process restarts.
type VaultStore struct {
	client vault.Client
	logger logging.Logger

	mu          sync.Mutex
	initialized bool
	initErr     error
}

// Compile-time assertion.
var _ core.SessionStore = (*VaultStore)(nil)

// NewVaultStore creates a store backed by the given vault client.
func NewVaultStore(client vault.Client, optFns ...func(o *VaultStoreOptions)) *VaultStore {
	opts := VaultStoreOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &VaultStore{client: client, logger: opts.Logger}
}

// ensureInitialized performs the one-time vault initialization. A past
// failure is returned without retrying.
func (s *VaultStore) ensureInitialized(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initErr != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreNotInitialized, s.initErr)
	}
	if s.initialized {
		return nil
	}
	if err := s.client.Init(ctx); err != nil {
		s.initErr = err
		s.logger.Error("vault initialization failed", "error", err.Error())
		return fmt.Errorf("%w: %v", core.ErrStoreNotInitialized, err)
	}
	s.initialized = true
	return nil
}

// Ping reports whether the backing vault is initialized and reachable,
// triggering the one-time initialization if it has not happened yet.
func (s *VaultStore) Ping(ctx context.Context) error {
	return s.ensureInitialized(ctx)
}

// newRecord builds a fully stamped record for persistence.
func newRecord(id, userID, npcID string, messages []core.Message) core.SessionRecord {
	now := time.Now().UTC()
	return core.SessionRecord{
		ID: id,
		SessionInfo: core.SessionInfo{
			Timestamp: now,
			UserID:    userID,
			NPCID:     npcID,
		},
		Messages: core.StampedMessages(messages, now),
	}
}

// Save creates a new record under a freshly minted id. The returned id is the
// one generated here, never an id echoed back by the store.
func (s *VaultStore) Save(ctx context.Context, userID, npcID string, messages []core.Message) (string, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return "", err
	}
	rec := newRecord(uuid.NewString(), userID, npcID, messages)
	if err := s.insert(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Resume updates the record with the given session id in place, keeping the
// id stable across appends. When the id is unknown (or empty) a new record is
// created instead; the effective id is returned either way.
func (s *VaultStore) Resume(ctx context.Context, sessionID, userID, npcID string, messages []core.Message) (string, error) {
	if sessionID == "" {
		return s.Save(ctx, userID, npcID, messages)
	}
	if err := s.ensureInitialized(ctx); err != nil {
		return "", err
	}
	_, err := s.Get(ctx, sessionID)
	if errors.Is(err, core.ErrNotFound) {
		return s.Save(ctx, userID, npcID, messages)
	}
	if err != nil {
		return "", err
	}
	// The store exposes no update primitive, so an in-place update is a
	// delete and reinsert under the same id.
	if _, err := s.client.Delete(ctx, []string{sessionID}); err != nil {
		return "", fmt.Errorf("resume conversation: %w", err)
	}
	if err := s.insert(ctx, newRecord(sessionID, userID, npcID, messages)); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *VaultStore) insert(ctx context.Context, rec core.SessionRecord) error {
	created, err := s.client.Insert(ctx, []core.SessionRecord{rec})
	if err != nil {
		return fmt.Errorf("store conversation: %w", err)
	}
	if len(created) == 0 {
		return fmt.Errorf("store conversation: no records confirmed created")
	}
	return nil
}

// ListByUser returns all of the user's records sorted by session timestamp
// descending.
func (s *VaultStore) ListByUser(ctx context.Context, userID string) ([]core.SessionRecord, error) {
	return s.list(ctx, vault.Filter{vault.FieldUserID: userID})
}

// ListByUserAndNPC returns the user's records for one NPC sorted by session
// timestamp descending.
func (s *VaultStore) ListByUserAndNPC(ctx context.Context, userID, npcID string) ([]core.SessionRecord, error) {
	return s.list(ctx, vault.Filter{vault.FieldUserID: userID, vault.FieldNPCID: npcID})
}

func (s *VaultStore) list(ctx context.Context, filter vault.Filter) ([]core.SessionRecord, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	records, err := s.client.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("retrieve conversations: %w", err)
	}
	sortNewestFirst(records)
	return records, nil
}

// Get returns the single record with the given id, or core.ErrNotFound.
func (s *VaultStore) Get(ctx context.Context, sessionID string) (*core.SessionRecord, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	records, err := s.client.Query(ctx, vault.Filter{vault.FieldID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("retrieve conversation: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("conversation %q: %w", sessionID, core.ErrNotFound)
	}
	rec := records[0]
	return &rec, nil
}

// Delete removes the record with the given id. Deleting an id with no record
// is not an error.
func (s *VaultStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}
	if _, err := s.client.Delete(ctx, []string{sessionID}); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// sortNewestFirst orders records by session timestamp descending. Sorting
// happens at this boundary; the store's own ordering is never assumed.
func sortNewestFirst(records []core.SessionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SessionInfo.Timestamp.After(records[j].SessionInfo.Timestamp)
	})
}

package vault

import (
	"context"
	"encoding/json"

	"github.com/loreforge/npcchat/core"
)

// Filter field names understood by the store. Nested fields use dotted paths.
const (
	FieldID     = "_id"
	FieldUserID = "session_info.user_id"
	FieldNPCID  = "session_info.npc_id"
)

// Filter is an equality filter over record fields. An empty filter matches
// every record in the schema's collection.
type Filter map[string]any

// Client is the minimal capability surface of the encrypted store network.
//
// Contract:
//   - Init must be called once before any data operation; it is idempotent
//   - Insert returns the ids the store confirmed created (possibly fewer than
//     submitted); record ids are minted by the caller, never by the store
//   - Query returns all records matching the filter, merged across the
//     backing nodes, in unspecified order
//   - Delete removes records by id and returns the number removed
type Client interface {
	Init(ctx context.Context) error
	Insert(ctx context.Context, records []core.SessionRecord) ([]string, error)
	Query(ctx context.Context, filter Filter) ([]core.SessionRecord, error)
	Delete(ctx context.Context, ids []string) (int, error)
	CreateSchema(ctx context.Context, name string, schema json.RawMessage) (string, error)
}

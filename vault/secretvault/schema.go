package secretvault

import (
	_ "embed"
	"encoding/json"
)

//go:embed schema.json
var conversationSchema []byte

// ConversationSchema returns the JSON Schema registered for NPC conversation
// collections. Used by the schema create command at deployment time.
func ConversationSchema() json.RawMessage {
	return json.RawMessage(conversationSchema)
}

package core

// SessionRecord is the durable conversation snapshot persisted in the vault.
// The ID is minted client-side at first persistence and stays stable across
// appends to the same session.
type SessionRecord struct {
	ID          string      `json:"_id"`
	SessionInfo SessionInfo `json:"session_info"`
	Messages    []Message   `json:"messages"`
}

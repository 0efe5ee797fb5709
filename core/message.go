package core

import "time"

// Role identifies the author of a message within a conversation.
type Role string

const (
	// RoleSystem marks persona instructions. System messages never appear in
	// persisted transcripts; they are injected per provider at request time.
	RoleSystem Role = "system"
	// RoleUser marks messages authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks messages authored by the NPC.
	RoleAssistant Role = "assistant"
)

// Message is a single conversational turn fragment. Timestamp is assigned by
// the coordinator (or store) when absent so persisted transcripts are always
// fully stamped.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Stamped returns a copy of the message with Timestamp set to now if missing.
func (m Message) Stamped(now time.Time) Message {
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	return m
}

// SessionInfo binds a conversation to exactly one user and one NPC for its
// lifetime. NPCID is never reassigned after creation.
type SessionInfo struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	NPCID     string    `json:"npc_id"`
}

// Conversation is the normalized in-memory conversation passed to provider
// adapters. Messages are append-only and chronological.
type Conversation struct {
	SessionInfo SessionInfo `json:"session_info"`
	Messages    []Message   `json:"messages"`
}

// NewConversation builds a conversation for a user/NPC pair from prior history.
// The history slice is copied so callers can keep mutating their own slice.
func NewConversation(userID, npcID string, history []Message) *Conversation {
	msgs := make([]Message, len(history))
	copy(msgs, history)
	return &Conversation{
		SessionInfo: SessionInfo{
			Timestamp: time.Now().UTC(),
			UserID:    userID,
			NPCID:     npcID,
		},
		Messages: msgs,
	}
}

// Append adds a message to the conversation preserving chronological order.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// StampedMessages returns a copy of the messages with missing timestamps
// filled in using now.
func StampedMessages(msgs []Message, now time.Time) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Stamped(now)
	}
	return out
}

package testutil

import (
	"time"

	"github.com/loreforge/npcchat/core"
)

// UserMessage builds a stamped user message.
func UserMessage(content string, ts time.Time) core.Message {
	return core.Message{Role: core.RoleUser, Content: content, Timestamp: ts}
}

// AssistantMessage builds a stamped assistant message.
func AssistantMessage(content string, ts time.Time) core.Message {
	return core.Message{Role: core.RoleAssistant, Content: content, Timestamp: ts}
}

// RecordBuilder helps construct session records with fluent chaining for tests.
// Example:
//
//	rec := NewRecordBuilder("rec-1", "u1", "merchant-8901").At(ts).Message(msg).Build()
type RecordBuilder struct {
	id       string
	userID   string
	npcID    string
	ts       time.Time
	messages []core.Message
}

// NewRecordBuilder creates a new builder for a record with the given
// identity. Use chainable methods (At, Message, Messages) then call Build.
func NewRecordBuilder(id, userID, npcID string) *RecordBuilder {
	return &RecordBuilder{id: id, userID: userID, npcID: npcID, ts: time.Now().UTC()}
}

// At sets the session timestamp (chainable).
func (b *RecordBuilder) At(ts time.Time) *RecordBuilder {
	b.ts = ts
	return b
}

// Message appends a single message to the transcript (chainable).
func (b *RecordBuilder) Message(msg core.Message) *RecordBuilder {
	b.messages = append(b.messages, msg)
	return b
}

// Messages appends multiple messages to the transcript (chainable).
func (b *RecordBuilder) Messages(msgs ...core.Message) *RecordBuilder {
	b.messages = append(b.messages, msgs...)
	return b
}

// Build returns the assembled core.SessionRecord.
func (b *RecordBuilder) Build() core.SessionRecord {
	return core.SessionRecord{
		ID: b.id,
		SessionInfo: core.SessionInfo{
			Timestamp: b.ts,
			UserID:    b.userID,
			NPCID:     b.npcID,
		},
		Messages: b.messages,
	}
}

// Package core provides the foundational domain types and contracts used by
// npcchat. It defines the core abstractions for:
//
//   - Messages and Conversations (ordered, chronological turn transcripts)
//   - Session records (durable conversation snapshots bound to one user/NPC pair)
//   - The SessionStore contract persisting conversations in the vault
//
// The package intentionally keeps implementation concerns (vault transport,
// provider SDKs, HTTP serving) out of scope, exposing small interfaces so
// callers can substitute backends in tests.
package core

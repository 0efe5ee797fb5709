// Package session houses concrete implementations of the core.SessionStore.
// The interface itself (and the record types) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (coordinator, server) from depending on concrete
// storage.
//
// VaultStore persists records in the external encrypted store network behind
// vault.Client; InMemoryStore is a volatile stand-in for tests and demos.
package session

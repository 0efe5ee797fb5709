// Package chat implements the per-turn conversation coordinator: resolve the
// persona, obtain a reply from the orchestrator, then persist the updated
// transcript best-effort. Persistence is strictly additive — a vault failure
// is reported as an advisory field and never discards or blocks delivery of
// the reply already produced.
package chat

// Package orchestrator selects the model implementation for a persona's
// provider family and turns a conversation into a reply. Its single contract
// is fail-soft generation: a provider, transport or parsing failure is folded
// into a fixed persona-family apology string at this boundary, so the
// conversational path never surfaces a raw network error. The underlying
// error is kept for operator logging only.
package orchestrator

// Package model defines the provider-agnostic abstractions for interacting
// with language models inside npcchat.
//
// Core goals:
//   - Normalize conversation + persona configuration into a single Request
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic, local completion endpoints) implement the
// Model interface from this package so higher layers (orchestrator,
// coordinator) remain decoupled from vendor SDKs.
package model

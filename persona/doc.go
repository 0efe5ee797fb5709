// Package persona defines the immutable per-NPC behavioral configuration
// (system prompt, provider, model, temperature) and the Catalog used to
// resolve an agent id to its configuration. Catalogs are validated at load
// time so an unknown provider is rejected before any request is served, and
// unknown agent ids resolve to a generic default persona rather than failing.
package persona

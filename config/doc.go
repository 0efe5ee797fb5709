// Package config loads service configuration from an optional YAML file with
// environment overrides for secrets (API keys, vault identity). Defaults are
// safe for local development: listen on :3000, JSON logging, vault disabled.
package config

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/loreforge/npcchat/vault/secretvault"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML parsing of values like "30s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OpenAIConfig holds OpenAI provider settings. The API key normally arrives
// via the OPENAI_API_KEY environment variable rather than the config file.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
}

// AnthropicConfig holds Anthropic provider settings.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
}

// LocalConfig holds local completion endpoint settings.
type LocalConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// ProvidersConfig holds per-provider settings plus the shared call timeout.
type ProvidersConfig struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Local     LocalConfig     `yaml:"local"`
	Timeout   Duration        `yaml:"timeout"`
}

// VaultConfig holds the encrypted store settings. The store is considered
// enabled purely by the presence of a schema id; an enabled store is not
// necessarily reachable.
type VaultConfig struct {
	SchemaID       string             `yaml:"schema_id"`
	OrgDID         string             `yaml:"org_did"`
	PrivateKeyFile string             `yaml:"private_key_file"`
	Nodes          []secretvault.Node `yaml:"nodes"`
	Timeout        Duration           `yaml:"timeout"`
}

// PersonasConfig points at an optional YAML persona catalog file; when empty
// the built-in roster is used.
type PersonasConfig struct {
	File string `yaml:"file"`
}

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Providers ProvidersConfig `yaml:"providers"`
	Vault     VaultConfig     `yaml:"vault"`
	Personas  PersonasConfig  `yaml:"personas"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Addr: ":3000"},
		Log:       LogConfig{Level: "info", Format: "json"},
		Providers: ProvidersConfig{Timeout: Duration(30 * time.Second)},
		Vault:     VaultConfig{Timeout: Duration(10 * time.Second)},
	}
}

// Load reads the config file at path (optional; defaults are used when path
// is empty) and applies environment overrides for secrets.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables over file values. Secrets take
// precedence from the environment so they never need to live on disk.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Providers.OpenAI.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Providers.Anthropic.APIKey = v
	}
	if v := os.Getenv("LOCAL_LLM_ENDPOINT"); v != "" {
		c.Providers.Local.Endpoint = v
	}
	if v := os.Getenv("SCHEMA_ID"); v != "" {
		c.Vault.SchemaID = v
	}
	if v := os.Getenv("VAULT_ORG_DID"); v != "" {
		c.Vault.OrgDID = v
	}
	if v := os.Getenv("VAULT_PRIVATE_KEY_FILE"); v != "" {
		c.Vault.PrivateKeyFile = v
	}
}

// VaultEnabled reports whether a schema id is configured. A true value does
// not guarantee the store is reachable.
func (c *Config) VaultEnabled() bool { return c.Vault.SchemaID != "" }

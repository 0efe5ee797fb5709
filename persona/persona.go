package persona

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider identifies an LLM vendor API family. The set is closed; adding a
// provider means adding a model implementation, not editing a switch.
type Provider string

const (
	// ProviderOpenAI is the OpenAI-style chat completion API family.
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic-style messages API family.
	ProviderAnthropic Provider = "anthropic"
	// ProviderLocal is a locally hosted completion endpoint (Ollama-style).
	ProviderLocal Provider = "local"
)

// Valid reports whether the provider belongs to the closed set.
func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderLocal:
		return true
	}
	return false
}

// Config is a single NPC's fixed behavioral configuration. Configs are
// immutable after catalog construction.
type Config struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SystemPrompt string   `json:"system_prompt"`
	Provider     Provider `json:"provider"`
	Model        string   `json:"model"`
	Temperature  float64  `json:"temperature"`
}

// Summary returns the text before the first sentence terminator of the system
// prompt, used as the short personality description in agent listings.
func (c Config) Summary() string {
	if i := strings.IndexAny(c.SystemPrompt, ".!?"); i >= 0 {
		return c.SystemPrompt[:i]
	}
	return c.SystemPrompt
}

// Validate checks the config against the closed provider set and the allowed
// temperature range. Violations are configuration errors surfaced at load
// time, never at call time.
func (c Config) Validate() error {
	if !c.Provider.Valid() {
		return fmt.Errorf("persona %q: unknown provider %q", c.ID, c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("persona %q: temperature %v out of range [0,2]", c.ID, c.Temperature)
	}
	if c.SystemPrompt == "" {
		return fmt.Errorf("persona %q: system prompt is required", c.ID)
	}
	return nil
}

// DefaultConfig is the generic persona returned for unknown agent ids.
func DefaultConfig() Config {
	return Config{
		ID:           "default",
		Name:         "Default Agent",
		SystemPrompt: "You are a helpful assistant. Provide informative and balanced responses.",
		Provider:     ProviderOpenAI,
		Model:        "gpt-3.5-turbo",
		Temperature:  0.7,
	}
}

// Catalog is an immutable mapping from agent id to persona configuration.
// It is safe for concurrent use after construction.
type Catalog struct {
	configs  map[string]Config
	fallback Config
}

// CatalogOptions configures catalog construction.
type CatalogOptions struct {
	// Fallback is returned by Resolve for unknown agent ids.
	Fallback Config
}

// NewCatalog builds a validated catalog from the given configs. Any invalid
// config (unknown provider, out-of-range temperature) fails construction.
func NewCatalog(configs []Config, optFns ...func(o *CatalogOptions)) (*Catalog, error) {
	opts := CatalogOptions{Fallback: DefaultConfig()}
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.Fallback.Validate(); err != nil {
		return nil, fmt.Errorf("fallback persona: %w", err)
	}
	m := make(map[string]Config, len(configs))
	for _, c := range configs {
		if c.ID == "" {
			return nil, fmt.Errorf("persona with empty id")
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, exists := m[c.ID]; exists {
			return nil, fmt.Errorf("duplicate persona id %q", c.ID)
		}
		m[c.ID] = c
	}
	return &Catalog{configs: m, fallback: opts.Fallback}, nil
}

// Resolve returns the configuration for the given agent id, or the fallback
// persona when the id is unknown. It never fails.
func (c *Catalog) Resolve(agentID string) Config {
	if cfg, ok := c.configs[agentID]; ok {
		return cfg
	}
	return c.fallback
}

// Contains reports whether the agent id is present in the catalog.
func (c *Catalog) Contains(agentID string) bool {
	_, ok := c.configs[agentID]
	return ok
}

// List returns all configured personas sorted by id for stable listings.
func (c *Catalog) List() []Config {
	out := make([]Config, 0, len(c.configs))
	for _, cfg := range c.configs {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// catalogFile is the on-disk YAML shape: a mapping from agent id to config.
// Temperature is a pointer so an explicit 0 is distinguishable from "unset".
type catalogFile struct {
	Personas map[string]struct {
		Name         string   `yaml:"name"`
		SystemPrompt string   `yaml:"system_prompt"`
		Provider     Provider `yaml:"provider"`
		Model        string   `yaml:"model"`
		Temperature  *float64 `yaml:"temperature"`
	} `yaml:"personas"`
}

// LoadFile reads persona configs from a YAML file. Missing provider, model and
// temperature fields inherit the default persona's values.
func LoadFile(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse persona file: %w", err)
	}
	def := DefaultConfig()
	ids := make([]string, 0, len(f.Personas))
	for id := range f.Personas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	configs := make([]Config, 0, len(ids))
	for _, id := range ids {
		fc := f.Personas[id]
		cfg := Config{
			ID:           id,
			Name:         fc.Name,
			SystemPrompt: fc.SystemPrompt,
			Provider:     fc.Provider,
			Model:        fc.Model,
			Temperature:  def.Temperature,
		}
		if fc.Temperature != nil {
			cfg.Temperature = *fc.Temperature
		}
		if cfg.Model == "" {
			cfg.Model = def.Model
		}
		if cfg.Provider == "" {
			cfg.Provider = def.Provider
		}
		if cfg.Name == "" {
			cfg.Name = id
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

package interview

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tailored-agentic-units/coach/agent"
	"github.com/tailored-agentic-units/coach/enrich"
	"github.com/tailored-agentic-units/coach/memory"
	"github.com/tailored-agentic-units/coach/orchestrate/config"
	"github.com/tailored-agentic-units/coach/roles"
	"github.com/tailored-agentic-units/coach/session"
	"github.com/tailored-agentic-units/coach/transcript"
)

const envPrefix = "COACH"

// LookupConfig tunes the built-in DuckDuckGo searcher. Zero values keep the
// searcher's defaults.
type LookupConfig struct {
	RateLimit  float64       `json:"rate_limit,omitempty" mapstructure:"rate_limit" yaml:"rate_limit,omitempty"`
	Burst      int           `json:"burst,omitempty" mapstructure:"burst" yaml:"burst,omitempty"`
	MaxResults int           `json:"max_results,omitempty" mapstructure:"max_results" yaml:"max_results,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty" mapstructure:"timeout" yaml:"timeout,omitempty"`
}

func (c LookupConfig) isZero() bool {
	return c == LookupConfig{}
}

func (c *LookupConfig) Merge(source *LookupConfig) {
	if source.RateLimit > 0 {
		c.RateLimit = source.RateLimit
	}
	if source.Burst > 0 {
		c.Burst = source.Burst
	}
	if source.MaxResults > 0 {
		c.MaxResults = source.MaxResults
	}
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
}

// Config holds initialization parameters for every interview subsystem.
// Each section delegates to that subsystem's config and Merge.
type Config struct {
	// Agent is the default generation backend.
	Agent agent.Config `json:"agent" mapstructure:"agent" yaml:"agent"`

	// Agents overrides the backend per role (mentor, interviewer, compactor,
	// reporter). Unset fields inherit from Agent.
	Agents map[string]agent.Config `json:"agents,omitempty" mapstructure:"agents" yaml:"agents,omitempty"`

	Session    session.Config     `json:"session" mapstructure:"session" yaml:"session"`
	Graph      config.GraphConfig `json:"graph" mapstructure:"graph" yaml:"graph"`
	Roles      roles.Config       `json:"roles" mapstructure:"roles" yaml:"roles"`
	Enrichment enrich.Config      `json:"enrichment" mapstructure:"enrichment" yaml:"enrichment"`
	Lookup     LookupConfig       `json:"lookup" mapstructure:"lookup" yaml:"lookup"`
	Transcript transcript.Config  `json:"transcript" mapstructure:"transcript" yaml:"transcript"`
	Memory     memory.Config      `json:"memory" mapstructure:"memory" yaml:"memory"`
}

// DefaultConfig returns a Config with defaults for all subsystems.
func DefaultConfig() Config {
	graph := config.DefaultGraphConfig("interview")
	graph.MaxIterations = defaultMaxIterations

	return Config{
		Agent:      agent.DefaultConfig(),
		Session:    session.DefaultConfig(),
		Graph:      graph,
		Roles:      roles.DefaultConfig(),
		Enrichment: enrich.DefaultConfig(),
		Transcript: transcript.DefaultConfig(),
		Memory:     memory.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Session.Merge(&source.Session)
	c.Graph.Merge(&source.Graph)
	c.Roles.Merge(&source.Roles)
	c.Enrichment.Merge(&source.Enrichment)
	c.Lookup.Merge(&source.Lookup)
	c.Transcript.Merge(&source.Transcript)
	c.Memory.Merge(&source.Memory)

	if len(source.Agents) > 0 {
		c.Agents = source.Agents
	}
}

// AgentConfig returns the backend for role: the default merged with the
// role's override.
func (c *Config) AgentConfig(role string) agent.Config {
	cfg := c.Agent
	if override, ok := c.Agents[role]; ok {
		cfg.Merge(&override)
	}
	return cfg
}

// envBindings maps config keys to extra environment variables. COACH_<KEY>
// is always bound.
var envBindings = map[string][]string{
	"agent.api_key":           {"API_KEY"},
	"agent.base_url":          {"BASE_URL"},
	"agent.model":             nil,
	"agent.provider":          nil,
	"agent.timeout":           nil,
	"roles.language":          nil,
	"roles.escalation":        nil,
	"enrichment.searcher":     nil,
	"transcript.sink":         nil,
	"transcript.path":         nil,
	"memory.path":             nil,
	"graph.observer":          nil,
	"session.opening_message": nil,
}

// LoadConfig reads a YAML or JSON config file through viper, applies
// environment overrides and merges the result over DefaultConfig. An empty
// filename loads the environment only.
func LoadConfig(filename string) (*Config, error) {
	v := viper.New()

	for key, extra := range envBindings {
		names := append([]string{envName(key)}, extra...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Merge(&loaded)
	return &cfg, nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

package agent

import "time"

const (
	defaultProvider = "openai"
	defaultModel    = "openai/gpt-4o-mini"
	defaultTimeout  = 60 * time.Second
)

// Config describes one generation backend.
type Config struct {
	Provider    string        `json:"provider,omitempty" mapstructure:"provider" yaml:"provider,omitempty"`
	Model       string        `json:"model,omitempty" mapstructure:"model" yaml:"model,omitempty"`
	BaseURL     string        `json:"base_url,omitempty" mapstructure:"base_url" yaml:"base_url,omitempty"`
	APIKey      string        `json:"-" mapstructure:"api_key" yaml:"-"`
	Timeout     time.Duration `json:"timeout,omitempty" mapstructure:"timeout" yaml:"timeout,omitempty"`
	Temperature float32       `json:"temperature,omitempty" mapstructure:"temperature" yaml:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty" mapstructure:"max_tokens" yaml:"max_tokens,omitempty"`
}

// DefaultConfig returns an OpenAI-compatible configuration with a 60s
// per-call deadline. The API key comes from the environment.
func DefaultConfig() Config {
	return Config{
		Provider: defaultProvider,
		Model:    defaultModel,
		Timeout:  defaultTimeout,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Provider != "" {
		c.Provider = source.Provider
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
	if source.MaxTokens > 0 {
		c.MaxTokens = source.MaxTokens
	}
}

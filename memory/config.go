package memory

// Config holds memory store initialization parameters.
type Config struct {
	Path string `json:"path,omitempty" mapstructure:"path" yaml:"path,omitempty"` // FileStore root directory; empty keeps entries in process memory.
}

// DefaultConfig returns the default memory configuration (volatile).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a Store from configuration. An empty Path yields a
// process-local store whose contents are lost on exit.
func NewStore(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return NewMemoryStore(), nil
	}
	return NewFileStore(cfg.Path), nil
}

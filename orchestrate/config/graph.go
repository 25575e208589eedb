package config

// CheckpointConfig controls workflow state persistence during graph execution.
//
// Configuration fields:
//   - Store: "memory" keeps checkpoints in process, "store" persists them to the memory store
//   - Interval: Save checkpoint every N node executions (0 = disabled)
//   - Preserve: Keep checkpoints after successful completion (false = auto-cleanup)
//
// Example enabling checkpointing:
//
//	cfg := config.DefaultGraphConfig("interview")
//	cfg.Checkpoint.Store = "store"
//	cfg.Checkpoint.Interval = 1
type CheckpointConfig struct {
	// Store identifies which CheckpointStore to use
	Store string `json:"store" mapstructure:"store" yaml:"store"`

	// Interval controls checkpoint frequency (0 = disabled, N = every N nodes)
	Interval int `json:"interval" mapstructure:"interval" yaml:"interval"`

	// Preserve keeps checkpoints after successful execution (false = auto-cleanup)
	Preserve bool `json:"preserve" mapstructure:"preserve" yaml:"preserve"`
}

// DefaultCheckpointConfig returns checkpoint configuration with checkpointing disabled.
//
// Default values:
//   - Store: "memory" (though unused when Interval=0)
//   - Interval: 0 (checkpointing disabled)
//   - Preserve: false (auto-cleanup)
func DefaultCheckpointConfig() CheckpointConfig {
	return CheckpointConfig{
		Store:    "memory",
		Interval: 0,
		Preserve: false,
	}
}

func (c *CheckpointConfig) Merge(source *CheckpointConfig) {
	if source.Store != "" {
		c.Store = source.Store
	}

	if source.Interval > 0 {
		c.Interval = source.Interval
	}

	if source.Preserve {
		c.Preserve = source.Preserve
	}
}

// GraphConfig defines configuration for state graph execution.
//
// Example YAML:
//
//	name: interview
//	observer: zap
//	max_iterations: 64
//	checkpoint:
//	  store: store
//	  interval: 1
type GraphConfig struct {
	// Name identifies the graph for observability
	Name string `json:"name" mapstructure:"name" yaml:"name"`

	// Observer specifies which observer implementation to use ("noop", "slog", etc.)
	Observer string `json:"observer" mapstructure:"observer" yaml:"observer"`

	// MaxIterations limits graph execution to prevent infinite loops
	MaxIterations int `json:"max_iterations" mapstructure:"max_iterations" yaml:"max_iterations"`

	// Checkpoint configures workflow state persistence and recovery
	Checkpoint CheckpointConfig `json:"checkpoint" mapstructure:"checkpoint" yaml:"checkpoint"`
}

// DefaultGraphConfig returns sensible defaults for graph execution.
//
// Default values:
//   - Observer: "slog"
//   - MaxIterations: 1000
//   - Checkpoint: disabled
func DefaultGraphConfig(name string) GraphConfig {
	return GraphConfig{
		Name:          name,
		Observer:      "slog",
		MaxIterations: 1000,
		Checkpoint:    DefaultCheckpointConfig(),
	}
}

func (c *GraphConfig) Merge(source *GraphConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.MaxIterations > 0 {
		c.MaxIterations = source.MaxIterations
	}

	c.Checkpoint.Merge(&source.Checkpoint)
}

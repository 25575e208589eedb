package config

// ParallelConfig defines configuration for parallel execution.
//
// Worker pool sizing:
//   - MaxWorkers = 0: Auto-detect based on runtime.NumCPU() * 2, capped by WorkerCap
//   - MaxWorkers > 0: Use exact worker count
//
// Error handling:
//   - FailFast = true: Stop processing on first error and cancel in-flight work
//   - FailFast = false: Process every item and collect all errors
//
// Example YAML:
//
//	max_workers: 4
//	worker_cap: 16
//	fail_fast: false
//	observer: zap
type ParallelConfig struct {
	// MaxWorkers specifies exact worker pool size (0 = auto-detect)
	MaxWorkers int `json:"max_workers" mapstructure:"max_workers" yaml:"max_workers"`

	// WorkerCap limits auto-detected workers (default: 16)
	WorkerCap int `json:"worker_cap" mapstructure:"worker_cap" yaml:"worker_cap"`

	// FailFastNil controls error handling behavior. Use FailFast() to read it.
	FailFastNil *bool `json:"fail_fast" mapstructure:"fail_fast" yaml:"fail_fast"`

	// Observer specifies which observer implementation to use ("noop", "slog", "zap")
	Observer string `json:"observer" mapstructure:"observer" yaml:"observer"`
}

// FailFast reports whether the first failure cancels remaining work.
// Defaults to true when unset.
func (c *ParallelConfig) FailFast() bool {
	if c.FailFastNil == nil {
		return true
	}
	return *c.FailFastNil
}

// DefaultParallelConfig returns sensible defaults for parallel execution.
//
// Default configuration:
//   - MaxWorkers: 0 (auto-detect: min(NumCPU*2, WorkerCap, len(items)))
//   - WorkerCap: 16
//   - FailFast: true
//   - Observer: "slog"
func DefaultParallelConfig() ParallelConfig {
	failFast := true
	return ParallelConfig{
		MaxWorkers:  0,
		WorkerCap:   16,
		FailFastNil: &failFast,
		Observer:    "slog",
	}
}

func (c *ParallelConfig) Merge(source *ParallelConfig) {
	if source.MaxWorkers > 0 {
		c.MaxWorkers = source.MaxWorkers
	}

	if source.WorkerCap > 0 {
		c.WorkerCap = source.WorkerCap
	}

	if source.FailFastNil != nil {
		c.FailFastNil = source.FailFastNil
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// Package config provides configuration structures for orchestration components.
//
// Configuration only exists during initialization. State graphs and parallel
// workflows read these values once and never hold on to them. Observer and
// checkpoint store names are strings so a YAML or JSON file can select them
// for resolution through their registries at construction time.
//
// # Configuration Merging
//
// All configuration types support a Merge pattern. Loaded configs merge over
// defaults:
//
//	cfg := config.DefaultGraphConfig("interview")
//	var loaded config.GraphConfig
//	yaml.Unmarshal(data, &loaded)
//	cfg.Merge(&loaded)
//
// Merge semantics by field type:
//
//   - Strings: Merge if source is non-empty
//   - Integers: Merge if source is greater than zero
//   - Pointers: Merge if source is non-nil
//   - Nested configs: Recursive merge
//
// # Boolean Fields with Non-False Defaults
//
// For boolean fields where the default is true, a *bool field with a "Nil"
// suffix is paired with an accessor of the original name:
//
//	type ParallelConfig struct {
//	    FailFastNil *bool `json:"fail_fast"`
//	}
//
//	func (c *ParallelConfig) FailFast() bool
//
// An omitted key leaves the pointer nil and the accessor returns the default,
// so a partial config file cannot silently flip a true default to false.
package config

package enrich

import "github.com/tailored-agentic-units/coach/orchestrate/config"

const (
	DefaultFallback    = "No direct link found; searching the topic manually is recommended."
	DefaultErrorPrefix = "Lookup error: "
	DefaultQuerySuffix = "tutorial documentation"
	DefaultPosition    = "developer"
)

// Config controls report enrichment.
type Config struct {
	// Searcher names the lookup.Searcher used for queries.
	Searcher string `json:"searcher,omitempty" mapstructure:"searcher" yaml:"searcher,omitempty"`

	// QuerySuffix sits between the topic and the position in each query.
	QuerySuffix string `json:"query_suffix,omitempty" mapstructure:"query_suffix" yaml:"query_suffix,omitempty"`

	// Fallback is attached when a lookup returns no URL.
	Fallback string `json:"fallback,omitempty" mapstructure:"fallback" yaml:"fallback,omitempty"`

	// ErrorPrefix precedes the error text attached when a lookup fails.
	ErrorPrefix string `json:"error_prefix,omitempty" mapstructure:"error_prefix" yaml:"error_prefix,omitempty"`

	// Parallel bounds concurrent lookups. Fail-fast is always disabled and
	// events go to the Enricher's observer rather than Parallel.Observer.
	Parallel config.ParallelConfig `json:"parallel" mapstructure:"parallel" yaml:"parallel"`
}

func DefaultConfig() Config {
	parallel := config.DefaultParallelConfig()
	parallel.WorkerCap = 4

	return Config{
		Searcher:    "duckduckgo",
		QuerySuffix: DefaultQuerySuffix,
		Fallback:    DefaultFallback,
		ErrorPrefix: DefaultErrorPrefix,
		Parallel:    parallel,
	}
}

func (c *Config) Merge(source *Config) {
	if source.Searcher != "" {
		c.Searcher = source.Searcher
	}
	if source.QuerySuffix != "" {
		c.QuerySuffix = source.QuerySuffix
	}
	if source.Fallback != "" {
		c.Fallback = source.Fallback
	}
	if source.ErrorPrefix != "" {
		c.ErrorPrefix = source.ErrorPrefix
	}
	c.Parallel.Merge(&source.Parallel)
}

// Package workflows provides generic concurrent processing patterns.
//
// ProcessParallel fans a slice of items out to a bounded pool of goroutines
// and gathers the results back in input order. It supports fail-fast and
// collect-all-errors modes and reports progress through an optional
// callback and the observability events in events.go.
//
//	cfg := config.DefaultParallelConfig()
//	result, err := workflows.ProcessParallel(ctx, cfg, topics, search, nil)
//	if err != nil {
//	    return err
//	}
//	for i, links := range result.Results {
//	    fmt.Println(topics[i], links)
//	}
package workflows

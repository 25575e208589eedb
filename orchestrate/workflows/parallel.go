package workflows

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/coach/observability"
	"github.com/tailored-agentic-units/coach/orchestrate/config"
)

// TaskProcessor processes a single item and returns a result. Tasks run
// independently of one another.
type TaskProcessor[TItem, TResult any] func(
	ctx context.Context,
	item TItem,
) (TResult, error)

// ProgressFunc is called after each successful item with the number of
// completed items, the total and the item's result. Calls may come from
// several goroutines.
type ProgressFunc[TResult any] func(
	completed int,
	total int,
	result TResult,
)

// ParallelOption adjusts a single ProcessParallel run.
type ParallelOption func(*parallelRun)

type parallelRun struct {
	observer observability.Observer
}

// WithObserver sends the run's events to o instead of the observer named by
// the config.
func WithObserver(o observability.Observer) ParallelOption {
	return func(r *parallelRun) { r.observer = o }
}

// ProcessParallel executes processor over items concurrently.
//
// Worker count is MaxWorkers when positive, otherwise
// min(NumCPU*2, WorkerCap, len(items)).
//
// FailFast=true (default):
//   - The first error cancels the context passed to in-flight processors
//   - Items not yet started are skipped
//   - Returns ParallelError with the failures
//
// FailFast=false:
//   - Every item is processed
//   - Returns ParallelError only if ALL items failed
//   - Check result.Errors for partial failures
//
// Cancellation of ctx stops scheduling new items and returns the partial
// result with a wrapped ctx.Err().
func ProcessParallel[TItem, TResult any](
	ctx context.Context,
	cfg config.ParallelConfig,
	items []TItem,
	processor TaskProcessor[TItem, TResult],
	progress ProgressFunc[TResult],
	opts ...ParallelOption,
) (ParallelResult[TItem, TResult], error) {
	var run parallelRun
	for _, opt := range opts {
		opt(&run)
	}

	observer := run.observer
	if observer == nil {
		var err error
		if observer, err = observability.GetObserver(cfg.Observer); err != nil {
			return ParallelResult[TItem, TResult]{}, fmt.Errorf("failed to resolve observer: %w", err)
		}
	}

	workerCount := 0
	if len(items) > 0 {
		workerCount = calculateWorkerCount(cfg.MaxWorkers, cfg.WorkerCap, len(items))
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventParallelStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "workflows.ProcessParallel",
		Data: map[string]any{
			"item_count":            len(items),
			"worker_count":          workerCount,
			"fail_fast":             cfg.FailFast(),
			"has_progress_callback": progress != nil,
		},
	})

	results := make([]TResult, len(items))
	failures := make([]error, len(items))
	var succeeded atomic.Int32

	if len(items) > 0 {
		var group *errgroup.Group
		workCtx := ctx
		if cfg.FailFast() {
			group, workCtx = errgroup.WithContext(ctx)
		} else {
			group = new(errgroup.Group)
		}
		group.SetLimit(workerCount)

		failFast := cfg.FailFast()

		for i, item := range items {
			if workCtx.Err() != nil {
				break
			}

			group.Go(func() error {
				if workCtx.Err() != nil {
					return nil
				}

				observer.OnEvent(workCtx, observability.Event{
					Type:      EventWorkerStart,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    "workflows.ProcessParallel",
					Data: map[string]any{
						"item_index":  i,
						"total_items": len(items),
					},
				})

				result, err := processor(workCtx, item)

				observer.OnEvent(workCtx, observability.Event{
					Type:      EventWorkerComplete,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    "workflows.ProcessParallel",
					Data: map[string]any{
						"item_index":  i,
						"total_items": len(items),
						"error":       err != nil,
					},
				})

				if err != nil {
					failures[i] = err
					if failFast {
						return err
					}
					return nil
				}

				results[i] = result
				count := succeeded.Add(1)
				if progress != nil {
					progress(int(count), len(items), result)
				}
				return nil
			})
		}

		// Failures are collected per index; the group error is only the
		// cancellation trigger.
		_ = group.Wait()
	}

	out := ParallelResult[TItem, TResult]{
		Results: results,
		Errors:  []TaskError[TItem]{},
	}
	for i, err := range failures {
		if err != nil {
			out.Errors = append(out.Errors, TaskError[TItem]{Index: i, Item: items[i], Err: err})
		}
	}

	var runErr error
	switch {
	case ctx.Err() != nil:
		runErr = fmt.Errorf("parallel execution cancelled: %w", ctx.Err())
	case len(out.Errors) > 0 && (cfg.FailFast() || len(out.Errors) == len(items)):
		runErr = &ParallelError[TItem]{Errors: out.Errors}
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventParallelComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "workflows.ProcessParallel",
		Data: map[string]any{
			"items_processed": int(succeeded.Load()),
			"items_failed":    len(out.Errors),
			"error":           runErr != nil,
		},
	})

	return out, runErr
}

// calculateWorkerCount determines worker pool size.
//
// When maxWorkers is 0 it starts with NumCPU*2, caps at workerCap and
// itemCount, and ensures at least 1 worker.
func calculateWorkerCount(maxWorkers, workerCap, itemCount int) int {
	if maxWorkers > 0 {
		return maxWorkers
	}

	if workerCap <= 0 {
		workerCap = itemCount
	}

	workers := min(min(runtime.NumCPU()*2, workerCap), itemCount)

	if workers <= 0 {
		workers = 1
	}

	return workers
}

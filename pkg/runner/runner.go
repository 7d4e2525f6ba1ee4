package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// Task converts a single file. It runs on a worker goroutine and must not
// share mutable state with other invocations.
type Task func(ctx context.Context, file File) (Conversion, error)

// Runner converts discovered files with a bounded pool of workers.
type Runner struct {
	task Task
}

// New creates a Runner that applies task to every discovered file.
func New(task Task) *Runner {
	return &Runner{task: task}
}

// Run discovers files under opts.Paths and converts them concurrently.
// Outcomes are collected in discovery order regardless of completion order.
// A failing file does not stop the batch; cancellation does.
//
// The pipeline:
//  1. Discover and sort the input files.
//  2. Start min(opts.Jobs, files) workers; zero jobs means one per CPU.
//  3. Feed file indexes to the workers until done or cancelled.
//  4. Fold the outcomes into the result in discovery order.
//
// On cancellation the partial result is returned along with the error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: Stats{MarkedRanges: make(map[string]int)},
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	// Workers receive indexes and write into their own slot of outcomes, so
	// no lock is needed and ordering falls out of the slice.
	workCh := make(chan int)
	outcomes := make([]*FileOutcome, len(files))

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				// Stop picking up files once cancelled.
				if ctx.Err() != nil {
					return
				}
				outcome := FileOutcome{File: files[idx]}
				outcome.Conversion, outcome.Error = r.task(ctx, files[idx])
				outcomes[idx] = &outcome
			}
		}()
	}

	// Stop feeding as soon as the context is done.
feed:
	for idx := range files {
		select {
		case <-ctx.Done():
			break feed
		case workCh <- idx:
		}
	}
	close(workCh)
	wg.Wait()

	// Nil slots are files never started because of cancellation.
	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

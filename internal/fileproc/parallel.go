// Package fileproc provides concurrent, order-preserving file processing.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *ProcessingErrors) Unwrap() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}
	return errs
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each item is processed, successfully or not.
type ProgressFunc func()

type options struct {
	maxWorkers int
	onProgress ProgressFunc
}

// Option configures Map and ForEachFile.
type Option func(*options)

// WithMaxWorkers bounds concurrency. Values <= 0 mean 2x NumCPU.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// WithProgress registers a callback invoked once per item.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.onProgress = fn
	}
}

// Map applies fn to items in parallel. Results keep the order of items.
// Failed items leave a zero value in their slot and are reported, sorted by
// input position, in a *ProcessingErrors keyed by pathOf. A cancelled context
// stops scheduling and returns the context error.
func Map[I, O any](ctx context.Context, items []I, pathOf func(I) string, fn func(I) (O, error), opts ...Option) ([]O, error) {
	if len(items) == 0 {
		return nil, ctx.Err()
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxWorkers <= 0 {
		o.maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]O, len(items))
	failed := make([]error, len(items))

	p := pool.New().WithMaxGoroutines(o.maxWorkers).WithContext(ctx)
	for i, item := range items {
		p.Go(func(ctx context.Context) error {
			if o.onProgress != nil {
				defer o.onProgress()
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns slot i, so no locking is needed.
			results[i], failed[i] = fn(item)
			return nil
		})
	}
	_ = p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	errs := &ProcessingErrors{}
	for i, err := range failed {
		if err != nil {
			errs.Add(pathOf(items[i]), err)
		}
	}
	if errs.HasErrors() {
		return results, errs
	}
	return results, nil
}

// ForEachFile applies fn to each path in parallel with results in path order.
func ForEachFile[T any](ctx context.Context, files []string, fn func(string) (T, error), opts ...Option) ([]T, error) {
	return Map(ctx, files, func(path string) string { return path }, fn, opts...)
}

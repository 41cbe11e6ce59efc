package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/config"
)

// DefaultTimeout bounds a single Execute call when the caller does not
// override it.
const DefaultTimeout = 5 * time.Minute

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tasks failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ParallelExecutorImpl implements domain.ParallelExecutor
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	mu             sync.RWMutex
}

// NewParallelExecutor creates a parallel executor with defaults.
// Uses runtime.NumCPU() for concurrency and a 5 minute timeout.
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
	}
}

// NewParallelExecutorFromConfig creates a parallel executor from the
// analysis configuration. Concurrency 0 means one worker per CPU.
func NewParallelExecutorFromConfig(cfg *config.AnalysisConfig) *ParallelExecutorImpl {
	maxConcurrency := cfg.Concurrency
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}

	return &ParallelExecutorImpl{
		maxConcurrency: maxConcurrency,
		timeout:        DefaultTimeout,
	}
}

// NewParallelExecutorWithProgress creates a parallel executor with progress tracking
func NewParallelExecutorWithProgress(cfg *config.AnalysisConfig, pm domain.ProgressManager) *ParallelExecutorImpl {
	executor := NewParallelExecutorFromConfig(cfg)
	executor.progress = pm
	return executor
}

// Execute runs tasks in parallel with the configured concurrency and timeout
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabledTasks := e.filterEnabledTasks(tasks)
	if len(enabledTasks) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	e.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		task = e.progress.StartTask("Analyzing files", len(enabledTasks))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(maxConcurrency)

	var errMu sync.Mutex
	var taskErrors []TaskError

	for _, t := range enabledTasks {
		t := t
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{TaskName: t.Name(), Err: gCtx.Err()})
				errMu.Unlock()
				return nil
			default:
			}

			_, err := t.Execute(gCtx)

			task.Increment(1)

			if err != nil {
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{TaskName: t.Name(), Err: err})
				errMu.Unlock()
			}

			// Return nil so the remaining tasks still run; failures are
			// aggregated below instead of cancelling the group.
			return nil
		})
	}

	_ = g.Wait()

	if len(taskErrors) > 0 {
		return &AggregatedError{Errors: taskErrors}
	}

	return nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for all tasks
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

// filterEnabledTasks returns only tasks where IsEnabled() returns true
func (e *ParallelExecutorImpl) filterEnabledTasks(tasks []domain.ExecutableTask) []domain.ExecutableTask {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

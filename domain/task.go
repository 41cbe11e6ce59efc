package domain

import "context"

// ExecutableTask represents a unit of work the parallel executor can run
type ExecutableTask interface {
	// Name returns a human-readable task name for error reporting
	Name() string

	// Execute runs the task and returns its result
	Execute(ctx context.Context) (interface{}, error)

	// IsEnabled reports whether the task should run at all
	IsEnabled() bool
}

// ParallelExecutor runs independent tasks concurrently
type ParallelExecutor interface {
	// Execute runs all enabled tasks and returns an aggregated error if
	// any of them failed
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// ProgressManager creates progress trackers for long-running operations
type ProgressManager interface {
	// StartTask creates a new progress task with a description and total count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress is actually displayed
	IsInteractive() bool

	// Close cleans up all tasks
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}

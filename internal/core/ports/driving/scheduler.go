package driving

import "context"

// Scheduler runs the mirror sync periodically.
type Scheduler interface {
	// Start begins the scheduler loop. Blocks until Stop is called or ctx ends.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler, waiting for a running task.
	Stop() error
}

package driving

import (
	"context"

	"github.com/custodia-labs/aipsync/internal/core/domain"
)

// SyncOrchestrator mirrors every category and assembles the bundle.
type SyncOrchestrator interface {
	// Run synchronises all categories into targetDir and finalizes the bundle.
	// Individual document failures do not fail the run.
	Run(ctx context.Context, targetDir string) (*domain.SyncReport, error)

	// Status returns the state of the current run.
	Status(ctx context.Context) (*SyncStatus, error)
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// RunID identifies the run, empty when idle.
	RunID string

	// Running indicates if sync is currently in progress.
	Running bool

	// Category is the category being processed.
	Category domain.CategoryID

	// DocumentsProcessed is the count of descriptors handled so far.
	DocumentsProcessed int

	// ErrorCount is the number of errors encountered.
	ErrorCount int
}

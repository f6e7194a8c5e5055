package driven

import "github.com/custodia-labs/aipsync/internal/core/domain"

// MetricsSink exports the counters of a completed run.
type MetricsSink interface {
	// Record exports report. Called once per run, after the bundle is finalized
	// or the run aborted.
	Record(report *domain.SyncReport) error
}

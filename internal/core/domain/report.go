package domain

import "time"

// CategoryReport counts per-descriptor outcomes for one category.
type CategoryReport struct {
	// Category is the category that was synchronised.
	Category CategoryID

	// Listed is the number of descriptors the source returned.
	Listed int

	// Fetched is the number of documents transferred this run.
	Fetched int

	// Bundled is the number of documents appended to the bundle.
	Bundled int

	// UpToDate is the number of documents skipped as current.
	UpToDate int

	// NotYetEffective is the number of documents skipped as future revisions.
	NotYetEffective int

	// InvalidContentType is the number of documents skipped for their content type.
	InvalidContentType int

	// Failed is the number of documents whose probe or transfer failed.
	Failed int

	// ListError is set when the descriptor source could not list the category.
	ListError string
}

// Record counts a verdict that skipped a descriptor.
func (r *CategoryReport) Record(v Verdict) {
	switch v {
	case VerdictUpToDate:
		r.UpToDate++
	case VerdictNotYetEffective:
		r.NotYetEffective++
	case VerdictInvalidContentType:
		r.InvalidContentType++
	}
}

// SyncReport is the outcome of one orchestrator run.
type SyncReport struct {
	// RunID uniquely identifies the run in logs and metrics.
	RunID string

	// TargetDir is the directory the run mirrored into.
	TargetDir string

	// BundlePath is the finalized bundle, empty if the run aborted.
	BundlePath string

	// Published is the remote location of the bundle, if it was published.
	Published string

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run ended.
	EndedAt time.Time

	// Categories holds one report per category, in processing order.
	Categories []CategoryReport

	// Entries is the bundle table of contents, in order.
	Entries []BundleEntry

	// Dropped lists current copies the encoder rejected. Their local files
	// are removed so the next run fetches them again.
	Dropped []BundleEntry
}

// Totals sums the per-category reports.
func (r *SyncReport) Totals() CategoryReport {
	var t CategoryReport
	for _, c := range r.Categories {
		t.Listed += c.Listed
		t.Fetched += c.Fetched
		t.Bundled += c.Bundled
		t.UpToDate += c.UpToDate
		t.NotYetEffective += c.NotYetEffective
		t.InvalidContentType += c.InvalidContentType
		t.Failed += c.Failed
	}
	return t
}

// Duration returns how long the run took.
func (r *SyncReport) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

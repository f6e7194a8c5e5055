package domain

// Verdict is the freshness classification of one descriptor against its local copy.
// Verdicts are computed on every run and never persisted.
type Verdict int

const (
	// VerdictNeedsFetch means the local copy is missing or stamped before the remote last-modified.
	VerdictNeedsFetch Verdict = iota

	// VerdictUpToDate means the local copy is stamped at or after the remote last-modified.
	VerdictUpToDate

	// VerdictNotYetEffective means the document is a pre-published future revision.
	VerdictNotYetEffective

	// VerdictInvalidContentType means the remote does not declare the expected document type.
	VerdictInvalidContentType
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictNeedsFetch:
		return "needs-fetch"
	case VerdictUpToDate:
		return "up-to-date"
	case VerdictNotYetEffective:
		return "not-yet-effective"
	case VerdictInvalidContentType:
		return "invalid-content-type"
	default:
		return "unknown"
	}
}

// Skips reports whether the verdict excludes the descriptor from this run.
func (v Verdict) Skips() bool {
	return v != VerdictNeedsFetch
}

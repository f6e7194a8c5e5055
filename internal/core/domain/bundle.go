package domain

// DefaultBundleName is the well-known output file name inside the target directory.
const DefaultBundleName = "AIP New Zealand.pdf"

// DefaultBundleTitle is the document-level title of the merged bundle.
const DefaultBundleTitle = "AIP New Zealand"

// BundleEntry is one document included in the merged bundle.
type BundleEntry struct {
	// Path is the local file path of the document.
	Path string

	// Label is the top-level bookmark label.
	Label string

	// Current marks a local copy that was already up to date and not
	// fetched by this run.
	Current bool
}

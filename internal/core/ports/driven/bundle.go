package driven

// BundleEncoder concatenates documents into one container with bookmarks.
// An encoder is used for exactly one bundle.
type BundleEncoder interface {
	// SetTitle sets the document-level title. Called once, before any Append.
	SetTitle(title string) error

	// Append adds the file at path as a top-level bookmark named label.
	// Unreadable or corrupt files fail here, before anything is written.
	Append(path, label string) error

	// Encode writes the merged document to outputPath.
	// Zero appended documents produce an empty but valid document.
	Encode(outputPath string) error
}

// BundleEncoderFactory creates encoders, one per run.
type BundleEncoderFactory interface {
	// Create returns a fresh encoder.
	Create() (BundleEncoder, error)
}

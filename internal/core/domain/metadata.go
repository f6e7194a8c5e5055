package domain

import "time"

// DocumentContentType is the only content type accepted for mirrored documents.
const DocumentContentType = "application/pdf"

// ResourceMetadata is what a transport reports about a remote resource
// without transferring its body.
type ResourceMetadata struct {
	// ContentType is the declared media type, without parameters.
	ContentType string

	// LastModified is the declared last-modified instant.
	// The zero value means the resource declared none.
	LastModified time.Time
}

// HasLastModified reports whether the resource declared a last-modified instant.
func (m ResourceMetadata) HasLastModified() bool {
	return !m.LastModified.IsZero()
}

package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/aipsync/internal/core/domain"
)

// Transport performs network access on behalf of the core.
// Any non-2xx response is reported as a *domain.TransferError.
type Transport interface {
	// Head fetches resource metadata without transferring the body.
	Head(ctx context.Context, locator string) (*domain.ResourceMetadata, error)

	// Get opens a streaming body for the resource.
	// The caller must close the returned reader.
	Get(ctx context.Context, locator string) (io.ReadCloser, *domain.ResourceMetadata, error)
}

package driven

import "context"

// Publisher distributes a finalized bundle.
type Publisher interface {
	// Publish uploads the file at path and returns where it was stored.
	Publish(ctx context.Context, path string) (string, error)
}

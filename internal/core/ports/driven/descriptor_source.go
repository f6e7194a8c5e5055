package driven

import (
	"context"

	"github.com/custodia-labs/aipsync/internal/core/domain"
)

// DescriptorSource lists the documents published under a category.
// Each source type (the AIP category pages, fixtures in tests) implements this interface.
type DescriptorSource interface {
	// List returns the category's descriptors in source order.
	List(ctx context.Context, category domain.Category) ([]domain.Descriptor, error)
}

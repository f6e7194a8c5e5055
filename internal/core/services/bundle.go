package services

import (
	"sync"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
)

// partialSuffix marks a bundle that is still being written.
const partialSuffix = ".partial"

// BundleAssembler accumulates documents into one bookmarked bundle.
// It moves from open to finalized exactly once.
type BundleAssembler struct {
	encoder driven.BundleEncoder
	fs      driven.Filesystem

	mu        sync.Mutex
	entries   []domain.BundleEntry
	finalized bool
}

// OpenBundle starts a new bundle with the given document title.
func OpenBundle(factory driven.BundleEncoderFactory, fsys driven.Filesystem, title string) (*BundleAssembler, error) {
	enc, err := factory.Create()
	if err != nil {
		return nil, &domain.AssemblyError{Path: title, Err: err}
	}
	if err := enc.SetTitle(title); err != nil {
		return nil, &domain.AssemblyError{Path: title, Err: err}
	}
	return &BundleAssembler{encoder: enc, fs: fsys}, nil
}

// Append adds entry as the next top-level bookmark.
func (b *BundleAssembler) Append(entry domain.BundleEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finalized {
		return domain.ErrBundleFinalized
	}
	if err := b.encoder.Append(entry.Path, entry.Label); err != nil {
		return &domain.AssemblyError{Path: entry.Path, Err: err}
	}
	b.entries = append(b.entries, entry)
	return nil
}

// Entries returns the appended entries in order.
func (b *BundleAssembler) Entries() []domain.BundleEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.BundleEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Finalize writes the bundle to outputPath.
// The bundle is encoded next to outputPath and renamed into place, so an
// existing bundle is only replaced by a complete one.
func (b *BundleAssembler) Finalize(outputPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finalized {
		return domain.ErrBundleFinalized
	}
	b.finalized = true

	partial := outputPath + partialSuffix
	if err := b.encoder.Encode(partial); err != nil {
		_ = b.fs.Remove(partial)
		return &domain.AssemblyError{Path: outputPath, Err: err}
	}
	if err := b.fs.Rename(partial, outputPath); err != nil {
		_ = b.fs.Remove(partial)
		return &domain.AssemblyError{Path: outputPath, Err: err}
	}
	return nil
}

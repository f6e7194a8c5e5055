package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// Fetcher transfers a document to its local path.
type Fetcher struct {
	transport driven.Transport
	fs        driven.Filesystem
}

// NewFetcher creates a new fetcher.
func NewFetcher(transport driven.Transport, fsys driven.Filesystem) *Fetcher {
	return &Fetcher{
		transport: transport,
		fs:        fsys,
	}
}

// Fetch streams the document body to destPath.
// The body is written to a temporary file in the same directory and renamed
// into place, so a failed transfer never leaves a truncated file under destPath.
// On success the file's access and modification times are set to the remote
// last-modified instant when one is declared.
func (f *Fetcher) Fetch(ctx context.Context, desc domain.Descriptor, destPath string) error {
	if _, err := f.fs.Stat(destPath); err == nil {
		logger.Warn("Updating %q", desc.DisplayName)
	}

	body, meta, err := f.transport.Get(ctx, desc.Locator)
	if err != nil {
		return asTransferError("get", desc.Locator, err)
	}
	defer body.Close()

	logger.Info("Downloading %q to %q", desc.Locator, destPath)
	if err := f.write(body, destPath); err != nil {
		return &domain.TransferError{Op: "write", Locator: desc.Locator, Err: err}
	}

	if meta != nil && meta.HasLastModified() {
		logger.Debug("Updating %q timestamp to %q", desc.DisplayName, meta.LastModified)
		lm := meta.LastModified
		if err := f.fs.Chtimes(destPath, lm, lm); err != nil {
			return &domain.TransferError{Op: "stamp", Locator: desc.Locator, Err: err}
		}
	}
	return nil
}

// write copies r to a temporary file and renames it to destPath.
func (f *Fetcher) write(r io.Reader, destPath string) (err error) {
	tmp, err := f.fs.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = f.fs.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("copy body: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err = f.fs.Rename(tmp.Name(), destPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// asTransferError wraps err unless it already is a transfer error.
func asTransferError(op, locator string, err error) error {
	var te *domain.TransferError
	if errors.As(err, &te) {
		return err
	}
	return &domain.TransferError{Op: op, Locator: locator, Err: err}
}

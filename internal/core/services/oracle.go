package services

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// FreshnessOracle decides whether a descriptor's local copy must be fetched.
type FreshnessOracle struct {
	transport driven.Transport
	fs        driven.Filesystem
	clock     driven.Clock
}

// NewFreshnessOracle creates a new freshness oracle.
func NewFreshnessOracle(transport driven.Transport, fsys driven.Filesystem, clock driven.Clock) *FreshnessOracle {
	return &FreshnessOracle{
		transport: transport,
		fs:        fsys,
		clock:     clock,
	}
}

// Evaluate classifies desc against the file at localPath.
// The first matching rule wins:
//
//  1. an effective date after now yields VerdictNotYetEffective
//  2. a content type other than the document type yields VerdictInvalidContentType
//  3. a local file stamped at or after the remote last-modified yields VerdictUpToDate
//  4. anything else yields VerdictNeedsFetch
//
// A failed metadata probe returns the error with VerdictNeedsFetch.
func (o *FreshnessOracle) Evaluate(ctx context.Context, desc domain.Descriptor, localPath string) (domain.Verdict, error) {
	if eff, ok := desc.EffectiveDate(); ok {
		logger.Info("Checking %q effective date", desc.DisplayName)
		if o.clock.Now().UTC().Before(eff) {
			logger.Warn("Skipping %q as it is not yet effective", desc.DisplayName)
			return domain.VerdictNotYetEffective, nil
		}
	}

	meta, err := o.transport.Head(ctx, desc.Locator)
	if err != nil {
		return domain.VerdictNeedsFetch, err
	}

	if !strings.EqualFold(meta.ContentType, domain.DocumentContentType) {
		logger.Error("Skipping %q as it has an invalid content type: %q", desc.DisplayName, meta.ContentType)
		return domain.VerdictInvalidContentType, nil
	}

	if !meta.HasLastModified() {
		return domain.VerdictNeedsFetch, nil
	}

	info, err := o.fs.Stat(localPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Stat %s: %v", localPath, err)
		}
		return domain.VerdictNeedsFetch, nil
	}

	// The fetcher stamps local files with the remote last-modified, so an
	// equal timestamp identifies the same revision.
	if !info.ModTime().Before(meta.LastModified) {
		logger.Info("Skipping %q as it is up to date", desc.DisplayName)
		return domain.VerdictUpToDate, nil
	}

	return domain.VerdictNeedsFetch, nil
}

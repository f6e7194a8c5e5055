package services

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// CategorySyncOptions tunes the category synchroniser.
type CategorySyncOptions struct {
	// Workers bounds concurrent document processing. Values below 1 mean 1.
	Workers int

	// IncludeUpToDate also bundles documents whose local copy is already
	// current. By default only documents fetched by the run are bundled.
	IncludeUpToDate bool
}

// CategorySynchronizer mirrors the documents of one category.
type CategorySynchronizer struct {
	source  driven.DescriptorSource
	oracle  *FreshnessOracle
	fetcher *Fetcher
	fs      driven.Filesystem
	opts    CategorySyncOptions
}

// NewCategorySynchronizer creates a new category synchroniser.
func NewCategorySynchronizer(
	source driven.DescriptorSource,
	oracle *FreshnessOracle,
	fetcher *Fetcher,
	fsys driven.Filesystem,
	opts CategorySyncOptions,
) *CategorySynchronizer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &CategorySynchronizer{
		source:  source,
		oracle:  oracle,
		fetcher: fetcher,
		fs:      fsys,
		opts:    opts,
	}
}

// outcome is the result of processing one descriptor.
type outcome struct {
	entry   *domain.BundleEntry
	verdict domain.Verdict
	fetched bool
	failed  bool
}

// Sync mirrors cat into its subdirectory of root and returns the bundle
// entries in source order.
//
// Failures of a single descriptor are logged and counted; they never abort
// the category. A listing failure is recorded in the report and yields no
// entries. Only directory setup failures and cancellation return an error.
func (s *CategorySynchronizer) Sync(
	ctx context.Context,
	root string,
	cat domain.Category,
) ([]domain.BundleEntry, domain.CategoryReport, error) {
	report := domain.CategoryReport{Category: cat.ID}
	dir := filepath.Join(root, cat.Dir)

	if cat.Volatile {
		if _, err := s.fs.Stat(dir); err == nil {
			logger.Info("Cleaning up %s", cat.ID)
		}
		if err := s.fs.RemoveAll(dir); err != nil {
			return nil, report, err
		}
	}
	if err := s.fs.MkdirAll(dir); err != nil {
		return nil, report, err
	}

	descs, err := s.source.List(ctx, cat)
	if err != nil {
		if ctx.Err() != nil {
			return nil, report, ctx.Err()
		}
		logger.Error("Failed to list %s documents: %v", cat.ID, err)
		report.ListError = err.Error()
		return nil, report, nil
	}
	report.Listed = len(descs)

	outcomes := make([]outcome, len(descs))
	dests := s.destinations(dir, cat, descs, outcomes)
	if s.opts.Workers == 1 {
		for i, desc := range descs {
			if err := ctx.Err(); err != nil {
				return nil, report, err
			}
			if dests[i] != "" {
				outcomes[i] = s.process(ctx, dests[i], cat, desc)
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.Workers)
		for i, desc := range descs {
			if dests[i] == "" {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = s.process(gctx, dests[i], cat, desc)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, report, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	entries := make([]domain.BundleEntry, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case o.failed:
			report.Failed++
		case o.fetched:
			report.Fetched++
		default:
			report.Record(o.verdict)
		}
		if o.entry != nil {
			entries = append(entries, *o.entry)
		}
	}
	report.Bundled = len(entries)
	return entries, report, nil
}

// destinations resolves the local path of every descriptor. A descriptor
// whose name is unusable, or whose path was already claimed by an earlier
// descriptor, gets an empty path and a failed outcome.
func (s *CategorySynchronizer) destinations(
	dir string,
	cat domain.Category,
	descs []domain.Descriptor,
	outcomes []outcome,
) []string {
	dests := make([]string, len(descs))
	claimed := make(map[string]string, len(descs))
	for i, desc := range descs {
		name, err := cat.FileName(desc)
		if err != nil {
			logger.Error("Skipping %q: %v", desc.DisplayName, err)
			outcomes[i] = outcome{failed: true}
			continue
		}
		dest := filepath.Join(dir, name)
		if first, ok := claimed[dest]; ok {
			logger.Error("Skipping %q: %q already maps to %q", desc.DisplayName, first, dest)
			outcomes[i] = outcome{failed: true}
			continue
		}
		claimed[dest] = desc.DisplayName
		dests[i] = dest
	}
	return dests
}

// process evaluates and, when needed, fetches one descriptor into dest.
func (s *CategorySynchronizer) process(
	ctx context.Context,
	dest string,
	cat domain.Category,
	desc domain.Descriptor,
) outcome {
	logger.Info("Downloading %q to %q", desc.DisplayName, dest)

	entry := &domain.BundleEntry{Path: dest, Label: cat.BookmarkLabel(desc)}

	verdict, err := s.oracle.Evaluate(ctx, desc, dest)
	if err != nil {
		logger.Error("Failed to check %q: %v", desc.DisplayName, err)
		return outcome{failed: true}
	}
	if verdict.Skips() {
		o := outcome{verdict: verdict}
		if verdict == domain.VerdictUpToDate && s.opts.IncludeUpToDate {
			entry.Current = true
			o.entry = entry
		}
		return o
	}

	if err := s.fetcher.Fetch(ctx, desc, dest); err != nil {
		logger.Error("Failed to download %q: %v", desc.DisplayName, err)
		return outcome{failed: true}
	}
	return outcome{entry: entry, verdict: verdict, fetched: true}
}

package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/core/ports/driving"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator runs the categories in order and assembles the bundle.
type SyncOrchestrator struct {
	categories   []domain.Category
	categorySync *CategorySynchronizer
	encoders     driven.BundleEncoderFactory
	fs           driven.Filesystem
	clock        driven.Clock
	bundle       domain.BundleSettings
	publisher    driven.Publisher
	metrics      driven.MetricsSink

	// Status tracking
	mu     sync.RWMutex
	status driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
// The publisher and metrics sink are optional; nil disables them.
func NewSyncOrchestrator(
	categories []domain.Category,
	categorySync *CategorySynchronizer,
	encoders driven.BundleEncoderFactory,
	fsys driven.Filesystem,
	clock driven.Clock,
	bundle domain.BundleSettings,
	publisher driven.Publisher,
	metrics driven.MetricsSink,
) *SyncOrchestrator {
	if bundle.Name == "" {
		bundle.Name = domain.DefaultBundleName
	}
	if bundle.Title == "" {
		bundle.Title = domain.DefaultBundleTitle
	}
	return &SyncOrchestrator{
		categories:   categories,
		categorySync: categorySync,
		encoders:     encoders,
		fs:           fsys,
		clock:        clock,
		bundle:       bundle,
		publisher:    publisher,
		metrics:      metrics,
	}
}

// Run mirrors every category into targetDir and writes the bundle there.
// Per-document and per-category listing failures are recorded in the report;
// directory setup, assembly failures and cancellation abort the run and
// leave any previous bundle in place. A rejected current copy is dropped
// from the bundle and deleted instead of aborting.
func (o *SyncOrchestrator) Run(ctx context.Context, targetDir string) (*domain.SyncReport, error) {
	runID := uuid.NewString()
	if !o.begin(runID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.end()

	report := &domain.SyncReport{
		RunID:     runID,
		TargetDir: targetDir,
		StartedAt: o.clock.Now(),
	}

	err := o.run(ctx, targetDir, report)
	report.EndedAt = o.clock.Now()

	if o.metrics != nil {
		if mErr := o.metrics.Record(report); mErr != nil {
			logger.Warn("Failed to record metrics: %v", mErr)
		}
	}
	if err != nil {
		logger.Error("Sync %s failed: %v", runID, err)
		return report, err
	}
	return report, nil
}

func (o *SyncOrchestrator) run(ctx context.Context, targetDir string, report *domain.SyncReport) error {
	logger.Section("Sync " + report.RunID)
	logger.Info("Syncing AIP to %q", targetDir)

	if err := o.fs.MkdirAll(targetDir); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}

	bundle, err := OpenBundle(o.encoders, o.fs, o.bundle.Title)
	if err != nil {
		return err
	}

	for _, cat := range o.categories {
		if err := ctx.Err(); err != nil {
			return err
		}
		o.setCategory(cat.ID)
		logger.Debug("Synchronising %s", cat.ID)

		entries, catReport, err := o.categorySync.Sync(ctx, targetDir, cat)
		report.Categories = append(report.Categories, catReport)
		o.addProgress(catReport)
		if err != nil {
			return fmt.Errorf("sync %s: %w", cat.ID, err)
		}

		for _, entry := range entries {
			logger.Info("Adding %q to bundle", entry.Label)
			if err := bundle.Append(entry); err != nil {
				if !entry.Current {
					return err
				}
				o.drop(entry, err)
				report.Dropped = append(report.Dropped, entry)
			}
		}
	}

	output := filepath.Join(targetDir, o.bundle.Name)
	logger.Info("Writing bundle to %q", output)
	if err := bundle.Finalize(output); err != nil {
		return err
	}
	report.BundlePath = output
	report.Entries = bundle.Entries()

	if o.publisher != nil {
		location, err := o.publisher.Publish(ctx, output)
		if err != nil {
			logger.Error("Failed to publish bundle: %v", err)
		} else {
			logger.Info("Published bundle to %s", location)
			report.Published = location
		}
	}
	return nil
}

// drop discards a current copy the encoder rejected so that the next run
// fetches it again instead of failing on it.
func (o *SyncOrchestrator) drop(entry domain.BundleEntry, cause error) {
	logger.Warn("Dropping %q from bundle: %v", entry.Label, cause)
	if err := o.fs.Remove(entry.Path); err != nil {
		logger.Warn("Failed to remove %q: %v", entry.Path, err)
	}
}

// Status returns the state of the current run.
func (o *SyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := o.status
	return &status, nil
}

// begin marks a run as active. Returns false if one already is.
func (o *SyncOrchestrator) begin(runID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.Running {
		return false
	}
	o.status = driving.SyncStatus{RunID: runID, Running: true}
	return true
}

func (o *SyncOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.Running = false
	o.status.Category = ""
}

func (o *SyncOrchestrator) setCategory(id domain.CategoryID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.Category = id
}

func (o *SyncOrchestrator) addProgress(r domain.CategoryReport) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.DocumentsProcessed += r.Listed
	o.status.ErrorCount += r.Failed
	if r.ListError != "" {
		o.status.ErrorCount++
	}
}

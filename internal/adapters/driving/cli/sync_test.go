package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aipsync/internal/core/domain"
)

func sampleReport() *domain.SyncReport {
	start := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	return &domain.SyncReport{
		RunID:      "run-42",
		BundlePath: "AIP/AIP New Zealand.pdf",
		StartedAt:  start,
		EndedAt:    start.Add(2 * time.Second),
		Categories: []domain.CategoryReport{
			{Category: domain.CategoryGEN, Listed: 3, Fetched: 1, UpToDate: 2, Bundled: 3},
			{Category: domain.CategorySUP, ListError: "status 503"},
		},
		Entries: make([]domain.BundleEntry, 3),
	}
}

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
	assert.Equal(t, "Mirror the AIP and write the bundle", syncCmd.Short)
}

func TestSyncCmd_NotConfigured(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "sync")

	assert.EqualError(t, err, "sync service not configured")
}

func TestSyncCmd_PrintsSummary(t *testing.T) {
	setupCLITest(t)
	orch := &mockSyncOrchestrator{report: sampleReport()}
	syncOrchestrator = orch

	out, err := execute(t, "sync", "--dest", "AIP")

	require.NoError(t, err)
	assert.Equal(t, []string{"AIP"}, orch.targets)
	assert.Contains(t, out, "Synchronising AIP to AIP...")
	assert.Contains(t, out, "Sync run-42")
	assert.Contains(t, out, "GEN")
	assert.Contains(t, out, "SUP could not be listed: status 503")
	assert.Contains(t, out, "AIP/AIP New Zealand.pdf (3 documents)")
}

func TestSyncCmd_DefaultDestFromSettings(t *testing.T) {
	setupCLITest(t)
	orch := &mockSyncOrchestrator{report: sampleReport()}
	settings := newMockSettings()
	settings.settings.Dest = "/var/lib/aip"
	syncOrchestrator, settingsService = orch, settings

	_, err := execute(t, "sync")

	require.NoError(t, err)
	assert.Equal(t, []string{"/var/lib/aip"}, orch.targets)
}

func TestSyncCmd_FailureStillPrintsReport(t *testing.T) {
	setupCLITest(t)
	report := sampleReport()
	report.BundlePath = ""
	syncOrchestrator = &mockSyncOrchestrator{report: report, err: errors.New("disk full")}

	out, err := execute(t, "sync", "-d", "AIP")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed: disk full")
	assert.Contains(t, out, "Bundle was not written")
}

func TestRenderSummary(t *testing.T) {
	report := sampleReport()
	report.Published = "s3://charts/AIP New Zealand.pdf"
	report.Categories[0].Failed = 2
	report.Dropped = []domain.BundleEntry{{Path: "GEN/g1.pdf", Label: "GEN 1", Current: true}}

	out := renderSummary(report, DefaultStyles())

	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "Up to date")
	assert.Contains(t, out, "Published: s3://charts/AIP New Zealand.pdf")
	assert.Contains(t, out, "2 documents failed")
	assert.Contains(t, out, `Dropped "GEN 1"`)
	assert.Contains(t, out, "Took 2s")
}

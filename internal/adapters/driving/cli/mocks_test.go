package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driving"
)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	mu      sync.Mutex
	report  *domain.SyncReport
	err     error
	targets []string
}

func (m *mockSyncOrchestrator) Run(_ context.Context, targetDir string) (*domain.SyncReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets = append(m.targets, targetDir)
	return m.report, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	getErr   error
	setErr   error
	set      map[string]string
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings(), set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"base_url", "dest"}
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// mockScheduler records its configuration and returns immediately.
type mockScheduler struct {
	config    domain.SchedulerConfig
	targetDir string
	startErr  error
	stopped   bool
}

func (m *mockScheduler) Start(_ context.Context) error { return m.startErr }

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

// setupCLITest isolates package state and flags for one test.
func setupCLITest(t *testing.T) {
	t.Helper()
	oldSync, oldSettings, oldScheduler := syncOrchestrator, settingsService, newScheduler
	oldBuilder, oldBuilt, oldBuildErr := builder, built, buildErr

	syncOrchestrator, settingsService, newScheduler = nil, nil, nil
	builder, built, buildErr = nil, nil, nil

	t.Cleanup(func() {
		syncOrchestrator, settingsService, newScheduler = oldSync, oldSettings, oldScheduler
		builder, built, buildErr = oldBuilder, oldBuilt, oldBuildErr
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

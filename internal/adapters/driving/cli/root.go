// Package cli provides the aipsync command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driving"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// version is set at build time.
var version = "dev"

// Options are the global flags that affect how services are built.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// Workers overrides sync.workers when positive.
	Workers int
}

// Services are the core services the commands drive.
type Services struct {
	Sync     driving.SyncOrchestrator
	Settings driving.SettingsService

	// NewScheduler creates a scheduler running the sync into targetDir.
	NewScheduler func(config domain.SchedulerConfig, targetDir string) driving.Scheduler

	// Close releases resources held by the services.
	Close func() error
}

// Builder creates the services once flags are parsed.
type Builder func(opts Options) (*Services, error)

var (
	builder  Builder
	built    *Services
	buildErr error

	syncOrchestrator driving.SyncOrchestrator
	settingsService  driving.SettingsService
	newScheduler     func(config domain.SchedulerConfig, targetDir string) driving.Scheduler
)

var (
	destFlag    string
	quietFlag   bool
	verboseFlag bool
	configFlag  string
	workersFlag int
)

var rootCmd = &cobra.Command{
	Use:   "aipsync",
	Short: "Mirror AIP New Zealand and bundle it into one PDF",
	Long: `aipsync mirrors the Aeronautical Information Publication of New Zealand
into a local directory, downloading only documents that changed, and merges
the mirror into a single bookmarked PDF.`,
	SilenceUsage:      true,
	PersistentPreRunE: configureLogging,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&destFlag, "dest", "d", "", "destination directory (default from config, AIP)")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "only log warnings and errors")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&configFlag, "config", "", "configuration directory (default ~/.aipsync)")
	flags.IntVar(&workersFlag, "workers", 0, "documents processed concurrently per category")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBuilder registers the function that creates services on first use.
func SetBuilder(b Builder) {
	builder = b
	built = nil
	buildErr = nil
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	err := rootCmd.Execute()
	if built != nil && built.Close != nil {
		if cerr := built.Close(); cerr != nil {
			logger.Warn("Failed to release resources: %v", cerr)
		}
	}
	return err
}

func configureLogging(_ *cobra.Command, _ []string) error {
	if quietFlag && verboseFlag {
		return errors.New("--quiet and --verbose are mutually exclusive")
	}
	logger.SetQuiet(quietFlag)
	logger.SetVerbose(verboseFlag)
	return nil
}

// requireServices builds the services on first use.
// Services already set directly are kept.
func requireServices() error {
	if builder == nil || built != nil || buildErr != nil {
		return buildErr
	}
	built, buildErr = builder(Options{ConfigDir: configFlag, Workers: workersFlag})
	if buildErr != nil {
		buildErr = fmt.Errorf("initialise: %w", buildErr)
		return buildErr
	}
	syncOrchestrator = built.Sync
	settingsService = built.Settings
	newScheduler = built.NewScheduler
	return nil
}

// resolveDest returns the target directory from the flag or settings.
func resolveDest() (string, error) {
	if destFlag != "" {
		return destFlag, nil
	}
	if settingsService == nil {
		return domain.DefaultSettings().Dest, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	return settings.Dest, nil
}

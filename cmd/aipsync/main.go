// Command aipsync mirrors AIP New Zealand and bundles it into one PDF.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/aipsync/internal/adapters/driven/bundle/pdf"
	"github.com/custodia-labs/aipsync/internal/adapters/driven/clock"
	"github.com/custodia-labs/aipsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/aipsync/internal/adapters/driven/metrics/prom"
	"github.com/custodia-labs/aipsync/internal/adapters/driven/publish/s3"
	"github.com/custodia-labs/aipsync/internal/adapters/driven/source/aipnz"
	"github.com/custodia-labs/aipsync/internal/adapters/driven/storage/localfs"
	"github.com/custodia-labs/aipsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/aipsync/internal/adapters/driven/transport/httpx"
	"github.com/custodia-labs/aipsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/core/ports/driving"
	"github.com/custodia-labs/aipsync/internal/core/services"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBuilder(build)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// build wires the adapters into the core services.
func build(opts cli.Options) (*cli.Services, error) {
	if err := file.LoadDotEnv(); err != nil {
		logger.Warn("Failed to load .env: %v", err)
	}

	configStore, err := openConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		// Settings stay editable so the invalid value can be fixed.
		unavailable := unavailableSync{err: fmt.Errorf("invalid settings in %s: %w", configStore.Path(), err)}
		return &cli.Services{
			Sync:     unavailable,
			Settings: settingsService,
			NewScheduler: func(config domain.SchedulerConfig, targetDir string) driving.Scheduler {
				return services.NewScheduler(config, memory.NewSchedulerStore(), unavailable, targetDir)
			},
		}, nil
	}
	if opts.Workers > 0 {
		settings.Sync.Workers = opts.Workers
	}

	if err := logger.SetFile(settings.Log.File, settings.Log.MaxSizeMB, settings.Log.MaxBackups); err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	orchestrator, err := buildOrchestrator(settings)
	if err != nil {
		return nil, err
	}

	return &cli.Services{
		Sync:     orchestrator,
		Settings: settingsService,
		NewScheduler: func(config domain.SchedulerConfig, targetDir string) driving.Scheduler {
			return services.NewScheduler(config, memory.NewSchedulerStore(), orchestrator, targetDir)
		},
		Close: logger.Close,
	}, nil
}

// openConfigStore opens the TOML store. When the default directory cannot be
// used, settings come from the environment alone.
func openConfigStore(configDir string) (driven.ConfigStore, error) {
	store, err := file.NewConfigStore(configDir)
	if err == nil {
		return store, nil
	}
	if configDir != "" {
		return nil, fmt.Errorf("open config: %w", err)
	}
	logger.Warn("Config file unavailable, using defaults and environment: %v", err)
	return memory.NewConfigStoreFrom(file.EnvOverrides(os.Environ())), nil
}

func buildOrchestrator(settings *domain.Settings) (*services.SyncOrchestrator, error) {
	client, err := httpx.New(httpx.Options{
		BaseURL:       settings.BaseURL,
		Timeout:       settings.HTTP.Timeout,
		Rate:          settings.HTTP.Rate,
		UserAgent:     settings.HTTP.UserAgent,
		RespectRobots: settings.HTTP.RespectRobots,
	})
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}

	fsys := localfs.New()
	clk := clock.System{}
	source := aipnz.New(client, settings.Supplements.Order)

	categorySync := services.NewCategorySynchronizer(
		source,
		services.NewFreshnessOracle(client, fsys, clk),
		services.NewFetcher(client, fsys),
		fsys,
		services.CategorySyncOptions{
			Workers:         settings.Sync.Workers,
			IncludeUpToDate: settings.Bundle.IncludeUpToDate,
		},
	)

	var metrics driven.MetricsSink
	if settings.Metrics.File != "" {
		metrics = prom.NewTextfileSink(settings.Metrics.File)
	}

	var publisher driven.Publisher
	if settings.Publish.S3Bucket != "" {
		p, err := s3.New(context.Background(), settings.Publish.S3Bucket, settings.Publish.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}
		publisher = p
	}

	return services.NewSyncOrchestrator(
		domain.DefaultCategories(),
		categorySync,
		pdf.NewFactory(),
		fsys,
		clk,
		settings.Bundle,
		publisher,
		metrics,
	), nil
}

// unavailableSync reports why the sync could not be configured.
type unavailableSync struct {
	err error
}

func (u unavailableSync) Run(context.Context, string) (*domain.SyncReport, error) {
	return nil, u.err
}

func (u unavailableSync) Status(context.Context) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBaseURL          = "base_url"
	keyDest             = "dest"
	keyBundleName       = "bundle.name"
	keyBundleTitle      = "bundle.title"
	keyBundleUpToDate   = "bundle.include_up_to_date"
	keyHTTPTimeout      = "http.timeout"
	keyHTTPRate         = "http.rate"
	keyHTTPUserAgent    = "http.user_agent"
	keyHTTPRobots       = "http.respect_robots"
	keySyncWorkers      = "sync.workers"
	keySupplementsOrder = "supplements.order"
	keyScheduleInterval = "schedule.interval"
	keyScheduleCron     = "schedule.cron"
	keyMetricsFile      = "metrics.file"
	keyPublishBucket    = "publish.s3_bucket"
	keyPublishPrefix    = "publish.s3_prefix"
	keyLogFile          = "log.file"
	keyLogMaxSizeMB     = "log.max_size_mb"
	keyLogMaxBackups    = "log.max_backups"
	keySchedulerEnabled = "scheduler.enabled"
	keySchedulerOnStart = "scheduler.run_on_start"
)

// settingKind is the value type a key accepts.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
)

// settingKinds lists every recognised key.
var settingKinds = map[string]settingKind{
	keyBaseURL:          kindString,
	keyDest:             kindString,
	keyBundleName:       kindString,
	keyBundleTitle:      kindString,
	keyBundleUpToDate:   kindBool,
	keyHTTPTimeout:      kindDuration,
	keyHTTPRate:         kindFloat,
	keyHTTPUserAgent:    kindString,
	keyHTTPRobots:       kindBool,
	keySyncWorkers:      kindInt,
	keySupplementsOrder: kindString,
	keyScheduleInterval: kindDuration,
	keyScheduleCron:     kindString,
	keyMetricsFile:      kindString,
	keyPublishBucket:    kindString,
	keyPublishPrefix:    kindString,
	keyLogFile:          kindString,
	keyLogMaxSizeMB:     kindInt,
	keyLogMaxBackups:    kindInt,
	keySchedulerEnabled: kindBool,
	keySchedulerOnStart: kindBool,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, falling back to defaults for
// unset keys. The result is validated.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		BaseURL: s.getString(keyBaseURL, d.BaseURL),
		Dest:    s.getString(keyDest, d.Dest),
		Bundle: domain.BundleSettings{
			Name:            s.getString(keyBundleName, d.Bundle.Name),
			Title:           s.getString(keyBundleTitle, d.Bundle.Title),
			IncludeUpToDate: s.getBool(keyBundleUpToDate, d.Bundle.IncludeUpToDate),
		},
		HTTP: domain.HTTPSettings{
			Timeout:       s.getDuration(keyHTTPTimeout, d.HTTP.Timeout),
			Rate:          s.getFloat(keyHTTPRate, d.HTTP.Rate),
			UserAgent:     s.getString(keyHTTPUserAgent, d.HTTP.UserAgent),
			RespectRobots: s.getBool(keyHTTPRobots, d.HTTP.RespectRobots),
		},
		Sync: domain.SyncSettings{
			Workers: s.getInt(keySyncWorkers, d.Sync.Workers),
		},
		Supplements: domain.SupplementSettings{
			Order: domain.SupplementOrder(s.getString(keySupplementsOrder, string(d.Supplements.Order))),
		},
		Schedule: domain.ScheduleSettings{
			Interval: s.getDuration(keyScheduleInterval, d.Schedule.Interval),
			Cron:     s.configStore.GetString(keyScheduleCron),
		},
		Metrics: domain.MetricsSettings{
			File: s.configStore.GetString(keyMetricsFile),
		},
		Publish: domain.PublishSettings{
			S3Bucket: s.configStore.GetString(keyPublishBucket),
			S3Prefix: s.configStore.GetString(keyPublishPrefix),
		},
		Log: domain.LogSettings{
			File:       s.configStore.GetString(keyLogFile),
			MaxSizeMB:  s.getInt(keyLogMaxSizeMB, d.Log.MaxSizeMB),
			MaxBackups: s.getInt(keyLogMaxBackups, d.Log.MaxBackups),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s must be a duration", domain.ErrInvalidInput, key)
		}
		typed = value
	default:
		typed = value
	}

	if key == keySupplementsOrder && !domain.SupplementOrder(value).IsValid() {
		return fmt.Errorf("%w: supplements.order must be %q or %q",
			domain.ErrInvalidInput, domain.SupplementOrderSource, domain.SupplementOrderEffective)
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// GetSchedulerConfig returns the scheduler configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	defaults := domain.DefaultSchedulerConfig()

	if _, exists := s.configStore.Get(keySchedulerEnabled); exists {
		defaults.Enabled = s.configStore.GetBool(keySchedulerEnabled)
	}
	if _, exists := s.configStore.Get(keySchedulerOnStart); exists {
		defaults.RunOnStart = s.configStore.GetBool(keySchedulerOnStart)
	}

	taskCfg := defaults.TaskConfigs[domain.TaskIDMirrorSync]
	taskCfg.Interval = s.getDuration(keyScheduleInterval, taskCfg.Interval)
	taskCfg.Cron = s.configStore.GetString(keyScheduleCron)
	defaults.TaskConfigs[domain.TaskIDMirrorSync] = taskCfg

	return defaults
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

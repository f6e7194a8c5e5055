package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aipsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/aipsync/internal/core/domain"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, svc.GetDefaults(), *settings)
	assert.Equal(t, "https://www.aip.net.nz/", settings.BaseURL)
	assert.Equal(t, "AIP", settings.Dest)
	assert.Equal(t, domain.DefaultBundleName, settings.Bundle.Name)
	assert.False(t, settings.Bundle.IncludeUpToDate)
}

func TestSettingsService_SetAndGet(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.Set("sync.workers", "4"))
	require.NoError(t, svc.Set("http.rate", "0.5"))
	require.NoError(t, svc.Set("http.timeout", "2m"))
	require.NoError(t, svc.Set("http.respect_robots", "false"))
	require.NoError(t, svc.Set("bundle.include_up_to_date", "true"))
	require.NoError(t, svc.Set("supplements.order", "effective"))
	require.NoError(t, svc.Set("publish.s3_bucket", "charts"))
	require.NoError(t, svc.Set("dest", "/srv/aip"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, settings.Sync.Workers)
	assert.Equal(t, 0.5, settings.HTTP.Rate)
	assert.Equal(t, 2*time.Minute, settings.HTTP.Timeout)
	assert.False(t, settings.HTTP.RespectRobots)
	assert.True(t, settings.Bundle.IncludeUpToDate)
	assert.Equal(t, domain.SupplementOrderEffective, settings.Supplements.Order)
	assert.Equal(t, "charts", settings.Publish.S3Bucket)
	assert.Equal(t, "/srv/aip", settings.Dest)

	// Typed values are stored, not strings.
	assert.Equal(t, 4, store.GetInt("sync.workers"))
	assert.False(t, store.GetBool("http.respect_robots"))
}

func TestSettingsService_SetRejectsInvalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	tests := []struct {
		key, value string
	}{
		{"unknown.key", "x"},
		{"sync.workers", "many"},
		{"http.rate", "fast"},
		{"http.respect_robots", "perhaps"},
		{"http.timeout", "soon"},
		{"supplements.order", "random"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.ErrorIs(t, svc.Set(tt.key, tt.value), domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_GetValidates(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("base_url", "not a url"))

	_, err := NewSettingsService(store).Get()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()
	assert.Contains(t, keys, "base_url")
	assert.Contains(t, keys, "publish.s3_prefix")
	assert.IsIncreasing(t, keys)
}

func TestSettingsService_GetSchedulerConfig(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	cfg := svc.GetSchedulerConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.GetTaskConfig(domain.TaskIDMirrorSync).Interval)

	require.NoError(t, svc.Set("schedule.interval", "6h"))
	require.NoError(t, svc.Set("schedule.cron", "0 3 * * *"))
	require.NoError(t, svc.Set("scheduler.run_on_start", "false"))

	cfg = svc.GetSchedulerConfig()
	taskCfg := cfg.GetTaskConfig(domain.TaskIDMirrorSync)
	assert.Equal(t, 6*time.Hour, taskCfg.Interval)
	assert.Equal(t, "0 3 * * *", taskCfg.Cron)
	assert.False(t, cfg.RunOnStart)
}

package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driving"
)

func setupScheduleTest(t *testing.T, startErr error) *mockScheduler {
	t.Helper()
	setupCLITest(t)
	sched := &mockScheduler{startErr: startErr}
	newScheduler = func(cfg domain.SchedulerConfig, dir string) driving.Scheduler {
		sched.config, sched.targetDir = cfg, dir
		return sched
	}
	return sched
}

func TestScheduleCmd_Every(t *testing.T) {
	sched := setupScheduleTest(t, nil)

	out, err := execute(t, "schedule", "--every", "1h", "-d", "mirror")

	require.NoError(t, err)
	task := sched.config.GetTaskConfig(domain.TaskIDMirrorSync)
	assert.Equal(t, time.Hour, task.Interval)
	assert.Empty(t, task.Cron)
	assert.True(t, sched.config.RunOnStart)
	assert.Equal(t, "mirror", sched.targetDir)
	assert.Contains(t, out, "every 1h0m0s")
	assert.Contains(t, out, "Scheduler stopped.")
}

func TestScheduleCmd_Cron(t *testing.T) {
	sched := setupScheduleTest(t, nil)

	out, err := execute(t, "schedule", "--cron", "0 3 * * *", "--no-initial-run")

	require.NoError(t, err)
	task := sched.config.GetTaskConfig(domain.TaskIDMirrorSync)
	assert.Equal(t, "0 3 * * *", task.Cron)
	assert.False(t, sched.config.RunOnStart)
	assert.Contains(t, out, `cron "0 3 * * *"`)
}

func TestScheduleCmd_FromSettings(t *testing.T) {
	sched := setupScheduleTest(t, nil)
	settings := newMockSettings()
	settings.settings.Schedule = domain.ScheduleSettings{Interval: 12 * time.Hour, Cron: "30 2 * * 1"}
	settingsService = settings

	_, err := execute(t, "schedule")

	require.NoError(t, err)
	task := sched.config.GetTaskConfig(domain.TaskIDMirrorSync)
	assert.Equal(t, "30 2 * * 1", task.Cron)
	assert.Equal(t, 12*time.Hour, task.Interval)
}

func TestScheduleCmd_FlagsAreExclusive(t *testing.T) {
	setupScheduleTest(t, nil)

	_, err := execute(t, "schedule", "--every", "1h", "--cron", "0 3 * * *")

	assert.Error(t, err)
}

func TestScheduleCmd_CancelledIsClean(t *testing.T) {
	sched := setupScheduleTest(t, context.Canceled)

	_, err := execute(t, "schedule", "--every", "1h")

	require.NoError(t, err)
	assert.True(t, sched.stopped)
}

func TestScheduleCmd_StartError(t *testing.T) {
	setupScheduleTest(t, domain.ErrInvalidInput)

	_, err := execute(t, "schedule", "--cron", "not a cron")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestScheduleCmd_NotConfigured(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "schedule")

	assert.EqualError(t, err, "scheduler not configured")
}

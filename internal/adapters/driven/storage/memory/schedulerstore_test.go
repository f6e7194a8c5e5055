package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aipsync/internal/core/domain"
)

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	now := time.Now().UTC()
	task := &domain.ScheduledTask{
		ID:       domain.TaskIDMirrorSync,
		Name:     "Mirror Sync",
		Interval: 24 * time.Hour,
		Cron:     "0 3 * * *",
		NextRun:  now.Add(time.Hour),
		Enabled:  true,
	}
	require.NoError(t, store.SaveTask(ctx, task))

	// Mutating the caller's copy does not change the stored task.
	task.Name = "changed"

	got, err := store.GetTask(ctx, domain.TaskIDMirrorSync)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Mirror Sync", got.Name)
	assert.Equal(t, "0 3 * * *", got.Cron)
	assert.Equal(t, 24*time.Hour, got.Interval)
	assert.True(t, got.NextRun.Equal(now.Add(time.Hour)))
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	task, err := NewSchedulerStore().GetTask(context.Background(), "non-existent")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_SaveTask_NilTask(t *testing.T) {
	err := NewSchedulerStore().SaveTask(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchedulerStore_ListTasks(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()
	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "b"}))
	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "a"}))

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
}

func TestSchedulerStore_RecordResult_NilResult(t *testing.T) {
	err := NewSchedulerStore().RecordResult(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchedulerStore_HistoryAndPrune(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{
			TaskID:         "prune-task",
			StartedAt:      now.Add(time.Duration(i) * time.Minute),
			Success:        true,
			ItemsProcessed: i + 1,
		}))
	}

	history, err := store.GetTaskHistory(ctx, "prune-task", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 10, history[0].ItemsProcessed)

	require.NoError(t, store.PruneHistory(ctx, 3))

	history, err = store.GetTaskHistory(ctx, "prune-task", 100)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 10, history[0].ItemsProcessed)
	assert.Equal(t, 9, history[1].ItemsProcessed)
	assert.Equal(t, 8, history[2].ItemsProcessed)
}

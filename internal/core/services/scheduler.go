package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/core/ports/driving"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is the number of results kept per task.
const historyRetention = 100

// Scheduler runs the mirror sync periodically.
// It is a pure core service with no external control API.
type Scheduler struct {
	config    domain.SchedulerConfig
	store     driven.SchedulerStore
	syncOrch  driving.SyncOrchestrator
	targetDir string
	tick      time.Duration

	mu       sync.Mutex
	running  bool
	inFlight map[string]bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	syncOrch driving.SyncOrchestrator,
	targetDir string,
) *Scheduler {
	return &Scheduler{
		config:    config,
		store:     store,
		syncOrch:  syncOrch,
		targetDir: targetDir,
		tick:      time.Minute,
		inFlight:  make(map[string]bool),
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if !s.config.Enabled {
		logger.Warn("Scheduler is disabled")
	}

	if err := s.initialiseTasks(ctx); err != nil {
		return fmt.Errorf("initialise tasks: %w", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for running tasks to complete
	s.wg.Wait()

	return nil
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	if taskCfg := s.config.GetTaskConfig(domain.TaskIDMirrorSync); taskCfg.Enabled {
		if err := s.ensureTask(ctx, domain.TaskIDMirrorSync, "Mirror Sync", taskCfg); err != nil {
			return err
		}
	}
	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	if cfg.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Cron); err != nil {
			return fmt.Errorf("%w: cron %q: %v", domain.ErrInvalidInput, cfg.Cron, err)
		}
	} else if cfg.Interval <= 0 {
		return fmt.Errorf("%w: task %s has no interval", domain.ErrInvalidInput, id)
	}

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Cron:     cfg.Cron,
			Enabled:  cfg.Enabled,
		}
		task.NextRun = nextRun(task, now)
	} else {
		// Recalculate next run from now if the schedule changed
		if task.Interval != cfg.Interval || task.Cron != cfg.Cron {
			task.Interval = cfg.Interval
			task.Cron = cfg.Cron
			task.NextRun = nextRun(task, now)
		}
		task.Enabled = cfg.Enabled
	}

	if s.config.RunOnStart {
		task.NextRun = now
	}

	return s.store.SaveTask(ctx, task)
}

// nextRun returns when task should run after from.
func nextRun(task *domain.ScheduledTask, from time.Time) time.Time {
	if task.Cron != "" {
		sched, err := cron.ParseStandard(task.Cron)
		if err == nil {
			return sched.Next(from)
		}
		logger.Warn("scheduler: invalid cron %q for %s: %v", task.Cron, task.ID, err)
	}
	return from.Add(task.Interval)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	// Check for due tasks immediately on startup
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	if !s.config.Enabled {
		return
	}

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Error("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task unless a previous run of it is still going.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.mu.Lock()
	if s.inFlight[task.ID] {
		s.mu.Unlock()
		logger.Debug("scheduler: %s still running, skipping", task.ID)
		return
	}
	s.inFlight[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, task.ID)
			s.mu.Unlock()
		}()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		var err error
		switch task.ID {
		case domain.TaskIDMirrorSync:
			result.RunID, result.ItemsProcessed, err = s.runMirrorSync(ctx)
		default:
			logger.Warn("scheduler: unknown task ID: %s", task.ID)
			return
		}

		result.EndedAt = time.Now()
		if err != nil {
			result.Success = false
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		// Update task state
		task.LastRun = result.StartedAt
		task.NextRun = nextRun(task, result.EndedAt)
		logger.Info("Next %s run at %s", task.ID, task.NextRun.Format(time.RFC3339))

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Error("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}

		// Record result for history
		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			logger.Error("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}

		if pruneErr := s.store.PruneHistory(ctx, historyRetention); pruneErr != nil {
			logger.Error("scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// runMirrorSync runs one sync and returns its run id and bundled count.
func (s *Scheduler) runMirrorSync(ctx context.Context) (string, int, error) {
	if s.syncOrch == nil {
		return "", 0, nil
	}

	report, err := s.syncOrch.Run(ctx, s.targetDir)
	if report == nil {
		return "", 0, err
	}
	return report.RunID, len(report.Entries), err
}

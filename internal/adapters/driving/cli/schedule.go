package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/aipsync/internal/core/domain"
)

var (
	everyFlag   time.Duration
	cronFlag    string
	noStartFlag bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the sync periodically",
	Long: `Runs the sync immediately and then on a schedule until interrupted.

The schedule is an interval (--every 24h) or a standard five-field cron
expression (--cron "0 3 * * *"). Without flags the configured schedule is used.
Runs never overlap.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().DurationVar(&everyFlag, "every", 0, "interval between runs")
	scheduleCmd.Flags().StringVar(&cronFlag, "cron", "", "cron expression for runs")
	scheduleCmd.Flags().BoolVar(&noStartFlag, "no-initial-run", false, "wait for the first scheduled time")
	scheduleCmd.MarkFlagsMutuallyExclusive("every", "cron")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	if newScheduler == nil {
		return errors.New("scheduler not configured")
	}

	dest, err := resolveDest()
	if err != nil {
		return err
	}
	config, err := scheduleConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	task := config.GetTaskConfig(domain.TaskIDMirrorSync)
	if task.Cron != "" {
		cmd.Printf("Scheduling sync to %s with cron %q. Press Ctrl+C to stop.\n", dest, task.Cron)
	} else {
		cmd.Printf("Scheduling sync to %s every %s. Press Ctrl+C to stop.\n", dest, task.Interval)
	}

	sched := newScheduler(config, dest)
	err = sched.Start(ctx)
	if stopErr := sched.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler: %w", err)
	}
	cmd.Println("Scheduler stopped.")
	return nil
}

// scheduleConfig merges configured schedule settings with the command flags.
func scheduleConfig() (domain.SchedulerConfig, error) {
	config := domain.DefaultSchedulerConfig()
	task := config.TaskConfigs[domain.TaskIDMirrorSync]

	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return config, fmt.Errorf("load settings: %w", err)
		}
		task.Interval = settings.Schedule.Interval
		task.Cron = settings.Schedule.Cron
	}

	switch {
	case everyFlag < 0:
		return config, fmt.Errorf("%w: --every must be positive", domain.ErrInvalidInput)
	case everyFlag > 0:
		task.Interval = everyFlag
		task.Cron = ""
	case cronFlag != "":
		task.Cron = cronFlag
	}

	config.RunOnStart = !noStartFlag
	config.TaskConfigs[domain.TaskIDMirrorSync] = task
	return config, nil
}

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
	"github.com/custodia-labs/aipsync/internal/core/ports/driving"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the AIP and write the bundle",
	Long: `Synchronises every category into the destination directory, downloading
only documents that are missing or changed, then merges the mirror into one
bookmarked PDF. Individual document failures are logged and skipped.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	dest, err := resolveDest()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Synchronising AIP to %s...\n", dest)
	report, err := syncWithProgress(ctx, cmd, syncOrchestrator, dest)
	if report != nil {
		cmd.Print(renderSummary(report, DefaultStyles()))
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// syncWithProgress runs sync while reporting each category as it starts.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	syncOrch driving.SyncOrchestrator,
	dest string,
) (*domain.SyncReport, error) {
	type result struct {
		report *domain.SyncReport
		err    error
	}

	// Start sync in goroutine
	done := make(chan result, 1)
	go func() {
		report, err := syncOrch.Run(ctx, dest)
		done <- result{report, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var last domain.CategoryID
	for {
		select {
		case r := <-done:
			return r.report, r.err
		case <-ticker.C:
			// Best effort; status errors are ignored
			status, statusErr := syncOrch.Status(ctx)
			if statusErr == nil && status != nil && status.Running && status.Category != last {
				last = status.Category
				cmd.Printf("Processing %s (%d documents so far)\n", last, status.DocumentsProcessed)
			}
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in the configuration file.

Environment variables prefixed AIPSYNC_ override file values, with "__"
separating sections (AIPSYNC_BUNDLE__NAME sets bundle.name).`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Printf("base_url: %s\n", settings.BaseURL)
	cmd.Printf("dest: %s\n", settings.Dest)
	cmd.Println()

	cmd.Println("[bundle]")
	cmd.Printf("  name: %s\n", settings.Bundle.Name)
	cmd.Printf("  title: %s\n", settings.Bundle.Title)
	cmd.Printf("  include_up_to_date: %t\n", settings.Bundle.IncludeUpToDate)
	cmd.Println()

	cmd.Println("[http]")
	cmd.Printf("  timeout: %s\n", settings.HTTP.Timeout)
	cmd.Printf("  rate: %g/s\n", settings.HTTP.Rate)
	cmd.Printf("  user_agent: %s\n", settings.HTTP.UserAgent)
	cmd.Printf("  respect_robots: %t\n", settings.HTTP.RespectRobots)
	cmd.Println()

	cmd.Println("[sync]")
	cmd.Printf("  workers: %d\n", settings.Sync.Workers)
	cmd.Println()

	cmd.Println("[supplements]")
	cmd.Printf("  order: %s\n", settings.Supplements.Order)
	cmd.Println()

	cmd.Println("[schedule]")
	if settings.Schedule.Cron != "" {
		cmd.Printf("  cron: %s\n", settings.Schedule.Cron)
	} else {
		cmd.Printf("  interval: %s\n", settings.Schedule.Interval)
	}
	cmd.Println()

	cmd.Println("[metrics]")
	cmd.Printf("  file: %s\n", orNone(settings.Metrics.File))
	cmd.Println()

	cmd.Println("[publish]")
	if settings.Publish.S3Bucket != "" {
		cmd.Printf("  s3: s3://%s/%s\n", settings.Publish.S3Bucket, settings.Publish.S3Prefix)
	} else {
		cmd.Printf("  s3: %s\n", orNone(""))
	}
	cmd.Println()

	cmd.Println("[log]")
	cmd.Printf("  file: %s\n", orNone(settings.Log.File))
	if settings.Log.File != "" {
		cmd.Printf("  max_size_mb: %d\n", settings.Log.MaxSizeMB)
		cmd.Printf("  max_backups: %d\n", settings.Log.MaxBackups)
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s to %s\n", args[0], args[1])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

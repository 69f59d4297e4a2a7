package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/reportcheck/internal/config"
	"github.com/JonMunkholm/reportcheck/internal/core"
	"github.com/JonMunkholm/reportcheck/internal/database"
)

// adminTimeout bounds each history maintenance command.
const adminTimeout = 30 * time.Second

var errNoDatabase = errors.New("no history database configured (set DATABASE_URL)")

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or prune the server's validation history database",
	}
	cmd.AddCommand(newHistoryListCmd(), newHistoryPruneCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent validation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withHistory(cmd.Context(), func(ctx context.Context, h *core.PgHistory) error {
				entries, err := h.List(ctx, limit)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), format, entries)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", core.DefaultHistoryLimit, "Maximum runs to list")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or yaml")
	return cmd
}

func newHistoryPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete history older than the given number of days (0 deletes everything)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative, got %d", days)
			}
			return withHistory(cmd.Context(), func(ctx context.Context, h *core.PgHistory) error {
				deleted, err := h.Prune(ctx, time.Now().AddDate(0, 0, -days))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d history entries\n", deleted)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "Days of history to keep")
	return cmd
}

// withHistory opens the configured history database for the duration of fn.
func withHistory(ctx context.Context, fn func(context.Context, *core.PgHistory) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return errNoDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, adminTimeout)
	defer cancel()

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	h, err := core.NewPgHistory(ctx, pool)
	if err != nil {
		return err
	}
	return fn(ctx, h)
}

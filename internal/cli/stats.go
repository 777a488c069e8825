package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show board statistics",
		Long:  "Show totals for comments, replies, distinct participants, and today's activity.",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctrl, st, err := newController()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := ctrl.Refresh(context.Background()); err != nil {
		return err
	}

	stats := ctrl.Stats(time.Now())
	if isJSON() {
		return printJSON(stats)
	}

	printStats(stats)
	return nil
}

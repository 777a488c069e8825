package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/arduinolearn/commentboard/internal/cache"
)

func newListCmd() *cobra.Command {
	var sortFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all comments",
		Long:  "List all comments and their replies, sorted by newest, oldest, or reply count.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(sortFlag)
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "newest", "sort order (newest|oldest|replies)")

	return cmd
}

func runList(sortFlag string) error {
	key, err := cache.ParseSortKey(sortFlag)
	if err != nil {
		return err
	}

	ctrl, st, err := newController()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	ctrl.SetSort(key)

	if isJSON() {
		return printJSON(ctrl.Comments())
	}

	printBoard(ctrl.Page(time.Now()))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the board for changes",
		Long:  "Print the board and reprint it whenever the store reports a change. Interrupt to stop.",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctrl, st, err := newController()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	printBoard(ctrl.Page(time.Now()))

	ctrl.OnChange(func() {
		fmt.Println("--- board changed ---")
		printBoard(ctrl.Page(time.Now()))
	})

	stop, err := ctrl.Watch(ctx)
	if err != nil {
		return err
	}
	defer stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return nil
}

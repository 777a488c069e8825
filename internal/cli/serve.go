package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arduinolearn/commentboard/internal/logging"
	"github.com/arduinolearn/commentboard/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comment board widget",
		Long:  "Start the HTTP server for the embeddable comment board page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, dev)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().BoolVar(&dev, "dev", false, "dev mode (human-readable logs)")

	return cmd
}

func runServe(port int, dev bool) error {
	logging.Setup(dev)

	ctrl, st, err := newController()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ctrl.Refresh(ctx); err != nil {
		// Serve anyway: the board shows its empty state and the next
		// reload or subscription tick recovers.
		slog.Error("initial load failed", "error", err)
	}

	stop, err := ctrl.Watch(ctx)
	if err != nil {
		slog.Error("realtime updates unavailable", "error", err)
	} else {
		defer stop()
	}

	server, err := web.NewServer(ctrl)
	if err != nil {
		return err
	}

	return server.ListenAndServe(port)
}

// Package cli defines the cobra command tree for commentboard.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arduinolearn/commentboard/internal/app"
	"github.com/arduinolearn/commentboard/internal/db"
	"github.com/arduinolearn/commentboard/internal/identity"
	"github.com/arduinolearn/commentboard/internal/store"
)

var (
	flagFormat   string
	flagStore    string
	flagRedisURL string
	flagDB       string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cb",
		Short:         "A threaded comment board",
		Long:          "A threaded comment board over a pluggable document store. Post comments and replies, browse and watch the board, and serve the embeddable web widget.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagStore, "store", "", "store backend (sqlite|redis, default from config)")
	root.PersistentFlags().StringVar(&flagRedisURL, "redis-url", "", "Redis URL for the redis backend")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path for the sqlite backend")

	root.AddCommand(
		newServeCmd(),
		newListCmd(),
		newPostCmd(),
		newReplyCmd(),
		newRemoveCmd(),
		newWatchCmd(),
		newStatsCmd(),
		newWhoamiCmd(),
		newForgetCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openStore opens the configured store backend. Flags beat the config
// file; sqlite is the default.
func openStore() (store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	backend := flagStore
	if backend == "" {
		backend = cfg.Store
	}

	switch backend {
	case "redis":
		redisURL := flagRedisURL
		if redisURL == "" {
			redisURL = cfg.RedisURL
		}
		if redisURL == "" {
			redisURL = "redis://localhost:6379/0"
		}
		return store.NewRedisStore(redisURL)
	case "", "sqlite":
		path := flagDB
		if path == "" {
			path = cfg.DBPath
		}
		if path == "" {
			path, err = db.DefaultPath()
			if err != nil {
				return nil, err
			}
		}
		database, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		return store.NewSqliteStore(database), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

// newController builds a controller over the configured store with the
// remembered identity loaded from disk.
func newController() (*app.Controller, store.Store, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	remembered, err := identity.Load()
	if err != nil {
		return nil, nil, err
	}

	return app.New(st, remembered, identity.Save), st, nil
}

// closeStore closes the store, reporting any error on stderr.
func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		fmt.Printf("warning: closing store: %v\n", err)
	}
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

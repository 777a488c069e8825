package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	var (
		storeBackend string
		redisURL     string
		dbPath       string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the saved store configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			changed := false
			if storeBackend != "" {
				if storeBackend != "sqlite" && storeBackend != "redis" {
					return fmt.Errorf("unknown store backend %q", storeBackend)
				}
				cfg.Store = storeBackend
				changed = true
			}
			if redisURL != "" {
				cfg.RedisURL = redisURL
				changed = true
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
				changed = true
			}

			if changed {
				if err := saveConfig(cfg); err != nil {
					return err
				}
			}

			if isJSON() {
				return printJSON(cfg)
			}
			fmt.Printf("store:     %s\n", orDefault(cfg.Store, "sqlite"))
			fmt.Printf("redis_url: %s\n", orDefault(cfg.RedisURL, "(unset)"))
			fmt.Printf("db_path:   %s\n", orDefault(cfg.DBPath, "(default)"))
			return nil
		},
	}

	cmd.Flags().StringVar(&storeBackend, "set-store", "", "store backend to save (sqlite|redis)")
	cmd.Flags().StringVar(&redisURL, "set-redis-url", "", "Redis URL to save")
	cmd.Flags().StringVar(&dbPath, "set-db", "", "SQLite database path to save")

	return cmd
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// CLIConfig holds CLI configuration persisted to disk.
type CLIConfig struct {
	Store    string `yaml:"store,omitempty"`     // sqlite|redis
	RedisURL string `yaml:"redis_url,omitempty"`
	DBPath   string `yaml:"db_path,omitempty"`
}

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "commentboard", "config.yaml"), nil
}

// loadConfig reads the CLI config from disk, with CB_* environment
// variables taking precedence. Returns a zero-value config if the file
// doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	var cfg CLIConfig
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Nothing saved yet.
	case err != nil:
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	if v := os.Getenv("CB_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("CB_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("CB_DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	return cfg, nil
}

// saveConfig writes the CLI config to disk.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/five82/fleetdash/internal/config"
	"github.com/five82/fleetdash/internal/logging"
	"github.com/five82/fleetdash/internal/mockserver"
)

const envPrefix = "FLEETDASH"

// serveSettings are the resolved settings of the serve command.
type serveSettings struct {
	Bind      string
	DBPath    string
	SeedPath  string
	LogLevel  string
	LogFormat string
}

func newServeCmd(root *rootFlags) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mock REST backend (vehicles, dashboardCards, users)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			settings, err := resolveServeSettings(v, cfg)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Config{Level: settings.LogLevel, Format: settings.LogFormat})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			return serve(cmd.Context(), settings, logger)
		},
	}

	f := cmd.Flags()
	f.String("bind", "", "listen address (default server.bind from config)")
	f.String("db", "", "SQLite database path (default server.db_path from config)")
	f.String("seed", "", "seed JSON used when the database is empty (default bundled seed)")
	f.String("log-level", "", "log level (debug, info, warn, error)")

	for key, flag := range map[string]string{
		"server.bind":      "bind",
		"server.db_path":   "db",
		"server.seed_path": "seed",
		"log.level":        "log-level",
	} {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

// serve prepares the store and runs the mock backend until ctx is done.
func serve(ctx context.Context, settings serveSettings, logger *zap.Logger) error {
	store, err := mockserver.Prepare(ctx, settings.DBPath, settings.SeedPath, logger)
	if err != nil {
		return fmt.Errorf("prepare store: %w", err)
	}
	defer store.Close()

	logger.Info("mock store ready", zap.String("db", settings.DBPath))
	return mockserver.New(store, logger).ListenAndServe(ctx, settings.Bind)
}

// resolveServeSettings layers flags, then FLEETDASH_* environment variables,
// then the config file.
func resolveServeSettings(v *viper.Viper, cfg config.Config) (serveSettings, error) {
	v.SetDefault("server.bind", cfg.Server.Bind)
	v.SetDefault("server.db_path", cfg.Server.DBPath)
	v.SetDefault("server.seed_path", cfg.Server.SeedPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	s := serveSettings{
		Bind:      strings.TrimSpace(v.GetString("server.bind")),
		SeedPath:  strings.TrimSpace(v.GetString("server.seed_path")),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
	}
	if s.Bind == "" {
		return serveSettings{}, fmt.Errorf("server bind address is empty")
	}
	db, err := config.ExpandPath(v.GetString("server.db_path"))
	if err != nil {
		return serveSettings{}, fmt.Errorf("resolve db path: %w", err)
	}
	s.DBPath = db
	if s.SeedPath != "" {
		if s.SeedPath, err = config.ExpandPath(s.SeedPath); err != nil {
			return serveSettings{}, fmt.Errorf("resolve seed path: %w", err)
		}
	}
	return s, nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/fleetdash/internal/config"
	"github.com/five82/fleetdash/internal/fleet"
	"github.com/five82/fleetdash/internal/fleetapi"
	"github.com/five82/fleetdash/internal/logging"
	"github.com/five82/fleetdash/internal/prefs"
	"github.com/five82/fleetdash/internal/state"
	"github.com/five82/fleetdash/internal/table"
	"github.com/five82/fleetdash/internal/ui"
)

// Options configure the dashboard.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/fleetdash/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
	APIBind    string // overrides the config's api_bind when set
}

// Run boots the dashboard TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIBind != "" {
		cfg.APIBind = opts.APIBind
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := fleetapi.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	logger.Info("starting dashboard", zap.String("api", client.BaseURL()), zap.String("locale", cfg.Locale))

	store := &state.Store{}

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	StartPoller(ctx, store, client, interval, logger)

	// Populate the store before the UI starts so the first frame has data.
	_ = refresh(ctx, store, client, logger)

	primary := cfg.View("primary", fleet.PrimaryView())
	secondary := cfg.View("secondary", fleet.SecondaryView())
	for name, view := range map[string]table.Configuration{"primary": primary, "secondary": secondary} {
		if err := view.Validate(); err != nil {
			logger.Warn("table configuration problems", zap.String("view", name), zap.Error(err))
		}
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Backend:   client,
		Store:     store,
		Logger:    logger,
		Renderer:  table.NewRenderer(table.NewFormatter(cfg.Locale, time.Local), nil),
		Primary:   primary,
		Secondary: secondary,
		PollTick:  time.Second,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.Log.Filename,
	})
}

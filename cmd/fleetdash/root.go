package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/fleetdash/internal/app"
)

type rootFlags struct {
	configPath  string
	prefsPath   string
	pollSeconds int
	apiBind     string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:           "fleetdash",
		Short:         "Terminal dashboard for fleet and vehicle management",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				PollEvery:  flags.pollSeconds,
				APIBind:    flags.apiBind,
			})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file path (default ~/.config/fleetdash/config.toml)")

	f := cmd.Flags()
	f.StringVar(&flags.prefsPath, "prefs", "", "preferences file path (default ~/.config/fleetdash/prefs.toml)")
	f.IntVar(&flags.pollSeconds, "poll", 0, "refresh interval in seconds (defaults to poll_seconds)")
	f.StringVar(&flags.apiBind, "api", "", "backend address, overrides api_bind")

	cmd.AddCommand(newServeCmd(&flags))
	return cmd
}

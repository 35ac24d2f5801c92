// Package config loads the fleetdash TOML configuration.
//
// The file lives at ~/.config/fleetdash/config.toml unless a path is given.
// A missing file is not an error; every key has a default:
//
//	api_bind     = "127.0.0.1:3000"   # backend the dashboard talks to
//	poll_seconds = 5                  # background refresh interval
//	locale       = "en-US"            # number and date formatting
//
//	[log]
//	level = "info"                    # debug, info, warn, error
//	format = "console"                # console or json
//	file = "~/.local/share/fleetdash/fleetdash.log"
//	max_size = 10                     # megabytes before rotation
//	max_backups = 3
//	max_days = 7
//
//	[server]                          # mock backend (fleetdash serve)
//	bind = "127.0.0.1:3000"           # defaults to api_bind
//	db_path = "~/.local/share/fleetdash/fleet.db"
//	seed_path = ""                    # db.json to import; empty uses the bundled seed
//
// Blank values fall back to their defaults and paths expand a leading ~.
//
// A [views.<name>] table replaces the columns of the named vehicle view
// ("primary" or "secondary"):
//
//	[views.secondary]
//	global_filter_fields = ["vehicle"]
//	[[views.secondary.columns]]
//	field = "vehicle"
//	header = "Vehicle"
package config

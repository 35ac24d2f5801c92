package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/five82/fleetdash/internal/config"
)

func TestResolveServeSettings_Defaults(t *testing.T) {
	cfg := config.Default()
	cfg.Server.DBPath = filepath.Join(t.TempDir(), "fleet.db")

	s, err := resolveServeSettings(viper.New(), cfg)
	if err != nil {
		t.Fatalf("resolveServeSettings: %v", err)
	}
	if s.Bind != cfg.Server.Bind || s.DBPath != cfg.Server.DBPath || s.SeedPath != "" {
		t.Fatalf("settings = %#v", s)
	}
}

func TestResolveServeSettings_EnvOverridesConfig(t *testing.T) {
	t.Setenv("FLEETDASH_SERVER_BIND", "0.0.0.0:4000")
	t.Setenv("FLEETDASH_LOG_LEVEL", "debug")

	s, err := resolveServeSettings(viper.New(), config.Default())
	if err != nil {
		t.Fatalf("resolveServeSettings: %v", err)
	}
	if s.Bind != "0.0.0.0:4000" {
		t.Fatalf("bind = %q, want env value", s.Bind)
	}
	if s.LogLevel != "debug" {
		t.Fatalf("log level = %q, want debug", s.LogLevel)
	}
}

func TestServeFlagsOverrideEnv(t *testing.T) {
	t.Setenv("FLEETDASH_SERVER_BIND", "0.0.0.0:4000")

	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("find serve: %v", err)
	}
	if err := serve.Flags().Set("bind", "127.0.0.1:5000"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	v := viper.New()
	if err := v.BindPFlag("server.bind", serve.Flags().Lookup("bind")); err != nil {
		t.Fatalf("bind flag: %v", err)
	}
	s, err := resolveServeSettings(v, config.Default())
	if err != nil {
		t.Fatalf("resolveServeSettings: %v", err)
	}
	if s.Bind != "127.0.0.1:5000" {
		t.Fatalf("bind = %q, want flag value", s.Bind)
	}
}

func TestRootFlags(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"prefs", "poll", "api"} {
		if root.Flags().Lookup(name) == nil {
			t.Fatalf("missing --%s", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatalf("missing --config")
	}
}

func TestServe_LogsListeningOnce(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if logs.FilterMessage("mock backend listening").Len() > 0 {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
	}()

	settings := serveSettings{
		Bind:   "127.0.0.1:0",
		DBPath: filepath.Join(t.TempDir(), "fleet.db"),
	}
	if err := serve(ctx, settings, logger); err != nil {
		t.Fatalf("serve: %v", err)
	}

	if n := logs.FilterMessage("mock backend listening").Len(); n != 1 {
		t.Fatalf("listening logged %d times, want 1", n)
	}
	ready := logs.FilterMessage("mock store ready").All()
	if len(ready) != 1 || ready[0].ContextMap()["db"] != settings.DBPath {
		t.Fatalf("store ready entries = %#v", ready)
	}
}

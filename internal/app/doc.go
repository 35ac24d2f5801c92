// Package app provides the orchestration layer for the fleetdash dashboard.
//
// # Overview
//
// This package wires together configuration, logging, polling, state
// management and the UI. It is the composition root: every dependency is
// built here and handed down explicitly.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read ~/.config/fleetdash/config.toml
//	       ├─────> logging.New()        zap logger (file when configured)
//	       ├─────> fleetapi.NewClient() HTTP client for the backend
//	       ├─────> state.Store{}        Shared state container
//	       ├─────> StartPoller()        Launch background updates
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> store.Begin()      take a ticket   │
//	│  ├─> FetchVehicles()                    │
//	│  ├─> FetchDashboardCards()              │
//	│  └─> store.Commit()     drop if stale   │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller runs at poll_seconds (default 5). Each consecutive failure
// doubles the delay up to 30 seconds; the first success returns to the
// configured interval. A failed part of a poll leaves the previous data in
// place while the part that succeeded is applied.
//
// A poll that began before a status edit commits nothing: the edit took a
// newer ticket through state.Store.Mutate, so the poll cannot revert it.
package app

// Package state provides thread-safe state management for the fleet dashboard.
//
// # Overview
//
// The Store is the single place where vehicle rows and dashboard cards live.
// The background poller and the UI's own loads write to it; the UI renders
// from copies returned by Snapshot.
//
// # Load Ordering
//
// Loads can finish out of order. Each load takes a Ticket from Begin before
// it starts and hands it to Commit when it finishes:
//
//	t := store.Begin()
//	rows, err := backend.FetchVehicles(ctx)
//	store.Commit(t, state.Update{Vehicles: rows, HasVehicles: err == nil, Err: err})
//
// Commit discards a result whose ticket is older than the newest change
// already applied, so a slow early response never overwrites a newer one.
// Local edits go through Mutate, which counts as the newest change; a poll
// that was in flight during an optimistic status edit cannot revert it.
//
// # Update Semantics
//
// A failed load keeps the previous data and records the error:
//
//	store.Commit(t, state.Update{Err: err})
//	→ snapshot.Vehicles = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Two or more consecutive failures mark the snapshot offline.
//
// # Copying
//
// Row and card slices are cloned on the way in and on the way out. Rows are
// immutable values, so a shallow slice copy is enough.
//
// The zero Store is ready to use.
package state

// Package ui provides the fleetdash terminal interface, built on Bubble Tea.
//
// # Layout
//
//	┌──────────────────────────────────────────────────────┐
//	│ header: route, API state, last update, theme         │
//	│ command bar: key hints for the focused pane          │
//	├────────────┬─────────────────────────────────────────┤
//	│ sidebar    │ body (viewport)                         │
//	│  Dashboard │  toasts                                 │
//	│  Report    │  dashboard cards                        │
//	│  Org ▾     │  vehicle table (status editor)          │
//	│   Users +  │  maintenance table                      │
//	└────────────┴─────────────────────────────────────────┘
//
// The user management route replaces the body with the create-user form. The
// report route shows the tail of the log file, reread on every tick while it
// is mounted.
//
// # Data Flow
//
// The model never fetches vehicles or cards itself. A tick reads the
// state.Store snapshot that the app poller keeps current and hands the rows
// to each tableView. A tableView wraps a table.Table and acts as its parent:
// it sorts rows with table.SortRows when the table emits a sort event and
// queues status edits for the model.
//
// Status edits are optimistic. The model rewrites the store rows with
// state.Store.Mutate, which also discards any poll that began earlier, then
// sends the PUT. A failed PUT re-applies the previous status and raises an
// error toast.
//
// # Components
//
//   - app.go: Model, message handling, commands and Run
//   - tableview.go: table host, search box, status dropdown, lipgloss table drawing
//   - dashboard.go: dashboard cards with progress bars
//   - users.go: create-user form
//   - report.go: activity report read through internal/logtail
//   - sidebar.go: menu tree with expandable nodes
//   - toast.go: expiring notifications
//   - header.go, help.go, keys.go, theme.go: chrome, key bindings and palettes
package ui

package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/fleetdash/internal/fleet"
	"github.com/five82/fleetdash/internal/table"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Vehicles            []table.Row
	HasVehicles         bool
	Cards               []fleet.DashboardCard
	HasCards            bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
	// Revision increases every time the store applies a change.
	Revision uint64
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Ticket orders loads. Tickets are handed out in increasing order by Begin.
type Ticket uint64

// Update is the result of one load. Has* reports which parts were fetched.
type Update struct {
	Vehicles    []table.Row
	HasVehicles bool
	Cards       []fleet.DashboardCard
	HasCards    bool
	Err         error
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	next     Ticket
	applied  Ticket
}

// Begin issues the ticket for a load about to start.
func (s *Store) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Commit applies the result of the load holding t. Results of a load that
// began before the newest applied change are discarded and Commit reports
// false. When u.Err is set the fetched parts are still applied but the error
// is recorded for visibility.
func (s *Store) Commit(t Ticket, u Update) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t < s.applied {
		return false
	}
	s.applied = t

	if u.HasVehicles {
		s.snapshot.Vehicles = cloneRows(u.Vehicles)
		s.snapshot.HasVehicles = true
	}
	if u.HasCards {
		s.snapshot.Cards = cloneCards(u.Cards)
		s.snapshot.HasCards = true
	}
	s.snapshot.LastUpdated = time.Now()
	if u.Err != nil {
		s.snapshot.LastError = u.Err
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.LastError = nil
		s.snapshot.ConsecutiveFailures = 0
	}
	s.snapshot.Revision++
	return true
}

// Mutate replaces the vehicle rows with fn applied to the current ones. The
// change counts as the newest load, so any load begun earlier is discarded
// when it commits. When fn fails nothing changes.
func (s *Store) Mutate(fn func([]table.Row) ([]table.Row, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := fn(cloneRows(s.snapshot.Vehicles))
	if err != nil {
		return fmt.Errorf("mutate vehicles: %w", err)
	}
	s.next++
	s.applied = s.next
	s.snapshot.Vehicles = cloneRows(rows)
	s.snapshot.HasVehicles = true
	s.snapshot.Revision++
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Vehicles = cloneRows(s.snapshot.Vehicles)
	snap.Cards = cloneCards(s.snapshot.Cards)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRows(rows []table.Row) []table.Row {
	if len(rows) == 0 {
		return nil
	}
	dup := make([]table.Row, len(rows))
	copy(dup, rows)
	return dup
}

func cloneCards(cards []fleet.DashboardCard) []fleet.DashboardCard {
	if len(cards) == 0 {
		return nil
	}
	dup := make([]fleet.DashboardCard, len(cards))
	copy(dup, cards)
	return dup
}

package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/fleetdash/internal/fleet"
	"github.com/five82/fleetdash/internal/state"
	"github.com/five82/fleetdash/internal/table"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 70; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff || got <= 0 {
			t.Errorf("calculateBackoff(%d, %v) = %v, outside (0, %v]", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeBackend struct {
	vehicleErr error
	cardErr    error
	calls      atomic.Int32
}

func (f *fakeBackend) FetchVehicles(context.Context) ([]table.Row, error) {
	f.calls.Add(1)
	if f.vehicleErr != nil {
		return nil, f.vehicleErr
	}
	return table.RowsOf([]fleet.Vehicle{{ID: 1, Vehicle: "V1", Status: fleet.StatusActive}})
}

func (f *fakeBackend) FetchDashboardCards(context.Context) ([]fleet.DashboardCard, error) {
	if f.cardErr != nil {
		return nil, f.cardErr
	}
	return []fleet.DashboardCard{{ID: 1, Title: "Active", Type: fleet.CardSimple}}, nil
}

func (f *fakeBackend) UpdateVehicle(context.Context, table.Row) error { return nil }

func (f *fakeBackend) CreateUser(_ context.Context, req fleet.CreateUserRequest) (fleet.User, error) {
	return fleet.User{ID: "1", CreateUserRequest: req}, nil
}

func TestRefresh_CommitsBothParts(t *testing.T) {
	store := &state.Store{}
	if err := refresh(context.Background(), store, &fakeBackend{}, nil); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	snap := store.Snapshot()
	if !snap.HasVehicles || !snap.HasCards || len(snap.Vehicles) != 1 || len(snap.Cards) != 1 {
		t.Fatalf("snapshot = %#v", snap)
	}
}

func TestRefresh_PartialFailureKeepsOtherPart(t *testing.T) {
	store := &state.Store{}
	boom := errors.New("cards down")
	err := refresh(context.Background(), store, &fakeBackend{cardErr: boom}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("refresh error = %v, want %v", err, boom)
	}
	snap := store.Snapshot()
	if !snap.HasVehicles || snap.HasCards {
		t.Fatalf("expected vehicles only, got %#v", snap)
	}
	if snap.ConsecutiveFailures != 1 || !errors.Is(snap.LastError, boom) {
		t.Fatalf("failure not recorded: %d %v", snap.ConsecutiveFailures, snap.LastError)
	}
}

func TestStartPoller_PollsUntilCancelled(t *testing.T) {
	store := &state.Store{}
	backend := &fakeBackend{}
	ctx, cancel := context.WithCancel(context.Background())
	StartPoller(ctx, store, backend, 10*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for backend.calls.Load() < 2 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("poller made %d calls, want at least 2", backend.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if !store.Snapshot().HasVehicles {
		t.Fatalf("poller did not commit vehicles")
	}
}

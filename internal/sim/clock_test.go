package sim

import (
	"context"
	"testing"
	"time"

	"github.com/example/ridesim/internal/config"
	"github.com/example/ridesim/internal/demand"
	"github.com/example/ridesim/internal/geo"
	"github.com/example/ridesim/internal/logging"
	"github.com/example/ridesim/internal/models"
	"github.com/example/ridesim/internal/sink"
	"github.com/example/ridesim/internal/storage"
)

func fastConfig() config.SimConfig {
	return config.SimConfig{
		DriverCount:         5,
		PassengerCount:      8,
		CityCenter:          geo.Coord{Lat: 40, Lon: -74},
		CityRadiusKm:        15,
		BaseSpeedKmh:        30,
		BaseFare:            2.5,
		PerKmRate:           1.5,
		DriverAvailableProb: 1.0, // everyone on duty so matches happen
		RushHours:           []demand.HourRange{{Start: 7, End: 9}, {Start: 17, End: 19}},
		TickInterval:        20 * time.Millisecond,
		MatchPollInterval:   5 * time.Millisecond,
		TravelScale:         0, // rides complete instantly
		Seed:                42,
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.DriverCount = 0
	if _, err := New(cfg, sink.NewMemory(), nil, logging.NewLogger("error")); err == nil {
		t.Fatal("expected setup error for empty roster")
	}
}

func TestRunEmitsHeartbeatsEveryTick(t *testing.T) {
	cfg := fastConfig()
	mem := sink.NewMemory()
	s, err := New(cfg, mem, nil, logging.NewLogger("error"))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	s.Run(context.Background(), 100*time.Millisecond)

	updates := mem.DriverUpdates()
	// at least one full tick of per-driver heartbeats
	if len(updates) < cfg.DriverCount {
		t.Fatalf("expected >= %d driver updates, got %d", cfg.DriverCount, len(updates))
	}
	valid := map[models.DriverStatus]bool{
		models.StatusAvailable: true, models.StatusUnavailable: true,
		models.StatusOnRide: true, models.StatusOffline: true,
	}
	for _, u := range updates {
		if !valid[u.Status] {
			t.Fatalf("invalid status in update: %+v", u)
		}
		if u.Timestamp == 0 || u.DriverID == "" {
			t.Fatalf("incomplete update: %+v", u)
		}
	}
}

func TestRunDrainsRidesOnShutdown(t *testing.T) {
	cfg := fastConfig()
	mem := sink.NewMemory()
	store := storage.NewMemoryStore()
	s, err := New(cfg, mem, store, logging.NewLogger("error"))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Run(context.Background(), 200*time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not drain and return")
	}

	// every emitted passenger record corresponds to a persisted ride
	for _, r := range mem.Requests() {
		if _, ok := store.Get(r.RequestID); !ok {
			t.Fatalf("request %s emitted but not persisted", r.RequestID)
		}
	}
}

func TestRunHonorsContextCancel(t *testing.T) {
	cfg := fastConfig()
	s, err := New(cfg, sink.NewMemory(), nil, logging.NewLogger("error"))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Hour)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cancel did not stop the simulation")
	}
}

func TestChurnProbabilityBands(t *testing.T) {
	cases := []struct {
		minute  int
		offline float64
		online  float64
	}{
		{2 * 60, 0.03, 0.005},  // overnight
		{23 * 60, 0.03, 0.005}, // late evening
		{8 * 60, 0.01, 0.02},   // morning ramp-up
		{14 * 60, 0.015, 0.01}, // daytime
	}
	for _, c := range cases {
		off, on := churnProbabilities(c.minute)
		if off != c.offline || on != c.online {
			t.Fatalf("minute %d: got %f/%f want %f/%f", c.minute, off, on, c.offline, c.online)
		}
	}
}

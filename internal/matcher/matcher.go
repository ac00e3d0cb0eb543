package matcher

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/example/ridesim/internal/geo"
	"github.com/example/ridesim/internal/models"
	"github.com/example/ridesim/internal/observability"
	"github.com/example/ridesim/internal/roster"
)

// Service finds the closest available driver for a pickup. When no driver is
// eligible it polls the roster until the deadline passes; a timeout is a
// normal abandonment outcome, not an error.
type Service struct {
	Roster       *roster.Roster
	PollInterval time.Duration
	Logger       *slog.Logger

	// deadline draw bounds, in poll units, used when the caller passes no
	// deadline
	MinDeadlineUnits int
	MaxDeadlineUnits int

	mu  sync.Mutex
	rng *rand.Rand
}

func New(r *roster.Roster, pollInterval time.Duration, rng *rand.Rand, logger *slog.Logger) *Service {
	return &Service{
		Roster:           r,
		PollInterval:     pollInterval,
		Logger:           logger,
		MinDeadlineUnits: 5,
		MaxDeadlineUnits: 10,
		rng:              rng,
	}
}

// Match claims the nearest AVAILABLE driver of the requested type. A
// non-positive deadline means one is drawn uniformly from the configured
// range of poll units. Returns false on abandonment (deadline expired or
// context canceled before any driver was claimed).
func (s *Service) Match(ctx context.Context, pickup geo.Coord, vt models.VehicleType, deadline time.Duration) (roster.Driver, bool) {
	if deadline <= 0 {
		deadline = s.drawDeadline()
	}
	start := time.Now()
	for {
		if d, ok := s.Roster.TryClaimNearest(pickup, vt); ok {
			observability.MatchesTotal.Inc()
			observability.MatchLatency.Observe(time.Since(start).Seconds())
			return d, true
		}
		if time.Since(start) > deadline {
			observability.AbandonedTotal.Inc()
			s.Logger.Info("request abandoned, no matching driver",
				"vehicle_type", string(vt), "waited", time.Since(start).String())
			return roster.Driver{}, false
		}
		select {
		case <-ctx.Done():
			observability.AbandonedTotal.Inc()
			return roster.Driver{}, false
		case <-time.After(s.PollInterval):
		}
	}
}

func (s *Service) drawDeadline() time.Duration {
	s.mu.Lock()
	units := s.MinDeadlineUnits + s.rng.Intn(s.MaxDeadlineUnits-s.MinDeadlineUnits+1)
	s.mu.Unlock()
	return time.Duration(units) * s.PollInterval
}

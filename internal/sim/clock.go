// Package sim drives the whole simulation: one tick per simulated minute,
// workforce churn, telemetry heartbeats, Poisson arrivals, and a supervised
// goroutine per request so shutdown drains in-flight rides instead of
// leaking them.
package sim

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/ridesim/internal/config"
	"github.com/example/ridesim/internal/demand"
	"github.com/example/ridesim/internal/gen"
	"github.com/example/ridesim/internal/matcher"
	"github.com/example/ridesim/internal/models"
	"github.com/example/ridesim/internal/observability"
	"github.com/example/ridesim/internal/ride"
	"github.com/example/ridesim/internal/roster"
	"github.com/example/ridesim/internal/sink"
	"github.com/example/ridesim/internal/storage"
)

type Simulation struct {
	cfg        config.SimConfig
	roster     *roster.Roster
	passengers []*models.Passenger
	demand     *demand.Model
	matcher    *matcher.Service
	lifecycle  *ride.Lifecycle
	generator  *gen.Generator
	sink       sink.Sink
	logger     *slog.Logger

	rng       *rand.Rand // used only on the clock goroutine
	simMinute atomic.Int64
	wg        sync.WaitGroup
}

// New assembles a simulation from validated config. Every random draw flows
// from cfg.Seed, so two runs with the same seed and pacing produce the same
// entity population and arrival pattern.
func New(cfg config.SimConfig, snk sink.Sink, store storage.RideStore, logger *slog.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g := gen.New(rand.New(rand.NewSource(rng.Int63())), cfg.CityCenter, cfg.CityRadiusKm)
	g.AvailableProb = cfg.DriverAvailableProb

	r := roster.New(g.Fleet(cfg.DriverCount))
	passengers := g.Passengers(cfg.PassengerCount)

	dm := demand.NewModel(rand.New(rand.NewSource(rng.Int63())), cfg.RushHours)
	m := matcher.New(r, cfg.MatchPollInterval, rand.New(rand.NewSource(rng.Int63())), logger)

	l := &ride.Lifecycle{
		Roster:       r,
		Sink:         snk,
		Store:        store,
		Logger:       logger,
		BaseSpeedKmh: cfg.BaseSpeedKmh,
		BaseFare:     cfg.BaseFare,
		PerKmRate:    cfg.PerKmRate,
		TravelScale:  cfg.TravelScale,
	}

	return &Simulation{
		cfg:        cfg,
		roster:     r,
		passengers: passengers,
		demand:     dm,
		matcher:    m,
		lifecycle:  l,
		generator:  g,
		sink:       snk,
		logger:     logger,
		rng:        rng,
	}, nil
}

// Roster exposes the fleet for the stats endpoint.
func (s *Simulation) Roster() *roster.Roster { return s.roster }

// Run ticks once per simulated minute until the wall-clock duration elapses
// or ctx is canceled, then waits for every outstanding request and ride to
// finish.
func (s *Simulation) Run(ctx context.Context, duration time.Duration) {
	s.logger.Info("simulation starting",
		"drivers", s.roster.Len(), "passengers", len(s.passengers), "duration", duration.String())
	start := time.Now()

	for time.Since(start) < duration && ctx.Err() == nil {
		s.tick(ctx)
		select {
		case <-ctx.Done():
		case <-time.After(s.cfg.TickInterval):
		}
	}

	s.logger.Info("simulation winding down, draining rides")
	s.wg.Wait()
	s.logger.Info("simulation complete", "elapsed", time.Since(start).String())
}

func (s *Simulation) tick(ctx context.Context) {
	minute := s.simMinute.Add(1)
	snap := s.demand.Compute(int(minute))
	s.logger.Debug("tick",
		"sim_minute", minute,
		"arrival_rate", snap.BaseArrivalRate,
		"demand_multiplier", snap.DemandMultiplier,
		"speed_factor", snap.SpeedFactor)

	offlineProb, onlineProb := churnProbabilities(int(minute))
	res := s.roster.Churn(s.rng, offlineProb, onlineProb)
	for _, id := range res.WentOffline {
		s.logger.Debug("driver went offline", "driver_id", id)
	}
	for _, id := range res.CameOnline {
		s.logger.Debug("driver came online", "driver_id", id)
	}
	observability.DriversAvailable.Set(float64(s.roster.AvailableCount()))
	s.logger.Info("fleet snapshot",
		"sim_minute", minute, "working", s.roster.WorkingCount(), "total", s.roster.Len())

	for _, hb := range s.roster.Heartbeats(time.Now()) {
		if err := s.sink.PublishDriverUpdate(ctx, hb); err != nil {
			observability.SinkErrors.WithLabelValues("heartbeat").Inc()
			s.logger.Error("publish heartbeat failed", "driver_id", hb.DriverID, "error", err)
			continue
		}
		observability.HeartbeatsTotal.Inc()
	}

	// arrivals are throttled to half the demand rate
	n := s.demand.Sample(snap.BaseArrivalRate * 0.5)
	s.logger.Debug("new arrivals", "count", n)
	for i := 0; i < n; i++ {
		p := s.passengers[s.rng.Intn(len(s.passengers))]
		req := s.generator.NewRequest(p, time.Now())
		observability.RequestsTotal.Inc()
		s.logger.Info("ride requested",
			"request_id", req.RequestID, "passenger_id", req.PassengerID, "vehicle_type", string(req.VehicleType))
		s.wg.Add(1)
		go s.processRequest(ctx, req)
	}
}

// processRequest matches and, on success, runs the ride to completion. It
// recomputes the demand snapshot so the request is priced against the model
// as of its own processing time, not the tick that spawned it.
func (s *Simulation) processRequest(ctx context.Context, req models.RideRequest) {
	defer s.wg.Done()

	snap := s.demand.Compute(int(s.simMinute.Load()))
	driver, ok := s.matcher.Match(ctx, req.Pickup.Coord(), req.VehicleType, 0)
	if !ok {
		s.logger.Info("request discarded",
			"request_id", req.RequestID, "passenger_id", req.PassengerID)
		return
	}
	s.logger.Info("driver assigned",
		"request_id", req.RequestID, "driver_id", driver.ID)
	s.lifecycle.Run(ctx, req, driver, snap)
}

// churnProbabilities returns the per-minute offline/online transition
// probabilities for the time-of-day band: drivers drop off overnight and
// come back during the morning ramp-up.
func churnProbabilities(simMinute int) (offline, online float64) {
	hour := (simMinute % (24 * 60)) / 60
	switch {
	case hour < 6 || hour >= 22:
		return 0.03, 0.005
	case hour < 10:
		return 0.01, 0.02
	default:
		return 0.015, 0.01
	}
}

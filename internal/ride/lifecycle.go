// Package ride runs one matched ride from claim to dropoff and emits the
// two output records. Each lifecycle is an independent concurrent unit; the
// clock never waits on one mid-tick.
package ride

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/ridesim/internal/demand"
	"github.com/example/ridesim/internal/geo"
	"github.com/example/ridesim/internal/models"
	"github.com/example/ridesim/internal/observability"
	"github.com/example/ridesim/internal/roster"
	"github.com/example/ridesim/internal/sink"
	"github.com/example/ridesim/internal/storage"
)

// Lifecycle holds the collaborators shared by every ride.
type Lifecycle struct {
	Roster *roster.Roster
	Sink   sink.Sink
	Store  storage.RideStore // optional
	Logger *slog.Logger

	BaseSpeedKmh float64
	BaseFare     float64
	PerKmRate    float64

	// TravelScale converts simulated travel seconds into real sleep time.
	// The original pacing slept 1% of simulated duration.
	TravelScale float64
}

// Fare computes the trip price from distance and the demand snapshot.
// All inputs are non-negative, so the result is too.
func (l *Lifecycle) Fare(distanceKm float64, snap demand.Snapshot) float64 {
	return (l.BaseFare + l.PerKmRate*distanceKm) * snap.PricingMultiplier * snap.DemandMultiplier
}

// TravelTime returns the simulated seconds to cover distanceKm at the
// current speed factor.
func (l *Lifecycle) TravelTime(distanceKm float64, snap demand.Snapshot) float64 {
	return distanceKm / (l.BaseSpeedKmh * snap.SpeedFactor) * 3600
}

// Run drives one matched ride to completion: move to pickup, price the
// trip, move to dropoff, release the driver, emit both records. The driver
// is restored to AVAILABLE even when a sink publish fails; delivery is
// at-most-once and best effort.
func (l *Lifecycle) Run(ctx context.Context, req models.RideRequest, driver roster.Driver, snap demand.Snapshot) {
	observability.RidesInFlight.Inc()
	defer observability.RidesInFlight.Dec()

	pickup := req.Pickup.Coord()
	dropoff := req.Dropoff.Coord()

	toPickup := geo.DistanceKm(driver.Position, pickup)
	l.Logger.Debug("driver heading to pickup",
		"driver_id", driver.ID, "request_id", req.RequestID, "distance_km", toPickup)
	l.sleep(ctx, l.TravelTime(toPickup, snap))
	l.Roster.MoveTo(driver.ID, pickup)

	tripKm := geo.DistanceKm(pickup, dropoff)
	tripSec := l.TravelTime(tripKm, snap)
	fare := l.Fare(tripKm, snap)
	l.Logger.Info("trip priced",
		"request_id", req.RequestID, "distance_km", tripKm, "duration_sec", tripSec, "fare", fare)

	l.sleep(ctx, tripSec)
	l.Roster.Release(driver.ID, dropoff)

	now := time.Now()
	reqRecord := req.Record(float32(fare))
	updRecord := models.DriverUpdateRecord{
		DriverID:  driver.ID,
		Timestamp: now.UnixMilli(),
		Latitude:  dropoff.Lat,
		Longitude: dropoff.Lon,
		Status:    models.StatusAvailable,
	}

	if err := l.Sink.PublishRequest(ctx, reqRecord); err != nil {
		observability.SinkErrors.WithLabelValues("request").Inc()
		l.Logger.Error("publish passenger request failed", "request_id", req.RequestID, "error", err)
	}
	if err := l.Sink.PublishDriverUpdate(ctx, updRecord); err != nil {
		observability.SinkErrors.WithLabelValues("driver_update").Inc()
		l.Logger.Error("publish driver update failed", "driver_id", driver.ID, "error", err)
	}

	if l.Store != nil {
		summary := &models.CompletedRide{
			RequestID:   req.RequestID,
			PassengerID: req.PassengerID,
			DriverID:    driver.ID,
			Pickup:      req.Pickup,
			Dropoff:     req.Dropoff,
			VehicleType: req.VehicleType,
			DistanceKm:  tripKm,
			DurationSec: tripSec,
			Fare:        fare,
			RequestedAt: req.Timestamp,
			CompletedAt: now.UnixMilli(),
		}
		if err := l.Store.SaveRide(summary); err != nil {
			l.Logger.Error("persist completed ride failed", "request_id", req.RequestID, "error", err)
		}
	}

	l.Logger.Info("ride complete",
		"request_id", req.RequestID, "driver_id", driver.ID, "passenger_id", req.PassengerID)
}

// sleep pauses for the scaled travel time, returning early on cancellation.
// Driver state still converges to released on the normal path; cancellation
// only shortens the simulated travel.
func (l *Lifecycle) sleep(ctx context.Context, simSeconds float64) {
	d := time.Duration(simSeconds * l.TravelScale * float64(time.Second))
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Package roster owns the driver fleet. All status and position changes that
// are part of a claim-or-release decision go through a single mutex held by
// the roster, so concurrent matchers can never claim the same driver and
// workforce churn can never offline a driver mid-ride. Callers never iterate
// drivers under the lock themselves.
package roster

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/example/ridesim/internal/geo"
	"github.com/example/ridesim/internal/models"
)

// Driver is the mutable fleet entity. Fields are written only under the
// roster mutex; values handed out by TryClaimNearest are snapshots.
type Driver struct {
	ID          string
	Name        string
	VehicleType models.VehicleType
	Position    geo.Coord
	Status      models.DriverStatus
}

type Roster struct {
	mu      sync.Mutex
	drivers []*Driver
	byID    map[string]*Driver
}

func New(drivers []*Driver) *Roster {
	byID := make(map[string]*Driver, len(drivers))
	for _, d := range drivers {
		byID[d.ID] = d
	}
	return &Roster{drivers: drivers, byID: byID}
}

func (r *Roster) Len() int { return len(r.drivers) }

// TryClaimNearest atomically selects the AVAILABLE driver of the requested
// vehicle type closest to pickup, flips it to ON_RIDE and returns a snapshot.
// Ties go to the earliest driver in roster order. Returns false when no
// driver is eligible right now.
func (r *Roster) TryClaimNearest(pickup geo.Coord, vt models.VehicleType) (Driver, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *Driver
	minDist := math.Inf(1)
	for _, d := range r.drivers {
		if d.Status != models.StatusAvailable || d.VehicleType != vt {
			continue
		}
		if dist := geo.DistanceKm(pickup, d.Position); dist < minDist {
			minDist = dist
			best = d
		}
	}
	if best == nil {
		return Driver{}, false
	}
	best.Status = models.StatusOnRide
	return *best, true
}

// MoveTo updates a driver's position; used by the ride lifecycle that
// currently holds the driver.
func (r *Roster) MoveTo(driverID string, pos geo.Coord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byID[driverID]; ok {
		d.Position = pos
	}
}

// Release returns a claimed driver to service at the given position.
func (r *Roster) Release(driverID string, pos geo.Coord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byID[driverID]; ok {
		d.Position = pos
		d.Status = models.StatusAvailable
	}
}

// SetStatus force-sets a driver's status, for external marking
// (UNAVAILABLE) and tests.
func (r *Roster) SetStatus(driverID string, status models.DriverStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byID[driverID]; ok {
		d.Status = status
	}
}

// Get returns a snapshot of one driver.
func (r *Roster) Get(driverID string) (Driver, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byID[driverID]; ok {
		return *d, true
	}
	return Driver{}, false
}

// ChurnResult reports what one churn pass did.
type ChurnResult struct {
	WentOffline []string
	CameOnline  []string
}

// Churn applies one probabilistic workforce pass: serving drivers
// (AVAILABLE or ON_RIDE) may go OFFLINE, OFFLINE drivers may return to
// AVAILABLE. UNAVAILABLE drivers are left alone.
func (r *Roster) Churn(rng *rand.Rand, offlineProb, onlineProb float64) ChurnResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res ChurnResult
	for _, d := range r.drivers {
		switch d.Status {
		case models.StatusAvailable, models.StatusOnRide:
			if rng.Float64() < offlineProb {
				d.Status = models.StatusOffline
				res.WentOffline = append(res.WentOffline, d.ID)
			}
		case models.StatusOffline:
			if rng.Float64() < onlineProb {
				d.Status = models.StatusAvailable
				res.CameOnline = append(res.CameOnline, d.ID)
			}
		}
	}
	return res
}

// Heartbeats produces one telemetry record per driver at the given time.
func (r *Roster) Heartbeats(now time.Time) []models.DriverUpdateRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.DriverUpdateRecord, 0, len(r.drivers))
	ts := now.UnixMilli()
	for _, d := range r.drivers {
		out = append(out, models.DriverUpdateRecord{
			DriverID:  d.ID,
			Timestamp: ts,
			Latitude:  d.Position.Lat,
			Longitude: d.Position.Lon,
			Status:    d.Status,
		})
	}
	return out
}

// WorkingCount returns how many drivers are not OFFLINE.
func (r *Roster) WorkingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.drivers {
		if d.Status != models.StatusOffline {
			n++
		}
	}
	return n
}

// AvailableCount returns how many drivers are AVAILABLE right now.
func (r *Roster) AvailableCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.drivers {
		if d.Status == models.StatusAvailable {
			n++
		}
	}
	return n
}

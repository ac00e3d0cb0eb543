package gen

import (
	"math/rand"
	"testing"
	"time"

	"github.com/example/ridesim/internal/geo"
	"github.com/example/ridesim/internal/models"
)

func newGenerator(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)), geo.Coord{Lat: 40, Lon: -74}, 15)
}

func TestFleetInitialStatus(t *testing.T) {
	g := newGenerator(1)
	fleet := g.Fleet(500)
	if len(fleet) != 500 {
		t.Fatalf("expected 500 drivers, got %d", len(fleet))
	}
	available := 0
	for _, d := range fleet {
		switch d.Status {
		case models.StatusAvailable:
			available++
		case models.StatusOffline:
		default:
			t.Fatalf("unexpected initial status %s", d.Status)
		}
	}
	// 70% default with generous slack for a 500-driver sample
	if available < 300 || available > 400 {
		t.Fatalf("expected roughly 70%% available, got %d/500", available)
	}
}

func TestFleetIDsUnique(t *testing.T) {
	g := newGenerator(2)
	seen := map[string]bool{}
	for _, d := range g.Fleet(100) {
		if seen[d.ID] {
			t.Fatalf("duplicate driver id %s", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestNewRequestShape(t *testing.T) {
	g := newGenerator(3)
	p := g.Passengers(1)[0]
	now := time.Now()

	for i := 0; i < 200; i++ {
		req := g.NewRequest(p, now)
		if req.RequestID == "" || req.PassengerID != p.ID {
			t.Fatalf("bad ids: %+v", req)
		}
		if req.Timestamp != now.UnixMilli() {
			t.Fatalf("timestamp mismatch")
		}
		// trips run between the passenger's anchors in either direction
		if !(req.Pickup == p.Home && req.Dropoff == p.Work) && !(req.Pickup == p.Work && req.Dropoff == p.Home) {
			t.Fatalf("trip not anchored at home/work: %+v", req)
		}
		if req.Preferences.Temperature < 18 || req.Preferences.Temperature > 26 {
			t.Fatalf("temperature %d out of range", req.Preferences.Temperature)
		}
		if req.Payment.LoyaltyPointsUsed != nil && (*req.Payment.LoyaltyPointsUsed < 0 || *req.Payment.LoyaltyPointsUsed > 100) {
			t.Fatalf("loyalty points %d out of range", *req.Payment.LoyaltyPointsUsed)
		}
		if req.DriverRating != nil && (*req.DriverRating < 1.0 || *req.DriverRating > 5.0) {
			t.Fatalf("rating %f out of range", *req.DriverRating)
		}
		if req.EstimatedFare < 0 {
			t.Fatalf("negative estimated fare")
		}
	}
}

func TestRequestIDsUnique(t *testing.T) {
	g := newGenerator(4)
	p := g.Passengers(1)[0]
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := g.NewRequest(p, time.Now()).RequestID
		if seen[id] {
			t.Fatalf("duplicate request id %s", id)
		}
		seen[id] = true
	}
}

func TestWeightedVehicleRespectsWeights(t *testing.T) {
	g := newGenerator(5)
	counts := map[models.VehicleType]int{}
	for i := 0; i < 2000; i++ {
		counts[g.weightedVehicle(DefaultRequestWeights())]++
	}
	if counts[models.VehicleEconomy] < 1300 {
		t.Fatalf("economy should dominate request mix, got %v", counts)
	}
	if counts[models.VehicleStandard] != 0 {
		t.Fatalf("standard not in default request weights, got %d", counts[models.VehicleStandard])
	}
}

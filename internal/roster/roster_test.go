package roster

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/example/ridesim/internal/geo"
	"github.com/example/ridesim/internal/models"
)

func fleet(drivers ...*Driver) *Roster { return New(drivers) }

func TestTryClaimNearestPicksClosest(t *testing.T) {
	r := fleet(
		&Driver{ID: "far", VehicleType: models.VehicleEconomy, Position: geo.Coord{Lat: 40.2, Lon: -74}, Status: models.StatusAvailable},
		&Driver{ID: "near", VehicleType: models.VehicleEconomy, Position: geo.Coord{Lat: 40.01, Lon: -74}, Status: models.StatusAvailable},
	)
	d, ok := r.TryClaimNearest(geo.Coord{Lat: 40, Lon: -74}, models.VehicleEconomy)
	if !ok || d.ID != "near" {
		t.Fatalf("expected near, got %+v ok=%v", d, ok)
	}
	if got, _ := r.Get("near"); got.Status != models.StatusOnRide {
		t.Fatalf("claimed driver not ON_RIDE: %s", got.Status)
	}
}

func TestTryClaimNearestTieBreaksByRosterOrder(t *testing.T) {
	pos := geo.Coord{Lat: 40, Lon: -74}
	r := fleet(
		&Driver{ID: "first", VehicleType: models.VehicleEconomy, Position: pos, Status: models.StatusAvailable},
		&Driver{ID: "second", VehicleType: models.VehicleEconomy, Position: pos, Status: models.StatusAvailable},
	)
	d, ok := r.TryClaimNearest(pos, models.VehicleEconomy)
	if !ok || d.ID != "first" {
		t.Fatalf("expected first on tie, got %+v", d)
	}
}

func TestTryClaimNearestFiltersTypeAndStatus(t *testing.T) {
	pos := geo.Coord{Lat: 40, Lon: -74}
	r := fleet(
		&Driver{ID: "suv", VehicleType: models.VehicleSUV, Position: pos, Status: models.StatusAvailable},
		&Driver{ID: "busy", VehicleType: models.VehicleEconomy, Position: pos, Status: models.StatusOnRide},
		&Driver{ID: "off", VehicleType: models.VehicleEconomy, Position: pos, Status: models.StatusOffline},
	)
	if _, ok := r.TryClaimNearest(pos, models.VehicleEconomy); ok {
		t.Fatal("claimed an ineligible driver")
	}
}

func TestConcurrentClaimExclusivity(t *testing.T) {
	pos := geo.Coord{Lat: 40, Lon: -74}
	r := fleet(&Driver{ID: "only", VehicleType: models.VehicleEconomy, Position: pos, Status: models.StatusAvailable})

	const n = 32
	var wg sync.WaitGroup
	wins := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d, ok := r.TryClaimNearest(pos, models.VehicleEconomy); ok {
				wins <- d.ID
			}
		}()
	}
	wg.Wait()
	close(wins)
	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one successful claim, got %d", count)
	}
}

func TestReleaseRestoresDriver(t *testing.T) {
	pos := geo.Coord{Lat: 40, Lon: -74}
	drop := geo.Coord{Lat: 40.05, Lon: -74.02}
	r := fleet(&Driver{ID: "d1", VehicleType: models.VehicleEconomy, Position: pos, Status: models.StatusAvailable})

	if _, ok := r.TryClaimNearest(pos, models.VehicleEconomy); !ok {
		t.Fatal("claim failed")
	}
	r.Release("d1", drop)
	d, _ := r.Get("d1")
	if d.Status != models.StatusAvailable || d.Position != drop {
		t.Fatalf("release did not restore driver: %+v", d)
	}
}

func TestChurnTransitions(t *testing.T) {
	r := fleet(
		&Driver{ID: "a", Status: models.StatusAvailable},
		&Driver{ID: "b", Status: models.StatusOffline},
		&Driver{ID: "c", Status: models.StatusUnavailable},
	)
	rng := rand.New(rand.NewSource(1))

	res := r.Churn(rng, 1.0, 1.0)
	if len(res.WentOffline) != 1 || res.WentOffline[0] != "a" {
		t.Fatalf("expected a to go offline, got %v", res.WentOffline)
	}
	if len(res.CameOnline) != 1 || res.CameOnline[0] != "b" {
		t.Fatalf("expected b to come online, got %v", res.CameOnline)
	}
	if d, _ := r.Get("c"); d.Status != models.StatusUnavailable {
		t.Fatalf("churn touched UNAVAILABLE driver: %s", d.Status)
	}
}

func TestChurnZeroProbabilityIsNoop(t *testing.T) {
	r := fleet(&Driver{ID: "a", Status: models.StatusAvailable}, &Driver{ID: "b", Status: models.StatusOffline})
	res := r.Churn(rand.New(rand.NewSource(1)), 0, 0)
	if len(res.WentOffline) != 0 || len(res.CameOnline) != 0 {
		t.Fatalf("unexpected transitions: %+v", res)
	}
}

func TestHeartbeatsCoverFleet(t *testing.T) {
	r := fleet(
		&Driver{ID: "a", Position: geo.Coord{Lat: 1, Lon: 2}, Status: models.StatusAvailable},
		&Driver{ID: "b", Position: geo.Coord{Lat: 3, Lon: 4}, Status: models.StatusOffline},
	)
	now := time.Now()
	hbs := r.Heartbeats(now)
	if len(hbs) != 2 {
		t.Fatalf("expected 2 heartbeats, got %d", len(hbs))
	}
	if hbs[0].DriverID != "a" || hbs[0].Latitude != 1 || hbs[0].Status != models.StatusAvailable {
		t.Fatalf("bad heartbeat: %+v", hbs[0])
	}
	if hbs[1].Timestamp != now.UnixMilli() {
		t.Fatalf("timestamp mismatch: %d", hbs[1].Timestamp)
	}
}

package geo

import (
	"math"
	"math/rand"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	d := DistanceKm(Coord{Lat: 40, Lon: -74}, Coord{Lat: 40, Lon: -74})
	if d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		a := Coord{Lat: 40 + rng.Float64(), Lon: -74 + rng.Float64()}
		b := Coord{Lat: 40 + rng.Float64(), Lon: -74 + rng.Float64()}
		ab := DistanceKm(a, b)
		ba := DistanceKm(b, a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("asymmetric distance: %f vs %f for %v %v", ab, ba, a, b)
		}
	}
}

func TestDistanceOneLatDegree(t *testing.T) {
	d := DistanceKm(Coord{Lat: 40, Lon: -74}, Coord{Lat: 41, Lon: -74})
	if math.Abs(d-111) > 1e-9 {
		t.Fatalf("expected 111 km per latitude degree, got %f", d)
	}
}

func TestRandomAroundWithinSpread(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	center := Coord{Lat: 40, Lon: -74}
	for i := 0; i < 200; i++ {
		p := RandomAround(rng, center, 15)
		if math.Abs(p.Lat-center.Lat) > 0.15 || math.Abs(p.Lon-center.Lon) > 0.15 {
			t.Fatalf("point %v outside spread around %v", p, center)
		}
	}
}

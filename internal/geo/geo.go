package geo

import (
	"math"
	"math/rand"
)

// Coord is a latitude/longitude pair in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// DistanceKm returns a flat-earth approximation of the distance between two
// points: one degree is taken as 111 km, with the longitude delta corrected
// by the cosine of the mean latitude. Accurate enough at city scale (<50 km);
// callers must not assume geodesic accuracy beyond that.
func DistanceKm(a, b Coord) float64 {
	latDiff := (b.Lat - a.Lat) * 111
	lonDiff := (b.Lon - a.Lon) * 111 * math.Cos(radians((a.Lat+b.Lat)/2))
	return math.Sqrt(latDiff*latDiff + lonDiff*lonDiff)
}

// RandomAround scatters a point uniformly around center, offset by up to
// radiusKm/100 degrees on each axis.
func RandomAround(rng *rand.Rand, center Coord, radiusKm float64) Coord {
	spread := radiusKm / 100
	return Coord{
		Lat: center.Lat + uniform(rng, -spread, spread),
		Lon: center.Lon + uniform(rng, -spread, spread),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

func radians(deg float64) float64 { return deg * math.Pi / 180 }

package demand

import (
	"math"
	"math/rand"
	"sync"
)

// HourRange is a half-open [Start, End) window of hours in a day.
type HourRange struct {
	Start int
	End   int
}

func (h HourRange) contains(hour int) bool { return hour >= h.Start && hour < h.End }

// Snapshot is the demand/pricing state for one point in simulated time.
type Snapshot struct {
	DemandMultiplier  float64
	PricingMultiplier float64
	SpeedFactor       float64
	BaseArrivalRate   float64
	PoissonSample     int
}

// Model computes per-minute demand and pricing multipliers from a
// time-of-day-conditioned Poisson arrival rate. It is recomputed once per
// simulated minute and again for every request processed, so Compute may be
// called from multiple goroutines; the internal RNG is guarded.
type Model struct {
	RushHours       []HourRange
	RushArrivalRate float64
	RushSpeedFactor float64
	BaseArrivalRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewModel(rng *rand.Rand, rushHours []HourRange) *Model {
	if len(rushHours) == 0 {
		rushHours = []HourRange{{Start: 7, End: 9}, {Start: 17, End: 19}}
	}
	return &Model{
		RushHours:       rushHours,
		RushArrivalRate: 10,
		RushSpeedFactor: 0.7,
		BaseArrivalRate: 3,
		rng:             rng,
	}
}

// Compute returns the snapshot for the given simulated minute. The demand
// multiplier is floored at 1.0 and the pricing multiplier tracks it.
func (m *Model) Compute(simMinute int) Snapshot {
	hour := (simMinute % (24 * 60)) / 60

	rate := m.BaseArrivalRate
	speed := 1.0
	for _, rh := range m.RushHours {
		if rh.contains(hour) {
			rate = m.RushArrivalRate
			speed = m.RushSpeedFactor
			break
		}
	}

	m.mu.Lock()
	sample := Poisson(m.rng, rate)
	m.mu.Unlock()

	mult := math.Max(1.0, 1.0+(float64(sample)-rate)/rate)
	return Snapshot{
		DemandMultiplier:  mult,
		PricingMultiplier: mult,
		SpeedFactor:       speed,
		BaseArrivalRate:   rate,
		PoissonSample:     sample,
	}
}

// Sample draws a Poisson count with the given mean using the model's RNG.
func (m *Model) Sample(mean float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Poisson(m.rng, mean)
}

// Poisson draws a sample with the given mean using Knuth's product method,
// falling back to a normal approximation for large means.
func Poisson(rng *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}
	if mean > 30 {
		val := int(math.Round(rng.NormFloat64()*math.Sqrt(mean) + mean))
		if val < 0 {
			val = 0
		}
		return val
	}
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		k++
		p *= rng.Float64()
		if p <= l {
			break
		}
	}
	return k - 1
}

// Package gen builds the synthetic entities and ride requests the
// simulation feeds on: drivers and passengers scattered around the city
// center, and fully populated request payloads with preferences, payment
// details and the occasional text message.
package gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"

	"github.com/example/ridesim/internal/geo"
	"github.com/example/ridesim/internal/models"
	"github.com/example/ridesim/internal/roster"
)

// VehicleWeight pairs a vehicle type with its selection weight. Slices keep
// the draw order stable for a fixed seed.
type VehicleWeight struct {
	Type   models.VehicleType
	Weight float64
}

// DefaultRequestWeights reflect what passengers ask for: mostly economy.
func DefaultRequestWeights() []VehicleWeight {
	return []VehicleWeight{
		{models.VehicleEconomy, 0.75},
		{models.VehicleLuxury, 0.10},
		{models.VehiclePool, 0.05},
		{models.VehicleSUV, 0.10},
	}
}

// DefaultFleetWeights reflect what drivers actually operate.
func DefaultFleetWeights() []VehicleWeight {
	return []VehicleWeight{
		{models.VehicleEconomy, 0.80},
		{models.VehicleLuxury, 0.08},
		{models.VehiclePool, 0.02},
		{models.VehicleSUV, 0.10},
	}
}

type Generator struct {
	rng    *rand.Rand
	fake   faker.Faker
	center geo.Coord
	radius float64

	RequestWeights []VehicleWeight
	FleetWeights   []VehicleWeight
	AvailableProb  float64 // chance a new driver starts AVAILABLE
}

func New(rng *rand.Rand, center geo.Coord, radiusKm float64) *Generator {
	return &Generator{
		rng:            rng,
		fake:           faker.NewWithSeed(rand.NewSource(rng.Int63())),
		center:         center,
		radius:         radiusKm,
		RequestWeights: DefaultRequestWeights(),
		FleetWeights:   DefaultFleetWeights(),
		AvailableProb:  0.7,
	}
}

// Fleet creates n drivers near the city center. Initial status is AVAILABLE
// with probability AvailableProb, otherwise OFFLINE.
func (g *Generator) Fleet(n int) []*roster.Driver {
	out := make([]*roster.Driver, 0, n)
	for i := 0; i < n; i++ {
		status := models.StatusOffline
		if g.rng.Float64() < g.AvailableProb {
			status = models.StatusAvailable
		}
		out = append(out, &roster.Driver{
			ID:          fmt.Sprintf("D%05d", i),
			Name:        g.fake.Person().Name(),
			VehicleType: g.weightedVehicle(g.FleetWeights),
			Position:    geo.RandomAround(g.rng, g.center, g.radius),
			Status:      status,
		})
	}
	return out
}

// Passengers creates n passengers with fixed home/work anchors.
func (g *Generator) Passengers(n int) []*models.Passenger {
	out := make([]*models.Passenger, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &models.Passenger{
			ID:   fmt.Sprintf("P%05d", i),
			Name: g.fake.Person().Name(),
			Home: models.LocationFrom(geo.RandomAround(g.rng, g.center, g.radius)),
			Work: models.LocationFrom(geo.RandomAround(g.rng, g.center, g.radius)),
		})
	}
	return out
}

// NewRequest produces one ride request for the passenger: a home-to-work or
// work-to-home trip with synthetic preferences and payment details.
func (g *Generator) NewRequest(p *models.Passenger, now time.Time) models.RideRequest {
	pickup, dropoff := p.Home, p.Work
	if g.rng.Float64() > 0.5 {
		pickup, dropoff = p.Work, p.Home
	}

	req := models.RideRequest{
		RequestID:   "REQ-" + uuid.NewString(),
		PassengerID: p.ID,
		Timestamp:   now.UnixMilli(),
		Pickup:      pickup,
		Dropoff:     dropoff,
		VehicleType: g.weightedVehicle(g.RequestWeights),
		Preferences: models.PassengerPreferences{
			Music:       g.musicPreference(),
			Temperature: int32(18 + g.rng.Intn(9)),
			QuietRide:   g.rng.Float64() < 0.5,
		},
		Payment:      g.paymentInfo(),
		TextMessages: []models.TextMessage{},
	}

	if g.rng.Float64() < 0.4 {
		rating := float32(1.0 + g.rng.Float64()*4.0)
		req.DriverRating = &rating
	}
	if g.rng.Float64() < 0.15 {
		req.TextMessages = append(req.TextMessages, models.TextMessage{
			MessageID: "MSG-" + uuid.NewString(),
			Sender:    models.SenderPassenger,
			Content:   g.fake.Lorem().Sentence(8),
			SentAt:    now.UnixMilli(),
		})
	}
	return req
}

func (g *Generator) paymentInfo() models.PaymentInfo {
	methods := []models.PaymentMethod{
		models.PayCash, models.PayCreditCard, models.PayDebitCard,
		models.PayPayPal, models.PayApplePay, models.PayGooglePay,
	}
	info := models.PaymentInfo{
		PaymentMethod: methods[g.rng.Intn(len(methods))],
		CouponCodes:   []string{},
	}
	if g.rng.Float64() < 0.15 {
		info.CouponCodes = append(info.CouponCodes, fmt.Sprintf("SAVE%d", 10+g.rng.Intn(41)))
	}
	if g.rng.Float64() < 0.1 {
		points := int32(g.rng.Intn(101))
		info.LoyaltyPointsUsed = &points
	}
	return info
}

func (g *Generator) musicPreference() models.MusicPreference {
	choices := []models.MusicPreference{
		models.MusicNoPreference, models.MusicPop, models.MusicRock,
		models.MusicClassical, models.MusicJazz, models.MusicHipHop,
	}
	return choices[g.rng.Intn(len(choices))]
}

func (g *Generator) weightedVehicle(weights []VehicleWeight) models.VehicleType {
	sum := 0.0
	for _, w := range weights {
		sum += w.Weight
	}
	r := g.rng.Float64() * sum
	cum := 0.0
	for _, w := range weights {
		cum += w.Weight
		if r <= cum {
			return w.Type
		}
	}
	return weights[len(weights)-1].Type
}

package models

import "github.com/example/ridesim/internal/geo"

// VehicleType enumerates the ride options a passenger can request.
type VehicleType string

const (
	VehicleEconomy  VehicleType = "ECONOMY"
	VehicleStandard VehicleType = "STANDARD"
	VehicleLuxury   VehicleType = "LUXURY"
	VehiclePool     VehicleType = "POOL"
	VehicleSUV      VehicleType = "SUV"
	VehicleElectric VehicleType = "ELECTRIC"
)

// DriverStatus is the driver availability state machine.
type DriverStatus string

const (
	StatusAvailable   DriverStatus = "AVAILABLE"
	StatusUnavailable DriverStatus = "UNAVAILABLE"
	StatusOnRide      DriverStatus = "ON_RIDE"
	StatusOffline     DriverStatus = "OFFLINE"
)

type MusicPreference string

const (
	MusicNoPreference MusicPreference = "NO_PREFERENCE"
	MusicPop          MusicPreference = "POP"
	MusicRock         MusicPreference = "ROCK"
	MusicClassical    MusicPreference = "CLASSICAL"
	MusicJazz         MusicPreference = "JAZZ"
	MusicHipHop       MusicPreference = "HIP_HOP"
)

type PaymentMethod string

const (
	PayCash       PaymentMethod = "CASH"
	PayCreditCard PaymentMethod = "CREDIT_CARD"
	PayDebitCard  PaymentMethod = "DEBIT_CARD"
	PayPayPal     PaymentMethod = "PAYPAL"
	PayApplePay   PaymentMethod = "APPLE_PAY"
	PayGooglePay  PaymentMethod = "GOOGLE_PAY"
)

type SenderType string

const (
	SenderDriver    SenderType = "DRIVER"
	SenderPassenger SenderType = "PASSENGER"
	SenderSystem    SenderType = "SYSTEM"
)

// Location is the wire shape for coordinates; field names match the
// downstream consumer schema.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) Coord() geo.Coord { return geo.Coord{Lat: l.Latitude, Lon: l.Longitude} }

func LocationFrom(c geo.Coord) Location { return Location{Latitude: c.Lat, Longitude: c.Lon} }

type PassengerPreferences struct {
	Music       MusicPreference `json:"music"`
	Temperature int32           `json:"temperature"`
	QuietRide   bool            `json:"quiet_ride"`
}

type PaymentInfo struct {
	PaymentMethod     PaymentMethod `json:"payment_method"`
	CouponCodes       []string      `json:"coupon_codes"`
	LoyaltyPointsUsed *int32        `json:"loyalty_points_used"`
}

type TextMessage struct {
	MessageID string     `json:"message_id"`
	Sender    SenderType `json:"sender"`
	Content   string     `json:"content"`
	SentAt    int64      `json:"sent_at"`
}

// RideRequest is the ephemeral request produced per passenger arrival and
// consumed by the matcher. It carries everything the final record echoes.
type RideRequest struct {
	RequestID     string
	PassengerID   string
	Timestamp     int64 // epoch ms at creation
	Pickup        Location
	Dropoff       Location
	VehicleType   VehicleType
	Preferences   PassengerPreferences
	Payment       PaymentInfo
	EstimatedFare float32
	TextMessages  []TextMessage
	DriverRating  *float32 // rating from a prior ride, if any
}

// PassengerRequestRecord is the completed-ride output event. Shape mirrors
// the PassengerRequest record consumed downstream.
type PassengerRequestRecord struct {
	RequestID     string               `json:"request_id"`
	PassengerID   string               `json:"passenger_id"`
	Timestamp     int64                `json:"timestamp"`
	Pickup        Location             `json:"pickup_location"`
	Dropoff       Location             `json:"dropoff_location"`
	VehicleType   VehicleType          `json:"vehicle_type"`
	Preferences   PassengerPreferences `json:"passenger_preferences"`
	Payment       PaymentInfo          `json:"payment_info"`
	EstimatedFare float32              `json:"estimated_fare"`
	TextMessages  []TextMessage        `json:"text_messages"`
	DriverRating  *float32             `json:"driver_rating"`
}

// DriverUpdateRecord is the driver telemetry output event, emitted both as a
// per-tick heartbeat and on ride completion.
type DriverUpdateRecord struct {
	DriverID  string       `json:"driver_id"`
	Timestamp int64        `json:"timestamp"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Status    DriverStatus `json:"status"`
}

// Passenger is created once at simulation start and never destroyed; its
// home/work anchors are fixed at creation.
type Passenger struct {
	ID   string
	Name string
	Home Location
	Work Location
}

// Record converts a request into its output record with the final fare.
func (r RideRequest) Record(fare float32) PassengerRequestRecord {
	return PassengerRequestRecord{
		RequestID:     r.RequestID,
		PassengerID:   r.PassengerID,
		Timestamp:     r.Timestamp,
		Pickup:        r.Pickup,
		Dropoff:       r.Dropoff,
		VehicleType:   r.VehicleType,
		Preferences:   r.Preferences,
		Payment:       r.Payment,
		EstimatedFare: fare,
		TextMessages:  r.TextMessages,
		DriverRating:  r.DriverRating,
	}
}

// CompletedRide is the persistence summary written to the ride store after a
// lifecycle finishes.
type CompletedRide struct {
	RequestID   string
	PassengerID string
	DriverID    string
	Pickup      Location
	Dropoff     Location
	VehicleType VehicleType
	DistanceKm  float64
	DurationSec float64
	Fare        float64
	RequestedAt int64
	CompletedAt int64
}

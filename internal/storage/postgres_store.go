package storage

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/example/ridesim/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) SaveRide(r *models.CompletedRide) error {
	_, err := p.db.Exec(`INSERT INTO completed_rides(request_id, passenger_id, driver_id, pickup_lat, pickup_lon, dropoff_lat, dropoff_lon, vehicle_type, distance_km, duration_sec, fare, requested_at, completed_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (request_id) DO NOTHING`,
		r.RequestID, r.PassengerID, r.DriverID,
		r.Pickup.Latitude, r.Pickup.Longitude, r.Dropoff.Latitude, r.Dropoff.Longitude,
		string(r.VehicleType), r.DistanceKm, r.DurationSec, r.Fare, r.RequestedAt, r.CompletedAt)
	return err
}

func (p *PostgresStore) Close() error { return p.db.Close() }

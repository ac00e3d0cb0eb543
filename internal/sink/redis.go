package sink

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/example/ridesim/internal/models"
)

// RedisMirror keeps a live view of the fleet in Redis: driver updates land
// in a GEO set plus a per-driver hash, request IDs in a capped recent list.
// Downstream tools can query proximity the same way a real dispatcher would.
type RedisMirror struct {
	client     *redis.Client
	geoKey     string
	recentKey  string
	recentKeep int64
}

func NewRedisMirror(addr, password, geoKey string) *RedisMirror {
	return &RedisMirror{
		client:     redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		geoKey:     geoKey,
		recentKey:  geoKey + ":recent_requests",
		recentKeep: 1000,
	}
}

func (r *RedisMirror) PublishRequest(ctx context.Context, rec models.PassengerRequestRecord) error {
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, r.recentKey, rec.RequestID)
	pipe.LTrim(ctx, r.recentKey, 0, r.recentKeep-1)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisMirror) PublishDriverUpdate(ctx context.Context, rec models.DriverUpdateRecord) error {
	if _, err := r.client.GeoAdd(ctx, r.geoKey, &redis.GeoLocation{
		Name:      rec.DriverID,
		Longitude: rec.Longitude,
		Latitude:  rec.Latitude,
	}).Result(); err != nil {
		return err
	}
	return r.client.HSet(ctx, "driver:meta:"+rec.DriverID, map[string]interface{}{
		"status":  string(rec.Status),
		"updated": strconv.FormatInt(rec.Timestamp, 10),
	}).Err()
}

func (r *RedisMirror) Close() error { return r.client.Close() }

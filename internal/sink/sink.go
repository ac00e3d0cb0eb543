// Package sink defines where generated events go. The simulation treats
// every sink as best-effort: publish failures are reported back, logged by
// the caller and never affect ride state.
package sink

import (
	"context"
	"sync"

	"github.com/example/ridesim/internal/models"
)

// Sink consumes the two output record shapes.
type Sink interface {
	PublishRequest(ctx context.Context, rec models.PassengerRequestRecord) error
	PublishDriverUpdate(ctx context.Context, rec models.DriverUpdateRecord) error
	Close() error
}

// Memory collects records in process; used by tests and the stats endpoint.
type Memory struct {
	mu       sync.Mutex
	requests []models.PassengerRequestRecord
	updates  []models.DriverUpdateRecord
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) PublishRequest(_ context.Context, rec models.PassengerRequestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, rec)
	return nil
}

func (m *Memory) PublishDriverUpdate(_ context.Context, rec models.DriverUpdateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, rec)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Requests() []models.PassengerRequestRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PassengerRequestRecord, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *Memory) DriverUpdates() []models.DriverUpdateRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.DriverUpdateRecord, len(m.updates))
	copy(out, m.updates)
	return out
}

// Multi fans every record out to all children. The first error is returned
// after all children were attempted.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi { return &Multi{sinks: sinks} }

func (m *Multi) PublishRequest(ctx context.Context, rec models.PassengerRequestRecord) error {
	var first error
	for _, s := range m.sinks {
		if err := s.PublishRequest(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Multi) PublishDriverUpdate(ctx context.Context, rec models.DriverUpdateRecord) error {
	var first error
	for _, s := range m.sinks {
		if err := s.PublishDriverUpdate(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Multi) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

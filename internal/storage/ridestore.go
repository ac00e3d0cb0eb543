package storage

import (
	"sync"

	"github.com/example/ridesim/internal/models"
)

// RideStore persists completed-ride summaries. Persistence is best effort;
// the simulation logs and continues on failure.
type RideStore interface {
	SaveRide(r *models.CompletedRide) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	rides map[string]*models.CompletedRide
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rides: make(map[string]*models.CompletedRide)}
}

func (m *MemoryStore) SaveRide(r *models.CompletedRide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[r.RequestID] = r
	return nil
}

func (m *MemoryStore) Get(requestID string) (*models.CompletedRide, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rides[requestID]
	return r, ok
}

func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

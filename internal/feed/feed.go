// Package feed streams generated events to connected websocket observers.
// The registry doubles as a sink, so it plugs into the same fan-out as
// Kafka and the file writers.
package feed

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/example/ridesim/internal/models"
)

// Envelope tags each frame so observers can demultiplex the two record
// shapes on one socket.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) send(env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(env)
}

// Registry holds observer sessions. Broadcast failures drop the session;
// observers are free to reconnect.
type Registry struct {
	mu       sync.Mutex
	sessions map[*session]struct{}
}

func NewRegistry() *Registry { return &Registry{sessions: make(map[*session]struct{})} }

func (r *Registry) Add(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[&session{conn: conn}] = struct{}{}
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) broadcast(env Envelope) {
	r.mu.Lock()
	sessions := make([]*session, 0, len(r.sessions))
	for s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		if err := s.send(env); err != nil {
			r.drop(s)
		}
	}
}

func (r *Registry) drop(s *session) {
	r.mu.Lock()
	delete(r.sessions, s)
	r.mu.Unlock()
	_ = s.conn.Close()
}

func (r *Registry) PublishRequest(_ context.Context, rec models.PassengerRequestRecord) error {
	r.broadcast(Envelope{Type: "passenger_request", Data: rec})
	return nil
}

func (r *Registry) PublishDriverUpdate(_ context.Context, rec models.DriverUpdateRecord) error {
	r.broadcast(Envelope{Type: "driver_update", Data: rec})
	return nil
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for s := range r.sessions {
		_ = s.conn.Close()
		delete(r.sessions, s)
	}
	return nil
}

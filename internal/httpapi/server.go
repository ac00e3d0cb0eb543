// Package httpapi serves the simulator's operational surface: health,
// Prometheus metrics, a fleet stats snapshot and the live websocket feed.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/ridesim/internal/feed"
	"github.com/example/ridesim/internal/roster"
)

type Server struct {
	logger *slog.Logger
	feed   *feed.Registry
	fleet  *roster.Roster
	mux    *mux.Router
}

func NewServer(logger *slog.Logger, fd *feed.Registry, fleet *roster.Roster) *Server {
	s := &Server{logger: logger, feed: fd, fleet: fleet, mux: mux.NewRouter()}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/stats", s.handleStats).Methods("GET")
	s.mux.HandleFunc("/ws", s.handleWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"drivers_total":     s.fleet.Len(),
		"drivers_working":   s.fleet.WorkingCount(),
		"drivers_available": s.fleet.AvailableCount(),
		"feed_observers":    s.feed.Count(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", 400)
		return
	}
	s.feed.Add(conn)
	s.logger.Info("feed observer connected", "remote_addr", r.RemoteAddr)
}

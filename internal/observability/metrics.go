package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ridesim", Name: "requests_total", Help: "Total ride requests generated"})
	MatchesTotal   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ridesim", Name: "matches_total", Help: "Total successful driver matches"})
	AbandonedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ridesim", Name: "requests_abandoned_total", Help: "Requests abandoned before a driver was claimed"})
	MatchLatency   = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "ridesim", Name: "match_latency_seconds", Help: "Time from request to driver claim"})

	RidesInFlight    = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "ridesim", Name: "rides_in_flight", Help: "Ride lifecycles currently running"})
	DriversAvailable = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "ridesim", Name: "drivers_available", Help: "Drivers currently AVAILABLE"})
	HeartbeatsTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ridesim", Name: "heartbeats_total", Help: "Driver telemetry heartbeats emitted"})

	SinkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ridesim", Name: "sink_errors_total", Help: "Publish failures by sink"},
		[]string{"sink"},
	)
)

package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Duel request outcomes recorded by RecordRequest.
const (
	OutcomeSent               = "sent"
	OutcomeFailedTargetLeft   = "failed_target_left"
	OutcomeFailedTargetInDuel = "failed_target_in_duel"
	OutcomeFailedPending      = "failed_pending"
	OutcomeFailedOther        = "failed_other"
	OutcomeAccepted           = "accepted"
	OutcomeDeclined           = "declined"
	OutcomeCancelled          = "cancelled"
	OutcomeExpired            = "expired"
	OutcomeAborted            = "aborted"
)

var (
	registerOnce sync.Once

	connections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "duel",
		Subsystem: "lobby",
		Name:      "connections",
		Help:      "Connections known to the lobby.",
	})
	inWorld = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "duel",
		Subsystem: "lobby",
		Name:      "in_world",
		Help:      "Connections currently present in the shared world.",
	})
	activeDuels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "duel",
		Subsystem: "lobby",
		Name:      "active_duels",
		Help:      "Duel session entries held by the lobby, one per participant.",
	})
	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "duel",
			Name:      "requests_total",
			Help:      "Duel requests by outcome.",
		},
		[]string{"outcome"},
	)
	relayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "duel",
			Name:      "relay_total",
			Help:      "Duel messages relayed to an opponent.",
		},
		[]string{"event"},
	)
	graceExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "duel",
		Name:      "grace_expired_total",
		Help:      "Duels force-ended after an opponent disconnect grace period.",
	})
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "duel",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "duel",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			connections, inWorld, activeDuels,
			requests, relayed, graceExpired,
			httpRequests, httpDuration,
		)
	})
}

// SetLobbyGauges publishes the lobby population after a state change.
func SetLobbyGauges(conns, present, duelEntries int) {
	RegisterMetrics()
	connections.Set(float64(conns))
	inWorld.Set(float64(present))
	activeDuels.Set(float64(duelEntries))
}

func RecordRequest(outcome string) {
	RegisterMetrics()
	requests.WithLabelValues(outcome).Inc()
}

func RecordRelay(event string) {
	RegisterMetrics()
	relayed.WithLabelValues(event).Inc()
}

func RecordGraceExpired() {
	RegisterMetrics()
	graceExpired.Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

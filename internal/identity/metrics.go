package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskboard"

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "login_attempts_total",
			Help:      "Total login attempts by outcome",
		},
		[]string{"result"},
	)

	registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "registrations_total",
			Help:      "Total registration attempts by outcome",
		},
		[]string{"result"},
	)
)

// recordLogin records a login attempt outcome.
func recordLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// recordRegistration records a registration attempt outcome.
func recordRegistration(result string) {
	registrations.WithLabelValues(result).Inc()
}

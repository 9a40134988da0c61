// Package metrics holds the application-level Prometheus collectors. HTTP
// request metrics come from the echoprometheus middleware; these counters
// cover the domain events that middleware cannot see.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "technical_records"

var (
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Session tokens issued.",
	})

	TicketsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Service requests created by initial status.",
	}, []string{"status"})

	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_recorded_total",
		Help:      "Payment records applied to service requests.",
	})

	PIIDecryptFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pii_decrypt_failures_total",
		Help:      "Tolerated PII field decryption failures.",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)

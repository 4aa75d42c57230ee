package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Broadcast results.
const (
	ResultSent         = "sent"
	ResultFailed       = "failed"
	ResultNoRecipients = "no_recipients"
)

var (
	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mailroom",
		Name:      "broadcasts_total",
		Help:      "Broadcast attempts by result.",
	}, []string{"result"})

	BroadcastRecipients = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mailroom",
		Name:      "broadcast_recipients",
		Help:      "Number of resolved recipients per delivered broadcast.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	// AuditWriteFailuresTotal counts broadcasts delivered without an audit row.
	AuditWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mailroom",
		Name:      "audit_write_failures_total",
		Help:      "Broadcasts whose audit record could not be written after delivery.",
	})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mailroom",
		Name:      "auth_attempts_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mailroom",
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the auth rate limiter.",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Draw subsystem metrics. Registered on the default registry and exposed
// through promhttp in cmd/app.
var (
	CommitmentsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "raffle",
		Subsystem: "draw",
		Name:      "commitments_published_total",
		Help:      "Number of seed commitments published.",
	})

	DrawsConducted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raffle",
		Subsystem: "draw",
		Name:      "conducted_total",
		Help:      "Number of draws conducted, labeled by entropy method.",
	}, []string{"method"})

	DrawFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raffle",
		Subsystem: "draw",
		Name:      "failures_total",
		Help:      "Number of failed draw attempts, labeled by error code.",
	}, []string{"code"})

	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raffle",
		Subsystem: "draw",
		Name:      "verifications_total",
		Help:      "Number of verification runs, labeled by outcome.",
	}, []string{"outcome"})

	EntropyFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "raffle",
		Subsystem: "draw",
		Name:      "entropy_fallbacks_total",
		Help:      "Number of draws that fell back to crypto-only entropy.",
	})
)

// Package metrics exposes prometheus collectors for the execution lifecycle.
//
// Labels are bounded: command names come from the registry and phases/outcomes are fixed sets.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cmdgate_phase_duration_seconds",
			Help:    "Duration of each execution phase in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command", "phase"},
	)

	invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmdgate_invocations_total",
			Help: "Total number of command invocations by outcome.",
		},
		[]string{"command", "outcome"},
	)

	requestsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmdgate_requests_resolved_total",
			Help: "Total number of confirmation requests resolved, by answer.",
		},
		[]string{"command", "answer"},
	)
)

func init() {
	prometheus.MustRegister(phaseDuration, invocations, requestsResolved)
}

func ObservePhase(command, phase string, d time.Duration) {
	phaseDuration.WithLabelValues(command, phase).Observe(d.Seconds())
}

// CountInvocation records how an invocation ended: done, failed, silent or errored
func CountInvocation(command, outcome string) {
	invocations.WithLabelValues(command, outcome).Inc()
}

func CountResolution(command string, accepted bool) {
	answer := "declined"
	if accepted {
		answer = "accepted"
	}
	requestsResolved.WithLabelValues(command, answer).Inc()
}

// Package metrics defines the Prometheus collectors exported by the service.
// A nil *Recorder is valid and records nothing, which keeps tests and the CLI
// free of registry plumbing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder groups the collectors used across packages.
type Recorder struct {
	attempts    *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	tokens      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moodify",
			Name:      "catalog_attempts_total",
			Help:      "Catalog requests issued by the resolver, by degradation step and outcome.",
		}, []string{"step", "outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moodify",
			Name:      "resolutions_total",
			Help:      "Completed recommendation resolutions by response source.",
		}, []string{"source"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moodify",
			Name:      "service_token_fetches_total",
			Help:      "Client-credentials exchanges against the identity endpoint.",
		}, []string{"result"}),
	}
	reg.MustRegister(r.attempts, r.resolutions, r.tokens)
	return r
}

// Attempt counts one catalog call made during the given step.
func (r *Recorder) Attempt(step, outcome string) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(step, outcome).Inc()
}

// Resolution counts a finished resolution served from source.
func (r *Recorder) Resolution(source string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(source).Inc()
}

// TokenFetch counts a service credential exchange.
func (r *Recorder) TokenFetch(ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	r.tokens.WithLabelValues(result).Inc()
}

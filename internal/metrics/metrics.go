// Package metrics provides Prometheus instrumentation for the matching
// service. It exposes counters for ranking requests and invite lifecycle
// transitions, and histograms for scoring latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RankRequestsTotal counts ranking requests, labeled by strategy:
	// "weighted" or "reverse".
	RankRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matching_rank_requests_total",
		Help: "Total number of ranking requests",
	}, []string{"strategy"})

	// RankDuration records end-to-end ranking latency in seconds, including
	// profile loading and scoring.
	RankDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "matching_rank_duration_seconds",
		Help:    "Ranking latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"strategy"})

	// InviteTransitionsTotal counts invite lifecycle transitions, labeled by
	// action ("create", "accept", "reject", "approve", "expire") and the
	// resulting status.
	InviteTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matching_invite_transitions_total",
		Help: "Total number of invite lifecycle transitions",
	}, []string{"action", "status"})

	// CandidatesScored counts how many candidate profiles went through the
	// scorer, labeled by strategy.
	CandidatesScored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matching_candidates_scored_total",
		Help: "Total number of candidate profiles scored",
	}, []string{"strategy"})
)

func init() {
	prometheus.MustRegister(
		RankRequestsTotal,
		RankDuration,
		InviteTransitionsTotal,
		CandidatesScored,
	)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

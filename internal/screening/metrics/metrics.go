package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluationsTotal tracks pipeline runs by terminal outcome
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_evaluations_total",
			Help: "Total number of address evaluations",
		},
		[]string{"outcome"},
	)

	// EvaluationDuration tracks end-to-end pipeline latency
	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screener_evaluation_duration_seconds",
			Help:    "End-to-end evaluation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// UpstreamRequestsTotal tracks calls per upstream data source
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"source", "status"},
	)

	// DegradedLookupsTotal tracks soft failures absorbed as safe defaults
	DegradedLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_degraded_lookups_total",
			Help: "Total number of lookups that degraded to a default value",
		},
		[]string{"source"},
	)

	// TransferPagesFetched tracks pagination depth per evaluation
	TransferPagesFetched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screener_transfer_pages_fetched",
			Help:    "Number of history pages fetched per evaluation",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)
)

// Package ml provides Prometheus metrics for model scoring.
package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks scored fixtures per model version
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_predictions_total",
			Help: "Total number of fixtures scored by the model",
		},
		[]string{"model_version"},
	)

	// SchemaFailuresTotal tracks hard schema mismatches
	SchemaFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "model_schema_failures_total",
			Help: "Total number of fixtures rejected because a schema column could not be defaulted",
		},
	)

	// ScoreLatency tracks per-fixture scoring latency
	ScoreLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_score_latency_seconds",
			Help:    "Model scoring latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

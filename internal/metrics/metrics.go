// Package metrics provides the centralized Prometheus metrics registry for
// the prediction pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "pipeline_runs_total",
		Help:      "Total number of pipeline runs by outcome",
	}, []string{"status"})
	FixturesScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "fixtures_scored_total",
		Help:      "Total number of fixtures scored",
	})
	FixturesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "fixtures_skipped_total",
		Help:      "Total number of fixtures skipped for unsatisfiable feature schema",
	})
	IngestionRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "ingestion_records_total",
		Help:      "Total number of ingested records by source and outcome",
	}, []string{"source", "status"})
	OddsUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "odds_updates_total",
		Help:      "Total number of fixture odds updates applied",
	})
)

// Gauge metrics
var (
	BestExpectedValue = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitch_edge",
		Name:      "best_expected_value",
		Help:      "Best expected value in the most recent ranking",
	})
	UpcomingFixtures = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitch_edge",
		Name:      "upcoming_fixtures",
		Help:      "Number of fixtures in the current prediction horizon",
	})
	RatedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitch_edge",
		Name:      "rated_teams",
		Help:      "Number of teams in the current rating book",
	})
)

// Histogram metrics
var (
	PipelineRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitch_edge",
		Name:      "pipeline_run_duration_seconds",
		Help:      "Duration of full pipeline runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	RatingRebuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitch_edge",
		Name:      "rating_rebuild_duration_seconds",
		Help:      "Duration of full rating book rebuilds in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	IngestionRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitch_edge",
		Name:      "ingestion_run_duration_seconds",
		Help:      "Duration of ingestion runs in seconds",
		Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 300, 600},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(FixturesScoredTotal)
		registry.MustRegister(FixturesSkippedTotal)
		registry.MustRegister(IngestionRecordsTotal)
		registry.MustRegister(OddsUpdatesTotal)

		// Register gauge metrics
		registry.MustRegister(BestExpectedValue)
		registry.MustRegister(UpcomingFixtures)
		registry.MustRegister(RatedTeams)

		// Register histogram metrics
		registry.MustRegister(PipelineRunDuration)
		registry.MustRegister(RatingRebuildDuration)
		registry.MustRegister(IngestionRunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. Model scoring metrics live in
// the default registry, so both are gathered.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordIngestedRecord records one ingested record outcome for a source.
func RecordIngestedRecord(source, status string) {
	IngestionRecordsTotal.WithLabelValues(source, status).Inc()
}

// RecordOddsUpdate records one applied odds update.
func RecordOddsUpdate() {
	OddsUpdatesTotal.Inc()
}

// UpdateUpcomingFixtures updates the prediction horizon gauge.
func UpdateUpcomingFixtures(count float64) {
	UpcomingFixtures.Set(count)
}

// UpdateRatedTeams updates the rating book size gauge.
func UpdateRatedTeams(count float64) {
	RatedTeams.Set(count)
}

// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for prediction pipeline runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogModelLoad logs a model artifact load.
func (pl *PipelineLogger) LogModelLoad(modelVersion string, featureCount int, calibrated bool) {
	pl.WithFields(logrus.Fields{
		"model_version": modelVersion,
		"feature_count": featureCount,
		"calibrated":    calibrated,
	}).Info("Model artifact loaded")
}

// LogScoreBatch logs a completed scoring batch.
func (pl *PipelineLogger) LogScoreBatch(modelVersion string, fixturesScored, fixturesSkipped int, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"model_version":    modelVersion,
		"fixtures_scored":  fixturesScored,
		"fixtures_skipped": fixturesSkipped,
		"latency_ms":       latencyMs,
	}).Info("Scoring batch completed")
}

// LogSchemaFailure logs a feature schema mismatch for a fixture.
func (pl *PipelineLogger) LogSchemaFailure(fixtureID int64, column string) {
	pl.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"column":     column,
	}).Error("Feature schema mismatch")
}

// LogValueBetRanking logs a value-bet ranking run.
func (pl *PipelineLogger) LogValueBetRanking(totalFixtures, pricedFixtures int, bestEV float64) {
	pl.WithFields(logrus.Fields{
		"total_fixtures":  totalFixtures,
		"priced_fixtures": pricedFixtures,
		"best_ev":         bestEV,
	}).Info("Value bet ranking completed")
}

// LogRatingRebuild logs a full rating book rebuild.
func (pl *PipelineLogger) LogRatingRebuild(matchesApplied, teams int, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"matches_applied": matchesApplied,
		"teams":           teams,
		"latency_ms":      latencyMs,
	}).Info("Rating book rebuilt")
}

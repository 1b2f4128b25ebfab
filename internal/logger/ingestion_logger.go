// Package logger provides ingestion audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// IngestionLogger provides dedicated logging for data ingestion runs.
type IngestionLogger struct {
	*logrus.Entry
}

// NewIngestionLogger creates a new ingestion logger.
func NewIngestionLogger(baseLogger *logrus.Logger) *IngestionLogger {
	return &IngestionLogger{
		Entry: baseLogger.WithField("component", "ingestion"),
	}
}

// LogIngestionRun logs a completed ingestion run for one source.
func (il *IngestionLogger) LogIngestionRun(source string, fetched, stored, rejected int, startedAt time.Time) {
	il.WithFields(logrus.Fields{
		"source":      source,
		"fetched":     fetched,
		"stored":      stored,
		"rejected":    rejected,
		"duration_ms": time.Since(startedAt).Milliseconds(),
	}).Info("Ingestion run completed")
}

// LogRecordRejected logs a record that failed validation.
func (il *IngestionLogger) LogRecordRejected(source string, fixtureID int64, reason string) {
	il.WithFields(logrus.Fields{
		"source":     source,
		"fixture_id": fixtureID,
		"reason":     reason,
	}).Warn("Record rejected during ingestion")
}

// LogOddsRefresh logs an odds polling cycle.
func (il *IngestionLogger) LogOddsRefresh(source string, fixturesUpdated int, cacheHit bool) {
	il.WithFields(logrus.Fields{
		"source":           source,
		"fixtures_updated": fixturesUpdated,
		"cache_hit":        cacheHit,
	}).Info("Odds refreshed")
}

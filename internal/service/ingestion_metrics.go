package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about a data ingestion run
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalFetched     int
	StoredMatches    int
	StoredFixtures   int
	Duplicates       int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalFetched = 0
	m.StoredMatches = 0
	m.StoredFixtures = 0
	m.Duplicates = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordMatch increments the stored match count
func (m *IngestionMetrics) RecordMatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredMatches++
}

// RecordFixture increments the stored fixture count
func (m *IngestionMetrics) RecordFixture() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredFixtures++
}

// RecordDuplicate increments the duplicate count
func (m *IngestionMetrics) RecordDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duplicates++
}

// RecordValidationError increments the validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// RecordError increments the error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// Rejected returns the number of records that did not make it to storage
func (m *IngestionMetrics) Rejected() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ValidationErrors + m.Errors
}

// String returns a formatted summary of the run
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"fetched=%d matches=%d fixtures=%d duplicates=%d validation_errors=%d errors=%d duration=%v",
		m.TotalFetched, m.StoredMatches, m.StoredFixtures, m.Duplicates, m.ValidationErrors, m.Errors, m.Duration,
	)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/datasource"
	"github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/models"
	"github.com/yourusername/pitch-edge/internal/repository"
)

// IngestionService handles the data ingestion workflow: fetching results,
// upcoming fixtures and odds from the configured sources and landing them in
// canonical form.
type IngestionService struct {
	sources     []datasource.DataSource
	matchRepo   repository.MatchRepository
	fixtureRepo repository.FixtureRepository
	validator   *DataValidator
	normalizer  *DataNormalizer
	metrics     *IngestionMetrics
	logger      *logrus.Logger
	auditLog    *logger.IngestionLogger
	batchSize   int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources []datasource.DataSource,
	matchRepo repository.MatchRepository,
	fixtureRepo repository.FixtureRepository,
	validator *DataValidator,
	normalizer *DataNormalizer,
	log *logrus.Logger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 200
	}

	return &IngestionService{
		sources:     sources,
		matchRepo:   matchRepo,
		fixtureRepo: fixtureRepo,
		validator:   validator,
		normalizer:  normalizer,
		metrics:     NewIngestionMetrics(),
		logger:      log,
		auditLog:    logger.NewIngestionLogger(log),
		batchSize:   batchSize,
	}
}

// IngestHistoricalResults fetches played matches from one source over a date
// range and stores them in batches. Individual bad records are rejected and
// logged; a failed batch does not abort the remaining batches.
func (s *IngestionService) IngestHistoricalResults(ctx context.Context, sourceName string, startDate, endDate time.Time) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startedAt := time.Now()

	source, err := s.findSource(sourceName)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"source": sourceName,
		"from":   startDate.Format("2006-01-02"),
		"to":     endDate.Format("2006-01-02"),
	}).Info("Starting historical results ingestion")

	records, err := source.FetchResults(ctx, startDate, endDate)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch results from %s: %w", sourceName, err)
	}
	s.metrics.TotalFetched = len(records)

	matches := make([]*models.Match, 0, len(records))
	for i := range records {
		match, ok := s.prepareMatch(sourceName, &records[i])
		if !ok {
			continue
		}
		matches = append(matches, match)
	}

	if err := s.validator.ValidateHistory(deref(matches)); err != nil {
		s.metrics.RecordValidationError()
		return s.metrics, fmt.Errorf("history batch rejected: %w", err)
	}

	for start := 0; start < len(matches); start += s.batchSize {
		end := start + s.batchSize
		if end > len(matches) {
			end = len(matches)
		}

		if err := s.matchRepo.CreateBatch(ctx, matches[start:end]); err != nil {
			s.metrics.RecordError()
			s.logger.WithError(err).WithField("source", sourceName).Error("Failed to store match batch")
			continue
		}
		for range matches[start:end] {
			s.metrics.RecordMatch()
			metrics.RecordIngestedRecord(sourceName, "stored")
		}
	}

	s.metrics.Duration = time.Since(startedAt)
	metrics.IngestionRunDuration.Observe(s.metrics.Duration.Seconds())
	s.auditLog.LogIngestionRun(sourceName, s.metrics.TotalFetched, s.metrics.StoredMatches, s.metrics.Rejected(), startedAt)
	return s.metrics, nil
}

// IngestUpcomingFixtures fetches the fixture list for the coming days from one
// source and upserts each fixture, refreshing odds on re-ingestion.
func (s *IngestionService) IngestUpcomingFixtures(ctx context.Context, sourceName string, from time.Time, days int) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startedAt := time.Now()

	source, err := s.findSource(sourceName)
	if err != nil {
		return nil, err
	}

	records, err := source.FetchUpcoming(ctx, from, days)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch upcoming fixtures from %s: %w", sourceName, err)
	}
	s.metrics.TotalFetched = len(records)

	for i := range records {
		record := &records[i]

		fixture, err := s.normalizer.NormalizeFixture(record)
		if err != nil {
			s.metrics.RecordError()
			s.auditLog.LogRecordRejected(sourceName, record.FixtureID, err.Error())
			continue
		}

		if problems := s.validator.ValidateFixture(fixture); len(problems) > 0 {
			s.metrics.RecordValidationError()
			s.auditLog.LogRecordRejected(sourceName, record.FixtureID, strings.Join(problems, "; "))
			continue
		}

		if err := s.fixtureRepo.Upsert(ctx, fixture); err != nil {
			s.metrics.RecordError()
			s.logger.WithError(err).WithField("fixture_id", fixture.FixtureID).Error("Failed to upsert fixture")
			continue
		}
		s.metrics.RecordFixture()
		metrics.RecordIngestedRecord(sourceName, "stored")
	}

	s.metrics.Duration = time.Since(startedAt)
	s.auditLog.LogIngestionRun(sourceName, s.metrics.TotalFetched, s.metrics.StoredFixtures, s.metrics.Rejected(), startedAt)
	return s.metrics, nil
}

// RefreshOdds polls one source for current odds on the stored upcoming
// fixtures and updates any fixture whose market is fully priced.
func (s *IngestionService) RefreshOdds(ctx context.Context, sourceName string, from time.Time, days int) (int, error) {
	source, err := s.findSource(sourceName)
	if err != nil {
		return 0, err
	}

	fixtures, err := s.fixtureRepo.GetUpcoming(ctx, from, days)
	if err != nil {
		return 0, fmt.Errorf("failed to load upcoming fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return 0, nil
	}

	fixtureIDs := make([]int64, len(fixtures))
	for i := range fixtures {
		fixtureIDs[i] = fixtures[i].FixtureID
	}

	oddsByFixture, err := source.FetchOdds(ctx, fixtureIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch odds from %s: %w", sourceName, err)
	}

	updated := 0
	for fixtureID, odds := range oddsByFixture {
		triple, ok := s.normalizer.NormalizeOdds(&odds)
		if !ok {
			s.auditLog.LogRecordRejected(sourceName, fixtureID, "market not fully priced")
			continue
		}

		if err := s.fixtureRepo.UpdateOdds(ctx, fixtureID, triple); err != nil {
			s.logger.WithError(err).WithField("fixture_id", fixtureID).Warn("Failed to update fixture odds")
			continue
		}
		updated++
		metrics.RecordOddsUpdate()
	}

	s.auditLog.LogOddsRefresh(sourceName, updated, false)
	return updated, nil
}

// HandleStreamUpdate applies a single streamed odds update to storage. Wired
// as an OddsStreamClient handler.
func (s *IngestionService) HandleStreamUpdate(ctx context.Context, update datasource.OddsUpdate) error {
	triple, ok := s.normalizer.NormalizeOdds(&update.Odds)
	if !ok {
		return fmt.Errorf("%w: streamed odds for fixture %d not fully priced", datasource.ErrInvalidData, update.FixtureID)
	}
	return s.fixtureRepo.UpdateOdds(ctx, update.FixtureID, triple)
}

// Sources returns the names of the configured sources
func (s *IngestionService) Sources() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.Name()
	}
	return names
}

// prepareMatch normalizes and validates one raw record, recording rejections
// in the run metrics.
func (s *IngestionService) prepareMatch(sourceName string, record *datasource.MatchData) (*models.Match, bool) {
	match, err := s.normalizer.NormalizeMatch(record)
	if err != nil {
		s.metrics.RecordError()
		s.auditLog.LogRecordRejected(sourceName, record.FixtureID, err.Error())
		return nil, false
	}

	if problems := s.validator.ValidateMatch(match); len(problems) > 0 {
		s.metrics.RecordValidationError()
		metrics.RecordIngestedRecord(sourceName, "rejected")
		s.auditLog.LogRecordRejected(sourceName, record.FixtureID, strings.Join(problems, "; "))
		return nil, false
	}

	return match, true
}

func (s *IngestionService) findSource(name string) (datasource.DataSource, error) {
	for _, src := range s.sources {
		if src.Name() == name {
			if !src.IsEnabled() {
				return nil, fmt.Errorf("%w: %s", datasource.ErrSourceDisabled, name)
			}
			return src, nil
		}
	}
	return nil, fmt.Errorf("data source not found: %s", name)
}

func deref(matches []*models.Match) []models.Match {
	out := make([]models.Match, len(matches))
	for i, m := range matches {
		out[i] = *m
	}
	return out
}

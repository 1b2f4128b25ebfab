package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/features"
	"github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/ml"
	"github.com/yourusername/pitch-edge/internal/models"
	"github.com/yourusername/pitch-edge/internal/ratings"
	"github.com/yourusername/pitch-edge/internal/repository"
	"github.com/yourusername/pitch-edge/internal/valuebets"
)

// PipelineService orchestrates a full prediction run: rebuild the rating book
// from history, assemble features for the upcoming fixtures, score them, and
// publish the ranked value-bet table.
type PipelineService struct {
	matchRepo      repository.MatchRepository
	fixtureRepo    repository.FixtureRepository
	predictionRepo repository.PredictionRepository
	recRepo        repository.RecommendationRepository
	assembler      *features.Assembler
	scorer         *ml.Scorer
	ranker         *valuebets.Ranker
	upcomingDays   int
	logger         *logrus.Logger
	runLog         *logger.PipelineLogger
}

// NewPipelineService creates a new prediction pipeline
func NewPipelineService(
	repos *repository.Repositories,
	assembler *features.Assembler,
	scorer *ml.Scorer,
	ranker *valuebets.Ranker,
	upcomingDays int,
	log *logrus.Logger,
) *PipelineService {
	if upcomingDays <= 0 {
		upcomingDays = 7
	}

	return &PipelineService{
		matchRepo:      repos.Match,
		fixtureRepo:    repos.Fixture,
		predictionRepo: repos.Prediction,
		recRepo:        repos.Recommendation,
		assembler:      assembler,
		scorer:         scorer,
		ranker:         ranker,
		upcomingDays:   upcomingDays,
		logger:         log,
		runLog:         logger.NewPipelineLogger(log),
	}
}

// RebuildRatingBook loads the full played history and replays it through the
// rating system. The history comes back date-ascending from storage and the
// book rejects out-of-order application, so a corrupted history fails loudly
// rather than producing silently different ratings.
func (p *PipelineService) RebuildRatingBook(ctx context.Context) (*ratings.Book, []models.Match, error) {
	start := time.Now()

	history, err := p.matchRepo.GetAllPlayed(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load match history: %w", err)
	}

	book, err := ratings.BuildBook(history)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build rating book: %w", err)
	}

	latency := time.Since(start)
	metrics.RatingRebuildDuration.Observe(latency.Seconds())
	metrics.UpdateRatedTeams(float64(book.Teams()))
	p.runLog.LogRatingRebuild(len(history), book.Teams(), float64(latency.Milliseconds()))
	return book, history, nil
}

// PredictUpcoming scores every upcoming fixture in the horizon and persists
// the predictions. A fixture whose feature vector cannot satisfy the model
// schema is skipped and logged; it does not abort the batch.
func (p *PipelineService) PredictUpcoming(ctx context.Context, now time.Time) ([]models.Prediction, error) {
	start := time.Now()

	book, history, err := p.RebuildRatingBook(ctx)
	if err != nil {
		return nil, err
	}

	fixtures, err := p.fixtureRepo.GetUpcoming(ctx, now, p.upcomingDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming fixtures: %w", err)
	}
	metrics.UpdateUpcomingFixtures(float64(len(fixtures)))

	predictions := make([]models.Prediction, 0, len(fixtures))
	skipped := 0
	for i := range fixtures {
		fixture := &fixtures[i]

		prediction, err := p.scoreFixture(fixture, history, book)
		if err != nil {
			if errors.Is(err, models.ErrSchemaMismatch) {
				skipped++
				metrics.FixturesSkippedTotal.Inc()
				continue
			}
			return nil, fmt.Errorf("failed to score fixture %d: %w", fixture.FixtureID, err)
		}
		predictions = append(predictions, *prediction)
	}

	if len(predictions) > 0 {
		refs := make([]*models.Prediction, len(predictions))
		for i := range predictions {
			refs[i] = &predictions[i]
		}
		if err := p.predictionRepo.CreateBatch(ctx, refs); err != nil {
			return nil, fmt.Errorf("failed to store predictions: %w", err)
		}
	}

	metrics.FixturesScoredTotal.Add(float64(len(predictions)))
	p.runLog.LogScoreBatch(p.scorer.ModelVersion(), len(predictions), skipped, float64(time.Since(start).Milliseconds()))
	return predictions, nil
}

// RankValueBets combines predictions with current fixture odds into the
// ranked recommendation table for the run date. The stored table for that
// date is replaced wholesale.
func (p *PipelineService) RankValueBets(ctx context.Context, now time.Time, predictions []models.Prediction) ([]models.Recommendation, error) {
	fixtures, err := p.fixtureRepo.GetUpcoming(ctx, now, p.upcomingDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture odds: %w", err)
	}

	odds := make(map[int64]*models.OddsTriple, len(fixtures))
	for i := range fixtures {
		if fixtures[i].HasOdds() {
			odds[fixtures[i].FixtureID] = fixtures[i].Odds
		}
	}

	recommendations := p.ranker.Rank(predictions, odds)
	if err := p.recRepo.ReplaceForDate(ctx, now, recommendations); err != nil {
		return nil, fmt.Errorf("failed to store recommendations: %w", err)
	}

	priced := 0
	bestEV := 0.0
	for i := range recommendations {
		if recommendations[i].Priced {
			priced++
		}
	}
	if len(recommendations) > 0 {
		bestEV = recommendations[0].BestEV
		metrics.BestExpectedValue.Set(bestEV)
	}
	p.runLog.LogValueBetRanking(len(recommendations), priced, bestEV)
	return recommendations, nil
}

// Run executes the full pipeline for one run date and returns the ranked
// recommendation table.
func (p *PipelineService) Run(ctx context.Context, now time.Time) ([]models.Recommendation, error) {
	start := time.Now()

	predictions, err := p.PredictUpcoming(ctx, now)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	recommendations, err := p.RankValueBets(ctx, now, predictions)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.PipelineRunsTotal.WithLabelValues("success").Inc()
	metrics.PipelineRunDuration.Observe(time.Since(start).Seconds())
	return recommendations, nil
}

// GetRankedValueBets returns the stored table for a run date, best edge
// first, filtered to the minimum expected value.
func (p *PipelineService) GetRankedValueBets(ctx context.Context, date time.Time, minEV float64, limit int) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = 100
	}
	return p.recRepo.GetRanked(ctx, date, minEV, limit)
}

// scoreFixture assembles one feature vector and runs it through the scoring
// adapter.
func (p *PipelineService) scoreFixture(fixture *models.Fixture, history []models.Match, book *ratings.Book) (*models.Prediction, error) {
	vector, err := p.assembler.Assemble(fixture, history, book)
	if err != nil {
		if errors.Is(err, models.ErrSchemaMismatch) {
			p.runLog.LogSchemaFailure(fixture.FixtureID, err.Error())
		}
		return nil, err
	}

	result, err := p.scorer.Score(vector)
	if err != nil {
		return nil, err
	}

	return &models.Prediction{
		ID:           uuid.New(),
		FixtureID:    fixture.FixtureID,
		HomeTeam:     fixture.HomeTeam,
		AwayTeam:     fixture.AwayTeam,
		Date:         fixture.Date,
		Probs:        result.Calibrated,
		RawProbs:     result.Raw,
		Calibrated:   result.CalibratorApplied,
		ModelVersion: p.scorer.ModelVersion(),
		PredictedAt:  time.Now(),
	}, nil
}

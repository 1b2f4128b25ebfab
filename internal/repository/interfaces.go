package repository

import (
	"context"
	"time"

	"github.com/yourusername/pitch-edge/internal/models"
)

// MatchRepository defines the interface for historical match data access
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	CreateBatch(ctx context.Context, matches []*models.Match) error
	GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Match, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error)
	GetAllPlayed(ctx context.Context) ([]models.Match, error)
	GetBySeason(ctx context.Context, season string) ([]models.Match, error)
	Update(ctx context.Context, match *models.Match) error
}

// FixtureRepository defines the interface for upcoming fixture data access
type FixtureRepository interface {
	Upsert(ctx context.Context, fixture *models.Fixture) error
	GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Fixture, error)
	GetUpcoming(ctx context.Context, from time.Time, days int) ([]models.Fixture, error)
	UpdateOdds(ctx context.Context, fixtureID int64, odds *models.OddsTriple) error
	Delete(ctx context.Context, fixtureID int64) error
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	CreateBatch(ctx context.Context, predictions []*models.Prediction) error
	GetLatestByFixtureID(ctx context.Context, fixtureID int64) (*models.Prediction, error)
	GetByModelVersion(ctx context.Context, modelVersion string, limit int) ([]models.Prediction, error)
}

// RecommendationRepository defines the interface for value-bet table access
type RecommendationRepository interface {
	ReplaceForDate(ctx context.Context, date time.Time, recommendations []models.Recommendation) error
	GetRanked(ctx context.Context, date time.Time, minEV float64, limit int) ([]models.Recommendation, error)
}

package repository

import (
	"fmt"

	"github.com/yourusername/pitch-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match          MatchRepository
	Fixture        FixtureRepository
	Prediction     PredictionRepository
	Recommendation RecommendationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:          NewPostgresMatchRepository(db),
		Fixture:        NewPostgresFixtureRepository(db),
		Prediction:     NewPostgresPredictionRepository(db),
		Recommendation: NewPostgresRecommendationRepository(db),
	}, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a new prediction row
func (r *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, fixture_id, home_team, away_team, fixture_date,
		                         p_home, p_draw, p_away, raw_p_home, raw_p_draw, raw_p_away,
		                         calibrated, model_version, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.FixtureID, prediction.HomeTeam, prediction.AwayTeam, prediction.Date,
		prediction.Probs.Home, prediction.Probs.Draw, prediction.Probs.Away,
		prediction.RawProbs.Home, prediction.RawProbs.Draw, prediction.RawProbs.Away,
		prediction.Calibrated, prediction.ModelVersion, prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	return nil
}

// CreateBatch inserts predictions in a single transaction
func (r *PostgresPredictionRepository) CreateBatch(ctx context.Context, predictions []*models.Prediction) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO predictions (id, fixture_id, home_team, away_team, fixture_date,
			                         p_home, p_draw, p_away, raw_p_home, raw_p_draw, raw_p_away,
			                         calibrated, model_version, predicted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`

		for _, prediction := range predictions {
			_, err := tx.Exec(ctx, query,
				prediction.ID, prediction.FixtureID, prediction.HomeTeam, prediction.AwayTeam, prediction.Date,
				prediction.Probs.Home, prediction.Probs.Draw, prediction.Probs.Away,
				prediction.RawProbs.Home, prediction.RawProbs.Draw, prediction.RawProbs.Away,
				prediction.Calibrated, prediction.ModelVersion, prediction.PredictedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert prediction for fixture %d: %w", prediction.FixtureID, err)
			}
		}
		return nil
	})
}

// GetLatestByFixtureID retrieves the most recent prediction for a fixture
func (r *PostgresPredictionRepository) GetLatestByFixtureID(ctx context.Context, fixtureID int64) (*models.Prediction, error) {
	query := `
		SELECT id, fixture_id, home_team, away_team, fixture_date,
		       p_home, p_draw, p_away, raw_p_home, raw_p_draw, raw_p_away,
		       calibrated, model_version, predicted_at
		FROM predictions
		WHERE fixture_id = $1
		ORDER BY predicted_at DESC
		LIMIT 1
	`

	prediction := &models.Prediction{}
	err := r.db.GetPool().QueryRow(ctx, query, fixtureID).Scan(
		&prediction.ID, &prediction.FixtureID, &prediction.HomeTeam, &prediction.AwayTeam, &prediction.Date,
		&prediction.Probs.Home, &prediction.Probs.Draw, &prediction.Probs.Away,
		&prediction.RawProbs.Home, &prediction.RawProbs.Draw, &prediction.RawProbs.Away,
		&prediction.Calibrated, &prediction.ModelVersion, &prediction.PredictedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}

// GetByModelVersion retrieves recent predictions made by a model version
func (r *PostgresPredictionRepository) GetByModelVersion(ctx context.Context, modelVersion string, limit int) ([]models.Prediction, error) {
	query := `
		SELECT id, fixture_id, home_team, away_team, fixture_date,
		       p_home, p_draw, p_away, raw_p_home, raw_p_draw, raw_p_away,
		       calibrated, model_version, predicted_at
		FROM predictions
		WHERE model_version = $1
		ORDER BY predicted_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, modelVersion, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by model version: %w", err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var prediction models.Prediction
		err := rows.Scan(
			&prediction.ID, &prediction.FixtureID, &prediction.HomeTeam, &prediction.AwayTeam, &prediction.Date,
			&prediction.Probs.Home, &prediction.Probs.Draw, &prediction.Probs.Away,
			&prediction.RawProbs.Home, &prediction.RawProbs.Draw, &prediction.RawProbs.Away,
			&prediction.Calibrated, &prediction.ModelVersion, &prediction.PredictedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, prediction)
	}

	return predictions, rows.Err()
}

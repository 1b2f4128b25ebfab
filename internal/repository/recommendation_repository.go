package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/models"
)

const errScanRecommendation = "failed to scan recommendation: %w"

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) RecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

// ReplaceForDate atomically swaps the value-bet table for one run date. The
// ranking is recomputed wholesale on every pipeline run, so partial updates
// are never meaningful.
func (r *PostgresRecommendationRepository) ReplaceForDate(ctx context.Context, date time.Time, recommendations []models.Recommendation) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		day := date.Truncate(24 * time.Hour)

		_, err := tx.Exec(ctx, "DELETE FROM recommendations WHERE run_date = $1", day)
		if err != nil {
			return fmt.Errorf("failed to clear recommendations: %w", err)
		}

		query := `
			INSERT INTO recommendations (id, run_date, fixture_id, home_team, away_team, fixture_date,
			                             p_home, p_draw, p_away,
			                             odds_home_mean, odds_draw_mean, odds_away_mean,
			                             ev_home, ev_draw, ev_away, best_bet, best_ev, priced)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		`

		for i := range recommendations {
			rec := &recommendations[i]
			_, err := tx.Exec(ctx, query,
				rec.ID, day, rec.FixtureID, rec.HomeTeam, rec.AwayTeam, rec.Date,
				rec.Probs.Home, rec.Probs.Draw, rec.Probs.Away,
				rec.Odds.Home, rec.Odds.Draw, rec.Odds.Away,
				rec.EVHome, rec.EVDraw, rec.EVAway, rec.BestBet, rec.BestEV, rec.Priced,
			)
			if err != nil {
				return fmt.Errorf("failed to insert recommendation for fixture %d: %w", rec.FixtureID, err)
			}
		}
		return nil
	})
}

// GetRanked retrieves the value-bet table for a run date, best edge first
func (r *PostgresRecommendationRepository) GetRanked(ctx context.Context, date time.Time, minEV float64, limit int) ([]models.Recommendation, error) {
	query := `
		SELECT id, fixture_id, home_team, away_team, fixture_date,
		       p_home, p_draw, p_away,
		       odds_home_mean, odds_draw_mean, odds_away_mean,
		       ev_home, ev_draw, ev_away, best_bet, best_ev, priced, created_at
		FROM recommendations
		WHERE run_date = $1 AND best_ev >= $2
		ORDER BY best_ev DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, date.Truncate(24*time.Hour), minEV, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recommendations []models.Recommendation
	for rows.Next() {
		var rec models.Recommendation
		err := rows.Scan(
			&rec.ID, &rec.FixtureID, &rec.HomeTeam, &rec.AwayTeam, &rec.Date,
			&rec.Probs.Home, &rec.Probs.Draw, &rec.Probs.Away,
			&rec.Odds.Home, &rec.Odds.Draw, &rec.Odds.Away,
			&rec.EVHome, &rec.EVDraw, &rec.EVAway, &rec.BestBet, &rec.BestEV, &rec.Priced, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanRecommendation, err)
		}
		recommendations = append(recommendations, rec)
	}

	return recommendations, rows.Err()
}

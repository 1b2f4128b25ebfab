package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/models"
)

const errScanMatch = "failed to scan match: %w"

const matchColumns = `id, fixture_id, match_date, season, home_team, away_team,
	       home_goals, away_goals, odds_home_mean, odds_draw_mean, odds_away_mean,
	       created_at, updated_at`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a new match
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, fixture_id, match_date, season, home_team, away_team,
		                     home_goals, away_goals, odds_home_mean, odds_draw_mean, odds_away_mean)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.FixtureID, match.Date, match.Season, match.HomeTeam, match.AwayTeam,
		match.HomeGoals, match.AwayGoals, match.OddsHome, match.OddsDraw, match.OddsAway,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// CreateBatch inserts matches in a single transaction, skipping duplicates on
// fixture_id.
func (r *PostgresMatchRepository) CreateBatch(ctx context.Context, matches []*models.Match) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO matches (id, fixture_id, match_date, season, home_team, away_team,
			                     home_goals, away_goals, odds_home_mean, odds_draw_mean, odds_away_mean)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (fixture_id) DO NOTHING
		`

		for _, match := range matches {
			_, err := tx.Exec(ctx, query,
				match.ID, match.FixtureID, match.Date, match.Season, match.HomeTeam, match.AwayTeam,
				match.HomeGoals, match.AwayGoals, match.OddsHome, match.OddsDraw, match.OddsAway,
			)
			if err != nil {
				return fmt.Errorf("failed to insert match %d: %w", match.FixtureID, err)
			}
		}
		return nil
	})
}

// GetByFixtureID retrieves a match by its fixture identifier
func (r *PostgresMatchRepository) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Match, error) {
	query := fmt.Sprintf("SELECT %s FROM matches WHERE fixture_id = $1", matchColumns)

	match := &models.Match{}
	err := r.db.GetPool().QueryRow(ctx, query, fixtureID).Scan(
		&match.ID, &match.FixtureID, &match.Date, &match.Season, &match.HomeTeam, &match.AwayTeam,
		&match.HomeGoals, &match.AwayGoals, &match.OddsHome, &match.OddsDraw, &match.OddsAway,
		&match.CreatedAt, &match.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// GetByDateRange retrieves matches within a date range ordered by date
func (r *PostgresMatchRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM matches
		WHERE match_date >= $1 AND match_date <= $2
		ORDER BY match_date ASC
	`, matchColumns)

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by date range: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetAllPlayed retrieves every match with a recorded result, in date order.
// This is the input to rating book and feature table rebuilds.
func (r *PostgresMatchRepository) GetAllPlayed(ctx context.Context) ([]models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM matches
		WHERE home_goals IS NOT NULL AND away_goals IS NOT NULL
		ORDER BY match_date ASC
	`, matchColumns)

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query played matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetBySeason retrieves all matches carrying the given season label
func (r *PostgresMatchRepository) GetBySeason(ctx context.Context, season string) ([]models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM matches
		WHERE season = $1
		ORDER BY match_date ASC
	`, matchColumns)

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by season: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// Update updates the result and odds columns of an existing match
func (r *PostgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET
			home_goals = $2, away_goals = $3,
			odds_home_mean = $4, odds_draw_mean = $5, odds_away_mean = $6,
			updated_at = NOW()
		WHERE fixture_id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		match.FixtureID, match.HomeGoals, match.AwayGoals,
		match.OddsHome, match.OddsDraw, match.OddsAway,
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanMatches(rows pgx.Rows) ([]models.Match, error) {
	var matches []models.Match
	for rows.Next() {
		var match models.Match
		err := rows.Scan(
			&match.ID, &match.FixtureID, &match.Date, &match.Season, &match.HomeTeam, &match.AwayTeam,
			&match.HomeGoals, &match.AwayGoals, &match.OddsHome, &match.OddsDraw, &match.OddsAway,
			&match.CreatedAt, &match.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

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

const errScanFixture = "failed to scan fixture: %w"

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// Upsert inserts or refreshes an upcoming fixture keyed by fixture_id
func (r *PostgresFixtureRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	query := `
		INSERT INTO fixtures (id, fixture_id, fixture_date, home_team, away_team, league,
		                      odds_home_mean, odds_draw_mean, odds_away_mean)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (fixture_id) DO UPDATE SET
			fixture_date = EXCLUDED.fixture_date,
			odds_home_mean = EXCLUDED.odds_home_mean,
			odds_draw_mean = EXCLUDED.odds_draw_mean,
			odds_away_mean = EXCLUDED.odds_away_mean,
			updated_at = NOW()
	`

	var oddsHome, oddsDraw, oddsAway *float64
	if fixture.Odds.Valid() {
		oddsHome, oddsDraw, oddsAway = &fixture.Odds.Home, &fixture.Odds.Draw, &fixture.Odds.Away
	}

	_, err := r.db.GetPool().Exec(ctx, query,
		fixture.ID, fixture.FixtureID, fixture.Date, fixture.HomeTeam, fixture.AwayTeam,
		fixture.League, oddsHome, oddsDraw, oddsAway,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fixture: %w", err)
	}

	return nil
}

// GetByFixtureID retrieves a fixture by its fixture identifier
func (r *PostgresFixtureRepository) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Fixture, error) {
	query := `
		SELECT id, fixture_id, fixture_date, home_team, away_team, league,
		       odds_home_mean, odds_draw_mean, odds_away_mean, created_at, updated_at
		FROM fixtures WHERE fixture_id = $1
	`

	fixture, err := scanFixtureRow(r.db.GetPool().QueryRow(ctx, query, fixtureID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}

	return fixture, nil
}

// GetUpcoming retrieves fixtures scheduled within [from, from+days)
func (r *PostgresFixtureRepository) GetUpcoming(ctx context.Context, from time.Time, days int) ([]models.Fixture, error) {
	query := `
		SELECT id, fixture_id, fixture_date, home_team, away_team, league,
		       odds_home_mean, odds_draw_mean, odds_away_mean, created_at, updated_at
		FROM fixtures
		WHERE fixture_date >= $1 AND fixture_date < $2
		ORDER BY fixture_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []models.Fixture
	for rows.Next() {
		fixture, err := scanFixtureRow(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanFixture, err)
		}
		fixtures = append(fixtures, *fixture)
	}

	return fixtures, rows.Err()
}

// UpdateOdds refreshes the stored market for a fixture
func (r *PostgresFixtureRepository) UpdateOdds(ctx context.Context, fixtureID int64, odds *models.OddsTriple) error {
	query := `
		UPDATE fixtures SET
			odds_home_mean = $2, odds_draw_mean = $3, odds_away_mean = $4, updated_at = NOW()
		WHERE fixture_id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, fixtureID, odds.Home, odds.Draw, odds.Away)
	if err != nil {
		return fmt.Errorf("failed to update fixture odds: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a fixture, typically after its result has been ingested
func (r *PostgresFixtureRepository) Delete(ctx context.Context, fixtureID int64) error {
	commandTag, err := r.db.GetPool().Exec(ctx, "DELETE FROM fixtures WHERE fixture_id = $1", fixtureID)
	if err != nil {
		return fmt.Errorf("failed to delete fixture: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// scanFixtureRow scans one fixture row, folding nullable odds columns into an
// OddsTriple only when all three prices are present.
func scanFixtureRow(row pgx.Row) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	var oddsHome, oddsDraw, oddsAway *float64

	err := row.Scan(
		&fixture.ID, &fixture.FixtureID, &fixture.Date, &fixture.HomeTeam, &fixture.AwayTeam,
		&fixture.League, &oddsHome, &oddsDraw, &oddsAway, &fixture.CreatedAt, &fixture.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if oddsHome != nil && oddsDraw != nil && oddsAway != nil {
		fixture.Odds = &models.OddsTriple{Home: *oddsHome, Draw: *oddsDraw, Away: *oddsAway}
	}

	return fixture, nil
}

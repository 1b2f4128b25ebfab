package models

import (
	"time"

	"github.com/google/uuid"
)

// OddsTriple holds mean bookmaker decimal odds for the three match outcomes.
type OddsTriple struct {
	Home float64 `db:"odds_home_mean" json:"odds_home_mean"`
	Draw float64 `db:"odds_draw_mean" json:"odds_draw_mean"`
	Away float64 `db:"odds_away_mean" json:"odds_away_mean"`
}

// Valid reports whether all three prices are usable decimal odds (> 1.0).
func (o *OddsTriple) Valid() bool {
	return o != nil && o.Home > 1.0 && o.Draw > 1.0 && o.Away > 1.0
}

// Fixture represents an upcoming (or historical, for backfill scoring) match
// to be run through the prediction pipeline.
type Fixture struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	FixtureID int64       `db:"fixture_id" json:"fixture_id" validate:"required"`
	Date      time.Time   `db:"fixture_date" json:"date" validate:"required"`
	HomeTeam  string      `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string      `db:"away_team" json:"away_team" validate:"required"`
	League    string      `db:"league" json:"league"`
	Odds      *OddsTriple `json:"odds"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// HasOdds reports whether the fixture carries a fully priced market.
func (f *Fixture) HasOdds() bool {
	return f.Odds.Valid()
}

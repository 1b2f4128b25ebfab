package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Match result outcomes, in market listing order.
const (
	OutcomeHome = "HOME"
	OutcomeDraw = "DRAW"
	OutcomeAway = "AWAY"
)

// Match represents a single historical football match. Goals are nil until the
// match has been played; unplayed matches are excluded from every aggregate.
type Match struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FixtureID int64     `db:"fixture_id" json:"fixture_id"`
	Date      time.Time `db:"match_date" json:"date" validate:"required"`
	Season    string    `db:"season" json:"season"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	HomeGoals *int      `db:"home_goals" json:"home_goals" validate:"omitempty,gte=0"`
	AwayGoals *int      `db:"away_goals" json:"away_goals" validate:"omitempty,gte=0"`
	OddsHome  *float64  `db:"odds_home_mean" json:"odds_home_mean"`
	OddsDraw  *float64  `db:"odds_draw_mean" json:"odds_draw_mean"`
	OddsAway  *float64  `db:"odds_away_mean" json:"odds_away_mean"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Played reports whether the match has a recorded final score.
func (m *Match) Played() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

// Involves reports whether the given team played in this match.
func (m *Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// GoalsFor returns goals scored and conceded from the perspective of team.
// ok is false when the team did not play or the match is unplayed.
func (m *Match) GoalsFor(team string) (scored, conceded int, ok bool) {
	if !m.Played() || !m.Involves(team) {
		return 0, 0, false
	}
	if m.HomeTeam == team {
		return *m.HomeGoals, *m.AwayGoals, true
	}
	return *m.AwayGoals, *m.HomeGoals, true
}

// Outcome returns the match outcome constant, or "" for an unplayed match.
func (m *Match) Outcome() string {
	if !m.Played() {
		return ""
	}
	switch {
	case *m.HomeGoals > *m.AwayGoals:
		return OutcomeHome
	case *m.HomeGoals == *m.AwayGoals:
		return OutcomeDraw
	default:
		return OutcomeAway
	}
}

// SeasonLabel returns the season label for a calendar date. Seasons span July
// to June: May 2024 belongs to "2023/2024", September 2024 to "2024/2025".
func SeasonLabel(date time.Time) string {
	year := date.Year()
	if int(date.Month()) < 7 {
		return fmt.Sprintf("%d/%d", year-1, year)
	}
	return fmt.Sprintf("%d/%d", year, year+1)
}

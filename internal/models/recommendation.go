package models

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is one row of the ranked value-bet table: expected value per
// outcome plus the arg-max pick, sorted globally by BestEV descending.
type Recommendation struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	FixtureID int64      `db:"fixture_id" json:"fixture_id"`
	HomeTeam  string     `db:"home_team" json:"home_team"`
	AwayTeam  string     `db:"away_team" json:"away_team"`
	Date      time.Time  `db:"fixture_date" json:"date"`
	Probs     ProbTriple `json:"probs"`
	Odds      OddsTriple `json:"odds"`
	EVHome    float64    `db:"ev_home" json:"ev_home"`
	EVDraw    float64    `db:"ev_draw" json:"ev_draw"`
	EVAway    float64    `db:"ev_away" json:"ev_away"`
	BestBet   string     `db:"best_bet" json:"best_bet"`
	BestEV    float64    `db:"best_ev" json:"best_ev"`
	Priced    bool       `db:"priced" json:"priced"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// EV returns the expected value for the given outcome constant.
func (r *Recommendation) EV(outcome string) float64 {
	switch outcome {
	case OutcomeHome:
		return r.EVHome
	case OutcomeDraw:
		return r.EVDraw
	default:
		return r.EVAway
	}
}

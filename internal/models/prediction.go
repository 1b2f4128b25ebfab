package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ProbTriple holds class probabilities for the three match outcomes.
type ProbTriple struct {
	Home float64 `json:"p_home"`
	Draw float64 `json:"p_draw"`
	Away float64 `json:"p_away"`
}

// Sum returns p_home + p_draw + p_away.
func (p ProbTriple) Sum() float64 {
	return p.Home + p.Draw + p.Away
}

// Normalized returns the triple rescaled to sum to 1. A degenerate all-zero
// triple normalizes to the uniform distribution.
func (p ProbTriple) Normalized() ProbTriple {
	s := p.Sum()
	if s <= 0 {
		return ProbTriple{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3}
	}
	return ProbTriple{Home: p.Home / s, Draw: p.Draw / s, Away: p.Away / s}
}

// IsDistribution reports whether the triple is a valid probability
// distribution within the given tolerance.
func (p ProbTriple) IsDistribution(tol float64) bool {
	for _, v := range [3]float64{p.Home, p.Draw, p.Away} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return false
		}
	}
	return math.Abs(p.Sum()-1.0) <= tol
}

// Prediction represents calibrated model output for a single fixture. Raw
// pre-calibration probabilities are retained for audit.
type Prediction struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FixtureID    int64      `db:"fixture_id" json:"fixture_id" validate:"required"`
	HomeTeam     string     `db:"home_team" json:"home_team"`
	AwayTeam     string     `db:"away_team" json:"away_team"`
	Date         time.Time  `db:"fixture_date" json:"date"`
	Probs        ProbTriple `json:"probs"`
	RawProbs     ProbTriple `json:"raw_probs"`
	Calibrated   bool       `db:"calibrated" json:"calibrated"`
	ModelVersion string     `db:"model_version" json:"model_version"`
	PredictedAt  time.Time  `db:"predicted_at" json:"predicted_at"`
}

// Package market converts bookmaker decimal odds into de-vigged implied
// probabilities.
package market

import "github.com/yourusername/pitch-edge/internal/models"

// Uniform is the fallback distribution for unpriced or partially priced
// markets.
var Uniform = models.ProbTriple{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3}

// ImpliedProbs converts a decimal odds triple into overround-corrected
// probabilities summing to 1. Missing, zero or non-positive odds yield the
// uniform fallback; callers must not crash on partially priced fixtures.
func ImpliedProbs(odds *models.OddsTriple) models.ProbTriple {
	if odds == nil || odds.Home <= 0 || odds.Draw <= 0 || odds.Away <= 0 {
		return Uniform
	}

	raw := models.ProbTriple{
		Home: 1.0 / odds.Home,
		Draw: 1.0 / odds.Draw,
		Away: 1.0 / odds.Away,
	}
	overround := raw.Sum()
	if overround <= 0 {
		return Uniform
	}

	return models.ProbTriple{
		Home: raw.Home / overround,
		Draw: raw.Draw / overround,
		Away: raw.Away / overround,
	}
}

// Overround returns the bookmaker margin for a priced market: the sum of raw
// implied probabilities, at least 1.0 for any real book. Returns 0 for an
// unpriced market.
func Overround(odds *models.OddsTriple) float64 {
	if odds == nil || odds.Home <= 0 || odds.Draw <= 0 || odds.Away <= 0 {
		return 0
	}
	return 1.0/odds.Home + 1.0/odds.Draw + 1.0/odds.Away
}

// Package ratings maintains per-team Elo ratings over a chronological match
// history.
package ratings

import "math"

// Rating system constants. HomeAdvantage is added to the home rating inside
// the expectation calculation only; it is never stored.
const (
	DefaultRating = 1500.0
	KFactor       = 25.0
	HomeAdvantage = 80.0
)

// ExpectedScore returns the logistic expected score for a player rated r1
// against a player rated r2.
func ExpectedScore(r1, r2 float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (r2-r1)/400.0))
}

// Update applies a single match result and returns the new ratings for both
// teams. The update is symmetric: each side moves by K times its own surprise.
func Update(ratingHome, ratingAway float64, goalsHome, goalsAway int) (newHome, newAway float64) {
	expHome := ExpectedScore(ratingHome+HomeAdvantage, ratingAway)

	var scoreHome float64
	switch {
	case goalsHome > goalsAway:
		scoreHome = 1.0
	case goalsHome == goalsAway:
		scoreHome = 0.5
	default:
		scoreHome = 0.0
	}

	newHome = ratingHome + KFactor*(scoreHome-expHome)
	newAway = ratingAway + KFactor*((1.0-scoreHome)-(1.0-expHome))
	return newHome, newAway
}

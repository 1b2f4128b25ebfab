package ratings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedScore(t *testing.T) {
	tests := []struct {
		name     string
		r1       float64
		r2       float64
		expected float64
	}{
		{name: "Equal ratings", r1: 1500, r2: 1500, expected: 0.5},
		{name: "400 point favourite", r1: 1900, r2: 1500, expected: 10.0 / 11.0},
		{name: "400 point underdog", r1: 1500, r2: 1900, expected: 1.0 / 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ExpectedScore(tt.r1, tt.r2), 1e-9)
		})
	}
}

func TestExpectedScoreComplementary(t *testing.T) {
	pairs := [][2]float64{{1500, 1500}, {1620, 1480}, {1300, 1750}}
	for _, p := range pairs {
		sum := ExpectedScore(p[0], p[1]) + ExpectedScore(p[1], p[0])
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
}

func TestUpdateHomeWin(t *testing.T) {
	expHome := ExpectedScore(1500+HomeAdvantage, 1500)
	newHome, newAway := Update(1500, 1500, 3, 0)

	assert.InDelta(t, 1500+KFactor*(1-expHome), newHome, 1e-9)
	assert.InDelta(t, 1500-KFactor*(1-expHome), newAway, 1e-9)
	assert.Greater(t, newHome, 1500.0)
	assert.Less(t, newAway, 1500.0)
}

func TestUpdateDraw(t *testing.T) {
	// The home side is expected to win because of the home bonus, so a draw
	// costs it rating points.
	newHome, newAway := Update(1500, 1500, 1, 1)
	assert.Less(t, newHome, 1500.0)
	assert.Greater(t, newAway, 1500.0)
}

func TestUpdateAwayWin(t *testing.T) {
	newHome, newAway := Update(1500, 1500, 0, 2)
	expHome := ExpectedScore(1500+HomeAdvantage, 1500)

	assert.InDelta(t, 1500+KFactor*(0-expHome), newHome, 1e-9)
	assert.Less(t, newHome, 1500.0)
	assert.Greater(t, newAway, 1500.0)
}

func TestUpdateZeroSum(t *testing.T) {
	tests := []struct {
		name       string
		home, away float64
		gh, ga     int
	}{
		{name: "Favourite wins", home: 1700, away: 1450, gh: 2, ga: 0},
		{name: "Underdog wins", home: 1450, away: 1700, gh: 1, ga: 0},
		{name: "Draw", home: 1550, away: 1600, gh: 0, ga: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newHome, newAway := Update(tt.home, tt.away, tt.gh, tt.ga)
			total := newHome + newAway
			assert.InDelta(t, tt.home+tt.away, total, 1e-9, "rating points should be conserved")
		})
	}
}

func TestUpdateBoundedByKFactor(t *testing.T) {
	newHome, _ := Update(1200, 1900, 5, 0)
	assert.LessOrEqual(t, math.Abs(newHome-1200), KFactor)
}

package ml

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestScorerDegradedModePassesRawThrough(t *testing.T) {
	stub := &StubPredictor{
		Schema: []string{"elo_home"},
		Probs:  models.ProbTriple{Home: 0.5, Draw: 0.3, Away: 0.2},
	}
	scorer := NewScorer(stub, nil, testLogger())

	result, err := scorer.Score(models.FeatureVector{"elo_home": 1550})
	require.NoError(t, err)

	assert.False(t, result.CalibratorApplied)
	assert.Equal(t, result.Raw, models.ProbTriple{Home: 0.5, Draw: 0.3, Away: 0.2})
	// In-range probabilities survive smoothing untouched.
	assert.InDelta(t, 0.5, result.Calibrated.Home, 1e-9)
}

func TestScorerInjectsFallbackForMissingColumn(t *testing.T) {
	stub := &StubPredictor{
		Schema:    []string{"elo_home", "odds_home_mean"},
		Fallbacks: map[string]float64{"odds_home_mean": 2.4},
		Probs:     models.ProbTriple{Home: 0.4, Draw: 0.3, Away: 0.3},
	}
	scorer := NewScorer(stub, nil, testLogger())

	_, err := scorer.Score(models.FeatureVector{"elo_home": 1500})
	assert.NoError(t, err)
}

func TestScorerHardFailsWithoutFallback(t *testing.T) {
	stub := &StubPredictor{
		Schema: []string{"elo_home", "mystery_column"},
		Probs:  models.ProbTriple{Home: 0.4, Draw: 0.3, Away: 0.3},
	}
	scorer := NewScorer(stub, nil, testLogger())

	_, err := scorer.Score(models.FeatureVector{"elo_home": 1500})
	assert.ErrorIs(t, err, models.ErrSchemaMismatch)
}

func TestScorerSmoothingClipsDegenerateProbabilities(t *testing.T) {
	stub := &StubPredictor{
		Schema: []string{"elo_home"},
		Probs:  models.ProbTriple{Home: 0.97, Draw: 0.02, Away: 0.01},
	}
	scorer := NewScorer(stub, nil, testLogger())

	result, err := scorer.Score(models.FeatureVector{"elo_home": 1900})
	require.NoError(t, err)

	assert.True(t, result.Calibrated.IsDistribution(1e-9))
	// After clipping to [0.05, 0.85] and renormalizing, no outcome is
	// near-certain or near-impossible.
	assert.LessOrEqual(t, result.Calibrated.Home, 0.9)
	assert.GreaterOrEqual(t, result.Calibrated.Draw, 0.05)
	assert.GreaterOrEqual(t, result.Calibrated.Away, 0.05)
	// Raw output stays untouched for audit.
	assert.InDelta(t, 0.97, result.Raw.Home, 1e-9)
}

func TestScorerAppliesCalibrator(t *testing.T) {
	stub := &StubPredictor{
		Schema: []string{"elo_home"},
		Probs:  models.ProbTriple{Home: 0.6, Draw: 0.25, Away: 0.15},
	}
	cal, err := NewIsotonicCalibrator(
		[]Knot{{X: 0, Y: 0}, {X: 1, Y: 0.5}},
		identityKnots(),
		identityKnots(),
	)
	require.NoError(t, err)

	scorer := NewScorer(stub, cal, testLogger())
	result, err := scorer.Score(models.FeatureVector{"elo_home": 1600})
	require.NoError(t, err)

	assert.True(t, result.CalibratorApplied)
	assert.Less(t, result.Calibrated.Home, result.Raw.Home)
	assert.True(t, result.Calibrated.IsDistribution(1e-9))
}

func TestScorerCustomClipBounds(t *testing.T) {
	stub := &StubPredictor{
		Schema: []string{"elo_home"},
		Probs:  models.ProbTriple{Home: 0.97, Draw: 0.02, Away: 0.01},
	}
	scorer := NewScorer(stub, nil, testLogger()).WithClipBounds(0, 1)

	result, err := scorer.Score(models.FeatureVector{"elo_home": 1900})
	require.NoError(t, err)

	assert.InDelta(t, 0.97, result.Calibrated.Home, 1e-9)
}

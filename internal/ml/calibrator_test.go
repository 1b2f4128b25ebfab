package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/models"
)

func identityKnots() []Knot {
	return []Knot{{X: 0, Y: 0}, {X: 1, Y: 1}}
}

func TestIdentityCalibratorPassesThrough(t *testing.T) {
	cal, err := NewIsotonicCalibrator(identityKnots(), identityKnots(), identityKnots())
	require.NoError(t, err)

	raw := models.ProbTriple{Home: 0.5, Draw: 0.3, Away: 0.2}
	out := cal.Calibrate(raw)

	assert.InDelta(t, raw.Home, out.Home, 1e-9)
	assert.InDelta(t, raw.Draw, out.Draw, 1e-9)
	assert.InDelta(t, raw.Away, out.Away, 1e-9)
}

func TestCalibratorRenormalizes(t *testing.T) {
	// A curve that shrinks overconfident home predictions.
	homeKnots := []Knot{{X: 0, Y: 0}, {X: 0.5, Y: 0.4}, {X: 1, Y: 0.8}}
	cal, err := NewIsotonicCalibrator(homeKnots, identityKnots(), identityKnots())
	require.NoError(t, err)

	out := cal.Calibrate(models.ProbTriple{Home: 0.7, Draw: 0.2, Away: 0.1})

	assert.True(t, out.IsDistribution(1e-9))
	assert.Less(t, out.Home, 0.7)
}

func TestCalibratorClampsOutsideFittedRange(t *testing.T) {
	knots := []Knot{{X: 0.2, Y: 0.25}, {X: 0.8, Y: 0.75}}
	cal, err := NewIsotonicCalibrator(knots, knots, knots)
	require.NoError(t, err)

	out := cal.Calibrate(models.ProbTriple{Home: 0.05, Draw: 0.9, Away: 0.05})

	// Below range clamps to the first knot, above to the last, then the
	// triple renormalizes.
	assert.True(t, out.IsDistribution(1e-9))
	assert.InDelta(t, 0.25/1.25, out.Home, 1e-9)
	assert.InDelta(t, 0.75/1.25, out.Draw, 1e-9)
}

func TestCalibratorInterpolatesBetweenKnots(t *testing.T) {
	knots := []Knot{{X: 0, Y: 0}, {X: 1, Y: 0.5}}
	cal, err := NewIsotonicCalibrator(knots, knots, knots)
	require.NoError(t, err)

	out := cal.Calibrate(models.ProbTriple{Home: 0.4, Draw: 0.4, Away: 0.2})

	// All classes halve, so renormalization restores the original ratios.
	assert.InDelta(t, 0.4, out.Home, 1e-9)
	assert.InDelta(t, 0.4, out.Draw, 1e-9)
	assert.InDelta(t, 0.2, out.Away, 1e-9)
}

func TestNewIsotonicCalibratorValidation(t *testing.T) {
	_, err := NewIsotonicCalibrator([]Knot{{X: 0, Y: 0}}, identityKnots(), identityKnots())
	assert.ErrorIs(t, err, ErrArtifactInvalid)

	decreasing := []Knot{{X: 0, Y: 0.8}, {X: 1, Y: 0.2}}
	_, err = NewIsotonicCalibrator(decreasing, identityKnots(), identityKnots())
	assert.ErrorIs(t, err, ErrArtifactInvalid)
}

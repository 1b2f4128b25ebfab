package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/models"
)

func testArtifact(t *testing.T) *Artifact {
	t.Helper()
	a, err := newArtifact(&artifactPayload{
		Version:  "test-v1",
		Features: []string{"elo_home", "elo_away"},
		Medians:  map[string]float64{"elo_home": 1500, "elo_away": 1500},
		Means:    map[string]float64{"elo_home": 1500, "elo_away": 1500},
		Scales:   map[string]float64{"elo_home": 100, "elo_away": 100},
		Intercepts: []float64{0, 0, 0},
		Weights: []map[string]float64{
			{"elo_home": 1.0, "elo_away": -1.0},
			{},
			{"elo_home": -1.0, "elo_away": 1.0},
		},
	})
	require.NoError(t, err)
	return a
}

func TestArtifactSchema(t *testing.T) {
	a := testArtifact(t)

	assert.Equal(t, "test-v1", a.Version())
	assert.Equal(t, []string{"elo_home", "elo_away"}, a.FeatureColumns())

	median, ok := a.Fallback("elo_home")
	assert.True(t, ok)
	assert.Equal(t, 1500.0, median)

	_, ok = a.Fallback("unknown_column")
	assert.False(t, ok)
}

func TestPredictProbaUniformAtNeutralInput(t *testing.T) {
	a := testArtifact(t)

	probs, err := a.PredictProba(models.FeatureVector{"elo_home": 1500, "elo_away": 1500})
	require.NoError(t, err)

	assert.True(t, probs.IsDistribution(1e-9))
	assert.InDelta(t, 1.0/3, probs.Home, 1e-9)
	assert.InDelta(t, 1.0/3, probs.Draw, 1e-9)
	assert.InDelta(t, 1.0/3, probs.Away, 1e-9)
}

func TestPredictProbaFavoursStrongerSide(t *testing.T) {
	a := testArtifact(t)

	probs, err := a.PredictProba(models.FeatureVector{"elo_home": 1700, "elo_away": 1400})
	require.NoError(t, err)

	assert.True(t, probs.IsDistribution(1e-9))
	assert.Greater(t, probs.Home, probs.Away)
	assert.Greater(t, probs.Home, probs.Draw)
}

func TestPredictProbaRejectsMissingColumn(t *testing.T) {
	a := testArtifact(t)

	_, err := a.PredictProba(models.FeatureVector{"elo_home": 1500})
	assert.ErrorIs(t, err, models.ErrSchemaMismatch)
}

func TestLoadArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	payload := `{
		"version": "2024.10",
		"feature_cols": ["elo_home"],
		"medians": {"elo_home": 1500},
		"scaler_means": {"elo_home": 1500},
		"scaler_scales": {"elo_home": 120},
		"intercepts": [0.1, 0.0, -0.1],
		"weights": [{"elo_home": 0.8}, {"elo_home": 0.0}, {"elo_home": -0.8}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	a, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, "2024.10", a.Version())

	probs, err := a.PredictProba(models.FeatureVector{"elo_home": 1620})
	require.NoError(t, err)
	assert.True(t, probs.IsDistribution(1e-9))
}

func TestLoadArtifactErrors(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = LoadArtifact(path)
	assert.ErrorIs(t, err, ErrArtifactInvalid)
}

func TestNewArtifactValidation(t *testing.T) {
	_, err := newArtifact(&artifactPayload{})
	assert.ErrorIs(t, err, ErrEmptySchema)

	_, err = newArtifact(&artifactPayload{
		Features:   []string{"elo_home"},
		Intercepts: []float64{0},
		Weights:    []map[string]float64{{}},
	})
	assert.ErrorIs(t, err, ErrArtifactInvalid)
}

package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/ml"
	"github.com/yourusername/pitch-edge/internal/models"
)

func TestRebuildFeatures(t *testing.T) {
	now := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	stub := &ml.StubPredictor{
		Schema: []string{"elo_home", "elo_away", "home_points_avg_last_5"},
		Probs:  models.ProbTriple{Home: 0.5, Draw: 0.3, Away: 0.2},
	}
	f := newPipelineFixture(t, stub)
	seedHistory(t, f.matchRepo, now)

	var buf bytes.Buffer
	written, skipped, err := f.svc.RebuildFeatures(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 4, written)
	assert.Equal(t, 0, skipped)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	header := records[0]
	assert.Equal(t, "fixture_id", header[0])
	assert.Contains(t, header, "elo_home")
	assert.Equal(t, "outcome", header[len(header)-1])

	// First row is the oldest match: both teams still at the default rating
	first := records[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "1500", first[5])
	assert.Equal(t, models.OutcomeHome, first[len(first)-1])
}

func TestRebuildFeaturesSkipsSchemaGaps(t *testing.T) {
	now := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	stub := &ml.StubPredictor{
		Schema: []string{"elo_home", "nonexistent_column"},
		Probs:  models.ProbTriple{Home: 0.5, Draw: 0.3, Away: 0.2},
	}
	f := newPipelineFixture(t, stub)
	seedHistory(t, f.matchRepo, now)

	var buf bytes.Buffer
	written, skipped, err := f.svc.RebuildFeatures(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
	assert.Equal(t, 4, skipped)
}

package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pitch-edge/internal/models"
)

func TestSeasonLabelBoundary(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{name: "June belongs to previous season", date: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), expected: "2023/2024"},
		{name: "July starts the new season", date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), expected: "2024/2025"},
		{name: "January is mid-season", date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), expected: "2024/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.SeasonLabel(tt.date))
		})
	}
}

func TestSeasonEmptyReturnsNeutralDefaults(t *testing.T) {
	stats := Season(nil, "team a", day(1))

	assert.Equal(t, 0, stats.Matches)
	assert.InDelta(t, NeutralRate, stats.WinRate, 1e-9)
	assert.InDelta(t, NeutralRate, stats.DrawRate, 1e-9)
	assert.InDelta(t, NeutralRate, stats.LossRate, 1e-9)
	assert.InDelta(t, NeutralGoalsPerGame, stats.GoalsForAvg, 1e-9)
	assert.InDelta(t, NeutralGoalsPerGame, stats.GoalsAgainstAvg, 1e-9)
}

func TestSeasonAggregates(t *testing.T) {
	history := []models.Match{
		played(day(1), "team a", "team b", 2, 0), // W
		played(day(8), "team c", "team a", 1, 1), // D
		played(day(15), "team a", "team d", 0, 1), // L
		played(day(22), "team a", "team e", 3, 1), // W
	}

	stats := Season(history, "team a", day(30))

	assert.Equal(t, 4, stats.Matches)
	assert.InDelta(t, 0.5, stats.WinRate, 1e-9)
	assert.InDelta(t, 0.25, stats.DrawRate, 1e-9)
	assert.InDelta(t, 0.25, stats.LossRate, 1e-9)
	assert.InDelta(t, 1.5, stats.GoalsForAvg, 1e-9)
	assert.InDelta(t, 0.75, stats.GoalsAgainstAvg, 1e-9)
}

func TestSeasonExcludesOtherSeasons(t *testing.T) {
	lastSeason := played(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "team a", "team b", 4, 0)
	thisSeason := played(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), "team a", "team c", 1, 0)

	stats := Season([]models.Match{lastSeason, thisSeason}, "team a", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, stats.Matches)
	assert.InDelta(t, 1.0, stats.GoalsForAvg, 1e-9)
}

func TestSeasonPrefersIngestedLabel(t *testing.T) {
	// A match dated in August but explicitly labelled with the prior season
	// (e.g. a rescheduled tie) follows its label.
	m := played(time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC), "team a", "team b", 2, 2)
	m.Season = "2023/2024"

	stats := Season([]models.Match{m}, "team a", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 0, stats.Matches)
	assert.InDelta(t, NeutralRate, stats.WinRate, 1e-9)
}

func TestSeasonExcludesAsOfBoundary(t *testing.T) {
	boundary := day(5)
	history := []models.Match{played(boundary, "team a", "team b", 1, 0)}

	stats := Season(history, "team a", boundary)

	assert.Equal(t, 0, stats.Matches)
}

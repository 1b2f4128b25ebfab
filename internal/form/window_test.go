package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pitch-edge/internal/models"
)

func day(n int) time.Time {
	return time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n-1)
}

func played(date time.Time, home, away string, hg, ag int) models.Match {
	return models.Match{
		Date:      date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: &hg,
		AwayGoals: &ag,
	}
}

func TestLastNEmptyWindowReturnsNeutralDefault(t *testing.T) {
	stats := LastN(nil, "team a", day(10), 5)

	assert.Equal(t, 0, stats.Matches)
	assert.Zero(t, stats.GoalsForAvg)
	assert.Zero(t, stats.GoalsAgainstAvg)
	assert.Zero(t, stats.PointsAvg)
	assert.Zero(t, stats.BothScoredRate)
	assert.Zero(t, stats.OverRate)
}

func TestLastNBasicAggregates(t *testing.T) {
	history := []models.Match{
		played(day(1), "team a", "team b", 2, 1), // W, btts, over
		played(day(2), "team c", "team a", 0, 0), // D
		played(day(3), "team a", "team d", 1, 3), // L, btts, over
	}

	stats := LastN(history, "team a", day(10), 5)

	assert.Equal(t, 3, stats.Matches)
	assert.InDelta(t, 1.0, stats.GoalsForAvg, 1e-9)      // (2+0+1)/3
	assert.InDelta(t, 4.0/3.0, stats.GoalsAgainstAvg, 1e-9)
	assert.InDelta(t, 4.0/3.0, stats.PointsAvg, 1e-9)    // (3+1+0)/3
	assert.InDelta(t, 2.0/3.0, stats.BothScoredRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, stats.OverRate, 1e-9)
}

func TestLastNExcludesAsOfDateAndLater(t *testing.T) {
	history := []models.Match{
		played(day(1), "team a", "team b", 1, 0),
		played(day(5), "team a", "team c", 0, 4), // on the boundary
		played(day(6), "team a", "team d", 0, 4), // after
	}

	stats := LastN(history, "team a", day(5), 10)

	assert.Equal(t, 1, stats.Matches)
	assert.InDelta(t, 1.0, stats.GoalsForAvg, 1e-9)
	assert.InDelta(t, 0.0, stats.GoalsAgainstAvg, 1e-9)
}

func TestLastNKeepsMostRecentMatches(t *testing.T) {
	history := []models.Match{
		played(day(1), "team a", "team b", 5, 0),
		played(day(2), "team a", "team c", 0, 1),
		played(day(3), "team a", "team d", 0, 1),
	}

	stats := LastN(history, "team a", day(10), 2)

	assert.Equal(t, 2, stats.Matches)
	// The day-1 rout falls outside the window of 2.
	assert.InDelta(t, 0.0, stats.GoalsForAvg, 1e-9)
	assert.InDelta(t, 0.0, stats.PointsAvg, 1e-9)
}

func TestLastNIgnoresUnplayedAndOtherTeams(t *testing.T) {
	history := []models.Match{
		played(day(1), "team b", "team c", 3, 3),
		{Date: day(2), HomeTeam: "team a", AwayTeam: "team b"},
		played(day(3), "team a", "team c", 2, 0),
	}

	stats := LastN(history, "team a", day(10), 5)

	assert.Equal(t, 1, stats.Matches)
	assert.InDelta(t, 2.0, stats.GoalsForAvg, 1e-9)
}

func TestLastNUnsortedHistory(t *testing.T) {
	history := []models.Match{
		played(day(3), "team a", "team d", 0, 1),
		played(day(1), "team a", "team b", 5, 0),
		played(day(2), "team a", "team c", 0, 1),
	}

	stats := LastN(history, "team a", day(10), 2)

	assert.Equal(t, 2, stats.Matches)
	assert.InDelta(t, 0.0, stats.GoalsForAvg, 1e-9, "window must keep the two most recent by date")
}

func TestLastNAwayPerspective(t *testing.T) {
	history := []models.Match{
		played(day(1), "team b", "team a", 1, 2), // away win for team a
	}

	stats := LastN(history, "team a", day(2), 5)

	assert.InDelta(t, 2.0, stats.GoalsForAvg, 1e-9)
	assert.InDelta(t, 1.0, stats.GoalsAgainstAvg, 1e-9)
	assert.InDelta(t, 3.0, stats.PointsAvg, 1e-9)
}

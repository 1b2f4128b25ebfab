// Package form computes trailing-window and seasonal statistics for a team as
// of a given date. Every computation is strictly causal: a match dated on or
// after the as-of date is never read.
package form

import (
	"sort"
	"time"

	"github.com/yourusername/pitch-edge/internal/models"
)

// OverGoalsThreshold is the combined-goals line for the over rate; 3 goals or
// more corresponds to the bookmaker over-2.5 market.
const OverGoalsThreshold = 3

// WindowStats holds trailing-window aggregates for a single team.
type WindowStats struct {
	Matches         int
	GoalsForAvg     float64
	GoalsAgainstAvg float64
	PointsAvg       float64
	BothScoredRate  float64
	OverRate        float64
}

// LastN computes stats over the most recent n played matches involving team
// with date strictly before asOf. Fewer qualifying matches shrink the window;
// an empty window returns the zero-valued neutral default rather than failing.
func LastN(history []models.Match, team string, asOf time.Time, n int) WindowStats {
	window := lastMatches(history, team, asOf, n)
	if len(window) == 0 {
		return WindowStats{}
	}

	var goalsFor, goalsAgainst, points, bothScored, over int
	for i := range window {
		scored, conceded, ok := window[i].GoalsFor(team)
		if !ok {
			continue
		}
		goalsFor += scored
		goalsAgainst += conceded

		switch {
		case scored > conceded:
			points += 3
		case scored == conceded:
			points += 1
		}
		if scored > 0 && conceded > 0 {
			bothScored++
		}
		if scored+conceded >= OverGoalsThreshold {
			over++
		}
	}

	count := float64(len(window))
	return WindowStats{
		Matches:         len(window),
		GoalsForAvg:     float64(goalsFor) / count,
		GoalsAgainstAvg: float64(goalsAgainst) / count,
		PointsAvg:       float64(points) / count,
		BothScoredRate:  float64(bothScored) / count,
		OverRate:        float64(over) / count,
	}
}

// lastMatches returns up to n played matches involving team dated strictly
// before asOf, most recent last. History is scanned in full so callers do not
// have to pre-sort; ties on the boundary date are excluded by the strict
// comparison.
func lastMatches(history []models.Match, team string, asOf time.Time, n int) []models.Match {
	var qualifying []models.Match
	for i := range history {
		m := history[i]
		if !m.Played() || !m.Involves(team) || !m.Date.Before(asOf) {
			continue
		}
		qualifying = append(qualifying, m)
	}
	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].Date.Before(qualifying[j].Date)
	})
	if n > 0 && len(qualifying) > n {
		qualifying = qualifying[len(qualifying)-n:]
	}
	return qualifying
}

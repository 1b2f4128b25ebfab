package form

import (
	"time"

	"github.com/yourusername/pitch-edge/internal/models"
)

// Neutral defaults returned when a team has no prior match in the season.
// Values follow the historical training pipeline rather than zeros so that a
// promoted or newly seen team scores as an average side, not a goalless one.
const (
	NeutralRate         = 1.0 / 3.0
	NeutralGoalsPerGame = 1.2
)

// SeasonStats holds per-season aggregates for a single team.
type SeasonStats struct {
	Matches         int
	WinRate         float64
	DrawRate        float64
	LossRate        float64
	GoalsForAvg     float64
	GoalsAgainstAvg float64
}

// Season computes stats over all played matches involving team within the
// season inferred from asOf, restricted to dates strictly before asOf.
func Season(history []models.Match, team string, asOf time.Time) SeasonStats {
	season := models.SeasonLabel(asOf)

	var wins, draws, losses, goalsFor, goalsAgainst, count int
	for i := range history {
		m := history[i]
		if !m.Played() || !m.Involves(team) || !m.Date.Before(asOf) {
			continue
		}
		if matchSeason(&m) != season {
			continue
		}

		scored, conceded, ok := m.GoalsFor(team)
		if !ok {
			continue
		}
		count++
		goalsFor += scored
		goalsAgainst += conceded
		switch {
		case scored > conceded:
			wins++
		case scored == conceded:
			draws++
		default:
			losses++
		}
	}

	if count == 0 {
		return SeasonStats{
			WinRate:         NeutralRate,
			DrawRate:        NeutralRate,
			LossRate:        NeutralRate,
			GoalsForAvg:     NeutralGoalsPerGame,
			GoalsAgainstAvg: NeutralGoalsPerGame,
		}
	}

	total := float64(count)
	return SeasonStats{
		Matches:         count,
		WinRate:         float64(wins) / total,
		DrawRate:        float64(draws) / total,
		LossRate:        float64(losses) / total,
		GoalsForAvg:     float64(goalsFor) / total,
		GoalsAgainstAvg: float64(goalsAgainst) / total,
	}
}

// matchSeason prefers the ingested season label and falls back to deriving it
// from the match date.
func matchSeason(m *models.Match) string {
	if m.Season != "" {
		return m.Season
	}
	return models.SeasonLabel(m.Date)
}

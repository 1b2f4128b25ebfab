package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/models"
)

// DataValidator validates match and fixture data before it reaches storage
// or the aggregation layers.
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateMatch validates a single match record for required fields and
// constraints. Returns a list of human-readable problems; empty means valid.
func (v *DataValidator) ValidateMatch(match *models.Match) []string {
	var errors []string

	if match.HomeTeam == "" {
		errors = append(errors, "home_team is required")
	}

	if match.AwayTeam == "" {
		errors = append(errors, "away_team is required")
	}

	if match.HomeTeam != "" && match.HomeTeam == match.AwayTeam {
		errors = append(errors, fmt.Sprintf("home and away team are both %q", match.HomeTeam))
	}

	if match.Date.IsZero() {
		errors = append(errors, "match_date is required")
	}

	if match.HomeGoals != nil && *match.HomeGoals < 0 {
		errors = append(errors, fmt.Sprintf("home_goals cannot be negative, got %d", *match.HomeGoals))
	}

	if match.AwayGoals != nil && *match.AwayGoals < 0 {
		errors = append(errors, fmt.Sprintf("away_goals cannot be negative, got %d", *match.AwayGoals))
	}

	// A half-recorded result is worse than none
	if (match.HomeGoals == nil) != (match.AwayGoals == nil) {
		errors = append(errors, "goals must be recorded for both sides or neither")
	}

	for _, odds := range []struct {
		name  string
		value *float64
	}{
		{name: "odds_home_mean", value: match.OddsHome},
		{name: "odds_draw_mean", value: match.OddsDraw},
		{name: "odds_away_mean", value: match.OddsAway},
	} {
		if odds.value != nil && *odds.value <= 1.0 {
			errors = append(errors, fmt.Sprintf("%s must exceed 1.0, got %v", odds.name, *odds.value))
		}
	}

	return errors
}

// ValidateFixture validates an upcoming fixture record
func (v *DataValidator) ValidateFixture(fixture *models.Fixture) []string {
	var errors []string

	if fixture.FixtureID == 0 {
		errors = append(errors, "fixture_id is required")
	}

	if fixture.HomeTeam == "" {
		errors = append(errors, "home_team is required")
	}

	if fixture.AwayTeam == "" {
		errors = append(errors, "away_team is required")
	}

	if fixture.HomeTeam != "" && fixture.HomeTeam == fixture.AwayTeam {
		errors = append(errors, fmt.Sprintf("home and away team are both %q", fixture.HomeTeam))
	}

	if fixture.Date.IsZero() {
		errors = append(errors, "fixture date is required")
	}

	if fixture.Odds != nil && !fixture.Odds.Valid() {
		errors = append(errors, "odds present but not a fully priced market")
	}

	return errors
}

// ValidateHistory checks a batch of matches for ordering preconditions the
// aggregation layers rely on. A team appearing in two matches on the same
// calendar day has no defined chronological order, so the batch is rejected.
func (v *DataValidator) ValidateHistory(matches []models.Match) error {
	type teamDay struct {
		team string
		day  time.Time
	}

	seen := make(map[teamDay]int64, len(matches)*2)
	for i := range matches {
		m := &matches[i]
		day := time.Date(m.Date.Year(), m.Date.Month(), m.Date.Day(), 0, 0, 0, 0, time.UTC)

		for _, team := range []string{m.HomeTeam, m.AwayTeam} {
			key := teamDay{team: team, day: day}
			if otherFixture, dup := seen[key]; dup {
				return fmt.Errorf("%w: team %q appears twice on %s (fixtures %d and %d)",
					models.ErrInvalidHistory, team, day.Format("2006-01-02"), otherFixture, m.FixtureID)
			}
			seen[key] = m.FixtureID
		}
	}

	return nil
}

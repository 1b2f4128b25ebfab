// Package features assembles model feature vectors for fixtures from the
// rating book, trailing-form windows, seasonal stats and market odds.
package features

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/form"
	"github.com/yourusername/pitch-edge/internal/market"
	"github.com/yourusername/pitch-edge/internal/models"
	"github.com/yourusername/pitch-edge/internal/ratings"
)

// Model is the slice of the predictor contract the assembler needs: the
// declared column schema and the per-column fallback defaults.
type Model interface {
	FeatureColumns() []string
	Fallback(column string) (float64, bool)
}

// Assembler produces one feature vector per fixture, conforming exactly to
// the model schema. Missing inputs are substituted with the model fallbacks;
// a column that can neither be computed nor defaulted is a hard error.
type Assembler struct {
	model  Model
	logger *logrus.Logger
}

// NewAssembler creates a feature assembler bound to a model schema.
func NewAssembler(model Model, logger *logrus.Logger) *Assembler {
	return &Assembler{model: model, logger: logger}
}

// Columns returns the model schema the assembler targets.
func (a *Assembler) Columns() []string {
	return a.model.FeatureColumns()
}

// Assemble builds the feature vector for a fixture. Only matches dated
// strictly before the fixture date are consulted: the history is filtered up
// front so no downstream computation can violate causality, and the rating
// book is queried as of the fixture date.
func (a *Assembler) Assemble(fixture *models.Fixture, history []models.Match, book *ratings.Book) (models.FeatureVector, error) {
	past := make([]models.Match, 0, len(history))
	for i := range history {
		if history[i].Date.Before(fixture.Date) {
			past = append(past, history[i])
		}
	}

	inputs := a.computeInputs(fixture, past, book)

	vector := make(models.FeatureVector, len(a.model.FeatureColumns()))
	for _, col := range a.model.FeatureColumns() {
		value, ok := inputs[col]
		if !ok {
			value, ok = a.model.Fallback(col)
			if !ok {
				return nil, fmt.Errorf("%w: column %q for fixture %d", models.ErrSchemaMismatch, col, fixture.FixtureID)
			}
			a.logger.WithFields(logrus.Fields{
				"fixture_id": fixture.FixtureID,
				"column":     col,
			}).Debug("Feature not computable, using training median")
		}
		vector[col] = value
	}
	return vector, nil
}

// computeInputs evaluates every feature the pipeline knows how to derive.
// Columns the model schema does not declare are simply never read.
func (a *Assembler) computeInputs(fixture *models.Fixture, past []models.Match, book *ratings.Book) map[string]float64 {
	inputs := map[string]float64{
		"elo_home": book.Rating(fixture.HomeTeam, fixture.Date),
		"elo_away": book.Rating(fixture.AwayTeam, fixture.Date),
	}

	for _, side := range []struct {
		prefix string
		team   string
	}{
		{prefix: "home", team: fixture.HomeTeam},
		{prefix: "away", team: fixture.AwayTeam},
	} {
		for _, n := range []int{5, 10} {
			window := form.LastN(past, side.team, fixture.Date, n)
			inputs[fmt.Sprintf("%s_gf_avg_last_%d", side.prefix, n)] = window.GoalsForAvg
			inputs[fmt.Sprintf("%s_ga_avg_last_%d", side.prefix, n)] = window.GoalsAgainstAvg
			inputs[fmt.Sprintf("%s_points_avg_last_%d", side.prefix, n)] = window.PointsAvg
			inputs[fmt.Sprintf("%s_btts_rate_last_%d", side.prefix, n)] = window.BothScoredRate
			inputs[fmt.Sprintf("%s_over25_rate_last_%d", side.prefix, n)] = window.OverRate
		}

		season := form.Season(past, side.team, fixture.Date)
		inputs[side.prefix+"_winrate_season"] = season.WinRate
		inputs[side.prefix+"_drawrate_season"] = season.DrawRate
		inputs[side.prefix+"_lossrate_season"] = season.LossRate
		inputs[side.prefix+"_goals_for_avg_season"] = season.GoalsForAvg
		inputs[side.prefix+"_goals_against_avg_season"] = season.GoalsAgainstAvg
	}

	// Market columns only exist when the fixture is fully priced; otherwise
	// they fall through to the model fallbacks.
	if fixture.HasOdds() {
		inputs["odds_home_mean"] = fixture.Odds.Home
		inputs["odds_draw_mean"] = fixture.Odds.Draw
		inputs["odds_away_mean"] = fixture.Odds.Away

		probs := market.ImpliedProbs(fixture.Odds)
		inputs["p_home_market"] = probs.Home
		inputs["p_draw_market"] = probs.Draw
		inputs["p_away_market"] = probs.Away
		inputs["overround"] = market.Overround(fixture.Odds)
	}

	return inputs
}

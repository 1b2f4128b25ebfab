// Package valuebets combines calibrated probabilities with market odds into a
// ranked list of positive expected-value opportunities.
package valuebets

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/models"
)

// minProbForNeutralOdds floors probabilities when synthesizing neutral odds
// so an extreme prediction cannot produce absurd prices.
const minProbForNeutralOdds = 0.01

// Ranker turns predictions plus market odds into the recommendation table.
type Ranker struct {
	logger *logrus.Logger
}

// NewRanker creates a value-bet ranker.
func NewRanker(logger *logrus.Logger) *Ranker {
	return &Ranker{logger: logger}
}

// Rank computes per-outcome expected values for every prediction, picks the
// best outcome per fixture, and returns the rows sorted descending by BestEV.
// odds maps fixture ID to its priced market; fixtures without an entry (or
// with an unusable one) get synthesized neutral odds so they still appear,
// with a defined-but-uninformative EV of zero. The sort is stable, so the
// output is total: one row per prediction, ties kept in input order.
func (r *Ranker) Rank(predictions []models.Prediction, odds map[int64]*models.OddsTriple) []models.Recommendation {
	recommendations := make([]models.Recommendation, 0, len(predictions))
	for i := range predictions {
		recommendations = append(recommendations, r.evaluate(&predictions[i], odds[predictions[i].FixtureID]))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].BestEV > recommendations[j].BestEV
	})
	return recommendations
}

// evaluate builds one recommendation row. No minimum-EV filter is applied
// here; thresholding is a display concern.
func (r *Ranker) evaluate(p *models.Prediction, market *models.OddsTriple) models.Recommendation {
	priced := market.Valid()
	var oddsTriple models.OddsTriple
	if priced {
		oddsTriple = *market
	} else {
		oddsTriple = neutralOdds(p.Probs)
		r.logger.WithField("fixture_id", p.FixtureID).Debug("No market odds, synthesizing neutral prices")
	}

	rec := models.Recommendation{
		ID:        uuid.New(),
		FixtureID: p.FixtureID,
		HomeTeam:  p.HomeTeam,
		AwayTeam:  p.AwayTeam,
		Date:      p.Date,
		Probs:     p.Probs,
		Odds:      oddsTriple,
		EVHome:    p.Probs.Home*oddsTriple.Home - 1,
		EVDraw:    p.Probs.Draw*oddsTriple.Draw - 1,
		EVAway:    p.Probs.Away*oddsTriple.Away - 1,
		Priced:    priced,
		CreatedAt: time.Now(),
	}

	// Arg-max with ties broken in home, draw, away listing order.
	rec.BestBet, rec.BestEV = models.OutcomeHome, rec.EVHome
	if rec.EVDraw > rec.BestEV {
		rec.BestBet, rec.BestEV = models.OutcomeDraw, rec.EVDraw
	}
	if rec.EVAway > rec.BestEV {
		rec.BestBet, rec.BestEV = models.OutcomeAway, rec.EVAway
	}
	return rec
}

// neutralOdds synthesizes fair odds from the model's own probabilities,
// making every outcome's EV collapse to zero. Fully unpriced fixtures thus
// stay visible but never outrank a genuinely positive edge.
func neutralOdds(p models.ProbTriple) models.OddsTriple {
	clip := func(v float64) float64 {
		if v < minProbForNeutralOdds {
			return minProbForNeutralOdds
		}
		return v
	}
	return models.OddsTriple{
		Home: 1.0 / clip(p.Home),
		Draw: 1.0 / clip(p.Draw),
		Away: 1.0 / clip(p.Away),
	}
}

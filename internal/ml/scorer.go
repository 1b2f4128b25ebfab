package ml

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/models"
)

// Probability clipping bounds applied after calibration. Near-certain outputs
// produce unstable expected values downstream, so probabilities are smoothed
// into this interval and renormalized.
const (
	DefaultClipLow  = 0.05
	DefaultClipHigh = 0.85
)

// ScoreResult holds raw and calibrated probabilities for one fixture.
type ScoreResult struct {
	Raw        models.ProbTriple
	Calibrated models.ProbTriple
	// CalibratorApplied is false in degraded mode (no calibrator available),
	// in which the raw probabilities pass through unchanged.
	CalibratorApplied bool
}

// Scorer validates feature vectors against the model schema, scores them, and
// applies calibration plus probability smoothing.
type Scorer struct {
	predictor  Predictor
	calibrator Calibrator
	clipLow    float64
	clipHigh   float64
	logger     *logrus.Logger
}

// NewScorer creates a scoring adapter. calibrator may be nil; scoring then
// runs in degraded pass-through mode rather than failing.
func NewScorer(predictor Predictor, calibrator Calibrator, logger *logrus.Logger) *Scorer {
	return &Scorer{
		predictor:  predictor,
		calibrator: calibrator,
		clipLow:    DefaultClipLow,
		clipHigh:   DefaultClipHigh,
		logger:     logger,
	}
}

// WithClipBounds overrides the smoothing interval. Setting (0, 1) disables
// clipping.
func (s *Scorer) WithClipBounds(low, high float64) *Scorer {
	s.clipLow = low
	s.clipHigh = high
	return s
}

// ModelVersion exposes the underlying artifact version.
func (s *Scorer) ModelVersion() string {
	return s.predictor.Version()
}

// Score validates and scores a single feature vector. Columns missing from
// the vector are re-defaulted from the model fallbacks (upstream assembly
// should already have done this); a column with no fallback is a hard schema
// error for this fixture.
func (s *Scorer) Score(features models.FeatureVector) (ScoreResult, error) {
	start := time.Now()
	defer func() {
		ScoreLatency.Observe(time.Since(start).Seconds())
	}()

	vec := features.Clone()
	for _, col := range vec.MissingColumns(s.predictor.FeatureColumns()) {
		fallback, ok := s.predictor.Fallback(col)
		if !ok {
			SchemaFailuresTotal.Inc()
			return ScoreResult{}, fmt.Errorf("%w: column %q", models.ErrSchemaMismatch, col)
		}
		s.logger.WithField("column", col).Debug("Substituting model fallback for missing feature")
		vec[col] = fallback
	}

	raw, err := s.predictor.PredictProba(vec)
	if err != nil {
		return ScoreResult{}, err
	}

	result := ScoreResult{Raw: raw, Calibrated: raw}
	if s.calibrator != nil {
		result.Calibrated = s.calibrator.Calibrate(raw)
		result.CalibratorApplied = true
	}
	result.Calibrated = s.smooth(result.Calibrated)

	PredictionsTotal.WithLabelValues(s.predictor.Version()).Inc()
	return result, nil
}

// smooth clips each probability into [clipLow, clipHigh] and renormalizes.
func (s *Scorer) smooth(p models.ProbTriple) models.ProbTriple {
	clip := func(v float64) float64 {
		if v < s.clipLow {
			return s.clipLow
		}
		if v > s.clipHigh {
			return s.clipHigh
		}
		return v
	}
	clipped := models.ProbTriple{Home: clip(p.Home), Draw: clip(p.Draw), Away: clip(p.Away)}
	return clipped.Normalized()
}

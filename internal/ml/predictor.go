// Package ml adapts an externally trained probability model to the pipeline.
// The model is a black box: an ordered feature schema, per-column fallback
// values, and a predict-proba operation over {home, draw, away}.
package ml

import "github.com/yourusername/pitch-edge/internal/models"

// Predictor is the capability contract for a trained outcome model.
type Predictor interface {
	// Version identifies the model artifact.
	Version() string

	// FeatureColumns returns the ordered feature schema the model expects.
	FeatureColumns() []string

	// Fallback returns the substitution value for a feature column that
	// cannot be computed, typically the training-set median. ok is false when
	// the artifact carries no fallback for the column.
	Fallback(column string) (value float64, ok bool)

	// PredictProba scores one feature vector into class probabilities.
	PredictProba(features models.FeatureVector) (models.ProbTriple, error)
}

// Calibrator remaps raw model probabilities onto observed frequencies. The
// remapping is monotone per class and renormalized afterwards.
type Calibrator interface {
	Calibrate(raw models.ProbTriple) models.ProbTriple
}

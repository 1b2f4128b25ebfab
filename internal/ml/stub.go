package ml

import "github.com/yourusername/pitch-edge/internal/models"

// StubPredictor is a canned-response Predictor for exercising the pipeline
// without a trained artifact.
type StubPredictor struct {
	Schema    []string
	Fallbacks map[string]float64
	Probs     models.ProbTriple
	Err       error
}

// Version identifies the stub.
func (s *StubPredictor) Version() string {
	return "stub"
}

// FeatureColumns returns the stubbed schema.
func (s *StubPredictor) FeatureColumns() []string {
	return s.Schema
}

// Fallback returns the stubbed per-column default.
func (s *StubPredictor) Fallback(column string) (float64, bool) {
	v, ok := s.Fallbacks[column]
	return v, ok
}

// PredictProba returns the canned probabilities or error.
func (s *StubPredictor) PredictProba(features models.FeatureVector) (models.ProbTriple, error) {
	if s.Err != nil {
		return models.ProbTriple{}, s.Err
	}
	return s.Probs, nil
}

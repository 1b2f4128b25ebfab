package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/yourusername/pitch-edge/internal/models"
)

// artifactPayload is the on-disk JSON layout of an exported model bundle:
// feature schema, training medians, standardizer moments and one linear head
// per outcome class. The trainer exports this bundle; this package only
// consumes it.
type artifactPayload struct {
	Version    string             `json:"version"`
	Features   []string           `json:"feature_cols"`
	Medians    map[string]float64 `json:"medians"`
	Means      map[string]float64 `json:"scaler_means"`
	Scales     map[string]float64 `json:"scaler_scales"`
	Intercepts []float64          `json:"intercepts"`
	Weights    []map[string]float64 `json:"weights"`
}

// Artifact is a serialized probability model: standardized features through a
// per-class linear head and a softmax. Implements Predictor.
type Artifact struct {
	version    string
	features   []string
	medians    map[string]float64
	means      map[string]float64
	scales     map[string]float64
	intercepts [3]float64
	weights    [3]map[string]float64
}

// LoadArtifact reads and validates a model bundle from disk.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var payload artifactPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactInvalid, err)
	}

	return newArtifact(&payload)
}

func newArtifact(payload *artifactPayload) (*Artifact, error) {
	if len(payload.Features) == 0 {
		return nil, ErrEmptySchema
	}
	if len(payload.Intercepts) != 3 || len(payload.Weights) != 3 {
		return nil, fmt.Errorf("%w: expected 3 class heads, got %d intercepts and %d weight maps",
			ErrArtifactInvalid, len(payload.Intercepts), len(payload.Weights))
	}

	a := &Artifact{
		version:  payload.Version,
		features: payload.Features,
		medians:  payload.Medians,
		means:    payload.Means,
		scales:   payload.Scales,
	}
	if a.version == "" {
		a.version = "unversioned"
	}
	if a.medians == nil {
		a.medians = map[string]float64{}
	}
	copy(a.intercepts[:], payload.Intercepts)
	copy(a.weights[:], payload.Weights)
	return a, nil
}

// Version identifies the model artifact.
func (a *Artifact) Version() string {
	return a.version
}

// FeatureColumns returns the ordered feature schema the model expects.
func (a *Artifact) FeatureColumns() []string {
	return a.features
}

// Fallback returns the training-set median for a column.
func (a *Artifact) Fallback(column string) (float64, bool) {
	v, ok := a.medians[column]
	return v, ok
}

// PredictProba scores one feature vector: standardize, apply the three linear
// heads, softmax. Every schema column must be present; callers run the
// feature vector through the scoring adapter first.
func (a *Artifact) PredictProba(features models.FeatureVector) (models.ProbTriple, error) {
	if missing := features.MissingColumns(a.features); len(missing) > 0 {
		return models.ProbTriple{}, fmt.Errorf("%w: missing columns %v", models.ErrSchemaMismatch, missing)
	}

	var logits [3]float64
	for class := 0; class < 3; class++ {
		logits[class] = a.intercepts[class]
		for _, col := range a.features {
			logits[class] += a.weights[class][col] * a.standardize(col, features[col])
		}
	}

	probs := softmax(logits)
	triple := models.ProbTriple{Home: probs[0], Draw: probs[1], Away: probs[2]}
	if !triple.IsDistribution(1e-6) {
		return models.ProbTriple{}, fmt.Errorf("%w: %+v", ErrInvalidProbabilities, triple)
	}
	return triple, nil
}

func (a *Artifact) standardize(col string, value float64) float64 {
	scale, ok := a.scales[col]
	if !ok || scale == 0 {
		return value - a.means[col]
	}
	return (value - a.means[col]) / scale
}

// softmax with max-subtraction so large logits do not overflow.
func softmax(logits [3]float64) [3]float64 {
	max := logits[0]
	for _, l := range logits[1:] {
		if l > max {
			max = l
		}
	}

	var sum float64
	var out [3]float64
	for i, l := range logits {
		out[i] = math.Exp(l - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Package ml adapts an externally trained probability model to the pipeline.
package ml

import "errors"

var (
	// ErrArtifactInvalid indicates the serialized model bundle is malformed
	ErrArtifactInvalid = errors.New("model artifact invalid")

	// ErrEmptySchema indicates the artifact declares no feature columns
	ErrEmptySchema = errors.New("model artifact declares no feature columns")

	// ErrInvalidProbabilities indicates the model produced a non-distribution
	ErrInvalidProbabilities = errors.New("model produced invalid probabilities")
)

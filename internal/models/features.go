package models

import "math"

// FeatureVector maps model feature columns to scalar values. After fallback
// substitution every column in the model schema is present and numeric.
type FeatureVector map[string]float64

// Clone returns a copy of the vector.
func (fv FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	return out
}

// MissingColumns returns schema columns that are absent or non-finite, in
// schema order.
func (fv FeatureVector) MissingColumns(schema []string) []string {
	var missing []string
	for _, col := range schema {
		v, ok := fv[col]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			missing = append(missing, col)
		}
	}
	return missing
}

package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/yourusername/pitch-edge/internal/models"
)

// Knot is one point of a fitted isotonic mapping.
type Knot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsotonicCalibrator applies a per-class monotone piecewise-linear remapping
// fit offline against observed outcome frequencies, then renormalizes the
// triple to sum to 1.
type IsotonicCalibrator struct {
	home []Knot
	draw []Knot
	away []Knot
}

type calibratorPayload struct {
	Home []Knot `json:"home"`
	Draw []Knot `json:"draw"`
	Away []Knot `json:"away"`
}

// LoadCalibrator reads a fitted calibration transform from disk.
func LoadCalibrator(path string) (*IsotonicCalibrator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibrator: %w", err)
	}

	var payload calibratorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactInvalid, err)
	}

	return NewIsotonicCalibrator(payload.Home, payload.Draw, payload.Away)
}

// NewIsotonicCalibrator builds a calibrator from per-class knot lists. Each
// list must hold at least two knots with non-decreasing x and y.
func NewIsotonicCalibrator(home, draw, away []Knot) (*IsotonicCalibrator, error) {
	for _, knots := range [][]Knot{home, draw, away} {
		if err := validateKnots(knots); err != nil {
			return nil, err
		}
	}
	return &IsotonicCalibrator{home: home, draw: draw, away: away}, nil
}

func validateKnots(knots []Knot) error {
	if len(knots) < 2 {
		return fmt.Errorf("%w: calibration class needs at least 2 knots, got %d", ErrArtifactInvalid, len(knots))
	}
	for i := 1; i < len(knots); i++ {
		if knots[i].X < knots[i-1].X || knots[i].Y < knots[i-1].Y {
			return fmt.Errorf("%w: calibration knots must be monotone non-decreasing", ErrArtifactInvalid)
		}
	}
	return nil
}

// Calibrate remaps each class probability through its fitted curve and
// renormalizes the result.
func (c *IsotonicCalibrator) Calibrate(raw models.ProbTriple) models.ProbTriple {
	mapped := models.ProbTriple{
		Home: interpolate(c.home, raw.Home),
		Draw: interpolate(c.draw, raw.Draw),
		Away: interpolate(c.away, raw.Away),
	}
	return mapped.Normalized()
}

// interpolate evaluates the piecewise-linear curve at x, clamping outside the
// fitted range.
func interpolate(knots []Knot, x float64) float64 {
	if x <= knots[0].X {
		return knots[0].Y
	}
	last := knots[len(knots)-1]
	if x >= last.X {
		return last.Y
	}

	idx := sort.Search(len(knots), func(i int) bool { return knots[i].X >= x })
	lo, hi := knots[idx-1], knots[idx]
	if hi.X == lo.X {
		return lo.Y
	}
	t := (x - lo.X) / (hi.X - lo.X)
	return lo.Y + t*(hi.Y-lo.Y)
}

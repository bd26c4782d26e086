package risk

import "fmt"

// KellySizer converts realized trade statistics into a fractional-Kelly
// leverage factor: kellyFraction * expectancy / variance, applied uniformly
// to every bar from one fixed aggregate per run. Negative raw Kelly (negative
// expectancy) clamps to 0, never to a short-flipping multiplier.
type KellySizer struct {
	fraction float64
}

// NewKellySizer creates a fractional-Kelly stage.
func NewKellySizer(fraction float64) *KellySizer {
	return &KellySizer{fraction: fraction}
}

// Name implements Stage.
func (s *KellySizer) Name() string { return "kelly" }

// Apply multiplies every bar by the fractional-Kelly factor. Absent
// statistics or zero variance fail the run; the caller may recover by
// disabling the Kelly stage.
func (s *KellySizer) Apply(in *Inputs, size []float64) ([]float64, error) {
	if in.Stats == nil {
		return nil, fmt.Errorf("%w: kelly sizing enabled without trade statistics",
			ErrInsufficientStatistics)
	}
	if in.Stats.Variance <= 0 {
		return nil, fmt.Errorf("%w: trade return variance must be > 0, got %v",
			ErrInsufficientStatistics, in.Stats.Variance)
	}

	k := s.fraction * in.Stats.Expectancy / in.Stats.Variance
	if k < 0 {
		k = 0
	}

	out := make([]float64, len(size))
	for t := range size {
		out[t] = size[t] * k
	}
	return out, nil
}

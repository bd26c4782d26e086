package risk

// Smoother applies a trailing moving average over the capped series to
// suppress bar-to-bar whipsaw. It runs strictly after capping, so smoothed
// values stay within bounds: a mean of values in [min, max] is in [min, max].
type Smoother struct {
	window int
}

// NewSmoother creates the smoothing stage. A window of 1 is a pass-through.
func NewSmoother(window int) *Smoother {
	return &Smoother{window: window}
}

// Name implements Stage.
func (s *Smoother) Name() string { return "smooth" }

// Apply computes the trailing mean of the last window bars at each bar. The
// first window-1 bars average over what exists so far, keeping the output
// aligned and inside the capped bounds from bar zero.
func (s *Smoother) Apply(in *Inputs, size []float64) ([]float64, error) {
	out := make([]float64, len(size))
	if s.window == 1 {
		copy(out, size)
		return out, nil
	}

	sum := 0.0
	for t, v := range size {
		sum += v
		if t >= s.window {
			sum -= size[t-s.window]
		}
		count := t + 1
		if count > s.window {
			count = s.window
		}
		out[t] = sum / float64(count)
	}
	return out, nil
}

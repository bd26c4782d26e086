package risk

// RiskCapper clips the composed size into the configured hard bounds. It is
// the final safety net and runs on every pipeline regardless of which
// upstream stages are enabled.
type RiskCapper struct {
	min float64
	max float64
}

// NewRiskCapper creates the capping stage. min <= max was already checked at
// configuration validation.
func NewRiskCapper(min, max float64) *RiskCapper {
	return &RiskCapper{min: min, max: max}
}

// Name implements Stage.
func (s *RiskCapper) Name() string { return "cap" }

// Apply clamps every bar to [min, max].
func (s *RiskCapper) Apply(in *Inputs, size []float64) ([]float64, error) {
	out := make([]float64, len(size))
	for t, v := range size {
		switch {
		case v < s.min:
			out[t] = s.min
		case v > s.max:
			out[t] = s.max
		default:
			out[t] = v
		}
	}
	return out, nil
}

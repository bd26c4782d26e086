package risk

// CycleScaler converts continuous cycle features into an amplification or
// damping factor: (1 + amplitude*ampMult) * (1 + score*scoreMult). The
// amplitude term is >= 1 for non-negative amplitude and amplifies conviction
// when cycle strength is high; a negative score pulls the factor below 1 in
// an unfavorable phase.
type CycleScaler struct {
	ampMult   float64
	scoreMult float64
}

// NewCycleScaler creates a cycle-strength stage.
func NewCycleScaler(ampMult, scoreMult float64) *CycleScaler {
	return &CycleScaler{ampMult: ampMult, scoreMult: scoreMult}
}

// Name implements Stage.
func (s *CycleScaler) Name() string { return "cycle" }

// Apply scales each bar by the combined amplitude and score terms.
func (s *CycleScaler) Apply(in *Inputs, size []float64) ([]float64, error) {
	out := make([]float64, len(size))
	for t := range size {
		factor := (1 + in.Cycle.Amplitude[t]*s.ampMult) * (1 + in.Cycle.Score[t]*s.scoreMult)
		out[t] = size[t] * factor
	}
	return out, nil
}

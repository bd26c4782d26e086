package risk

// VolatilityScaler converts a rolling realized-volatility estimate into an
// inverse-vol size factor: target_vol / vol[t]. Higher volatility compresses
// size, lower volatility expands it; the capper bounds the result later.
type VolatilityScaler struct {
	targetVol float64
}

// NewVolatilityScaler creates an inverse-vol targeting stage.
func NewVolatilityScaler(targetVol float64) *VolatilityScaler {
	return &VolatilityScaler{targetVol: targetVol}
}

// Name implements Stage.
func (s *VolatilityScaler) Name() string { return "volatility" }

// Apply scales each bar by target_vol / vol[t]. Bars where the estimate is
// undefined (warm-up) or non-positive keep the neutral factor 1.0.
func (s *VolatilityScaler) Apply(in *Inputs, size []float64) ([]float64, error) {
	out := make([]float64, len(size))
	for t := range size {
		factor := 1.0
		if in.Volatility.Known(t) && in.Volatility.Values[t] > 0 {
			factor = s.targetVol / in.Volatility.Values[t]
		}
		out[t] = size[t] * factor
	}
	return out, nil
}

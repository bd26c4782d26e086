package risk

import (
	"fmt"

	"github.com/atlas-desktop/risk-engine/internal/regime"
)

// RegimeMultiplier converts the three discrete regime labels of each bar into
// one combined factor: the product of the per-dimension lookups. Stacking is
// multiplicative so independent dimensions compound and a single adverse
// dimension can still suppress the whole product toward zero.
type RegimeMultiplier struct {
	table regime.MultiplierTable
}

// NewRegimeMultiplier creates a regime-context stage over a validated table.
func NewRegimeMultiplier(table regime.MultiplierTable) *RegimeMultiplier {
	return &RegimeMultiplier{table: table}
}

// Name implements Stage.
func (s *RegimeMultiplier) Name() string { return "regime" }

// Apply multiplies each bar by the stacked regime factor. A label absent from
// the table fails the whole run: defaulting silently would mis-size risk.
func (s *RegimeMultiplier) Apply(in *Inputs, size []float64) ([]float64, error) {
	out := make([]float64, len(size))
	for t := range size {
		mVol, ok := s.table.Volatility[in.Regimes.Volatility[t]]
		if !ok {
			return nil, fmt.Errorf("%w: volatility regime %q at bar %d",
				ErrUnknownRegimeLabel, in.Regimes.Volatility[t], t)
		}
		mTrend, ok := s.table.Trend[in.Regimes.Trend[t]]
		if !ok {
			return nil, fmt.Errorf("%w: trend regime %q at bar %d",
				ErrUnknownRegimeLabel, in.Regimes.Trend[t], t)
		}
		mCycle, ok := s.table.CyclePhase[in.Regimes.CyclePhase[t]]
		if !ok {
			return nil, fmt.Errorf("%w: cycle phase %q at bar %d",
				ErrUnknownRegimeLabel, in.Regimes.CyclePhase[t], t)
		}
		out[t] = size[t] * mVol * mTrend * mCycle
	}
	return out, nil
}

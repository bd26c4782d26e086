package risk

import (
	"github.com/atlas-desktop/risk-engine/internal/regime"
	"github.com/atlas-desktop/risk-engine/pkg/types"
)

// Inputs carries the series a pipeline run operates on. Prices are always
// required; the others are only required when the stage that consumes them
// is enabled. All supplied series must be aligned 1:1 with Prices.
type Inputs struct {
	Prices     *types.PriceSeries
	Volatility *types.VolatilityEstimate
	Regimes    *regime.Labels
	Cycle      *types.CycleFeatures
	Stats      *types.TradeStatistics
}

// Stage transforms a size series into a new one. Stages are pure: they never
// modify the slice they receive and hold no state across runs.
type Stage interface {
	// Name identifies the stage in results and logs.
	Name() string

	// Apply returns the transformed size series. len(size) always equals
	// in.Prices.Len(); the pipeline has already checked alignment.
	Apply(in *Inputs, size []float64) ([]float64, error)
}

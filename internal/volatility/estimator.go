// Package volatility produces rolling realized-volatility estimates from a
// price series. Normally the data layer supplies the estimate; this producer
// exists so API callers can send prices alone.
package volatility

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/atlas-desktop/risk-engine/pkg/types"
)

// Estimator computes the rolling sample standard deviation of simple returns
// over a fixed lookback, in one O(n) sweep with incremental sums.
type Estimator struct {
	logger   *zap.Logger
	lookback int
}

// NewEstimator creates an estimator with the given lookback in bars.
func NewEstimator(logger *zap.Logger, lookback int) (*Estimator, error) {
	if lookback < 2 {
		return nil, fmt.Errorf("volatility lookback must be >= 2, got %d", lookback)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{logger: logger, lookback: lookback}, nil
}

// Estimate returns a volatility series aligned 1:1 with prices. Warm-up bars
// hold NaN: the estimate at bar t needs lookback returns, and the first
// return only exists at bar 1, so bars 0..lookback-1 are undefined.
func (e *Estimator) Estimate(prices *types.PriceSeries) *types.VolatilityEstimate {
	n := prices.Len()
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	if n < 2 {
		return &types.VolatilityEstimate{Values: values}
	}

	floats := prices.Floats()
	returns := make([]float64, n) // returns[0] unused
	for t := 1; t < n; t++ {
		if floats[t-1] != 0 {
			returns[t] = floats[t]/floats[t-1] - 1
		}
	}

	var sum, sumSq float64
	for t := 1; t < n; t++ {
		sum += returns[t]
		sumSq += returns[t] * returns[t]
		if t > e.lookback {
			old := returns[t-e.lookback]
			sum -= old
			sumSq -= old * old
		}
		if t >= e.lookback {
			count := float64(e.lookback)
			mean := sum / count
			variance := (sumSq - count*mean*mean) / (count - 1)
			if variance < 0 {
				variance = 0 // float cancellation near-zero
			}
			values[t] = math.Sqrt(variance)
		}
	}

	e.logger.Debug("volatility estimated",
		zap.Int("bars", n),
		zap.Int("lookback", e.lookback),
	)

	return &types.VolatilityEstimate{Values: values}
}

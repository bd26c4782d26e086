// Package types provides the shared data types for the risk engine.
package types

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a single observation in a price series.
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

// PriceSeries is an ordered sequence of price observations with strictly
// increasing timestamps and no gaps. Ordering and minimum-history checks are
// the data layer's responsibility; the engine only verifies that the other
// series it receives are aligned to this one.
type PriceSeries struct {
	Symbol string       `json:"symbol,omitempty"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of bars in the series.
func (ps *PriceSeries) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.Points)
}

// Times returns the timestamps of all bars.
func (ps *PriceSeries) Times() []time.Time {
	out := make([]time.Time, len(ps.Points))
	for i, p := range ps.Points {
		out[i] = p.Timestamp
	}
	return out
}

// Floats returns the prices converted to float64 for numerical work.
func (ps *PriceSeries) Floats() []float64 {
	out := make([]float64, len(ps.Points))
	for i, p := range ps.Points {
		f, _ := p.Price.Float64()
		out[i] = f
	}
	return out
}

// VolatilityEstimate is a rolling realized-volatility series aligned 1:1 with
// a PriceSeries. Bars where the estimate is undefined (warm-up) hold NaN.
type VolatilityEstimate struct {
	Values []float64 `json:"values"`
}

// Len returns the number of bars in the estimate.
func (ve *VolatilityEstimate) Len() int {
	if ve == nil {
		return 0
	}
	return len(ve.Values)
}

// Known reports whether the estimate at bar i is defined.
func (ve *VolatilityEstimate) Known(i int) bool {
	return !math.IsNaN(ve.Values[i])
}

// CycleFeatures holds the two continuous cycle-model outputs aligned to a
// PriceSeries: amplitude (non-negative, typically [0,1]) and directional
// score (signed, typically [-1,1]).
type CycleFeatures struct {
	Amplitude []float64 `json:"amplitude"`
	Score     []float64 `json:"score"`
}

// TradeStatistics is the aggregate of realized trade outcomes consumed by
// Kelly sizing. It is not time-aligned: one aggregate covers a whole run.
type TradeStatistics struct {
	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"`
	PayoffRatio float64 `json:"payoff_ratio"`
	Expectancy  float64 `json:"expectancy"`
	Variance    float64 `json:"variance"`
}

// PositionSizeSeries is the engine's output: one size multiplier per bar,
// aligned to the input PriceSeries. The caller multiplies it against notional
// exposure; the engine assumes nothing about currency or contract size.
type PositionSizeSeries struct {
	Timestamps []time.Time `json:"timestamps"`
	Values     []float64   `json:"values"`
}

// Len returns the number of bars in the series.
func (s *PositionSizeSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// Package stats aggregates realized trade outcomes into the statistics
// consumed by Kelly sizing.
package stats

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/atlas-desktop/risk-engine/pkg/types"
)

// Aggregate computes trade statistics from a list of per-trade returns.
// Returns above zero count as wins. Variance is the sample variance of the
// returns; with fewer than two trades it stays zero, which Kelly sizing
// rejects as insufficient.
func Aggregate(returns []float64) *types.TradeStatistics {
	agg := &types.TradeStatistics{TotalTrades: len(returns)}
	if len(returns) == 0 {
		return agg
	}

	var sumWins, sumLosses, sum float64
	for _, r := range returns {
		sum += r
		if r > 0 {
			agg.Wins++
			sumWins += r
		} else {
			agg.Losses++
			sumLosses += math.Abs(r)
		}
	}

	agg.WinRate = float64(agg.Wins) / float64(agg.TotalTrades)
	if agg.Wins > 0 {
		agg.AvgWin = sumWins / float64(agg.Wins)
	}
	if agg.Losses > 0 {
		agg.AvgLoss = sumLosses / float64(agg.Losses)
	}
	if agg.AvgLoss > 0 {
		agg.PayoffRatio = agg.AvgWin / agg.AvgLoss
	}
	agg.Expectancy = agg.WinRate*agg.AvgWin - (1-agg.WinRate)*agg.AvgLoss

	if len(returns) > 1 {
		mean := sum / float64(len(returns))
		var variance float64
		for _, r := range returns {
			diff := r - mean
			variance += diff * diff
		}
		agg.Variance = variance / float64(len(returns)-1)
	}

	return agg
}

// Tracker accumulates trade returns across runs, trimmed to a lookback
// count. Safe for concurrent use.
type Tracker struct {
	logger   *zap.Logger
	lookback int

	mu      sync.RWMutex
	returns []float64
}

// NewTracker creates a tracker that keeps the last lookback trade returns.
func NewTracker(logger *zap.Logger, lookback int) *Tracker {
	if lookback <= 0 {
		lookback = 100
	}
	return &Tracker{
		logger:   logger,
		lookback: lookback,
		returns:  make([]float64, 0, lookback*2),
	}
}

// Record adds one realized trade return.
func (tr *Tracker) Record(ret float64) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.returns = append(tr.returns, ret)
	if len(tr.returns) > tr.lookback*2 {
		tr.returns = tr.returns[len(tr.returns)-tr.lookback:]
	}
}

// Count returns the number of retained trade returns.
func (tr *Tracker) Count() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.returns)
}

// Statistics aggregates the retained returns.
func (tr *Tracker) Statistics() *types.TradeStatistics {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return Aggregate(tr.returns)
}

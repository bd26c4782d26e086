package risk_test

import (
	"errors"
	"math"
	"testing"

	"github.com/atlas-desktop/risk-engine/internal/risk"
	"github.com/atlas-desktop/risk-engine/pkg/types"
)

func TestKellySizerFractionalLeverage(t *testing.T) {
	stage := risk.NewKellySizer(0.25)

	in := &risk.Inputs{
		Prices: testPrices(4),
		Stats:  &types.TradeStatistics{Expectancy: 0.02, Variance: 0.01},
	}

	out, err := stage.Apply(in, ones(4))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// 0.25 * 0.02 / 0.01 = 0.5
	for i, v := range out {
		if math.Abs(v-0.5) > 1e-9 {
			t.Errorf("Bar %d: expected 0.5, got %v", i, v)
		}
	}
}

func TestKellySizerClampsNegativeExpectancy(t *testing.T) {
	stage := risk.NewKellySizer(0.25)

	in := &risk.Inputs{
		Prices: testPrices(3),
		Stats:  &types.TradeStatistics{Expectancy: -0.01, Variance: 0.01},
	}

	out, err := stage.Apply(in, ones(3))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	for i, v := range out {
		if v != 0 {
			t.Errorf("Bar %d: expected 0 for negative expectancy, got %v", i, v)
		}
	}
}

func TestKellySizerRequiresStatistics(t *testing.T) {
	stage := risk.NewKellySizer(0.25)

	_, err := stage.Apply(&risk.Inputs{Prices: testPrices(3)}, ones(3))
	if !errors.Is(err, risk.ErrInsufficientStatistics) {
		t.Fatalf("Expected ErrInsufficientStatistics for absent stats, got %v", err)
	}

	in := &risk.Inputs{
		Prices: testPrices(3),
		Stats:  &types.TradeStatistics{Expectancy: 0.02, Variance: 0},
	}
	_, err = stage.Apply(in, ones(3))
	if !errors.Is(err, risk.ErrInsufficientStatistics) {
		t.Fatalf("Expected ErrInsufficientStatistics for zero variance, got %v", err)
	}
}

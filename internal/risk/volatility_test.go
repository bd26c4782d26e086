package risk_test

import (
	"math"
	"testing"

	"github.com/atlas-desktop/risk-engine/internal/risk"
	"github.com/atlas-desktop/risk-engine/pkg/types"
)

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1.0
	}
	return out
}

func TestVolatilityScalerFactors(t *testing.T) {
	scaler := risk.NewVolatilityScaler(0.02)

	in := &risk.Inputs{
		Prices:     testPrices(3),
		Volatility: &types.VolatilityEstimate{Values: []float64{0.04, 0.01, 0.02}},
	}

	out, err := scaler.Apply(in, ones(3))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []float64{0.5, 2.0, 1.0}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("Bar %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestVolatilityScalerNeutralOnUndefined(t *testing.T) {
	scaler := risk.NewVolatilityScaler(0.02)

	in := &risk.Inputs{
		Prices:     testPrices(3),
		Volatility: &types.VolatilityEstimate{Values: []float64{math.NaN(), 0, 0.04}},
	}

	out, err := scaler.Apply(in, ones(3))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// NaN and non-positive estimates keep the neutral factor
	if out[0] != 1.0 {
		t.Errorf("Expected neutral 1.0 for NaN vol, got %v", out[0])
	}
	if out[1] != 1.0 {
		t.Errorf("Expected neutral 1.0 for zero vol, got %v", out[1])
	}
	if math.Abs(out[2]-0.5) > 1e-9 {
		t.Errorf("Expected 0.5, got %v", out[2])
	}
}

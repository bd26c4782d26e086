package risk_test

import (
	"math"
	"testing"

	"github.com/atlas-desktop/risk-engine/internal/risk"
	"github.com/atlas-desktop/risk-engine/pkg/types"
)

func TestCycleScalerFactors(t *testing.T) {
	stage := risk.NewCycleScaler(0.5, 0.5)

	in := &risk.Inputs{
		Prices: testPrices(3),
		Cycle: &types.CycleFeatures{
			Amplitude: []float64{0.0, 1.0, 0.5},
			Score:     []float64{0.0, 1.0, -1.0},
		},
	}

	out, err := stage.Apply(in, ones(3))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []float64{
		1.0,                 // flat features are neutral
		(1 + 0.5) * (1 + 0.5),
		(1 + 0.25) * (1 - 0.5), // negative score damps below the amplitude gain
	}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("Bar %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

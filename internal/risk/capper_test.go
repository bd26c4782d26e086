package risk_test

import (
	"testing"

	"github.com/atlas-desktop/risk-engine/internal/risk"
)

func TestRiskCapperClips(t *testing.T) {
	stage := risk.NewRiskCapper(0.0, 5.0)

	in := &risk.Inputs{Prices: testPrices(4)}
	out, err := stage.Apply(in, []float64{12.3, -0.4, 2.5, 5.0})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []float64{5.0, 0.0, 2.5, 5.0}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Bar %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

package risk_test

import (
	"errors"
	"math"
	"testing"

	"github.com/atlas-desktop/risk-engine/internal/regime"
	"github.com/atlas-desktop/risk-engine/internal/risk"
)

func TestRegimeMultiplierStacksDimensions(t *testing.T) {
	table := regime.MultiplierTable{
		Volatility: map[regime.VolLabel]float64{regime.VolNormal: 1.0},
		Trend:      map[regime.TrendLabel]float64{regime.TrendUp: 1.2},
		CyclePhase: map[regime.CycleLabel]float64{regime.CycleRising: 1.3},
	}
	stage := risk.NewRegimeMultiplier(table)

	in := &risk.Inputs{
		Prices:  testPrices(1),
		Regimes: constLabels(1, regime.VolNormal, regime.TrendUp, regime.CycleRising),
	}

	out, err := stage.Apply(in, ones(1))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// 1.0 * 1.2 * 1.3
	if math.Abs(out[0]-1.56) > 1e-9 {
		t.Errorf("Expected combined factor 1.56, got %v", out[0])
	}
}

func TestRegimeMultiplierProductIsOrderIndependent(t *testing.T) {
	table := regime.DefaultMultiplierTable()
	stage := risk.NewRegimeMultiplier(table)

	in := &risk.Inputs{
		Prices:  testPrices(1),
		Regimes: constLabels(1, regime.VolHigh, regime.TrendDown, regime.CycleBottom),
	}

	out, err := stage.Apply(in, ones(1))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// product of three positive scalars in any grouping
	want := table.CyclePhase[regime.CycleBottom] * (table.Trend[regime.TrendDown] * table.Volatility[regime.VolHigh])
	if math.Abs(out[0]-want) > 1e-12 {
		t.Errorf("Expected %v, got %v", want, out[0])
	}
}

func TestRegimeMultiplierRejectsUnknownLabel(t *testing.T) {
	table := regime.MultiplierTable{
		Volatility: map[regime.VolLabel]float64{regime.VolNormal: 1.0},
		Trend:      map[regime.TrendLabel]float64{regime.TrendUp: 1.2},
		CyclePhase: map[regime.CycleLabel]float64{regime.CycleRising: 1.3},
	}
	stage := risk.NewRegimeMultiplier(table)

	// VolHigh is a valid label but absent from this table: must fail, never
	// default to a silent 1.0
	in := &risk.Inputs{
		Prices:  testPrices(1),
		Regimes: constLabels(1, regime.VolHigh, regime.TrendUp, regime.CycleRising),
	}

	_, err := stage.Apply(in, ones(1))
	if !errors.Is(err, risk.ErrUnknownRegimeLabel) {
		t.Fatalf("Expected ErrUnknownRegimeLabel, got %v", err)
	}
}

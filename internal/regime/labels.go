// Package regime defines the closed regime-label enumerations consumed by
// the sizing pipeline and the per-label multiplier tables configured for them.
// The regime classification model that produces labels lives upstream; this
// package only gives its output a typed boundary.
package regime

import "fmt"

// VolLabel classifies realized volatility conditions.
type VolLabel string

const (
	VolLow    VolLabel = "low_vol"
	VolNormal VolLabel = "normal_vol"
	VolHigh   VolLabel = "high_vol"
)

// TrendLabel classifies directional market conditions.
type TrendLabel string

const (
	TrendUp       TrendLabel = "trend_up"
	TrendDown     TrendLabel = "trend_down"
	TrendSideways TrendLabel = "sideways"
)

// CycleLabel classifies the phase of a detected price cycle.
type CycleLabel string

const (
	CycleRising  CycleLabel = "cycle_rising"
	CycleFalling CycleLabel = "cycle_falling"
	CycleTop     CycleLabel = "cycle_top"
	CycleBottom  CycleLabel = "cycle_bottom"
)

// ParseVolLabel validates a loosely-typed string arriving at the boundary.
func ParseVolLabel(s string) (VolLabel, error) {
	switch l := VolLabel(s); l {
	case VolLow, VolNormal, VolHigh:
		return l, nil
	}
	return "", fmt.Errorf("invalid volatility regime label %q", s)
}

// ParseTrendLabel validates a loosely-typed string arriving at the boundary.
func ParseTrendLabel(s string) (TrendLabel, error) {
	switch l := TrendLabel(s); l {
	case TrendUp, TrendDown, TrendSideways:
		return l, nil
	}
	return "", fmt.Errorf("invalid trend regime label %q", s)
}

// ParseCycleLabel validates a loosely-typed string arriving at the boundary.
func ParseCycleLabel(s string) (CycleLabel, error) {
	switch l := CycleLabel(s); l {
	case CycleRising, CycleFalling, CycleTop, CycleBottom:
		return l, nil
	}
	return "", fmt.Errorf("invalid cycle phase label %q", s)
}

// Labels holds the three parallel label sequences aligned to a PriceSeries.
type Labels struct {
	Volatility []VolLabel   `json:"volatility"`
	Trend      []TrendLabel `json:"trend"`
	CyclePhase []CycleLabel `json:"cycle_phase"`
}

// Len returns the common length of the three sequences, or -1 when they
// disagree.
func (l *Labels) Len() int {
	if l == nil {
		return 0
	}
	n := len(l.Volatility)
	if len(l.Trend) != n || len(l.CyclePhase) != n {
		return -1
	}
	return n
}

// MultiplierTable maps each regime label to a positive size multiplier, one
// map per dimension. Labels absent from a map are treated as unknown by the
// pipeline, never defaulted.
type MultiplierTable struct {
	Volatility map[VolLabel]float64   `json:"volatility" mapstructure:"volatility"`
	Trend      map[TrendLabel]float64 `json:"trend" mapstructure:"trend"`
	CyclePhase map[CycleLabel]float64 `json:"cycle_phase" mapstructure:"cycle_phase"`
}

// Validate checks that every configured multiplier is positive.
func (t *MultiplierTable) Validate() error {
	for label, m := range t.Volatility {
		if m <= 0 {
			return fmt.Errorf("volatility regime %q: multiplier must be > 0, got %v", label, m)
		}
	}
	for label, m := range t.Trend {
		if m <= 0 {
			return fmt.Errorf("trend regime %q: multiplier must be > 0, got %v", label, m)
		}
	}
	for label, m := range t.CyclePhase {
		if m <= 0 {
			return fmt.Errorf("cycle phase %q: multiplier must be > 0, got %v", label, m)
		}
	}
	return nil
}

// DefaultMultiplierTable returns a conservative table: size is trimmed in
// high volatility and adverse phases, modestly expanded in favorable ones.
func DefaultMultiplierTable() MultiplierTable {
	return MultiplierTable{
		Volatility: map[VolLabel]float64{
			VolLow:    1.2,
			VolNormal: 1.0,
			VolHigh:   0.5,
		},
		Trend: map[TrendLabel]float64{
			TrendUp:       1.2,
			TrendDown:     0.6,
			TrendSideways: 0.8,
		},
		CyclePhase: map[CycleLabel]float64{
			CycleRising:  1.3,
			CycleFalling: 0.7,
			CycleTop:     0.8,
			CycleBottom:  1.1,
		},
	}
}

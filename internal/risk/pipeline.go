// Package risk computes a per-bar position size multiplier for a trading
// signal by composing independent risk adjustments into one deterministic
// series: inverse-vol targeting, regime context, cycle strength, fractional
// Kelly, hard capping, then temporal smoothing.
package risk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/atlas-desktop/risk-engine/pkg/types"
)

// Pipeline composes the enabled stages in a fixed order: volatility, regime,
// cycle, kelly, cap, smooth. The order never changes with configuration, so
// capping always precedes smoothing and Kelly never precedes the technical
// scalers. A Pipeline is immutable after construction and safe for
// concurrent use across runs.
type Pipeline struct {
	logger *zap.Logger
	cfg    Config
	stages []Stage
}

// Result holds one pipeline run's output plus the intermediate series after
// each stage, keyed by stage name, for audit and inspection.
type Result struct {
	Series *types.PositionSizeSeries `json:"series"`
	Stages []string                  `json:"stages"`
	Trace  map[string][]float64      `json:"trace,omitempty"`
}

// NewPipeline validates the configuration and builds the ordered stage list.
// Disabled stages are simply not present; cap and smooth always are.
func NewPipeline(logger *zap.Logger, cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stages := make([]Stage, 0, 6)
	if cfg.UseVolatilitySizing {
		stages = append(stages, NewVolatilityScaler(cfg.TargetVol))
	}
	if cfg.UseRegimeSizing {
		stages = append(stages, NewRegimeMultiplier(cfg.RegimeMultipliers))
	}
	if cfg.UseCycleSizing {
		stages = append(stages, NewCycleScaler(cfg.CycleAmplitudeMultiplier, cfg.CycleScoreMultiplier))
	}
	if cfg.UseKelly {
		stages = append(stages, NewKellySizer(cfg.KellyFraction))
	}
	stages = append(stages,
		NewRiskCapper(cfg.MinPosition, cfg.MaxPosition),
		NewSmoother(cfg.SmoothingWindow),
	)

	return &Pipeline{
		logger: logger,
		cfg:    *cfg,
		stages: stages,
	}, nil
}

// Config returns a copy of the pipeline's configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// StageNames returns the ordered names of the stages this pipeline runs.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.Name()
	}
	return names
}

// Run computes the position size series for one instrument. It is a pure,
// synchronous, single-pass computation: a base size of 1.0 per bar flows
// through every stage in order, each producing a fresh series.
func (p *Pipeline) Run(in *Inputs) (*Result, error) {
	if err := p.validateInputs(in); err != nil {
		return nil, err
	}

	n := in.Prices.Len()
	size := make([]float64, n)
	for t := range size {
		size[t] = 1.0
	}

	trace := make(map[string][]float64, len(p.stages))
	for _, st := range p.stages {
		next, err := st.Apply(in, size)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", st.Name(), err)
		}
		trace[st.Name()] = next
		size = next
	}

	p.logger.Debug("sizing pipeline completed",
		zap.Int("bars", n),
		zap.Strings("stages", p.StageNames()),
	)

	return &Result{
		Series: &types.PositionSizeSeries{
			Timestamps: in.Prices.Times(),
			Values:     size,
		},
		Stages: p.StageNames(),
		Trace:  trace,
	}, nil
}

// validateInputs enforces the engine's shape contract: every enabled stage
// has its required series, and every supplied series is aligned 1:1 with the
// price series. Absence of an input for a disabled stage is not an error.
func (p *Pipeline) validateInputs(in *Inputs) error {
	if in == nil || in.Prices == nil {
		return fmt.Errorf("%w: price series", ErrMissingInput)
	}
	n := in.Prices.Len()

	if p.cfg.UseVolatilitySizing {
		if in.Volatility == nil {
			return fmt.Errorf("%w: volatility estimate (volatility sizing enabled)", ErrMissingInput)
		}
		if in.Volatility.Len() != n {
			return fmt.Errorf("%w: volatility estimate has %d bars, prices have %d",
				ErrMisalignedInput, in.Volatility.Len(), n)
		}
	}
	if p.cfg.UseRegimeSizing {
		if in.Regimes == nil {
			return fmt.Errorf("%w: regime labels (regime sizing enabled)", ErrMissingInput)
		}
		switch m := in.Regimes.Len(); {
		case m < 0:
			return fmt.Errorf("%w: regime label sequences have unequal lengths", ErrMisalignedInput)
		case m != n:
			return fmt.Errorf("%w: regime labels have %d bars, prices have %d",
				ErrMisalignedInput, m, n)
		}
	}
	if p.cfg.UseCycleSizing {
		if in.Cycle == nil {
			return fmt.Errorf("%w: cycle features (cycle sizing enabled)", ErrMissingInput)
		}
		if len(in.Cycle.Amplitude) != len(in.Cycle.Score) {
			return fmt.Errorf("%w: cycle amplitude has %d bars, score has %d",
				ErrMisalignedInput, len(in.Cycle.Amplitude), len(in.Cycle.Score))
		}
		if len(in.Cycle.Amplitude) != n {
			return fmt.Errorf("%w: cycle features have %d bars, prices have %d",
				ErrMisalignedInput, len(in.Cycle.Amplitude), n)
		}
	}
	// Kelly's statistics are checked by the stage itself: their absence is an
	// InsufficientStatistics condition, not a MissingInput one.
	return nil
}

package simplex

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"q.log/revsimplex/factor"
)

// Pricing selects how candidates are weighted when choosing a pivot.
type Pricing int

const (
	// Textbook pricing uses unit weights.
	Textbook Pricing = iota
	// SteepestEdge pricing uses projected steepest edge weights.
	SteepestEdge
)

func (p Pricing) String() string {
	if p == Textbook {
		return "textbook"
	}
	return "steepest-edge"
}

// Options are the control parameters of a solve. They must not change
// while a solve is running.
type Options struct {
	Logger logrus.FieldLogger

	Pricing Pricing
	// PreferDual lets the orchestrator use the dual simplex when the
	// initial basis is dual feasible but primal infeasible.
	PreferDual bool

	// TolBnd is the relative tolerance on primal feasibility.
	TolBnd float64
	// TolDj is the relative tolerance on dual feasibility.
	TolDj float64
	// TolPiv is the relative tolerance used to reject small pivots.
	TolPiv float64
	// Relax is the Harris relaxation as a fraction of TolBnd or TolDj.
	Relax float64

	// IterationLimit stops the search after that many iterations; zero
	// means no limit.
	IterationLimit int
	// TimeLimit stops the search after that much time; zero means no
	// limit.
	TimeLimit time.Duration

	// ObjLowerLimit and ObjUpperLimit stop the dual simplex early.
	ObjLowerLimit float64
	ObjUpperLimit float64

	// MaxRetries bounds the recoveries from numerical instability.
	MaxRetries int
	// PivotTolerances is the ladder of pivot tolerances tried by
	// Invert, from the first to the last.
	PivotTolerances []float64
	// PhaseOneThreshold is the value of the artificial variable below
	// which phase I declares the basis primal feasible.
	PhaseOneThreshold float64
	// PhaseOneMargin is the offset added to bound violations when the
	// artificial column is built.
	PhaseOneMargin float64
	// RefSpaceReset is the number of iterations between resets of the
	// steepest edge reference space.
	RefSpaceReset int
	// OutputFrequency is the number of iterations between progress
	// messages.
	OutputFrequency int

	// Factorizer factorizes the basis matrix; nil means factor.NewLU().
	Factorizer factor.Factorizer
	// Trace, if set, is called at the start of every iteration.
	Trace func(TraceEvent)
}

// Option modifies the solve options.
type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		Pricing:           SteepestEdge,
		TolBnd:            1e-7,
		TolDj:             1e-7,
		TolPiv:            1e-9,
		Relax:             0.07,
		ObjLowerLimit:     math.Inf(-1),
		ObjUpperLimit:     math.Inf(1),
		MaxRetries:        3,
		PivotTolerances:   []float64{0.10, 0.30, 0.70},
		PhaseOneThreshold: 1e-10,
		PhaseOneMargin:    100,
		RefSpaceReset:     1000,
		OutputFrequency:   200,
	}
}

// WithLogger sets the logger used by the solver.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithPricing(p Pricing) Option {
	return func(o *Options) { o.Pricing = p }
}

// WithDual allows the dual simplex for a dual feasible starting basis.
func WithDual(dual bool) Option {
	return func(o *Options) { o.PreferDual = dual }
}

func WithTolerances(bnd, dj, piv float64) Option {
	return func(o *Options) { o.TolBnd, o.TolDj, o.TolPiv = bnd, dj, piv }
}

func WithRelax(relax float64) Option {
	return func(o *Options) { o.Relax = relax }
}

func WithIterationLimit(n int) Option {
	return func(o *Options) { o.IterationLimit = n }
}

func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

func WithObjectiveLimits(lower, upper float64) Option {
	return func(o *Options) { o.ObjLowerLimit, o.ObjUpperLimit = lower, upper }
}

func WithRetries(n int) Option {
	return func(o *Options) { o.MaxRetries = n }
}

func WithPivotTolerances(tols ...float64) Option {
	return func(o *Options) { o.PivotTolerances = append([]float64(nil), tols...) }
}

func WithPhaseOneThreshold(t float64) Option {
	return func(o *Options) { o.PhaseOneThreshold = t }
}

func WithFactorizer(f factor.Factorizer) Option {
	return func(o *Options) { o.Factorizer = f }
}

func WithTrace(fn func(TraceEvent)) Option {
	return func(o *Options) { o.Trace = fn }
}

func WithOutputFrequency(n int) Option {
	return func(o *Options) { o.OutputFrequency = n }
}

func (o *Options) validate() error {
	for _, t := range []struct {
		name string
		v    float64
	}{{"tol_bnd", o.TolBnd}, {"tol_dj", o.TolDj}, {"tol_piv", o.TolPiv}} {
		if !(t.v > 0 && t.v < 1) {
			return errors.Wrapf(ErrBadTolerance, "%s = %g", t.name, t.v)
		}
	}
	if !(o.Relax >= 0 && o.Relax <= 1) {
		return errors.Wrapf(ErrBadTolerance, "relax = %g", o.Relax)
	}
	if len(o.PivotTolerances) == 0 {
		return errors.Wrap(ErrBadTolerance, "empty pivot tolerance ladder")
	}
	for _, t := range o.PivotTolerances {
		if !(t > 0 && t < 1) {
			return errors.Wrapf(ErrBadTolerance, "pivot tolerance %g", t)
		}
	}
	if o.PhaseOneThreshold <= 0 || o.PhaseOneMargin < 0 {
		return errors.Wrap(ErrBadTolerance, "phase I parameters")
	}
	if o.MaxRetries < 0 || o.IterationLimit < 0 || o.TimeLimit < 0 {
		return errors.New("simplex: negative limit")
	}
	if o.RefSpaceReset <= 0 {
		o.RefSpaceReset = 1000
	}
	if o.OutputFrequency <= 0 {
		o.OutputFrequency = 200
	}
	return nil
}

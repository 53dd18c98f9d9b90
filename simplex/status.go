package simplex

import (
	"github.com/pkg/errors"
	"q.log/revsimplex/factor"
	"q.log/revsimplex/model"
)

var (
	ErrEmpty        = errors.New("simplex: problem has no rows or columns")
	ErrInvalidBasis = errors.New("simplex: basis is not warmed up")
	ErrBadTolerance = errors.New("simplex: invalid tolerance")
	ErrNotBasic     = errors.New("simplex: variable is not basic")
	ErrNotNonbasic  = errors.New("simplex: variable is not non-basic")
	ErrNotFeasible  = errors.New("simplex: basic solution is not primal feasible")
	ErrBadForm      = errors.New("simplex: invalid linear form")
)

// Status is the outcome of a solve or of a single driver.
type Status int

const (
	Undefined Status = iota
	// Optimal: the basic solution is primal and dual feasible.
	Optimal
	// Feasible: phase I found a primal feasible basis.
	Feasible
	// Unbounded: the primal objective is unbounded, so the dual problem
	// has no feasible solution.
	Unbounded
	// NoPrimalFeasible: the problem has no primal feasible solution.
	NoPrimalFeasible
	IterationLimit
	TimeLimit
	// ObjLowerLimit and ObjUpperLimit: the dual simplex reached the
	// objective limit and stopped.
	ObjLowerLimit
	ObjUpperLimit
	// Singular and IllConditioned: the basis matrix cannot be factorized.
	Singular
	IllConditioned
	// BadBasis: the status tags do not define a basis.
	BadBasis
	// Empty: the problem has no rows or no columns.
	Empty
	// InvalidBounds: a double bounded variable has lb >= ub.
	InvalidBounds
	// InfeasibleStart: a driver was called on a basis that does not meet
	// its entry condition.
	InfeasibleStart
	// Instability: round-off made the basic solution infeasible. The
	// orchestrator recovers from it.
	Instability
	// RetryLimit: the orchestrator gave up after repeated instability.
	RetryLimit
)

func (s Status) String() string {
	switch s {
	case Undefined:
		return "undefined"
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Unbounded:
		return "unbounded"
	case NoPrimalFeasible:
		return "no primal feasible solution"
	case IterationLimit:
		return "iteration limit exceeded"
	case TimeLimit:
		return "time limit exceeded"
	case ObjLowerLimit:
		return "objective lower limit reached"
	case ObjUpperLimit:
		return "objective upper limit reached"
	case Singular:
		return "singular basis matrix"
	case IllConditioned:
		return "ill-conditioned basis matrix"
	case BadBasis:
		return "invalid basis"
	case Empty:
		return "problem has no rows or columns"
	case InvalidBounds:
		return "invalid bounds"
	case InfeasibleStart:
		return "infeasible starting basis"
	case Instability:
		return "numerical instability"
	case RetryLimit:
		return "gave up after repeated numerical instability"
	}
	return "unknown"
}

// Terminal reports whether the status ends the search with a usable
// diagnosis.
func (s Status) Terminal() bool {
	switch s {
	case Optimal, Unbounded, NoPrimalFeasible, IterationLimit, TimeLimit, ObjLowerLimit, ObjUpperLimit:
		return true
	}
	return false
}

// Feasibility is the primal or dual status of a basic solution.
type Feasibility int

const (
	Undef Feasibility = iota
	Feas
	Infeas
	NoFeas
)

func (f Feasibility) String() string {
	switch f {
	case Feas:
		return "feasible"
	case Infeas:
		return "infeasible"
	case NoFeas:
		return "no feasible solution"
	}
	return "undefined"
}

// Phase names the driver in progress.
type Phase int

const (
	PhaseOne Phase = iota
	PhasePrimal
	PhaseDual
)

func (p Phase) String() string {
	switch p {
	case PhaseOne:
		return "phase I"
	case PhasePrimal:
		return "primal"
	}
	return "dual"
}

// TraceEvent describes the basic solution at the start of an iteration.
type TraceEvent struct {
	Phase     Phase
	Iteration int
	// Objective is the value of the objective being optimized; in phase
	// I this is the artificial variable.
	Objective float64
	// Infeasibility is the sum of primal bound violations.
	Infeasibility float64
}

// statusOf maps a warm up or factorization error to a solve status.
func statusOf(err error) Status {
	switch errors.Cause(err) {
	case nil:
		return Undefined
	case ErrEmpty:
		return Empty
	case model.ErrBadBasis:
		return BadBasis
	case factor.ErrIllConditioned:
		return IllConditioned
	}
	return Singular
}

package simplex

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"q.log/revsimplex/factor"
	"q.log/revsimplex/model"
)

// Solver holds everything one solve needs: the problem, the options, the
// basis maps, the factorization and the basic solution. A Solver must not
// be used from more than one goroutine, and the problem must not be
// changed while the Solver uses it.
type Solver struct {
	prob *model.Problem
	opts Options
	log  logrus.FieldLogger
	fact factor.Factorizer

	m, n int
	// dir is +1 for minimization and -1 for maximization
	dir   float64
	coef  []float64
	coef0 float64

	head []int
	pos  []int

	bbar []float64
	pi   []float64
	cbar []float64

	valid bool
	pStat Feasibility
	dStat Feasibility

	iter     int
	start    time.Time
	pivLevel int
	restarts int
}

// NewSolver prepares a solver for p. The problem is read and its status
// tags are updated in place by every pivot.
func NewSolver(p *model.Problem, opts ...Option) (*Solver, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	s := &Solver{prob: p, opts: o, log: o.Logger, fact: o.Factorizer, start: time.Now()}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.fact == nil {
		s.fact = factor.NewLU()
	}
	return s, nil
}

// Problem returns the problem being solved.
func (s *Solver) Problem() *model.Problem { return s.prob }

// resize allocates the working vectors for the current problem size and
// loads the objective.
func (s *Solver) resize() {
	s.m, s.n = s.prob.NumRows, s.prob.NumCols
	s.bbar = make([]float64, s.m)
	s.pi = make([]float64, s.m)
	s.cbar = make([]float64, s.n)
	s.loadObjective()
}

func (s *Solver) loadObjective() {
	s.dir = 1
	if s.prob.Dir == model.Maximize {
		s.dir = -1
	}
	s.coef0 = s.prob.ObjConst
	s.coef = make([]float64, s.m+s.n)
	for k := range s.coef {
		s.coef[k] = s.prob.VarAt(k).Cost
	}
}

// WarmUp builds the basis maps from the status tags, factorizes the basis
// matrix and computes the basic solution with its primal and dual status.
func (s *Solver) WarmUp() error {
	s.valid = false
	s.pStat, s.dStat = Undef, Undef
	s.resize()
	if s.m == 0 || s.n == 0 {
		return ErrEmpty
	}
	if err := s.buildMaps(); err != nil {
		return err
	}
	if err := s.Invert(); err != nil {
		return err
	}
	s.EvalAll()
	return nil
}

func (s *Solver) buildMaps() error {
	b, err := s.prob.Basis()
	if err != nil {
		return err
	}
	s.head, s.pos = b.Head, b.Pos
	return nil
}

// EvalAll recomputes bbar, pi and cbar from the current factorization and
// derives the primal and dual status.
func (s *Solver) EvalAll() {
	s.evalBbar()
	s.evalPi()
	s.evalCbar()
	s.setStatuses()
}

func (s *Solver) setStatuses() {
	s.pStat, s.dStat = Infeas, Infeas
	if s.checkBbar(s.opts.TolBnd) == 0 {
		s.pStat = Feas
	}
	if s.checkCbar(s.opts.TolDj) == 0 {
		s.dStat = Feas
	}
}

func (s *Solver) PrimalStatus() Feasibility { return s.pStat }

func (s *Solver) DualStatus() Feasibility { return s.dStat }

// Iterations returns the number of simplex iterations performed.
func (s *Solver) Iterations() int { return s.iter }

// Objective returns the objective value of the current basic solution.
func (s *Solver) Objective() float64 { return s.evalObj() }

// Value returns the value of a variable in the caller's space.
func (s *Solver) Value(id model.VarID) (float64, error) {
	v, k, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	x := v.Value()
	if slot := s.pos[k]; slot < s.m {
		x = s.bbar[slot]
	}
	if id.IsRow() {
		return x / v.Scale, nil
	}
	return x * v.Scale, nil
}

// Dual returns the reduced cost of a variable in the caller's space;
// basic variables have zero reduced cost.
func (s *Solver) Dual(id model.VarID) (float64, error) {
	v, k, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	slot := s.pos[k]
	if slot < s.m {
		return 0, nil
	}
	d := s.cbar[slot-s.m]
	if id.IsRow() {
		return d * v.Scale, nil
	}
	return d / v.Scale, nil
}

// Tag returns the status tag of a variable.
func (s *Solver) Tag(id model.VarID) (model.Tag, error) {
	v, _, err := s.lookup(id)
	if err != nil {
		return model.Basic, err
	}
	return v.Tag, nil
}

func (s *Solver) lookup(id model.VarID) (*model.Variable, int, error) {
	if !s.valid || s.pStat == Undef {
		return nil, 0, ErrInvalidBasis
	}
	v, err := s.prob.Var(id)
	if err != nil {
		return nil, 0, err
	}
	return v, s.prob.Flat(id), nil
}

// Solution is a snapshot of a basic solution in the caller's space.
type Solution struct {
	Status       Status
	PrimalStatus Feasibility
	DualStatus   Feasibility
	Objective    float64
	Iterations   int

	RowValues []float64
	RowDuals  []float64
	RowTags   []model.Tag
	ColValues []float64
	ColDuals  []float64
	ColTags   []model.Tag
}

// Solution returns a snapshot of the current basic solution labelled with
// st.
func (s *Solver) Solution(st Status) (*Solution, error) {
	if !s.valid {
		return nil, ErrInvalidBasis
	}
	sol := &Solution{
		Status:       st,
		PrimalStatus: s.pStat,
		DualStatus:   s.dStat,
		Objective:    s.evalObj(),
		Iterations:   s.iter,
		RowValues:    make([]float64, s.m),
		RowDuals:     make([]float64, s.m),
		RowTags:      make([]model.Tag, s.m),
		ColValues:    make([]float64, s.n),
		ColDuals:     make([]float64, s.n),
		ColTags:      make([]model.Tag, s.n),
	}
	fill := func(id model.VarID, x, d *float64, t *model.Tag) error {
		var err error
		if *x, err = s.Value(id); err != nil {
			return err
		}
		if *d, err = s.Dual(id); err != nil {
			return err
		}
		*t, err = s.Tag(id)
		return err
	}
	for i := range s.m {
		if err := fill(model.RowVar(i), &sol.RowValues[i], &sol.RowDuals[i], &sol.RowTags[i]); err != nil {
			return nil, errors.Wrap(err, "row")
		}
	}
	for j := range s.n {
		if err := fill(model.ColVar(j), &sol.ColValues[j], &sol.ColDuals[j], &sol.ColTags[j]); err != nil {
			return nil, errors.Wrap(err, "column")
		}
	}
	return sol, nil
}

package simplex

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/revsimplex/factor"
	"q.log/revsimplex/model"
)

const (
	delta = 0.0000001 // acceptable numerical deviation for test results
)

type bound struct {
	kind   model.BoundKind
	lb, ub float64
}

func upTo(ub float64) bound { return bound{kind: model.Upper, ub: ub} }

func atLeast(lb float64) bound { return bound{kind: model.Lower, lb: lb} }

func between(lb, ub float64) bound { return bound{kind: model.Double, lb: lb, ub: ub} }

var nonneg = atLeast(0)

// buildProblem creates a problem with the dense row-major matrix a and the
// standard basis.
func buildProblem(t *testing.T, dir model.Direction, a []float64, rows, cols []bound, c []float64) *model.Problem {
	t.Helper()
	p := model.NewProblem(t.Name(), dir)
	p.AddRows(len(rows))
	p.AddCols(len(cols))
	require.NoError(t, p.SetDense(a))
	for i, b := range rows {
		require.NoError(t, p.SetRowBounds(i, b.kind, b.lb, b.ub))
	}
	for j, b := range cols {
		require.NoError(t, p.SetColBounds(j, b.kind, b.lb, b.ub))
	}
	require.NoError(t, p.SetC(c))
	p.StdBasis()
	return p
}

// chvatal is
//
//	max 5x1 + 4x2 + 3x3
//	2x1 + 3x2 +  x3 <= 5
//	4x1 +  x2 + 2x3 <= 11
//	3x1 + 4x2 + 2x3 <= 8
//
// with the optimum x = (2, 0, 1) and objective 13.
func chvatal(t *testing.T) *model.Problem {
	return buildProblem(t, model.Maximize,
		[]float64{
			2, 3, 1,
			4, 1, 2,
			3, 4, 2,
		},
		[]bound{upTo(5), upTo(11), upTo(8)},
		[]bound{nonneg, nonneg, nonneg},
		[]float64{5, 4, 3})
}

// diet is min x1 + x2 with x1 + x2 >= 2 and x1 + 3x2 >= 3. The standard
// basis is dual feasible but not primal feasible.
func diet(t *testing.T) *model.Problem {
	return buildProblem(t, model.Minimize,
		[]float64{
			1, 1,
			1, 3,
		},
		[]bound{atLeast(2), atLeast(3)},
		[]bound{nonneg, nonneg},
		[]float64{1, 1})
}

func newTestSolver(t *testing.T, p *model.Problem, opts ...Option) (*Solver, *logtest.Hook) {
	t.Helper()
	l, hook := logtest.NewNullLogger()
	s, err := NewSolver(p, append([]Option{WithLogger(l)}, opts...)...)
	require.NoError(t, err)
	return s, hook
}

func value(t *testing.T, s *Solver, id model.VarID) float64 {
	t.Helper()
	x, err := s.Value(id)
	require.NoError(t, err)
	return x
}

func dual(t *testing.T, s *Solver, id model.VarID) float64 {
	t.Helper()
	d, err := s.Dual(id)
	require.NoError(t, err)
	return d
}

func tag(t *testing.T, s *Solver, id model.VarID) model.Tag {
	t.Helper()
	tg, err := s.Tag(id)
	require.NoError(t, err)
	return tg
}

func TestSolveSmallLP(t *testing.T) {
	tests := []struct {
		name   string
		rhs    float64
		x1, x2 float64
		obj    float64
		duals  []float64
	}{
		// both rows end up binding
		{"wide", 8, 2.4, 0.8, 3.2, []float64{0.4, 0.2}},
		{"narrow", 6, 1.6, 1.2, 2.8, []float64{0.4, 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildProblem(t, model.Maximize,
				[]float64{
					1, 2,
					3, 1,
				},
				[]bound{upTo(4), upTo(tt.rhs)},
				[]bound{nonneg, nonneg},
				[]float64{1, 1})
			s, _ := newTestSolver(t, p)

			require.Equal(t, Optimal, s.Solve())
			assert.Equal(t, Feas, s.PrimalStatus())
			assert.Equal(t, Feas, s.DualStatus())
			assert.InDelta(t, tt.x1, value(t, s, model.ColVar(0)), delta)
			assert.InDelta(t, tt.x2, value(t, s, model.ColVar(1)), delta)
			assert.InDelta(t, tt.obj, s.Objective(), delta)
			for i, d := range tt.duals {
				assert.InDelta(t, d, dual(t, s, model.RowVar(i)), delta)
				assert.Equal(t, model.AtUpper, tag(t, s, model.RowVar(i)))
			}
			assert.Equal(t, 0.0, dual(t, s, model.ColVar(0)))
		})
	}
}

func TestSolveChvatal(t *testing.T) {
	for _, pricing := range []Pricing{Textbook, SteepestEdge} {
		t.Run(pricing.String(), func(t *testing.T) {
			s, _ := newTestSolver(t, chvatal(t), WithPricing(pricing))

			require.Equal(t, Optimal, s.Solve())
			assert.InDelta(t, 13, s.Objective(), delta)
			for j, x := range []float64{2, 0, 1} {
				assert.InDelta(t, x, value(t, s, model.ColVar(j)), delta)
			}
			for i, d := range []float64{1, 0, 1} {
				assert.InDelta(t, d, dual(t, s, model.RowVar(i)), delta)
			}
			assert.InDelta(t, 10, value(t, s, model.RowVar(1)), delta)
			assert.InDelta(t, -3, dual(t, s, model.ColVar(1)), delta)
			assert.Equal(t, model.Basic, tag(t, s, model.RowVar(1)))
			assert.Equal(t, model.AtLower, tag(t, s, model.ColVar(1)))

			assert.Equal(t, 0.0, s.CheckBbar())
			assert.Equal(t, 0.0, s.CheckCbar())
		})
	}
}

func TestSolveScaledProblem(t *testing.T) {
	p := chvatal(t)
	require.NoError(t, p.SetScale([]float64{2, 0.5, 10}, []float64{0.25, 4, 3}))
	s, _ := newTestSolver(t, p)

	require.Equal(t, Optimal, s.Solve())
	assert.InDelta(t, 13, s.Objective(), delta)
	for j, x := range []float64{2, 0, 1} {
		assert.InDelta(t, x, value(t, s, model.ColVar(j)), delta)
	}
	for i, d := range []float64{1, 0, 1} {
		assert.InDelta(t, d, dual(t, s, model.RowVar(i)), delta)
	}
	assert.InDelta(t, -3, dual(t, s, model.ColVar(1)), delta)
}

func TestSolveInfeasible(t *testing.T) {
	// x1 >= 5 and x1 <= 2 through two rows, x1 free
	p := buildProblem(t, model.Minimize,
		[]float64{1, 1},
		[]bound{atLeast(5), upTo(2)},
		[]bound{{kind: model.Free}},
		[]float64{1})
	var events []TraceEvent
	s, _ := newTestSolver(t, p, WithTrace(func(ev TraceEvent) { events = append(events, ev) }))

	assert.Equal(t, NoPrimalFeasible, s.Solve())
	assert.Equal(t, NoFeas, s.PrimalStatus())
	require.NotEmpty(t, events)
	for _, ev := range events {
		assert.Equal(t, PhaseOne, ev.Phase)
	}
	// the artificial variable ends basic; moving it out is not an iteration
	assert.Equal(t, events[len(events)-1].Iteration, s.Iterations())
	// the artificial column is gone
	assert.Equal(t, 1, p.NumCols)
	_, err := p.Basis()
	assert.NoError(t, err)
}

func TestSolveUnbounded(t *testing.T) {
	p := buildProblem(t, model.Maximize,
		[]float64{1},
		[]bound{{kind: model.Free}},
		[]bound{nonneg},
		[]float64{1})
	s, _ := newTestSolver(t, p)

	require.NoError(t, s.WarmUp())
	assert.Equal(t, Unbounded, s.PrimalSimplex())
	assert.Equal(t, Feas, s.PrimalStatus())
	assert.Equal(t, NoFeas, s.DualStatus())

	p.StdBasis()
	assert.Equal(t, Unbounded, s.Solve())
}

func TestSolveRatioTie(t *testing.T) {
	tests := []struct {
		name    string
		a       []float64
		rhs     []float64
		leaving int
	}{
		{"second row", []float64{1, 2}, []float64{2, 4}, 1},
		{"first row", []float64{2, 1}, []float64{4, 2}, 0},
	}
	for _, tt := range tests {
		for _, relax := range []float64{0, DefaultOptions().Relax} {
			p := buildProblem(t, model.Maximize, tt.a,
				[]bound{upTo(tt.rhs[0]), upTo(tt.rhs[1])},
				[]bound{nonneg},
				[]float64{1})
			s, _ := newTestSolver(t, p, WithRelax(relax))

			require.Equal(t, Optimal, s.Solve(), tt.name)
			assert.Equal(t, 1, s.Iterations(), tt.name)
			assert.Equal(t, model.AtUpper, tag(t, s, model.RowVar(tt.leaving)), tt.name)
			assert.Equal(t, model.Basic, tag(t, s, model.RowVar(1-tt.leaving)), tt.name)
			assert.InDelta(t, 2, s.Objective(), delta, tt.name)
		}
	}
}

func TestSolveBoundFlips(t *testing.T) {
	p := buildProblem(t, model.Maximize,
		[]float64{1, 1, 1},
		[]bound{upTo(6)},
		[]bound{between(0, 1), between(0, 1), {kind: model.Fixed, lb: 3}},
		[]float64{1, 1, 2})
	p.SetObjConst(1.5)
	s, _ := newTestSolver(t, p)

	require.Equal(t, Optimal, s.Solve())
	// both columns flip to their upper bound without a basis change
	assert.Equal(t, 2, s.Iterations())
	assert.Equal(t, model.Basic, tag(t, s, model.RowVar(0)))
	assert.Equal(t, model.AtUpper, tag(t, s, model.ColVar(0)))
	assert.Equal(t, model.AtUpper, tag(t, s, model.ColVar(1)))
	assert.Equal(t, model.NonbasicFixed, tag(t, s, model.ColVar(2)))
	assert.InDelta(t, 5, value(t, s, model.RowVar(0)), delta)
	assert.InDelta(t, 9.5, s.Objective(), delta)
}

func TestSolvePhaseOneThenPrimal(t *testing.T) {
	p := buildProblem(t, model.Maximize,
		[]float64{
			1, 1,
			1, 0,
			0, 1,
		},
		[]bound{atLeast(2), upTo(3), upTo(4)},
		[]bound{nonneg, nonneg},
		[]float64{1, 1})
	seen := map[Phase]bool{}
	s, _ := newTestSolver(t, p, WithTrace(func(ev TraceEvent) { seen[ev.Phase] = true }))

	require.Equal(t, Optimal, s.Solve())
	assert.True(t, seen[PhaseOne])
	assert.False(t, seen[PhaseDual])
	assert.InDelta(t, 7, s.Objective(), delta)
	assert.InDelta(t, 3, value(t, s, model.ColVar(0)), delta)
	assert.InDelta(t, 4, value(t, s, model.ColVar(1)), delta)
	assert.Equal(t, 2, p.NumCols)
}

func TestSolveDual(t *testing.T) {
	tests := []struct {
		name  string
		dual  bool
		phase Phase
	}{
		{"dual simplex", true, PhaseDual},
		{"two phase", false, PhaseOne},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := map[Phase]bool{}
			s, _ := newTestSolver(t, diet(t), WithDual(tt.dual),
				WithTrace(func(ev TraceEvent) { seen[ev.Phase] = true }))

			require.Equal(t, Optimal, s.Solve())
			assert.True(t, seen[tt.phase])
			assert.InDelta(t, 2, s.Objective(), delta)
			// the optimal face is an edge, any point of x1 + x2 = 2 will do
			assert.InDelta(t, 2, value(t, s, model.RowVar(0)), delta)
		})
	}
}

func TestDualSimplexPath(t *testing.T) {
	var objs []float64
	s, _ := newTestSolver(t, diet(t), WithTrace(func(ev TraceEvent) { objs = append(objs, ev.Objective) }))
	require.NoError(t, s.WarmUp())
	require.Equal(t, Feas, s.DualStatus())

	require.Equal(t, Optimal, s.DualSimplex())
	assert.Equal(t, 2, s.Iterations())
	assert.InDeltaSlice(t, []float64{0, 1, 2}, objs, delta)
	assert.InDelta(t, 1.5, value(t, s, model.ColVar(0)), delta)
	assert.InDelta(t, 0.5, value(t, s, model.ColVar(1)), delta)
	assert.InDelta(t, 1, dual(t, s, model.RowVar(0)), delta)
	assert.InDelta(t, 0, dual(t, s, model.RowVar(1)), delta)
}

func TestDualSimplexObjectiveLimit(t *testing.T) {
	s, _ := newTestSolver(t, diet(t), WithDual(true), WithObjectiveLimits(math.Inf(-1), 0.5))

	assert.Equal(t, ObjUpperLimit, s.Solve())
	assert.Equal(t, 1, s.Iterations())
	assert.InDelta(t, 1, s.Objective(), delta)
	assert.Equal(t, Feas, s.DualStatus())
	assert.Equal(t, Infeas, s.PrimalStatus())
}

func TestObjectiveMonotone(t *testing.T) {
	var objs []float64
	s, _ := newTestSolver(t, chvatal(t), WithPricing(Textbook), WithTrace(func(ev TraceEvent) {
		if ev.Phase == PhasePrimal {
			objs = append(objs, ev.Objective)
		}
	}))

	require.Equal(t, Optimal, s.Solve())
	require.NotEmpty(t, objs)
	for i := 1; i < len(objs); i++ {
		assert.GreaterOrEqual(t, objs[i], objs[i-1]-delta)
	}
}

func TestSolveLimits(t *testing.T) {
	s, _ := newTestSolver(t, chvatal(t), WithIterationLimit(1))
	assert.Equal(t, IterationLimit, s.Solve())
	assert.Equal(t, 1, s.Iterations())
	assert.Equal(t, Feas, s.PrimalStatus())
	assert.Equal(t, Infeas, s.DualStatus())

	s, _ = newTestSolver(t, chvatal(t), WithTimeLimit(time.Nanosecond))
	assert.Equal(t, TimeLimit, s.Solve())
	assert.Equal(t, 0, s.Iterations())
}

func TestSolveBadInput(t *testing.T) {
	p := model.NewProblem("empty", model.Minimize)
	p.AddCols(1)
	s, _ := newTestSolver(t, p)
	assert.Equal(t, Empty, s.Solve())

	p = chvatal(t)
	require.NoError(t, p.SetColBounds(0, model.Double, 1, 1))
	s, _ = newTestSolver(t, p)
	assert.Equal(t, InvalidBounds, s.Solve())

	p = chvatal(t)
	require.NoError(t, p.SetColStatus(0, model.Basic))
	s, _ = newTestSolver(t, p)
	assert.Equal(t, BadBasis, s.Solve())
}

func TestDriverEntryConditions(t *testing.T) {
	s, _ := newTestSolver(t, chvatal(t))
	assert.Equal(t, BadBasis, s.PrimalSimplex())
	assert.Equal(t, BadBasis, s.DualSimplex())
	assert.Equal(t, BadBasis, s.PhaseOne())

	require.NoError(t, s.WarmUp())
	assert.Equal(t, InfeasibleStart, s.DualSimplex())
	assert.Equal(t, Feasible, s.PhaseOne())

	s, _ = newTestSolver(t, diet(t))
	require.NoError(t, s.WarmUp())
	assert.Equal(t, InfeasibleStart, s.PrimalSimplex())
}

// failingFactorizer rejects every basis matrix.
type failingFactorizer struct {
	err  error
	tols []float64
}

func (f *failingFactorizer) Factorize(m int, col factor.ColumnFunc, pivTol float64) error {
	f.tols = append(f.tols, pivTol)
	return f.err
}

func (f *failingFactorizer) Ftran(x []float64, save bool) {}

func (f *failingFactorizer) Btran(x []float64) {}

func (f *failingFactorizer) Update(p int) error { return nil }

func TestFactorizationFailure(t *testing.T) {
	tests := []struct {
		err    error
		status Status
	}{
		{factor.ErrSingular, Singular},
		{factor.ErrIllConditioned, IllConditioned},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			f := &failingFactorizer{err: tt.err}
			s, hook := newTestSolver(t, chvatal(t), WithFactorizer(f))

			assert.Equal(t, tt.status, s.Solve())
			assert.Equal(t, []float64{0.1, 0.3, 0.7}, f.tols)

			warnings := 0
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.WarnLevel {
					warnings++
				}
			}
			assert.Equal(t, 3, warnings)

			_, err := s.Value(model.ColVar(0))
			assert.Equal(t, ErrInvalidBasis, err)
		})
	}

	f := &failingFactorizer{err: factor.ErrSingular}
	s, _ := newTestSolver(t, chvatal(t), WithFactorizer(f), WithPivotTolerances(0.5))
	assert.Equal(t, Singular, s.Solve())
	assert.Equal(t, []float64{0.5}, f.tols)
}

func TestNewSolverOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero tolerance", WithTolerances(0, 1e-7, 1e-9)},
		{"tolerance of one", WithTolerances(1e-7, 1, 1e-9)},
		{"relax", WithRelax(2)},
		{"empty ladder", WithPivotTolerances()},
		{"ladder", WithPivotTolerances(0.1, 1.5)},
		{"phase one threshold", WithPhaseOneThreshold(0)},
	}
	for _, tt := range tests {
		_, err := NewSolver(chvatal(t), tt.opt)
		assert.Equal(t, ErrBadTolerance, errors.Cause(err), tt.name)
	}

	_, err := NewSolver(chvatal(t), WithRetries(-1))
	assert.Error(t, err)
	_, err = NewSolver(chvatal(t), WithIterationLimit(-5))
	assert.Error(t, err)

	s, err := NewSolver(chvatal(t), WithOutputFrequency(0))
	require.NoError(t, err)
	assert.Equal(t, 200, s.opts.OutputFrequency)
	assert.NotNil(t, s.log)
}

func TestRestartBudget(t *testing.T) {
	s, _ := newTestSolver(t, chvatal(t), WithRetries(1))
	assert.True(t, s.restart(PhasePrimal))
	assert.False(t, s.restart(PhasePrimal))

	s, _ = newTestSolver(t, chvatal(t), WithRetries(0))
	assert.False(t, s.restart(PhaseDual))
}

// flakyFactorizer asks for a new factorization after every pivot and
// rejects the basis once limit factorizations have been computed. A zero
// limit never rejects.
type flakyFactorizer struct {
	*factor.LU
	limit, calls int
	tols         []float64
}

func (f *flakyFactorizer) Factorize(m int, col factor.ColumnFunc, pivTol float64) error {
	f.calls++
	f.tols = append(f.tols, pivTol)
	if f.limit > 0 && f.calls > f.limit {
		return factor.ErrSingular
	}
	return f.LU.Factorize(m, col, pivTol)
}

func (f *flakyFactorizer) Update(p int) error { return factor.ErrNeedsRefactorization }

// noisyFactorizer spoils the unsaved solves after the first factorization,
// so every recomputed basic solution falls below its lower bounds.
type noisyFactorizer struct {
	flakyFactorizer
}

func (f *noisyFactorizer) Ftran(x []float64, save bool) {
	f.LU.Ftran(x, save)
	if !save && f.calls > 1 {
		for i := range x {
			x[i] -= 1e6
		}
	}
}

func tagsOf(p *model.Problem) []model.Tag {
	out := make([]model.Tag, p.NumRows+p.NumCols)
	for k := range out {
		out[k] = p.VarAt(k).Tag
	}
	return out
}

func TestPhaseOneFailureRestoresBasis(t *testing.T) {
	p := buildProblem(t, model.Minimize,
		[]float64{1, 1},
		[]bound{atLeast(5), upTo(2)},
		[]bound{{kind: model.Free}},
		[]float64{1})
	start := tagsOf(p)

	// the basis is rejected in the middle of phase I
	f := &flakyFactorizer{LU: factor.NewLU(), limit: 2}
	s, _ := newTestSolver(t, p, WithFactorizer(f))
	assert.Equal(t, Singular, s.Solve())
	assert.Greater(t, f.calls, 2)

	assert.Equal(t, 1, p.NumCols)
	assert.Equal(t, start, tagsOf(p))
	_, err := p.Basis()
	require.NoError(t, err)

	s, _ = newTestSolver(t, p)
	assert.Equal(t, NoPrimalFeasible, s.Solve())
}

func TestSolveRetryLimit(t *testing.T) {
	ladder := DefaultOptions().PivotTolerances
	for _, retries := range []int{0, 1, 2} {
		p := buildProblem(t, model.Maximize,
			[]float64{1},
			[]bound{upTo(4)},
			[]bound{nonneg},
			[]float64{1})
		f := &noisyFactorizer{flakyFactorizer{LU: factor.NewLU()}}
		s, hook := newTestSolver(t, p, WithFactorizer(f), WithRetries(retries))

		assert.Equal(t, RetryLimit, s.Solve(), "retries %d", retries)

		warnings := 0
		for _, e := range hook.AllEntries() {
			if e.Message == "numerical instability" {
				warnings++
			}
		}
		assert.Equal(t, retries, warnings, "retries %d", retries)

		// every retry moves one step up the pivot tolerance ladder
		require.NotEmpty(t, f.tols)
		assert.Equal(t, ladder[0], f.tols[0])
		assert.IsNonDecreasing(t, f.tols)
		assert.Equal(t, ladder[retries], f.tols[len(f.tols)-1], "retries %d", retries)
		for _, tol := range ladder[:retries+1] {
			assert.Contains(t, f.tols, tol)
		}
	}
}

func TestHarrisPivotKeepsBounds(t *testing.T) {
	// x = 2 empties the first row, x = 2 + 1e-9 the second one
	tests := []struct {
		name    string
		relax   float64
		leaving int
	}{
		{"textbook", 0, 0},
		{"harris", DefaultOptions().Relax, 1},
	}
	for _, tt := range tests {
		p := buildProblem(t, model.Maximize,
			[]float64{1, 2},
			[]bound{upTo(2), upTo(4 + 2e-9)},
			[]bound{nonneg},
			[]float64{1})
		s, _ := newTestSolver(t, p, WithRelax(tt.relax))

		require.Equal(t, Optimal, s.Solve(), tt.name)
		assert.Equal(t, model.AtUpper, tag(t, s, model.RowVar(tt.leaving)), tt.name)
		assert.Equal(t, model.Basic, tag(t, s, model.RowVar(1-tt.leaving)), tt.name)

		// the basic row may pass its bound, but only within the tolerance
		r := value(t, s, model.RowVar(1-tt.leaving))
		assert.LessOrEqual(t, r, p.Rows()[1-tt.leaving].Upper+s.opts.TolBnd, tt.name)
		assert.Equal(t, 0.0, s.checkBbar(s.opts.TolBnd), tt.name)
		assert.Equal(t, Feas, s.PrimalStatus(), tt.name)
	}
}

func TestSolveLogsOutcome(t *testing.T) {
	s, hook := newTestSolver(t, chvatal(t))
	require.Equal(t, Optimal, s.Solve())

	e := hook.LastEntry()
	require.NotNil(t, e)
	assert.Equal(t, logrus.InfoLevel, e.Level)
	assert.Equal(t, "simplex search finished", e.Message)
	assert.Equal(t, "optimal", e.Data["status"])
	assert.InDelta(t, 13, e.Data["obj"], delta)
}

func TestInvertKeepsSolution(t *testing.T) {
	s, _ := newTestSolver(t, chvatal(t))
	require.Equal(t, Optimal, s.Solve())
	before, err := s.Solution(Optimal)
	require.NoError(t, err)

	require.NoError(t, s.Invert())
	s.EvalAll()
	after, err := s.Solution(Optimal)
	require.NoError(t, err)
	assert.InDeltaSlice(t, before.ColValues, after.ColValues, delta)
	assert.InDeltaSlice(t, before.RowDuals, after.RowDuals, delta)
	assert.Equal(t, before.ColTags, after.ColTags)

	assert.Less(t, s.ErrInBbar(), delta)
	assert.Less(t, s.ErrInPi(), delta)
	assert.Less(t, s.ErrInCbar(true), delta)
}

func TestSolution(t *testing.T) {
	s, _ := newTestSolver(t, chvatal(t))
	_, err := s.Solution(Undefined)
	assert.Equal(t, ErrInvalidBasis, err)

	require.Equal(t, Optimal, s.Solve())
	sol, err := s.Solution(Optimal)
	require.NoError(t, err)

	assert.Equal(t, Optimal, sol.Status)
	assert.Equal(t, Feas, sol.PrimalStatus)
	assert.InDelta(t, 13, sol.Objective, delta)
	assert.Equal(t, s.Iterations(), sol.Iterations)
	require.Len(t, sol.RowValues, 3)
	require.Len(t, sol.ColValues, 3)
	assert.InDeltaSlice(t, []float64{2, 0, 1}, sol.ColValues, delta)
	assert.InDeltaSlice(t, []float64{5, 10, 8}, sol.RowValues, delta)
	assert.Equal(t, []model.Tag{model.AtUpper, model.Basic, model.AtUpper}, sol.RowTags)

	_, err = s.Value(model.ColVar(7))
	assert.Equal(t, model.ErrIndexRange, errors.Cause(err))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, Undefined, statusOf(nil))
	assert.Equal(t, Empty, statusOf(ErrEmpty))
	assert.Equal(t, BadBasis, statusOf(errors.Wrap(model.ErrBadBasis, "row 1")))
	assert.Equal(t, IllConditioned, statusOf(factor.ErrIllConditioned))
	assert.Equal(t, Singular, statusOf(factor.ErrSingular))

	assert.True(t, Optimal.Terminal())
	assert.True(t, ObjLowerLimit.Terminal())
	assert.False(t, Instability.Terminal())
	assert.False(t, Singular.Terminal())
	assert.Equal(t, "numerical instability", Instability.String())
	assert.Equal(t, "no feasible solution", NoFeas.String())
	assert.Equal(t, "phase I", PhaseOne.String())
}

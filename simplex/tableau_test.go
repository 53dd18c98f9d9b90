package simplex

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/revsimplex/model"
)

func termMap(terms []Term) map[model.VarID]float64 {
	out := make(map[model.VarID]float64, len(terms))
	for _, t := range terms {
		out[t.Var] = t.Coef
	}
	return out
}

// assertSameForm compares two linear forms, treating missing terms as
// zero.
func assertSameForm(t *testing.T, want, got []Term) {
	t.Helper()
	w, g := termMap(want), termMap(got)
	for id, c := range w {
		assert.InDelta(t, c, g[id], delta, "%v", id)
	}
	for id, c := range g {
		assert.InDelta(t, w[id], c, delta, "%v", id)
	}
}

// colTerms returns column j of the constraint matrix as a form over rows.
func colTerms(p *model.Problem, j int) []Term {
	a := p.Dense()
	m, _ := a.Dims()
	var out []Term
	for i := range m {
		if v := a.At(i, j); v != 0 {
			out = append(out, Term{Var: model.RowVar(i), Coef: v})
		}
	}
	return out
}

func solvedChvatal(t *testing.T, scaled bool) *Solver {
	t.Helper()
	p := chvatal(t)
	if scaled {
		require.NoError(t, p.SetScale([]float64{2, 0.5, 10}, []float64{0.25, 4, 3}))
	}
	s, _ := newTestSolver(t, p)
	require.Equal(t, Optimal, s.Solve())
	return s
}

func TestEvalTableauCol(t *testing.T) {
	p := buildProblem(t, model.Maximize, []float64{1, 2},
		[]bound{upTo(2), upTo(4)}, []bound{nonneg}, []float64{1})
	s, _ := newTestSolver(t, p)
	require.NoError(t, s.WarmUp())

	col, err := s.EvalTableauCol(model.ColVar(0))
	require.NoError(t, err)
	assert.Equal(t, []Term{{model.RowVar(0), 1}, {model.RowVar(1), 2}}, col)

	// both rows reach their bound at x1 = 2, the larger coefficient wins
	id, ok, err := s.PrimalRatioTest(col, 1, 1e-9)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.RowVar(1), id)

	_, ok, err = s.PrimalRatioTest(col, -1, 1e-9)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvalTableauRow(t *testing.T) {
	s, _ := newTestSolver(t, diet(t))
	require.NoError(t, s.WarmUp())

	row, err := s.EvalTableauRow(model.RowVar(1))
	require.NoError(t, err)
	assert.Equal(t, []Term{{model.ColVar(0), 1}, {model.ColVar(1), 3}}, row)

	id, ok, err := s.DualRatioTest(row, 1, 1e-9)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.ColVar(1), id)

	_, ok, err = s.DualRatioTest(row, -1, 1e-9)
	require.NoError(t, err)
	assert.False(t, ok)

	// the starting basis is not primal feasible
	_, _, err = s.PrimalRatioTest(row, 1, 1e-9)
	assert.Equal(t, ErrNotFeasible, err)
}

func TestTableauRowMatchesColumn(t *testing.T) {
	for _, scaled := range []bool{false, true} {
		s := solvedChvatal(t, scaled)

		row, err := s.EvalTableauRow(model.ColVar(0))
		require.NoError(t, err)
		col, err := s.EvalTableauCol(model.ColVar(1))
		require.NoError(t, err)
		assert.InDelta(t, termMap(col)[model.ColVar(0)], termMap(row)[model.ColVar(1)], delta)
		assert.NotZero(t, termMap(row)[model.ColVar(1)])
	}
}

func TestTransformCol(t *testing.T) {
	for _, scaled := range []bool{false, true} {
		s := solvedChvatal(t, scaled)

		want, err := s.EvalTableauCol(model.ColVar(1))
		require.NoError(t, err)
		got, err := s.TransformCol(colTerms(s.Problem(), 1))
		require.NoError(t, err)
		assertSameForm(t, want, got)
	}
}

func TestTransformRow(t *testing.T) {
	for _, scaled := range []bool{false, true} {
		s := solvedChvatal(t, scaled)

		// the objective row gives the reduced costs
		obj := []Term{{model.ColVar(0), 5}, {model.ColVar(1), 4}, {model.ColVar(2), 3}}
		got, err := s.TransformRow(obj)
		require.NoError(t, err)

		var want []Term
		for k := range s.Problem().NumRows + s.Problem().NumCols {
			id := s.Problem().ID(k)
			if tag(t, s, id) == model.Basic {
				continue
			}
			want = append(want, Term{Var: id, Coef: dual(t, s, id)})
		}
		assertSameForm(t, want, got)
	}
}

func TestEvalActivityAndRedCost(t *testing.T) {
	for _, scaled := range []bool{false, true} {
		s := solvedChvatal(t, scaled)

		x, err := s.EvalActivity([]Term{{model.ColVar(0), 1}, {model.ColVar(2), 1}})
		require.NoError(t, err)
		assert.InDelta(t, 3, x, delta)

		x, err = s.EvalActivity([]Term{{model.ColVar(0), 2}, {model.ColVar(1), 3}, {model.ColVar(2), 1}})
		require.NoError(t, err)
		assert.InDelta(t, value(t, s, model.RowVar(0)), x, delta)

		// pi * a of column x2, plus its cost, is its reduced cost
		d, err := s.EvalRedCost(colTerms(s.Problem(), 1))
		require.NoError(t, err)
		assert.InDelta(t, dual(t, s, model.ColVar(1)), 4+d, delta)
	}
}

func TestReduceForm(t *testing.T) {
	for _, scaled := range []bool{false, true} {
		p := chvatal(t)
		if scaled {
			require.NoError(t, p.SetScale([]float64{2, 0.5, 10}, []float64{0.25, 4, 3}))
		}

		got, err := ReduceForm(p, []Term{{model.RowVar(0), 1}, {model.ColVar(0), 1}})
		require.NoError(t, err)
		require.Len(t, got, 3)
		for j, c := range []float64{3, 3, 1} {
			assert.Equal(t, model.ColVar(j), got[j].Var)
			assert.InDelta(t, c, got[j].Coef, delta)
		}
	}

	// terms that cancel disappear
	p := chvatal(t)
	got, err := ReduceForm(p, []Term{{model.RowVar(0), 1}, {model.ColVar(0), -2}, {model.ColVar(1), -3}})
	require.NoError(t, err)
	assert.Equal(t, []Term{{model.ColVar(2), 1}}, got)

	_, err = ReduceForm(p, []Term{{model.RowVar(3), 1}})
	assert.Equal(t, model.ErrIndexRange, errors.Cause(err))
}

func TestTableauErrors(t *testing.T) {
	s, _ := newTestSolver(t, chvatal(t))
	_, err := s.EvalTableauRow(model.RowVar(0))
	assert.Equal(t, ErrInvalidBasis, err)
	_, err = s.TransformCol(nil)
	assert.Equal(t, ErrInvalidBasis, err)
	_, err = s.EvalRedCost(nil)
	assert.Equal(t, ErrInvalidBasis, err)

	require.Equal(t, Optimal, s.Solve())

	_, err = s.EvalTableauRow(model.ColVar(1))
	assert.Equal(t, ErrNotBasic, errors.Cause(err))
	_, err = s.EvalTableauCol(model.ColVar(0))
	assert.Equal(t, ErrNotNonbasic, errors.Cause(err))
	_, err = s.EvalTableauRow(model.RowVar(9))
	assert.Equal(t, model.ErrIndexRange, errors.Cause(err))

	_, err = s.TransformRow([]Term{{model.RowVar(0), 1}})
	assert.Equal(t, ErrBadForm, errors.Cause(err))
	_, err = s.TransformCol([]Term{{model.ColVar(0), 1}})
	assert.Equal(t, ErrBadForm, errors.Cause(err))
	_, err = s.TransformCol([]Term{{model.RowVar(0), 1}, {model.RowVar(0), 2}})
	assert.Equal(t, ErrBadForm, errors.Cause(err))
	_, err = s.EvalActivity([]Term{{model.ColVar(5), 1}})
	assert.Equal(t, model.ErrIndexRange, errors.Cause(err))

	col, err := s.EvalTableauCol(model.ColVar(1))
	require.NoError(t, err)
	_, _, err = s.PrimalRatioTest(col, 0, 1e-9)
	assert.Error(t, err)
	_, _, err = s.PrimalRatioTest(col, 1, 0)
	assert.Equal(t, ErrBadTolerance, errors.Cause(err))
	// a column of the table refers to basic variables only
	_, _, err = s.PrimalRatioTest([]Term{{model.ColVar(1), 1}}, 1, 1e-9)
	assert.Equal(t, ErrNotBasic, errors.Cause(err))
	_, _, err = s.DualRatioTest([]Term{{model.ColVar(0), 1}}, 1, 1e-9)
	assert.Equal(t, ErrNotNonbasic, errors.Cause(err))
}

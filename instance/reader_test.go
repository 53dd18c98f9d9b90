package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/revsimplex/model"
	"q.log/revsimplex/simplex"
)

const (
	delta = 0.0000001 // acceptable numerical deviation for test results
)

func TestReaderProblem(t *testing.T) {
	p, err := NewReader("testdata/toy.mps").Problem()
	require.NoError(t, err)

	assert.Equal(t, "toy", p.Name)
	assert.Equal(t, model.Minimize, p.Dir)
	require.Equal(t, 2, p.NumRows)
	require.Equal(t, 2, p.NumCols)

	kind, lb, ub, err := p.Bounds(model.RowVar(0))
	require.NoError(t, err)
	assert.Equal(t, model.Upper, kind)
	assert.Equal(t, 0.0, lb)
	assert.Equal(t, 4.0, ub)

	kind, lb, _, err = p.Bounds(model.ColVar(1))
	require.NoError(t, err)
	assert.Equal(t, model.Lower, kind)
	assert.Equal(t, 0.0, lb)

	c, err := p.ObjCoef(model.ColVar(0))
	require.NoError(t, err)
	assert.Equal(t, -1.0, c)

	assert.Equal(t, "c2", p.Rows()[1].Name)
	assert.Equal(t, "x1", p.Cols()[0].Name)
	assert.Equal(t, 3.0, p.Dense().At(1, 0))
	assert.Equal(t, model.Basic, p.Rows()[0].Tag)
	assert.Equal(t, model.AtLower, p.Cols()[0].Tag)
}

func TestReaderMissingFile(t *testing.T) {
	_, err := NewReader("testdata/missing.mps").Problem()
	assert.Error(t, err)
}

func TestCrossCheck(t *testing.T) {
	p, err := NewReader("testdata/toy.mps").Problem()
	require.NoError(t, err)
	s, err := simplex.NewSolver(p)
	require.NoError(t, err)
	require.Equal(t, simplex.Optimal, s.Solve())

	want, err := CrossCheck("testdata/toy.mps")
	require.NoError(t, err)
	assert.InDelta(t, -3.2, want, delta)
	assert.InDelta(t, want, s.Objective(), delta)
}

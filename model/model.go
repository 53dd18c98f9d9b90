package model

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrIndexRange = errors.New("model: index out of range")
	ErrBounds     = errors.New("model: invalid bounds")
	ErrBadBasis   = errors.New("model: invalid basis")
	ErrDuplicate  = errors.New("model: duplicate index")
	ErrScale      = errors.New("model: scale factor must be positive")
)

// Entry is a non-zero element of a sparse row or column.
type Entry struct {
	Index int
	Value float64
}

// Problem is a linear program
//
//	minimize or maximize  c0 + c'x
//	subject to            xR = A xS,  bounds on xR and xS
//
// where xR are the auxiliary (row) variables and xS the structural
// (column) variables. Variables are stored rows first, then columns.
type Problem struct {
	Name     string
	Dir      Direction
	ObjConst float64

	vars []Variable

	//rows and cols hold the same (scaled) matrix by rows and by columns
	rows [][]Entry
	cols [][]Entry

	NumRows int
	NumCols int
}

func NewProblem(name string, dir Direction) *Problem {
	return &Problem{Name: name, Dir: dir}
}

// AddRows adds k free basic rows and returns the index of the first one.
func (p *Problem) AddRows(k int) int {
	first := p.NumRows
	added := make([]Variable, k)
	for i := range k {
		added[i] = Variable{ID: RowVar(first + i), Kind: Free, Tag: Basic, Scale: 1}
	}
	vars := make([]Variable, 0, len(p.vars)+k)
	vars = append(vars, p.vars[:p.NumRows]...)
	vars = append(vars, added...)
	vars = append(vars, p.vars[p.NumRows:]...)
	p.vars = vars
	p.rows = append(p.rows, make([][]Entry, k)...)
	p.NumRows += k
	return first
}

// AddCols adds k columns fixed at zero and returns the index of the first
// one.
func (p *Problem) AddCols(k int) int {
	first := p.NumCols
	for j := range k {
		p.vars = append(p.vars, Variable{ID: ColVar(first + j), Kind: Fixed, Tag: NonbasicFixed, Scale: 1})
	}
	p.cols = append(p.cols, make([][]Entry, k)...)
	p.NumCols += k
	return first
}

// AddScaledCol appends a column whose bounds, cost and coefficients are
// already expressed in the internal space. It returns the column index.
func (p *Problem) AddScaledCol(kind BoundKind, lb, ub, cost float64, tag Tag, col []Entry) int {
	j := p.AddCols(1)
	v := p.VarAt(p.NumRows + j)
	v.Kind, v.Lower, v.Upper, v.Cost, v.Tag = kind, lb, ub, cost, tag
	for _, e := range col {
		if e.Value == 0 {
			continue
		}
		p.cols[j] = append(p.cols[j], e)
		p.rows[e.Index] = append(p.rows[e.Index], Entry{Index: j, Value: e.Value})
	}
	return j
}

// RemoveCol deletes column c; the columns that follow are renumbered.
func (p *Problem) RemoveCol(c int) error {
	if c < 0 || c >= p.NumCols {
		return errors.Wrapf(ErrIndexRange, "column %d does not exist", c)
	}

	for _, e := range p.cols[c] {
		p.rows[e.Index] = dropEntry(p.rows[e.Index], c)
	}
	for i := range p.rows {
		for k := range p.rows[i] {
			if p.rows[i][k].Index > c {
				p.rows[i][k].Index--
			}
		}
	}

	p.cols = append(p.cols[:c], p.cols[c+1:]...)
	k := p.NumRows + c
	p.vars = append(p.vars[:k], p.vars[k+1:]...)
	p.NumCols--
	for j := c; j < p.NumCols; j++ {
		p.vars[p.NumRows+j].ID.Index = j
	}
	return nil
}

// Flat maps a variable identifier to its position in rows-then-columns
// order.
func (p *Problem) Flat(id VarID) int {
	if id.Origin == Row {
		return id.Index
	}
	return p.NumRows + id.Index
}

// ID is the inverse of Flat.
func (p *Problem) ID(k int) VarID {
	return p.vars[k].ID
}

// VarAt returns the variable stored at flat position k.
func (p *Problem) VarAt(k int) *Variable {
	return &p.vars[k]
}

// Var returns the variable identified by id.
func (p *Problem) Var(id VarID) (*Variable, error) {
	if err := p.check(id); err != nil {
		return nil, err
	}
	return &p.vars[p.Flat(id)], nil
}

func (p *Problem) check(id VarID) error {
	n := p.NumCols
	if id.Origin == Row {
		n = p.NumRows
	}
	if id.Index < 0 || id.Index >= n {
		return errors.Wrapf(ErrIndexRange, "%v does not exist", id)
	}
	return nil
}

// Rows returns the row variables. Their bounds and costs are internal
// values.
func (p *Problem) Rows() []Variable { return p.vars[:p.NumRows] }

// Cols returns the column variables.
func (p *Problem) Cols() []Variable { return p.vars[p.NumRows:] }

// Row returns the scaled non-zeros of row i. The slice must not be
// modified.
func (p *Problem) Row(i int) []Entry { return p.rows[i] }

// Col returns the scaled non-zeros of column j. The slice must not be
// modified.
func (p *Problem) Col(j int) []Entry { return p.cols[j] }

func (p *Problem) SetRowName(i int, name string) error { return p.setName(RowVar(i), name) }

func (p *Problem) SetColName(j int, name string) error { return p.setName(ColVar(j), name) }

func (p *Problem) setName(id VarID, name string) error {
	v, err := p.Var(id)
	if err != nil {
		return err
	}
	v.Name = name
	return nil
}

func (p *Problem) SetRowBounds(i int, kind BoundKind, lb, ub float64) error {
	return p.SetBounds(RowVar(i), kind, lb, ub)
}

func (p *Problem) SetColBounds(j int, kind BoundKind, lb, ub float64) error {
	return p.SetBounds(ColVar(j), kind, lb, ub)
}

// SetBounds sets the bound kind and values of a variable, given in the
// caller's space. Unused bounds are ignored. A non-basic tag that no
// longer fits the kind is replaced.
func (p *Problem) SetBounds(id VarID, kind BoundKind, lb, ub float64) error {
	v, err := p.Var(id)
	if err != nil {
		return err
	}
	if kind < Free || kind > Fixed {
		return errors.Wrapf(ErrBounds, "%v: unknown bound kind %d", id, kind)
	}
	if kind == Double && lb > ub {
		return errors.Wrapf(ErrBounds, "%v: lower bound %g above upper bound %g", id, lb, ub)
	}
	if !kind.HasLower() {
		lb = 0
	}
	if !kind.HasUpper() {
		ub = 0
	}
	if kind == Fixed {
		ub = lb
	}
	f := toInternal(v)
	v.Kind, v.Lower, v.Upper = kind, lb*f, ub*f
	if v.Tag != Basic && !v.Tag.ConsistentWith(kind) {
		v.Tag = DefaultNonbasic(kind)
	}
	return nil
}

// Bounds returns the bound kind and values of a variable in the caller's
// space.
func (p *Problem) Bounds(id VarID) (BoundKind, float64, float64, error) {
	v, err := p.Var(id)
	if err != nil {
		return Free, 0, 0, err
	}
	f := toInternal(v)
	return v.Kind, v.Lower / f, v.Upper / f, nil
}

// SetObjCoef sets the objective coefficient of column j.
func (p *Problem) SetObjCoef(j int, coef float64) error {
	v, err := p.Var(ColVar(j))
	if err != nil {
		return err
	}
	v.Cost = coef / toInternal(v)
	return nil
}

func (p *Problem) SetObjConst(c float64) { p.ObjConst = c }

func (p *Problem) SetDirection(d Direction) { p.Dir = d }

// ObjCoef returns the objective coefficient of a variable in the caller's
// space.
func (p *Problem) ObjCoef(id VarID) (float64, error) {
	v, err := p.Var(id)
	if err != nil {
		return 0, err
	}
	return v.Cost * toInternal(v), nil
}

// SetC sets all column objective coefficients at once.
func (p *Problem) SetC(cVec []float64) error {
	if len(cVec) != p.NumCols {
		return errors.New("model: mismatch number of variables")
	}
	for j, c := range cVec {
		if err := p.SetObjCoef(j, c); err != nil {
			return err
		}
	}
	return nil
}

// SetMatRow replaces row i of the constraint matrix.
func (p *Problem) SetMatRow(i int, ind []int, val []float64) error {
	if i < 0 || i >= p.NumRows {
		return errors.Wrapf(ErrIndexRange, "row %d does not exist", i)
	}
	if len(ind) != len(val) {
		return errors.Errorf("model: row %d: %d indices but %d values", i, len(ind), len(val))
	}
	seen := make(map[int]bool, len(ind))
	for _, j := range ind {
		if j < 0 || j >= p.NumCols {
			return errors.Wrapf(ErrIndexRange, "row %d: column %d does not exist", i, j)
		}
		if seen[j] {
			return errors.Wrapf(ErrDuplicate, "row %d: column %d", i, j)
		}
		seen[j] = true
	}

	for _, e := range p.rows[i] {
		p.cols[e.Index] = dropEntry(p.cols[e.Index], i)
	}
	p.rows[i] = p.rows[i][:0]
	ri := p.vars[i].Scale
	for k, j := range ind {
		if val[k] == 0 {
			continue
		}
		a := ri * val[k] * p.vars[p.NumRows+j].Scale
		p.rows[i] = append(p.rows[i], Entry{Index: j, Value: a})
		p.cols[j] = append(p.cols[j], Entry{Index: i, Value: a})
	}
	return nil
}

// SetMatCol replaces column j of the constraint matrix.
func (p *Problem) SetMatCol(j int, ind []int, val []float64) error {
	if j < 0 || j >= p.NumCols {
		return errors.Wrapf(ErrIndexRange, "column %d does not exist", j)
	}
	if len(ind) != len(val) {
		return errors.Errorf("model: column %d: %d indices but %d values", j, len(ind), len(val))
	}
	seen := make(map[int]bool, len(ind))
	for _, i := range ind {
		if i < 0 || i >= p.NumRows {
			return errors.Wrapf(ErrIndexRange, "column %d: row %d does not exist", j, i)
		}
		if seen[i] {
			return errors.Wrapf(ErrDuplicate, "column %d: row %d", j, i)
		}
		seen[i] = true
	}

	for _, e := range p.cols[j] {
		p.rows[e.Index] = dropEntry(p.rows[e.Index], j)
	}
	p.cols[j] = p.cols[j][:0]
	sj := p.vars[p.NumRows+j].Scale
	for k, i := range ind {
		if val[k] == 0 {
			continue
		}
		a := p.vars[i].Scale * val[k] * sj
		p.cols[j] = append(p.cols[j], Entry{Index: i, Value: a})
		p.rows[i] = append(p.rows[i], Entry{Index: j, Value: a})
	}
	return nil
}

// SetDense loads the whole constraint matrix from a dense row-major
// slice.
func (p *Problem) SetDense(aVec []float64) error {
	if len(aVec) != p.NumCols*p.NumRows {
		return errors.New("model: mismatch number of variables and/or constraints")
	}
	ind := make([]int, p.NumCols)
	for j := range ind {
		ind[j] = j
	}
	for i := range p.NumRows {
		if err := p.SetMatRow(i, ind, aVec[i*p.NumCols:(i+1)*p.NumCols]); err != nil {
			return err
		}
	}
	return nil
}

// Dense returns the constraint matrix in the caller's space.
func (p *Problem) Dense() *mat.Dense {
	if p.NumRows == 0 || p.NumCols == 0 {
		return &mat.Dense{}
	}
	a := mat.NewDense(p.NumRows, p.NumCols, nil)
	for i := range p.NumRows {
		for _, e := range p.rows[i] {
			a.Set(i, e.Index, e.Value/(p.vars[i].Scale*p.vars[p.NumRows+e.Index].Scale))
		}
	}
	return a
}

// SetScale rescales the problem so that the internal matrix becomes
// R*A*S with R = diag(rowScale) and S = diag(colScale). Values set
// afterwards through the setters are still given in the caller's space.
func (p *Problem) SetScale(rowScale, colScale []float64) error {
	if len(rowScale) != p.NumRows || len(colScale) != p.NumCols {
		return errors.New("model: mismatch number of scale factors")
	}
	for _, s := range append(append([]float64{}, rowScale...), colScale...) {
		if !(s > 0) || math.IsInf(s, 0) {
			return errors.Wrapf(ErrScale, "got %g", s)
		}
	}

	fr := make([]float64, p.NumRows)
	for i, s := range rowScale {
		v := &p.vars[i]
		f := s / v.Scale
		v.Lower *= f
		v.Upper *= f
		v.Cost /= f
		v.Scale = s
		fr[i] = f
	}
	for j, s := range colScale {
		v := &p.vars[p.NumRows+j]
		f := s / v.Scale
		v.Lower /= f
		v.Upper /= f
		v.Cost *= f
		v.Scale = s
		for k, e := range p.cols[j] {
			p.cols[j][k].Value *= fr[e.Index] * f
		}
	}

	// rebuild the row lists from the columns so both views agree
	for i := range p.rows {
		p.rows[i] = p.rows[i][:0]
	}
	for j, col := range p.cols {
		for _, e := range col {
			p.rows[e.Index] = append(p.rows[e.Index], Entry{Index: j, Value: e.Value})
		}
	}
	return nil
}

// SetRowStatus tags row i for warm start.
func (p *Problem) SetRowStatus(i int, tag Tag) error { return p.SetTag(RowVar(i), tag) }

// SetColStatus tags column j for warm start.
func (p *Problem) SetColStatus(j int, tag Tag) error { return p.SetTag(ColVar(j), tag) }

func (p *Problem) SetTag(id VarID, tag Tag) error {
	v, err := p.Var(id)
	if err != nil {
		return err
	}
	if !tag.ConsistentWith(v.Kind) {
		return errors.Wrapf(ErrBadBasis, "%v: tag %v does not fit bounds %v", id, tag, v.Kind)
	}
	v.Tag = tag
	return nil
}

// StdBasis makes every row basic and every column non-basic. A double
// bounded column is placed on the bound with the smaller magnitude.
func (p *Problem) StdBasis() {
	for k := range p.vars {
		v := &p.vars[k]
		switch {
		case v.ID.IsRow():
			v.Tag = Basic
		case v.Kind == Double && math.Abs(v.Upper) < math.Abs(v.Lower):
			v.Tag = AtUpper
		default:
			v.Tag = DefaultNonbasic(v.Kind)
		}
	}
}

// Clone returns a deep copy of the problem, so that independent solves do
// not share state.
func (p *Problem) Clone() *Problem {
	q := *p
	q.vars = append([]Variable(nil), p.vars...)
	q.rows = cloneLists(p.rows)
	q.cols = cloneLists(p.cols)
	return &q
}

func (p *Problem) String() string {
	return fmt.Sprintf("%s: %s, %d rows, %d columns", p.Name, p.Dir, p.NumRows, p.NumCols)
}

// toInternal returns the factor that converts a value of the variable
// from the caller's space into the internal space.
func toInternal(v *Variable) float64 {
	if v.ID.IsRow() {
		return v.Scale
	}
	return 1 / v.Scale
}

func dropEntry(list []Entry, index int) []Entry {
	for k, e := range list {
		if e.Index == index {
			return append(list[:k], list[k+1:]...)
		}
	}
	return list
}

func cloneLists(lists [][]Entry) [][]Entry {
	out := make([][]Entry, len(lists))
	for i, l := range lists {
		out[i] = append([]Entry(nil), l...)
	}
	return out
}

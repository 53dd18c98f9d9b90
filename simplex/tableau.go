package simplex

import (
	"math"

	"github.com/pkg/errors"
	"q.log/revsimplex/model"
)

// Term is one coefficient of a linear form over the variables of the
// problem.
type Term struct {
	Var  model.VarID
	Coef float64
}

// unscale returns the factor that maps an internal value of the variable
// at flat position k back to the caller's space.
func (s *Solver) unscale(k int) float64 {
	v := s.prob.VarAt(k)
	if v.ID.IsRow() {
		return 1 / v.Scale
	}
	return v.Scale
}

func (s *Solver) needBasis() error {
	if !s.valid || s.head == nil {
		return ErrInvalidBasis
	}
	return nil
}

// EvalTableauRow returns the row of the simplex table for the basic
// variable id,
//
//	x[id] = sum alfa[j] * xN[j],
//
// as the non-zero coefficients alfa[j] over the non-basic variables.
func (s *Solver) EvalTableauRow(id model.VarID) ([]Term, error) {
	if err := s.needBasis(); err != nil {
		return nil, err
	}
	if _, err := s.prob.Var(id); err != nil {
		return nil, err
	}
	k := s.prob.Flat(id)
	p := s.pos[k]
	if p >= s.m {
		return nil, errors.Wrapf(ErrNotBasic, "%v", id)
	}

	rho := make([]float64, s.m)
	row := make([]float64, s.n)
	s.evalRho(p, rho)
	s.evalRow(rho, row)

	sb := s.unscale(k)
	var out []Term
	for j, a := range row {
		if a == 0 {
			continue
		}
		kn := s.head[s.m+j]
		out = append(out, Term{Var: s.prob.ID(kn), Coef: sb / s.unscale(kn) * a})
	}
	return out, nil
}

// EvalTableauCol returns the column of the simplex table for the
// non-basic variable id: the non-zero influence coefficients of id on the
// basic variables.
func (s *Solver) EvalTableauCol(id model.VarID) ([]Term, error) {
	if err := s.needBasis(); err != nil {
		return nil, err
	}
	if _, err := s.prob.Var(id); err != nil {
		return nil, err
	}
	k := s.prob.Flat(id)
	slot := s.pos[k]
	if slot < s.m {
		return nil, errors.Wrapf(ErrNotNonbasic, "%v", id)
	}

	col := make([]float64, s.m)
	s.evalCol(slot-s.m, col, false)

	sn := s.unscale(k)
	var out []Term
	for i, a := range col {
		if a == 0 {
			continue
		}
		kb := s.head[i]
		out = append(out, Term{Var: s.prob.ID(kb), Coef: s.unscale(kb) / sn * a})
	}
	return out, nil
}

// checkForm validates that every term refers to an existing variable of
// the given origin, without repeats.
func (s *Solver) checkForm(form []Term, origin model.Origin) error {
	seen := make(map[model.VarID]bool, len(form))
	for t, term := range form {
		if term.Var.Origin != origin {
			return errors.Wrapf(ErrBadForm, "term %d: %v", t, term.Var)
		}
		if _, err := s.prob.Var(term.Var); err != nil {
			return errors.Wrapf(err, "term %d", t)
		}
		if seen[term.Var] {
			return errors.Wrapf(ErrBadForm, "term %d: %v repeated", t, term.Var)
		}
		seen[term.Var] = true
	}
	return nil
}

// TransformRow expresses the linear form
//
//	x = sum a[j] * xS[j]
//
// over structural variables through the non-basic variables of the
// current basis,
//
//	x = sum alfa[k] * xN[k].
func (s *Solver) TransformRow(row []Term) ([]Term, error) {
	if err := s.needBasis(); err != nil {
		return nil, err
	}
	if err := s.checkForm(row, model.Col); err != nil {
		return nil, err
	}

	m := s.m
	v := make([]float64, m)
	alfa := make([]float64, s.n)
	for _, t := range row {
		k := s.prob.Flat(t.Var)
		a := t.Coef * s.unscale(k)
		if slot := s.pos[k]; slot < m {
			v[slot] += a
		} else {
			alfa[slot-m] = a
		}
	}
	s.btran(v)

	var out []Term
	for j := range alfa {
		k := s.head[m+j]
		s.augCol(k, func(i int, a float64) { alfa[j] -= v[i] * a })
		if alfa[j] != 0 {
			out = append(out, Term{Var: s.prob.ID(k), Coef: alfa[j] / s.unscale(k)})
		}
	}
	return out, nil
}

// TransformCol expresses the column a of an extra structural variable,
// given over the rows, through the basic variables of the current basis:
// it returns inv(B) * a.
func (s *Solver) TransformCol(col []Term) ([]Term, error) {
	if err := s.needBasis(); err != nil {
		return nil, err
	}
	if err := s.checkForm(col, model.Row); err != nil {
		return nil, err
	}

	alfa := make([]float64, s.m)
	for _, t := range col {
		i := t.Var.Index
		alfa[i] += t.Coef / s.unscale(i)
	}
	s.ftran(alfa, false)

	var out []Term
	for i, a := range alfa {
		if a == 0 {
			continue
		}
		k := s.head[i]
		out = append(out, Term{Var: s.prob.ID(k), Coef: a * s.unscale(k)})
	}
	return out, nil
}

func checkRatioArgs(how int, tol float64) error {
	if how != 1 && how != -1 {
		return errors.Errorf("simplex: how = %d; must be +1 or -1", how)
	}
	if !(tol > 0 && tol < 1) {
		return errors.Wrapf(ErrBadTolerance, "tol = %g", tol)
	}
	return nil
}

// PrimalRatioTest finds the basic variable that first reaches a bound
// when a non-basic variable with the column col (as returned by
// EvalTableauCol) increases (how = +1) or decreases (how = -1). Ties go
// to the largest influence coefficient. It reports false when no basic
// variable limits the move. The basic solution must be primal feasible.
func (s *Solver) PrimalRatioTest(col []Term, how int, tol float64) (model.VarID, bool, error) {
	var none model.VarID
	if err := s.needBasis(); err != nil {
		return none, false, err
	}
	if s.pStat != Feas {
		return none, false, ErrNotFeasible
	}
	if err := checkRatioArgs(how, tol); err != nil {
		return none, false, err
	}

	big := 0.0
	for _, t := range col {
		big = math.Max(big, math.Abs(t.Coef))
	}
	eps := tol * (1 + big)

	found := false
	var best model.VarID
	teta := math.MaxFloat64
	big = 0
	for _, t := range col {
		v, err := s.prob.Var(t.Var)
		if err != nil {
			return none, false, err
		}
		k := s.prob.Flat(t.Var)
		slot := s.pos[k]
		if slot >= s.m {
			return none, false, errors.Wrapf(ErrNotBasic, "%v", t.Var)
		}
		sc := s.unscale(k)
		lb, ub, b := v.Lower*sc, v.Upper*sc, s.bbar[slot]*sc
		a := float64(how) * t.Coef
		abs := math.Abs(a)

		var temp float64
		switch {
		case v.Kind == model.Free:
			continue
		case v.Kind == model.Lower || v.Kind == model.Double && a < 0:
			if a > -eps {
				continue
			}
			temp = (lb - b) / a
		case v.Kind == model.Upper || v.Kind == model.Double:
			if a < eps {
				continue
			}
			temp = (ub - b) / a
		case v.Kind == model.Fixed:
			if abs < eps {
				continue
			}
			temp = 0
		}
		temp = math.Max(temp, 0)
		if teta > temp || (teta == temp && big < abs) {
			best, teta, big, found = t.Var, temp, abs, true
		}
	}
	return best, found, nil
}

// DualRatioTest finds the non-basic variable whose reduced cost first
// reaches zero when a basic variable with the row row (as returned by
// EvalTableauRow) increases (how = +1) or decreases (how = -1). It
// reports false when no non-basic variable limits the move. The basic
// solution must be dual feasible.
func (s *Solver) DualRatioTest(row []Term, how int, tol float64) (model.VarID, bool, error) {
	var none model.VarID
	if err := s.needBasis(); err != nil {
		return none, false, err
	}
	if s.dStat != Feas {
		return none, false, errors.Wrap(ErrNotFeasible, "dual")
	}
	if err := checkRatioArgs(how, tol); err != nil {
		return none, false, err
	}

	big := 0.0
	for _, t := range row {
		big = math.Max(big, math.Abs(t.Coef))
	}
	eps := tol * (1 + big)

	found := false
	var best model.VarID
	teta := math.MaxFloat64
	big = 0
	for _, t := range row {
		v, err := s.prob.Var(t.Var)
		if err != nil {
			return none, false, err
		}
		k := s.prob.Flat(t.Var)
		slot := s.pos[k]
		if slot < s.m {
			return none, false, errors.Wrapf(ErrNotNonbasic, "%v", t.Var)
		}
		d := s.dir * s.cbar[slot-s.m] / s.unscale(k)
		a := float64(how) * t.Coef
		abs := math.Abs(a)

		var temp float64
		switch v.Tag {
		case model.AtLower:
			if a < eps {
				continue
			}
			temp = d / a
		case model.AtUpper:
			if a > -eps {
				continue
			}
			temp = d / a
		case model.NonbasicFree:
			if abs < eps {
				continue
			}
			temp = 0
		default:
			continue
		}
		temp = math.Max(temp, 0)
		if teta > temp || (teta == temp && big < abs) {
			best, teta, big, found = t.Var, temp, abs, true
		}
	}
	return best, found, nil
}

// EvalActivity returns the value of the linear form sum a[j] * xS[j]
// over structural variables in the current basic solution.
func (s *Solver) EvalActivity(row []Term) (float64, error) {
	if err := s.checkForm(row, model.Col); err != nil {
		return 0, err
	}
	sum := 0.0
	for _, t := range row {
		if t.Coef == 0 {
			continue
		}
		x, err := s.Value(t.Var)
		if err != nil {
			return 0, err
		}
		sum += t.Coef * x
	}
	return sum, nil
}

// EvalRedCost returns the reduced cost, pi * a, that an extra structural
// variable with the column a and a zero objective coefficient would have
// in the current basic solution.
func (s *Solver) EvalRedCost(col []Term) (float64, error) {
	if !s.valid || s.dStat == Undef {
		return 0, ErrInvalidBasis
	}
	if err := s.checkForm(col, model.Row); err != nil {
		return 0, err
	}
	d := 0.0
	for _, t := range col {
		i := t.Var.Index
		d += s.pi[i] / s.unscale(i) * t.Coef
	}
	return d, nil
}

// ReduceForm substitutes every auxiliary variable of the linear form by
// its row, so that the result is expressed through structural variables
// only. The terms of the result are ordered by column.
func ReduceForm(p *model.Problem, form []Term) ([]Term, error) {
	work := make([]float64, p.NumCols)
	for t, term := range form {
		v, err := p.Var(term.Var)
		if err != nil {
			return nil, errors.Wrapf(err, "term %d", t)
		}
		if !term.Var.IsRow() {
			work[term.Var.Index] += term.Coef
			continue
		}
		for _, e := range p.Row(term.Var.Index) {
			aij := e.Value / (v.Scale * p.VarAt(p.NumRows+e.Index).Scale)
			work[e.Index] += term.Coef * aij
		}
	}
	var out []Term
	for j, a := range work {
		if a != 0 {
			out = append(out, Term{Var: model.ColVar(j), Coef: a})
		}
	}
	return out, nil
}

package simplex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"q.log/revsimplex/model"
)

// evalXN returns the value of the non-basic variable in slot m+j.
func (s *Solver) evalXN(j int) float64 {
	return s.prob.VarAt(s.head[s.m+j]).Value()
}

// evalBbar computes bbar = inv(B) * (-N * xN).
func (s *Solver) evalBbar() {
	rhs := s.bbar
	clear(rhs)
	for j := range s.n {
		x := s.evalXN(j)
		if x == 0 {
			continue
		}
		s.augCol(s.head[s.m+j], func(i int, v float64) { rhs[i] -= v * x })
	}
	s.ftran(rhs, false)
}

// evalPi computes pi = inv(B') * cB.
func (s *Solver) evalPi() {
	for i := range s.m {
		s.pi[i] = s.coef[s.head[i]]
	}
	s.btran(s.pi)
}

// evalCbar computes d = cN - N' * pi.
func (s *Solver) evalCbar() {
	for j := range s.n {
		k := s.head[s.m+j]
		d := s.coef[k]
		s.augCol(k, func(i int, v float64) { d -= s.pi[i] * v })
		s.cbar[j] = d
	}
}

func (s *Solver) evalObj() float64 {
	obj := s.coef0
	for k, c := range s.coef {
		if c == 0 {
			continue
		}
		slot := s.pos[k]
		if slot < s.m {
			obj += c * s.bbar[slot]
		} else {
			obj += c * s.prob.VarAt(k).Value()
		}
	}
	return obj
}

// evalCol computes column j of the simplex table, -inv(B) * N[j]. With
// save set the factorization keeps the transformed column for the
// following update.
func (s *Solver) evalCol(j int, col []float64, save bool) {
	clear(col)
	s.augCol(s.head[s.m+j], func(i int, v float64) { col[i] = v })
	s.ftran(col, save)
	floats.Scale(-1, col)
}

// evalRho computes row i of inv(B).
func (s *Solver) evalRho(i int, rho []float64) {
	clear(rho)
	rho[i] = 1
	s.btran(rho)
}

// evalRow computes the row of the simplex table -N' * rho, where rho is
// a row of inv(B).
func (s *Solver) evalRow(rho, row []float64) {
	clear(row)
	for i, r := range rho {
		if r == 0 {
			continue
		}
		if slot := s.pos[i]; slot >= s.m {
			row[slot-s.m] -= r
		}
		for _, e := range s.prob.Row(i) {
			if slot := s.pos[s.prob.Flat(model.ColVar(e.Index))]; slot >= s.m {
				row[slot-s.m] += r * e.Value
			}
		}
	}
}

// checkBbar returns the sum of relative bound violations of the basic
// variables exceeding tol; zero means primal feasible.
func (s *Solver) checkBbar(tol float64) float64 {
	sum := 0.0
	for i, b := range s.bbar {
		v := s.prob.VarAt(s.head[i])
		if v.Kind.HasLower() {
			if t := (v.Lower - b) / (1 + math.Abs(v.Lower)); t > tol {
				sum += t
			}
		}
		if v.Kind.HasUpper() {
			if t := (b - v.Upper) / (1 + math.Abs(v.Upper)); t > tol {
				sum += t
			}
		}
	}
	return sum
}

// checkCbar returns the sum of reduced cost sign violations exceeding
// tol; zero means dual feasible.
func (s *Solver) checkCbar(tol float64) float64 {
	sum := 0.0
	for j, c := range s.cbar {
		d := s.dir * c
		switch s.prob.VarAt(s.head[s.m+j]).Tag {
		case model.AtLower:
			if d < -tol {
				sum -= d
			}
		case model.AtUpper:
			if d > tol {
				sum += d
			}
		case model.NonbasicFree:
			if d < -tol {
				sum -= d
			}
			if d > tol {
				sum += d
			}
		}
	}
	return sum
}

// CheckBbar is checkBbar with the primal feasibility tolerance.
func (s *Solver) CheckBbar() float64 { return s.checkBbar(s.opts.TolBnd) }

// CheckCbar is checkCbar with the dual feasibility tolerance.
func (s *Solver) CheckCbar() float64 { return s.checkCbar(s.opts.TolDj) }

// ErrInBbar returns max|bbar - bbar'| where bbar' is computed from
// scratch; the current bbar is left unchanged.
func (s *Solver) ErrInBbar() float64 {
	saved := append([]float64(nil), s.bbar...)
	s.evalBbar()
	d := maxAbsDiff(saved, s.bbar)
	copy(s.bbar, saved)
	return d
}

// ErrInPi returns max|pi - pi'| where pi' is computed from scratch.
func (s *Solver) ErrInPi() float64 {
	saved := append([]float64(nil), s.pi...)
	s.evalPi()
	d := maxAbsDiff(saved, s.pi)
	copy(s.pi, saved)
	return d
}

// ErrInCbar returns max|cbar - cbar'| where cbar' is computed from
// scratch from the current pi. Non-basic fixed variables are skipped
// unless all is set.
func (s *Solver) ErrInCbar(all bool) float64 {
	saved := append([]float64(nil), s.cbar...)
	s.evalCbar()
	dmax := 0.0
	for j := range s.n {
		if !all && s.prob.VarAt(s.head[s.m+j]).Tag == model.NonbasicFixed {
			continue
		}
		dmax = math.Max(dmax, math.Abs(saved[j]-s.cbar[j]))
	}
	copy(s.cbar, saved)
	return dmax
}

func maxAbsDiff(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

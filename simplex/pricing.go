package simplex

import (
	"math"

	"q.log/revsimplex/model"
)

const (
	// noPivot means the ratio test found no limiting basic variable.
	noPivot = -1
	// boundFlip means the entering variable reaches its opposite bound
	// before any basic variable reaches a bound.
	boundFlip = -2
)

// workspace holds the vectors owned by one driver run. Pivot indices are
// basis slots: p in 0..m-1 (or noPivot, boundFlip) and q in 0..n-1 (or
// -1).
type workspace struct {
	p    int
	pTag model.Tag
	q    int

	zeta []float64 // row p of inv(B)
	ap   []float64 // row p of the simplex table
	aq   []float64 // column q of the simplex table

	// steepest edge weights of non-basic (gvec) and basic (dvec)
	// variables, and the reference space by flat variable position
	gvec  []float64
	dvec  []float64
	refsp []bool
	count int
	work  []float64
}

func newWorkspace(m, n int) *workspace {
	return &workspace{
		p:     noPivot,
		q:     -1,
		zeta:  make([]float64, m),
		ap:    make([]float64, n),
		aq:    make([]float64, m),
		gvec:  ones(n),
		dvec:  ones(m),
		refsp: make([]bool, m+n),
		work:  make([]float64, m),
	}
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// resetRefSpace makes the current non-basic (primal) or basic (dual)
// variables the reference space and sets their weights to one.
func (s *Solver) resetRefSpace(w *workspace, dual bool) {
	for k := range w.refsp {
		basic := s.pos[k] < s.m
		w.refsp[k] = basic == dual
	}
	if dual {
		for i := range w.dvec {
			w.dvec[i] = 1
		}
	} else {
		for j := range w.gvec {
			w.gvec[j] = 1
		}
	}
	w.count = s.opts.RefSpaceReset
}

// initWeights prepares the weights at the start of a driver run.
func (s *Solver) initWeights(w *workspace, dual bool) {
	if s.opts.Pricing == SteepestEdge {
		s.resetRefSpace(w, dual)
		return
	}
	for i := range w.dvec {
		w.dvec[i] = 1
	}
	for j := range w.gvec {
		w.gvec[j] = 1
	}
}

// chooseEnteringPrimal selects the non-basic variable xN[q] with the
// largest cbar[j]^2 / gvec[j] among those that improve the objective. The
// winner's reduced cost is checked against a direct computation; on
// mismatch, or when nothing qualifies, bbar, pi and cbar are recomputed
// once and the choice repeated. It reports whether the recomputation
// happened.
func (s *Solver) chooseEnteringPrimal(w *workspace, tol float64) bool {
	recomputed := false
	for {
		q, best := -1, -1.0
		for j, d := range s.cbar {
			if d == 0 {
				continue
			}
			dd := s.dir * d
			switch s.prob.VarAt(s.head[s.m+j]).Tag {
			case model.AtLower:
				if dd > -tol {
					continue
				}
			case model.AtUpper:
				if dd < tol {
					continue
				}
			case model.NonbasicFree:
				if -tol < dd && dd < tol {
					continue
				}
			case model.NonbasicFixed:
				continue
			}
			if temp := d * d / w.gvec[j]; best < temp {
				q, best = j, temp
			}
		}
		w.q = q
		if recomputed {
			return true
		}

		if q >= 0 {
			k := s.head[s.m+q]
			dq := s.coef[k]
			s.augCol(k, func(i int, v float64) { dq -= s.pi[i] * v })
			if math.Abs(s.cbar[q]-dq)/(1+math.Abs(dq)) <= 0.1*tol {
				s.cbar[q] = dq
				return false
			}
		}
		recomputed = true
		s.evalBbar()
		s.evalPi()
		s.evalCbar()
	}
}

// chooseLeavingDual selects the basic variable xB[p] with the largest
// squared bound violation divided by dvec[p].
func (s *Solver) chooseLeavingDual(w *workspace, tol float64) {
	w.p = noPivot
	best := 0.0
	for i, b := range s.bbar {
		v := s.prob.VarAt(s.head[i])
		viol, tag := 0.0, model.Basic
		if v.Kind.HasLower() && (b-v.Lower)/(1+math.Abs(v.Lower)) < -tol {
			viol, tag = v.Lower-b, model.AtLower
		}
		if v.Kind.HasUpper() && (b-v.Upper)/(1+math.Abs(v.Upper)) > tol {
			viol, tag = b-v.Upper, model.AtUpper
		}
		if tag == model.Basic {
			continue
		}
		if temp := viol * viol / w.dvec[i]; best < temp {
			w.p, w.pTag, best = i, tag, temp
		}
	}
}

// updateGvec updates the primal steepest edge weights for the pivot
// (p, q). It must be called before the basis changes.
func (s *Solver) updateGvec(w *workspace) {
	if w.count <= 0 {
		s.resetRefSpace(w, false)
		return
	}
	w.count--

	m := s.m
	p, q := w.p, w.q
	ap, aq, gvec, refsp, u := w.ap, w.aq, w.gvec, w.refsp, w.work

	t1 := 0.0
	for i := range m {
		if i != p && refsp[s.head[i]] {
			u[i] = aq[i]
			t1 += u[i] * u[i]
		} else {
			u[i] = 0
		}
	}
	s.btran(u)

	refP, refQ := refsp[s.head[p]], refsp[s.head[m+q]]
	apQ := ap[q]
	for j := range s.n {
		if j == q {
			continue
		}
		k := s.head[m+j]
		if s.prob.VarAt(k).Tag == model.NonbasicFixed {
			gvec[j] = 1
			continue
		}
		refK := refsp[k]
		apJ, sj := ap[j], gvec[j]
		if refP {
			sj -= apJ * apJ
		}
		if refK {
			sj -= 1
		}
		t3 := 0.0
		if apJ != 0 {
			t2 := 0.0
			s.augCol(k, func(i int, v float64) { t2 += v * u[i] })
			t3 = apJ / apQ
			sj += (2*t2 + t1*t3) * t3
		}
		if refK {
			sj += 1
		}
		if refQ {
			sj += t3 * t3
		}
		if sj < dblEpsilon {
			sj = 1
		}
		gvec[j] = sj
	}

	sum := 0.0
	if refP {
		sum = 1
	}
	temp := apQ * apQ
	for i := range m {
		switch {
		case i == p:
			if refQ {
				sum += 1 / temp
			}
		case refsp[s.head[i]]:
			sum += aq[i] * aq[i] / temp
		}
	}
	gvec[q] = sum
}

// updateDvec updates the dual steepest edge weights for the pivot (p, q).
// It must be called before the basis changes.
func (s *Solver) updateDvec(w *workspace) {
	if w.count <= 0 {
		s.resetRefSpace(w, true)
		return
	}
	w.count--

	m := s.m
	p, q := w.p, w.q
	ap, aq, dvec, refsp, u := w.ap, w.aq, w.dvec, w.refsp, w.work

	t1 := 0.0
	clear(u)
	for j := range s.n {
		k := s.head[m+j]
		if j == q || !refsp[k] {
			continue
		}
		apJ := ap[j]
		t1 += apJ * apJ
		if apJ == 0 {
			continue
		}
		s.augCol(k, func(i int, v float64) { u[i] += apJ * v })
	}
	s.ftran(u, false)

	refP, refQ := refsp[s.head[p]], refsp[s.head[m+q]]
	aqP := aq[p]
	for i := range m {
		if i == p {
			continue
		}
		k := s.head[i]
		if s.prob.VarAt(k).Kind == model.Free {
			dvec[i] = 1
			continue
		}
		refK := refsp[k]
		aqI, si := aq[i], dvec[i]
		if refK {
			si -= 1
		}
		if refQ {
			si -= aqI * aqI
		}
		temp := 0.0
		if aqI != 0 {
			temp = aqI / aqP
			si += (2*u[i] + t1*temp) * temp
		}
		if refK {
			si += 1
		}
		if refP {
			si += temp * temp
		}
		if si < dblEpsilon {
			si = 1
		}
		dvec[i] = si
	}

	sum := 0.0
	if refQ {
		sum = 1
	}
	temp := aqP * aqP
	for j := range s.n {
		switch {
		case j == q:
			if refP {
				sum += 1 / temp
			}
		case refsp[s.head[m+j]]:
			sum += ap[j] * ap[j] / temp
		}
	}
	dvec[p] = sum
}

// errInGvec returns the largest absolute difference between gvec and the
// weights computed from scratch.
func (s *Solver) errInGvec(w *workspace) float64 {
	col := make([]float64, s.m)
	dmax := 0.0
	for j := range s.n {
		k := s.head[s.m+j]
		if s.prob.VarAt(k).Kind == model.Fixed {
			continue
		}
		s.evalCol(j, col, false)
		g := 0.0
		if w.refsp[k] {
			g = 1
		}
		for i, a := range col {
			if w.refsp[s.head[i]] {
				g += a * a
			}
		}
		dmax = math.Max(dmax, math.Abs(g-w.gvec[j]))
	}
	return dmax
}

// errInDvec returns the largest absolute difference between dvec and the
// weights computed from scratch.
func (s *Solver) errInDvec(w *workspace) float64 {
	rho := make([]float64, s.m)
	row := make([]float64, s.n)
	dmax := 0.0
	for i := range s.m {
		k := s.head[i]
		if s.prob.VarAt(k).Kind == model.Free {
			continue
		}
		s.evalRho(i, rho)
		s.evalRow(rho, row)
		d := 0.0
		if w.refsp[k] {
			d = 1
		}
		for j, a := range row {
			if w.refsp[s.head[s.m+j]] {
				d += a * a
			}
		}
		dmax = math.Max(dmax, math.Abs(d-w.dvec[i]))
	}
	return dmax
}

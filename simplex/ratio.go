package simplex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"q.log/revsimplex/model"
)

const dblEpsilon = 2.220446049250313e-16

// chooseLeavingPrimal performs the primal ratio test for the entering
// column aq. With relax > 0 it is the Harris two pass test: the first
// pass finds the smallest ratio with bounds relaxed by relax, the second
// picks the largest pivot among the candidates within that ratio. The
// result is stored in w.p and w.pTag.
func (s *Solver) chooseLeavingPrimal(w *workspace, relax float64) {
	m := s.m
	aq := w.aq
	// make xN[q] always increase
	flipped := s.dir*s.cbar[w.q] > 0
	if flipped {
		floats.Scale(-1, aq)
	}
	eps := s.opts.TolPiv * (1 + floats.Norm(aq, math.Inf(1)))
	vq := s.prob.VarAt(s.head[m+w.q])

	p, tag := noPivot, model.Basic
	teta, big := math.MaxFloat64, 0.0
	if vq.Kind == model.Double {
		p, teta, big = boundFlip, (vq.Upper-vq.Lower)+relax, 1
	}
	for i := range m {
		temp, t, ok := s.primalRatio(i, aq[i], eps, relax)
		if !ok {
			continue
		}
		if abs := math.Abs(aq[i]); teta > temp || (teta == temp && big < abs) {
			p, tag, teta, big = i, t, temp, abs
		}
	}

	if relax != 0 && p != noPivot {
		teta *= 1 + 3*dblEpsilon
		p, tag, big = noPivot, model.Basic, 0
		if vq.Kind == model.Double && vq.Upper-vq.Lower <= teta {
			p, big = boundFlip, 1
		}
		for i := range m {
			temp, t, ok := s.primalRatio(i, aq[i], eps, 0)
			if !ok {
				continue
			}
			if abs := math.Abs(aq[i]); temp <= teta && big < abs {
				p, tag, big = i, t, abs
			}
		}
	}

	if flipped {
		floats.Scale(-1, aq)
	}
	w.p, w.pTag = p, tag
}

// primalRatio returns the step after which basic variable xB[i] reaches
// the bound it moves toward, given its influence coefficient a on an
// increasing entering variable, and the tag xB[i] takes on leaving.
func (s *Solver) primalRatio(i int, a, eps, relax float64) (float64, model.Tag, bool) {
	v := s.prob.VarAt(s.head[i])
	b := s.bbar[i]
	var temp float64
	var tag model.Tag
	switch {
	case v.Kind == model.Lower || v.Kind == model.Double && a < 0:
		if a > -eps {
			return 0, 0, false
		}
		temp, tag = ((v.Lower-relax)-b)/a, model.AtLower
	case v.Kind == model.Upper || v.Kind == model.Double && a > 0:
		if a < eps {
			return 0, 0, false
		}
		temp, tag = ((v.Upper+relax)-b)/a, model.AtUpper
	case v.Kind == model.Fixed:
		if -eps < a && a < eps {
			return 0, 0, false
		}
		temp, tag = relax/math.Abs(a), model.NonbasicFixed
	default:
		return 0, 0, false
	}
	return math.Max(temp, 0), tag, true
}

// chooseEnteringDual performs the dual ratio test for the pivot row ap,
// with the same two pass scheme as chooseLeavingPrimal. The result is
// stored in w.q.
func (s *Solver) chooseEnteringDual(w *workspace, relax float64) {
	ap := w.ap
	// make xB[p] always increase
	flipped := w.pTag == model.AtUpper
	if flipped {
		floats.Scale(-1, ap)
	}
	eps := s.opts.TolPiv * (1 + floats.Norm(ap, math.Inf(1)))

	q := -1
	teta, big := math.MaxFloat64, 0.0
	for j := range s.n {
		temp, ok := s.dualRatio(j, ap[j], eps, relax)
		if !ok {
			continue
		}
		if abs := math.Abs(ap[j]); teta > temp || (teta == temp && big < abs) {
			q, teta, big = j, temp, abs
		}
	}

	if relax != 0 && q >= 0 {
		teta *= 1 + 3*dblEpsilon
		q, big = -1, 0
		for j := range s.n {
			temp, ok := s.dualRatio(j, ap[j], eps, 0)
			if !ok {
				continue
			}
			if abs := math.Abs(ap[j]); temp <= teta && big < abs {
				q, big = j, abs
			}
		}
	}

	if flipped {
		floats.Scale(-1, ap)
	}
	w.q = q
}

// dualRatio returns the dual step after which the reduced cost of xN[j]
// changes sign, given its coefficient a in the pivot row.
func (s *Solver) dualRatio(j int, a, eps, relax float64) (float64, bool) {
	d := s.dir * s.cbar[j]
	var temp float64
	switch s.prob.VarAt(s.head[s.m+j]).Tag {
	case model.NonbasicFree:
		if -eps < a && a < eps {
			return 0, false
		}
		temp = relax / math.Abs(a)
	case model.AtLower:
		if a < eps {
			return 0, false
		}
		temp = (d + relax) / a
	case model.AtUpper:
		if a > -eps {
			return 0, false
		}
		temp = (d - relax) / a
	default:
		return 0, false
	}
	return math.Max(temp, 0), true
}

package simplex

import "q.log/revsimplex/model"

// updateBbar moves the basic solution to the adjacent vertex chosen by
// (p, q) and returns the resulting change of the objective.
func (s *Solver) updateBbar(w *workspace) float64 {
	m := s.m
	vq := s.prob.VarAt(s.head[m+w.q])
	var dxn float64

	if w.p == boundFlip {
		switch vq.Tag {
		case model.AtLower:
			dxn = vq.Upper - vq.Lower
		case model.AtUpper:
			dxn = vq.Lower - vq.Upper
		}
		for i, a := range w.aq {
			if a != 0 {
				s.bbar[i] += a * dxn
			}
		}
		return s.cbar[w.q] * dxn
	}

	vp := s.prob.VarAt(s.head[w.p])
	var target float64
	switch w.pTag {
	case model.AtLower, model.NonbasicFixed:
		target = vp.Lower
	case model.AtUpper:
		target = vp.Upper
	}
	dxn = (target - s.bbar[w.p]) / w.aq[w.p]
	// slot p is taken over by xN[q]
	s.bbar[w.p] = vq.Value() + dxn
	for i, a := range w.aq {
		if i != w.p && a != 0 {
			s.bbar[i] += a * dxn
		}
	}
	return s.cbar[w.q] * dxn
}

// updatePi updates the simplex multipliers for the pivot (p, q).
func (s *Solver) updatePi(w *workspace) {
	d := s.cbar[w.q] / w.ap[w.q]
	for i, z := range w.zeta {
		if z != 0 {
			s.pi[i] -= z * d
		}
	}
}

// updateCbar updates the reduced costs for the pivot (p, q). Slot q gets
// the reduced cost of the leaving variable. Unless all is set the reduced
// costs of non-basic fixed variables are zeroed instead.
func (s *Solver) updateCbar(w *workspace, all bool) {
	s.cbar[w.q] /= w.ap[w.q]
	d := s.cbar[w.q]
	for j, a := range w.ap {
		if j == w.q {
			continue
		}
		if !all && s.prob.VarAt(s.head[s.m+j]).Tag == model.NonbasicFixed {
			s.cbar[j] = 0
			continue
		}
		if a != 0 {
			s.cbar[j] -= a * d
		}
	}
}

// changeBasis makes xN[q] basic in slot p and xB[p] non-basic with tag
// pTag, or flips the bound of xN[q]. It reports whether the basis matrix
// must be factorized again.
func (s *Solver) changeBasis(w *workspace) bool {
	s.iter++
	if w.p == boundFlip {
		vq := s.prob.VarAt(s.head[s.m+w.q])
		switch vq.Tag {
		case model.AtLower:
			vq.Tag = model.AtUpper
		case model.AtUpper:
			vq.Tag = model.AtLower
		}
		return false
	}

	s.exchange(w)
	return s.update(w.p)
}

// exchange swaps xB[p] and xN[q] in the basis maps and the status tags.
// The factorization is left untouched.
func (s *Solver) exchange(w *workspace) {
	m := s.m
	kq, kp := s.head[m+w.q], s.head[w.p]
	vq, vp := s.prob.VarAt(kq), s.prob.VarAt(kp)
	if !w.pTag.ConsistentWith(vp.Kind) {
		w.pTag = model.DefaultNonbasic(vp.Kind)
	}
	vp.Tag, vq.Tag = w.pTag, model.Basic
	s.head[w.p], s.head[m+w.q] = kq, kp
	s.pos[kq], s.pos[kp] = w.p, m+w.q
}

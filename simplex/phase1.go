package simplex

import (
	"math"

	"q.log/revsimplex/model"
)

// PhaseOne searches for a primal feasible basis. The bound violations of
// the current basic variables are absorbed by one artificial column,
//
//	xB = bbar + av * xa,  0 <= xa <= 1,
//
// which starts non-basic at its upper bound. Minimizing xa with the
// primal simplex drives it to zero; the search stops as soon as its value
// drops below PhaseOneThreshold. The artificial column is then removed.
//
// It returns Feasible, NoPrimalFeasible, IterationLimit, TimeLimit,
// Singular, IllConditioned or Instability, and BadBasis when the basis is
// not warmed up.
func (s *Solver) PhaseOne() Status {
	if !s.ready() {
		return BadBasis
	}
	if s.pStat == Feas {
		return Feasible
	}

	final := false
	for {
		st := s.phaseOne()
		switch st {
		case Feasible:
			if s.pStat != Feas {
				st = Instability
			}
		case IterationLimit, TimeLimit, Instability:
			if s.pStat == Feas {
				st = Feasible
			}
		case NoPrimalFeasible:
			if s.pStat == Feas {
				st = Feasible
			} else if !final {
				// a tiny feasible region is not always found on the first
				// attempt
				final = true
				continue
			} else {
				s.pStat = NoFeas
			}
		}
		return st
	}
}

func (s *Solver) phaseOne() Status {
	m := s.m
	tolBnd, tolDj := s.opts.TolBnd, s.opts.TolDj
	origDir, origCoef, origCoef0 := s.dir, s.coef, s.coef0

	av := s.artificialOffsets()
	col := make([]float64, m)
	for j, a := range av {
		if a != 0 {
			s.augCol(s.head[j], func(i int, v float64) { col[i] += v * a })
		}
	}
	var entries []model.Entry
	for i, c := range col {
		if c != 0 {
			entries = append(entries, model.Entry{Index: i, Value: c})
		}
	}

	// the artificial column goes last, so the flat indices of the other
	// variables are the same with and without it
	saved := make([]model.Tag, m+s.n)
	for k := range saved {
		saved[k] = s.prob.VarAt(k).Tag
	}

	art := s.prob.AddScaledCol(model.Double, 0, 1, 0, model.AtUpper, entries)
	kArt := s.prob.Flat(model.ColVar(art))
	s.n = s.prob.NumCols
	s.cbar = make([]float64, s.n)
	s.dir, s.coef0 = 1, 0
	s.coef = make([]float64, m+s.n)
	s.coef[kArt] = 1

	removed := false
	restore := func(tags []model.Tag) error {
		if !removed {
			if err := s.prob.RemoveCol(art); err != nil {
				return err
			}
			removed = true
			s.n = s.prob.NumCols
			s.cbar = make([]float64, s.n)
			s.dir, s.coef, s.coef0 = origDir, origCoef, origCoef0
		}
		for k, tg := range tags {
			s.prob.VarAt(k).Tag = tg
		}
		return s.buildMaps()
	}
	// fail puts the starting basis back, since the artificial variable
	// may still be basic
	fail := func(st Status) Status {
		if err := restore(saved); err != nil {
			s.log.WithError(err).Error("cannot restore the basis after phase I")
			st = BadBasis
		}
		s.valid = false
		s.pStat, s.dStat = Undef, Undef
		return st
	}

	if err := s.buildMaps(); err != nil {
		return fail(BadBasis)
	}
	if err := s.refresh(); err != nil {
		return fail(statusOf(err))
	}

	artValue := func() float64 {
		if slot := s.pos[kArt]; slot < m {
			return s.bbar[slot]
		}
		return s.prob.VarAt(kArt).Value()
	}

	w := newWorkspace(m, s.n)
	s.initWeights(w, false)
	var st Status
	for {
		s.progress(PhaseOne, artValue, artValue)
		if artValue() < s.opts.PhaseOneThreshold {
			st = Feasible
			break
		}
		if lim, stop := s.limitReached(); stop {
			st = lim
			break
		}

		if s.chooseEnteringPrimal(w, tolDj) && s.checkBbar(tolBnd) != 0 {
			st = Instability
			break
		}
		// the infeasibility is minimal but not zero
		if w.q < 0 {
			st = NoPrimalFeasible
			break
		}

		s.evalCol(w.q, w.aq, true)
		s.chooseLeavingPrimal(w, s.opts.Relax*tolBnd)
		// the artificial objective is bounded below by zero
		if w.p == noPivot {
			st = Instability
			break
		}

		s.updateBbar(w)
		if w.p >= 0 {
			s.evalRho(w.p, w.zeta)
			s.evalRow(w.zeta, w.ap)
			s.updatePi(w)
			s.updateCbar(w, false)
			if s.opts.Pricing == SteepestEdge {
				s.updateGvec(w)
			}
		}

		if s.changeBasis(w) {
			if err := s.refresh(); err != nil {
				return fail(statusOf(err))
			}
			if s.checkBbar(tolBnd) != 0 {
				st = Instability
				break
			}
		}
	}

	// pull a basic artificial variable out of the basis with one dual
	// style pivot on the largest coefficient of its row
	if slot := s.pos[kArt]; slot < m {
		w.p, w.pTag = slot, model.AtLower
		s.evalRho(w.p, w.zeta)
		s.evalRow(w.zeta, w.ap)
		w.q = -1
		big := 0.0
		for j, a := range w.ap {
			if math.Abs(a) > big {
				w.q, big = j, math.Abs(a)
			}
		}
		if w.q < 0 {
			return fail(Singular)
		}
		// not a search step: no iteration is counted and the basis is
		// factorized again below
		s.exchange(w)
	}

	if err := restore(nil); err != nil {
		return fail(BadBasis)
	}
	if err := s.Invert(); err != nil {
		return fail(statusOf(err))
	}
	s.EvalAll()
	return st
}

// artificialOffsets returns, for every basic variable, the shift that
// moves it strictly inside its bounds, or zero if it is feasible.
func (s *Solver) artificialOffsets() []float64 {
	eps, delta := 0.1*s.opts.TolBnd, s.opts.PhaseOneMargin
	av := make([]float64, s.m)
	for i, b := range s.bbar {
		v := s.prob.VarAt(s.head[i])
		switch v.Kind {
		case model.Lower:
			if b < v.Lower-eps {
				av[i] = (v.Lower - b) + delta
			}
		case model.Upper:
			if b > v.Upper+eps {
				av[i] = (v.Upper - b) - delta
			}
		case model.Double, model.Fixed:
			off := math.Min(0.5*math.Abs(v.Lower-v.Upper), delta)
			if b < v.Lower-eps {
				av[i] = (v.Lower - b) + off
			}
			if b > v.Upper+eps {
				av[i] = (v.Upper - b) - off
			}
		}
	}
	return av
}

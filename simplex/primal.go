package simplex

// PrimalSimplex searches for an optimal basic solution with the primal
// simplex method. The basis must be warmed up and primal feasible.
//
// It returns Optimal, Unbounded, IterationLimit, TimeLimit, Singular,
// IllConditioned or Instability, and BadBasis or InfeasibleStart when the
// entry conditions do not hold.
func (s *Solver) PrimalSimplex() Status {
	if !s.ready() {
		return BadBasis
	}
	if s.pStat != Feas {
		return InfeasibleStart
	}
	if s.dStat == Feas {
		return Optimal
	}

	w := newWorkspace(s.m, s.n)
	for {
		s.initWeights(w, false)
		st := s.primalLoop(w)
		if st == Singular || st == IllConditioned {
			return st
		}
		s.EvalAll()

		switch st {
		case Optimal:
			if s.pStat != Feas {
				st = Instability
			} else if s.dStat != Feas {
				if s.restart(PhasePrimal) {
					continue
				}
				st = Instability
			}
		case IterationLimit, TimeLimit, Unbounded:
			if s.pStat != Feas {
				st = Instability
			} else if s.dStat == Feas {
				st = Optimal
			} else if st == Unbounded {
				s.dStat = NoFeas
			}
		case Instability:
			if s.pStat == Feas {
				if s.dStat == Feas {
					st = Optimal
				} else if s.restart(PhasePrimal) {
					continue
				}
			}
		}
		return st
	}
}

func (s *Solver) primalLoop(w *workspace) Status {
	tolBnd, tolDj := s.opts.TolBnd, s.opts.TolDj
	for {
		s.progress(PhasePrimal, s.evalObj, func() float64 { return 0 })
		if st, stop := s.limitReached(); stop {
			return st
		}

		if s.chooseEnteringPrimal(w, tolDj) && s.checkBbar(tolBnd) != 0 {
			return Instability
		}
		if w.q < 0 {
			return Optimal
		}

		s.evalCol(w.q, w.aq, true)
		s.chooseLeavingPrimal(w, s.opts.Relax*tolBnd)
		if w.p == noPivot {
			return Unbounded
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
				return statusOf(err)
			}
			if s.checkBbar(tolBnd) != 0 {
				return Instability
			}
		}
	}
}

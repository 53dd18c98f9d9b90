package simplex

import "q.log/revsimplex/model"

// DualSimplex searches for an optimal basic solution with the dual
// simplex method. The basis must be warmed up and dual feasible. The
// search stops early when the objective passes ObjUpperLimit
// (minimization) or ObjLowerLimit (maximization).
//
// It returns Optimal, NoPrimalFeasible, ObjLowerLimit, ObjUpperLimit,
// IterationLimit, TimeLimit, Singular, IllConditioned or Instability,
// and BadBasis or InfeasibleStart when the entry conditions do not hold.
func (s *Solver) DualSimplex() Status {
	if !s.ready() {
		return BadBasis
	}
	if s.dStat != Feas {
		return InfeasibleStart
	}
	if s.pStat == Feas {
		return Optimal
	}

	w := newWorkspace(s.m, s.n)
	for {
		obj := s.evalObj()
		s.initWeights(w, true)
		st := s.dualLoop(w, &obj)
		if st == Singular || st == IllConditioned {
			return st
		}
		s.EvalAll()
		obj = s.evalObj()

		switch st {
		case Optimal:
			if s.dStat != Feas {
				st = Instability
			} else if s.pStat != Feas {
				if s.restart(PhaseDual) {
					continue
				}
				st = Instability
			}
		case ObjLowerLimit, ObjUpperLimit:
			if s.dStat != Feas {
				st = Instability
			} else if s.pStat == Feas {
				st = Optimal
			} else if s.dir > 0 && obj < s.opts.ObjUpperLimit || s.dir < 0 && obj > s.opts.ObjLowerLimit {
				if s.restart(PhaseDual) {
					continue
				}
				st = Instability
			}
		case IterationLimit, TimeLimit:
			if s.dStat != Feas {
				st = Instability
			} else if s.pStat == Feas {
				st = Optimal
			}
		case NoPrimalFeasible:
			if s.dStat != Feas {
				st = Instability
			} else if s.pStat == Feas {
				st = Optimal
			} else {
				s.pStat = NoFeas
			}
		case Instability:
			if s.dStat == Feas {
				if s.pStat == Feas {
					st = Optimal
				} else if s.restart(PhaseDual) {
					continue
				}
			}
		}
		return st
	}
}

func (s *Solver) dualLoop(w *workspace, obj *float64) Status {
	tolBnd, tolDj := s.opts.TolBnd, s.opts.TolDj
	for {
		s.progress(PhaseDual, func() float64 { return *obj }, func() float64 { return s.checkBbar(0) })
		if s.dir > 0 && *obj >= s.opts.ObjUpperLimit {
			return ObjUpperLimit
		}
		if s.dir < 0 && *obj <= s.opts.ObjLowerLimit {
			return ObjLowerLimit
		}
		if st, stop := s.limitReached(); stop {
			return st
		}

		s.chooseLeavingDual(w, tolBnd)
		if w.p == noPivot {
			return Optimal
		}
		s.evalRho(w.p, w.zeta)
		s.evalRow(w.zeta, w.ap)

		s.chooseEnteringDual(w, s.opts.Relax*tolDj)
		// the dual problem is unbounded
		if w.q < 0 {
			return NoPrimalFeasible
		}

		s.evalCol(w.q, w.aq, true)
		*obj += s.updateBbar(w)
		s.updatePi(w)
		s.updateCbar(w, false)
		if s.opts.Pricing == SteepestEdge {
			s.updateDvec(w)
		}
		if s.prob.VarAt(s.head[w.p]).Kind == model.Fixed {
			w.pTag = model.NonbasicFixed
		}

		if s.changeBasis(w) {
			if err := s.refresh(); err != nil {
				return statusOf(err)
			}
			*obj = s.evalObj()
			if s.checkCbar(tolDj) != 0 {
				return Instability
			}
		}
	}
}

package simplex

import (
	"time"

	"github.com/sirupsen/logrus"
	"q.log/revsimplex/model"
)

// Solve solves the problem by the two phase revised simplex method,
// starting from the basis given by the status tags of the problem.
//
// A primal and dual feasible starting basis is optimal. A dual feasible
// one is handed to the dual simplex when PreferDual is set. Otherwise
// phase I restores primal feasibility and the primal simplex finishes the
// search. After numerical instability the basis is factorized again with
// a stricter pivot tolerance and the search resumes, at most MaxRetries
// times.
func (s *Solver) Solve() Status {
	s.start, s.iter = time.Now(), 0
	s.restarts, s.pivLevel = 0, 0

	st := s.solve()
	fields := logrus.Fields{"status": st.String(), "iter": s.iter}
	if s.valid && s.pStat != Undef {
		fields["obj"] = s.evalObj()
	}
	s.log.WithFields(fields).Info("simplex search finished")
	return st
}

func (s *Solver) solve() Status {
	for k := range s.prob.NumRows + s.prob.NumCols {
		v := s.prob.VarAt(k)
		if v.Kind == model.Double && v.Lower >= v.Upper {
			s.log.WithField("var", v.ID.String()).Error("double bounded variable has invalid bounds")
			return InvalidBounds
		}
	}

	if err := s.WarmUp(); err != nil {
		s.log.WithError(err).Error("cannot warm up the initial basis")
		return statusOf(err)
	}
	if s.pStat == Feas && s.dStat == Feas {
		return Optimal
	}

	phase := s.choosePhase()
	for {
		var st Status
		switch phase {
		case PhaseOne:
			st = s.PhaseOne()
			if st == Feasible {
				phase = PhasePrimal
				continue
			}
		case PhasePrimal:
			st = s.PrimalSimplex()
		case PhaseDual:
			st = s.DualSimplex()
		}
		if st != Instability {
			return st
		}

		// drivers draw on the same budget for their own restarts
		if !s.restart(phase) {
			return RetryLimit
		}
		s.log.WithFields(logrus.Fields{"phase": phase.String(), "retry": s.restarts}).Warn("numerical instability")

		s.pivLevel++
		if err := s.refresh(); err != nil {
			return statusOf(err)
		}
		s.setStatuses()
		if s.pStat == Feas && s.dStat == Feas {
			return Optimal
		}
		phase = s.choosePhase()
	}
}

func (s *Solver) choosePhase() Phase {
	if s.dStat == Feas && s.opts.PreferDual {
		return PhaseDual
	}
	if s.pStat == Feas {
		return PhasePrimal
	}
	return PhaseOne
}

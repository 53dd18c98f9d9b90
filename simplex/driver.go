package simplex

import (
	"time"

	"github.com/sirupsen/logrus"
)

// limitReached reports whether the iteration or time budget is spent.
func (s *Solver) limitReached() (Status, bool) {
	if s.opts.IterationLimit > 0 && s.iter >= s.opts.IterationLimit {
		return IterationLimit, true
	}
	if s.opts.TimeLimit > 0 && time.Since(s.start) >= s.opts.TimeLimit {
		return TimeLimit, true
	}
	return Undefined, false
}

// progress reports the current basic solution to the trace hook and,
// every OutputFrequency iterations, to the log.
func (s *Solver) progress(phase Phase, obj func() float64, infeas func() float64) {
	logIt := s.iter%s.opts.OutputFrequency == 0
	if s.opts.Trace == nil && !logIt {
		return
	}
	ev := TraceEvent{Phase: phase, Iteration: s.iter, Objective: obj(), Infeasibility: infeas()}
	if s.opts.Trace != nil {
		s.opts.Trace(ev)
	}
	if logIt {
		s.log.WithFields(logrus.Fields{
			"phase":  phase.String(),
			"iter":   ev.Iteration,
			"obj":    ev.Objective,
			"infeas": ev.Infeasibility,
		}).Debug("simplex progress")
	}
}

// restart consumes one unit of the instability budget and reports
// whether the search may go on. The budget is shared by the drivers and
// Solve.
func (s *Solver) restart(phase Phase) bool {
	s.restarts++
	if s.restarts > s.opts.MaxRetries {
		s.log.WithField("phase", phase.String()).Warn("restart budget exhausted")
		return false
	}
	s.log.WithFields(logrus.Fields{"phase": phase.String(), "restart": s.restarts}).Debug("continuing search")
	return true
}

func (s *Solver) ready() bool {
	return s.valid && s.pStat != Undef && s.dStat != Undef
}

// refresh factorizes the basis again and recomputes the basic solution.
func (s *Solver) refresh() error {
	if err := s.Invert(); err != nil {
		return err
	}
	s.evalBbar()
	s.evalPi()
	s.evalCbar()
	return nil
}

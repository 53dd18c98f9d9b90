package simplex

import "q.log/revsimplex/model"

// augCol calls fn for every non-zero of the column of variable k in the
// augmented matrix (I | -A): a row variable has a unit column, a column
// variable the negated column of A.
func (s *Solver) augCol(k int, fn func(i int, v float64)) {
	id := s.prob.ID(k)
	if id.Origin == model.Row {
		fn(id.Index, 1)
		return
	}
	for _, e := range s.prob.Col(id.Index) {
		fn(e.Index, -e.Value)
	}
}

// Invert factorizes the current basis matrix. Pivot tolerances are tried
// along the ladder starting at the current escalation level, and the
// error of the last attempt is returned when all of them fail.
func (s *Solver) Invert() error {
	col := func(j int, col []float64) {
		s.augCol(s.head[j], func(i int, v float64) { col[i] = v })
	}
	ladder := s.opts.PivotTolerances
	level := min(s.pivLevel, len(ladder)-1)

	var err error
	for _, tol := range ladder[level:] {
		if err = s.fact.Factorize(s.m, col, tol); err == nil {
			s.valid = true
			return nil
		}
		s.log.WithError(err).WithField("piv_tol", tol).Warn("basis factorization failed")
	}
	s.valid = false
	s.pStat, s.dStat = Undef, Undef
	return err
}

func (s *Solver) ftran(x []float64, save bool) { s.fact.Ftran(x, save) }

func (s *Solver) btran(x []float64) { s.fact.Btran(x) }

// update replaces the column in basis slot p after a pivot. It reports
// whether the factorization has to be recomputed.
func (s *Solver) update(p int) bool {
	if err := s.fact.Update(p); err != nil {
		s.log.WithError(err).Debug("refactorizing basis")
		s.valid = false
		return true
	}
	return false
}

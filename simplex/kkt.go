package simplex

import (
	"fmt"
	"math"
	"strings"

	"q.log/revsimplex/model"
)

// Quality grades the largest relative residual of a KKT condition.
type Quality int

const (
	High    Quality = iota // <= 1e-9
	Medium                 // <= 1e-6
	Low                    // <= 1e-3
	Unknown
)

func (q Quality) String() string {
	switch q {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	}
	return "unknown"
}

func gradeOf(rel float64) Quality {
	switch {
	case rel <= 1e-9:
		return High
	case rel <= 1e-6:
		return Medium
	case rel <= 1e-3:
		return Low
	}
	return Unknown
}

// Residual is the largest absolute and relative error of one condition
// and the variables where they occur.
type Residual struct {
	AbsMax  float64
	AbsVar  model.VarID
	RelMax  float64
	RelVar  model.VarID
	Quality Quality
}

func (r *Residual) add(id model.VarID, abs, base float64) {
	abs = math.Abs(abs)
	if r.AbsMax < abs {
		r.AbsMax, r.AbsVar = abs, id
	}
	if rel := abs / (1 + math.Abs(base)); r.RelMax < rel {
		r.RelMax, r.RelVar = rel, id
	}
}

// KKT holds the residuals of the Karush-Kuhn-Tucker conditions for a
// basic solution:
//
//	PE: xR - A xS = 0
//	PB: bounds on xR and xS
//	DE: A'(dR - cR) + (dS - cS) = 0
//	DB: signs of the reduced costs
//
// Complementary slackness holds for every basic solution and is not
// checked.
type KKT struct {
	PE Residual
	PB Residual
	DE Residual
	DB Residual
}

func (s *Solver) primalAt(k int) float64 {
	if slot := s.pos[k]; slot < s.m {
		return s.bbar[slot]
	}
	return s.prob.VarAt(k).Value()
}

func (s *Solver) dualAt(k int) float64 {
	if slot := s.pos[k]; slot >= s.m {
		return s.cbar[slot-s.m]
	}
	return 0
}

// CheckKKT computes the KKT residuals of the current basic solution,
// either in the internal space (scaled) or in the caller's space. It
// does not change the solver state.
func (s *Solver) CheckKKT(scaled bool) (*KKT, error) {
	if !s.valid || s.pStat == Undef || s.dStat == Undef {
		return nil, ErrInvalidBasis
	}
	m := s.m
	kkt := &KKT{}
	unscale := func(k int) float64 {
		if scaled {
			return 1
		}
		return s.unscale(k)
	}

	for i := range m {
		x := s.primalAt(i)
		g := x
		for _, e := range s.prob.Row(i) {
			g -= e.Value * s.primalAt(m+e.Index)
		}
		f := unscale(i)
		kkt.PE.add(model.RowVar(i), g*f, x*f)
	}

	for i, x := range s.bbar {
		k := s.head[i]
		v := s.prob.VarAt(k)
		h := 0.0
		if v.Kind.HasLower() && x < v.Lower {
			h = x - v.Lower
		}
		if v.Kind.HasUpper() && x > v.Upper {
			h = x - v.Upper
		}
		f := unscale(k)
		kkt.PB.add(v.ID, h*f, x*f)
	}

	for j := range s.n {
		k := m + j
		cS, dS := s.coef[k], s.dualAt(k)
		u := dS - cS
		for _, e := range s.prob.Col(j) {
			u += e.Value * (s.dualAt(e.Index) - s.coef[e.Index])
		}
		f := 1 / unscale(k)
		kkt.DE.add(model.ColVar(j), u*f, (dS-cS)*f)
	}

	for j, d := range s.cbar {
		k := s.head[m+j]
		v := s.prob.VarAt(k)
		dd := s.dir * d
		viol := 0.0
		switch v.Tag {
		case model.AtLower:
			if dd < 0 {
				viol = d
			}
		case model.AtUpper:
			if dd > 0 {
				viol = d
			}
		case model.NonbasicFree:
			viol = d
		}
		// duals scale inversely to their variables
		f := 1 / unscale(k)
		kkt.DB.add(v.ID, viol*f, (d-s.coef[k])*f)
	}

	for _, r := range []*Residual{&kkt.PE, &kkt.PB, &kkt.DE, &kkt.DB} {
		r.Quality = gradeOf(r.RelMax)
	}
	return kkt, nil
}

func (k *KKT) String() string {
	var b strings.Builder
	for _, c := range []struct {
		name string
		r    *Residual
	}{{"PE", &k.PE}, {"PB", &k.PB}, {"DE", &k.DE}, {"DB", &k.DB}} {
		fmt.Fprintf(&b, "KKT.%s: max.abs.err = %.2e on %v\n", c.name, c.r.AbsMax, c.r.AbsVar)
		fmt.Fprintf(&b, "        max.rel.err = %.2e on %v\n", c.r.RelMax, c.r.RelVar)
		fmt.Fprintf(&b, "        %s quality\n", c.r.Quality)
	}
	return b.String()
}

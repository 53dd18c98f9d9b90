package factor

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultEpsTol     = 1e-15
	defaultMaxGrowth  = 1e12
	defaultMaxUpdates = 100
)

// LU is a dense LU factorization with threshold partial pivoting,
//
//	P*B0 = L*U,  B = B0*E1*E2*...*Ek,
//
// where E1..Ek are eta matrices produced by Update.
type LU struct {
	// EpsTol is the smallest pivot accepted, relative to max|B|.
	EpsTol float64
	// MaxGrowth bounds max|U| / max|B| before the matrix is declared
	// ill-conditioned.
	MaxGrowth float64
	// MaxUpdates is the number of updates after which Update asks for a
	// fresh factorization.
	MaxUpdates int

	m     int
	lu    *mat.Dense
	perm  []int
	rank  int
	valid bool

	etas  []eta
	spike []float64
	saved bool
}

type eta struct {
	p   int
	piv float64
	ind []int
	val []float64
}

func NewLU() *LU {
	return &LU{
		EpsTol:     defaultEpsTol,
		MaxGrowth:  defaultMaxGrowth,
		MaxUpdates: defaultMaxUpdates,
	}
}

// Rank returns the number of pivots found by the last Factorize call.
func (f *LU) Rank() int { return f.rank }

// Valid reports whether the factorization can be used.
func (f *LU) Valid() bool { return f.valid }

// Updates returns the number of column replacements absorbed since the
// last Factorize.
func (f *LU) Updates() int { return len(f.etas) }

func (f *LU) Factorize(m int, col ColumnFunc, pivTol float64) error {
	f.m, f.valid, f.rank = m, false, 0
	f.etas, f.saved = f.etas[:0], false
	if cap(f.spike) < m {
		f.spike = make([]float64, m)
	}
	f.spike = f.spike[:m]
	if m == 0 {
		f.valid = true
		return nil
	}

	if f.lu == nil {
		f.lu = mat.NewDense(m, m, nil)
	} else if r, _ := f.lu.Dims(); r != m {
		f.lu = mat.NewDense(m, m, nil)
	} else {
		f.lu.Zero()
	}
	buf := make([]float64, m)
	for j := range m {
		clear(buf)
		col(j, buf)
		f.lu.SetCol(j, buf)
	}
	f.perm = make([]int, m)
	for i := range f.perm {
		f.perm[i] = i
	}

	maxA := 0.0
	for i := range m {
		maxA = math.Max(maxA, floats.Norm(f.lu.RawRowView(i), math.Inf(1)))
	}
	if maxA == 0 {
		return errors.Wrapf(ErrSingular, "rank 0 of %d", m)
	}
	eps := f.EpsTol * maxA
	limit := f.MaxGrowth * maxA

	for k := range m {
		big := 0.0
		for r := k; r < m; r++ {
			big = math.Max(big, math.Abs(f.lu.At(r, k)))
		}
		if big < eps || big == 0 {
			f.rank = k
			return errors.Wrapf(ErrSingular, "rank %d of %d", k, m)
		}

		// among the rows passing the threshold prefer the sparsest one
		piv, best, bestAbs := -1, m+1, 0.0
		for r := k; r < m; r++ {
			abs := math.Abs(f.lu.At(r, k))
			if abs == 0 || abs < pivTol*big {
				continue
			}
			count := 0
			for _, v := range f.lu.RawRowView(r)[k+1:] {
				if v != 0 {
					count++
				}
			}
			if count < best || (count == best && abs > bestAbs) {
				piv, best, bestAbs = r, count, abs
			}
		}
		if piv != k {
			rk, rp := f.lu.RawRowView(k), f.lu.RawRowView(piv)
			for t := range rk {
				rk[t], rp[t] = rp[t], rk[t]
			}
			f.perm[k], f.perm[piv] = f.perm[piv], f.perm[k]
		}

		pivRow := f.lu.RawRowView(k)
		d := pivRow[k]
		for r := k + 1; r < m; r++ {
			row := f.lu.RawRowView(r)
			if row[k] == 0 {
				continue
			}
			mult := row[k] / d
			row[k] = mult
			floats.AddScaled(row[k+1:], -mult, pivRow[k+1:])
			if floats.Norm(row[k+1:], math.Inf(1)) > limit {
				f.rank = k + 1
				return errors.Wrapf(ErrIllConditioned, "element growth above %g", f.MaxGrowth)
			}
		}
		f.rank = k + 1
	}

	f.valid = true
	return nil
}

func (f *LU) Ftran(x []float64, save bool) {
	m := f.m
	if m == 0 {
		return
	}
	y := make([]float64, m)
	for k := range m {
		y[k] = x[f.perm[k]]
	}
	for k := range m {
		row := f.lu.RawRowView(k)
		y[k] -= floats.Dot(row[:k], y[:k])
	}
	for k := m - 1; k >= 0; k-- {
		row := f.lu.RawRowView(k)
		y[k] = (y[k] - floats.Dot(row[k+1:], y[k+1:])) / row[k]
	}
	for _, e := range f.etas {
		xp := y[e.p] / e.piv
		for t, i := range e.ind {
			y[i] -= e.val[t] * xp
		}
		y[e.p] = xp
	}
	copy(x, y)
	if save {
		copy(f.spike, y)
		f.saved = true
	}
}

func (f *LU) Btran(x []float64) {
	m := f.m
	if m == 0 {
		return
	}
	for k := len(f.etas) - 1; k >= 0; k-- {
		e := &f.etas[k]
		sum := x[e.p]
		for t, i := range e.ind {
			sum -= e.val[t] * x[i]
		}
		x[e.p] = sum / e.piv
	}
	w := make([]float64, m)
	copy(w, x)
	for k := range m {
		sum := w[k]
		for j := range k {
			sum -= f.lu.At(j, k) * w[j]
		}
		w[k] = sum / f.lu.At(k, k)
	}
	for k := m - 1; k >= 0; k-- {
		sum := w[k]
		for j := k + 1; j < m; j++ {
			sum -= f.lu.At(j, k) * w[j]
		}
		w[k] = sum
	}
	for k := range m {
		x[f.perm[k]] = w[k]
	}
}

func (f *LU) Update(p int) error {
	if !f.valid || !f.saved {
		f.valid = false
		return ErrNeedsRefactorization
	}
	f.saved = false
	if len(f.etas) >= f.MaxUpdates || math.Abs(f.spike[p]) < f.EpsTol {
		f.valid = false
		return ErrNeedsRefactorization
	}
	e := eta{p: p, piv: f.spike[p]}
	for i, v := range f.spike {
		if i == p || v == 0 {
			continue
		}
		e.ind = append(e.ind, i)
		e.val = append(e.val, v)
	}
	f.etas = append(f.etas, e)
	return nil
}

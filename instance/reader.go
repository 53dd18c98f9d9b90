package instance

import (
	"math"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"q.log/revsimplex/model"
)

// Reader reads a mps file to construct a problem
type Reader struct {
	filename string
	log      logrus.FieldLogger
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
		log:      logrus.WithField("file", filename),
	}
}

// Problem reads the file in free MPS format and returns it as a problem
// with the standard basis: rows basic, columns on a bound.
func (r *Reader) Problem() (*model.Problem, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, r.filename); err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.filename)
	}

	name := strings.TrimSuffix(filepath.Base(r.filename), filepath.Ext(r.filename))
	dir := model.Minimize
	if lp.ObjDir() == glpk.MAX {
		dir = model.Maximize
	}
	p := model.NewProblem(name, dir)
	m, n := lp.NumRows(), lp.NumCols()
	p.AddRows(m)
	p.AddCols(n)

	//glpk indexes rows and columns from 1, index 0 holds the constant
	p.SetObjConst(lp.ObjCoef(0))
	for c := 1; c <= n; c++ {
		kind, lb, ub := boundsOf(lp.ColLB(c), lp.ColUB(c))
		if err := p.SetColBounds(c-1, kind, lb, ub); err != nil {
			return nil, errors.Wrapf(err, "column %s", lp.ColName(c))
		}
		if err := p.SetObjCoef(c-1, lp.ObjCoef(c)); err != nil {
			return nil, err
		}
		if err := p.SetColName(c-1, lp.ColName(c)); err != nil {
			return nil, err
		}
	}

	for i := 1; i <= m; i++ {
		kind, lb, ub := boundsOf(lp.RowLB(i), lp.RowUB(i))
		if err := p.SetRowBounds(i-1, kind, lb, ub); err != nil {
			return nil, errors.Wrapf(err, "row %s", lp.RowName(i))
		}
		if err := p.SetRowName(i-1, lp.RowName(i)); err != nil {
			return nil, err
		}

		idxs, vals := lp.MatRow(i)
		var ind []int
		var val []float64
		for k, j := range idxs {
			if j == 0 {
				continue
			}
			ind = append(ind, int(j)-1)
			val = append(val, vals[k])
		}
		if err := p.SetMatRow(i-1, ind, val); err != nil {
			return nil, errors.Wrapf(err, "row %s", lp.RowName(i))
		}
	}

	p.StdBasis()
	r.log.WithFields(logrus.Fields{"rows": m, "cols": n}).Debug("problem loaded")
	return p, nil
}

// boundsOf maps glpk bounds, where +-math.MaxFloat64 stands for an
// infinite bound, to a bound kind.
func boundsOf(lb, ub float64) (model.BoundKind, float64, float64) {
	hasLower, hasUpper := lb != -math.MaxFloat64, ub != math.MaxFloat64
	switch {
	case hasLower && hasUpper && lb == ub:
		return model.Fixed, lb, ub
	case hasLower && hasUpper:
		return model.Double, lb, ub
	case hasLower:
		return model.Lower, lb, 0
	case hasUpper:
		return model.Upper, 0, ub
	}
	return model.Free, 0, 0
}

// CrossCheck solves the file with the simplex method of glpk and
// returns its optimal objective value.
func CrossCheck(filename string) (float64, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, filename); err != nil {
		return 0, errors.Wrapf(err, "reading %s", filename)
	}

	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MSG_OFF)
	if err := lp.Simplex(smcp); err != nil {
		return 0, errors.Wrap(err, "glpk simplex")
	}
	if st := lp.Status(); st != glpk.OPT {
		return 0, errors.Errorf("glpk simplex: no optimal solution (status %v)", st)
	}
	return lp.ObjVal(), nil
}

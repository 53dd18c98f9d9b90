// Package factor provides factorizations of a simplex basis matrix.
//
// A Factorizer is used through four operations: Factorize computes a
// factorization of the basis matrix B, Ftran and Btran solve B*x = b and
// B'*x = b in place, and Update replaces one column of B without
// computing the factorization again.
package factor

import "github.com/pkg/errors"

var (
	// ErrSingular means the basis matrix is structurally or numerically
	// singular.
	ErrSingular = errors.New("factor: basis matrix is singular")
	// ErrIllConditioned means elimination produced excessive element
	// growth.
	ErrIllConditioned = errors.New("factor: basis matrix is ill-conditioned")
	// ErrNeedsRefactorization means Update could not absorb the column
	// change. The factorization is invalid until Factorize is called.
	ErrNeedsRefactorization = errors.New("factor: factorization must be recomputed")
)

// ColumnFunc stores column j of the basis matrix into col, which has
// length m and is zeroed by the caller.
type ColumnFunc func(j int, col []float64)

// Factorizer is a factorization of an m x m basis matrix.
type Factorizer interface {
	// Factorize computes the factorization of the matrix whose columns
	// are given by col. pivTol in (0,1) controls the pivot choice: the
	// larger, the more stable and the less sparse.
	Factorize(m int, col ColumnFunc, pivTol float64) error
	// Ftran solves B*x' = x in place. When save is set the result is kept
	// for the next Update.
	Ftran(x []float64, save bool)
	// Btran solves B'*x' = x in place.
	Btran(x []float64)
	// Update replaces column p of B with the column last passed through
	// Ftran with save set.
	Update(p int) error
}

package model

import "github.com/pkg/errors"

// Basis maps basis slots to variables and back, using flat variable
// positions. Slots 0..m-1 hold the basic variables in order of
// appearance, slots m..m+n-1 the non-basic ones.
type Basis struct {
	// Head[s] is the flat position of the variable in slot s.
	Head []int
	// Pos[k] is the slot of the variable at flat position k.
	Pos []int
}

// Basis builds the slot maps from the current tags. It fails when the
// number of basic variables differs from the number of rows or when a tag
// does not fit its bound kind.
func (p *Problem) Basis() (*Basis, error) {
	m := p.NumRows
	total := m + p.NumCols
	b := &Basis{Head: make([]int, total), Pos: make([]int, total)}

	basic, nonbasic := 0, m
	for k := range p.vars {
		v := &p.vars[k]
		if !v.Tag.ConsistentWith(v.Kind) {
			return nil, errors.Wrapf(ErrBadBasis, "%v: tag %v does not fit bounds %v", v.ID, v.Tag, v.Kind)
		}
		if v.Tag == Basic {
			if basic == m {
				return nil, errors.Wrap(ErrBadBasis, "too many basic variables")
			}
			b.Head[basic], b.Pos[k] = k, basic
			basic++
			continue
		}
		if nonbasic == total {
			return nil, errors.Wrap(ErrBadBasis, "too many non-basic variables")
		}
		b.Head[nonbasic], b.Pos[k] = k, nonbasic
		nonbasic++
	}
	if basic != m {
		return nil, errors.Wrapf(ErrBadBasis, "%d basic variables for %d rows", basic, m)
	}
	return b, nil
}

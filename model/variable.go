package model

import "fmt"

// Origin tells whether a variable comes from a row (auxiliary variable)
// or from a column (structural variable).
type Origin int

const (
	Row Origin = iota
	Col
)

// VarID identifies a variable by origin and 0-based index inside its
// origin.
type VarID struct {
	Origin Origin
	Index  int
}

func RowVar(i int) VarID { return VarID{Origin: Row, Index: i} }

func ColVar(j int) VarID { return VarID{Origin: Col, Index: j} }

func (id VarID) IsRow() bool { return id.Origin == Row }

func (id VarID) String() string {
	if id.Origin == Row {
		return fmt.Sprintf("row %d", id.Index)
	}
	return fmt.Sprintf("col %d", id.Index)
}

// BoundKind is the type of bounds of a variable.
type BoundKind int

const (
	Free   BoundKind = iota // -inf < x < +inf
	Lower                   // lb <= x < +inf
	Upper                   // -inf < x <= ub
	Double                  // lb <= x <= ub
	Fixed                   // x = lb = ub
)

func (k BoundKind) String() string {
	switch k {
	case Free:
		return "FR"
	case Lower:
		return "LO"
	case Upper:
		return "UP"
	case Double:
		return "DB"
	case Fixed:
		return "FX"
	}
	return "??"
}

// HasLower reports whether the bound kind carries a finite lower bound.
func (k BoundKind) HasLower() bool { return k == Lower || k == Double || k == Fixed }

// HasUpper reports whether the bound kind carries a finite upper bound.
func (k BoundKind) HasUpper() bool { return k == Upper || k == Double || k == Fixed }

// Tag is the status of a variable with respect to the current basis.
type Tag int

const (
	Basic         Tag = iota
	AtLower           // non-basic on its lower bound
	AtUpper           // non-basic on its upper bound
	NonbasicFree      // non-basic free variable, value zero
	NonbasicFixed     // non-basic fixed variable
)

func (t Tag) String() string {
	switch t {
	case Basic:
		return "BS"
	case AtLower:
		return "NL"
	case AtUpper:
		return "NU"
	case NonbasicFree:
		return "NF"
	case NonbasicFixed:
		return "NS"
	}
	return "??"
}

// ConsistentWith reports whether the tag is allowed for a variable of the
// given bound kind.
func (t Tag) ConsistentWith(k BoundKind) bool {
	switch t {
	case Basic:
		return true
	case AtLower:
		return k == Lower || k == Double
	case AtUpper:
		return k == Upper || k == Double
	case NonbasicFree:
		return k == Free
	case NonbasicFixed:
		return k == Fixed
	}
	return false
}

// DefaultNonbasic returns the non-basic tag a variable of kind k takes
// when it leaves the basis without a preferred bound.
func DefaultNonbasic(k BoundKind) Tag {
	switch k {
	case Free:
		return NonbasicFree
	case Upper:
		return AtUpper
	case Fixed:
		return NonbasicFixed
	}
	return AtLower
}

// Direction is the optimization sense.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "max"
	}
	return "min"
}

// Variable is a row or a column of the problem. Bounds and the objective
// coefficient are kept in the internal (scaled) space; Scale is the
// factor that maps the variable back to the caller's space.
type Variable struct {
	ID    VarID
	Name  string
	Kind  BoundKind
	Lower float64
	Upper float64
	Cost  float64
	Tag   Tag
	Scale float64
}

// Value returns the value a non-basic variable takes according to its
// tag. Basic variables return zero.
func (v *Variable) Value() float64 {
	switch v.Tag {
	case AtLower, NonbasicFixed:
		return v.Lower
	case AtUpper:
		return v.Upper
	}
	return 0
}

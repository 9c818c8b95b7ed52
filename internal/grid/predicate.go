package grid

import "excel-handler/internal/cell"

// CellPredicate decides whether a single cell value is a match
type CellPredicate interface {
	Match(v cell.Value) bool
}

// CellFunc adapts a plain function to CellPredicate
type CellFunc func(v cell.Value) bool

// Match calls f(v)
func (f CellFunc) Match(v cell.Value) bool {
	return f(v)
}

// GroupPredicate decides whether a collected column of values should stop iteration
type GroupPredicate interface {
	Match(values []cell.Value) bool
}

// GroupFunc adapts a plain function to GroupPredicate
type GroupFunc func(values []cell.Value) bool

// Match calls f(values)
func (f GroupFunc) Match(values []cell.Value) bool {
	return f(values)
}

// IsText matches any text cell
func IsText() CellPredicate {
	return CellFunc(cell.Value.IsText)
}

// IsEmpty matches cells inside the populated extent that hold no value
func IsEmpty() CellPredicate {
	return CellFunc(cell.Value.IsEmpty)
}

// TextEquals matches text cells equal to s
func TextEquals(s string) CellPredicate {
	return CellFunc(func(v cell.Value) bool {
		return v.IsText() && v.Equals(s)
	})
}

// TextEqualFold matches text cells equal to s ignoring case
func TextEqualFold(s string) CellPredicate {
	return CellFunc(func(v cell.Value) bool {
		return v.EqualFold(s)
	})
}

// NumberEquals matches Int or Float cells numerically equal to n
func NumberEquals(n float64) CellPredicate {
	return CellFunc(func(v cell.Value) bool {
		return v.IsNumber() && v.Equals(n)
	})
}

// NumberAbove matches Int or Float cells strictly greater than n
func NumberAbove(n float64) CellPredicate {
	return CellFunc(func(v cell.Value) bool {
		if !v.IsNumber() {
			return false
		}
		f, _ := v.AsFloat()
		return f > n
	})
}

func Not(p CellPredicate) CellPredicate {
	return CellFunc(func(v cell.Value) bool {
		return !p.Match(v)
	})
}

// And matches when every predicate matches; evaluation stops at the first miss
func And(ps ...CellPredicate) CellPredicate {
	return CellFunc(func(v cell.Value) bool {
		for _, p := range ps {
			if !p.Match(v) {
				return false
			}
		}
		return true
	})
}

// Or matches when any predicate matches
func Or(ps ...CellPredicate) CellPredicate {
	return CellFunc(func(v cell.Value) bool {
		for _, p := range ps {
			if p.Match(v) {
				return true
			}
		}
		return false
	})
}

// Never keeps iterating until the column sequence runs out
func Never() GroupPredicate {
	return GroupFunc(func([]cell.Value) bool { return false })
}

// AllEmpty stops on a group whose values are all Empty, including a group
// with no present values at all
func AllEmpty() GroupPredicate {
	return GroupFunc(func(values []cell.Value) bool {
		for _, v := range values {
			if !v.IsEmpty() {
				return false
			}
		}
		return true
	})
}

// AnyEmpty stops on a group holding at least one Empty value
func AnyEmpty() GroupPredicate {
	return GroupFunc(func(values []cell.Value) bool {
		for _, v := range values {
			if v.IsEmpty() {
				return true
			}
		}
		return false
	})
}

// ShorterThan stops on a group with fewer than n present values
func ShorterThan(n int) GroupPredicate {
	return GroupFunc(func(values []cell.Value) bool {
		return len(values) < n
	})
}

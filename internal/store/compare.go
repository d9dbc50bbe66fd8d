package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// compareCells imposes a total order over cell values so sorted indexes and
// range predicates work on any column: numbers compare numerically, dates
// chronologically (ISO date strings count as dates next to timestamps), and
// everything else by its string form. Nil sorts first.
func compareCells(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if fa, ok := cellFloat(a); ok {
		if fb, ok := cellFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}

	if ta, ok := cellTime(a); ok {
		if tb, ok := cellTime(b); ok {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			}
			return 0
		}
	}

	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

// matchesFilter evaluates one predicate against a cell. Nil cells never match.
func matchesFilter(cell any, f Filter) bool {
	if cell == nil {
		return false
	}
	switch f.Op {
	case OpEq:
		return compareCells(cell, f.Value) == 0
	case OpGT:
		return compareCells(cell, f.Value) > 0
	case OpLT:
		return compareCells(cell, f.Value) < 0
	case OpGTE:
		return compareCells(cell, f.Value) >= 0
	case OpLTE:
		return compareCells(cell, f.Value) <= 0
	case OpIn:
		for _, v := range inValues(f.Value) {
			if compareCells(cell, v) == 0 {
				return true
			}
		}
		return false
	case OpBetween:
		if f.Value2 == nil {
			return false
		}
		return compareCells(cell, f.Value) >= 0 && compareCells(cell, f.Value2) <= 0
	}
	return false
}

// inValues normalizes an OpIn operand: a []any passes through, anything else
// is treated as a single accepted value.
func inValues(v any) []any {
	switch vals := v.(type) {
	case []any:
		return vals
	case []string:
		out := make([]any, len(vals))
		for i, s := range vals {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

func cellFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, true
	}
	return 0, false
}

const isoDate = "2006-01-02"

func cellTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(isoDate, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

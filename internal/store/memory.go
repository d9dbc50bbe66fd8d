package store

import (
	"sort"

	"github.com/ledgermatch/ledgermatch/internal/detect"
	"github.com/ledgermatch/ledgermatch/internal/model"
)

// MemoryStore is the in-memory indexed-table backend. Rows are kept in an
// order sorted by a composite key (date columns first, then a categorical
// column); a filter on the primary index column narrows by binary search,
// everything else falls back to scanning.
type MemoryStore struct {
	table     model.Table
	meta      map[string]detect.Result
	indexCols []string
	order     []int // row indices sorted by the composite index key
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// maxIndexCols bounds the composite index width.
const maxIndexCols = 2

// StoreData replaces the stored table and rebuilds the sorted index.
func (s *MemoryStore) StoreData(t model.Table, meta map[string]detect.Result) error {
	s.table = copyTable(t)
	s.meta = meta
	s.indexCols = chooseIndexColumns(t.Columns, meta)

	s.order = make([]int, len(s.table.Rows))
	for i := range s.order {
		s.order[i] = i
	}
	sort.SliceStable(s.order, func(i, j int) bool {
		ri, rj := s.table.Rows[s.order[i]], s.table.Rows[s.order[j]]
		for _, col := range s.indexCols {
			if c := compareCells(ri[col], rj[col]); c != 0 {
				return c < 0
			}
		}
		return s.order[i] < s.order[j]
	})
	return nil
}

// Query applies filters conjunctively. Filters on columns the table does not
// have are ignored, matching the other backends' non-fatal semantics.
func (s *MemoryStore) Query(filters []Filter) (model.Table, error) {
	candidates := s.order
	var remaining []Filter
	narrowed := false

	for _, f := range filters {
		if !s.table.HasColumn(f.Column) {
			continue
		}
		if !narrowed && len(s.indexCols) > 0 && f.Column == s.indexCols[0] && f.Op != OpIn {
			candidates = s.narrow(candidates, f)
			narrowed = true
			continue
		}
		remaining = append(remaining, f)
	}

	out := model.Table{Name: s.table.Name, Columns: s.table.Columns}
	for _, idx := range candidates {
		row := s.table.Rows[idx]
		if rowMatches(row, remaining) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// narrow binary-searches the sorted order for the span satisfying a range or
// equality predicate on the primary index column.
func (s *MemoryStore) narrow(candidates []int, f Filter) []int {
	col := f.Column
	cell := func(i int) any { return s.table.Rows[candidates[i]][col] }

	lowerBound := func(v any) int { // first index with cell >= v
		return sort.Search(len(candidates), func(i int) bool {
			return compareCells(cell(i), v) >= 0
		})
	}
	upperBound := func(v any) int { // first index with cell > v
		return sort.Search(len(candidates), func(i int) bool {
			return compareCells(cell(i), v) > 0
		})
	}

	switch f.Op {
	case OpEq:
		return candidates[lowerBound(f.Value):upperBound(f.Value)]
	case OpGT:
		return candidates[upperBound(f.Value):]
	case OpGTE:
		return candidates[lowerBound(f.Value):]
	case OpLT:
		return candidates[:lowerBound(f.Value)]
	case OpLTE:
		return candidates[:upperBound(f.Value)]
	case OpBetween:
		if f.Value2 == nil {
			return nil
		}
		lo := lowerBound(f.Value)
		hi := upperBound(f.Value2)
		if lo > hi {
			return nil
		}
		return candidates[lo:hi]
	}
	return candidates
}

// Aggregate groups and summarizes in memory.
func (s *MemoryStore) Aggregate(groupBy, measures []string) (model.Table, error) {
	return aggregateRows(s.table, groupBy, measures), nil
}

// Close is a no-op; the memory backend owns no external resources.
func (s *MemoryStore) Close() error { return nil }

// chooseIndexColumns prefers date columns, then categorical ones.
func chooseIndexColumns(columns []string, meta map[string]detect.Result) []string {
	var cols []string
	for _, col := range columns {
		if meta[col].Type == detect.TypeDate && len(cols) < maxIndexCols {
			cols = append(cols, col)
		}
	}
	for _, col := range columns {
		if meta[col].Type == detect.TypeCategorical && len(cols) < maxIndexCols {
			cols = append(cols, col)
		}
	}
	return cols
}

func rowMatches(row model.Row, filters []Filter) bool {
	for _, f := range filters {
		if !matchesFilter(row[f.Column], f) {
			return false
		}
	}
	return true
}

// copyTable takes ownership of a caller's table by deep-copying its rows.
func copyTable(t model.Table) model.Table {
	out := model.Table{Name: t.Name, Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]model.Row, len(t.Rows))
	for i, row := range t.Rows {
		dup := make(model.Row, len(row))
		for k, v := range row {
			dup[k] = v
		}
		out.Rows[i] = dup
	}
	return out
}

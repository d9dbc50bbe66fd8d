package store

import (
	"fmt"

	"github.com/ledgermatch/ledgermatch/internal/detect"
	"github.com/ledgermatch/ledgermatch/internal/model"
)

// HashStore is the hash-indexed backend: exact-match posting lists over
// string-family columns. Equality filters on indexed columns resolve through
// the map; every other predicate falls back to scanning.
type HashStore struct {
	table model.Table
	meta  map[string]detect.Result
	index map[string]map[string][]int // column -> value -> row indices
}

// NewHashStore creates an empty hash-indexed store.
func NewHashStore() *HashStore {
	return &HashStore{}
}

// StoreData replaces the stored table and rebuilds the posting lists.
func (s *HashStore) StoreData(t model.Table, meta map[string]detect.Result) error {
	s.table = copyTable(t)
	s.meta = meta
	s.index = make(map[string]map[string][]int)

	for _, col := range s.table.Columns {
		if meta[col].Type.Family() != detect.TypeString {
			continue
		}
		posting := make(map[string][]int)
		for i, row := range s.table.Rows {
			cell := row[col]
			if cell == nil {
				continue
			}
			key := fmt.Sprint(cell)
			posting[key] = append(posting[key], i)
		}
		s.index[col] = posting
	}
	return nil
}

// Query applies filters conjunctively, using posting lists for equality on
// indexed columns. Unknown columns are ignored.
func (s *HashStore) Query(filters []Filter) (model.Table, error) {
	selected := make([]bool, len(s.table.Rows))
	for i := range selected {
		selected[i] = true
	}

	for _, f := range filters {
		if !s.table.HasColumn(f.Column) {
			continue
		}
		if posting, ok := s.index[f.Column]; ok && f.Op == OpEq {
			hit := make([]bool, len(s.table.Rows))
			for _, idx := range posting[fmt.Sprint(f.Value)] {
				hit[idx] = true
			}
			for i := range selected {
				selected[i] = selected[i] && hit[i]
			}
			continue
		}
		for i, row := range s.table.Rows {
			if selected[i] && !matchesFilter(row[f.Column], f) {
				selected[i] = false
			}
		}
	}

	out := model.Table{Name: s.table.Name, Columns: s.table.Columns}
	for i, row := range s.table.Rows {
		if selected[i] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Aggregate groups and summarizes in memory.
func (s *HashStore) Aggregate(groupBy, measures []string) (model.Table, error) {
	return aggregateRows(s.table, groupBy, measures), nil
}

// Close is a no-op; the hash backend owns no external resources.
func (s *HashStore) Close() error { return nil }

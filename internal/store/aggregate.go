package store

import (
	"fmt"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// measureStats accumulates one measure column within one group.
type measureStats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (m *measureStats) add(f float64) {
	if m.count == 0 || f < m.min {
		m.min = f
	}
	if m.count == 0 || f > m.max {
		m.max = f
	}
	m.count++
	m.sum += f
}

// aggregateRows computes group-wise count/sum/mean/min/max in memory. It is
// shared by the backends that hold rows natively; the SQL backend aggregates
// in the database instead. Columns that do not exist are dropped; if nothing
// valid remains the result is an empty table, not an error.
func aggregateRows(t model.Table, groupBy, measures []string) model.Table {
	groupCols := existing(t, groupBy)
	measureCols := existing(t, measures)
	if len(groupCols) == 0 || len(measureCols) == 0 {
		return model.Table{}
	}

	type group struct {
		keyCells []any
		stats    []*measureStats
	}
	groups := make(map[string]*group)
	var order []string // first-appearance order keeps output deterministic

	for _, row := range t.Rows {
		key := ""
		keyCells := make([]any, len(groupCols))
		for i, col := range groupCols {
			keyCells[i] = row[col]
			key += fmt.Sprint(row[col]) + "\x00"
		}

		g, ok := groups[key]
		if !ok {
			g = &group{keyCells: keyCells, stats: make([]*measureStats, len(measureCols))}
			for i := range g.stats {
				g.stats[i] = &measureStats{}
			}
			groups[key] = g
			order = append(order, key)
		}

		for i, col := range measureCols {
			if f, ok := cellFloat(row[col]); ok {
				g.stats[i].add(f)
			}
		}
	}

	out := model.Table{Name: "aggregate"}
	out.Columns = append(out.Columns, groupCols...)
	for _, m := range measureCols {
		out.Columns = append(out.Columns,
			m+"_count", m+"_sum", m+"_mean", m+"_min", m+"_max")
	}

	for _, key := range order {
		g := groups[key]
		row := make(model.Row, len(out.Columns))
		for i, col := range groupCols {
			row[col] = g.keyCells[i]
		}
		for i, m := range measureCols {
			st := g.stats[i]
			row[m+"_count"] = st.count
			row[m+"_sum"] = st.sum
			if st.count > 0 {
				row[m+"_mean"] = st.sum / float64(st.count)
				row[m+"_min"] = st.min
				row[m+"_max"] = st.max
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func existing(t model.Table, names []string) []string {
	var out []string
	for _, n := range names {
		if t.HasColumn(n) {
			out = append(out, n)
		}
	}
	return out
}

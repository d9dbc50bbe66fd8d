package model

// Row maps a column name to a cell value. A cell is nil, string, int,
// float64, or time.Time; the workbook loader never hands over anything else.
type Row map[string]any

// Table is one named sheet of tabular data.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Column returns the cells of one column in row order. Missing cells are nil.
func (t Table) Column(name string) []any {
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/detect"
	"github.com/ledgermatch/ledgermatch/internal/model"
)

// SQLiteStore is the relational backend. Each instance exclusively owns one
// database connection, released by Close.
type SQLiteStore struct {
	db      *sql.DB
	columns []string
	meta    map[string]detect.Result
	stored  bool
}

const sqlTableName = "transactions"

// NewSQLiteStore opens a SQLite database. An empty path means in-memory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// StoreData replaces the transactions table and recreates indexes on date
// and number columns.
func (s *SQLiteStore) StoreData(t model.Table, meta map[string]detect.Result) error {
	if _, err := s.db.Exec("DROP TABLE IF EXISTS " + sqlTableName); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}

	defs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		defs[i] = quoteIdent(col) + " " + sqlType(meta[col].Type)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", sqlTableName, strings.Join(defs, ", "))
	if _, err := s.db.Exec(create); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}

	quoted := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		quoted[i] = quoteIdent(col)
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sqlTableName, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.Prepare(insert)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}

	for i, row := range t.Rows {
		args := make([]any, len(t.Columns))
		for j, col := range t.Columns {
			args[j] = encodeCell(row[col])
		}
		if _, err := stmt.Exec(args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}

	for i, col := range t.Columns {
		switch meta[col].Type {
		case detect.TypeDate, detect.TypeNumber:
			idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_txn_%d ON %s (%s)",
				i, sqlTableName, quoteIdent(col))
			if _, err := s.db.Exec(idx); err != nil {
				return fmt.Errorf("creating index on %s: %w", col, err)
			}
		}
	}

	s.columns = append([]string(nil), t.Columns...)
	s.meta = meta
	s.stored = true
	return nil
}

// Query translates filters into a parameterized WHERE clause. A failing
// query yields an empty table plus the error as a status.
func (s *SQLiteStore) Query(filters []Filter) (model.Table, error) {
	if !s.stored {
		return model.Table{}, nil
	}

	where, args := buildWhere(filters)
	quoted := make([]string, len(s.columns))
	for i, col := range s.columns {
		quoted[i] = quoteIdent(col)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), sqlTableName)
	if where != "" {
		query += " WHERE " + where
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return model.Table{}, fmt.Errorf("sqlite query: %w", err)
	}
	defer rows.Close()
	return s.scanTable(rows, s.columns)
}

// Aggregate runs the grouping in SQL. Requested columns that do not exist
// yield an empty table without error.
func (s *SQLiteStore) Aggregate(groupBy, measures []string) (model.Table, error) {
	if !s.stored {
		return model.Table{}, nil
	}
	groupCols := s.existing(groupBy)
	measureCols := s.existing(measures)
	if len(groupCols) == 0 || len(measureCols) == 0 {
		return model.Table{}, nil
	}

	outCols := append([]string(nil), groupCols...)
	selects := make([]string, 0, len(groupCols)+5*len(measureCols))
	for _, col := range groupCols {
		selects = append(selects, quoteIdent(col))
	}
	for _, m := range measureCols {
		q := quoteIdent(m)
		for _, agg := range []struct{ fn, suffix string }{
			{"COUNT", "_count"}, {"SUM", "_sum"}, {"AVG", "_mean"}, {"MIN", "_min"}, {"MAX", "_max"},
		} {
			alias := m + agg.suffix
			selects = append(selects, fmt.Sprintf("%s(%s) AS %s", agg.fn, q, quoteIdent(alias)))
			outCols = append(outCols, alias)
		}
	}

	groupQuoted := make([]string, len(groupCols))
	for i, col := range groupCols {
		groupQuoted[i] = quoteIdent(col)
	}
	query := fmt.Sprintf("SELECT %s FROM %s GROUP BY %s ORDER BY %s",
		strings.Join(selects, ", "), sqlTableName,
		strings.Join(groupQuoted, ", "), strings.Join(groupQuoted, ", "))

	rows, err := s.db.Query(query)
	if err != nil {
		return model.Table{}, fmt.Errorf("sqlite aggregation: %w", err)
	}
	defer rows.Close()
	return s.scanTable(rows, outCols)
}

// Close releases the connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) scanTable(rows *sql.Rows, columns []string) (model.Table, error) {
	out := model.Table{Name: sqlTableName, Columns: append([]string(nil), columns...)}
	for rows.Next() {
		dest := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return model.Table{}, fmt.Errorf("scanning row: %w", err)
		}
		row := make(model.Row, len(columns))
		for i, col := range columns {
			row[col] = decodeCell(dest[i])
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, fmt.Errorf("reading rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) existing(names []string) []string {
	var out []string
	for _, n := range names {
		for _, col := range s.columns {
			if n == col {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func buildWhere(filters []Filter) (string, []any) {
	var clauses []string
	var args []any
	for _, f := range filters {
		col := quoteIdent(f.Column)
		switch f.Op {
		case OpEq:
			clauses = append(clauses, col+" = ?")
			args = append(args, encodeCell(f.Value))
		case OpGT, OpLT, OpGTE, OpLTE:
			clauses = append(clauses, col+" "+string(f.Op)+" ?")
			args = append(args, encodeCell(f.Value))
		case OpIn:
			vals := inValues(f.Value)
			marks := strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")
			clauses = append(clauses, col+" IN ("+marks+")")
			for _, v := range vals {
				args = append(args, encodeCell(v))
			}
		case OpBetween:
			clauses = append(clauses, col+" BETWEEN ? AND ?")
			args = append(args, encodeCell(f.Value), encodeCell(f.Value2))
		}
	}
	return strings.Join(clauses, " AND "), args
}

// quoteIdent quotes a column name for SQLite. Backtick quoting is used
// deliberately: double-quoted identifiers that do not resolve fall back to
// string literals, which would turn a typo'd column filter into a silent
// no-match instead of an error.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func sqlType(t detect.ColumnType) string {
	switch t {
	case detect.TypeNumber:
		return "REAL"
	default:
		return "TEXT"
	}
}

func encodeCell(v any) any {
	switch c := v.(type) {
	case nil, string, int, int64, float64, bool:
		return c
	case time.Time:
		return c.Format(isoDate)
	case decimal.Decimal:
		f, _ := c.Float64()
		return f
	default:
		return fmt.Sprint(c)
	}
}

func decodeCell(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

package commands

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/store"
	"github.com/ledgermatch/ledgermatch/internal/workbook"
)

func newQueryCommand() *cobra.Command {
	var (
		configPath string
		sheet      string
		strategy   string
		filters    []string
		groupBy    []string
		measures   []string
	)

	cmd := &cobra.Command{
		Use:   "query <file>",
		Short: "Filter and aggregate a spreadsheet through a storage backend",
		Long: `Load a spreadsheet into a storage backend, then filter and aggregate it.

Filters use the form column:op:value, where op is one of ==, >, <, >=,
<=, in, between. For in and between, separate values with "|":

  ledgermatch query stmts.xlsx --filter "Category:in:Fee|Interest"
  ledgermatch query stmts.xlsx --filter "Amount:between:100|500"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(queryParams{
				path:       args[0],
				configPath: configPath,
				sheet:      sheet,
				strategy:   strategy,
				filters:    filters,
				groupBy:    groupBy,
				measures:   measures,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ledgermatch.yaml)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default first)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "storage backend: memory, sqlite, or hash")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter as column:op:value (repeatable)")
	cmd.Flags().StringSliceVar(&groupBy, "group-by", nil, "columns to group by")
	cmd.Flags().StringSliceVar(&measures, "measures", nil, "numeric columns to aggregate")

	return cmd
}

type queryParams struct {
	path       string
	configPath string
	sheet      string
	strategy   string
	filters    []string
	groupBy    []string
	measures   []string
}

func runQuery(p queryParams) error {
	cfg, err := loadConfig(p.configPath)
	if err != nil {
		return err
	}
	strategy := p.strategy
	if strategy == "" {
		strategy = cfg.Storage.Strategy
	}

	table, err := loadTable(workbook.DefaultRegistry(), p.path, p.sheet)
	if err != nil {
		return err
	}

	s, err := store.New(strategy)
	if err != nil {
		return err
	}
	defer s.Close()

	detector := newDetector(cfg)
	meta := detector.AnalyzeTable(table)
	if err := s.StoreData(table, meta); err != nil {
		return fmt.Errorf("storing table: %w", err)
	}
	slog.Debug("stored table", "strategy", strategy, "rows", len(table.Rows))

	var out model.Table
	if len(p.groupBy) > 0 {
		out, err = s.Aggregate(p.groupBy, p.measures)
		if err != nil {
			return fmt.Errorf("aggregating: %w", err)
		}
	} else {
		fs, err := parseFilters(p.filters)
		if err != nil {
			return err
		}
		out, err = s.Query(fs)
		if err != nil {
			return fmt.Errorf("querying: %w", err)
		}
	}

	return writeTableCSV(os.Stdout, out)
}

// parseFilters turns column:op:value strings into store filters. Values
// that look numeric are compared numerically; everything else compares as
// a string (dates in ISO form included).
func parseFilters(raw []string) ([]store.Filter, error) {
	var fs []store.Filter
	for _, r := range raw {
		parts := strings.SplitN(r, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid filter %q: want column:op:value", r)
		}
		col, op, val := parts[0], store.Op(parts[1]), parts[2]

		switch op {
		case store.OpEq, store.OpGT, store.OpLT, store.OpGTE, store.OpLTE:
			fs = append(fs, store.Filter{Column: col, Op: op, Value: parseValue(val)})
		case store.OpIn:
			var vals []any
			for _, v := range strings.Split(val, "|") {
				vals = append(vals, parseValue(v))
			}
			fs = append(fs, store.Filter{Column: col, Op: op, Value: vals})
		case store.OpBetween:
			bounds := strings.SplitN(val, "|", 2)
			if len(bounds) != 2 {
				return nil, fmt.Errorf("invalid filter %q: between wants low|high", r)
			}
			fs = append(fs, store.Filter{
				Column: col,
				Op:     op,
				Value:  parseValue(bounds[0]),
				Value2: parseValue(bounds[1]),
			})
		default:
			return nil, fmt.Errorf("invalid filter %q: unknown operator %q", r, parts[1])
		}
	}
	return fs, nil
}

func parseValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func writeTableCSV(f *os.File, t model.Table) error {
	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = formatCell(row[col])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

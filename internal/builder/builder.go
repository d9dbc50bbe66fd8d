// Package builder turns detected tables into canonical transactions. It picks
// the date, amount, description, and reference columns via type detection and
// drops any row whose date or amount will not parse.
package builder

import (
	"fmt"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/detect"
	"github.com/ledgermatch/ledgermatch/internal/formats"
	"github.com/ledgermatch/ledgermatch/internal/model"
)

// CategoryRule tags transactions whose description contains a keyword.
// Rules are applied in slice order; the first hit wins.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultCategoryRules returns the built-in categorization rules.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Name: "Transfer", Keywords: []string{"transfer", "wire"}},
		{Name: "Card Payment", Keywords: []string{"card", "pos"}},
		{Name: "Fee", Keywords: []string{"fee", "charge"}},
		{Name: "Interest", Keywords: []string{"interest"}},
		{Name: "Salary", Keywords: []string{"salary", "payroll"}},
		{Name: "Utilities", Keywords: []string{"utilities", "energy", "water", "gas"}},
	}
}

// defaultCategory tags everything no rule matches.
const defaultCategory = "Other"

// Columns records which table columns were elected for each transaction field.
type Columns struct {
	Date        string
	Amount      string
	Description string
	Reference   string
}

// Builder converts tables into transactions.
type Builder struct {
	detector *detect.Detector
	parser   formats.Parser
	rules    []CategoryRule
}

// New creates a Builder sharing the detector's parser configuration.
func New(detector *detect.Detector, rules []CategoryRule) *Builder {
	return &Builder{detector: detector, parser: detector.Parser, rules: rules}
}

// ElectColumns picks the best column for each transaction field from the
// table's type report. Date and amount columns are required.
func (b *Builder) ElectColumns(t model.Table, report map[string]detect.Result) (Columns, error) {
	cols := Columns{
		Date:        pickByType(t.Columns, report, detect.TypeDate),
		Amount:      pickAmount(t.Columns, report),
		Description: pickDescription(t.Columns, report),
		Reference:   pickByName(t.Columns, "reference", "ref", "id", "number", "doc", "entry"),
	}
	if cols.Date == "" {
		return Columns{}, fmt.Errorf("table %q: no date column detected", t.Name)
	}
	if cols.Amount == "" {
		return Columns{}, fmt.Errorf("table %q: no amount column detected", t.Name)
	}
	return cols, nil
}

// Build converts a table into transactions of the given type. Rows whose
// date or amount cannot be parsed are dropped; so are zero-amount rows,
// which in practice are subtotal or carry-forward lines.
func (b *Builder) Build(t model.Table, txType model.TransactionType) ([]model.Transaction, error) {
	report := b.detector.AnalyzeTable(t)
	cols, err := b.ElectColumns(t, report)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for i, row := range t.Rows {
		date, err := b.parser.Date(row[cols.Date])
		if err != nil {
			continue
		}
		amount, err := b.parser.Amount(row[cols.Amount])
		if err != nil || amount.IsZero() {
			continue
		}

		desc := cellString(row[cols.Description])
		txns = append(txns, model.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Type:        txType,
			Category:    b.Categorize(desc),
			Reference:   cellString(row[cols.Reference]),
			SourceSheet: t.Name,
			SourceRow:   i + 2, // 1-based, after the header row
		})
	}
	return txns, nil
}

// Categorize returns the first rule with a keyword among the description's
// words. Matching is on whole words; "deposit" does not trip the "pos" rule.
func (b *Builder) Categorize(description string) string {
	words := strings.Fields(strings.ToLower(description))
	for _, rule := range b.rules {
		for _, kw := range rule.Keywords {
			for _, w := range words {
				if strings.Trim(w, ".,;:()-") == kw {
					return rule.Name
				}
			}
		}
	}
	return defaultCategory
}

// pickByType returns the highest-confidence column of the wanted family,
// with ties going to the earlier column.
func pickByType(columns []string, report map[string]detect.Result, want detect.ColumnType) string {
	best := ""
	bestConf := 0.0
	for _, col := range columns {
		r := report[col]
		if r.Type.Family() != want.Family() {
			continue
		}
		if r.Confidence > bestConf {
			best, bestConf = col, r.Confidence
		}
	}
	return best
}

// pickAmount prefers a number column literally named for an amount; balance
// columns only win when nothing else qualifies.
func pickAmount(columns []string, report map[string]detect.Result) string {
	if col := pickNumberByName(columns, report, "amount"); col != "" {
		return col
	}

	best := ""
	bestConf := 0.0
	for _, col := range columns {
		r := report[col]
		if r.Type != detect.TypeNumber {
			continue
		}
		if strings.Contains(strings.ToLower(col), "balance") {
			continue
		}
		if r.Confidence > bestConf {
			best, bestConf = col, r.Confidence
		}
	}
	if best != "" {
		return best
	}
	return pickByType(columns, report, detect.TypeNumber)
}

func pickNumberByName(columns []string, report map[string]detect.Result, keyword string) string {
	for _, col := range columns {
		if report[col].Type == detect.TypeNumber && strings.Contains(strings.ToLower(col), keyword) {
			return col
		}
	}
	return ""
}

// pickDescription prefers columns named like descriptions, then the
// description sub-kind, then any string column.
func pickDescription(columns []string, report map[string]detect.Result) string {
	if col := pickStringByName(columns, report, "description", "details", "memo", "narrative"); col != "" {
		return col
	}
	for _, col := range columns {
		if report[col].Type == detect.TypeDescription {
			return col
		}
	}
	return pickByType(columns, report, detect.TypeString)
}

func pickStringByName(columns []string, report map[string]detect.Result, keywords ...string) string {
	for _, col := range columns {
		if report[col].Type.Family() != detect.TypeString {
			continue
		}
		name := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return col
			}
		}
	}
	return ""
}

// pickByName matches on the column name alone, like the reference and id
// columns that carry no distinguishing value shape.
func pickByName(columns []string, keywords ...string) string {
	for _, col := range columns {
		name := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return col
			}
		}
	}
	return ""
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

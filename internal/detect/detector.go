// Package detect classifies table columns as dates, numbers, or strings
// without a fixed schema, scoring each guess with a [0,1] confidence.
package detect

import (
	"fmt"
	"strings"
	"time"

	"github.com/ledgermatch/ledgermatch/internal/formats"
	"github.com/ledgermatch/ledgermatch/internal/model"
)

// ColumnType is a detected semantic column type.
type ColumnType string

const (
	TypeDate        ColumnType = "date"
	TypeNumber      ColumnType = "number"
	TypeString      ColumnType = "string"
	TypeCategorical ColumnType = "categorical"
	TypeDescription ColumnType = "description"
	TypeLongText    ColumnType = "long_text"
)

// Family collapses string sub-kinds into their base type.
func (t ColumnType) Family() ColumnType {
	switch t {
	case TypeCategorical, TypeDescription, TypeLongText:
		return TypeString
	}
	return t
}

// Result describes the detected type of one column.
type Result struct {
	Type          ColumnType
	Confidence    float64
	SampleValues  []any
	FormatPattern string
}

// Keywords are the per-type column-name hints. A name containing any keyword
// for a type earns that type the name-hint bonus.
type Keywords struct {
	Date   []string
	Number []string
	String []string
}

// DefaultKeywords returns the built-in keyword sets.
func DefaultKeywords() Keywords {
	return Keywords{
		Date: []string{
			"date", "time", "created", "updated", "due", "start", "end",
			"maturity", "period", "year", "month", "day", "fiscal", "posting",
		},
		Number: []string{
			"amount", "balance", "total", "sum", "value", "price", "cost",
			"revenue", "expense", "asset", "liability", "quantity", "qty",
			"percent", "percentage", "ratio", "rate",
		},
		String: []string{
			"name", "description", "category", "reference", "note", "memo",
			"account", "company", "address", "type", "status", "comment",
		},
	}
}

// Detector classifies columns. Keyword sets and thresholds are instance
// configuration so tests and locale-aware callers can substitute them.
type Detector struct {
	Parser formats.Parser
	// Keywords are the name-hint sets.
	Keywords Keywords
	// HighConfidence short-circuits the priority list when strictly exceeded.
	HighConfidence float64
	// NameHintBonus is added to a type's parse rate on a keyword match.
	NameHintBonus float64
	// SampleSize bounds how many non-empty values are inspected per column.
	SampleSize int
}

// NewDetector returns a Detector with the reference defaults.
func NewDetector() *Detector {
	return &Detector{
		Parser:         formats.New(),
		Keywords:       DefaultKeywords(),
		HighConfidence: 0.7,
		NameHintBonus:  0.3,
		SampleSize:     50,
	}
}

// DetectColumnType classifies one column from its values and name hint.
// Candidate types are scored in a fixed priority order (date, number,
// string); the first score strictly above HighConfidence wins outright,
// otherwise the maximum score wins with ties going to the earlier candidate.
func (d *Detector) DetectColumnType(values []any, nameHint string) Result {
	clean := dropEmpty(values)
	if len(clean) == 0 {
		return Result{Type: TypeString, Confidence: 0}
	}
	sample := clean
	if len(sample) > d.SampleSize {
		sample = sample[:d.SampleSize]
	}

	candidates := []Result{
		d.scoreDate(sample, nameHint),
		d.scoreNumber(sample, nameHint),
		d.scoreString(sample, nameHint),
	}

	for _, c := range candidates {
		if c.Confidence > d.HighConfidence {
			return c
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best
}

// AnalyzeTable classifies every column of a table independently.
func (d *Detector) AnalyzeTable(t model.Table) map[string]Result {
	results := make(map[string]Result, len(t.Columns))
	for _, col := range t.Columns {
		results[col] = d.DetectColumnType(t.Column(col), col)
	}
	return results
}

func (d *Detector) nameBonus(nameHint string, keywords []string) float64 {
	name := strings.ToLower(nameHint)
	if name == "" {
		return 0
	}
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return d.NameHintBonus
		}
	}
	return 0
}

func (d *Detector) scoreDate(sample []any, nameHint string) Result {
	bonus := d.nameBonus(nameHint, d.Keywords.Date)

	native := 0
	parsed := 0
	pattern := ""
	for _, v := range sample {
		switch c := v.(type) {
		case time.Time:
			native++
			parsed++
		case string:
			if _, name, err := d.Parser.ParseDateFormat(c); err == nil {
				parsed++
				if pattern == "" {
					pattern = name
				}
			}
		case float64, int:
			// Excel serial dates arrive as plain numbers from xlsx cells.
			if _, err := d.Parser.Date(c); err == nil {
				parsed++
				if pattern == "" {
					pattern = "Excel serial"
				}
			}
		}
	}

	if native == len(sample) {
		return Result{Type: TypeDate, Confidence: 1.0, SampleValues: sample, FormatPattern: "native datetime"}
	}

	rate := float64(parsed) / float64(len(sample))
	return Result{
		Type:          TypeDate,
		Confidence:    capped(rate + bonus),
		SampleValues:  sample,
		FormatPattern: pattern,
	}
}

func (d *Detector) scoreNumber(sample []any, nameHint string) Result {
	bonus := d.nameBonus(nameHint, d.Keywords.Number)

	native := 0
	parsed := 0
	pattern := ""
	for _, v := range sample {
		switch s := v.(type) {
		case float64, int, int64:
			native++
			parsed++
		case string:
			if _, err := d.Parser.ParseAmount(s); err == nil {
				parsed++
				if name := amountPattern(s); pattern == "" && name != "" {
					pattern = name
				}
			}
		}
	}

	if native == len(sample) {
		conf := 0.8
		if monetaryRange(sample) {
			conf = 0.9
			pattern = "numeric_financial"
		}
		return Result{Type: TypeNumber, Confidence: capped(conf + bonus), SampleValues: sample, FormatPattern: pattern}
	}

	rate := float64(parsed) / float64(len(sample))
	return Result{
		Type:          TypeNumber,
		Confidence:    capped(rate + bonus),
		SampleValues:  sample,
		FormatPattern: pattern,
	}
}

const (
	longTextAvgLen      = 50
	categoricalMaxRatio = 0.1
)

func (d *Detector) scoreString(sample []any, nameHint string) Result {
	bonus := d.nameBonus(nameHint, d.Keywords.String)
	conf := capped(0.5 + bonus)

	strs := make([]string, 0, len(sample))
	for _, v := range sample {
		strs = append(strs, stringify(v))
	}

	totalLen := 0
	unique := make(map[string]struct{}, len(strs))
	for _, s := range strs {
		totalLen += len(s)
		unique[s] = struct{}{}
	}
	avgLen := float64(totalLen) / float64(len(strs))
	uniqueRatio := float64(len(unique)) / float64(len(strs))

	sub := TypeString
	switch {
	case avgLen > longTextAvgLen:
		sub = TypeLongText
	case uniqueRatio < categoricalMaxRatio:
		sub = TypeCategorical
	case multiWord(strs):
		sub = TypeDescription
	}

	return Result{Type: sub, Confidence: conf, SampleValues: sample}
}

// multiWord reports whether the first few samples all read like sentences.
func multiWord(strs []string) bool {
	head := strs
	if len(head) > 5 {
		head = head[:5]
	}
	for _, s := range head {
		if len(strings.Fields(s)) <= 3 {
			return false
		}
	}
	return len(head) > 0
}

// amountPattern names the notation of a recognized amount string.
func amountPattern(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "$"):
		return "USD"
	case strings.HasPrefix(s, "€"):
		return "EUR"
	case strings.HasPrefix(s, "£"):
		return "GBP"
	case strings.HasPrefix(s, "₹"):
		return "INR"
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		return "negative_parentheses"
	case strings.HasSuffix(s, "-"):
		return "negative_trailing"
	case len(s) > 0 && strings.ContainsAny(s[len(s)-1:], "KMBkmb"):
		return "abbreviated"
	}
	return ""
}

// monetaryRange reports whether native numeric samples sit in a plausible
// money range (between one cent and ten billion in magnitude).
func monetaryRange(sample []any) bool {
	seen := false
	for _, v := range sample {
		f, ok := toFloat(v)
		if !ok || f == 0 {
			continue
		}
		seen = true
		if f < 0 {
			f = -f
		}
		if f < 0.01 || f > 1e10 {
			return false
		}
	}
	return seen
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func dropEmpty(values []any) []any {
	clean := make([]any, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		clean = append(clean, v)
	}
	return clean
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func capped(f float64) float64 {
	if f > 1 {
		return 1
	}
	return f
}

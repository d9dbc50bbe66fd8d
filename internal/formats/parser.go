// Package formats normalizes raw spreadsheet cells into canonical amounts and
// dates. All functions are pure; a Parser carries only configuration.
package formats

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnrecognized reports a cell that matches no supported notation.
var ErrUnrecognized = errors.New("unrecognized format")

// defaultSymbols are the currency symbols stripped before numeric parsing.
const defaultSymbols = "€$₹£¥"

// Parser converts raw cell values into normalized amounts and dates.
// The zero value uses US date order and the default currency symbol set.
type Parser struct {
	// DayFirst interprets ambiguous slash/dash dates as DD/MM rather than
	// MM/DD. Ambiguity is resolved by pattern order, not content; an
	// out-of-range day or month just falls through to the next pattern.
	DayFirst bool
	// Symbols overrides the currency symbols to strip. Empty = default set.
	Symbols string
}

// New returns a Parser with the default configuration.
func New() Parser {
	return Parser{Symbols: defaultSymbols}
}

func (p Parser) symbols() string {
	if p.Symbols == "" {
		return defaultSymbols
	}
	return p.Symbols
}

// ParseAmount normalizes an amount string into a signed decimal. It strips
// currency symbols and digit grouping, resolves parenthesized and
// trailing-minus negatives, and expands K/M/B magnitude suffixes.
func (p Parser) ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", raw, ErrUnrecognized)
	}

	// Negative encodings are detected before any stripping.
	neg := strings.Contains(s, "(") && strings.Contains(s, ")")
	if strings.HasSuffix(s, "-") {
		neg = true
		s = strings.TrimSuffix(s, "-")
	}

	symbols := p.symbols()
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(symbols, r) || r == '(' || r == ')' || r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)

	mult := decimal.NewFromInt(1)
	if len(s) > 0 {
		switch s[len(s)-1] {
		case 'K', 'k':
			mult = decimal.NewFromInt(1_000)
			s = s[:len(s)-1]
		case 'M', 'm':
			mult = decimal.NewFromInt(1_000_000)
			s = s[:len(s)-1]
		case 'B', 'b':
			mult = decimal.NewFromInt(1_000_000_000)
			s = s[:len(s)-1]
		}
	}

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", raw, ErrUnrecognized)
	}
	d = d.Mul(mult)
	if neg && d.IsPositive() {
		d = d.Neg()
	}
	return d, nil
}

// normalizeSeparators rewrites thousands/decimal separators into the plain
// dot form. When both separators occur the one appearing last is the decimal
// mark ("1,234.56" and "1.234,56" both become "1234.56"). A lone comma
// followed by exactly two digits is a decimal separator, otherwise it groups
// thousands.
func normalizeSeparators(s string) string {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if i := strings.Index(s, ","); strings.Count(s, ",") == 1 && len(s)-i-1 == 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// datePattern pairs a time layout with its human-readable pattern name.
type datePattern struct {
	layout string
	name   string
}

var quarterRe = regexp.MustCompile(`^[Qq]([1-4])[-\s]?(\d{2,4})$`)

// datePatterns returns the ordered pattern list. The first match wins; the
// relative order of the MM/DD and DD/MM forms follows DayFirst.
func (p Parser) datePatterns() []datePattern {
	slash := []datePattern{
		{"1/2/2006", "MM/DD/YYYY"},
		{"2/1/2006", "DD/MM/YYYY"},
	}
	dash := []datePattern{
		{"1-2-2006", "MM-DD-YYYY"},
		{"2-1-2006", "DD-MM-YYYY"},
	}
	if p.DayFirst {
		slash[0], slash[1] = slash[1], slash[0]
		dash[0], dash[1] = dash[1], dash[0]
	}

	patterns := []datePattern{
		{"2006-01-02", "YYYY-MM-DD"},
		{"2006/1/2", "YYYY/MM/DD"},
	}
	patterns = append(patterns, slash...)
	patterns = append(patterns, dash...)
	patterns = append(patterns,
		datePattern{"2.1.2006", "DD.MM.YYYY"},
		datePattern{"2006.01.02", "YYYY.MM.DD"},
		datePattern{"Jan 2006", "Mon YYYY"},
		datePattern{"January 2006", "Month YYYY"},
		datePattern{"Jan 2, 2006", "Mon DD, YYYY"},
		datePattern{"January 2, 2006", "Month DD, YYYY"},
		datePattern{"2 Jan 2006", "DD Mon YYYY"},
	)
	return patterns
}

// ParseDate normalizes a date string into a UTC-midnight timestamp.
func (p Parser) ParseDate(raw string) (time.Time, error) {
	t, _, err := p.ParseDateFormat(raw)
	return t, err
}

// ParseDateFormat is ParseDate plus the name of the pattern that matched,
// for type-detection reporting.
func (p Parser) ParseDateFormat(raw string) (time.Time, string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, "", fmt.Errorf("parsing date %q: %w", raw, ErrUnrecognized)
	}

	if m := quarterRe.FindStringSubmatch(s); m != nil {
		q, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if year < 100 {
			year += 2000
		}
		// First day of the quarter's third month.
		return time.Date(year, time.Month(q*3), 1, 0, 0, 0, 0, time.UTC), "Quarter", nil
	}

	if serial, ok := excelSerial(s); ok {
		return serial, "Excel serial", nil
	}

	for _, pat := range p.datePatterns() {
		if t, err := time.Parse(pat.layout, s); err == nil {
			return midnight(t), pat.name, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("parsing date %q: %w", raw, ErrUnrecognized)
}

// excelEpoch is the Excel 1900 date system origin (day 1 = 1900-01-01, with
// the historical off-by-two for the phantom 1900 leap day).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// excelSerial converts a 5-digit integer string to a date.
func excelSerial(s string) (time.Time, bool) {
	if len(s) != 5 {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 10000 {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, n), true
}

// Amount coerces any cell value into a decimal amount. Native numbers pass
// through; strings go through ParseAmount.
func (p Parser) Amount(cell any) (decimal.Decimal, error) {
	switch v := cell.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		return p.ParseAmount(v)
	case nil:
		return decimal.Decimal{}, fmt.Errorf("parsing amount: empty cell: %w", ErrUnrecognized)
	default:
		return decimal.Decimal{}, fmt.Errorf("parsing amount: cell type %T: %w", cell, ErrUnrecognized)
	}
}

// Date coerces any cell value into a UTC-midnight date. Native timestamps
// pass through; 5-digit numbers are treated as Excel serial dates.
func (p Parser) Date(cell any) (time.Time, error) {
	switch v := cell.(type) {
	case time.Time:
		return midnight(v), nil
	case string:
		return p.ParseDate(v)
	case float64:
		if v == float64(int(v)) {
			if t, ok := excelSerial(strconv.Itoa(int(v))); ok {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("parsing date from %v: %w", v, ErrUnrecognized)
	case int:
		if t, ok := excelSerial(strconv.Itoa(v)); ok {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("parsing date from %d: %w", v, ErrUnrecognized)
	case nil:
		return time.Time{}, fmt.Errorf("parsing date: empty cell: %w", ErrUnrecognized)
	default:
		return time.Time{}, fmt.Errorf("parsing date: cell type %T: %w", cell, ErrUnrecognized)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package formats

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$1,234.56", "1234.56"},
		{"(2,500.00)", "-2500.00"},
		{"1234.56-", "-1234.56"},
		{"€1.234,56", "1234.56"},
		{"₹1,500", "1500"},
		{"£99.99", "99.99"},
		{"1 234,56", "1234.56"},
		{"1\u00a0234,56", "1234.56"},
		{"100", "100"},
		{"-42.50", "-42.5"},
		{"($1,000.00)", "-1000.00"},
		{"1.5K", "1500"},
		{"2M", "2000000"},
		{"3.2B", "3200000000"},
		{"1,234", "1234"},
		{"1,23", "1.23"},
		{"0.00", "0.00"},
	}
	for _, tt := range tests {
		p := New()
		got, err := p.ParseAmount(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.True(t, got.Equal(mustDec(t, tt.want)), "input %s: got %s want %s", tt.input, got, tt.want)
	}
}

// Re-parsing a rendered amount reproduces the same value for every
// supported notation.
func TestParseAmountIdempotent(t *testing.T) {
	inputs := []string{"$1,234.56", "(2,500.00)", "1234.56-", "€1.234,56", "1.5K"}
	p := New()
	for _, input := range inputs {
		first, err := p.ParseAmount(input)
		require.NoError(t, err)
		second, err := p.ParseAmount(first.String())
		require.NoError(t, err)
		assert.True(t, first.Equal(second), "input %s: %s != %s", input, first, second)
	}
}

func TestParseAmountErrors(t *testing.T) {
	badInputs := []string{"", "   ", "abc", "12x34", "--5"}
	p := New()
	for _, input := range badInputs {
		_, err := p.ParseAmount(input)
		assert.Error(t, err, "expected error for input: %q", input)
		assert.True(t, errors.Is(err, ErrUnrecognized), "input %q", input)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-15", date(2024, 1, 15)},
		{"2024/3/7", date(2024, 3, 7)},
		{"01/15/2024", date(2024, 1, 15)},
		{"1/5/2024", date(2024, 1, 5)},
		{"15.01.2024", date(2024, 1, 15)},
		{"Mar 2024", date(2024, 3, 1)},
		{"March 2024", date(2024, 3, 1)},
		{"Jan 15, 2024", date(2024, 1, 15)},
		{"15 Jan 2024", date(2024, 1, 15)},
		{"Q3-2024", date(2024, 9, 1)},
		{"Q1 2024", date(2024, 3, 1)},
		{"q4-24", date(2024, 12, 1)},
		{"45000", date(2023, 3, 15)},
	}
	for _, tt := range tests {
		p := New()
		got, err := p.ParseDate(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.True(t, got.Equal(tt.want), "input %s: got %s want %s", tt.input, got, tt.want)
	}
}

func TestParseDateDayFirst(t *testing.T) {
	us := Parser{}
	eu := Parser{DayFirst: true}

	got, err := us.ParseDate("03/04/2024")
	require.NoError(t, err)
	assert.True(t, got.Equal(date(2024, 3, 4)))

	got, err = eu.ParseDate("03/04/2024")
	require.NoError(t, err)
	assert.True(t, got.Equal(date(2024, 4, 3)))

	// Out-of-range values fall through to the unambiguous pattern.
	got, err = us.ParseDate("25/12/2024")
	require.NoError(t, err)
	assert.True(t, got.Equal(date(2024, 12, 25)))
}

func TestParseDateFormat(t *testing.T) {
	tests := []struct {
		input       string
		wantPattern string
	}{
		{"2024-01-15", "YYYY-MM-DD"},
		{"01/15/2024", "MM/DD/YYYY"},
		{"Q3-2024", "Quarter"},
		{"45000", "Excel serial"},
	}
	for _, tt := range tests {
		p := New()
		_, pattern, err := p.ParseDateFormat(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantPattern, pattern, "input: %s", tt.input)
	}
}

func TestParseDateErrors(t *testing.T) {
	badInputs := []string{"", "not a date", "13/13/2024", "Q5-2024", "123"}
	p := New()
	for _, input := range badInputs {
		_, err := p.ParseDate(input)
		assert.Error(t, err, "expected error for input: %q", input)
	}
}

func TestAmountCoercion(t *testing.T) {
	p := New()

	got, err := p.Amount(150.25)
	require.NoError(t, err)
	assert.True(t, got.Equal(mustDec(t, "150.25")))

	got, err = p.Amount(42)
	require.NoError(t, err)
	assert.True(t, got.Equal(mustDec(t, "42")))

	got, err = p.Amount("$99.50")
	require.NoError(t, err)
	assert.True(t, got.Equal(mustDec(t, "99.50")))

	_, err = p.Amount(nil)
	assert.Error(t, err)
}

func TestDateCoercion(t *testing.T) {
	p := New()

	// Native timestamps are truncated to UTC midnight.
	got, err := p.Date(time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, got.Equal(date(2024, 3, 15)))

	got, err = p.Date(45000)
	require.NoError(t, err)
	assert.True(t, got.Equal(date(2023, 3, 15)))

	got, err = p.Date(float64(45000))
	require.NoError(t, err)
	assert.True(t, got.Equal(date(2023, 3, 15)))

	_, err = p.Date(nil)
	assert.Error(t, err)
	_, err = p.Date(123)
	assert.Error(t, err)
}

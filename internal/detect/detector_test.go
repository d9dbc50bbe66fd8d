package detect

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

func TestDetectDateColumn(t *testing.T) {
	d := NewDetector()
	values := []any{"2024-01-15", "2024-02-20", "2024-03-05"}

	r := d.DetectColumnType(values, "Transaction Date")
	assert.Equal(t, TypeDate, r.Type)
	assert.InDelta(t, 1.0, r.Confidence, 0.001)
	assert.Equal(t, "YYYY-MM-DD", r.FormatPattern)
}

func TestDetectNativeDateColumn(t *testing.T) {
	d := NewDetector()
	values := []any{
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
	}

	r := d.DetectColumnType(values, "whatever")
	assert.Equal(t, TypeDate, r.Type)
	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, "native datetime", r.FormatPattern)
}

// Excel serial dates come out of xlsx cells as plain numbers; a column of
// them is a date column, not a number column.
func TestDetectNumericSerialDateColumn(t *testing.T) {
	d := NewDetector()
	values := []any{45000, 45001.0, 45290}

	r := d.DetectColumnType(values, "col2")
	assert.Equal(t, TypeDate, r.Type)
	assert.InDelta(t, 1.0, r.Confidence, 0.001)
	assert.Equal(t, "Excel serial", r.FormatPattern)
}

func TestDetectNumberColumn(t *testing.T) {
	d := NewDetector()
	values := []any{"$1,234.56", "$99.00", "(450.00)"}

	r := d.DetectColumnType(values, "Amount")
	assert.Equal(t, TypeNumber, r.Type)
	assert.True(t, r.Confidence > d.HighConfidence)
	assert.Equal(t, "USD", r.FormatPattern)
}

func TestDetectNativeNumberColumn(t *testing.T) {
	d := NewDetector()
	values := []any{150.25, 99.0, -450.10}

	r := d.DetectColumnType(values, "col7")
	assert.Equal(t, TypeNumber, r.Type)
	// Values in a plausible money range raise the baseline confidence.
	assert.InDelta(t, 0.9, r.Confidence, 0.001)
	assert.Equal(t, "numeric_financial", r.FormatPattern)
}

// A column named "Amount" must never score below the same values under an
// uninformative name.
func TestNameHintMonotonicity(t *testing.T) {
	d := NewDetector()
	values := []any{"100.50", "200.00", "ok", "300.75", "nope"}

	named := d.DetectColumnType(values, "Amount")
	anon := d.DetectColumnType(values, "col3")
	assert.GreaterOrEqual(t, named.Confidence, anon.Confidence)
}

func TestDetectCategoricalColumn(t *testing.T) {
	d := NewDetector()
	var values []any
	for i := 0; i < 40; i++ {
		values = append(values, []string{"Fee", "Transfer", "Interest"}[i%3])
	}

	r := d.DetectColumnType(values, "Category")
	assert.Equal(t, TypeCategorical, r.Type)
	assert.Equal(t, TypeString, r.Type.Family())
}

func TestDetectDescriptionColumn(t *testing.T) {
	d := NewDetector()
	values := []any{
		"ACH payment to utilities provider north",
		"Wire transfer from ACME Corp account",
		"Monthly subscription fee for cloud hosting",
	}

	r := d.DetectColumnType(values, "Details")
	assert.Equal(t, TypeDescription, r.Type)
}

func TestDetectLongTextColumn(t *testing.T) {
	d := NewDetector()
	long := ""
	for i := 0; i < 20; i++ {
		long += "word "
	}
	values := []any{long, long + "more", long + "other"}

	r := d.DetectColumnType(values, "Notes")
	assert.Equal(t, TypeLongText, r.Type)
}

func TestDetectEmptyColumn(t *testing.T) {
	d := NewDetector()

	r := d.DetectColumnType([]any{nil, "", "   "}, "anything")
	assert.Equal(t, TypeString, r.Type)
	assert.Equal(t, 0.0, r.Confidence)
}

func TestDetectSampleBound(t *testing.T) {
	d := NewDetector()
	d.SampleSize = 10

	// Dates in the sample window, garbage beyond it: the tail must not
	// affect the verdict.
	var values []any
	for i := 0; i < 10; i++ {
		values = append(values, fmt.Sprintf("2024-01-%02d", i+1))
	}
	for i := 0; i < 30; i++ {
		values = append(values, "garbage")
	}

	r := d.DetectColumnType(values, "Date")
	assert.Equal(t, TypeDate, r.Type)
}

func TestAnalyzeTable(t *testing.T) {
	d := NewDetector()
	table := model.Table{
		Name:    "statement",
		Columns: []string{"Date", "Amount", "Description"},
		Rows: []model.Row{
			{"Date": "2024-01-10", "Amount": "$150.00", "Description": "ACH Payment - Utilities"},
			{"Date": "2024-01-11", "Amount": "$99.50", "Description": "Wire transfer in from client"},
		},
	}

	report := d.AnalyzeTable(table)
	require.Len(t, report, 3)
	assert.Equal(t, TypeDate, report["Date"].Type)
	assert.Equal(t, TypeNumber, report["Amount"].Type)
	assert.Equal(t, TypeString, report["Description"].Type.Family())
}

func TestCustomKeywords(t *testing.T) {
	d := NewDetector()
	d.Keywords = Keywords{Date: []string{"fecha"}}
	values := []any{"2024-01-15", "not a date", "also not"}

	hinted := d.DetectColumnType(values, "Fecha")
	plain := d.DetectColumnType(values, "x")
	assert.Greater(t, hinted.Confidence, plain.Confidence)
}

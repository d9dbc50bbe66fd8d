package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleMatch() model.Match {
	return model.Match{
		Bank: model.Transaction{
			Date:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Description: "ACH Payment - Utilities",
			Amount:      dec("150"),
			Reference:   "TXN-001",
		},
		Ledger: model.Transaction{
			Date:        time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			Description: "Utilities Payment",
			Amount:      dec("150"),
			Reference:   "L-889",
		},
		Score: 46.6667,
	}
}

func TestWriteMatches(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatches(&buf, []model.Match{sampleMatch()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, MatchHeader, lines[0])
	assert.Equal(t, "2024-01-10,ACH Payment - Utilities,150.00,TXN-001,2024-01-12,Utilities Payment,150.00,L-889,46.67", lines[1])
}

func TestWriteTransactions(t *testing.T) {
	txns := []model.Transaction{
		{
			Date:        time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC),
			Description: "Salary deposit",
			Amount:      dec("3000"),
			Type:        model.BankStatement,
			Category:    "Salary",
			Reference:   "TXN-002",
			SourceSheet: "Sheet1",
			SourceRow:   3,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, TransactionHeader, lines[0])
	assert.Equal(t, "2024-01-11,Salary deposit,3000.00,bank_statement,Salary,TXN-002,Sheet1,3", lines[1])
}

func TestWriteEmptySets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatches(&buf, nil))
	assert.Equal(t, MatchHeader, strings.TrimSpace(buf.String()))

	buf.Reset()
	require.NoError(t, WriteTransactions(&buf, nil))
	assert.Equal(t, TransactionHeader, strings.TrimSpace(buf.String()))
}

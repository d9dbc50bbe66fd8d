package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(dt time.Time, amount, desc string) model.Transaction {
	return model.Transaction{Date: dt, Amount: dec(amount), Description: desc}
}

func TestReconcileEndToEnd(t *testing.T) {
	bank := []model.Transaction{
		txn(date(2024, 1, 10), "150.00", "ACH Payment - Utilities"),
	}
	ledger := []model.Transaction{
		txn(date(2024, 1, 12), "150.00", "Utilities Payment"),
	}

	result := NewEngine().Reconcile(bank, ledger)
	require.Len(t, result.Matches, 1)
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedLedger)

	m := result.Matches[0]
	assert.Equal(t, "ACH Payment - Utilities", m.Bank.Description)
	assert.Equal(t, "Utilities Payment", m.Ledger.Description)
	// Two shared tokens of three, minus two days of drift.
	assert.InDelta(t, 100.0/3*2-20, m.Score, 0.01)
}

func TestReconcileToleranceBoundary(t *testing.T) {
	e := NewEngine()
	base := txn(date(2024, 1, 10), "100.00", "identical description text")

	tests := []struct {
		ledgerDate   time.Time
		ledgerAmount string
		wantMatch    bool
	}{
		{date(2024, 1, 13), "100.00", true},  // exactly 3 days apart
		{date(2024, 1, 14), "100.00", false}, // one day beyond
		{date(2024, 1, 10), "100.01", true},  // exactly one cent apart
		{date(2024, 1, 10), "100.02", false}, // one cent beyond
		{date(2024, 1, 7), "99.99", true},    // both bounds at once
	}
	for _, tt := range tests {
		ledger := []model.Transaction{txn(tt.ledgerDate, tt.ledgerAmount, base.Description)}
		result := e.Reconcile([]model.Transaction{base}, ledger)
		if tt.wantMatch {
			assert.Len(t, result.Matches, 1, "date %s amount %s", tt.ledgerDate, tt.ledgerAmount)
		} else {
			assert.Empty(t, result.Matches, "date %s amount %s", tt.ledgerDate, tt.ledgerAmount)
		}
	}
}

func TestReconcileSimilarityGate(t *testing.T) {
	bank := []model.Transaction{
		txn(date(2024, 1, 10), "100.00", "alpha beta gamma delta"),
	}
	// Same date and amount, but only one token of four in common.
	ledger := []model.Transaction{
		txn(date(2024, 1, 10), "100.00", "alpha zulu xray whiskey"),
	}

	result := NewEngine().Reconcile(bank, ledger)
	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedBank, 1)
	assert.Len(t, result.UnmatchedLedger, 1)
}

func TestReconcileAtMostOneMatch(t *testing.T) {
	// Two bank transactions compete for one ledger candidate; the earlier
	// bank transaction claims it.
	bank := []model.Transaction{
		txn(date(2024, 1, 10), "100.00", "invoice payment acme"),
		txn(date(2024, 1, 10), "100.00", "invoice payment acme"),
	}
	ledger := []model.Transaction{
		txn(date(2024, 1, 10), "100.00", "invoice payment acme"),
	}

	result := NewEngine().Reconcile(bank, ledger)
	require.Len(t, result.Matches, 1)
	assert.Len(t, result.UnmatchedBank, 1)
	assert.Empty(t, result.UnmatchedLedger)
}

func TestReconcileCompleteness(t *testing.T) {
	bank := []model.Transaction{
		txn(date(2024, 1, 10), "150.00", "utilities payment north office"),
		txn(date(2024, 1, 11), "99.00", "software subscription monthly fee"),
		txn(date(2024, 1, 12), "42.00", "no counterpart at all"),
	}
	ledger := []model.Transaction{
		txn(date(2024, 1, 10), "150.00", "utilities payment north office"),
		txn(date(2024, 1, 11), "99.00", "software subscription monthly fee"),
		txn(date(2024, 1, 20), "13.00", "stray ledger only entry"),
	}

	result := NewEngine().Reconcile(bank, ledger)
	assert.Equal(t, len(bank), len(result.Matches)+len(result.UnmatchedBank))
	assert.Equal(t, len(ledger), len(result.Matches)+len(result.UnmatchedLedger))
}

func TestReconcileDeterminism(t *testing.T) {
	bank := []model.Transaction{
		txn(date(2024, 1, 10), "100.00", "acme invoice payment jan"),
		txn(date(2024, 1, 11), "100.00", "acme invoice payment jan"),
	}
	ledger := []model.Transaction{
		txn(date(2024, 1, 10), "100.00", "acme invoice payment jan"),
		txn(date(2024, 1, 11), "100.00", "acme invoice payment jan"),
	}

	e := NewEngine()
	first := e.Reconcile(bank, ledger)
	second := e.Reconcile(bank, ledger)
	assert.Equal(t, first, second)
}

func TestReconcileBestCandidateWins(t *testing.T) {
	bank := []model.Transaction{
		txn(date(2024, 1, 10), "100.00", "acme invoice payment"),
	}
	ledger := []model.Transaction{
		txn(date(2024, 1, 13), "100.00", "acme invoice payment"), // 3 days off
		txn(date(2024, 1, 10), "100.00", "acme invoice payment"), // exact
	}

	result := NewEngine().Reconcile(bank, ledger)
	require.Len(t, result.Matches, 1)
	assert.True(t, result.Matches[0].Ledger.Date.Equal(date(2024, 1, 10)))
}

func TestReconcileEmptyInputs(t *testing.T) {
	e := NewEngine()
	ledger := []model.Transaction{txn(date(2024, 1, 10), "5.00", "stray")}

	result := e.Reconcile(nil, ledger)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.UnmatchedBank)
	assert.Len(t, result.UnmatchedLedger, 1)

	result = e.Reconcile(ledger, nil)
	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedBank, 1)
}

func TestSummarize(t *testing.T) {
	bank := []model.Transaction{
		txn(date(2024, 1, 10), "150.00", "utilities payment north office"),
		txn(date(2024, 1, 12), "42.00", "no counterpart at all"),
	}
	ledger := []model.Transaction{
		txn(date(2024, 1, 10), "150.00", "utilities payment north office"),
	}

	s := Summarize(NewEngine().Reconcile(bank, ledger))
	assert.Equal(t, 2, s.BankCount)
	assert.Equal(t, 1, s.LedgerCount)
	assert.Equal(t, 1, s.Matched)
	assert.Equal(t, 1, s.UnmatchedBank)
	assert.Equal(t, 0, s.UnmatchedLedger)
	assert.InDelta(t, 0.5, s.MatchRate, 0.001)
	assert.True(t, s.MatchedAmount.Equal(dec("150.00")))
	assert.True(t, s.UnmatchedBankAmount.Equal(dec("42.00")))
	assert.True(t, s.UnmatchedLedgerAmount.IsZero())
}

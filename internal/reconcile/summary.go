package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// Summary aggregates one reconciliation result for reporting.
type Summary struct {
	BankCount       int
	LedgerCount     int
	Matched         int
	UnmatchedBank   int
	UnmatchedLedger int
	// MatchRate is matched over total bank transactions, 0 when there were none.
	MatchRate float64
	// MatchedAmount sums the bank side of every match.
	MatchedAmount decimal.Decimal
	// UnmatchedBankAmount and UnmatchedLedgerAmount sum the residual sets.
	UnmatchedBankAmount   decimal.Decimal
	UnmatchedLedgerAmount decimal.Decimal
}

// Summarize computes summary statistics over a reconciliation result.
func Summarize(r model.ReconciliationResult) Summary {
	s := Summary{
		BankCount:       len(r.Matches) + len(r.UnmatchedBank),
		LedgerCount:     len(r.Matches) + len(r.UnmatchedLedger),
		Matched:         len(r.Matches),
		UnmatchedBank:   len(r.UnmatchedBank),
		UnmatchedLedger: len(r.UnmatchedLedger),
	}
	if s.BankCount > 0 {
		s.MatchRate = float64(s.Matched) / float64(s.BankCount)
	}
	for _, m := range r.Matches {
		s.MatchedAmount = s.MatchedAmount.Add(m.Bank.Amount)
	}
	for _, t := range r.UnmatchedBank {
		s.UnmatchedBankAmount = s.UnmatchedBankAmount.Add(t.Amount)
	}
	for _, t := range r.UnmatchedLedger {
		s.UnmatchedLedgerAmount = s.UnmatchedLedgerAmount.Add(t.Amount)
	}
	return s
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies which source a transaction came from.
type TransactionType string

const (
	BankStatement  TransactionType = "bank_statement"
	CustomerLedger TransactionType = "customer_ledger"
)

// Transaction is a normalized row from either source. It is immutable after
// construction: rows whose amount or date cannot be parsed are dropped
// upstream instead of being stored with sentinel values.
type Transaction struct {
	Date        time.Time // calendar date at UTC midnight
	Description string
	Amount      decimal.Decimal // signed; negative = money out
	Type        TransactionType
	Category    string // "Other" when no rule applies
	Reference   string
	SourceSheet string
	SourceRow   int // 1-based sheet row, including the header row
}

// DebitCredit returns "DEBIT" for negative amounts and "CREDIT" otherwise.
func (t Transaction) DebitCredit() string {
	if t.Amount.IsNegative() {
		return "DEBIT"
	}
	return "CREDIT"
}

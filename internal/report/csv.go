// Package report writes reconciliation outputs as CSV for downstream
// reporting tools.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// MatchHeader is the CSV header for matches.csv.
const MatchHeader = "bank_date,bank_description,bank_amount,bank_reference,ledger_date,ledger_description,ledger_amount,ledger_reference,score"

// TransactionHeader is the CSV header for unmatched transaction exports.
const TransactionHeader = "date,description,amount,type,category,reference,source_sheet,source_row"

const dateFormat = "2006-01-02"

const (
	matchNumFields = 9
	colBankDate    = 0
	colBankDesc    = 1
	colBankAmount  = 2
	colBankRef     = 3
	colLedgerDate  = 4
	colLedgerDesc  = 5
	colLedgerAmt   = 6
	colLedgerRef   = 7
	colScore       = 8
)

const (
	txnNumFields   = 8
	colDate        = 0
	colDescription = 1
	colAmount      = 2
	colType        = 3
	colCategory    = 4
	colReference   = 5
	colSourceSheet = 6
	colSourceRow   = 7
)

// WriteMatches writes match pairs (including header).
func WriteMatches(w io.Writer, matches []model.Match) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(MatchHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range matches {
		if err := cw.Write(MarshalMatch(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteTransactions writes a transaction set (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransactionHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalMatch converts a Match to a CSV row.
func MarshalMatch(m model.Match) []string {
	row := make([]string, matchNumFields)
	row[colBankDate] = m.Bank.Date.Format(dateFormat)
	row[colBankDesc] = m.Bank.Description
	row[colBankAmount] = m.Bank.Amount.StringFixed(2)
	row[colBankRef] = m.Bank.Reference
	row[colLedgerDate] = m.Ledger.Date.Format(dateFormat)
	row[colLedgerDesc] = m.Ledger.Description
	row[colLedgerAmt] = m.Ledger.Amount.StringFixed(2)
	row[colLedgerRef] = m.Ledger.Reference
	row[colScore] = strconv.FormatFloat(m.Score, 'f', 2, 64)
	return row
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, txnNumFields)
	row[colDate] = t.Date.Format(dateFormat)
	row[colDescription] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colType] = string(t.Type)
	row[colCategory] = t.Category
	row[colReference] = t.Reference
	row[colSourceSheet] = t.SourceSheet
	row[colSourceRow] = strconv.Itoa(t.SourceRow)
	return row
}

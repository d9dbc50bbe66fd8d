// Package runlog keeps an append-only CSV audit trail of reconciliation runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ledgermatch/ledgermatch/internal/id"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp       time.Time
	RunID           string
	BankSource      string
	LedgerSource    string
	Matched         int
	UnmatchedBank   int
	UnmatchedLedger int
	MatchRate       float64
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,bank_source,ledger_source,matched,unmatched_bank,unmatched_ledger,match_rate"

const (
	numFields          = 8
	logDir             = "logs"
	logFile            = "logs/run-log.csv"
	colTimestamp       = 0
	colRunID           = 1
	colBankSource      = 2
	colLedgerSource    = 3
	colMatched         = 4
	colUnmatchedBank   = 5
	colUnmatchedLedger = 6
	colMatchRate       = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colBankSource] = e.BankSource
	row[colLedgerSource] = e.LedgerSource
	row[colMatched] = strconv.Itoa(e.Matched)
	row[colUnmatchedBank] = strconv.Itoa(e.UnmatchedBank)
	row[colUnmatchedLedger] = strconv.Itoa(e.UnmatchedLedger)
	row[colMatchRate] = strconv.FormatFloat(e.MatchRate, 'f', 4, 64)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	matched, err := strconv.Atoi(record[colMatched])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing matched %q: %w", record[colMatched], err)
	}
	ubank, err := strconv.Atoi(record[colUnmatchedBank])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing unmatched_bank %q: %w", record[colUnmatchedBank], err)
	}
	uledger, err := strconv.Atoi(record[colUnmatchedLedger])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing unmatched_ledger %q: %w", record[colUnmatchedLedger], err)
	}
	rate, err := strconv.ParseFloat(record[colMatchRate], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing match_rate %q: %w", record[colMatchRate], err)
	}

	return Entry{
		Timestamp:       ts,
		RunID:           record[colRunID],
		BankSource:      record[colBankSource],
		LedgerSource:    record[colLedgerSource],
		Matched:         matched,
		UnmatchedBank:   ubank,
		UnmatchedLedger: uledger,
		MatchRate:       rate,
	}, nil
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and
// header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv, or nil if the log
// does not exist yet.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = numFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// NextRunID returns the next run ID for the month of now, continuing the
// sequence found in the existing log.
func NextRunID(root string, now time.Time) (string, error) {
	entries, err := Read(root)
	if err != nil {
		return "", err
	}

	maxSeq := 0
	for _, e := range entries {
		year, month, seq, err := id.ParseRunID(e.RunID)
		if err != nil {
			continue
		}
		if year == now.Year() && month == int(now.Month()) && seq > maxSeq {
			maxSeq = seq
		}
	}
	return id.FormatRunID(now.Year(), int(now.Month()), maxSeq+1), nil
}

package model

// Match pairs one bank transaction with one ledger transaction. Each ledger
// transaction appears in at most one Match; so does each bank transaction.
type Match struct {
	Bank   Transaction
	Ledger Transaction
	Score  float64
}

// ReconciliationResult is the full output of one reconciliation pass.
// Matches plus UnmatchedBank always account for every bank transaction, and
// Matches plus UnmatchedLedger for every ledger transaction.
type ReconciliationResult struct {
	Matches         []Match
	UnmatchedBank   []Transaction
	UnmatchedLedger []Transaction
}

// Package reconcile pairs bank-statement transactions with customer-ledger
// transactions. The matcher is a greedy, input-order-dependent scan: fast,
// explainable, and deterministic, but not a maximum-weight assignment.
package reconcile

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// Scorer rates a candidate pairing. Score is the ranking value; Similarity
// is the 0-100 textual component that gates acceptance. The interface exists
// so an optimal-assignment strategy could replace the default without
// touching the engine's callers.
type Scorer interface {
	Score(bank, ledger model.Transaction) (score, similarity float64)
}

// TokenScorer scores description token overlap, penalized by date and amount
// drift. This is the default scoring function.
type TokenScorer struct {
	DatePenalty   float64 // points lost per day apart
	AmountPenalty float64 // points lost per currency unit apart
}

// Score implements Scorer.
func (s TokenScorer) Score(bank, ledger model.Transaction) (float64, float64) {
	sim := DescriptionSimilarity(bank.Description, ledger.Description)
	days := float64(daysBetween(bank.Date, ledger.Date))
	diff, _ := bank.Amount.Sub(ledger.Amount).Abs().Float64()
	return sim - s.DatePenalty*days - s.AmountPenalty*diff, sim
}

// Engine holds the tolerance window and acceptance parameters for one
// reconciliation pass. It keeps no state between calls.
type Engine struct {
	// DateToleranceDays is the maximum date gap, inclusive.
	DateToleranceDays int
	// AmountTolerance is the maximum amount gap, inclusive.
	AmountTolerance decimal.Decimal
	// AcceptThreshold must be strictly exceeded by the similarity component
	// before a candidate can win.
	AcceptThreshold float64
	// Scorer ranks eligible candidates.
	Scorer Scorer
}

// NewEngine returns an Engine with the reference defaults: three days, one
// cent, threshold 50, token-overlap scoring.
func NewEngine() *Engine {
	return &Engine{
		DateToleranceDays: 3,
		AmountTolerance:   decimal.NewFromFloat(0.01),
		AcceptThreshold:   50,
		Scorer:            TokenScorer{DatePenalty: 10, AmountPenalty: 100},
	}
}

// Reconcile matches bank transactions against a pool of ledger candidates.
// Bank transactions are processed in input order; each claims its
// highest-scoring eligible candidate, which is then permanently removed from
// the pool. Ties go to the earlier pool candidate, so identical inputs and
// parameters always reproduce the same output.
func (e *Engine) Reconcile(bank, ledger []model.Transaction) model.ReconciliationResult {
	used := make([]bool, len(ledger))
	var result model.ReconciliationResult

	for _, bt := range bank {
		bestIdx := -1
		bestScore := 0.0
		for i, lt := range ledger {
			if used[i] || !e.eligible(bt, lt) {
				continue
			}
			score, sim := e.Scorer.Score(bt, lt)
			if sim <= e.AcceptThreshold {
				continue
			}
			if bestIdx < 0 || score > bestScore {
				bestIdx, bestScore = i, score
			}
		}

		if bestIdx < 0 {
			result.UnmatchedBank = append(result.UnmatchedBank, bt)
			continue
		}
		used[bestIdx] = true
		result.Matches = append(result.Matches, model.Match{
			Bank:   bt,
			Ledger: ledger[bestIdx],
			Score:  bestScore,
		})
	}

	for i, lt := range ledger {
		if !used[i] {
			result.UnmatchedLedger = append(result.UnmatchedLedger, lt)
		}
	}
	return result
}

// eligible checks the tolerance window. Both bounds are inclusive: a pair
// exactly at the tolerance is still a candidate.
func (e *Engine) eligible(bank, ledger model.Transaction) bool {
	if daysBetween(bank.Date, ledger.Date) > e.DateToleranceDays {
		return false
	}
	return bank.Amount.Sub(ledger.Amount).Abs().Cmp(e.AmountTolerance) <= 0
}

func daysBetween(a, b time.Time) int {
	days := int(math.Round(math.Abs(a.Sub(b).Hours()) / 24))
	return days
}

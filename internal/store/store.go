// Package store is the strategy-polymorphic query and aggregation layer over
// transaction tables. Three interchangeable backends implement one contract;
// reconciliation logic never depends on which one is active.
package store

import (
	"fmt"

	"github.com/ledgermatch/ledgermatch/internal/detect"
	"github.com/ledgermatch/ledgermatch/internal/model"
)

// Op is a filter operator.
type Op string

const (
	OpEq      Op = "=="
	OpGT      Op = ">"
	OpLT      Op = "<"
	OpGTE     Op = ">="
	OpLTE     Op = "<="
	OpIn      Op = "in"
	OpBetween Op = "between"
)

// Filter is one query predicate. Filters combine conjunctively in the order
// given. For OpIn, Value is a []any of accepted values; for OpBetween,
// Value and Value2 are the inclusive bounds.
type Filter struct {
	Column string
	Op     Op
	Value  any
	Value2 any
}

// Store is the backend contract. StoreData replaces any previously stored
// table and rebuilds whatever indexes the backend keeps. Query and Aggregate
// report backend failures as a returned error alongside an empty table; the
// caller treats that as a status, never a crash.
type Store interface {
	StoreData(t model.Table, meta map[string]detect.Result) error
	Query(filters []Filter) (model.Table, error)
	Aggregate(groupBy, measures []string) (model.Table, error)
	Close() error
}

// Storage strategy names.
const (
	StrategyMemory = "memory"
	StrategySQLite = "sqlite"
	StrategyHash   = "hash"
)

// New constructs the backend for a strategy name. An unknown name is a
// contract violation and fails hard at construction time.
func New(strategy string) (Store, error) {
	switch strategy {
	case StrategyMemory:
		return NewMemoryStore(), nil
	case StrategySQLite:
		return NewSQLiteStore(":memory:")
	case StrategyHash:
		return NewHashStore(), nil
	}
	return nil, fmt.Errorf("unknown storage strategy %q", strategy)
}

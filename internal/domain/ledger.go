package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLedgerTimeout bounds the duration of one atomic ledger unit.
const DefaultLedgerTimeout = 10 * time.Second

// LedgerTx exposes the store primitives available inside one atomic unit.
// Reads observe writes made earlier in the same unit.
type LedgerTx interface {
	// FindTransaction loads a transaction row and takes an exclusive lock on
	// it, so concurrent updates of the same transaction serialize and apply
	// their deltas in commit order.
	FindTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindSubCategory(ctx context.Context, id uuid.UUID) (*SubCategory, error)
	InsertTransaction(ctx context.Context, transaction *Transaction) (*Transaction, error)
	UpdateTransaction(ctx context.Context, transaction *Transaction) (*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	// IncrementUserBalance adds delta to the user's running balance. The
	// underlying UPDATE takes an exclusive lock on the user row, serializing
	// concurrent mutations for the same user so no increment is lost.
	IncrementUserBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error
}

// LedgerStore runs a group of store operations as one atomic unit: all
// commit together or none do. The unit is bounded by timeout; exceeding it
// rolls back and surfaces ErrLedgerTimeout, which callers may retry.
type LedgerStore interface {
	RunAtomic(timeout time.Duration, fn func(ctx context.Context, tx LedgerTx) error) error
}

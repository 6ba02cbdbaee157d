package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction records a single income or expense entry. Amount is always
// stored non-negative; its signed balance contribution is derived from the
// sub-category's type via SignedAmount.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	SubCategoryID uuid.UUID       `json:"subCategoryId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   *string         `json:"description,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// SubCategory is populated on read paths that join it.
	SubCategory *SubCategory `json:"subCategory,omitempty"`
}

// SignedAmount returns the balance contribution of an amount recorded under
// the given category type: the amount itself for INCOME, its negation for
// EXPENSE. Assumes a validated non-negative amount.
func SignedAmount(amount decimal.Decimal, t CategoryType) decimal.Decimal {
	if t == CategoryTypeIncome {
		return amount
	}
	return amount.Neg()
}

type TransactionFilters struct {
	From          *time.Time
	To            *time.Time
	SubCategoryID *uuid.UUID
	Type          *CategoryType
	Page          int32
	PageSize      int32
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginatedTransactions is a page of transactions ordered newest-first by
// creation time. TotalPage is ceil(Total/PageSize), floored at 1.
type PaginatedTransactions struct {
	Items     []*Transaction `json:"items"`
	Total     int64          `json:"total"`
	Page      int32          `json:"page"`
	PageSize  int32          `json:"pageSize"`
	TotalPage int32          `json:"totalPage"`
}

// TransactionRepository defines the read path for transactions. Mutations go
// through the LedgerStore so the row change and the balance adjustment commit
// as one atomic unit.
type TransactionRepository interface {
	List(userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
}

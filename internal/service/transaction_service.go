package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionService keeps transaction rows and the owner's running balance
// consistent. Every mutation runs as one atomic unit against the ledger
// store: the row change and the balance adjustment commit together or not at
// all. No mutation is retried here; timeouts surface to the caller.
type TransactionService struct {
	ledger          domain.LedgerStore
	transactionRepo domain.TransactionRepository
	timeout         time.Duration
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(ledger domain.LedgerStore, transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{
		ledger:          ledger,
		transactionRepo: transactionRepo,
		timeout:         domain.DefaultLedgerTimeout,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	SubCategoryID uuid.UUID
	Amount        decimal.Decimal
	Description   *string
	Date          time.Time
}

// CreateTransaction inserts a transaction and credits the owner's balance
// with its signed contribution in the same atomic unit.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	var created *domain.Transaction
	err := s.ledger.RunAtomic(s.timeout, func(ctx context.Context, tx domain.LedgerTx) error {
		subCategory, err := tx.FindSubCategory(ctx, input.SubCategoryID)
		if err != nil {
			return err
		}
		if subCategory.UserID != userID {
			return domain.ErrSubCategoryNotFound
		}

		transaction := &domain.Transaction{
			UserID:        userID,
			SubCategoryID: subCategory.ID,
			Amount:        input.Amount,
			Description:   trimDescription(input.Description),
			Date:          input.Date,
		}
		created, err = tx.InsertTransaction(ctx, transaction)
		if err != nil {
			return err
		}
		created.SubCategory = subCategory

		delta := domain.SignedAmount(created.Amount, subCategory.Type)
		return tx.IncrementUserBalance(ctx, userID, delta)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTransactionInput holds the input for updating a transaction. Nil
// fields retain their prior values.
type UpdateTransactionInput struct {
	SubCategoryID *uuid.UUID
	Amount        *decimal.Decimal
	Description   *string
	Date          *time.Time
}

// UpdateTransaction applies a partial update and shifts the owner's balance
// by the difference between the old and new signed contributions, all inside
// one atomic unit. The existing row is read FOR UPDATE in the same unit that
// mutates it, so concurrent updates of the same transaction serialize and
// their deltas land in commit order.
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.Amount != nil && input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	var updated *domain.Transaction
	err := s.ledger.RunAtomic(s.timeout, func(ctx context.Context, tx domain.LedgerTx) error {
		existing, err := tx.FindTransaction(ctx, id)
		if err != nil {
			return err
		}
		if existing.UserID != userID {
			return domain.ErrTransactionNotFound
		}

		oldSubCategory, err := tx.FindSubCategory(ctx, existing.SubCategoryID)
		if err != nil {
			return err
		}

		// The new sub-category is only re-fetched when it actually changes.
		newSubCategory := oldSubCategory
		if input.SubCategoryID != nil && *input.SubCategoryID != existing.SubCategoryID {
			newSubCategory, err = tx.FindSubCategory(ctx, *input.SubCategoryID)
			if err != nil {
				return err
			}
			if newSubCategory.UserID != userID {
				return domain.ErrSubCategoryNotFound
			}
		}

		newAmount := existing.Amount
		if input.Amount != nil {
			newAmount = *input.Amount
		}

		oldDelta := domain.SignedAmount(existing.Amount, oldSubCategory.Type)
		newDelta := domain.SignedAmount(newAmount, newSubCategory.Type)
		delta := newDelta.Sub(oldDelta)

		existing.SubCategoryID = newSubCategory.ID
		existing.Amount = newAmount
		if input.Description != nil {
			existing.Description = trimDescription(input.Description)
		}
		if input.Date != nil {
			existing.Date = *input.Date
		}

		updated, err = tx.UpdateTransaction(ctx, existing)
		if err != nil {
			return err
		}
		updated.SubCategory = newSubCategory

		return tx.IncrementUserBalance(ctx, userID, delta)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes a transaction and reverses its signed
// contribution on the owner's balance in the same atomic unit.
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id uuid.UUID) error {
	return s.ledger.RunAtomic(s.timeout, func(ctx context.Context, tx domain.LedgerTx) error {
		existing, err := tx.FindTransaction(ctx, id)
		if err != nil {
			return err
		}
		if existing.UserID != userID {
			return domain.ErrTransactionNotFound
		}

		subCategory, err := tx.FindSubCategory(ctx, existing.SubCategoryID)
		if err != nil {
			return err
		}

		if err := tx.DeleteTransaction(ctx, existing.ID); err != nil {
			return err
		}

		delta := domain.SignedAmount(existing.Amount, subCategory.Type).Neg()
		return tx.IncrementUserBalance(ctx, userID, delta)
	})
}

// ListTransactions retrieves a user's transactions with filters and pagination
func (s *TransactionService) ListTransactions(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters != nil && filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return nil, domain.ErrInvalidDateRange
	}
	return s.transactionRepo.List(userID, filters)
}

func trimDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerStore implements domain.LedgerStore on top of a PostgreSQL
// transaction. All primitives issued through the LedgerTx it hands to fn
// commit or roll back together.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore creates a new LedgerStore
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// RunAtomic runs fn inside a single database transaction bounded by timeout.
// A deadline hit anywhere in the unit rolls back and reports
// domain.ErrLedgerTimeout.
func (s *LedgerStore) RunAtomic(timeout time.Duration, fn func(ctx context.Context, tx domain.LedgerTx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapDeadline(err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &ledgerTx{tx: tx}); err != nil {
		return mapDeadline(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapDeadline(err)
	}
	return nil
}

func mapDeadline(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrLedgerTimeout
	}
	return err
}

// ledgerTx implements domain.LedgerTx over a pgx transaction
type ledgerTx struct {
	tx pgx.Tx
}

const transactionColumns = "id, user_id, sub_category_id, amount, description, transaction_date, created_at, updated_at"

// FindTransaction loads a transaction row FOR UPDATE, so a concurrent unit
// touching the same row blocks until this one commits.
func (l *ledgerTx) FindTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
		FOR UPDATE`

	transaction, err := scanTransaction(l.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// FindSubCategory loads a sub-category row
func (l *ledgerTx) FindSubCategory(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	query := `
		SELECT id, user_id, name, type, created_at, updated_at
		FROM sub_categories
		WHERE id = $1`

	subCategory, err := scanSubCategory(l.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubCategoryNotFound
		}
		return nil, err
	}
	return subCategory, nil
}

// InsertTransaction inserts a transaction row
func (l *ledgerTx) InsertTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var description pgtype.Text
	if transaction.Description != nil {
		description.String = *transaction.Description
		description.Valid = true
	}

	query := `
		INSERT INTO transactions (user_id, sub_category_id, amount, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + transactionColumns

	return scanTransaction(l.tx.QueryRow(ctx, query,
		transaction.UserID,
		transaction.SubCategoryID,
		amount,
		description,
		transaction.Date,
	))
}

// UpdateTransaction updates a transaction row
func (l *ledgerTx) UpdateTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var description pgtype.Text
	if transaction.Description != nil {
		description.String = *transaction.Description
		description.Valid = true
	}

	query := `
		UPDATE transactions
		SET sub_category_id = $2, amount = $3, description = $4, transaction_date = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + transactionColumns

	updated, err := scanTransaction(l.tx.QueryRow(ctx, query,
		transaction.ID,
		transaction.SubCategoryID,
		amount,
		description,
		transaction.Date,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction deletes a transaction row
func (l *ledgerTx) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	result, err := l.tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// IncrementUserBalance adjusts the owner's running balance. The UPDATE takes
// an exclusive lock on the user row until the unit commits.
func (l *ledgerTx) IncrementUserBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error {
	amount, err := decimalToPgNumeric(delta)
	if err != nil {
		return fmt.Errorf("invalid delta: %w", err)
	}

	result, err := l.tx.Exec(ctx, `
		UPDATE users
		SET total_amount = total_amount + $2, updated_at = now()
		WHERE id = $1`, userID, amount)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		amount      pgtype.Numeric
		description pgtype.Text
	)
	err := row.Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.SubCategoryID,
		&amount,
		&description,
		&transaction.Date,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	transaction.Amount = pgNumericToDecimal(amount)
	if description.Valid {
		transaction.Description = &description.String
	}
	return &transaction, nil
}

func scanSubCategory(row pgx.Row) (*domain.SubCategory, error) {
	var (
		subCategory  domain.SubCategory
		categoryType string
	)
	err := row.Scan(
		&subCategory.ID,
		&subCategory.UserID,
		&subCategory.Name,
		&categoryType,
		&subCategory.CreatedAt,
		&subCategory.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	subCategory.Type = domain.CategoryType(categoryType)
	return &subCategory, nil
}

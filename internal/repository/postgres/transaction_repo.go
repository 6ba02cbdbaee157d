package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
)

// TransactionRepository implements the transaction read path using PostgreSQL.
// Mutations go through the LedgerStore.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// List retrieves a user's transactions with optional filters, newest-first by
// creation time, paginated with a 1-based page index.
func (r *TransactionRepository) List(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}
	offset := (page - 1) * pageSize

	where := []string{"t.user_id = $1"}
	args := []any{userID}

	if filters != nil {
		if filters.From != nil {
			args = append(args, *filters.From)
			where = append(where, fmt.Sprintf("t.created_at >= $%d", len(args)))
		}
		if filters.To != nil {
			args = append(args, *filters.To)
			where = append(where, fmt.Sprintf("t.created_at <= $%d", len(args)))
		}
		if filters.SubCategoryID != nil {
			args = append(args, *filters.SubCategoryID)
			where = append(where, fmt.Sprintf("t.sub_category_id = $%d", len(args)))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			where = append(where, fmt.Sprintf("sc.type = $%d", len(args)))
		}
	}
	whereClause := strings.Join(where, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN sub_categories sc ON sc.id = t.sub_category_id
		WHERE ` + whereClause

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	listArgs := append(args, pageSize, offset)
	listQuery := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.sub_category_id, t.amount, t.description, t.transaction_date, t.created_at, t.updated_at,
		       sc.id, sc.user_id, sc.name, sc.type, sc.created_at, sc.updated_at
		FROM transactions t
		JOIN sub_categories sc ON sc.id = t.sub_category_id
		WHERE %s
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Transaction
	for rows.Next() {
		var (
			transaction  domain.Transaction
			subCategory  domain.SubCategory
			amount       pgtype.Numeric
			description  pgtype.Text
			categoryType string
		)
		err := rows.Scan(
			&transaction.ID,
			&transaction.UserID,
			&transaction.SubCategoryID,
			&amount,
			&description,
			&transaction.Date,
			&transaction.CreatedAt,
			&transaction.UpdatedAt,
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
		transaction.Amount = pgNumericToDecimal(amount)
		if description.Valid {
			transaction.Description = &description.String
		}
		subCategory.Type = domain.CategoryType(categoryType)
		transaction.SubCategory = &subCategory
		items = append(items, &transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPage := int32(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		totalPage++
	}
	if totalPage < 1 {
		totalPage = 1
	}

	return &domain.PaginatedTransactions{
		Items:     items,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		TotalPage: totalPage,
	}, nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
)

// SubCategoryRepository implements domain.SubCategoryRepository using PostgreSQL
type SubCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewSubCategoryRepository creates a new SubCategoryRepository
func NewSubCategoryRepository(pool *pgxpool.Pool) *SubCategoryRepository {
	return &SubCategoryRepository{pool: pool}
}

const subCategoryColumns = "id, user_id, name, type, created_at, updated_at"

// Create creates a new sub-category
func (r *SubCategoryRepository) Create(subCategory *domain.SubCategory) (*domain.SubCategory, error) {
	ctx := context.Background()

	query := `
		INSERT INTO sub_categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING ` + subCategoryColumns

	return scanSubCategory(r.pool.QueryRow(ctx, query, subCategory.UserID, subCategory.Name, string(subCategory.Type)))
}

// GetByID retrieves a sub-category by ID within a user's scope
func (r *SubCategoryRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.SubCategory, error) {
	ctx := context.Background()

	query := `SELECT ` + subCategoryColumns + ` FROM sub_categories WHERE user_id = $1 AND id = $2`
	subCategory, err := scanSubCategory(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubCategoryNotFound
		}
		return nil, err
	}
	return subCategory, nil
}

// GetAllByUser retrieves all of a user's sub-categories, optionally filtered by type
func (r *SubCategoryRepository) GetAllByUser(userID uuid.UUID, typeFilter *domain.CategoryType) ([]*domain.SubCategory, error) {
	ctx := context.Background()

	query := `SELECT ` + subCategoryColumns + ` FROM sub_categories WHERE user_id = $1`
	args := []any{userID}
	if typeFilter != nil {
		query += ` AND type = $2`
		args = append(args, string(*typeFilter))
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subCategories []*domain.SubCategory
	for rows.Next() {
		subCategory, err := scanSubCategory(rows)
		if err != nil {
			return nil, err
		}
		subCategories = append(subCategories, subCategory)
	}
	return subCategories, rows.Err()
}

// Update updates a sub-category's name and type
func (r *SubCategoryRepository) Update(userID uuid.UUID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.SubCategory, error) {
	ctx := context.Background()

	query := `
		UPDATE sub_categories
		SET name = $3, type = $4, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING ` + subCategoryColumns

	subCategory, err := scanSubCategory(r.pool.QueryRow(ctx, query, userID, id, name, string(categoryType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubCategoryNotFound
		}
		return nil, err
	}
	return subCategory, nil
}

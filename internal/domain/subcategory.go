package domain

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType determines the sign of a transaction's balance contribution.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// IsValid reports whether t is a known category type.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// SubCategory is a user-defined spending or income category. Its type decides
// whether transactions recorded against it add to or subtract from the
// owner's balance.
type SubCategory struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// SubCategoryRepository defines the interface for sub-category persistence operations
type SubCategoryRepository interface {
	Create(subCategory *SubCategory) (*SubCategory, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*SubCategory, error)
	GetAllByUser(userID uuid.UUID, typeFilter *CategoryType) ([]*SubCategory, error)
	Update(userID uuid.UUID, id uuid.UUID, name string, categoryType CategoryType) (*SubCategory, error)
}

package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
)

// SubCategoryService handles sub-category business logic
type SubCategoryService struct {
	subCategoryRepo domain.SubCategoryRepository
}

// NewSubCategoryService creates a new SubCategoryService
func NewSubCategoryService(subCategoryRepo domain.SubCategoryRepository) *SubCategoryService {
	return &SubCategoryService{subCategoryRepo: subCategoryRepo}
}

// CreateSubCategory creates a sub-category for a user
func (s *SubCategoryService) CreateSubCategory(userID uuid.UUID, name string, categoryType domain.CategoryType) (*domain.SubCategory, error) {
	name, err := validateSubCategoryName(name)
	if err != nil {
		return nil, err
	}
	if !categoryType.IsValid() {
		return nil, domain.ErrInvalidCategoryType
	}

	return s.subCategoryRepo.Create(&domain.SubCategory{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	})
}

// ListSubCategories retrieves a user's sub-categories, optionally filtered by type
func (s *SubCategoryService) ListSubCategories(userID uuid.UUID, typeFilter *domain.CategoryType) ([]*domain.SubCategory, error) {
	if typeFilter != nil && !typeFilter.IsValid() {
		return nil, domain.ErrInvalidCategoryType
	}
	return s.subCategoryRepo.GetAllByUser(userID, typeFilter)
}

// UpdateSubCategory updates a sub-category's name and type
func (s *SubCategoryService) UpdateSubCategory(userID uuid.UUID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.SubCategory, error) {
	name, err := validateSubCategoryName(name)
	if err != nil {
		return nil, err
	}
	if !categoryType.IsValid() {
		return nil, domain.ErrInvalidCategoryType
	}

	return s.subCategoryRepo.Update(userID, id, name, categoryType)
}

func validateSubCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxSubCategoryNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

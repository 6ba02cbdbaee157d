package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// SubCategoryHandler handles sub-category HTTP requests
type SubCategoryHandler struct {
	subCategoryService *service.SubCategoryService
}

// NewSubCategoryHandler creates a new SubCategoryHandler
func NewSubCategoryHandler(subCategoryService *service.SubCategoryService) *SubCategoryHandler {
	return &SubCategoryHandler{subCategoryService: subCategoryService}
}

// SubCategoryRequest represents the create/update sub-category request body
type SubCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SubCategoryResponse represents a sub-category in API responses
type SubCategoryResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateSubCategory godoc
// @Summary Create a sub-category
// @Tags sub-categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubCategoryRequest true "Sub-category creation request"
// @Success 201 {object} SubCategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /sub-categories [post]
func (h *SubCategoryHandler) CreateSubCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req SubCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	subCategory, err := h.subCategoryService.CreateSubCategory(userID, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if mapped := mapSubCategoryValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create sub-category")
		return NewInternalError(c, "Failed to create sub-category")
	}

	log.Info().Str("user_id", userID.String()).Str("sub_category_id", subCategory.ID.String()).Str("name", subCategory.Name).Msg("Sub-category created")
	return c.JSON(http.StatusCreated, toSubCategoryResponse(subCategory))
}

// ListSubCategories godoc
// @Summary List sub-categories
// @Tags sub-categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "Category type (INCOME or EXPENSE)"
// @Success 200 {array} SubCategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /sub-categories [get]
func (h *SubCategoryHandler) ListSubCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var typeFilter *domain.CategoryType
	if typeStr := c.QueryParam("type"); typeStr != "" {
		categoryType := domain.CategoryType(typeStr)
		if !categoryType.IsValid() {
			return NewValidationError(c, "Invalid type (must be 'INCOME' or 'EXPENSE')", nil)
		}
		typeFilter = &categoryType
	}

	subCategories, err := h.subCategoryService.ListSubCategories(userID, typeFilter)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list sub-categories")
		return NewInternalError(c, "Failed to list sub-categories")
	}

	response := make([]SubCategoryResponse, len(subCategories))
	for i, subCategory := range subCategories {
		response[i] = toSubCategoryResponse(subCategory)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateSubCategory godoc
// @Summary Update a sub-category
// @Tags sub-categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sub-category ID"
// @Param request body SubCategoryRequest true "Sub-category update request"
// @Success 200 {object} SubCategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /sub-categories/{id} [put]
func (h *SubCategoryHandler) UpdateSubCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid sub-category ID", nil)
	}

	var req SubCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	subCategory, err := h.subCategoryService.UpdateSubCategory(userID, id, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if errors.Is(err, domain.ErrSubCategoryNotFound) {
			return NewNotFoundError(c, "Sub-category not found")
		}
		if mapped := mapSubCategoryValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("sub_category_id", id.String()).Msg("Failed to update sub-category")
		return NewInternalError(c, "Failed to update sub-category")
	}

	log.Info().Str("user_id", userID.String()).Str("sub_category_id", id.String()).Msg("Sub-category updated")
	return c.JSON(http.StatusOK, toSubCategoryResponse(subCategory))
}

func mapSubCategoryValidationError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	}
	if errors.Is(err, domain.ErrNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 128 characters or less"},
		})
	}
	if errors.Is(err, domain.ErrInvalidCategoryType) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: INCOME, EXPENSE"},
		})
	}
	return nil
}

func toSubCategoryResponse(subCategory *domain.SubCategory) SubCategoryResponse {
	return SubCategoryResponse{
		ID:        subCategory.ID.String(),
		UserID:    subCategory.UserID.String(),
		Name:      subCategory.Name,
		Type:      string(subCategory.Type),
		CreatedAt: subCategory.CreatedAt.Format(timeFormat),
		UpdatedAt: subCategory.UpdatedAt.Format(timeFormat),
	}
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/rs/zerolog/log"
)

const timeFormat = time.RFC3339

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body.
// Amount is accepted as a JSON number or a numeric string; Date is ISO-8601.
type CreateTransactionRequest struct {
	SubCategoryID string     `json:"subCategoryId"`
	Amount        *JSONMoney `json:"amount"`
	Description   *string    `json:"description,omitempty"`
	Date          string     `json:"date"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"userId"`
	SubCategoryID string               `json:"subCategoryId"`
	Amount        string               `json:"amount"`
	Description   *string              `json:"description,omitempty"`
	Date          string               `json:"date"`
	SubCategory   *SubCategoryResponse `json:"subCategory,omitempty"`
	CreatedAt     string               `json:"createdAt"`
	UpdatedAt     string               `json:"updatedAt"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income or expense entry and adjust the running balance
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	subCategoryID, err := uuid.Parse(req.SubCategoryID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "subCategoryId", Message: "Must be a valid sub-category ID"},
		})
	}

	if req.Amount == nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount is required"},
		})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Must be an ISO-8601 date"},
		})
	}

	input := service.CreateTransactionInput{
		SubCategoryID: subCategoryID,
		Amount:        req.Amount.Decimal,
		Description:   req.Description,
		Date:          date,
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrSubCategoryNotFound) {
			return NewNotFoundError(c, "Sub-category not found")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be non-negative"},
			})
		}
		if errors.Is(err, domain.ErrLedgerTimeout) {
			return NewUnavailableError(c, "Could not commit within time bound, retry")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", transaction.ID.String()).Msg("Transaction created")
	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// PaginatedTransactionsResponse represents paginated transactions in API responses
type PaginatedTransactionsResponse struct {
	Items     []TransactionResponse `json:"items"`
	Total     int64                 `json:"total"`
	Page      int32                 `json:"page"`
	PageSize  int32                 `json:"pageSize"`
	TotalPage int32                 `json:"totalPage"`
}

// ListTransactions godoc
// @Summary List transactions
// @Description Get paginated transactions with optional filters, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param from query string false "Creation time lower bound (ISO-8601)"
// @Param to query string false "Creation time upper bound (ISO-8601)"
// @Param type query string false "Category type (INCOME or EXPENSE)"
// @Param subCategoryId query string false "Filter by sub-category ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Success 200 {object} PaginatedTransactionsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filters := &domain.TransactionFilters{
		Page:     1,
		PageSize: domain.DefaultPageSize,
	}

	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, err := parseDate(fromStr)
		if err != nil {
			return NewValidationError(c, "Invalid from date (use ISO-8601)", nil)
		}
		filters.From = &from
	}

	if toStr := c.QueryParam("to"); toStr != "" {
		to, err := parseDate(toStr)
		if err != nil {
			return NewValidationError(c, "Invalid to date (use ISO-8601)", nil)
		}
		filters.To = &to
	}

	if typeStr := c.QueryParam("type"); typeStr != "" {
		categoryType := domain.CategoryType(typeStr)
		if !categoryType.IsValid() {
			return NewValidationError(c, "Invalid type (must be 'INCOME' or 'EXPENSE')", nil)
		}
		filters.Type = &categoryType
	}

	if subCategoryIDStr := c.QueryParam("subCategoryId"); subCategoryIDStr != "" {
		subCategoryID, err := uuid.Parse(subCategoryIDStr)
		if err != nil {
			return NewValidationError(c, "Invalid subCategoryId", nil)
		}
		filters.SubCategoryID = &subCategoryID
	}

	if pageStr := c.QueryParam("page"); pageStr != "" {
		page, err := strconv.ParseInt(pageStr, 10, 32)
		if err != nil || page < 1 {
			return NewValidationError(c, "Invalid page (must be positive integer)", nil)
		}
		filters.Page = int32(page)
	}

	if pageSizeStr := c.QueryParam("pageSize"); pageSizeStr != "" {
		pageSize, err := strconv.ParseInt(pageSizeStr, 10, 32)
		if err != nil || pageSize < 1 {
			return NewValidationError(c, "Invalid pageSize (must be positive integer)", nil)
		}
		if pageSize > domain.MaxPageSize {
			pageSize = domain.MaxPageSize
		}
		filters.PageSize = int32(pageSize)
	}

	result, err := h.transactionService.ListTransactions(userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			return NewValidationError(c, "From date must be less than or equal to to date", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	response := PaginatedTransactionsResponse{
		Items:     make([]TransactionResponse, len(result.Items)),
		Total:     result.Total,
		Page:      result.Page,
		PageSize:  result.PageSize,
		TotalPage: result.TotalPage,
	}
	for i, transaction := range result.Items {
		response.Items[i] = toTransactionResponse(transaction)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateTransactionRequest represents the partial update request body. Absent
// fields retain their prior values.
type UpdateTransactionRequest struct {
	SubCategoryID *string    `json:"subCategoryId,omitempty"`
	Amount        *JSONMoney `json:"amount,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Date          *string    `json:"date,omitempty"`
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Partially update a transaction and shift the running balance by the delta
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Transaction update request"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateTransactionInput{
		Description: req.Description,
	}

	if req.SubCategoryID != nil {
		subCategoryID, err := uuid.Parse(*req.SubCategoryID)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "subCategoryId", Message: "Must be a valid sub-category ID"},
			})
		}
		input.SubCategoryID = &subCategoryID
	}

	if req.Amount != nil {
		amount := req.Amount.Decimal
		input.Amount = &amount
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "date", Message: "Must be an ISO-8601 date"},
			})
		}
		input.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrSubCategoryNotFound) {
			return NewNotFoundError(c, "Sub-category not found")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be non-negative"},
			})
		}
		if errors.Is(err, domain.ErrLedgerTimeout) {
			return NewUnavailableError(c, "Could not commit within time bound, retry")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Transaction updated")
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Delete a transaction and reverse its balance contribution
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrLedgerTimeout) {
			return NewUnavailableError(c, "Could not commit within time bound, retry")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// parseDate accepts a full ISO-8601 timestamp or a bare date
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            transaction.ID.String(),
		UserID:        transaction.UserID.String(),
		SubCategoryID: transaction.SubCategoryID.String(),
		Amount:        transaction.Amount.StringFixed(2),
		Description:   transaction.Description,
		Date:          transaction.Date.Format(timeFormat),
		CreatedAt:     transaction.CreatedAt.Format(timeFormat),
		UpdatedAt:     transaction.UpdatedAt.Format(timeFormat),
	}
	if transaction.SubCategory != nil {
		subCategory := toSubCategoryResponse(transaction.SubCategory)
		resp.SubCategory = &subCategory
	}
	return resp
}

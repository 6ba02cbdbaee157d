package handler

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserResponse represents a user profile in API responses
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	TotalAmount string  `json:"totalAmount"`
	LimitAmount *string `json:"limitAmount,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// GetProfile handles GET /api/v1/user
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfileRequest represents the partial profile update request body.
// Amounts are accepted as JSON numbers or numeric strings.
type UpdateProfileRequest struct {
	Email       *string    `json:"email,omitempty"`
	Username    *string    `json:"username,omitempty"`
	Password    *string    `json:"password,omitempty"`
	TotalAmount *JSONMoney `json:"totalAmount,omitempty"`
	LimitAmount *JSONMoney `json:"limitAmount,omitempty"`
}

// UpdateProfile handles PATCH /api/v1/user
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "email", Message: "Must be a valid email address"},
			})
		}
	}
	if req.Username != nil && len(*req.Username) < domain.MinUsernameLength {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "username", Message: "Must be at least 5 characters"},
		})
	}
	if req.Password != nil && (len(*req.Password) < domain.MinPasswordLength || len(*req.Password) > domain.MaxPasswordLength) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "password", Message: "Must be between 8 and 128 characters"},
		})
	}

	input := service.UpdateProfileInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	}
	if req.TotalAmount != nil {
		amount := req.TotalAmount.Decimal
		input.TotalAmount = &amount
	}
	if req.LimitAmount != nil {
		amount := req.LimitAmount.Decimal
		input.LimitAmount = &amount
	}

	user, err := h.userService.UpdateProfile(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNoFieldsToUpdate) {
			return NewValidationError(c, "At least one field must be provided", nil)
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	log.Info().Str("user_id", userID.String()).Msg("Profile updated")
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		Username:    user.Username,
		TotalAmount: user.TotalAmount.StringFixed(2),
		CreatedAt:   user.CreatedAt.Format(timeFormat),
		UpdatedAt:   user.UpdatedAt.Format(timeFormat),
	}
	if user.LimitAmount != nil {
		limit := user.LimitAmount.StringFixed(2)
		resp.LimitAmount = &limit
	}
	return resp
}

// JSONMoney decodes a decimal amount from either a JSON number or a numeric
// string.
type JSONMoney struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler
func (m *JSONMoney) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Decimal = parsed
	return nil
}

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
)

// AuthHandler handles registration and login HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the register request body
type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthResponse represents a successful auth response
type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if fieldErrors := validateRegisterRequest(req); len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}

	result, err := h.authService.Register(service.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return NewConflictError(c, "User already exists")
		}
		if errors.Is(err, domain.ErrPasswordMismatch) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "confirmPassword", Message: "Passwords do not match"},
			})
		}
		log.Error().Err(err).Msg("Failed to register user")
		return NewInternalError(c, "Failed to register user")
	}

	log.Info().Str("user_id", result.UserID.String()).Msg("User registered")
	return c.JSON(http.StatusCreated, AuthResponse{Token: result.Token, UserID: result.UserID.String()})
}

// Login godoc
// @Summary Authenticate by email or username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.Identifier == "" || len(req.Password) < domain.MinPasswordLength {
		return NewUnauthorizedError(c, "Invalid credentials")
	}

	result, err := h.authService.Login(req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid credentials")
		}
		log.Error().Err(err).Msg("Failed to log in user")
		return NewInternalError(c, "Failed to log in")
	}

	return c.JSON(http.StatusOK, AuthResponse{Token: result.Token, UserID: result.UserID.String()})
}

// MeResponse represents the authenticated user's account info
type MeResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	TotalAmount string  `json:"totalAmount"`
	LimitAmount *string `json:"limitAmount,omitempty"`
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.GetUserID(c)

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get user")
		return NewInternalError(c, "Failed to get user")
	}

	resp := MeResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		TotalAmount: user.TotalAmount.StringFixed(2),
	}
	if user.LimitAmount != nil {
		limit := user.LimitAmount.StringFixed(2)
		resp.LimitAmount = &limit
	}
	return c.JSON(http.StatusOK, resp)
}

func validateRegisterRequest(req RegisterRequest) []ValidationError {
	var fieldErrors []ValidationError
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fieldErrors = append(fieldErrors, ValidationError{Field: "email", Message: "Must be a valid email address"})
	}
	if len(req.Username) < domain.MinUsernameLength {
		fieldErrors = append(fieldErrors, ValidationError{Field: "username", Message: "Must be at least 5 characters"})
	}
	if len(req.Password) < domain.MinPasswordLength || len(req.Password) > domain.MaxPasswordLength {
		fieldErrors = append(fieldErrors, ValidationError{Field: "password", Message: "Must be between 8 and 128 characters"})
	}
	return fieldErrors
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
)

// setupAuthContext injects an authenticated identity the way the auth
// middleware does (helper for tests)
func setupAuthContext(c echo.Context, userID uuid.UUID, email string) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserEmailKey, email)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newAuthHandler() (*AuthHandler, *service.AuthService, *testutil.MockUserRepository) {
	userRepo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(userRepo, "test-secret", time.Hour)
	return NewAuthHandler(authService), authService, userRepo
}

func TestRegisterHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _, userRepo := newAuthHandler()

	reqBody := `{"email": "alice@example.com", "username": "alice", "password": "password123", "confirmPassword": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Token == "" {
		t.Error("Expected a token in the response")
	}
	if len(userRepo.Users) != 1 {
		t.Errorf("Expected 1 stored user, got %d", len(userRepo.Users))
	}
}

func TestRegisterHandler_InvalidEmail(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandler()

	reqBody := `{"email": "not-an-email", "username": "alice", "password": "password123", "confirmPassword": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandler()

	reqBody := `{"email": "alice@example.com", "username": "alice", "password": "short", "confirmPassword": "short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRegisterHandler_EmailTaken(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newAuthHandler()

	if _, err := authService.Register(service.RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Expected no error seeding user, got %v", err)
	}

	reqBody := `{"email": "alice@example.com", "username": "alice2", "password": "password123", "confirmPassword": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestLoginHandler_Success(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newAuthHandler()

	if _, err := authService.Register(service.RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Expected no error seeding user, got %v", err)
	}

	reqBody := `{"identifier": "alice", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Token == "" {
		t.Error("Expected a token in the response")
	}
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newAuthHandler()

	if _, err := authService.Register(service.RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Expected no error seeding user, got %v", err)
	}

	reqBody := `{"identifier": "alice", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMeHandler_Success(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newAuthHandler()

	registered, err := authService.Register(service.RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("Expected no error seeding user, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, registered.UserID, "alice@example.com")

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response MeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Username != "alice" {
		t.Errorf("Expected username 'alice', got %s", response.Username)
	}
	if response.TotalAmount != "0.00" {
		t.Errorf("Expected total amount '0.00', got %s", response.TotalAmount)
	}
}

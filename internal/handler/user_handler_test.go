package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newUserFixture() (*UserHandler, *testutil.MockUserRepository) {
	repo := testutil.NewMockUserRepository()
	return NewUserHandler(service.NewUserService(repo)), repo
}

func TestGetProfileHandler_Success(t *testing.T) {
	e := echo.New()
	handler, repo := newUserFixture()

	user := &domain.User{
		ID:          uuid.New(),
		Email:       "alice@example.com",
		Username:    "alice",
		TotalAmount: decimal.NewFromInt(-30),
	}
	repo.AddUser(user)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user.ID, user.Email)

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.TotalAmount != "-30.00" {
		t.Errorf("Expected total amount '-30.00', got %s", response.TotalAmount)
	}
	if response.LimitAmount != nil {
		t.Errorf("Expected no limit amount, got %v", *response.LimitAmount)
	}
}

func TestUpdateProfileHandler_Success(t *testing.T) {
	e := echo.New()
	handler, repo := newUserFixture()

	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	repo.AddUser(user)

	reqBody := `{"username": "alice2", "limitAmount": "750.00"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/user", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user.ID, user.Email)

	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Username != "alice2" {
		t.Errorf("Expected username 'alice2', got %s", response.Username)
	}
	if response.LimitAmount == nil || *response.LimitAmount != "750.00" {
		t.Errorf("Expected limit amount '750.00', got %v", response.LimitAmount)
	}
}

func TestUpdateProfileHandler_NoFields(t *testing.T) {
	e := echo.New()
	handler, repo := newUserFixture()

	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	repo.AddUser(user)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/user", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user.ID, user.Email)

	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestJSONMoney_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"number", `12.5`, "12.5", false},
		{"string", `"12.50"`, "12.5", false},
		{"integer", `100`, "100", false},
		{"negative string", `"-3"`, "-3", false},
		{"not a number", `"abc"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m JSONMoney
			err := json.Unmarshal([]byte(tt.input), &m)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if m.String() != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, m.String())
			}
		})
	}
}

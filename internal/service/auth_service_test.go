package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func TestRegister_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo, testSecret, time.Hour)

	result, err := authService.Register(RegisterInput{
		Email:           "Alice@Example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Token == "" {
		t.Error("Expected a signed token")
	}

	user, err := userRepo.GetByID(result.UserID)
	if err != nil {
		t.Fatalf("Expected user to be stored, got %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Expected lowercased email, got %s", user.Email)
	}
	if user.PasswordHash == "password123" {
		t.Error("Expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("Expected stored hash to match the password: %v", err)
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo, testSecret, time.Hour)

	_, err := authService.Register(RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password124",
	})
	if !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("Expected ErrPasswordMismatch, got %v", err)
	}
	if len(userRepo.Users) != 0 {
		t.Error("Expected no user to be created")
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo, testSecret, time.Hour)

	if _, err := authService.Register(RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := authService.Register(RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice2",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Fatalf("Expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestLogin_ByEmailAndUsername(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo, testSecret, time.Hour)

	registered, err := authService.Register(RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	byEmail, err := authService.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Expected login by email to succeed, got %v", err)
	}
	if byEmail.UserID != registered.UserID {
		t.Errorf("Expected user ID %s, got %s", registered.UserID, byEmail.UserID)
	}

	byUsername, err := authService.Login("alice", "password123")
	if err != nil {
		t.Fatalf("Expected login by username to succeed, got %v", err)
	}
	if byUsername.UserID != registered.UserID {
		t.Errorf("Expected user ID %s, got %s", registered.UserID, byUsername.UserID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo, testSecret, time.Hour)

	if _, err := authService.Register(RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := authService.Login("alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownIdentifier(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo, testSecret, time.Hour)

	_, err := authService.Login("nobody@example.com", "password123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegister_TokenCarriesClaims(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo, testSecret, time.Hour)

	result, err := authService.Register(RegisterInput{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	parsed, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("Expected token to parse, got %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("Expected map claims")
	}
	if claims["id"] != result.UserID.String() {
		t.Errorf("Expected id claim %s, got %v", result.UserID, claims["id"])
	}
	if claims["email"] != "alice@example.com" {
		t.Errorf("Expected email claim, got %v", claims["email"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("Expected exp claim")
	}
}

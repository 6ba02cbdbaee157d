package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func TestGetProfile_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	userRepo.AddUser(user)

	got, err := userService.GetProfile(user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %s", got.Email)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	userService := NewUserService(testutil.NewMockUserRepository())

	_, err := userService.GetProfile(uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile_NoFields(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	userRepo.AddUser(user)

	_, err := userService.UpdateProfile(user.ID, UpdateProfileInput{})
	if !errors.Is(err, domain.ErrNoFieldsToUpdate) {
		t.Fatalf("Expected ErrNoFieldsToUpdate, got %v", err)
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	userRepo.AddUser(user)

	username := "alice2"
	limit := decimal.NewFromInt(500)
	updated, err := userService.UpdateProfile(user.ID, UpdateProfileInput{
		Username:    &username,
		LimitAmount: &limit,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Username != "alice2" {
		t.Errorf("Expected username alice2, got %s", updated.Username)
	}
	if updated.LimitAmount == nil || !updated.LimitAmount.Equal(limit) {
		t.Errorf("Expected limit amount 500, got %v", updated.LimitAmount)
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("Expected email retained, got %s", updated.Email)
	}
}

func TestUpdateProfile_RehashesPassword(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice", PasswordHash: "old"}
	userRepo.AddUser(user)

	password := "newpassword1"
	updated, err := userService.UpdateProfile(user.ID, UpdateProfileInput{Password: &password})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.PasswordHash == "old" || updated.PasswordHash == password {
		t.Error("Expected password to be re-hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(password)); err != nil {
		t.Errorf("Expected new hash to match the password: %v", err)
	}
}

func TestUpdateProfile_NormalizesEmail(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	userRepo.AddUser(user)

	email := "  Alice.New@Example.COM "
	updated, err := userService.UpdateProfile(user.ID, UpdateProfileInput{Email: &email})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Email != "alice.new@example.com" {
		t.Errorf("Expected normalized email, got %s", updated.Email)
	}
}

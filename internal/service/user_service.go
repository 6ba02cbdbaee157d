package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles user profile reads and partial updates
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile retrieves a user's profile
func (s *UserService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfileInput holds the input for a partial profile update. Nil fields
// retain their prior values.
type UpdateProfileInput struct {
	Email       *string
	Username    *string
	Password    *string
	TotalAmount *decimal.Decimal
	LimitAmount *decimal.Decimal
}

func (i UpdateProfileInput) empty() bool {
	return i.Email == nil && i.Username == nil && i.Password == nil && i.TotalAmount == nil && i.LimitAmount == nil
}

// UpdateProfile applies a partial update to a user's profile. At least one
// field must be provided; a new password is re-hashed before storage.
func (s *UserService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	if input.empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if input.TotalAmount != nil {
		user.TotalAmount = *input.TotalAmount
	}
	if input.LimitAmount != nil {
		user.LimitAmount = input.LimitAmount
	}

	return s.userRepo.Update(user)
}

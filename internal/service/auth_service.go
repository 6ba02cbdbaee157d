package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// AuthService handles registration, login and token issuance
type AuthService struct {
	userRepo  domain.UserRepository
	jwtSecret []byte
	jwtTTL    time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
	}
}

// AuthResult is returned on successful registration or login
type AuthResult struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"userId"`
}

// RegisterInput holds the input for registering a user
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

// Register creates a user with a hashed password and returns a signed token.
// Fails with ErrUserAlreadyExists if the email is taken.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(&domain.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	return s.sign(user.ID, user.Email)
}

// Login authenticates by email or username. Any mismatch reports
// ErrInvalidCredentials without revealing which part failed.
func (s *AuthService) Login(identifier, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.sign(user.ID, user.Email)
}

// GetUser retrieves a user's account info
func (s *AuthService) GetUser(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *AuthService) sign(userID uuid.UUID, email string) (*AuthResult, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    userID.String(),
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.jwtTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: userID}, nil
}

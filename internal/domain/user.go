package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a registered user. TotalAmount is the denormalized running
// balance: the sum of signed contributions of all of the user's transactions.
type User struct {
	ID           uuid.UUID        `json:"id"`
	Email        string           `json:"email"`
	Username     string           `json:"username"`
	PasswordHash string           `json:"-"`
	TotalAmount  decimal.Decimal  `json:"totalAmount"`
	LimitAmount  *decimal.Decimal `json:"limitAmount,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id uuid.UUID) (*User, error)
	GetByEmail(email string) (*User, error)
	// GetByIdentifier looks up a user by email or username.
	GetByIdentifier(identifier string) (*User, error)
	Update(user *User) (*User, error)
}

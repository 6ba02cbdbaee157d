package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrSubCategoryNotFound = errors.New("sub-category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidDateRange    = errors.New("from date must not be after to date")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrLedgerTimeout       = errors.New("ledger operation timed out")
)

// Validation constants
const (
	MaxSubCategoryNameLength = 128
	MinUsernameLength        = 5
	MinPasswordLength        = 8
	MaxPasswordLength        = 128
)

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = "id, email, username, password_hash, total_amount, limit_amount, created_at, updated_at"

// Create creates a new user
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	ctx := context.Background()

	var limitAmount pgtype.Numeric
	if user.LimitAmount != nil {
		converted, err := decimalToPgNumeric(*user.LimitAmount)
		if err != nil {
			return nil, err
		}
		limitAmount = converted
	}

	query := `
		INSERT INTO users (email, username, password_hash, limit_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query, user.Email, user.Username, user.PasswordHash, limitAmount))
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	ctx := context.Background()
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByIdentifier retrieves a user by email or username
func (r *UserRepository) GetByIdentifier(identifier string) (*domain.User, error) {
	ctx := context.Background()
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update updates a user's profile fields
func (r *UserRepository) Update(user *domain.User) (*domain.User, error) {
	ctx := context.Background()

	totalAmount, err := decimalToPgNumeric(user.TotalAmount)
	if err != nil {
		return nil, err
	}

	var limitAmount pgtype.Numeric
	if user.LimitAmount != nil {
		converted, err := decimalToPgNumeric(*user.LimitAmount)
		if err != nil {
			return nil, err
		}
		limitAmount = converted
	}

	query := `
		UPDATE users
		SET email = $2, username = $3, password_hash = $4, total_amount = $5, limit_amount = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		totalAmount,
		limitAmount,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return updated, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user        domain.User
		totalAmount pgtype.Numeric
		limitAmount pgtype.Numeric
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&totalAmount,
		&limitAmount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.TotalAmount = pgNumericToDecimal(totalAmount)
	if limitAmount.Valid {
		limit := pgNumericToDecimal(limitAmount)
		user.LimitAmount = &limit
	}
	return &user, nil
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

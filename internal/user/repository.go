// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	ExistsByIdentity(ctx context.Context, username, email, phone string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, id, channel string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, username, email, phone, password_hash, full_name, date_of_birth,
	email_verified, phone_verified, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, username, email, phone, password_hash, full_name, date_of_birth
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING email_verified, phone_verified, created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Username,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.FullName,
		user.DateOfBirth,
	)
	if err != nil {
		if _, dup := core.UniqueViolation(err); dup {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// FindByIdentifier matches username, email or phone in one lookup. When
// the identifier hits more than one row the username match wins, then
// email, then phone.
func (r *repository) FindByIdentifier(
	ctx context.Context,
	identifier string,
) (*User, error) {
	email := normalizeEmail(identifier)
	phone := core.DigitsOnly(identifier)
	if len(phone) != phoneDigits {
		phone = ""
	}

	query := `SELECT` + userColumns + `
		FROM users
		WHERE username = $1
		   OR email = $2
		   OR ($3 <> '' AND phone = $3)
		ORDER BY CASE
			WHEN username = $1 THEN 0
			WHEN email = $2 THEN 1
			ELSE 2
		END
		LIMIT 1`

	var user User
	err := r.db.GetContext(ctx, &user, query, identifier, email, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find user by identifier: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}

	return &user, nil
}

func (r *repository) ExistsByIdentity(
	ctx context.Context,
	username, email, phone string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE username = $1 OR email = $2 OR phone = $3
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username, email, phone); err != nil {
		return false, fmt.Errorf("check identity exists: %w", err)
	}

	return exists, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET full_name = $2,
		    phone = $3,
		    date_of_birth = $4,
		    phone_verified = CASE WHEN phone = $3 THEN phone_verified ELSE FALSE END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING phone_verified, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.FullName,
		user.Phone,
		user.DateOfBirth,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		if _, dup := core.UniqueViolation(err); dup {
			return fmt.Errorf("update profile: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *repository) MarkVerified(ctx context.Context, id, channel string) error {
	var query string
	switch channel {
	case ChannelEmail:
		query = `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`
	case ChannelPhone:
		query = `UPDATE users SET phone_verified = TRUE, updated_at = NOW() WHERE id = $1`
	default:
		return fmt.Errorf("mark verified: unknown channel %q: %w", channel, core.ErrInvalidInput)
	}

	return r.execOne(ctx, "mark verified", query, id)
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/libris/libris/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
)

// CreateUserWithLibrary inserts a new user together with its initial library
// in a single transaction. On success the user's ID and CreatedAt are filled
// in from the database.
func (r *Repository) CreateUserWithLibrary(ctx context.Context, user *model.User, libraryData string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, email, hashed_password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, user.Username, user.Email, user.HashedPassword).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO libraries (user_id, data)
		VALUES ($1, $2)
	`, user.ID, libraryData)

	if err != nil {
		return fmt.Errorf("failed to create library: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// UserByID retrieves a user by their ID.
func (r *Repository) UserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, hashed_password, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// UserByEmail retrieves a user by their email address.
func (r *Repository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, username, email, hashed_password, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// UpdateUser applies a partial update to a user. Nil fields are left
// untouched. Returns the updated row.
func (r *Repository) UpdateUser(ctx context.Context, id int64, email, hashedPassword *string) (*model.User, error) {
	query := `
		UPDATE users
		SET email = COALESCE($2, email),
		    hashed_password = COALESCE($3, hashed_password)
		WHERE id = $1
		RETURNING id, username, email, hashed_password, created_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id, email, hashedPassword).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

// DeleteUser removes a user by ID and returns the deleted row.
// The user's library is removed by the ON DELETE CASCADE constraint.
func (r *Repository) DeleteUser(ctx context.Context, id int64) (*model.User, error) {
	query := `
		DELETE FROM users
		WHERE id = $1
		RETURNING id, username, email, hashed_password, created_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return &user, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/libris/libris/internal/model"
)

// ErrLibraryNotFound indicates no library row exists for the given owner.
var ErrLibraryNotFound = errors.New("library not found")

// LibraryByUserID retrieves the library owned by the given user.
func (r *Repository) LibraryByUserID(ctx context.Context, userID int64) (*model.Library, error) {
	query := `
		SELECT id, user_id, data
		FROM libraries
		WHERE user_id = $1
	`

	var library model.Library
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&library.ID,
		&library.UserID,
		&library.Data,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLibraryNotFound
		}
		return nil, fmt.Errorf("failed to get library: %w", err)
	}

	return &library, nil
}

// UpdateLibraryData replaces the library blob wholesale for the given owner
// and returns the updated row.
func (r *Repository) UpdateLibraryData(ctx context.Context, userID int64, data string) (*model.Library, error) {
	query := `
		UPDATE libraries
		SET data = $2
		WHERE user_id = $1
		RETURNING id, user_id, data
	`

	var library model.Library
	err := r.pool.QueryRow(ctx, query, userID, data).Scan(
		&library.ID,
		&library.UserID,
		&library.Data,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLibraryNotFound
		}
		return nil, fmt.Errorf("failed to update library: %w", err)
	}

	return &library, nil
}

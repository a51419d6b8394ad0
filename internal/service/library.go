package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/libris/libris/internal/metrics"
	"github.com/libris/libris/internal/model"
	"github.com/libris/libris/internal/repository"
)

// LibraryService handles the per-user library blob.
type LibraryService struct {
	store   Store
	metrics metrics.Recorder
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(store Store, recorder metrics.Recorder) *LibraryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LibraryService{
		store:   store,
		metrics: recorder,
	}
}

// ForUser fetches the library owned by the given user.
func (s *LibraryService) ForUser(ctx context.Context, userID int64) (*model.Library, error) {
	library, err := s.store.LibraryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrLibraryNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get library: %w", err)
	}
	return library, nil
}

// Update replaces the caller's library blob wholesale. The contents are
// opaque to the server; no validation is performed.
func (s *LibraryService) Update(ctx context.Context, userID int64, data string) (*model.Library, error) {
	library, err := s.store.UpdateLibraryData(ctx, userID, data)
	if err != nil {
		if errors.Is(err, repository.ErrLibraryNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update library: %w", err)
	}

	s.metrics.IncLibraryUpdate()

	return library, nil
}

// Package testutil provides shared fakes for tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/libris/libris/internal/model"
	"github.com/libris/libris/internal/repository"
)

// MemStore is an in-memory implementation of the service Store interface.
// It mirrors the repository's sentinel errors so services behave identically
// against it.
type MemStore struct {
	mu        sync.Mutex
	nextID    int64
	Users     map[int64]*model.User
	Libraries map[int64]*model.Library // keyed by owner user ID
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		Users:     make(map[int64]*model.User),
		Libraries: make(map[int64]*model.Library),
	}
}

// CreateUserWithLibrary mimics the transactional signup create, including
// the unique-email constraint.
func (s *MemStore) CreateUserWithLibrary(ctx context.Context, user *model.User, libraryData string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.Users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}

	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()

	stored := *user
	s.Users[user.ID] = &stored

	s.nextID++
	s.Libraries[user.ID] = &model.Library{
		ID:     s.nextID,
		UserID: user.ID,
		Data:   libraryData,
	}

	return nil
}

// UserByID returns a copy of the stored user.
func (s *MemStore) UserByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.Users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// UserByEmail returns a copy of the stored user with the given email.
func (s *MemStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.Users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UpdateUser applies a partial update, enforcing email uniqueness.
func (s *MemStore) UpdateUser(ctx context.Context, id int64, email, hashedPassword *string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.Users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	if email != nil {
		for _, other := range s.Users {
			if other.ID != id && other.Email == *email {
				return nil, repository.ErrEmailTaken
			}
		}
		user.Email = *email
	}
	if hashedPassword != nil {
		user.HashedPassword = *hashedPassword
	}

	copied := *user
	return &copied, nil
}

// DeleteUser removes the user and cascades its library.
func (s *MemStore) DeleteUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.Users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	delete(s.Users, id)
	delete(s.Libraries, id)

	copied := *user
	return &copied, nil
}

// LibraryByUserID returns a copy of the user's library.
func (s *MemStore) LibraryByUserID(ctx context.Context, userID int64) (*model.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	library, ok := s.Libraries[userID]
	if !ok {
		return nil, repository.ErrLibraryNotFound
	}
	copied := *library
	return &copied, nil
}

// UpdateLibraryData replaces the blob wholesale.
func (s *MemStore) UpdateLibraryData(ctx context.Context, userID int64, data string) (*model.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	library, ok := s.Libraries[userID]
	if !ok {
		return nil, repository.ErrLibraryNotFound
	}

	library.Data = data
	copied := *library
	return &copied, nil
}

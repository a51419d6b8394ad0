// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/libris/libris/internal/auth"
	"github.com/libris/libris/internal/metrics"
	"github.com/libris/libris/internal/model"
	"github.com/libris/libris/internal/repository"
)

// InitialLibraryData is the blob every new user's library starts with.
const InitialLibraryData = `{"all":{"ids":[]}}`

// Store is the storage collaborator the services depend on. Implemented by
// *repository.Repository; tests substitute an in-memory fake.
type Store interface {
	CreateUserWithLibrary(ctx context.Context, user *model.User, libraryData string) error
	UserByID(ctx context.Context, id int64) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, email, hashedPassword *string) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) (*model.User, error)
	LibraryByUserID(ctx context.Context, userID int64) (*model.Library, error)
	UpdateLibraryData(ctx context.Context, userID int64, data string) (*model.Library, error)
}

// UserService handles account business logic.
type UserService struct {
	store   Store
	tokens  *auth.TokenService
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store Store, tokens *auth.TokenService, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		tokens:  tokens,
		metrics: recorder,
	}
}

// Current fetches the caller's own user record.
func (s *UserService) Current(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return user, nil
}

// Signup creates a new user together with its initial empty library and
// returns a payload carrying a freshly issued token.
//
// The email pre-check gives a friendly error on the common path; the
// storage-level unique constraint closes the race for concurrent signups.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*model.AuthPayload, error) {
	_, err := s.store.UserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
	}

	if err := s.store.CreateUserWithLibrary(ctx, user, InitialLibraryData); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncSignup()

	return &model.AuthPayload{Token: token, User: user}, nil
}

// Login verifies credentials and returns a payload with a fresh token.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.AuthPayload, error) {
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.HashedPassword)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin()

	return &model.AuthPayload{Token: token, User: user}, nil
}

// Delete removes the caller's account. The library is cascaded away by the
// storage layer. A valid token for an already-deleted user surfaces as
// ErrUserNotFound.
func (s *UserService) Delete(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return user, nil
}

// Update applies a partial account update. Email-only, password-only, and
// both are the three accepted shapes; supplying neither fails with
// ErrNoChange before any credential check or storage round-trip.
func (s *UserService) Update(ctx context.Context, userID int64, currentPassword string, newEmail, newPassword *string) (*model.User, error) {
	if newEmail == nil && newPassword == nil {
		return nil, ErrNoChange
	}

	if newEmail != nil {
		existing, err := s.store.UserByEmail(ctx, *newEmail)
		if err == nil && existing.ID != userID {
			return nil, ErrEmailExists
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("check new email: %w", err)
		}
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	match, err := auth.VerifyPassword(currentPassword, user.HashedPassword)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	var hashed *string
	if newPassword != nil {
		h, err := auth.HashPassword(*newPassword)
		if err != nil {
			return nil, fmt.Errorf("hash new password: %w", err)
		}
		hashed = &h
	}

	updated, err := s.store.UpdateUser(ctx, userID, newEmail, hashed)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return updated, nil
}

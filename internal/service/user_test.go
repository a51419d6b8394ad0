package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/libris/libris/internal/auth"
	"github.com/libris/libris/internal/testutil"
)

func newUserTestEnv(t *testing.T) (context.Context, *testutil.MemStore, *auth.TokenService, *UserService) {
	t.Helper()

	store := testutil.NewMemStore()
	tokens := auth.NewTokenService("test-secret")
	users := NewUserService(store, tokens, nil)

	return context.Background(), store, tokens, users
}

func TestUserService_Signup(t *testing.T) {
	t.Parallel()

	ctx, store, tokens, users := newUserTestEnv(t)

	payload, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if payload.User.Username != "al" || payload.User.Email != "al@x.com" {
		t.Errorf("unexpected user in payload: %+v", payload.User)
	}
	if payload.User.ID == 0 {
		t.Error("expected a storage-assigned user ID")
	}
	if payload.User.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// Exactly one user and one library were created
	if len(store.Users) != 1 {
		t.Errorf("expected 1 user, got %d", len(store.Users))
	}
	if len(store.Libraries) != 1 {
		t.Errorf("expected 1 library, got %d", len(store.Libraries))
	}

	// The library starts with the fixed initial blob
	library := store.Libraries[payload.User.ID]
	if library == nil {
		t.Fatal("expected a library for the new user")
	}
	if library.Data != InitialLibraryData {
		t.Errorf("expected initial library data %q, got %q", InitialLibraryData, library.Data)
	}

	// The returned token decodes back to the new user's identifier
	subject, err := tokens.Verify(payload.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != strconv.FormatInt(payload.User.ID, 10) {
		t.Errorf("token subject %q does not match user ID %d", subject, payload.User.ID)
	}

	// The stored hash is not the raw password and verifies against it
	stored := store.Users[payload.User.ID]
	if stored.HashedPassword == "pw1" {
		t.Error("password stored in plain text")
	}
	match, err := auth.VerifyPassword("pw1", stored.HashedPassword)
	if err != nil || !match {
		t.Errorf("stored hash does not verify: match=%v err=%v", match, err)
	}
}

func TestUserService_Signup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx, store, _, users := newUserTestEnv(t)

	if _, err := users.Signup(ctx, "al", "al@x.com", "pw1"); err != nil {
		t.Fatalf("first Signup failed: %v", err)
	}

	_, err := users.Signup(ctx, "al2", "al@x.com", "pw2")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if len(store.Users) != 1 {
		t.Errorf("duplicate signup created a user row: %d users", len(store.Users))
	}
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	ctx, _, tokens, users := newUserTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	payload, err := users.Login(ctx, "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	subject, err := tokens.Verify(payload.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != strconv.FormatInt(signup.User.ID, 10) {
		t.Errorf("token subject %q does not match user ID %d", subject, signup.User.ID)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	if _, err := users.Signup(ctx, "al", "al@x.com", "pw1"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	_, err := users.Login(ctx, "al@x.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	_, err := users.Login(ctx, "nobody@x.com", "pw1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Current(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	user, err := users.Current(ctx, signup.User.ID)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if user.Email != "al@x.com" {
		t.Errorf("unexpected email: %s", user.Email)
	}

	if _, err := users.Current(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for missing user, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	t.Parallel()

	ctx, store, _, users := newUserTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	deleted, err := users.Delete(ctx, signup.User.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ID != signup.User.ID {
		t.Errorf("deleted wrong user: %d", deleted.ID)
	}

	// The library is cascaded away with its owner
	if len(store.Users) != 0 || len(store.Libraries) != 0 {
		t.Errorf("expected empty store, got %d users %d libraries", len(store.Users), len(store.Libraries))
	}

	// A valid token for a now-deleted user fails at the storage layer
	if _, err := users.Delete(ctx, signup.User.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for stale identifier, got %v", err)
	}
}

func strptr(s string) *string { return &s }

func TestUserService_Update_NoChange(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	// The no-op check runs before the credential check: a no-field update
	// fails with ErrNoChange whether or not the current password is right.
	tests := []struct {
		name            string
		currentPassword string
	}{
		{"correct password", "pw1"},
		{"wrong password", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Update(ctx, signup.User.ID, tt.currentPassword, nil, nil)
			if !errors.Is(err, ErrNoChange) {
				t.Errorf("expected ErrNoChange, got %v", err)
			}
		})
	}
}

func TestUserService_Update_EmailOnly(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	updated, err := users.Update(ctx, signup.User.ID, "pw1", strptr("new@x.com"), nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Email != "new@x.com" {
		t.Errorf("email not applied: %s", updated.Email)
	}

	// Old password still works
	if _, err := users.Login(ctx, "new@x.com", "pw1"); err != nil {
		t.Errorf("login with old password after email change failed: %v", err)
	}
}

func TestUserService_Update_PasswordOnly(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if _, err := users.Update(ctx, signup.User.ID, "pw1", nil, strptr("pw2")); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := users.Login(ctx, "al@x.com", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted after change: %v", err)
	}
	if _, err := users.Login(ctx, "al@x.com", "pw2"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}

func TestUserService_Update_Both(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	updated, err := users.Update(ctx, signup.User.ID, "pw1", strptr("new@x.com"), strptr("pw2"))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Email != "new@x.com" {
		t.Errorf("email not applied: %s", updated.Email)
	}

	if _, err := users.Login(ctx, "new@x.com", "pw2"); err != nil {
		t.Errorf("login with new credentials failed: %v", err)
	}
}

func TestUserService_Update_WrongCurrentPassword(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	_, err = users.Update(ctx, signup.User.ID, "wrong", strptr("new@x.com"), nil)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Update_EmailTakenByOther(t *testing.T) {
	t.Parallel()

	ctx, _, _, users := newUserTestEnv(t)

	if _, err := users.Signup(ctx, "al", "al@x.com", "pw1"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	other, err := users.Signup(ctx, "bo", "bo@x.com", "pw2")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	_, err = users.Update(ctx, other.User.ID, "pw2", strptr("al@x.com"), nil)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

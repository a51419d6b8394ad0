package service

import (
	"context"
	"errors"
	"testing"

	"github.com/libris/libris/internal/auth"
	"github.com/libris/libris/internal/testutil"
)

func newLibraryTestEnv(t *testing.T) (context.Context, *UserService, *LibraryService) {
	t.Helper()

	store := testutil.NewMemStore()
	tokens := auth.NewTokenService("test-secret")

	return context.Background(), NewUserService(store, tokens, nil), NewLibraryService(store, nil)
}

func TestLibraryService_Update(t *testing.T) {
	t.Parallel()

	ctx, users, libraries := newLibraryTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	library, err := libraries.Update(ctx, signup.User.ID, "custom-blob")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if library.Data != "custom-blob" {
		t.Errorf("expected data %q, got %q", "custom-blob", library.Data)
	}

	// Replacement is wholesale and idempotent
	again, err := libraries.Update(ctx, signup.User.ID, "custom-blob")
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	if again.Data != "custom-blob" {
		t.Errorf("repeated update changed the blob: %q", again.Data)
	}

	fetched, err := libraries.ForUser(ctx, signup.User.ID)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if fetched.Data != "custom-blob" {
		t.Errorf("stored blob is %q, want %q", fetched.Data, "custom-blob")
	}
}

func TestLibraryService_Update_NoLibrary(t *testing.T) {
	t.Parallel()

	ctx, _, libraries := newLibraryTestEnv(t)

	_, err := libraries.Update(ctx, 42, "blob")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLibraryService_OpaqueContents(t *testing.T) {
	t.Parallel()

	ctx, users, libraries := newLibraryTestEnv(t)

	signup, err := users.Signup(ctx, "al", "al@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	// The blob is never validated; arbitrary non-JSON strings are accepted.
	for _, blob := range []string{"", "not json at all", `{"all": ["a"]}`, "\x00binary"} {
		if _, err := libraries.Update(ctx, signup.User.ID, blob); err != nil {
			t.Errorf("Update(%q) failed: %v", blob, err)
		}
	}
}

package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// currentUserKey is the context key for the authenticated user identifier.
const currentUserKey contextKey = "current_user_id"

// ContextWithUserID returns a context carrying the authenticated user's
// identifier. Derived once per request, before resolver dispatch.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, currentUserKey, userID)
}

// UserIDFromContext retrieves the authenticated user identifier.
// The second return value is false for anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(currentUserKey).(int64)
	return id, ok
}

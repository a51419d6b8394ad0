// Package model defines domain entities for the application.
package model

import "time"

// User represents an account identity. The hashed password never leaves
// the server; it is excluded from every serialized shape.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Library is the single opaque string blob owned by a user. The contents
// are a client-side convention; the server never inspects them.
type Library struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Data   string `json:"data"`
}

// AuthPayload pairs a freshly issued token with the user it authenticates.
// It is a response shape for signup and login only and is never persisted.
type AuthPayload struct {
	Token string
	User  *User
}

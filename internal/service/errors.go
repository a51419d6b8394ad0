package service

import "errors"

// Service errors. This is the closed set of failures surfaced to GraphQL
// callers; the messages are the human-readable text clients see.
var (
	ErrUnauthenticated    = errors.New("user is not authenticated")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrEmailExists        = errors.New("user with that email already exists")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrNoChange           = errors.New("no new information provided")
)

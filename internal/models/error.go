package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("user not found")
	ErrConflict       = errors.New("resource already exists")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Uniqueness conflicts surfaced by the update path
	ErrEmailTaken = errors.New("email already registered to another user")
	ErrPhoneTaken = errors.New("phone number already registered to another user")
)

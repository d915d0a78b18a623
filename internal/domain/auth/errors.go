package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthorized      = errors.New("email not authorized, contact HR")
	ErrAlreadyRegistered  = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrHRAccessRequired   = errors.New("HR access required")
)

package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Signup registers an employee listed on the roster.
	Signup(ctx context.Context, req SignupRequest) (TokenResponse, error)
	// Logout refuses the caller's token until it expires.
	Logout(ctx context.Context, rawToken string) error
}

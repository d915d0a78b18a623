package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/auth"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employee.EmployeeRepository
	roster employee.RosterSource
	jwt.Service
}

func NewAuthService(employeeRepository employee.EmployeeRepository, roster employee.RosterSource, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository: employeeRepository,
		roster:             roster,
		Service:            jwtService,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	_, onRoster := a.roster.Lookup(req.Email)

	stored, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
		}
		if !onRoster {
			return auth.TokenResponse{}, auth.ErrNotAuthorized
		}
		// listed but never signed up
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if stored.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	slog.Info("Employee logged in", "email", stored.Email, "role", stored.Role)
	return a.issue(stored)
}

// Signup implements auth.AuthService.
func (a *AuthServiceImpl) Signup(ctx context.Context, req auth.SignupRequest) (auth.TokenResponse, error) {
	entry, ok := a.roster.Lookup(req.Email)
	if !ok {
		return auth.TokenResponse{}, auth.ErrNotAuthorized
	}

	exists, err := a.EmployeeRepository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to check employee email: %w", err)
	}
	if exists {
		return auth.TokenResponse{}, auth.ErrAlreadyRegistered
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	merged, err := employee.Resolve(&employee.Employee{
		Name:  req.Name,
		Email: req.Email,
		Role:  employee.RoleEmployee,
	}, &entry)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	merged.PasswordHash = hash

	created, err := a.EmployeeRepository.Create(ctx, merged)
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) {
			return auth.TokenResponse{}, auth.ErrAlreadyRegistered
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee signed up", "email", created.Email)
	return a.issue(created)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, rawToken string) error {
	token, _, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil || rawToken == "" {
		return auth.ErrInvalidToken
	}

	expiresAt := token.Expiration()
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(24 * time.Hour)
	}
	a.Service.RevokeToken(rawToken, expiresAt)
	return nil
}

func (a *AuthServiceImpl) issue(e employee.Employee) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(e.Email, e.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt,
		Email:                e.Email,
		Role:                 string(e.Role),
	}, nil
}

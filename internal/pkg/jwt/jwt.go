package jwt

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/auth"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
)

var ErrMissingClaims = errors.New("missing token claims")

type Service interface {
	GenerateAccessToken(email string, role employee.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt time.Time)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]time.Time
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) *JWTService {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]time.Time),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(email string, role employee.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"email": strings.ToLower(email),
		"role":  string(role),
		"type":  "access",
		"iat":   j.now().Unix(),
		"exp":   expiresAt,
	})
	return tokenString, expiresAt, err
}

// RevokeToken denies token until it would have expired anyway.
func (j *JWTService) RevokeToken(token string, expiresAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for t, exp := range j.revokedTokens {
		if now.After(exp) {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// Claims is the caller identity carried by an access token.
type Claims struct {
	Email string
	Role  employee.Role
}

func (c Claims) IsHR() bool {
	return c.Role == employee.RoleHR
}

// FromContext reads the verified claims placed by jwtauth.Verifier.
func FromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if email == "" || role == "" {
		return Claims{}, ErrMissingClaims
	}

	return Claims{Email: email, Role: employee.Role(role)}, nil
}

// Caller returns the caller's claims or auth.ErrInvalidToken.
func Caller(ctx context.Context) (Claims, error) {
	claims, err := FromContext(ctx)
	if err != nil {
		return Claims{}, auth.ErrInvalidToken
	}
	return claims, nil
}

// RequireHR returns the caller's claims when the caller is HR.
func RequireHR(ctx context.Context) (Claims, error) {
	claims, err := Caller(ctx)
	if err != nil {
		return Claims{}, err
	}
	if !claims.IsHR() {
		return Claims{}, auth.ErrHRAccessRequired
	}
	return claims, nil
}

// NewContext returns ctx carrying a freshly signed token for email. Used for
// calls that do not originate from an HTTP request.
func NewContext(ctx context.Context, ja *jwtauth.JWTAuth, email string, role employee.Role) (context.Context, error) {
	token, _, err := ja.Encode(map[string]interface{}{
		"email": strings.ToLower(email),
		"role":  string(role),
		"type":  "access",
	})
	if err != nil {
		return nil, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}

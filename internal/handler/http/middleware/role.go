package middleware

import (
	"net/http"

	"github.com/zugo-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/jwt"
)

// RequireHR requires the hr role
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.RequireHR(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// AuthMiddleware ensures the request has a valid session. It runs before any
// core logic; unauthenticated callers get a 401 and never reach a handler.
func AuthMiddleware(authService ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Token from cookie
			cookie, err := r.Cookie("auth_token")
			var token string
			if err == nil {
				token = cookie.Value
			}

			// Fallback to header (for API clients)
			if token == "" {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					token = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}

			if token == "" {
				unauthorized(w, "authentication required")
				return
			}

			user, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				// Clear cookie if invalid
				http.SetCookie(w, &http.Cookie{
					Name:   "auth_token",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
				unauthorized(w, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), user)))
		})
	}
}

// RoleMiddleware checks if the user has the required role.
func RoleMiddleware(requiredRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := domain.UserFromContext(r.Context())
			if user == nil {
				unauthorized(w, "authentication required")
				return
			}

			// Simple hierarchy: admin > operator > viewer
			if !user.IsAdmin() && !hasPermission(user.Role, requiredRole) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"message": "insufficient role"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasPermission(userRole, requiredRole domain.Role) bool {
	if userRole == domain.RoleOperator {
		return requiredRole != domain.RoleAdmin
	}
	if userRole == domain.RoleViewer {
		return requiredRole == domain.RoleViewer
	}
	return false
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
	"github.com/lcalzada-xor/vulnmap/internal/core/services/auth"
)

// AuthHandler handles login, logout and the current-user endpoint
type AuthHandler struct {
	Service ports.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

// HandleLogin validates credentials and sets the session cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.Service.Login(r.Context(), creds)
	if err != nil {
		if errors.Is(err, auth.ErrRateLimitExceeded) {
			writeMessage(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}
		// Generic message regardless of cause to avoid user enumeration
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleLogout invalidates the session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("auth_token"); err == nil {
		h.Service.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "auth_token",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	writeMessage(w, http.StatusOK, "logged out")
}

// HandleMe returns the authenticated principal.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService implements ports.AuthService for middleware tests.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) CreateUser(ctx context.Context, user domain.User, password string) error {
	return m.Called(ctx, user, password).Error(0)
}

func protectedEcho(t *testing.T, captured **domain.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = domain.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	svc := new(MockAuthService)
	var captured *domain.User
	handler := AuthMiddleware(svc)(protectedEcho(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
	svc.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	svc := new(MockAuthService)
	user := &domain.User{ID: "u-1", Username: "admin", Role: domain.RoleAdmin}
	svc.On("ValidateToken", mock.Anything, "tok-1").Return(user, nil)

	var captured *domain.User
	handler := AuthMiddleware(svc)(protectedEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", captured.Username)
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	svc := new(MockAuthService)
	user := &domain.User{ID: "u-1", Username: "api-client", Role: domain.RoleViewer}
	svc.On("ValidateToken", mock.Anything, "tok-2").Return(user, nil)

	var captured *domain.User
	handler := AuthMiddleware(svc)(protectedEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.Header.Set("Authorization", "Bearer tok-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "api-client", captured.Username)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ValidateToken", mock.Anything, "stale").Return(nil, errors.New("invalid session"))

	var captured *domain.User
	handler := AuthMiddleware(svc)(protectedEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// The stale cookie gets cleared
	cookies := rec.Result().Cookies()
	if assert.NotEmpty(t, cookies) {
		assert.Equal(t, "auth_token", cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	}
}

func TestRoleMiddleware_Hierarchy(t *testing.T) {
	cases := []struct {
		userRole domain.Role
		required domain.Role
		want     int
	}{
		{domain.RoleAdmin, domain.RoleAdmin, http.StatusOK},
		{domain.RoleAdmin, domain.RoleOperator, http.StatusOK},
		{domain.RoleOperator, domain.RoleOperator, http.StatusOK},
		{domain.RoleOperator, domain.RoleAdmin, http.StatusForbidden},
		{domain.RoleViewer, domain.RoleOperator, http.StatusForbidden},
		{domain.RoleViewer, domain.RoleViewer, http.StatusOK},
	}

	for _, tc := range cases {
		handler := RoleMiddleware(tc.required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/assets", nil)
		req = req.WithContext(domain.WithUser(req.Context(), &domain.User{ID: "u", Username: "u", Role: tc.userRole}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, tc.want, rec.Code, "user %s requiring %s", tc.userRole, tc.required)
	}
}

func TestRoleMiddleware_NoUser(t *testing.T) {
	handler := RoleMiddleware(domain.RoleViewer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

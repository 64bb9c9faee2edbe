package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/vulnmap/internal/adapters/web/middleware"
	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires the HTTP surface. Every route below /api except login is
// gated by the auth middleware before any core logic runs; mutating
// inventory routes additionally require the operator role.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	// 5 login attempts per IP per minute
	loginLimiter := middleware.NewRateLimiter(5, 1*time.Minute)

	api := r.PathPrefix("/api").Subrouter()

	// Public
	api.Handle("/login",
		middleware.RateLimitMiddleware(loginLimiter)(http.HandlerFunc(s.AuthHandler.HandleLogin)),
	).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.AuthHandler.HandleLogout).Methods(http.MethodPost)

	// Protected
	auth := middleware.AuthMiddleware(s.AuthService)
	protect := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	requireOperator := middleware.RoleMiddleware(domain.RoleOperator)
	protectOp := func(h http.HandlerFunc) http.Handler {
		return auth(requireOperator(h))
	}

	api.Handle("/me", protect(s.AuthHandler.HandleMe)).Methods(http.MethodGet)

	// Assets
	api.Handle("/assets", protectOp(s.AssetHandler.HandleCreate)).Methods(http.MethodPost)
	api.Handle("/assets", protect(s.AssetHandler.HandleList)).Methods(http.MethodGet)
	api.Handle("/assets/{assetId}", protect(s.AssetHandler.HandleGet)).Methods(http.MethodGet)
	api.Handle("/assets/{assetId}", protectOp(s.AssetHandler.HandleUpdate)).Methods(http.MethodPut)
	api.Handle("/assets/{assetId}", protectOp(s.AssetHandler.HandleDelete)).Methods(http.MethodDelete)

	// Vulnerability catalog
	api.Handle("/vulnerabilities", protectOp(s.VulnHandler.HandleCreate)).Methods(http.MethodPost)
	api.Handle("/vulnerabilities", protect(s.VulnHandler.HandleList)).Methods(http.MethodGet)
	api.Handle("/vulnerabilities/{vulnId}", protect(s.VulnHandler.HandleGet)).Methods(http.MethodGet)
	api.Handle("/vulnerabilities/{vulnId}", protectOp(s.VulnHandler.HandleUpdate)).Methods(http.MethodPut)
	api.Handle("/vulnerabilities/{vulnId}", protectOp(s.VulnHandler.HandleDelete)).Methods(http.MethodDelete)

	// Asset-vulnerability links
	api.Handle("/assets/{assetId}/vulnerabilities", protectOp(s.LinkHandler.HandleCreate)).Methods(http.MethodPost)
	api.Handle("/assets/{assetId}/vulnerabilities", protect(s.LinkHandler.HandleList)).Methods(http.MethodGet)
	api.Handle("/assets/{assetId}/vulnerabilities/{linkId}", protectOp(s.LinkHandler.HandleUpdate)).Methods(http.MethodPut)
	api.Handle("/assets/{assetId}/vulnerabilities/{linkId}", protectOp(s.LinkHandler.HandleDelete)).Methods(http.MethodDelete)

	// Simulated scan
	api.Handle("/assets/{assetId}/scan", protectOp(s.ScanHandler.HandleScan)).Methods(http.MethodPost)

	// Dashboard
	api.Handle("/dashboard/statistics", protect(s.DashboardHandler.HandleStatistics)).Methods(http.MethodGet)
	api.Handle("/dashboard/recent-assets", protect(s.DashboardHandler.HandleRecentAssets)).Methods(http.MethodGet)
	api.Handle("/dashboard/recent-vulnerabilities", protect(s.DashboardHandler.HandleRecentVulnerabilities)).Methods(http.MethodGet)

	// Audit logs
	api.Handle("/audit-logs", protect(s.AuditHandler.HandleGetLogs)).Methods(http.MethodGet)

	// Event stream
	r.Handle("/ws", protect(s.WSManager.HandleWebSocket))

	// Metrics endpoint (protected - requires authentication)
	r.Handle("/metrics", protect(func(w http.ResponseWriter, req *http.Request) {
		promhttp.Handler().ServeHTTP(w, req)
	}))

	return r
}

package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lcalzada-xor/vulnmap/internal/adapters/web/events"
	"github.com/lcalzada-xor/vulnmap/internal/adapters/web/handlers"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr        string
	AuthService ports.AuthService
	WSManager   *events.WSManager

	AuthHandler      *handlers.AuthHandler
	AssetHandler     *handlers.AssetHandler
	VulnHandler      *handlers.VulnerabilityHandler
	LinkHandler      *handlers.LinkHandler
	ScanHandler      *handlers.ScanHandler
	DashboardHandler *handlers.DashboardHandler
	AuditHandler     *handlers.AuditHandler

	srv *http.Server
}

// Deps bundles the services the server exposes.
type Deps struct {
	Auth      ports.AuthService
	Assets    ports.AssetService
	Vulns     ports.VulnerabilityService
	Links     ports.LinkService
	Scans     ports.ScanService
	Dashboard ports.DashboardService
	Audit     ports.AuditService
	WSManager *events.WSManager
}

// NewServer creates a new web server.
func NewServer(addr string, deps Deps) *Server {
	return &Server{
		Addr:        addr,
		AuthService: deps.Auth,
		WSManager:   deps.WSManager,

		AuthHandler:      handlers.NewAuthHandler(deps.Auth),
		AssetHandler:     handlers.NewAssetHandler(deps.Assets),
		VulnHandler:      handlers.NewVulnerabilityHandler(deps.Vulns),
		LinkHandler:      handlers.NewLinkHandler(deps.Links),
		ScanHandler:      handlers.NewScanHandler(deps.Scans),
		DashboardHandler: handlers.NewDashboardHandler(deps.Dashboard),
		AuditHandler:     handlers.NewAuditHandler(deps.Audit),
	}
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry
	instrumentedHandler := otelhttp.NewHandler(handler, "vulnmap-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		slog.Info("web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("web server shutdown error", "error", err)
		}
	}()

	slog.Info("web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

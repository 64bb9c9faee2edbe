package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lcalzada-xor/vulnmap/internal/adapters/storage"
	"github.com/lcalzada-xor/vulnmap/internal/adapters/web/events"
	webserver "github.com/lcalzada-xor/vulnmap/internal/adapters/web/server"
	"github.com/lcalzada-xor/vulnmap/internal/config"
	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/services/audit"
	"github.com/lcalzada-xor/vulnmap/internal/core/services/auth"
	"github.com/lcalzada-xor/vulnmap/internal/core/services/dashboard"
	"github.com/lcalzada-xor/vulnmap/internal/core/services/inventory"
	"github.com/lcalzada-xor/vulnmap/internal/core/services/linking"
	"github.com/lcalzada-xor/vulnmap/internal/core/services/scan"
	"github.com/lcalzada-xor/vulnmap/internal/telemetry"
)

// Application holds the core components of the application.
// It acts as the facade for the system, orchestrating storage, services and
// the web server.
type Application struct {
	Config    *config.Config
	Store     *storage.SQLiteAdapter
	WebServer *webserver.Server

	AuthService *auth.AuthService
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	store, err := app.initStorage()
	if err != nil {
		return err
	}
	app.Store = store

	auditService := audit.NewAuditService(store)
	app.AuthService = auth.NewAuthService(store, app.Config.SessionTTL)

	if err := app.ensureDefaultAdmin(); err != nil {
		log.Printf("Warning: could not ensure default admin: %v", err)
	}

	wsManager := events.NewWSManager()

	assetService := inventory.NewAssetService(store, auditService)
	vulnService := inventory.NewVulnerabilityService(store, auditService)
	linkService := linking.NewLinkService(store, store, store, auditService, wsManager)

	candidateSource := scan.NewLatestVulnerabilitySource(store)
	scanService := scan.NewScanService(store, store, candidateSource, auditService, wsManager, app.Config.ScanBatchSize)

	dashboardService := dashboard.NewDashboardService(store, store, store)

	app.WebServer = webserver.NewServer(app.Config.Addr, webserver.Deps{
		Auth:      app.AuthService,
		Assets:    assetService,
		Vulns:     vulnService,
		Links:     linkService,
		Scans:     scanService,
		Dashboard: dashboardService,
		Audit:     auditService,
		WSManager: wsManager,
	})

	return nil
}

func (app *Application) initStorage() (*storage.SQLiteAdapter, error) {
	if dir := filepath.Dir(app.Config.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteAdapter(app.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	return store, nil
}

func (app *Application) ensureDefaultAdmin() error {
	return app.AuthService.EnsureUser(context.Background(), domain.User{
		Username: app.Config.AdminUser,
		Role:     domain.RoleAdmin,
	}, app.Config.AdminPassword)
}

// Run starts the web server and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	slog.Info("starting vulnmap", "addr", app.Config.Addr, "db", app.Config.DBPath)

	err := app.WebServer.Run(ctx)

	if cerr := app.Store.Close(); cerr != nil {
		slog.Error("storage close error", "error", cerr)
	}

	return err
}

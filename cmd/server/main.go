package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"propmgmt/application"
	"propmgmt/database"
	"propmgmt/domain/contracts"
	"propmgmt/infrastructure/cache"
	"propmgmt/infrastructure/config"
	infrafactories "propmgmt/infrastructure/factories"
	"propmgmt/infrastructure/graph"
	"propmgmt/infrastructure/keyvault"
	"propmgmt/infrastructure/metrics"
	"propmgmt/infrastructure/spclient"
	"propmgmt/interfaces/web/handlers"
	authmw "propmgmt/interfaces/web/middleware"
	"propmgmt/interfaces/web/presenters"
	"propmgmt/logging"
	"propmgmt/platform/events"
	"propmgmt/platform/factories"
	"propmgmt/spauth"
)

func main() {
	// Create app-wide context for graceful shutdown
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database (local list store only)
	db := initializeDatabase(cfg, logger)
	if db != nil {
		defer db.Close()
	}

	// Build dependencies with app context
	deps := buildDependencies(appCtx, cfg, db, logger)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, deps, appCancel)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	Opportunities *application.OpportunityService
	Dashboards    *application.DashboardService
	Roles         *application.RoleService
	Permissions   *application.PermissionService
	Templates     *application.TemplateService
	Notifications *application.NotificationService
	Authorization *application.AuthorizationService
	EventBus      *events.OpportunityEventBus
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	OpportunityHandlers  *handlers.OpportunityHandlers
	DashboardHandlers    *handlers.DashboardHandlers
	CatalogHandlers      *handlers.CatalogHandlers
	NotificationHandlers *handlers.NotificationHandlers
	NotificationStream   *handlers.NotificationStream
	Authenticator        *authmw.Authenticator
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB       *database.Database
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	// Repositories
	Repositories *infrafactories.Repositories

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"list_store", cfg.ListStoreBackend,
		"cache", cfg.Cache.Backend,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	if cfg.ListStoreBackend != config.ListStoreSqlite {
		return nil
	}
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

func initializeMetrics() (*metrics.Metrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New("propmgmt", registry), registry
}

// buildCache creates the shared cache on the configured backend.
func buildCache(cfg *config.AppConfig, recorder cache.Recorder, logger *logging.Logger) *cache.Cache {
	var store contracts.CacheStore
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client := cache.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		store = cache.NewRedisStore(client, "propmgmt")
		logger.Info("Using redis cache", "addr", cfg.Cache.RedisAddr, "db", cfg.Cache.RedisDB)
	default:
		store = cache.NewMemoryStore(cfg.Cache.TTL, 2*cfg.Cache.TTL)
		logger.Info("Using in-memory cache", "ttl", cfg.Cache.TTL.String())
	}
	return cache.New(store, cfg.Cache.TTL, recorder)
}

// resolveSecrets fills Graph and JWT secrets from Key Vault when they are not set directly.
func resolveSecrets(ctx context.Context, cfg *config.AppConfig, logger *logging.Logger) {
	var secrets contracts.SecretStore
	if cfg.KeyVault.URL != "" {
		vault, err := keyvault.NewService(cfg.KeyVault.URL)
		if err != nil {
			logger.Error("Failed to create Key Vault client", "error", err, "vault_url", cfg.KeyVault.URL)
			os.Exit(1)
		}
		secrets = vault
	}

	graphSecret, err := keyvault.Resolve(ctx, secrets, cfg.Graph.ClientSecret, cfg.Graph.ClientSecretVaultKey)
	if err != nil {
		logger.Error("Failed to resolve Graph client secret", "error", err)
		os.Exit(1)
	}
	cfg.Graph.ClientSecret = graphSecret

	jwtSecret, err := keyvault.Resolve(ctx, secrets, cfg.Auth.JWTSecret, cfg.Auth.JWTSecretVaultKey)
	if err != nil {
		logger.Error("Failed to resolve JWT secret", "error", err)
		os.Exit(1)
	}
	cfg.Auth.JWTSecret = jwtSecret
}

// buildRepositories opens the list store and creates all repositories
func buildRepositories(cfg *config.AppConfig, db *database.Database, logger *logging.Logger) *infrafactories.Repositories {
	store, err := infrafactories.NewListStore(cfg, db)
	if err != nil {
		logger.Error("Failed to open list store", "error", err, "backend", cfg.ListStoreBackend)
		os.Exit(1)
	}
	return infrafactories.NewRepositoryFactory(store, cfg.Lists).Build()
}

// buildCollaborators creates the Graph, SharePoint document and webhook clients.
func buildCollaborators(cfg *config.AppConfig, workflowFactory *factories.OpportunityWorkflowFactory, userCache *cache.Cache, logger *logging.Logger) factories.Collaborators {
	teams, err := graph.NewTeamsClient(cfg.Graph.TenantID, cfg.Graph.ClientID, cfg.Graph.ClientSecret, userCache)
	if err != nil {
		logger.Error("Failed to create Graph client", "error", err)
		os.Exit(1)
	}

	spClient, err := spauth.NewClient(cfg.SharePoint)
	if err != nil {
		logger.Error("Failed to create SharePoint client", "error", err)
		os.Exit(1)
	}

	return factories.Collaborators{
		Teams:     teams,
		Documents: spclient.NewDocumentClient(spClient, cfg.Workflow.TenantHostURL),
		Hooks:     workflowFactory.CreateHooks(),
	}
}

// buildApplicationServices creates application services with dependency injection.
func buildApplicationServices(cfg *config.AppConfig, repos *infrafactories.Repositories, m *metrics.Metrics, logger *logging.Logger) *ApplicationServices {
	// Create event bus for opportunity events
	eventBus := events.NewOpportunityEventBus()

	appCache := buildCache(cfg, m, logger)

	// Create platform factories
	workflowFactory := factories.NewOpportunityWorkflowFactory(cfg.Workflow, m, nil)
	collaborators := buildCollaborators(cfg, workflowFactory, appCache, logger)
	opportunityFactory := workflowFactory.CreateOpportunityFactory(collaborators, repos.Dashboards)

	roles := application.NewRoleService(repos.Roles, appCache)

	return &ApplicationServices{
		Opportunities: application.NewOpportunityService(repos.Opportunities, opportunityFactory, eventBus, nil),
		Dashboards:    application.NewDashboardService(repos.Dashboards),
		Roles:         roles,
		Permissions:   application.NewPermissionService(repos.Permissions),
		Templates:     application.NewTemplateService(repos.Templates, appCache),
		Notifications: application.NewNotificationService(repos.Notifications),
		Authorization: application.NewAuthorizationService(roles),
		EventBus:      eventBus,
	}
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(cfg *config.AppConfig, services *ApplicationServices, repos *infrafactories.Repositories) *PresentationLayer {
	// Build presenters (view logic)
	opportunityPresenter := presenters.NewOpportunityPresenter()
	dashboardPresenter := presenters.NewDashboardPresenter()

	// Build handlers - orchestrate services & presenters
	stream := handlers.NewNotificationStream()

	// Setup event system for notifications
	setupEventHandlers(services, stream.Tee(repos.Notifications))

	return &PresentationLayer{
		OpportunityHandlers:  handlers.NewOpportunityHandlers(services.Opportunities, opportunityPresenter),
		DashboardHandlers:    handlers.NewDashboardHandlers(services.Dashboards, dashboardPresenter),
		CatalogHandlers:      handlers.NewCatalogHandlers(services.Roles, services.Permissions, services.Templates),
		NotificationHandlers: handlers.NewNotificationHandlers(services.Notifications, stream),
		NotificationStream:   stream,
		Authenticator:        authmw.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, services.Authorization),
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(appCtx context.Context, cfg *config.AppConfig, db *database.Database, logger *logging.Logger) *Dependencies {
	m, registry := initializeMetrics()
	resolveSecrets(appCtx, cfg, logger)
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("No JWT secret configured, every API request will be rejected")
	}

	// Build each layer
	repos := buildRepositories(cfg, db, logger)
	services := buildApplicationServices(cfg, repos, m, logger)
	presentation := buildPresentationLayer(cfg, services, repos)

	go presentation.NotificationStream.Run(appCtx)

	return &Dependencies{
		DB:           db,
		Logger:       logger,
		Metrics:      m,
		Registry:     registry,
		Repositories: repos,
		Services:     services,
		Presentation: presentation,
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(deps.Metrics))

	// System endpoints
	setupSystemRoutes(r, deps)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(deps.Presentation.Authenticator.Middleware)
		setupOpportunityRoutes(r, deps)
		setupCatalogRoutes(r, deps)
	})

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("propmgmt", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"status": "ok",
		}
		if deps.DB != nil {
			stats, err := deps.DB.Health(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			response["database"] = stats
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupOpportunityRoutes(r chi.Router, deps *Dependencies) {
	h := deps.Presentation.OpportunityHandlers
	r.Get("/opportunities", h.List)
	r.Post("/opportunities", h.Create)
	r.Get("/opportunities/by-name/{name}", h.GetByName)
	r.Get("/opportunities/{id}", h.Get)
	r.Patch("/opportunities/{id}", h.Update)
	r.Delete("/opportunities/{id}", h.Delete)

	r.Get("/dashboards", deps.Presentation.DashboardHandlers.List)
	r.Get("/dashboards/analysis", deps.Presentation.DashboardHandlers.Analysis)

	r.Get("/notifications", deps.Presentation.NotificationHandlers.List)
	r.Get("/notifications/stream", deps.Presentation.NotificationHandlers.Stream)
}

func setupCatalogRoutes(r chi.Router, deps *Dependencies) {
	h := deps.Presentation.CatalogHandlers
	r.Get("/roles", h.ListRoles)
	r.Post("/roles", h.CreateRole)
	r.Patch("/roles/{id}", h.UpdateRole)
	r.Delete("/roles/{id}", h.DeleteRole)

	r.Get("/permissions", h.ListPermissions)
	r.Post("/permissions", h.CreatePermission)

	r.Get("/templates", h.ListTemplates)
	r.Post("/templates", h.CreateTemplate)
	r.Patch("/templates/{id}", h.UpdateTemplate)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, deps *Dependencies, appCancel context.CancelFunc) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// Cancel app-wide context first; this also closes notification streams
		logger.Info("Cancelling app context...")
		appCancel()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}

// setupEventHandlers wires up the event handlers for opportunity notifications
func setupEventHandlers(services *ApplicationServices, writer events.NotificationWriter) {
	notificationHandlers := events.NewNotificationEventHandlers(writer)

	// Register all event handlers with the existing event bus
	notificationHandlers.RegisterHandlers(services.EventBus)
}

package routes

import (
	"fmt"

	"freeswitch-admin-console/internal/api/handlers"
	"freeswitch-admin-console/internal/api/middleware"
	"freeswitch-admin-console/internal/api/templates"
	"freeswitch-admin-console/internal/client"
	"freeswitch-admin-console/internal/config"
	"freeswitch-admin-console/internal/notify"
	"freeswitch-admin-console/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LoginPath is where visitors without a session are sent
const LoginPath = "/login"

// SetupRoutes configures all the routes of the web console. Client metrics
// are registered on reg and served on /metrics when enabled.
func SetupRoutes(cfg *config.Config, reg *prometheus.Registry) (*gin.Engine, error) {
	tmpl, err := templates.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Create router
	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Add middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	// One connection pool for every call made on behalf of any browser
	httpClient := client.NewHTTPClient(cfg.RequestTimeout())
	var metrics *client.Metrics
	if cfg.MetricsEnabled {
		metrics = client.NewMetrics(reg)
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// Health checks carry no session
	healthAPI, err := client.New(cfg.APIBaseURL, storage.NewMemoryStore(), notify.NewLogNotifier(nil),
		client.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	healthHandler := handlers.NewHealthHandler(healthAPI)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler()
	tenantHandler := handlers.NewTenantHandler()
	dashboardHandler := handlers.NewDashboardHandler()
	domainHandler := handlers.NewDomainHandler()
	extensionHandler := handlers.NewExtensionHandler()
	voicemailHandler := handlers.NewVoicemailHandler()

	console := router.Group("/", middleware.WithConsole(middleware.ConsoleOptions{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: httpClient,
		Metrics:    metrics,
		Cookies: storage.CookieOptions{
			MaxAge: cfg.CookieMaxAgeSec,
			Secure: cfg.CookieSecure,
		},
	}))
	{
		console.GET(LoginPath, authHandler.LoginPage)
		console.POST(LoginPath, authHandler.Login)
		console.POST("/logout", authHandler.Logout)
	}

	pages := console.Group("/", middleware.RequireSession(LoginPath))
	{
		pages.GET("/", dashboardHandler.Show)

		pages.GET("/profile", authHandler.Profile)
		pages.POST("/profile/refresh", authHandler.Refresh)
		pages.POST("/profile/password", authHandler.ChangePassword)

		pages.GET("/tenants", tenantHandler.List)
		pages.POST("/tenants/select", tenantHandler.Select)
		pages.POST("/tenants/clear", tenantHandler.Clear)

		pages.GET("/domains", domainHandler.List)
		pages.POST("/domains", domainHandler.Create)
		pages.POST("/domains/:id", domainHandler.Update)
		pages.POST("/domains/:id/delete", domainHandler.Delete)

		pages.GET("/extensions", extensionHandler.List)
		pages.POST("/extensions", extensionHandler.Create)
		pages.POST("/extensions/:id", extensionHandler.Update)
		pages.POST("/extensions/:id/delete", extensionHandler.Delete)

		pages.GET("/voicemails", voicemailHandler.List)
		pages.POST("/voicemails", voicemailHandler.Create)
		pages.POST("/voicemails/:id", voicemailHandler.Update)
		pages.POST("/voicemails/:id/delete", voicemailHandler.Delete)
	}

	return router, nil
}

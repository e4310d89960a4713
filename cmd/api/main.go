package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/perashanid/Media-bias/internal/analysis/bias"
	"github.com/perashanid/Media-bias/internal/analysis/similarity"
	"github.com/perashanid/Media-bias/internal/common/pagination"
	pgRepo "github.com/perashanid/Media-bias/internal/infra/adapter/persistence/postgres"
	"github.com/perashanid/Media-bias/internal/infra/db"
	"github.com/perashanid/Media-bias/internal/infra/scraper"
	"github.com/perashanid/Media-bias/internal/observability/slo"
	"github.com/perashanid/Media-bias/internal/observability/tracing"
	"github.com/perashanid/Media-bias/pkg/config"
	"github.com/perashanid/Media-bias/pkg/ratelimit"
	"github.com/perashanid/Media-bias/pkg/security/csp"

	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
	compareUC "github.com/perashanid/Media-bias/internal/usecase/compare"
	monitorUC "github.com/perashanid/Media-bias/internal/usecase/monitor"
	scrapeUC "github.com/perashanid/Media-bias/internal/usecase/scrape"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"

	hhttp "github.com/perashanid/Media-bias/internal/handler/http"
	harticle "github.com/perashanid/Media-bias/internal/handler/http/article"
	hauth "github.com/perashanid/Media-bias/internal/handler/http/auth"
	hbias "github.com/perashanid/Media-bias/internal/handler/http/bias"
	hcomparison "github.com/perashanid/Media-bias/internal/handler/http/comparison"
	"github.com/perashanid/Media-bias/internal/handler/http/middleware"
	hmonitor "github.com/perashanid/Media-bias/internal/handler/http/monitor"
	"github.com/perashanid/Media-bias/internal/handler/http/requestid"
	hscrapectl "github.com/perashanid/Media-bias/internal/handler/http/scrapectl"
	hsrc "github.com/perashanid/Media-bias/internal/handler/http/source"
	authservice "github.com/perashanid/Media-bias/internal/service/auth"
)

// @title           Media Bias Detector API
// @version         1.0
// @description     REST API for the Bangladeshi news bias analysis pipeline.
// @description     Provides article search, per-article bias scores, cross-source
// @description     story comparison, source registry management and pipeline monitoring.

// @contact.name   API Support
// @contact.url    https://github.com/perashanid/Media-bias

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token. Send as "Bearer {token}".

func main() {
	logger := initLogger()
	validateAdminCredentials(logger)
	validateViewerCredentials(logger)
	validateJWTSecret(logger)
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	serverComponents := setupServer(logger, database, version)

	runServer(logger, serverComponents, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// validateAdminCredentials validates the admin credentials at startup.
// This prevents the server from starting with empty or weak admin credentials.
func validateAdminCredentials(logger *slog.Logger) {
	if err := hauth.ValidateAdminCredentials(); err != nil {
		logger.Error("admin credentials validation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// validateViewerCredentials validates the viewer credentials at startup.
// Unlike admin validation, this implements graceful degradation:
// if viewer credentials are misconfigured, the viewer role is disabled
// but the application continues to run in admin-only mode.
func validateViewerCredentials(logger *slog.Logger) {
	_ = hauth.ValidateViewerCredentials(logger)
}

// validateJWTSecret validates the JWT_SECRET environment variable for security requirements.
func validateJWTSecret(logger *slog.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT_SECRET must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// apiServices bundles the use case services behind the HTTP surface.
type apiServices struct {
	articles  *artUC.Service
	sources   *srcUC.Service
	analyze   *analyzeUC.Service
	compare   *compareUC.Service
	monitor   *monitorUC.Service
	scrapeCtl *hscrapectl.Controller
}

// setupServices creates the repositories and use case services.
func setupServices(logger *slog.Logger, database *sql.DB) *apiServices {
	srcRepo := pgRepo.NewSourceRepo(database)
	artRepo := pgRepo.NewArticleRepo(database)
	reportRepo := pgRepo.NewReportRepo(database)
	metricsRepo := pgRepo.NewMetricsRepo(database)
	alertRepo := pgRepo.NewAlertRepo(database)

	articleSvc := &artUC.Service{Repo: artRepo}

	scraperConfig, err := scraper.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load scraper configuration", slog.Any("error", err))
		os.Exit(1)
	}
	// On-demand runs skip the readability fallback; scheduled runs in
	// the worker carry it.
	factory := scraper.NewFactory(scraperConfig, nil)
	scrapeSvc := &scrapeUC.Service{
		Sources:        srcRepo,
		Factory:        factory,
		Store:          articleSvc,
		MaxConcurrent:  scrapeUC.MaxConcurrentFromEnv(),
		ArticlesPerRun: scraperConfig.ArticlesPerSource,
	}

	analyzer := bias.NewAnalyzer()
	return &apiServices{
		articles: articleSvc,
		sources:  &srcUC.Service{Repo: srcRepo},
		analyze: &analyzeUC.Service{
			Repo:     artRepo,
			Analyzer: analyzer,
		},
		compare: &compareUC.Service{
			Articles: artRepo,
			Reports:  reportRepo,
			Matcher:  similarity.NewMatcher(),
			Analyzer: analyzer,
		},
		monitor: &monitorUC.Service{
			Articles:   artRepo,
			Metrics:    metricsRepo,
			Alerts:     alertRepo,
			Thresholds: monitorUC.DefaultThresholds(),
		},
		scrapeCtl: &hscrapectl.Controller{Svc: scrapeSvc},
	}
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	IPStore     *ratelimit.InMemoryRateLimitStore
	UserStore   *ratelimit.InMemoryRateLimitStore
	IPWindow    time.Duration
	UserWindow  time.Duration
	AuthLimiter *middleware.RateLimiter // Legacy rate limiter for cleanup
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string) *ServerComponents {
	services := setupServices(logger, database)

	// Load rate limiting configuration
	rateLimitConfig, err := config.LoadRateLimitConfig()
	if err != nil {
		logger.Error("failed to load rate limit configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Load trusted proxy configuration for IP extraction
	proxyConfig, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var ipExtractor middleware.IPExtractor
	if proxyConfig.Enabled {
		ipExtractor = middleware.NewTrustedProxyExtractor(*proxyConfig)
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyConfig.AllowedCIDRs)))
	} else {
		ipExtractor = &middleware.RemoteAddrExtractor{}
		logger.Info("rate limiting: using RemoteAddr (secure mode, proxy headers ignored)")
	}

	// Initialize rate limiting components (if enabled)
	var ipRateLimiter *middleware.IPRateLimiter
	var userRateLimiter *middleware.UserRateLimiter
	var ipStore *ratelimit.InMemoryRateLimitStore
	var userStore *ratelimit.InMemoryRateLimitStore

	if rateLimitConfig.Enabled {
		// Separate stores so IP and user limits age out independently
		ipStore = ratelimit.NewInMemoryRateLimitStore(ratelimit.InMemoryStoreConfig{
			MaxKeys: rateLimitConfig.MaxActiveKeys,
		})
		userStore = ratelimit.NewInMemoryRateLimitStore(ratelimit.InMemoryStoreConfig{
			MaxKeys: rateLimitConfig.MaxActiveKeys,
		})

		algorithm := ratelimit.NewSlidingWindowAlgorithm(&ratelimit.SystemClock{})
		metrics := ratelimit.NewPrometheusMetrics()

		ipCircuitBreaker := ratelimit.NewCircuitBreaker(ratelimit.CircuitBreakerConfig{
			FailureThreshold: rateLimitConfig.CircuitBreakerFailureThreshold,
			RecoveryTimeout:  rateLimitConfig.CircuitBreakerResetTimeout,
		})
		userCircuitBreaker := ratelimit.NewCircuitBreaker(ratelimit.CircuitBreakerConfig{
			FailureThreshold: rateLimitConfig.CircuitBreakerFailureThreshold,
			RecoveryTimeout:  rateLimitConfig.CircuitBreakerResetTimeout,
		})

		ipRateLimiter = middleware.NewIPRateLimiter(
			middleware.IPRateLimiterConfig{
				Limit:   rateLimitConfig.DefaultIPLimit,
				Window:  rateLimitConfig.DefaultIPWindow,
				Enabled: true,
			},
			ipExtractor,
			ipStore,
			algorithm,
			metrics,
			ipCircuitBreaker,
		)

		tierLimits := make(map[ratelimit.UserTier]middleware.TierLimit)
		for _, tierCfg := range rateLimitConfig.TierLimits {
			tierLimits[tierCfg.Tier] = middleware.TierLimit{
				Limit:  tierCfg.Limit,
				Window: tierCfg.Window,
			}
		}

		userExtractor := middleware.NewJWTUserExtractor("user", nil)

		userRateLimiter = middleware.NewUserRateLimiter(middleware.UserRateLimiterConfig{
			Store:               userStore,
			Algorithm:           algorithm,
			Metrics:             metrics,
			CircuitBreaker:      userCircuitBreaker,
			UserExtractor:       userExtractor,
			TierLimits:          tierLimits,
			DefaultLimit:        rateLimitConfig.DefaultUserLimit,
			DefaultWindow:       rateLimitConfig.DefaultUserWindow,
			SkipUnauthenticated: true,
			Clock:               &ratelimit.SystemClock{},
		})

		logger.Info("rate limiting initialized",
			slog.Bool("enabled", true),
			slog.Int("ip_limit", rateLimitConfig.DefaultIPLimit),
			slog.Duration("ip_window", rateLimitConfig.DefaultIPWindow),
			slog.Int("user_limit", rateLimitConfig.DefaultUserLimit),
			slog.Duration("user_window", rateLimitConfig.DefaultUserWindow),
			slog.Int("max_keys", rateLimitConfig.MaxActiveKeys),
		)
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	rootMux, authLimiter := setupRoutes(database, version, services, ipExtractor, userRateLimiter, logger)
	handler := applyMiddleware(logger, rootMux, ipRateLimiter)

	return &ServerComponents{
		Handler:     handler,
		IPStore:     ipStore,
		UserStore:   userStore,
		IPWindow:    rateLimitConfig.DefaultIPWindow,
		UserWindow:  rateLimitConfig.DefaultUserWindow,
		AuthLimiter: authLimiter,
	}
}

// setupRoutes registers all HTTP routes. The resource packages attach
// authentication per route: mutating endpoints require a token, reads
// stay public.
func setupRoutes(
	database *sql.DB,
	version string,
	services *apiServices,
	ipExtractor middleware.IPExtractor,
	userRateLimiter *middleware.UserRateLimiter,
	logger *slog.Logger,
) (*http.ServeMux, *middleware.RateLimiter) {
	// Token issuing is brute-forceable, so it gets its own tight limit:
	// 5 requests per minute per IP.
	authRateLimiter := middleware.NewRateLimiter(5, 1*time.Minute, ipExtractor)

	weakPasswords := []string{"password", "123456", "admin", "test", "secret"}
	authProvider := hauth.NewMultiUserAuthProvider(12, weakPasswords)
	publicEndpoints := []string{"/auth/token", "/health", "/ready", "/live", "/metrics"}
	authService := authservice.NewAuthService(authProvider, publicEndpoints)

	publicMux := http.NewServeMux()
	publicMux.Handle("/auth/token", authRateLimiter.Middleware(hauth.TokenHandler(authService)))

	publicMux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	publicMux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	publicMux.Handle("/live", &hhttp.LiveHandler{})
	publicMux.Handle("/metrics", hhttp.MetricsHandler())

	paginationCfg := pagination.LoadFromEnv()

	apiMux := http.NewServeMux()
	harticle.Register(apiMux, services.articles, paginationCfg, logger)
	hsrc.Register(apiMux, services.sources)
	hbias.Register(apiMux, services.analyze, services.articles)
	hcomparison.Register(apiMux, services.compare, paginationCfg)
	hscrapectl.Register(apiMux, services.scrapeCtl, services.sources)
	hmonitor.Register(apiMux, services.monitor)

	// User rate limiting wraps the resource routes; it skips
	// unauthenticated requests, which the IP limiter already covers.
	var api http.Handler = apiMux
	if userRateLimiter != nil {
		api = userRateLimiter.Middleware()(api)
	}

	rootMux := http.NewServeMux()
	rootMux.Handle("/auth/token", publicMux)
	rootMux.Handle("/health", publicMux)
	rootMux.Handle("/ready", publicMux)
	rootMux.Handle("/live", publicMux)
	rootMux.Handle("/metrics", publicMux)
	rootMux.Handle("/", api)

	return rootMux, authRateLimiter
}

// applyMiddleware wraps the handler with middleware chain.
// Order: CORS → Request ID → Tracing → IP Rate Limit → Input Validation →
// Recovery → Logging → Body Limit → CSP → Metrics → Timeout →
// (per-route auth).
func applyMiddleware(logger *slog.Logger, handler http.Handler, ipRateLimiter *middleware.IPRateLimiter) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	corsConfig.Logger = &middleware.SlogAdapter{Logger: logger}

	logger.Info("CORS enabled",
		slog.Int("allowed_origins_count", len(corsConfig.Validator.GetAllowedOrigins())),
		slog.Any("allowed_origins", corsConfig.Validator.GetAllowedOrigins()),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Any("allowed_headers", corsConfig.AllowedHeaders),
		slog.Int("max_age", corsConfig.MaxAge))

	cspConfig, err := config.LoadCSPConfig()
	if err != nil {
		logger.Error("failed to load CSP configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var cspMiddleware func(http.Handler) http.Handler
	if cspConfig.Enabled {
		cspMW := middleware.NewCSPMiddleware(middleware.CSPMiddlewareConfig{
			Enabled:       true,
			DefaultPolicy: csp.StrictPolicy(),
			ReportOnly:    cspConfig.ReportOnly,
		})
		cspMiddleware = cspMW.Middleware()
		logger.Info("CSP enabled",
			slog.Bool("report_only", cspConfig.ReportOnly))
	} else {
		cspMiddleware = func(next http.Handler) http.Handler {
			return next
		}
		logger.Warn("CSP is disabled")
	}

	middlewareChain := handler

	// Apply in reverse order (innermost to outermost)
	// Scrape runs execute asynchronously, so the request timeout never
	// cuts a pipeline run short.
	middlewareChain = hhttp.Timeout(30 * time.Second)(middlewareChain)
	middlewareChain = hhttp.MetricsMiddleware(middlewareChain)
	middlewareChain = cspMiddleware(middlewareChain)
	middlewareChain = hhttp.LimitRequestBody(1 << 20)(middlewareChain) // 1MB limit
	middlewareChain = hhttp.Logging(logger)(middlewareChain)
	middlewareChain = hhttp.Recover(logger)(middlewareChain)
	middlewareChain = hhttp.InputValidation()(middlewareChain)

	if ipRateLimiter != nil {
		middlewareChain = ipRateLimiter.Middleware()(middlewareChain)
	}

	middlewareChain = tracing.Middleware(middlewareChain)
	middlewareChain = requestid.Middleware(middlewareChain)
	middlewareChain = middleware.CORS(*corsConfig)(middlewareChain)

	return middlewareChain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupCfg := hhttp.LoadCleanupConfigFromEnv()

	if components.IPStore != nil {
		go hhttp.StartRateLimitCleanup(ctx, components.IPStore, cleanupCfg.Interval, components.IPWindow, "ip")
		logger.Info("IP rate limit cleanup started",
			slog.Duration("interval", cleanupCfg.Interval),
			slog.Duration("window", components.IPWindow))
	}

	if components.UserStore != nil {
		go hhttp.StartRateLimitCleanup(ctx, components.UserStore, cleanupCfg.Interval, components.UserWindow, "user")
		logger.Info("user rate limit cleanup started",
			slog.Duration("interval", cleanupCfg.Interval),
			slog.Duration("window", components.UserWindow))
	}

	if components.AuthLimiter != nil {
		go hhttp.StartRateLimitCleanupLegacy(ctx, components.AuthLimiter, cleanupCfg.Interval, "auth")
		logger.Info("auth rate limit cleanup started (legacy)",
			slog.Duration("interval", cleanupCfg.Interval))
	}

	// SLO gauges are computed from request outcomes collected by the
	// metrics middleware and flushed once a minute.
	go slo.StartReporter(ctx, slo.DefaultReportInterval)

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", ":8080"),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()
	logger.Debug("background cleanup goroutines cancelled")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

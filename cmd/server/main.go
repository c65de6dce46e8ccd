package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/fertigov/backend/internal/application/catalog"
	complaintapp "github.com/fertigov/backend/internal/application/complaint"
	dashboardapp "github.com/fertigov/backend/internal/application/dashboard"
	districtapp "github.com/fertigov/backend/internal/application/district"
	identityapp "github.com/fertigov/backend/internal/application/identity"
	pricingapp "github.com/fertigov/backend/internal/application/pricing"
	retailerapp "github.com/fertigov/backend/internal/application/retailer"
	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/fertigov/backend/internal/infrastructure/auth"
	"github.com/fertigov/backend/internal/infrastructure/cache"
	"github.com/fertigov/backend/internal/infrastructure/config"
	"github.com/fertigov/backend/internal/infrastructure/event"
	"github.com/fertigov/backend/internal/infrastructure/logger"
	"github.com/fertigov/backend/internal/infrastructure/persistence"
	"github.com/fertigov/backend/internal/infrastructure/telemetry"
	"github.com/fertigov/backend/internal/interfaces/http/handler"
	"github.com/fertigov/backend/internal/interfaces/http/middleware"
	"github.com/fertigov/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Fertilizer Price Governance Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize OpenTelemetry tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database query tracing
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.Register(db.DB); err != nil {
			log.Error("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Redis backs the token blacklist and the public price query cache.
	// Both fall back to in-memory implementations when Redis is unreachable.
	var tokenBlacklist auth.TokenBlacklist
	var priceCache cache.PriceQueryCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist and price cache", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		priceCache = cache.NewInMemoryPriceQueryCache(cfg.Cache.PriceQueryTTL)
	} else {
		tokenBlacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		priceCache = cache.NewRedisPriceQueryCache(redisClient, cfg.Cache.PriceQueryTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully")
	}

	// In-process event bus for domain events
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(ctx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// JWT token service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	districtRepo := persistence.NewGormDistrictRepository(db.DB)
	skuRepo := persistence.NewGormSKURepository(db.DB)
	retailerRepo := persistence.NewGormRetailerRepository(db.DB)
	refPriceRepo := persistence.NewGormReferencePriceRepository(db.DB)
	pubPriceRepo := persistence.NewGormPublishedPriceRepository(db.DB)
	alertRepo := persistence.NewGormPriceAlertRepository(db.DB)
	auditRepo := persistence.NewGormPriceAuditRepository(db.DB)
	complaintRepo := persistence.NewGormComplaintRepository(db.DB)
	historyRepo := persistence.NewGormStatusHistoryRepository(db.DB)
	evidenceRepo := persistence.NewGormEvidenceRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)
	districtService := districtapp.NewService(districtRepo, retailerRepo, refPriceRepo, log)
	skuService := catalogapp.NewService(skuRepo, log)
	retailerService := retailerapp.NewService(retailerRepo, userRepo, districtRepo, log)
	refPriceService := pricingapp.NewReferencePriceService(refPriceRepo, skuRepo, districtRepo, eventBus, priceCache, log)
	publishService := pricingapp.NewPublishService(pubPriceRepo, refPriceRepo, alertRepo, auditRepo, retailerRepo, skuRepo, districtRepo, eventBus, priceCache, log)
	queryService := pricingapp.NewQueryService(pubPriceRepo, refPriceRepo, skuRepo, districtRepo, priceCache, log)
	alertService := pricingapp.NewAlertService(alertRepo, auditRepo, log)
	complaintService := complaintapp.NewService(complaintRepo, historyRepo, evidenceRepo, notificationRepo, retailerRepo, eventBus, log)
	dashboardService := dashboardapp.NewService(pubPriceRepo, alertRepo, complaintRepo, userRepo, skuRepo, log)

	// Register event handlers
	// Complaint assignment / status change -> per-user notifications
	complaintNotificationHandler := complaintapp.NewNotificationHandler(complaintRepo, notificationRepo, log)
	eventBus.Subscribe(complaintNotificationHandler)

	log.Info("Event handlers registered",
		zap.Strings("complaint_notification_events", complaintNotificationHandler.EventTypes()))

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	districtHandler := handler.NewDistrictHandler(districtService)
	skuHandler := handler.NewSKUHandler(skuService)
	retailerHandler := handler.NewRetailerHandler(retailerService)
	refPriceHandler := handler.NewReferencePriceHandler(refPriceService)
	priceHandler := handler.NewPublishedPriceHandler(publishService)
	priceQueryHandler := handler.NewPriceQueryHandler(queryService)
	alertHandler := handler.NewAlertHandler(alertService)
	complaintHandler := handler.NewComplaintHandler(complaintService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	systemHandler := handler.NewSystemHandler()

	// Configure gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Global middleware
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/public",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	if cfg.Telemetry.Enabled {
		r.Use(middleware.TracingAttributeInjector())
	}

	// Authentication and session routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		// Stricter limit on credential endpoints to slow brute forcing
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.POST("/register", middleware.RateLimit(authLimiter), authHandler.Register)
		authRoutes.POST("/login", middleware.RateLimit(authLimiter), authHandler.Login)
		authRoutes.POST("/refresh", middleware.RateLimit(authLimiter), authHandler.RefreshToken)
	} else {
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.RefreshToken)
	}
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/me", userHandler.UpdateMe)
	authRoutes.POST("/change-password", authHandler.ChangePassword)
	r.Register(authRoutes)

	// User administration routes
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequireAdmin())
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/role", userHandler.ChangeRole)
	userRoutes.POST("/:id/verify", userHandler.Verify)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	r.Register(userRoutes)

	// District tree routes: reads for any authenticated user, writes admin only
	districtRoutes := router.NewDomainGroup("districts", "/districts")
	districtRoutes.GET("", districtHandler.List)
	districtRoutes.GET("/tree", districtHandler.GetTree)
	districtRoutes.GET("/code/:code", districtHandler.GetByCode)
	districtRoutes.GET("/:id", districtHandler.GetByID)
	districtRoutes.GET("/:id/tree", districtHandler.GetSubtree)
	districtRoutes.POST("", middleware.RequireAdmin(), districtHandler.Create)
	districtRoutes.PUT("/:id", middleware.RequireAdmin(), districtHandler.Update)
	districtRoutes.PUT("/:id/parent", middleware.RequireAdmin(), districtHandler.Move)
	districtRoutes.POST("/:id/activate", middleware.RequireAdmin(), districtHandler.Activate)
	districtRoutes.POST("/:id/deactivate", middleware.RequireAdmin(), districtHandler.Deactivate)
	districtRoutes.GET("/:id/deletion-impact", middleware.RequireAdmin(), districtHandler.GetDeletionImpact)
	districtRoutes.DELETE("/:id", middleware.RequireAdmin(), districtHandler.Delete)
	r.Register(districtRoutes)

	// Fertilizer catalog routes: reads for any authenticated user, writes admin only
	skuRoutes := router.NewDomainGroup("catalog", "/skus")
	skuRoutes.GET("", skuHandler.List)
	skuRoutes.GET("/code/:code", skuHandler.GetByCode)
	skuRoutes.GET("/:id", skuHandler.GetByID)
	skuRoutes.POST("", middleware.RequireAdmin(), skuHandler.Create)
	skuRoutes.PUT("/:id", middleware.RequireAdmin(), skuHandler.Update)
	skuRoutes.POST("/:id/activate", middleware.RequireAdmin(), skuHandler.Activate)
	skuRoutes.POST("/:id/deactivate", middleware.RequireAdmin(), skuHandler.Deactivate)
	skuRoutes.POST("/:id/discontinue", middleware.RequireAdmin(), skuHandler.Discontinue)
	r.Register(skuRoutes)

	// Retailer profile routes
	retailerRoutes := router.NewDomainGroup("retailers", "/retailers")
	retailerRoutes.POST("", middleware.RequireRoles(identity.RoleRetailer), retailerHandler.Register)
	retailerRoutes.GET("/me", middleware.RequireRoles(identity.RoleRetailer), retailerHandler.GetMine)
	retailerRoutes.GET("", middleware.RequireStaff(), retailerHandler.List)
	retailerRoutes.GET("/:id", retailerHandler.GetByID)
	retailerRoutes.PUT("/:id", middleware.RequireRoles(identity.RoleRetailer), retailerHandler.Update)
	retailerRoutes.PUT("/:id/district", middleware.RequireStaff(), retailerHandler.Move)
	retailerRoutes.POST("/:id/verify", middleware.RequireStaff(), retailerHandler.Verify)
	retailerRoutes.POST("/:id/suspend", middleware.RequireStaff(), retailerHandler.Suspend)
	r.Register(retailerRoutes)

	// Government reference price routes
	refPriceRoutes := router.NewDomainGroup("reference-prices", "/reference-prices")
	refPriceRoutes.GET("", refPriceHandler.List)
	refPriceRoutes.GET("/:id", refPriceHandler.GetByID)
	refPriceRoutes.POST("", middleware.RequireRoles(identity.RoleGovAdmin, identity.RoleDistrictOfficer), refPriceHandler.Set)
	refPriceRoutes.PUT("/:id", middleware.RequireRoles(identity.RoleGovAdmin, identity.RoleDistrictOfficer), refPriceHandler.Update)
	refPriceRoutes.POST("/:id/retire", middleware.RequireRoles(identity.RoleGovAdmin, identity.RoleDistrictOfficer), refPriceHandler.Retire)
	r.Register(refPriceRoutes)

	// Retail price publication routes
	priceRoutes := router.NewDomainGroup("prices", "/prices")
	priceRoutes.GET("", priceHandler.List)
	priceRoutes.GET("/review-queue", middleware.RequireStaff(), priceHandler.ListReviewQueue)
	priceRoutes.GET("/:id", priceHandler.GetByID)
	priceRoutes.POST("", middleware.RequireRoles(identity.RoleRetailer), priceHandler.Publish)
	priceRoutes.POST("/validate", middleware.RequireRoles(identity.RoleRetailer), priceHandler.Validate)
	priceRoutes.PUT("/:id", middleware.RequireRoles(identity.RoleRetailer), priceHandler.Update)
	priceRoutes.PATCH("/:id/stock", middleware.RequireRoles(identity.RoleRetailer), priceHandler.UpdateStock)
	priceRoutes.DELETE("/:id", middleware.RequireRoles(identity.RoleRetailer), priceHandler.Delete)
	priceRoutes.POST("/:id/approve", middleware.RequireStaff(), priceHandler.Approve)
	priceRoutes.POST("/:id/reject", middleware.RequireStaff(), priceHandler.Reject)
	r.Register(priceRoutes)

	// Compliance alert and audit log routes
	alertRoutes := router.NewDomainGroup("alerts", "/alerts")
	alertRoutes.Use(middleware.RequireStaff())
	alertRoutes.GET("", alertHandler.ListAlerts)
	alertRoutes.POST("/:id/acknowledge", alertHandler.Acknowledge)
	r.Register(alertRoutes)

	auditRoutes := router.NewDomainGroup("audits", "/audits")
	auditRoutes.Use(middleware.RequireStaff())
	auditRoutes.GET("", alertHandler.ListAudits)
	r.Register(auditRoutes)

	// Complaint workflow routes
	complaintRoutes := router.NewDomainGroup("complaints", "/complaints")
	complaintRoutes.POST("", complaintHandler.File)
	complaintRoutes.GET("/mine", complaintHandler.ListMine)
	complaintRoutes.GET("", middleware.RequireStaff(), complaintHandler.List)
	complaintRoutes.GET("/stats", middleware.RequireStaff(), complaintHandler.GetStats)
	complaintRoutes.GET("/code/:code", complaintHandler.GetByCode)
	complaintRoutes.GET("/:id", complaintHandler.GetByID)
	complaintRoutes.POST("/:id/assign", middleware.RequireStaff(), complaintHandler.Assign)
	complaintRoutes.POST("/:id/status", middleware.RequireStaff(), complaintHandler.ChangeStatus)
	complaintRoutes.PUT("/:id/priority", middleware.RequireStaff(), complaintHandler.SetPriority)
	complaintRoutes.POST("/:id/evidence", complaintHandler.AddEvidence)
	r.Register(complaintRoutes)

	// Notification routes
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", complaintHandler.ListNotifications)
	notificationRoutes.POST("/:id/read", complaintHandler.MarkNotificationRead)
	r.Register(notificationRoutes)

	// Administrative dashboard routes
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.Use(middleware.RequireAdmin())
	dashboardRoutes.GET("/overview", dashboardHandler.GetOverview)
	r.Register(dashboardRoutes)

	// Public price lookup (no authentication)
	publicRoutes := router.NewDomainGroup("public", "/public")
	publicRoutes.GET("/prices", priceQueryHandler.Query)
	r.Register(publicRoutes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

	// Simple ping at root API level for basic liveness checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

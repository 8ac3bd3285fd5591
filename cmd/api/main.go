package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/jcastellanos/prestamos-api/internal/config"
	"github.com/jcastellanos/prestamos-api/internal/database"
	"github.com/jcastellanos/prestamos-api/internal/handlers"
	"github.com/jcastellanos/prestamos-api/internal/jobs"
	"github.com/jcastellanos/prestamos-api/internal/middleware"
	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/internal/repository"
	"github.com/jcastellanos/prestamos-api/internal/services"
	"github.com/jcastellanos/prestamos-api/pkg/logger"
)

// @title Prestamos API
// @version 1.0
// @description REST API for personal loan tracking: clients, loans, payments and reports

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, repos, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Own profile (any authenticated user)
			protected.GET("/users/me", h.User.Me)
			protected.PUT("/users/me/password", h.User.ChangePassword)

			// Read access (viewer and up)
			protected.GET("/clients", h.Client.Index)
			protected.GET("/clients/:id", h.Client.Show)
			protected.GET("/clients/:id/loans", h.Client.Loans)

			protected.GET("/loans", h.Loan.Index)
			protected.GET("/loans/:id", h.Loan.Show)
			protected.GET("/loans/:id/payments", h.Payment.LoanPayments)
			protected.POST("/loans/simulate", h.Loan.Simulate)

			protected.GET("/payments", h.Payment.Index)
			protected.GET("/payments/:id", h.Payment.Show)

			analytics := protected.Group("/analytics")
			{
				analytics.GET("/overview", h.Analytics.Overview)
				analytics.GET("/status-distribution", h.Analytics.StatusDistribution)
				analytics.GET("/top-clients", h.Analytics.TopClients)
				analytics.GET("/monthly-trends", h.Analytics.MonthlyTrends)
				analytics.GET("/export", h.Analytics.Export)
			}

			reports := protected.Group("/reports")
			{
				reports.GET("/loans", h.Report.LoansCSV)
				reports.GET("/payments", h.Report.PaymentsCSV)
				reports.GET("/overdue", h.Report.OverdueCSV)
				reports.GET("/loans/:id/statement", h.Report.LoanStatementPDF)
				reports.GET("/clients/:id/statement", h.Report.ClientStatementPDF)
			}

			// Write access (operator and up)
			operator := protected.Group("")
			operator.Use(middleware.RequireLevel(models.RoleOperator))
			{
				operator.POST("/clients", h.Client.Create)
				operator.PUT("/clients/:id", h.Client.Update)
				operator.DELETE("/clients/:id", h.Client.Delete)

				operator.POST("/loans", h.Loan.Create)
				operator.PUT("/loans/:id", h.Loan.Update)
				operator.DELETE("/loans/:id", h.Loan.Delete)
				operator.POST("/loans/refresh-statuses", h.Loan.RefreshStatuses)

				operator.POST("/payments", h.Payment.Create)
				operator.DELETE("/payments/:id", h.Payment.Delete)
			}

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.GET("/users/:id", h.User.Show)
				admin.PUT("/users/:id", h.User.Update)
				admin.DELETE("/users/:id", h.User.Delete)
				admin.PATCH("/users/:id/toggle-active", h.User.ToggleActive)
				admin.PUT("/users/:id/password", h.User.ForceChangePassword)

				admin.GET("/audit", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, repos *repository.Repositories, cfg *config.Config) {
	sweepInterval := time.Duration(cfg.StatusSweepMinutes) * time.Minute

	// Recompute loan statuses so loans crossing their due date get flagged
	worker.ScheduleEveryImmediate(sweepInterval, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing loan statuses...")
		updated, err := svcs.Loan.RefreshStatuses(ctx)
		if err != nil {
			return err
		}
		if updated > 0 {
			logger.Info("[Job] Loan statuses refreshed", "updated", updated)
		}
		return nil
	})

	// Daily overdue digest email
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending overdue loans digest...")
		loans, err := repos.Loan.FindOverdueWithClient(ctx)
		if err != nil {
			return err
		}
		return svcs.Email.SendOverdueDigest(ctx, loans)
	})

	logger.Info("Scheduled recurring jobs")
}

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
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/loanbook/loanbook-api/docs" // Swagger docs
	"github.com/loanbook/loanbook-api/internal/config"
	"github.com/loanbook/loanbook-api/internal/database"
	"github.com/loanbook/loanbook-api/internal/handlers"
	"github.com/loanbook/loanbook-api/internal/jobs"
	"github.com/loanbook/loanbook-api/internal/middleware"
	"github.com/loanbook/loanbook-api/internal/repository"
	"github.com/loanbook/loanbook-api/internal/services"
	"github.com/loanbook/loanbook-api/internal/store"
	"github.com/loanbook/loanbook-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Loanbook API
// @version 1.0
// @description REST API for the Loanbook loan management system

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
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

	if err := repository.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// In-memory loan snapshot, the read path for every derivation
	st := store.New()

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(st, repos, worker, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, repos, st, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, st, cfg)

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

	// Create context with timeout for shutdown
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
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", h.Health.Index)

		// Loans. Static routes before :id so "export" never binds as an ID.
		loans := v1.Group("/loans")
		{
			loans.GET("", h.Loan.Index)
			loans.GET("/export", h.Loan.ExportCSV)
			loans.POST("", h.Loan.Create)
			loans.GET("/:id", h.Loan.Show)
			loans.DELETE("/:id", h.Loan.Delete)
			loans.POST("/:id/approve", h.Loan.Approve)
			loans.POST("/:id/reject", h.Loan.Reject)
			loans.POST("/:id/reopen", h.Loan.Reopen)
			loans.POST("/:id/settle", h.Loan.Settle)
			loans.POST("/:id/penalties", h.Loan.AddPenalty)
			loans.POST("/:id/installments/:number/pay", h.Loan.MarkPaid)
			loans.POST("/:id/installments/:number/partial", h.Loan.PartialPayment)
			loans.PATCH("/:id/installments/:number/date", h.Loan.EditPaymentDate)
		}

		// Standalone EMI calculator
		v1.GET("/calculator", h.Loan.Calculator)

		// Borrowers
		v1.GET("/borrowers", h.Borrower.Index)
		v1.GET("/borrowers/export", h.Borrower.ExportCSV)

		// Wallet
		wallet := v1.Group("/wallet")
		{
			wallet.GET("", h.Wallet.Show)
			wallet.GET("/export", h.Wallet.ExportCSV)
			wallet.POST("/transactions", h.Wallet.CreateTransaction)
			wallet.DELETE("/transactions/:id", h.Wallet.DeleteTransaction)
			wallet.GET("/expenses", h.Wallet.Expenses)
			wallet.POST("/expenses", h.Wallet.CreateExpense)
			wallet.DELETE("/expenses/:id", h.Wallet.DeleteExpense)
		}

		// Employees
		v1.GET("/employees", h.Wallet.Employees)
		v1.POST("/employees", h.Wallet.SaveEmployee)
		v1.DELETE("/employees/:id", h.Wallet.DeleteEmployee)

		// Reports
		v1.GET("/dashboard", h.Report.Dashboard)
		v1.GET("/reports/monthly", h.Report.Monthly)
		v1.GET("/reports/incentives", h.Report.Incentives)
		v1.GET("/reports/incentives/export", h.Report.ExportIncentivesCSV)
		v1.GET("/reports/export", h.Report.ExportOverviewXLSX)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, repos *repository.Repositories, st *store.Store, cfg *config.Config) {
	// Refresh the loan snapshot from the database mirror; the immediate
	// first run is the startup load.
	interval := time.Duration(cfg.SnapshotRefreshMinutes) * time.Minute
	worker.ScheduleEveryImmediate(interval, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing loan snapshot...")
		loans, err := repos.Loan.LoadAll(ctx)
		if err != nil {
			return err
		}
		st.ReplaceAll(loans)
		logger.Info("[Job] Loan snapshot refreshed", "loans", len(loans))
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}

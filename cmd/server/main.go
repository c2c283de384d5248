package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"internhub/internal/config"
	"internhub/internal/handlers"
	"internhub/internal/jobs"
	"internhub/internal/metrics"
	authmw "internhub/internal/middleware"
	"internhub/internal/models"
	"internhub/internal/notifications"
	"internhub/internal/repositories"
	"internhub/internal/routers"
	"internhub/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var httpListenServe = func(server *http.Server) error {
	return server.ListenAndServe()
}

const shutdownTimeout = 30 * time.Second

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Fatal("internhub exited with error", zap.Error(err))
	}
	logger.Info("internhub exited")
}

func run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		zap.String("db_driver", cfg.DBDriver),
		zap.String("notify_transport", cfg.NotifyTransport),
		zap.Bool("smtp", cfg.SMTPConfigured()))

	db, err := connectWithRetry(cfg.DBDriver, cfg.DBDSN, dbConnectTimeout, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := &repositories.UserRepository{DB: db}
	if err := bootstrapAdmin(ctx, userRepo, cfg, logger); err != nil {
		return err
	}

	notifier, stopNotifier, err := buildNotifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stopNotifier()

	router, reminders := buildRouter(db, cfg, userRepo, notifier, logger)
	if err := reminders.Start(); err != nil {
		return err
	}
	defer reminders.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("internhub starting", zap.String("addr", server.Addr))
		serveErr <- httpListenServe(server)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("internhub shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// buildRouter assembles services, handlers and routes on top of db.
func buildRouter(db *gorm.DB, cfg *config.Config, userRepo *repositories.UserRepository, notifier notifications.Dispatcher, logger *zap.Logger) (*chi.Mux, *jobs.ReminderJob) {
	applicantRepo := &repositories.ApplicantRepository{DB: db}
	offerRepo := &repositories.OfferRepository{DB: db}
	applicationRepo := &repositories.ApplicationRepository{DB: db}
	interviewRepo := &repositories.InterviewRepository{DB: db}

	applicantService := services.NewApplicantService(applicantRepo, logger, cfg.CVDir, cfg.CVMaxBytes)
	offerService := services.NewOfferService(offerRepo, logger)
	applicationService := services.NewApplicationService(applicationRepo, applicantRepo, offerRepo, notifier, logger)
	interviewService := services.NewInterviewService(interviewRepo, applicationRepo, applicantRepo, notifier, logger)
	dashboardService := services.NewDashboardService(offerRepo, applicationRepo, interviewRepo, applicantRepo)

	applicationHandler := handlers.NewApplicationHandler(applicationService, logger)
	auth := routers.Authenticator(authmw.Authenticate(cfg.JWTSecret, userRepo))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	routers.HealthRoutes(router, handlers.NewHealthHandler(db))
	routers.AuthRoutes(router, handlers.NewAuthHandler(userRepo, applicantService, cfg.JWTSecret, cfg.TokenTTL, logger), auth)
	routers.OfferRoutes(router, handlers.NewOfferHandler(offerService, logger), applicationHandler, auth)
	routers.ProfileRoutes(router, handlers.NewProfileHandler(applicantService, userRepo, logger), auth)
	routers.ApplicationRoutes(router, applicationHandler, auth)
	routers.InterviewRoutes(router, handlers.NewInterviewHandler(interviewService, logger), auth)
	routers.DashboardRoutes(router, handlers.NewDashboardHandler(dashboardService, logger), auth)

	reminders := jobs.NewReminderJob(interviewService, notifier, logger, &jobs.ReminderConfig{
		Schedule: cfg.ReminderSchedule,
		Enabled:  cfg.ReminderEnabled,
	})
	return router, reminders
}


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-activities-api/api/swagger"
	"github.com/noah-isme/campus-activities-api/internal/handler"
	"github.com/noah-isme/campus-activities-api/internal/repository"
	"github.com/noah-isme/campus-activities-api/internal/router"
	"github.com/noah-isme/campus-activities-api/internal/service"
	"github.com/noah-isme/campus-activities-api/pkg/config"
	"github.com/noah-isme/campus-activities-api/pkg/database"
	"github.com/noah-isme/campus-activities-api/pkg/logger"
	"github.com/noah-isme/campus-activities-api/pkg/security"
)

// @title Campus Activities API
// @version 1.0.0
// @description Student activities, applications and staff requests
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	requestRepo := repository.NewEmployeeRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifications := service.NewNotificationService(notificationRepo, logr)
	authSvc := service.NewAuthService(
		userRepo,
		security.NewBcryptHasher(cfg.Security.BcryptCost),
		security.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration),
		validate,
		logr,
	)
	activitySvc := service.NewActivityService(activityRepo, notifications, metrics, validate, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, notifications, metrics, validate, logr,
		service.ApplicationConfig{StrictStatus: cfg.Applications.StrictStatus})
	requestSvc := service.NewEmployeeRequestService(requestRepo, userRepo, notifications, metrics, validate, logr)

	if cfg.Seed.DefaultActivities {
		if _, err := activitySvc.SeedDefaults(ctx, time.Now()); err != nil {
			logr.Warn("failed to seed default activities", zap.Error(err))
		}
	}

	engine := router.New(router.Dependencies{
		Config:        cfg,
		Logger:        logr,
		Metrics:       metrics,
		Authenticator: authSvc,
		Auth:          handler.NewAuthHandler(authSvc),
		Activities:    handler.NewActivityHandler(activitySvc),
		Applications:  handler.NewApplicationHandler(applicationSvc),
		Requests:      handler.NewEmployeeRequestHandler(requestSvc),
		Health:        handler.NewMetricsHandler(metrics, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

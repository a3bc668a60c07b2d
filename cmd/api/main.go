package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-service/internal/auth"
	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/handler"
	"github.com/Dan9191/credit-service/internal/maintenance"
	"github.com/Dan9191/credit-service/internal/notify"
	"github.com/Dan9191/credit-service/internal/repository"
	"github.com/Dan9191/credit-service/internal/service"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := repository.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	repo, err := repository.NewRepository(db, cfg.DBDriver)
	if err != nil {
		logger.Fatalf("Failed to initialize repository: %v", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to create schema: %v", err)
	}

	// Initialize layers
	var notifier service.Notifier
	var sender *notify.Sender
	if cfg.NotificationsEnabled() {
		sender = notify.NewSender(cfg, logger)
		notifier = sender
		logger.Infof("Notifications enabled for %s", cfg.NotifyEmail)
	}
	svc := service.NewService(repo, logger, notifier)
	h := handler.NewHandler(svc, logger)
	router := handler.NewRouter(h, auth.FromConfig(cfg))

	scheduler, err := maintenance.NewScheduler(cfg.MaintenanceSchedule, repo, logger)
	if err != nil {
		logger.Fatalf("Failed to configure maintenance: %v", err)
	}
	scheduler.Start()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	scheduler.Stop(shutdownCtx)
	if sender != nil {
		sender.Wait()
	}
}

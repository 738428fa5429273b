package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"educdash/internal/api"
	"educdash/internal/config"
	"educdash/internal/dashboard"
	"educdash/internal/engine"
	applog "educdash/internal/log"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	// Workbooks are read per request; a missing one only breaks its own panel.
	files := dashboard.Files{
		Meals:        cfg.Path(cfg.MealsFile),
		Vouchers:     cfg.Path(cfg.VouchersFile),
		Scholarships: cfg.Path(cfg.ScholarshipsFile),
		Books:        cfg.Path(cfg.BooksFile),
	}
	for _, path := range []string{files.Meals, files.Vouchers, files.Scholarships, files.Books} {
		if _, err := os.Stat(path); err != nil {
			logger.Warn("Source workbook not available", applog.FieldFile, path, applog.FieldError, err.Error())
		}
	}

	registry := dashboard.NewRegistry(files, engine.NewLoader(logger))
	svc := dashboard.NewService(registry, logger)
	h := api.NewHandler(svc, api.NewSessions(cfg.SessionTTL), logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(applog.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: !(len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*"),
	}))
	h.RegisterRoutes(e)

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			"data_dir", cfg.DataDir,
		)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyra-app/cyra/internal/ai"
	"github.com/cyra-app/cyra/internal/api"
	"github.com/cyra-app/cyra/internal/config"
	"github.com/cyra-app/cyra/internal/db"
	"github.com/cyra-app/cyra/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	location := mustLoadLocation(cfg.Timezone, logger)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatalw("database init failed", "error", err)
	}

	generator := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)

	handler, err := api.NewHandler(database, cfg.SecretKey, location, cfg.CookieSecure, generator, cfg.GeminiTimeout, logger)
	if err != nil {
		logger.Fatalw("handler init failed", "error", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Cyra",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Errorw("server shutdown failed", "error", err)
		}
	}()

	logger.Infow("cyra listening", "port", cfg.Port, "db", cfg.DBPath, "tz", location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}

func mustLoadLocation(name string, logger *zap.SugaredLogger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnw("invalid TZ, falling back to UTC", "tz", name)
		return time.UTC
	}
	return location
}

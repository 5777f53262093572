// Package api exposes the tracker over a JSON HTTP surface. Handlers
// parse and validate input, call the services, and map domain errors to
// statuses; no cycle logic lives here.
package api

import (
	"errors"
	"time"

	"github.com/cyra-app/cyra/internal/db"
	"github.com/cyra-app/cyra/internal/services"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewHandler(
	database *gorm.DB,
	secret string,
	location *time.Location,
	cookieSecure bool,
	generator services.TextGenerator,
	insightTimeout time.Duration,
	logger *zap.SugaredLogger,
) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if secret == "" {
		return nil, errors.New("secret key is required")
	}
	if generator == nil {
		return nil, errors.New("text generator is required")
	}
	if location == nil {
		location = time.Local
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secret),
		location:     location,
		cookieSecure: cookieSecure,
		validate:     validator.New(),
		logger:       logger,
	}
	return handler.withDependencies(generator, insightTimeout), nil
}

func (handler *Handler) withDependencies(generator services.TextGenerator, insightTimeout time.Duration) *Handler {
	handler.repositories = db.NewRepositories(handler.db)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	insight := services.NewInsightService(generator, insightTimeout, handler.logger)
	handler.tracker = services.NewTrackerService(
		handler.repositories.Cycles,
		handler.repositories.DailyLogs,
		handler.repositories.AppStates,
		insight,
		handler.logger,
	)
	handler.reports = services.NewReportService(handler.repositories.Cycles)
	return handler
}

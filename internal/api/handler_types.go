package api

import (
	"time"

	"github.com/cyra-app/cyra/internal/db"
	"github.com/cyra-app/cyra/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	authCookieName      = "cyra_auth"
	contextUserKey      = "current_user"
	defaultAuthTokenTTL = 7 * 24 * time.Hour
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	validate     *validator.Validate
	logger       *zap.SugaredLogger

	repositories *db.Repositories
	authService  *services.AuthService
	tracker      *services.TrackerService
	reports      *services.ReportService
}

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

type credentialsInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type startCycleInput struct {
	StartDate string `json:"start_date"`
}

type dayInput struct {
	Mood        string   `json:"mood"`
	Symptoms    []string `json:"symptoms"`
	FlowLevel   string   `json:"flow_level" validate:"omitempty,oneof=light medium heavy spotting"`
	WaterIntake int      `json:"water_intake" validate:"gte=0"`
	SelfCare    []string `json:"self_care"`
	Note        string   `json:"note"`
}

type selfCareInput struct {
	Activities []string `json:"activities" validate:"required,min=1"`
	Note       string   `json:"note"`
}

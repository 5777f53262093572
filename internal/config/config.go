package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBPath        string
	SecretKey     string
	CookieSecure  bool
	Timezone      string
	LogLevel      string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", filepath.Join("data", "cyra.db")),
		SecretKey:     getEnv("SECRET_KEY", "change_me_in_production"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		Timezone:      getEnv("TZ", "UTC"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiTimeout: getEnvDuration("GEMINI_TIMEOUT", 15*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if cfg.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if cfg.SecretKey == "" {
		return errors.New("SECRET_KEY must not be empty")
	}
	return nil
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

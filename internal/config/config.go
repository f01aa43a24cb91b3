package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	// DBURL selects postgres persistence; when empty the service runs on the
	// in-memory repositories, which is the dev and test default.
	DBURL string
	// DBDisablePreparedBinaryResult appends the pq option some poolers need
	// when they cannot handle binary result sets on prepared statements.
	DBDisablePreparedBinaryResult bool
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	// InternalJobToken guards the internal processing and reconcile endpoints.
	InternalJobToken string
	// StreakMaxGapDays is the largest calendar-day gap that still continues an
	// attendance streak.
	StreakMaxGapDays   int
	ProcessingWorkers  int
	ReconcileWorkers   int
	ReconcileBatchSize int
	// CacheTTL bounds staleness of the read-through caches in front of the
	// settings and season repositories.
	CacheTTL     time.Duration
	PprofEnabled bool
	PprofAddr    string
	LogLevel     logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	streakMaxGapDays, err := getEnvAsInt("STREAK_MAX_GAP_DAYS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAK_MAX_GAP_DAYS: %w", err)
	}
	if streakMaxGapDays < 1 {
		return Config{}, fmt.Errorf("STREAK_MAX_GAP_DAYS must be >= 1")
	}

	processingWorkers, err := getEnvAsInt("PROCESSING_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROCESSING_WORKERS: %w", err)
	}
	if processingWorkers < 1 {
		return Config{}, fmt.Errorf("PROCESSING_WORKERS must be >= 1")
	}

	reconcileWorkers, err := getEnvAsInt("RECONCILE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECONCILE_WORKERS: %w", err)
	}
	if reconcileWorkers < 1 {
		return Config{}, fmt.Errorf("RECONCILE_WORKERS must be >= 1")
	}

	reconcileBatchSize, err := getEnvAsInt("RECONCILE_BATCH_SIZE", 200)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECONCILE_BATCH_SIZE: %w", err)
	}
	if reconcileBatchSize < 1 {
		return Config{}, fmt.Errorf("RECONCILE_BATCH_SIZE must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be >= 0")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "futeba-gamification-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                         strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinaryResult: getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		StreakMaxGapDays:   streakMaxGapDays,
		ProcessingWorkers:  processingWorkers,
		ReconcileWorkers:   reconcileWorkers,
		ReconcileBatchSize: reconcileBatchSize,
		CacheTTL:           cacheTTL,
		PprofEnabled:       getEnvAsBool("PPROF_ENABLED"),
		PprofAddr:          getEnv("PPROF_ADDR", ":6060"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.AppEnv == EnvProd && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=prod")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key string) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

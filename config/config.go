package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	LogLevel  string
	LogFormat string

	// Defaults applied to tournaments created without explicit settings.
	Defaults models.Settings

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTimeout   time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2Enabled reports whether bracket publishing to Cloudflare R2 is configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// DatabaseURL reads only DATABASE_URL, for tools that do not serve HTTP.
func DatabaseURL() (string, error) {
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return dsn, nil
}

// FromEnv builds the configuration from a lookup function, so tests can
// pass a map instead of touching the process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intVar(getenv, "SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	defaults := models.DefaultSettings()
	if defaults.PointsPerWin, err = intVar(getenv, "POINTS_PER_WIN", defaults.PointsPerWin); err != nil {
		return nil, err
	}
	if defaults.AdvancePerGroup, err = intVar(getenv, "ADVANCE_PER_GROUP", defaults.AdvancePerGroup); err != nil {
		return nil, err
	}
	if defaults.GroupCapacity, err = intVar(getenv, "GROUP_CAPACITY", defaults.GroupCapacity); err != nil {
		return nil, err
	}
	if mode := getenv("SCORING_MODE"); mode != "" {
		defaults.ScoringMode = models.ScoringMode(strings.ToLower(mode))
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tournament defaults: %w", err)
	}

	redisDB, err := intVar(getenv, "REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	lockTimeout := 5 * time.Second
	if raw := getenv("LOCK_TIMEOUT"); raw != "" {
		lockTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LOCK_TIMEOUT environment variable: %w", err)
		}
		if lockTimeout <= 0 {
			return nil, fmt.Errorf("LOCK_TIMEOUT must be positive, got %s", lockTimeout)
		}
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,

		LogLevel:  strings.ToLower(orDefault(getenv("LOG_LEVEL"), "info")),
		LogFormat: strings.ToLower(orDefault(getenv("LOG_FORMAT"), "text")),

		Defaults: defaults,

		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		LockTimeout:   lockTimeout,

		R2AccountID:       getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intVar(getenv func(string) string, name string, fallback int) (int, error) {
	raw := getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

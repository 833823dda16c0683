package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr           = ":8080"
	defaultBackendTimeout     = "0s"
	defaultSessionSecret      = "change-me-session-secret"
	defaultSessionTTL         = "2h"
	defaultDraftStore         = "memory"
	defaultDatabaseURL        = "onboarding.db"
	defaultDraftSealKey       = "6368616e67652d6d652d64726166742d7365616c2d6b65792d33322d62797465"
	defaultPersistDebounce    = "500ms"
	defaultRedirectDelay      = "2s"
	defaultLoginURL           = "/login"
	defaultKafkaFollowUpTopic = "onboarding.followup-failures"
)

// Draft store drivers.
const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
	StoreRedis  = "redis"
)

type Config struct {
	AppEnv             string
	HTTPAddr           string
	BackendBaseURL     string
	BackendTimeout     time.Duration
	SessionSecret      string
	SessionTTL         time.Duration
	DraftStore         string
	DatabaseURL        string
	RedisURL           string
	DraftSealKey       [32]byte
	PersistDebounce    time.Duration
	RedirectDelay      time.Duration
	LoginURL           string
	AdminToken         string
	BackendAdminToken  string
	KafkaBrokers       []string
	KafkaFollowUpTopic string
	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.BackendBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_BASE_URL")), "/")
	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", defaultSessionSecret))
	cfg.DraftStore = strings.ToLower(strings.TrimSpace(getEnv("DRAFT_STORE", defaultDraftStore)))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.LoginURL = strings.TrimSpace(getEnv("LOGIN_URL", defaultLoginURL))
	cfg.AdminToken = strings.TrimSpace(os.Getenv("ADMIN_TOKEN"))
	cfg.BackendAdminToken = strings.TrimSpace(os.Getenv("BACKEND_ADMIN_TOKEN"))
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.KafkaFollowUpTopic = strings.TrimSpace(getEnv("KAFKA_FOLLOWUP_TOPIC", defaultKafkaFollowUpTopic))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.BackendTimeout, err = parseDurationEnv("BACKEND_TIMEOUT", defaultBackendTimeout)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.PersistDebounce, err = parseDurationEnv("PERSIST_DEBOUNCE", defaultPersistDebounce)
	if err != nil {
		return nil, err
	}
	cfg.RedirectDelay, err = parseDurationEnv("REDIRECT_DELAY", defaultRedirectDelay)
	if err != nil {
		return nil, err
	}

	sealKey := strings.TrimSpace(getEnv("DRAFT_SEAL_KEY", defaultDraftSealKey))
	cfg.DraftSealKey, err = parseSealKey(sealKey)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg, sealKey); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProd reports whether strict production checks apply.
func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config, rawSealKey string) error {
	if cfg.BackendBaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be set")
	}
	if !strings.HasPrefix(cfg.BackendBaseURL, "http://") && !strings.HasPrefix(cfg.BackendBaseURL, "https://") {
		return fmt.Errorf("BACKEND_BASE_URL must be an http(s) URL")
	}
	if cfg.BackendTimeout < 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be >= 0")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.PersistDebounce < 0 {
		return fmt.Errorf("PERSIST_DEBOUNCE must be >= 0")
	}
	if cfg.RedirectDelay < 0 {
		return fmt.Errorf("REDIRECT_DELAY must be >= 0")
	}
	if cfg.LoginURL == "" {
		return fmt.Errorf("LOGIN_URL must not be empty")
	}

	switch cfg.DraftStore {
	case StoreMemory:
	case StoreSQL:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when DRAFT_STORE=sql")
		}
	case StoreRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set when DRAFT_STORE=redis")
		}
	default:
		return fmt.Errorf("DRAFT_STORE must be one of: memory, sql, redis")
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaFollowUpTopic == "" {
		return fmt.Errorf("KAFKA_FOLLOWUP_TOPIC must not be empty when KAFKA_BROKERS is set")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.SessionSecret, defaultSessionSecret) {
			return fmt.Errorf("in prod/release SESSION_SECRET must be set and not default")
		}
		if isEmptyOrDefault(rawSealKey, defaultDraftSealKey) {
			return fmt.Errorf("in prod/release DRAFT_SEAL_KEY must be set and not default")
		}
		if !strings.HasPrefix(cfg.BackendBaseURL, "https://") {
			return fmt.Errorf("in prod/release BACKEND_BASE_URL must use https")
		}
	}

	return nil
}

func parseSealKey(value string) ([32]byte, error) {
	var key [32]byte
	raw, err := hex.DecodeString(value)
	if err != nil {
		return key, fmt.Errorf("invalid DRAFT_SEAL_KEY: %w", err)
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("DRAFT_SEAL_KEY must be %d bytes hex-encoded, got %d", len(key), len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

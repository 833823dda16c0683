package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "ENV", "HTTP_ADDR", "BACKEND_BASE_URL", "BACKEND_TIMEOUT", "SESSION_SECRET",
		"SESSION_TTL", "DRAFT_STORE", "DATABASE_URL", "REDIS_URL", "DRAFT_SEAL_KEY",
		"PERSIST_DEBOUNCE", "REDIRECT_DELAY", "LOGIN_URL", "ADMIN_TOKEN", "BACKEND_ADMIN_TOKEN",
		"KAFKA_BROKERS", "KAFKA_FOLLOWUP_TOPIC", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"BACKEND_BASE_URL": "http://localhost:4000/api/"})

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:4000/api", cfg.BackendBaseURL)
	assert.Zero(t, cfg.BackendTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, StoreMemory, cfg.DraftStore)
	assert.Equal(t, 500*time.Millisecond, cfg.PersistDebounce)
	assert.Equal(t, 2*time.Second, cfg.RedirectDelay)
	assert.Equal(t, "/login", cfg.LoginURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.IsProd())
}

func TestFromEnv_Lists(t *testing.T) {
	setEnv(t, map[string]string{
		"BACKEND_BASE_URL":     "http://localhost:4000",
		"KAFKA_BROKERS":        "k1:9092, k2:9092,,",
		"CORS_ALLOWED_ORIGINS": "https://app.example",
		"BACKEND_ADMIN_TOKEN":  " svc-token ",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://app.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "svc-token", cfg.BackendAdminToken)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "no backend", env: map[string]string{}, want: "BACKEND_BASE_URL must be set"},
		{name: "backend scheme", env: map[string]string{"BACKEND_BASE_URL": "ftp://x"}, want: "http(s)"},
		{name: "bad ttl", env: map[string]string{"BACKEND_BASE_URL": "http://x", "SESSION_TTL": "soon"}, want: "SESSION_TTL"},
		{name: "zero ttl", env: map[string]string{"BACKEND_BASE_URL": "http://x", "SESSION_TTL": "0s"}, want: "SESSION_TTL must be > 0"},
		{name: "store", env: map[string]string{"BACKEND_BASE_URL": "http://x", "DRAFT_STORE": "mongo"}, want: "DRAFT_STORE"},
		{name: "redis url", env: map[string]string{"BACKEND_BASE_URL": "http://x", "DRAFT_STORE": "redis"}, want: "REDIS_URL"},
		{name: "seal key", env: map[string]string{"BACKEND_BASE_URL": "http://x", "DRAFT_SEAL_KEY": "abcd"}, want: "DRAFT_SEAL_KEY must be 32 bytes"},
		{name: "prod secret", env: map[string]string{"BACKEND_BASE_URL": "https://x", "APP_ENV": "prod"}, want: "SESSION_SECRET"},
		{name: "prod seal", env: map[string]string{
			"BACKEND_BASE_URL": "https://x", "APP_ENV": "production", "SESSION_SECRET": "s3cret",
		}, want: "DRAFT_SEAL_KEY"},
		{name: "prod https", env: map[string]string{
			"BACKEND_BASE_URL": "http://x", "APP_ENV": "release", "SESSION_SECRET": "s3cret",
			"DRAFT_SEAL_KEY": "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff",
		}, want: "https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFromEnv_Prod(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":          "PROD",
		"BACKEND_BASE_URL": "https://api.techconnect.example",
		"SESSION_SECRET":   "s3cret",
		"DRAFT_SEAL_KEY":   "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff",
		"DRAFT_STORE":      "SQL",
		"DATABASE_URL":     "postgres://u:p@db/onboarding",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, StoreSQL, cfg.DraftStore)
	assert.Equal(t, byte(0x00), cfg.DraftSealKey[0])
	assert.Equal(t, byte(0xff), cfg.DraftSealKey[31])
}

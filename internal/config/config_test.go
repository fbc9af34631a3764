package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "leadvoice")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "leadvoice")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_AUDIENCE", "")
	t.Setenv("JWT_ACCESS_TTL", "")
	t.Setenv("JWT_REFRESH_TTL", "")
	t.Setenv("VOICE_BASE_URL", "")
	t.Setenv("VOICE_API_KEY", "")
	t.Setenv("VOICE_PHONE_NUMBER_ID", "")
	t.Setenv("VOICE_ASSISTANT_ID", "")
	t.Setenv("VOICE_WEBHOOK_SECRET", "")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.DB.SSLMode != "disable" {
		t.Fatalf("non-prod sslmode must default to disable, got %q", cfg.DB.SSLMode)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("access TTL default wrong: %s", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != 30*24*time.Hour {
		t.Fatalf("refresh TTL default wrong: %s", cfg.Auth.RefreshTokenTTL)
	}
	if cfg.Voice.BaseURL != defaultVoiceBaseURL {
		t.Fatalf("voice base URL default wrong: %q", cfg.Voice.BaseURL)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("http addr wrong: %q", cfg.HTTPAddr())
	}
	if cfg.RedisAddr() != "localhost:6379" {
		t.Fatalf("redis addr wrong: %q", cfg.RedisAddr())
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoad_BadPort(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_PORT", "not-a-port")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "APP_PORT") {
		t.Fatalf("expected APP_PORT error, got %v", err)
	}
}

func TestLoad_ProductionRequirements(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("production without sslmode/issuer/audience/api key must fail")
	}
	for _, want := range []string{"DB_SSLMODE", "JWT_ISSUER", "JWT_AUDIENCE", "VOICE_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in error, got %v", want, err)
		}
	}

	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("JWT_ISSUER", "leadvoice")
	t.Setenv("JWT_AUDIENCE", "leadvoice-api")
	t.Setenv("VOICE_API_KEY", "key")
	if _, err := Load(); err != nil {
		t.Fatalf("fully configured production load failed: %v", err)
	}
}

func TestLoad_RefreshMustOutliveAccess(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("JWT_REFRESH_TTL", "30m")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_REFRESH_TTL") {
		t.Fatalf("expected TTL ordering error, got %v", err)
	}
}

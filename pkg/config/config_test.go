package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
	assert.NotEmpty(t, cfg.Postgres.DSN)
	assert.NotEmpty(t, cfg.Scheduler.DepreciationCron)
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("MIGRATE_ON_START", "false")

	cfg := New()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.DashboardTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Postgres.MigrateOnStart)
}

func TestNew_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("REFRESH_TOKEN_TTL", "forever")

	cfg := New()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTokenTTL)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "ADMIN_PASSWORD",
		"SESSION_SECRET", "SESSION_TTL", "ADMIN_LOGIN_RATE", "REDIS_ADDR", "CORS_ORIGINS",
		"RESEND_API_KEY", "SMTP_USER", "SMTP_PASS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "portfolio.db", cfg.Database.Path)
	assert.Equal(t, DefaultAdminPassword, cfg.Auth.AdminPassword)
	assert.True(t, cfg.Auth.DefaultPassword)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Zero(t, cfg.Auth.LoginRate)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Mail.MailEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("ADMIN_LOGIN_RATE", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RESEND_API_KEY", "re_123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.AdminPassword)
	assert.False(t, cfg.Auth.DefaultPassword)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 5, cfg.Auth.LoginRate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Mail.MailEnabled())
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("ADMIN_LOGIN_RATE", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Zero(t, cfg.Auth.LoginRate)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DB_DRIVER", "mysql")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

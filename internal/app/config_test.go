package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "findscooter", cfg.Auth.JWT.Issuer)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 24*time.Hour, cfg.Auth.Verification.CodeTTL)
	require.Equal(t, "@hourly", cfg.Auth.Verification.CleanupSpec)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg := &Config{}
	require.EqualError(t, cfg.Validate(), "auth.jwt.secret must be configured")

	cfg.Auth.JWT.Secret = "   "
	require.Error(t, cfg.Validate())

	cfg.Auth.JWT.Secret = "a-real-secret"
	require.NoError(t, cfg.Validate())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FINDSCOOTER_SERVER_PORT", "9001")
	t.Setenv("FINDSCOOTER_AUTH_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9001, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
}

func TestDatabaseSettingsSelectsDriverSection(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Driver = "postgres"
	cfg.Database.Postgres = DBAuthConfig{
		Host:     "db.local",
		Port:     5432,
		Database: "findscooter",
		Username: "svc",
		Password: "pw",
	}

	settings := cfg.DatabaseSettings()
	require.Equal(t, "postgres", settings.Driver)
	require.Equal(t, "db.local", settings.Host)
	require.Equal(t, 5432, settings.Port)
	require.Equal(t, "findscooter", settings.Name)

	cfg = &Config{}
	settings = cfg.DatabaseSettings()
	require.Equal(t, "sqlite", settings.Driver)
}

func TestJWTServiceConfigTrimsSecret(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.JWT.Secret = "  spaced-secret  "
	cfg.Auth.JWT.Issuer = "findscooter"
	cfg.Auth.JWT.TTL = time.Hour

	jwtCfg := cfg.JWTServiceConfig()
	require.Equal(t, "spaced-secret", jwtCfg.Secret)
	require.Equal(t, "findscooter", jwtCfg.Issuer)
	require.Equal(t, time.Hour, jwtCfg.AccessTokenTTL)
}

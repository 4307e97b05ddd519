package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/benhaham/findscooter/internal/auth"
	"github.com/benhaham/findscooter/internal/database"
	"github.com/benhaham/findscooter/pkg/mail"
)

// Config represents the runtime configuration for the FindScooter backend.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Email      EmailConfig      `mapstructure:"email"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// AuthConfig captures all authentication-related settings.
type AuthConfig struct {
	JWT          JWTSettings          `mapstructure:"jwt"`
	Verification VerificationSettings `mapstructure:"verification"`
}

// JWTSettings configures JWT access tokens. The secret must be supplied via
// configuration or environment; it is never generated or logged.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// VerificationSettings controls email verification codes.
type VerificationSettings struct {
	CodeTTL     time.Duration `mapstructure:"code_ttl"`
	CleanupSpec string        `mapstructure:"cleanup_spec"`
}

// EmailConfig captures outbound email settings.
type EmailConfig struct {
	SMTP SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig defines SMTP dialer settings for sending email.
type SMTPConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MonitoringConfig enables metrics endpoints.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("FINDSCOOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

// Validate checks that required secrets are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWT.Secret) == "" {
		return errors.New("auth.jwt.secret must be configured")
	}
	return nil
}

// JWTServiceConfig converts the auth settings for the JWT service constructor.
func (c *Config) JWTServiceConfig() auth.JWTConfig {
	return auth.JWTConfig{
		Secret:         strings.TrimSpace(c.Auth.JWT.Secret),
		Issuer:         c.Auth.JWT.Issuer,
		AccessTokenTTL: c.Auth.JWT.TTL,
	}
}

// SMTPSettings converts the email settings for the mailer constructor.
func (c *Config) SMTPSettings() mail.SMTPSettings {
	return mail.SMTPSettings{
		Enabled:  c.Email.SMTP.Enabled,
		Host:     c.Email.SMTP.Host,
		Port:     c.Email.SMTP.Port,
		Username: c.Email.SMTP.Username,
		Password: c.Email.SMTP.Password,
		From:     c.Email.SMTP.From,
		UseTLS:   c.Email.SMTP.UseTLS,
		Timeout:  c.Email.SMTP.Timeout,
	}
}

// DatabaseSettings converts the database section for database.Open.
func (c *Config) DatabaseSettings() database.Config {
	dbCfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(c.Database.Driver)),
		Path:   strings.TrimSpace(c.Database.Path),
		DSN:    strings.TrimSpace(c.Database.DSN),
	}

	switch dbCfg.Driver {
	case "", "sqlite":
		dbCfg.Driver = "sqlite"
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		dbCfg.Host = strings.TrimSpace(c.Database.Postgres.Host)
		dbCfg.Port = c.Database.Postgres.Port
		dbCfg.Name = strings.TrimSpace(c.Database.Postgres.Database)
		dbCfg.User = strings.TrimSpace(c.Database.Postgres.Username)
		dbCfg.Password = strings.TrimSpace(c.Database.Postgres.Password)
	case "mysql":
		dbCfg.Host = strings.TrimSpace(c.Database.MySQL.Host)
		dbCfg.Port = c.Database.MySQL.Port
		dbCfg.Name = strings.TrimSpace(c.Database.MySQL.Database)
		dbCfg.User = strings.TrimSpace(c.Database.MySQL.Username)
		dbCfg.Password = strings.TrimSpace(c.Database.MySQL.Password)
	default:
		// Leave driver as-is to surface unsupported driver error during open.
	}

	return dbCfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/findscooter.sqlite")

	v.SetDefault("auth.jwt.issuer", "findscooter")
	v.SetDefault("auth.jwt.access_token_ttl", "24h")
	v.SetDefault("auth.verification.code_ttl", "24h")
	v.SetDefault("auth.verification.cleanup_spec", "@hourly")

	v.SetDefault("email.smtp.enabled", false)
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.use_tls", true)
	v.SetDefault("email.smtp.timeout", "10s")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zachkp/portfolio/internal/logger"
)

// DefaultAdminPassword is used when ADMIN_PASSWORD is unset. It is a known
// weak default and the server warns about it at startup.
const DefaultAdminPassword = "admin123"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Mail     MailConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	Mode        string
	TemplateDir string
	CORSOrigins []string
	SeedFile    string
}

type DatabaseConfig struct {
	Driver string
	Path   string
	URL    string
}

type AuthConfig struct {
	AdminPassword   string
	DefaultPassword bool
	SessionSecret   string
	SessionTTL      time.Duration
	// LoginRate is the number of login attempts allowed per minute; 0 disables throttling.
	LoginRate int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MailConfig struct {
	ResendAPIKey string
	From         string
	To           string
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	password := getEnv("ADMIN_PASSWORD", "")
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Mode:        getEnv("GIN_MODE", "debug"),
			TemplateDir: getEnv("TEMPLATE_DIR", "templates"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS"),
			SeedFile:    getEnv("SEED_FILE", ""),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			Path:   getEnv("DB_PATH", "portfolio.db"),
			URL:    getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			AdminPassword:   password,
			DefaultPassword: password == "",
			SessionSecret:   getEnv("SESSION_SECRET", ""),
			SessionTTL:      getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			LoginRate:       getEnvAsInt("ADMIN_LOGIN_RATE", 0),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("CONTACT_FORM_FROM_EMAIL", "Portfolio <onboarding@resend.dev>"),
			To:           getEnv("CONTACT_FORM_TO_EMAIL", "zachkordaspotter@gmail.com"),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPass:     getEnv("SMTP_PASS", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}
	if cfg.Auth.DefaultPassword {
		cfg.Auth.AdminPassword = DefaultAdminPassword
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Auth.LoginRate < 0 {
		return fmt.Errorf("ADMIN_LOGIN_RATE must not be negative")
	}

	return nil
}

// MailEnabled reports whether any outbound mail transport is configured.
func (m MailConfig) MailEnabled() bool {
	return m.ResendAPIKey != "" || (m.SMTPUser != "" && m.SMTPPass != "")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logger.Warn("invalid integer, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logger.Warn("invalid duration, using default", "key", key, "default", defaultValue.String())
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	AI            AIConfig            `mapstructure:"ai"`
	Compliance    ComplianceConfig    `mapstructure:"compliance"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret" validate:"required,min=32"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret" validate:"required,min=32"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m,max=1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
}

// AIConfig wires the two request-processing backends. The local backend is an
// OpenAI-compatible endpoint (Ollama's /v1 API in development); the external
// backend is a hosted provider selected by name.
type AIConfig struct {
	Local    LocalAIConfig    `mapstructure:"local"`
	External ExternalAIConfig `mapstructure:"external"`
	Timeout  time.Duration    `mapstructure:"timeout"`
}

type LocalAIConfig struct {
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`
	Model    string `mapstructure:"model" validate:"required"`
}

type ExternalAIConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=openai anthropic"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

type ComplianceConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
	// FilterLocalRequests extends sensitive-data filtering to the local AI
	// path. Off by default: local traffic never leaves the trusted boundary.
	FilterLocalRequests bool `mapstructure:"filter_local_requests"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

const DefaultRetentionDays = 90

func (c *ComplianceConfig) RetentionWindow() time.Duration {
	days := c.RetentionDays
	if days <= 0 {
		days = DefaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds a Config from environment variables for Docker
// deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_SERVER_PORT", 8080),
			BaseURL:           getEnv("HTTP_SERVER_BASE_URL", ""),
			AllowedOrigins:    getEnv("HTTP_SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_SERVER_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_SERVER_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_SERVER_WRITE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_SOURCE", ""),
		},
		Security: SecurityConfig{
			AccessTokenSecret:    getEnv("SECURITY_ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret:   getEnv("SECURITY_REFRESH_TOKEN_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("SECURITY_ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("SECURITY_REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("SECURITY_BCRYPT_COST", 10),
		},
		AI: AIConfig{
			Local: LocalAIConfig{
				Endpoint: getEnv("AI_LOCAL_ENDPOINT", "http://localhost:11434/v1"),
				Model:    getEnv("AI_LOCAL_MODEL", "mistral"),
			},
			External: ExternalAIConfig{
				Provider: getEnv("AI_EXTERNAL_PROVIDER", "openai"),
				APIKey:   getEnv("AI_EXTERNAL_API_KEY", ""),
				Model:    getEnv("AI_EXTERNAL_MODEL", ""),
				Endpoint: getEnv("AI_EXTERNAL_ENDPOINT", ""),
			},
			Timeout: getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
		},
		Compliance: ComplianceConfig{
			RetentionDays:       getEnvAsInt("COMPLIANCE_RETENTION_DAYS", DefaultRetentionDays),
			FilterLocalRequests: getEnvAsBool("COMPLIANCE_FILTER_LOCAL_REQUESTS", false),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("OBSERVABILITY_LOGGING_LEVEL", "info"),
				Format: getEnv("OBSERVABILITY_LOGGING_FORMAT", "json"),
			},
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.AI.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("ai config: %v", err))
	}

	if err := c.Compliance.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("compliance config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return errors.New("access token secret must be at least 32 characters")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return errors.New("refresh token secret must be at least 32 characters")
	}
	return nil
}

func (c *AIConfig) Validate() error {
	if c.Local.Endpoint == "" {
		return errors.New("local endpoint is required")
	}
	if _, err := url.Parse(c.Local.Endpoint); err != nil {
		return fmt.Errorf("invalid local endpoint: %w", err)
	}
	if c.Local.Model == "" {
		return errors.New("local model is required")
	}
	switch c.External.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown external provider %q", c.External.Provider)
	}
	return nil
}

func (c *ComplianceConfig) Validate() error {
	if c.RetentionDays < 0 {
		return errors.New("retention_days cannot be negative")
	}
	return nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	OTel    OTelConfig    `mapstructure:"otel"`
	Backend BackendConfig `mapstructure:"backend"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Session SessionConfig `mapstructure:"session"`
	Media   MediaConfig   `mapstructure:"media"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	CollectorAddr string  `mapstructure:"collector_addr"`
	SampleRatio   float64 `mapstructure:"sample_ratio"`
}

// BackendConfig points at the remote activities REST backend
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// ReadRetries is off by default so every operation stays a single request
	ReadRetries int `mapstructure:"read_retries"`
}

// AuthConfig holds bearer-token handling settings
type AuthConfig struct {
	// ExpiredCode is the error code the backend sends with a 401 when the token expired
	ExpiredCode string `mapstructure:"expired_code"`
	LoginRoute  string `mapstructure:"login_route"`
}

// SessionConfig holds creation-session and draft persistence settings
type SessionConfig struct {
	Store         string        `mapstructure:"store"` // redis or memory
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	DraftTTL      time.Duration `mapstructure:"draft_ttl"`
	SubmitLockTTL time.Duration `mapstructure:"submit_lock_ttl"`
}

// MediaConfig holds object store settings for activity images
type MediaConfig struct {
	Driver        string `mapstructure:"driver"` // disk or http
	Dir           string `mapstructure:"dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	UploadURL     string `mapstructure:"upload_url"`
	MaxParallel   int    `mapstructure:"max_parallel"`
}

// CORSConfig holds allowed origins for the extranet UI
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// A missing .env is fine, env vars may be set directly
	_ = v.ReadInConfig()

	return load(v)
}

// LoadWithPath loads configuration from a specific path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "extranet-api")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "60s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "extranet-api")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	// Backend defaults
	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8090/api")
	v.SetDefault("BACKEND_TIMEOUT", "15s")
	v.SetDefault("BACKEND_READ_RETRIES", 0)

	// Auth defaults
	v.SetDefault("AUTH_EXPIRED_CODE", "TOKEN_EXPIRED")
	v.SetDefault("AUTH_LOGIN_ROUTE", "/extranet/login")

	// Session defaults
	v.SetDefault("SESSION_STORE", "redis")
	v.SetDefault("SESSION_KEY_PREFIX", "extranet")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("SESSION_DRAFT_TTL", "720h")
	v.SetDefault("SESSION_SUBMIT_LOCK_TTL", "30s")

	// Media defaults
	v.SetDefault("MEDIA_DRIVER", "disk")
	v.SetDefault("MEDIA_DIR", "./media")
	v.SetDefault("MEDIA_PUBLIC_BASE_URL", "http://localhost:8080/media")
	v.SetDefault("MEDIA_UPLOAD_URL", "")
	v.SetDefault("MEDIA_MAX_PARALLEL", 5)

	// CORS defaults
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	// Redis
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	// OTel
	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	// Backend
	cfg.Backend.BaseURL = strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/")
	cfg.Backend.Timeout = v.GetDuration("BACKEND_TIMEOUT")
	cfg.Backend.ReadRetries = v.GetInt("BACKEND_READ_RETRIES")

	// Auth
	cfg.Auth.ExpiredCode = v.GetString("AUTH_EXPIRED_CODE")
	cfg.Auth.LoginRoute = v.GetString("AUTH_LOGIN_ROUTE")

	// Session
	cfg.Session.Store = v.GetString("SESSION_STORE")
	cfg.Session.KeyPrefix = v.GetString("SESSION_KEY_PREFIX")
	cfg.Session.TTL = v.GetDuration("SESSION_TTL")
	cfg.Session.DraftTTL = v.GetDuration("SESSION_DRAFT_TTL")
	cfg.Session.SubmitLockTTL = v.GetDuration("SESSION_SUBMIT_LOCK_TTL")

	// Media
	cfg.Media.Driver = v.GetString("MEDIA_DRIVER")
	cfg.Media.Dir = v.GetString("MEDIA_DIR")
	cfg.Media.PublicBaseURL = strings.TrimRight(v.GetString("MEDIA_PUBLIC_BASE_URL"), "/")
	cfg.Media.UploadURL = v.GetString("MEDIA_UPLOAD_URL")
	cfg.Media.MaxParallel = v.GetInt("MEDIA_MAX_PARALLEL")

	// CORS
	cfg.CORS.AllowOrigins = splitList(v.GetString("CORS_ALLOW_ORIGINS"))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}

	switch c.Session.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("invalid SESSION_STORE: %q", c.Session.Store)
	}

	switch c.Media.Driver {
	case "disk":
		if c.Media.Dir == "" {
			return fmt.Errorf("MEDIA_DIR is required for disk driver")
		}
	case "http":
		if c.Media.UploadURL == "" {
			return fmt.Errorf("MEDIA_UPLOAD_URL is required for http driver")
		}
	default:
		return fmt.Errorf("invalid MEDIA_DRIVER: %q", c.Media.Driver)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

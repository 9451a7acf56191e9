package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Task      TaskConfig      `mapstructure:"task"       validate:"required"`
	Export    ExportConfig    `mapstructure:"export"     validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret         string `mapstructure:"jwt_secret"          validate:"required,min=32"`
	TokenLifetimeMins int    `mapstructure:"token_lifetime_mins" validate:"required,gt=0"`
	BcryptCost        int    `mapstructure:"bcrypt_cost"         validate:"gte=0,lte=31"`
}

// TaskConfig contains settings for the background task engine.
type TaskConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`
}

// ExportConfig contains settings for task-generated export artifacts.
type ExportConfig struct {
	// Dir is the directory export files are written to. Created on startup
	// if it does not exist.
	Dir string `mapstructure:"dir" validate:"required"`
}

// RateLimitConfig contains per-operation rate limit settings.
type RateLimitConfig struct {
	Register RateLimitRule `mapstructure:"register" validate:"required"`
	Login    RateLimitRule `mapstructure:"login"    validate:"required"`
}

// RateLimitRule bounds how many requests a caller may make within a
// rolling window.
type RateLimitRule struct {
	MaxRequests int           `mapstructure:"max_requests" validate:"required,gt=0"`
	Window      time.Duration `mapstructure:"window"       validate:"required,gt=0"`
}

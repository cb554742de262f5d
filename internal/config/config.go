package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds how long in-flight requests may drain on shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret" validate:"required"`
	BCryptCost int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	// TokenLifetimeMinutes of zero issues tokens that never expire.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gte=0"`
}

// SentryConfig enables error reporting when DSN is non-empty.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn" validate:"omitempty,url"`
	Environment string `mapstructure:"environment"`
}

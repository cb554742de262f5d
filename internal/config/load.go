package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every nested configuration key read from the environment.
const EnvPrefix = "TASKAPI"

// Default values applied before files and environment are consulted.
const (
	DefaultPort                   = 3000
	DefaultLogLevel               = "info"
	DefaultShutdownTimeoutSeconds = 10
	DefaultMaxOpenConns           = 10
	DefaultMaxIdleConns           = 5
	DefaultConnMaxLifetimeMinutes = 5
	DefaultBCryptCost             = 8
)

// envBinding ties a config key to the environment variables that may set it,
// in order of precedence.
type envBinding struct {
	key  string
	envs []string
}

var bindings = []envBinding{
	{"server.port", []string{"TASKAPI_SERVER_PORT", "PORT"}},
	{"server.log_level", []string{"TASKAPI_SERVER_LOG_LEVEL", "LOG_LEVEL"}},
	{"database.url", []string{"TASKAPI_DATABASE_URL", "DATABASE_URL"}},
	{"auth.jwt_secret", []string{"TASKAPI_AUTH_JWT_SECRET", "JWT_SECRET"}},
	{"sentry.dsn", []string{"TASKAPI_SENTRY_DSN", "SENTRY_DSN"}},
}

// Load configuration from a .env file, an optional config.yaml in the
// working directory, and environment variables.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return load("")
}

// LoadFile is like Load but reads the given YAML file instead of searching
// the working directory, and skips the .env file.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range bindings {
		args := append([]string{b.key}, b.envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", b.key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.shutdown_timeout_seconds", DefaultShutdownTimeoutSeconds)
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime_minutes", DefaultConnMaxLifetimeMinutes)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("auth.bcrypt_cost", DefaultBCryptCost)
	v.SetDefault("auth.token_lifetime_minutes", 0)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
}

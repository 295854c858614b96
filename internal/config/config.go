package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Logging  LoggingConfig
	Tasks    TasksConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Port            int
	GinMode         string
	FrontendURL     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig describes the PostgreSQL connection.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// LoggingConfig controls the leveled logger.
type LoggingConfig struct {
	Level string
	Dir   string
}

// TasksConfig schedules the background sweeps.
type TasksConfig struct {
	LeaderboardInterval time.Duration
	LeaderboardSize     int
	PaymentInterval     time.Duration
	PaymentBatchSize    int
}

const (
	defaultPort                = 3001
	defaultReadTimeout         = 15 * time.Second
	defaultWriteTimeout        = 15 * time.Second
	defaultShutdownTimeout     = 30 * time.Second
	defaultTokenTTL            = 7 * 24 * time.Hour
	defaultLeaderboardInterval = time.Hour
	defaultLeaderboardSize     = 10
	defaultPaymentInterval     = 24 * time.Hour
	defaultPaymentBatchSize    = 50
)

// Load reads configuration from environment variables, applying defaults.
// A .env file in the working directory is read first; variables already set
// in the environment take precedence over it.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTP: HTTPConfig{
			GinMode:         valueOrDefault("GIN_MODE", "release"),
			FrontendURL:     valueOrDefault("FRONTEND_URL", "http://localhost:3000"),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Logging: LoggingConfig{
			Level: valueOrDefault("LOG_LEVEL", "info"),
			Dir:   os.Getenv("LOG_DIR"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is not set")
	}

	var err error
	if cfg.HTTP.Port, err = parsePort("SERVER_PORT", defaultPort); err != nil {
		return Config{}, err
	}
	if cfg.Database, err = databaseFromEnv(); err != nil {
		return Config{}, err
	}

	durations := []struct {
		key      string
		target   *time.Duration
		fallback time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout, defaultReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout, defaultWriteTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout, defaultShutdownTimeout},
		{"JWT_TTL", &cfg.Auth.TokenTTL, defaultTokenTTL},
		{"LEADERBOARD_INTERVAL", &cfg.Tasks.LeaderboardInterval, defaultLeaderboardInterval},
		{"PAYMENT_INTERVAL", &cfg.Tasks.PaymentInterval, defaultPaymentInterval},
	}
	for _, d := range durations {
		if *d.target, err = parseDuration(d.key, d.fallback); err != nil {
			return Config{}, err
		}
	}

	if cfg.Tasks.LeaderboardSize, err = parsePositiveInt("LEADERBOARD_BROADCAST_SIZE", defaultLeaderboardSize); err != nil {
		return Config{}, err
	}
	if cfg.Tasks.PaymentBatchSize, err = parsePositiveInt("PAYMENT_BATCH_SIZE", defaultPaymentBatchSize); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that need no
// other configuration.
func LoadDatabase() (DatabaseConfig, error) {
	if err := loadDotEnv(); err != nil {
		return DatabaseConfig{}, err
	}
	return databaseFromEnv()
}

func databaseFromEnv() (DatabaseConfig, error) {
	c := DatabaseConfig{
		Host:     valueOrDefault("DB_HOST", "localhost"),
		User:     valueOrDefault("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     valueOrDefault("DB_NAME", "smartwaste"),
		SSLMode:  valueOrDefault("DB_SSLMODE", "disable"),
	}
	var err error
	if c.Port, err = parsePort("DB_PORT", 5432); err != nil {
		return DatabaseConfig{}, err
	}
	return c, nil
}

// loadDotEnv applies .env from the working directory. Variables already
// present in the environment, even empty ones, are kept. A missing file is
// not an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Addr is the listen address of the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}

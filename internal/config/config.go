package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LogLevelFor(GetEnvWithDefault("APP_ENV", "development")))
}

// LogLevelFor maps APP_ENV to the level every package logs at.
func LogLevelFor(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

const defaultJWTSecret = "secret"

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Environment string `json:"environment"`
	Port        int    `json:"port"`
	Host        string `json:"host"`
	// PublicURL is where clients reach the server; local photo URLs hang off it.
	PublicURL string `json:"public_url"`

	// Database configuration. DatabaseURL, when set, selects postgres.
	DatabaseURL string `json:"database_url"`
	DBDriver    string `json:"db_driver"`
	DBPath      string `json:"db_path"`
	DBHost      string `json:"db_host"`
	DBPort      string `json:"db_port"`
	DBName      string `json:"db_name"`
	DBUser      string `json:"db_user"`
	DBPassword  string `json:"db_password"`
	DBSSLMode   string `json:"db_sslmode"`
	// SeedFile overrides the embedded reference data.
	SeedFile string `json:"seed_file"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret      string `json:"jwt_secret"`
	TokenTTLHours  int    `json:"token_ttl_hours"`
	APIKey         string `json:"api_key"`
	LoginPerMinute int    `json:"login_per_minute"`
	LoginBurst     int    `json:"login_burst"`

	// Integrations. Empty values fall back to local implementations.
	RedisAddr        string `json:"redis_addr"`
	RedisPassword    string `json:"redis_password"`
	RedisDB          int    `json:"redis_db"`
	CloudinaryURL    string `json:"cloudinary_url"`
	CloudinaryFolder string `json:"cloudinary_folder"`
	UploadDir        string `json:"upload_dir"`
	GeminiAPIKey     string `json:"gemini_api_key"`
	GeminiModel      string `json:"gemini_model"`
	StripeSecretKey  string `json:"stripe_secret_key"`
	RabbitMQURL      string `json:"rabbitmq_url"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, PublicURL: %s, DatabaseURL: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], APIKey: %s, RedisAddr: %s, CloudinaryURL: %s, GeminiAPIKey: %s, StripeSecretKey: %s, RabbitMQURL: %s}",
		c.Environment, c.Port, c.Host, c.PublicURL, maskURL(c.DatabaseURL), c.DBDriver, c.DBPath, c.DBHost, c.DBName, c.DBUser, c.LogLevel,
		redactIfSet(c.APIKey), c.RedisAddr, maskURL(c.CloudinaryURL), redactIfSet(c.GeminiAPIKey), redactIfSet(c.StripeSecretKey), maskURL(c.RabbitMQURL))
}

// maskURL masks the password in a connection URL
func maskURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

func redactIfSet(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It also validates formats like DatabaseURL and JWTSecret
// Returns an error if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config := &Config{
		Environment: GetEnvWithDefault("APP_ENV", "development"),
		Port:        port,
		Host:        GetEnvWithDefault("APP_HOST", "localhost"),
		DatabaseURL: GetEnvWithDefault("DATABASE_URL", ""),
		DBDriver:    strings.ToLower(GetEnvWithDefault("DB_DRIVER", "sqlite")),
		DBPath:      GetEnvWithDefault("DB_PATH", "taist.sqlite"),
		DBHost:      GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:      GetEnvWithDefault("DB_PORT", "5432"),
		DBName:      GetEnvWithDefault("DB_NAME", "taist"),
		DBUser:      GetEnvWithDefault("DB_USER", "taist"),
		DBPassword:  GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:   GetEnvWithDefault("DB_SSLMODE", "disable"),
		SeedFile:    GetEnvWithDefault("SEED_FILE", ""),
		LogLevel:    GetEnvWithDefault("LOG_LEVEL", "info"),

		JWTSecret:      GetEnvWithDefault("JWT_SECRET", defaultJWTSecret),
		TokenTTLHours:  GetEnvAsType("TOKEN_TTL_HOURS", 24),
		APIKey:         GetEnvWithDefault("API_KEY", ""),
		LoginPerMinute: GetEnvAsType("LOGIN_RATE_PER_MINUTE", 10),
		LoginBurst:     GetEnvAsType("LOGIN_RATE_BURST", 5),

		RedisAddr:        GetEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:    GetEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:          GetEnvAsType("REDIS_DB", 0),
		CloudinaryURL:    GetEnvWithDefault("CLOUDINARY_URL", ""),
		CloudinaryFolder: GetEnvWithDefault("CLOUDINARY_FOLDER", "taist/users"),
		UploadDir:        GetEnvWithDefault("UPLOAD_DIR", "uploads"),
		GeminiAPIKey:     GetEnvWithDefault("GEMINI_API_KEY", ""),
		GeminiModel:      GetEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		StripeSecretKey:  GetEnvWithDefault("STRIPE_SECRET_KEY", ""),
		RabbitMQURL:      GetEnvWithDefault("RABBITMQ_URL", ""),
	}
	config.PublicURL = GetEnvWithDefault("PUBLIC_URL", fmt.Sprintf("http://%s:%d", config.Host, config.Port))

	if err := config.validate(); err != nil {
		return nil, err
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL != "" {
		if _, err := url.ParseRequestURI(c.DatabaseURL); err != nil {
			return fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		c.DBDriver = "postgres"
	}
	switch c.DBDriver {
	case "sqlite", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Environment == "production" && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.TokenTTLHours <= 0 {
		return errors.New("TOKEN_TTL_HOURS must be positive")
	}
	return nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			log.Warnf("Environment variable %s is not an int, using default", key)
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			log.Warnf("Environment variable %s is not a bool, using default", key)
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}

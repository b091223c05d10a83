package config

import (
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetEnvWithDefault(t *testing.T) {
	testCases := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "should return env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "from_env",
			expected:     "from_env",
		},
		{
			name:         "should return default when env not set",
			key:          "MISSING_KEY",
			defaultValue: "default_value",
			envValue:     "",
			expected:     "default_value",
		},
		{
			name:         "should return empty string default",
			key:          "EMPTY_KEY",
			defaultValue: "",
			envValue:     "",
			expected:     "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			// Setup: set environment variable if provided
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key) // cleanup after test
			} else {
				os.Unsetenv(tt.key) // ensure it's not set
			}

			// Execute
			result := GetEnvWithDefault(tt.key, tt.defaultValue)

			// Assert
			if result != tt.expected {
				t.Errorf("GetEnvWithDefault() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	// Helper function to set multiple env vars
	setTestEnv := func() {
		os.Setenv("APP_PORT", "9000")
		os.Setenv("APP_HOST", "0.0.0.0")
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("JWT_SECRET", "super_secret_jwt_key")
	}

	// Helper function to cleanup env vars
	cleanupTestEnv := func() {
		vars := []string{
			"APP_PORT", "APP_HOST", "LOG_LEVEL", "JWT_SECRET", "APP_ENV", "DATABASE_URL", "DB_DRIVER",
		}
		for _, v := range vars {
			os.Unsetenv(v)
		}
	}

	t.Run("successful config load with all env vars", func(t *testing.T) {
		setTestEnv()
		defer cleanupTestEnv()

		config, err := LoadConfig()

		// Should not return error
		if err != nil {
			t.Fatalf("LoadConfig() returned error: %v", err)
		}

		// Verify all values
		if config.Port != 9000 {
			t.Errorf("Port = %d, expected 9000", config.Port)
		}
		if config.Host != "0.0.0.0" {
			t.Errorf("Host = %s, expected 0.0.0.0", config.Host)
		}
		if config.LogLevel != "debug" {
			t.Errorf("LogLevel = %s, expected debug", config.LogLevel)
		}
	})

	t.Run("should fail with invalid port", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("APP_PORT", "not_a_number")
		defer cleanupTestEnv()

		config, err := LoadConfig()

		if err == nil {
			t.Error("LoadConfig() should return error when APP_PORT is invalid")
		}
		if config != nil {
			t.Error("Config should be nil when error occurs")
		}
	})

	t.Run("should use defaults when optional env vars not set", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("LoadConfig() returned unexpected error: %v", err)
		}

		// Check defaults
		if config.Port != 8080 {
			t.Errorf("Port = %d, expected default 8080", config.Port)
		}
		if config.Host != "localhost" {
			t.Errorf("Host = %s, expected default localhost", config.Host)
		}
		if config.LogLevel != "info" {
			t.Errorf("LogLevel = %s, expected default info", config.LogLevel)
		}
		if config.DBDriver != "sqlite" || config.DBPath != "taist.sqlite" {
			t.Errorf("database = %s %s, expected default sqlite taist.sqlite", config.DBDriver, config.DBPath)
		}
		if config.PublicURL != "http://localhost:8080" {
			t.Errorf("PublicURL = %s, expected http://localhost:8080", config.PublicURL)
		}
	})

	t.Run("DATABASE_URL selects postgres", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("DATABASE_URL", "postgres://taist:pw@db:5432/taist")
		defer cleanupTestEnv()

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() returned unexpected error: %v", err)
		}
		if config.DBDriver != "postgres" {
			t.Errorf("DBDriver = %s, expected postgres", config.DBDriver)
		}
		if strings.Contains(config.String(), "pw@") {
			t.Errorf("String() leaked the database password: %s", config.String())
		}
	})

	t.Run("should fail with unknown driver", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("DB_DRIVER", "mysql")
		defer cleanupTestEnv()

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should reject an unsupported driver")
		}
	})

	t.Run("production requires a JWT secret", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("APP_ENV", "production")
		defer cleanupTestEnv()

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should refuse the default JWT secret in production")
		}

		os.Setenv("JWT_SECRET", "a-real-secret")
		if _, err := LoadConfig(); err != nil {
			t.Errorf("LoadConfig() returned unexpected error: %v", err)
		}
	})
}

func TestGetEnvAsType(t *testing.T) {
	t.Setenv("INT_KEY", "42")
	t.Setenv("BAD_INT_KEY", "many")
	t.Setenv("BOOL_KEY", "true")

	if got := GetEnvAsType("INT_KEY", 1); got != 42 {
		t.Errorf("GetEnvAsType(INT_KEY) = %d, expected 42", got)
	}
	if got := GetEnvAsType("BAD_INT_KEY", 7); got != 7 {
		t.Errorf("GetEnvAsType(BAD_INT_KEY) = %d, expected default 7", got)
	}
	if got := GetEnvAsType("BOOL_KEY", false); !got {
		t.Error("GetEnvAsType(BOOL_KEY) = false, expected true")
	}
	if got := GetEnvAsType("MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("GetEnvAsType(MISSING_KEY) = %s, expected fallback", got)
	}
}

func TestLogLevelFor(t *testing.T) {
	cases := map[string]logrus.Level{
		"development": logrus.DebugLevel,
		"production":  logrus.ErrorLevel,
		"staging":     logrus.InfoLevel,
	}
	for env, want := range cases {
		if got := LogLevelFor(env); got != want {
			t.Errorf("LogLevelFor(%s) = %v, expected %v", env, got, want)
		}
	}
}

func BenchmarkGetEnvWithDefault(b *testing.B) {
	os.Setenv("BENCH_KEY", "test_value")
	defer os.Unsetenv("BENCH_KEY")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetEnvWithDefault("BENCH_KEY", "default")
	}
}

// Package config provides configuration management for labconsole.
// It handles loading and validation of configuration values from environment variables,
// with support for default values and collective error reporting.
// A `.env` file is loaded by main before LoadConfig runs, so every key below can
// also live there during development.
package config

import (
	"fmt"
	"net/url"
	// `os` package provides operating system functionalities, like reading environment variables.
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultTimeout is the fixed request timeout applied to every API call.
const DefaultTimeout = 15 * time.Second

// APIConfig holds settings for talking to the lab reservation REST API.
type APIConfig struct {
	BaseURL     string        // Root of every endpoint, e.g. http://localhost:8080/api/v1
	Timeout     time.Duration // Per-request timeout
	ProfilePath string        // Endpoint returning the current user's profile
	UserScope   string        // "", "admin" or "teacher": prefix for user administration endpoints
}

// RedisConfig holds connection settings for the redis session backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig selects where the session's token and profile are persisted.
type SessionConfig struct {
	Backend string // file, redis or memory
	Dir     string // Directory of the file backend
	Redis   RedisConfig
}

// ConsoleConfig holds settings for the local console server.
type ConsoleConfig struct {
	Port    string // Port for the HTTP server
	AppName string // Suffix applied to every page title
	// RedirectRegister also sends authenticated operators away from /register.
	RedirectRegister bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string // logrus level name
	Format string // "text" or "json"
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	API     *APIConfig
	Session *SessionConfig
	Console *ConsoleConfig
	Log     *LogConfig
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set or if parsing fails. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional environment variable parsed as a bool.
func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// Helper function to get an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15s", "1m30s".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// defaultSessionDir places session files under the user's config directory,
// falling back to a dot-directory in the working directory.
func defaultSessionDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "labconsole")
	}
	return ".labconsole"
}

func validateBaseURL(raw string, errors *[]string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		*errors = append(*errors, fmt.Sprintf("invalid value for API_BASE_URL: expected absolute http(s) URL, got '%s'", raw))
		return raw
	}
	return strings.TrimRight(raw, "/")
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// API Configuration
	baseURL := validateBaseURL(getOptionalEnv("API_BASE_URL", "http://localhost:8080/api/v1"), &errors)
	timeout := getOptionalEnvDuration("API_TIMEOUT", DefaultTimeout, &errors)
	if timeout <= 0 {
		errors = append(errors, fmt.Sprintf("API_TIMEOUT must be positive, got %s", timeout))
		timeout = DefaultTimeout
	}
	profilePath := getOptionalEnv("PROFILE_PATH", "/users/me")
	if !strings.HasPrefix(profilePath, "/") {
		errors = append(errors, fmt.Sprintf("PROFILE_PATH must start with '/', got '%s'", profilePath))
	}
	scope := getOptionalEnv("USER_SCOPE", "")
	switch scope {
	case "", "admin", "teacher":
	default:
		errors = append(errors, fmt.Sprintf("invalid value for USER_SCOPE: expected admin or teacher, got '%s'", scope))
	}

	apiConfig := &APIConfig{
		BaseURL:     baseURL,
		Timeout:     timeout,
		ProfilePath: profilePath,
		UserScope:   scope,
	}

	// Session Configuration
	backend := strings.ToLower(getOptionalEnv("SESSION_BACKEND", BackendFile))
	sessionConfig := &SessionConfig{
		Backend: backend,
		Dir:     getOptionalEnv("SESSION_DIR", defaultSessionDir()),
		Redis: RedisConfig{
			Addr:     getOptionalEnv("REDIS_ADDR", ""),
			Password: getOptionalEnv("REDIS_PASSWORD", ""),
			DB:       getOptionalEnvInt("REDIS_DB", 0, &errors),
		},
	}
	switch backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if sessionConfig.Redis.Addr == "" {
			errors = append(errors, "missing required environment variable: REDIS_ADDR (SESSION_BACKEND=redis)")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid value for SESSION_BACKEND: expected file, redis or memory, got '%s'", backend))
	}

	// Console Configuration
	consoleConfig := &ConsoleConfig{
		Port:             getOptionalEnv("CONSOLE_PORT", "8081"),
		AppName:          getOptionalEnv("APP_NAME", "Lab Console"),
		RedirectRegister: getOptionalEnvBool("GUARD_REDIRECT_REGISTER", false, &errors),
	}

	// Log Configuration
	logConfig := &LogConfig{
		Level:  strings.ToLower(getOptionalEnv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getOptionalEnv("LOG_FORMAT", "text")),
	}
	if logConfig.Format != "text" && logConfig.Format != "json" {
		errors = append(errors, fmt.Sprintf("invalid value for LOG_FORMAT: expected text or json, got '%s'", logConfig.Format))
	}

	// If any errors were collected during loading, return a single aggregated error message.
	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		API:     apiConfig,
		Session: sessionConfig,
		Console: consoleConfig,
		Log:     logConfig,
	}, nil
}

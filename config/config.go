package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultServerPort      = "8080"
	defaultLLMAPIURL       = "https://api.groq.com/openai/v1/chat/completions"
	defaultLLMModel        = "llama3-70b-8192"
	defaultTemperature     = 0.9
	defaultTimeout         = 30 * time.Second
	defaultMaxRetries      = 2
	defaultBackoff         = 500 * time.Millisecond
	defaultShutdownTimeout = 5 * time.Second
)

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost      string
	ServerPort      string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Completion service configuration
	LLMAPIKey             string
	LLMAPIURL             string
	LLMModel              string
	SuggestionTemperature float64

	// Outbound call policy
	CompletionTimeout    time.Duration
	CompletionMaxRetries int
	CompletionBackoff    time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{
		Environment: env,
		ServerHost:  getEnv("SERVER_HOST", ""),
		ServerPort:  getEnv("SERVER_PORT", defaultServerPort),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		LLMAPIURL:   getEnv("GROQ_API_URL", defaultLLMAPIURL),
		LLMModel:    getEnv("GROQ_MODEL", defaultLLMModel),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", defaultLogFormat(env)),
	}

	apiKey, err := loadAPIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load API key: %w", err)
	}
	cfg.LLMAPIKey = apiKey

	// Numeric settings are collected so every bad value is reported at once
	var errs []error
	if cfg.SuggestionTemperature, err = getEnvFloat("LLM_SUGGESTION_TEMPERATURE", defaultTemperature); err != nil {
		errs = append(errs, err)
	}
	if cfg.CompletionTimeout, err = getEnvMillis("LLM_TIMEOUT_MS", defaultTimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.CompletionMaxRetries, err = getEnvInt("LLM_MAX_RETRIES", defaultMaxRetries); err != nil {
		errs = append(errs, err)
	}
	if cfg.CompletionBackoff, err = getEnvMillis("LLM_BACKOFF_MS", defaultBackoff); err != nil {
		errs = append(errs, err)
	}
	seconds, err := getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", int(defaultShutdownTimeout/time.Second))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.ShutdownTimeout = time.Duration(seconds) * time.Second

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to parse configuration: %w", errors.Join(errs...))
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadAPIKey resolves the completion service credential. The environment
// variable wins, then a file named by GROQ_API_KEY_FILE, then the Docker secret.
func loadAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("GROQ_API_KEY")); key != "" {
		return key, nil
	}

	if keyFile := os.Getenv("GROQ_API_KEY_FILE"); keyFile != "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read API key file: %w", err)
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", fmt.Errorf("API key file is empty")
		}
		return key, nil
	}

	return readSecret("groq_api_key"), nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func defaultLogFormat(env Environment) string {
	if env == Production || env == CI {
		return "json"
	}
	return "text"
}

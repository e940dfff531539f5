package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// ValidateConfig checks the loaded configuration and reports every problem it finds
func ValidateConfig(cfg *Config) error {
	var errors []string
	add := func(field, message string) {
		errors = append(errors, ValidationError{Field: field, Message: message}.Error())
	}

	if cfg.LLMAPIKey == "" {
		add("GROQ_API_KEY", "one of GROQ_API_KEY, GROQ_API_KEY_FILE or the groq_api_key secret must be set")
	}
	if cfg.LLMAPIURL == "" {
		add("GROQ_API_URL", "must not be empty")
	}
	if cfg.LLMModel == "" {
		add("GROQ_MODEL", "must not be empty")
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", "must be a port number between 1 and 65535")
	}

	if cfg.SuggestionTemperature < 0 || cfg.SuggestionTemperature > 2 {
		add("LLM_SUGGESTION_TEMPERATURE", "must be between 0 and 2")
	}
	if cfg.CompletionTimeout <= 0 {
		add("LLM_TIMEOUT_MS", "must be positive")
	}
	if cfg.CompletionMaxRetries < 0 {
		add("LLM_MAX_RETRIES", "must not be negative")
	}
	if cfg.CompletionBackoff < 0 {
		add("LLM_BACKOFF_MS", "must not be negative")
	}
	if cfg.ShutdownTimeout <= 0 {
		add("SHUTDOWN_TIMEOUT_SECONDS", "must be positive")
	}

	if len(cfg.CORSOrigins) == 0 {
		add("CORS_ALLOWED_ORIGINS", "at least one origin is required")
	}
	for _, origin := range cfg.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			add("CORS_ALLOWED_ORIGINS", fmt.Sprintf("origin %q must start with http:// or https://", origin))
		}
	}
	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		add("LOG_LEVEL", "must be one of trace, debug, info, warn, error")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		add("LOG_FORMAT", "must be json or text")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

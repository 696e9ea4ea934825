package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeInvalidPort     = "INVALID_PORT"
	ErrCodeMissingConfig   = "MISSING_CONFIG"
	ErrCodeInvalidEndpoint = "INVALID_ENDPOINT"
	ErrCodeDataDirectory   = "DATA_DIRECTORY"
)

// ErrInvalidPort returns an error for an out-of-range port value.
func ErrInvalidPort(envVar string, port int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidPort,
		Message: fmt.Sprintf("Invalid port %d in %s", port, envVar),
		Action:  fmt.Sprintf("Set %s to a value between 1 and 65535", envVar),
	}
}

// ErrMissingConfig returns an error for a required value that is absent.
func ErrMissingConfig(name string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", name),
		Action:  fmt.Sprintf("Set %s in your environment or .env file", name),
	}
}

// ErrInvalidEndpoint returns an error for a malformed provider endpoint URL.
func ErrInvalidEndpoint(url string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidEndpoint,
		Message: fmt.Sprintf("Invalid IMAGE_LLM_URL '%s': %s", url, reason),
		Action:  "Set IMAGE_LLM_URL to a valid http(s) URL (e.g. https://api.openai.com/v1)",
	}
}

// ErrDataDirectory returns an error when a database directory cannot be used.
func ErrDataDirectory(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeDataDirectory,
		Message: fmt.Sprintf("Cannot use data directory for %s: %s", path, reason),
		Action:  "Check that the directory exists and is writable, or point the *_DB_PATH variables elsewhere",
	}
}

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
	ErrCodeEnvFileMissing    = "ENV_FILE_MISSING"
	ErrCodeMissingAuth       = "MISSING_AUTH"
	ErrCodeInvalidEndpoint   = "INVALID_ENDPOINT"
	ErrCodeServerUnreachable = "SERVER_UNREACHABLE"
	ErrCodeDataDirUnwritable = "DATA_DIR_UNWRITABLE"
	ErrCodeMissingConfig     = "MISSING_CONFIG"
)

// ErrEnvFileMissing returns an error for a missing .env file
func ErrEnvFileMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeEnvFileMissing,
		Message: fmt.Sprintf("Configuration file not found: %s", path),
		Action:  "Copy .env.example to .env and configure the required values",
	}
}

// ErrMissingAuth returns an error for missing API credentials
func ErrMissingAuth(service string) *ConfigError {
	var action string
	switch service {
	case "reddit":
		action = "Set REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET in your .env file"
	case "groq":
		action = "Set GROQ_API_KEY in your .env file"
	case "bfl":
		action = "Set BFL_API_KEY in your .env file"
	default:
		action = fmt.Sprintf("Set the required API key for %s in your .env file", service)
	}
	return &ConfigError{
		Code:    ErrCodeMissingAuth,
		Message: fmt.Sprintf("Missing authentication credentials for %s", service),
		Action:  action,
	}
}

// ErrInvalidEndpoint returns an error for an invalid API endpoint URL
func ErrInvalidEndpoint(name, url, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidEndpoint,
		Message: fmt.Sprintf("Invalid %s URL '%s': %s", name, url, reason),
		Action:  fmt.Sprintf("Set %s to a valid https URL", name),
	}
}

// ErrServerUnreachable returns an error when an API host cannot be reached
func ErrServerUnreachable(url string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeServerUnreachable,
		Message: fmt.Sprintf("Cannot connect to %s: %s", url, reason),
		Action:  "Check your network connection. For self-signed certificates, set ALLOW_SELF_SIGNED_CERTS=true",
	}
}

// ErrDataDirUnwritable returns an error when the data directory cannot be written
func ErrDataDirUnwritable(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeDataDirUnwritable,
		Message: fmt.Sprintf("Data directory %s is not writable: %s", path, reason),
		Action:  "Set DATA_DIR to a writable location",
	}
}

// ErrMissingConfig returns an error for missing required configuration
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file", varName),
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so
func IsConfigError(err error) (*ConfigError, bool) {
	if configErr, ok := err.(*ConfigError); ok {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}

package validation

import (
	"os"

	"vibey_backend/core"
)

// ValidationResult represents the result of a single configuration check.
type ValidationResult struct {
	Valid   bool
	Message string
	Error   error
}

// ConfigValidator checks the environment configuration the pipeline needs
// before any network call is made: the .env file, the three API credentials,
// endpoint URLs, and a writable data directory.
type ConfigValidator struct {
	envPath string
	dataDir string
}

// NewConfigValidator creates a ConfigValidator with default settings.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		envPath: ".env",
		dataDir: core.GetEnvOrDefault("DATA_DIR", "./data"),
	}
}

// WithEnvPath sets a custom path for the .env file.
func (v *ConfigValidator) WithEnvPath(path string) *ConfigValidator {
	v.envPath = path
	return v
}

// WithDataDir sets the data directory to probe.
func (v *ConfigValidator) WithDataDir(dir string) *ConfigValidator {
	v.dataDir = dir
	return v
}

// CheckEnvFile validates that the .env file exists.
func (v *ConfigValidator) CheckEnvFile() ValidationResult {
	if err := CheckFileExists(v.envPath); err != nil {
		return ValidationResult{
			Valid:   false,
			Message: "Configuration file not found. Copy .env.example to .env and configure your API credentials.",
			Error:   core.ErrEnvFileMissing(v.envPath),
		}
	}
	return ValidationResult{Valid: true, Message: "Environment file found"}
}

// CheckRedditCredentials validates REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET.
func (v *ConfigValidator) CheckRedditCredentials() ValidationResult {
	if os.Getenv("REDDIT_CLIENT_ID") == "" || os.Getenv("REDDIT_CLIENT_SECRET") == "" {
		return ValidationResult{
			Valid:   false,
			Message: "Reddit app credentials missing",
			Error:   core.ErrMissingAuth("reddit"),
		}
	}
	return ValidationResult{Valid: true, Message: "Reddit credentials set"}
}

// CheckGroqCredentials validates GROQ_API_KEY.
func (v *ConfigValidator) CheckGroqCredentials() ValidationResult {
	if os.Getenv("GROQ_API_KEY") == "" {
		return ValidationResult{
			Valid:   false,
			Message: "Groq API key missing",
			Error:   core.ErrMissingAuth("groq"),
		}
	}
	return ValidationResult{Valid: true, Message: "Groq API key set"}
}

// CheckBFLCredentials validates BFL_API_KEY.
func (v *ConfigValidator) CheckBFLCredentials() ValidationResult {
	if os.Getenv("BFL_API_KEY") == "" {
		return ValidationResult{
			Valid:   false,
			Message: "Black Forest Labs API key missing",
			Error:   core.ErrMissingAuth("bfl"),
		}
	}
	return ValidationResult{Valid: true, Message: "BFL API key set"}
}

// CheckEndpointURLs validates any overridden endpoint URLs. Unset variables
// pass because the built-in defaults are known good.
func (v *ConfigValidator) CheckEndpointURLs() ValidationResult {
	endpoints := []string{"REDDIT_BASE_URL", "GROQ_BASE_URL", "FLUX_ENDPOINT", "FLUX_RESULT_URL"}
	for _, name := range endpoints {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		if err := ValidateEndpointURL(raw); err != nil {
			return ValidationResult{
				Valid:   false,
				Message: "Invalid " + name + ": " + raw,
				Error:   core.ErrInvalidEndpoint(name, raw, err.Error()),
			}
		}
	}
	return ValidationResult{Valid: true, Message: "Endpoint URLs valid"}
}

// CheckDataDirectory validates that the data directory accepts writes.
func (v *ConfigValidator) CheckDataDirectory() ValidationResult {
	if err := CheckDirWritable(v.dataDir); err != nil {
		return ValidationResult{
			Valid:   false,
			Message: "Data directory is not writable: " + v.dataDir,
			Error:   core.ErrDataDirUnwritable(v.dataDir, err.Error()),
		}
	}
	return ValidationResult{Valid: true, Message: "Data directory writable"}
}

package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns contains compiled regex patterns for detecting sensitive
// data in log values. Compiled once at package initialization.
var sensitivePatterns = []*regexp.Regexp{
	// Groq/OpenAI style keys
	regexp.MustCompile(`(?i)(sk-[a-zA-Z0-9_-]{20,})`),
	regexp.MustCompile(`(?i)(gsk_[a-zA-Z0-9_-]{20,})`),
	// Generic 32-char hex (BFL keys and many other API keys)
	regexp.MustCompile(`(?i)\b([a-f0-9]{32})\b`),
	// Bearer tokens (Reddit OAuth)
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{20,})`),

	// Generic secret patterns
	regexp.MustCompile(`(?i)(password\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(secret\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(api_key\s*[:=]\s*[^\s,;]{8,})`),
}

// sensitiveFieldNames are log field names whose values are always redacted.
var sensitiveFieldNames = []string{
	"api_key",
	"apikey",
	"password",
	"secret",
	"token",
	"client_secret",
	"authorization",
	"groq_api_key",
	"bfl_api_key",
	"reddit_client_secret",
}

// IsSensitiveField reports whether a log field name indicates sensitive data.
// Matching is case-insensitive and substring based.
func IsSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// RedactSensitiveData replaces any recognized credential patterns in the
// value with the redaction placeholder. Values without matches are returned
// unchanged.
func RedactSensitiveData(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

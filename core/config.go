package core

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration values for the pipeline.
type Config struct {
	// Reddit API (app-only OAuth)
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	RedditBaseURL      string // API host (uses default if empty)
	Subreddits         []string
	PostLimit          int
	TimeFilter         string
	MaxComments        int

	// Trend analysis (Groq, OpenAI-compatible chat completions)
	GroqAPIKey      string
	GroqBaseURL     string
	TrendModel      string
	MaxPromptTokens int
	ResponseTokens  int

	// Background generation (Flux fill API)
	BFLAPIKey         string
	FluxEndpoint      string
	FluxResultURL     string
	MaxWaitTime       time.Duration // total polling budget per task
	InitialRetryDelay time.Duration
	MaxRetryDelay     time.Duration

	// Data layout
	DataDir          string
	DatabasePath     string
	RawImagesDir     string
	ProductImage     string
	ModelArtifacts   string
	CustomerDataPath string
	OutputPath       string

	// Processing
	MaxRetries           int
	RetryDelay           time.Duration
	AITimeout            time.Duration
	HTTPTimeout          time.Duration
	AllowSelfSignedCerts bool
}

// DefaultSubreddits are the communities monitored for visual fashion trends.
// Mix of style, photography and interior communities so the scene
// descriptions pick up environments and lighting, not just clothes.
var DefaultSubreddits = []string{
	"designporn",
	"interiordesign",
	"photography",
	"streetwear",
	"malefashion",
	"femalefashion",
	"womensstreetwear",
	"japanesestreetwear",
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. Only the external API credentials are required; everything else
// defaults to values that work for a local run.
func LoadConfig() (*Config, error) {
	subreddits := ParseListEnv("REDDIT_SUBREDDITS")
	if len(subreddits) == 0 {
		subreddits = DefaultSubreddits
	}

	dataDir := GetEnvOrDefault("DATA_DIR", "./data")

	cfg := &Config{
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUserAgent:    GetEnvOrDefault("REDDIT_USER_AGENT", "VibeyCrawler/0.1"),
		RedditBaseURL:      GetEnvOrDefault("REDDIT_BASE_URL", "https://oauth.reddit.com"),
		Subreddits:         subreddits,
		PostLimit:          ParseIntEnv("REDDIT_POST_LIMIT", 30),
		TimeFilter:         GetEnvOrDefault("REDDIT_TIME_FILTER", "week"),
		MaxComments:        ParseIntEnv("REDDIT_MAX_COMMENTS", 3),

		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:     GetEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		TrendModel:      GetEnvOrDefault("TREND_MODEL", "mixtral-8x7b-32768"),
		MaxPromptTokens: ParseIntEnv("TREND_MAX_PROMPT_TOKENS", 5000),
		ResponseTokens:  ParseIntEnv("TREND_RESPONSE_TOKENS", 1000),

		BFLAPIKey:     os.Getenv("BFL_API_KEY"),
		FluxEndpoint:  GetEnvOrDefault("FLUX_ENDPOINT", "https://api.bfl.ml/v1/flux-pro-1.0-fill"),
		FluxResultURL: GetEnvOrDefault("FLUX_RESULT_URL", "https://api.bfl.ml/v1/get_result"),
		// 10 minute budget matches the slowest observed fill generations
		MaxWaitTime:       ParseDurationEnv("FLUX_MAX_WAIT", 600),
		InitialRetryDelay: ParseDurationEnv("FLUX_INITIAL_RETRY_DELAY", 2),
		MaxRetryDelay:     ParseDurationEnv("FLUX_MAX_RETRY_DELAY", 30),

		DataDir:          dataDir,
		DatabasePath:     GetEnvOrDefault("DATABASE_PATH", filepath.Join(dataDir, "pipeline.db")),
		RawImagesDir:     GetEnvOrDefault("RAW_IMAGES_DIR", filepath.Join(dataDir, "raw_images")),
		ProductImage:     GetEnvOrDefault("PRODUCT_IMAGE", "pants_wolfskin.png"),
		ModelArtifacts:   GetEnvOrDefault("MODEL_ARTIFACTS", "./models/model_artifacts.json"),
		CustomerDataPath: GetEnvOrDefault("CUSTOMER_DATA", filepath.Join(dataDir, "customer_data.csv")),
		OutputPath:       GetEnvOrDefault("OUTPUT_PATH", "customer_predictions.csv"),

		MaxRetries:           ParseIntEnv("MAX_RETRIES", 3),
		RetryDelay:           ParseDurationEnv("RETRY_DELAY", 1),
		AITimeout:            ParseDurationEnv("AI_TIMEOUT", 60),
		HTTPTimeout:          ParseDurationEnv("HTTP_TIMEOUT", 30),
		AllowSelfSignedCerts: ParseBoolEnv("ALLOW_SELF_SIGNED_CERTS", false),
	}

	// Validate ONLY the required credentials so a dry run without the
	// prediction inputs still starts up.
	requiredVars := []string{
		"REDDIT_CLIENT_ID",
		"REDDIT_CLIENT_SECRET",
		"GROQ_API_KEY",
		"BFL_API_KEY",
	}

	var missingVars []string
	for _, v := range requiredVars {
		if os.Getenv(v) == "" {
			missingVars = append(missingVars, v)
		}
	}

	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v. See .env.example for a configuration template", missingVars)
	}

	return cfg, nil
}

// GetHTTPClient returns an HTTP client configured with TLS settings based on
// AllowSelfSignedCerts. This should be used for all requests to external APIs
// so the TLS configuration is respected everywhere.
func GetHTTPClient(cfg *Config, timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
	}

	if cfg.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return client
}

// GetDefaultHTTPClient returns an HTTP client with the configured default
// timeout and TLS settings.
func GetDefaultHTTPClient(cfg *Config) *http.Client {
	return GetHTTPClient(cfg, cfg.HTTPTimeout)
}

// ProductImagePath returns the full path of the configured product image.
func (c *Config) ProductImagePath() string {
	return filepath.Join(c.RawImagesDir, c.ProductImage)
}

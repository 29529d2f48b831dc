package core

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("BFL_API_KEY", "bfl_test")
}

// TestLoadConfigDefaults verifies defaults with only credentials set.
func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDDIT_SUBREDDITS", "")
	t.Setenv("DATA_DIR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if len(cfg.Subreddits) != len(DefaultSubreddits) {
		t.Errorf("Subreddits = %v, want defaults", cfg.Subreddits)
	}
	if cfg.PostLimit != 30 {
		t.Errorf("PostLimit = %d, want 30", cfg.PostLimit)
	}
	if cfg.TimeFilter != "week" {
		t.Errorf("TimeFilter = %q, want week", cfg.TimeFilter)
	}
	if cfg.TrendModel != "mixtral-8x7b-32768" {
		t.Errorf("TrendModel = %q", cfg.TrendModel)
	}
	if cfg.MaxPromptTokens != 5000 {
		t.Errorf("MaxPromptTokens = %d, want 5000", cfg.MaxPromptTokens)
	}
	if cfg.MaxWaitTime != 600*time.Second {
		t.Errorf("MaxWaitTime = %v, want 600s", cfg.MaxWaitTime)
	}
	if cfg.InitialRetryDelay != 2*time.Second {
		t.Errorf("InitialRetryDelay = %v, want 2s", cfg.InitialRetryDelay)
	}
	if !strings.HasSuffix(cfg.ProductImagePath(), "pants_wolfskin.png") {
		t.Errorf("ProductImagePath() = %q", cfg.ProductImagePath())
	}
}

// TestLoadConfigMissingCredentials verifies the error lists missing names.
func TestLoadConfigMissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("BFL_API_KEY", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() = nil error with missing keys")
	}
	if !strings.Contains(err.Error(), "GROQ_API_KEY") || !strings.Contains(err.Error(), "BFL_API_KEY") {
		t.Errorf("error %q does not list missing variables", err)
	}
	if strings.Contains(err.Error(), "REDDIT_CLIENT_ID") {
		t.Errorf("error %q lists a variable that is set", err)
	}
}

// TestLoadConfigOverrides verifies environment overrides are honored.
func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDDIT_SUBREDDITS", "streetwear, techwear")
	t.Setenv("REDDIT_POST_LIMIT", "10")
	t.Setenv("DATA_DIR", "/tmp/vibey")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Subreddits) != 2 || cfg.Subreddits[1] != "techwear" {
		t.Errorf("Subreddits = %v", cfg.Subreddits)
	}
	if cfg.PostLimit != 10 {
		t.Errorf("PostLimit = %d, want 10", cfg.PostLimit)
	}
	// Database path follows the data directory unless overridden.
	if !strings.HasPrefix(cfg.DatabasePath, "/tmp/vibey") {
		t.Errorf("DatabasePath = %q, want under DATA_DIR", cfg.DatabasePath)
	}
}

// TestGetHTTPClientTLS verifies self-signed certificate handling.
func TestGetHTTPClientTLS(t *testing.T) {
	cfg := &Config{HTTPTimeout: 10 * time.Second}
	client := GetDefaultHTTPClient(cfg)
	if client.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", client.Timeout)
	}
	if client.Transport != nil {
		t.Error("Transport set without self-signed certs enabled")
	}

	cfg.AllowSelfSignedCerts = true
	client = GetDefaultHTTPClient(cfg)
	if client.Transport == nil {
		t.Error("Transport not set with self-signed certs enabled")
	}
}

package imagegen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"vibey_backend/core"
	"vibey_backend/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.NewLogger(true, filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("creating test logger: %v", err)
	}
	return logger
}

func fluxConfig(submitURL, resultURL string) *core.Config {
	return &core.Config{
		BFLAPIKey:         "bfl-test-key",
		FluxEndpoint:      submitURL,
		FluxResultURL:     resultURL,
		MaxWaitTime:       2 * time.Second,
		InitialRetryDelay: 10 * time.Millisecond,
		MaxRetryDelay:     50 * time.Millisecond,
	}
}

func TestFluxProviderSubmit(t *testing.T) {
	var gotPayload map[string]any
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "task-123"})
	}))
	defer server.Close()

	provider, err := NewFluxProvider(fluxConfig(server.URL, server.URL), server.Client(), testLogger(t))
	if err != nil {
		t.Fatalf("NewFluxProvider() error = %v", err)
	}

	taskID, err := provider.Submit(context.Background(), FillRequest{
		Image: "aW1n", Mask: "bWFzaw==", Prompt: "warm loft scene",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if taskID != "task-123" {
		t.Errorf("taskID = %q", taskID)
	}
	if gotKey != "bfl-test-key" {
		t.Errorf("X-Key = %q", gotKey)
	}

	// Payload carries the job fields and the pinned generation parameters.
	wants := map[string]any{
		"image":               "aW1n",
		"mask":                "bWFzaw==",
		"prompt":              "warm loft scene",
		"num_inference_steps": float64(50),
		"guidance_scale":      30.0,
		"prompt_upsampling":   true,
		"scheduler":           "dpm++",
		"seed":                float64(42),
	}
	for key, want := range wants {
		if gotPayload[key] != want {
			t.Errorf("payload[%q] = %v, want %v", key, gotPayload[key], want)
		}
	}
	if gotPayload["negative_prompt"] == "" {
		t.Error("payload missing negative prompt")
	}
}

func TestFluxProviderSubmitRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusForbidden)
	}))
	defer server.Close()

	provider, err := NewFluxProvider(fluxConfig(server.URL, server.URL), server.Client(), testLogger(t))
	if err != nil {
		t.Fatalf("NewFluxProvider() error = %v", err)
	}
	if _, err := provider.Submit(context.Background(), FillRequest{}); err == nil {
		t.Error("Submit accepted a 403")
	}
}

func TestWaitForResultPendingThenReady(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "task-9" {
			t.Errorf("poll id = %q", r.URL.Query().Get("id"))
		}
		switch polls.Add(1) {
		case 1:
			json.NewEncoder(w).Encode(map[string]any{"status": "Task not found"})
		case 2:
			json.NewEncoder(w).Encode(map[string]any{"status": "Pending"})
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"status": "Ready",
				"result": map[string]string{"sample": "https://cdn.test/out.png"},
			})
		}
	}))
	defer server.Close()

	provider, err := NewFluxProvider(fluxConfig(server.URL, server.URL), server.Client(), testLogger(t))
	if err != nil {
		t.Fatalf("NewFluxProvider() error = %v", err)
	}

	url, err := provider.WaitForResult(context.Background(), "task-9")
	if err != nil {
		t.Fatalf("WaitForResult() error = %v", err)
	}
	if url != "https://cdn.test/out.png" {
		t.Errorf("result url = %q", url)
	}
	if polls.Load() < 3 {
		t.Errorf("polled %d times, want at least 3", polls.Load())
	}
}

func TestWaitForResultTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "Pending"})
	}))
	defer server.Close()

	config := fluxConfig(server.URL, server.URL)
	config.MaxWaitTime = 50 * time.Millisecond
	provider, err := NewFluxProvider(config, server.Client(), testLogger(t))
	if err != nil {
		t.Fatalf("NewFluxProvider() error = %v", err)
	}

	_, err = provider.WaitForResult(context.Background(), "slow-task")
	if !errors.Is(err, ErrGenerationTimeout) {
		t.Errorf("error = %v, want ErrGenerationTimeout", err)
	}
}

func TestWaitForResultSurvivesRateLimit(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "Ready",
			"result": map[string]string{"sample": "https://cdn.test/out.png"},
		})
	}))
	defer server.Close()

	provider, err := NewFluxProvider(fluxConfig(server.URL, server.URL), server.Client(), testLogger(t))
	if err != nil {
		t.Fatalf("NewFluxProvider() error = %v", err)
	}

	url, err := provider.WaitForResult(context.Background(), "task-rl")
	if err != nil {
		t.Fatalf("WaitForResult() error = %v", err)
	}
	if url == "" {
		t.Error("no result url after rate limit recovery")
	}
}

func TestWaitForResultHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "Pending"})
	}))
	defer server.Close()

	provider, err := NewFluxProvider(fluxConfig(server.URL, server.URL), server.Client(), testLogger(t))
	if err != nil {
		t.Fatalf("NewFluxProvider() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := provider.WaitForResult(ctx, "task-x"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNewFluxProviderRequiresKey(t *testing.T) {
	config := fluxConfig("http://unused", "http://unused")
	config.BFLAPIKey = ""
	if _, err := NewFluxProvider(config, nil, testLogger(t)); err == nil {
		t.Error("NewFluxProvider accepted a missing API key")
	}
}

// TestNewFluxProviderDefaultTransport verifies a nil transport falls back
// to the configured shared HTTP client, TLS settings included.
func TestNewFluxProviderDefaultTransport(t *testing.T) {
	config := fluxConfig("http://unused", "http://unused")
	config.HTTPTimeout = 20 * time.Second
	config.AllowSelfSignedCerts = true

	provider, err := NewFluxProvider(config, nil, testLogger(t))
	if err != nil {
		t.Fatalf("NewFluxProvider() error = %v", err)
	}
	if provider.httpClient == nil {
		t.Fatal("httpClient not defaulted")
	}
	if provider.httpClient.Timeout != 20*time.Second {
		t.Errorf("Timeout = %v, want 20s", provider.httpClient.Timeout)
	}
	if provider.httpClient.Transport == nil {
		t.Error("Transport not set with self-signed certs enabled")
	}
}

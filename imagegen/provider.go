package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"vibey_backend/core"
	"vibey_backend/logging"
)

// ErrGenerationTimeout is returned when a task does not become ready within
// the polling budget.
var ErrGenerationTimeout = errors.New("imagegen: generation timed out")

// FillRequest is one background-fill job: the base64 product image, its
// base64 mask, and the generation prompt.
type FillRequest struct {
	Image  string
	Mask   string
	Prompt string
}

// Provider submits fill jobs to a generation backend and polls them to
// completion. The returned URL is a short-lived download link.
type Provider interface {
	Submit(ctx context.Context, req FillRequest) (taskID string, err error)
	WaitForResult(ctx context.Context, taskID string) (resultURL string, err error)
}

// FluxProvider implements Provider against the Black Forest Labs fill API.
type FluxProvider struct {
	httpClient *http.Client
	endpoint   string
	resultURL  string
	apiKey     string
	params     GenerationParams
	logger     *logging.Logger

	initialDelay time.Duration
	maxDelay     time.Duration
	maxWait      time.Duration
}

// NewFluxProvider creates a FluxProvider from the application configuration.
func NewFluxProvider(config *core.Config, httpClient *http.Client, logger *logging.Logger) (*FluxProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if config.BFLAPIKey == "" {
		return nil, core.ErrMissingAuth("bfl")
	}
	if logger == nil {
		return nil, fmt.Errorf("imagegen: logger cannot be nil")
	}
	if httpClient == nil {
		httpClient = core.GetDefaultHTTPClient(config)
	}
	return &FluxProvider{
		httpClient:   httpClient,
		endpoint:     config.FluxEndpoint,
		resultURL:    config.FluxResultURL,
		apiKey:       config.BFLAPIKey,
		params:       DefaultGenerationParams(),
		logger:       logger.Named("flux"),
		initialDelay: config.InitialRetryDelay,
		maxDelay:     config.MaxRetryDelay,
		maxWait:      config.MaxWaitTime,
	}, nil
}

type fillPayload struct {
	Image  string `json:"image"`
	Mask   string `json:"mask"`
	Prompt string `json:"prompt"`
	GenerationParams
}

type submitResponse struct {
	ID string `json:"id"`
}

// Submit posts a fill job and returns its task ID.
func (p *FluxProvider) Submit(ctx context.Context, req FillRequest) (string, error) {
	payload := fillPayload{
		Image:            req.Image,
		Mask:             req.Mask,
		Prompt:           req.Prompt,
		GenerationParams: p.params,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("imagegen: encoding fill request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("imagegen: building fill request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Key", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("imagegen: submitting fill request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("imagegen: fill request failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var submitted submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return "", fmt.Errorf("imagegen: decoding fill response: %w", err)
	}
	if submitted.ID == "" {
		return "", fmt.Errorf("imagegen: fill response missing task id")
	}

	p.logger.Info("fill task submitted", zap.String("task_id", submitted.ID))
	return submitted.ID, nil
}

type resultResponse struct {
	Status string `json:"status"`
	Result struct {
		Sample string `json:"sample"`
	} `json:"result"`
}

// WaitForResult polls the result endpoint with exponential backoff until the
// task is ready, the polling budget runs out, or the context is cancelled.
//
// "Task not found" and transient request errors are treated as still-pending:
// the API occasionally lags behind a fresh submission.
func (p *FluxProvider) WaitForResult(ctx context.Context, taskID string) (string, error) {
	deadline := time.Now().Add(p.maxWait)
	delay := p.initialDelay

	for time.Now().Before(deadline) {
		sample, rateLimited, err := p.pollOnce(ctx, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			p.logger.Warn("poll attempt failed", zap.String("task_id", taskID), zap.Error(err))
		}
		if sample != "" {
			return sample, nil
		}

		wait := delay
		if rateLimited {
			// Widen immediately so we stop hammering the endpoint.
			wait = min(delay*2, p.maxDelay)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
		delay = min(delay*2, p.maxDelay)
	}

	return "", fmt.Errorf("%w after %s (task %s)", ErrGenerationTimeout, p.maxWait, taskID)
}

// pollOnce performs a single result query. An empty sample with a nil error
// means the task is still pending.
func (p *FluxProvider) pollOnce(ctx context.Context, taskID string) (sample string, rateLimited bool, err error) {
	endpoint := p.resultURL + "?" + url.Values{"id": {taskID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, fmt.Errorf("imagegen: building poll request: %w", err)
	}
	req.Header.Set("X-Key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("imagegen: polling result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, nil
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", false, fmt.Errorf("imagegen: poll failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result resultResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", false, fmt.Errorf("imagegen: decoding poll response: %w", err)
	}

	switch result.Status {
	case "Ready":
		if result.Result.Sample == "" {
			return "", false, fmt.Errorf("imagegen: ready task %s has no sample url", taskID)
		}
		return result.Result.Sample, false, nil
	case "Pending", "Task not found":
		return "", false, nil
	default:
		return "", false, fmt.Errorf("imagegen: task %s in unexpected state %q", taskID, result.Status)
	}
}

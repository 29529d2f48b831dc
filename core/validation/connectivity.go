package validation

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"vibey_backend/core"
)

// ConnectivityResult represents the result of a reachability check.
type ConnectivityResult struct {
	Reachable bool
	Message   string
	Latency   time.Duration
	Error     error
}

// ConnectivityChecker probes external API hosts before the pipeline starts.
// Any HTTP response counts as reachable; only transport failures do not.
type ConnectivityChecker struct {
	timeout              time.Duration
	allowSelfSignedCerts bool
}

// NewConnectivityChecker creates a checker with a 10 second timeout.
func NewConnectivityChecker() *ConnectivityChecker {
	return &ConnectivityChecker{timeout: 10 * time.Second}
}

// WithTimeout sets the timeout for probe requests.
func (c *ConnectivityChecker) WithTimeout(timeout time.Duration) *ConnectivityChecker {
	c.timeout = timeout
	return c
}

// WithAllowSelfSignedCerts configures TLS verification for probes.
func (c *ConnectivityChecker) WithAllowSelfSignedCerts(allow bool) *ConnectivityChecker {
	c.allowSelfSignedCerts = allow
	return c
}

// CheckServerConnectivity probes serverURL with a GET request.
func (c *ConnectivityChecker) CheckServerConnectivity(serverURL string) ConnectivityResult {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.CheckServerConnectivityWithContext(ctx, serverURL)
}

// CheckServerConnectivityWithContext probes serverURL using the caller's context.
func (c *ConnectivityChecker) CheckServerConnectivityWithContext(ctx context.Context, serverURL string) ConnectivityResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL, nil)
	if err != nil {
		return ConnectivityResult{
			Reachable: false,
			Message:   "Invalid probe URL",
			Error:     core.ErrServerUnreachable(serverURL, err.Error()),
		}
	}

	start := time.Now()
	resp, err := c.createHTTPClient().Do(req)
	latency := time.Since(start)
	if err != nil {
		return ConnectivityResult{
			Reachable: false,
			Message:   "Host unreachable",
			Latency:   latency,
			Error:     core.ErrServerUnreachable(serverURL, err.Error()),
		}
	}
	resp.Body.Close()

	// Auth failures still prove the host is up.
	return ConnectivityResult{
		Reachable: true,
		Message:   fmt.Sprintf("Reachable (HTTP %d)", resp.StatusCode),
		Latency:   latency,
	}
}

func (c *ConnectivityChecker) createHTTPClient() *http.Client {
	client := &http.Client{Timeout: c.timeout}
	if c.allowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return client
}

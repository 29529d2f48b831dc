package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"vibey_backend/core"
)

// DefaultTokenURL is the Reddit OAuth endpoint for app-only tokens.
const DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

// Client is a minimal app-only Reddit API client. It holds a cached OAuth
// token and refreshes it when it expires; all methods are safe for
// concurrent use.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	tokenURL     string
	userAgent    string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a Reddit client from the application configuration.
//
// Parameters:
//   - config: must carry Reddit credentials and the API base URL
//   - httpClient: transport to use; nil falls back to core.GetDefaultHTTPClient(config)
//
// Returns an error when credentials are missing.
func NewClient(config *core.Config, httpClient *http.Client) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("reddit: config cannot be nil")
	}
	if config.RedditClientID == "" || config.RedditClientSecret == "" {
		return nil, core.ErrMissingAuth("reddit")
	}
	if httpClient == nil {
		httpClient = core.GetDefaultHTTPClient(config)
	}
	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(config.RedditBaseURL, "/"),
		tokenURL:     DefaultTokenURL,
		userAgent:    config.RedditUserAgent,
		clientID:     config.RedditClientID,
		clientSecret: config.RedditClientSecret,
	}, nil
}

// SetTokenURL overrides the OAuth token endpoint. Intended for tests.
func (c *Client) SetTokenURL(tokenURL string) {
	c.tokenURL = tokenURL
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken returns a valid bearer token, fetching a fresh one via the
// client_credentials grant when the cached token is missing or near expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("reddit: building token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reddit: requesting token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("reddit: token request failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("reddit: decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("reddit: token response missing access_token")
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return c.token, nil
}

// get performs an authenticated GET against the API host and decodes the
// JSON response into out. 429 responses surface as core.ErrRateLimited so
// callers can retry with backoff.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("reddit: building request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reddit: requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("reddit: %s: %w", path, core.ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized:
		// Token may have been revoked; drop the cache so the next call
		// re-authenticates.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return fmt.Errorf("reddit: %s: unauthorized", path)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("reddit: %s: status %d: %s",
			path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("reddit: decoding response for %s: %w", path, err)
	}
	return nil
}

// listing mirrors Reddit's Listing envelope for the fields we use.
type listing struct {
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data listingItem `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type listingItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	SelfText    string `json:"selftext"`
	Body        string `json:"body"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	Stickied    bool   `json:"stickied"`
}

// TopPost is one entry of a subreddit top listing, before relevance
// filtering and comment collection.
type TopPost struct {
	ID          string
	Title       string
	SelfText    string
	Score       int
	NumComments int
	Stickied    bool
}

// TopPosts fetches a subreddit's top posts for the given time filter.
func (c *Client) TopPosts(ctx context.Context, subreddit, timeFilter string, limit int) ([]TopPost, error) {
	query := url.Values{
		"t":        {timeFilter},
		"limit":    {strconv.Itoa(limit)},
		"raw_json": {"1"},
	}
	var result listing
	if err := c.get(ctx, "/r/"+subreddit+"/top", query, &result); err != nil {
		return nil, err
	}

	posts := make([]TopPost, 0, len(result.Data.Children))
	for _, child := range result.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		posts = append(posts, TopPost{
			ID:          child.Data.ID,
			Title:       child.Data.Title,
			SelfText:    child.Data.SelfText,
			Score:       child.Data.Score,
			NumComments: child.Data.NumComments,
			Stickied:    child.Data.Stickied,
		})
	}
	return posts, nil
}

// TopComments fetches the cleaned, non-stickied entries among the first max
// top-level comments of a post. Stickied or empty entries are dropped, not
// replaced, so fewer than max comments may come back.
func (c *Client) TopComments(ctx context.Context, postID string, max int) ([]string, error) {
	query := url.Values{
		"sort":     {"top"},
		"depth":    {"1"},
		"raw_json": {"1"},
	}
	// The comments endpoint returns a two-element array: the post listing
	// followed by the comment listing.
	var result []listing
	if err := c.get(ctx, "/comments/"+postID, query, &result); err != nil {
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}

	var comments []string
	for i, child := range result[1].Data.Children {
		if i >= max {
			break
		}
		if child.Kind != "t1" || child.Data.Stickied {
			continue
		}
		if body := CleanText(child.Data.Body); body != "" {
			comments = append(comments, body)
		}
	}
	return comments, nil
}

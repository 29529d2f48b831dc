package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"vibey_backend/core"
	"vibey_backend/logging"
	"vibey_backend/reddit"
)

// ChatClient is the slice of the OpenAI-compatible API the analyzer needs.
// Satisfied by *openai.Client pointed at the Groq base URL.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Store persists completed analyses. Implemented by the db package; nil
// skips persistence.
type Store interface {
	SaveTrendAnalysis(ctx context.Context, analysis *Analysis, path string) error
}

// Analyzer turns the latest collected snapshot into a scene description and
// an enhanced image-generation prompt.
type Analyzer struct {
	client ChatClient
	config *core.Config
	params PhotographyParams
	store  Store
	logger *logging.Logger
	retry  core.RetryConfig
}

// NewChatClient builds a Groq-backed OpenAI-compatible client from the
// application configuration.
func NewChatClient(config *core.Config) ChatClient {
	clientConfig := openai.DefaultConfig(config.GroqAPIKey)
	clientConfig.BaseURL = config.GroqBaseURL
	clientConfig.HTTPClient = core.GetDefaultHTTPClient(config)
	return openai.NewClientWithConfig(clientConfig)
}

// NewAnalyzer creates an Analyzer.
//
// Parameters:
//   - client: chat completion backend, usually NewChatClient(config)
//   - config: carries the model name and data directory layout
//   - params: photography framing mixed into every prompt
//   - store: optional database persistence, may be nil
//   - logger: structured logger
func NewAnalyzer(client ChatClient, config *core.Config, params PhotographyParams, store Store, logger *logging.Logger) (*Analyzer, error) {
	if client == nil {
		return nil, fmt.Errorf("trends: chat client cannot be nil")
	}
	if config == nil {
		return nil, fmt.Errorf("trends: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("trends: logger cannot be nil")
	}

	retry := core.DefaultRetryConfig()
	retry.RetryIf = isRateLimited
	return &Analyzer{
		client: client,
		config: config,
		params: params,
		store:  store,
		logger: logger.Named("trends"),
		retry:  retry,
	}, nil
}

// isRateLimited recognizes 429s from the OpenAI-compatible API.
func isRateLimited(err error) bool {
	if core.IsRateLimitError(err) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate_limit")
}

// LoadLatestSnapshot returns the posts of the newest snapshot file under the
// reddit data directory. Snapshot filenames embed a sortable timestamp, so
// lexicographic max is the latest run.
func LoadLatestSnapshot(dataDir string) ([]reddit.Post, error) {
	dir, err := core.GetDataPath(dataDir, core.SubdirReddit)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "reddit_data_*.json"))
	if err != nil {
		return nil, fmt.Errorf("trends: listing snapshots: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("trends: no collected snapshots under %s", dir)
	}
	sort.Strings(matches)
	latest := matches[len(matches)-1]

	data, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("trends: reading snapshot %s: %w", latest, err)
	}
	var snapshot reddit.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("trends: decoding snapshot %s: %w", latest, err)
	}
	return snapshot.Posts, nil
}

// AnalyzeTrends runs one analysis over the given posts and persists the
// result as trend_analysis_<timestamp>.json under the analysis directory.
//
// Returns the analysis and the path it was written to. Fails when the
// prepared prompt exceeds the token budget.
func (a *Analyzer) AnalyzeTrends(ctx context.Context, posts []reddit.Post) (*Analysis, string, error) {
	prepared := PreparePosts(posts)
	if len(prepared) == 0 {
		return nil, "", fmt.Errorf("trends: no usable posts to analyze")
	}

	encoded, err := EncodePosts(prepared)
	if err != nil {
		return nil, "", err
	}
	prompt := PromptWithData(encoded)

	budget := a.config.MaxPromptTokens
	if budget <= 0 {
		budget = MaxPromptTokens
	}
	promptTokens := EstimateTokens(prompt)
	if promptTokens > budget {
		return nil, "", fmt.Errorf("trends: prompt estimate %d tokens exceeds budget of %d",
			promptTokens, budget)
	}
	a.logger.Info("analyzing trends",
		zap.Int("posts", len(prepared)), zap.Int("prompt_tokens", promptTokens))

	maxTokens := a.config.ResponseTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	var content string
	err = core.Retry(ctx, a.retry, func(ctx context.Context) error {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       a.config.TrendModel,
			Temperature: 0.7,
			MaxTokens:   maxTokens,
			TopP:        1,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return fmt.Errorf("trends: chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("trends: chat completion returned no choices")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	scene, err := ParseSceneResponse(content)
	if err != nil {
		return nil, "", err
	}

	analysis := &Analysis{
		Timestamp:      time.Now(),
		Scene:          scene,
		EnhancedPrompt: EnhancePrompt(scene, a.params),
		TokenUsage: TokenUsage{
			PromptTokens:   promptTokens,
			ResponseTokens: EstimateTokens(content),
		},
	}
	analysis.TokenUsage.TotalTokens = analysis.TokenUsage.PromptTokens + analysis.TokenUsage.ResponseTokens

	path, err := a.save(ctx, analysis)
	if err != nil {
		return nil, "", err
	}
	return analysis, path, nil
}

func (a *Analyzer) save(ctx context.Context, analysis *Analysis) (string, error) {
	filename := fmt.Sprintf("trend_analysis_%s.json", analysis.Timestamp.Format("20060102_150405"))
	path, err := core.GetDataFilePath(a.config.DataDir, core.SubdirAnalysis, filename)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("trends: encoding analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("trends: writing analysis: %w", err)
	}

	if a.store != nil {
		if err := a.store.SaveTrendAnalysis(ctx, analysis, path); err != nil {
			a.logger.Warn("persisting analysis to database failed", zap.Error(err))
		}
	}

	a.logger.Info("analysis saved", zap.String("path", path))
	return path, nil
}

// LoadAnalysis reads a persisted analysis file.
func LoadAnalysis(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trends: reading analysis %s: %w", path, err)
	}
	var analysis Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("trends: decoding analysis %s: %w", path, err)
	}
	return &analysis, nil
}

// LatestAnalysisPath returns the newest trend_analysis_*.json under the
// analysis directory.
func LatestAnalysisPath(dataDir string) (string, error) {
	dir, err := core.GetDataPath(dataDir, core.SubdirAnalysis)
	if err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "trend_analysis_*.json"))
	if err != nil {
		return "", fmt.Errorf("trends: listing analyses: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("trends: no analyses under %s", dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// GenerateCategoryPrompt appends a product category line to a persisted
// analysis' enhanced prompt.
func GenerateCategoryPrompt(category, analysisPath string) (string, error) {
	analysis, err := LoadAnalysis(analysisPath)
	if err != nil {
		return "", err
	}
	return analysis.EnhancedPrompt + "\nProduct category: " + category, nil
}

package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"vibey_backend/core"
	"vibey_backend/logging"

	"go.uber.org/zap"
)

// Store persists collected posts. Implemented by the db package;
// a nil Store skips persistence and only the JSON snapshot is written.
type Store interface {
	SaveRedditPosts(ctx context.Context, collectedAt time.Time, posts []Post) error
}

// Collector gathers relevant posts from the configured subreddits and
// writes timestamped snapshot files under the reddit data directory.
type Collector struct {
	client *Client
	config *core.Config
	store  Store
	logger *logging.Logger
	retry  core.RetryConfig
}

// NewCollector creates a Collector.
//
// Parameters:
//   - client: authenticated Reddit API client
//   - config: carries subreddit list, limits, and data directory layout
//   - store: optional database persistence, may be nil
//   - logger: structured logger for per-subreddit progress and failures
func NewCollector(client *Client, config *core.Config, store Store, logger *logging.Logger) (*Collector, error) {
	if client == nil {
		return nil, fmt.Errorf("reddit: client cannot be nil")
	}
	if config == nil {
		return nil, fmt.Errorf("reddit: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("reddit: logger cannot be nil")
	}

	retry := core.DefaultRetryConfig()
	retry.RetryIf = core.IsRateLimitError
	return &Collector{
		client: client,
		config: config,
		store:  store,
		logger: logger.Named("reddit"),
		retry:  retry,
	}, nil
}

// CollectTrendingPosts fetches top posts from every monitored subreddit,
// keeps the visually relevant ones, and attaches their top comments.
//
// A subreddit that fails is logged and skipped; the run continues with the
// remaining ones. Rate-limited calls are retried with backoff. An empty
// result is not an error, only a warning.
func (c *Collector) CollectTrendingPosts(ctx context.Context) ([]Post, error) {
	var collected []Post

	for _, subreddit := range c.config.Subreddits {
		posts, err := c.collectSubreddit(ctx, subreddit)
		if err != nil {
			if ctx.Err() != nil {
				return collected, ctx.Err()
			}
			c.logger.Warn("skipping subreddit after error",
				zap.String("subreddit", subreddit), zap.Error(err))
			continue
		}
		c.logger.Info("collected subreddit",
			zap.String("subreddit", subreddit), zap.Int("relevant_posts", len(posts)))
		collected = append(collected, posts...)
	}

	if len(collected) == 0 {
		c.logger.Warn("no relevant posts found in any subreddit")
	}
	return collected, nil
}

func (c *Collector) collectSubreddit(ctx context.Context, subreddit string) ([]Post, error) {
	var top []TopPost
	err := core.Retry(ctx, c.retry, func(ctx context.Context) error {
		var err error
		top, err = c.client.TopPosts(ctx, subreddit, c.config.TimeFilter, c.config.PostLimit)
		return err
	})
	if err != nil {
		return nil, err
	}

	var posts []Post
	for _, item := range top {
		if item.Stickied {
			continue
		}
		post, err := c.buildPost(ctx, item)
		if err != nil {
			// A single bad post should not sink the subreddit.
			c.logger.Warn("skipping post after error",
				zap.String("subreddit", subreddit), zap.String("post_id", item.ID), zap.Error(err))
			continue
		}
		if post.IsRelevant() {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (c *Collector) buildPost(ctx context.Context, item TopPost) (Post, error) {
	var comments []string
	err := core.Retry(ctx, c.retry, func(ctx context.Context) error {
		var err error
		comments, err = c.client.TopComments(ctx, item.ID, c.config.MaxComments)
		return err
	})
	if err != nil {
		return Post{}, err
	}

	return Post{
		Title:       CleanText(item.Title),
		Description: CleanText(item.SelfText),
		Comments:    comments,
		Score:       item.Score,
		NumComments: item.NumComments,
	}, nil
}

// SaveData writes posts as a compact JSON snapshot named
// reddit_data_<timestamp>.json under the reddit data directory and, when a
// store is configured, persists them to the database as well.
//
// Returns the snapshot path, or "" when there was nothing to save.
func (c *Collector) SaveData(ctx context.Context, posts []Post) (string, error) {
	if len(posts) == 0 {
		return "", nil
	}

	now := time.Now()
	snapshot := Snapshot{Timestamp: now, Posts: posts}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("reddit: encoding snapshot: %w", err)
	}

	filename := fmt.Sprintf("reddit_data_%s.json", now.Format("20060102_150405"))
	path, err := core.GetDataFilePath(c.config.DataDir, core.SubdirReddit, filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("reddit: writing snapshot: %w", err)
	}

	if c.store != nil {
		if err := c.store.SaveRedditPosts(ctx, now, posts); err != nil {
			// The snapshot file is the source of truth for the pipeline;
			// database persistence is best effort.
			c.logger.Warn("persisting posts to database failed", zap.Error(err))
		}
	}

	c.logger.Info("snapshot saved", zap.String("path", path), zap.Int("posts", len(posts)))
	return path, nil
}

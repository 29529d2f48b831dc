package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vibey_backend/imagegen"
	"vibey_backend/recommend"
	"vibey_backend/reddit"
	"vibey_backend/trends"
)

// Repository wraps the SQLite connection with typed access to the pipeline
// tables. It implements the Store interfaces of the reddit, trends, and
// imagegen packages.
type Repository struct {
	conn *sql.DB
}

// NewRepository creates a Repository over an open connection.
func NewRepository(conn *sql.DB) (*Repository, error) {
	if conn == nil {
		return nil, fmt.Errorf("db: connection cannot be nil")
	}
	return &Repository{conn: conn}, nil
}

// Open opens the database at path, applies pending migrations, and returns
// a ready Repository. Close releases the underlying connection.
func Open(path string) (*Repository, error) {
	conn, err := NewSQLiteConnectionWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return NewRepository(conn)
}

// Close closes the underlying connection.
func (r *Repository) Close() error {
	return r.conn.Close()
}

// SaveRedditPosts persists one collection batch. All posts of a batch share
// a generated batch ID so a run can be queried as a unit.
func (r *Repository) SaveRedditPosts(ctx context.Context, collectedAt time.Time, posts []reddit.Post) error {
	if len(posts) == 0 {
		return nil
	}
	batchID := uuid.NewString()

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: beginning post batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reddit_posts (batch_id, collected_at, title, description, comments, score, num_comments)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("db: preparing post insert: %w", err)
	}
	defer stmt.Close()

	for _, post := range posts {
		comments, err := json.Marshal(post.Comments)
		if err != nil {
			return fmt.Errorf("db: encoding comments: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, batchID, collectedAt,
			post.Title, post.Description, string(comments), post.Score, post.NumComments); err != nil {
			return fmt.Errorf("db: inserting post: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: committing post batch: %w", err)
	}
	return nil
}

// CountRedditPosts returns the total number of persisted posts.
func (r *Repository) CountRedditPosts(ctx context.Context) (int, error) {
	var count int
	if err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM reddit_posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("db: counting posts: %w", err)
	}
	return count, nil
}

// SaveTrendAnalysis persists one analysis run alongside its file path.
func (r *Repository) SaveTrendAnalysis(ctx context.Context, analysis *trends.Analysis, path string) error {
	colors, err := json.Marshal(analysis.Scene.Colors)
	if err != nil {
		return fmt.Errorf("db: encoding colors: %w", err)
	}
	textures, err := json.Marshal(analysis.Scene.Textures)
	if err != nil {
		return fmt.Errorf("db: encoding textures: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, `
		INSERT INTO trend_analyses
			(created_at, environment, lighting, colors, textures, mood,
			 enhanced_prompt, prompt_tokens, response_tokens, file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.Timestamp, analysis.Scene.Environment, analysis.Scene.Lighting,
		string(colors), string(textures), analysis.Scene.Mood,
		analysis.EnhancedPrompt, analysis.TokenUsage.PromptTokens,
		analysis.TokenUsage.ResponseTokens, path)
	if err != nil {
		return fmt.Errorf("db: inserting analysis: %w", err)
	}
	return nil
}

// TrendAnalysisRow is a persisted analysis summary.
type TrendAnalysisRow struct {
	ID             int64
	CreatedAt      time.Time
	EnhancedPrompt string
	FilePath       string
}

// LatestTrendAnalysis returns the most recent persisted analysis.
func (r *Repository) LatestTrendAnalysis(ctx context.Context) (*TrendAnalysisRow, error) {
	row := r.conn.QueryRowContext(ctx, `
		SELECT id, created_at, enhanced_prompt, file_path
		FROM trend_analyses ORDER BY created_at DESC, id DESC LIMIT 1`)

	var result TrendAnalysisRow
	if err := row.Scan(&result.ID, &result.CreatedAt, &result.EnhancedPrompt, &result.FilePath); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("db: no trend analyses recorded")
		}
		return nil, fmt.Errorf("db: reading latest analysis: %w", err)
	}
	return &result, nil
}

// SaveEnhancement persists one completed background replacement.
func (r *Repository) SaveEnhancement(ctx context.Context, record imagegen.EnhancementRecord) error {
	_, err := r.conn.ExecContext(ctx, `
		INSERT INTO enhancements (task_id, image_path, mask_path, prompt, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.TaskID, record.ImagePath, record.MaskPath,
		record.Prompt, record.OutputPath, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("db: inserting enhancement: %w", err)
	}
	return nil
}

// RecentEnhancements returns up to limit enhancement records, newest first.
func (r *Repository) RecentEnhancements(ctx context.Context, limit int) ([]imagegen.EnhancementRecord, error) {
	rows, err := r.conn.QueryContext(ctx, `
		SELECT task_id, image_path, mask_path, prompt, output_path, created_at
		FROM enhancements ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("db: listing enhancements: %w", err)
	}
	defer rows.Close()

	var records []imagegen.EnhancementRecord
	for rows.Next() {
		var record imagegen.EnhancementRecord
		if err := rows.Scan(&record.TaskID, &record.ImagePath, &record.MaskPath,
			&record.Prompt, &record.OutputPath, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("db: scanning enhancement: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SavePredictionRun persists the final recommendations of one pipeline run
// and returns the generated run ID.
func (r *Repository) SavePredictionRun(ctx context.Context, recommendations []recommend.Recommendation, outputPath string) (string, error) {
	if len(recommendations) == 0 {
		return "", fmt.Errorf("db: no recommendations to save")
	}
	runID := uuid.NewString()
	now := time.Now()

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("db: beginning prediction run: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prediction_runs
			(run_id, customer_id, predicted_category, confidence, enhanced_image_path, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("db: preparing prediction insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recommendations {
		if _, err := stmt.ExecContext(ctx, runID, rec.CustomerID, rec.PredictedCategory,
			rec.Confidence, rec.EnhancedImagePath, outputPath, now); err != nil {
			return "", fmt.Errorf("db: inserting prediction for %s: %w", rec.CustomerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("db: committing prediction run: %w", err)
	}
	return runID, nil
}

// PredictionRunSize returns the number of recommendations stored for a run.
func (r *Repository) PredictionRunSize(ctx context.Context, runID string) (int, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prediction_runs WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db: counting run %s: %w", runID, err)
	}
	return count, nil
}

package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vibey_backend/imagegen"
	"vibey_backend/recommend"
	"vibey_backend/reddit"
	"vibey_backend/trends"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// TestSaveRedditPosts verifies a batch insert and count round trip.
func TestSaveRedditPosts(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	posts := []reddit.Post{
		{Title: "linen layering", Description: "summer fits", Comments: []string{"clean look"}, Score: 412, NumComments: 37},
		{Title: "monochrome outfit", Score: 98, NumComments: 4},
	}

	if err := repo.SaveRedditPosts(ctx, time.Now(), posts); err != nil {
		t.Fatalf("SaveRedditPosts() error = %v", err)
	}

	count, err := repo.CountRedditPosts(ctx)
	if err != nil {
		t.Fatalf("CountRedditPosts() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountRedditPosts() = %d, want 2", count)
	}
}

// TestSaveRedditPosts_EmptyBatch verifies empty batches are a no-op.
func TestSaveRedditPosts_EmptyBatch(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.SaveRedditPosts(ctx, time.Now(), nil); err != nil {
		t.Fatalf("SaveRedditPosts(nil) error = %v", err)
	}
	count, err := repo.CountRedditPosts(ctx)
	if err != nil {
		t.Fatalf("CountRedditPosts() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountRedditPosts() = %d, want 0", count)
	}
}

// TestSaveTrendAnalysis verifies the analysis round trip.
func TestSaveTrendAnalysis(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	analysis := &trends.Analysis{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Scene: trends.SceneDescription{
			Environment: "minimalist concrete loft",
			Lighting:    "diffused window light",
			Colors:      []string{"sand", "charcoal"},
			Textures:    []string{"linen"},
			Mood:        "calm",
		},
		EnhancedPrompt: "8k ultra detailed product photography",
		TokenUsage:     trends.TokenUsage{PromptTokens: 1200, ResponseTokens: 300},
	}

	if err := repo.SaveTrendAnalysis(ctx, analysis, "/data/analysis/trend_analysis_x.json"); err != nil {
		t.Fatalf("SaveTrendAnalysis() error = %v", err)
	}

	latest, err := repo.LatestTrendAnalysis(ctx)
	if err != nil {
		t.Fatalf("LatestTrendAnalysis() error = %v", err)
	}
	if latest.EnhancedPrompt != analysis.EnhancedPrompt {
		t.Errorf("EnhancedPrompt = %q, want %q", latest.EnhancedPrompt, analysis.EnhancedPrompt)
	}
	if latest.FilePath != "/data/analysis/trend_analysis_x.json" {
		t.Errorf("FilePath = %q", latest.FilePath)
	}
}

// TestLatestTrendAnalysis_Empty verifies the error on an empty table.
func TestLatestTrendAnalysis_Empty(t *testing.T) {
	repo := testRepository(t)

	if _, err := repo.LatestTrendAnalysis(context.Background()); err == nil {
		t.Error("expected error for empty trend_analyses, got nil")
	}
}

// TestSaveEnhancement verifies enhancement records round trip newest first.
func TestSaveEnhancement(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	first := imagegen.EnhancementRecord{
		TaskID:     "task-1",
		ImagePath:  "product.png",
		MaskPath:   "mask.png",
		Prompt:     "studio background",
		OutputPath: "enhanced_1.png",
		CreatedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	second := first
	second.TaskID = "task-2"
	second.OutputPath = "enhanced_2.png"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)

	if err := repo.SaveEnhancement(ctx, first); err != nil {
		t.Fatalf("SaveEnhancement(first) error = %v", err)
	}
	if err := repo.SaveEnhancement(ctx, second); err != nil {
		t.Fatalf("SaveEnhancement(second) error = %v", err)
	}

	records, err := repo.RecentEnhancements(ctx, 10)
	if err != nil {
		t.Fatalf("RecentEnhancements() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].TaskID != "task-2" {
		t.Errorf("records[0].TaskID = %q, want task-2", records[0].TaskID)
	}
}

// TestSavePredictionRun verifies a run shares one run ID across rows.
func TestSavePredictionRun(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	recommendations := []recommend.Recommendation{
		{CustomerID: "u1", PredictedCategory: "pants", EnhancedImagePath: "pants.png", Confidence: 0.91},
		{CustomerID: "u2", PredictedCategory: "shoes", EnhancedImagePath: "shoes.png", Confidence: 0.64},
	}

	runID, err := repo.SavePredictionRun(ctx, recommendations, "customer_predictions.csv")
	if err != nil {
		t.Fatalf("SavePredictionRun() error = %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run ID")
	}

	size, err := repo.PredictionRunSize(ctx, runID)
	if err != nil {
		t.Fatalf("PredictionRunSize() error = %v", err)
	}
	if size != 2 {
		t.Errorf("PredictionRunSize() = %d, want 2", size)
	}
}

// TestSavePredictionRun_Empty verifies empty runs are rejected.
func TestSavePredictionRun_Empty(t *testing.T) {
	repo := testRepository(t)

	if _, err := repo.SavePredictionRun(context.Background(), nil, "out.csv"); err == nil {
		t.Error("expected error for empty recommendations, got nil")
	}
}

package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vibey_backend/logging"
	"vibey_backend/metrics"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	logger, err := logging.NewLogger(false, filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	return &Pipeline{
		logger:  logger,
		metrics: metrics.NewStore(metrics.DefaultStoreConfig(), time.Now()),
	}
}

// TestRunStageRecordsSuccess verifies timing and item counts are recorded.
func TestRunStageRecordsSuccess(t *testing.T) {
	pipeline := testPipeline(t)

	items := 0
	err := pipeline.runStage(context.Background(), stageFunc{"collect", func(ctx context.Context) error {
		items = 12
		return nil
	}}, &items)
	if err != nil {
		t.Fatalf("runStage() error = %v", err)
	}

	records := pipeline.metrics.RecentRecords(1)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	record := records[0]
	if record.Stage != "collect" || record.Status != metrics.StageStatusSuccess {
		t.Errorf("record = %+v", record)
	}
	if record.Items != 12 {
		t.Errorf("Items = %d, want 12", record.Items)
	}
}

// TestRunStageWrapsErrors verifies the stage name prefixes the error.
func TestRunStageWrapsErrors(t *testing.T) {
	pipeline := testPipeline(t)

	sentinel := errors.New("upstream down")
	err := pipeline.runStage(context.Background(), stageFunc{"analyze", func(ctx context.Context) error {
		return sentinel
	}}, nil)
	if err == nil {
		t.Fatal("runStage() = nil, want error")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error %v does not wrap cause", err)
	}
	if err.Error() != "analyze: upstream down" {
		t.Errorf("error = %q", err.Error())
	}

	records := pipeline.metrics.RecentRecords(1)
	if records[0].Status != metrics.StageStatusError {
		t.Errorf("Status = %q, want error", records[0].Status)
	}
	if records[0].ErrorMsg != "upstream down" {
		t.Errorf("ErrorMsg = %q", records[0].ErrorMsg)
	}
}

// TestStageFuncAdapter verifies the core.StageRunner adapter.
func TestStageFuncAdapter(t *testing.T) {
	called := false
	stage := stageFunc{"predict", func(ctx context.Context) error {
		called = true
		return nil
	}}
	if stage.Name() != "predict" {
		t.Errorf("Name() = %q", stage.Name())
	}
	if err := stage.Run(context.Background()); err != nil || !called {
		t.Errorf("Run() err = %v, called = %v", err, called)
	}
}

// Package metrics provides in-memory timing records for pipeline stages.
// This file contains pure data types with no behavior.
package metrics

import "time"

// Stage status values recorded with each StageRecord.
const (
	StageStatusSuccess = "success"
	StageStatusError   = "error"
	StageStatusSkipped = "skipped"
)

// Well-known pipeline stage names.
const (
	StageCollect   = "collect"
	StageAnalyze   = "analyze"
	StagePredict   = "predict"
	StageEnhance   = "enhance"
	StageRecommend = "recommend"
)

// StageRecord represents a single pipeline stage execution.
type StageRecord struct {
	// Stage identifies the pipeline stage (e.g. "collect", "enhance")
	Stage string `json:"stage"`

	// Status indicates the outcome: "success", "error", "skipped"
	Status string `json:"status"`

	// StartTime is when the stage began execution
	StartTime time.Time `json:"start_time"`

	// Duration is the total execution time
	Duration time.Duration `json:"duration"`

	// Items is a stage-defined unit count (posts collected, images
	// enhanced, customers scored)
	Items int `json:"items,omitempty"`

	// ErrorMsg contains error details if Status is "error"
	ErrorMsg string `json:"error_msg,omitempty"`
}

// StageSummary aggregates all executions of one stage.
type StageSummary struct {
	Stage         string        `json:"stage"`
	Runs          int64         `json:"runs"`
	Successes     int64         `json:"successes"`
	Errors        int64         `json:"errors"`
	Items         int64         `json:"items"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
}

// RunSummary is the whole-pipeline rollup reported at exit.
type RunSummary struct {
	StartTime  time.Time      `json:"start_time"`
	Uptime     time.Duration  `json:"uptime"`
	TotalRuns  int64          `json:"total_runs"`
	TotalError int64          `json:"total_errors"`
	Stages     []StageSummary `json:"stages"`
}

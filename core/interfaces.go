package core

import (
	"context"
)

// ShutdownFunc is a cleanup function executed during graceful shutdown.
// Implementations should respect the context deadline and return promptly.
type ShutdownFunc func(ctx context.Context) error

// StageRunner is implemented by each pipeline stage so the orchestrator can
// run stages uniformly and record their timing.
type StageRunner interface {
	// Name returns the stage name used in logs and metrics.
	Name() string

	// Run executes the stage. Errors abort the pipeline run.
	Run(ctx context.Context) error
}

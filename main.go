package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vibey_backend/core"
	"vibey_backend/core/validation"
	"vibey_backend/db"
	"vibey_backend/logging"
	"vibey_backend/metrics"
	"vibey_backend/shutdown"
)

func main() {
	os.Exit(run())
}

// run contains the real entry point so deferred cleanup executes before the
// process exits with a code.
func run() int {
	// Service management commands (install/uninstall/...) short-circuit.
	if HandleServiceCommand(os.Args) {
		return core.ExitCodeSuccess
	}
	if ranAsService, err := RunAsService(); ranAsService {
		if err != nil {
			fmt.Fprintf(os.Stderr, "service error: %v\n", err)
			return core.ExitCodeError
		}
		return core.ExitCodeSuccess
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	isDevelopment := os.Getenv("DEV_MODE") == "true"

	logger, err := logging.NewLogger(isDevelopment, "pipeline.log")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}

	if code := runStartupValidation(logger); code != core.ExitCodeSuccess {
		logger.Sync()
		return code
	}

	config, err := core.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", zap.Error(err))
		logger.Sync()
		return core.ExitCodeError
	}

	logger.Info("Configuration loaded",
		zap.Strings("subreddits", config.Subreddits),
		zap.Int("post_limit", config.PostLimit),
		zap.String("time_filter", config.TimeFilter),
		zap.String("trend_model", config.TrendModel),
		zap.String("data_dir", config.DataDir),
		zap.String("database", config.DatabasePath),
		zap.String("product_image", config.ProductImagePath()),
		zap.Duration("flux_max_wait", config.MaxWaitTime),
		zap.Bool("allow_self_signed_certs", config.AllowSelfSignedCerts),
		zap.Bool("dev_mode", isDevelopment),
	)

	if err := core.EnsureDataDirectories(config.DataDir); err != nil {
		logger.Error("Failed to create data directories", zap.Error(err))
		logger.Sync()
		return core.ExitCodeError
	}

	manager := shutdown.NewManager(logger, 30*time.Second)
	manager.Register("logger", 5, func(ctx context.Context) error {
		return logger.Sync()
	})

	// Persistence is optional: a broken database degrades to file-only output.
	var repo *db.Repository
	if core.ParseBoolEnv("DISABLE_DATABASE", false) {
		logger.Info("Database persistence disabled")
	} else {
		repo, err = db.Open(config.DatabasePath)
		if err != nil {
			logger.Warn("Database unavailable, continuing without persistence", zap.Error(err))
		} else {
			manager.Register("database", 30, func(ctx context.Context) error {
				return repo.Close()
			})
		}
	}

	store := metrics.NewStore(metrics.DefaultStoreConfig(), time.Now())
	pipeline, err := NewPipeline(config, logger, repo, store)
	if err != nil {
		logger.Error("Failed to build pipeline", zap.Error(err))
		manager.Shutdown()
		return core.ExitCodeError
	}

	manager.Start()
	exitCode := runPipelineLoop(manager.Context(), pipeline, logger)
	pipeline.LogSummary()
	manager.Shutdown()
	return exitCode
}

// runPipelineLoop runs the pipeline once, or repeatedly when RUN_INTERVAL
// is set to a positive number of seconds.
func runPipelineLoop(ctx context.Context, pipeline *Pipeline, logger *logging.Logger) int {
	interval := core.ParseDurationEnv("RUN_INTERVAL", 0)

	for {
		result, err := pipeline.Run(ctx)
		switch {
		case ctx.Err() != nil:
			logger.Info("Run interrupted")
			return core.ExitCodeSIGINT
		case err != nil:
			logger.Error("Pipeline run failed", zap.Error(err))
			if interval <= 0 {
				return core.ExitCodeError
			}
		default:
			logger.Info("Recommendations written",
				zap.String("output", result.OutputPath),
				zap.Int("customers", result.CustomersRated))
		}

		if interval <= 0 {
			if err != nil {
				return core.ExitCodeError
			}
			return core.ExitCodeSuccess
		}

		logger.Info("Next run scheduled", zap.Duration("interval", interval))
		select {
		case <-ctx.Done():
			logger.Info("Shutting down between runs")
			return core.ExitCodeSIGINT
		case <-time.After(interval):
		}
	}
}

// runStartupValidation runs the configuration checks before any external
// call is made. Network probes are skipped in development mode.
func runStartupValidation(logger *logging.Logger) int {
	logger.Info("Starting startup validation...")

	suite := validation.NewValidationSuite().
		WithAllowSelfSignedCerts(core.ParseBoolEnv("ALLOW_SELF_SIGNED_CERTS", false)).
		WithShowProgress(true)

	var result validation.SuiteResult
	if core.ParseBoolEnv("SKIP_CONNECTIVITY_CHECKS", false) {
		result = suite.ValidateQuick()
	} else {
		result = suite.Validate()
	}

	if !result.Success {
		logger.Error("Configuration validation failed",
			zap.Int("passed", result.PassedSteps),
			zap.Int("failed", result.FailedSteps),
			zap.Duration("duration", result.Duration),
		)
		for _, step := range result.Steps {
			if step.Status == validation.StepFailed {
				logger.Error("Validation step failed",
					zap.String("step", step.Name),
					zap.String("message", step.Message),
					zap.Error(step.Error),
				)
			}
		}
		return core.ExitCodeError
	}

	logger.Info("Startup validation passed",
		zap.Int("checks", result.TotalSteps),
		zap.Duration("duration", result.Duration))
	return core.ExitCodeSuccess
}

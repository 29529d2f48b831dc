package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vibey_backend/core"
	"vibey_backend/db"
	"vibey_backend/imagegen"
	"vibey_backend/logging"
	"vibey_backend/metrics"
	"vibey_backend/predictor"
	"vibey_backend/recommend"
	"vibey_backend/reddit"
	"vibey_backend/trends"
)

// photographyParamsPath is the optional YAML override for the product
// photography vocabulary used in enhanced prompts.
const photographyParamsPath = "config/photography_params.yaml"

// Pipeline orchestrates one end-to-end run: collect trending posts, analyze
// them into a scene description, score customers, generate the enhanced
// product image, and write the recommendation CSV.
type Pipeline struct {
	config  *core.Config
	logger  *logging.Logger
	metrics *metrics.Store
	repo    *db.Repository // nil when persistence is disabled

	collector *reddit.Collector
	analyzer  *trends.Analyzer
	enhancer  *imagegen.Enhancer
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	PostsCollected int
	CustomersRated int
	AnalysisPath   string
	EnhancedImage  string
	OutputPath     string
	RunID          string
}

// NewPipeline wires all pipeline stages from configuration. repo may be nil,
// in which case results are only written to the data directory.
func NewPipeline(config *core.Config, logger *logging.Logger, repo *db.Repository, store *metrics.Store) (*Pipeline, error) {
	if config == nil {
		return nil, fmt.Errorf("pipeline: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("pipeline: logger cannot be nil")
	}
	if store == nil {
		store = metrics.NewStore(metrics.DefaultStoreConfig(), time.Now())
	}

	httpClient := core.GetDefaultHTTPClient(config)

	redditClient, err := reddit.NewClient(config, httpClient)
	if err != nil {
		return nil, err
	}

	// Typed nil must not leak into the Store interfaces.
	var redditStore reddit.Store
	var trendStore trends.Store
	var imageStore imagegen.Store
	if repo != nil {
		redditStore = repo
		trendStore = repo
		imageStore = repo
	}

	collector, err := reddit.NewCollector(redditClient, config, redditStore, logger)
	if err != nil {
		return nil, err
	}

	params, err := trends.LoadPhotographyParams(photographyParamsPath)
	if err != nil {
		return nil, err
	}
	analyzer, err := trends.NewAnalyzer(trends.NewChatClient(config), config, params, trendStore, logger)
	if err != nil {
		return nil, err
	}

	provider, err := imagegen.NewFluxProvider(config, core.GetHTTPClient(config, config.AITimeout), logger)
	if err != nil {
		return nil, err
	}
	enhancer, err := imagegen.NewEnhancer(provider, imagegen.NewDownloader(httpClient), config, imageStore, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		config:    config,
		logger:    logger.Named("pipeline"),
		metrics:   store,
		repo:      repo,
		collector: collector,
		analyzer:  analyzer,
		enhancer:  enhancer,
	}, nil
}

// stageFunc adapts a closure to core.StageRunner.
type stageFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (s stageFunc) Name() string                  { return s.name }
func (s stageFunc) Run(ctx context.Context) error { return s.fn(ctx) }

// runStage executes one stage with timing. items reports the stage's unit
// count and may be nil.
func (p *Pipeline) runStage(ctx context.Context, stage core.StageRunner, items *int) error {
	done := p.metrics.StartStage(stage.Name())
	p.logger.Info("stage started", zap.String("stage", stage.Name()))

	err := stage.Run(ctx)

	count := 0
	if items != nil {
		count = *items
	}
	if err != nil {
		done(metrics.StageStatusError, count, err)
		p.logger.Error("stage failed", zap.String("stage", stage.Name()), zap.Error(err))
		return fmt.Errorf("%s: %w", stage.Name(), err)
	}
	done(metrics.StageStatusSuccess, count, nil)
	p.logger.Info("stage finished", zap.String("stage", stage.Name()), zap.Int("items", count))
	return nil
}

// Run executes one full pipeline pass.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{OutputPath: p.config.OutputPath}

	// Collect trending posts. A failed collection falls back to the most
	// recent snapshot on disk so a transient Reddit outage does not stall
	// the whole run.
	var posts []reddit.Post
	err := p.runStage(ctx, stageFunc{metrics.StageCollect, func(ctx context.Context) error {
		collected, err := p.collector.CollectTrendingPosts(ctx)
		if err == nil && len(collected) > 0 {
			if _, saveErr := p.collector.SaveData(ctx, collected); saveErr != nil {
				p.logger.Warn("failed to save collected posts", zap.Error(saveErr))
			}
			posts = collected
			result.PostsCollected = len(posts)
			return nil
		}
		if err != nil {
			p.logger.Warn("collection failed, trying latest snapshot", zap.Error(err))
		}
		snapshot, loadErr := trends.LoadLatestSnapshot(p.config.DataDir)
		if loadErr != nil {
			if err != nil {
				return err
			}
			return loadErr
		}
		posts = snapshot
		result.PostsCollected = len(posts)
		return nil
	}}, &result.PostsCollected)
	if err != nil {
		return result, err
	}

	// Analyze into a scene description and enhanced prompt.
	var analysis *trends.Analysis
	if err := p.runStage(ctx, stageFunc{metrics.StageAnalyze, func(ctx context.Context) error {
		var analyzeErr error
		analysis, result.AnalysisPath, analyzeErr = p.analyzer.AnalyzeTrends(ctx, posts)
		return analyzeErr
	}}, nil); err != nil {
		return result, err
	}

	// Score customers with the trained category model.
	var predictions []predictor.Prediction
	var categories []string
	if err := p.runStage(ctx, stageFunc{metrics.StagePredict, func(ctx context.Context) error {
		model, err := predictor.LoadPredictor(p.config.ModelArtifacts)
		if err != nil {
			return err
		}
		customers, err := recommend.LoadCustomers(p.config.CustomerDataPath, model.Artifacts().FeatureColumns)
		if err != nil {
			return err
		}
		predictions, err = model.PredictBatch(customers)
		if err != nil {
			return err
		}
		categories = model.Artifacts().ValidCategories
		result.CustomersRated = len(predictions)
		return nil
	}}, &result.CustomersRated); err != nil {
		return result, err
	}

	// Generate the enhanced product image against the trend scene.
	if err := p.runStage(ctx, stageFunc{metrics.StageEnhance, func(ctx context.Context) error {
		enhanced, err := p.enhancer.EnhanceProductImage(ctx, p.config.ProductImagePath(), "", analysis)
		if err != nil {
			return err
		}
		result.EnhancedImage = enhanced
		return nil
	}}, nil); err != nil {
		return result, err
	}

	// Write the recommendation CSV. Every category maps to the single
	// enhanced product image until per-category generation lands.
	if err := p.runStage(ctx, stageFunc{metrics.StageRecommend, func(ctx context.Context) error {
		categoryImages := make(map[string]string, len(categories))
		for _, category := range categories {
			categoryImages[category] = result.EnhancedImage
		}
		recommendations := recommend.BuildRecommendations(predictions, categoryImages, result.EnhancedImage)
		if err := recommend.WriteRecommendations(p.config.OutputPath, recommendations); err != nil {
			return err
		}
		if p.repo != nil {
			runID, err := p.repo.SavePredictionRun(ctx, recommendations, p.config.OutputPath)
			if err != nil {
				p.logger.Warn("failed to persist prediction run", zap.Error(err))
			} else {
				result.RunID = runID
			}
		}
		return nil
	}}, &result.CustomersRated); err != nil {
		return result, err
	}

	p.logger.Info("pipeline run complete",
		zap.Int("posts", result.PostsCollected),
		zap.Int("customers", result.CustomersRated),
		zap.String("analysis", result.AnalysisPath),
		zap.String("enhanced_image", result.EnhancedImage),
		zap.String("output", result.OutputPath))
	return result, nil
}

// LogSummary writes the per-stage timing rollup to the log.
func (p *Pipeline) LogSummary() {
	summary := p.metrics.Summary()
	p.logger.Info("pipeline metrics",
		zap.Duration("uptime", summary.Uptime),
		zap.Int64("stage_runs", summary.TotalRuns),
		zap.Int64("stage_errors", summary.TotalError))
	for _, stage := range summary.Stages {
		p.logger.Info("stage summary",
			zap.String("stage", stage.Stage),
			zap.Int64("runs", stage.Runs),
			zap.Int64("errors", stage.Errors),
			zap.Int64("items", stage.Items),
			zap.Duration("avg_duration", stage.AvgDuration))
	}
}

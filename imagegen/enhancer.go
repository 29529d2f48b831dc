package imagegen

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vibey_backend/core"
	"vibey_backend/logging"
	"vibey_backend/maskgen"
	"vibey_backend/trends"
)

// EnhancementRecord describes one completed background replacement.
type EnhancementRecord struct {
	TaskID     string
	ImagePath  string
	MaskPath   string
	Prompt     string
	OutputPath string
	CreatedAt  time.Time
}

// Store persists enhancement records. Implemented by the db package; nil
// skips persistence.
type Store interface {
	SaveEnhancement(ctx context.Context, record EnhancementRecord) error
}

// Enhancer runs the full background replacement for one product image:
// mask generation, prompt assembly, submission, polling, and download.
type Enhancer struct {
	provider   Provider
	downloader *Downloader
	extractor  *maskgen.Extractor
	config     *core.Config
	store      Store
	logger     *logging.Logger

	// colorHints appends the product's dominant color to the prompt.
	colorHints bool
}

// NewEnhancer creates an Enhancer.
//
// Parameters:
//   - provider: fill backend, usually a FluxProvider
//   - downloader: result fetcher; nil gets a default
//   - config: data layout and product image location
//   - store: optional database persistence, may be nil
//   - logger: structured logger
func NewEnhancer(provider Provider, downloader *Downloader, config *core.Config, store Store, logger *logging.Logger) (*Enhancer, error) {
	if provider == nil {
		return nil, fmt.Errorf("imagegen: provider cannot be nil")
	}
	if config == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("imagegen: logger cannot be nil")
	}
	if downloader == nil {
		downloader = NewDownloader(core.GetDefaultHTTPClient(config))
	}
	return &Enhancer{
		provider:   provider,
		downloader: downloader,
		extractor:  maskgen.NewDefaultExtractor(),
		config:     config,
		store:      store,
		logger:     logger.Named("imagegen"),
		colorHints: true,
	}, nil
}

// SetColorHints toggles the dominant-color prompt fragment.
func (e *Enhancer) SetColorHints(enabled bool) {
	e.colorHints = enabled
}

// EnhanceProductImage replaces the background of the image at imagePath and
// returns the path of the enhanced result.
//
// When maskPath is empty a mask is generated from the image's transparency
// and saved under output/masks. When analysis is nil the latest persisted
// trend analysis supplies the prompt.
func (e *Enhancer) EnhanceProductImage(ctx context.Context, imagePath, maskPath string, analysis *trends.Analysis) (string, error) {
	timestamp := time.Now().Format("20060102_1504")

	if maskPath == "" {
		e.logger.Info("generating mask", zap.String("image", imagePath))
		mask, err := e.extractor.CreateMask(imagePath)
		if err != nil {
			return "", err
		}
		maskPath, err = core.GetDataFilePath(e.config.DataDir, core.SubdirMasks,
			fmt.Sprintf("product_mask_%s.png", timestamp))
		if err != nil {
			return "", err
		}
		if err := maskgen.SaveMask(mask, maskPath); err != nil {
			return "", err
		}
	}

	if analysis == nil {
		path, err := trends.LatestAnalysisPath(e.config.DataDir)
		if err != nil {
			return "", err
		}
		if analysis, err = trends.LoadAnalysis(path); err != nil {
			return "", err
		}
	}

	prompt := analysis.EnhancedPrompt
	if e.colorHints {
		if hint, err := DominantColorHint(imagePath); err != nil {
			e.logger.Warn("dominant color extraction failed", zap.Error(err))
		} else {
			prompt += ", " + hint
		}
	}

	image, err := EncodeImageBase64(imagePath)
	if err != nil {
		return "", err
	}
	mask, err := EncodeImageBase64(maskPath)
	if err != nil {
		return "", err
	}

	taskID, err := e.provider.Submit(ctx, FillRequest{Image: image, Mask: mask, Prompt: prompt})
	if err != nil {
		return "", err
	}
	resultURL, err := e.provider.WaitForResult(ctx, taskID)
	if err != nil {
		return "", err
	}

	outputPath, err := core.GetDataFilePath(e.config.DataDir, core.SubdirEnhanced,
		fmt.Sprintf("product_enhanced_%s.png", timestamp))
	if err != nil {
		return "", err
	}
	if err := e.downloader.Download(ctx, resultURL, outputPath); err != nil {
		return "", err
	}

	if e.store != nil {
		record := EnhancementRecord{
			TaskID:     taskID,
			ImagePath:  imagePath,
			MaskPath:   maskPath,
			Prompt:     prompt,
			OutputPath: outputPath,
			CreatedAt:  time.Now(),
		}
		if err := e.store.SaveEnhancement(ctx, record); err != nil {
			e.logger.Warn("persisting enhancement record failed", zap.Error(err))
		}
	}

	e.logger.Info("enhanced image saved", zap.String("path", outputPath))
	return outputPath, nil
}

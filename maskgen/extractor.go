package maskgen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Mask extraction errors
var (
	// ErrDecode is returned when the source image cannot be parsed.
	ErrDecode = errors.New("maskgen: cannot decode source image")

	// ErrDimensionMismatch indicates a stage produced a plane whose
	// dimensions disagree with the stage contract. This is an internal
	// invariant violation, not a recoverable condition.
	ErrDimensionMismatch = errors.New("maskgen: stage dimension mismatch")
)

// Config holds the numeric parameters of the mask pipeline.
// Use DefaultConfig for the production values; tests may inject alternates
// to probe threshold boundaries.
type Config struct {
	// AlphaThreshold is the binarization cutoff. Alpha values strictly
	// above it are foreground (mask 0), everything else background (255).
	AlphaThreshold uint8

	// EdgeLow and EdgeHigh are the dual thresholds of the Canny pass over
	// the supersampled mask.
	EdgeLow  float64
	EdgeHigh float64

	// SupersampleFactor is the integer upscale factor applied before edge
	// refinement. Must be positive.
	SupersampleFactor int
}

// DefaultConfig returns the production mask parameters.
func DefaultConfig() Config {
	return Config{
		AlphaThreshold:    127,
		EdgeLow:           100,
		EdgeHigh:          200,
		SupersampleFactor: 4,
	}
}

// Intermediates captures every stage of the mask pipeline for inspection.
// It replaces the debug image dumps of earlier iterations of this tool:
// callers that want side-by-side comparisons encode these planes themselves.
type Intermediates struct {
	// AlphaPlane is the extracted 8-bit transparency plane.
	AlphaPlane *image.Gray

	// InitialMask is the native-resolution binarized alpha plane.
	InitialMask *image.Gray

	// SupersampledMask is the upscaled, re-binarized mask the refinement
	// stages operate on. Its polarity is inverted relative to InitialMask;
	// the post-downscale threshold inverts it back.
	SupersampledMask *image.Gray

	// EdgeMap is the Canny edge map of the supersampled mask.
	EdgeMap *image.Gray

	// TransitionZone is the dilated edge map. It marks the band around
	// mask boundaries intended for soft blending; the returned mask does
	// not composite it, so it is inspection-only output.
	TransitionZone *image.Gray
}

// Extractor converts a product photo's transparency into a binary
// segmentation mask suitable for background-replacement compositing.
//
// Extraction is pure CPU work over the decoded pixels: no files are written
// and no state is kept between calls, so a single Extractor is safe for
// concurrent use across images.
type Extractor struct {
	config Config
}

// NewExtractor creates an Extractor with the given parameters.
// Returns an error if the supersample factor is not positive.
func NewExtractor(config Config) (*Extractor, error) {
	if config.SupersampleFactor < 1 {
		return nil, fmt.Errorf("maskgen: supersample factor must be positive, got %d", config.SupersampleFactor)
	}
	return &Extractor{config: config}, nil
}

// NewDefaultExtractor creates an Extractor with DefaultConfig.
func NewDefaultExtractor() *Extractor {
	e, _ := NewExtractor(DefaultConfig())
	return e
}

// Config returns the extractor's parameters.
func (e *Extractor) Config() Config {
	return e.config
}

// CreateMask decodes the image at path and returns its binary product mask:
// 0 where the product is, 255 where background belongs, at the source
// image's resolution.
//
// Decode failures are terminal for the call; no partial mask is returned.
func (e *Extractor) CreateMask(path string) (*image.Gray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return e.CreateMaskBytes(data)
}

// CreateMaskBytes is CreateMask over an in-memory encoded image.
func (e *Extractor) CreateMaskBytes(data []byte) (*image.Gray, error) {
	mask, _, err := e.createMask(data, false)
	return mask, err
}

// CreateMaskWithIntermediates runs the pipeline and additionally returns
// every intermediate stage for inspection or comparison tooling.
func (e *Extractor) CreateMaskWithIntermediates(data []byte) (*image.Gray, *Intermediates, error) {
	return e.createMask(data, true)
}

// createMask runs the fixed stage sequence. Every stage consumes the
// previous stage's output, so the order must not change:
//
//	decode -> alpha plane -> binarize -> supersample + re-binarize
//	       -> edge detect -> dilate (transition zone, unused in output)
//	       -> downscale + re-binarize
func (e *Extractor) createMask(data []byte, capture bool) (*image.Gray, *Intermediates, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	// 1. Transparency plane. Sources without an alpha channel come out
	// fully opaque, which makes the whole frame product.
	alpha := AlphaPlane(img)

	// 2. Initial binary mask at native resolution.
	initial := Binarize(alpha, e.config.AlphaThreshold)

	// 3. Supersample for better edge quality. Interpolation smears the
	// boundary into grays, so the threshold is re-applied. Each re-apply
	// inverts mask polarity; the pipeline has exactly two, so they cancel.
	large := Binarize(Supersample(initial, e.config.SupersampleFactor), e.config.AlphaThreshold)
	if err := checkDims(large, width*e.config.SupersampleFactor, height*e.config.SupersampleFactor); err != nil {
		return nil, nil, err
	}

	// 4. Edge refinement. The dilated transition zone is kept only as an
	// inspection artifact; the high-resolution mask ships unchanged.
	edges := Canny(large, e.config.EdgeLow, e.config.EdgeHigh)
	zone := Dilate3x3(edges)

	// 5. Back to native resolution, with a final re-threshold.
	final := Binarize(ResizeBilinear(large, width, height), e.config.AlphaThreshold)
	if err := checkDims(final, width, height); err != nil {
		return nil, nil, err
	}

	var inter *Intermediates
	if capture {
		inter = &Intermediates{
			AlphaPlane:       alpha,
			InitialMask:      initial,
			SupersampledMask: large,
			EdgeMap:          edges,
			TransitionZone:   zone,
		}
	}

	return final, inter, nil
}

func checkDims(plane *image.Gray, width, height int) error {
	if plane.Bounds().Dx() != width || plane.Bounds().Dy() != height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrDimensionMismatch, plane.Bounds().Dx(), plane.Bounds().Dy(), width, height)
	}
	return nil
}

// Package imagegen replaces product photo backgrounds through the Flux
// fill API, driven by prompts produced by the trends package.
//
// atoms.go holds the request building blocks: base64 encoding and the fixed
// generation parameters.
package imagegen

import (
	"encoding/base64"
	"fmt"
	"os"
)

// GenerationParams are the fixed diffusion settings sent with every fill
// request. The seed is pinned so reruns over the same prompt and mask are
// reproducible.
type GenerationParams struct {
	NegativePrompt    string  `json:"negative_prompt"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	PromptUpsampling  bool    `json:"prompt_upsampling"`
	Scheduler         string  `json:"scheduler"`
	Seed              int     `json:"seed"`
}

// DefaultGenerationParams returns the production fill settings.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		NegativePrompt: "text, watermarks, logos, blurry product, distorted proportions, " +
			"deformed product, altered product appearance, poor quality, artifacts, " +
			"noise, grain, duplicate products, missing product parts",
		NumInferenceSteps: 50,
		GuidanceScale:     30.0,
		PromptUpsampling:  true,
		Scheduler:         "dpm++",
		Seed:              42,
	}
}

// EncodeImageBase64 reads the file at path and returns its standard base64
// encoding, as the fill API expects for both image and mask.
func EncodeImageBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("imagegen: reading %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

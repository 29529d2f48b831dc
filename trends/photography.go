package trends

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PhotographyParams describe the fixed photographic framing mixed into every
// generated prompt. Defaults mimic a professional product shoot; deployments
// can override individual fields from a YAML file.
type PhotographyParams struct {
	Camera struct {
		Angle    string `yaml:"angle"`
		Height   string `yaml:"height"`
		Lens     string `yaml:"lens"`
		Aperture string `yaml:"aperture"`
		Focus    string `yaml:"focus"`
	} `yaml:"camera"`

	Composition struct {
		RuleOfThirds bool   `yaml:"rule_of_thirds"`
		Depth        string `yaml:"depth"`
		Background   string `yaml:"background"`
		Symmetry     string `yaml:"symmetry"`
	} `yaml:"composition"`

	Quality struct {
		Resolution string `yaml:"resolution"`
		Detail     string `yaml:"detail"`
		Lighting   string `yaml:"lighting"`
		Render     string `yaml:"render"`
	} `yaml:"quality"`
}

// DefaultPhotographyParams returns the stock product-photography setup.
func DefaultPhotographyParams() PhotographyParams {
	var p PhotographyParams

	p.Camera.Angle = "straight-on product photography angle"
	p.Camera.Height = "eye-level"
	p.Camera.Lens = "85mm lens"
	p.Camera.Aperture = "f/4.0"
	p.Camera.Focus = "sharp focus"

	p.Composition.RuleOfThirds = true
	p.Composition.Depth = "medium"
	p.Composition.Background = "subtle bokeh effect"
	p.Composition.Symmetry = "balanced"

	p.Quality.Resolution = "high resolution"
	p.Quality.Detail = "ultra detailed"
	p.Quality.Lighting = "professional studio quality"
	p.Quality.Render = "8k"

	return p
}

// LoadPhotographyParams returns the defaults overlaid with the YAML file at
// path. A missing file is not an error; the defaults are used as-is.
func LoadPhotographyParams(path string) (PhotographyParams, error) {
	params := DefaultPhotographyParams()
	if path == "" {
		return params, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return params, nil
		}
		return params, fmt.Errorf("trends: reading photography params: %w", err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("trends: parsing photography params: %w", err)
	}
	return params, nil
}

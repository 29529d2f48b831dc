// Package predictor infers each customer's next purchase category from
// behavior features, using model artifacts exported from offline training.
package predictor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifacts bundles everything exported by the offline training run: the
// multinomial logit coefficients, the standardization parameters, and the
// exact feature layout used during training.
type Artifacts struct {
	// FeatureColumns are the numeric input columns, in training order.
	FeatureColumns []string `json:"feature_columns"`

	// ValidCategories are the known current_subcategory values. The last
	// entry is the "Other" bucket that rare categories collapse into.
	ValidCategories []string `json:"valid_categories"`

	// FinalFeatureNames is the complete model input layout: numeric
	// columns plus the one-hot "current_<category>" columns, in the exact
	// order the coefficients expect.
	FinalFeatureNames []string `json:"final_feature_names"`

	// ClassLabels are the output categories, indexed like the coefficient
	// rows.
	ClassLabels []string `json:"class_labels"`

	// ScalerMean and ScalerScale standardize each final feature:
	// (x - mean) / scale.
	ScalerMean  []float64 `json:"scaler_mean"`
	ScalerScale []float64 `json:"scaler_scale"`

	// Coefficients is the classes x features weight matrix; Intercepts
	// holds one bias per class.
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

// LoadArtifacts reads and validates model artifacts from a JSON file.
func LoadArtifacts(path string) (*Artifacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("predictor: reading artifacts %s: %w", path, err)
	}
	var artifacts Artifacts
	if err := json.Unmarshal(data, &artifacts); err != nil {
		return nil, fmt.Errorf("predictor: decoding artifacts %s: %w", path, err)
	}
	if err := artifacts.Validate(); err != nil {
		return nil, err
	}
	return &artifacts, nil
}

// Validate checks that every artifact dimension agrees with the feature
// layout. A model trained against a different layout must fail here, not
// mid-inference.
func (a *Artifacts) Validate() error {
	features := len(a.FinalFeatureNames)
	classes := len(a.ClassLabels)

	switch {
	case features == 0:
		return fmt.Errorf("predictor: artifacts define no features")
	case classes < 2:
		return fmt.Errorf("predictor: artifacts define %d classes, need at least 2", classes)
	case len(a.ValidCategories) == 0:
		return fmt.Errorf("predictor: artifacts define no valid categories")
	case len(a.ScalerMean) != features:
		return fmt.Errorf("predictor: scaler mean has %d entries, want %d", len(a.ScalerMean), features)
	case len(a.ScalerScale) != features:
		return fmt.Errorf("predictor: scaler scale has %d entries, want %d", len(a.ScalerScale), features)
	case len(a.Coefficients) != classes:
		return fmt.Errorf("predictor: coefficient matrix has %d rows, want %d", len(a.Coefficients), classes)
	case len(a.Intercepts) != classes:
		return fmt.Errorf("predictor: intercepts have %d entries, want %d", len(a.Intercepts), classes)
	}
	for i, row := range a.Coefficients {
		if len(row) != features {
			return fmt.Errorf("predictor: coefficient row %d has %d entries, want %d", i, len(row), features)
		}
	}
	for i, s := range a.ScalerScale {
		if s == 0 {
			return fmt.Errorf("predictor: scaler scale is zero for feature %s", a.FinalFeatureNames[i])
		}
	}
	if expected := len(a.FeatureColumns) + len(a.ValidCategories); features != expected {
		return fmt.Errorf("predictor: %d final features, want %d numeric + %d one-hot",
			features, len(a.FeatureColumns), len(a.ValidCategories))
	}
	return nil
}

// OtherCategory returns the rare-category bucket, by convention the last
// valid category.
func (a *Artifacts) OtherCategory() string {
	return a.ValidCategories[len(a.ValidCategories)-1]
}

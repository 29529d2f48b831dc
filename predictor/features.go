package predictor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Customer is one customer's behavior snapshot.
type Customer struct {
	// UserID identifies the customer in the output.
	UserID string

	// CurrentSubcategory is the category of the customer's latest activity.
	// Unknown values collapse into the "Other" bucket.
	CurrentSubcategory string

	// Features holds the numeric behavior columns by name.
	Features map[string]float64
}

// oneHotPrefix matches the training-time dummy column naming.
const oneHotPrefix = "current_"

// normalizeCategory maps categories outside the known set (excluding the
// "Other" bucket itself) to "Other".
func normalizeCategory(category string, artifacts *Artifacts) string {
	known := artifacts.ValidCategories[:len(artifacts.ValidCategories)-1]
	for _, valid := range known {
		if category == valid {
			return category
		}
	}
	return artifacts.OtherCategory()
}

// PrepareFeatures builds the standardized model input matrix, one row per
// customer, columns in the exact training order.
//
// Returns an error when a customer is missing a numeric feature the model
// requires; silent zero-filling there would skew every downstream score.
func PrepareFeatures(customers []Customer, artifacts *Artifacts) (*mat.Dense, error) {
	if len(customers) == 0 {
		return nil, fmt.Errorf("predictor: no customers to prepare")
	}

	rows := len(customers)
	cols := len(artifacts.FinalFeatureNames)
	features := mat.NewDense(rows, cols, nil)

	for i, customer := range customers {
		category := normalizeCategory(customer.CurrentSubcategory, artifacts)

		for j, name := range artifacts.FinalFeatureNames {
			var raw float64
			if dummy, ok := strings.CutPrefix(name, oneHotPrefix); ok && isValidCategory(dummy, artifacts) {
				if dummy == category {
					raw = 1
				}
			} else {
				value, ok := customer.Features[name]
				if !ok {
					return nil, fmt.Errorf("predictor: customer %s missing feature %q",
						customer.UserID, name)
				}
				raw = value
			}

			features.Set(i, j, (raw-artifacts.ScalerMean[j])/artifacts.ScalerScale[j])
		}
	}
	return features, nil
}

func isValidCategory(category string, artifacts *Artifacts) bool {
	for _, valid := range artifacts.ValidCategories {
		if category == valid {
			return true
		}
	}
	return false
}

// Package recommend joins purchase predictions with enhanced product
// imagery into the final per-customer recommendation file.
package recommend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"vibey_backend/predictor"
)

// LoadCustomers reads customer behavior data from a CSV file. The header
// must contain user_id, current_subcategory, and every numeric column in
// featureColumns; unknown columns are ignored.
func LoadCustomers(path string, featureColumns []string) ([]predictor.Customer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recommend: opening customer data: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("recommend: reading customer header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, required := range append([]string{"user_id", "current_subcategory"}, featureColumns...) {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("recommend: customer data missing column %q", required)
		}
	}

	var customers []predictor.Customer
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("recommend: reading customer row %d: %w", line, err)
		}

		customer := predictor.Customer{
			UserID:             record[index["user_id"]],
			CurrentSubcategory: record[index["current_subcategory"]],
			Features:           make(map[string]float64, len(featureColumns)),
		}
		for _, column := range featureColumns {
			value, err := strconv.ParseFloat(record[index[column]], 64)
			if err != nil {
				return nil, fmt.Errorf("recommend: row %d column %q: %w", line, column, err)
			}
			customer.Features[column] = value
		}
		customers = append(customers, customer)
	}

	if len(customers) == 0 {
		return nil, fmt.Errorf("recommend: customer data %s has no rows", path)
	}
	return customers, nil
}

// Recommendation pairs a prediction with the enhanced image chosen for its
// category.
type Recommendation struct {
	CustomerID        string
	PredictedCategory string
	EnhancedImagePath string
	Confidence        float64
}

// BuildRecommendations maps each prediction to its category's enhanced
// image. Categories without a dedicated image fall back to defaultImage.
func BuildRecommendations(predictions []predictor.Prediction, categoryImages map[string]string, defaultImage string) []Recommendation {
	recommendations := make([]Recommendation, len(predictions))
	for i, p := range predictions {
		image, ok := categoryImages[p.Category]
		if !ok {
			image = defaultImage
		}
		recommendations[i] = Recommendation{
			CustomerID:        p.CustomerID,
			PredictedCategory: p.Category,
			EnhancedImagePath: image,
			Confidence:        p.Confidence,
		}
	}
	return recommendations
}

// WriteRecommendations writes the final recommendation CSV.
func WriteRecommendations(path string, recommendations []Recommendation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recommend: creating output %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{
		"customer_id", "predicted_category", "enhanced_image_path", "prediction_confidence",
	}); err != nil {
		return fmt.Errorf("recommend: writing header: %w", err)
	}
	for _, r := range recommendations {
		record := []string{
			r.CustomerID,
			r.PredictedCategory,
			r.EnhancedImagePath,
			strconv.FormatFloat(r.Confidence, 'f', 6, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("recommend: writing row for %s: %w", r.CustomerID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("recommend: flushing output: %w", err)
	}
	return nil
}

package recommend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vibey_backend/predictor"
)

func writeCustomerCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "customer_data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadCustomers(t *testing.T) {
	path := writeCustomerCSV(t,
		"user_id,extra,current_subcategory,spend_score,visits\n"+
			"u1,x,pants,42.5,7\n"+
			"u2,y,hats,10,3\n")

	customers, err := LoadCustomers(path, []string{"spend_score", "visits"})
	if err != nil {
		t.Fatalf("LoadCustomers() error = %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("got %d customers, want 2", len(customers))
	}
	first := customers[0]
	if first.UserID != "u1" || first.CurrentSubcategory != "pants" {
		t.Errorf("first customer = %+v", first)
	}
	if first.Features["spend_score"] != 42.5 || first.Features["visits"] != 7 {
		t.Errorf("first features = %v", first.Features)
	}
}

func TestLoadCustomersErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing column", "user_id,current_subcategory\nu1,pants\n"},
		{"bad number", "user_id,current_subcategory,spend_score\nu1,pants,abc\n"},
		{"no rows", "user_id,current_subcategory,spend_score\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCustomerCSV(t, tt.content)
			if _, err := LoadCustomers(path, []string{"spend_score"}); err == nil {
				t.Error("bad input accepted")
			}
		})
	}
}

func TestBuildRecommendations(t *testing.T) {
	predictions := []predictor.Prediction{
		{CustomerID: "u1", Category: "pants", Confidence: 0.9},
		{CustomerID: "u2", Category: "shoes", Confidence: 0.6},
	}
	images := map[string]string{"pants": "enhanced/pants.png"}

	recommendations := BuildRecommendations(predictions, images, "enhanced/default.png")
	if recommendations[0].EnhancedImagePath != "enhanced/pants.png" {
		t.Errorf("pants image = %q", recommendations[0].EnhancedImagePath)
	}
	if recommendations[1].EnhancedImagePath != "enhanced/default.png" {
		t.Errorf("fallback image = %q", recommendations[1].EnhancedImagePath)
	}
}

func TestWriteRecommendationsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer_predictions.csv")
	recommendations := []Recommendation{
		{CustomerID: "u1", PredictedCategory: "pants", EnhancedImagePath: "a.png", Confidence: 0.875},
	}

	if err := WriteRecommendations(path, recommendations); err != nil {
		t.Fatalf("WriteRecommendations() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("output has %d lines, want 2", len(lines))
	}
	if lines[0] != "customer_id,predicted_category,enhanced_image_path,prediction_confidence" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "u1,pants,a.png,0.875000" {
		t.Errorf("row = %q", lines[1])
	}
}

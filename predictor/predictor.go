package predictor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Prediction is the inferred next purchase for one customer.
type Prediction struct {
	CustomerID string
	Category   string
	Confidence float64
}

// Predictor scores customers with the trained multinomial logit model.
type Predictor struct {
	artifacts    *Artifacts
	coefficients *mat.Dense // classes x features
	intercepts   *mat.VecDense
}

// NewPredictor creates a Predictor from validated artifacts.
func NewPredictor(artifacts *Artifacts) (*Predictor, error) {
	if artifacts == nil {
		return nil, fmt.Errorf("predictor: artifacts cannot be nil")
	}
	if err := artifacts.Validate(); err != nil {
		return nil, err
	}

	classes := len(artifacts.ClassLabels)
	features := len(artifacts.FinalFeatureNames)
	coefficients := mat.NewDense(classes, features, nil)
	for i, row := range artifacts.Coefficients {
		coefficients.SetRow(i, row)
	}
	return &Predictor{
		artifacts:    artifacts,
		coefficients: coefficients,
		intercepts:   mat.NewVecDense(classes, artifacts.Intercepts),
	}, nil
}

// LoadPredictor reads artifacts from path and builds a Predictor.
func LoadPredictor(path string) (*Predictor, error) {
	artifacts, err := LoadArtifacts(path)
	if err != nil {
		return nil, err
	}
	return NewPredictor(artifacts)
}

// Artifacts exposes the loaded model artifacts.
func (p *Predictor) Artifacts() *Artifacts {
	return p.artifacts
}

// PredictBatch scores every customer and returns the most likely category
// with its softmax confidence.
func (p *Predictor) PredictBatch(customers []Customer) ([]Prediction, error) {
	features, err := PrepareFeatures(customers, p.artifacts)
	if err != nil {
		return nil, err
	}

	// logits = X * W^T, then the per-class intercepts.
	rows, _ := features.Dims()
	classes := len(p.artifacts.ClassLabels)
	var logits mat.Dense
	logits.Mul(features, p.coefficients.T())

	predictions := make([]Prediction, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, classes)
		for j := 0; j < classes; j++ {
			row[j] = logits.At(i, j) + p.intercepts.AtVec(j)
		}
		probs := softmax(row)

		best := 0
		for j := 1; j < classes; j++ {
			if probs[j] > probs[best] {
				best = j
			}
		}
		predictions[i] = Prediction{
			CustomerID: customers[i].UserID,
			Category:   p.artifacts.ClassLabels[best],
			Confidence: probs[best],
		}
	}
	return predictions, nil
}

// PredictSingle scores one customer.
func (p *Predictor) PredictSingle(customer Customer) (Prediction, error) {
	predictions, err := p.PredictBatch([]Customer{customer})
	if err != nil {
		return Prediction{}, err
	}
	return predictions[0], nil
}

// softmax converts logits to probabilities. Subtracting the max keeps the
// exponentials from overflowing.
func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

package classify

import "context"

// Package classify defines the document classifier boundary. The real model
// is an external collaborator; this package fixes its contract and ships a
// deterministic keyword classifier used as the fallback when the model is
// unavailable or reports failure.

// Result is a classifier verdict over a piece of text. A failed
// classification is a value, not an error: IsSuccessful is false and
// Confidence is zero.
type Result struct {
	IsSuccessful bool               `json:"is_successful"`
	Label        string             `json:"label"`
	Confidence   float64            `json:"confidence"`
	Predictions  map[string]float64 `json:"predictions,omitempty"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

// Classifier assigns a document type label to text.
type Classifier interface {
	// Classify scores the text against the known labels. An error indicates
	// the classifier itself is unavailable; an unsuccessful Result indicates
	// it ran but could not produce a prediction.
	Classify(ctx context.Context, text string) (Result, error)
}

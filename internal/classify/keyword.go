package classify

import (
	"context"
	"sort"
	"strings"
)

// unknownLabel is returned when no category keyword matches.
const unknownLabel = "Unknown"

// DefaultCategories maps type labels to the keyword sets the fallback
// classifier scores against. Labels use the normalized type-name form so they
// can be matched directly against stored document types.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"invoice":  {"invoice", "amount due", "bill to", "payment", "subtotal", "invoice number"},
		"contract": {"agreement", "contract", "party", "parties", "hereby", "terms and conditions"},
		"report":   {"report", "summary", "analysis", "findings", "conclusion", "quarterly"},
		"letter":   {"dear", "sincerely", "regards", "yours faithfully"},
		"resume":   {"experience", "education", "skills", "employment history", "curriculum vitae"},
	}
}

// keywordClassifier scores text by counting keyword occurrences per category.
// It is deterministic and has no external dependencies, which makes it a safe
// degradation target when the real model is unreachable.
type keywordClassifier struct {
	categories map[string][]string
}

// NewKeyword creates a keyword classifier over the given categories. Pass nil
// to use DefaultCategories.
func NewKeyword(categories map[string][]string) Classifier {
	if categories == nil {
		categories = DefaultCategories()
	}
	return &keywordClassifier{categories: categories}
}

var _ Classifier = (*keywordClassifier)(nil)

func (c *keywordClassifier) Classify(_ context.Context, text string) (Result, error) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return Result{
			IsSuccessful: false,
			Label:        unknownLabel,
			ErrorMessage: "no text to classify",
		}, nil
	}

	hits := make(map[string]float64, len(c.categories))
	var total float64
	for label, keywords := range c.categories {
		var score float64
		for _, kw := range keywords {
			score += float64(strings.Count(lower, kw))
		}
		if score > 0 {
			hits[label] = score
			total += score
		}
	}

	if total == 0 {
		return Result{
			IsSuccessful: false,
			Label:        unknownLabel,
			ErrorMessage: "no category keywords matched",
		}, nil
	}

	predictions := make(map[string]float64, len(hits))
	for label, score := range hits {
		predictions[label] = score / total
	}

	// Deterministic winner: highest share, ties broken alphabetically.
	labels := make([]string, 0, len(predictions))
	for label := range predictions {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if predictions[labels[i]] != predictions[labels[j]] {
			return predictions[labels[i]] > predictions[labels[j]]
		}
		return labels[i] < labels[j]
	})

	top := labels[0]
	return Result{
		IsSuccessful: true,
		Label:        top,
		Confidence:   predictions[top],
		Predictions:  predictions,
	}, nil
}

package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier_Classify(t *testing.T) {
	c := NewKeyword(nil)
	ctx := context.Background()

	t.Run("invoice text", func(t *testing.T) {
		res, err := c.Classify(ctx, "Invoice number INV-001. Amount due: $400. Bill to: ACME Corp. Payment within 30 days.")

		require.NoError(t, err)
		assert.True(t, res.IsSuccessful)
		assert.Equal(t, "invoice", res.Label)
		assert.Greater(t, res.Confidence, 0.5)
	})

	t.Run("contract text", func(t *testing.T) {
		res, err := c.Classify(ctx, "This agreement is made between the parties, who hereby accept the terms and conditions of this contract.")

		require.NoError(t, err)
		assert.True(t, res.IsSuccessful)
		assert.Equal(t, "contract", res.Label)
	})

	t.Run("empty text is a failed result, not an error", func(t *testing.T) {
		res, err := c.Classify(ctx, "   ")

		require.NoError(t, err)
		assert.False(t, res.IsSuccessful)
		assert.Equal(t, "Unknown", res.Label)
		assert.Zero(t, res.Confidence)
	})

	t.Run("no keyword match", func(t *testing.T) {
		res, err := c.Classify(ctx, "zxqv bnmp wrtl")

		require.NoError(t, err)
		assert.False(t, res.IsSuccessful)
		assert.Equal(t, "Unknown", res.Label)
	})

	t.Run("prediction shares sum to one", func(t *testing.T) {
		res, err := c.Classify(ctx, "quarterly report with a summary of findings and an invoice for the analysis")

		require.NoError(t, err)
		require.True(t, res.IsSuccessful)
		var sum float64
		for _, p := range res.Predictions {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("deterministic tie break", func(t *testing.T) {
		cc := NewKeyword(map[string][]string{
			"alpha": {"shared"},
			"beta":  {"shared"},
		})
		res, err := cc.Classify(ctx, "shared")

		require.NoError(t, err)
		assert.Equal(t, "alpha", res.Label)
	})
}

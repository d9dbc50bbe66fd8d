package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptionSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"ACH Payment - Utilities", "Utilities Payment", 100.0 / 3 * 2},
		{"identical text", "identical text", 100},
		{"IDENTICAL TEXT", "identical text", 100},
		{"alpha beta", "gamma delta", 0},
		{"", "anything", 0},
		{"anything", "", 0},
		{"", "", 0},
		{"wire, transfer.", "wire transfer", 100},
		{"one two three four", "one", 25},
	}
	for _, tt := range tests {
		got := DescriptionSimilarity(tt.a, tt.b)
		assert.InDelta(t, tt.want, got, 0.001, "a=%q b=%q", tt.a, tt.b)
	}
}

// Punctuation-only tokens vanish entirely rather than counting toward the
// set sizes.
func TestDescriptionSimilarityPunctuation(t *testing.T) {
	got := DescriptionSimilarity("a - b", "a b")
	assert.InDelta(t, 100, got, 0.001)
}

func TestDescriptionSimilaritySymmetric(t *testing.T) {
	a, b := "acme corp invoice 4417", "invoice 4417 acme"
	assert.Equal(t, DescriptionSimilarity(a, b), DescriptionSimilarity(b, a))
}

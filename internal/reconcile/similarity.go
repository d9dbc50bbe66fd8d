package reconcile

import "strings"

// DescriptionSimilarity returns a 0-100 score for two descriptions: the
// number of shared tokens divided by the larger token-set size. Tokens are
// lowercase, whitespace-split, and stripped of surrounding punctuation, so
// "ACH Payment - Utilities" and "Utilities Payment" share two of three.
func DescriptionSimilarity(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	common := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common++
		}
	}

	larger := len(ta)
	if len(tb) > larger {
		larger = len(tb)
	}
	return float64(common) / float64(larger) * 100
}

func tokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(s)) {
		tok := strings.TrimFunc(field, func(r rune) bool {
			return !isAlnum(r)
		})
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r >= 'A' && r <= 'Z'
}

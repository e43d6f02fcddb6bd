// Package providers holds logic shared by the external nutrition source
// clients, chiefly candidate disambiguation for multi-result responses.
package providers

import "strings"

// Candidate is one entry of a provider's search response, reduced to what
// scoring needs.
type Candidate struct {
	Description string
	// Canonical marks provider-flagged high-quality datasets (for example
	// USDA Foundation foods) and earns a scoring bonus.
	Canonical bool
}

// BestMatch scores candidates against the query and returns the index of the
// highest-scoring one. Scoring: +1 per query word contained in the
// description, +5 when the verbatim query appears, +1 for the canonical
// flag on candidates that already matched on relevance. A best score of 0
// means no usable match; the canonical flag alone never makes a match.
func BestMatch(query string, candidates []Candidate) (int, bool) {
	q := strings.ToLower(query)
	words := strings.Fields(q)

	bestIdx, bestScore := -1, 0
	for i, c := range candidates {
		desc := strings.ToLower(c.Description)

		score := 0
		for _, w := range words {
			if strings.Contains(desc, w) {
				score++
			}
		}
		if strings.Contains(desc, q) {
			score += 5
		}
		if c.Canonical && score > 0 {
			score++
		}

		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestScore == 0 {
		return -1, false
	}
	return bestIdx, true
}

package utils

import "strings"

// NameSimilarity computes a normalized word-overlap score between two names.
// A word counts as matched when it appears as a substring of some word of
// the other name, or contains it. The score is the matched-word count over
// max(word count of either name), evaluated in both directions and taking
// the larger, so it lies in [0,1], is symmetric under argument swap, and
// equals 1.0 for identical names up to case and whitespace.
func NameSimilarity(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(strings.TrimSpace(a)))
	wordsB := strings.Fields(strings.ToLower(strings.TrimSpace(b)))

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	denom := len(wordsA)
	if len(wordsB) > denom {
		denom = len(wordsB)
	}

	forward := matchedWords(wordsA, wordsB)
	backward := matchedWords(wordsB, wordsA)
	matched := forward
	if backward > matched {
		matched = backward
	}

	return float64(matched) / float64(denom)
}

func matchedWords(from, to []string) int {
	matched := 0
	for _, w := range from {
		for _, other := range to {
			if strings.Contains(other, w) || strings.Contains(w, other) {
				matched++
				break
			}
		}
	}
	return matched
}

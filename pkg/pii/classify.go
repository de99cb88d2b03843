package pii

import "strings"

// classifyMatchThreshold is the similarity (percent) a document word must
// reach against a rule keyword to count toward that rule's score.
const classifyMatchThreshold = 80.0

// MinClassificationScore is the keyword score below which a document is
// left unclassified.
const MinClassificationScore = 5

// Similarity returns a 0-100 ratio of how alike two strings are, based on
// the length of their longest common subsequence relative to their combined
// length.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 200 * float64(lcsLength(a, b)) / float64(len(a)+len(b))
}

// lcsLength computes the longest-common-subsequence length with a rolling
// single-row table.
func lcsLength(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				row[j] = prev[j-1] + 1
			} else if prev[j] >= row[j-1] {
				row[j] = prev[j]
			} else {
				row[j] = row[j-1]
			}
		}
		prev, row = row, prev
	}
	return prev[len(b)]
}

// ClassifyKeywords scores the document's word list against every rule's
// keyword list and returns the best-scoring rule name with its score.
// A word counts toward a rule when it is at least 80% similar to one of the
// rule's keywords. The label is empty when the best score falls below
// MinClassificationScore.
func ClassifyKeywords(rs *RuleSet, words []string) (label string, score int) {
	cleaned := make([]string, len(words))
	for i, w := range words {
		cleaned[i] = cleanWord(w)
	}

	best := ""
	bestScore := 0
	for _, rule := range rs.rules {
		if len(rule.Keywords) == 0 {
			continue
		}
		count := 0
		for _, w := range cleaned {
			for _, kw := range rule.Keywords {
				if Similarity(w, strings.ToLower(kw)) > classifyMatchThreshold {
					count++
					break
				}
			}
		}
		if count > bestScore {
			best, bestScore = rule.Name, count
		}
	}

	if bestScore < MinClassificationScore {
		return "", bestScore
	}
	return best, bestScore
}

// cleanWord lower-cases a word and strips the punctuation that keyword
// comparison ignores.
func cleanWord(w string) string {
	w = strings.ToLower(w)
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '\'', '-', '_', ',':
			return -1
		}
		return r
	}, w)
}

package pii

import (
	"regexp"
	"strings"

	"github.com/redactkit/redactkit/pkg/ocr"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Detect runs every rule in the set over the document text and returns the
// detected values grouped by category. Values are deduplicated on their
// normalized form; the first spelling encountered is kept, so the original
// casing and spacing survives into results.
//
// Identifier rules additionally run over a whitespace-collapsed and a
// digits-only variant of the text, which recovers numbers OCR split across
// words or interleaved with noise.
func Detect(text string, rs *RuleSet) Detection {
	var det Detection
	seen := map[Category]map[string]bool{
		CategoryEmail:      {},
		CategoryPhone:      {},
		CategoryIdentifier: {},
		CategoryAddress:    {},
	}

	variants := identifierVariants(text)

	for _, rule := range rs.rules {
		texts := []string{text}
		if rule.Category == CategoryIdentifier {
			texts = variants
		}
		for _, t := range texts {
			for _, match := range rule.re.FindAllString(t, -1) {
				match = strings.TrimSpace(match)
				norm := ocr.Normalize(match)
				if norm == "" || seen[rule.Category][norm] {
					continue
				}
				seen[rule.Category][norm] = true
				switch rule.Category {
				case CategoryEmail:
					det.Emails = append(det.Emails, match)
				case CategoryPhone:
					det.Phones = append(det.Phones, match)
				case CategoryIdentifier:
					det.Identifiers = append(det.Identifiers, Identifier{Value: match, Label: rule.Name})
				case CategoryAddress:
					det.Addresses = append(det.Addresses, match)
				}
			}
		}
	}
	return det
}

// identifierVariants builds the alternative texts the identifier scan runs
// over: the raw text, the text with whitespace runs removed, and a
// digits-only rendering. Duplicates are dropped.
func identifierVariants(text string) []string {
	variants := []string{text}

	collapsed := whitespaceRun.ReplaceAllString(text, "")
	if collapsed != text {
		variants = append(variants, collapsed)
	}

	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if d := digits.String(); d != "" && d != collapsed {
		variants = append(variants, d)
	}

	return variants
}

// Tokenize splits text into the word list keyword classification consumes,
// dropping fragments shorter than two characters.
func Tokenize(text string) []string {
	var words []string
	for _, w := range strings.Fields(text) {
		if len(w) >= 2 {
			words = append(words, w)
		}
	}
	return words
}

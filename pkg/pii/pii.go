// Package pii defines the PII rule table and the regex detection pass that
// produces the value lists the resolution engine locates.
//
// A RuleSet is an explicit configuration object: it is constructed once at
// startup (from built-in defaults or a YAML file) and passed into whatever
// needs it — there is no ambient global rule state. Each rule pairs a
// category (email, phone, identifier, address) with a pattern; identifier
// rules additionally carry a region and the keyword list used for document
// classification.
//
// Main Functions:
//
// - DefaultRules / LoadRules: construct a RuleSet
// - Detect: run every rule over a document's text
// - ClassifyKeywords: score the document against each rule's keyword list
// - FindAllOccurrences: the shared find-value-in-text primitive
package pii

import "strings"

// Category groups PII values by kind.
type Category string

// Categories emitted by the detection layer.
const (
	CategoryEmail      Category = "email"
	CategoryPhone      Category = "phone"
	CategoryIdentifier Category = "identifier"
	CategoryAddress    Category = "address"
)

// Value is one detected PII string. Label carries the identifier
// sub-classification (the matching rule's name) and is passed through
// unchanged; it is empty for non-identifier categories.
type Value struct {
	Text     string
	Category Category
	Label    string
}

// Identifier is a detected identity-document number with the rule that
// matched it.
type Identifier struct {
	Value string
	Label string
}

// Detection holds everything the regex pass found in one document,
// grouped by category.
type Detection struct {
	Emails      []string
	Phones      []string
	Identifiers []Identifier
	Addresses   []string
}

// Values flattens the detection into a single ordered list.
func (d Detection) Values() []Value {
	out := make([]Value, 0, len(d.Emails)+len(d.Phones)+len(d.Identifiers)+len(d.Addresses))
	for _, e := range d.Emails {
		out = append(out, Value{Text: e, Category: CategoryEmail})
	}
	for _, p := range d.Phones {
		out = append(out, Value{Text: p, Category: CategoryPhone})
	}
	for _, id := range d.Identifiers {
		out = append(out, Value{Text: id.Value, Category: CategoryIdentifier, Label: id.Label})
	}
	for _, a := range d.Addresses {
		out = append(out, Value{Text: a, Category: CategoryAddress})
	}
	return out
}

// Empty reports whether nothing was detected.
func (d Detection) Empty() bool {
	return len(d.Emails) == 0 && len(d.Phones) == 0 &&
		len(d.Identifiers) == 0 && len(d.Addresses) == 0
}

// FindAllOccurrences returns the start index of every non-overlapping
// occurrence of needle in haystack. It is the single occurrence-search
// primitive shared by all categories; an empty needle matches nothing.
func FindAllOccurrences(needle, haystack string) []int {
	if needle == "" {
		return nil
	}
	var out []int
	offset := 0
	for {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			return out
		}
		out = append(out, offset+i)
		offset += i + len(needle)
	}
}

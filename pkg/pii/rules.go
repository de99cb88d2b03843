package pii

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule defines one detectable PII pattern.
type Rule struct {
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	Region   string   `yaml:"region,omitempty"`
	Pattern  string   `yaml:"pattern"`
	Keywords []string `yaml:"keywords,omitempty"`
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// RuleSet is a compiled, immutable collection of rules. Construct it once
// at startup and pass it to the detection and classification passes.
type RuleSet struct {
	rules []compiledRule
}

// Compile builds a RuleSet from rule definitions, validating every pattern.
func Compile(rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		if r.Name == "" || r.Pattern == "" {
			return nil, fmt.Errorf("pii: rule needs a name and a pattern (got name=%q)", r.Name)
		}
		switch r.Category {
		case CategoryEmail, CategoryPhone, CategoryIdentifier, CategoryAddress:
		default:
			return nil, fmt.Errorf("pii: rule %q has unknown category %q", r.Name, r.Category)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pii: rule %q: %w", r.Name, err)
		}
		rs.rules = append(rs.rules, compiledRule{Rule: r, re: re})
	}
	return rs, nil
}

// LoadRules reads rule definitions from a YAML file and compiles them.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pii: read rules: %w", err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("pii: parse rules: %w", err)
	}
	return Compile(rules)
}

// Rules returns the rule definitions in the set.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.Rule
	}
	return out
}

// DefaultRules returns the built-in rule table covering the common
// structured PII formats plus the regional identity-document numbers the
// engine is most often pointed at.
func DefaultRules() *RuleSet {
	rs, err := Compile(defaultRules)
	if err != nil {
		// Built-in patterns are compile-checked by tests; reaching this
		// means the table itself is broken.
		panic(err)
	}
	return rs
}

var defaultRules = []Rule{
	{
		Name:     "Email",
		Category: CategoryEmail,
		Pattern:  `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`,
		Keywords: []string{"email", "e-mail", "mail"},
	},
	{
		Name:     "Phone Number",
		Category: CategoryPhone,
		Pattern:  `(?:\+?\d{1,3}[\-.\s]?)?\(?\d{3,5}\)?[\-.\s]?\d{3,4}[\-.\s]?\d{4}\b`,
		Keywords: []string{"phone", "mobile", "tel", "telephone", "contact"},
	},
	{
		Name:     "Aadhaar Card",
		Category: CategoryIdentifier,
		Region:   "India",
		Pattern:  `\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`,
		Keywords: []string{"aadhaar", "uidai", "unique", "identification", "government", "india", "enrollment"},
	},
	{
		Name:     "PAN Card",
		Category: CategoryIdentifier,
		Region:   "India",
		Pattern:  `\b[A-Z]{5}\d{4}[A-Z]\b`,
		Keywords: []string{"pan", "permanent", "account", "income", "tax", "department", "india"},
	},
	{
		Name:     "SSN",
		Category: CategoryIdentifier,
		Region:   "US",
		Pattern:  `\b\d{3}\-?\d{2}\-?\d{4}\b`,
		Keywords: []string{"social", "security", "ssn", "united", "states"},
	},
	{
		Name:     "Credit Card",
		Category: CategoryIdentifier,
		Region:   "Global",
		Pattern:  `\b(?:\d{4}[\-\s]?){3}\d{4}\b`,
		Keywords: []string{"credit", "debit", "card", "visa", "mastercard", "valid", "expiry"},
	},
	{
		Name:     "Street Address",
		Category: CategoryAddress,
		Pattern:  `\d+\s+[A-Za-z][A-Za-z\s]*(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Nagar|Marg)\b`,
		Keywords: []string{"address", "street", "city", "state", "residence"},
	},
}

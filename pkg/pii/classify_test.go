package pii

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"aadhaar", "aadhaar", 100},
		{"", "", 100},
		{"abc", "", 0},
		{"abcd", "wxyz", 0},
	}
	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	// OCR-mangled keyword still counts as a near match.
	if got := Similarity("identifcation", "identification"); got <= classifyMatchThreshold {
		t.Errorf("Similarity(identifcation, identification) = %v, want > %v", got, classifyMatchThreshold)
	}
}

func TestClassifyKeywords(t *testing.T) {
	words := Tokenize("Government of India Unique Identification Authority Aadhaar Enrollment No")
	label, score := ClassifyKeywords(DefaultRules(), words)
	if label != "Aadhaar Card" {
		t.Errorf("label = %q, want Aadhaar Card (score %d)", label, score)
	}
	if score < MinClassificationScore {
		t.Errorf("score = %d, want >= %d", score, MinClassificationScore)
	}
}

func TestClassifyKeywordsBelowThreshold(t *testing.T) {
	label, score := ClassifyKeywords(DefaultRules(), Tokenize("quarterly revenue projections attached"))
	if label != "" {
		t.Errorf("label = %q (score %d), want unclassified", label, score)
	}
}

func TestCleanWord(t *testing.T) {
	if got := cleanWord("Aadhaar,"); got != "aadhaar" {
		t.Errorf("cleanWord = %q, want aadhaar", got)
	}
}

package pii

import (
	"testing"
)

func TestDetectEmail(t *testing.T) {
	det := Detect("Please contact jane.doe@example.com for details.", DefaultRules())
	if len(det.Emails) != 1 || det.Emails[0] != "jane.doe@example.com" {
		t.Errorf("Emails = %v, want [jane.doe@example.com]", det.Emails)
	}
}

func TestDetectAadhaar(t *testing.T) {
	det := Detect("Aadhaar No: 9999 0000 1111", DefaultRules())
	found := false
	for _, id := range det.Identifiers {
		if id.Value == "9999 0000 1111" && id.Label == "Aadhaar Card" {
			found = true
		}
	}
	if !found {
		t.Errorf("Identifiers = %v, want 9999 0000 1111 classified as Aadhaar Card", det.Identifiers)
	}
}

func TestDetectDeduplicatesAcrossVariants(t *testing.T) {
	// The collapsed and digits-only variants re-match the same number; only
	// the first spelling must survive.
	det := Detect("ID 9999 0000 1111 on file", DefaultRules())
	count := 0
	for _, id := range det.Identifiers {
		if id.Label == "Aadhaar Card" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d Aadhaar identifiers, want exactly 1 after dedupe: %v", count, det.Identifiers)
	}
}

func TestDetectSplitDigitsViaVariants(t *testing.T) {
	// OCR noise between digit groups: only the digits-only variant can see
	// the full 12-digit number.
	det := Detect("99 99 | 00 00 | 11 11", DefaultRules())
	found := false
	for _, id := range det.Identifiers {
		if id.Label == "Aadhaar Card" {
			found = true
		}
	}
	if !found {
		t.Errorf("Identifiers = %v, want an Aadhaar match from the digits-only variant", det.Identifiers)
	}
}

func TestDetectPAN(t *testing.T) {
	det := Detect("PAN: ABCDE1234F", DefaultRules())
	found := false
	for _, id := range det.Identifiers {
		if id.Value == "ABCDE1234F" && id.Label == "PAN Card" {
			found = true
		}
	}
	if !found {
		t.Errorf("Identifiers = %v, want ABCDE1234F classified as PAN Card", det.Identifiers)
	}
}

func TestDetectAddress(t *testing.T) {
	det := Detect("Ship to 221 Baker Street, London", DefaultRules())
	if len(det.Addresses) != 1 {
		t.Fatalf("Addresses = %v, want one entry", det.Addresses)
	}
}

func TestDetectEmptyText(t *testing.T) {
	det := Detect("", DefaultRules())
	if !det.Empty() {
		t.Errorf("Detect(\"\") = %+v, want empty detection", det)
	}
}

func TestDetectionValues(t *testing.T) {
	det := Detection{
		Emails:      []string{"a@b.com"},
		Identifiers: []Identifier{{Value: "ABCDE1234F", Label: "PAN Card"}},
	}
	values := det.Values()
	if len(values) != 2 {
		t.Fatalf("got %d values, want 2", len(values))
	}
	if values[0].Category != CategoryEmail || values[1].Category != CategoryIdentifier {
		t.Errorf("categories = %v/%v", values[0].Category, values[1].Category)
	}
	if values[1].Label != "PAN Card" {
		t.Errorf("identifier label = %q, want PAN Card", values[1].Label)
	}
}

func TestFindAllOccurrences(t *testing.T) {
	got := FindAllOccurrences("ab", "ab cd ab ab")
	want := []int{0, 6, 9}
	if len(got) != len(want) {
		t.Fatalf("FindAllOccurrences = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("occurrence %d = %d, want %d", i, got[i], want[i])
		}
	}
	if FindAllOccurrences("", "abc") != nil {
		t.Error("empty needle should match nothing")
	}
}

func TestTokenize(t *testing.T) {
	words := Tokenize("a bb  ccc\nd ee")
	want := []string{"bb", "ccc", "ee"}
	if len(words) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", words, want)
	}
}

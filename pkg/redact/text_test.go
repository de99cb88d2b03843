package redact

import (
	"errors"
	"testing"

	"github.com/redactkit/redactkit/pkg/resolve"
)

func TestMaskText(t *testing.T) {
	text := "a@b.com and 999-99-9999"
	spans := []resolve.Span{
		{Start: 0, End: 7},
		{Start: 12, End: 23},
	}
	got, err := MaskText(text, spans, '*')
	if err != nil {
		t.Fatalf("MaskText: %v", err)
	}
	if want := "******* and ***********"; got != want {
		t.Errorf("masked = %q, want %q", got, want)
	}
	if len(got) != len(text) {
		t.Errorf("length changed: %d -> %d", len(text), len(got))
	}
}

func TestMaskTextOrderIndependent(t *testing.T) {
	text := "one two three"
	forward := []resolve.Span{{Start: 0, End: 3}, {Start: 8, End: 13}}
	backward := []resolve.Span{{Start: 8, End: 13}, {Start: 0, End: 3}}

	a, err := MaskText(text, forward, '█')
	if err != nil {
		t.Fatal(err)
	}
	b, err := MaskText(text, backward, '█')
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("span order changed output: %q vs %q", a, b)
	}
	if want := "███ two █████"; a != want {
		t.Errorf("masked = %q, want %q", a, want)
	}
}

func TestMaskTextNoSpans(t *testing.T) {
	got, err := MaskText("untouched", nil, '*')
	if err != nil || got != "untouched" {
		t.Errorf("MaskText = %q, %v", got, err)
	}
}

func TestMaskTextOverlapRejected(t *testing.T) {
	_, err := MaskText("abcdefghij", []resolve.Span{{Start: 0, End: 5}, {Start: 4, End: 8}}, '*')
	if !errors.Is(err, ErrOverlappingSpans) {
		t.Errorf("err = %v, want ErrOverlappingSpans", err)
	}
}

func TestMaskTextOutOfRange(t *testing.T) {
	tests := []resolve.Span{
		{Start: -1, End: 3},
		{Start: 2, End: 100},
		{Start: 5, End: 5},
	}
	for _, s := range tests {
		if _, err := MaskText("abcdefghij", []resolve.Span{s}, '*'); err == nil {
			t.Errorf("span %+v accepted", s)
		}
	}
}

package redact

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/redactkit/redactkit/pkg/ocr"
	"github.com/redactkit/redactkit/pkg/pii"
	"github.com/redactkit/redactkit/pkg/resolve"
	"github.com/redactkit/redactkit/pkg/scan"
)

func TestApplyText(t *testing.T) {
	text := "contact: a@b.com here"
	rep := scan.Report{
		FilePath: "letter.txt",
		Locations: []scan.Entry{
			{
				Value:    "a@b.com",
				Category: pii.CategoryEmail,
				Location: &scan.Location{Span: &resolve.Span{Start: 9, End: 16}},
			},
			{
				Value:    "999-99-9999",
				Category: pii.CategoryIdentifier,
				Label:    "SSN",
				// Never located: stays in the text.
			},
		},
	}

	masked, audit, err := ApplyText(text, rep, DefaultConfig())
	if err != nil {
		t.Fatalf("ApplyText: %v", err)
	}
	if strings.Contains(masked, "a@b.com") {
		t.Errorf("masked text still contains the value: %q", masked)
	}
	if !strings.HasPrefix(masked, "contact: ") || !strings.HasSuffix(masked, " here") {
		t.Errorf("surrounding text damaged: %q", masked)
	}
	if audit.Redacted != 1 || audit.Unresolved != 1 || audit.Skipped != 0 {
		t.Errorf("audit counts = %d/%d/%d, want 1/1/0", audit.Redacted, audit.Unresolved, audit.Skipped)
	}
	if audit.Entries[1].Status != StatusUnresolved {
		t.Errorf("unlocated entry status = %q", audit.Entries[1].Status)
	}
}

func TestApplyTextDualCategoryValue(t *testing.T) {
	// A 12-digit number matches both the phone and the Aadhaar rule, so
	// the report carries the same span under two categories. Both entries
	// are audited; the text is masked once, without an overlap error.
	text := "Aadhaar Number: 9999 0000 1111 on file"
	span := resolve.Span{Start: 16, End: 30}
	rep := scan.Report{
		FilePath: "doc.txt",
		Locations: []scan.Entry{
			{
				Value:    "9999 0000 1111",
				Category: pii.CategoryPhone,
				Location: &scan.Location{Span: &span},
			},
			{
				Value:    "9999 0000 1111",
				Category: pii.CategoryIdentifier,
				Label:    "Aadhaar Card",
				Location: &scan.Location{Span: &span},
			},
		},
	}

	masked, audit, err := ApplyText(text, rep, DefaultConfig())
	if err != nil {
		t.Fatalf("ApplyText: %v", err)
	}
	if strings.Contains(masked, "9999 0000 1111") {
		t.Errorf("masked text still contains the value: %q", masked)
	}
	if !strings.HasPrefix(masked, "Aadhaar Number: ") || !strings.HasSuffix(masked, " on file") {
		t.Errorf("surrounding text damaged: %q", masked)
	}
	if audit.Redacted != 2 || audit.Unresolved != 0 || audit.Skipped != 0 {
		t.Errorf("audit counts = %d/%d/%d, want 2/0/0", audit.Redacted, audit.Unresolved, audit.Skipped)
	}
}

func TestApplyTextOverlappingSpans(t *testing.T) {
	rep := scan.Report{
		FilePath: "doc.txt",
		Locations: []scan.Entry{
			{
				Value:    "ABCDE",
				Category: pii.CategoryIdentifier,
				Location: &scan.Location{Span: &resolve.Span{Start: 0, End: 5}},
			},
			{
				Value:    "DEFGH",
				Category: pii.CategoryIdentifier,
				Location: &scan.Location{Span: &resolve.Span{Start: 3, End: 8}},
			},
		},
	}

	masked, audit, err := ApplyText("ABCDEFGH tail", rep, DefaultConfig())
	if err != nil {
		t.Fatalf("ApplyText: %v", err)
	}
	if strings.ContainsAny(masked, "ABCDEFGH") {
		t.Errorf("overlapping spans left value text behind: %q", masked)
	}
	if !strings.HasSuffix(masked, " tail") {
		t.Errorf("text beyond the merged span damaged: %q", masked)
	}
	if audit.Redacted != 2 {
		t.Errorf("audit.Redacted = %d, want 2", audit.Redacted)
	}
}

func TestMergeSpans(t *testing.T) {
	tests := []struct {
		name string
		in   []resolve.Span
		want []resolve.Span
	}{
		{"nil", nil, nil},
		{"single", []resolve.Span{{Start: 1, End: 4}}, []resolve.Span{{Start: 1, End: 4}}},
		{"duplicates", []resolve.Span{{Start: 16, End: 30}, {Start: 16, End: 30}}, []resolve.Span{{Start: 16, End: 30}}},
		{"overlap", []resolve.Span{{Start: 3, End: 8}, {Start: 0, End: 5}}, []resolve.Span{{Start: 0, End: 8}}},
		{"contained", []resolve.Span{{Start: 0, End: 10}, {Start: 2, End: 4}}, []resolve.Span{{Start: 0, End: 10}}},
		{"disjoint", []resolve.Span{{Start: 5, End: 7}, {Start: 0, End: 2}}, []resolve.Span{{Start: 0, End: 2}, {Start: 5, End: 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeSpans(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("mergeSpans(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mergeSpans(%v) = %v, want %v", tt.in, got, tt.want)
					break
				}
			}
		})
	}
}

func TestApplyTextConfidenceThreshold(t *testing.T) {
	rep := scan.Report{
		FilePath: "letter.txt",
		Locations: []scan.Entry{
			{
				Value:    "42 Elm Street",
				Category: pii.CategoryAddress,
				Location: &scan.Location{Span: &resolve.Span{Start: 0, End: 13}},
			},
		},
	}
	cfg := DefaultConfig()
	cfg.ConfidenceThreshold = 0.9

	masked, audit, err := ApplyText("42 Elm Street, Springfield", rep, cfg)
	if err != nil {
		t.Fatalf("ApplyText: %v", err)
	}
	if !strings.Contains(masked, "42 Elm Street") {
		t.Errorf("low-confidence value was masked: %q", masked)
	}
	if audit.Skipped != 1 || audit.Redacted != 0 {
		t.Errorf("audit counts = %+v", audit)
	}
}

func TestApplyImage(t *testing.T) {
	src := whiteImage(100, 50)
	rep := scan.Report{
		FilePath: "scan.png",
		Locations: []scan.Entry{
			{
				Value:    "9999 0000 1111",
				Category: pii.CategoryIdentifier,
				Label:    "Aadhaar Card",
				Location: &scan.Location{Region: &ocr.Region{X: 10, Y: 10, Width: 20, Height: 10}},
			},
			{
				Value:    "jane@example.com",
				Category: pii.CategoryEmail,
			},
		},
	}

	out, audit, err := ApplyImage(src, 0, rep, noPaddingConfig(MethodBlackbox))
	if err != nil {
		t.Fatalf("ApplyImage: %v", err)
	}
	if c := out.RGBAAt(15, 12); c.R != 0 {
		t.Errorf("region pixel = %v, want black", c)
	}
	if audit.Redacted != 1 || audit.Unresolved != 1 {
		t.Errorf("audit counts = %d/%d, want 1/1", audit.Redacted, audit.Unresolved)
	}
	if audit.Entries[0].Method != MethodBlackbox {
		t.Errorf("entry method = %q", audit.Entries[0].Method)
	}
}

func TestApplyImageSharedRegion(t *testing.T) {
	// Two categories resolving to the same region must paint it exactly
	// once. Blur is not idempotent, so a double application would differ
	// from a single one.
	src := whiteImage(60, 60)
	draw.Draw(src, image.Rect(20, 20, 30, 30), image.NewUniform(color.Black), image.Point{}, draw.Src)

	region := ocr.Region{X: 10, Y: 10, Width: 40, Height: 40}
	rep := scan.Report{
		FilePath: "scan.png",
		Locations: []scan.Entry{
			{
				Value:    "9999 0000 1111",
				Category: pii.CategoryPhone,
				Location: &scan.Location{Region: &region},
			},
			{
				Value:    "9999 0000 1111",
				Category: pii.CategoryIdentifier,
				Label:    "Aadhaar Card",
				Location: &scan.Location{Region: &region},
			},
		},
	}
	cfg := noPaddingConfig(MethodBlur)

	out, audit, err := ApplyImage(src, 0, rep, cfg)
	if err != nil {
		t.Fatalf("ApplyImage: %v", err)
	}
	single, err := RedactImage(src, 0, []ocr.Region{region}, cfg)
	if err != nil {
		t.Fatalf("RedactImage: %v", err)
	}
	if !bytes.Equal(out.Pix, single.Pix) {
		t.Error("shared region was painted more than once")
	}
	if audit.Redacted != 2 {
		t.Errorf("audit.Redacted = %d, want 2", audit.Redacted)
	}
}

func TestApplyImageOtherPageRegionSkipped(t *testing.T) {
	src := whiteImage(40, 40)
	rep := scan.Report{
		FilePath: "pages.pdf",
		Locations: []scan.Entry{
			{
				Value:    "a@b.com",
				Category: pii.CategoryEmail,
				Location: &scan.Location{Region: &ocr.Region{X: 5, Y: 5, Width: 10, Height: 10, Page: 2}},
			},
		},
	}

	out, audit, err := ApplyImage(src, 1, rep, noPaddingConfig(MethodBlackbox))
	if err != nil {
		t.Fatalf("ApplyImage: %v", err)
	}
	if !bytes.Equal(src.Pix, out.Pix) {
		t.Error("region from another page was painted")
	}
	if audit.Skipped != 1 || audit.Redacted != 0 {
		t.Errorf("audit counts = %+v", audit)
	}
}

func TestApplyImageRejectsUnknownMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = "solarize"
	if _, _, err := ApplyImage(whiteImage(10, 10), 0, scan.Report{}, cfg); err == nil {
		t.Error("ApplyImage accepted an unknown method")
	}
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"blackbox", "blur", "pixelate"} {
		if _, err := ParseMethod(name); err != nil {
			t.Errorf("ParseMethod(%q): %v", name, err)
		}
	}
	if _, err := ParseMethod("invert"); err == nil {
		t.Error("ParseMethod accepted an unknown method")
	}
}

package redact

import (
	"fmt"
	"image"
	"sort"

	"github.com/redactkit/redactkit/pkg/ocr"
	"github.com/redactkit/redactkit/pkg/pii"
	"github.com/redactkit/redactkit/pkg/resolve"
	"github.com/redactkit/redactkit/pkg/scan"
)

// Status records what happened to one value during redaction.
type Status string

// Per-value outcomes in the audit report.
const (
	StatusRedacted   Status = "redacted"
	StatusUnresolved Status = "unresolved"
	StatusSkipped    Status = "skipped"
)

// AuditEntry is the audit record for one value.
type AuditEntry struct {
	Value    string         `json:"value"`
	Category pii.Category   `json:"category"`
	Label    string         `json:"label,omitempty"`
	Status   Status         `json:"status"`
	Method   Method         `json:"method,omitempty"`
	Location *scan.Location `json:"location,omitempty"`
}

// Report is the audit trail of one redaction run.
type Report struct {
	FilePath   string       `json:"file_path"`
	Entries    []AuditEntry `json:"entries"`
	Redacted   int          `json:"redacted"`
	Unresolved int          `json:"unresolved"`
	Skipped    int          `json:"skipped"`
}

func (r *Report) add(e AuditEntry) {
	r.Entries = append(r.Entries, e)
	switch e.Status {
	case StatusRedacted:
		r.Redacted++
	case StatusUnresolved:
		r.Unresolved++
	case StatusSkipped:
		r.Skipped++
	}
}

// confidence assigns a detection confidence per category. Regex-shaped
// categories match exactly; addresses come from a looser pattern.
func confidence(c pii.Category) float64 {
	if c == pii.CategoryAddress {
		return 0.8
	}
	return 1.0
}

// ApplyText masks every resolved span in text per the scan report.
// Unresolved values and values under the confidence threshold are left
// untouched and recorded as such. One value detected under two categories
// (a 12-digit number reads as both a phone and an identity number)
// resolves to the same span twice; duplicate and overlapping spans are
// coalesced before masking, and every entry they came from is audited as
// redacted.
func ApplyText(text string, rep scan.Report, cfg Config) (string, *Report, error) {
	audit := &Report{FilePath: rep.FilePath}
	var spans []resolve.Span

	for _, e := range rep.Locations {
		entry := AuditEntry{
			Value:    e.Value,
			Category: e.Category,
			Label:    e.Label,
			Location: e.Location,
		}
		switch {
		case e.Location == nil || e.Location.Span == nil:
			entry.Status = StatusUnresolved
		case confidence(e.Category) < cfg.ConfidenceThreshold:
			entry.Status = StatusSkipped
		default:
			spans = append(spans, *e.Location.Span)
			entry.Status = StatusRedacted
			entry.Method = "mask"
		}
		audit.add(entry)
	}

	masked, err := MaskText(text, mergeSpans(spans), cfg.MaskRune())
	if err != nil {
		return "", nil, fmt.Errorf("redact %s: %w", rep.FilePath, err)
	}
	return masked, audit, nil
}

// mergeSpans coalesces duplicate and overlapping spans into disjoint ones,
// so a span covered by several report entries is masked exactly once.
func mergeSpans(spans []resolve.Span) []resolve.Span {
	if len(spans) < 2 {
		return spans
	}
	ordered := make([]resolve.Span, len(spans))
	copy(ordered, spans)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	merged := ordered[:1]
	for _, s := range ordered[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// ApplyImage obscures every resolved region of the image per the scan
// report, using the configured method. src is the image of one document
// page, identified by page; entries located on other pages are audited as
// skipped. One value detected under two categories resolves to the same
// region twice; the region is painted once and both entries audited as
// redacted. The source image is not modified; when nothing qualifies for
// redaction the returned image is a plain copy.
func ApplyImage(src image.Image, page int, rep scan.Report, cfg Config) (*image.RGBA, *Report, error) {
	if _, err := ParseMethod(string(cfg.Method)); err != nil {
		return nil, nil, err
	}

	audit := &Report{FilePath: rep.FilePath}
	var regions []ocr.Region
	painted := make(map[ocr.Region]bool)

	for _, e := range rep.Locations {
		entry := AuditEntry{
			Value:    e.Value,
			Category: e.Category,
			Label:    e.Label,
			Location: e.Location,
		}
		switch {
		case e.Location == nil || e.Location.Region == nil:
			entry.Status = StatusUnresolved
		case e.Location.Region.Page != page:
			entry.Status = StatusSkipped
		case confidence(e.Category) < cfg.ConfidenceThreshold:
			entry.Status = StatusSkipped
		default:
			if !painted[*e.Location.Region] {
				painted[*e.Location.Region] = true
				regions = append(regions, *e.Location.Region)
			}
			entry.Status = StatusRedacted
			entry.Method = cfg.Method
		}
		audit.add(entry)
	}

	out, err := RedactImage(src, page, regions, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("redact %s: %w", rep.FilePath, err)
	}
	return out, audit, nil
}

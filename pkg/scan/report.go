package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redactkit/redactkit/pkg/ocr"
	"github.com/redactkit/redactkit/pkg/pii"
	"github.com/redactkit/redactkit/pkg/resolve"
)

// Location is the serialized position of one value: a pixel region
// ({x,y,width,height}) for tokenized documents, a character span
// ({start,end}) for plain text. Exactly one side is set.
type Location struct {
	Region *ocr.Region
	Span   *resolve.Span
}

// MarshalJSON emits the region or span object directly, without a wrapper.
func (l Location) MarshalJSON() ([]byte, error) {
	switch {
	case l.Region != nil:
		return json.Marshal(l.Region)
	case l.Span != nil:
		return json.Marshal(l.Span)
	}
	return []byte("null"), nil
}

// UnmarshalJSON sniffs the object shape: a "start" key means a span,
// anything else a region.
func (l *Location) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	if _, ok := keys["start"]; ok {
		l.Span = new(resolve.Span)
		return json.Unmarshal(data, l.Span)
	}
	l.Region = new(ocr.Region)
	return json.Unmarshal(data, l.Region)
}

// Entry is one located value in a report.
type Entry struct {
	Value    string       `json:"value"`
	Category pii.Category `json:"category"`
	Label    string       `json:"label,omitempty"`
	Location *Location    `json:"location,omitempty"`
}

// Report is the per-file scan outcome, in the JSON shape downstream
// redaction consumes. Values that failed to resolve appear in the category
// lists but carry no location entry.
type Report struct {
	FilePath        string   `json:"file_path"`
	PIIClass        string   `json:"pii_class,omitempty"`
	Score           int      `json:"score"`
	CountryOfOrigin string   `json:"country_of_origin,omitempty"`
	Identifiers     []string `json:"identifiers"`
	Emails          []string `json:"emails"`
	PhoneNumbers    []string `json:"phone_numbers"`
	Addresses       []string `json:"addresses"`
	Locations       []Entry  `json:"pii_with_locations"`
}

// BuildReport renders a scan result for one file.
func BuildReport(filePath string, res *Result) Report {
	rep := Report{
		FilePath:        filePath,
		PIIClass:        res.Class,
		Score:           res.Score,
		CountryOfOrigin: res.Country,
		Identifiers:     []string{},
		Emails:          append([]string{}, res.Detection.Emails...),
		PhoneNumbers:    append([]string{}, res.Detection.Phones...),
		Addresses:       append([]string{}, res.Detection.Addresses...),
		Locations:       []Entry{},
	}
	for _, id := range res.Detection.Identifiers {
		rep.Identifiers = append(rep.Identifiers, id.Value)
	}
	for _, r := range res.Resolutions {
		entry := Entry{
			Value:    r.Value.Text,
			Category: r.Value.Category,
			Label:    r.Value.Label,
		}
		if r.Resolved {
			entry.Location = &Location{Region: r.Region, Span: r.Span}
		}
		rep.Locations = append(rep.Locations, entry)
	}
	return rep
}

// WriteReports writes reports to path as an indented JSON array.
func WriteReports(path string, reports []Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("scan: encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("scan: write report: %w", err)
	}
	return nil
}

// LoadReports reads a report file written by WriteReports. A file holding a
// single report object instead of an array is accepted.
func LoadReports(path string) ([]Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scan: read report: %w", err)
	}
	var reports []Report
	if err := json.Unmarshal(data, &reports); err != nil {
		var single Report
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("scan: parse report %s: %w", path, err)
		}
		reports = []Report{single}
	}
	return reports, nil
}

// FindForFile picks the report matching an input file: first by exact path,
// then by base name, then case-insensitively on the base name.
func FindForFile(reports []Report, inputPath string) (Report, bool) {
	for _, r := range reports {
		if r.FilePath == inputPath {
			return r, true
		}
	}
	base := filepath.Base(inputPath)
	for _, r := range reports {
		if filepath.Base(r.FilePath) == base {
			return r, true
		}
	}
	for _, r := range reports {
		if strings.EqualFold(filepath.Base(r.FilePath), base) {
			return r, true
		}
	}
	return Report{}, false
}

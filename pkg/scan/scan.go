// Package scan runs the detect-classify-resolve pipeline over one document
// and renders the outcome as a report.
//
// Pipeline:
//
//  1. Detect: the rule set's regexes run over the document text.
//  2. Classify: the text's words are scored against rule keywords to name
//     the document class (Aadhaar Card, SSN, ...) and its country.
//  3. Resolve: each detected value is located, either as a pixel region
//     among the OCR tokens or as a character span in the text, depending
//     on the Input variant.
//
// Resolution fans out across values with a bounded errgroup; the token
// index is immutable, so the workers share it without locking. A value
// that cannot be located is recorded as unresolved, never as an error.
package scan

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/redactkit/redactkit/pkg/ocr"
	"github.com/redactkit/redactkit/pkg/pii"
	"github.com/redactkit/redactkit/pkg/resolve"
)

// Options configures a scan. The zero value is usable: default thresholds,
// one worker per CPU, the default logger.
type Options struct {
	Thresholds *resolve.Thresholds
	Workers    int
	Logger     *slog.Logger
}

func (o Options) thresholds() resolve.Thresholds {
	if o.Thresholds != nil {
		return *o.Thresholds
	}
	return resolve.DefaultThresholds()
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Resolution pairs one detected value with where it was found. Exactly one
// of Region and Span is set when Resolved is true; both are nil otherwise.
type Resolution struct {
	Value    pii.Value
	Region   *ocr.Region
	Span     *resolve.Span
	Resolved bool
}

// Result is the outcome of scanning one document. It is immutable once
// returned.
type Result struct {
	Detection   pii.Detection
	Class       string
	Score       int
	Country     string
	Resolutions []Resolution
}

// HasPII reports whether the scan detected anything.
func (r *Result) HasPII() bool { return !r.Detection.Empty() }

// Scan runs the pipeline over one document. The returned error only
// reflects cancellation; detection finding nothing and values failing to
// resolve are ordinary outcomes recorded in the Result.
func Scan(ctx context.Context, in Input, rules *pii.RuleSet, opts Options) (*Result, error) {
	text := in.FullText()
	det := pii.Detect(text, rules)
	class, score := pii.ClassifyKeywords(rules, pii.Tokenize(text))

	res := &Result{
		Detection: det,
		Class:     class,
		Score:     score,
		Country:   countryOf(rules, class),
	}
	if det.Empty() {
		return res, nil
	}

	values := det.Values()
	res.Resolutions = make([]Resolution, len(values))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	switch in := in.(type) {
	case Tokenized:
		r := resolve.NewResolver(in.Index,
			resolve.WithThresholds(opts.thresholds()),
			resolve.WithLogger(opts.logger()))
		for i, v := range values {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				region, ok := r.Resolve(v.Text)
				res.Resolutions[i] = Resolution{Value: v, Resolved: ok}
				if ok {
					res.Resolutions[i].Region = &region
				}
				return nil
			})
		}
	case PlainText:
		for i, v := range values {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				span, ok := resolve.ResolveOffsets(v.Text, in.Text)
				res.Resolutions[i] = Resolution{Value: v, Resolved: ok}
				if ok {
					res.Resolutions[i].Span = &span
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// countryOf looks up the region of the rule the classifier picked.
func countryOf(rules *pii.RuleSet, class string) string {
	if class == "" {
		return ""
	}
	for _, r := range rules.Rules() {
		if r.Name == class {
			return r.Region
		}
	}
	return ""
}

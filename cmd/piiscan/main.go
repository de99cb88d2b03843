// piiscan is a command-line tool that detects PII in documents and locates
// every detected value, producing the report JSON piiredact consumes.
//
// The token source is chosen per file by extension:
//
//	.txt              plain text, values resolve to character offsets
//	.hocr, .html      hOCR OCR output, values resolve to pixel regions
//	.png, .jpg, ...   local Tesseract OCR, values resolve to pixel regions
//	.pdf              Google Document AI (requires -gdocai-config)
//
// Usage:
//
//	piiscan -input document.png [options]
//	piiscan -input scans/ -output report.json
//
// Flags:
//
//	-input string          Path to a document or a directory of documents (required)
//	-output string         Path to write the report JSON (default "output.json")
//	-rules string          Path to a YAML rule file (built-in rules when omitted)
//	-gdocai-config string  Path to the Document AI YAML config, enables PDF input
//	-lang string           Tesseract language hints, comma separated (default "eng")
//	-workers int           Resolution workers per document (default: number of CPUs)
//	-verbose               Enable debug logging of resolution decisions
//
// When -input is a directory, every supported file in it is scanned; a file
// that fails is logged and skipped, the batch continues.
//
// Authentication for PDF input uses the GOOGLE_APPLICATION_CREDENTIALS
// environment variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/redactkit/redactkit/pkg/gdocai"
	"github.com/redactkit/redactkit/pkg/hocr"
	"github.com/redactkit/redactkit/pkg/ocr"
	"github.com/redactkit/redactkit/pkg/pii"
	"github.com/redactkit/redactkit/pkg/scan"
	"github.com/redactkit/redactkit/pkg/tesseract"
)

func main() {
	inputPath := flag.String("input", "", "Path to a document or a directory of documents (required)")
	outputPath := flag.String("output", "output.json", "Path to write the report JSON")
	rulesPath := flag.String("rules", "", "Path to a YAML rule file (built-in rules when omitted)")
	gdocaiConfig := flag.String("gdocai-config", "", "Path to the Document AI YAML config, enables PDF input")
	langs := flag.String("lang", "eng", "Tesseract language hints, comma separated")
	workers := flag.Int("workers", 0, "Resolution workers per document (default: number of CPUs)")
	verbose := flag.Bool("verbose", false, "Enable debug logging of resolution decisions")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -input flag is required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	rules := pii.DefaultRules()
	if *rulesPath != "" {
		var err error
		rules, err = pii.LoadRules(*rulesPath)
		if err != nil {
			logger.Error("failed to load rules", "path", *rulesPath, "error", err)
			os.Exit(1)
		}
	}

	var docaiCfg *gdocai.Config
	if *gdocaiConfig != "" {
		var err error
		docaiCfg, err = gdocai.LoadConfig(*gdocaiConfig)
		if err != nil {
			logger.Error("failed to load Document AI config", "path", *gdocaiConfig, "error", err)
			os.Exit(1)
		}
	}

	files, err := collectFiles(*inputPath)
	if err != nil {
		logger.Error("failed to read input", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no supported documents found", "path", *inputPath)
		os.Exit(1)
	}

	s := scanner{
		rules:   rules,
		docai:   docaiCfg,
		engine:  tesseract.New(tesseract.WithLanguages(strings.Split(*langs, ",")...)),
		logger:  logger,
		workers: *workers,
	}

	ctx := context.Background()
	var reports []scan.Report
	for _, file := range files {
		rep, err := s.scanFile(ctx, file)
		if err != nil {
			logger.Error("skipping document", "file", file, "error", err)
			continue
		}
		logger.Info("scanned document",
			"file", file,
			"class", rep.PIIClass,
			"values", len(rep.Locations))
		reports = append(reports, rep)
	}
	if len(reports) == 0 {
		logger.Error("no documents could be scanned")
		os.Exit(1)
	}

	if err := scan.WriteReports(*outputPath, reports); err != nil {
		logger.Error("failed to write report", "path", *outputPath, "error", err)
		os.Exit(1)
	}
	fmt.Println("Report saved to:", *outputPath)
}

type scanner struct {
	rules   *pii.RuleSet
	docai   *gdocai.Config
	engine  *tesseract.Engine
	logger  *slog.Logger
	workers int
}

// scanFile builds the right input variant for the file and runs the scan.
func (s scanner) scanFile(ctx context.Context, path string) (scan.Report, error) {
	in, err := s.buildInput(ctx, path)
	if err != nil {
		return scan.Report{}, err
	}

	res, err := scan.Scan(ctx, in, s.rules, scan.Options{
		Workers: s.workers,
		Logger:  s.logger.With("file", path),
	})
	if err != nil {
		return scan.Report{}, err
	}
	return scan.BuildReport(path, res), nil
}

func (s scanner) buildInput(ctx context.Context, path string) (scan.Input, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return scan.PlainText{Text: string(data)}, nil

	case ".hocr", ".html":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		doc, err := hocr.Parse(data)
		if err != nil {
			return nil, err
		}
		return scan.Tokenized{Index: ocr.NewTokenIndex(doc.Tokens()), Text: doc.Text()}, nil

	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		tokens, text, err := s.engine.Recognize(ctx, data, 0)
		if err != nil {
			return nil, err
		}
		return scan.Tokenized{Index: ocr.NewTokenIndex(tokens), Text: text}, nil

	case ".pdf":
		if s.docai == nil {
			return nil, fmt.Errorf("PDF input requires -gdocai-config")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		tokens, text, err := gdocai.ExtractTokens(ctx, data, s.docai)
		if err != nil {
			return nil, err
		}
		return scan.Tokenized{Index: ocr.NewTokenIndex(tokens), Text: text}, nil
	}
	return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
}

// collectFiles expands a directory into its supported documents; a plain
// file is returned as-is.
func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".hocr", ".html", ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".pdf":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}

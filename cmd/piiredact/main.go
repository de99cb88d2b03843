// piiredact applies redactions to a document using the locations from a
// piiscan report.
//
// Text files have every located span overwritten with the mask character;
// images get their located regions obscured with the chosen method. Values
// the scan could not locate are left untouched and listed in the audit.
//
// Usage:
//
//	piiredact -input scan.png -report report.json
//	piiredact -input letter.txt -report report.json -output clean.txt
//
// Flags:
//
//	-input string      Path to the document to redact (required)
//	-report string     Path to the piiscan report JSON (required)
//	-output string     Path for the redacted copy (default "<input>_redacted.<ext>")
//	-method string     Image method: blackbox, blur or pixelate (default "blackbox")
//	-threshold float   Minimum detection confidence to redact (default 0.7)
//	-mask-char string  Mask character for text redaction (default "█")
//	-page int          Report page the input image shows (default 0)
//	-config string     YAML config file; flags override its values
//	-audit string      Path to write the audit JSON
//
// Exit status is 0 on success, including when the report holds no PII for
// the input (a plain copy is written); non-zero on a missing input, a
// malformed report, or an unreadable image.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/redactkit/redactkit/pkg/redact"
	"github.com/redactkit/redactkit/pkg/scan"
)

func main() {
	inputPath := flag.String("input", "", "Path to the document to redact (required)")
	reportPath := flag.String("report", "", "Path to the piiscan report JSON (required)")
	outputPath := flag.String("output", "", "Path for the redacted copy (default \"<input>_redacted.<ext>\")")
	method := flag.String("method", "", "Image method: blackbox, blur or pixelate")
	threshold := flag.Float64("threshold", -1, "Minimum detection confidence to redact")
	maskChar := flag.String("mask-char", "", "Mask character for text redaction")
	page := flag.Int("page", 0, "Report page the input image shows")
	configPath := flag.String("config", "", "YAML config file; flags override its values")
	auditPath := flag.String("audit", "", "Path to write the audit JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *inputPath == "" || *reportPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -input and -report flags are required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := redact.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = redact.LoadConfig(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *method != "" {
		m, err := redact.ParseMethod(*method)
		if err != nil {
			logger.Error("invalid method", "error", err)
			os.Exit(1)
		}
		cfg.Method = m
	}
	if *threshold >= 0 {
		cfg.ConfidenceThreshold = *threshold
	}
	if *maskChar != "" {
		cfg.MaskChar = *maskChar
	}

	reports, err := scan.LoadReports(*reportPath)
	if err != nil {
		logger.Error("failed to load report", "path", *reportPath, "error", err)
		os.Exit(1)
	}

	out := *outputPath
	if out == "" {
		out = defaultOutputPath(*inputPath)
	}

	rep, found := scan.FindForFile(reports, *inputPath)
	if !found || len(rep.Locations) == 0 {
		// Nothing to redact: emit a straight copy.
		if err := copyFile(*inputPath, out); err != nil {
			logger.Error("failed to copy input", "error", err)
			os.Exit(1)
		}
		fmt.Println("No PII found for input, copy saved to:", out)
		return
	}

	audit, err := redactFile(*inputPath, out, *page, rep, cfg)
	if err != nil {
		logger.Error("redaction failed", "file", *inputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("redaction complete",
		"file", *inputPath,
		"redacted", audit.Redacted,
		"unresolved", audit.Unresolved,
		"skipped", audit.Skipped)

	if *auditPath != "" {
		data, err := json.MarshalIndent(audit, "", "  ")
		if err != nil {
			logger.Error("failed to encode audit", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*auditPath, append(data, '\n'), 0o644); err != nil {
			logger.Error("failed to write audit", "path", *auditPath, "error", err)
			os.Exit(1)
		}
	}
	fmt.Println("Redacted document saved to:", out)
}

// redactFile dispatches on the input type: text is masked, images painted.
// page selects which report page the input image shows; text redaction
// ignores it.
func redactFile(inputPath, outputPath string, page int, rep scan.Report, cfg redact.Config) (*redact.Report, error) {
	ext := strings.ToLower(filepath.Ext(inputPath))

	if ext == ".txt" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, err
		}
		masked, audit, err := redact.ApplyText(string(data), rep, cfg)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(outputPath, []byte(masked), 0o644); err != nil {
			return nil, err
		}
		return audit, nil
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	redacted, audit, err := redact.ApplyImage(img, page, rep, cfg)
	if err != nil {
		return nil, err
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return nil, err
	}
	defer outFile.Close()

	switch format {
	case "jpeg":
		err = jpeg.Encode(outFile, redacted, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(outFile, redacted)
	}
	if err != nil {
		return nil, fmt.Errorf("encode redacted image: %w", err)
	}
	return audit, nil
}

// defaultOutputPath derives "<name>_redacted<ext>" next to the input.
func defaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_redacted" + ext
}

func copyFile(from, to string) error {
	data, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	return os.WriteFile(to, data, 0o644)
}

// Package redact applies redactions at the positions the scan resolved:
// masking character spans in text, painting over pixel regions in images,
// and reassembling redacted page images into a PDF.
//
// All operations work on copies. Values the scan could not resolve are
// left untouched and surface in the audit report as unresolved.
package redact

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Method selects how image regions are obscured.
type Method string

// Supported image redaction methods.
const (
	MethodBlackbox Method = "blackbox"
	MethodBlur     Method = "blur"
	MethodPixelate Method = "pixelate"
)

// ParseMethod validates a method name from config or CLI input.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodBlackbox, MethodBlur, MethodPixelate:
		return Method(s), nil
	}
	return "", fmt.Errorf("redact: unknown method %q (want blackbox, blur or pixelate)", s)
}

// Config holds the redaction settings.
type Config struct {
	// Method obscures image regions; text is always masked.
	Method Method `yaml:"method"`

	// MaskChar is the character text spans are overwritten with.
	MaskChar string `yaml:"mask_char"`

	// BlurKernel is the Gaussian kernel size for the blur method. Even
	// values are bumped to the next odd size.
	BlurKernel int `yaml:"blur_kernel"`

	// PixelSize is the block edge length for the pixelate method.
	PixelSize int `yaml:"pixel_size"`

	// Padding grows every image region by this many pixels on each side
	// before it is obscured, covering OCR boxes that sit tight on the
	// glyphs.
	Padding int `yaml:"padding"`

	// ConfidenceThreshold drops values whose detection confidence falls
	// below it.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		Method:              MethodBlackbox,
		MaskChar:            "█",
		BlurKernel:          25,
		PixelSize:           8,
		Padding:             5,
		ConfidenceThreshold: 0.7,
	}
}

// LoadConfig reads settings from a YAML file, layered over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("redact: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("redact: parse config: %w", err)
	}
	if _, err := ParseMethod(string(cfg.Method)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MaskRune returns the configured mask character, defaulting to a full
// block.
func (c Config) MaskRune() rune {
	for _, r := range c.MaskChar {
		return r
	}
	return '█'
}

package resolve

// Thresholds holds the pixel-geometry limits the region cascade applies
// when deciding whether tokens belong together. The defaults are tuned for
// 300 DPI document scans; callers working with other resolutions can scale
// them.
type Thresholds struct {
	// LineBreak is the top-coordinate gap below which two tokens are
	// treated as being on the same text line.
	LineBreak int

	// SameLineGap is the largest horizontal gap, in pixels, allowed
	// between consecutive tokens of a same-line run.
	SameLineGap int

	// WrapMinRise and WrapMaxRise bound the top-coordinate drop a token
	// run may take across a line wrap. The rise must fall strictly
	// between them, and the wrapped token must start further left than
	// its predecessor.
	WrapMinRise int
	WrapMaxRise int

	// FuzzySameLineVGap and FuzzySameLineHGap are the looser limits the
	// digit-accumulation strategy uses for same-line continuation.
	FuzzySameLineVGap int
	FuzzySameLineHGap int

	// AreaPerChar is the pixel area budgeted per character of the value;
	// a candidate region larger than value length times AreaPerChar times
	// AreaMultiplier is rejected as oversized.
	AreaPerChar    int
	AreaMultiplier int

	// MaxWindow caps how many consecutive tokens the concatenation
	// strategy will join; the effective window is also bounded by the
	// value length plus two.
	MaxWindow int

	// MinSubstringLen is the value length above which the
	// substring-in-token strategy is allowed to run.
	MinSubstringLen int

	// MinFuzzyDigits is the digit count a value needs before the fuzzy
	// digit-accumulation strategy applies.
	MinFuzzyDigits int
}

// DefaultThresholds returns the limits tuned for 300 DPI scans.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LineBreak:         20,
		SameLineGap:       50,
		WrapMinRise:       20,
		WrapMaxRise:       100,
		FuzzySameLineVGap: 15,
		FuzzySameLineHGap: 100,
		AreaPerChar:       20 * 40,
		AreaMultiplier:    2,
		MaxWindow:         10,
		MinSubstringLen:   6,
		MinFuzzyDigits:    8,
	}
}

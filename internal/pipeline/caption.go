package pipeline

import (
	"regexp"
	"strings"
)

// CaptionConvention identifies which caption style matched.
type CaptionConvention int

const (
	// ConventionNone means no caption was found.
	ConventionNone CaptionConvention = iota

	// ConventionPandoc is a ": text" line immediately after the table.
	ConventionPandoc

	// ConventionNumbered is a "Tabla N: text" or "Table N: text" line
	// immediately before or after the table.
	ConventionNumbered

	// ConventionBold is a bold-only "**text**" line immediately
	// preceding the table.
	ConventionBold
)

// String returns the convention name for logging and tests.
func (c CaptionConvention) String() string {
	switch c {
	case ConventionPandoc:
		return "pandoc"
	case ConventionNumbered:
		return "numbered"
	case ConventionBold:
		return "bold"
	default:
		return "none"
	}
}

var (
	pandocCaptionPattern   = regexp.MustCompile(`^:\s*(\S.*)$`)
	numberedCaptionPattern = regexp.MustCompile(`^(?:Tabla|Table)\s+\d+\s*:\s*(\S.*)$`)
	boldCaptionPattern     = regexp.MustCompile(`^\*\*([^*]+)\*\*$`)
)

// CaptionMatch is the result of caption recognition.
type CaptionMatch struct {
	Caption    string
	Convention CaptionConvention

	// ConsumedAfter is true when the caption came from the line
	// following the table, which the scanner then folds into the
	// block span so it is excised together with the table.
	ConsumedAfter bool
}

// captionRule pairs a convention with its extractor. Rules are tried
// in priority order, first match wins.
type captionRule struct {
	convention CaptionConvention
	extract    func(before, after string) (caption string, fromAfter, ok bool)
}

var captionRules = []captionRule{
	{
		convention: ConventionPandoc,
		extract: func(_, after string) (string, bool, bool) {
			if m := pandocCaptionPattern.FindStringSubmatch(after); m != nil {
				return strings.TrimSpace(m[1]), true, true
			}
			return "", false, false
		},
	},
	{
		convention: ConventionNumbered,
		extract: func(before, after string) (string, bool, bool) {
			if m := numberedCaptionPattern.FindStringSubmatch(before); m != nil {
				return strings.TrimSpace(m[1]), false, true
			}
			if m := numberedCaptionPattern.FindStringSubmatch(after); m != nil {
				return strings.TrimSpace(m[1]), true, true
			}
			return "", false, false
		},
	},
	{
		convention: ConventionBold,
		extract: func(before, _ string) (string, bool, bool) {
			if m := boldCaptionPattern.FindStringSubmatch(before); m != nil {
				return strings.TrimSpace(m[1]), false, true
			}
			return "", false, false
		},
	},
}

// RecognizeCaption inspects the lines immediately before and after a
// table block and extracts a caption if one of the supported
// conventions matches. Either line may be empty when the table sits at
// a document boundary.
//
// A candidate line must be a single non-empty line that is not itself
// a table row; anything else is treated as unrelated prose.
func RecognizeCaption(before, after string) CaptionMatch {
	before = captionCandidate(before)
	after = captionCandidate(after)

	for _, rule := range captionRules {
		if caption, fromAfter, ok := rule.extract(before, after); ok {
			return CaptionMatch{
				Caption:       caption,
				Convention:    rule.convention,
				ConsumedAfter: fromAfter,
			}
		}
	}
	return CaptionMatch{Convention: ConventionNone}
}

// captionCandidate normalizes a context line, returning "" when the
// line cannot be a caption (blank, or looks like a table row).
func captionCandidate(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, "|") {
		return ""
	}
	return line
}

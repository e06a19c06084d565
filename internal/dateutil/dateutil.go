// Package dateutil turns user-facing date format strings (YYYY-MM-DD
// style tokens) into Go time layouts and resolves "auto" date values
// for document front matter.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates a format string that cannot be
// converted to a Go time layout.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength bounds format strings; real formats are short.
const MaxDateFormatLength = 50

// DefaultDateFormat applies when "auto" is given without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// DatePresets are named shortcuts accepted after "auto:".
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// dateTokens in longest-first order so YYYY wins over YY at the same
// position.
var dateTokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// ParseDateFormat converts a token format string to a Go time layout.
// Recognized tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text inside
// [brackets] passes through literally, as do characters that match no
// token. Empty, over-long, or unclosed-bracket formats are rejected.
func ParseDateFormat(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	layout.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			layout.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		if n := matchToken(format[i:], &layout); n > 0 {
			i += n
			continue
		}

		layout.WriteByte(format[i])
		i++
	}

	return layout.String(), nil
}

func matchToken(s string, layout *strings.Builder) int {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			layout.WriteString(t.layout)
			return len(t.token)
		}
	}
	return 0
}

// ResolveDate expands "auto" date values against the reference time
// now; any value not starting with "auto" passes through unchanged.
// "auto" alone uses DefaultDateFormat; "auto:FORMAT" takes a token
// format or a preset name (case-insensitive).
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	format := DefaultDateFormat
	if lower != "auto" {
		if !strings.HasPrefix(lower, "auto:") {
			return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		format = value[len("auto:"):]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}

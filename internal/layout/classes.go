package layout

import (
	"errors"
	"fmt"
)

// Format identifies an output format for directive naming.
type Format string

const (
	FormatHTML  Format = "html"
	FormatPDF   Format = "pdf"
	FormatQMD   Format = "qmd"
	FormatLaTeX Format = "latex"
)

// ErrUnknownFormat indicates a format with no directive table.
var ErrUnknownFormat = errors.New("unknown output format")

// directiveNames maps (format, class) to the format-specific directive
// string. The resolver itself stays format-agnostic; this table is the
// only place output formats are spelled out, so adding a format is a
// data change.
var directiveNames = map[Format]map[Class]string{
	FormatHTML: {
		ClassSingleColumn: "column-single",
		ClassOutsetRight:  "column-outset-right",
		ClassFullPage:     "column-page",
	},
	FormatQMD: {
		ClassSingleColumn: "",
		ClassOutsetRight:  ".column-outset-right",
		ClassFullPage:     ".column-page",
	},
	FormatPDF: {
		ClassSingleColumn: "",
		ClassOutsetRight:  "strip-right",
		ClassFullPage:     "figure*",
	},
	FormatLaTeX: {
		ClassSingleColumn: "",
		ClassOutsetRight:  "strip-right",
		ClassFullPage:     "figure*",
	},
}

// DirectiveName returns the format-specific directive string for a
// resolved class. An empty string means the element needs no wrapper
// in that format.
func DirectiveName(format Format, class Class) (string, error) {
	table, ok := directiveNames[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return table[class], nil
}

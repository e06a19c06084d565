package layout

import (
	"fmt"
	"strings"
)

// ColumnWidths holds the physical column geometry for one layout, in
// inches. Single/Double/Triple are the widths of elements spanning
// whole columns; Gap is the gutter between columns.
type ColumnWidths struct {
	Single float64
	Double float64
	Triple float64
	Gap    float64
}

// WidthTable maps a document column count (1-3) to its geometry.
type WidthTable map[int]ColumnWidths

// DefaultWidthTable is the geometry for US Letter with 1in margins
// (6.5in of text width).
func DefaultWidthTable() WidthTable {
	return WidthTable{
		1: {Single: 6.5, Double: 6.5, Triple: 6.5, Gap: 0},
		2: {Single: 3.1, Double: 6.5, Triple: 6.5, Gap: 0.3},
		3: {Single: 1.96, Double: 4.22, Triple: 6.5, Gap: 0.3},
	}
}

// Width computes the physical width in inches for a span inside a
// document with the given column count. Explicit width lists return
// their first entry, which sizes the primary output.
func (t WidthTable) Width(documentColumns int, span Span) (float64, error) {
	geo, ok := t[documentColumns]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidColumns, documentColumns)
	}

	if span.kind == spanWidths {
		if len(span.widths) == 0 {
			return 0, fmt.Errorf("%w: empty width list", ErrInvalidSpan)
		}
		return span.widths[0], nil
	}

	n := span.count
	if span.kind == spanDefault {
		n = 1
	}

	switch {
	case n <= 1:
		return geo.Single, nil
	case n == 2:
		return geo.Double, nil
	case n >= 3:
		return geo.Triple, nil
	default:
		// Fractional spans interpolate: whole columns plus their
		// gutters, then a fraction of one more column-and-gutter.
		full := float64(int(n))
		frac := n - full
		base := full*geo.Single + (full-1)*geo.Gap
		return base + frac*(geo.Single+geo.Gap), nil
	}
}

// WidthString formats a width in inches as a Markdown width attribute,
// trimming trailing zeros: 6.5 -> "6.5in", 3.0 -> "3in".
func WidthString(inches float64) string {
	s := fmt.Sprintf("%.2f", inches)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + "in"
}

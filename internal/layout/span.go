// Package layout resolves column-span requests into layout directives
// for multi-column documents. A directive says which environment the
// element renders in (single column, rightward outset, or full page)
// and what fraction of the text width it occupies.
//
// Expansion is strictly rightward: an element spanning more than one
// column keeps its left edge on the current column and grows into the
// following columns only. There is deliberately no symmetric or
// centered outset variant, because centered expansion overflows past
// the page's left margin in practice.
package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for span resolution.
var (
	ErrInvalidColumns = errors.New("document columns must be between 1 and 3")
	ErrInvalidSpan    = errors.New("invalid column span")
)

// Class identifies the layout environment for an element.
type Class int

const (
	// ClassSingleColumn keeps the element inside its column.
	ClassSingleColumn Class = iota

	// ClassOutsetRight grows the element rightward into the following
	// columns, left edge anchored on the current column.
	ClassOutsetRight

	// ClassFullPage spans the full text width.
	ClassFullPage
)

// String returns the class name used in logs and directive lookups.
func (c Class) String() string {
	switch c {
	case ClassOutsetRight:
		return "outset-right"
	case ClassFullPage:
		return "full-page"
	default:
		return "single-column"
	}
}

// spanKind discriminates the Span variants.
type spanKind int

const (
	spanDefault spanKind = iota
	spanColumns
	spanWidths
)

// Span is a requested column span: unspecified (defaults to one
// column), a possibly fractional column count, or an explicit list of
// absolute widths in inches that bypasses fractional sizing entirely.
type Span struct {
	kind   spanKind
	count  float64
	widths []float64
}

// DefaultSpan requests the default single-column span.
func DefaultSpan() Span {
	return Span{kind: spanDefault}
}

// ColumnSpan requests a span of n columns. Fractional values such as
// 1.5 are valid and scale linearly.
func ColumnSpan(n float64) Span {
	return Span{kind: spanColumns, count: n}
}

// WidthSpan requests explicit absolute widths in inches, one per
// output variant. The resolver passes them through unchanged.
func WidthSpan(widths []float64) Span {
	return Span{kind: spanWidths, widths: widths}
}

// IsExplicit reports whether the span carries explicit widths.
func (s Span) IsExplicit() bool {
	return s.kind == spanWidths
}

// Directive is the resolved layout for an element.
type Directive struct {
	Class Class

	// Fraction of the full text width the element occupies.
	// 1 for full page; span/columns otherwise.
	Fraction float64

	// Widths holds explicit absolute widths when the span bypassed
	// fractional sizing; nil otherwise.
	Widths []float64
}

// Resolve maps a document column count and a requested span to a
// layout directive.
//
// Invariants: span >= documentColumns resolves to full page; span <= 1
// (or unspecified) resolves to single column; anything between grows
// rightward only.
func Resolve(documentColumns int, span Span) (Directive, error) {
	if documentColumns < 1 || documentColumns > 3 {
		return Directive{}, fmt.Errorf("%w: %d", ErrInvalidColumns, documentColumns)
	}

	switch span.kind {
	case spanWidths:
		if len(span.widths) == 0 {
			return Directive{}, fmt.Errorf("%w: empty width list", ErrInvalidSpan)
		}
		for _, w := range span.widths {
			if w <= 0 {
				return Directive{}, fmt.Errorf("%w: width %.2f", ErrInvalidSpan, w)
			}
		}
		// Explicit widths escape fractional sizing: print and
		// responsive outputs need different absolute sizes that no
		// single fraction can satisfy.
		return Directive{Class: ClassFullPage, Fraction: 1, Widths: span.widths}, nil

	case spanDefault:
		return Directive{Class: ClassSingleColumn, Fraction: 1 / float64(documentColumns)}, nil

	default:
		n := span.count
		if n < 0 {
			return Directive{}, fmt.Errorf("%w: %.2f columns", ErrInvalidSpan, n)
		}
		switch {
		case n <= 1:
			return Directive{Class: ClassSingleColumn, Fraction: 1 / float64(documentColumns)}, nil
		case n >= float64(documentColumns):
			return Directive{Class: ClassFullPage, Fraction: 1}, nil
		default:
			return Directive{Class: ClassOutsetRight, Fraction: n / float64(documentColumns)}, nil
		}
	}
}

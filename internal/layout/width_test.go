package layout

import (
	"errors"
	"math"
	"testing"
)

func TestWidthTableWidth(t *testing.T) {
	table := DefaultWidthTable()

	tests := []struct {
		name    string
		columns int
		span    Span
		want    float64
	}{
		{"default span single column doc", 1, DefaultSpan(), 6.5},
		{"default span three column doc", 3, DefaultSpan(), 1.96},
		{"two of three columns", 3, ColumnSpan(2), 4.22},
		{"three of three columns", 3, ColumnSpan(3), 6.5},
		{"two of two columns", 2, ColumnSpan(2), 6.5},
		{"fractional span interpolates", 3, ColumnSpan(1.5), 1.96 + 0.5*(1.96+0.3)},
		{"explicit widths use first entry", 2, WidthSpan([]float64{2.5, 4.0}), 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Width(tt.columns, tt.span)
			if err != nil {
				t.Fatalf("Width() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Width() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWidthTableWidthErrors(t *testing.T) {
	table := DefaultWidthTable()

	if _, err := table.Width(4, DefaultSpan()); !errors.Is(err, ErrInvalidColumns) {
		t.Errorf("Width(4, default) error = %v, want ErrInvalidColumns", err)
	}
	if _, err := table.Width(2, WidthSpan(nil)); !errors.Is(err, ErrInvalidSpan) {
		t.Errorf("Width(2, empty widths) error = %v, want ErrInvalidSpan", err)
	}
}

func TestWidthString(t *testing.T) {
	tests := []struct {
		inches float64
		want   string
	}{
		{6.5, "6.5in"},
		{3.0, "3in"},
		{4.22, "4.22in"},
		{1.96, "1.96in"},
	}

	for _, tt := range tests {
		if got := WidthString(tt.inches); got != tt.want {
			t.Errorf("WidthString(%v) = %q, want %q", tt.inches, got, tt.want)
		}
	}
}

func TestDirectiveName(t *testing.T) {
	tests := []struct {
		format Format
		class  Class
		want   string
	}{
		{FormatQMD, ClassOutsetRight, ".column-outset-right"},
		{FormatQMD, ClassSingleColumn, ""},
		{FormatHTML, ClassFullPage, "column-page"},
		{FormatLaTeX, ClassFullPage, "figure*"},
	}

	for _, tt := range tests {
		got, err := DirectiveName(tt.format, tt.class)
		if err != nil {
			t.Fatalf("DirectiveName(%q, %v) error = %v", tt.format, tt.class, err)
		}
		if got != tt.want {
			t.Errorf("DirectiveName(%q, %v) = %q, want %q", tt.format, tt.class, got, tt.want)
		}
	}

	if _, err := DirectiveName("docx", ClassFullPage); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("DirectiveName(docx) error = %v, want ErrUnknownFormat", err)
	}
}

package mdreport

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/aruiz/go-mdreport/internal/layout"
)

// Output format constants.
const (
	FormatQMD   = "qmd"
	FormatHTML  = "html"
	FormatLaTeX = "latex"
)

// Column count bounds per page.
const (
	MinColumns     = 1
	MaxColumns     = 3
	DefaultColumns = 1
)

// Input contains assembly parameters.
type Input struct {
	Source    string // Markdown or Quarto content (required)
	SourceDir string // base directory for resolving relative image paths (optional)

	Title string // document title, merged into front matter (optional)
	Date  string // literal date, "auto", or "auto:FORMAT" (optional)

	Columns int       // page column count, 1-3 (0 = 1)
	Span    *SpanSpec // span applied to extracted tables (nil = single column)
	Format  string    // "qmd" (default), "html", "latex"

	Style        string // table style name or CSS path (default: "technical")
	Palette      string // palette name (default: "corporate")
	ArtifactDir  string // directory prefix for table image references (default: "assets")
	CaptionLabel string // caption numbering label, e.g. "Tabla" (default: "Table")

	KeepTablesInline bool // leave tables as pipe tables instead of rendering images
}

// SpanSpec describes how many page columns a table occupies.
// Explicit Widths override Columns and force full-page placement.
type SpanSpec struct {
	Columns float64   // span in columns; 0 means single column
	Widths  []float64 // explicit per-column widths in inches (optional)
}

// toLayoutSpan converts the public SpanSpec to the internal span type.
func toLayoutSpan(s *SpanSpec) layout.Span {
	if s == nil {
		return layout.DefaultSpan()
	}
	if len(s.Widths) > 0 {
		return layout.WidthSpan(s.Widths)
	}
	if s.Columns > 0 {
		return layout.ColumnSpan(s.Columns)
	}
	return layout.DefaultSpan()
}

// ColumnWidths holds physical column geometry in inches for one page
// layout.
type ColumnWidths struct {
	Single float64 // width of one column
	Double float64 // width of two columns plus the gap
	Triple float64 // width of three columns plus both gaps
	Gap    float64 // gap between adjacent columns
}

// toWidthTable converts public geometry to the internal width table.
func toWidthTable(m map[int]ColumnWidths) layout.WidthTable {
	if len(m) == 0 {
		return layout.DefaultWidthTable()
	}
	table := layout.WidthTable{}
	for n, w := range m {
		table[n] = layout.ColumnWidths(w)
	}
	return table
}

// Output contains the assembled document and its table artifacts.
type Output struct {
	Document  string      // assembled document in the requested format
	Artifacts []Artifact  // rendered table images, paths relative to the document
	Tables    []TableInfo // one entry per extracted table, in document order
	Figures   int         // count of figures found in the source
}

// Artifact is a rendered table image to write next to the document.
type Artifact struct {
	Path string // relative path referenced by the document
	Data []byte // PNG bytes
}

// TableInfo describes one extracted table.
type TableInfo struct {
	Number      int     // 1-based document-order number
	Caption     string  // recognized caption, without numbering prefix
	Columns     int     // table column count after normalization
	Rows        int     // data row count
	Placement   string  // "single-column", "outset-right", or "full-page"
	WidthInches float64 // physical render width
}

// Option configures an Assembler.
type Option func(*Assembler)

// assemblerConfig holds internal configuration for Assembler.
type assemblerConfig struct {
	timeout   time.Duration
	assetPath string
	widths    layout.WidthTable
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-document assembly timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdreport: WithTimeout duration must be positive")
	}
	return func(a *Assembler) {
		a.cfg.timeout = d
	}
}

// WithAssetPath sets a directory of custom styles and palettes that
// override the embedded defaults.
func WithAssetPath(path string) Option {
	return func(a *Assembler) {
		a.cfg.assetPath = path
	}
}

// WithColumnWidths overrides the built-in page geometry, keyed by
// page column count.
func WithColumnWidths(m map[int]ColumnWidths) Option {
	return func(a *Assembler) {
		a.cfg.widths = toWidthTable(m)
	}
}

// WithLogger sets the structured logger used during assembly.
// A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

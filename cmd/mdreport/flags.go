package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// assembleFlags holds all flags for the assemble command.
type assembleFlags struct {
	config  string
	output  string
	workers int
	timeout string
	quiet   bool
	verbose bool

	docType string
	title   string
	date    string
	columns int

	span   float64
	widths []float64

	format       string
	style        string
	palette      string
	assetPath    string
	captionLabel string
	artifactDir  string
	inline       bool

	quartoBin string
	render    bool
}

// parseAssembleFlags parses command-line flags and returns the
// positional input paths.
func parseAssembleFlags(args []string) (*assembleFlags, []string, error) {
	fs := flag.NewFlagSet("mdreport", flag.ContinueOnError)
	f := &assembleFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")

	fs.StringVar(&f.docType, "type", "", "document type: report, paper, book")
	fs.StringVar(&f.title, "title", "", "document title, merged into front matter")
	fs.StringVar(&f.date, "date", "", "document date (\"auto\" = today)")
	fs.IntVar(&f.columns, "columns", 0, "page column count (1-3)")

	fs.Float64Var(&f.span, "span", 0, "table span in columns (supports fractions, e.g. 1.5)")
	fs.Float64SliceVar(&f.widths, "widths", nil, "explicit table widths in inches (forces full page)")

	fs.StringVarP(&f.format, "format", "f", "", "output format: qmd, html, latex")
	fs.StringVar(&f.style, "style", "", "table style name or CSS file path")
	fs.StringVar(&f.palette, "palette", "", "table color palette name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.captionLabel, "caption-label", "", "caption label (default: Table)")
	fs.StringVar(&f.artifactDir, "artifact-dir", "", "directory for table images (default: assets)")
	fs.BoolVar(&f.inline, "inline-tables", false, "keep pipe tables instead of rendering images")

	fs.StringVar(&f.quartoBin, "quarto-bin", "", "quarto binary (default: quarto)")
	fs.BoolVar(&f.render, "render", false, "run quarto render on the assembled output")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

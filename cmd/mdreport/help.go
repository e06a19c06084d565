package main

import (
	"fmt"
	"io"
)

// printUsage writes the CLI usage text.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `mdreport - assemble Markdown/Quarto documents with layout-aware tables

Usage:
  mdreport [flags] <file.md|file.qmd|directory>...
  mdreport doctor [--json]
  mdreport version

Tables found in the source are rendered as styled PNG images sized to
the page's column layout, and replaced by references carrying the
layout directive of the chosen output format.

Common flags:
  -o, --output        output file or directory
  -c, --config        config file name or path
  -f, --format        output format: qmd (default), html, latex
      --columns       page column count (1-3)
      --span          table span in columns (fractions allowed, e.g. 1.5)
      --widths        explicit widths in inches (forces full-page)
      --style         table style: technical, minimal, report, or a CSS path
      --palette       color palette: corporate, warm, mono
      --inline-tables keep pipe tables instead of rendering images
      --render        run quarto render on the assembled output
  -w, --workers       parallel workers for batch input (0 = auto)
  -t, --timeout       per-document timeout (e.g. 30s)
  -q, --quiet         only show errors
  -v, --verbose       show debug output

Environment:
  MDREPORT_CONFIG, MDREPORT_STYLE, MDREPORT_PALETTE, MDREPORT_TIMEOUT,
  MDREPORT_OUTPUT_DIR, MDREPORT_WORKERS, MDREPORT_QUARTO_BIN
  ROD_BROWSER_BIN, ROD_NO_SANDBOX (headless Chrome control)
`)
}

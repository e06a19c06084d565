// Package render turns parsed table matrices into styled artifacts: an
// HTML rendition built from a palette-driven template, rasterized to
// PNG by headless Chrome for formats that consume images.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrTableBuild indicates the HTML table could not be generated.
var ErrTableBuild = errors.New("table HTML generation failed")

// TableData carries everything needed to render one table artifact.
type TableData struct {
	Header      []string
	Rows        [][]string
	Numeric     []bool // right-aligned columns; indexes match Header
	Caption     string // full caption text, already numbered
	WidthInches float64
}

// pixelsPerInch converts physical width to CSS pixels for the
// headless-browser viewport.
const pixelsPerInch = 96

// WidthPixels returns the rendering viewport width for the table.
func (d TableData) WidthPixels() int {
	if d.WidthInches <= 0 {
		return 624 // 6.5in at 96dpi
	}
	return int(d.WidthInches * pixelsPerInch)
}

// tableTemplate wraps the table in a minimal standalone document. The
// body width pins the artifact to the resolved physical width so the
// screenshot matches the layout directive.
var tableTemplate = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>{{.CSS}}</style>
</head>
<body style="width: {{.WidthPx}}px">
<table>
{{- if .Caption}}
<caption>{{.Caption}}</caption>
{{- end}}
<thead>
<tr>
{{- range .Header}}
<th>{{.}}</th>
{{- end}}
</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
{{- range .}}
<td{{if .Numeric}} class="num"{{end}}>{{.Text}}</td>
{{- end}}
</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// tableCell is one rendered cell with its alignment class.
type tableCell struct {
	Text    string
	Numeric bool
}

// BuildTableHTML renders a standalone HTML document for the table,
// with the style sheet inlined. The CSS is sanitized so it cannot
// escape its <style> block.
func BuildTableHTML(d TableData, css string) (string, error) {
	if len(d.Header) == 0 {
		return "", fmt.Errorf("%w: empty header", ErrTableBuild)
	}

	rows := make([][]tableCell, len(d.Rows))
	for i, row := range d.Rows {
		cells := make([]tableCell, len(row))
		for j, text := range row {
			cells[j] = tableCell{Text: text, Numeric: j < len(d.Numeric) && d.Numeric[j]}
		}
		rows[i] = cells
	}

	data := struct {
		CSS     template.CSS
		Caption string
		Header  []string
		Rows    [][]tableCell
		WidthPx int
	}{
		CSS:     template.CSS(SanitizeCSS(css)),
		Caption: d.Caption,
		Header:  d.Header,
		Rows:    rows,
		WidthPx: d.WidthPixels(),
	}

	var buf strings.Builder
	if err := tableTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTableBuild, err)
	}
	return buf.String(), nil
}

// SanitizeCSS escapes sequences that could break out of a <style>
// block, preventing style injection from user style sheets.
func SanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

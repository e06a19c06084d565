package pipeline

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aruiz/go-mdreport/internal/fileutil"
)

// imageLinePattern matches a Markdown image occupying its own line,
// capturing alt text, path, and any trailing attributes ({#fig-x}).
var imageLinePattern = regexp.MustCompile(`^!\[(.*?)\]\((.*?)\)(.*)$`)

// Figure is a Markdown image found in the source, with its caption
// resolved from alt text or a following ": text" line.
type Figure struct {
	Alt        string
	Path       string
	Attributes string
	Caption    string
}

// ScanFigures finds every stand-alone image line in text and resolves
// its caption. A ": text" line directly after the image wins over the
// alt text, matching the caption priority used for tables.
func ScanFigures(text string) []Figure {
	lines := strings.Split(text, "\n")
	var figures []Figure

	for i, line := range lines {
		m := imageLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		fig := Figure{Alt: m[1], Path: m[2], Attributes: strings.TrimSpace(m[3]), Caption: m[1]}
		if i+1 < len(lines) {
			if pm := pandocCaptionPattern.FindStringSubmatch(strings.TrimSpace(lines[i+1])); pm != nil {
				fig.Caption = strings.TrimSpace(pm[1])
			}
		}
		figures = append(figures, fig)
	}

	return figures
}

// RewriteFigurePaths resolves relative image paths in text against
// baseDir so the assembled document references images correctly from
// the output directory. Absolute paths and URLs pass through, and
// backslashes are normalized to forward slashes for the typesetting
// pipeline.
func RewriteFigurePaths(text, baseDir string) string {
	if baseDir == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		m := imageLinePattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		path := m[2]
		if !isRelativeImagePath(path) {
			continue
		}

		abs := filepath.Join(baseDir, path)
		lines[i] = strings.Replace(line, "("+path+")", "("+filepath.ToSlash(abs)+")", 1)
	}

	return strings.Join(lines, "\n")
}

// AnnotateFigureWidths appends a {width=...} attribute to every
// stand-alone image line that carries no attribute block, capping
// figures at the full text width so wide images cannot overflow the
// column layout. Lines with explicit attributes are left alone.
func AnnotateFigureWidths(text, width string) string {
	if width == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		m := imageLinePattern.FindStringSubmatch(trimmed)
		if m == nil || strings.TrimSpace(m[3]) != "" {
			continue
		}
		lines[i] = strings.TrimRight(line, " \t") + "{width=" + width + "}"
	}

	return strings.Join(lines, "\n")
}

// isRelativeImagePath reports whether the path needs resolving.
func isRelativeImagePath(path string) bool {
	if path == "" || fileutil.IsURL(path) || strings.HasPrefix(path, "data:") {
		return false
	}
	return !filepath.IsAbs(path)
}

package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Preprocessor defines the contract for source preprocessing before
// table scanning and prose conversion.
type Preprocessor interface {
	Preprocess(ctx context.Context, content string) string
}

// QuartoPreprocessor normalizes Quarto/Markdown source text.
// All Quarto constructs (citations, callouts, code fences) pass through
// untouched; only line endings and blank-line runs are normalized.
type QuartoPreprocessor struct{}

// Preprocess applies all normalizations. Order matters: line endings
// first so the blank-line pass sees only \n.
func (p *QuartoPreprocessor) Preprocess(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = NormalizeLineEndings(content)
	content = CompressBlankLines(content)
	return content
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// CompressBlankLines limits consecutive blank lines to 2 maximum.
func CompressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// StripFrontMatter splits leading YAML front matter from the body.
// The front matter is returned without its --- fences. Content without
// a front matter block is returned unchanged with an empty header.
func StripFrontMatter(content string) (frontMatter, body string) {
	if !strings.HasPrefix(content, "---") {
		return "", content
	}

	rest := content[3:]
	if !strings.HasPrefix(rest, "\n") && !strings.HasPrefix(rest, "\r\n") {
		return "", content
	}

	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", content
	}

	end := idx + len("\n---")
	tail := rest[end:]
	// The closing fence must terminate its line.
	if tail != "" && !strings.HasPrefix(tail, "\n") && !strings.HasPrefix(tail, "\r") {
		return "", content
	}

	return strings.TrimSpace(rest[:idx]), strings.TrimPrefix(strings.TrimPrefix(tail, "\r"), "\n")
}

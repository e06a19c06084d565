package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrProseConversion indicates prose-to-HTML conversion failed.
var ErrProseConversion = errors.New("prose conversion failed")

// ProseConverter abstracts the external Markdown-to-output conversion
// applied to prose-only content. Placeholder tokens must survive the
// conversion as plain text.
type ProseConverter interface {
	Convert(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts prose Markdown to an HTML fragment using
// goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions
// and syntax highlighting for fenced code blocks.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes keep the HTML small and restylable
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &GoldmarkConverter{md: md}
}

// Convert converts prose Markdown to an HTML fragment. Supports
// context cancellation via goroutine + select since goldmark is not
// context-aware. Placeholder tokens come out wrapped in their own
// paragraph, ready for reinsertion.
func (c *GoldmarkConverter) Convert(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrProseConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// IdentityConverter passes prose through unchanged. Used when the
// assembled output stays in Quarto Markdown and the external
// typesetting pipeline does the conversion itself.
type IdentityConverter struct{}

// Convert returns the content unchanged.
func (IdentityConverter) Convert(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return content, nil
}

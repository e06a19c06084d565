package mdreport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aruiz/go-mdreport/internal/assets"
	"github.com/aruiz/go-mdreport/internal/fileutil"
	"github.com/aruiz/go-mdreport/internal/hints"
	"github.com/aruiz/go-mdreport/internal/layout"
	"github.com/aruiz/go-mdreport/internal/pipeline"
	"github.com/aruiz/go-mdreport/internal/render"
)

// Assembler orchestrates the document assembly pipeline: preprocess,
// extract tables, render them as artifacts, and reinsert layout-aware
// references.
type Assembler struct {
	cfg          assemblerConfig
	preprocessor pipeline.Preprocessor
	renderer     tableRenderer
	assets       assets.AssetLoader
	logger       *log.Logger
}

// New creates an Assembler with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Assembler {
	a := &Assembler{
		cfg: assemblerConfig{
			timeout: defaultTimeout,
			widths:  layout.DefaultWidthTable(),
		},
		preprocessor: &pipeline.QuartoPreprocessor{},
		logger:       log.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	// Create the renderer if not injected (e.g., by tests).
	if a.renderer == nil {
		a.renderer = newRodTableRenderer(a.cfg.timeout)
	}

	return a
}

// Assemble runs the full pipeline and returns the assembled document
// with its table artifacts. The context is used for cancellation; the
// configured timeout bounds the whole call.
func (a *Assembler) Assemble(ctx context.Context, input Input) (*Output, error) {
	columns, format, err := a.validateInput(input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.timeout)
	defer cancel()

	content := a.preprocessor.Preprocess(ctx, input.Source)
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w%s", err, hints.ForTimeout())
		}
		return nil, err
	}

	rawFrontMatter, body := pipeline.StripFrontMatter(content)
	if input.SourceDir != "" {
		body = pipeline.RewriteFigurePaths(body, input.SourceDir)
	}

	sess := &session{}
	for range pipeline.ScanFigures(body) {
		sess.nextFigure()
	}
	if format == layout.FormatQMD {
		if fullWidth, werr := a.cfg.widths.Width(columns, layout.ColumnSpan(float64(columns))); werr == nil {
			body = pipeline.AnnotateFigureWidths(body, layout.WidthString(fullWidth))
		}
	}

	blocks := pipeline.ScanTableBlocks(body)
	prose, placed, err := pipeline.Segment(body, blocks)
	if err != nil {
		return nil, err
	}

	span := toLayoutSpan(input.Span)
	directive, err := layout.Resolve(columns, span)
	if err != nil {
		return nil, err
	}
	widthInches, err := a.cfg.widths.Width(columns, span)
	if err != nil {
		return nil, err
	}

	out := &Output{}
	refs := make(map[string]string, len(placed))

	if len(placed) > 0 {
		if input.KeepTablesInline {
			a.placeInlineTables(placed, sess, format, directive, out, refs)
		} else {
			if err := a.renderTableArtifacts(ctx, input, placed, sess, format, directive, widthInches, out, refs); err != nil {
				return nil, err
			}
		}
	}

	var doc string
	switch format {
	case layout.FormatHTML:
		// Convert the prose while the placeholders are still plain
		// text, then reinsert the artifact markup into the converted
		// HTML. Reinserting first would feed raw HTML to the
		// converter, which strips it.
		converted, err := pipeline.NewGoldmarkConverter().Convert(ctx, prose)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProseConvert, err)
		}
		doc, err = pipeline.Reinsert(converted, refs)
		if err != nil {
			return nil, err
		}
	default:
		doc, err = pipeline.Reinsert(prose, refs)
		if err != nil {
			return nil, err
		}
		frontMatter, err := mergeFrontMatter(rawFrontMatter, input, time.Now())
		if err != nil {
			return nil, err
		}
		doc = withFrontMatter(frontMatter, doc)
	}

	out.Document = doc
	out.Figures = sess.figures

	a.logger.Debug("assembled document",
		"tables", len(out.Tables), "figures", out.Figures, "format", string(format))

	return out, nil
}

// Close releases resources (headless browser).
func (a *Assembler) Close() error {
	if a.renderer != nil {
		return a.renderer.Close()
	}
	return nil
}

// validateInput checks required fields and resolves defaults.
func (a *Assembler) validateInput(input Input) (int, layout.Format, error) {
	if input.Source == "" {
		return 0, "", ErrEmptySource
	}

	columns := input.Columns
	if columns == 0 {
		columns = DefaultColumns
	}
	if columns < MinColumns || columns > MaxColumns {
		return 0, "", fmt.Errorf("%w: got %d", ErrInvalidColumns, columns)
	}

	format := input.Format
	if format == "" {
		format = FormatQMD
	}
	switch format {
	case FormatQMD, FormatHTML, FormatLaTeX:
	default:
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	return columns, layout.Format(format), nil
}

// renderTableArtifacts renders every placed table as a PNG artifact
// and records the reference that replaces its placeholder. Table
// numbers advance here, in document order, so a failed render aborts
// assembly before any later table is numbered.
func (a *Assembler) renderTableArtifacts(
	ctx context.Context,
	input Input,
	placed []pipeline.PlacedTable,
	sess *session,
	format layout.Format,
	directive layout.Directive,
	widthInches float64,
	out *Output,
	refs map[string]string,
) error {
	css, err := a.tableCSS(input)
	if err != nil {
		return err
	}

	artifactDir := input.ArtifactDir
	if artifactDir == "" {
		artifactDir = "assets"
	}

	for _, pt := range placed {
		matrix := pt.Block.Matrix
		number := sess.nextTable()
		caption := numberedCaption(input.CaptionLabel, number, pt.Block.Caption)

		data := render.TableData{
			Header:      matrix.Header,
			Rows:        matrix.Rows,
			Numeric:     matrix.Numeric,
			Caption:     caption,
			WidthInches: widthInches,
		}

		png, err := a.renderer.RenderTable(ctx, data, css)
		if err != nil {
			return fmt.Errorf("table %d: %w", number, err)
		}

		imagePath := path.Join(artifactDir, fmt.Sprintf("table_%02d.png", number))
		out.Artifacts = append(out.Artifacts, Artifact{Path: imagePath, Data: png})
		out.Tables = append(out.Tables, TableInfo{
			Number:      number,
			Caption:     pt.Block.Caption,
			Columns:     matrix.Columns(),
			Rows:        len(matrix.Rows),
			Placement:   directive.Class.String(),
			WidthInches: widthInches,
		})

		ref, err := imageReference(format, directive, imagePath, caption, widthInches)
		if err != nil {
			return err
		}
		refs[pt.ID] = ref

		a.logger.Debug("rendered table",
			"number", number, "columns", matrix.Columns(), "rows", len(matrix.Rows),
			"placement", directive.Class.String(), "width", widthInches)
	}

	return nil
}

// placeInlineTables keeps tables as pipe tables, wrapped in the layout
// directive where the format supports one.
func (a *Assembler) placeInlineTables(
	placed []pipeline.PlacedTable,
	sess *session,
	format layout.Format,
	directive layout.Directive,
	out *Output,
	refs map[string]string,
) {
	for _, pt := range placed {
		matrix := pt.Block.Matrix
		number := sess.nextTable()

		ref := pt.Raw
		if format == layout.FormatQMD {
			if name, err := layout.DirectiveName(format, directive.Class); err == nil && name != "" {
				ref = fmt.Sprintf("::: {%s}\n%s\n:::", name, pt.Raw)
			}
		}
		refs[pt.ID] = ref

		out.Tables = append(out.Tables, TableInfo{
			Number:    number,
			Caption:   pt.Block.Caption,
			Columns:   matrix.Columns(),
			Rows:      len(matrix.Rows),
			Placement: directive.Class.String(),
		})
	}
}

// tableCSS loads the style sheet and palette for table rendering.
// The style may be a named asset or a path to a CSS file.
func (a *Assembler) tableCSS(input Input) (string, error) {
	loader, err := a.ensureAssets()
	if err != nil {
		return "", err
	}

	styleName := input.Style
	if styleName == "" {
		styleName = assets.DefaultStyleName
	}

	var css string
	if fileutil.IsFilePath(styleName) {
		content, err := os.ReadFile(styleName) // #nosec G304 -- style path is user-provided
		if err != nil {
			return "", fmt.Errorf("%w: reading style %s: %v", ErrAssetLoad, styleName, err)
		}
		css = string(content)
	} else {
		css, err = loader.LoadStyle(styleName)
		if err != nil {
			if errors.Is(err, assets.ErrStyleNotFound) {
				return "", fmt.Errorf("%w: %v%s", ErrAssetLoad, err, hints.ForStyleNotFound(assets.StyleNames()))
			}
			return "", fmt.Errorf("%w: %v", ErrAssetLoad, err)
		}
	}

	paletteName := input.Palette
	if paletteName == "" {
		paletteName = assets.DefaultPaletteName
	}
	palette, err := loader.LoadPalette(paletteName)
	if err != nil {
		if errors.Is(err, assets.ErrPaletteNotFound) {
			return "", fmt.Errorf("%w: %v%s", ErrAssetLoad, err, hints.ForStyleNotFound(assets.PaletteNames()))
		}
		return "", fmt.Errorf("%w: %v", ErrAssetLoad, err)
	}

	return palette.CSS() + css, nil
}

// ensureAssets lazily builds the asset resolver so a bad custom path
// surfaces as an assembly error rather than a construction panic.
func (a *Assembler) ensureAssets() (assets.AssetLoader, error) {
	if a.assets != nil {
		return a.assets, nil
	}
	resolver, err := assets.NewAssetResolver(a.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetLoad, err)
	}
	a.assets = resolver
	return a.assets, nil
}

// numberedCaption builds the display caption for a table.
func numberedCaption(label string, number int, caption string) string {
	if label == "" {
		label = "Table"
	}
	if caption == "" {
		return fmt.Sprintf("%s %d", label, number)
	}
	return fmt.Sprintf("%s %d: %s", label, number, caption)
}

// imageReference builds the format-specific markup that replaces a
// table placeholder.
func imageReference(format layout.Format, directive layout.Directive, imagePath, caption string, widthInches float64) (string, error) {
	name, err := layout.DirectiveName(format, directive.Class)
	if err != nil {
		return "", err
	}

	switch format {
	case layout.FormatHTML:
		widthPx := int(widthInches * 96)
		img := fmt.Sprintf("<figure><img src=%q alt=%q width=\"%d\"><figcaption>%s</figcaption></figure>",
			imagePath, caption, widthPx, caption)
		if name == "" {
			return img, nil
		}
		return fmt.Sprintf("<div class=%q>%s</div>", name, img), nil

	case layout.FormatLaTeX:
		body := fmt.Sprintf("\\includegraphics[width=%s]{%s}", layout.WidthString(widthInches), imagePath)
		if name == "" {
			return body, nil
		}
		return fmt.Sprintf("\\begin{%s}\n\\centering\n%s\n\\caption{%s}\n\\end{%s}",
			name, body, caption, name), nil

	default: // qmd
		img := fmt.Sprintf("![%s](%s){width=%s}", caption, imagePath, layout.WidthString(widthInches))
		if name == "" {
			return img, nil
		}
		return fmt.Sprintf("::: {%s}\n%s\n:::", name, img), nil
	}
}

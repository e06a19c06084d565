package mdreport

import (
	"context"
	"fmt"
	"time"

	"github.com/aruiz/go-mdreport/internal/render"
)

// tableRenderer turns table data into a PNG artifact.
type tableRenderer interface {
	RenderTable(ctx context.Context, data render.TableData, css string) ([]byte, error)
	Close() error
}

// rodTableRenderer renders tables with a headless browser: the table
// is built as a standalone HTML document, screenshotted at 2x scale,
// and returned as PNG bytes.
type rodTableRenderer struct {
	raster render.RasterRenderer
}

func newRodTableRenderer(timeout time.Duration) *rodTableRenderer {
	return &rodTableRenderer{raster: render.NewRodRenderer(timeout)}
}

func (r *rodTableRenderer) RenderTable(ctx context.Context, data render.TableData, css string) ([]byte, error) {
	htmlContent, err := render.BuildTableHTML(data, css)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableRender, err)
	}

	png, err := r.raster.RenderPNG(ctx, htmlContent, data.WidthPixels())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableRender, err)
	}
	return png, nil
}

func (r *rodTableRenderer) Close() error {
	return r.raster.Close()
}

// Compile-time interface check.
var _ tableRenderer = (*rodTableRenderer)(nil)

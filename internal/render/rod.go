package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/aruiz/go-mdreport/internal/fileutil"
	"github.com/aruiz/go-mdreport/internal/hints"
	"github.com/aruiz/go-mdreport/internal/process"
)

// Sentinel errors for raster rendering.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("screenshot capture failed")
)

// RasterRenderer abstracts HTML-to-image rendering to allow testing
// without a browser.
type RasterRenderer interface {
	RenderPNG(ctx context.Context, htmlContent string, widthPx int) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ RasterRenderer = (*RodRenderer)(nil)

// RodRenderer rasterizes HTML to PNG using headless Chrome via go-rod.
// Rod downloads Chromium on first run if no browser is found. The
// browser connects lazily on first render and is reused afterwards.
type RodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// NewRodRenderer creates a RodRenderer with the given per-render
// timeout.
func NewRodRenderer(timeout time.Duration) *RodRenderer {
	return &RodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *RodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		l.Kill()
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}
	r.launcher = l
	return nil
}

// Close releases browser resources. The launcher's process group is
// killed after the browser closes so orphaned Chrome helpers do not
// outlive the renderer.
func (r *RodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil

	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher = nil
	}
	return err
}

// RenderPNG loads the HTML in headless Chrome and captures the table
// element as a PNG sized to widthPx. Returns explicit errors instead
// of panicking when browser operations fail.
func (r *RodRenderer) RenderPNG(ctx context.Context, htmlContent string, widthPx int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	if widthPx <= 0 {
		widthPx = 624
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             widthPx,
		Height:            10,
		DeviceScaleFactor: 2, // crisp output when the PDF pipeline downscales
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Capture just the table element so the artifact has no page
	// chrome around it.
	el, err := page.Timeout(timeout).Element("table")
	if err != nil {
		return nil, fmt.Errorf("%w: locating table: %v", ErrScreenshot, err)
	}

	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	return png, nil
}

package main

import (
	"errors"
	"os"

	mdreport "github.com/aruiz/go-mdreport"
	"github.com/aruiz/go-mdreport/internal/config"
	"github.com/aruiz/go-mdreport/internal/render"
)

// Exit codes for the mdreport CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful assembly
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, render.ErrBrowserConnect) ||
		errors.Is(err, render.ErrPageCreate) ||
		errors.Is(err, render.ErrPageLoad) ||
		errors.Is(err, render.ErrScreenshot) ||
		errors.Is(err, mdreport.ErrTableRender) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrUnknownDocType) ||
		errors.Is(err, config.ErrInvalidColumns) ||
		errors.Is(err, config.ErrInvalidWidths) ||
		errors.Is(err, config.ErrUnknownOutFormat) ||
		errors.Is(err, mdreport.ErrEmptySource) ||
		errors.Is(err, mdreport.ErrInvalidColumns) ||
		errors.Is(err, mdreport.ErrInvalidFormat) ||
		errors.Is(err, mdreport.ErrAssetLoad) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}

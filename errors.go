package mdreport

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource    = errors.New("source content cannot be empty")
	ErrInvalidColumns = errors.New("document columns must be between 1 and 3")
	ErrInvalidFormat  = errors.New("invalid output format")
	ErrTableRender    = errors.New("table rendering failed")
	ErrProseConvert   = errors.New("prose conversion failed")
	ErrAssetLoad      = errors.New("asset loading failed")
	ErrFrontMatter    = errors.New("invalid front matter")
)

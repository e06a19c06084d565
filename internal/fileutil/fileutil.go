// Package fileutil holds small file and path helpers shared by the
// renderer, config loading, and output writing.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile writes content to a fresh temp file named
// mdreport-*.<extension> and returns its path with a cleanup func.
// The renderer uses this to hand HTML to the browser as a file URL.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "mdreport-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// ValidateExtension rejects extensions that could escape the temp
// file name: separators and null bytes.
func ValidateExtension(extension string) error {
	switch {
	case extension == "":
		return ErrExtensionEmpty
	case strings.ContainsAny(extension, "/\\\x00"):
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath distinguishes a path ("./custom.css", "sub/dir") from a
// bare name ("technical"): anything containing a separator is a path.
// Style and config lookups use this to decide between loading a file
// and searching named assets.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL reports whether s is an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

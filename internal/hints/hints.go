// Package hints appends actionable "\n  hint: ..." suffixes to error
// messages for the failure modes users actually hit: missing Chrome,
// sandboxed containers, absent configs, missing quarto.
package hints

import (
	"os"
	"strings"

	"github.com/aruiz/go-mdreport/internal/fileutil"
)

// IsInContainer reports whether we appear to run inside Docker.
// Overridable for tests.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests the environment variables that fix the
// common browser launch failures: sandboxing inside containers/CI and
// a Chrome binary outside the default search path.
func ForBrowserConnect() string {
	var h []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		h = append(h, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		h = append(h, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return formatAll(h)
}

// ForTimeout points at the --timeout flag when a deadline fires.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound suggests --config and, when one of the searched
// paths is under the user config directory, creating the file there.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdreport") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory covers output directory creation failures.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the asset names that would have worked.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForQuartoMissing covers a missing quarto binary.
func ForQuartoMissing() string {
	return format("install quarto from https://quarto.org/docs/download/ or set --quarto-bin")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatAll(h []string) string {
	if len(h) == 0 {
		return ""
	}
	return format(strings.Join(h, "; "))
}

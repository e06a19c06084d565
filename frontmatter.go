package mdreport

import (
	"fmt"
	"strings"
	"time"

	"github.com/aruiz/go-mdreport/internal/yamlutil"
)

// mergeFrontMatter parses the source front matter (if any), overlays
// the title and resolved date from the input, and returns the merged
// YAML without fences. Returns empty string when there is nothing to
// emit.
func mergeFrontMatter(raw string, input Input, now time.Time) (string, error) {
	fields := map[string]any{}

	if raw != "" {
		if err := yamlutil.Unmarshal([]byte(raw), &fields); err != nil {
			return "", fmt.Errorf("%w: %v", ErrFrontMatter, err)
		}
	}

	if input.Title != "" {
		fields["title"] = input.Title
	}
	if input.Date != "" {
		resolved, err := ResolveDate(input.Date, now)
		if err != nil {
			return "", err
		}
		fields["date"] = resolved
	}

	if len(fields) == 0 {
		return "", nil
	}

	out, err := yamlutil.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	return string(out), nil
}

// withFrontMatter prepends a YAML front matter fence to the body.
func withFrontMatter(frontMatter, body string) string {
	if frontMatter == "" {
		return body
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(strings.TrimRight(frontMatter, "\n"))
	b.WriteString("\n---\n\n")
	b.WriteString(strings.TrimLeft(body, "\n"))
	return b.String()
}

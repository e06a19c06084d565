package mdreport

import (
	"time"

	"github.com/aruiz/go-mdreport/internal/dateutil"
)

// ResolveDate expands "auto" and "auto:FORMAT" date values against
// now; other values pass through unchanged. Formats use tokens like
// YYYY-MM-DD or a preset name (iso, european, us, long).
func ResolveDate(value string, now time.Time) (string, error) {
	return dateutil.ResolveDate(value, now)
}

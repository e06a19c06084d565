package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects names unusable as bare file stems. Names
// carry no extension, so a dot means someone is smuggling one in;
// separators would escape the asset directory.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, "/\\."):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*
var styles embed.FS

//go:embed palettes/*
var palettes embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a table CSS style from embedded assets by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadPalette loads a color palette from embedded assets by name.
// The name should not include the .yaml extension.
func (e *EmbeddedLoader) LoadPalette(name string) (*Palette, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := palettes.ReadFile("palettes/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrPaletteNotFound, name)
	}

	p, err := ParsePalette(content)
	if err != nil {
		return nil, fmt.Errorf("palette %q: %w", name, err)
	}
	return p, nil
}

// StyleNames returns the names of all embedded styles.
func StyleNames() []string {
	return namesIn(styles, "styles", ".css")
}

// PaletteNames returns the names of all embedded palettes.
func PaletteNames() []string {
	return namesIn(palettes, "palettes", ".yaml")
}

func namesIn(fsys embed.FS, dir, ext string) []string {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)

package assets

// AssetLoader defines the contract for loading table styles and palettes.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type AssetLoader interface {
	// LoadStyle loads a table CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadPalette loads a color palette by name (without .yaml extension).
	// Returns ErrPaletteNotFound if the palette doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadPalette(name string) (*Palette, error)
}

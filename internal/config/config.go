// Package config loads document assembly configuration from YAML
// files with environment-independent defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aruiz/go-mdreport/internal/fileutil"
	"github.com/aruiz/go-mdreport/internal/hints"
	"github.com/aruiz/go-mdreport/internal/layout"
	"github.com/aruiz/go-mdreport/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrEmptyConfigName  = errors.New("config name cannot be empty")
	ErrConfigParse      = errors.New("failed to parse config")
	ErrUnknownDocType   = errors.New("unknown document type")
	ErrInvalidColumns   = errors.New("invalid column count")
	ErrInvalidWidths    = errors.New("invalid column widths")
	ErrUnknownOutFormat = errors.New("unknown output format")
)

// Document type names.
const (
	DocTypeReport = "report"
	DocTypePaper  = "paper"
	DocTypeBook   = "book"
)

// Output format names.
const (
	FormatQMD   = "qmd"
	FormatHTML  = "html"
	FormatLaTeX = "latex"
)

// Config holds all configuration for document assembly.
type Config struct {
	Document DocumentConfig          `yaml:"document"`
	Types    map[string]TypeConfig   `yaml:"types"`
	Widths   map[string]WidthsConfig `yaml:"widths"`
	Tables   TablesConfig            `yaml:"tables"`
	Output   OutputConfig            `yaml:"output"`
	Quarto   QuartoConfig            `yaml:"quarto"`
}

// DocumentConfig defines per-document defaults.
type DocumentConfig struct {
	Type    string `yaml:"type"`    // "report", "paper", "book" (default: "report")
	Columns int    `yaml:"columns"` // 1-3 (default: from document type)
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`       // literal date, or "auto"
	DateFmt string `yaml:"dateFormat"` // token format for "auto" (default: YYYY-MM-DD)
}

// TypeConfig defines a document type's column policy.
type TypeConfig struct {
	DefaultColumns int `yaml:"defaultColumns"`
	MaxColumns     int `yaml:"maxColumns"`
}

// WidthsConfig defines physical column geometry in inches for one
// layout, keyed by column count.
type WidthsConfig struct {
	Single float64 `yaml:"single"`
	Double float64 `yaml:"double"`
	Triple float64 `yaml:"triple"`
	Gap    float64 `yaml:"gap"`
}

// TablesConfig defines table artifact options.
type TablesConfig struct {
	Style        string `yaml:"style"`        // style name in assets or a CSS path (default: "technical")
	Palette      string `yaml:"palette"`      // palette name in assets (default: "corporate")
	CaptionLabel string `yaml:"captionLabel"` // "Table" or "Tabla" (default: "Table")
	AsImages     bool   `yaml:"asImages"`     // render tables as styled PNG artifacts
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir         string `yaml:"dir"`         // output directory (empty = same as source)
	Format      string `yaml:"format"`      // "qmd" (default) or "html"
	ArtifactDir string `yaml:"artifactDir"` // subdirectory for table images (default: "assets")
}

// QuartoConfig defines the external typesetting invocation.
type QuartoConfig struct {
	Binary string   `yaml:"binary"` // default: "quarto"
	Render bool     `yaml:"render"` // run quarto render after assembly
	Args   []string `yaml:"args"`   // extra arguments to quarto render
}

// Default returns the built-in configuration: a one-column report,
// tables rendered as styled images.
func Default() *Config {
	return &Config{
		Document: DocumentConfig{Type: DocTypeReport, DateFmt: "YYYY-MM-DD"},
		Types: map[string]TypeConfig{
			DocTypeReport: {DefaultColumns: 1, MaxColumns: 2},
			DocTypePaper:  {DefaultColumns: 2, MaxColumns: 3},
			DocTypeBook:   {DefaultColumns: 1, MaxColumns: 1},
		},
		Widths: map[string]WidthsConfig{
			"1": {Single: 6.5, Double: 6.5, Triple: 6.5, Gap: 0},
			"2": {Single: 3.1, Double: 6.5, Triple: 6.5, Gap: 0.3},
			"3": {Single: 1.96, Double: 4.22, Triple: 6.5, Gap: 0.3},
		},
		Tables: TablesConfig{
			Style:        "technical",
			Palette:      "corporate",
			CaptionLabel: "Table",
			AsImages:     true,
		},
		Output: OutputConfig{Format: FormatQMD, ArtifactDir: "assets"},
		Quarto: QuartoConfig{Binary: "quarto"},
	}
}

// Load loads configuration from a file path or config name. A string
// containing a path separator is treated as a path; otherwise it is a
// name searched in the current directory and the user config
// directory. Returns an error if the file is not found, never a
// silent fallback.
func Load(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolvePath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePath searches for a config file by name in standard
// locations, trying .yaml then .yml in the current directory and in
// the user config directory.
func resolvePath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdreport", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound,
		strings.Join(triedPaths, ", "), hints.ForConfigNotFound(triedPaths))
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if _, ok := c.Types[c.Document.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDocType, c.Document.Type)
	}

	if c.Document.Columns != 0 {
		if c.Document.Columns < 1 || c.Document.Columns > 3 {
			return fmt.Errorf("%w: %d (must be 1-3)", ErrInvalidColumns, c.Document.Columns)
		}
		if max := c.Types[c.Document.Type].MaxColumns; max > 0 && c.Document.Columns > max {
			return fmt.Errorf("%w: %d exceeds %d for document type %q",
				ErrInvalidColumns, c.Document.Columns, max, c.Document.Type)
		}
	}

	for key, w := range c.Widths {
		if w.Single <= 0 || w.Gap < 0 {
			return fmt.Errorf("%w: layout %q", ErrInvalidWidths, key)
		}
	}

	switch c.Output.Format {
	case FormatQMD, FormatHTML, FormatLaTeX:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutFormat, c.Output.Format)
	}

	return nil
}

// Columns returns the effective document column count: the explicit
// setting when present, otherwise the document type's default.
func (c *Config) Columns() int {
	if c.Document.Columns != 0 {
		return c.Document.Columns
	}
	if t, ok := c.Types[c.Document.Type]; ok && t.DefaultColumns > 0 {
		return t.DefaultColumns
	}
	return 1
}

// WidthTable converts the configured geometry into the layout
// package's width table.
func (c *Config) WidthTable() layout.WidthTable {
	table := layout.WidthTable{}
	for key, w := range c.Widths {
		var n int
		switch key {
		case "1":
			n = 1
		case "2":
			n = 2
		case "3":
			n = 3
		default:
			continue
		}
		table[n] = layout.ColumnWidths{Single: w.Single, Double: w.Double, Triple: w.Triple, Gap: w.Gap}
	}
	return table
}

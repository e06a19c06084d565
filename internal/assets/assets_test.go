package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedLoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	for _, name := range []string{"technical", "minimal", "report"} {
		css, err := loader.LoadStyle(name)
		if err != nil {
			t.Errorf("LoadStyle(%q) error: %v", name, err)
			continue
		}
		if !strings.Contains(css, "table") {
			t.Errorf("LoadStyle(%q) missing table selector", name)
		}
		if !strings.Contains(css, "td.num") {
			t.Errorf("LoadStyle(%q) missing numeric cell selector", name)
		}
	}
}

func TestEmbeddedLoadStyleNotFound(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	if _, err := loader.LoadStyle("nonexistent"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(nonexistent) = %v, want ErrStyleNotFound", err)
	}
}

func TestEmbeddedLoadPalette(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	p, err := loader.LoadPalette("corporate")
	if err != nil {
		t.Fatalf("LoadPalette(corporate) error: %v", err)
	}
	if p.Name != "corporate" {
		t.Errorf("Name = %q, want %q", p.Name, "corporate")
	}
	if p.HeaderBG == "" || p.Border == "" {
		t.Error("palette missing required colors")
	}
}

func TestEmbeddedLoadPaletteNotFound(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	if _, err := loader.LoadPalette("neon"); !errors.Is(err, ErrPaletteNotFound) {
		t.Errorf("LoadPalette(neon) = %v, want ErrPaletteNotFound", err)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "technical", false},
		{"hyphenated name", "my-style", false},
		{"empty", "", true},
		{"slash", "styles/technical", true},
		{"backslash", "styles\\technical", true},
		{"dot traversal", "..", true},
		{"extension smuggling", "style.css", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetName(%q) = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("error %v not wrapped in ErrInvalidAssetName", err)
			}
		})
	}
}

func TestPaletteCSS(t *testing.T) {
	t.Parallel()

	p := &Palette{HeaderBG: "#112233", Border: "#abcdef"}
	css := p.CSS()
	if !strings.Contains(css, "--mdr-header-bg: #112233;") {
		t.Errorf("CSS() missing header variable, got:\n%s", css)
	}
	if !strings.Contains(css, "--mdr-border: #abcdef;") {
		t.Errorf("CSS() missing border variable, got:\n%s", css)
	}
	if strings.Contains(css, "--mdr-row-stripe") {
		t.Error("CSS() should omit unset colors")
	}
}

func TestParsePaletteRejectsUnknownField(t *testing.T) {
	t.Parallel()

	_, err := ParsePalette([]byte("name: x\nheaderColour: '#fff'\n"))
	if !errors.Is(err, ErrPaletteParse) {
		t.Errorf("ParsePalette with unknown field = %v, want ErrPaletteParse", err)
	}
}

func TestStyleAndPaletteNames(t *testing.T) {
	t.Parallel()

	styleNames := StyleNames()
	if len(styleNames) < 3 {
		t.Errorf("StyleNames() = %v, want at least 3 entries", styleNames)
	}
	paletteNames := PaletteNames()
	if len(paletteNames) < 3 {
		t.Errorf("PaletteNames() = %v, want at least 3 entries", paletteNames)
	}
	for _, n := range styleNames {
		if strings.Contains(n, ".") {
			t.Errorf("style name %q should not include extension", n)
		}
	}
}

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	stylesDir := filepath.Join(base, "styles")
	palettesDir := filepath.Join(base, "palettes")
	for _, dir := range []string{stylesDir, palettesDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	customCSS := "table { border: 3px dashed red; }"
	if err := os.WriteFile(filepath.Join(stylesDir, "custom.css"), []byte(customCSS), 0o600); err != nil {
		t.Fatalf("write css: %v", err)
	}
	if err := os.WriteFile(filepath.Join(palettesDir, "brand.yaml"),
		[]byte("name: brand\nheaderBackground: '#000'\n"), 0o600); err != nil {
		t.Fatalf("write palette: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader: %v", err)
	}

	css, err := loader.LoadStyle("custom")
	if err != nil {
		t.Fatalf("LoadStyle(custom): %v", err)
	}
	if css != customCSS {
		t.Errorf("LoadStyle(custom) = %q, want %q", css, customCSS)
	}

	p, err := loader.LoadPalette("brand")
	if err != nil {
		t.Fatalf("LoadPalette(brand): %v", err)
	}
	if p.Name != "brand" {
		t.Errorf("palette name = %q, want brand", p.Name)
	}

	if _, err := loader.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) = %v, want ErrStyleNotFound", err)
	}
}

func TestFilesystemLoaderInvalidBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"nonexistent", filepath.Join(os.TempDir(), "mdreport-does-not-exist-xyz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewFilesystemLoader(tt.path); !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader(%q) = %v, want ErrInvalidBasePath", tt.path, err)
			}
		})
	}
}

func TestResolverFallback(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	stylesDir := filepath.Join(base, "styles")
	if err := os.MkdirAll(stylesDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stylesDir, "technical.css"),
		[]byte("table { all: unset; }"), 0o600); err != nil {
		t.Fatalf("write css: %v", err)
	}

	resolver, err := NewAssetResolver(base)
	if err != nil {
		t.Fatalf("NewAssetResolver: %v", err)
	}
	if !resolver.HasCustomLoader() {
		t.Fatal("HasCustomLoader() = false, want true")
	}

	// Custom wins when present.
	css, err := resolver.LoadStyle("technical")
	if err != nil {
		t.Fatalf("LoadStyle(technical): %v", err)
	}
	if css != "table { all: unset; }" {
		t.Errorf("LoadStyle(technical) did not use custom override, got %q", css)
	}

	// Falls back to embedded for assets absent from the custom dir.
	if _, err := resolver.LoadStyle("minimal"); err != nil {
		t.Errorf("LoadStyle(minimal) fallback error: %v", err)
	}
	if _, err := resolver.LoadPalette("corporate"); err != nil {
		t.Errorf("LoadPalette(corporate) fallback error: %v", err)
	}

	// Invalid names never fall back.
	if _, err := resolver.LoadStyle("../etc"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(../etc) = %v, want ErrInvalidAssetName", err)
	}
}

func TestResolverEmbeddedOnly(t *testing.T) {
	t.Parallel()

	resolver, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver(\"\"): %v", err)
	}
	if resolver.HasCustomLoader() {
		t.Error("HasCustomLoader() = true, want false")
	}
	if _, err := resolver.LoadStyle("report"); err != nil {
		t.Errorf("LoadStyle(report): %v", err)
	}
}

package assets

import (
	"fmt"
	"strings"

	"github.com/aruiz/go-mdreport/internal/yamlutil"
)

// Palette holds the colors applied to a table style. Styles reference
// colors through CSS custom properties so one style works with any
// palette.
type Palette struct {
	Name       string `yaml:"name"`
	HeaderBG   string `yaml:"headerBackground"`
	HeaderText string `yaml:"headerText"`
	RowStripe  string `yaml:"rowStripe"`
	Border     string `yaml:"border"`
	Text       string `yaml:"text"`
	NumericBG  string `yaml:"numericBackground"`
}

// Default palette names.
const (
	DefaultStyleName   = "technical"
	DefaultPaletteName = "corporate"
)

// ParsePalette decodes a palette from YAML.
func ParsePalette(data []byte) (*Palette, error) {
	var p Palette
	if err := yamlutil.UnmarshalStrict(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaletteParse, err)
	}
	return &p, nil
}

// CSS renders the palette as a :root custom-property block. Styles
// consume the variables with var(--mdr-*) references.
func (p *Palette) CSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	writeVar(&b, "header-bg", p.HeaderBG)
	writeVar(&b, "header-text", p.HeaderText)
	writeVar(&b, "row-stripe", p.RowStripe)
	writeVar(&b, "border", p.Border)
	writeVar(&b, "text", p.Text)
	writeVar(&b, "numeric-bg", p.NumericBG)
	b.WriteString("}\n")
	return b.String()
}

func writeVar(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  --mdr-%s: %s;\n", name, value)
}

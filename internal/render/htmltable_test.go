package render

import (
	"strings"
	"testing"
)

func TestBuildTableHTML(t *testing.T) {
	d := TableData{
		Header:      []string{"Name", "Load"},
		Rows:        [][]string{{"beam", "1,250"}, {"col <1>", "980"}},
		Numeric:     []bool{false, true},
		Caption:     "Table 1: Design loads",
		WidthInches: 6.5,
	}

	got, err := BuildTableHTML(d, "table { border-collapse: collapse }")
	if err != nil {
		t.Fatalf("BuildTableHTML() error = %v", err)
	}

	for _, want := range []string{
		"<th>Name</th>",
		"<th>Load</th>",
		"<caption>Table 1: Design loads</caption>",
		`<td class="num">1,250</td>`,
		"<td>col &lt;1&gt;</td>", // cell contents must be escaped
		"border-collapse",
		`width: 624px`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestBuildTableHTMLNoCaption(t *testing.T) {
	d := TableData{Header: []string{"A"}, Rows: [][]string{{"1"}}}

	got, err := BuildTableHTML(d, "")
	if err != nil {
		t.Fatalf("BuildTableHTML() error = %v", err)
	}
	if strings.Contains(got, "<caption>") {
		t.Error("captionless table must not render a <caption> element")
	}
}

func TestBuildTableHTMLEmptyHeader(t *testing.T) {
	if _, err := BuildTableHTML(TableData{}, ""); err == nil {
		t.Error("BuildTableHTML() with empty header should error")
	}
}

func TestSanitizeCSS(t *testing.T) {
	in := "body { } </style><script>alert(1)</script>"
	got := SanitizeCSS(in)
	if strings.Contains(got, "</style>") {
		t.Errorf("SanitizeCSS() left a closing sequence: %q", got)
	}
}

func TestWidthPixels(t *testing.T) {
	tests := []struct {
		inches float64
		want   int
	}{
		{6.5, 624},
		{3.1, 297},
		{0, 624},
		{-1, 624},
	}
	for _, tt := range tests {
		d := TableData{WidthInches: tt.inches}
		if got := d.WidthPixels(); got != tt.want {
			t.Errorf("WidthPixels(%v) = %d, want %d", tt.inches, got, tt.want)
		}
	}
}

package mdreport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aruiz/go-mdreport/internal/render"
)

// fakeRenderer records render calls and returns canned PNG bytes.
type fakeRenderer struct {
	calls  []render.TableData
	css    []string
	err    error
	closed bool
}

func (f *fakeRenderer) RenderTable(_ context.Context, data render.TableData, css string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, data)
	f.css = append(f.css, css)
	return []byte(fmt.Sprintf("png-%d", len(f.calls))), nil
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

func newTestAssembler(opts ...Option) (*Assembler, *fakeRenderer) {
	fake := &fakeRenderer{}
	a := New(opts...)
	if err := a.renderer.Close(); err != nil {
		panic(err)
	}
	a.renderer = fake
	return a, fake
}

const twoTableSource = `# Results

Intro paragraph.

| Metric | Value |
|--------|-------|
| Speed  | 1,250 |
| Error  | 0.02  |

: Benchmark summary

Middle text.

| Name | Role |
|------|------|
| Ada  | Lead |

Closing text.
`

func TestAssembleEmptySource(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	if _, err := a.Assemble(context.Background(), Input{}); !errors.Is(err, ErrEmptySource) {
		t.Errorf("Assemble(empty) = %v, want ErrEmptySource", err)
	}
}

func TestAssembleInvalidColumns(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	_, err := a.Assemble(context.Background(), Input{Source: "x", Columns: 4})
	if !errors.Is(err, ErrInvalidColumns) {
		t.Errorf("Assemble(columns=4) = %v, want ErrInvalidColumns", err)
	}
}

func TestAssembleInvalidFormat(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	_, err := a.Assemble(context.Background(), Input{Source: "x", Format: "docx"})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Assemble(format=docx) = %v, want ErrInvalidFormat", err)
	}
}

func TestAssembleQMD(t *testing.T) {
	a, fake := newTestAssembler()
	defer a.Close()

	out, err := a.Assemble(context.Background(), Input{
		Source:  twoTableSource,
		Columns: 3,
		Span:    &SpanSpec{Columns: 2},
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	if len(out.Tables) != 2 {
		t.Fatalf("len(Tables) = %d, want 2", len(out.Tables))
	}
	if len(out.Artifacts) != 2 {
		t.Fatalf("len(Artifacts) = %d, want 2", len(out.Artifacts))
	}

	// Document-order numbering starting at 1.
	if out.Tables[0].Number != 1 || out.Tables[1].Number != 2 {
		t.Errorf("table numbers = %d, %d; want 1, 2", out.Tables[0].Number, out.Tables[1].Number)
	}
	if out.Tables[0].Caption != "Benchmark summary" {
		t.Errorf("Tables[0].Caption = %q, want %q", out.Tables[0].Caption, "Benchmark summary")
	}
	if out.Tables[0].Placement != "outset-right" {
		t.Errorf("Tables[0].Placement = %q, want %q", out.Tables[0].Placement, "outset-right")
	}

	// Two columns in a three-column layout span the double width.
	if out.Tables[0].WidthInches != 4.22 {
		t.Errorf("Tables[0].WidthInches = %v, want 4.22", out.Tables[0].WidthInches)
	}

	if out.Artifacts[0].Path != "assets/table_01.png" {
		t.Errorf("Artifacts[0].Path = %q, want %q", out.Artifacts[0].Path, "assets/table_01.png")
	}
	if string(out.Artifacts[0].Data) != "png-1" {
		t.Errorf("Artifacts[0].Data = %q, want png-1", out.Artifacts[0].Data)
	}

	// Placeholders are gone; fenced divs carry the layout class.
	if strings.Contains(out.Document, "⟦TABLE:") {
		t.Error("document still contains placeholders")
	}
	if !strings.Contains(out.Document, "::: {.column-outset-right}") {
		t.Errorf("document missing layout fence:\n%s", out.Document)
	}
	if !strings.Contains(out.Document, "![Table 1: Benchmark summary](assets/table_01.png){width=4.22in}") {
		t.Errorf("document missing first image reference:\n%s", out.Document)
	}
	if !strings.Contains(out.Document, "![Table 2](assets/table_02.png)") {
		t.Errorf("document missing second image reference:\n%s", out.Document)
	}

	// Prose survives untouched.
	for _, want := range []string{"# Results", "Intro paragraph.", "Middle text.", "Closing text."} {
		if !strings.Contains(out.Document, want) {
			t.Errorf("document missing prose %q", want)
		}
	}
	if strings.Contains(out.Document, "| Metric |") {
		t.Error("document still contains the raw pipe table")
	}

	// Renderer received normalized matrices and the styled CSS.
	if len(fake.calls) != 2 {
		t.Fatalf("renderer calls = %d, want 2", len(fake.calls))
	}
	if fake.calls[0].Caption != "Table 1: Benchmark summary" {
		t.Errorf("renderer caption = %q", fake.calls[0].Caption)
	}
	if !fake.calls[0].Numeric[1] {
		t.Error("Value column should be numeric")
	}
	if !strings.Contains(fake.css[0], "--mdr-header-bg") {
		t.Error("renderer CSS missing palette variables")
	}
}

func TestAssembleSingleColumnHasNoFence(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	out, err := a.Assemble(context.Background(), Input{Source: twoTableSource})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if strings.Contains(out.Document, ":::") {
		t.Errorf("single-column layout should not emit fences:\n%s", out.Document)
	}
	if !strings.Contains(out.Document, "{width=6.5in}") {
		t.Errorf("single-column table should use full single width:\n%s", out.Document)
	}
}

func TestAssembleInlineTables(t *testing.T) {
	a, fake := newTestAssembler()
	defer a.Close()

	out, err := a.Assemble(context.Background(), Input{
		Source:           twoTableSource,
		KeepTablesInline: true,
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	if len(fake.calls) != 0 {
		t.Errorf("inline mode should not render, got %d calls", len(fake.calls))
	}
	if len(out.Artifacts) != 0 {
		t.Errorf("inline mode should produce no artifacts, got %d", len(out.Artifacts))
	}
	if !strings.Contains(out.Document, "| Metric | Value |") {
		t.Errorf("inline mode should keep the pipe table:\n%s", out.Document)
	}
	if len(out.Tables) != 2 {
		t.Errorf("len(Tables) = %d, want 2", len(out.Tables))
	}
}

func TestAssembleHTML(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	out, err := a.Assemble(context.Background(), Input{
		Source:  twoTableSource,
		Columns: 2,
		Span:    &SpanSpec{Columns: 2},
		Format:  FormatHTML,
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	if !strings.Contains(out.Document, "<h1") {
		t.Errorf("HTML output missing heading:\n%s", out.Document)
	}
	if !strings.Contains(out.Document, `<div class="column-page">`) {
		t.Errorf("HTML output missing layout div:\n%s", out.Document)
	}
	if !strings.Contains(out.Document, `src="assets/table_01.png"`) {
		t.Errorf("HTML output missing image source:\n%s", out.Document)
	}
	if strings.Contains(out.Document, "raw HTML omitted") {
		t.Errorf("converter stripped the table markup:\n%s", out.Document)
	}
}

func TestAssembleFrontMatter(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	source := "---\nauthor: A. Ruiz\n---\n\nBody text.\n"
	out, err := a.Assemble(context.Background(), Input{
		Source: source,
		Title:  "Quarterly Report",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	if !strings.HasPrefix(out.Document, "---\n") {
		t.Errorf("document should start with front matter:\n%s", out.Document)
	}
	if !strings.Contains(out.Document, "title: Quarterly Report") {
		t.Errorf("front matter missing injected title:\n%s", out.Document)
	}
	if !strings.Contains(out.Document, "author: A. Ruiz") {
		t.Errorf("front matter lost existing fields:\n%s", out.Document)
	}
	if !strings.Contains(out.Document, "Body text.") {
		t.Errorf("document missing body:\n%s", out.Document)
	}
}

func TestAssembleCountsFigures(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	source := "![chart](a.png)\n\ntext\n\n![diagram](b.png)\n"
	out, err := a.Assemble(context.Background(), Input{Source: source})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if out.Figures != 2 {
		t.Errorf("Figures = %d, want 2", out.Figures)
	}
}

func TestAssembleRenderFailure(t *testing.T) {
	a, fake := newTestAssembler()
	defer a.Close()
	fake.err = ErrTableRender

	_, err := a.Assemble(context.Background(), Input{Source: twoTableSource})
	if !errors.Is(err, ErrTableRender) {
		t.Errorf("Assemble() = %v, want ErrTableRender", err)
	}
}

func TestAssembleUnknownStyle(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	_, err := a.Assemble(context.Background(), Input{
		Source: twoTableSource,
		Style:  "nonexistent",
	})
	if !errors.Is(err, ErrAssetLoad) {
		t.Errorf("Assemble(style=nonexistent) = %v, want ErrAssetLoad", err)
	}
	if !strings.Contains(err.Error(), "technical") {
		t.Errorf("error should list available styles, got: %v", err)
	}
}

func TestAssembleSpanishCaptionLabel(t *testing.T) {
	a, fake := newTestAssembler()
	defer a.Close()

	_, err := a.Assemble(context.Background(), Input{
		Source:       twoTableSource,
		CaptionLabel: "Tabla",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if fake.calls[0].Caption != "Tabla 1: Benchmark summary" {
		t.Errorf("caption = %q, want Spanish label", fake.calls[0].Caption)
	}
}

func TestAssembleContextCancelled(t *testing.T) {
	a, _ := newTestAssembler()
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Assemble(ctx, Input{Source: "text"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Assemble(cancelled) = %v, want context.Canceled", err)
	}
}

func TestNumberedCaption(t *testing.T) {
	tests := []struct {
		label   string
		number  int
		caption string
		want    string
	}{
		{"", 1, "Totals", "Table 1: Totals"},
		{"", 3, "", "Table 3"},
		{"Tabla", 2, "Resumen", "Tabla 2: Resumen"},
	}
	for _, tt := range tests {
		if got := numberedCaption(tt.label, tt.number, tt.caption); got != tt.want {
			t.Errorf("numberedCaption(%q, %d, %q) = %q, want %q",
				tt.label, tt.number, tt.caption, got, tt.want)
		}
	}
}

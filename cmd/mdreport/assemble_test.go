package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mdreport "github.com/aruiz/go-mdreport"
	"github.com/aruiz/go-mdreport/internal/config"
)

// fakeAssembler records the inputs it receives and returns canned output.
type fakeAssembler struct {
	mu     sync.Mutex
	inputs []mdreport.Input
	output *mdreport.Output
	err    error
}

func (f *fakeAssembler) Assemble(_ context.Context, input mdreport.Input) (*mdreport.Output, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return &mdreport.Output{Document: "assembled"}, nil
}

// fakePool hands out a single shared assembler.
type fakePool struct {
	assembler Assembler
}

func (p *fakePool) Acquire() Assembler  { return p.assembler }
func (p *fakePool) Release(_ Assembler) {}
func (p *fakePool) Size() int           { return 1 }

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDiscoverFilesSingle(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "report.md", "# Report\n")

	files, err := discoverFiles([]string{src}, "", config.FormatQMD)
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("discoverFiles() returned %d files, want 1", len(files))
	}
	if files[0].InputPath != src {
		t.Errorf("InputPath = %q, want %q", files[0].InputPath, src)
	}
	want := filepath.Join(dir, "report.qmd")
	if files[0].OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, want)
	}
}

func TestDiscoverFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "one.md", "a")
	writeSource(t, dir, "two.qmd", "b")
	writeSource(t, dir, "notes.txt", "ignored")

	sub := filepath.Join(dir, "chapters")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSource(t, sub, "three.md", "c")

	hidden := filepath.Join(dir, ".cache")
	if err := os.Mkdir(hidden, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSource(t, hidden, "stale.md", "skipped")

	files, err := discoverFiles([]string{dir}, "", config.FormatHTML)
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("discoverFiles() returned %d files, want 3", len(files))
	}
	for _, f := range files {
		if filepath.Ext(f.OutputPath) != ".html" {
			t.Errorf("OutputPath = %q, want .html extension", f.OutputPath)
		}
		if filepath.Base(filepath.Dir(f.InputPath)) == ".cache" {
			t.Errorf("hidden directory not skipped: %q", f.InputPath)
		}
	}
}

func TestDiscoverFilesInvalidExtension(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "report.txt", "not markdown")

	_, err := discoverFiles([]string{src}, "", config.FormatQMD)
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("discoverFiles() error = %v, want ErrInvalidExtension", err)
	}
}

func TestDiscoverFilesMissing(t *testing.T) {
	_, err := discoverFiles([]string{"/nonexistent/report.md"}, "", config.FormatQMD)
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("discoverFiles() error = %v, want ErrReadSource", err)
	}
}

func TestOutputPathFor(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		outputDir string
		ext       string
		want      string
	}{
		{
			name:  "md to qmd in place",
			input: filepath.Join("docs", "report.md"),
			ext:   ".qmd",
			want:  filepath.Join("docs", "report.qmd"),
		},
		{
			name:      "explicit output dir",
			input:     filepath.Join("docs", "report.md"),
			outputDir: "out",
			ext:       ".html",
			want:      filepath.Join("out", "report.html"),
		},
		{
			name:  "collision gets suffix",
			input: filepath.Join("docs", "report.qmd"),
			ext:   ".qmd",
			want:  filepath.Join("docs", "report_assembled.qmd"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPathFor(tt.input, tt.outputDir, tt.ext)
			if got != tt.want {
				t.Errorf("outputPathFor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMergeFlags(t *testing.T) {
	cfg := config.Default()
	flags := &assembleFlags{
		docType:      config.DocTypePaper,
		columns:      2,
		format:       config.FormatHTML,
		style:        "minimal",
		captionLabel: "Tabla",
		inline:       true,
	}

	mergeFlags(flags, cfg)

	if cfg.Document.Type != config.DocTypePaper {
		t.Errorf("Document.Type = %q, want %q", cfg.Document.Type, config.DocTypePaper)
	}
	if cfg.Document.Columns != 2 {
		t.Errorf("Document.Columns = %d, want 2", cfg.Document.Columns)
	}
	if cfg.Output.Format != config.FormatHTML {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, config.FormatHTML)
	}
	if cfg.Tables.Style != "minimal" {
		t.Errorf("Tables.Style = %q, want %q", cfg.Tables.Style, "minimal")
	}
	if cfg.Tables.CaptionLabel != "Tabla" {
		t.Errorf("Tables.CaptionLabel = %q, want %q", cfg.Tables.CaptionLabel, "Tabla")
	}
	if cfg.Tables.AsImages {
		t.Error("Tables.AsImages = true, want false after --inline-tables")
	}
}

func TestMergeFlagsEmptyKeepsConfig(t *testing.T) {
	cfg := config.Default()
	wantStyle := cfg.Tables.Style
	wantFormat := cfg.Output.Format

	mergeFlags(&assembleFlags{}, cfg)

	if cfg.Tables.Style != wantStyle {
		t.Errorf("Tables.Style = %q, want %q", cfg.Tables.Style, wantStyle)
	}
	if cfg.Output.Format != wantFormat {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, wantFormat)
	}
}

func TestResolveTimeout(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"empty uses default", "", 0, false},
		{"seconds", "45s", 45 * time.Second, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"garbage", "soon", 0, true},
		{"negative", "-5s", 0, true},
		{"zero", "0s", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTimeout(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("resolveTimeout(%q) error = %v, want ErrInvalidTimeout", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveTimeout(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	if err := validateWorkers(0); err != nil {
		t.Errorf("validateWorkers(0) error = %v", err)
	}
	if err := validateWorkers(4); err != nil {
		t.Errorf("validateWorkers(4) error = %v", err)
	}
	if err := validateWorkers(-1); !errors.Is(err, ErrInvalidWorkerCount) {
		t.Errorf("validateWorkers(-1) error = %v, want ErrInvalidWorkerCount", err)
	}
}

func TestConfigWidths(t *testing.T) {
	cfg := config.Default()
	widths := configWidths(cfg)

	w, ok := widths[2]
	if !ok {
		t.Fatal("configWidths() missing entry for 2 columns")
	}
	if w.Double != 6.5 {
		t.Errorf("Double = %v, want 6.5", w.Double)
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "out", "report.qmd")

	out := &mdreport.Output{
		Document: "# Assembled\n",
		Artifacts: []mdreport.Artifact{
			{Path: "assets/table_01.png", Data: []byte("png-bytes")},
		},
	}

	if err := writeOutput(docPath, out); err != nil {
		t.Fatalf("writeOutput() error = %v", err)
	}

	doc, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	if string(doc) != "# Assembled\n" {
		t.Errorf("document = %q, want %q", doc, "# Assembled\n")
	}

	img, err := os.ReadFile(filepath.Join(dir, "out", "assets", "table_01.png"))
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(img) != "png-bytes" {
		t.Errorf("artifact = %q, want %q", img, "png-bytes")
	}
}

func TestAssembleFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "doc.md", "# Title\n\nbody\n")

	fake := &fakeAssembler{output: &mdreport.Output{
		Document: "assembled",
		Tables:   []mdreport.TableInfo{{Number: 1}},
	}}
	cfg := config.Default()
	flags := &assembleFlags{span: 2}

	file := FileToAssemble{InputPath: src, OutputPath: filepath.Join(dir, "doc.qmd")}
	result := assembleFile(context.Background(), fake, file, cfg, flags)
	if result.Err != nil {
		t.Fatalf("assembleFile() error = %v", result.Err)
	}
	if result.Tables != 1 {
		t.Errorf("Tables = %d, want 1", result.Tables)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("assembler called %d times, want 1", len(fake.inputs))
	}
	input := fake.inputs[0]
	if input.Source != "# Title\n\nbody\n" {
		t.Errorf("Source = %q", input.Source)
	}
	if input.SourceDir != dir {
		t.Errorf("SourceDir = %q, want %q", input.SourceDir, dir)
	}
	if input.Span == nil || input.Span.Columns != 2 {
		t.Errorf("Span = %+v, want Columns 2", input.Span)
	}

	doc, err := os.ReadFile(file.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(doc) != "assembled" {
		t.Errorf("output = %q, want %q", doc, "assembled")
	}
}

func TestAssembleFileWidthsOverrideSpan(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "doc.md", "body")

	fake := &fakeAssembler{}
	flags := &assembleFlags{span: 2, widths: []float64{2.5, 4.0}}

	file := FileToAssemble{InputPath: src, OutputPath: filepath.Join(dir, "doc.qmd")}
	result := assembleFile(context.Background(), fake, file, config.Default(), flags)
	if result.Err != nil {
		t.Fatalf("assembleFile() error = %v", result.Err)
	}

	input := fake.inputs[0]
	if input.Span == nil {
		t.Fatal("Span = nil, want explicit widths")
	}
	if len(input.Span.Widths) != 2 || input.Span.Widths[0] != 2.5 {
		t.Errorf("Span.Widths = %v, want [2.5 4]", input.Span.Widths)
	}
	if input.Span.Columns != 0 {
		t.Errorf("Span.Columns = %v, want 0 when widths given", input.Span.Columns)
	}
}

func TestAssembleFileReadError(t *testing.T) {
	file := FileToAssemble{InputPath: "/nonexistent/doc.md", OutputPath: "/tmp/doc.qmd"}
	result := assembleFile(context.Background(), &fakeAssembler{}, file, config.Default(), &assembleFlags{})
	if !errors.Is(result.Err, ErrReadSource) {
		t.Errorf("Err = %v, want ErrReadSource", result.Err)
	}
}

func TestAssembleFileAssemblerError(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "doc.md", "body")

	wantErr := errors.New("renderer exploded")
	fake := &fakeAssembler{err: wantErr}

	file := FileToAssemble{InputPath: src, OutputPath: filepath.Join(dir, "doc.qmd")}
	result := assembleFile(context.Background(), fake, file, config.Default(), &assembleFlags{})
	if !errors.Is(result.Err, wantErr) {
		t.Errorf("Err = %v, want %v", result.Err, wantErr)
	}
	if _, err := os.Stat(file.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("output written despite assembly failure")
	}
}

func TestAssembleBatchOrder(t *testing.T) {
	dir := t.TempDir()
	var files []FileToAssemble
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		src := writeSource(t, dir, name, "content of "+name)
		files = append(files, FileToAssemble{
			InputPath:  src,
			OutputPath: outputPathFor(src, "", ".qmd"),
		})
	}

	fake := &fakeAssembler{}
	pool := &fakePool{assembler: fake}

	results := assembleBatch(context.Background(), files, config.Default(), &assembleFlags{}, pool, newLogger(os.Stderr, true, false))
	if len(results) != 3 {
		t.Fatalf("assembleBatch() returned %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d error = %v", i, r.Err)
		}
		if r.InputPath != files[i].InputPath {
			t.Errorf("result %d input = %q, want %q", i, r.InputPath, files[i].InputPath)
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	mdreport "github.com/aruiz/go-mdreport"
	"github.com/aruiz/go-mdreport/internal/config"
	"github.com/aruiz/go-mdreport/internal/fileutil"
	"github.com/aruiz/go-mdreport/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadSource         = errors.New("failed to read source file")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidExtension   = errors.New("file must have .md or .qmd extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrBatchFailed        = errors.New("some documents failed to assemble")
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// Assembler is the interface for the assembly service.
type Assembler interface {
	Assemble(ctx context.Context, input mdreport.Input) (*mdreport.Output, error)
}

// Compile-time interface implementation check.
var _ Assembler = (*mdreport.Assembler)(nil)

// Pool abstracts assembler pool operations for testability.
type Pool interface {
	Acquire() Assembler
	Release(Assembler)
	Size() int
}

// libPool adapts mdreport.AssemblerPool to the CLI Pool interface.
type libPool struct {
	pool *mdreport.AssemblerPool
}

func (p *libPool) Acquire() Assembler { return p.pool.Acquire() }
func (p *libPool) Size() int          { return p.pool.Size() }

func (p *libPool) Release(a Assembler) {
	if v, ok := a.(*mdreport.Assembler); ok {
		p.pool.Release(v)
	}
}

// FileToAssemble represents a single file to process.
type FileToAssemble struct {
	InputPath  string
	OutputPath string
}

// AssemblyResult holds the outcome of a single assembly.
type AssemblyResult struct {
	InputPath  string
	OutputPath string
	Tables     int
	Err        error
	Duration   time.Duration
}

// runAssemble orchestrates the whole CLI flow: config layering, file
// discovery, parallel assembly, and output writing.
func runAssemble(inputs []string, flags *assembleFlags, logger *log.Logger) error {
	warnUnknownEnvVars(os.Stderr)
	applyEnvToFlags(loadEnvConfig(), flags)

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg := config.Default()
	if flags.config != "" {
		loaded, err := config.Load(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout)
	if err != nil {
		return err
	}

	if len(inputs) == 0 {
		return ErrNoInput
	}
	files, err := discoverFiles(inputs, flags.output, cfg.Output.Format)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .md or .qmd files found", ErrNoInput)
	}

	opts := []mdreport.Option{mdreport.WithLogger(logger)}
	if timeout > 0 {
		opts = append(opts, mdreport.WithTimeout(timeout))
	}
	if flags.assetPath != "" {
		opts = append(opts, mdreport.WithAssetPath(flags.assetPath))
	}
	if widths := configWidths(cfg); len(widths) > 0 {
		opts = append(opts, mdreport.WithColumnWidths(widths))
	}

	poolSize := mdreport.ResolvePoolSize(flags.workers)
	logger.Debug("starting batch", "files", len(files), "workers", poolSize)

	pool := mdreport.NewAssemblerPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := assembleBatch(ctx, files, cfg, flags, &libPool{pool: pool}, logger)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("assembly failed", "input", r.InputPath, "err", r.Err)
			continue
		}
		logger.Info("assembled", "input", r.InputPath, "output", r.OutputPath,
			"tables", r.Tables, "duration", r.Duration.Round(time.Millisecond))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
	}

	if flags.render && cfg.Output.Format == config.FormatQMD {
		renderer := NewQuartoRenderer(cfg.Quarto.Binary, cfg.Quarto.Args)
		for _, r := range results {
			logger.Info("quarto render", "document", r.OutputPath)
			if err := renderer.Render(ctx, r.OutputPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// mergeFlags overlays CLI flags onto the loaded config (CLI wins).
func mergeFlags(f *assembleFlags, cfg *config.Config) {
	if f.docType != "" {
		cfg.Document.Type = f.docType
	}
	if f.columns != 0 {
		cfg.Document.Columns = f.columns
	}
	if f.title != "" {
		cfg.Document.Title = f.title
	}
	if f.date != "" {
		cfg.Document.Date = f.date
	}
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.artifactDir != "" {
		cfg.Output.ArtifactDir = f.artifactDir
	}
	if f.style != "" {
		cfg.Tables.Style = f.style
	}
	if f.palette != "" {
		cfg.Tables.Palette = f.palette
	}
	if f.captionLabel != "" {
		cfg.Tables.CaptionLabel = f.captionLabel
	}
	if f.inline {
		cfg.Tables.AsImages = false
	}
	if f.quartoBin != "" {
		cfg.Quarto.Binary = f.quartoBin
	}
	if f.render {
		cfg.Quarto.Render = true
	}
}

// configWidths converts configured geometry to the public option type.
func configWidths(cfg *config.Config) map[int]mdreport.ColumnWidths {
	widths := make(map[int]mdreport.ColumnWidths, len(cfg.Widths))
	for key, w := range cfg.Widths {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		widths[n] = mdreport.ColumnWidths{Single: w.Single, Double: w.Double, Triple: w.Triple, Gap: w.Gap}
	}
	return widths
}

// validateWorkers rejects negative worker counts.
func validateWorkers(workers int) error {
	if workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, workers)
	}
	return nil
}

// resolveTimeout parses the timeout flag.
func resolveTimeout(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, value)
	}
	return d, nil
}

// outputExtensions maps output formats to file extensions.
var outputExtensions = map[string]string{
	config.FormatQMD:   ".qmd",
	config.FormatHTML:  ".html",
	config.FormatLaTeX: ".tex",
}

// discoverFiles expands the positional arguments into the list of
// files to assemble. Directories are walked recursively for .md and
// .qmd sources; hidden directories are skipped.
func discoverFiles(inputs []string, outputDir, format string) ([]FileToAssemble, error) {
	ext, ok := outputExtensions[format]
	if !ok {
		ext = ".qmd"
	}

	var files []FileToAssemble
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadSource, input, err)
		}

		if !info.IsDir() {
			if !isSourceFile(input) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, input)
			}
			files = append(files, FileToAssemble{
				InputPath:  input,
				OutputPath: outputPathFor(input, outputDir, ext),
			})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != input {
					return filepath.SkipDir
				}
				return nil
			}
			if isSourceFile(path) {
				files = append(files, FileToAssemble{
					InputPath:  path,
					OutputPath: outputPathFor(path, outputDir, ext),
				})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discovering files in %s: %w", input, err)
		}
	}
	return files, nil
}

// isSourceFile reports whether the path has an assemblable extension.
func isSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".qmd":
		return true
	}
	return false
}

// outputPathFor derives the output path for an input file. When the
// derived path would overwrite the source, an _assembled suffix keeps
// the source intact.
func outputPathFor(inputPath, outputDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := filepath.Dir(inputPath)
	if outputDir != "" {
		dir = outputDir
	}

	out := filepath.Join(dir, base+ext)
	if out == inputPath {
		out = filepath.Join(dir, base+"_assembled"+ext)
	}
	return out
}

// assembleBatch processes files in parallel using the pool. Results
// are returned in input order.
func assembleBatch(ctx context.Context, files []FileToAssemble, cfg *config.Config, flags *assembleFlags, pool Pool, logger *log.Logger) []AssemblyResult {
	results := make([]AssemblyResult, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file FileToAssemble) {
			defer wg.Done()

			a := pool.Acquire()
			defer pool.Release(a)

			start := time.Now()
			result := assembleFile(ctx, a, file, cfg, flags)
			result.Duration = time.Since(start)
			results[i] = result
		}(i, file)
	}
	wg.Wait()

	return results
}

// assembleFile reads one source, assembles it, and writes the output
// document with its table artifacts.
func assembleFile(ctx context.Context, a Assembler, file FileToAssemble, cfg *config.Config, flags *assembleFlags) AssemblyResult {
	result := AssemblyResult{InputPath: file.InputPath, OutputPath: file.OutputPath}

	source, err := os.ReadFile(file.InputPath) // #nosec G304 -- user-provided input path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadSource, err)
		return result
	}

	var span *mdreport.SpanSpec
	if len(flags.widths) > 0 {
		span = &mdreport.SpanSpec{Widths: flags.widths}
	} else if flags.span > 0 {
		span = &mdreport.SpanSpec{Columns: flags.span}
	}

	out, err := a.Assemble(ctx, mdreport.Input{
		Source:           string(source),
		SourceDir:        filepath.Dir(file.InputPath),
		Title:            cfg.Document.Title,
		Date:             cfg.Document.Date,
		Columns:          cfg.Columns(),
		Span:             span,
		Format:           cfg.Output.Format,
		Style:            cfg.Tables.Style,
		Palette:          cfg.Tables.Palette,
		ArtifactDir:      cfg.Output.ArtifactDir,
		CaptionLabel:     cfg.Tables.CaptionLabel,
		KeepTablesInline: !cfg.Tables.AsImages,
	})
	if err != nil {
		result.Err = err
		return result
	}

	result.Tables = len(out.Tables)
	result.Err = writeOutput(file.OutputPath, out)
	return result
}

// writeOutput writes the assembled document and its artifacts. The
// artifact paths in the output are relative to the document.
func writeOutput(docPath string, out *mdreport.Output) error {
	docDir := filepath.Dir(docPath)
	if err := fileutil.EnsureDir(docDir); err != nil {
		return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	if err := os.WriteFile(docPath, []byte(out.Document), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	for _, artifact := range out.Artifacts {
		path := filepath.Join(docDir, filepath.FromSlash(artifact.Path))
		if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if err := os.WriteFile(path, artifact.Data, filePermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/aruiz/go-mdreport/internal/hints"
)

// ErrQuartoRender indicates the quarto subprocess failed.
var ErrQuartoRender = errors.New("quarto render failed")

// CommandRunner abstracts command execution to enable testing without
// real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// QuartoRenderer runs quarto render on assembled documents.
type QuartoRenderer struct {
	Binary string
	Args   []string
	Runner CommandRunner
}

// NewQuartoRenderer creates a QuartoRenderer with a real command runner.
func NewQuartoRenderer(binary string, extraArgs []string) *QuartoRenderer {
	if binary == "" {
		binary = "quarto"
	}
	return &QuartoRenderer{Binary: binary, Args: extraArgs, Runner: &ExecRunner{}}
}

// Render invokes quarto render on the given document path.
func (q *QuartoRenderer) Render(ctx context.Context, docPath string) error {
	args := append([]string{"render", docPath}, q.Args...)

	_, stderr, err := q.Runner.Run(ctx, q.Binary, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s not found%s", ErrQuartoRender, q.Binary, hints.ForQuartoMissing())
		}
		return fmt.Errorf("%w: %s: %v", ErrQuartoRender, stderr, err)
	}
	return nil
}

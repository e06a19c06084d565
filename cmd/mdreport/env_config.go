package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDREPORT_CONFIG: config file path
	Style      string        // MDREPORT_STYLE: table style name or path
	Palette    string        // MDREPORT_PALETTE: palette name
	Timeout    time.Duration // MDREPORT_TIMEOUT: per-document timeout
	OutputDir  string        // MDREPORT_OUTPUT_DIR: default output directory
	Workers    int           // MDREPORT_WORKERS: parallel workers
	QuartoBin  string        // MDREPORT_QUARTO_BIN: quarto binary path
}

// knownEnvVars lists valid MDREPORT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDREPORT_CONFIG":     true,
	"MDREPORT_STYLE":      true,
	"MDREPORT_PALETTE":    true,
	"MDREPORT_TIMEOUT":    true,
	"MDREPORT_OUTPUT_DIR": true,
	"MDREPORT_WORKERS":    true,
	"MDREPORT_QUARTO_BIN": true,
	"MDREPORT_CONTAINER":  true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDREPORT_CONFIG"),
		Style:      os.Getenv("MDREPORT_STYLE"),
		Palette:    os.Getenv("MDREPORT_PALETTE"),
		OutputDir:  os.Getenv("MDREPORT_OUTPUT_DIR"),
		QuartoBin:  os.Getenv("MDREPORT_QUARTO_BIN"),
	}

	if timeout := os.Getenv("MDREPORT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDREPORT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDREPORT_* variables.
// Helps catch typos like MDREPORT_STLYE instead of MDREPORT_STYLE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDREPORT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvToFlags fills flag values left empty from the environment.
// Precedence: CLI flags > env vars > config file > defaults.
func applyEnvToFlags(env *envConfig, f *assembleFlags) {
	if f.config == "" {
		f.config = env.ConfigPath
	}
	if f.style == "" {
		f.style = env.Style
	}
	if f.palette == "" {
		f.palette = env.Palette
	}
	if f.output == "" {
		f.output = env.OutputDir
	}
	if f.workers == 0 {
		f.workers = env.Workers
	}
	if f.quartoBin == "" {
		f.quartoBin = env.QuartoBin
	}
	if f.timeout == "" && env.Timeout > 0 {
		f.timeout = env.Timeout.String()
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// doctorResult aggregates every diagnostic check for one run.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo `json:"chrome"`
	Quarto   quartoInfo `json:"quarto"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type quartoInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd checks the environment the assembler depends on and
// reports readiness. Warnings do not fail the command; only hard
// errors (no Chrome, unwritable temp) produce a nonzero exit.
func runDoctorCmd(args []string, w io.Writer) int {
	asJSON := false
	for _, arg := range args {
		if arg == "--json" {
			asJSON = true
		}
	}

	result := runDoctor()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(w, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkQuarto(result)
	checkEnvironment(result)
	checkSystem(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = "errors"
	case len(result.Warnings) > 0:
		result.Status = "warnings"
	}
	return result
}

// checkChrome locates the browser used for table rasterization.
// ROD_BROWSER_BIN wins over rod's own search. No Chrome is a hard
// error: every non-inline assembly needs it.
func checkChrome(result *doctorResult) {
	path := result.Env.BrowserBin
	if path == "" {
		found := false
		if path, found = launcher.LookPath(); !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if _, err := os.Stat(path); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", path))
		return
	}

	result.Chrome = chromeInfo{
		Found:   true,
		Path:    path,
		Version: binaryVersion(path),
		Sandbox: result.Env.NoSandbox != "1",
	}
	if result.Chrome.Version == "" {
		result.Warnings = append(result.Warnings, "Could not get Chrome version")
	}
}

// checkQuarto locates the quarto binary. Quarto only matters for
// --render, so its absence is a warning.
func checkQuarto(result *doctorResult) {
	binary := os.Getenv("MDREPORT_QUARTO_BIN")
	if binary == "" {
		binary = "quarto"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		result.Warnings = append(result.Warnings,
			"quarto not found; --render will not work. Install from https://quarto.org/docs/download/")
		return
	}
	result.Quarto = quartoInfo{Found: true, Path: path, Version: binaryVersion(path)}
}

// binaryVersion runs "<path> --version" and returns the trimmed
// output, or empty on failure.
func binaryVersion(path string) string {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer reports a container environment and which signal gave
// it away. MDREPORT_CONTAINER=1 forces the answer for setups the
// heuristics miss.
func isContainer() (bool, string) {
	if os.Getenv("MDREPORT_CONTAINER") == "1" {
		return true, "MDREPORT_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies a writable temp directory, which the renderer
// needs for its scratch HTML files.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	probe := filepath.Join(tmpDir, "mdreport-doctor-test")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(probe)
	result.System.TempWritable = true
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintf(w, "mdreport doctor\n\n")

	fmt.Fprintln(w, "Chrome")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found: %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}

	fmt.Fprintln(w, "\nQuarto")
	if r.Quarto.Found {
		fmt.Fprintf(w, "  [OK] Found: %s\n", r.Quarto.Path)
		if r.Quarto.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Quarto.Version)
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found (only needed for --render)")
	}

	fmt.Fprintln(w, "\nEnvironment")
	fmt.Fprintf(w, "  OS: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  Container: yes (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  CI: yes")
	}

	fmt.Fprintln(w, "\nSystem")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  [WARN] %s\n", warn)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  [ERROR] %s\n", e)
	}
	if len(r.Warnings)+len(r.Errors) > 0 {
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to assemble")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

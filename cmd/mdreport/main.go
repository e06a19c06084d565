// Command mdreport assembles Markdown and Quarto documents: it
// extracts pipe tables, renders them as styled images sized to the
// page's column layout, and reinserts layout-aware references.
package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "doctor":
			return runDoctorCmd(args[1:], os.Stdout)
		case "version", "--version":
			fmt.Fprintf(os.Stdout, "mdreport %s\n", Version)
			return ExitSuccess
		case "help", "--help", "-h":
			printUsage(os.Stdout)
			return ExitSuccess
		}
	}

	flags, inputs, err := parseAssembleFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	logger := newLogger(os.Stderr, flags.quiet, flags.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debugf(format, args...)
	}))

	if err := runAssemble(inputs, flags, logger); err != nil {
		logger.Error(err.Error())
		return exitCodeFor(err)
	}
	return ExitSuccess
}

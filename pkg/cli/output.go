package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Verbosity controls how much the CLI prints.
type Verbosity int

const (
	VerbosityQuiet Verbosity = iota
	VerbosityNormal
	VerbosityVerbose
)

var verbosity = VerbosityNormal

// initOutput sets the process verbosity once at startup.
func initOutput(verbose, quiet bool) {
	switch {
	case quiet:
		verbosity = VerbosityQuiet
	case verbose:
		verbosity = VerbosityVerbose
	default:
		verbosity = VerbosityNormal
	}
}

// success prints a green check line (suppressed in quiet mode).
func success(msg string) {
	if verbosity != VerbosityQuiet {
		fmt.Printf("  %s %s\n", color.GreenString("✓"), msg)
	}
}

// warning prints a yellow warning line (suppressed in quiet mode).
func warning(msg string) {
	if verbosity != VerbosityQuiet {
		fmt.Printf("  %s %s\n", color.YellowString("⚠"), msg)
	}
}

// ErrorLine prints a red error line to stderr (always shown).
func ErrorLine(msg string) {
	fmt.Fprintf(os.Stderr, "  %s Error: %s\n", color.RedString("✗"), msg)
}

// header prints a bold section header (suppressed in quiet mode).
func header(msg string) {
	if verbosity != VerbosityQuiet {
		fmt.Printf("\n%s\n", color.New(color.Bold).Sprint(msg))
	}
}

// detail prints a dimmed detail line (verbose mode only).
func detail(msg string) {
	if verbosity == VerbosityVerbose {
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint("·"), msg)
	}
}

// Command intbound searches for integral certificates of rational bounds on
// pi, e and related constants.
//
// Usage:
//
//	intbound [flags] <family> <B> <A> [<limit>]
//	intbound batch [--workers n] <jobs.yaml>
//	intbound families
//
// The target is A + B*K, where K is the family's constant. Flags must come
// before <family> so that negative numbers are read as arguments.
//
// Exit codes: 0 success; 1 usage error, unknown family or no certificate
// within the limit; 2 malformed input; 3 internal failure.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/njchilds90/intbound"
)

const (
	exitOK       = 0
	exitUsage    = 1
	exitInput    = 2
	exitInternal = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	cmd := newRootCmd(opts, stdout, stderr)
	// cobra falls back to os.Args when given nil
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	printError(stderr, err, opts.noColor)
	return exitCode(err)
}

// usageError is a bad invocation: wrong argument count, unknown flag.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitError carries an explicit exit code, used by batch runs.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return classExitCode(intbound.Classify(err))
}

func classExitCode(c intbound.ErrorClass) int {
	switch c {
	case "":
		return exitOK
	case intbound.ClassUsage, intbound.ClassNoSolution:
		return exitUsage
	case intbound.ClassInvalidInput:
		return exitInput
	}
	return exitInternal
}

func printError(w io.Writer, err error, noColor bool) {
	label := "error"
	if c := intbound.Classify(err); c != intbound.ClassInternal {
		label = string(c)
	}
	var ue *usageError
	if errors.As(err, &ue) {
		label = "usage"
	}
	red := color.New(color.FgRed, color.Bold)
	if noColor || !isTerminal(w) {
		red.DisableColor()
	} else {
		red.EnableColor()
	}
	fmt.Fprintf(w, "%s %v\n", red.Sprint(label+":"), err)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

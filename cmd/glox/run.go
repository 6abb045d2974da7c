package main

import (
	"bufio"
	"fmt"
	"os"

	"glox/internal/driver"
	"glox/internal/report"
)

// exit codes, per the spec's process contract: 64 for a usage error, 65 for
// a static (scan/parse/resolve) error, 70 for a runtime error.
const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
)

func newReporter() *report.Reporter {
	if noColor {
		return report.NewPlain(os.Stderr)
	}
	return report.New(os.Stderr)
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glox: %v\n", err)
		os.Exit(exitUsage)
	}

	d := driver.NewWithReporter(newReporter(), os.Stdout)
	hadStaticError, hadRuntimeError := d.Run(string(source))

	switch {
	case hadStaticError:
		os.Exit(exitStatic)
	case hadRuntimeError:
		os.Exit(exitRuntime)
	}
}

// runPrompt implements the REPL: each line runs independently through the
// same Driver, so a `var` defined on one line stays visible to the next,
// but a static error on one line never poisons later lines.
func runPrompt() {
	d := driver.NewWithReporter(newReporter(), os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("> ")
	for scanner.Scan() {
		d.Run(scanner.Text())
		d.Reporter.Reset()
		fmt.Print("> ")
	}
	fmt.Println()
}

// Package driver wires scanner -> parser -> resolver -> interp into the
// two entry points spec §1 asks of the core: Run(source) and a shared
// error reporter. Everything outside of this package (cmd/glox's REPL
// and file runner) is, per spec §1, an external collaborator.
package driver

import (
	"io"

	"glox/internal/interp"
	"glox/internal/parser"
	"glox/internal/report"
	"glox/internal/resolver"
	"glox/internal/scanner"
)

// Driver glues the four core phases together, reusing one Interpreter
// (and therefore one globals environment) across calls — required for a
// REPL, where a variable defined on one line must be visible on the
// next.
type Driver struct {
	Reporter    *report.Reporter
	interpreter *interp.Interpreter
}

// New builds a Driver that writes diagnostics to errOut and program
// output to stdout.
func New(stdout, errOut io.Writer) *Driver {
	r := report.NewPlain(errOut)
	return &Driver{
		Reporter:    r,
		interpreter: interp.New(r, stdout),
	}
}

// NewWithReporter is like New but reuses an already-constructed Reporter
// (e.g. one built via report.New for TTY-aware coloring).
func NewWithReporter(r *report.Reporter, stdout io.Writer) *Driver {
	return &Driver{Reporter: r, interpreter: interp.New(r, stdout)}
}

// Run executes one chunk of source through the full pipeline and reports
// whether a static or runtime error occurred, per spec §1's
// `run(source) -> (had_static_error, had_runtime_error)`.
func (d *Driver) Run(source string) (hadStaticError, hadRuntimeError bool) {
	toks := scanner.New(source, d.Reporter).ScanTokens()
	stmts := parser.New(toks, d.Reporter).Parse()

	if d.Reporter.HadStaticError {
		return true, false
	}

	locals := resolver.New(d.Reporter).Resolve(stmts)
	if d.Reporter.HadStaticError {
		return true, false
	}

	d.interpreter.Interpret(stmts, locals)
	return d.Reporter.HadStaticError, d.Reporter.HadRuntimeError
}

// Command glox is the tree-walking Lox interpreter: run a script file, or
// drop into an interactive REPL with no arguments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:          "glox [script]",
	Short:        "glox is a tree-walking interpreter for Lox",
	Args:         checkArgs,
	SilenceUsage: true,
	RunE:         runGlox,
}

// checkArgs enforces the usage contract directly (rather than letting
// cobra's default error path pick an exit code): too many arguments is a
// usage error, which must exit 64.
func checkArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: glox [script]")
		os.Exit(exitUsage)
	}
	return nil
}

func init() {
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized diagnostics")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGlox(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		runPrompt()
		return nil
	}
	runFile(args[0])
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	casesDir     string
	ignoreStderr bool
)

var rootCmd = &cobra.Command{
	Use:   "loxcompare",
	Short: "Differentially test two glox builds against a tree of .lox fixtures",
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Count the .lox files anywhere under the cases directory",
	RunE: func(_ *cobra.Command, _ []string) error {
		count, err := discoverCount(casesDir)
		if err != nil {
			return err
		}
		fmt.Printf("Discovered %d fixture(s) under %s\n", count, casesDir)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <baseline-cmd> <target-cmd>",
	Short: "Run both binaries against every fixture and report divergence",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		tf := NewTestFramework(casesDir, args[0], args[1], ignoreStderr)
		if err := tf.Discover(); err != nil {
			return err
		}
		if err := tf.Run(); err != nil {
			return err
		}
		tf.PrintSummary()
		if len(tf.Failed) > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&casesDir, "cases", "testdata", "directory of .lox fixtures to compare")
	runCmd.Flags().BoolVar(&ignoreStderr, "ignore-stderr", false, "don't fail a case on stderr mismatch alone")

	rootCmd.AddCommand(discoverCmd, runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

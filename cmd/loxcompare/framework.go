// Command loxcompare is a differential test harness: it runs two glox
// binaries (a baseline revision and a candidate) against the same tree of
// .lox scripts and reports where their stdout, stderr, or exit code
// diverge. There is no upstream clox oracle for this port, so "reference"
// here means "another build of glox" — a prior release, a different
// branch — rather than a second-language implementation.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// TestCase is a single discovered .lox fixture.
type TestCase struct {
	Name     string
	Path     string
	Suite    string
	Baseline *ExecutionResult
	Target   *ExecutionResult
	Percent  float64
}

// ExecutionResult captures one run of a glox binary against a fixture.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// TestSuite groups the cases found in one subdirectory of the cases root.
type TestSuite struct {
	Name  string
	Cases []TestCase
}

// TestFramework drives discovery, execution, and reporting for one compare
// run.
type TestFramework struct {
	CasesDir     string
	BaselineCmd  string
	TargetCmd    string
	Suites       []*TestSuite
	Total        int
	Failed       []*TestCase
	AvgPercent   float64
	ignoreStderr bool
}

func NewTestFramework(casesDir, baselineCmd, targetCmd string, ignoreStderr bool) *TestFramework {
	return &TestFramework{
		CasesDir:     casesDir,
		BaselineCmd:  baselineCmd,
		TargetCmd:    targetCmd,
		ignoreStderr: ignoreStderr,
	}
}

// Discover walks CasesDir one level deep: files directly under it form the
// "Top Level" suite, and each immediate subdirectory becomes its own named
// suite (no nested suites, matching how the fixtures are laid out).
func (tf *TestFramework) Discover() error {
	entries, err := os.ReadDir(tf.CasesDir)
	if err != nil {
		return err
	}

	topLevel := &TestSuite{Name: "Top Level"}
	var suites []*TestSuite

	for _, entry := range entries {
		if entry.IsDir() {
			suite, err := collectSuite(filepath.Join(tf.CasesDir, entry.Name()))
			if err != nil {
				return err
			}
			suites = append(suites, suite)
			continue
		}
		if strings.HasSuffix(entry.Name(), ".lox") {
			topLevel.Cases = append(topLevel.Cases, TestCase{
				Name: entry.Name(),
				Path: filepath.Join(tf.CasesDir, entry.Name()),
			})
		}
	}

	if len(topLevel.Cases) > 0 {
		suites = append(suites, topLevel)
	}
	tf.Suites = suites
	return nil
}

func collectSuite(dir string) (*TestSuite, error) {
	suite := &TestSuite{Name: path.Base(dir)}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lox") {
			continue
		}
		suite.Cases = append(suite.Cases, TestCase{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	return suite, nil
}

// Run executes every discovered case against both commands and records
// pass/fail plus timing.
func (tf *TestFramework) Run() error {
	var percentSum float64

	for _, suite := range tf.Suites {
		for i := range suite.Cases {
			tc := &suite.Cases[i]

			baseline, err := execute(tf.BaselineCmd, tc.Path)
			if err != nil {
				return fmt.Errorf("running baseline on %s: %w", tc.Path, err)
			}
			target, err := execute(tf.TargetCmd, tc.Path)
			if err != nil {
				return fmt.Errorf("running target on %s: %w", tc.Path, err)
			}

			tc.Baseline, tc.Target = baseline, target
			if baseline.Duration > 0 {
				tc.Percent = float64(target.Duration) / float64(baseline.Duration) * 100
			}

			tf.Total++
			percentSum += tc.Percent
			if !tc.passed(tf.ignoreStderr) {
				tf.Failed = append(tf.Failed, tc)
			}
		}
	}

	if tf.Total > 0 {
		tf.AvgPercent = percentSum / float64(tf.Total)
	}
	return nil
}

func execute(command, fixture string) (*ExecutionResult, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	args := append(append([]string{}, parts[1:]...), fixture)
	cmd := exec.Command(parts[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("execution error: %w", err)
		}
	}

	return &ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Duration: duration,
	}, nil
}

func (tc *TestCase) passed(ignoreStderr bool) bool {
	if tc.Baseline.ExitCode != tc.Target.ExitCode {
		return false
	}
	if tc.Baseline.Stdout != tc.Target.Stdout {
		return false
	}
	if !ignoreStderr && tc.Baseline.Stderr != tc.Target.Stderr {
		return false
	}
	return true
}

const width = 100

func (tf *TestFramework) PrintSummary() {
	first := true
	for _, suite := range tf.Suites {
		if first {
			first = false
		} else {
			fmt.Println()
		}

		columns := fmt.Sprintf("%10s %10s %8s", "baseline", "target", "percent")
		spacing := strings.Repeat(" ", max(1, width-len(suite.Name)-len(columns)))
		fmt.Printf("%s%s%s\n", suite.Name, spacing, columns)

		for _, tc := range suite.Cases {
			tc.printResult()
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", width))
	fmt.Printf("Tests run: %d\n", tf.Total)
	fmt.Printf("Succeeded: %d\n", tf.Total-len(tf.Failed))
	fmt.Printf("Failed:    %d\n", len(tf.Failed))
	fmt.Printf("Average comparative runtime: %7.2f%%\n", tf.AvgPercent)

	if len(tf.Failed) > 0 {
		fmt.Println()
		fmt.Println("Failed cases:")
		for _, tc := range tf.Failed {
			fmt.Printf("  %s\n", tc.Name)
		}
	}
}

func (tc TestCase) printResult() {
	succeeded := tc.Baseline.ExitCode == tc.Target.ExitCode && tc.Baseline.Stdout == tc.Target.Stdout

	result := color.GreenString("passed")
	if !succeeded {
		result = color.RedString("failed")
	}

	timing := fmt.Sprintf("%9.2fms %9.2fms %6.1f%%",
		tc.Baseline.Duration.Seconds()*1000, tc.Target.Duration.Seconds()*1000, tc.Percent)
	label := fmt.Sprintf("  [%s] %s", result, tc.Name)
	spacing := strings.Repeat(" ", max(1, width-len(label)-len(timing)))
	fmt.Printf("%s%s%s\n", label, spacing, timing)

	if tc.Baseline.Stdout != tc.Target.Stdout {
		fmt.Println("    stdout mismatch:")
		fmt.Printf("      baseline: %q\n", tc.Baseline.Stdout)
		fmt.Printf("      target:   %q\n", tc.Target.Stdout)
	}
	if tc.Baseline.Stderr != tc.Target.Stderr {
		fmt.Println("    stderr mismatch:")
		fmt.Printf("      baseline: %q\n", tc.Baseline.Stderr)
		fmt.Printf("      target:   %q\n", tc.Target.Stderr)
	}
	if tc.Baseline.ExitCode != tc.Target.ExitCode {
		fmt.Printf("    exit code mismatch: baseline %d, target %d\n", tc.Baseline.ExitCode, tc.Target.ExitCode)
	}
}

func discoverCount(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".lox") {
			count++
		}
		return nil
	})
	return count, err
}

package driver_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glox/internal/driver"
)

func goldenSource(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name+".lox"))
	require.NoError(t, err)
	return string(data)
}

func runSource(source string) (stdout, stderr string, hadStatic, hadRuntime bool) {
	var out, errOut bytes.Buffer
	d := driver.New(&out, &errOut)
	hadStatic, hadRuntime = d.Run(source)
	return out.String(), errOut.String(), hadStatic, hadRuntime
}

// TestEndToEndScenarios exercises the first six numbered scenarios from
// spec §8 verbatim; scenario 7 is TestScenario7RuntimeErrorAndPartialOutput.
func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name   string
		source string
		stdout string
	}{
		{"arithmetic", `print 1 + 2;`, "3\n"},
		{"block-shadowing", `var a=1; { var a=2; print a; } print a;`, "2\n1\n"},
		{
			"closure-counter",
			`fun c(){var i=0; fun inc(){i=i+1; return i;} return inc;} var f=c(); print f(); print f(); print f();`,
			"1\n2\n3\n",
		},
		{"method-call", `class A{greet(){print "hi";}} A().greet();`, "hi\n"},
		{
			"init-chain-via-super",
			`class A{init(n){this.n=n;}} class B<A{init(n){super.init(n); this.n=this.n+1;}} print B(10).n;`,
			"11\n",
		},
		{"for-loop", `for (var i=0;i<3;i=i+1) print i;`, "0\n1\n2\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, _, hadStatic, hadRuntime := runSource(tc.source)
			assert.False(t, hadStatic)
			assert.False(t, hadRuntime)
			assert.Equal(t, tc.stdout, stdout)
		})
	}
}

func TestScenario7RuntimeErrorAndPartialOutput(t *testing.T) {
	stdout, stderr, hadStatic, hadRuntime := runSource(`print "a" + "b"; print 1 + "b";`)
	assert.False(t, hadStatic)
	assert.True(t, hadRuntime)
	assert.Equal(t, "ab\n", stdout)
	assert.Contains(t, stderr, "Operands must be two numbers or two strings.")
}

func TestStaticErrorSkipsEvaluation(t *testing.T) {
	stdout, _, hadStatic, hadRuntime := runSource(`print 1 +;`)
	assert.True(t, hadStatic)
	assert.False(t, hadRuntime)
	assert.Equal(t, "", stdout)
}

func TestReplReusesGlobalsAcrossRuns(t *testing.T) {
	var out, errOut bytes.Buffer
	d := driver.New(&out, &errOut)

	d.Run(`var count = 0;`)
	d.Run(`count = count + 1;`)
	d.Run(`print count;`)

	assert.Equal(t, "1\n", out.String())
}

func TestReplResetsStaticErrorFlagBetweenLines(t *testing.T) {
	var out, errOut bytes.Buffer
	d := driver.New(&out, &errOut)

	hadStatic, _ := d.Run(`print 1 +;`)
	assert.True(t, hadStatic)

	d.Reporter.Reset()

	hadStatic, hadRuntime := d.Run(`print 1 + 2;`)
	assert.False(t, hadStatic)
	assert.False(t, hadRuntime)
	assert.Equal(t, "3\n", out.String())
}

// TestGoldenScripts snapshot-tests full fixture scripts under testdata/
// end to end, grounded on CWBudde-go-dws's fixture_test.go pattern.
func TestGoldenScripts(t *testing.T) {
	fixtures := []string{"closures", "classes", "control_flow"}
	for _, name := range fixtures {
		t.Run(name, func(t *testing.T) {
			source := goldenSource(t, name)
			stdout, stderr, _, _ := runSource(source)
			snaps.MatchSnapshot(t, stdout+stderr)
		})
	}
}

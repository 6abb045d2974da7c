package scanner

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glox/internal/report"
	"glox/internal/token"
)

func newReporter() *report.Reporter {
	return report.New(os.Stderr)
}

func TestScanTokensEndsInEOF(t *testing.T) {
	r := newReporter()
	toks := New("var x = 1;", r).ScanTokens()
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	assert.False(t, r.HadStaticError)
}

func TestScanTokensKinds(t *testing.T) {
	r := newReporter()
	toks := New(`var greeting = "hi"; print greeting;`, r).ScanTokens()
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.Var, token.Identifier, token.Equal, token.String, token.Semicolon,
		token.Print, token.Identifier, token.Semicolon, token.EOF,
	}, kinds)
}

func TestNumberLiteral(t *testing.T) {
	r := newReporter()
	toks := New("3.14", r).ScanTokens()
	require.Len(t, toks, 2)
	assert.Equal(t, 3.14, toks[0].Literal)
}

func TestTrailingDotNotConsumed(t *testing.T) {
	r := newReporter()
	toks := New("123.", r).ScanTokens()
	// "123" NUMBER, then "." DOT, then EOF
	require.Len(t, toks, 3)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, token.Dot, toks[1].Kind)
}

func TestMultilineString(t *testing.T) {
	r := newReporter()
	toks := New("\"a\nb\"", r).ScanTokens()
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb", toks[0].Literal)
}

func TestUnterminatedStringReportsError(t *testing.T) {
	r := newReporter()
	New("\"unterminated", r).ScanTokens()
	assert.True(t, r.HadStaticError)
}

func TestUnexpectedCharacterContinuesScanning(t *testing.T) {
	r := newReporter()
	toks := New("var x = @1;", r).ScanTokens()
	assert.True(t, r.HadStaticError)
	// scanning continues past the bad byte
	var sawNumber bool
	for _, tok := range toks {
		if tok.Kind == token.Number {
			sawNumber = true
		}
	}
	assert.True(t, sawNumber)
}

func TestLineCommentTerminatesAtNewline(t *testing.T) {
	r := newReporter()
	toks := New("// comment\nvar x = 1;", r).ScanTokens()
	assert.Equal(t, token.Var, toks[0].Kind)
	assert.Equal(t, 2, toks[0].Line)
}

func TestNonWhitespaceLexemesReconstructsSource(t *testing.T) {
	r := newReporter()
	source := "var x=1;print x;"
	toks := New(source, r).ScanTokens()
	assert.Equal(t, "varx=1;printx;", nonWhitespaceLexemes(toks))
}

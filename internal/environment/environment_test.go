package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glox/internal/environment"
	"glox/internal/token"
)

func ident(name string) token.Token {
	return token.Token{Kind: token.Identifier, Lexeme: name, Line: 1}
}

func TestDefineAndGet(t *testing.T) {
	env := environment.New(nil)
	env.Define("x", 1.0)

	v, err := env.Get(ident("x"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestGetDelegatesToParent(t *testing.T) {
	parent := environment.New(nil)
	parent.Define("x", "outer")
	child := environment.New(parent)

	v, err := child.Get(ident("x"))
	require.NoError(t, err)
	assert.Equal(t, "outer", v)
}

func TestGetUndefinedIsRuntimeError(t *testing.T) {
	env := environment.New(nil)
	_, err := env.Get(ident("missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'missing'")
}

func TestAssignMutatesNearestBinding(t *testing.T) {
	parent := environment.New(nil)
	parent.Define("x", 1.0)
	child := environment.New(parent)

	require.NoError(t, child.Assign(ident("x"), 2.0))

	v, err := parent.Get(ident("x"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestAssignUndefinedIsRuntimeError(t *testing.T) {
	env := environment.New(nil)
	err := env.Assign(ident("missing"), 1.0)
	require.Error(t, err)
}

func TestGetAtAndAssignAt(t *testing.T) {
	global := environment.New(nil)
	global.Define("x", "global")
	mid := environment.New(global)
	mid.Define("x", "mid")
	inner := environment.New(mid)

	assert.Equal(t, "mid", inner.GetAt(1, "x"))
	assert.Equal(t, "global", inner.GetAt(2, "x"))

	inner.AssignAt(1, "x", "mid-changed")
	assert.Equal(t, "mid-changed", inner.GetAt(1, "x"))
}

func TestDefineOverwritesExisting(t *testing.T) {
	env := environment.New(nil)
	env.Define("x", 1.0)
	env.Define("x", 2.0)

	v, err := env.Get(ident("x"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"glox/internal/token"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "EOF", token.EOF.String())
	assert.Equal(t, "PRINT", token.Print.String())
	assert.Contains(t, token.Kind(999).String(), "Kind(999)")
}

func TestTokenString(t *testing.T) {
	tok := token.Token{Kind: token.Number, Lexeme: "42", Literal: 42.0, Line: 1}
	assert.Equal(t, "NUMBER 42 42", tok.String())

	nilTok := token.Token{Kind: token.Identifier, Lexeme: "x", Line: 3}
	assert.Equal(t, "IDENTIFIER x null", nilTok.String())
}

func TestKeywordsTable(t *testing.T) {
	assert.Len(t, token.Keywords, 16)
	assert.Equal(t, token.Class, token.Keywords["class"])
	assert.Equal(t, token.While, token.Keywords["while"])
}

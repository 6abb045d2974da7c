// Package environment implements the linked scope chain that the
// evaluator reads and writes variables through (spec §4.4).
package environment

import (
	"fmt"

	"glox/internal/report"
	"glox/internal/token"
)

// Value is the runtime value type environments hold. It is defined here
// (as `any`) rather than importing internal/object, so that object can in
// turn hold *Environment (for closures) without an import cycle; the
// interpreter package is what actually narrows these back to
// object.Value.
type Value = any

// Environment is a mutable name->value map with an optional parent,
// forming the scope chain described in spec §3: global (no parent),
// block (parent = enclosing block), call (parent = closure), or the
// `this`/`super` wrapper built during method binding.
type Environment struct {
	parent *Environment
	values map[string]Value
}

// New creates a child environment of parent (nil for the global scope).
func New(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]Value)}
}

// Define binds name to value in this environment, overwriting any
// existing binding. Redefinition is allowed (and is what makes `var x = 1;
// var x = 2;` legal at the top level, and friendly in a REPL).
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get resolves name by walking from this environment outward to globals.
func (e *Environment) Get(name token.Token) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, undefinedVariable(name)
}

// Assign mutates the nearest enclosing binding of name.Lexeme.
func (e *Environment) Assign(name token.Token, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return undefinedVariable(name)
}

// GetAt walks exactly depth parent links, then reads name directly — the
// fast path used for every reference the resolver has bound.
func (e *Environment) GetAt(depth int, name string) Value {
	return e.ancestor(depth).values[name]
}

// AssignAt walks exactly depth parent links, then writes name directly.
func (e *Environment) AssignAt(depth int, name string, value Value) {
	e.ancestor(depth).values[name] = value
}

func (e *Environment) ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		env = env.parent
	}
	return env
}

func undefinedVariable(name token.Token) error {
	return &report.RuntimeError{Token: name, Message: "Undefined variable '" + name.Lexeme + "'."}
}

// Package resolver implements the static, pre-evaluation pass from
// spec §4.3: it walks every statement and expression exactly once,
// building a side-table from variable-use expression nodes to their
// lexical depth, and reporting (never aborting on) every static misuse
// of `this`, `super`, `return`, and self-referential initializers.
package resolver

import (
	"glox/internal/ast"
	"glox/internal/report"
	"glox/internal/token"
)

// FunctionKind tracks what kind of function body is currently being
// resolved, so `return` can be validated.
type FunctionKind int

const (
	FunctionNone FunctionKind = iota
	FunctionFunction
	FunctionInitializer
	FunctionMethod
)

// ClassKind tracks whether resolution is currently inside a class body,
// and whether that class has a superclass, so `this`/`super` can be
// validated.
type ClassKind int

const (
	ClassNone ClassKind = iota
	ClassClass
	ClassSubclass
)

// Locals is the resolver's side-table: expression-node identity (the
// pointer itself) to lexical depth. Only Variable, Assign, This, and
// Super nodes ever appear; absence means "look it up as a global".
type Locals map[ast.Expr]int

// Resolver performs the single resolution pass over a parsed program.
type Resolver struct {
	reporter  *report.Reporter
	scopes    []map[string]bool
	locals    Locals
	funcKind  FunctionKind
	classKind ClassKind
}

// New builds a Resolver reporting static errors to r.
func New(r *report.Reporter) *Resolver {
	return &Resolver{reporter: r, locals: make(Locals)}
}

// Resolve walks every statement in stmts and returns the completed
// side-table. It always visits every node, even after reporting an
// error, per spec §7's "the resolver visits every node".
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(stmt.Statements)
		r.endScope()
	case *ast.Class:
		r.resolveClass(stmt)
	case *ast.Expression:
		r.resolveExpr(stmt.Expression)
	case *ast.Function:
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.resolveFunction(stmt, FunctionFunction)
	case *ast.If:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.ThenBranch)
		if stmt.ElseBranch != nil {
			r.resolveStmt(stmt.ElseBranch)
		}
	case *ast.Print:
		r.resolveExpr(stmt.Expression)
	case *ast.Return:
		if r.funcKind == FunctionNone {
			r.reporter.ParseError(stmt.Keyword, "Can't return from top-level code.")
		}
		if stmt.Value != nil {
			if r.funcKind == FunctionInitializer {
				r.reporter.ParseError(stmt.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(stmt.Value)
		}
	case *ast.Var:
		r.declare(stmt.Name)
		if stmt.Initializer != nil {
			r.resolveExpr(stmt.Initializer)
		}
		r.define(stmt.Name)
	case *ast.While:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Body)
	}
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.classKind
	r.classKind = ClassClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Name.Lexeme == c.Superclass.Name.Lexeme {
			r.reporter.ParseError(c.Superclass.Name, "A class can't inherit from itself.")
		}
		r.classKind = ClassSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range c.Methods {
		kind := FunctionMethod
		if method.Name.Lexeme == "init" {
			kind = FunctionInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}

	r.classKind = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind FunctionKind) {
	enclosingFunc := r.funcKind
	r.funcKind = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.funcKind = enclosingFunc
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.Assign:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name)
	case *ast.Binary:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Call:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(expr.Object)
		// the property name is resolved dynamically, at evaluation time
	case *ast.Grouping:
		r.resolveExpr(expr.Expression)
	case *ast.Literal:
		// nothing to resolve
	case *ast.Logical:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Set:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	case *ast.Super:
		if r.classKind == ClassNone {
			r.reporter.ParseError(expr.Keyword, "Can't use 'super' outside of a class.")
		} else if r.classKind != ClassSubclass {
			r.reporter.ParseError(expr.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(expr, expr.Keyword)
	case *ast.This:
		if r.classKind == ClassNone {
			r.reporter.ParseError(expr.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(expr, expr.Keyword)
	case *ast.Unary:
		r.resolveExpr(expr.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][expr.Name.Lexeme]; declared && !defined {
				r.reporter.ParseError(expr.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(expr, expr.Name)
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reporter.ParseError(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: treat as global, leave out of the side-table
}

// Package interp is the evaluator from spec §4.5/§4.6: it executes
// statements and evaluates expressions directly over the AST, owns the
// global environment and the resolver's side-table, and implements the
// class/method/closure semantics of spec §4.7.
package interp

import (
	"fmt"
	"io"
	"time"

	"glox/internal/ast"
	"glox/internal/environment"
	"glox/internal/object"
	"glox/internal/report"
	"glox/internal/resolver"
	"glox/internal/token"
)

// Interpreter walks a resolved statement list to completion or to the
// first unhandled runtime error. It is safe to reuse across multiple
// Interpret calls sharing the same globals — the REPL does exactly that,
// so a variable defined on one line is visible on the next.
type Interpreter struct {
	reporter *report.Reporter
	stdout   io.Writer

	globals *environment.Environment
	current *environment.Environment
	locals  resolver.Locals
}

// New builds an Interpreter with a fresh globals environment seeded with
// the single native built-in spec.md allows: clock().
func New(r *report.Reporter, stdout io.Writer) *Interpreter {
	globals := environment.New(nil)
	globals.Define("clock", &object.Native{
		Name:     "clock",
		ArityVal: 0,
		Fn: func(_ []object.Value) (object.Value, error) {
			return object.Number{V: float64(time.Now().UnixNano()) / 1e9}, nil
		},
	})

	return &Interpreter{
		reporter: r,
		stdout:   stdout,
		globals:  globals,
		current:  globals,
	}
}

// Interpret runs stmts under locals (the resolver's side-table for this
// run), reporting the first runtime error it hits through the reporter
// and stopping there, per spec §7. locals is merged into the side-table
// kept from earlier calls, so functions declared by an earlier call still
// find their resolved variables.
func (in *Interpreter) Interpret(stmts []ast.Stmt, locals resolver.Locals) {
	if in.locals == nil {
		in.locals = make(resolver.Locals, len(locals))
	}
	for expr, depth := range locals {
		in.locals[expr] = depth
	}
	for _, stmt := range stmts {
		if _, _, err := in.execute(stmt); err != nil {
			in.reportRuntimeError(err)
			return
		}
	}
}

func (in *Interpreter) reportRuntimeError(err error) {
	if rerr, ok := err.(*report.RuntimeError); ok {
		in.reporter.RuntimeError(rerr)
		return
	}
	in.reporter.RuntimeError(&report.RuntimeError{Message: err.Error()})
}

// ExecuteBlock implements object.Interpreter: it's the hook Function.Call
// uses to run a call frame's body under a fresh environment chained from
// the closure.
func (in *Interpreter) ExecuteBlock(stmts []ast.Stmt, env *environment.Environment) (object.Value, bool, error) {
	previous := in.current
	in.current = env
	defer func() { in.current = previous }()

	return in.executeStmts(stmts)
}

// executeStmts runs stmts in order under the current environment,
// stopping at the first Return signal or error.
func (in *Interpreter) executeStmts(stmts []ast.Stmt) (object.Value, bool, error) {
	for _, stmt := range stmts {
		value, didReturn, err := in.execute(stmt)
		if err != nil || didReturn {
			return value, didReturn, err
		}
	}
	return nil, false, nil
}

// execute dispatches a single statement. The (value, didReturn) pair is
// the Return-as-signal mechanism from spec §5: didReturn=true unwinds
// every enclosing Block/If/While up to the nearest Function.call, which
// is the only place that stops propagating it further.
func (in *Interpreter) execute(s ast.Stmt) (object.Value, bool, error) {
	switch stmt := s.(type) {
	case *ast.Block:
		return in.ExecuteBlock(stmt.Statements, environment.New(in.current))

	case *ast.Class:
		return in.executeClass(stmt)

	case *ast.Expression:
		_, err := in.evaluate(stmt.Expression)
		return nil, false, err

	case *ast.Function:
		fn := &object.Function{Declaration: stmt, Closure: in.current}
		in.current.Define(stmt.Name.Lexeme, fn)
		return nil, false, nil

	case *ast.If:
		cond, err := in.evaluate(stmt.Condition)
		if err != nil {
			return nil, false, err
		}
		if object.IsTruthy(cond) {
			return in.execute(stmt.ThenBranch)
		} else if stmt.ElseBranch != nil {
			return in.execute(stmt.ElseBranch)
		}
		return nil, false, nil

	case *ast.Print:
		value, err := in.evaluate(stmt.Expression)
		if err != nil {
			return nil, false, err
		}
		fmt.Fprintln(in.stdout, stringify(value))
		return nil, false, nil

	case *ast.Return:
		if stmt.Value == nil {
			return nil, true, nil
		}
		value, err := in.evaluate(stmt.Value)
		if err != nil {
			return nil, false, err
		}
		return value, true, nil

	case *ast.Var:
		var value object.Value = object.Nil{}
		if stmt.Initializer != nil {
			v, err := in.evaluate(stmt.Initializer)
			if err != nil {
				return nil, false, err
			}
			value = v
		}
		in.current.Define(stmt.Name.Lexeme, value)
		return nil, false, nil

	case *ast.While:
		for {
			cond, err := in.evaluate(stmt.Condition)
			if err != nil {
				return nil, false, err
			}
			if !object.IsTruthy(cond) {
				return nil, false, nil
			}
			value, didReturn, err := in.execute(stmt.Body)
			if err != nil || didReturn {
				return value, didReturn, err
			}
		}
	}
	return nil, false, nil
}

func (in *Interpreter) executeClass(stmt *ast.Class) (object.Value, bool, error) {
	var superclass *object.Class
	if stmt.Superclass != nil {
		sc, err := in.evaluate(stmt.Superclass)
		if err != nil {
			return nil, false, err
		}
		class, ok := sc.(*object.Class)
		if !ok {
			return nil, false, &report.RuntimeError{Token: stmt.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = class
	}

	in.current.Define(stmt.Name.Lexeme, object.Nil{})

	methodEnv := in.current
	if superclass != nil {
		methodEnv = environment.New(in.current)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(stmt.Methods))
	for _, m := range stmt.Methods {
		methods[m.Name.Lexeme] = &object.Function{
			Declaration:   m,
			Closure:       methodEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &object.Class{Name: stmt.Name.Lexeme, Superclass: superclass, Methods: methods}

	if err := in.current.Assign(stmt.Name, class); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// evaluate dispatches a single expression to its Lox value.
func (in *Interpreter) evaluate(e ast.Expr) (object.Value, error) {
	switch expr := e.(type) {
	case *ast.Assign:
		value, err := in.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := in.locals[expr]; ok {
			in.current.AssignAt(depth, expr.Name.Lexeme, value)
		} else if err := in.globals.Assign(expr.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.Binary:
		return in.evaluateBinary(expr)

	case *ast.Call:
		return in.evaluateCall(expr)

	case *ast.Get:
		obj, err := in.evaluate(expr.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, &report.RuntimeError{Token: expr.Name, Message: "Only instances have properties."}
		}
		return instance.Get(expr.Name)

	case *ast.Grouping:
		return in.evaluate(expr.Expression)

	case *ast.Literal:
		return literalValue(expr.Value), nil

	case *ast.Logical:
		left, err := in.evaluate(expr.Left)
		if err != nil {
			return nil, err
		}
		if expr.Operator.Kind == token.Or {
			if object.IsTruthy(left) {
				return left, nil
			}
		} else if !object.IsTruthy(left) {
			return left, nil
		}
		return in.evaluate(expr.Right)

	case *ast.Set:
		obj, err := in.evaluate(expr.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, &report.RuntimeError{Token: expr.Name, Message: "Only instances have fields."}
		}
		value, err := in.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(expr.Name, value)
		return value, nil

	case *ast.Super:
		return in.evaluateSuper(expr)

	case *ast.This:
		return in.lookUpVariable(expr.Keyword, expr)

	case *ast.Unary:
		return in.evaluateUnary(expr)

	case *ast.Variable:
		return in.lookUpVariable(expr.Name, expr)
	}
	return object.Nil{}, nil
}

func literalValue(v any) object.Value {
	switch val := v.(type) {
	case nil:
		return object.Nil{}
	case bool:
		return object.Bool{V: val}
	case float64:
		return object.Number{V: val}
	case string:
		return object.String{V: val}
	default:
		return object.Nil{}
	}
}

func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (object.Value, error) {
	if depth, ok := in.locals[expr]; ok {
		return in.current.GetAt(depth, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func (in *Interpreter) evaluateUnary(expr *ast.Unary) (object.Value, error) {
	right, err := in.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Kind {
	case token.Minus:
		n, ok := right.(object.Number)
		if !ok {
			return nil, &report.RuntimeError{Token: expr.Operator, Message: "Operand must be a number."}
		}
		return object.Number{V: -n.V}, nil
	case token.Bang:
		return object.Bool{V: !object.IsTruthy(right)}, nil
	}
	return object.Nil{}, nil
}

func (in *Interpreter) evaluateBinary(expr *ast.Binary) (object.Value, error) {
	left, err := in.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Kind {
	case token.Minus:
		l, r, ok := bothNumbers(left, right)
		if !ok {
			return nil, numberOperandsError(expr.Operator)
		}
		return object.Number{V: l - r}, nil
	case token.Slash:
		l, r, ok := bothNumbers(left, right)
		if !ok {
			return nil, numberOperandsError(expr.Operator)
		}
		if r == 0 {
			return nil, &report.RuntimeError{Token: expr.Operator, Message: "Division by zero."}
		}
		return object.Number{V: l / r}, nil
	case token.Star:
		l, r, ok := bothNumbers(left, right)
		if !ok {
			return nil, numberOperandsError(expr.Operator)
		}
		return object.Number{V: l * r}, nil
	case token.Plus:
		return in.evaluatePlus(expr.Operator, left, right)
	case token.Greater:
		l, r, ok := bothNumbers(left, right)
		if !ok {
			return nil, numberOperandsError(expr.Operator)
		}
		return object.Bool{V: l > r}, nil
	case token.GreaterEqual:
		l, r, ok := bothNumbers(left, right)
		if !ok {
			return nil, numberOperandsError(expr.Operator)
		}
		return object.Bool{V: l >= r}, nil
	case token.Less:
		l, r, ok := bothNumbers(left, right)
		if !ok {
			return nil, numberOperandsError(expr.Operator)
		}
		return object.Bool{V: l < r}, nil
	case token.LessEqual:
		l, r, ok := bothNumbers(left, right)
		if !ok {
			return nil, numberOperandsError(expr.Operator)
		}
		return object.Bool{V: l <= r}, nil
	case token.BangEqual:
		return object.Bool{V: !object.Equal(left, right)}, nil
	case token.EqualEqual:
		return object.Bool{V: object.Equal(left, right)}, nil
	}
	return object.Nil{}, nil
}

func (in *Interpreter) evaluatePlus(operator token.Token, left, right object.Value) (object.Value, error) {
	if l, ok := left.(object.Number); ok {
		if r, ok := right.(object.Number); ok {
			return object.Number{V: l.V + r.V}, nil
		}
	}
	if l, ok := left.(object.String); ok {
		if r, ok := right.(object.String); ok {
			return object.String{V: l.V + r.V}, nil
		}
	}
	return nil, &report.RuntimeError{Token: operator, Message: "Operands must be two numbers or two strings."}
}

func bothNumbers(left, right object.Value) (float64, float64, bool) {
	l, ok := left.(object.Number)
	if !ok {
		return 0, 0, false
	}
	r, ok := right.(object.Number)
	if !ok {
		return 0, 0, false
	}
	return l.V, r.V, true
}

func numberOperandsError(operator token.Token) error {
	return &report.RuntimeError{Token: operator, Message: "Operand must be a number."}
}

func (in *Interpreter) evaluateCall(expr *ast.Call) (object.Value, error) {
	callee, err := in.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Value, 0, len(expr.Arguments))
	for _, argExpr := range expr.Arguments {
		arg, err := in.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	callable, ok := callee.(object.Callable)
	if !ok {
		return nil, &report.RuntimeError{Token: expr.Paren, Message: "Can only call functions and classes."}
	}

	if len(args) != callable.Arity() {
		return nil, &report.RuntimeError{
			Token:   expr.Paren,
			Message: fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)),
		}
	}

	return callable.Call(in, args)
}

func (in *Interpreter) evaluateSuper(expr *ast.Super) (object.Value, error) {
	distance := in.locals[expr]
	superclass := in.current.GetAt(distance, "super").(*object.Class)
	instance := in.current.GetAt(distance-1, "this").(*object.Instance)

	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		return nil, &report.RuntimeError{Token: expr.Method, Message: "Undefined property '" + expr.Method.Lexeme + "'."}
	}
	return method.Bind(instance), nil
}

// stringify renders a Lox value the way `print` writes it to stdout,
// per spec §6.
func stringify(v object.Value) string {
	return v.String()
}

// Package object defines the runtime value sum type (spec §3) and the
// callable protocol (spec §4.7): functions, native built-ins, classes,
// and instances.
//
// object cannot import internal/interp (interp needs object.Value as the
// result of every expression it evaluates), so Callable.Call is given an
// Interpreter interface narrow enough for object to depend on and wide
// enough for *interp.Interpreter to satisfy structurally — the same
// inversion the teacher's callable.go avoids only because it puts
// everything in one package.
package object

import (
	"math"
	"strconv"

	"glox/internal/ast"
	"glox/internal/environment"
	"glox/internal/report"
	"glox/internal/token"
)

// ValueType tags the dynamic type of a Value, mirroring the teacher's
// ObjectType enum.
type ValueType int

const (
	NilType ValueType = iota
	BoolType
	NumberType
	StringType
	FunctionType
	ClassType
	InstanceType
)

// Value is any Lox runtime value.
type Value interface {
	Type() ValueType
	String() string
}

// Interpreter is the slice of *interp.Interpreter that a Callable needs
// to invoke a user-defined function or method body.
type Interpreter interface {
	// ExecuteBlock runs stmts with env as the current environment and
	// reports whether a Return statement fired partway through, along
	// with its value (nil Value if `return;` with no expression).
	ExecuteBlock(stmts []ast.Stmt, env *environment.Environment) (returned Value, didReturn bool, err error)
}

// Nil is Lox's nil value.
type Nil struct{}

func (Nil) Type() ValueType { return NilType }
func (Nil) String() string  { return "nil" }

// Bool wraps a Lox boolean.
type Bool struct{ V bool }

func (Bool) Type() ValueType { return BoolType }
func (b Bool) String() string {
	if b.V {
		return "true"
	}
	return "false"
}

// Number wraps a Lox number (IEEE-754 double).
type Number struct{ V float64 }

func (Number) Type() ValueType { return NumberType }

// String renders an integer-valued number below 1e16 in magnitude as a
// plain integer (no trailing ".0"), per spec §6; every other value uses
// the shortest 'g' representation.
func (n Number) String() string {
	if n.V == math.Trunc(n.V) && math.Abs(n.V) < 1e16 {
		return strconv.FormatFloat(n.V, 'f', -1, 64)
	}
	return strconv.FormatFloat(n.V, 'g', -1, 64)
}

// String wraps a Lox string.
type String struct{ V string }

func (String) Type() ValueType { return StringType }
func (s String) String() string { return s.V }

// IsTruthy implements spec §3: only nil and false are falsy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return val.V
	default:
		return true
	}
}

// Equal implements the plain structural/identity equality from spec §3:
// Nil==Nil only, Bool/Number/String compare by value, Class/Instance by
// identity (which falls out of Go's interface equality on the
// pointer-typed variants below — no coercion between types, ever.
func Equal(a, b Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case Nil:
		return true
	case Bool:
		return av.V == b.(Bool).V
	case Number:
		return av.V == b.(Number).V
	case String:
		return av.V == b.(String).V
	default:
		return a == b
	}
}

// Callable is any value that can appear on the left of a Call expression:
// user functions/methods, classes (as constructors), and natives.
type Callable interface {
	Value
	Arity() int
	Call(interp Interpreter, args []Value) (Value, error)
}

// Function is a user-defined function or method closure (spec §3's
// "Function (closure)").
type Function struct {
	Declaration   *ast.Function
	Closure       *environment.Environment
	IsInitializer bool
}

func (*Function) Type() ValueType { return FunctionType }
func (f *Function) String() string {
	return "<fn " + f.Declaration.Name.Lexeme + ">"
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

// Call implements spec §4.7's Function.call: a fresh environment chained
// from the closure, parameters bound to arguments, body executed; an
// initializer always yields `this` regardless of the body's own return.
func (f *Function) Call(interp Interpreter, args []Value) (Value, error) {
	env := environment.New(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	returned, didReturn, err := interp.ExecuteBlock(f.Declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	if didReturn {
		if returned == nil {
			return Nil{}, nil
		}
		return returned, nil
	}
	return Nil{}, nil
}

// Bind produces a copy of f whose closure additionally binds `this` to
// instance, per spec §4.7's method binding rule.
func (f *Function) Bind(instance *Instance) *Function {
	env := environment.New(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a Lox class: a name, an optional superclass, and its own
// (non-inherited) methods.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (*Class) Type() ValueType { return ClassType }
func (c *Class) String() string { return c.Name }

// FindMethod walks self -> superclass -> ... in spec §4.7's declared
// order, returning nil if exhausted.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity delegates to the init method's arity, or 0 if there is none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates a new Instance and, if an initializer exists, binds and
// invokes it before returning the instance.
func (c *Class) Call(interp Interpreter, args []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a live object: a class pointer (which never changes, per
// spec §3's invariant) plus a mutable field map.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) Type() ValueType { return InstanceType }
func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get implements spec §4.6's Get expression semantics: fields shadow
// methods, and a method read returns a freshly-bound copy.
func (i *Instance) Get(name token.Token) (Value, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.Class.FindMethod(name.Lexeme); m != nil {
		return m.Bind(i), nil
	}
	return nil, &report.RuntimeError{Token: name, Message: "Undefined property '" + name.Lexeme + "'."}
}

// Set writes a field, creating it if absent.
func (i *Instance) Set(name token.Token, value Value) {
	i.Fields[name.Lexeme] = value
}

// Native is a built-in function, e.g. clock(). Its String() matches
// spec §6's "<native fn>" rendering (rather than the teacher's own
// unused concept, since the teacher never implemented clock()).
type Native struct {
	Name     string
	ArityVal int
	Fn       func(args []Value) (Value, error)
}

func (*Native) Type() ValueType { return FunctionType }
func (*Native) String() string  { return "<native fn>" }
func (n *Native) Arity() int    { return n.ArityVal }
func (n *Native) Call(_ Interpreter, args []Value) (Value, error) {
	return n.Fn(args)
}

package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glox/internal/ast"
	"glox/internal/environment"
	"glox/internal/object"
	"glox/internal/token"
)

func TestIsTruthy(t *testing.T) {
	assert.False(t, object.IsTruthy(object.Nil{}))
	assert.False(t, object.IsTruthy(object.Bool{V: false}))
	assert.True(t, object.IsTruthy(object.Bool{V: true}))
	assert.True(t, object.IsTruthy(object.Number{V: 0}))
	assert.True(t, object.IsTruthy(object.String{V: ""}))
}

func TestEqualNoCoercion(t *testing.T) {
	assert.True(t, object.Equal(object.Nil{}, object.Nil{}))
	assert.False(t, object.Equal(object.Number{V: 0}, object.Bool{V: false}))
	assert.False(t, object.Equal(object.String{V: "1"}, object.Number{V: 1}))
	assert.True(t, object.Equal(object.Number{V: 1}, object.Number{V: 1}))
	assert.True(t, object.Equal(object.String{V: "a"}, object.String{V: "a"}))
}

func TestNumberStringStripsTrailingZero(t *testing.T) {
	assert.Equal(t, "3", object.Number{V: 3}.String())
	assert.Equal(t, "3.14", object.Number{V: 3.14}.String())
}

func TestClassFindMethodWalksSuperclass(t *testing.T) {
	base := &object.Class{Name: "A", Methods: map[string]*object.Function{
		"greet": {Declaration: &ast.Function{Name: token.Token{Lexeme: "greet"}}},
	}}
	derived := &object.Class{Name: "B", Superclass: base, Methods: map[string]*object.Function{}}

	m := derived.FindMethod("greet")
	require.NotNil(t, m)
	assert.Equal(t, "greet", m.Declaration.Name.Lexeme)
}

func TestInstanceGetFieldShadowsMethod(t *testing.T) {
	class := &object.Class{Name: "A", Methods: map[string]*object.Function{}}
	instance := &object.Instance{Class: class, Fields: map[string]object.Value{"x": object.Number{V: 1}}}

	v, err := instance.Get(token.Token{Lexeme: "x"})
	require.NoError(t, err)
	assert.Equal(t, object.Number{V: 1}, v)
}

func TestInstanceGetUndefinedProperty(t *testing.T) {
	class := &object.Class{Name: "A", Methods: map[string]*object.Function{}}
	instance := &object.Instance{Class: class, Fields: map[string]object.Value{}}

	_, err := instance.Get(token.Token{Lexeme: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined property 'missing'")
}

func TestFunctionBindAddsThis(t *testing.T) {
	closure := environment.New(nil)
	fn := &object.Function{Declaration: &ast.Function{Name: token.Token{Lexeme: "m"}}, Closure: closure}
	class := &object.Class{Name: "A", Methods: map[string]*object.Function{}}
	instance := &object.Instance{Class: class, Fields: map[string]object.Value{}}

	bound := fn.Bind(instance)
	assert.Equal(t, instance, bound.Closure.GetAt(0, "this"))
}

func TestClassCallInstantiatesWithoutInit(t *testing.T) {
	class := &object.Class{Name: "A", Methods: map[string]*object.Function{}}
	v, err := class.Call(nil, nil)
	require.NoError(t, err)
	instance, ok := v.(*object.Instance)
	require.True(t, ok)
	assert.Equal(t, class, instance.Class)
}

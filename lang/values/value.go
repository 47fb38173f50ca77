// Package values implements the runtime representation of Coyote values: a
// closed tagged union (Object) and the Table type used to back arrays.
package values

import "fmt"

// Kind identifies the variant of an Object.
type Kind int

//nolint:revive
const (
	KindNil Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindChar
	KindByte
	KindStr
	KindArray
	KindFuncRef
)

var kindNames = [...]string{
	KindNil: "nil", KindInteger: "integer", KindFloat: "float", KindBool: "bool",
	KindChar: "char", KindByte: "byte", KindStr: "str", KindArray: "array",
	KindFuncRef: "funcref",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Object is the interface implemented by every runtime value. It is a
// closed set: Nil, Integer, Float, Bool, Char, Byte, Str, *Array, FuncRef.
type Object interface {
	Kind() Kind
	String() string
}

// Nil is the singleton "no value" Object.
var Nil Object = nilValue{}

type nilValue struct{}

func (nilValue) Kind() Kind     { return KindNil }
func (nilValue) String() string { return "nil" }

// IsNumeric reports whether o is an Integer or a Float, the two variants
// that participate in mixed arithmetic and ordering.
func IsNumeric(o Object) bool {
	k := o.Kind()
	return k == KindInteger || k == KindFloat
}

// AsFloat64 returns the numeric value of o widened to float64. The caller
// must have already checked IsNumeric(o).
func AsFloat64(o Object) float64 {
	switch v := o.(type) {
	case Integer:
		return float64(v)
	case Float:
		return float64(v)
	}
	panic(fmt.Sprintf("AsFloat64: not numeric: %s", o.Kind()))
}

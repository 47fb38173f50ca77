package values

import "strconv"

// Bool is a boolean Object.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Truthy reports whether o should be treated as true in a boolean context.
// Nil and a false Bool are the only falsy values; everything else,
// including zero-valued numbers, is truthy.
func Truthy(o Object) bool {
	switch v := o.(type) {
	case nilValue:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

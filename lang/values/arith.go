package values

import "fmt"

// Arith applies a numeric binary operator to left and right, widening to
// Float if either operand is a Float. Integer-Integer operations stay
// integral. op is one of "add", "sub", "mul", "div".
func Arith(op string, left, right Object) (Object, error) {
	if !IsNumeric(left) || !IsNumeric(right) {
		return nil, fmt.Errorf("%s: operand is not numeric (%s, %s)", op, left.Kind(), right.Kind())
	}
	li, lIsInt := left.(Integer)
	ri, rIsInt := right.(Integer)
	if lIsInt && rIsInt {
		switch op {
		case "add":
			return li + ri, nil
		case "sub":
			return li - ri, nil
		case "mul":
			return li * ri, nil
		case "div":
			if ri == 0 {
				return nil, fmt.Errorf("div: division by zero")
			}
			return li / ri, nil
		}
	}
	lf, rf := AsFloat64(left), AsFloat64(right)
	switch op {
	case "add":
		return Float(lf + rf), nil
	case "sub":
		return Float(lf - rf), nil
	case "mul":
		return Float(lf * rf), nil
	case "div":
		if rf == 0 {
			return nil, fmt.Errorf("div: division by zero")
		}
		return Float(lf / rf), nil
	}
	return nil, fmt.Errorf("arith: unknown operator %q", op)
}

// Equal implements variant-aware equality: values of different kinds are
// never equal. In particular an Integer and a Float are never equal even
// when numerically identical -- Integer(1) != Float(1.0).
func Equal(left, right Object) bool {
	if left.Kind() != right.Kind() {
		return false
	}
	switch l := left.(type) {
	case Integer:
		return l == right.(Integer)
	case Float:
		return l == right.(Float)
	case Bool:
		return l == right.(Bool)
	case Char:
		return l == right.(Char)
	case Byte:
		return l == right.(Byte)
	case Str:
		return l == right.(Str)
	case nilValue:
		return true
	case FuncRef:
		return l == right.(FuncRef)
	default:
		return left == right
	}
}

// Compare implements ordering for the numeric variants. It returns -1, 0 or
// 1 for left<right, left==right, left>right respectively. Non-numeric
// operands are a caller error: the surface language only orders numbers.
func Compare(left, right Object) (int, error) {
	if !IsNumeric(left) || !IsNumeric(right) {
		return 0, fmt.Errorf("compare: operand is not numeric (%s, %s)", left.Kind(), right.Kind())
	}
	li, lIsInt := left.(Integer)
	ri, rIsInt := right.(Integer)
	if lIsInt && rIsInt {
		switch {
		case li < ri:
			return -1, nil
		case li > ri:
			return 1, nil
		default:
			return 0, nil
		}
	}
	lf, rf := AsFloat64(left), AsFloat64(right)
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	default:
		return 0, nil
	}
}

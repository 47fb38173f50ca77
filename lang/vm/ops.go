package vm

import (
	"fmt"

	"github.com/cseidman/coyotelang/lang/bytecode"
	"github.com/cseidman/coyotelang/lang/values"
)

var arithNames = map[bytecode.Op]string{
	bytecode.Add: "add", bytecode.Sub: "sub", bytecode.Mul: "mul", bytecode.Div: "div",
}

// execArith implements the binary arithmetic opcodes: pop twice, compute
// left OP right and push the result. The first value popped is the left
// operand: the generator lowers a binary operator's right child before its
// left child, so the left operand ends up on top of the stack.
func (vm *VM) execArith(frame *Frame, op bytecode.Op) error {
	left, err := vm.pop()
	if err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	right, err := vm.pop()
	if err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	result, err := values.Arith(arithNames[op], left, right)
	if err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	if err := vm.push(result); err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	return nil
}

func (vm *VM) execCompare(frame *Frame, op bytecode.Op) error {
	left, err := vm.pop()
	if err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	right, err := vm.pop()
	if err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}

	var result bool
	switch op {
	case bytecode.Eq:
		result = values.Equal(left, right)
	case bytecode.Neq:
		result = !values.Equal(left, right)
	default:
		c, err := values.Compare(left, right)
		if err != nil {
			return fault(frame.Sub, frame.IP, "%v", err)
		}
		switch op {
		case bytecode.Gt:
			result = c > 0
		case bytecode.Ge:
			result = c >= 0
		case bytecode.Lt:
			result = c < 0
		case bytecode.Le:
			result = c <= 0
		}
	}
	if err := vm.push(values.Bool(result)); err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	return nil
}

func (vm *VM) execLogical(frame *Frame, op bytecode.Op) error {
	left, err := vm.pop()
	if err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	right, err := vm.pop()
	if err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	var result bool
	if op == bytecode.And {
		result = values.Truthy(left) && values.Truthy(right)
	} else {
		result = values.Truthy(left) || values.Truthy(right)
	}
	if err := vm.push(values.Bool(result)); err != nil {
		return fault(frame.Sub, frame.IP, "%v", err)
	}
	return nil
}

// negate implements the single "neg" opcode, which serves both arithmetic
// negation and logical "not": a numeric operand is arithmetically negated,
// anything else is negated by truthiness.
func negate(v values.Object) (values.Object, error) {
	switch o := v.(type) {
	case values.Integer:
		return -o, nil
	case values.Float:
		return -o, nil
	default:
		return values.Bool(!values.Truthy(v)), nil
	}
}

// execCall pushes a new frame for subroutine idx. The callee's arity
// values are already sitting on top of the stack as its first slots; any
// additional declared slots are zeroed to nil.
func (vm *VM) execCall(frame *Frame, idx int) error {
	if idx < 0 || idx >= len(vm.image.Subs) {
		return fault(frame.Sub, frame.IP, "call to undefined subroutine %d", idx)
	}
	if len(vm.frames) >= MaxFrameDepth {
		return fault(frame.Sub, frame.IP, "call stack exceeded depth %d", MaxFrameDepth)
	}
	callee := vm.image.Subs[idx]
	newStart := vm.sp - int(callee.Arity)
	if newStart < 0 {
		return fault(frame.Sub, frame.IP, "call: too few arguments for subroutine %d", idx)
	}
	newTop := newStart + int(callee.Slots)
	if newTop > len(vm.stack) {
		return fault(frame.Sub, frame.IP, "stack overflow calling subroutine %d", idx)
	}
	for i := newStart + int(callee.Arity); i < newTop; i++ {
		vm.stack[i] = values.Nil
	}
	vm.sp = newTop

	frame.IP += bytecode.Call.Size()
	vm.frames = append(vm.frames, Frame{Sub: idx, IP: 0, Start: newStart})
	return nil
}

// execReturn pops the current frame, collapsing its locals and operand
// area, and copies the return value to the caller's new top of stack. It
// reports done=true when the frame stack is left with nothing to return
// to, which should never actually happen since subroutine 0 ends in halt.
func (vm *VM) execReturn() (bool, error) {
	top := &vm.frames[len(vm.frames)-1]
	retVal, err := vm.pop()
	if err != nil {
		return false, fault(top.Sub, top.IP, "%v", err)
	}
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.sp = top.Start
	if err := vm.push(retVal); err != nil {
		return false, fault(top.Sub, top.IP, "%v", err)
	}
	if len(vm.frames) == 0 {
		return true, nil
	}
	return false, nil
}

func fmtPrint(vm *VM, v values.Object) {
	fmt.Fprintln(vm.Stdout, v.String())
}

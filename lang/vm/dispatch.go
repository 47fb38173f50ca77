package vm

import (
	"encoding/binary"
	"math"

	"github.com/cseidman/coyotelang/lang/bytecode"
	"github.com/cseidman/coyotelang/lang/values"
)

// dispatch runs the fetch-decode-execute loop until a halt instruction, a
// fault, or the top-level frame returns (which should not happen: the
// generator always terminates subroutine 0 with halt, never return).
func (vm *VM) dispatch() error {
	for {
		frame := &vm.frames[len(vm.frames)-1]
		sub := vm.image.Subs[frame.Sub]
		if frame.IP >= len(sub.Code) {
			return fault(frame.Sub, frame.IP, "instruction pointer ran past the end of the subroutine")
		}
		op := bytecode.Op(sub.Code[frame.IP])

		switch op {
		case bytecode.Halt:
			return nil

		case bytecode.Push:
			tag := bytecode.Tag(sub.Code[frame.IP+1])
			payload := sub.Code[frame.IP+2 : frame.IP+10]
			v, err := decodePush(vm, tag, payload)
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			if err := vm.push(v); err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}

		case bytecode.BPush:
			if err := vm.push(values.Bool(sub.Code[frame.IP+1] != 0)); err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}

		case bytecode.SPush:
			idx := binary.LittleEndian.Uint32(sub.Code[frame.IP+1 : frame.IP+5])
			if int(idx) >= len(vm.image.Pool) {
				return fault(frame.Sub, frame.IP, "spush: pool index %d out of range", idx)
			}
			if err := vm.push(values.Str(vm.image.Pool[idx])); err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}

		case bytecode.Load:
			idx, global := decodeSlotOperand(sub.Code[frame.IP+1 : frame.IP+3])
			if err := vm.push(*vm.resolveSlot(frame, idx, global)); err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}

		case bytecode.Store:
			idx, global := decodeSlotOperand(sub.Code[frame.IP+1 : frame.IP+3])
			v, err := vm.pop()
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			*vm.resolveSlot(frame, idx, global) = v

		case bytecode.NewArray:
			n := int(binary.LittleEndian.Uint16(sub.Code[frame.IP+1 : frame.IP+3]))
			arr := values.NewArray()
			for i := 0; i < n; i++ {
				v, err := vm.pop()
				if err != nil {
					return fault(frame.Sub, frame.IP, "%v", err)
				}
				arr.Push(v)
			}
			if err := vm.push(arr); err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}

		case bytecode.AStore:
			idx, global := decodeSlotOperand(sub.Code[frame.IP+1 : frame.IP+3])
			i, err := vm.pop()
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			v, err := vm.pop()
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			arr, ok := (*vm.resolveSlot(frame, idx, global)).(*values.Array)
			if !ok {
				return fault(frame.Sub, frame.IP, "astore: slot %d does not hold an array", idx)
			}
			ii, ok := i.(values.Integer)
			if !ok {
				return fault(frame.Sub, frame.IP, "astore: index is not an integer: %s", i.Kind())
			}
			if err := arr.Set(int64(ii), v); err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}

		case bytecode.Index:
			idx, global := decodeSlotOperand(sub.Code[frame.IP+1 : frame.IP+3])
			i, err := vm.pop()
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			arr, ok := (*vm.resolveSlot(frame, idx, global)).(*values.Array)
			if !ok {
				return fault(frame.Sub, frame.IP, "index: slot %d does not hold an array", idx)
			}
			ii, ok := i.(values.Integer)
			if !ok {
				return fault(frame.Sub, frame.IP, "index: index is not an integer: %s", i.Kind())
			}
			v, err := arr.Get(int64(ii))
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			if err := vm.push(v); err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}

		case bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div:
			if err := vm.execArith(frame, op); err != nil {
				return err
			}

		case bytecode.Eq, bytecode.Neq, bytecode.Gt, bytecode.Ge, bytecode.Lt, bytecode.Le:
			if err := vm.execCompare(frame, op); err != nil {
				return err
			}

		case bytecode.And, bytecode.Or:
			if err := vm.execLogical(frame, op); err != nil {
				return err
			}

		case bytecode.Neg:
			v, err := vm.pop()
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			neg, err := negate(v)
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			if err := vm.push(neg); err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}

		case bytecode.Print:
			v, err := vm.pop()
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			fmtPrint(vm, v)

		case bytecode.Jmp:
			target := binary.LittleEndian.Uint32(sub.Code[frame.IP+1 : frame.IP+5])
			frame.IP = int(target)
			continue

		case bytecode.JmpFalse:
			target := binary.LittleEndian.Uint32(sub.Code[frame.IP+1 : frame.IP+5])
			v, err := vm.pop()
			if err != nil {
				return fault(frame.Sub, frame.IP, "%v", err)
			}
			if !values.Truthy(v) {
				frame.IP = int(target)
				continue
			}

		case bytecode.Call:
			idx := int(binary.LittleEndian.Uint16(sub.Code[frame.IP+1 : frame.IP+3]))
			if err := vm.execCall(frame, idx); err != nil {
				return err
			}
			continue

		case bytecode.Return:
			done, err := vm.execReturn()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			continue

		case bytecode.Nop, bytecode.Pop:
			if op == bytecode.Pop {
				if _, err := vm.pop(); err != nil {
					return fault(frame.Sub, frame.IP, "%v", err)
				}
			}

		default:
			return fault(frame.Sub, frame.IP, "unimplemented opcode %s", op)
		}

		frame.IP += op.Size()
	}
}

// decodeSlotOperand splits a Load/Store/AStore/Index operand into its slot
// index and whether bytecode.GlobalSlotFlag was set on it.
func decodeSlotOperand(raw []byte) (idx int, global bool) {
	u := binary.LittleEndian.Uint16(raw)
	if u&bytecode.GlobalSlotFlag != 0 {
		return int(u &^ bytecode.GlobalSlotFlag), true
	}
	return int(u), false
}

func decodePush(vm *VM, tag bytecode.Tag, payload []byte) (values.Object, error) {
	switch tag {
	case bytecode.TagNil:
		return values.Nil, nil
	case bytecode.TagInteger:
		return values.Integer(int64(binary.LittleEndian.Uint64(payload))), nil
	case bytecode.TagFloat:
		bits := binary.LittleEndian.Uint64(payload)
		return values.Float(math.Float64frombits(bits)), nil
	case bytecode.TagConstText:
		idx := binary.LittleEndian.Uint32(payload[:4])
		if int(idx) >= len(vm.image.Pool) {
			return nil, fault(0, 0, "const_text index %d out of range", idx)
		}
		return values.Str(vm.image.Pool[idx]), nil
	case bytecode.TagFuncPtr:
		idx := binary.LittleEndian.Uint32(payload[:4])
		return values.FuncRef(idx), nil
	case bytecode.TagBool:
		return values.Bool(payload[0] != 0), nil
	default:
		return nil, fault(0, 0, "push: unsupported tag %s", tag)
	}
}

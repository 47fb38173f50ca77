// Package vm implements Component C of the toolchain: the virtual machine
// that loads an assembled bytecode.Image and executes it to completion,
// producing whatever output "print" statements write.
package vm

import (
	"fmt"
	"io"

	"github.com/cseidman/coyotelang/lang/bytecode"
	"github.com/cseidman/coyotelang/lang/values"
)

// Limits on the machine's two stacks, per the data model: a single value
// stack shared by every frame's locals and operand area, and a bound on
// call depth.
const (
	MaxStackSlots = 1_000_000
	MaxFrameDepth = 1_024
)

// Fault is a runtime error: execution of the image cannot continue. It
// carries enough context (which subroutine, which instruction) to build a
// useful diagnostic without unwinding Go's own call stack.
type Fault struct {
	Sub int
	IP  int
	Msg string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("vm: sub %d ip %d: %s", f.Sub, f.IP, f.Msg)
}

func fault(sub, ip int, format string, args ...interface{}) *Fault {
	return &Fault{Sub: sub, IP: ip, Msg: fmt.Sprintf(format, args...)}
}

// VM executes a single bytecode.Image. It is single-threaded and
// deterministic: the same image and the same Stdout always produce the
// same output.
type VM struct {
	image *bytecode.Image
	stack []values.Object
	sp    int
	frames []Frame

	Stdout io.Writer
}

// New creates a VM ready to run img, writing print output to stdout.
func New(img *bytecode.Image, stdout io.Writer) *VM {
	return &VM{
		image:  img,
		stack:  make([]values.Object, MaxStackSlots),
		Stdout: stdout,
	}
}

// Run pushes an initial frame for subroutine 0 and executes until halt, a
// fault, or the instruction stream runs out.
func (vm *VM) Run() error {
	if len(vm.image.Subs) == 0 {
		return fmt.Errorf("vm: image has no subroutines")
	}
	entry := vm.image.Subs[0]
	if vm.sp+int(entry.Slots) > len(vm.stack) {
		return fault(0, 0, "stack overflow loading entry subroutine")
	}
	for i := 0; i < int(entry.Slots); i++ {
		vm.stack[vm.sp+i] = values.Nil
	}
	vm.sp += int(entry.Slots)
	vm.frames = append(vm.frames, Frame{Sub: 0, IP: 0, Start: 0})

	return vm.dispatch()
}

func (vm *VM) push(v values.Object) error {
	if vm.sp >= len(vm.stack) {
		return fmt.Errorf("vm: value stack overflow")
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() (values.Object, error) {
	if vm.sp == 0 {
		return nil, fmt.Errorf("vm: value stack underflow")
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

func (vm *VM) slot(frame *Frame, idx int) *values.Object {
	return &vm.stack[frame.Start+idx]
}

// resolveSlot addresses a local in frame (when global is false) or a
// global declared in main's outermost scope (when global is true). Main's
// frame is always frames[0] and is never popped, so its Start is always 0
// for the lifetime of the program, independent of however deep the call
// stack has grown around it.
func (vm *VM) resolveSlot(frame *Frame, idx int, global bool) *values.Object {
	if global {
		return &vm.stack[vm.frames[0].Start+idx]
	}
	return vm.slot(frame, idx)
}

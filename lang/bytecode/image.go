package bytecode

// Sub is one assembled subroutine: its code plus the header fields that
// precede it in the binary image.
type Sub struct {
	Location uint32 // informational only; lang/asm does not set it, so it is 0 in an assembled image
	Arity    uint8
	Slots    uint8
	Code     []byte
}

// Image is the fully assembled binary program: every subroutine in
// declaration order (subroutine 0 is always the entry point) plus the
// ordered string pool referenced by SPush operands (and by Push operands
// tagged const_text).
type Image struct {
	Subs   []Sub
	Pool   []string
}

// Package gen implements Component A of the toolchain: the IR generator
// that lowers an *ast.Node tree into the textual assembly format consumed
// by lang/asm. It folds name resolution and slot assignment into the
// lowering pass itself (there is no separate resolver stage) and patches
// jump targets in place as it emits code, without a second pass.
package gen

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/cseidman/coyotelang/lang/ast"
	"github.com/cseidman/coyotelang/lang/bytecode"
)

// instr is one emitted instruction: its byte offset (fixed once written,
// since every opcode has a fixed operand width) and its rendered text.
type instr struct {
	offset  uint32
	op      bytecode.Op
	operand string // rendered operand text, or "" for no operand
}

func (i *instr) render() string {
	if i.operand == "" {
		return i.op.String()
	}
	return i.op.String() + " " + i.operand
}

// scope is one lexical block's slot bookkeeping within the current
// subroutine: the offset the block started at, and the names it declared.
type scope struct {
	startOffset int
	names       map[string]int
}

// loopCtx tracks the jump-patch bookkeeping for one enclosing loop.
type loopCtx struct {
	continueTarget *uint32
	pendingBreak   []int // indices into sub.code awaiting the loop's exit offset
	pendingCont    []int // indices into sub.code awaiting continueTarget
}

// subBuilder accumulates one subroutine's code and local bookkeeping.
type subBuilder struct {
	name   string
	arity  uint8
	code   []instr
	scopes []scope
	offset int // current live slot count
	high   int // high-water mark, becomes the sub's reported slot count
	loops  []*loopCtx
}

func newSubBuilder(name string, arity uint8) *subBuilder {
	return &subBuilder{name: name, arity: arity}
}

func (s *subBuilder) curOffset() uint32 {
	if len(s.code) == 0 {
		return 0
	}
	last := s.code[len(s.code)-1]
	return last.offset + uint32(last.op.Size())
}

func (s *subBuilder) emit(op bytecode.Op, operand string) int {
	i := instr{offset: s.curOffset(), op: op, operand: operand}
	s.code = append(s.code, i)
	return len(s.code) - 1
}

func (s *subBuilder) emitJump(op bytecode.Op) int {
	return s.emit(op, "?")
}

func (s *subBuilder) patch(idx int, target uint32) {
	s.code[idx].operand = fmt.Sprintf("%d", target)
}

func (s *subBuilder) pushScope() {
	s.scopes = append(s.scopes, scope{startOffset: s.offset, names: map[string]int{}})
}

func (s *subBuilder) popScope() {
	top := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.offset = top.startOffset
}

func (s *subBuilder) declare(name string) int {
	slot := s.offset
	s.scopes[len(s.scopes)-1].names[name] = slot
	s.offset++
	if s.offset > s.high {
		s.high = s.offset
	}
	return slot
}

func (s *subBuilder) resolve(name string) (int, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if slot, ok := s.scopes[i].names[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

func (s *subBuilder) pushLoop() *loopCtx {
	lc := &loopCtx{}
	s.loops = append(s.loops, lc)
	return lc
}

func (s *subBuilder) popLoop() {
	s.loops = s.loops[:len(s.loops)-1]
}

func (s *subBuilder) currentLoop() *loopCtx {
	if len(s.loops) == 0 {
		return nil
	}
	return s.loops[len(s.loops)-1]
}

// Generator lowers a syntax tree into textual assembly.
type Generator struct {
	pool     []string
	poolIdx  map[string]int
	subs     []*subBuilder
	subIdx   map[string]int
	cur      *subBuilder
	errs     []string
}

// Generate lowers root and returns the textual assembly program. An error
// is returned if a surface-level mistake was found (a call to an unknown
// function, break/continue outside a loop, or a reference to an undeclared
// name) -- these are reported here rather than left for the assembler or
// VM to discover.
func Generate(root *ast.Node) (string, error) {
	g := &Generator{poolIdx: map[string]int{}, subIdx: map[string]int{}}

	main := newSubBuilder("main", 0)
	g.subs = append(g.subs, main)
	g.subIdx["main"] = 0
	g.cur = main
	main.pushScope()

	// First pass: pre-register every top-level function's name and arity so
	// forward references (a call appearing before its definition) resolve.
	for _, child := range root.Children {
		if child.Kind == ast.Function {
			g.registerFunction(child)
		}
	}

	// Second pass: lower every top-level statement in source order, in
	// place, switching the active subroutine when a Function node is hit.
	for _, child := range root.Children {
		if child.Kind == ast.Function {
			g.genFunctionBody(child)
			continue
		}
		g.genStmt(child)
	}

	main.popScope()
	main.emit(bytecode.Halt, "")

	if len(g.errs) > 0 {
		return "", fmt.Errorf("gen: %s", strings.Join(g.errs, "; "))
	}
	return g.render(), nil
}

// resolveIdent looks up name in the current subroutine's own scopes first;
// if that misses and the current subroutine is not main itself, it falls
// back to a lookup in main's outermost scope (its globals), per the
// scope/slot algorithm's "if not found in the current function, a global
// lookup in scope 0 is attempted" rule.
func (g *Generator) resolveIdent(name string) (slot int, global bool, ok bool) {
	if slot, ok := g.cur.resolve(name); ok {
		return slot, false, true
	}
	if g.cur == g.subs[0] || len(g.subs[0].scopes) == 0 {
		return 0, false, false
	}
	if slot, ok := g.subs[0].scopes[0].names[name]; ok {
		return slot, true, true
	}
	return 0, false, false
}

// globalOperand renders a slot as a Load/Store/AStore/Index operand,
// tagging it with bytecode.GlobalSlotFlag when it addresses a global.
func globalOperand(slot int, global bool) string {
	if global {
		slot |= bytecode.GlobalSlotFlag
	}
	return itoa(slot)
}

func (g *Generator) errorf(format string, args ...interface{}) {
	g.errs = append(g.errs, fmt.Sprintf(format, args...))
}

func (g *Generator) internString(s string) int {
	if idx, ok := g.poolIdx[s]; ok {
		return idx
	}
	idx := len(g.pool)
	g.pool = append(g.pool, s)
	g.poolIdx[s] = idx
	return idx
}

func (g *Generator) registerFunction(n *ast.Node) {
	if _, exists := g.subIdx[n.Name]; exists {
		g.errorf("function %q redeclared", n.Name)
		return
	}
	var params []string
	for _, c := range n.Children {
		if c.Kind == ast.Ident {
			if slices.Contains(params, c.Name) {
				g.errorf("function %q: parameter %q repeated", n.Name, c.Name)
				return
			}
			params = append(params, c.Name)
		}
	}
	arity := len(params)
	idx := len(g.subs)
	sb := newSubBuilder(n.Name, uint8(arity))
	g.subs = append(g.subs, sb)
	g.subIdx[n.Name] = idx
}

func (g *Generator) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, ".strings %d\n", len(g.pool))
	for _, s := range g.pool {
		fmt.Fprintf(&b, "    %q\n", s)
	}

	fmt.Fprintf(&b, ".subs %d\n", len(g.subs))
	for i, sub := range g.subs {
		var codeLen uint32
		if len(sub.code) > 0 {
			last := sub.code[len(sub.code)-1]
			codeLen = last.offset + uint32(last.op.Size())
		}
		fmt.Fprintf(&b, ".sub %s:%d arity:%d slots:%d lines:%d bytes:%d\n",
			sub.name, i, sub.arity, sub.high, len(sub.code), codeLen)
		for _, ins := range sub.code {
			fmt.Fprintf(&b, "    %d | %s\n", ins.offset, ins.render())
		}
	}

	b.WriteString(".start\n")
	b.WriteString("    call 0\n")
	b.WriteString("    halt\n")
	return b.String()
}

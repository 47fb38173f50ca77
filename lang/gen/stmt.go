package gen

import (
	"github.com/cseidman/coyotelang/lang/ast"
	"github.com/cseidman/coyotelang/lang/bytecode"
)

// genFunctionBody switches the active subroutine to the one pre-registered
// for n, lowers its parameters and body, and switches back to main.
func (g *Generator) genFunctionBody(n *ast.Node) {
	idx := g.subIdx[n.Name]
	sub := g.subs[idx]
	prev := g.cur
	g.cur = sub

	sub.pushScope()
	var body *ast.Node
	for _, c := range n.Children {
		switch c.Kind {
		case ast.Ident:
			sub.declare(c.Name)
		case ast.CodeBlock:
			body = c
		}
	}
	if body != nil {
		for _, stmt := range body.Children {
			g.genStmt(stmt)
		}
	}
	// Every path out of a function must leave a value for the caller; a
	// function whose body runs off the end returns nil implicitly.
	if body == nil || len(body.Children) == 0 || body.Children[len(body.Children)-1].Kind != ast.Return {
		sub.emit(bytecode.Push, "nil")
		sub.emit(bytecode.Return, "")
	}
	sub.popScope()

	g.cur = prev
}

func (g *Generator) genStmt(n *ast.Node) {
	switch n.Kind {
	case ast.Let:
		g.genLet(n)
	case ast.Print:
		g.genExpr(n.Children[0])
		g.cur.emit(bytecode.Print, "")
	case ast.Assignment:
		g.genAssignment(n)
	case ast.If:
		g.genIf(n)
	case ast.While:
		g.genWhile(n)
	case ast.For:
		g.genFor(n)
	case ast.Return:
		if len(n.Children) == 1 {
			g.genExpr(n.Children[0])
		} else {
			g.cur.emit(bytecode.Push, "nil")
		}
		g.cur.emit(bytecode.Return, "")
	case ast.Break:
		g.genBreak()
	case ast.Continue:
		g.genContinue()
	case ast.Block:
		g.cur.pushScope()
		for _, stmt := range n.Children {
			g.genStmt(stmt)
		}
		g.cur.popScope()
	default:
		g.errorf("gen: unexpected statement node %s", n.Kind)
	}
}

func (g *Generator) genLet(n *ast.Node) {
	if len(n.Children) == 1 {
		g.genExpr(n.Children[0])
	} else {
		g.cur.emit(bytecode.Push, "nil")
	}
	slot := g.cur.declare(n.Name)
	g.cur.emit(bytecode.Store, itoa(slot))
}

// genAssignment lowers "lhs = rhs". The right-hand side is always lowered
// first; the left-hand identifier then either stores directly into its
// slot (a plain name) or lowers its index expression and emits astore (an
// indexed element), per the identifier lowering rule below.
func (g *Generator) genAssignment(n *ast.Node) {
	rhs, lhs := n.Children[0], n.Children[1]
	g.genExpr(rhs)

	slot, global, ok := g.resolveIdent(lhs.Name)
	if !ok {
		g.errorf("assignment to undeclared name %q", lhs.Name)
		return
	}
	if len(lhs.Children) == 1 && lhs.Children[0].Kind == ast.ArrayElement {
		g.genExpr(lhs.Children[0].Children[0])
		g.cur.emit(bytecode.AStore, globalOperand(slot, global))
		return
	}
	g.cur.emit(bytecode.Store, globalOperand(slot, global))
}

func (g *Generator) genIf(n *ast.Node) {
	cond := n.Children[0].Children[0]
	body := n.Children[1]
	var elseNode *ast.Node
	for _, c := range n.Children[2:] {
		if c.Kind == ast.Else {
			elseNode = c
		}
	}

	g.genExpr(cond)
	jmpFalseIdx := g.cur.emitJump(bytecode.JmpFalse)

	g.cur.pushScope()
	for _, stmt := range body.Children {
		g.genStmt(stmt)
	}
	g.cur.popScope()

	if elseNode != nil {
		jmpEndIdx := g.cur.emitJump(bytecode.Jmp)
		g.cur.patch(jmpFalseIdx, g.cur.curOffset())

		g.cur.pushScope()
		for _, stmt := range elseNode.Children {
			g.genStmt(stmt)
		}
		g.cur.popScope()

		g.cur.patch(jmpEndIdx, g.cur.curOffset())
		return
	}
	g.cur.patch(jmpFalseIdx, g.cur.curOffset())
}

func (g *Generator) genWhile(n *ast.Node) {
	cond := n.Children[0].Children[0]
	body := n.Children[1]

	loopStart := g.cur.curOffset()
	lc := g.cur.pushLoop()
	lc.continueTarget = &loopStart

	g.genExpr(cond)
	exitIdx := g.cur.emitJump(bytecode.JmpFalse)

	g.cur.pushScope()
	for _, stmt := range body.Children {
		g.genStmt(stmt)
	}
	g.cur.popScope()

	g.cur.emit(bytecode.Jmp, itoa32(loopStart))

	exitTarget := g.cur.curOffset()
	g.cur.patch(exitIdx, exitTarget)
	for _, idx := range lc.pendingBreak {
		g.cur.patch(idx, exitTarget)
	}
	g.cur.popLoop()
}

// genFor lowers "for x in a to b { ... } endfor". Two slots are reserved:
// one for the loop variable and one hidden slot holding the (exclusive)
// upper bound, so the bound expression is evaluated exactly once.
func (g *Generator) genFor(n *ast.Node) {
	ident := n.Children[0]
	rng := n.Children[1]
	body := n.Children[2]

	g.cur.pushScope()
	varSlot := g.cur.declare(ident.Name)
	boundSlot := g.cur.declare("$2")

	g.genExpr(rng.Children[0])
	g.cur.emit(bytecode.Store, itoa(varSlot))
	g.genExpr(rng.Children[1])
	g.cur.emit(bytecode.Store, itoa(boundSlot))

	loopStart := g.cur.curOffset()
	lc := g.cur.pushLoop()

	g.cur.emit(bytecode.Load, itoa(boundSlot))
	g.cur.emit(bytecode.Load, itoa(varSlot))
	g.cur.emit(bytecode.Lt, "")
	exitIdx := g.cur.emitJump(bytecode.JmpFalse)

	g.cur.pushScope()
	for _, stmt := range body.Children {
		g.genStmt(stmt)
	}
	g.cur.popScope()

	incrOffset := g.cur.curOffset()
	lc.continueTarget = &incrOffset
	for _, idx := range lc.pendingCont {
		g.cur.patch(idx, incrOffset)
	}

	g.cur.emit(bytecode.Load, itoa(varSlot))
	g.cur.emit(bytecode.Push, "integer 1")
	g.cur.emit(bytecode.Add, "")
	g.cur.emit(bytecode.Store, itoa(varSlot))
	g.cur.emit(bytecode.Jmp, itoa32(loopStart))

	exitTarget := g.cur.curOffset()
	g.cur.patch(exitIdx, exitTarget)
	for _, idx := range lc.pendingBreak {
		g.cur.patch(idx, exitTarget)
	}
	g.cur.popLoop()
	g.cur.popScope()
}

func (g *Generator) genBreak() {
	lc := g.cur.currentLoop()
	if lc == nil {
		g.errorf("break outside of a loop")
		return
	}
	idx := g.cur.emitJump(bytecode.Jmp)
	lc.pendingBreak = append(lc.pendingBreak, idx)
}

func (g *Generator) genContinue() {
	lc := g.cur.currentLoop()
	if lc == nil {
		g.errorf("continue outside of a loop")
		return
	}
	if lc.continueTarget != nil {
		g.cur.emit(bytecode.Jmp, itoa32(*lc.continueTarget))
		return
	}
	idx := g.cur.emitJump(bytecode.Jmp)
	lc.pendingCont = append(lc.pendingCont, idx)
}

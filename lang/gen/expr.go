package gen

import (
	"fmt"
	"strconv"

	"github.com/cseidman/coyotelang/lang/ast"
	"github.com/cseidman/coyotelang/lang/bytecode"
)

func itoa(i int) string   { return strconv.Itoa(i) }
func itoa32(u uint32) string { return strconv.FormatUint(uint64(u), 10) }

var binOpcodes = map[ast.BinOp]bytecode.Op{
	ast.OpAdd: bytecode.Add, ast.OpSub: bytecode.Sub, ast.OpMul: bytecode.Mul, ast.OpDiv: bytecode.Div,
	ast.OpEq: bytecode.Eq, ast.OpNeq: bytecode.Neq, ast.OpGt: bytecode.Gt, ast.OpGe: bytecode.Ge,
	ast.OpLt: bytecode.Lt, ast.OpLe: bytecode.Le, ast.OpAnd: bytecode.And, ast.OpOr: bytecode.Or,
}

// genExpr lowers an expression node, leaving exactly one value on the
// stack.
func (g *Generator) genExpr(n *ast.Node) {
	switch n.Kind {
	case ast.Integer:
		g.cur.emit(bytecode.Push, fmt.Sprintf("integer %d", n.IntVal))
	case ast.Float:
		g.cur.emit(bytecode.Push, fmt.Sprintf("float %g", n.FloatVal))
	case ast.Boolean:
		g.cur.emit(bytecode.BPush, fmt.Sprintf("%t", n.BoolVal))
	case ast.Text:
		idx := g.internString(n.StrVal)
		g.cur.emit(bytecode.SPush, itoa(idx))
	case ast.Ident:
		g.genIdentLoad(n)
	case ast.Array:
		g.genArrayLiteral(n)
	case ast.BinaryOp:
		// Children are [rhs, lhs]; lowering them in that order leaves the
		// left operand on top of the stack, matching the parser's ordering.
		g.genExpr(n.Children[0])
		g.genExpr(n.Children[1])
		op, ok := binOpcodes[n.BinOp]
		if !ok {
			g.errorf("gen: unknown binary operator %s", n.BinOp)
			return
		}
		g.cur.emit(op, "")
	case ast.UnaryOp:
		g.genExpr(n.Children[0])
		g.cur.emit(bytecode.Neg, "")
	case ast.Call:
		g.genCall(n)
	default:
		g.errorf("gen: unexpected expression node %s", n.Kind)
	}
}

// genIdentLoad lowers a read of an identifier: a plain name loads its
// slot; a name with an ArrayElement child lowers the index expression and
// indexes into the array held in that slot.
func (g *Generator) genIdentLoad(n *ast.Node) {
	slot, global, ok := g.resolveIdent(n.Name)
	if !ok {
		g.errorf("reference to undeclared name %q", n.Name)
		return
	}
	if len(n.Children) == 1 && n.Children[0].Kind == ast.ArrayElement {
		g.genExpr(n.Children[0].Children[0])
		g.cur.emit(bytecode.Index, globalOperand(slot, global))
		return
	}
	g.cur.emit(bytecode.Load, globalOperand(slot, global))
}

// genArrayLiteral lowers "[e0, e1, ...]": elements are evaluated in reverse
// source order, so element 0 ends up on top of the pushed sequence, then
// newarray pops them off (in that same top-first order) and builds the
// array, leaving it on the stack for the enclosing expression.
func (g *Generator) genArrayLiteral(n *ast.Node) {
	for i := len(n.Children) - 1; i >= 0; i-- {
		g.genExpr(n.Children[i])
	}
	g.cur.emit(bytecode.NewArray, itoa(len(n.Children)))
}

func (g *Generator) genCall(n *ast.Node) {
	idx, ok := g.subIdx[n.Name]
	if !ok {
		g.errorf("call to undeclared function %q", n.Name)
		return
	}
	for _, arg := range n.Children {
		g.genExpr(arg)
	}
	g.cur.emit(bytecode.Call, itoa(idx))
}

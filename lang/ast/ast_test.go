package ast_test

import (
	"testing"

	"github.com/cseidman/coyotelang/lang/ast"
	"github.com/stretchr/testify/assert"
)

func TestNodeString(t *testing.T) {
	n := &ast.Node{Kind: ast.Ident, Name: "x"}
	assert.Equal(t, "ident(x)", n.String())

	n = &ast.Node{Kind: ast.Integer, IntVal: 7}
	assert.Equal(t, "integer(7)", n.String())

	n = &ast.Node{Kind: ast.BinaryOp, BinOp: ast.OpAdd}
	assert.Equal(t, "binary_op(add)", n.String())
}

func TestWalkVisitsChildrenInOrder(t *testing.T) {
	root := ast.NewNode(ast.Root, 0)
	a := ast.NewNode(ast.Integer, 0)
	a.IntVal = 1
	b := ast.NewNode(ast.Integer, 0)
	b.IntVal = 2
	root.Add(a).Add(b)

	var seen []int64
	var visit ast.VisitorFunc
	visit = func(n *ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitEnter && n.Kind == ast.Integer {
			seen = append(seen, n.IntVal)
		}
		return visit
	}
	ast.Walk(visit, root)

	assert.Equal(t, []int64{1, 2}, seen)
}

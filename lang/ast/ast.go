// Package ast defines the closed set of syntax-tree node kinds that is the
// contract between the parser and the IR generator (lang/gen). A node's
// Kind determines which of its fields are meaningful; Children holds the
// node's ordered sub-nodes for generic traversal (Walk).
package ast

import (
	"fmt"

	"github.com/cseidman/coyotelang/lang/token"
)

// Kind identifies the closed set of node kinds the generator understands.
type Kind int

//nolint:revive
const (
	Root Kind = iota
	Integer
	Float
	Boolean
	Text
	Ident
	Array
	ArrayElement
	BinaryOp
	UnaryOp
	Assignment
	Let
	Print
	If
	Conditional
	CodeBlock
	Else
	EndIf
	While
	For
	Range
	EndWhile
	EndFor
	Function
	Params
	Call
	Return
	Break
	Continue
	Block
	EndBlock
)

var kindNames = [...]string{
	Root:         "root",
	Integer:      "integer",
	Float:        "float",
	Boolean:      "boolean",
	Text:         "text",
	Ident:        "ident",
	Array:        "array",
	ArrayElement: "array_element",
	BinaryOp:     "binary_op",
	UnaryOp:      "unary_op",
	Assignment:   "assignment",
	Let:          "let",
	Print:        "print",
	If:           "if",
	Conditional:  "conditional",
	CodeBlock:    "code_block",
	Else:         "else",
	EndIf:        "end_if",
	While:        "while",
	For:          "for",
	Range:        "range",
	EndWhile:     "end_while",
	EndFor:       "end_for",
	Function:     "function",
	Params:       "params",
	Call:         "call",
	Return:       "return",
	Break:        "break",
	Continue:     "continue",
	Block:        "block",
	EndBlock:     "end_block",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// BinOp identifies a binary operator, mirroring the mnemonic the generator
// emits for it.
type BinOp int

//nolint:revive
const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpGt
	OpGe
	OpLt
	OpLe
	OpAnd
	OpOr
)

var binOpNames = [...]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div",
	OpEq: "eq", OpNeq: "neq", OpGt: "gt", OpGe: "ge", OpLt: "lt", OpLe: "le",
	OpAnd: "and", OpOr: "or",
}

func (b BinOp) String() string { return binOpNames[b] }

// UnOp identifies a unary operator. Both negation and logical "not" lower to
// the single "neg" opcode, per the generator's lowering rules.
type UnOp int

//nolint:revive
const (
	OpNeg UnOp = iota
	OpNot
)

// Node is a node of the syntax tree produced by the parser and consumed by
// the IR generator.
type Node struct {
	Kind     Kind
	Children []*Node
	Pos      token.Pos

	Name       string // Ident, Function, Call
	IntVal     int64  // Integer
	FloatVal   float64
	BoolVal    bool
	StrVal     string // Text
	BinOp      BinOp
	UnOp       UnOp
	Assignable bool // set by the parser on an Ident that is an assignment target
}

// NewNode creates a leaf node of the given kind at pos.
func NewNode(kind Kind, pos token.Pos) *Node {
	return &Node{Kind: kind, Pos: pos}
}

// Add appends child to n's children and returns n, for fluent construction.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// Walk implements the ast.Walk traversal contract: it visits every child of
// n with the visitor v.
func (n *Node) Walk(v Visitor) {
	for _, c := range n.Children {
		Walk(v, c)
	}
}

func (n *Node) String() string {
	switch n.Kind {
	case Ident:
		return fmt.Sprintf("ident(%s)", n.Name)
	case Integer:
		return fmt.Sprintf("integer(%d)", n.IntVal)
	case Float:
		return fmt.Sprintf("float(%g)", n.FloatVal)
	case Boolean:
		return fmt.Sprintf("boolean(%t)", n.BoolVal)
	case Text:
		return fmt.Sprintf("text(%q)", n.StrVal)
	case BinaryOp:
		return fmt.Sprintf("binary_op(%s)", n.BinOp)
	case UnaryOp:
		return fmt.Sprintf("unary_op(%d)", n.UnOp)
	case Function, Call:
		return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
	default:
		return n.Kind.String()
	}
}

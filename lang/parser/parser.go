// Package parser implements a recursive-descent parser that turns scanner
// tokens into the ast.Node tree consumed by the IR generator (lang/gen).
package parser

import (
	"fmt"

	"github.com/cseidman/coyotelang/lang/ast"
	"github.com/cseidman/coyotelang/lang/scanner"
	"github.com/cseidman/coyotelang/lang/token"
)

// Error is a parse error tied to a source position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Parser consumes a token stream and builds an *ast.Node tree.
type Parser struct {
	sc   scanner.Scanner
	errs []*Error

	tok token.Token
	pos token.Pos
	val scanner.TokenValue
}

// Parse scans and parses src, returning the root node of the tree. Parse
// errors are collected rather than aborting immediately, so a caller can
// report more than one mistake per run; if any were recorded, err is
// non-nil and its message joins all of them, separated by "; ".
func Parse(src []byte) (root *ast.Node, err error) {
	var p Parser
	p.sc.Init(src)
	p.next()

	root = ast.NewNode(ast.Root, token.NoPos)
	for p.tok != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			root.Add(stmt)
		}
	}

	if lexErrs := p.sc.Errors(); lexErrs.Err() != nil {
		p.errs = append(p.errs, &Error{Msg: lexErrs.Err().Error()})
	}
	if len(p.errs) > 0 {
		return root, joinErrors(p.errs)
	}
	return root, nil
}

func joinErrors(errs []*Error) error {
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += e.Error()
	}
	return fmt.Errorf("%s", msg)
}

func (p *Parser) next() {
	p.tok, p.pos, p.val = p.sc.Scan()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, &Error{Pos: p.pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorf("expected %s, found %s", tok, p.tok)
	} else {
		p.next()
	}
	return pos
}

func (p *Parser) accept(tok token.Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// parseStatement parses a single top-level or block-level statement.
func (p *Parser) parseStatement() *ast.Node {
	switch p.tok {
	case token.LET:
		return p.parseLet()
	case token.PRINT:
		return p.parsePrint()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.FUNC:
		return p.parseFunction()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		pos := p.pos
		p.next()
		return ast.NewNode(ast.Break, pos)
	case token.CONTINUE:
		pos := p.pos
		p.next()
		return ast.NewNode(ast.Continue, pos)
	case token.LBRACE:
		return p.parseBlock()
	case token.IDENT:
		return p.parseAssignmentOrExprStatement()
	default:
		p.errorf("unexpected token %s", p.tok)
		p.next()
		return nil
	}
}

func (p *Parser) parseLet() *ast.Node {
	pos := p.pos
	p.expect(token.LET)
	name := p.pos
	nameStr := p.val.Str
	p.expect(token.IDENT)

	n := ast.NewNode(ast.Let, pos)
	n.Name = nameStr
	n.Pos = name
	if p.accept(token.ASSIGN) {
		n.Add(p.parseExpr(0))
	}
	return n
}

func (p *Parser) parsePrint() *ast.Node {
	pos := p.pos
	p.expect(token.PRINT)
	n := ast.NewNode(ast.Print, pos)
	n.Add(p.parseExpr(0))
	return n
}

func (p *Parser) parseBlock() *ast.Node {
	return p.parseBlockAs(ast.Block)
}

// parseBlockAs parses a brace-delimited statement list and wraps it in a
// node of the given kind (CodeBlock inside control constructs and
// functions, Block for a bare nested-scope statement).
func (p *Parser) parseBlockAs(kind ast.Kind) *ast.Node {
	pos := p.pos
	p.expect(token.LBRACE)
	n := ast.NewNode(kind, pos)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if stmt := p.parseStatement(); stmt != nil {
			n.Add(stmt)
		}
	}
	p.expect(token.RBRACE)
	return n
}

func (p *Parser) parseIf() *ast.Node {
	pos := p.pos
	p.expect(token.IF)

	cond := ast.NewNode(ast.Conditional, p.pos)
	cond.Add(p.parseExpr(0))

	body := p.parseBlockAs(ast.CodeBlock)

	n := ast.NewNode(ast.If, pos)
	n.Add(cond)
	n.Add(body)

	if p.accept(token.ELSE) {
		elsePos := p.pos
		elseBody := p.parseBlockAs(ast.CodeBlock)
		elseNode := ast.NewNode(ast.Else, elsePos)
		elseNode.Children = elseBody.Children
		n.Add(elseNode)
	}

	endPos := p.pos
	p.expect(token.ENDIF)
	n.Add(ast.NewNode(ast.EndIf, endPos))
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	pos := p.pos
	p.expect(token.WHILE)

	cond := ast.NewNode(ast.Conditional, p.pos)
	cond.Add(p.parseExpr(0))

	body := p.parseBlockAs(ast.CodeBlock)

	n := ast.NewNode(ast.While, pos)
	n.Add(cond)
	n.Add(body)

	endPos := p.pos
	p.expect(token.ENDWHILE)
	n.Add(ast.NewNode(ast.EndWhile, endPos))
	return n
}

func (p *Parser) parseFor() *ast.Node {
	pos := p.pos
	p.expect(token.FOR)

	varPos := p.pos
	varName := p.val.Str
	p.expect(token.IDENT)
	ident := ast.NewNode(ast.Ident, varPos)
	ident.Name = varName

	p.expect(token.IN)
	from := p.parseExpr(0)
	p.expect(token.TO)
	to := p.parseExpr(0)
	rng := ast.NewNode(ast.Range, varPos)
	rng.Add(from)
	rng.Add(to)

	body := p.parseBlockAs(ast.CodeBlock)

	n := ast.NewNode(ast.For, pos)
	n.Add(ident)
	n.Add(rng)
	n.Add(body)

	endPos := p.pos
	p.expect(token.ENDFOR)
	n.Add(ast.NewNode(ast.EndFor, endPos))
	return n
}

func (p *Parser) parseFunction() *ast.Node {
	pos := p.pos
	p.expect(token.FUNC)
	name := p.val.Str
	p.expect(token.IDENT)

	n := ast.NewNode(ast.Function, pos)
	n.Name = name

	p.expect(token.LPAREN)
	for p.tok != token.RPAREN && p.tok != token.EOF {
		paramPos := p.pos
		paramName := p.val.Str
		p.expect(token.IDENT)
		param := ast.NewNode(ast.Ident, paramPos)
		param.Name = paramName
		n.Add(param)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	n.Add(ast.NewNode(ast.Params, p.pos))

	body := p.parseBlockAs(ast.CodeBlock)
	n.Add(body)
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	pos := p.pos
	p.expect(token.RETURN)
	n := ast.NewNode(ast.Return, pos)
	switch p.tok {
	case token.RBRACE, token.ENDIF, token.ENDWHILE, token.ENDFOR, token.EOF:
		// bare return, no value
	default:
		n.Add(p.parseExpr(0))
	}
	return n
}

// parseAssignmentOrExprStatement handles the two statement forms that start
// with an identifier: "name = expr", "name[idx] = expr", and a call used
// purely for its side effect is intentionally not supported (every call
// must be used as an expression: print, let, or inside another expression).
func (p *Parser) parseAssignmentOrExprStatement() *ast.Node {
	pos := p.pos
	name := p.val.Str
	p.expect(token.IDENT)

	lhs := ast.NewNode(ast.Ident, pos)
	lhs.Name = name

	if p.accept(token.LBRACK) {
		idx := p.parseExpr(0)
		p.expect(token.RBRACK)
		elem := ast.NewNode(ast.ArrayElement, pos)
		elem.Add(idx)
		lhs.Add(elem)
	}

	if p.tok != token.ASSIGN {
		p.errorf("expected assignment, found %s", p.tok)
		return nil
	}
	p.next()
	lhs.Assignable = true

	rhs := p.parseExpr(0)
	assign := ast.NewNode(ast.Assignment, pos)
	assign.Add(rhs)
	assign.Add(lhs)
	return assign
}

// parseExpr parses a binary expression using precedence climbing; minPrec
// is the smallest operator precedence this call is allowed to consume.
func (p *Parser) parseExpr(minPrec int) *ast.Node {
	left := p.parseUnary()
	for {
		prec := p.tok.Precedence()
		if prec == 0 || prec < minPrec {
			return left
		}
		op, ok := binOpFor(p.tok)
		if !ok {
			return left
		}
		opPos := p.pos
		p.next()
		right := p.parseExpr(prec + 1)

		n := ast.NewNode(ast.BinaryOp, opPos)
		n.BinOp = op
		// The parser places the RHS as the first (tree-left) child and the
		// LHS as the second; the generator lowers them in that order so the
		// left operand ends up on top of the stack.
		n.Add(right)
		n.Add(left)
		left = n
	}
}

func binOpFor(tok token.Token) (ast.BinOp, bool) {
	switch tok {
	case token.PLUS:
		return ast.OpAdd, true
	case token.MINUS:
		return ast.OpSub, true
	case token.STAR:
		return ast.OpMul, true
	case token.SLASH:
		return ast.OpDiv, true
	case token.EQ:
		return ast.OpEq, true
	case token.NEQ:
		return ast.OpNeq, true
	case token.GT:
		return ast.OpGt, true
	case token.GE:
		return ast.OpGe, true
	case token.LT:
		return ast.OpLt, true
	case token.LE:
		return ast.OpLe, true
	case token.AND:
		return ast.OpAnd, true
	case token.OR:
		return ast.OpOr, true
	}
	return 0, false
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.tok {
	case token.MINUS:
		pos := p.pos
		p.next()
		n := ast.NewNode(ast.UnaryOp, pos)
		n.UnOp = ast.OpNeg
		n.Add(p.parseUnary())
		return n
	case token.NOT:
		pos := p.pos
		p.next()
		n := ast.NewNode(ast.UnaryOp, pos)
		n.UnOp = ast.OpNot
		n.Add(p.parseUnary())
		return n
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	switch p.tok {
	case token.INT:
		n := ast.NewNode(ast.Integer, p.pos)
		n.IntVal = p.val.Int
		p.next()
		return n
	case token.FLOAT:
		n := ast.NewNode(ast.Float, p.pos)
		n.FloatVal = p.val.Float
		p.next()
		return n
	case token.TRUE, token.FALSE:
		n := ast.NewNode(ast.Boolean, p.pos)
		n.BoolVal = p.tok == token.TRUE
		p.next()
		return n
	case token.STRING:
		n := ast.NewNode(ast.Text, p.pos)
		n.StrVal = p.val.Str
		p.next()
		return n
	case token.LBRACK:
		return p.parseArrayLiteral()
	case token.LPAREN:
		p.next()
		n := p.parseExpr(0)
		p.expect(token.RPAREN)
		return n
	case token.IDENT:
		return p.parseIdentOrCall()
	default:
		p.errorf("unexpected token %s in expression", p.tok)
		pos := p.pos
		p.next()
		return ast.NewNode(ast.Integer, pos)
	}
}

func (p *Parser) parseArrayLiteral() *ast.Node {
	pos := p.pos
	p.expect(token.LBRACK)
	n := ast.NewNode(ast.Array, pos)
	for p.tok != token.RBRACK && p.tok != token.EOF {
		n.Add(p.parseExpr(0))
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACK)
	return n
}

func (p *Parser) parseIdentOrCall() *ast.Node {
	pos := p.pos
	name := p.val.Str
	p.expect(token.IDENT)

	if p.accept(token.LPAREN) {
		n := ast.NewNode(ast.Call, pos)
		n.Name = name
		for p.tok != token.RPAREN && p.tok != token.EOF {
			n.Add(p.parseExpr(0))
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		return n
	}

	n := ast.NewNode(ast.Ident, pos)
	n.Name = name
	if p.accept(token.LBRACK) {
		idx := p.parseExpr(0)
		p.expect(token.RBRACK)
		elem := ast.NewNode(ast.ArrayElement, pos)
		elem.Add(idx)
		n.Add(elem)
	}
	return n
}

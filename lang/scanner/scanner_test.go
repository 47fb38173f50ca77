package scanner_test

import (
	"testing"

	"github.com/cseidman/coyotelang/lang/scanner"
	"github.com/cseidman/coyotelang/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	var s scanner.Scanner
	s.Init([]byte(src))
	var toks []token.Token
	for {
		tok, _, _ := s.Scan()
		toks = append(toks, tok)
		if tok == token.EOF {
			break
		}
	}
	require.NoError(t, s.Errors().Err())
	return toks
}

func TestScanBasics(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want []token.Token
	}{
		{"print expr", `print 1 + 2 * 3`, []token.Token{token.PRINT, token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.EOF}},
		{"let stmt", `let x = 10`, []token.Token{token.LET, token.IDENT, token.ASSIGN, token.INT, token.EOF}},
		{"comparisons", `a <= b >= c == d != e`, []token.Token{token.IDENT, token.LE, token.IDENT, token.GE, token.IDENT, token.EQ, token.IDENT, token.NEQ, token.IDENT, token.EOF}},
		{"comment skipped", "let x = 1 # a comment\nprint x", []token.Token{token.LET, token.IDENT, token.ASSIGN, token.INT, token.PRINT, token.IDENT, token.EOF}},
		{"array literal", `[1, 2, 3]`, []token.Token{token.LBRACK, token.INT, token.COMMA, token.INT, token.COMMA, token.INT, token.RBRACK, token.EOF}},
		{"for range", `for i in 0 to 3 { print i } endfor`, []token.Token{token.FOR, token.IDENT, token.IN, token.INT, token.TO, token.INT, token.LBRACE, token.PRINT, token.IDENT, token.RBRACE, token.ENDFOR, token.EOF}},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			require.Equal(t, c.want, scanAll(t, c.src))
		})
	}
}

func TestScanFloat(t *testing.T) {
	var s scanner.Scanner
	s.Init([]byte(`3.14`))
	tok, _, val := s.Scan()
	require.Equal(t, token.FLOAT, tok)
	require.InDelta(t, 3.14, val.Float, 1e-9)
}

func TestScanString(t *testing.T) {
	var s scanner.Scanner
	s.Init([]byte(`"yes\n"`))
	tok, _, val := s.Scan()
	require.Equal(t, token.STRING, tok)
	require.Equal(t, "yes\n", val.Str)
}

func TestScanIllegal(t *testing.T) {
	var s scanner.Scanner
	s.Init([]byte(`@`))
	tok, _, _ := s.Scan()
	require.Equal(t, token.ILLEGAL, tok)
	require.Error(t, s.Errors().Err())
}

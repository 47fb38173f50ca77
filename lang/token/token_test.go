package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenString(t *testing.T) {
	assert.Equal(t, "+", PLUS.String())
	assert.Equal(t, "endwhile", ENDWHILE.String())
	assert.Contains(t, Token(120).String(), "token(120)")
}

func TestKeywords(t *testing.T) {
	tok, ok := Keywords["while"]
	assert.True(t, ok)
	assert.Equal(t, WHILE, tok)

	_, ok = Keywords["notakeyword"]
	assert.False(t, ok)
}

func TestPrecedence(t *testing.T) {
	assert.Less(t, OR.Precedence(), AND.Precedence())
	assert.Less(t, AND.Precedence(), EQ.Precedence())
	assert.Less(t, EQ.Precedence(), PLUS.Precedence())
	assert.Less(t, PLUS.Precedence(), STAR.Precedence())
	assert.Equal(t, 0, IDENT.Precedence())
}

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{3, 4},
		{120, 7},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		l, col := p.LineCol()
		assert.Equal(t, c.line, l)
		assert.Equal(t, c.col, col)
		assert.False(t, p.Unknown())
	}
}

func TestPosUnknown(t *testing.T) {
	assert.True(t, Pos(0).Unknown())
	assert.True(t, MakePos(0, 1).Unknown())
	assert.True(t, MakePos(1, 0).Unknown())
	assert.False(t, MakePos(1, 1).Unknown())
}

func TestPosString(t *testing.T) {
	assert.Equal(t, "3:4", MakePos(3, 4).String())
}

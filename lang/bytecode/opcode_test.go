package bytecode_test

import (
	"testing"

	"github.com/cseidman/coyotelang/lang/bytecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpSize(t *testing.T) {
	cases := []struct {
		op   bytecode.Op
		want int
	}{
		{bytecode.Push, 10},
		{bytecode.SPush, 5},
		{bytecode.BPush, 2},
		{bytecode.Load, 3},
		{bytecode.Store, 3},
		{bytecode.AStore, 3},
		{bytecode.Index, 3},
		{bytecode.NewArray, 3},
		{bytecode.Call, 3},
		{bytecode.Jmp, 5},
		{bytecode.JmpFalse, 5},
		{bytecode.Add, 1},
		{bytecode.Print, 1},
		{bytecode.Halt, 1},
		{bytecode.Return, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.op.Size(), c.op.String())
	}
}

func TestLookupRoundTrip(t *testing.T) {
	op, ok := bytecode.Lookup("jmpfalse")
	require.True(t, ok)
	assert.Equal(t, bytecode.JmpFalse, op)
	assert.Equal(t, "jmpfalse", op.String())

	_, ok = bytecode.Lookup("nope")
	assert.False(t, ok)
}

func TestLookupTag(t *testing.T) {
	tag, ok := bytecode.LookupTag("const_text")
	require.True(t, ok)
	assert.Equal(t, bytecode.TagConstText, tag)
}

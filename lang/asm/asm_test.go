package asm_test

import (
	"testing"

	"github.com/cseidman/coyotelang/lang/asm"
	"github.com/cseidman/coyotelang/lang/bytecode"
	"github.com/cseidman/coyotelang/lang/gen"
	"github.com/cseidman/coyotelang/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAssemble(t *testing.T, src string) *bytecode.Image {
	t.Helper()
	root, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	text, err := gen.Generate(root)
	require.NoError(t, err)
	img, err := asm.Assemble(text)
	require.NoError(t, err)
	return img
}

func TestAssembleSimpleArithmetic(t *testing.T) {
	img := mustAssemble(t, "print 1 + 2 * 3")
	require.Len(t, img.Subs, 1)
	main := img.Subs[0]
	assert.Equal(t, byte(bytecode.Push), main.Code[0])
	assert.True(t, len(main.Code) > 0)
	assert.Equal(t, byte(bytecode.Halt), main.Code[len(main.Code)-1])
}

func TestAssembleStringPool(t *testing.T) {
	img := mustAssemble(t, `print "hello"`)
	require.Len(t, img.Pool, 1)
	assert.Equal(t, "hello", img.Pool[0])
}

func TestAssembleFunctionCall(t *testing.T) {
	img := mustAssemble(t, `func add(a, b) {
  return a + b
}
print add(1, 2)`)
	require.Len(t, img.Subs, 2)
	assert.Equal(t, uint8(2), img.Subs[1].Arity)
}

func TestAssembleRejectsMalformedInput(t *testing.T) {
	_, err := asm.Parse(".strings 0\n.subs 0\n.start\ncall 0\n")
	require.Error(t, err)
}

package gen_test

import (
	"strings"
	"testing"

	"github.com/cseidman/coyotelang/lang/gen"
	"github.com/cseidman/coyotelang/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGen(t *testing.T, src string) string {
	t.Helper()
	root, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	out, err := gen.Generate(root)
	require.NoError(t, err)
	return out
}

func TestGeneratePrintArithmetic(t *testing.T) {
	out := mustGen(t, "print 1 + 2 * 3")
	assert.Contains(t, out, "push integer 1")
	assert.Contains(t, out, "push integer 2")
	assert.Contains(t, out, "push integer 3")
	assert.Contains(t, out, "mul")
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "print")
	assert.Contains(t, out, "halt")
}

func TestGenerateLetAndStore(t *testing.T) {
	out := mustGen(t, "let x = 5\nprint x")
	assert.Contains(t, out, "store 0")
	assert.Contains(t, out, "load 0")
}

func TestGenerateIfElse(t *testing.T) {
	out := mustGen(t, `if 1 > 0 { print 1 } else { print 0 } endif`)
	assert.Contains(t, out, "jmpfalse")
	assert.Contains(t, out, "jmp")
	assert.Contains(t, out, "gt")
}

func TestGenerateWhileLoop(t *testing.T) {
	out := mustGen(t, `let i = 0
while i < 3 {
  print i
  i = i + 1
} endwhile`)
	assert.Contains(t, out, "lt")
	assert.Contains(t, out, "jmpfalse")
	assert.Contains(t, out, "jmp")
}

func TestGenerateForRange(t *testing.T) {
	out := mustGen(t, `for i in 0 to 3 { print i } endfor`)
	assert.Contains(t, out, "lt")
	assert.Contains(t, out, "jmpfalse")
	assert.Contains(t, out, "push integer 1")
}

func TestGenerateFunctionCall(t *testing.T) {
	out := mustGen(t, `func add(a, b) {
  return a + b
}
print add(1, 2)`)
	assert.Contains(t, out, ".sub add:1")
	assert.Contains(t, out, "call 1")
	assert.Contains(t, out, "return")
}

func TestGenerateArrayLiteralAndIndex(t *testing.T) {
	out := mustGen(t, `let a = [1, 2, 3]
print a[1]`)
	assert.Contains(t, out, "newarray 3")
	assert.Contains(t, out, "index")
}

func TestGenerateArrayIndexAssignment(t *testing.T) {
	out := mustGen(t, `let a = [1, 2, 3]
a[0] = 9`)
	assert.Contains(t, out, "astore")
}

func TestGenerateFunctionReadsGlobal(t *testing.T) {
	out := mustGen(t, `let base = 10
func readBase() {
  return base
}
print readBase()`)
	assert.Contains(t, out, "load 32768")
}

func TestGenerateBreakOutsideLoopFails(t *testing.T) {
	root, err := parser.Parse([]byte("break"))
	require.NoError(t, err)
	_, err = gen.Generate(root)
	require.Error(t, err)
}

func TestGenerateBreakContinueInsideWhile(t *testing.T) {
	out := mustGen(t, `let i = 0
while i < 10 {
  i = i + 1
  if i == 5 {
    break
  } endif
  continue
} endwhile`)
	lines := strings.Split(out, "\n")
	require.NotEmpty(t, lines)
}

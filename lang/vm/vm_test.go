package vm_test

import (
	"bytes"
	"testing"

	"github.com/cseidman/coyotelang/lang/asm"
	"github.com/cseidman/coyotelang/lang/gen"
	"github.com/cseidman/coyotelang/lang/parser"
	"github.com/cseidman/coyotelang/lang/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) string {
	t.Helper()
	root, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	text, err := gen.Generate(root)
	require.NoError(t, err)
	img, err := asm.Assemble(text)
	require.NoError(t, err)

	var out bytes.Buffer
	m := vm.New(img, &out)
	require.NoError(t, m.Run())
	return out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	assert.Equal(t, "7\n", run(t, "print 1 + 2 * 3"))
}

func TestForLoopPrintsRange(t *testing.T) {
	assert.Equal(t, "0\n1\n2\n", run(t, "for i in 0 to 3 { print i } endfor"))
}

func TestWhileLoopSumsToTen(t *testing.T) {
	out := run(t, `let i = 1
let sum = 0
while i <= 10 {
  sum = sum + i
  i = i + 1
} endwhile
print sum`)
	assert.Equal(t, "55\n", out)
}

func TestIfElseBranches(t *testing.T) {
	assert.Equal(t, "yes\n", run(t, `if 1 == 1 { print "yes" } else { print "no" } endif`))
	assert.Equal(t, "no\n", run(t, `if 1 == 2 { print "yes" } else { print "no" } endif`))
}

func TestArrayLiteralAndIndex(t *testing.T) {
	assert.Equal(t, "20\n", run(t, `let a = [10, 20, 30]
print a[1]`))
}

func TestArrayIndexAssignment(t *testing.T) {
	assert.Equal(t, "[1, 99, 3]\n", run(t, `let a = [1, 2, 3]
a[1] = 99
print a`))
}

func TestFunctionCallAndReturn(t *testing.T) {
	assert.Equal(t, "3\n", run(t, `func add(a, b) {
  return a + b
}
print add(1, 2)`))
}

func TestFunctionReadsGlobalDeclaredInMain(t *testing.T) {
	assert.Equal(t, "10\n", run(t, `let base = 10
func readBase() {
  return base
}
print readBase()`))
}

func TestFunctionReadsGlobalAlongsideItsOwnLocals(t *testing.T) {
	out := run(t, `let total = 100
func addLocal(n) {
  let doubled = n + n
  return total + doubled
}
print addLocal(3)`)
	assert.Equal(t, "106\n", out)
}

func TestBreakExitsLoop(t *testing.T) {
	out := run(t, `for i in 0 to 10 {
  if i == 3 {
    break
  } endif
  print i
} endfor`)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestContinueSkipsIteration(t *testing.T) {
	out := run(t, `for i in 0 to 5 {
  if i == 2 {
    continue
  } endif
  print i
} endfor`)
	assert.Equal(t, "0\n1\n3\n4\n", out)
}

func TestMixedIntegerFloatEquality(t *testing.T) {
	// Equality is per-variant: Integer and Float never compare equal,
	// even when numerically identical.
	assert.Equal(t, "false\n", run(t, "print 2 == 2.0"))
	assert.Equal(t, "false\n", run(t, "print 2 == 2.5"))
	assert.Equal(t, "true\n", run(t, "print 2 == 2"))
}

func TestDivisionByZeroFaults(t *testing.T) {
	root, err := parser.Parse([]byte("print 1 / 0"))
	require.NoError(t, err)
	text, err := gen.Generate(root)
	require.NoError(t, err)
	img, err := asm.Assemble(text)
	require.NoError(t, err)

	var out bytes.Buffer
	m := vm.New(img, &out)
	err = m.Run()
	require.Error(t, err)
}

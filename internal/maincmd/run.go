package maincmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cseidman/coyotelang/lang/asm"
	"github.com/cseidman/coyotelang/lang/gen"
	"github.com/cseidman/coyotelang/lang/parser"
	"github.com/cseidman/coyotelang/lang/vm"
	"github.com/mna/mainer"
)

// compileAndRun runs the full four-stage pipeline (parse, generate,
// assemble, execute) over src, writing print output to stdout.
func compileAndRun(src string, stdout io.Writer) error {
	root, err := parser.Parse([]byte(src))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	asmText, err := gen.Generate(root)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	img, err := asm.Assemble(asmText)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	m := vm.New(img, stdout)
	if err := m.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// RunFile compiles and runs the named source file to completion.
func RunFile(_ context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return compileAndRun(string(src), stdio.Stdout)
}

// RunREPL reads source a line (or a brace-balanced group of lines) at a
// time from stdio.Stdin and runs it. Declared globals and functions are
// retained across lines: each accepted line is appended to a growing
// program buffer, and the whole buffer is recompiled and rerun on every
// line, with only the newly produced output surfaced. A line that fails
// to parse, generate, assemble or run is reported and discarded, leaving
// the REPL's accumulated program unchanged.
func RunREPL(ctx context.Context, stdio mainer.Stdio) error {
	sc := bufio.NewScanner(stdio.Stdin)
	var program strings.Builder
	var prevOutput []byte

	prompt := func() {
		fmt.Fprint(stdio.Stdout, "coyote> ")
	}

	prompt()
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := sc.Text()
		switch strings.TrimSpace(line) {
		case "exit", "quit", "q":
			return nil
		}

		chunk, err := readBalanced(sc, line, stdio.Stdout)
		if err != nil {
			return nil // EOF mid-statement: treat as session end
		}

		candidate := program.String() + chunk + "\n"
		var out bytes.Buffer
		if err := compileAndRun(candidate, &out); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
			prompt()
			continue
		}

		if bytes.HasPrefix(out.Bytes(), prevOutput) {
			stdio.Stdout.Write(out.Bytes()[len(prevOutput):])
		} else {
			stdio.Stdout.Write(out.Bytes())
		}
		prevOutput = out.Bytes()
		program.WriteString(chunk)
		program.WriteByte('\n')

		prompt()
	}
	return sc.Err()
}

// readBalanced returns first plus any continuation lines needed to close
// every brace opened in first, prompting "..." for each continuation.
func readBalanced(sc *bufio.Scanner, first string, stdout io.Writer) (string, error) {
	depth := braceDelta(first)
	lines := []string{first}
	for depth > 0 {
		fmt.Fprint(stdout, "...     ")
		if !sc.Scan() {
			return "", fmt.Errorf("unexpected end of input")
		}
		next := sc.Text()
		depth += braceDelta(next)
		lines = append(lines, next)
	}
	return strings.Join(lines, "\n"), nil
}

func braceDelta(s string) int {
	delta := 0
	for _, r := range s {
		switch r {
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}

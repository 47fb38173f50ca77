// Package maincmd implements the command-line surface: run a source file
// to completion, or fall into an interactive REPL when no file is given.
package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "coyote"

var longUsage = fmt.Sprintf(`usage: %s [<option>...] [--file <path>]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and virtual machine for the %[1]s scripting language.

With --file, compiles and runs the named source file to completion. With
no --file, starts an interactive REPL that reads, compiles and runs one
line at a time, retaining declared globals and functions across lines.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version               Print version and exit.
       --file <path>              Run the named source file.
       --bytecode                 Reserved: dump the assembled bytecode
                                 instead of running it. Not yet implemented.
       --debug                    Reserved: enable step tracing. Not yet
                                 implemented.
`, binName)

// Cmd is the root command, bound from the process argv by mainer.Parser.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	File     string `flag:"file"`
	Bytecode bool   `flag:"bytecode"`
	Debug    bool   `flag:"debug"`
}

func (c *Cmd) SetArgs([]string)            {}
func (c *Cmd) SetFlags(map[string]bool)    {}

// Validate is a no-op: every flag combination this command accepts is
// valid, there are no required positional arguments.
func (c *Cmd) Validate() error { return nil }

// Main parses argv, then either runs --file or starts the REPL.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n", err)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	var err error
	if c.File != "" {
		err = RunFile(ctx, stdio, c.File)
	} else {
		err = RunREPL(ctx, stdio)
	}
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	return mainer.Success
}

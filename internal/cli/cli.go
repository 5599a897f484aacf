// Package cli implements the ptcil command-line front end: three
// subcommands (compile, tokens, repl) built on google/subcommands, matching
// the dispatch shape the rest of the retrieved corpus uses for multi-command
// CLIs, rather than the teacher's own single-purpose flag-and-file program.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/opela-lang/ptcil/internal/compiler"
	"github.com/opela-lang/ptcil/internal/lexer"
)

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// CompileCmd implements `ptcil compile`.
type CompileCmd struct {
	Debug  bool
	Stdout bool
}

func (*CompileCmd) Name() string     { return "compile" }
func (*CompileCmd) Synopsis() string { return "compile a source file to CIL" }
func (*CompileCmd) Usage() string {
	return "compile [--debug] [--stdout] <file>\n"
}

func (c *CompileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.Debug, "debug", false, "log each compiler phase as it runs")
	f.BoolVar(&c.Stdout, "stdout", false, "print the generated CIL instead of writing a .il file")
}

func (c *CompileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	res, err := compiler.Compile(string(src), compiler.WithLogger(newLogger(c.Debug)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.Stdout {
		fmt.Print(res.CIL)
		return subcommands.ExitSuccess
	}
	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".il"
	if err := os.WriteFile(outPath, []byte(res.CIL), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("wrote", outPath)
	return subcommands.ExitSuccess
}

// TokensCmd implements `ptcil tokens`, a debugging aid that dumps the raw
// token stream for a source file.
type TokensCmd struct{}

func (*TokensCmd) Name() string     { return "tokens" }
func (*TokensCmd) Synopsis() string { return "print the token stream for a source file" }
func (*TokensCmd) Usage() string    { return "tokens <file>\n" }
func (*TokensCmd) SetFlags(*flag.FlagSet) {}

func (*TokensCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, "tokens <file>\n")
		return subcommands.ExitUsageError
	}
	src, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	toks, err := lexer.Tokenize(string(src))
	for _, tok := range toks {
		fmt.Println(tok.String())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// ReplCmd implements `ptcil repl`: a readline-driven loop that accumulates
// lines until a blank one, then compiles the buffered text as one program.
type ReplCmd struct {
	Debug bool
}

func (*ReplCmd) Name() string     { return "repl" }
func (*ReplCmd) Synopsis() string { return "read-compile-print loop" }
func (*ReplCmd) Usage() string    { return "repl [--debug]\n" }

func (c *ReplCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.Debug, "debug", false, "log each compiler phase as it runs")
}

func (c *ReplCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New("ptcil> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	log := newLogger(c.Debug)
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return subcommands.ExitSuccess
		}
		if strings.TrimSpace(line) == "" {
			src := buf.String()
			buf.Reset()
			if strings.TrimSpace(src) == "" {
				continue
			}
			res, err := compiler.Compile(src, compiler.WithLogger(log))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Print(res.CIL)
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}


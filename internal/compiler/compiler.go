// Package compiler wires the tokenizer, parser, semantic checker, and code
// generator into the single-pass pipeline the command-line front ends
// drive: lex, parse, check, emit, stopping at the first error any phase
// reports.
package compiler

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opela-lang/ptcil/internal/alloc"
	"github.com/opela-lang/ptcil/internal/ast"
	"github.com/opela-lang/ptcil/internal/checker"
	"github.com/opela-lang/ptcil/internal/codegen"
	"github.com/opela-lang/ptcil/internal/lexer"
	"github.com/opela-lang/ptcil/internal/parser"
	"github.com/opela-lang/ptcil/internal/token"
)

// Result is the output of a successful compilation.
type Result struct {
	CIL     string
	Tokens  []token.Token
	Program *ast.Main
}

type config struct {
	log logrus.FieldLogger
}

// Option configures a Compile call.
type Option func(*config)

// WithLogger overrides the logger Compile uses for its phase-boundary debug
// trace. The default is logrus's standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) { c.log = log }
}

// Compile runs the full pipeline over source. The returned error, if any,
// is already rendered in the single message format every front end prints
// verbatim — see Render.
func Compile(source string, opts ...Option) (*Result, error) {
	cfg := &config{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(cfg)
	}

	cfg.log.Debug("lexing")
	toks, err := tokenize(source)
	if err != nil {
		cfg.log.WithError(err).Debug("lex failed")
		return nil, Render(err)
	}
	cfg.log.WithField("tokens", len(toks)).Debug("lexed")

	cfg.log.Debug("parsing")
	prog, err := parser.Parse(toks)
	if err != nil {
		cfg.log.WithError(err).Debug("parse failed")
		return nil, Render(err)
	}
	cfg.log.Debug("parsed")

	cfg.log.Debug("checking")
	if err := checker.Check(prog); err != nil {
		cfg.log.WithError(err).Debug("check failed")
		return nil, Render(err)
	}
	cfg.log.Debug("checked")

	cfg.log.Debug("generating")
	cil := codegen.Generate(prog)
	cfg.log.Debug("generated")

	return &Result{CIL: cil, Tokens: toks, Program: prog}, nil
}

// tokenize drives the lexer one token at a time into an arena-backed
// buffer, rather than relying on lexer.Tokenize's own internal slice. Each
// call creates its own arena and returns a flattened copy of its tokens; no
// arena is kept between calls.
func tokenize(source string) ([]token.Token, error) {
	lx := lexer.New(source)
	buf := alloc.NewArena[token.Token](64)
	for {
		tok, err := lx.Next()
		if err != nil {
			return buf.Items(), err
		}
		buf.Append(tok)
		if tok.Kind == token.EOF {
			return buf.Items(), nil
		}
	}
}

// Render formats any phase error from this pipeline into the message text a
// front end prints to the user: each phase's Error type already describes
// the specific violation, so Render's only job is to prefix it with which
// phase caught it.
func Render(err error) error {
	switch err.(type) {
	case *lexer.Error:
		return fmt.Errorf("erro léxico: %w", err)
	case *parser.Error:
		return fmt.Errorf("erro sintático: %w", err)
	case *checker.Error:
		return fmt.Errorf("erro semântico: %w", err)
	default:
		return err
	}
}

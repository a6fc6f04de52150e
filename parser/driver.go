// Package parser implements the one-shot parse() entry point (spec.md
// §4.7): it wires the Arena, LexerAdapter, TokenBuffer, Cursor, and a
// caller-supplied start rule together, runs the start rule, and
// produces an AST or a diagnostic.
//
// The start rule itself is a grammar-generated rule procedure — out of
// scope for this runtime (spec.md §1) — so Driver takes it as a
// dependency, exactly as the real pegen.c's run_parser takes a
// `parse_func` pointer rather than hard-coding any one grammar.
//
// Grounded on the teacher's cmd/dwscript/cmd/parse.go (file/stdin input
// handling) and original_source/pegen/pegen.c's run_parser/
// run_parser_from_file/run_parser_from_string (construct tokenizer +
// arena + parser, run the start rule, teardown unconditionally,
// synthesize a diagnostic from the last non-whitespace token on
// failure).
package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/augustgrove/pegparse/ast"
	"github.com/augustgrove/pegparse/internal/cursor"
	pegerrors "github.com/augustgrove/pegparse/internal/errors"
	"github.com/augustgrove/pegparse/internal/lexer"
	itoken "github.com/augustgrove/pegparse/internal/token"
	"github.com/augustgrove/pegparse/pkg/token"
)

// StartRule is a grammar-generated entry-point procedure: given a
// Cursor positioned at mark 0 (already primed with one token) and the
// arena set to allocate into, it returns the parsed Module, or
// (nil, nil) on an ordinary parse failure (the driver then synthesizes
// the generic diagnostic), or (nil, err) when the rule itself wants to
// report a specific error directly.
type StartRule func(c *cursor.Cursor, arenas *ast.Arenas) (*ast.Module, error)

// Mode selects what ParseFile/ParseString do with a successful parse
// (spec.md §6).
type Mode int

const (
	// ModeValidate discards the AST and returns (nil, nil) on success.
	ModeValidate Mode = iota
	// ModeAST returns the parsed AST.
	ModeAST
	// ModeCompile passes the AST through an injected Compiler.
	ModeCompile
)

// Compiler is the external "compile to bytecode" collaborator
// ModeCompile delegates to; genuinely out of scope for this runtime
// (spec.md §1), so it is left as an injectable interface.
type Compiler interface {
	Compile(*ast.Module) (any, error)
}

// ErrNoCompiler is returned when ModeCompile is requested without a
// Compiler configured on the Driver.
var ErrNoCompiler = errors.New("parser: mode=compile requested without a Compiler configured")

// Driver owns the one optional cross-cutting dependency (the bytecode
// Compiler); everything else is constructed fresh per parse call, since
// spec.md §5 requires each parse invocation to own its Arena/Cursor/
// TokenBuffer/MemoTable exclusively.
type Driver struct {
	compiler Compiler
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithCompiler injects the ModeCompile collaborator.
func WithCompiler(c Compiler) Option {
	return func(d *Driver) { d.compiler = c }
}

// New constructs a Driver.
func New(opts ...Option) *Driver {
	d := &Driver{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ParseFile reads path and parses it as start's grammar.
func (d *Driver) ParseFile(path string, start StartRule, mode Mode) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.parse(string(data), path, start, mode)
}

// ParseString parses source (reporting filename in any diagnostic) as
// start's grammar.
func (d *Driver) ParseString(source, filename string, start StartRule, mode Mode) (*ast.Module, error) {
	return d.parse(source, filename, start, mode)
}

func (d *Driver) parse(source, filename string, start StartRule, mode Mode) (*ast.Module, error) {
	adapter := lexer.NewAdapter(source, filename)
	buf := itoken.NewBuffer(adapter)
	c := cursor.New(buf)
	arenas := ast.NewArenas()

	// "Demand-fills one token to prime the buffer" (spec.md §4.7 step 3).
	buf.Push()
	if err := buf.Err(); err != nil {
		return nil, err
	}

	module, err := start(c, arenas)
	if err != nil {
		return nil, err
	}
	if module == nil {
		if c.LastError != nil {
			return nil, c.LastError
		}
		return nil, synthesizeParseFailure(buf, source, filename)
	}

	switch mode {
	case ModeValidate:
		return nil, nil
	case ModeAST:
		return module, nil
	case ModeCompile:
		if d.compiler == nil {
			return nil, ErrNoCompiler
		}
		if _, err := d.compiler.Compile(module); err != nil {
			return nil, err
		}
		return module, nil
	default:
		return module, nil
	}
}

// synthesizeParseFailure builds the generic ParseFailure diagnostic
// (spec.md §7): positioned at the last *meaningful* realized token —
// skipping trailing NEWLINE/INDENT/DEDENT/ENDMARKER exactly as
// original_source/pegen/pegen.c's get_last_nonnwhitespace_token does —
// or at line 1 col 1 if no token qualifies (spec.md §8: "Parsing an
// empty source yields ParseFailure at line 1, col 1").
func synthesizeParseFailure(buf *itoken.Buffer, source, filename string) error {
	if tok, ok := lastNonWhitespaceToken(buf); ok {
		return pegerrors.NewParseFailureError(filename, source, tok.Pos,
			fmt.Sprintf("invalid syntax (at %s %q)", tok.Type, tok.Literal))
	}
	return pegerrors.NewParseFailureError(filename, source, token.Position{Line: 1, Column: 0}, "invalid syntax")
}

func lastNonWhitespaceToken(buf *itoken.Buffer) (token.Token, bool) {
	for i := buf.Fill() - 1; i >= 0; i-- {
		tok := buf.At(i)
		switch tok.Type {
		case token.NEWLINE, token.INDENT, token.DEDENT, token.ENDMARKER:
			continue
		default:
			return tok, true
		}
	}
	return token.Token{}, false
}

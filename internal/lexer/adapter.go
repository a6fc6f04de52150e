package lexer

import (
	"github.com/augustgrove/pegparse/internal/errors"
	"github.com/augustgrove/pegparse/pkg/token"
)

// Adapter wraps a Lexer behind the pull interface the cursor consumes:
// one token per call, with lexing errors surfaced once and terminally
// (spec.md §4.3 — once the tokenizer reports ERRORTOKEN, no further lex
// calls are made; the driver reports and stops).
//
// This mirrors the teacher's LexerState boundary between raw scanning and
// the parser-facing cursor: the cursor never inspects source text or
// indentation state directly, it only ever calls Next.
type Adapter struct {
	lex      *Lexer
	source   string
	filename string
	fatal    *errors.LexerFatalError
}

// NewAdapter constructs an Adapter over source, reporting filename in any
// fatal diagnostic it raises.
func NewAdapter(source, filename string) *Adapter {
	return &Adapter{
		lex:      New(source, WithFilename(filename)),
		source:   source,
		filename: filename,
	}
}

// Next returns the next token. Once a fatal lexer error has been raised,
// every subsequent call returns the same error without scanning further
// (spec.md invariant: "first error wins, later nil returns never overwrite
// it").
func (a *Adapter) Next() (token.Token, error) {
	if a.fatal != nil {
		return token.Token{Type: token.ENDMARKER}, a.fatal
	}

	tok := a.lex.NextToken()
	if tok.Type == token.ERROR {
		a.fatal = errors.NewLexerFatalError(a.filename, a.source, tok.Pos.Line)
		return tok, a.fatal
	}
	return tok, nil
}

// Err returns the fatal error raised during scanning, if any.
func (a *Adapter) Err() error {
	if a.fatal == nil {
		return nil
	}
	return a.fatal
}

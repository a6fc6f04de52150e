// Package recognize implements the primitive matchers (spec.md §4.5)
// that every grammar-generated rule procedure composes: expect,
// keyword, lookahead, and the typed/shorthand token builders. Every
// recognizer here is pure with respect to the arena (it may allocate)
// and strictly deterministic: given the same TokenBuffer prefix and
// mark, it returns the identical result and leaves the cursor at the
// identical post-mark.
//
// Grounded on original_source/pegen/pegen.c's expect_token,
// keyword_token, lookahead/lookahead_with_string/lookahead_with_int,
// name_token/number_token/string_token, and the async_token/
// await_token/endmarker_token/newline_token/indent_token/dedent_token
// family — a near one-to-one port into Go (token, ok) returns, using
// the teacher's cursor.Mark()/ResetTo(mark) rewind idiom in place of a
// raw integer save/restore pair.
package recognize

import (
	"github.com/augustgrove/pegparse/internal/cursor"
	"github.com/augustgrove/pegparse/pkg/token"
)

// Expect ensures the buffer has a token at the cursor's mark
// (demand-filling as needed); if its kind equals kind, it advances and
// returns that token with ok=true. On mismatch the mark is left
// unchanged and ok is false (spec.md §4.5).
func Expect(c *cursor.Cursor, kind token.Type) (token.Token, bool) {
	tok := c.Current()
	if tok.Type != kind {
		return token.Token{}, false
	}
	c.Advance()
	return tok, true
}

// Keyword behaves like Expect(NAME) plus a byte-equality check of the
// lexeme against text; on any mismatch it rewinds to the entry mark
// and returns ok=false, matching keyword_token's full-rewind-on-miss
// behavior (a plain Expect already leaves mark untouched on a kind
// mismatch, but Keyword also has to undo the case where the NAME
// matched and only the text check failed).
func Keyword(c *cursor.Cursor, text string) (token.Token, bool) {
	mark0 := c.Mark()
	tok, ok := Expect(c, token.NAME)
	if !ok {
		return token.Token{}, false
	}
	if tok.Literal != text {
		c.Restore(mark0)
		return token.Token{}, false
	}
	return tok, true
}

// Lookahead saves the mark, invokes fn, restores the mark unconditionally,
// and reports whether fn's success matched the requested polarity. It
// never consumes input, regardless of what fn itself did (spec.md §4.5).
func Lookahead[T any](c *cursor.Cursor, positive bool, fn func() (T, bool)) bool {
	mark0 := c.Save()
	_, ok := fn()
	c.Restore(mark0)
	return ok == positive
}

// Name matches a NAME token. Leaf materialization into an ast.Name
// happens one layer up in astbuild, per spec.md §4.6 — Name here only
// recognizes and returns the raw token.
func Name(c *cursor.Cursor) (token.Token, bool) {
	return Expect(c, token.NAME)
}

// Number matches a NUMBER token.
func Number(c *cursor.Cursor) (token.Token, bool) {
	return Expect(c, token.NUMBER)
}

// String matches a STRING or FSTRING token — both are lexed as single
// tokens (spec.md §9: f-string bodies are not independently re-parsed).
func String(c *cursor.Cursor) (token.Token, bool) {
	if tok, ok := Expect(c, token.STRING); ok {
		return tok, true
	}
	return Expect(c, token.FSTRING)
}

// Async matches the `async` keyword-specialized token kind.
func Async(c *cursor.Cursor) (token.Token, bool) { return Expect(c, token.ASYNC) }

// Await matches the `await` keyword-specialized token kind.
func Await(c *cursor.Cursor) (token.Token, bool) { return Expect(c, token.AWAIT) }

// Endmarker matches ENDMARKER. Per spec.md invariant 6, a second
// attempt after the first successful consumption fails without any
// further lexer calls; this is cursor-level state (Cursor.ConsumeEndmarker),
// since a plain kind check against Expect would keep matching the same
// cached ENDMARKER token forever.
func Endmarker(c *cursor.Cursor) (token.Token, bool) { return c.ConsumeEndmarker() }

// Newline matches a logical-line NEWLINE token.
func Newline(c *cursor.Cursor) (token.Token, bool) { return Expect(c, token.NEWLINE) }

// Indent matches an INDENT token.
func Indent(c *cursor.Cursor) (token.Token, bool) { return Expect(c, token.INDENT) }

// Dedent matches a DEDENT token.
func Dedent(c *cursor.Cursor) (token.Token, bool) { return Expect(c, token.DEDENT) }

// Package token implements the TokenBuffer (spec.md §4.2): an
// append-only, geometrically-growing, indexable store of realized
// tokens that the cursor demand-fills from a lexer on the fly.
package token

import (
	"fmt"

	"github.com/augustgrove/pegparse/pkg/token"
)

// Source pulls one token at a time, returning a non-nil error exactly
// once a fatal lexer failure has occurred (lexer.Adapter satisfies
// this).
type Source interface {
	Next() (token.Token, error)
}

// Buffer is the ordered, append-only, indexable container of realized
// Tokens. Index 0 is the first token; Fill() is the count of tokens
// realized so far; the backing capacity grows geometrically, never
// shrinking, so indices already handed out stay valid for the life of
// the Buffer.
//
// Growth policy is grounded on the teacher's TokenCursor.Peek buffering
// (internal/parser/cursor.go): grow to max(target+16, cap*3/2) whenever
// the target index would overflow capacity, rather than the spec's
// literal "double from 1" — the teacher's formula avoids the early
// string of reallocations a strict doubling-from-1 policy causes for
// the common case of small lookahead distances.
type Buffer struct {
	tokens []token.Token
	source Source
	err    error // first fatal lexer error; sticky once set
}

// NewBuffer creates an empty Buffer pulling from source on demand.
func NewBuffer(source Source) *Buffer {
	return &Buffer{source: source}
}

// Fill reports how many tokens have been realized so far.
func (b *Buffer) Fill() int {
	return len(b.tokens)
}

// Err returns the fatal lexer error that stopped realization, if any.
func (b *Buffer) Err() error {
	return b.err
}

// At returns the token at index i, demand-filling as needed. Indices
// at or beyond the realized ENDMARKER return that ENDMARKER repeatedly
// (spec.md invariant 6), matching the lexer's own end-of-stream
// behavior one layer down.
func (b *Buffer) At(i int) token.Token {
	if i < 0 {
		panic(fmt.Sprintf("token.Buffer.At: negative index %d", i))
	}
	b.fillTo(i)
	if i < len(b.tokens) {
		return b.tokens[i]
	}
	return b.tokens[len(b.tokens)-1]
}

// Push realizes and appends exactly one more token, returning its
// index. Used by the cursor's demand-fill-one-token step at the memo
// boundary (spec.md §4.4: "If mark == fill, first demand-fill one
// token").
func (b *Buffer) Push() int {
	b.growFor(len(b.tokens) + 1)
	b.realizeOne()
	return len(b.tokens) - 1
}

// fillTo ensures index i is realized, demand-pulling from the source
// as many additional tokens as needed.
func (b *Buffer) fillTo(i int) {
	if i < len(b.tokens) {
		return
	}
	b.growFor(i + 1)
	for len(b.tokens) <= i {
		if b.atEnd() {
			return
		}
		b.realizeOne()
	}
}

// atEnd reports whether the buffer has already realized a terminal
// token (ENDMARKER) or hit a fatal lexer error — either way, no
// further Next() calls are made (spec.md invariant 6 / §4.3).
func (b *Buffer) atEnd() bool {
	if b.err != nil {
		return true
	}
	if n := len(b.tokens); n > 0 && b.tokens[n-1].Type == token.ENDMARKER {
		return true
	}
	return false
}

func (b *Buffer) realizeOne() {
	if b.atEnd() {
		return
	}
	tok, err := b.source.Next()
	b.tokens = append(b.tokens, tok)
	if err != nil && b.err == nil {
		b.err = err
	}
}

// growFor pre-grows the backing slice so that target is a valid index
// without triggering Go's own slice-growth reallocation mid-fill,
// mirroring the teacher's Peek growth policy verbatim.
func (b *Buffer) growFor(target int) {
	if target <= cap(b.tokens) {
		return
	}
	newCap := max(target+16, cap(b.tokens)*3/2)
	grown := make([]token.Token, len(b.tokens), newCap)
	copy(grown, b.tokens)
	b.tokens = grown
}

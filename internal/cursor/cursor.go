// Package cursor implements the packrat memoization protocol that is
// the core of this runtime (spec.md §4.4): position tracking with
// cheap save/restore, demand-filling the token buffer one token at a
// time, and the insert_memo/update_memo split that realizes Warth's
// seed-and-grow algorithm for left recursion.
package cursor

import (
	itoken "github.com/augustgrove/pegparse/internal/token"
	"github.com/augustgrove/pegparse/pkg/token"
)

// Mark is a scalar position in the token stream. Saving and restoring
// a Mark is O(1): it is nothing but an index into the TokenBuffer,
// matching the teacher's TokenCursor.index / ResetTo(mark) idiom
// generalized from an immutable-cursor value to a mutable position
// field, since every rule procedure in the generated parser mutates
// its own local cursor rather than threading return values through.
type Mark int

// memoEntry is one link in the memo chain anchored at a single buffer
// position. Chains are unordered: insert_memo always inserts at the
// head (original_source/pegen/pegen.c: insert_memo), and update_memo
// walks the chain looking for an existing entry for ruleID before
// falling back to an insert (pegen.c: update_memo).
type memoEntry struct {
	ruleID   int
	result   any // nil means a memoized parse failure (negative caching)
	postMark Mark
	next     *memoEntry
}

// Cursor is the position-and-memo engine that every generated rule
// procedure shares for one parse invocation. It is owned exclusively
// by that invocation (spec.md §4.4's concurrency note: "No locking is
// required; no two parse calls share state").
type Cursor struct {
	buf  *itoken.Buffer
	mark Mark

	// memoHeads is indexed in lockstep with buf: memoHeads[i] is the
	// head of the memo chain for buffer position i. This is the parallel
	// slice DESIGN.md resolves the spec's "memo chain head mutated in
	// place on each Token" onto, since Go tokens are plain copied values
	// in the buffer rather than boxed, mutable records.
	memoHeads []*memoEntry

	// LastError is the first error any recognizer or builder reports.
	// Later nil returns from other call sites must never clear it — this
	// is the Go rendition of the original's process-wide error flag
	// (spec.md §7 "Propagation policy"), narrowed to one struct field
	// instead of a global.
	LastError error

	// endmarkerConsumed tracks whether ENDMARKER has already been
	// matched once. spec.md invariant 6 requires a second consumption
	// attempt to fail without further lex calls; since the buffer keeps
	// handing back the same realized ENDMARKER token for any mark at or
	// past the fill boundary once it is reached, a plain kind check
	// alone would let ENDMARKER match forever. This flag is the
	// cursor-level state that makes the single-consumption rule hold.
	endmarkerConsumed bool
}

// New creates a Cursor at mark 0 over buf.
func New(buf *itoken.Buffer) *Cursor {
	return &Cursor{buf: buf}
}

// Mark returns the cursor's current position.
func (c *Cursor) Mark() Mark {
	return c.mark
}

// Save is an alias for Mark, named for the save()/restore() pairing
// spec.md §4.4 describes for lookaheads and alternative backtracking.
func (c *Cursor) Save() Mark {
	return c.mark
}

// Restore rewinds the cursor to a previously saved Mark. O(1): no
// token data is copied or discarded, only the position moves.
func (c *Cursor) Restore(m Mark) {
	c.mark = m
}

// ResetTo is an alias for Restore, matching the teacher's cursor.go
// naming for the same operation.
func (c *Cursor) ResetTo(m Mark) {
	c.mark = m
}

// Peek returns the token n positions ahead of the current mark,
// demand-filling the buffer as needed. Peek(0) is the current token.
func (c *Cursor) Peek(n int) token.Token {
	return c.buf.At(int(c.mark) + n)
}

// Current returns the token at the current mark.
func (c *Cursor) Current() token.Token {
	return c.Peek(0)
}

// Advance moves the cursor one token forward.
func (c *Cursor) Advance() {
	c.mark++
}

// SetError records err as LastError if no earlier error has already
// been recorded. Call sites that only want to flag an error without
// aborting their own local alternative (spec.md §7) use this instead
// of returning the error directly.
func (c *Cursor) SetError(err error) {
	if err != nil && c.LastError == nil {
		c.LastError = err
	}
}

// ConsumeEndmarker matches and advances past ENDMARKER exactly once
// for the lifetime of the cursor. Every later call fails with ok=false
// and makes no further progress, regardless of mark, implementing
// spec.md invariant 6 ("once the lexer yields an ENDMARKER ... subsequent
// position advances past it are disallowed") and the boundary behavior
// from spec.md §8 ("a second attempt fails without additional lexer
// calls").
func (c *Cursor) ConsumeEndmarker() (token.Token, bool) {
	if c.endmarkerConsumed {
		return token.Token{}, false
	}
	tok := c.Current()
	if tok.Type != token.ENDMARKER {
		return token.Token{}, false
	}
	c.endmarkerConsumed = true
	c.Advance()
	return tok, true
}

// ensureMemoSlice grows memoHeads so that index pos is addressable,
// reallocating it to exactly pos+1 entries when pos is out of range.
func (c *Cursor) ensureMemoSlice(pos int) {
	if pos < len(c.memoHeads) {
		return
	}
	grown := make([]*memoEntry, pos+1)
	copy(grown, c.memoHeads)
	c.memoHeads = grown
}

// IsMemoized implements is_memoized (pegen.c): if the cursor sits at
// the buffer's fill boundary, it demand-fills exactly one token first
// (this is the only place outside Buffer.At that pulls from the
// lexer one token at a time, per spec.md §4.4's "If mark == fill,
// first demand-fill one token"). It then walks the memo chain at the
// current mark for ruleID.
//
// On a hit, the cursor's mark is set to the memo entry's recorded
// post-mark and the cached result is returned with hit=true; the
// caller's rule body must not run. On a miss, hit is false and the
// mark is unchanged.
func (c *Cursor) IsMemoized(ruleID int) (result any, hit bool, err error) {
	if int(c.mark) == c.buf.Fill() {
		c.buf.Push()
		if e := c.buf.Err(); e != nil {
			c.SetError(e)
			return nil, false, e
		}
	}

	pos := int(c.mark)
	if pos < len(c.memoHeads) {
		for m := c.memoHeads[pos]; m != nil; m = m.next {
			if m.ruleID == ruleID {
				c.mark = m.postMark
				return m.result, true, nil
			}
		}
	}
	return nil, false, nil
}

// InsertMemo records a fresh memo entry for (mark0, ruleID), installed
// at the head of that position's chain, with post-mark taken from the
// cursor's current position (pegen.c: insert_memo). Ordinary
// non-left-recursive rules call this exactly once per (mark0, ruleID)
// pair, at exit.
func (c *Cursor) InsertMemo(mark0 Mark, ruleID int, result any) {
	pos := int(mark0)
	c.ensureMemoSlice(pos)
	c.memoHeads[pos] = &memoEntry{
		ruleID:   ruleID,
		result:   result,
		postMark: c.mark,
		next:     c.memoHeads[pos],
	}
}

// UpdateMemo rewrites an existing memo entry for (mark0, ruleID) in
// place if one exists, or inserts a new one otherwise (pegen.c:
// update_memo). This is the "grow" half of Warth's seed-and-grow
// left-recursion protocol: each successive iteration re-runs the rule
// body starting from the seed failure and calls UpdateMemo to push
// the post-mark forward, until an iteration fails to advance it and
// the fixed point from the previous iteration is the final result.
//
// By convention (spec.md §9 Open Questions) this is only ever called
// from left-recursive rule procedures' seed/grow loops; ordinary rules
// always use InsertMemo.
func (c *Cursor) UpdateMemo(mark0 Mark, ruleID int, result any) {
	pos := int(mark0)
	c.ensureMemoSlice(pos)
	for m := c.memoHeads[pos]; m != nil; m = m.next {
		if m.ruleID == ruleID {
			m.result = result
			m.postMark = c.mark
			return
		}
	}
	c.InsertMemo(mark0, ruleID, result)
}

package cursor

import (
	"errors"
	"testing"

	itoken "github.com/augustgrove/pegparse/internal/token"
	"github.com/augustgrove/pegparse/pkg/token"
)

const (
	ruleExpr = iota + 1
	ruleAtom
)

func TestIsMemoizedMissThenHit(t *testing.T) {
	c := newTestCursor(token.NAME, token.PLUS, token.NUMBER, token.ENDMARKER)

	mark0 := c.Save()
	if _, hit, err := c.IsMemoized(ruleExpr); hit || err != nil {
		t.Fatalf("first IsMemoized() = hit:%v err:%v, want miss", hit, err)
	}

	// Simulate a successful rule body that consumes two tokens, then
	// exits via InsertMemo.
	c.Restore(mark0)
	c.Advance()
	c.Advance()
	c.InsertMemo(mark0, ruleExpr, "expr-result")

	c.Restore(mark0)
	result, hit, err := c.IsMemoized(ruleExpr)
	if err != nil {
		t.Fatalf("second IsMemoized() error = %v", err)
	}
	if !hit {
		t.Fatal("second IsMemoized() = miss, want hit")
	}
	if result != "expr-result" {
		t.Errorf("IsMemoized() result = %v, want expr-result", result)
	}
	if c.Mark() != mark0+2 {
		t.Errorf("Mark() after memo hit = %d, want %d (post_mark restored, body not re-run)", c.Mark(), mark0+2)
	}
}

func TestIsMemoizedNegativeCaching(t *testing.T) {
	c := newTestCursor(token.NAME, token.ENDMARKER)

	mark0 := c.Save()
	c.IsMemoized(ruleAtom)
	c.InsertMemo(mark0, ruleAtom, nil) // rule failed: cache the failure itself

	c.Restore(mark0)
	result, hit, _ := c.IsMemoized(ruleAtom)
	if !hit {
		t.Fatal("expected a hit on a negatively-cached (failed) memo entry")
	}
	if result != nil {
		t.Errorf("IsMemoized() result = %v, want nil (cached failure)", result)
	}
	if c.Mark() != mark0 {
		t.Errorf("Mark() after failed-rule memo hit = %d, want %d (no tokens consumed)", c.Mark(), mark0)
	}
}

func TestMemoChainDistinguishesRules(t *testing.T) {
	c := newTestCursor(token.NAME, token.NUMBER, token.ENDMARKER)
	mark0 := c.Save()

	c.Advance()
	c.InsertMemo(mark0, ruleAtom, "atom")
	c.Restore(mark0)
	c.Advance()
	c.Advance()
	c.InsertMemo(mark0, ruleExpr, "expr")

	c.Restore(mark0)
	if r, hit, _ := c.IsMemoized(ruleAtom); !hit || r != "atom" {
		t.Errorf("ruleAtom memo = hit:%v result:%v, want hit with 'atom'", hit, r)
	}

	c.Restore(mark0)
	if r, hit, _ := c.IsMemoized(ruleExpr); !hit || r != "expr" {
		t.Errorf("ruleExpr memo = hit:%v result:%v, want hit with 'expr'", hit, r)
	}
}

// TestUpdateMemoSeedAndGrow simulates Warth's algorithm directly: a
// left-recursive rule seeds a failing memo, then iteratively re-parses
// from the same start position, each time consuming more input than
// the last recorded entry, calling UpdateMemo until an iteration fails
// to grow the consumed range.
func TestUpdateMemoSeedAndGrow(t *testing.T) {
	const lastIndex = Mark(5) // ENDMARKER, one past the last NAME
	c := newTestCursor(token.NAME, token.PLUS, token.NAME, token.PLUS, token.NAME, token.ENDMARKER)
	mark0 := c.Save()

	// Seed: install a failing memo so the recursive call inside this
	// same rule body, at the same position, bottoms out instead of
	// looping forever.
	c.InsertMemo(mark0, ruleExpr, nil)

	bestPost := mark0
	for {
		// Iteration body: consumes tokens proportional to how far the
		// previously recorded memo let it recurse, simulating a grammar
		// like `expr: expr '+' NAME | NAME` growing by two tokens a pass.
		grow := bestPost + 2
		if grow > lastIndex {
			grow = lastIndex
		}
		c.Restore(grow)

		if grow <= bestPost {
			break // no further growth: fixed point reached
		}
		bestPost = grow
		c.UpdateMemo(mark0, ruleExpr, "grown")
	}

	c.Restore(mark0)
	result, hit, _ := c.IsMemoized(ruleExpr)
	if !hit {
		t.Fatal("expected final grown memo entry to be present")
	}
	if result != "grown" {
		t.Errorf("final memo result = %v, want 'grown'", result)
	}
	if c.Mark() != bestPost {
		t.Errorf("Mark() after hitting grown memo = %d, want %d (fixed point)", c.Mark(), bestPost)
	}
}

func TestDemandFillsOneTokenAtFillBoundary(t *testing.T) {
	c := newTestCursor(token.NAME, token.NUMBER, token.ENDMARKER)

	if c.buf.Fill() != 0 {
		t.Fatalf("Fill() before any access = %d, want 0", c.buf.Fill())
	}
	c.IsMemoized(ruleAtom)
	if c.buf.Fill() != 1 {
		t.Errorf("Fill() after IsMemoized at fill boundary = %d, want 1 (exactly one token demand-filled)", c.buf.Fill())
	}
}

func TestIsMemoizedPropagatesFatalLexerError(t *testing.T) {
	wantErr := errors.New("tokenizer returned error token")
	c := New(itoken.NewBuffer(&erroringSource{err: wantErr}))

	_, hit, err := c.IsMemoized(ruleAtom)
	if hit {
		t.Fatal("IsMemoized() = hit, want miss on fatal lexer error")
	}
	if err != wantErr {
		t.Errorf("IsMemoized() error = %v, want %v", err, wantErr)
	}
	if c.LastError != wantErr {
		t.Errorf("LastError = %v, want %v", c.LastError, wantErr)
	}
}

type erroringSource struct{ err error }

func (e *erroringSource) Next() (token.Token, error) {
	return token.NewToken(token.ERROR, "", token.Position{Line: 1}), e.err
}

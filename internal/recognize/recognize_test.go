package recognize

import (
	"testing"

	"github.com/augustgrove/pegparse/internal/cursor"
	itoken "github.com/augustgrove/pegparse/internal/token"
	"github.com/augustgrove/pegparse/pkg/token"
)

type fixedSource struct {
	toks []token.Token
	pos  int
}

func (f *fixedSource) Next() (token.Token, error) {
	if f.pos >= len(f.toks) {
		return f.toks[len(f.toks)-1], nil
	}
	t := f.toks[f.pos]
	f.pos++
	return t, nil
}

func newTestCursor(toks ...token.Token) *cursor.Cursor {
	return cursor.New(itoken.NewBuffer(&fixedSource{toks: toks}))
}

func tok(typ token.Type, lit string) token.Token {
	return token.NewToken(typ, lit, token.Position{Line: 1})
}

func TestExpectMatch(t *testing.T) {
	c := newTestCursor(tok(token.NAME, "x"), tok(token.ENDMARKER, ""))

	got, ok := Expect(c, token.NAME)
	if !ok {
		t.Fatal("Expect(NAME) = false, want true")
	}
	if got.Literal != "x" {
		t.Errorf("Literal = %q, want %q", got.Literal, "x")
	}
	if c.Mark() != 1 {
		t.Errorf("Mark() = %d, want 1 (match must advance)", c.Mark())
	}
}

func TestExpectMismatchLeavesMarkUnchanged(t *testing.T) {
	c := newTestCursor(tok(token.NAME, "x"), tok(token.ENDMARKER, ""))

	_, ok := Expect(c, token.NUMBER)
	if ok {
		t.Fatal("Expect(NUMBER) = true, want false")
	}
	if c.Mark() != 0 {
		t.Errorf("Mark() = %d, want 0 (mismatch must not advance)", c.Mark())
	}
}

func TestKeywordMatch(t *testing.T) {
	c := newTestCursor(tok(token.NAME, "match"), tok(token.ENDMARKER, ""))

	_, ok := Keyword(c, "match")
	if !ok {
		t.Fatal("Keyword(match) = false, want true")
	}
	if c.Mark() != 1 {
		t.Errorf("Mark() = %d, want 1", c.Mark())
	}
}

func TestKeywordMismatchRewinds(t *testing.T) {
	c := newTestCursor(tok(token.NAME, "other"), tok(token.ENDMARKER, ""))

	_, ok := Keyword(c, "match")
	if ok {
		t.Fatal("Keyword(match) = true, want false")
	}
	if c.Mark() != 0 {
		t.Errorf("Mark() = %d, want 0 (name/text mismatch must rewind)", c.Mark())
	}
}

func TestLookaheadNeverConsumes(t *testing.T) {
	c := newTestCursor(tok(token.NAME, "x"), tok(token.ENDMARKER, ""))

	ok := Lookahead(c, true, func() (token.Token, bool) {
		return Expect(c, token.NAME)
	})
	if !ok {
		t.Fatal("positive Lookahead over a matching func = false, want true")
	}
	if c.Mark() != 0 {
		t.Errorf("Mark() after Lookahead = %d, want 0", c.Mark())
	}
}

func TestLookaheadNegativePolarity(t *testing.T) {
	c := newTestCursor(tok(token.NAME, "x"), tok(token.ENDMARKER, ""))

	ok := Lookahead(c, false, func() (token.Token, bool) {
		return Expect(c, token.NUMBER)
	})
	if !ok {
		t.Fatal("negative Lookahead over a failing func = false, want true")
	}
	if c.Mark() != 0 {
		t.Errorf("Mark() after Lookahead = %d, want 0", c.Mark())
	}
}

func TestShorthandMatchers(t *testing.T) {
	c := newTestCursor(
		tok(token.ASYNC, "async"), tok(token.AWAIT, "await"),
		tok(token.NEWLINE, "\n"), tok(token.INDENT, ""), tok(token.DEDENT, ""),
		tok(token.ENDMARKER, ""),
	)

	if _, ok := Async(c); !ok {
		t.Fatal("Async() = false")
	}
	if _, ok := Await(c); !ok {
		t.Fatal("Await() = false")
	}
	if _, ok := Newline(c); !ok {
		t.Fatal("Newline() = false")
	}
	if _, ok := Indent(c); !ok {
		t.Fatal("Indent() = false")
	}
	if _, ok := Dedent(c); !ok {
		t.Fatal("Dedent() = false")
	}
	if _, ok := Endmarker(c); !ok {
		t.Fatal("Endmarker() = false")
	}
}

func TestEndmarkerSecondAttemptFails(t *testing.T) {
	c := newTestCursor(tok(token.ENDMARKER, ""))

	if _, ok := Endmarker(c); !ok {
		t.Fatal("first Endmarker() = false, want true")
	}
	if _, ok := Endmarker(c); ok {
		t.Fatal("second Endmarker() = true, want false (invariant 6)")
	}
}

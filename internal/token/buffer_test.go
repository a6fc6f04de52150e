package token

import (
	"errors"
	"testing"

	pt "github.com/augustgrove/pegparse/pkg/token"
)

// fakeSource yields tokens from a fixed slice, then repeats its last
// token forever — mirroring a lexer that has already emitted ENDMARKER.
type fakeSource struct {
	toks []pt.Token
	pos  int
}

func (f *fakeSource) Next() (pt.Token, error) {
	if f.pos >= len(f.toks) {
		return f.toks[len(f.toks)-1], nil
	}
	t := f.toks[f.pos]
	f.pos++
	return t, nil
}

func tok(typ pt.Type) pt.Token {
	return pt.NewToken(typ, "", pt.Position{Line: 1})
}

func TestBufferDemandFill(t *testing.T) {
	src := &fakeSource{toks: []pt.Token{
		tok(pt.NAME), tok(pt.EQUAL), tok(pt.NUMBER), tok(pt.ENDMARKER),
	}}
	b := NewBuffer(src)

	if b.Fill() != 0 {
		t.Fatalf("Fill() before any access = %d, want 0", b.Fill())
	}
	if got := b.At(0).Type; got != pt.NAME {
		t.Errorf("At(0) = %s, want NAME", got)
	}
	if b.Fill() != 1 {
		t.Errorf("Fill() after At(0) = %d, want 1 (no over-realization)", b.Fill())
	}
	if got := b.At(2).Type; got != pt.NUMBER {
		t.Errorf("At(2) = %s, want NUMBER", got)
	}
	if b.Fill() != 3 {
		t.Errorf("Fill() after At(2) = %d, want 3", b.Fill())
	}
}

func TestBufferStopsAtEndmarker(t *testing.T) {
	src := &fakeSource{toks: []pt.Token{tok(pt.NAME), tok(pt.ENDMARKER)}}
	b := NewBuffer(src)

	if got := b.At(10).Type; got != pt.ENDMARKER {
		t.Errorf("At(10) past ENDMARKER = %s, want ENDMARKER", got)
	}
	if b.Fill() != 2 {
		t.Errorf("Fill() = %d, want 2 (should not realize past ENDMARKER)", b.Fill())
	}
}

func TestBufferPush(t *testing.T) {
	src := &fakeSource{toks: []pt.Token{tok(pt.NAME), tok(pt.NUMBER)}}
	b := NewBuffer(src)

	idx := b.Push()
	if idx != 0 {
		t.Fatalf("Push() index = %d, want 0", idx)
	}
	idx = b.Push()
	if idx != 1 {
		t.Fatalf("Push() index = %d, want 1", idx)
	}
	if b.Fill() != 2 {
		t.Errorf("Fill() = %d, want 2", b.Fill())
	}
}

func TestBufferSurfacesFatalLexerError(t *testing.T) {
	wantErr := errors.New("boom")
	b := NewBuffer(&erroringSource{err: wantErr})

	b.At(0)
	if b.Err() != wantErr {
		t.Errorf("Err() = %v, want %v", b.Err(), wantErr)
	}
	// A second call must not try to pull further tokens from the source.
	b.At(5)
	if b.Fill() != 1 {
		t.Errorf("Fill() after fatal error = %d, want 1 (stopped realizing)", b.Fill())
	}
}

type erroringSource struct {
	err   error
	calls int
}

func (e *erroringSource) Next() (pt.Token, error) {
	e.calls++
	return pt.NewToken(pt.ERROR, "", pt.Position{Line: 1}), e.err
}

func TestGrowForMatchesTeacherPolicy(t *testing.T) {
	b := &Buffer{}
	b.growFor(1)
	if cap(b.tokens) < 17 {
		t.Errorf("growFor(1) cap = %d, want at least 17 (target+16)", cap(b.tokens))
	}

	small := &Buffer{tokens: make([]pt.Token, 0, 20)}
	small.growFor(25)
	if cap(small.tokens) < 41 {
		t.Errorf("growFor(25) from cap 20 = %d, want at least 41 (target+16)", cap(small.tokens))
	}
}

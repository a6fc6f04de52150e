package minigrammar

import (
	"testing"

	"github.com/augustgrove/pegparse/ast"
	"github.com/augustgrove/pegparse/internal/cursor"
	itoken "github.com/augustgrove/pegparse/internal/token"
	"github.com/augustgrove/pegparse/pkg/token"
)

// fixedSource replays a fixed token slice, appending ENDMARKER forever
// once exhausted, mirroring the TokenBuffer's own end-of-stream behavior.
type fixedSource struct {
	toks []token.Token
	i    int
}

func (s *fixedSource) Next() (token.Token, error) {
	if s.i >= len(s.toks) {
		return token.Token{Type: token.ENDMARKER}, nil
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func newCursor(toks []token.Token) *cursor.Cursor {
	return cursor.New(itoken.NewBuffer(&fixedSource{toks: toks}))
}

func name(lit string) token.Token  { return token.NewToken(token.NAME, lit, token.Position{Line: 1}) }
func num(lit string) token.Token   { return token.NewToken(token.NUMBER, lit, token.Position{Line: 1}) }
func op(t token.Type, lit string) token.Token {
	return token.NewToken(t, lit, token.Position{Line: 1})
}
func end() token.Token { return token.Token{Type: token.ENDMARKER, Pos: token.Position{Line: 1}} }

func TestStartRuleEmptyTokenStreamIsFailure(t *testing.T) {
	c := newCursor([]token.Token{end()})
	mod, err := StartRule(c, ast.NewArenas())
	if err != nil {
		t.Fatalf("StartRule error = %v", err)
	}
	if mod != nil {
		t.Errorf("mod = %v, want nil for empty input", mod)
	}
}

func TestStartRuleNameExprStatement(t *testing.T) {
	toks := []token.Token{name("x"), op(token.NEWLINE, "\n"), end()}
	c := newCursor(toks)
	mod, err := StartRule(c, ast.NewArenas())
	if err != nil {
		t.Fatalf("StartRule error = %v", err)
	}
	if mod == nil || len(mod.Body) != 1 {
		t.Fatalf("mod = %v, want 1 stmt", mod)
	}
	stmt, ok := mod.Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.ExprStmt", mod.Body[0])
	}
	if n, ok := stmt.Value.(*ast.Name); !ok || n.Id != "x" {
		t.Errorf("stmt.Value = %#v", stmt.Value)
	}
}

func TestStartRuleMultipleStatements(t *testing.T) {
	toks := []token.Token{
		name("x"), op(token.NEWLINE, "\n"),
		num("1"), op(token.NEWLINE, "\n"),
		end(),
	}
	c := newCursor(toks)
	mod, err := StartRule(c, ast.NewArenas())
	if err != nil {
		t.Fatalf("StartRule error = %v", err)
	}
	if len(mod.Body) != 2 {
		t.Fatalf("Body = %d stmts, want 2", len(mod.Body))
	}
}

func TestStartRuleMalformedFunctionDefIsFailure(t *testing.T) {
	// "def f(" with no closing paren/colon/pass.
	toks := []token.Token{
		op(token.DEF, "def"), name("f"), op(token.LPAREN, "("),
		end(),
	}
	c := newCursor(toks)
	mod, err := StartRule(c, ast.NewArenas())
	if err != nil {
		t.Fatalf("StartRule error = %v", err)
	}
	if mod != nil {
		t.Errorf("mod = %v, want nil for malformed def", mod)
	}
}

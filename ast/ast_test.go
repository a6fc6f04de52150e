package ast

import (
	"strings"
	"testing"

	"github.com/augustgrove/pegparse/pkg/token"
)

func pos(line, col int) token.Position { return token.Position{Line: line, Column: col} }

func TestArenaBackedNamePointersStable(t *testing.T) {
	arenas := NewArenas()
	var names []*Name
	for i := 0; i < 200; i++ {
		names = append(names, arenas.NewName("x", Load, pos(1, i), pos(1, i+1)))
	}
	for i, n := range names {
		if n.Pos().Column != i {
			t.Fatalf("name %d Pos().Column = %d, want %d (pointer invalidated by later allocation)", i, n.Pos().Column, i)
		}
	}
}

func TestNameString(t *testing.T) {
	arenas := NewArenas()
	n := arenas.NewName("x", Store, pos(1, 0), pos(1, 1))
	if got := n.String(); got != `Name("x", Store)` {
		t.Errorf("Name.String() = %q, want %q", got, `Name("x", Store)`)
	}
}

func TestModulePosSpansFirstAndLastStatement(t *testing.T) {
	arenas := NewArenas()
	first := arenas.NewExprStmt(arenas.NewName("a", Load, pos(1, 0), pos(1, 1)), pos(1, 0), pos(1, 1))
	last := arenas.NewExprStmt(arenas.NewName("b", Load, pos(3, 0), pos(3, 1)), pos(3, 0), pos(3, 1))
	m := &Module{Body: []Stmt{first, last}}

	if m.Pos().Line != 1 {
		t.Errorf("Module.Pos().Line = %d, want 1", m.Pos().Line)
	}
	if m.End().Line != 3 {
		t.Errorf("Module.End().Line = %d, want 3", m.End().Line)
	}
}

func TestEmptyModulePosIsZeroValue(t *testing.T) {
	m := &Module{}
	if m.Pos() != (token.Position{}) {
		t.Errorf("empty Module.Pos() = %v, want zero value", m.Pos())
	}
}

func TestCompareString(t *testing.T) {
	arenas := NewArenas()
	c := arenas.NewCompare(
		arenas.NewConstant(1, pos(1, 0), pos(1, 1)),
		[]CmpOp{Lt, Lt},
		[]Expr{arenas.NewConstant(2, pos(1, 4), pos(1, 5)), arenas.NewConstant(3, pos(1, 8), pos(1, 9))},
		pos(1, 0), pos(1, 9),
	)
	got := c.String()
	for _, want := range []string{"Constant(1)", "Lt", "Constant(2)", "Constant(3)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Compare.String() = %q, missing %q", got, want)
		}
	}
}

func TestEmptyArgumentsAllFieldsEmpty(t *testing.T) {
	arenas := NewArenas()
	args := arenas.EmptyArguments()
	if len(args.PosOnly) != 0 || len(args.Args) != 0 || len(args.KwOnly) != 0 {
		t.Error("EmptyArguments() should have all sequence fields empty")
	}
	if args.Vararg != nil || args.Kwarg != nil {
		t.Error("EmptyArguments() should have both optional fields nil")
	}
}

func TestImportAliasString(t *testing.T) {
	arenas := NewArenas()
	alias := arenas.NewAlias("a.b", "", pos(1, 7), pos(1, 10))
	imp := arenas.NewImport([]*Alias{alias}, pos(1, 0), pos(1, 10))
	if got := imp.String(); got != `Import(names=[alias("a.b")])` {
		t.Errorf("Import.String() = %q, want %q", got, `Import(names=[alias("a.b")])`)
	}
}

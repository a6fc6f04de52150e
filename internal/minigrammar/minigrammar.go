// Package minigrammar is a minimal, hand-written start rule covering a
// small slice of the Python-like grammar this runtime serves: name and
// number atoms, chained comparisons, tuple assignment targets, dotted
// imports, and trivial `def name(): pass` function definitions.
//
// The real grammar-generated rule procedures are out of scope for this
// runtime (spec.md §1: they are produced by a PEG generator from a
// .gram file, which this module does not implement). This package
// exists only so the Driver, the recognizers, and the AST builders have
// something concrete to exercise end to end — from parser/driver_test.go
// and from cmd/pegparse — without inventing a second copy of the same
// handful of rules in each place.
package minigrammar

import (
	"github.com/augustgrove/pegparse/ast"
	"github.com/augustgrove/pegparse/internal/astbuild"
	"github.com/augustgrove/pegparse/internal/astbuild/strnum"
	"github.com/augustgrove/pegparse/internal/cursor"
	"github.com/augustgrove/pegparse/internal/recognize"
	"github.com/augustgrove/pegparse/pkg/token"
)

// StartRule parses a sequence of simple statements terminated by
// ENDMARKER. It returns (nil, nil) — an ordinary parse failure — on any
// malformed input, including an empty source (spec.md §8: "Parsing an
// empty source yields ParseFailure").
func StartRule(c *cursor.Cursor, arenas *ast.Arenas) (*ast.Module, error) {
	var stmts []ast.Stmt
	for {
		if _, ok := recognize.Endmarker(c); ok {
			if len(stmts) == 0 {
				return nil, nil
			}
			break
		}
		stmt, ok := simpleStmt(c, arenas)
		if !ok {
			return nil, nil
		}
		stmts = append(stmts, stmt)
		recognize.Newline(c)
	}
	return &ast.Module{Body: stmts}, nil
}

func simpleStmt(c *cursor.Cursor, arenas *ast.Arenas) (ast.Stmt, bool) {
	if defTok, ok := recognize.Expect(c, token.DEF); ok {
		return functionDef(c, arenas, defTok)
	}
	if importTok, ok := recognize.Expect(c, token.IMPORT); ok {
		return importStmt(c, arenas, importTok)
	}
	return exprOrAssignStmt(c, arenas)
}

func functionDef(c *cursor.Cursor, arenas *ast.Arenas, defTok token.Token) (ast.Stmt, bool) {
	nameTok, ok := recognize.Name(c)
	if !ok {
		return nil, false
	}
	if _, ok := recognize.Expect(c, token.LPAREN); !ok {
		return nil, false
	}
	if _, ok := recognize.Expect(c, token.RPAREN); !ok {
		return nil, false
	}
	if _, ok := recognize.Expect(c, token.COLON); !ok {
		return nil, false
	}
	passTok, ok := recognize.Expect(c, token.PASS)
	if !ok {
		return nil, false
	}
	body := []ast.Stmt{arenas.NewPass(passTok.Pos, passTok.EndPos)}
	return arenas.NewFunctionDef(nameTok.Literal, arenas.EmptyArguments(), body, nil, nil, defTok.Pos, passTok.EndPos), true
}

func importStmt(c *cursor.Cursor, arenas *ast.Arenas, importTok token.Token) (ast.Stmt, bool) {
	name, ok := dottedName(c, arenas)
	if !ok {
		return nil, false
	}
	alias := arenas.NewAlias(name.Id, "", name.Pos(), name.End())
	return arenas.NewImport([]*ast.Alias{alias}, importTok.Pos, name.End()), true
}

func dottedName(c *cursor.Cursor, arenas *ast.Arenas) (*ast.Name, bool) {
	tok, ok := recognize.Name(c)
	if !ok {
		return nil, false
	}
	name := astbuild.Name(arenas, tok, ast.Load)
	for {
		mark := c.Save()
		if _, ok := recognize.Expect(c, token.DOT); !ok {
			break
		}
		tok2, ok := recognize.Name(c)
		if !ok {
			c.Restore(mark)
			break
		}
		name = astbuild.JoinNamesWithDot(arenas, name, astbuild.Name(arenas, tok2, ast.Load))
	}
	return name, true
}

func exprOrAssignStmt(c *cursor.Cursor, arenas *ast.Arenas) (ast.Stmt, bool) {
	lhs, ok := exprList(c, arenas)
	if !ok {
		return nil, false
	}
	if _, ok := recognize.Expect(c, token.EQUAL); ok {
		rhs, ok := exprList(c, arenas)
		if !ok {
			return nil, false
		}
		target := astbuild.SetExprContext(arenas, lhs, ast.Store)
		return arenas.NewAssign([]ast.Expr{target}, rhs, lhs.Pos(), rhs.End()), true
	}
	return arenas.NewExprStmt(lhs, lhs.Pos(), lhs.End()), true
}

func exprList(c *cursor.Cursor, arenas *ast.Arenas) (ast.Expr, bool) {
	first, ok := comparison(c, arenas)
	if !ok {
		return nil, false
	}
	elts := []ast.Expr{first}
	for {
		mark := c.Save()
		if _, ok := recognize.Expect(c, token.COMMA); !ok {
			break
		}
		next, ok := comparison(c, arenas)
		if !ok {
			c.Restore(mark)
			break
		}
		elts = append(elts, next)
	}
	if len(elts) == 1 {
		return elts[0], true
	}
	return arenas.NewTuple(elts, ast.Load, elts[0].Pos(), elts[len(elts)-1].End()), true
}

func comparison(c *cursor.Cursor, arenas *ast.Arenas) (ast.Expr, bool) {
	left, ok := atom(c, arenas)
	if !ok {
		return nil, false
	}
	var pairs []astbuild.CmpopExprPair
	for {
		mark := c.Save()
		op, isCmp := cmpOp(c.Current().Type)
		if !isCmp {
			break
		}
		c.Advance()
		right, ok := atom(c, arenas)
		if !ok {
			c.Restore(mark)
			break
		}
		pairs = append(pairs, astbuild.CmpopExprPair{Op: op, Expr: right})
	}
	if len(pairs) == 0 {
		return left, true
	}
	return astbuild.Compare(arenas, left, pairs), true
}

func cmpOp(t token.Type) (ast.CmpOp, bool) {
	switch t {
	case token.LESS:
		return ast.Lt, true
	case token.GREATER:
		return ast.Gt, true
	case token.LESSEQUAL:
		return ast.LtE, true
	case token.GREATEREQUAL:
		return ast.GtE, true
	case token.EQEQUAL:
		return ast.Eq, true
	case token.NOTEQUAL:
		return ast.NotEq, true
	default:
		return 0, false
	}
}

func atom(c *cursor.Cursor, arenas *ast.Arenas) (ast.Expr, bool) {
	if tok, ok := recognize.Name(c); ok {
		return astbuild.Name(arenas, tok, ast.Load), true
	}
	if tok, ok := recognize.Number(c); ok {
		val, err := strnum.Number(tok.Literal)
		if err != nil {
			return nil, false
		}
		return arenas.NewConstant(val, tok.Pos, tok.EndPos), true
	}
	if tok, ok := recognize.String(c); ok {
		val, err := strnum.String(tok.Literal)
		if err != nil {
			return nil, false
		}
		if val.IsBytes {
			return arenas.NewConstant(val.Bytes, tok.Pos, tok.EndPos), true
		}
		return arenas.NewConstant(val.Text, tok.Pos, tok.EndPos), true
	}
	return nil, false
}

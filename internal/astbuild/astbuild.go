// Package astbuild implements the helpers grammar actions invoke to
// assemble typed AST nodes (spec.md §4.6): sequence operations, context
// rewriting, parameter-list assembly, decorator attachment, comparison
// chains, and call-argument splitting. Every builder here allocates
// through an *ast.Arenas and returns either a value or an error the
// caller treats like any other failed recognizer (spec.md: "Failures ...
// return null, and the caller treats null like any other failed
// recognizer").
//
// Grounded on original_source/pegen/pegen.c's seq_flatten, join_names_with_dot,
// seq_count_dots, alias_for_star, seq_get_head/seq_get_tail,
// map_names_to_ids, cmpop_expr_pair/_get_cmpops/_get_exprs/Pegen_Compare,
// set_expr_context and its per-kind helpers, key_value_pair/get_keys/get_values,
// keyword_or_starred/seq_extract_starred_exprs/seq_delete_starred_exprs, and
// construct_assign_target.
package astbuild

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/augustgrove/pegparse/ast"
	"github.com/augustgrove/pegparse/pkg/token"
)

// Placeholder is the typed sentinel this module uses in place of
// pegen.c's (void*)1 CONSTRUCTOR magic pointer: grammar actions that
// need to synthesize a result later replaced by a builder emit a
// Placeholder-headed sequence, and SeqFlatten skips any inner sequence
// whose first element is one (spec.md §9).
type Placeholder struct{}

// --- Name leaf (spec.md §4.6 "Leaf builders") ---

// Name builds a Name leaf from a recognized NAME token, NFKC-normalizing
// its lexeme before interning it. CPython applies this normalization at
// the tokenizer level, ahead of name_token ever seeing the identifier
// (original_source/pegen.c's name_token performs no normalization of its
// own); since this runtime's lexer does not normalize, Name is the one
// point every NAME reference passes through on its way into the AST, so
// it is supplemented here instead (spec.md §9).
func Name(arenas *ast.Arenas, tok token.Token, ctx ast.ExprContext) *ast.Name {
	return arenas.NewName(norm.NFKC.String(tok.Literal), ctx, tok.Pos, tok.EndPos)
}

// --- Sequence ops (spec.md §4.6 "Sequence ops") ---

// SingletonSeq returns a length-1 sequence containing x.
func SingletonSeq[T any](x T) []T {
	return []T{x}
}

// SeqInsertFront returns a new sequence of length len(s)+1 with x first.
func SeqInsertFront[T any](x T, s []T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, x)
	return append(out, s...)
}

// SeqFlatten concatenates the inner sequences of ss, skipping any inner
// sequence whose first element is the Placeholder sentinel.
func SeqFlatten[T any](ss [][]T) []T {
	var out []T
	for _, inner := range ss {
		if len(inner) > 0 {
			if _, isPlaceholder := any(inner[0]).(Placeholder); isPlaceholder {
				continue
			}
		}
		out = append(out, inner...)
	}
	return out
}

// SeqGetHead returns the first element of s, or def if s is empty.
func SeqGetHead[T any](def T, s []T) T {
	if len(s) == 0 {
		return def
	}
	return s[0]
}

// SeqGetTail returns the last element of s, or def if s is empty.
func SeqGetTail[T any](def T, s []T) T {
	if len(s) == 0 {
		return def
	}
	return s[len(s)-1]
}

// SeqCountDots sums 3 per ELLIPSIS token and 1 per DOT token across ts,
// used to validate relative-import dot syntax. Any other token kind
// makes the whole call fail, reported as -1 (spec.md §4.6, §8:
// "seq_count_dots on [DOT, DOT, ELLIPSIS] returns 5; on [DOT, NAME]
// returns -1").
func SeqCountDots(kinds []DotOrEllipsis) int {
	total := 0
	for _, k := range kinds {
		switch k {
		case KindDot:
			total++
		case KindEllipsis:
			total += 3
		default:
			return -1
		}
	}
	return total
}

// DotOrEllipsis classifies the tokens SeqCountDots enumerates, kept
// independent of pkg/token so grammar code can pass either real tokens
// or synthetic markers during testing.
type DotOrEllipsis int

const (
	KindDot DotOrEllipsis = iota
	KindEllipsis
	KindOther
)

// --- Projections (spec.md §4.6 "Projections") ---

// MapNamesToIds extracts the identifier of every Name in names.
func MapNamesToIds(names []*ast.Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.Id
	}
	return out
}

// KeyValuePair is the dict-literal key/value helper struct grammar
// actions build before a Dict node is assembled; Key is nil for a
// `**expr` unpacking entry (pegen.c: key_value_pair).
type KeyValuePair struct {
	Key   ast.Expr
	Value ast.Expr
}

// GetKeys extracts the Key field of every pair (get_keys).
func GetKeys(pairs []KeyValuePair) []ast.Expr {
	out := make([]ast.Expr, len(pairs))
	for i, p := range pairs {
		out[i] = p.Key
	}
	return out
}

// GetValues extracts the Value field of every pair (get_values).
func GetValues(pairs []KeyValuePair) []ast.Expr {
	out := make([]ast.Expr, len(pairs))
	for i, p := range pairs {
		out[i] = p.Value
	}
	return out
}

// CmpopExprPair is the chained-comparison helper struct (cmpop, expr)
// the grammar accumulates before calling Compare (pegen.c:
// cmpop_expr_pair).
type CmpopExprPair struct {
	Op   ast.CmpOp
	Expr ast.Expr
}

// GetCmpops extracts the Op field of every pair (_get_cmpops).
func GetCmpops(pairs []CmpopExprPair) []ast.CmpOp {
	out := make([]ast.CmpOp, len(pairs))
	for i, p := range pairs {
		out[i] = p.Op
	}
	return out
}

// GetExprs extracts the Expr field of every pair (_get_exprs).
func GetExprs(pairs []CmpopExprPair) []ast.Expr {
	out := make([]ast.Expr, len(pairs))
	for i, p := range pairs {
		out[i] = p.Expr
	}
	return out
}

// MapTargetsToDelNames rewrites every del-statement target into Del
// context, one SetExprContext call per target.
func MapTargetsToDelNames(arenas *ast.Arenas, targets []ast.Expr) []ast.Expr {
	out := make([]ast.Expr, len(targets))
	for i, t := range targets {
		out[i] = SetExprContext(arenas, t, ast.Del)
	}
	return out
}

// ExtractOrigAliases returns a fresh copy of aliases, dropping the
// synthetic `*`-import alias AliasForStar produces (that marker is
// consumed directly by the import-star statement, not re-exported
// alongside ordinary aliased names).
func ExtractOrigAliases(aliases []*ast.Alias) []*ast.Alias {
	out := make([]*ast.Alias, 0, len(aliases))
	for _, a := range aliases {
		if a.Name == "*" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// --- Name joining (spec.md §4.6 "Name joining") ---

// JoinNamesWithDot synthesizes a Name whose identifier is
// "a.id + '.' + b.id", spanning from a's start to b's end. Used to
// assemble dotted module names during import parsing (pegen.c:
// join_names_with_dot).
func JoinNamesWithDot(arenas *ast.Arenas, a, b *ast.Name) *ast.Name {
	return arenas.NewName(a.Id+"."+b.Id, ast.Load, a.Pos(), b.End())
}

// --- Context rewriting (spec.md §4.6 "Context rewriting") ---

// SetExprContext rebuilds e with its expression context field set to
// ctx. Recursive on Tuple and List (every element is itself rewritten);
// shallow on Name, Attribute, Subscript, and Starred (only the node's
// own Ctx changes). Any other expression kind is returned unchanged —
// the grammar parses assignment/deletion targets in Load context and
// rewrites them to Store/Del only at the point the target's role is
// known.
func SetExprContext(arenas *ast.Arenas, e ast.Expr, ctx ast.ExprContext) ast.Expr {
	switch n := e.(type) {
	case *ast.Name:
		return arenas.NewName(n.Id, ctx, n.Pos(), n.End())
	case *ast.Attribute:
		return arenas.NewAttribute(n.Value, n.Attr, ctx, n.Pos(), n.End())
	case *ast.Subscript:
		return arenas.NewSubscript(n.Value, n.Slice, ctx, n.Pos(), n.End())
	case *ast.Starred:
		return arenas.NewStarred(n.Value, ctx, n.Pos(), n.End())
	case *ast.Tuple:
		elts := make([]ast.Expr, len(n.Elts))
		for i, el := range n.Elts {
			elts[i] = SetExprContext(arenas, el, ctx)
		}
		return arenas.NewTuple(elts, ctx, n.Pos(), n.End())
	case *ast.List:
		elts := make([]ast.Expr, len(n.Elts))
		for i, el := range n.Elts {
			elts[i] = SetExprContext(arenas, el, ctx)
		}
		return arenas.NewList(elts, ctx, n.Pos(), n.End())
	default:
		return e
	}
}

// ConstructAssignTarget validates and returns the single assignable
// target inside an annotated-assignment's left-hand side. A
// length-other-than-1 Tuple, or any List, is a SyntaxViolation (spec.md
// §7: "invalid annotated target"). Unlike pegen.c's
// construct_assign_target, which synthesizes a dummy Name with an
// empty identifier on this error path, this rewrite surfaces the error
// directly (spec.md §9 Open Questions: "a rewrite should surface these
// as genuine errors rather than synthetic nodes").
func ConstructAssignTarget(node ast.Expr) (ast.Expr, error) {
	switch n := node.(type) {
	case *ast.Tuple:
		if len(n.Elts) != 1 {
			return nil, fmt.Errorf("only single target (not tuple) can be annotated")
		}
		return n.Elts[0], nil
	case *ast.List:
		return nil, fmt.Errorf("only single target (not list) can be annotated")
	default:
		return node, nil
	}
}

// --- Parameter assembly (spec.md §4.6.1) ---

// NameDefaultPair is one "name, optional default" formal parameter
// entry; Default is nil when the parameter carries no default.
type NameDefaultPair struct {
	Name    *ast.Arg
	Default ast.Expr
}

// SlashWithDefault groups the positional-only parameters that precede
// a `/` marker when at least one of them carries a default: Plain are
// the ones without defaults, NamedDefaulted the ones with.
type SlashWithDefault struct {
	Plain          []*ast.Arg
	NamedDefaulted []NameDefaultPair
}

// StarEtc groups everything the grammar parses after a bare or named
// `*` marker: the vararg itself (nil for a bare `*`), the keyword-only
// parameters, and **kwargs.
type StarEtc struct {
	Vararg *ast.Arg
	Kwonly []NameDefaultPair
	Kwarg  *ast.Arg
}

func argsOf(pairs []NameDefaultPair) []*ast.Arg {
	out := make([]*ast.Arg, len(pairs))
	for i, p := range pairs {
		out[i] = p.Name
	}
	return out
}

func defaultsOf(pairs []NameDefaultPair) []ast.Expr {
	out := make([]ast.Expr, len(pairs))
	for i, p := range pairs {
		out[i] = p.Default
	}
	return out
}

// MakeArguments assembles the canonical arguments node from the five
// parameter groups the grammar can produce, per the combining rules of
// spec.md §4.6.1. Any of slashWithoutDefault, slashWithDefault, and
// starEtc may be nil ("absent"); plainNames and namesWithDefault may be
// empty.
func MakeArguments(
	arenas *ast.Arenas,
	slashWithoutDefault []*ast.Arg,
	slashWithDefault *SlashWithDefault,
	plainNames []*ast.Arg,
	namesWithDefault []NameDefaultPair,
	starEtc *StarEtc,
) *ast.Arguments {
	args := arenas.NewArguments()

	switch {
	case slashWithoutDefault != nil:
		args.PosOnly = slashWithoutDefault
	case slashWithDefault != nil:
		posOnly := make([]*ast.Arg, 0, len(slashWithDefault.Plain)+len(slashWithDefault.NamedDefaulted))
		posOnly = append(posOnly, slashWithDefault.Plain...)
		posOnly = append(posOnly, argsOf(slashWithDefault.NamedDefaulted)...)
		args.PosOnly = posOnly
	}

	positional := make([]*ast.Arg, 0, len(plainNames)+len(namesWithDefault))
	positional = append(positional, plainNames...)
	positional = append(positional, argsOf(namesWithDefault)...)
	args.Args = positional

	var posDefaults []ast.Expr
	if slashWithDefault != nil {
		posDefaults = append(posDefaults, defaultsOf(slashWithDefault.NamedDefaulted)...)
	}
	posDefaults = append(posDefaults, defaultsOf(namesWithDefault)...)
	args.Defaults = posDefaults

	if starEtc != nil {
		args.Vararg = starEtc.Vararg
		args.Kwarg = starEtc.Kwarg
		args.KwOnly = argsOf(starEtc.Kwonly)
		args.KwDefaults = defaultsOf(starEtc.Kwonly)
	}

	return args
}

// --- Decorator attachment (spec.md §4.6 "Decorator attachment") ---

// FunctionDefDecorators returns a copy of fn with its decorator_list
// field replaced by decorators.
func FunctionDefDecorators(arenas *ast.Arenas, decorators []ast.Expr, fn *ast.FunctionDef) *ast.FunctionDef {
	return arenas.NewFunctionDef(fn.Name, fn.Args, fn.Body, decorators, fn.Returns, fn.Pos(), fn.End())
}

// ClassDefDecorators returns a copy of cls with its decorator_list
// field replaced by decorators.
func ClassDefDecorators(arenas *ast.Arenas, decorators []ast.Expr, cls *ast.ClassDef) *ast.ClassDef {
	return arenas.NewClassDef(cls.Name, cls.Bases, cls.Keywords, cls.Body, decorators, cls.Pos(), cls.End())
}

// --- Comparison (spec.md §4.6 "Comparison") ---

// Compare builds a Compare node from expr and a left-to-right sequence
// of (cmpop, expr) pairs (pegen.c: Pegen_Compare).
func Compare(arenas *ast.Arenas, left ast.Expr, pairs []CmpopExprPair) *ast.Compare {
	end := left.End()
	if len(pairs) > 0 {
		end = pairs[len(pairs)-1].Expr.End()
	}
	return arenas.NewCompare(left, GetCmpops(pairs), GetExprs(pairs), left.Pos(), end)
}

// --- Keyword/starred split (spec.md §4.6 "Keyword/starred split") ---

// KeywordOrStarred is one call-argument entry: either a positional
// `*expr`-style Starred (IsKeyword false) or a `name=value`/`**value`
// Keyword (IsKeyword true) (pegen.c: KeywordOrStarred).
type KeywordOrStarred struct {
	IsKeyword bool
	Starred   ast.Expr
	Keyword   *ast.Keyword
}

// SeqExtractStarredExprs returns the Starred-wrapped positional
// arguments from items, in order (pegen.c: seq_extract_starred_exprs).
func SeqExtractStarredExprs(items []KeywordOrStarred) []ast.Expr {
	var out []ast.Expr
	for _, k := range items {
		if !k.IsKeyword {
			out = append(out, k.Starred)
		}
	}
	return out
}

// SeqDeleteStarredExprs returns the Keyword arguments from items, in
// order, with every Starred positional entry removed (pegen.c:
// seq_delete_starred_exprs).
func SeqDeleteStarredExprs(items []KeywordOrStarred) []*ast.Keyword {
	var out []*ast.Keyword
	for _, k := range items {
		if k.IsKeyword {
			out = append(out, k.Keyword)
		}
	}
	return out
}

// --- Alias for `*` import (spec.md §4.6 "Alias for * import") ---

// AliasForStar returns the alias('*', None) node `from x import *` uses,
// spanning the `*` token's own position (pegen.c: alias_for_star).
func AliasForStar(arenas *ast.Arenas, star token.Token) *ast.Alias {
	return arenas.NewAlias("*", "", star.Pos, star.EndPos)
}

// Package ast defines the Abstract Syntax Tree node types this runtime
// builds: the Python-like expression and statement variants spec.md
// §6 names as the AST constructor contract, each allocated from a
// per-variant Arena rather than the garbage-collected heap.
package ast

import (
	"fmt"
	"strings"

	"github.com/augustgrove/pegparse/internal/arena"
	"github.com/augustgrove/pegparse/pkg/token"
)

// Node is the interface every AST node implements: a source span and a
// debug string. Generalized from the teacher's Node interface
// (TokenLiteral/String/Pos), dropping TokenLiteral — there is no single
// lexeme backing most of these node kinds — and adding End, since
// spec.md invariant 5 requires nodes to carry both a start and an end
// span derived from the tokens they cover.
type Node interface {
	Pos() token.Position
	End() token.Position
	String() string
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action without itself being a value.
type Stmt interface {
	Node
	stmtNode()
}

// ExprContext tags an expression as being read, written, or deleted,
// rewritten post-hoc by SetExprContext during assignment/deletion
// parsing (spec.md §4.6 "Context rewriting").
type ExprContext int

const (
	Load ExprContext = iota
	Store
	Del
)

func (c ExprContext) String() string {
	switch c {
	case Load:
		return "Load"
	case Store:
		return "Store"
	case Del:
		return "Del"
	default:
		return "Unknown"
	}
}

// CmpOp is one comparison operator in a chained comparison
// (spec.md §4.6 "Comparison").
type CmpOp int

const (
	Eq CmpOp = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

func (op CmpOp) String() string {
	names := [...]string{"Eq", "NotEq", "Lt", "LtE", "Gt", "GtE", "Is", "IsNot", "In", "NotIn"}
	if int(op) < len(names) {
		return names[op]
	}
	return "UnknownCmpOp"
}

type span struct {
	start, end token.Position
}

func (s span) Pos() token.Position { return s.start }
func (s span) End() token.Position { return s.end }

// --- Expressions ---

type Name struct {
	span
	Id  string
	Ctx ExprContext
}

func (*Name) exprNode() {}
func (n *Name) String() string {
	return fmt.Sprintf("Name(%q, %s)", n.Id, n.Ctx)
}

type Constant struct {
	span
	Value any
}

func (*Constant) exprNode() {}
func (c *Constant) String() string {
	return fmt.Sprintf("Constant(%v)", c.Value)
}

type Attribute struct {
	span
	Value Expr
	Attr  string
	Ctx   ExprContext
}

func (*Attribute) exprNode() {}
func (a *Attribute) String() string {
	return fmt.Sprintf("Attribute(%s, %q, %s)", a.Value, a.Attr, a.Ctx)
}

type Subscript struct {
	span
	Value Expr
	Slice Expr
	Ctx   ExprContext
}

func (*Subscript) exprNode() {}
func (s *Subscript) String() string {
	return fmt.Sprintf("Subscript(%s, %s, %s)", s.Value, s.Slice, s.Ctx)
}

type Tuple struct {
	span
	Elts []Expr
	Ctx  ExprContext
}

func (*Tuple) exprNode() {}
func (t *Tuple) String() string {
	return fmt.Sprintf("Tuple(%s, %s)", joinExprs(t.Elts), t.Ctx)
}

type List struct {
	span
	Elts []Expr
	Ctx  ExprContext
}

func (*List) exprNode() {}
func (l *List) String() string {
	return fmt.Sprintf("List(%s, %s)", joinExprs(l.Elts), l.Ctx)
}

type Starred struct {
	span
	Value Expr
	Ctx   ExprContext
}

func (*Starred) exprNode() {}
func (s *Starred) String() string {
	return fmt.Sprintf("Starred(%s, %s)", s.Value, s.Ctx)
}

type Compare struct {
	span
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

func (*Compare) exprNode() {}
func (c *Compare) String() string {
	var sb strings.Builder
	sb.WriteString(c.Left.String())
	for i, op := range c.Ops {
		fmt.Fprintf(&sb, " %s %s", op, c.Comparators[i])
	}
	return sb.String()
}

// --- Parameters ---

// Arg is a single formal parameter name, with its own span so error
// messages can point at just the offending parameter.
type Arg struct {
	span
	Name string
}

func (a *Arg) String() string { return a.Name }

// Arguments is the canonical parameter-list node make_arguments
// assembles from the five input groups (spec.md §4.6.1).
type Arguments struct {
	PosOnly    []*Arg
	Args       []*Arg
	Vararg     *Arg
	KwOnly     []*Arg
	KwDefaults []Expr // nil entries mean "no default for this kwonly arg"
	Kwarg      *Arg
	Defaults   []Expr
}

func (a *Arguments) String() string {
	return fmt.Sprintf("arguments(posonly=%d, args=%d, kwonly=%d)", len(a.PosOnly), len(a.Args), len(a.KwOnly))
}

// Alias is one `as`-aliasable import name.
type Alias struct {
	span
	Name   string
	AsName string // empty means no `as` clause
}

func (a *Alias) String() string {
	if a.AsName == "" {
		return fmt.Sprintf("alias(%q)", a.Name)
	}
	return fmt.Sprintf("alias(%q, %q)", a.Name, a.AsName)
}

// Keyword is one `name=value` call argument or class keyword.
type Keyword struct {
	Arg   string // empty means **kwargs-style double-star expansion
	Value Expr
}

// --- Statements ---

type FunctionDef struct {
	span
	Name          string
	Args          *Arguments
	Body          []Stmt
	DecoratorList []Expr
	Returns       Expr
}

func (*FunctionDef) stmtNode() {}
func (f *FunctionDef) String() string {
	return fmt.Sprintf("FunctionDef(name=%q, args=%s, body=%d stmts)", f.Name, f.Args, len(f.Body))
}

type ClassDef struct {
	span
	Name          string
	Bases         []Expr
	Keywords      []*Keyword
	Body          []Stmt
	DecoratorList []Expr
}

func (*ClassDef) stmtNode() {}
func (c *ClassDef) String() string {
	return fmt.Sprintf("ClassDef(name=%q, bases=%d)", c.Name, len(c.Bases))
}

type Module struct {
	Body []Stmt
}

func (m *Module) Pos() token.Position {
	if len(m.Body) == 0 {
		return token.Position{}
	}
	return m.Body[0].Pos()
}

func (m *Module) End() token.Position {
	if len(m.Body) == 0 {
		return token.Position{}
	}
	return m.Body[len(m.Body)-1].End()
}

func (m *Module) String() string {
	return fmt.Sprintf("Module(body=%d stmts)", len(m.Body))
}

type Assign struct {
	span
	Targets []Expr
	Value   Expr
}

func (*Assign) stmtNode() {}
func (a *Assign) String() string {
	return fmt.Sprintf("Assign(targets=%s, value=%s)", joinExprs(a.Targets), a.Value)
}

type Import struct {
	span
	Names []*Alias
}

func (*Import) stmtNode() {}
func (i *Import) String() string {
	names := make([]string, len(i.Names))
	for j, n := range i.Names {
		names[j] = n.String()
	}
	return fmt.Sprintf("Import(names=[%s])", strings.Join(names, ", "))
}

type Pass struct {
	span
}

func (*Pass) stmtNode() {}
func (*Pass) String() string { return "Pass()" }

type ExprStmt struct {
	span
	Value Expr
}

func (*ExprStmt) stmtNode() {}
func (e *ExprStmt) String() string {
	return fmt.Sprintf("Expr(%s)", e.Value)
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// --- Arena-backed construction ---

// Arenas bundles one typed Arena per node variant the driver allocates
// for a single parse. spec.md describes a single untyped bulk
// allocator; this module follows its own §9 design-notes suggestion
// ("indices into typed arenas per AST variant ... preferred for
// aliasing-heavy rewrites") and keeps one generic Arena[T] per variant
// instead, which lets SetExprContext and friends copy a node body
// without any unsafe casting.
type Arenas struct {
	names        *arena.Arena[Name]
	constants    *arena.Arena[Constant]
	attributes   *arena.Arena[Attribute]
	subscripts   *arena.Arena[Subscript]
	tuples       *arena.Arena[Tuple]
	lists        *arena.Arena[List]
	starreds     *arena.Arena[Starred]
	compares     *arena.Arena[Compare]
	args         *arena.Arena[Arg]
	arguments    *arena.Arena[Arguments]
	aliases      *arena.Arena[Alias]
	keywords     *arena.Arena[Keyword]
	functionDefs *arena.Arena[FunctionDef]
	classDefs    *arena.Arena[ClassDef]
	assigns      *arena.Arena[Assign]
	imports      *arena.Arena[Import]
	passes       *arena.Arena[Pass]
	exprStmts    *arena.Arena[ExprStmt]
}

// NewArenas creates an empty set of per-variant arenas for one parse
// invocation. Torn down, all at once, by simply letting the Arenas
// value go out of scope at parse exit (spec.md §4.1 "Teardown frees
// everything").
func NewArenas() *Arenas {
	return &Arenas{
		names:        arena.New[Name](),
		constants:    arena.New[Constant](),
		attributes:   arena.New[Attribute](),
		subscripts:   arena.New[Subscript](),
		tuples:       arena.New[Tuple](),
		lists:        arena.New[List](),
		starreds:     arena.New[Starred](),
		compares:     arena.New[Compare](),
		args:         arena.New[Arg](),
		arguments:    arena.New[Arguments](),
		aliases:      arena.New[Alias](),
		keywords:     arena.New[Keyword](),
		functionDefs: arena.New[FunctionDef](),
		classDefs:    arena.New[ClassDef](),
		assigns:      arena.New[Assign](),
		imports:      arena.New[Import](),
		passes:       arena.New[Pass](),
		exprStmts:    arena.New[ExprStmt](),
	}
}

func (a *Arenas) NewName(id string, ctx ExprContext, start, end token.Position) *Name {
	n := a.names.Alloc()
	n.span = span{start, end}
	n.Id, n.Ctx = id, ctx
	return n
}

func (a *Arenas) NewConstant(value any, start, end token.Position) *Constant {
	c := a.constants.Alloc()
	c.span = span{start, end}
	c.Value = value
	return c
}

func (a *Arenas) NewAttribute(value Expr, attr string, ctx ExprContext, start, end token.Position) *Attribute {
	n := a.attributes.Alloc()
	n.span = span{start, end}
	n.Value, n.Attr, n.Ctx = value, attr, ctx
	return n
}

func (a *Arenas) NewSubscript(value, slice Expr, ctx ExprContext, start, end token.Position) *Subscript {
	n := a.subscripts.Alloc()
	n.span = span{start, end}
	n.Value, n.Slice, n.Ctx = value, slice, ctx
	return n
}

func (a *Arenas) NewTuple(elts []Expr, ctx ExprContext, start, end token.Position) *Tuple {
	n := a.tuples.Alloc()
	n.span = span{start, end}
	n.Elts, n.Ctx = elts, ctx
	return n
}

func (a *Arenas) NewList(elts []Expr, ctx ExprContext, start, end token.Position) *List {
	n := a.lists.Alloc()
	n.span = span{start, end}
	n.Elts, n.Ctx = elts, ctx
	return n
}

func (a *Arenas) NewStarred(value Expr, ctx ExprContext, start, end token.Position) *Starred {
	n := a.starreds.Alloc()
	n.span = span{start, end}
	n.Value, n.Ctx = value, ctx
	return n
}

func (a *Arenas) NewCompare(left Expr, ops []CmpOp, comparators []Expr, start, end token.Position) *Compare {
	n := a.compares.Alloc()
	n.span = span{start, end}
	n.Left, n.Ops, n.Comparators = left, ops, comparators
	return n
}

func (a *Arenas) NewArg(name string, start, end token.Position) *Arg {
	n := a.args.Alloc()
	n.span = span{start, end}
	n.Name = name
	return n
}

func (a *Arenas) NewArguments() *Arguments {
	return a.arguments.Alloc()
}

func (a *Arenas) NewAlias(name, asName string, start, end token.Position) *Alias {
	n := a.aliases.Alloc()
	n.span = span{start, end}
	n.Name, n.AsName = name, asName
	return n
}

func (a *Arenas) NewKeyword(arg string, value Expr) *Keyword {
	n := a.keywords.Alloc()
	n.Arg, n.Value = arg, value
	return n
}

func (a *Arenas) NewFunctionDef(name string, args *Arguments, body []Stmt, decorators []Expr, returns Expr, start, end token.Position) *FunctionDef {
	n := a.functionDefs.Alloc()
	n.span = span{start, end}
	n.Name, n.Args, n.Body, n.DecoratorList, n.Returns = name, args, body, decorators, returns
	return n
}

func (a *Arenas) NewClassDef(name string, bases []Expr, keywords []*Keyword, body []Stmt, decorators []Expr, start, end token.Position) *ClassDef {
	n := a.classDefs.Alloc()
	n.span = span{start, end}
	n.Name, n.Bases, n.Keywords, n.Body, n.DecoratorList = name, bases, keywords, body, decorators
	return n
}

func (a *Arenas) NewAssign(targets []Expr, value Expr, start, end token.Position) *Assign {
	n := a.assigns.Alloc()
	n.span = span{start, end}
	n.Targets, n.Value = targets, value
	return n
}

func (a *Arenas) NewImport(names []*Alias, start, end token.Position) *Import {
	n := a.imports.Alloc()
	n.span = span{start, end}
	n.Names = names
	return n
}

func (a *Arenas) NewPass(start, end token.Position) *Pass {
	n := a.passes.Alloc()
	n.span = span{start, end}
	return n
}

func (a *Arenas) NewExprStmt(value Expr, start, end token.Position) *ExprStmt {
	n := a.exprStmts.Alloc()
	n.span = span{start, end}
	n.Value = value
	return n
}

// EmptyArguments returns the canonical empty arguments() node spec.md
// §4.6.1 describes: all five sequences empty, both optional fields nil.
func (a *Arenas) EmptyArguments() *Arguments {
	return a.NewArguments()
}

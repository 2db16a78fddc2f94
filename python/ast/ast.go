// Package ast declares the types used to represent syntax trees for
// parsed Python source (C4): a tagged-variant set of statement and
// expression nodes, each carrying its IndexSpan, built the way
// cue/ast.go builds CUE's Node/Expr/Decl hierarchy (marker methods over a
// shared embedded header) generalized to Python's grammar.
package ast

import "github.com/gopythonic/pyparse/python/token"

// Node is implemented by every statement and expression node.
type Node interface {
	Pos() token.SourceLocation // start of the node
	End() token.SourceLocation // first position after the node
	Span() token.Span
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Header is the common position header embedded in every node; it is not
// itself a Node, just the field pair every concrete type reuses for
// Pos/End/Span. Exported (unlike the teacher's lower-case span) so the
// parser package can build node literals directly.
type Header struct {
	Start, EndPos token.SourceLocation
}

func (s Header) Pos() token.SourceLocation { return s.Start }
func (s Header) End() token.SourceLocation { return s.EndPos }
func (s Header) Span() token.Span          { return token.NewSpan(s.Start, s.EndPos) }

// NewSpan is a convenience constructor used by the parser when building
// nodes.
func NewSpan(start, end token.SourceLocation) Header { return Header{Start: start, EndPos: end} }

// ----------------------------------------------------------------------------
// Statements

type (
	// Suite is a block of statements (a function/class/if/for/... body).
	Suite struct {
		Header
		Body []Stmt
	}

	// ExpressionStmt wraps a bare expression used as a statement.
	ExpressionStmt struct {
		Header
		Value Expr
	}

	// Assignment is `targets = value` (possibly chained: a = b = value).
	Assignment struct {
		Header
		Targets []Expr
		Value   Expr
	}

	// AugmentedAssignment is `target op= value`.
	AugmentedAssignment struct {
		Header
		Target Expr
		Op     token.Token // e.g. token.PLUS for +=
		Value  Expr
	}

	// AnnotatedAssignment is `target: annotation [= value]` (3.6+).
	AnnotatedAssignment struct {
		Header
		Target     Expr
		Annotation Expr
		Value      Expr // nil if no initializer
	}

	// If is an if/elif/else chain; Orelse holds either the else Suite's
	// statements or a single nested If for an "elif".
	If struct {
		Header
		Test   Expr
		Body   *Suite
		Orelse *Suite // nil if no else/elif
	}

	While struct {
		Header
		Test   Expr
		Body   *Suite
		Orelse *Suite
	}

	For struct {
		Header
		IsAsync bool
		Target  Expr
		Iter    Expr
		Body    *Suite
		Orelse  *Suite
	}

	// WithItem is one `context_manager [as target]` clause.
	WithItem struct {
		Header
		ContextExpr Expr
		OptionalVar Expr // nil if no `as`
	}

	With struct {
		Header
		IsAsync bool
		Items   []*WithItem
		Body    *Suite
	}

	ExceptHandler struct {
		Header
		Type *Expr  // nil for a bare except
		Name string // binding name; "" if none
		Body *Suite
	}

	Try struct {
		Header
		Body     *Suite
		Handlers []*ExceptHandler
		Orelse   *Suite
		Finally  *Suite
	}

	Raise struct {
		Header
		Exc       Expr // nil for a bare `raise`
		Cause     Expr // `raise X from Y` (3.x)
		Value     Expr // `raise X, value` (2.x)
		Traceback Expr // `raise X, value, tb` (2.x)
	}

	Return struct {
		Header
		Value Expr // nil for a bare `return`
	}

	YieldStmt struct {
		Header
		Value Expr
	}

	YieldFromStmt struct {
		Header
		Value Expr
	}

	Break struct{ Header }
	Continue struct{ Header }
	Pass struct{ Header }

	Del struct {
		Header
		Targets []Expr
	}

	Alias struct {
		Header
		Name   string // dotted name, or "*"
		AsName string // "" if no `as`
	}

	Import struct {
		Header
		Names []*Alias
	}

	FromImport struct {
		Header
		DotCount int // leading-dot count for relative imports
		Module   string
		Names    []*Alias // a single Alias{Name: "*"} for `import *`
	}

	Global struct {
		Header
		Names []string
	}

	Nonlocal struct {
		Header
		Names []string
	}

	Assert struct {
		Header
		Test Expr
		Msg  Expr // nil if absent
	}

	// Exec is the 2.x `exec code [in globals[, locals]]` statement.
	Exec struct {
		Header
		Body    Expr
		Globals Expr
		Locals  Expr
	}

	// Print is the 2.x `print` statement.
	Print struct {
		Header
		Dest       Expr // `>>dest`, nil if absent
		Values     []Expr
		TrailingComma bool
	}

	// Parameter is one function parameter.
	Parameter struct {
		Header
		Name       string
		Sublist    []*Parameter // non-nil for a 2.x sublist parameter `(a, b)`
		Annotation Expr         // 3.x
		Default    Expr
		Kind       ParamKind
	}

	Decorator struct {
		Header
		Expr Expr
	}

	FunctionDef struct {
		Header
		IsAsync    bool
		Name       string
		Params     []*Parameter
		Returns    Expr // return annotation, nil if absent
		Body       *Suite
		Decorators []*Decorator
	}

	ClassDef struct {
		Header
		Name       string
		Bases      []Expr
		Keywords   []*Keyword // metaclass=... and other keyword bases, 3.x
		Body       *Suite
		Decorators []*Decorator
	}

	// EmptyStmt is a lone `;` or a blank logical line kept for round-trip
	// fidelity; it carries no semantic content.
	EmptyStmt struct{ Header }

	// ErrorStmt marks a position where statement parsing failed and the
	// parser recovered by skipping to the next synchronizing token.
	ErrorStmt struct {
		Header
		Message string
	}
)

// ParamKind classifies how a Parameter binds.
type ParamKind int

const (
	ParamNormal ParamKind = iota
	ParamStarArgs
	ParamBareStar // the lone `*` marker separating keyword-only params
	ParamDoubleStarKwargs
	ParamPositionalOnlyMarker // the lone `/` marker (3.8+)
)

func (*Suite) stmtNode()                 {}
func (*ExpressionStmt) stmtNode()        {}
func (*Assignment) stmtNode()            {}
func (*AugmentedAssignment) stmtNode()   {}
func (*AnnotatedAssignment) stmtNode()   {}
func (*If) stmtNode()                    {}
func (*While) stmtNode()                 {}
func (*For) stmtNode()                   {}
func (*With) stmtNode()                  {}
func (*Try) stmtNode()                   {}
func (*Raise) stmtNode()                 {}
func (*Return) stmtNode()                {}
func (*YieldStmt) stmtNode()             {}
func (*YieldFromStmt) stmtNode()         {}
func (*Break) stmtNode()                 {}
func (*Continue) stmtNode()              {}
func (*Pass) stmtNode()                  {}
func (*Del) stmtNode()                   {}
func (*Import) stmtNode()                {}
func (*FromImport) stmtNode()            {}
func (*Global) stmtNode()                {}
func (*Nonlocal) stmtNode()              {}
func (*Assert) stmtNode()                {}
func (*Exec) stmtNode()                  {}
func (*Print) stmtNode()                 {}
func (*FunctionDef) stmtNode()           {}
func (*ClassDef) stmtNode()              {}
func (*EmptyStmt) stmtNode()             {}
func (*ErrorStmt) stmtNode()             {}

// ----------------------------------------------------------------------------
// Expressions

type (
	Name struct {
		Header
		Id string
	}

	// ConstantKind classifies a Constant's literal kind.
	ConstantKind int

	Constant struct {
		Header
		Kind  ConstantKind
		Value interface{} // int32, *big.Int, float64, complex128, string, []byte, bool, or nil
	}

	Tuple struct {
		Header
		Elts []Expr
	}

	ListExpr struct {
		Header
		Elts []Expr
	}

	SetExpr struct {
		Header
		Elts []Expr
	}

	// DictItem is one `key: value` pair, or a `**value` unpacking when Key
	// is nil.
	DictItem struct {
		Header
		Key   Expr // nil for `**value`
		Value Expr
	}

	DictExpr struct {
		Header
		Items []*DictItem
	}

	Comprehension struct {
		Header
		IsAsync bool
		Target  Expr
		Iter    Expr
		Ifs     []Expr
	}

	ListComp struct {
		Header
		Elt        Expr
		Generators []*Comprehension
	}

	SetComp struct {
		Header
		Elt        Expr
		Generators []*Comprehension
	}

	DictComp struct {
		Header
		Key        Expr
		Value      Expr
		Generators []*Comprehension
	}

	GeneratorExp struct {
		Header
		Elt        Expr
		Generators []*Comprehension
	}

	Lambda struct {
		Header
		Params []*Parameter
		Body   Expr
	}

	Keyword struct {
		Header
		Name  string // "" for a bare `**expr`
		Value Expr
	}

	Call struct {
		Header
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
	}

	Attribute struct {
		Header
		Value Expr
		Attr  string
	}

	Index struct {
		Header
		Value Expr
		Idx   Expr
	}

	Slice struct {
		Header
		Lower Expr
		Upper Expr
		Step  Expr
	}

	BinOp struct {
		Header
		Left  Expr
		Op    token.Token
		Right Expr
	}

	UnaryOp struct {
		Header
		Op      token.Token
		Operand Expr
	}

	BoolOp struct {
		Header
		Op     token.Token // token.KEYWORD; IsAnd tells "and" from "or"
		IsAnd  bool
		Values []Expr
	}

	Conditional struct {
		Header
		Body   Expr // value if Test
		Test   Expr
		Orelse Expr
	}

	Await struct {
		Header
		Value Expr
	}

	YieldExpr struct {
		Header
		Value Expr // nil for a bare `yield`
	}

	YieldFromExpr struct {
		Header
		Value Expr
	}

	Starred struct {
		Header
		Value Expr
	}

	// NamedExpr is the `target := value` walrus operator (3.8+).
	NamedExpr struct {
		Header
		Target *Name
		Value  Expr
	}

	// Backquote is the 2.x `` `expr` `` repr shorthand.
	Backquote struct {
		Header
		Value Expr
	}

	// FormattedValue is one `{expr[!conv][:spec]}` slot inside an FString.
	FormattedValue struct {
		Header
		Value      Expr
		Conversion rune // 's', 'r', 'a', or 0
		FormatSpec *FormatSpecifier
		Debug      bool // 3.8 `{expr=}` form
	}

	// FormatSpecifier is the (possibly itself interpolated) format-spec
	// body following `:` inside a FormattedValue.
	FormatSpecifier struct {
		Header
		Parts []Expr // Constant(text) and FormattedValue parts, interleaved
	}

	// FString is an f-string literal; Parts interleaves Constant string
	// chunks and FormattedValue slots.
	FString struct {
		Header
		Parts []Expr
	}

	// ExpressionWithAnnotation pairs a bare name with its annotation in a
	// context that is not itself a statement. The parser does not build
	// this node; `x: T` statements parse directly into AnnotatedAssignment.
	ExpressionWithAnnotation struct {
		Header
		Target     Expr
		Annotation Expr
	}

	Parenthesis struct {
		Header
		Value Expr
	}

	EllipsisExpr struct{ Header }

	BadExpr struct {
		Header
		Message string
	}
)

const (
	ConstInt ConstantKind = iota
	ConstBigInt
	ConstFloat
	ConstImaginary
	ConstString
	ConstBytes
	ConstBool
	ConstNone
	ConstEllipsis
)

func (*Name) exprNode()                     {}
func (*Constant) exprNode()                 {}
func (*Tuple) exprNode()                    {}
func (*ListExpr) exprNode()                 {}
func (*SetExpr) exprNode()                  {}
func (*DictExpr) exprNode()                 {}
func (*ListComp) exprNode()                 {}
func (*SetComp) exprNode()                  {}
func (*DictComp) exprNode()                 {}
func (*GeneratorExp) exprNode()             {}
func (*Lambda) exprNode()                   {}
func (*Call) exprNode()                     {}
func (*Attribute) exprNode()                {}
func (*Index) exprNode()                    {}
func (*Slice) exprNode()                    {}
func (*BinOp) exprNode()                    {}
func (*UnaryOp) exprNode()                  {}
func (*BoolOp) exprNode()                   {}
func (*Conditional) exprNode()              {}
func (*Await) exprNode()                    {}
func (*YieldExpr) exprNode()                {}
func (*YieldFromExpr) exprNode()            {}
func (*Starred) exprNode()                  {}
func (*NamedExpr) exprNode()                {}
func (*Backquote) exprNode()                {}
func (*FormattedValue) exprNode()           {}
func (*FormatSpecifier) exprNode()          {}
func (*FString) exprNode()                  {}
func (*ExpressionWithAnnotation) exprNode() {}
func (*Parenthesis) exprNode()              {}
func (*EllipsisExpr) exprNode()             {}
func (*BadExpr) exprNode()                  {}

// ----------------------------------------------------------------------------
// Module

// Module is the root node of a parsed file.
type Module struct {
	Header
	Body []Stmt
}

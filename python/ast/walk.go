package ast

// Visitor describes a pre-order callback: returning true descends into the
// node's children, false skips the subtree. Walk and Inspect take plain
// functions and do not accept a Visitor or PostVisitor. Grounded on
// cue/ast/walk.go's dispatch, generalized to the Python node set and to
// spec.md §4.4's "continuation-returning walker" contract (pre-order
// descend/skip plus a matching post-order callback).
type Visitor interface {
	Visit(n Node) (descend bool)
}

// PostVisitor is called after a node's children have been walked.
type PostVisitor interface {
	PostVisit(n Node)
}

// Walk traverses the tree rooted at n, calling pre(n) before visiting
// children (skipping them if pre returns false) and post(n) (if non-nil)
// after.
func Walk(n Node, pre func(Node) bool, post func(Node)) {
	if n == nil {
		return
	}
	if pre != nil && !pre(n) {
		return
	}
	walkChildren(n, pre, post)
	if post != nil {
		post(n)
	}
}

func walkStmt(s Stmt, pre func(Node) bool, post func(Node)) { Walk(s, pre, post) }
func walkExpr(e Expr, pre func(Node) bool, post func(Node)) { Walk(e, pre, post) }

func walkSuite(s *Suite, pre func(Node) bool, post func(Node)) {
	if s == nil {
		return
	}
	Walk(s, pre, post)
}

func walkChildren(n Node, pre func(Node) bool, post func(Node)) {
	switch x := n.(type) {
	case *Module:
		for _, s := range x.Body {
			walkStmt(s, pre, post)
		}
	case *Suite:
		for _, s := range x.Body {
			walkStmt(s, pre, post)
		}
	case *ExpressionStmt:
		walkExpr(x.Value, pre, post)
	case *Assignment:
		for _, t := range x.Targets {
			walkExpr(t, pre, post)
		}
		walkExpr(x.Value, pre, post)
	case *AugmentedAssignment:
		walkExpr(x.Target, pre, post)
		walkExpr(x.Value, pre, post)
	case *AnnotatedAssignment:
		walkExpr(x.Target, pre, post)
		walkExpr(x.Annotation, pre, post)
		if x.Value != nil {
			walkExpr(x.Value, pre, post)
		}
	case *If:
		walkExpr(x.Test, pre, post)
		walkSuite(x.Body, pre, post)
		if x.Orelse != nil {
			walkSuite(x.Orelse, pre, post)
		}
	case *While:
		walkExpr(x.Test, pre, post)
		walkSuite(x.Body, pre, post)
		if x.Orelse != nil {
			walkSuite(x.Orelse, pre, post)
		}
	case *For:
		walkExpr(x.Target, pre, post)
		walkExpr(x.Iter, pre, post)
		walkSuite(x.Body, pre, post)
		if x.Orelse != nil {
			walkSuite(x.Orelse, pre, post)
		}
	case *With:
		for _, it := range x.Items {
			walkExpr(it.ContextExpr, pre, post)
			if it.OptionalVar != nil {
				walkExpr(it.OptionalVar, pre, post)
			}
		}
		walkSuite(x.Body, pre, post)
	case *Try:
		walkSuite(x.Body, pre, post)
		for _, h := range x.Handlers {
			if h.Type != nil {
				walkExpr(*h.Type, pre, post)
			}
			walkSuite(h.Body, pre, post)
		}
		if x.Orelse != nil {
			walkSuite(x.Orelse, pre, post)
		}
		if x.Finally != nil {
			walkSuite(x.Finally, pre, post)
		}
	case *Raise:
		if x.Exc != nil {
			walkExpr(x.Exc, pre, post)
		}
		if x.Cause != nil {
			walkExpr(x.Cause, pre, post)
		}
		if x.Value != nil {
			walkExpr(x.Value, pre, post)
		}
		if x.Traceback != nil {
			walkExpr(x.Traceback, pre, post)
		}
	case *Return:
		if x.Value != nil {
			walkExpr(x.Value, pre, post)
		}
	case *YieldStmt:
		if x.Value != nil {
			walkExpr(x.Value, pre, post)
		}
	case *YieldFromStmt:
		walkExpr(x.Value, pre, post)
	case *Del:
		for _, t := range x.Targets {
			walkExpr(t, pre, post)
		}
	case *Assert:
		walkExpr(x.Test, pre, post)
		if x.Msg != nil {
			walkExpr(x.Msg, pre, post)
		}
	case *Exec:
		walkExpr(x.Body, pre, post)
		if x.Globals != nil {
			walkExpr(x.Globals, pre, post)
		}
		if x.Locals != nil {
			walkExpr(x.Locals, pre, post)
		}
	case *Print:
		if x.Dest != nil {
			walkExpr(x.Dest, pre, post)
		}
		for _, v := range x.Values {
			walkExpr(v, pre, post)
		}
	case *FunctionDef:
		for _, d := range x.Decorators {
			walkExpr(d.Expr, pre, post)
		}
		for _, p := range x.Params {
			walkParam(p, pre, post)
		}
		if x.Returns != nil {
			walkExpr(x.Returns, pre, post)
		}
		walkSuite(x.Body, pre, post)
	case *ClassDef:
		for _, d := range x.Decorators {
			walkExpr(d.Expr, pre, post)
		}
		for _, b := range x.Bases {
			walkExpr(b, pre, post)
		}
		for _, k := range x.Keywords {
			walkExpr(k.Value, pre, post)
		}
		walkSuite(x.Body, pre, post)

	case *Name, *Constant, *EllipsisExpr, *Break, *Continue, *Pass, *EmptyStmt,
		*ErrorStmt, *BadExpr, *Global, *Nonlocal, *Import:
		// leaf nodes

	case *FromImport:
		// leaf: Names carry no sub-expressions
	case *Tuple:
		for _, e := range x.Elts {
			walkExpr(e, pre, post)
		}
	case *ListExpr:
		for _, e := range x.Elts {
			walkExpr(e, pre, post)
		}
	case *SetExpr:
		for _, e := range x.Elts {
			walkExpr(e, pre, post)
		}
	case *DictExpr:
		for _, it := range x.Items {
			if it.Key != nil {
				walkExpr(it.Key, pre, post)
			}
			walkExpr(it.Value, pre, post)
		}
	case *ListComp:
		walkExpr(x.Elt, pre, post)
		walkGenerators(x.Generators, pre, post)
	case *SetComp:
		walkExpr(x.Elt, pre, post)
		walkGenerators(x.Generators, pre, post)
	case *DictComp:
		walkExpr(x.Key, pre, post)
		walkExpr(x.Value, pre, post)
		walkGenerators(x.Generators, pre, post)
	case *GeneratorExp:
		walkExpr(x.Elt, pre, post)
		walkGenerators(x.Generators, pre, post)
	case *Lambda:
		for _, p := range x.Params {
			walkParam(p, pre, post)
		}
		walkExpr(x.Body, pre, post)
	case *Call:
		walkExpr(x.Func, pre, post)
		for _, a := range x.Args {
			walkExpr(a, pre, post)
		}
		for _, k := range x.Keywords {
			walkExpr(k.Value, pre, post)
		}
	case *Attribute:
		walkExpr(x.Value, pre, post)
	case *Index:
		walkExpr(x.Value, pre, post)
		walkExpr(x.Idx, pre, post)
	case *Slice:
		if x.Lower != nil {
			walkExpr(x.Lower, pre, post)
		}
		if x.Upper != nil {
			walkExpr(x.Upper, pre, post)
		}
		if x.Step != nil {
			walkExpr(x.Step, pre, post)
		}
	case *BinOp:
		walkExpr(x.Left, pre, post)
		walkExpr(x.Right, pre, post)
	case *UnaryOp:
		walkExpr(x.Operand, pre, post)
	case *BoolOp:
		for _, v := range x.Values {
			walkExpr(v, pre, post)
		}
	case *Conditional:
		walkExpr(x.Body, pre, post)
		walkExpr(x.Test, pre, post)
		walkExpr(x.Orelse, pre, post)
	case *Await:
		walkExpr(x.Value, pre, post)
	case *YieldExpr:
		if x.Value != nil {
			walkExpr(x.Value, pre, post)
		}
	case *YieldFromExpr:
		walkExpr(x.Value, pre, post)
	case *Starred:
		walkExpr(x.Value, pre, post)
	case *NamedExpr:
		walkExpr(x.Target, pre, post)
		walkExpr(x.Value, pre, post)
	case *Backquote:
		walkExpr(x.Value, pre, post)
	case *FormattedValue:
		walkExpr(x.Value, pre, post)
		if x.FormatSpec != nil {
			walkExpr(x.FormatSpec, pre, post)
		}
	case *FormatSpecifier:
		for _, p := range x.Parts {
			walkExpr(p, pre, post)
		}
	case *FString:
		for _, p := range x.Parts {
			walkExpr(p, pre, post)
		}
	case *ExpressionWithAnnotation:
		walkExpr(x.Target, pre, post)
		walkExpr(x.Annotation, pre, post)
	case *Parenthesis:
		walkExpr(x.Value, pre, post)
	}
}

func walkParam(p *Parameter, pre func(Node) bool, post func(Node)) {
	if p == nil {
		return
	}
	for _, s := range p.Sublist {
		walkParam(s, pre, post)
	}
	if p.Annotation != nil {
		walkExpr(p.Annotation, pre, post)
	}
	if p.Default != nil {
		walkExpr(p.Default, pre, post)
	}
}

func walkGenerators(gens []*Comprehension, pre func(Node) bool, post func(Node)) {
	for _, g := range gens {
		walkExpr(g.Target, pre, post)
		walkExpr(g.Iter, pre, post)
		for _, c := range g.Ifs {
			walkExpr(c, pre, post)
		}
	}
}

// Inspect is a convenience wrapper matching the common pre-order-only use
// case: f is called for every node in pre-order, and never with nil
// (unlike go/ast.Inspect). f returning false skips the subtree.
func Inspect(n Node, f func(Node) bool) {
	Walk(n, f, nil)
}

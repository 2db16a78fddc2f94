package parser

import pyast "github.com/gopythonic/pyparse/python/ast"

// checkAssignable verifies that e is legal on the left of `=`, as an
// assignment target inside a for-loop, or as a with-item's `as` binding,
// recording the canonical "can't assign to ..." diagnostics from
// spec.md §7 when it is not.
func (p *parser) checkAssignable(e pyast.Expr) {
	switch t := e.(type) {
	case *pyast.Name, *pyast.Attribute, *pyast.Index:
		// always assignable
	case *pyast.Starred:
		p.checkAssignable(t.Value)
	case *pyast.Tuple:
		p.checkTargetList(t.Elts)
	case *pyast.ListExpr:
		p.checkTargetList(t.Elts)
	case *pyast.Parenthesis:
		p.checkAssignable(t.Value)
	case *pyast.NamedExpr:
		p.errorf(t.Span(), "can't assign to named expression")
	default:
		p.errorf(e.Span(), "can't assign to %s", describeExprKind(e))
	}
}

// checkTargetList applies checkAssignable to every element of a
// tuple/list assignment target and enforces the "at most one starred
// target" rule.
func (p *parser) checkTargetList(elts []pyast.Expr) {
	starCount := 0
	for _, el := range elts {
		p.checkAssignable(el)
		if _, ok := el.(*pyast.Starred); ok {
			starCount++
		}
	}
	if starCount > 1 {
		for _, el := range elts {
			if s, ok := el.(*pyast.Starred); ok {
				p.errorf(s.Span(), "two starred expressions in assignment")
				break
			}
		}
	}
}

// checkDeletable verifies that e is legal as a `del` target, per
// spec.md §8 scenario G's exact message catalog.
func (p *parser) checkDeletable(e pyast.Expr) {
	switch t := e.(type) {
	case *pyast.Name, *pyast.Attribute, *pyast.Index:
		// always deletable
	case *pyast.Tuple:
		for _, el := range t.Elts {
			p.checkDeletable(el)
		}
	case *pyast.ListExpr:
		for _, el := range t.Elts {
			p.checkDeletable(el)
		}
	case *pyast.Parenthesis:
		p.checkDeletable(t.Value)
	default:
		p.errorf(e.Span(), "can't delete %s", describeExprKind(e))
	}
}

// checkAugAssignable verifies that e is legal on the left of an
// augmented assignment (`+=` and friends): a single Name/Attribute/Index
// target, never a tuple or list display.
func (p *parser) checkAugAssignable(e pyast.Expr) {
	switch e.(type) {
	case *pyast.Name, *pyast.Attribute, *pyast.Index:
		return
	default:
		p.errorf(e.Span(), "illegal expression for augmented assignment")
	}
}

// describeExprKind names e the way CPython's error messages do, for the
// "can't assign to"/"can't delete" diagnostics.
func describeExprKind(e pyast.Expr) string {
	switch e.(type) {
	case *pyast.Constant:
		return "literal"
	case *pyast.BinOp:
		return "binary operator"
	case *pyast.UnaryOp:
		return "unary operator"
	case *pyast.BoolOp:
		return "boolean operation"
	case *pyast.Call:
		return "function call"
	case *pyast.Lambda:
		return "lambda"
	case *pyast.Conditional:
		return "conditional expression"
	case *pyast.GeneratorExp:
		return "generator expression"
	case *pyast.ListComp:
		return "list comprehension"
	case *pyast.SetComp:
		return "set comprehension"
	case *pyast.DictComp:
		return "dict comprehension"
	case *pyast.Await:
		return "await expression"
	case *pyast.YieldExpr, *pyast.YieldFromExpr:
		return "yield expression"
	case *pyast.DictExpr:
		return "dict display"
	case *pyast.SetExpr:
		return "set display"
	case *pyast.Slice:
		return "slice"
	case *pyast.FString:
		return "f-string expression"
	case *pyast.EllipsisExpr:
		return "Ellipsis"
	default:
		return "expression"
	}
}

package ast

import (
	"testing"

	"github.com/gopythonic/pyparse/python/token"
)

func loc(idx, line, col int) token.SourceLocation {
	return token.SourceLocation{Index: idx, Line: line, Column: col}
}

func TestHeaderPosEndSpan(t *testing.T) {
	start := loc(0, 1, 1)
	end := loc(5, 1, 6)
	n := &Name{Header: NewSpan(start, end), Id: "x"}
	if n.Pos() != start {
		t.Errorf("Pos() = %+v; want %+v", n.Pos(), start)
	}
	if n.End() != end {
		t.Errorf("End() = %+v; want %+v", n.End(), end)
	}
	if got := n.Span(); got.Start != start || got.End != end {
		t.Errorf("Span() = %+v; want start=%+v end=%+v", got, start, end)
	}
}

// buildSample constructs: x = y + 1
func buildSample() *Module {
	x := &Name{Header: NewSpan(loc(0, 1, 1), loc(1, 1, 2)), Id: "x"}
	y := &Name{Header: NewSpan(loc(4, 1, 5), loc(5, 1, 6)), Id: "y"}
	one := &Constant{Header: NewSpan(loc(8, 1, 9), loc(9, 1, 10)), Kind: ConstInt, Value: int32(1)}
	add := &BinOp{Header: NewSpan(loc(4, 1, 5), loc(9, 1, 10)), Left: y, Op: token.PLUS, Right: one}
	assign := &Assignment{Header: NewSpan(loc(0, 1, 1), loc(9, 1, 10)), Targets: []Expr{x}, Value: add}
	return &Module{Header: NewSpan(loc(0, 1, 1), loc(10, 1, 11)), Body: []Stmt{assign}}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	mod := buildSample()
	var visited []Node
	Walk(mod, func(n Node) bool {
		visited = append(visited, n)
		return true
	}, nil)
	// Module, Assignment, Name(x), BinOp, Name(y), Constant(1)
	if len(visited) != 6 {
		t.Fatalf("visited %d nodes; want 6 (got %#v)", len(visited), visited)
	}
	if _, ok := visited[0].(*Module); !ok {
		t.Errorf("first visited node should be the Module, got %T", visited[0])
	}
}

func TestWalkSkipsSubtreeWhenPreReturnsFalse(t *testing.T) {
	mod := buildSample()
	var visited []Node
	Walk(mod, func(n Node) bool {
		visited = append(visited, n)
		_, isBinOp := n.(*BinOp)
		return !isBinOp
	}, nil)
	for _, n := range visited {
		if _, ok := n.(*Name); ok {
			if n.(*Name).Id == "y" {
				t.Errorf("descending into BinOp's children should have been skipped, but visited Name(y)")
			}
		}
	}
}

func TestWalkPostOrderRunsAfterChildren(t *testing.T) {
	mod := buildSample()
	var order []string
	label := func(n Node) string {
		switch x := n.(type) {
		case *Module:
			return "Module"
		case *Assignment:
			return "Assignment"
		case *Name:
			return "Name:" + x.Id
		case *BinOp:
			return "BinOp"
		case *Constant:
			return "Constant"
		}
		return "?"
	}
	Walk(mod, nil, func(n Node) {
		order = append(order, label(n))
	})
	if order[len(order)-1] != "Module" {
		t.Errorf("Module should be the last node visited in post-order, got order=%v", order)
	}
	if order[0] != "Name:x" {
		t.Errorf("Name(x) is the Assignment's first walked child and has no children of its own, so it should finish first in post-order; got order=%v", order)
	}
}

func TestInspectStopsDescentOnFalse(t *testing.T) {
	mod := buildSample()
	count := 0
	Inspect(mod, func(n Node) bool {
		count++
		_, isAssignment := n.(*Assignment)
		return !isAssignment
	})
	if count != 2 {
		t.Errorf("Inspect visited %d nodes; want 2 (Module, Assignment) since Assignment's children should be skipped", count)
	}
}

func TestExceptHandlerBareHasNilType(t *testing.T) {
	h := &ExceptHandler{Header: NewSpan(loc(0, 1, 1), loc(1, 1, 2))}
	if h.Type != nil {
		t.Errorf("bare except handler should have a nil Type")
	}
}

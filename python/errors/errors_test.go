package errors

import (
	"testing"

	"github.com/gopythonic/pyparse/python/token"
)

func loc(index, line, col int) token.SourceLocation {
	return token.SourceLocation{Index: index, Line: line, Column: col}
}

func span(startIdx, startLine, startCol, endCol int) token.Span {
	return token.NewSpan(loc(startIdx, startLine, startCol), loc(startIdx+(endCol-startCol), startLine, endCol))
}

func TestSinkAddAndHasErrors(t *testing.T) {
	var s Sink
	if s.HasErrors() {
		t.Fatalf("empty sink should have no errors")
	}
	s.Add(span(0, 1, 1, 2), "bad token %q", "x")
	if !s.HasErrors() {
		t.Errorf("sink with an Error-severity diagnostic should report HasErrors")
	}
	if got := s.List()[0].Message; got != `bad token "x"` {
		t.Errorf("Message = %q; want %q", got, `bad token "x"`)
	}
}

func TestSinkAddSeverityDoesNotCountAsError(t *testing.T) {
	var s Sink
	s.AddSeverity(span(0, 1, 1, 2), Hint, "inconsistent indentation")
	if s.HasErrors() {
		t.Errorf("a Hint-severity diagnostic should not count as HasErrors")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d; want 1", s.Len())
	}
}

func TestSinkSortOrdersByPositionThenMessage(t *testing.T) {
	var s Sink
	s.Add(span(10, 2, 1, 2), "second")
	s.Add(span(0, 1, 1, 2), "z-message")
	s.Add(span(0, 1, 1, 2), "a-message")
	s.Sort()
	list := s.List()
	if list[0].Message != "a-message" || list[1].Message != "z-message" || list[2].Message != "second" {
		t.Errorf("Sort order = %v; want [a-message z-message second]", list)
	}
}

func TestRemoveMultiplesKeepsFirstPerLine(t *testing.T) {
	var s Sink
	s.Add(span(0, 1, 1, 2), "first on line 1")
	s.Add(span(1, 1, 2, 3), "second on line 1")
	s.Add(span(10, 2, 1, 2), "first on line 2")
	s.RemoveMultiples()
	list := s.List()
	if len(list) != 2 {
		t.Fatalf("RemoveMultiples left %d diagnostics; want 2", len(list))
	}
	if list[0].Message != "first on line 1" || list[1].Message != "first on line 2" {
		t.Errorf("unexpected surviving diagnostics: %v", list)
	}
}

func TestSinkResetClears(t *testing.T) {
	var s Sink
	s.Add(span(0, 1, 1, 2), "oops")
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Reset did not clear the sink")
	}
}

func TestSeverityString(t *testing.T) {
	if Error.String() != "error" || Warning.String() != "warning" || Hint.String() != "hint" {
		t.Errorf("Severity.String() mismatch: error=%q warning=%q hint=%q", Error.String(), Warning.String(), Hint.String())
	}
}

func TestHandlerForwardsIntoSink(t *testing.T) {
	var s Sink
	h := s.Handler()
	h(span(0, 1, 1, 2), Warning, "from handler: %d", 42)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", s.Len())
	}
	got := s.List()[0]
	if got.Severity != Warning || got.Message != "from handler: 42" {
		t.Errorf("got %+v", got)
	}
}

func TestDetailsRendersAllDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{Message: "one", Span: span(0, 1, 1, 2), Severity: Error},
		{Message: "two", Span: span(0, 2, 1, 2), Severity: Hint},
	}
	out := Details(diags)
	if out == "" {
		t.Errorf("Details returned empty string for non-empty diagnostics")
	}
}

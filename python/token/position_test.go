package token

import "testing"

func TestSourceLocationIsValid(t *testing.T) {
	var zero SourceLocation
	if zero.IsValid() {
		t.Errorf("zero SourceLocation should not be valid")
	}
	loc := SourceLocation{Index: 3, Line: 1, Column: 4}
	if !loc.IsValid() {
		t.Errorf("SourceLocation with Line > 0 should be valid")
	}
}

func TestAddColumnsWithinLine(t *testing.T) {
	base := SourceLocation{Index: 10, Line: 2, Column: 5}
	got := base.AddColumns(3)
	want := SourceLocation{Index: 13, Line: 2, Column: 8}
	if got != want {
		t.Errorf("AddColumns(3) = %+v; want %+v", got, want)
	}
}

func TestAddColumnsFloorsAtColumnOne(t *testing.T) {
	base := SourceLocation{Index: 10, Line: 2, Column: 5}
	got := base.AddColumns(-100)
	want := SourceLocation{Index: 6, Line: 2, Column: 1}
	if got != want {
		t.Errorf("AddColumns(-100) = %+v; want %+v (should floor at column 1, never cross a line)", got, want)
	}
}

func TestFilePositionAndLineTable(t *testing.T) {
	src := "abc\ndef\nghi"
	f := NewFile("t.py", len(src))
	for i, ch := range src {
		if ch == '\n' {
			f.AddLine(i + 1)
		}
	}
	tests := []struct {
		offset int
		line   int
		col    int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
	}
	for _, tt := range tests {
		got := f.Position(tt.offset)
		if got.Line != tt.line || got.Column != tt.col {
			t.Errorf("Position(%d) = %d:%d; want %d:%d", tt.offset, got.Line, got.Column, tt.line, tt.col)
		}
	}
}

// TestInitialSourceLocationShift covers spec.md §8 scenario A: parsing an
// island of source embedded at a non-trivial offset in a larger file must
// report positions shifted by the configured initial location, and a
// multi-line island's later lines must NOT inherit the initial column.
func TestInitialSourceLocationShift(t *testing.T) {
	src := "x\ny"
	f := NewFile("t.py", len(src))
	f.AddLine(2)
	f.SetInitialLocation(SourceLocation{Index: 100, Line: 5, Column: 9})

	first := f.Position(0)
	if want := (SourceLocation{Index: 100, Line: 5, Column: 9}); first != want {
		t.Errorf("first line position = %+v; want %+v", first, want)
	}

	second := f.Position(2)
	if second.Line != 6 {
		t.Errorf("second line number = %d; want 6", second.Line)
	}
	if second.Column != 1 {
		t.Errorf("second line column = %d; want 1 (initial column shift applies only to line 1)", second.Column)
	}
}

func TestSpanString(t *testing.T) {
	sameLine := NewSpan(SourceLocation{Line: 1, Column: 1}, SourceLocation{Line: 1, Column: 5})
	if got, want := sameLine.String(), "1:1-5"; got != want {
		t.Errorf("same-line Span.String() = %q; want %q", got, want)
	}
	crossLine := NewSpan(SourceLocation{Line: 1, Column: 1}, SourceLocation{Line: 2, Column: 3})
	if got, want := crossLine.String(), "1:1-2:3"; got != want {
		t.Errorf("cross-line Span.String() = %q; want %q", got, want)
	}
}

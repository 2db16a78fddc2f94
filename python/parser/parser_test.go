package parser

import (
	"testing"

	pyast "github.com/gopythonic/pyparse/python/ast"
	"github.com/gopythonic/pyparse/python/errors"
	"github.com/gopythonic/pyparse/python/token"
	"github.com/gopythonic/pyparse/python/version"
)

func parse(t *testing.T, src string, v version.Version) (*pyast.Module, *errors.Sink) {
	t.Helper()
	mod, sink, err := ParseFile("t.py", []byte(src), Options{LanguageVersion: v})
	if err != nil {
		t.Fatalf("ParseFile returned an error: %v", err)
	}
	return mod, sink
}

func soleStmt(t *testing.T, mod *pyast.Module) pyast.Stmt {
	t.Helper()
	if len(mod.Body) != 1 {
		t.Fatalf("module has %d statements; want 1 (%#v)", len(mod.Body), mod.Body)
	}
	return mod.Body[0]
}

// --- basic grammar sanity -------------------------------------------------

func TestParseSimpleAssignment(t *testing.T) {
	mod, sink := parse(t, "x = 1\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	asgn, ok := soleStmt(t, mod).(*pyast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", soleStmt(t, mod))
	}
	if len(asgn.Targets) != 1 {
		t.Fatalf("want 1 target, got %d", len(asgn.Targets))
	}
	name, ok := asgn.Targets[0].(*pyast.Name)
	if !ok || name.Id != "x" {
		t.Errorf("target = %#v; want Name(x)", asgn.Targets[0])
	}
}

func TestParseChainedAssignment(t *testing.T) {
	mod, sink := parse(t, "a = b = 1\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	asgn := soleStmt(t, mod).(*pyast.Assignment)
	if len(asgn.Targets) != 2 {
		t.Fatalf("want 2 targets, got %d", len(asgn.Targets))
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    1\nelif b:\n    2\nelse:\n    3\n"
	mod, sink := parse(t, src, version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	top := soleStmt(t, mod).(*pyast.If)
	if top.Orelse == nil || len(top.Orelse.Body) != 1 {
		t.Fatalf("expected elif to produce a nested If in Orelse")
	}
	elif, ok := top.Orelse.Body[0].(*pyast.If)
	if !ok {
		t.Fatalf("expected Orelse to wrap a nested If for elif, got %T", top.Orelse.Body[0])
	}
	if elif.Orelse == nil || len(elif.Orelse.Body) != 1 {
		t.Fatalf("expected a final else clause")
	}
}

// --- chained comparison desugaring ----------------------------------------

// TestChainedComparisonDesugarsToConjunction covers the "a < b <= c" case:
// since ast.go has no dedicated n-ary Compare node, chained comparisons
// desugar to a BoolOp conjunction of adjacent pairwise BinOps.
func TestChainedComparisonDesugarsToConjunction(t *testing.T) {
	mod, sink := parse(t, "a < b <= c\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	bo, ok := stmt.Value.(*pyast.BoolOp)
	if !ok {
		t.Fatalf("expected *ast.BoolOp, got %T", stmt.Value)
	}
	if !bo.IsAnd || len(bo.Values) != 2 {
		t.Fatalf("expected a 2-element AND conjunction, got IsAnd=%v len=%d", bo.IsAnd, len(bo.Values))
	}
	first := bo.Values[0].(*pyast.BinOp)
	second := bo.Values[1].(*pyast.BinOp)
	if first.Op != token.LT {
		t.Errorf("first comparison op = %v; want LT", first.Op)
	}
	if second.Op != token.LE {
		t.Errorf("second comparison op = %v; want LE", second.Op)
	}
}

// TestComparisonOperatorsDistinguishInIsNotIn covers the reason the
// IS/ISNOT/IN/NOTIN tokens were added: `in`, `is`, `is not`, and `not in`
// must each produce a distinguishable BinOp.Op.
func TestComparisonOperatorsDistinguishInIsNotIn(t *testing.T) {
	tests := []struct {
		src  string
		want token.Token
	}{
		{"a in b\n", token.IN},
		{"a not in b\n", token.NOTIN},
		{"a is b\n", token.IS},
		{"a is not b\n", token.ISNOT},
	}
	for _, tt := range tests {
		mod, sink := parse(t, tt.src, version.V38)
		if sink.HasErrors() {
			t.Fatalf("%q: unexpected errors: %v", tt.src, sink.List())
		}
		stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
		bin, ok := stmt.Value.(*pyast.BinOp)
		if !ok {
			t.Fatalf("%q: expected *ast.BinOp, got %T", tt.src, stmt.Value)
		}
		if bin.Op != tt.want {
			t.Errorf("%q: Op = %v; want %v", tt.src, bin.Op, tt.want)
		}
	}
}

// --- f-strings -------------------------------------------------------------

// TestFStringReplacementFieldUnder36 covers spec.md §8 scenario B: a
// basic f-string replacement field `f'{x}'` under 3.6 should produce a
// single FormattedValue wrapping a bare Name, with no conversion/spec.
func TestFStringReplacementFieldUnder36(t *testing.T) {
	mod, sink := parse(t, "f'{x}'\n", version.V36)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	fs, ok := stmt.Value.(*pyast.FString)
	if !ok {
		t.Fatalf("expected *ast.FString, got %T", stmt.Value)
	}
	if len(fs.Parts) != 1 {
		t.Fatalf("want 1 part, got %d (%#v)", len(fs.Parts), fs.Parts)
	}
	fv, ok := fs.Parts[0].(*pyast.FormattedValue)
	if !ok {
		t.Fatalf("expected *ast.FormattedValue, got %T", fs.Parts[0])
	}
	name, ok := fv.Value.(*pyast.Name)
	if !ok || name.Id != "x" {
		t.Errorf("FormattedValue.Value = %#v; want Name(x)", fv.Value)
	}
	if fv.Conversion != 0 || fv.FormatSpec != nil || fv.Debug {
		t.Errorf("expected no conversion/spec/debug, got %+v", fv)
	}
}

// TestFStringEscapedBraceThenClose covers spec.md §8 scenario C:
// f'{{ mistake}' escapes the opening brace, and the lone trailing '}'
// closes that escape and is itself taken literally, so the whole body
// reads as a single literal chunk with no error.
func TestFStringEscapedBraceThenClose(t *testing.T) {
	mod, sink := parse(t, "f'{{ mistake}'\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	fs, ok := stmt.Value.(*pyast.FString)
	if !ok {
		t.Fatalf("expected *ast.FString, got %T", stmt.Value)
	}
	if len(fs.Parts) != 1 {
		t.Fatalf("want 1 literal-text part, got %d", len(fs.Parts))
	}
	c, ok := fs.Parts[0].(*pyast.Constant)
	if !ok || c.Value != "{ mistake}" {
		t.Errorf("literal part = %#v; want Constant(\"{ mistake}\")", fs.Parts[0])
	}
}

// TestFStringEscapedBraceNoTrailingCloseIsError covers spec.md §8 scenario
// C's companion case: f'{{ mistake' never pays off the escape's owed
// closing '}', which is the same "expecting '}'" error an unclosed
// replacement field produces.
func TestFStringEscapedBraceNoTrailingCloseIsError(t *testing.T) {
	_, sink := parse(t, "f'{{ mistake'\n", version.V38)
	if !sink.HasErrors() {
		t.Fatalf("expected an error for the unclosed '{{' escape")
	}
}

func TestFStringPrefixVersionGate(t *testing.T) {
	_, sink := parse(t, "f'{x}'\n", version.V35)
	if !sink.HasErrors() {
		t.Fatalf("f-strings should be rejected under 3.5")
	}
}

// TestFStringDebugEquals38 covers the 3.8 `{expr=}` debug form.
func TestFStringDebugEquals38(t *testing.T) {
	mod, sink := parse(t, "f'{x=}'\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	fs := stmt.Value.(*pyast.FString)
	fv := fs.Parts[0].(*pyast.FormattedValue)
	if !fv.Debug {
		t.Errorf("expected Debug=true for f'{x=}'")
	}
}

func TestFStringDebugEqualsRejectedBefore38(t *testing.T) {
	_, sink := parse(t, "f'{x=}'\n", version.V37)
	if !sink.HasErrors() {
		t.Fatalf("f-string debug specifier should be rejected before 3.8")
	}
}

func TestStringConcatenationPlain(t *testing.T) {
	mod, sink := parse(t, "'a' 'b'\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	c, ok := stmt.Value.(*pyast.Constant)
	if !ok || c.Value != "ab" {
		t.Errorf("concatenated string = %#v; want Constant(\"ab\")", stmt.Value)
	}
}

func TestStringConcatenationWithFStringMerges(t *testing.T) {
	mod, sink := parse(t, "'a' f'{x}' 'b'\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	fs, ok := stmt.Value.(*pyast.FString)
	if !ok {
		t.Fatalf("expected the whole run to merge into one *ast.FString, got %T", stmt.Value)
	}
	if len(fs.Parts) != 3 {
		t.Fatalf("want 3 parts (text, expr, text), got %d (%#v)", len(fs.Parts), fs.Parts)
	}
	if _, ok := fs.Parts[0].(*pyast.Constant); !ok {
		t.Errorf("first part should be a plain Constant, got %T", fs.Parts[0])
	}
	if _, ok := fs.Parts[1].(*pyast.FormattedValue); !ok {
		t.Errorf("second part should be a FormattedValue, got %T", fs.Parts[1])
	}
}

// --- assignment/delete target legality ------------------------------------

// TestCantAssignToNamedExpr covers spec.md §8 scenario H.
func TestCantAssignToNamedExpr(t *testing.T) {
	_, sink := parse(t, "(a := 1) = 1\n", version.V38)
	found := false
	for _, d := range sink.List() {
		if d.Message == "can't assign to named expression" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"can't assign to named expression\"; got %v", sink.List())
	}
}

func TestCantAssignToLiteral(t *testing.T) {
	_, sink := parse(t, "1 = 2\n", version.V38)
	found := false
	for _, d := range sink.List() {
		if d.Message == "can't assign to literal" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"can't assign to literal\"; got %v", sink.List())
	}
}

// TestDeleteTargetDiagnostics covers spec.md §8 scenario G's exact
// message catalog for `del`.
func TestDeleteTargetDiagnostics(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"del 1\n", "can't delete literal"},
		{"del a + b\n", "can't delete binary operator"},
		{"del f()\n", "can't delete function call"},
	}
	for _, tt := range tests {
		_, sink := parse(t, tt.src, version.V38)
		found := false
		for _, d := range sink.List() {
			if d.Message == tt.want {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: expected %q; got %v", tt.src, tt.want, sink.List())
		}
	}
}

func TestDeleteValidTargetsNoError(t *testing.T) {
	_, sink := parse(t, "del a, b.c, d[0]\n", version.V38)
	if sink.HasErrors() {
		t.Errorf("unexpected errors deleting valid targets: %v", sink.List())
	}
}

func TestTwoStarredExpressionsInAssignment(t *testing.T) {
	_, sink := parse(t, "*a, *b = c\n", version.V38)
	found := false
	for _, d := range sink.List() {
		if d.Message == "two starred expressions in assignment" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"two starred expressions in assignment\"; got %v", sink.List())
	}
}

func TestForTargetAssignabilityChecked(t *testing.T) {
	_, sink := parse(t, "for 1 in x:\n    pass\n", version.V38)
	if !sink.HasErrors() {
		t.Fatalf("expected an error assigning a for-loop target to a literal")
	}
}

func TestAugAssignRejectsTupleTarget(t *testing.T) {
	_, sink := parse(t, "(a, b) += c\n", version.V38)
	if !sink.HasErrors() {
		t.Fatalf("expected an error for a tuple augmented-assignment target")
	}
}

// --- version-gated features -----------------------------------------------

// TestMatMulVersionGate covers spec.md §8 scenario E: `1 @ 2` is rejected
// before 3.5 and accepted from 3.5.
func TestMatMulVersionGate(t *testing.T) {
	_, sink := parse(t, "1 @ 2\n", version.New(3, 4))
	if !sink.HasErrors() {
		t.Fatalf("expected '@' as a binary operator to be rejected before 3.5")
	}
	found := false
	for _, d := range sink.List() {
		if d.Message == "unexpected token '@'" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diagnostic text %q, got %v", "unexpected token '@'", sink.List())
	}
	mod, sink2 := parse(t, "1 @ 2\n", version.V35)
	if sink2.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink2.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	bin, ok := stmt.Value.(*pyast.BinOp)
	if !ok || bin.Op != token.AT {
		t.Errorf("expected a BinOp with Op=AT, got %#v", stmt.Value)
	}
}

// TestReturnValueInGeneratorVersionGate covers spec.md §8 scenario I:
// `return value` inside a generator (a function containing `yield`) is
// rejected at 3.2 and accepted from 3.3.
func TestReturnValueInGeneratorVersionGate(t *testing.T) {
	src := "def f():\n    yield 1\n    return 2\n"
	_, sink := parse(t, src, version.V32)
	if !sink.HasErrors() {
		t.Fatalf("expected 'return' with argument inside a generator to be rejected at 3.2")
	}
	_, sink2 := parse(t, src, version.V33)
	if sink2.HasErrors() {
		t.Fatalf("unexpected errors at 3.3: %v", sink2.List())
	}
}

// TestPrintStatementVersionSplit covers spec.md §8 scenario J: `print x`
// parses as the 2.x print statement under 2.7, and as a syntax error
// (bare name `print` followed by another expression) under 3.x.
func TestPrintStatementVersionSplit(t *testing.T) {
	mod, sink := parse(t, "print x\n", version.V27)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors under 2.7: %v", sink.List())
	}
	if _, ok := soleStmt(t, mod).(*pyast.Print); !ok {
		t.Fatalf("expected *ast.Print under 2.7, got %T", soleStmt(t, mod))
	}

	_, sink2 := parse(t, "print x\n", version.V37)
	if !sink2.HasErrors() {
		t.Fatalf("expected an error parsing 'print x' as two adjacent expressions under 3.x")
	}
}

func TestNonlocalRequires3x(t *testing.T) {
	src := "def f():\n    def g():\n        nonlocal x\n"
	_, sink := parse(t, src, version.V27)
	if !sink.HasErrors() {
		t.Fatalf("expected 'nonlocal' to be rejected under 2.x")
	}
}

func TestNamedExprVersionGate(t *testing.T) {
	_, sink := parse(t, "(x := 1)\n", version.V37)
	if !sink.HasErrors() {
		t.Fatalf("expected named expressions to be rejected before 3.8")
	}
}

// --- break/continue/yield/return legality ---------------------------------

func TestBreakOutsideLoop(t *testing.T) {
	_, sink := parse(t, "break\n", version.V38)
	found := false
	for _, d := range sink.List() {
		if d.Message == "'break' outside loop" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"'break' outside loop\"; got %v", sink.List())
	}
}

func TestContinueInsideLoopOK(t *testing.T) {
	_, sink := parse(t, "while True:\n    continue\n", version.V38)
	if sink.HasErrors() {
		t.Errorf("unexpected errors: %v", sink.List())
	}
}

func TestContinueInFinallyVersionGate(t *testing.T) {
	src := "while True:\n    try:\n        pass\n    finally:\n        continue\n"
	_, sink := parse(t, src, version.V37)
	if !sink.HasErrors() {
		t.Fatalf("expected 'continue' inside 'finally' to be rejected before 3.8")
	}
	_, sink2 := parse(t, src, version.V38)
	if sink2.HasErrors() {
		t.Fatalf("unexpected errors at 3.8: %v", sink2.List())
	}
}

func TestReturnOutsideFunction(t *testing.T) {
	_, sink := parse(t, "return 1\n", version.V38)
	found := false
	for _, d := range sink.List() {
		if d.Message == "'return' outside function" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"'return' outside function\"; got %v", sink.List())
	}
}

func TestYieldOutsideFunction(t *testing.T) {
	_, sink := parse(t, "yield 1\n", version.V38)
	found := false
	for _, d := range sink.List() {
		if d.Message == "'yield' outside function" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"'yield' outside function\"; got %v", sink.List())
	}
}

// --- function/class definitions --------------------------------------------

func TestParseFunctionDefWithDefaultsAndAnnotations(t *testing.T) {
	mod, sink := parse(t, "def f(a, b: int = 1, *args, c, **kwargs) -> str:\n    pass\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	fn := soleStmt(t, mod).(*pyast.FunctionDef)
	if fn.Name != "f" {
		t.Errorf("Name = %q; want f", fn.Name)
	}
	if fn.Returns == nil {
		t.Errorf("expected a return annotation")
	}
	var kinds []pyast.ParamKind
	for _, p := range fn.Params {
		kinds = append(kinds, p.Kind)
	}
	want := []pyast.ParamKind{pyast.ParamNormal, pyast.ParamNormal, pyast.ParamStarArgs, pyast.ParamNormal, pyast.ParamDoubleStarKwargs}
	if len(kinds) != len(want) {
		t.Fatalf("got %d params; want %d (%v)", len(kinds), len(want), kinds)
	}
	for i := range kinds {
		if kinds[i] != want[i] {
			t.Errorf("param[%d].Kind = %v; want %v", i, kinds[i], want[i])
		}
	}
}

func TestDuplicateParameterName(t *testing.T) {
	_, sink := parse(t, "def f(a, a):\n    pass\n", version.V38)
	found := false
	for _, d := range sink.List() {
		if d.Message == "duplicate argument 'a' in function definition" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected duplicate-argument error; got %v", sink.List())
	}
}

func TestNonDefaultAfterDefaultArgument(t *testing.T) {
	_, sink := parse(t, "def f(a=1, b):\n    pass\n", version.V38)
	if !sink.HasErrors() {
		t.Fatalf("expected 'non-default argument follows default argument'")
	}
}

func TestPositionalOnlyMarkerVersionGate(t *testing.T) {
	_, sink := parse(t, "def f(a, /, b):\n    pass\n", version.V37)
	if !sink.HasErrors() {
		t.Fatalf("expected positional-only '/' marker to be rejected before 3.8")
	}
	_, sink2 := parse(t, "def f(a, /, b):\n    pass\n", version.V38)
	if sink2.HasErrors() {
		t.Fatalf("unexpected errors at 3.8: %v", sink2.List())
	}
}

func TestSublistParametersAccepted2xRejected3x(t *testing.T) {
	src := "def f(a, (b, c)):\n    pass\n"
	_, sink := parse(t, src, version.V27)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors under 2.7: %v", sink.List())
	}
	_, sink2 := parse(t, src, version.V38)
	if !sink2.HasErrors() {
		t.Fatalf("expected sublist parameters to be rejected under 3.8")
	}
}

func TestClassDefWithBasesAndMetaclassKeyword(t *testing.T) {
	mod, sink := parse(t, "class C(Base, metaclass=Meta):\n    pass\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	cd := soleStmt(t, mod).(*pyast.ClassDef)
	if len(cd.Bases) != 1 {
		t.Fatalf("want 1 base, got %d", len(cd.Bases))
	}
	if len(cd.Keywords) != 1 || cd.Keywords[0].Name != "metaclass" {
		t.Fatalf("want 1 metaclass keyword, got %#v", cd.Keywords)
	}
}

// --- comprehensions and generator expressions ------------------------------

func TestListComprehensionDetection(t *testing.T) {
	mod, sink := parse(t, "[x for x in y if x]\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	lc, ok := stmt.Value.(*pyast.ListComp)
	if !ok {
		t.Fatalf("expected *ast.ListComp, got %T", stmt.Value)
	}
	if len(lc.Generators) != 1 || len(lc.Generators[0].Ifs) != 1 {
		t.Fatalf("expected 1 generator clause with 1 if, got %#v", lc.Generators)
	}
}

func TestGeneratorExpressionAsSoleCallArgument(t *testing.T) {
	mod, sink := parse(t, "sum(x for x in y)\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	call := stmt.Value.(*pyast.Call)
	if len(call.Args) != 1 {
		t.Fatalf("want 1 call arg, got %d", len(call.Args))
	}
	if _, ok := call.Args[0].(*pyast.GeneratorExp); !ok {
		t.Errorf("expected the sole call argument to be a *ast.GeneratorExp, got %T", call.Args[0])
	}
}

func TestAsyncComprehensionVersionGate(t *testing.T) {
	src := "async def f():\n    y = [x async for x in z]\n"
	_, sink := parse(t, src, version.V35)
	if !sink.HasErrors() {
		t.Fatalf("expected async comprehensions to be rejected before 3.6")
	}
	_, sink2 := parse(t, src, version.V36)
	if sink2.HasErrors() {
		t.Fatalf("unexpected errors at 3.6: %v", sink2.List())
	}
}

// --- try/except --------------------------------------------------------

func TestExceptAsBindingVersionGate(t *testing.T) {
	src := "try:\n    pass\nexcept E as e:\n    pass\n"
	_, sink := parse(t, src, version.V24)
	if !sink.HasErrors() {
		t.Fatalf("expected 'except E as e' to be rejected before 2.6")
	}
	_, sink2 := parse(t, src, version.V27)
	if sink2.HasErrors() {
		t.Fatalf("unexpected errors at 2.7: %v", sink2.List())
	}
}

func TestExceptCommaBindingOnlyIn2x(t *testing.T) {
	src := "try:\n    pass\nexcept E, e:\n    pass\n"
	_, sink := parse(t, src, version.V27)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors under 2.7: %v", sink.List())
	}
	_, sink2 := parse(t, src, version.V38)
	if !sink2.HasErrors() {
		t.Fatalf("expected 'except E, e' to be rejected under 3.8")
	}
}

func TestTryWithoutExceptOrFinallyIsError(t *testing.T) {
	_, sink := parse(t, "try:\n    pass\n", version.V38)
	if !sink.HasErrors() {
		t.Fatalf("expected an error for a bare try with no except/finally")
	}
}

// --- with statement ---------------------------------------------------------

func TestWithMultipleParenthesizedItems(t *testing.T) {
	mod, sink := parse(t, "with (a() as x, b() as y):\n    pass\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	w := soleStmt(t, mod).(*pyast.With)
	if len(w.Items) != 2 {
		t.Fatalf("want 2 with-items, got %d", len(w.Items))
	}
}

// --- raise -------------------------------------------------------------

func TestRaiseFromVersionGate(t *testing.T) {
	_, sink := parse(t, "raise E from cause\n", version.V27)
	if !sink.HasErrors() {
		t.Fatalf("expected 'raise X from Y' to be rejected under 2.x")
	}
	_, sink2 := parse(t, "raise E from cause\n", version.V38)
	if sink2.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink2.List())
	}
}

func TestRaiseTracebackForm2xOnly(t *testing.T) {
	_, sink := parse(t, "raise E, v, tb\n", version.V27)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors under 2.7: %v", sink.List())
	}
	_, sink2 := parse(t, "raise E, v, tb\n", version.V38)
	if !sink2.HasErrors() {
		t.Fatalf("expected 'raise X, v, tb' to be rejected under 3.8")
	}
}

// --- infinite-loop guard -----------------------------------------------

// TestParseFileNeverHangsOnDegenerateInput is a coarse regression guard
// for the internal no-progress assertion; it does not target a specific
// malformed construct, just confirms ParseFile returns promptly (rather
// than hanging or stack-overflowing) on a string of lone closing
// delimiters, which forces repeated error-recovery at the same position.
func TestParseFileNeverHangsOnDegenerateInput(t *testing.T) {
	mod, sink, err := ParseFile("t.py", []byte(")]}\n"), Options{LanguageVersion: version.V38})
	if err != nil && err != errInfiniteLoop {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = mod
	if !sink.HasErrors() {
		t.Fatalf("expected diagnostics for a string of lone closing delimiters")
	}
}

// --- interactive classification -----------------------------------------

// TestParseInteractiveScenarios covers spec.md §8 scenario F.
func TestParseInteractiveScenarios(t *testing.T) {
	tests := []struct {
		src  string
		want InteractiveStatus
	}{
		{"", Empty},
		{"   \n", Empty},
		{"x = 1\n", Complete},
		{"if x:\n", IncompleteStatement},
		{"x = \n", Invalid},
	}
	for _, tt := range tests {
		status, _, _ := ParseInteractive("<stdin>", []byte(tt.src), Options{LanguageVersion: version.V38})
		if status != tt.want {
			t.Errorf("ParseInteractive(%q) = %v; want %v", tt.src, status, tt.want)
		}
	}
}

// --- ArgumentIndex -------------------------------------------------------

func TestArgumentIndexLookup(t *testing.T) {
	mod, sink := parse(t, "f(aa, bb, cc=1)\n", version.V38)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.List())
	}
	stmt := soleStmt(t, mod).(*pyast.ExpressionStmt)
	call := stmt.Value.(*pyast.Call)

	idx, ok := ArgumentIndex(call, call.Args[0].Pos().Index)
	if !ok || idx != 0 {
		t.Errorf("ArgumentIndex at first arg start = %d, %v; want 0, true", idx, ok)
	}
	idx, ok = ArgumentIndex(call, call.Keywords[0].Value.Pos().Index)
	if !ok || idx != 2 {
		t.Errorf("ArgumentIndex at keyword arg = %d, %v; want 2, true", idx, ok)
	}
}

// --- mixed-whitespace single-diagnostic scenario --------------------------

// TestMixedIndentationSingleDiagnostic covers spec.md §8 scenario D: a
// single tab/space inconsistency should record exactly one diagnostic
// for that line, not one per internal comparison.
func TestMixedIndentationSingleDiagnostic(t *testing.T) {
	src := "if a:\n\tx\n        y\n"
	_, sink := parse(t, src, version.V38)
	count := 0
	for _, d := range sink.List() {
		if d.Message == "inconsistent use of tabs and spaces in indentation" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d mixed-indentation diagnostics; want exactly 1 (list: %v)", count, sink.List())
	}
}

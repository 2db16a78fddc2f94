package version

import "testing"

func TestVersionOrdering(t *testing.T) {
	if !(V24 < V26 && V26 < V27 && V27 < V30 && V32 < V33 && V37 < V38) {
		t.Errorf("version constants are not ordered as expected")
	}
	if New(3, 8) != V38 {
		t.Errorf("New(3, 8) = %v; want %v", New(3, 8), V38)
	}
}

func TestIs2Is3(t *testing.T) {
	if !V27.Is2() || V27.Is3() {
		t.Errorf("V27.Is2()/Is3() wrong")
	}
	if V37.Is2() || !V37.Is3() {
		t.Errorf("V37.Is2()/Is3() wrong")
	}
}

func TestSupportsGatesByRange(t *testing.T) {
	tests := []struct {
		v    Version
		f    Feature
		want bool
	}{
		{V27, FeatPrintStatement, true},
		{V30, FeatPrintStatement, false},
		{V27, FeatNonlocalKeyword, false},
		{V30, FeatNonlocalKeyword, true},
		{V35, FeatNamedExpr, false},
		{V38, FeatNamedExpr, true},
		{New(3, 4), FeatAsyncAwait, false},
		{V35, FeatAsyncAwait, true},
		{V37, FeatContinueInFinally, false},
		{V38, FeatContinueInFinally, true},
	}
	for _, tt := range tests {
		if got := Supports(tt.v, tt.f); got != tt.want {
			t.Errorf("Supports(%s, feature %d) = %v; want %v", tt.v, tt.f, got, tt.want)
		}
	}
}

func TestMessageFallback(t *testing.T) {
	if _, ok := Message(FeatImportStarModuleOnly); ok {
		t.Errorf("FeatImportStarModuleOnly has no custom message; Message should report ok=false")
	}
	msg, ok := Message(FeatNamedExpr)
	if !ok || msg == "" {
		t.Errorf("Message(FeatNamedExpr) = %q, %v; want a non-empty message", msg, ok)
	}
}

// TestReturnValueInGeneratorVersionGate covers spec.md §8 scenario I: the
// gate sits between 3.2 (unsupported) and 3.3 (supported).
func TestReturnValueInGeneratorVersionGate(t *testing.T) {
	if Supports(V32, FeatReturnValueInGenerator) {
		t.Errorf("Supports(V32, FeatReturnValueInGenerator) = true; want false")
	}
	if !Supports(V33, FeatReturnValueInGenerator) {
		t.Errorf("Supports(V33, FeatReturnValueInGenerator) = false; want true")
	}
}

func TestSupportsUPrefixHole(t *testing.T) {
	if !SupportsUPrefix(V27) {
		t.Errorf("u-prefix should be accepted in 2.x")
	}
	if SupportsUPrefix(V30) {
		t.Errorf("u-prefix should be rejected in 3.0")
	}
	if SupportsUPrefix(New(3, 2)) {
		t.Errorf("u-prefix should be rejected in 3.2")
	}
	if !SupportsUPrefix(V33) {
		t.Errorf("u-prefix should be accepted again from 3.3")
	}
}

func TestSupportsUnknownFeatureDefaultsTrue(t *testing.T) {
	if !Supports(V27, Feature(9999)) {
		t.Errorf("an unregistered Feature should default to supported")
	}
}

func TestParseVersion(t *testing.T) {
	v, err := Parse("3.8")
	if err != nil || v != V38 {
		t.Errorf("Parse(\"3.8\") = %v, %v; want V38, nil", v, err)
	}
	if _, err := Parse("garbage"); err == nil {
		t.Errorf("Parse(\"garbage\") should return an error")
	}
	if _, err := Parse("x.8"); err == nil {
		t.Errorf("Parse(\"x.8\") should return an error")
	}
}

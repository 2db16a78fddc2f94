// Package version implements the language-version policy (C7): a pure
// table mapping each version-gated feature to the set of versions that
// support it and the canonical message to report when it is disabled.
//
// Both the tokenizer and the parser consult this package; it has no
// dependency on either, so it carries no import-cycle risk.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a Python language version, encoded as major*100+minor so
// that ordinary integer comparison gives version ordering.
type Version int

// Constructs a Version from major/minor components.
func New(major, minor int) Version { return Version(major*100 + minor) }

func (v Version) Major() int { return int(v) / 100 }
func (v Version) Minor() int { return int(v) % 100 }

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major(), v.Minor()) }

func (v Version) Is2() bool { return v.Major() == 2 }
func (v Version) Is3() bool { return v.Major() == 3 }

// Parse accepts a "major.minor" string such as "3.8" or "2.7", for callers
// (the CLI) that take a version on the command line rather than a literal
// Go constant.
func Parse(s string) (Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return 0, fmt.Errorf("version: invalid version %q, want \"major.minor\"", s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("version: invalid major version in %q: %v", s, err)
	}
	min, err := strconv.Atoi(minor)
	if err != nil {
		return 0, fmt.Errorf("version: invalid minor version in %q: %v", s, err)
	}
	return New(maj, min), nil
}

// Named versions referenced throughout the spec.
var (
	V24 = New(2, 4)
	V26 = New(2, 6)
	V27 = New(2, 7)
	V30 = New(3, 0)
	V32 = New(3, 2)
	V33 = New(3, 3)
	V35 = New(3, 5)
	V36 = New(3, 6)
	V37 = New(3, 7)
	V38 = New(3, 8)

	// Default is used when a caller does not specify a version.
	Default = V37
)

// Feature identifies a single version-gated language construct.
type Feature int

const (
	_ Feature = iota

	FeatPrintStatement      // `print` keyword/statement, 2.x only
	FeatExecStatement       // `exec` keyword/statement, 2.x only
	FeatNonlocalKeyword     // `nonlocal`, 3.x only
	FeatTrueFalseNoneKeyword // True/False/None as keywords, 3.x only
	FeatSublistParameters   // (a, (b, c)) parameters, 2.x only
	FeatLegacyOctal         // 0NNN octal literals, 2.x only
	FeatLongIntSuffix       // L/l suffix, 2.x only
	FeatHexOctBinPrefix     // 0x/0o/0b, 2.6+
	FeatNumericUnderscore   // 1_000 separators, 3.6+
	FeatBytesPrefix         // b'...', 2.6+ and 3.x
	FeatURawStringPrefix    // u'...' accepted; rejected 3.0-3.2
	FeatRBPrefix            // rb'...'/br'...', 3.3+
	FeatFStringPrefix       // f'...'/fr'.../rf'...', 3.6+
	FeatFStringDebugEquals  // f'{x=}', 3.8+
	FeatAnnotations         // parameter/return annotations, 3.x
	FeatVariableAnnotations // `x: T`, 3.6+
	FeatYieldFrom           // `yield from`, 3.3+
	FeatAsyncAwait          // `async def`/`await`, 3.5+
	FeatMatMul              // `@` as binary operator, 3.5+
	FeatAsyncComprehension  // `async for` inside a plain generator, 3.6+
	FeatNamedExpr           // `:=`, 3.8+
	FeatPositionalOnlyParams // bare `/` parameter separator, informally 3.8+
	FeatClassDecorators     // decorators on classes, 2.6+
	FeatExceptAsBinding     // `except E as name`, 2.6+ and 3.x
	FeatExceptCommaBinding  // `except E, name`, 2.x only
	FeatRaiseFrom           // `raise X from Y`, 3.x only
	FeatRaiseTraceback      // `raise X, v, tb`, 2.x only
	FeatReturnValueInGenerator // `return value` inside a generator, 3.3+
	FeatContinueInFinally   // `continue` inside `finally`, 3.8+
	FeatGeneralizedUnpacking // multiple */** in calls/literals, 3.5+
	FeatImportStarModuleOnly // `import *` restricted to module level, 3.x enforced
)

// Gate describes the support window for a Feature and the canonical
// message to emit when the current version falls outside it.
type Gate struct {
	// MinVersion and MaxVersion bound the inclusive range of versions that
	// support the feature. A zero MaxVersion means "and later".
	MinVersion, MaxVersion Version
	// Message is used verbatim (spec.md §8's literal-text requirement) when
	// the feature is used outside its window.
	Message string
}

func (g Gate) supports(v Version) bool {
	if g.MinVersion != 0 && v < g.MinVersion {
		return false
	}
	if g.MaxVersion != 0 && v > g.MaxVersion {
		return false
	}
	return true
}

// v2Max is the largest Version value still considered part of the 2.x
// line, used to express "2.x only" gates as a plain MaxVersion.
const v2Max = Version(299)

var table = map[Feature]Gate{
	FeatPrintStatement:         {MaxVersion: v2Max, Message: "invalid syntax"},
	FeatExecStatement:          {MaxVersion: v2Max, Message: "invalid syntax"},
	FeatNonlocalKeyword:        {MinVersion: V30, Message: "invalid syntax, nonlocal requires Python 3 or later"},
	FeatTrueFalseNoneKeyword:   {MinVersion: V30},
	FeatSublistParameters:      {MaxVersion: v2Max, Message: "sublist parameters are not supported in 3.x"},
	FeatLegacyOctal:            {MaxVersion: v2Max, Message: "invalid token"},
	FeatLongIntSuffix:          {MaxVersion: v2Max, Message: "invalid token"},
	FeatHexOctBinPrefix:        {MinVersion: V26},
	FeatNumericUnderscore:      {MinVersion: V36, Message: "invalid syntax, underscores in numeric literals requires Python 3.6 or later"},
	FeatBytesPrefix:            {MinVersion: V26},
	FeatRBPrefix:               {MinVersion: V33, Message: "invalid syntax, rb/br string prefix requires Python 3.3 or later"},
	FeatFStringPrefix:          {MinVersion: V36, Message: "invalid syntax, f-strings require Python 3.6 or later"},
	FeatFStringDebugEquals:     {MinVersion: V38, Message: "invalid syntax, f-string debug specifier requires Python 3.8 or later"},
	FeatAnnotations:            {MinVersion: V30, Message: "invalid syntax, annotations require Python 3 or later"},
	FeatVariableAnnotations:    {MinVersion: V36, Message: "invalid syntax, variable annotations require Python 3.6 or later"},
	FeatYieldFrom:              {MinVersion: V33, Message: "invalid syntax, yield from requires Python 3.3 or later"},
	FeatAsyncAwait:             {MinVersion: V35, Message: "invalid syntax, async/await requires Python 3.5 or later"},
	FeatMatMul:                 {MinVersion: V35, Message: "invalid syntax, matrix multiplication operator requires Python 3.5 or later"},
	FeatAsyncComprehension:     {MinVersion: V36, Message: "invalid syntax, async comprehensions require Python 3.6 or later"},
	FeatNamedExpr:              {MinVersion: V38, Message: "invalid syntax, named expressions require Python 3.8 or later"},
	FeatPositionalOnlyParams:   {MinVersion: V38, Message: "invalid syntax, positional-only parameters require Python 3.8 or later"},
	FeatClassDecorators:        {MinVersion: V26, Message: "invalid syntax, class decorators require Python 2.6 or later"},
	FeatExceptAsBinding:        {MinVersion: V26},
	FeatExceptCommaBinding:     {MaxVersion: v2Max, Message: "invalid syntax"},
	FeatRaiseFrom:              {MinVersion: V30, Message: "invalid syntax, raise...from requires Python 3 or later"},
	FeatRaiseTraceback:         {MaxVersion: v2Max, Message: "invalid syntax"},
	FeatReturnValueInGenerator: {MinVersion: V33, Message: "'return' with argument inside generator"},
	FeatContinueInFinally:      {MinVersion: V38, Message: "'continue' not supported inside 'finally' clause"},
	FeatGeneralizedUnpacking:   {MinVersion: V35, Message: "invalid syntax, generalized unpacking requires Python 3.5 or later"},
	FeatImportStarModuleOnly:   {MinVersion: V30},
}

// SupportsUPrefix reports whether the `u`/`U` string prefix is accepted
// under v. Per spec.md §4.3 this is a "hole" in version space — accepted
// in all of 2.x and again from 3.3 on, rejected only in 3.0-3.2 — so it
// cannot be expressed as a single Gate and is handled as a dedicated
// predicate instead.
func SupportsUPrefix(v Version) bool {
	if v.Is2() {
		return true
	}
	return v >= V33
}

// Supports reports whether feature f is enabled under version v.
func Supports(v Version, f Feature) bool {
	g, ok := table[f]
	if !ok {
		return true
	}
	return g.supports(v)
}

// Message returns the canonical diagnostic text for using feature f
// outside its supported window. ok is false if the
// feature has no custom message (callers should fall back to a generic
// "invalid syntax" of their own).
func Message(f Feature) (msg string, ok bool) {
	g, exists := table[f]
	if !exists || g.Message == "" {
		return "", false
	}
	return g.Message, true
}

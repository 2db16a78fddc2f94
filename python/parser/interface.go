// Package parser implements the pull-based recursive-descent parser
// (C5): it consumes a python/scanner token stream and builds a
// python/ast tree, consulting python/version for every gated production
// and reporting to a python/errors.Sink.
//
// Grounded on cue/parser's driver shape (parser struct, init/next/expect/
// expectClosing/errorExpected, a panic/recover "no progress" guard)
// generalized from CUE's single-dialect grammar to Python's full,
// version-gated statement and expression grammar.
package parser

import (
	"github.com/gopythonic/pyparse/python/ast"
	"github.com/gopythonic/pyparse/python/errors"
	"github.com/gopythonic/pyparse/python/scanner"
	"github.com/gopythonic/pyparse/python/token"
	"github.com/gopythonic/pyparse/python/version"
)

// Options configures a parse, per spec.md §6 "Options".
type Options struct {
	Verbatim                         bool
	VerbatimCommentsAndLineJoins     bool
	StubFile                         bool
	LanguageVersion                  version.Version
	IndentationInconsistencySeverity errors.Severity
	InitialSourceLocation            token.SourceLocation

	// AllErrors has no effect: the parser never throttles diagnostics and
	// records every error it detects whether or not it is set.
	AllErrors bool
}

func (o Options) scannerOptions() scanner.Options {
	return scanner.Options{
		Verbatim:                         o.Verbatim,
		VerbatimCommentsAndLineJoins:     o.VerbatimCommentsAndLineJoins,
		StubFile:                         o.StubFile,
		LanguageVersion:                  o.LanguageVersion,
		IndentationInconsistencySeverity: o.IndentationInconsistencySeverity,
		InitialSourceLocation:            o.InitialSourceLocation,
	}
}

// ParseFile parses an entire source file and returns its Module AST. The
// returned sink carries every diagnostic recorded during the parse;
// ParseFile never returns a Go error for malformed Python source -- per
// spec.md §4.6, all errors are recorded on the sink and the AST contains
// Error nodes at the offending positions. A non-nil error return is
// reserved for the internal "parser made no progress" assertion.
func ParseFile(filename string, src []byte, opts Options) (mod *ast.Module, sink *errors.Sink, err error) {
	sink = &errors.Sink{}
	p := newParser(filename, src, sink, opts)
	defer func() {
		if r := recover(); r != nil {
			if msg, ok := r.(string); ok && msg == internalBugPanic {
				err = errInfiniteLoop
				return
			}
			panic(r)
		}
	}()
	mod = p.parseModule()
	return mod, sink, nil
}

// ParseTopExpression parses a single expression, with no requirement for
// a trailing newline. F-string replacement fields do not go through it:
// the parser parses each `{expr}` field with its own nested parser.
func ParseTopExpression(filename string, src []byte, opts Options) (expr ast.Expr, sink *errors.Sink, err error) {
	sink = &errors.Sink{}
	p := newParser(filename, src, sink, opts)
	defer func() {
		if r := recover(); r != nil {
			if msg, ok := r.(string); ok && msg == internalBugPanic {
				err = errInfiniteLoop
				return
			}
			panic(r)
		}
	}()
	expr = p.parseTestListAsExpr()
	if p.tok.Kind == token.NEWLINE {
		p.next()
	}
	return expr, sink, nil
}

// InteractiveStatus classifies an interactive-mode input per spec.md
// §4.5 "Interactive mode".
type InteractiveStatus int

const (
	Empty InteractiveStatus = iota
	Complete
	IncompleteStatement
	Invalid
)

// ParseInteractive classifies src as a candidate line typed at a REPL.
// The AST is only meaningful (and only returned) when the result is
// Complete.
func ParseInteractive(filename string, src []byte, opts Options) (status InteractiveStatus, mod *ast.Module, sink *errors.Sink) {
	trimmed := src
	allBlank := true
	for _, b := range trimmed {
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			allBlank = false
			break
		}
	}
	if allBlank {
		return Empty, nil, &errors.Sink{}
	}

	sink = &errors.Sink{}
	p := newParser(filename, src, sink, opts)
	func() {
		defer func() { recover() }()
		mod = p.parseModule()
	}()

	if sink.HasErrors() {
		if p.sawUnclosedBlockOrGrouping {
			return IncompleteStatement, nil, sink
		}
		return Invalid, nil, sink
	}
	return Complete, mod, sink
}

// ArgumentIndex reports which argument of call covers the byte offset
// index, per spec.md §4.5 "Argument-index lookup": -1 if index is past
// the last argument, and ok == false if index falls before the call's
// opening parenthesis or past the end of the call.
func ArgumentIndex(call *ast.Call, index int) (argIndex int, ok bool) {
	if index < call.Func.End().Index || index >= call.End().Index {
		return 0, false
	}
	total := len(call.Args) + len(call.Keywords)
	if total == 0 {
		return 0, true
	}
	for i, a := range call.Args {
		if index <= a.End().Index {
			return i, true
		}
	}
	for j, k := range call.Keywords {
		if index <= k.Value.End().Index {
			return len(call.Args) + j, true
		}
	}
	return -1, true
}

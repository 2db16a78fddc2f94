// Package errors defines the diagnostics sink shared by the scanner and
// parser (C6): an append-only, value-comparable list of {message, span,
// severity} records, plus the sorting/printing helpers that consumers use
// to render them.
//
// The shape follows cue/errors' list, reduced here to one Diagnostic record
// type and a Sink, with Sort/RemoveMultiples/Print as the reporting surface.
package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gopythonic/pyparse/python/token"
)

// Severity classifies a Diagnostic. spec.md §3 "Diagnostics" requires
// this; the teacher's own errors package has no notion of severity since
// CUE treats every diagnostic as an error.
type Severity int

// Hint is the zero value so that a zero-value Options (scanner or parser)
// defaults to the least severe classification, matching spec.md §4.3's
// stated default for indentation-consistency diagnostics.
const (
	Hint Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Hint:
		return "hint"
	default:
		return "error"
	}
}

// Diagnostic is a single {message, span, severity} record.
type Diagnostic struct {
	Message  string
	Span     token.Span
	Severity Severity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Span, d.Message)
}

// Handler is a callback form of Sink.AddSeverity. The scanner and parser
// do not use it: both write to a *Sink directly.
type Handler func(span token.Span, severity Severity, msg string, args ...interface{})

// Sink is the append-only, order-preserving diagnostics collector (C6).
// The zero value is ready to use.
type Sink struct {
	list []Diagnostic
}

// Add appends a diagnostic with Error severity.
func (s *Sink) Add(span token.Span, format string, args ...interface{}) {
	s.AddSeverity(span, Error, format, args...)
}

// AddSeverity appends a diagnostic with an explicit severity.
func (s *Sink) AddSeverity(span token.Span, severity Severity, format string, args ...interface{}) {
	s.list = append(s.list, Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Severity: severity,
	})
}

// Handler returns a Handler bound to this sink.
func (s *Sink) Handler() Handler {
	return func(span token.Span, severity Severity, msg string, args ...interface{}) {
		s.AddSeverity(span, severity, msg, args...)
	}
}

// List returns the diagnostics collected so far, in detection order.
func (s *Sink) List() []Diagnostic { return s.list }

// Len reports the number of diagnostics collected.
func (s *Sink) Len() int { return len(s.list) }

// HasErrors reports whether any diagnostic at Error severity was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.list {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Reset clears the sink.
func (s *Sink) Reset() { s.list = s.list[:0] }

// Sort orders diagnostics by span, then by message, matching the
// teacher's list.Sort (position first, text as tiebreaker).
func (s *Sink) Sort() {
	sort.SliceStable(s.list, func(i, j int) bool {
		a, b := s.list[i], s.list[j]
		if a.Span.Start.Index != b.Span.Start.Index {
			return a.Span.Start.Index < b.Span.Start.Index
		}
		return a.Message < b.Message
	})
}

// RemoveMultiples sorts and then drops all but the first diagnostic per
// source line, the same policy the teacher's List.RemoveMultiples applies
// — useful for summarizing a file with many cascading errors.
func (s *Sink) RemoveMultiples() {
	s.Sort()
	out := s.list[:0]
	lastLine := -1
	for _, d := range s.list {
		if d.Span.Start.Line == lastLine {
			continue
		}
		out = append(out, d)
		lastLine = d.Span.Start.Line
	}
	s.list = out
}

// Print writes one line per diagnostic to w.
func Print(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d)
	}
}

// Details renders diags the way Print does, returning the result as a
// string — a convenience wrapper mirroring the teacher's errors.Details.
func Details(diags []Diagnostic) string {
	var b strings.Builder
	Print(&b, diags)
	return b.String()
}

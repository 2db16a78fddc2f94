// Package scanner implements the tokenizer (C3): it consumes a
// python/source.Reader and produces a stream of python/token.Item values,
// synthesizing INDENT/DEDENT/NEWLINE from indentation and maintaining the
// grouping-depth and async-def nesting state the grammar needs.
//
// The driver loop, two-character-operator dispatch (switch2-style), and
// string/number scanning are grounded on cue/scanner.Scanner's Scan/
// scanNumber/scanString/scanEscape; the indentation and logical-line
// machinery has no CUE analog and is built fresh per spec.md §4.3.
package scanner

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gopythonic/pyparse/python/errors"
	"github.com/gopythonic/pyparse/python/literal"
	"github.com/gopythonic/pyparse/python/source"
	"github.com/gopythonic/pyparse/python/token"
	"github.com/gopythonic/pyparse/python/version"
)

// Options configures a Scanner, per spec.md §6 "Options".
type Options struct {
	Verbatim                         bool
	VerbatimCommentsAndLineJoins     bool
	StubFile                         bool
	LanguageVersion                  version.Version
	IndentationInconsistencySeverity errors.Severity
	InitialSourceLocation            token.SourceLocation
}

// DefaultOptions returns the scanner's recommended defaults: version.Default
// as the language version and Hint-severity indentation diagnostics.
func DefaultOptions() Options {
	return Options{
		LanguageVersion:                  version.Default,
		IndentationInconsistencySeverity: errors.Hint,
	}
}

type asyncFrame struct {
	level   int // len(indentStack) once this def's suite has been pushed
	isAsync bool
}

// Scanner holds the tokenizer's mutable state for one source file.
type Scanner struct {
	r    *source.Reader
	sink *errors.Sink
	opts Options

	indentStack []int
	indentText  []string // raw leading-whitespace text recorded per level

	groupingDepth int
	groupingStack []rune

	pending []token.Item // queued INDENT/DEDENT tokens awaiting return

	atLineStart bool
	prevEnd     int // raw byte offset where the previous token ended

	defStackAsync     []asyncFrame
	lastIdentWasAsync bool
	pendingDefAsync   bool

	needFinalNewline bool
	eofNewlineDone   bool
	eofDone          bool
}

// New creates a Scanner over src. filename is used only for diagnostics
// and position reporting.
func New(filename string, src []byte, sink *errors.Sink, opts Options) *Scanner {
	if opts.LanguageVersion == 0 {
		opts.LanguageVersion = version.Default
	}
	r := source.NewReader(filename, src)
	if opts.InitialSourceLocation.IsValid() {
		r.File.SetInitialLocation(opts.InitialSourceLocation)
	}
	return &Scanner{
		r:           r,
		sink:        sink,
		opts:        opts,
		indentStack: []int{0},
		indentText:  []string{""},
		atLineStart: true,
	}
}

// CurrentPosition reports the scanner's current position in the source,
// shifted by any InitialSourceLocation (spec.md §8 scenario A).
func (s *Scanner) CurrentPosition() token.SourceLocation {
	return s.r.File.Position(s.r.CurrentIndex())
}

// Scan returns the next token. Once EOF has been reported, Scan keeps
// returning an EOF token.
func (s *Scanner) Scan() token.Item {
	it := s.scanNext()
	switch it.Kind {
	case token.NEWLINE:
		s.needFinalNewline = false
	case token.NL, token.INDENT, token.DEDENT, token.EOF:
		// bookkeeping unaffected
	default:
		s.needFinalNewline = true
	}
	return it
}

func (s *Scanner) scanNext() token.Item {
	if len(s.pending) > 0 {
		it := s.pending[0]
		s.pending = s.pending[1:]
		return it
	}
	if s.eofDone {
		return s.finish(s.r.CurrentIndex(), token.EOF, "", nil)
	}
	if s.atLineStart && s.groupingDepth == 0 {
		s.processLineStart()
		if len(s.pending) > 0 {
			it := s.pending[0]
			s.pending = s.pending[1:]
			return it
		}
	}
	return s.scanToken()
}

// finish builds an Item covering [startOffset, current), filling in
// PrecedingWhitespace/VerbatimImage from the raw source bytes consumed
// since the previous token when Options.Verbatim is set. Centralizing
// this here guarantees the round-trip invariant of spec.md §8.1: every
// raw byte is claimed by exactly one token's preceding-whitespace or
// verbatim-image field.
func (s *Scanner) finish(startOffset int, kind token.Token, lit string, value interface{}) token.Item {
	end := s.r.CurrentIndex()
	span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: end})
	it := token.Item{Kind: kind, Literal: lit, Value: value, Span: span}
	if s.opts.Verbatim {
		it.PrecedingWhitespace = string(s.r.Src[s.prevEnd:startOffset])
		it.VerbatimImage = string(s.r.Src[startOffset:end])
	}
	s.prevEnd = end
	return it
}

func isNewlineRune(ch rune) bool { return ch == '\n' || ch == '\r' }

// consumeNewline skips prefixRunes characters (used to eat a line-joining
// backslash) and then one newline sequence (\r\n, \r, or \n counted as a
// single newline per spec.md §4.1).
func (s *Scanner) consumeNewline(prefixRunes int) {
	for i := 0; i < prefixRunes; i++ {
		s.r.Advance()
	}
	if s.r.Peek(0) == '\r' {
		s.r.Advance()
		if s.r.Peek(0) == '\n' {
			s.r.Advance()
		}
		return
	}
	if s.r.Peek(0) == '\n' {
		s.r.Advance()
	}
}

func indentWidth(text string) int {
	col := 0
	for _, ch := range text {
		if ch == '\t' {
			col = (col/8 + 1) * 8
		} else {
			col++
		}
	}
	return col
}

// checkMixedIndentation flags two leading-whitespace strings that cannot
// be ordered consistently under both the tab=1 and tab=8 interpretations
// -- here approximated as any positional tab/space disagreement over
// their common prefix, per spec.md §4.3 "Mixed indentation".
func (s *Scanner) checkMixedIndentation(text, prevText string, span token.Span) {
	n := len(text)
	if len(prevText) < n {
		n = len(prevText)
	}
	for i := 0; i < n; i++ {
		if (text[i] == '\t') != (prevText[i] == '\t') {
			s.sink.AddSeverity(span, s.opts.IndentationInconsistencySeverity, "inconsistent use of tabs and spaces in indentation")
			return
		}
	}
}

// processLineStart runs at the beginning of every physical line while
// groupingDepth == 0: it swallows blank and comment-only lines and
// line-joining backslashes, then measures the indentation of the next
// real logical line and queues INDENT/DEDENT tokens.
func (s *Scanner) processLineStart() {
	for {
		lineStart := s.r.CurrentIndex()
		var ind strings.Builder
		for {
			ch := s.r.Peek(0)
			if ch == ' ' || ch == '\t' || ch == '\f' {
				ind.WriteRune(s.r.Advance())
				continue
			}
			break
		}
		ch := s.r.Peek(0)
		if ch == '\\' && isNewlineRune(s.r.Peek(1)) {
			s.consumeNewline(1)
			continue
		}
		if ch == '#' {
			for {
				c := s.r.Peek(0)
				if c < 0 || c == '\n' || c == '\r' {
					break
				}
				s.r.Advance()
			}
			ch = s.r.Peek(0)
		}
		if ch < 0 {
			return
		}
		if isNewlineRune(ch) {
			s.consumeNewline(0)
			continue
		}
		s.checkIndentation(ind.String(), lineStart)
		s.atLineStart = false
		return
	}
}

func (s *Scanner) checkIndentation(text string, lineStart int) {
	width := indentWidth(text)
	top := s.indentStack[len(s.indentStack)-1]
	topText := s.indentText[len(s.indentText)-1]

	span := s.r.File.Span(token.IndexSpan{Start: lineStart, End: s.r.CurrentIndex()})
	s.checkMixedIndentation(text, topText, span)

	switch {
	case width > top:
		s.indentStack = append(s.indentStack, width)
		s.indentText = append(s.indentText, text)
		s.pending = append(s.pending, s.finish(lineStart, token.INDENT, text, nil))
		s.defStackAsync = append(s.defStackAsync, asyncFrame{level: len(s.indentStack), isAsync: s.pendingDefAsync})
		s.pendingDefAsync = false

	case width < top:
		first := true
		for len(s.indentStack) > 1 && s.indentStack[len(s.indentStack)-1] > width {
			s.indentStack = s.indentStack[:len(s.indentStack)-1]
			s.indentText = s.indentText[:len(s.indentText)-1]
			at := lineStart
			if !first {
				at = s.r.CurrentIndex()
			}
			s.pending = append(s.pending, s.finish(at, token.DEDENT, "", nil))
			first = false
			for len(s.defStackAsync) > 0 && len(s.indentStack) < s.defStackAsync[len(s.defStackAsync)-1].level {
				s.defStackAsync = s.defStackAsync[:len(s.defStackAsync)-1]
			}
		}
		if s.indentStack[len(s.indentStack)-1] != width {
			s.sink.Add(span, "unindent does not match any outer indentation level")
			s.indentStack[len(s.indentStack)-1] = width
			s.indentText[len(s.indentText)-1] = text
		}

	default:
		s.pendingDefAsync = false
	}
}

// scanToken handles everything that is not a line-start indentation
// decision: inline whitespace, comments, line joins, and the next real
// token or structural newline.
func (s *Scanner) scanToken() token.Item {
	for {
		ch := s.r.Peek(0)
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f':
			s.r.Advance()
			continue
		case ch == '\\' && isNewlineRune(s.r.Peek(1)):
			s.consumeNewline(1)
			continue
		case ch == '#':
			for {
				c := s.r.Peek(0)
				if c < 0 || c == '\n' || c == '\r' {
					break
				}
				s.r.Advance()
			}
			continue
		case isNewlineRune(ch):
			if s.groupingDepth > 0 {
				start := s.r.CurrentIndex()
				s.consumeNewline(0)
				if s.opts.Verbatim {
					return s.finish(start, token.NL, "", nil)
				}
				continue
			}
			start := s.r.CurrentIndex()
			s.consumeNewline(0)
			s.atLineStart = true
			return s.finish(start, token.NEWLINE, "", nil)
		case ch < 0:
			return s.handleEOF()
		default:
			return s.scanContent(ch)
		}
	}
}

func (s *Scanner) handleEOF() token.Item {
	if !s.eofNewlineDone {
		s.eofNewlineDone = true
		if s.needFinalNewline {
			s.needFinalNewline = false
			start := s.r.CurrentIndex()
			return s.finish(start, token.NEWLINE, "", nil)
		}
	}
	if len(s.indentStack) > 1 {
		s.indentStack = s.indentStack[:len(s.indentStack)-1]
		s.indentText = s.indentText[:len(s.indentText)-1]
		start := s.r.CurrentIndex()
		return s.finish(start, token.DEDENT, "", nil)
	}
	s.eofDone = true
	start := s.r.CurrentIndex()
	return s.finish(start, token.EOF, "", nil)
}

func isDigitRune(ch rune) bool { return ch >= '0' && ch <= '9' }
func isHexDigit(ch rune) bool {
	return isDigitRune(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}
func isOctalDigit(ch rune) bool { return ch >= '0' && ch <= '7' }
func isQuote(ch rune) bool      { return ch == '\'' || ch == '"' }

// isIdentStart/isIdentContinue approximate Python 3's XID_Start/
// XID_Continue using unicode.IsLetter/IsDigit; the examples pack carries
// no XID-table dependency to ground an exact implementation on.
func isIdentStart(ch rune) bool    { return ch == '_' || unicode.IsLetter(ch) }
func isIdentContinue(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch) }

func (s *Scanner) scanContent(ch rune) token.Item {
	startOffset := s.r.CurrentIndex()
	switch {
	case isIdentStart(ch):
		return s.scanName(startOffset)
	case isDigitRune(ch) || (ch == '.' && isDigitRune(s.r.Peek(1))):
		return s.scanNumberToken(startOffset)
	case isQuote(ch):
		return s.scanStringToken(startOffset, literal.Prefix{})
	default:
		return s.scanOperator(startOffset)
	}
}

var prefixShapes = map[string]bool{
	"r": true, "b": true, "u": true, "rb": true, "br": true,
	"f": true, "fr": true, "rf": true,
}

func (s *Scanner) scanName(startOffset int) token.Item {
	var b strings.Builder
	for {
		ch := s.r.Peek(0)
		ok := isIdentContinue(ch)
		if b.Len() == 0 {
			ok = isIdentStart(ch)
		}
		if !ok {
			break
		}
		b.WriteRune(s.r.Advance())
	}
	lit := b.String()
	lower := strings.ToLower(lit)

	if isQuote(s.r.Peek(0)) && prefixShapes[lower] {
		prefix, ok, msg := literal.ClassifyPrefix(lit, s.opts.LanguageVersion)
		if !ok {
			span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
			s.sink.Add(span, msg)
			return s.scanStringToken(startOffset, literal.Prefix{})
		}
		return s.scanStringToken(startOffset, prefix)
	}

	if lit == "async" {
		s.lastIdentWasAsync = true
	} else {
		if lit == "def" {
			s.pendingDefAsync = s.lastIdentWasAsync
		}
		s.lastIdentWasAsync = false
	}

	tok, kw := s.classifyNameOrKeyword(lit)
	it := s.finish(startOffset, tok, lit, nil)
	it.Keyword = kw
	return it
}

func (s *Scanner) inAsyncContext() bool {
	return len(s.defStackAsync) > 0 && s.defStackAsync[len(s.defStackAsync)-1].isAsync
}

func (s *Scanner) classifyNameOrKeyword(lit string) (token.Token, token.Keyword) {
	v := s.opts.LanguageVersion
	if lit == "async" || lit == "await" {
		beforeDef := false
		if lit == "async" {
			k := 0
			for c := s.r.Peek(k); c == ' ' || c == '\t'; c = s.r.Peek(k) {
				k++
			}
			beforeDef = s.r.Peek(k) == 'd' && s.r.Peek(k+1) == 'e' && s.r.Peek(k+2) == 'f' && !isIdentContinue(s.r.Peek(k+3))
		}
		if version.Supports(v, version.FeatAsyncAwait) && (v >= version.V37 || s.inAsyncContext() || beforeDef) {
			if lit == "async" {
				return token.KEYWORD, token.KwAsync
			}
			return token.KEYWORD, token.KwAwait
		}
		return token.NAME, 0
	}
	if kw, ok := token.LookupKeyword(lit, v); ok {
		return token.KEYWORD, kw
	}
	return token.NAME, 0
}

func (s *Scanner) scanNumberToken(startOffset int) token.Item {
	v := s.opts.LanguageVersion
	var b strings.Builder

	readDigits := func(valid func(rune) bool) {
		for {
			ch := s.r.Peek(0)
			if ch == '_' {
				if !version.Supports(v, version.FeatNumericUnderscore) {
					at := s.r.CurrentIndex()
					sp := s.r.File.Span(token.IndexSpan{Start: at, End: at + 1})
					msg, ok := version.Message(version.FeatNumericUnderscore)
					if !ok {
						msg = "invalid syntax"
					}
					s.sink.Add(sp, msg)
				}
				b.WriteRune(s.r.Advance())
				continue
			}
			if !valid(ch) {
				return
			}
			b.WriteRune(s.r.Advance())
		}
	}

	switch {
	case s.r.Peek(0) == '0' && isBasePrefix(s.r.Peek(1)):
		b.WriteRune(s.r.Advance())
		baseCh := s.r.Peek(0)
		b.WriteRune(s.r.Advance())
		switch unicode.ToLower(baseCh) {
		case 'x':
			readDigits(isHexDigit)
		case 'o':
			readDigits(isOctalDigit)
		case 'b':
			readDigits(func(r rune) bool { return r == '0' || r == '1' })
		}

	case s.r.Peek(0) == '0' && v.Is2() && isDigitRune(s.r.Peek(1)):
		b.WriteRune(s.r.Advance())
		readDigits(isOctalDigit)

	default:
		readDigits(isDigitRune)
		if s.r.Peek(0) == '.' && s.r.Peek(1) != '.' {
			b.WriteRune(s.r.Advance())
			readDigits(isDigitRune)
		}
		if ch := s.r.Peek(0); ch == 'e' || ch == 'E' {
			nxt := s.r.Peek(1)
			if isDigitRune(nxt) || nxt == '+' || nxt == '-' {
				b.WriteRune(s.r.Advance())
				if ch2 := s.r.Peek(0); ch2 == '+' || ch2 == '-' {
					b.WriteRune(s.r.Advance())
				}
				readDigits(isDigitRune)
			}
		}
	}

	if v.Is3() {
		if digits := b.String(); len(digits) > 1 && digits[0] == '0' && !isBasePrefix(rune(digits[1])) &&
			!strings.ContainsAny(digits, ".eE") && strings.ContainsAny(digits[1:], "123456789") {
			span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
			msg, _ := version.Message(version.FeatLegacyOctal)
			s.sink.Add(span, msg)
		}
	}

	if ch := s.r.Peek(0); ch == 'j' || ch == 'J' {
		b.WriteRune(s.r.Advance())
	} else if v.Is2() && (ch == 'L' || ch == 'l') {
		b.WriteRune(s.r.Advance())
	}

	text := b.String()
	num, err := literal.ParseNumber(text, v)
	if err != nil {
		span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
		s.sink.Add(span, err.Error())
		return s.finish(startOffset, token.ILLEGAL, text, nil)
	}
	return s.finish(startOffset, numberKindToToken(num.Kind), text, num)
}

func isBasePrefix(ch rune) bool {
	switch unicode.ToLower(ch) {
	case 'x', 'o', 'b':
		return true
	}
	return false
}

func numberKindToToken(k literal.NumberKind) token.Token {
	switch k {
	case literal.KindInt:
		return token.INT
	case literal.KindBigInt:
		return token.BIGINT
	case literal.KindFloat:
		return token.FLOAT
	case literal.KindImaginary:
		return token.IMAGINARY
	}
	return token.ILLEGAL
}

// scanStringToken scans a quoted literal body (opening quote(s) not yet
// consumed). For an f-string prefix, decoding is deferred to the
// scanner/fstring sub-parser (C9): the token carries the raw body as its
// Literal and Kind FSTRING_START, and the parser invokes scanner.Split on
// demand, per the re-entrant function-call model of spec.md §9.
func (s *Scanner) scanStringToken(startOffset int, prefix literal.Prefix) token.Item {
	quote := s.r.Advance()
	triple := false
	if s.r.Peek(0) == quote && s.r.Peek(1) == quote {
		s.r.Advance()
		s.r.Advance()
		triple = true
	}

	var b strings.Builder
	for {
		ch := s.r.Peek(0)
		if ch < 0 {
			span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
			s.sink.Add(span, "EOL while scanning string literal")
			break
		}
		if ch == quote {
			if triple {
				if s.r.Peek(1) == quote && s.r.Peek(2) == quote {
					s.r.Advance()
					s.r.Advance()
					s.r.Advance()
					break
				}
				b.WriteRune(s.r.Advance())
				continue
			}
			s.r.Advance()
			break
		}
		if ch == '\n' && !triple {
			span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
			s.sink.Add(span, "EOL while scanning string literal")
			break
		}
		if ch == '\\' {
			b.WriteRune(s.r.Advance())
			if nxt := s.r.Peek(0); nxt >= 0 {
				b.WriteRune(s.r.Advance())
			}
			continue
		}
		b.WriteRune(s.r.Advance())
	}

	body := b.String()

	if prefix.FString {
		if !version.Supports(s.opts.LanguageVersion, version.FeatFStringPrefix) {
			span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
			msg, _ := version.Message(version.FeatFStringPrefix)
			s.sink.Add(span, msg)
		}
		return s.finish(startOffset, token.FSTRING_START, body, prefix)
	}

	text, bts, derr := literal.Decode(body, prefix)
	if derr != nil {
		span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
		s.sink.Add(span, derr.Error())
	}
	if prefix.Bytes {
		return s.finish(startOffset, token.BYTES, body, bts)
	}
	return s.finish(startOffset, token.STRING, body, text)
}

func (s *Scanner) openGroup(ch rune) {
	s.groupingDepth++
	s.groupingStack = append(s.groupingStack, ch)
}

func (s *Scanner) closeGroup(open rune, span token.Span) {
	if len(s.groupingStack) == 0 || s.groupingStack[len(s.groupingStack)-1] != open {
		s.sink.Add(span, "unmatched closing delimiter")
		return
	}
	s.groupingStack = s.groupingStack[:len(s.groupingStack)-1]
	s.groupingDepth--
}

func (s *Scanner) scanOperator(startOffset int) token.Item {
	ch := s.r.Advance()
	v := s.opts.LanguageVersion

	aug := func(op string) token.Item { return s.finish(startOffset, token.AUGASSIGN, op, nil) }

	switch ch {
	case '(':
		it := s.finish(startOffset, token.LPAREN, "", nil)
		s.openGroup('(')
		return it
	case ')':
		it := s.finish(startOffset, token.RPAREN, "", nil)
		s.closeGroup('(', it.Span)
		return it
	case '[':
		it := s.finish(startOffset, token.LBRACK, "", nil)
		s.openGroup('[')
		return it
	case ']':
		it := s.finish(startOffset, token.RBRACK, "", nil)
		s.closeGroup('[', it.Span)
		return it
	case '{':
		it := s.finish(startOffset, token.LBRACE, "", nil)
		s.openGroup('{')
		return it
	case '}':
		it := s.finish(startOffset, token.RBRACE, "", nil)
		s.closeGroup('{', it.Span)
		return it
	case ',':
		return s.finish(startOffset, token.COMMA, "", nil)
	case ':':
		if s.r.Peek(0) == '=' && version.Supports(v, version.FeatNamedExpr) {
			s.r.Advance()
			return s.finish(startOffset, token.WALRUS, "", nil)
		}
		return s.finish(startOffset, token.COLON, "", nil)
	case ';':
		return s.finish(startOffset, token.SEMICOLON, "", nil)
	case '.':
		if s.r.Peek(0) == '.' && s.r.Peek(1) == '.' {
			s.r.Advance()
			s.r.Advance()
			return s.finish(startOffset, token.ELLIPSIS, "", nil)
		}
		return s.finish(startOffset, token.DOT, "", nil)
	case '@':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("@=")
		}
		if !version.Supports(v, version.FeatMatMul) {
			span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
			s.sink.Add(span, "unexpected token '@'")
		}
		return s.finish(startOffset, token.AT, "", nil)
	case '+':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("+=")
		}
		return s.finish(startOffset, token.PLUS, "", nil)
	case '-':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("-=")
		}
		if s.r.Peek(0) == '>' {
			s.r.Advance()
			return s.finish(startOffset, token.ARROW, "", nil)
		}
		return s.finish(startOffset, token.MINUS, "", nil)
	case '*':
		if s.r.Peek(0) == '*' {
			s.r.Advance()
			if s.r.Peek(0) == '=' {
				s.r.Advance()
				return aug("**=")
			}
			return s.finish(startOffset, token.DOUBLESTAR, "", nil)
		}
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("*=")
		}
		return s.finish(startOffset, token.STAR, "", nil)
	case '/':
		if s.r.Peek(0) == '/' {
			s.r.Advance()
			if s.r.Peek(0) == '=' {
				s.r.Advance()
				return aug("//=")
			}
			return s.finish(startOffset, token.DOUBLESLASH, "", nil)
		}
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("/=")
		}
		return s.finish(startOffset, token.SLASH, "", nil)
	case '%':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("%=")
		}
		return s.finish(startOffset, token.PERCENT, "", nil)
	case '&':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("&=")
		}
		return s.finish(startOffset, token.AMP, "", nil)
	case '|':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("|=")
		}
		return s.finish(startOffset, token.PIPE, "", nil)
	case '^':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return aug("^=")
		}
		return s.finish(startOffset, token.CARET, "", nil)
	case '~':
		return s.finish(startOffset, token.TILDE, "", nil)
	case '<':
		if s.r.Peek(0) == '<' {
			s.r.Advance()
			if s.r.Peek(0) == '=' {
				s.r.Advance()
				return aug("<<=")
			}
			return s.finish(startOffset, token.LSHIFT, "", nil)
		}
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return s.finish(startOffset, token.LE, "", nil)
		}
		if s.r.Peek(0) == '>' && v.Is2() {
			s.r.Advance()
			return s.finish(startOffset, token.LTGT, "", nil)
		}
		return s.finish(startOffset, token.LT, "", nil)
	case '>':
		if s.r.Peek(0) == '>' {
			s.r.Advance()
			if s.r.Peek(0) == '=' {
				s.r.Advance()
				return aug(">>=")
			}
			return s.finish(startOffset, token.RSHIFT, "", nil)
		}
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return s.finish(startOffset, token.GE, "", nil)
		}
		return s.finish(startOffset, token.GT, "", nil)
	case '=':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return s.finish(startOffset, token.EQ, "", nil)
		}
		return s.finish(startOffset, token.ASSIGN, "", nil)
	case '!':
		if s.r.Peek(0) == '=' {
			s.r.Advance()
			return s.finish(startOffset, token.NE, "", nil)
		}
		span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
		s.sink.Add(span, "invalid syntax")
		return s.finish(startOffset, token.ILLEGAL, "!", nil)
	case '`':
		if !v.Is2() {
			span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
			s.sink.Add(span, "invalid syntax")
		}
		return s.finish(startOffset, token.BACKQUOTE, "", nil)
	case '\\':
		span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
		s.sink.Add(span, "unexpected character after line continuation character")
		return s.finish(startOffset, token.ILLEGAL, "\\", nil)
	default:
		span := s.r.File.Span(token.IndexSpan{Start: startOffset, End: s.r.CurrentIndex()})
		s.sink.Add(span, fmt.Sprintf("invalid character %q", ch))
		return s.finish(startOffset, token.ILLEGAL, string(ch), nil)
	}
}

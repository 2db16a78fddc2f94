package scanner

import (
	"strings"

	"github.com/gopythonic/pyparse/python/version"
)

// FSegmentKind classifies one piece of an f-string body after Split.
type FSegmentKind int

const (
	FSegText FSegmentKind = iota
	FSegExpr
)

// FSegment is one literal text run or `{expr}` replacement field inside
// an f-string, per spec.md §9's f-string sub-grammar.
type FSegment struct {
	Kind   FSegmentKind
	Offset int // byte offset of this segment within the f-string's body

	Text string // decoded literal text; FSegText only

	// Raw is the replacement field's unparsed expression source, still
	// containing whatever whitespace/parens the author wrote; the parser
	// feeds it back through its own expression grammar (spec.md §9's
	// "sub-parse as a function call" design). FSegExpr only.
	Raw        string
	Conversion rune // 's', 'r', 'a', or 0
	Debug      bool // true for the 3.8 `{expr=}` shorthand

	// FormatSpec holds the (possibly itself interpolated) text following
	// `:`, split the same way; nil if the field has no format spec.
	FormatSpec []FSegment
}

// FStringError reports a malformed f-string body. Offset is relative to
// the body passed to Split, so the caller (the parser, which knows the
// owning FSTRING_START token's span) can turn it into a real token.Span.
type FStringError struct {
	Offset  int
	Message string
}

func (e FStringError) Error() string { return e.Message }

// Split segments the raw, undecoded body of an f-string literal -- as
// captured verbatim by the outer scanner's FSTRING_START token -- into
// literal text runs and `{expr}` replacement fields. It is invoked by
// the parser, re-entrantly, the moment it sees an FSTRING_START token,
// rather than by the outer Scan() loop: each FSegExpr's Raw field is
// itself ordinary Python expression source that the parser parses with
// its normal expression grammar, exactly the "sub-parse as a function
// call" shape called for by spec.md §9.
func Split(body string, v version.Version) ([]FSegment, []FStringError) {
	segs, errs, _ := splitLevel(body, v, false)
	return segs, errs
}

// splitLevel does the work of Split. When stopAtBrace is true (used for
// a format spec's own text, and recursively for nested replacement
// fields within it), a lone unescaped '}' ends the level without being
// consumed, and its index is returned so the caller can verify and
// consume it.
//
// An escaped '{{' owes a matching lone '}' before the level ends: that
// '}' closes the escape and is itself taken literally (so `{{ mistake}`
// reads as the single literal chunk `{ mistake}`), while reaching the
// end of the body with an escape still owed is the same "expecting '}'"
// error an unclosed replacement field produces. A lone '}' with no
// escape outstanding remains a malformed-literal error.
func splitLevel(body string, v version.Version, stopAtBrace bool) (segs []FSegment, errs []FStringError, end int) {
	var textBuf strings.Builder
	textStart := 0
	i := 0
	n := len(body)
	openEscapes := 0

	flushText := func() {
		if textBuf.Len() > 0 {
			segs = append(segs, FSegment{Kind: FSegText, Offset: textStart, Text: textBuf.String()})
			textBuf.Reset()
		}
	}

	for i < n {
		switch body[i] {
		case '{':
			if i+1 < n && body[i+1] == '{' {
				textBuf.WriteByte('{')
				openEscapes++
				i += 2
				continue
			}
			flushText()
			seg, consumed, fieldErrs := scanReplacementField(body, i+1, v)
			segs = append(segs, seg)
			errs = append(errs, fieldErrs...)
			i = consumed
			textStart = i

		case '}':
			if i+1 < n && body[i+1] == '}' {
				textBuf.WriteByte('}')
				i += 2
				continue
			}
			if openEscapes > 0 {
				openEscapes--
				textBuf.WriteByte('}')
				i++
				continue
			}
			if stopAtBrace {
				flushText()
				return segs, errs, i
			}
			errs = append(errs, FStringError{Offset: i, Message: "f-string: single '}' is not allowed"})
			i++

		default:
			textBuf.WriteByte(body[i])
			i++
		}
	}
	if openEscapes > 0 {
		errs = append(errs, FStringError{Offset: n, Message: "f-string: expecting '}'"})
	}
	flushText()
	return segs, errs, n
}

// scanReplacementField scans one `{...}` field starting just past the
// opening brace (start points at the first byte of the expression). It
// tracks paren/bracket/brace nesting and skips over nested string
// literals (honoring backslash escapes and triple quotes, the same rules
// the outer scanner applies) so that a quoted '!', ':' or '=' inside a
// nested string is never mistaken for the field's own conversion/spec/
// debug marker.
func scanReplacementField(body string, start int, v version.Version) (FSegment, int, []FStringError) {
	n := len(body)
	exprStart := start
	i := start
	depth := 0
	inString := false
	triple := false
	var quote byte

	rawUpTo := func(end int) string { return strings.TrimSpace(body[exprStart:end]) }

	finishPlain := func(end int) (FSegment, int, []FStringError) {
		return FSegment{Kind: FSegExpr, Offset: start, Raw: rawUpTo(end)}, end + 1, nil
	}

	finishWithSpecOrConv := func(raw string, conv rune, debug bool, specStart int) (FSegment, int, []FStringError) {
		seg := FSegment{Kind: FSegExpr, Offset: start, Raw: raw, Conversion: conv, Debug: debug}
		specSegs, specErrs, end := splitLevel(body[specStart:], v, true)
		for si := range specSegs {
			specSegs[si].Offset += specStart
		}
		for ei := range specErrs {
			specErrs[ei].Offset += specStart
		}
		seg.FormatSpec = specSegs
		absEnd := specStart + end
		if absEnd < n && body[absEnd] == '}' {
			return seg, absEnd + 1, specErrs
		}
		return seg, absEnd, append(specErrs, FStringError{Offset: absEnd, Message: "f-string: expecting '}'"})
	}

	for i < n {
		ch := body[i]

		if inString {
			switch {
			case ch == '\\':
				i += 2
			case ch == quote && triple && i+2 < n && body[i+1] == quote && body[i+2] == quote:
				i += 3
				inString = false
			case ch == quote && triple:
				i++
			case ch == quote && !triple:
				i++
				inString = false
			default:
				i++
			}
			continue
		}

		switch ch {
		case '\'', '"':
			quote = ch
			triple = i+2 < n && body[i+1] == ch && body[i+2] == ch
			inString = true
			if triple {
				i += 3
			} else {
				i++
			}

		case '(', '[', '{':
			depth++
			i++

		case ')', ']':
			if depth > 0 {
				depth--
			}
			i++

		case '}':
			if depth > 0 {
				depth--
				i++
				continue
			}
			return finishPlain(i)

		case '!':
			if depth == 0 && i+1 < n && isConversionChar(body[i+1]) && (i+2 >= n || body[i+2] == ':' || body[i+2] == '}') {
				raw := rawUpTo(i)
				conv := rune(body[i+1])
				j := i + 2
				if j < n && body[j] == ':' {
					return finishWithSpecOrConv(raw, conv, false, j+1)
				}
				if j < n && body[j] == '}' {
					return FSegment{Kind: FSegExpr, Offset: start, Raw: raw, Conversion: conv}, j + 1, nil
				}
				return FSegment{Kind: FSegExpr, Offset: start, Raw: raw, Conversion: conv}, j,
					[]FStringError{{Offset: j, Message: "f-string: expecting '}'"}}
			}
			i++

		case ':':
			if depth == 0 {
				raw := rawUpTo(i)
				return finishWithSpecOrConv(raw, 0, false, i+1)
			}
			i++

		case '=':
			if depth == 0 && version.Supports(v, version.FeatFStringDebugEquals) &&
				!(i+1 < n && body[i+1] == '=') && !precedesAsComparison(body, i) {
				raw := rawUpTo(i)
				j := i + 1
				for j < n && (body[j] == ' ' || body[j] == '\t') {
					j++
				}
				var conv rune
				if j < n && body[j] == '!' && j+1 < n && isConversionChar(body[j+1]) {
					conv = rune(body[j+1])
					j += 2
				}
				if j < n && body[j] == ':' {
					return finishWithSpecOrConv(raw, conv, true, j+1)
				}
				if j < n && body[j] == '}' {
					return FSegment{Kind: FSegExpr, Offset: start, Raw: raw, Conversion: conv, Debug: true}, j + 1, nil
				}
				return FSegment{Kind: FSegExpr, Offset: start, Raw: raw, Conversion: conv, Debug: true}, j,
					[]FStringError{{Offset: j, Message: "f-string: expecting '}'"}}
			}
			i++

		default:
			i++
		}
	}

	return FSegment{Kind: FSegExpr, Offset: start, Raw: rawUpTo(n)}, n,
		[]FStringError{{Offset: n, Message: "f-string: expecting '}'"}}
}

func isConversionChar(b byte) bool { return b == 's' || b == 'r' || b == 'a' }

// precedesAsComparison reports whether the byte just before pos suggests
// '=' is completing a comparison/augmented-assignment operator (==, !=,
// <=, >=) rather than standing alone as the 3.8 debug-specifier marker.
func precedesAsComparison(body string, pos int) bool {
	if pos == 0 {
		return false
	}
	switch body[pos-1] {
	case '=', '!', '<', '>':
		return true
	}
	return false
}

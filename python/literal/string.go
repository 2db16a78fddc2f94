package literal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gopythonic/pyparse/python/version"
)

// Prefix describes the decoder selected for a string literal's prefix
// letters, per spec.md §9 "String prefix matrix": a (version, letters) ->
// decoder-kind table, rather than conditionals spread through the
// tokenizer.
type Prefix struct {
	Raw     bool
	Bytes   bool
	Unicode bool // explicit `u`/`U` marker (redundant in 3.x, meaningful in 2.x)
	FString bool
}

// ClassifyPrefix validates and decodes a string literal's prefix letters
// (already lower-cased is not assumed; matching is case-insensitive per
// spec.md §4.3). ok is false if the version does not support this prefix
// combination, with msg set to the canonical diagnostic text.
func ClassifyPrefix(letters string, v version.Version) (p Prefix, ok bool, msg string) {
	lower := strings.ToLower(letters)
	switch lower {
	case "":
		return Prefix{}, true, ""
	case "r":
		return Prefix{Raw: true}, true, ""
	case "b":
		if !version.Supports(v, version.FeatBytesPrefix) {
			return Prefix{}, false, "invalid syntax"
		}
		return Prefix{Bytes: true}, true, ""
	case "u":
		if !version.SupportsUPrefix(v) {
			return Prefix{}, false, "invalid syntax, u-prefixed strings are not supported in this version"
		}
		return Prefix{Unicode: true}, true, ""
	case "rb", "br":
		if !version.Supports(v, version.FeatBytesPrefix) {
			return Prefix{}, false, "invalid syntax"
		}
		if !version.Supports(v, version.FeatRBPrefix) {
			msg, _ := version.Message(version.FeatRBPrefix)
			return Prefix{}, false, msg
		}
		return Prefix{Raw: true, Bytes: true}, true, ""
	case "f":
		if !version.Supports(v, version.FeatFStringPrefix) {
			msg, _ := version.Message(version.FeatFStringPrefix)
			return Prefix{}, false, msg
		}
		return Prefix{FString: true}, true, ""
	case "fr", "rf":
		if !version.Supports(v, version.FeatFStringPrefix) {
			msg, _ := version.Message(version.FeatFStringPrefix)
			return Prefix{}, false, msg
		}
		return Prefix{Raw: true, FString: true}, true, ""
	default:
		return Prefix{}, false, fmt.Sprintf("invalid string prefix %q", letters)
	}
}

// DecodeError reports an escape-decoding failure with the byte offset
// (relative to the start of body passed to Decode) of the offending
// character, so callers can translate it into a source span.
type DecodeError struct {
	Offset  int
	Message string
}

func (e *DecodeError) Error() string { return e.Message }

// Decode turns the raw quoted body of a string/bytes literal (with
// surrounding quotes already stripped by the caller) into its value.
// For byte strings the result is returned in bts (as Latin-1 bytes); for
// text strings in text. Raw strings are returned unchanged, every
// backslash kept; all other strings apply full Python escape processing
// (spec.md §4.3 "String literals").
func Decode(body string, p Prefix) (text string, bts []byte, err error) {
	if p.Raw {
		return decodeRaw(body, p)
	}
	return decodeEscaped(body, p)
}

func decodeRaw(body string, p Prefix) (string, []byte, error) {
	// Raw strings pass every backslash through literally, including one
	// that precedes a quote character or a newline.
	if p.Bytes {
		return "", []byte(body), nil
	}
	return body, nil, nil
}

func decodeEscaped(body string, p Prefix) (string, []byte, error) {
	var b strings.Builder
	var bb []byte
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch != '\\' {
			if p.Bytes {
				bb = append(bb, encodeByte(ch)...)
			} else {
				b.WriteRune(ch)
			}
			continue
		}
		if i+1 >= len(runes) {
			return "", nil, &DecodeError{Offset: i, Message: "EOL while scanning string literal"}
		}
		i++
		next := runes[i]
		switch next {
		case '\n':
			// line continuation inside the literal; contributes nothing
		case '\\', '\'', '"':
			appendRune(&b, &bb, p.Bytes, next)
		case 'a':
			appendRune(&b, &bb, p.Bytes, '\a')
		case 'b':
			appendRune(&b, &bb, p.Bytes, '\b')
		case 'f':
			appendRune(&b, &bb, p.Bytes, '\f')
		case 'n':
			appendRune(&b, &bb, p.Bytes, '\n')
		case 'r':
			appendRune(&b, &bb, p.Bytes, '\r')
		case 't':
			appendRune(&b, &bb, p.Bytes, '\t')
		case 'v':
			appendRune(&b, &bb, p.Bytes, '\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			start := i
			n := 1
			for n < 3 && i+1 < len(runes) && isOctal(runes[i+1]) {
				i++
				n++
			}
			val, _ := strconv.ParseInt(string(runes[start:i+1]), 8, 32)
			appendByte(&b, &bb, p.Bytes, byte(val))
		case 'x':
			if i+2 >= len(runes) || !isHex(runes[i+1]) || !isHex(runes[i+2]) {
				return "", nil, &DecodeError{Offset: i - 1, Message: "invalid \\x escape"}
			}
			val, _ := strconv.ParseInt(string(runes[i+1:i+3]), 16, 32)
			i += 2
			appendByte(&b, &bb, p.Bytes, byte(val))
		case 'u', 'U':
			if p.Bytes {
				// \u and \U are not special in byte strings; kept literal.
				appendRune(&b, &bb, p.Bytes, '\\')
				appendRune(&b, &bb, p.Bytes, next)
				continue
			}
			width := 4
			if next == 'U' {
				width = 8
			}
			placeholder := "\\uXXXX"
			if next == 'U' {
				placeholder = "\\UXXXXXXXX"
			}
			start := i + 1
			if start+width > len(runes) {
				return "", nil, &DecodeError{
					Offset:  i - 1,
					Message: fmt.Sprintf("'unicodeescape' codec can't decode bytes in position %d: truncated %s escape", i-1, placeholder),
				}
			}
			for j := 0; j < width; j++ {
				if !isHex(runes[start+j]) {
					return "", nil, &DecodeError{
						Offset:  i - 1,
						Message: fmt.Sprintf("'unicodeescape' codec can't decode bytes in position %d: truncated %s escape", i-1, placeholder),
					}
				}
			}
			val, _ := strconv.ParseInt(string(runes[start:start+width]), 16, 64)
			i = start + width - 1
			b.WriteRune(rune(val))
		default:
			// Unrecognized escape: Python keeps the backslash literally.
			appendRune(&b, &bb, p.Bytes, '\\')
			appendRune(&b, &bb, p.Bytes, next)
		}
	}
	if p.Bytes {
		return "", bb, nil
	}
	return b.String(), nil, nil
}

func appendRune(b *strings.Builder, bb *[]byte, isBytes bool, r rune) {
	if isBytes {
		*bb = append(*bb, encodeByte(r)...)
		return
	}
	b.WriteRune(r)
}

func appendByte(b *strings.Builder, bb *[]byte, isBytes bool, v byte) {
	if isBytes {
		*bb = append(*bb, v)
		return
	}
	b.WriteRune(rune(v))
}

func encodeByte(r rune) []byte {
	if r < 256 {
		return []byte{byte(r)}
	}
	return []byte(string(r))
}

func isOctal(r rune) bool { return r >= '0' && r <= '7' }
func isHex(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

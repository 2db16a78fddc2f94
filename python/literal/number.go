// Package literal decodes the text of numeric and string tokens into their
// typed values: the numeric payload rules and string-prefix matrix of
// spec.md §3 "Tokens" and §4.3. It is invoked by the scanner once a
// literal's extent has been determined.
package literal

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/gopythonic/pyparse/python/version"
)

// NumberKind classifies a decoded numeric literal.
type NumberKind int

const (
	KindInt NumberKind = iota
	KindBigInt
	KindFloat
	KindImaginary
)

// Number holds the decoded value of a numeric literal token. Exactly one
// of the fields matching Kind is meaningful.
type Number struct {
	Kind    NumberKind
	Int     int32      // KindInt
	BigInt  *big.Int   // KindBigInt
	Float   float64    // KindFloat, or the real part described below
	Imag    float64    // KindImaginary: imaginary part (real is always 0.0 per spec.md §3)
	IsFloat bool       // true if the decimal form had a '.' or exponent (for KindImaginary, whether the coefficient was a float)
}

// ParseNumber decodes the verbatim text of a NUMBER token (without any
// trailing 'L'/'l'/'j'/'J' suffix classification having been done by the
// caller — ParseNumber does that itself) under the given version.
//
// It mirrors the structure of the teacher's scanner.scanNumber, which
// recognizes the same literal shapes textually; ParseNumber instead turns
// that already-recognized text into a typed value.
func ParseNumber(text string, v version.Version) (Number, error) {
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		coeff := text[:len(text)-1]
		f, isFloat, err := parseRealCoefficient(coeff, v)
		if err != nil {
			return Number{}, err
		}
		return Number{Kind: KindImaginary, Imag: f, IsFloat: isFloat}, nil
	}

	if v.Is2() && (strings.HasSuffix(text, "L") || strings.HasSuffix(text, "l")) {
		body := text[:len(text)-1]
		bi, ok := parseIntBody(body, v)
		if !ok {
			return Number{}, errInvalid(text)
		}
		return Number{Kind: KindBigInt, BigInt: bi}, nil
	}

	if isFloatText(text) {
		f, err := strconv.ParseFloat(stripUnderscores(text), 64)
		if err != nil {
			return Number{}, err
		}
		return Number{Kind: KindFloat, Float: f, IsFloat: true}, nil
	}

	bi, ok := parseIntBody(text, v)
	if !ok {
		return Number{}, errInvalid(text)
	}
	if bi.IsInt64() && bi.Int64() >= -(1<<31) && bi.Int64() < (1<<31) {
		return Number{Kind: KindInt, Int: int32(bi.Int64())}, nil
	}
	return Number{Kind: KindBigInt, BigInt: bi}, nil
}

func errInvalid(text string) error { return &InvalidNumberError{Text: text} }

// InvalidNumberError reports that text could not be parsed as a number.
type InvalidNumberError struct{ Text string }

func (e *InvalidNumberError) Error() string { return "invalid numeric literal: " + e.Text }

func isFloatText(text string) bool {
	body := text
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") ||
		strings.HasPrefix(body, "0o") || strings.HasPrefix(body, "0O") ||
		strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B") {
		return false
	}
	return strings.ContainsAny(body, ".eE")
}

func parseRealCoefficient(text string, v version.Version) (float64, bool, error) {
	if isFloatText(text) {
		f, err := strconv.ParseFloat(stripUnderscores(text), 64)
		return f, true, err
	}
	bi, ok := parseIntBody(text, v)
	if !ok {
		return 0, false, errInvalid(text)
	}
	f := new(big.Float).SetInt(bi)
	out, _ := f.Float64()
	return out, false, nil
}

func stripUnderscores(s string) string { return strings.ReplaceAll(s, "_", "") }

// parseIntBody parses a decimal/hex/octal/binary/legacy-octal integer
// body (no L/l/j/J suffix) into a big.Int. Underscore separators are
// accepted and stripped regardless of version here — the scanner is
// responsible for rejecting underscores textually under versions that do
// not support them (spec.md: "their presence is a lexical error at the
// first '_'" is a scanning-time concern, not a decoding-time one).
func parseIntBody(body string, v version.Version) (*big.Int, bool) {
	clean := stripUnderscores(body)
	bi := new(big.Int)

	switch {
	case strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X"):
		_, ok := bi.SetString(clean[2:], 16)
		return bi, ok
	case strings.HasPrefix(clean, "0o") || strings.HasPrefix(clean, "0O"):
		_, ok := bi.SetString(clean[2:], 8)
		return bi, ok
	case strings.HasPrefix(clean, "0b") || strings.HasPrefix(clean, "0B"):
		_, ok := bi.SetString(clean[2:], 2)
		return bi, ok
	case v.Is2() && len(clean) > 1 && clean[0] == '0':
		// legacy octal, e.g. 0755
		_, ok := bi.SetString(clean[1:], 8)
		return bi, ok
	default:
		_, ok := bi.SetString(clean, 10)
		return bi, ok
	}
}

package token

// Item is a single scanned token: its kind, the decoded literal value (if
// any), and everything needed to reproduce the exact source bytes it came
// from. This is the concrete type the scanner emits and the parser
// consumes (C2's "Token" of spec.md §3).
type Item struct {
	Kind    Token
	Keyword Keyword // meaningful only when Kind == KEYWORD

	// Literal is the token's textual content with prefixes/quotes already
	// stripped for names and numbers; for strings it is the raw,
	// still-escaped body (decoding is done by the literal package, not
	// here, so a parser can report span-accurate decode errors).
	Literal string

	// Value carries the decoded payload: literal.Number for numeric
	// tokens, a decoded string/[]byte for STRING/BYTES, the literal.Prefix
	// for FSTRING_START, nil otherwise.
	Value interface{}

	Span Span

	// PrecedingWhitespace and VerbatimImage together reproduce the
	// source byte-for-byte when Options.Verbatim is set (spec.md §4.3
	// "Round-trip invariant"); both are empty when verbatim mode is off.
	PrecedingWhitespace string
	VerbatimImage       string
}

func (it Item) String() string {
	if it.Literal != "" {
		return it.Literal
	}
	return it.Kind.String()
}

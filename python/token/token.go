package token

import "github.com/gopythonic/pyparse/python/version"

// Token identifies the lexical class of a token (C2).
type Token int

const (
	ILLEGAL Token = iota
	EOF

	// Structural
	NEWLINE // logical-line terminator
	NL      // non-logical newline (inside grouping; emitted in verbatim mode only)
	INDENT
	DEDENT
	COMMENT

	// Literals
	NAME
	KEYWORD // literal holds the specific keyword spelling; Item.Keyword identifies it
	INT
	BIGINT
	FLOAT
	IMAGINARY
	STRING
	BYTES

	// f-string sub-tokens (C9)
	FSTRING_START
	FSTRING_TEXT
	FSTRING_EXPR_START
	FSTRING_EXPR_END
	FSTRING_END

	// Operators and delimiters
	LPAREN
	RPAREN
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	COMMA
	COLON
	SEMICOLON
	DOT
	ELLIPSIS
	ARROW // ->
	ASSIGN
	AUGASSIGN // literal holds which op, e.g. "+="
	WALRUS    // :=
	AT        // decorator / matmul

	PLUS
	MINUS
	STAR
	DOUBLESTAR
	SLASH
	DOUBLESLASH
	PERCENT
	AMP
	PIPE
	CARET
	TILDE
	LSHIFT
	RSHIFT

	LT
	GT
	LE
	GE
	EQ
	NE
	LTGT // <> (2.x only)

	// Keyword-spelled comparison operators, broken out of KEYWORD so that
	// BinOp.Op can distinguish them the same way it distinguishes the
	// punctuation comparison operators above.
	IS
	ISNOT
	IN
	NOTIN

	BACKQUOTE // `...` (2.x only)
)

var tokenNames = map[Token]string{
	ILLEGAL: "illegal", EOF: "EOF", NEWLINE: "newline", NL: "NL",
	INDENT: "indent", DEDENT: "dedent", COMMENT: "comment",
	NAME: "name", KEYWORD: "keyword", INT: "int", BIGINT: "bigint",
	FLOAT: "float", IMAGINARY: "imaginary", STRING: "string", BYTES: "bytes",
	FSTRING_START: "fstring-start", FSTRING_TEXT: "fstring-text",
	FSTRING_EXPR_START: "fstring-expr-start", FSTRING_EXPR_END: "fstring-expr-end",
	FSTRING_END: "fstring-end",
	LPAREN:      "(", RPAREN: ")", LBRACK: "[", RBRACK: "]", LBRACE: "{", RBRACE: "}",
	COMMA:       ",", COLON: ":", SEMICOLON: ";", DOT: ".", ELLIPSIS: "...",
	ARROW:       "->", ASSIGN: "=", AUGASSIGN: "augassign", WALRUS: ":=", AT: "@",
	PLUS:        "+", MINUS: "-", STAR: "*", DOUBLESTAR: "**", SLASH: "/",
	DOUBLESLASH: "//", PERCENT: "%", AMP: "&", PIPE: "|", CARET: "^", TILDE: "~",
	LSHIFT:      "<<", RSHIFT: ">>",
	LT:          "<", GT: ">", LE: "<=", GE: ">=", EQ: "==", NE: "!=", LTGT: "<>",
	IS:          "is", ISNOT: "is not", IN: "in", NOTIN: "not in",
	BACKQUOTE:   "`",
}

func (t Token) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "unknown"
}

// IsLiteral reports whether t carries a meaningful literal payload, the
// way the teacher's token.Token.IsLiteral distinguishes NAME/INT/etc. from
// fixed-spelling punctuation for error-message formatting.
func (t Token) IsLiteral() bool {
	switch t {
	case NAME, KEYWORD, INT, BIGINT, FLOAT, IMAGINARY, STRING, BYTES, COMMENT:
		return true
	}
	return false
}

// Keyword identifies a specific reserved word.
type Keyword int

const (
	KwFalse Keyword = iota
	KwNone
	KwTrue
	KwAnd
	KwAs
	KwAssert
	KwAsync
	KwAwait
	KwBreak
	KwClass
	KwContinue
	KwDef
	KwDel
	KwElif
	KwElse
	KwExcept
	KwExec
	KwFinally
	KwFor
	KwFrom
	KwGlobal
	KwIf
	KwImport
	KwIn
	KwIs
	KwLambda
	KwNonlocal
	KwNot
	KwOr
	KwPass
	KwPrint
	KwRaise
	KwReturn
	KwTry
	KwWhile
	KwWith
	KwYield
)

var keywordSpellings = map[Keyword]string{
	KwFalse: "False", KwNone: "None", KwTrue: "True", KwAnd: "and", KwAs: "as",
	KwAssert: "assert", KwAsync: "async", KwAwait: "await", KwBreak: "break",
	KwClass: "class", KwContinue: "continue", KwDef: "def", KwDel: "del",
	KwElif: "elif", KwElse: "else", KwExcept: "except", KwExec: "exec",
	KwFinally: "finally", KwFor: "for", KwFrom: "from", KwGlobal: "global",
	KwIf: "if", KwImport: "import", KwIn: "in", KwIs: "is", KwLambda: "lambda",
	KwNonlocal: "nonlocal", KwNot: "not", KwOr: "or", KwPass: "pass",
	KwPrint: "print", KwRaise: "raise", KwReturn: "return", KwTry: "try",
	KwWhile: "while", KwWith: "with", KwYield: "yield",
}

func (k Keyword) String() string { return keywordSpellings[k] }

var keywordsBySpelling = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordSpellings))
	for k, s := range keywordSpellings {
		m[s] = k
	}
	return m
}()

// alwaysKeyword holds words reserved in every supported version.
var alwaysKeyword = map[Keyword]bool{
	KwAnd: true, KwAs: true, KwAssert: true, KwBreak: true, KwClass: true,
	KwContinue: true, KwDef: true, KwDel: true, KwElif: true, KwElse: true,
	KwExcept: true, KwFinally: true, KwFor: true, KwFrom: true, KwGlobal: true,
	KwIf: true, KwImport: true, KwIn: true, KwIs: true, KwLambda: true,
	KwNot: true, KwOr: true, KwPass: true, KwRaise: true, KwReturn: true,
	KwTry: true, KwWhile: true, KwWith: true, KwYield: true,
}

// LookupKeyword classifies an identifier spelling as a keyword under the
// given language version, per spec.md §4.3 "Keywords and identifiers":
// print/exec are 2.x-only, nonlocal/True/False/None are 3.x-only, and
// async/await are handled separately (they are contextual, not purely
// version-gated — see the scanner's inAsyncContext).
func LookupKeyword(lit string, v version.Version) (k Keyword, ok bool) {
	k, ok = keywordsBySpelling[lit]
	if !ok {
		return 0, false
	}
	if alwaysKeyword[k] {
		return k, true
	}
	switch k {
	case KwPrint, KwExec:
		return k, v.Is2()
	case KwNonlocal, KwTrue, KwFalse, KwNone:
		return k, v.Is3()
	case KwAsync, KwAwait:
		// Contextual; the scanner decides using its async-def nesting
		// state. Report "known spelling" here and let the caller gate it.
		return k, true
	}
	return k, true
}

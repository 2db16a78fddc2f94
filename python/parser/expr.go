package parser

import (
	pyast "github.com/gopythonic/pyparse/python/ast"
	"github.com/gopythonic/pyparse/python/literal"
	"github.com/gopythonic/pyparse/python/scanner"
	"github.com/gopythonic/pyparse/python/token"
	"github.com/gopythonic/pyparse/python/version"
)

// ----------------------------------------------------------------------
// test / namedexpr_test / lambda

// parseTestListAsExpr parses a comma-separated list of (possibly
// starred) test expressions, returning the lone expression when there is
// exactly one with no trailing comma, or a Tuple otherwise -- the shape
// used for return/raise values, assignment right-hand sides, and the
// top-expression parse entry point.
func (p *parser) parseTestListAsExpr() pyast.Expr {
	return p.parseTestListStarAsExpr()
}

func (p *parser) parseTestListStarAsExpr() pyast.Expr {
	start := p.tok.Span.Start
	first := p.parseTestOrStar()
	if p.tok.Kind != token.COMMA {
		return first
	}
	elts := []pyast.Expr{first}
	trailingComma := false
	for p.tok.Kind == token.COMMA {
		p.next()
		trailingComma = true
		if p.atExprListEnd() {
			break
		}
		elts = append(elts, p.parseTestOrStar())
		trailingComma = false
	}
	_ = trailingComma
	end := elts[len(elts)-1].End()
	return &pyast.Tuple{Header: pyast.NewSpan(start, end), Elts: elts}
}

func (p *parser) atExprListEnd() bool {
	switch p.tok.Kind {
	case token.NEWLINE, token.SEMICOLON, token.EOF, token.DEDENT,
		token.RPAREN, token.RBRACK, token.RBRACE, token.COLON, token.ASSIGN, token.EQ:
		return true
	}
	if p.tok.Kind == token.KEYWORD && (p.tok.Keyword == token.KwIn) {
		return true
	}
	return false
}

func (p *parser) parseTestOrStar() pyast.Expr {
	if p.tok.Kind == token.STAR {
		start := p.tok.Span.Start
		p.next()
		v := p.parseOrExpr()
		return &pyast.Starred{Header: pyast.NewSpan(start, v.End()), Value: v}
	}
	return p.parseTest()
}

// parseNamedTest allows a top-level `name := value` (3.8+), the shape
// legal directly inside a control-clause header, a call argument, or a
// parenthesized group, per spec.md §4.5's named-expression rules.
func (p *parser) parseNamedTest() pyast.Expr {
	if p.tok.Kind == token.NAME && p.peek().Kind == token.WALRUS {
		if !version.Supports(p.v, version.FeatNamedExpr) {
			msg, _ := version.Message(version.FeatNamedExpr)
			p.errorf(p.tok.Span, msg)
		}
		name := p.parseName()
		p.next() // consume ':='
		value := p.parseTest()
		return &pyast.NamedExpr{Header: pyast.NewSpan(name.Pos(), value.End()), Target: name, Value: value}
	}
	return p.parseTest()
}

func (p *parser) parseTest() pyast.Expr {
	if p.atKeyword(token.KwLambda) {
		return p.parseLambda()
	}
	start := p.tok.Span.Start
	body := p.parseOrTest()
	if p.atKeyword(token.KwIf) {
		p.next()
		test := p.parseOrTest()
		p.expectKeyword(token.KwElse)
		orelse := p.parseTest()
		return &pyast.Conditional{Header: pyast.NewSpan(start, orelse.End()), Body: body, Test: test, Orelse: orelse}
	}
	return body
}

func (p *parser) parseLambda() pyast.Expr {
	start := p.tok.Span.Start
	p.next()
	var params []*pyast.Parameter
	if p.tok.Kind != token.COLON {
		params = p.parseLambdaParamList()
	}
	p.expect(token.COLON)
	body := p.parseTest()
	return &pyast.Lambda{Header: pyast.NewSpan(start, body.End()), Params: params, Body: body}
}

func (p *parser) parseLambdaParamList() []*pyast.Parameter {
	var params []*pyast.Parameter
	for p.tok.Kind != token.COLON && p.tok.Kind != token.EOF {
		start := p.tok.Span.Start
		switch {
		case p.tok.Kind == token.DOUBLESTAR:
			p.next()
			name := p.expectNameLiteral()
			params = append(params, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Name: name, Kind: pyast.ParamDoubleStarKwargs})
		case p.tok.Kind == token.STAR:
			p.next()
			if p.tok.Kind == token.COMMA || p.tok.Kind == token.COLON {
				params = append(params, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Kind: pyast.ParamBareStar})
			} else {
				name := p.expectNameLiteral()
				params = append(params, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Name: name, Kind: pyast.ParamStarArgs})
			}
		default:
			name := p.expectNameLiteral()
			var def pyast.Expr
			if p.tok.Kind == token.ASSIGN {
				p.next()
				def = p.parseTest()
			}
			params = append(params, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Name: name, Default: def, Kind: pyast.ParamNormal})
		}
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
	}
	return params
}

// ----------------------------------------------------------------------
// Boolean / comparison / bitwise / arithmetic precedence chain

func (p *parser) parseOrTest() pyast.Expr {
	start := p.tok.Span.Start
	first := p.parseAndTest()
	if !p.atKeyword(token.KwOr) {
		return first
	}
	values := []pyast.Expr{first}
	for p.atKeyword(token.KwOr) {
		p.next()
		values = append(values, p.parseAndTest())
	}
	return &pyast.BoolOp{Header: pyast.NewSpan(start, values[len(values)-1].End()), Op: token.KEYWORD, IsAnd: false, Values: values}
}

func (p *parser) parseAndTest() pyast.Expr {
	start := p.tok.Span.Start
	first := p.parseNotTest()
	if !p.atKeyword(token.KwAnd) {
		return first
	}
	values := []pyast.Expr{first}
	for p.atKeyword(token.KwAnd) {
		p.next()
		values = append(values, p.parseNotTest())
	}
	return &pyast.BoolOp{Header: pyast.NewSpan(start, values[len(values)-1].End()), Op: token.KEYWORD, IsAnd: true, Values: values}
}

func (p *parser) parseNotTest() pyast.Expr {
	if p.atKeyword(token.KwNot) {
		start := p.tok.Span.Start
		p.next()
		operand := p.parseNotTest()
		return &pyast.UnaryOp{Header: pyast.NewSpan(start, operand.End()), Op: token.KEYWORD, Operand: operand}
	}
	return p.parseComparison()
}

// atCompOp reports the concrete comparison operator token (if any) the
// parser is sitting on, distinguishing `is`/`is not`/`in`/`not in` the
// same way punctuation comparisons are distinguished by Token kind.
func (p *parser) atCompOp() (token.Token, bool) {
	switch p.tok.Kind {
	case token.LT, token.GT, token.EQ, token.GE, token.LE, token.NE, token.LTGT:
		return p.tok.Kind, true
	case token.KEYWORD:
		switch p.tok.Keyword {
		case token.KwIn:
			return token.IN, true
		case token.KwIs:
			if p.peek().Kind == token.KEYWORD && p.peek().Keyword == token.KwNot {
				return token.ISNOT, true
			}
			return token.IS, true
		case token.KwNot:
			if p.peek().Kind == token.KEYWORD && p.peek().Keyword == token.KwIn {
				return token.NOTIN, true
			}
		}
	}
	return token.ILLEGAL, false
}

// parseComparison builds a chained comparison `a < b <= c` as a
// conjunction of the adjacent pairwise comparisons, the standard
// desugaring that preserves short-circuit semantics without a dedicated
// n-ary Compare node.
func (p *parser) parseComparison() pyast.Expr {
	start := p.tok.Span.Start
	left := p.parseBitOr()
	var pairs []pyast.Expr
	for {
		op, ok := p.atCompOp()
		if !ok {
			break
		}
		p.next() // consume the first keyword/punctuation token
		if op == token.ISNOT || op == token.NOTIN {
			p.next() // consume the second keyword ("not"/"in")
		}
		right := p.parseBitOr()
		pairs = append(pairs, &pyast.BinOp{Header: pyast.NewSpan(left.Pos(), right.End()), Left: left, Op: op, Right: right})
		left = right
	}
	if len(pairs) == 0 {
		return left
	}
	if len(pairs) == 1 {
		return pairs[0]
	}
	return &pyast.BoolOp{Header: pyast.NewSpan(start, pairs[len(pairs)-1].End()), Op: token.KEYWORD, IsAnd: true, Values: pairs}
}

func (p *parser) parseBitOr() pyast.Expr {
	left := p.parseBitXor()
	for p.tok.Kind == token.PIPE {
		p.next()
		right := p.parseBitXor()
		left = &pyast.BinOp{Header: pyast.NewSpan(left.Pos(), right.End()), Left: left, Op: token.PIPE, Right: right}
	}
	return left
}

func (p *parser) parseBitXor() pyast.Expr {
	left := p.parseBitAnd()
	for p.tok.Kind == token.CARET {
		p.next()
		right := p.parseBitAnd()
		left = &pyast.BinOp{Header: pyast.NewSpan(left.Pos(), right.End()), Left: left, Op: token.CARET, Right: right}
	}
	return left
}

func (p *parser) parseBitAnd() pyast.Expr {
	left := p.parseShift()
	for p.tok.Kind == token.AMP {
		p.next()
		right := p.parseShift()
		left = &pyast.BinOp{Header: pyast.NewSpan(left.Pos(), right.End()), Left: left, Op: token.AMP, Right: right}
	}
	return left
}

func (p *parser) parseShift() pyast.Expr {
	left := p.parseArith()
	for p.tok.Kind == token.LSHIFT || p.tok.Kind == token.RSHIFT {
		op := p.tok.Kind
		p.next()
		right := p.parseArith()
		left = &pyast.BinOp{Header: pyast.NewSpan(left.Pos(), right.End()), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseArith() pyast.Expr {
	left := p.parseTerm()
	for p.tok.Kind == token.PLUS || p.tok.Kind == token.MINUS {
		op := p.tok.Kind
		p.next()
		right := p.parseTerm()
		left = &pyast.BinOp{Header: pyast.NewSpan(left.Pos(), right.End()), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseTerm() pyast.Expr {
	left := p.parseFactor()
	for {
		switch p.tok.Kind {
		case token.STAR, token.SLASH, token.DOUBLESLASH, token.PERCENT:
			op := p.tok.Kind
			p.next()
			right := p.parseFactor()
			left = &pyast.BinOp{Header: pyast.NewSpan(left.Pos(), right.End()), Left: left, Op: op, Right: right}
		case token.AT:
			if !version.Supports(p.v, version.FeatMatMul) {
				msg, _ := version.Message(version.FeatMatMul)
				p.errorf(p.tok.Span, msg)
			}
			p.next()
			right := p.parseFactor()
			left = &pyast.BinOp{Header: pyast.NewSpan(left.Pos(), right.End()), Left: left, Op: token.AT, Right: right}
		default:
			return left
		}
	}
}

func (p *parser) parseFactor() pyast.Expr {
	switch p.tok.Kind {
	case token.PLUS, token.MINUS, token.TILDE:
		start := p.tok.Span.Start
		op := p.tok.Kind
		p.next()
		operand := p.parseFactor()
		return &pyast.UnaryOp{Header: pyast.NewSpan(start, operand.End()), Op: op, Operand: operand}
	}
	return p.parsePower()
}

func (p *parser) parsePower() pyast.Expr {
	base := p.parseAwaitOrAtomTrailers()
	if p.tok.Kind == token.DOUBLESTAR {
		p.next()
		exp := p.parseFactor() // right-associative
		return &pyast.BinOp{Header: pyast.NewSpan(base.Pos(), exp.End()), Left: base, Op: token.DOUBLESTAR, Right: exp}
	}
	return base
}

func (p *parser) parseAwaitOrAtomTrailers() pyast.Expr {
	if p.atKeyword(token.KwAwait) {
		start := p.tok.Span.Start
		fs := p.curFunc()
		if fs == nil || !fs.isAsync {
			p.errorf(p.tok.Span, "'await' outside async function")
		}
		p.next()
		v := p.parseAwaitOrAtomTrailers()
		return &pyast.Await{Header: pyast.NewSpan(start, v.End()), Value: v}
	}
	return p.parseAtomTrailers()
}

// parseOrExpr is the bitwise-or precedence level, the widest expression
// legal as an assignment/for/with target or decorator base (no boolean
// or/and/not, no conditional, no lambda).
func (p *parser) parseOrExpr() pyast.Expr { return p.parseBitOr() }

// ----------------------------------------------------------------------
// Atoms and trailers

func (p *parser) parseAtomTrailers() pyast.Expr {
	e := p.parseAtom()
	for {
		switch p.tok.Kind {
		case token.DOT:
			start := p.tok.Span.Start
			_ = start
			p.next()
			attrTok := p.tok
			attr := p.expectNameLiteral()
			e = &pyast.Attribute{Header: pyast.NewSpan(e.Pos(), attrTok.Span.End), Value: e, Attr: attr}
		case token.LPAREN:
			e = p.parseCallTrailer(e)
		case token.LBRACK:
			e = p.parseSubscriptTrailer(e)
		default:
			return e
		}
	}
}

func (p *parser) parseCallTrailer(fn pyast.Expr) pyast.Expr {
	p.expect(token.LPAREN)
	p.exprLev++
	var args []pyast.Expr
	var keywords []*pyast.Keyword
	seenStar, seenDoubleStar := false, false
	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		switch {
		case p.tok.Kind == token.DOUBLESTAR:
			if seenDoubleStar && !version.Supports(p.v, version.FeatGeneralizedUnpacking) {
				msg, _ := version.Message(version.FeatGeneralizedUnpacking)
				p.errorf(p.tok.Span, msg)
			}
			start := p.tok.Span.Start
			p.next()
			v := p.parseTest()
			keywords = append(keywords, &pyast.Keyword{Header: pyast.NewSpan(start, v.End()), Value: v})
			seenDoubleStar = true
		case p.tok.Kind == token.STAR:
			if seenStar && !version.Supports(p.v, version.FeatGeneralizedUnpacking) {
				msg, _ := version.Message(version.FeatGeneralizedUnpacking)
				p.errorf(p.tok.Span, msg)
			}
			start := p.tok.Span.Start
			p.next()
			v := p.parseTest()
			args = append(args, &pyast.Starred{Header: pyast.NewSpan(start, v.End()), Value: v})
			seenStar = true
		case p.tok.Kind == token.NAME && p.peek().Kind == token.ASSIGN:
			start := p.tok.Span.Start
			name := p.expectNameLiteral()
			p.next() // consume '='
			v := p.parseTest()
			keywords = append(keywords, &pyast.Keyword{Header: pyast.NewSpan(start, v.End()), Name: name, Value: v})
		default:
			v := p.parseNamedTest()
			if comp := p.tryParseComprehensionTail(v); comp != nil {
				args = append(args, comp)
				break
			}
			args = append(args, v)
		}
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
	}
	p.exprLev--
	p.expectClosing(token.RPAREN, "call arguments")
	return &pyast.Call{Header: pyast.NewSpan(fn.Pos(), p.tok.Span.Start), Func: fn, Args: args, Keywords: keywords}
}

// tryParseComprehensionTail, when the next token is `for` (or `async
// for`), consumes the rest of a generator expression whose element was
// already parsed as elt, returning it wrapped in a GeneratorExp; returns
// nil if no `for` follows, leaving the parser position untouched.
func (p *parser) tryParseComprehensionTail(elt pyast.Expr) pyast.Expr {
	if !p.atKeyword(token.KwFor) && !(p.atKeyword(token.KwAsync) && p.peek().Kind == token.KEYWORD && p.peek().Keyword == token.KwFor) {
		return nil
	}
	gens := p.parseComprehensionClauses()
	return &pyast.GeneratorExp{Header: pyast.NewSpan(elt.Pos(), gens[len(gens)-1].End()), Elt: elt, Generators: gens}
}

// parseComprehensionClauses parses one or more `[async] for target in
// or_test (if or_test)*` clauses, per spec.md §4.5's comprehension rules
// (iterable at each clause parses at or_test precedence -- no bare
// tuple, no walrus). No check is made here that a target or named
// expression rebinds an outer iteration variable.
func (p *parser) parseComprehensionClauses() []*pyast.Comprehension {
	var out []*pyast.Comprehension
	for p.atKeyword(token.KwFor) || p.atKeyword(token.KwAsync) {
		start := p.tok.Span.Start
		isAsync := false
		if p.atKeyword(token.KwAsync) {
			if !version.Supports(p.v, version.FeatAsyncComprehension) {
				msg, _ := version.Message(version.FeatAsyncComprehension)
				p.errorf(p.tok.Span, msg)
			}
			isAsync = true
			p.next()
		}
		p.expectKeyword(token.KwFor)
		target := p.parseTargetList()
		p.checkAssignable(target)
		p.expectKeyword(token.KwIn)
		p.exprLev++
		iter := p.parseOrTest()
		p.exprLev--
		var ifs []pyast.Expr
		for p.atKeyword(token.KwIf) {
			p.next()
			p.exprLev++
			ifs = append(ifs, p.parseOrTestNoCond())
			p.exprLev--
		}
		end := iter.End()
		if len(ifs) > 0 {
			end = ifs[len(ifs)-1].End()
		}
		out = append(out, &pyast.Comprehension{Header: pyast.NewSpan(start, end), IsAsync: isAsync, Target: target, Iter: iter, Ifs: ifs})
	}
	return out
}

// parseOrTestNoCond parses an or_test without consuming a trailing
// conditional expression, the production comprehension `if` clauses use
// so that a bare conditional test doesn't swallow a following `for`.
func (p *parser) parseOrTestNoCond() pyast.Expr { return p.parseOrTest() }

func (p *parser) parseSubscriptTrailer(base pyast.Expr) pyast.Expr {
	p.expect(token.LBRACK)
	p.exprLev++
	var items []pyast.Expr
	for {
		items = append(items, p.parseSubscriptItem())
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
		if p.tok.Kind == token.RBRACK {
			break
		}
	}
	p.exprLev--
	p.expectClosing(token.RBRACK, "subscript")
	var idx pyast.Expr
	if len(items) == 1 {
		idx = items[0]
	} else {
		idx = &pyast.Tuple{Header: pyast.NewSpan(items[0].Pos(), items[len(items)-1].End()), Elts: items}
	}
	return &pyast.Index{Header: pyast.NewSpan(base.Pos(), p.tok.Span.Start), Value: base, Idx: idx}
}

func (p *parser) parseSubscriptItem() pyast.Expr {
	start := p.tok.Span.Start
	var lower, upper, step pyast.Expr
	if p.tok.Kind != token.COLON {
		lower = p.parseTest()
	}
	if p.tok.Kind != token.COLON {
		return lower
	}
	p.next()
	if p.tok.Kind != token.COLON && p.tok.Kind != token.COMMA && p.tok.Kind != token.RBRACK {
		upper = p.parseTest()
	}
	if p.tok.Kind == token.COLON {
		p.next()
		if p.tok.Kind != token.COMMA && p.tok.Kind != token.RBRACK {
			step = p.parseTest()
		}
	}
	end := p.tok.Span.Start
	return &pyast.Slice{Header: pyast.NewSpan(start, end), Lower: lower, Upper: upper, Step: step}
}

// ----------------------------------------------------------------------
// Primary atoms

func (p *parser) parseAtom() pyast.Expr {
	switch {
	case p.tok.Kind == token.NAME:
		return p.parseName()

	case p.tok.Kind == token.INT || p.tok.Kind == token.BIGINT || p.tok.Kind == token.FLOAT || p.tok.Kind == token.IMAGINARY:
		return p.parseNumberAtom()

	case p.tok.Kind == token.STRING || p.tok.Kind == token.BYTES || p.tok.Kind == token.FSTRING_START:
		return p.parseStringRun()

	case p.tok.Kind == token.ELLIPSIS:
		span := p.tok.Span
		p.next()
		return &pyast.EllipsisExpr{Header: pyast.NewSpan(span.Start, span.End)}

	case p.atKeyword(token.KwTrue):
		return p.parseBoolConstant(true)
	case p.atKeyword(token.KwFalse):
		return p.parseBoolConstant(false)
	case p.atKeyword(token.KwNone):
		span := p.tok.Span
		p.next()
		return &pyast.Constant{Header: pyast.NewSpan(span.Start, span.End), Kind: pyast.ConstNone}

	case p.atKeyword(token.KwYield):
		return p.parseYieldExpr()

	case p.tok.Kind == token.LPAREN:
		return p.parseParenForm()
	case p.tok.Kind == token.LBRACK:
		return p.parseListForm()
	case p.tok.Kind == token.LBRACE:
		return p.parseDictOrSetForm()

	case p.tok.Kind == token.BACKQUOTE:
		start := p.tok.Span.Start
		p.next()
		v := p.parseTestListAsExpr()
		end := p.tok.Span.End
		p.expect(token.BACKQUOTE)
		return &pyast.Backquote{Header: pyast.NewSpan(start, end), Value: v}

	default:
		span := p.tok.Span
		p.errorExpected(span, "expression")
		lit := p.tok
		p.next()
		return &pyast.BadExpr{Header: pyast.NewSpan(span.Start, span.End), Message: "expected expression, found '" + lit.String() + "'"}
	}
}

func (p *parser) parseBoolConstant(v bool) pyast.Expr {
	span := p.tok.Span
	p.next()
	return &pyast.Constant{Header: pyast.NewSpan(span.Start, span.End), Kind: pyast.ConstBool, Value: v}
}

func (p *parser) parseNumberAtom() pyast.Expr {
	tok := p.tok
	kind := pyast.ConstInt
	switch tok.Kind {
	case token.BIGINT:
		kind = pyast.ConstBigInt
	case token.FLOAT:
		kind = pyast.ConstFloat
	case token.IMAGINARY:
		kind = pyast.ConstImaginary
	}
	p.next()
	value := tok.Value
	if num, ok := tok.Value.(literal.Number); ok {
		switch num.Kind {
		case literal.KindInt:
			value = num.Int
		case literal.KindBigInt:
			value = num.BigInt
		case literal.KindFloat:
			value = num.Float
		case literal.KindImaginary:
			value = complex(0, num.Imag)
		}
	}
	return &pyast.Constant{Header: pyast.NewSpan(tok.Span.Start, tok.Span.End), Kind: kind, Value: value}
}

// parseStringRun consumes one or more adjacent string/bytes/f-string
// literals, implicitly concatenating them the way Python does for
// `"a" "b"`; a plain-string run collapses to one Constant, a run that
// includes any f-string collapses to one FString with parts merged in
// source order.
func (p *parser) parseStringRun() pyast.Expr {
	start := p.tok.Span.Start
	var parts []pyast.Expr
	anyF := false
	var plain string
	var bts []byte
	isBytes := false
	end := p.tok.Span.End

	for p.tok.Kind == token.STRING || p.tok.Kind == token.BYTES || p.tok.Kind == token.FSTRING_START {
		end = p.tok.Span.End
		if p.tok.Kind == token.FSTRING_START {
			if !anyF && plain != "" {
				parts = append(parts, &pyast.Constant{Header: pyast.NewSpan(start, p.tok.Span.Start), Kind: pyast.ConstString, Value: plain})
			}
			anyF = true
			parts = append(parts, p.fstringParts(p.tok)...)
		} else if anyF {
			parts = append(parts, &pyast.Constant{Header: pyast.NewSpan(p.tok.Span.Start, p.tok.Span.End), Kind: pyast.ConstString, Value: p.tok.Value})
		} else if p.tok.Kind == token.BYTES {
			isBytes = true
			if v, ok := p.tok.Value.([]byte); ok {
				bts = append(bts, v...)
			}
		} else {
			if v, ok := p.tok.Value.(string); ok {
				plain += v
			}
		}
		p.next()
	}

	if anyF {
		return &pyast.FString{Header: pyast.NewSpan(start, end), Parts: parts}
	}
	if isBytes {
		return &pyast.Constant{Header: pyast.NewSpan(start, end), Kind: pyast.ConstBytes, Value: bts}
	}
	return &pyast.Constant{Header: pyast.NewSpan(start, end), Kind: pyast.ConstString, Value: plain}
}

// fstringParts re-enters the f-string inner parser (C9) to split tok's
// raw body and turn each segment into a Constant or FormattedValue,
// feeding each replacement field's raw source back through the normal
// expression grammar, per spec.md §9's "sub-parse as a function call"
// design.
func (p *parser) fstringParts(tok token.Item) []pyast.Expr {
	segs, errs := scanner.Split(tok.Literal, p.v)
	base := tok.Span.Start
	for _, e := range errs {
		p.errorf(posSpan(base.AddColumns(e.Offset), base.AddColumns(e.Offset)), "%s", e.Message)
	}
	return p.convertFSegments(segs, base)
}

func (p *parser) convertFSegments(segs []scanner.FSegment, base token.SourceLocation) []pyast.Expr {
	var out []pyast.Expr
	for _, seg := range segs {
		segStart := base.AddColumns(seg.Offset)
		switch seg.Kind {
		case scanner.FSegText:
			out = append(out, &pyast.Constant{
				Header: pyast.NewSpan(segStart, segStart.AddColumns(len(seg.Text))),
				Kind:   pyast.ConstString, Value: seg.Text,
			})
		case scanner.FSegExpr:
			valueExpr := p.parseSubExpression(seg.Raw, segStart)
			var spec *pyast.FormatSpecifier
			if seg.FormatSpec != nil {
				specParts := p.convertFSegments(seg.FormatSpec, base)
				spec = &pyast.FormatSpecifier{Header: pyast.NewSpan(segStart, segStart), Parts: specParts}
			}
			out = append(out, &pyast.FormattedValue{
				Header:     pyast.NewSpan(segStart, segStart.AddColumns(len(seg.Raw))),
				Value:      valueExpr,
				Conversion: seg.Conversion,
				FormatSpec: spec,
				Debug:      seg.Debug,
			})
		}
	}
	return out
}

// parseSubExpression parses raw as a standalone test-list expression,
// reporting any diagnostics onto this parser's own sink with positions
// shifted to start (an approximation: it assumes raw does not itself
// span multiple source lines, true for the overwhelming majority of
// f-string replacement fields).
func (p *parser) parseSubExpression(raw string, start token.SourceLocation) pyast.Expr {
	if raw == "" {
		p.errorf(posSpan(start, start), "f-string: empty expression not allowed")
		return &pyast.BadExpr{Header: pyast.NewSpan(start, start), Message: "empty f-string expression"}
	}
	opts := p.opts
	opts.InitialSourceLocation = start
	sub := newParser(p.sc.CurrentPosition().String(), []byte(raw), p.sink, opts)
	expr := sub.parseTestListAsExpr()
	if sub.tok.Kind != token.NEWLINE && sub.tok.Kind != token.EOF {
		p.errorf(sub.tok.Span, "f-string: invalid syntax")
	}
	return expr
}

// ----------------------------------------------------------------------
// yield

func (p *parser) parseYieldExpr() pyast.Expr {
	start := p.tok.Span.Start
	p.next()
	fs := p.curFunc()
	if fs != nil {
		fs.hasYield = true
	} else {
		p.errorf(posSpan(start, p.tok.Span.Start), "'yield' outside function")
	}
	if p.atKeyword(token.KwFrom) {
		if !version.Supports(p.v, version.FeatYieldFrom) {
			msg, _ := version.Message(version.FeatYieldFrom)
			p.errorf(p.tok.Span, msg)
		}
		p.next()
		v := p.parseTest()
		return &pyast.YieldFromExpr{Header: pyast.NewSpan(start, v.End()), Value: v}
	}
	if p.atExprListEnd() {
		return &pyast.YieldExpr{Header: pyast.NewSpan(start, p.tok.Span.Start)}
	}
	v := p.parseTestListAsExpr()
	return &pyast.YieldExpr{Header: pyast.NewSpan(start, v.End()), Value: v}
}

// parseYieldStmt wraps a yield expression used as a whole statement
// (the common `yield x` / `yield from x` form) in its Stmt variants.
func (p *parser) parseYieldStmt() pyast.Stmt {
	e := p.parseYieldExpr()
	switch y := e.(type) {
	case *pyast.YieldExpr:
		return &pyast.YieldStmt{Header: y.Header, Value: y.Value}
	case *pyast.YieldFromExpr:
		return &pyast.YieldFromStmt{Header: y.Header, Value: y.Value}
	}
	return &pyast.ExpressionStmt{Header: pyast.NewSpan(e.Pos(), e.End()), Value: e}
}

// ----------------------------------------------------------------------
// Parenthesized / list / dict / set forms

func (p *parser) parseParenForm() pyast.Expr {
	start := p.tok.Span.Start
	p.next()
	p.exprLev++
	if p.tok.Kind == token.RPAREN {
		p.exprLev--
		end := p.tok.Span.End
		p.next()
		return &pyast.Tuple{Header: pyast.NewSpan(start, end)}
	}
	if p.tok.Kind == token.STAR {
		starStart := p.tok.Span.Start
		p.next()
		v := p.parseOrExpr()
		first := pyast.Expr(&pyast.Starred{Header: pyast.NewSpan(starStart, v.End()), Value: v})
		return p.finishParenTuple(start, first)
	}
	first := p.parseNamedTest()
	if comp := p.tryParseComprehensionTail(first); comp != nil {
		p.exprLev--
		end := p.tok.Span.End
		p.expectClosing(token.RPAREN, "generator expression")
		ge := comp.(*pyast.GeneratorExp)
		ge.Header = pyast.NewSpan(start, end)
		return ge
	}
	return p.finishParenTuple(start, first)
}

func (p *parser) finishParenTuple(start token.SourceLocation, first pyast.Expr) pyast.Expr {
	if p.tok.Kind != token.COMMA {
		p.exprLev--
		end := p.tok.Span.End
		p.expectClosing(token.RPAREN, "parenthesized expression")
		return &pyast.Parenthesis{Header: pyast.NewSpan(start, end), Value: first}
	}
	elts := []pyast.Expr{first}
	for p.tok.Kind == token.COMMA {
		p.next()
		if p.tok.Kind == token.RPAREN {
			break
		}
		if p.tok.Kind == token.STAR {
			starStart := p.tok.Span.Start
			p.next()
			v := p.parseOrExpr()
			elts = append(elts, &pyast.Starred{Header: pyast.NewSpan(starStart, v.End()), Value: v})
			continue
		}
		elts = append(elts, p.parseNamedTest())
	}
	p.exprLev--
	end := p.tok.Span.End
	p.expectClosing(token.RPAREN, "tuple")
	return &pyast.Tuple{Header: pyast.NewSpan(start, end), Elts: elts}
}

func (p *parser) parseListForm() pyast.Expr {
	start := p.tok.Span.Start
	p.next()
	p.exprLev++
	if p.tok.Kind == token.RBRACK {
		end := p.tok.Span.End
		p.exprLev--
		p.next()
		return &pyast.ListExpr{Header: pyast.NewSpan(start, end)}
	}
	first := p.parseTestOrStar()
	if comp := p.tryParseComprehensionTail(first); comp != nil {
		p.exprLev--
		end := p.tok.Span.End
		p.expectClosing(token.RBRACK, "list comprehension")
		return &pyast.ListComp{Header: pyast.NewSpan(start, end), Elt: comp.(*pyast.GeneratorExp).Elt, Generators: comp.(*pyast.GeneratorExp).Generators}
	}
	elts := []pyast.Expr{first}
	for p.tok.Kind == token.COMMA {
		p.next()
		if p.tok.Kind == token.RBRACK {
			break
		}
		elts = append(elts, p.parseTestOrStar())
	}
	p.exprLev--
	end := p.tok.Span.End
	p.expectClosing(token.RBRACK, "list")
	return &pyast.ListExpr{Header: pyast.NewSpan(start, end), Elts: elts}
}

func (p *parser) parseDictOrSetForm() pyast.Expr {
	start := p.tok.Span.Start
	p.next()
	p.exprLev++
	if p.tok.Kind == token.RBRACE {
		end := p.tok.Span.End
		p.exprLev--
		p.next()
		return &pyast.DictExpr{Header: pyast.NewSpan(start, end)}
	}

	if p.tok.Kind == token.DOUBLESTAR {
		dStart := p.tok.Span.Start
		p.next()
		v := p.parseOrExpr()
		first := &pyast.DictItem{Header: pyast.NewSpan(dStart, v.End()), Value: v}
		return p.finishDict(start, first)
	}
	if p.tok.Kind == token.STAR {
		sStart := p.tok.Span.Start
		p.next()
		v := p.parseOrExpr()
		first := &pyast.Starred{Header: pyast.NewSpan(sStart, v.End()), Value: v}
		return p.finishSet(start, first)
	}

	key := p.parseNamedTest()
	if p.tok.Kind == token.COLON {
		p.next()
		val := p.parseTest()
		first := &pyast.DictItem{Header: pyast.NewSpan(key.Pos(), val.End()), Key: key, Value: val}
		if p.atKeyword(token.KwFor) || p.atKeyword(token.KwAsync) {
			gens := p.parseComprehensionClauses()
			p.exprLev--
			end := p.tok.Span.End
			p.expectClosing(token.RBRACE, "dict comprehension")
			return &pyast.DictComp{Header: pyast.NewSpan(start, end), Key: key, Value: val, Generators: gens}
		}
		return p.finishDict(start, first)
	}

	if comp := p.tryParseComprehensionTail(key); comp != nil {
		p.exprLev--
		end := p.tok.Span.End
		p.expectClosing(token.RBRACE, "set comprehension")
		ge := comp.(*pyast.GeneratorExp)
		return &pyast.SetComp{Header: pyast.NewSpan(start, end), Elt: ge.Elt, Generators: ge.Generators}
	}
	return p.finishSet(start, key)
}

func (p *parser) finishDict(start token.SourceLocation, first *pyast.DictItem) pyast.Expr {
	items := []*pyast.DictItem{first}
	for p.tok.Kind == token.COMMA {
		p.next()
		if p.tok.Kind == token.RBRACE {
			break
		}
		if p.tok.Kind == token.DOUBLESTAR {
			dStart := p.tok.Span.Start
			p.next()
			v := p.parseOrExpr()
			items = append(items, &pyast.DictItem{Header: pyast.NewSpan(dStart, v.End()), Value: v})
			continue
		}
		k := p.parseNamedTest()
		p.expect(token.COLON)
		v := p.parseTest()
		items = append(items, &pyast.DictItem{Header: pyast.NewSpan(k.Pos(), v.End()), Key: k, Value: v})
	}
	p.exprLev--
	end := p.tok.Span.End
	p.expectClosing(token.RBRACE, "dict")
	return &pyast.DictExpr{Header: pyast.NewSpan(start, end), Items: items}
}

func (p *parser) finishSet(start token.SourceLocation, first pyast.Expr) pyast.Expr {
	elts := []pyast.Expr{first}
	for p.tok.Kind == token.COMMA {
		p.next()
		if p.tok.Kind == token.RBRACE {
			break
		}
		elts = append(elts, p.parseTestOrStar())
	}
	p.exprLev--
	end := p.tok.Span.End
	p.expectClosing(token.RBRACE, "set")
	return &pyast.SetExpr{Header: pyast.NewSpan(start, end), Elts: elts}
}

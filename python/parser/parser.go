package parser

import (
	"errors"

	pyast "github.com/gopythonic/pyparse/python/ast"
	pyerrors "github.com/gopythonic/pyparse/python/errors"
	"github.com/gopythonic/pyparse/python/scanner"
	"github.com/gopythonic/pyparse/python/token"
	"github.com/gopythonic/pyparse/python/version"
)

const internalBugPanic = "pyparse: parser made no progress"

var errInfiniteLoop = errors.New("pyparse: internal error: parser made no progress")

const maxErrorsPerLine = 0 // not consulted anywhere: errorf records every diagnostic, with no per-line limit.

// funcScope tracks the state local semantic checks need about the
// function currently being parsed, the way the teacher's resolve.go
// threads a scope chain -- generalized here to Python's nonlocal/global/
// yield/return legality rules instead of CUE identifier resolution.
type funcScope struct {
	name       string
	isAsync    bool
	hasYield   bool
	params     map[string]bool
	globals    map[string]bool
	nonlocals  map[string]bool
}

type parser struct {
	sc   *scanner.Scanner
	sink *pyerrors.Sink
	v    version.Version
	opts Options

	tok   token.Item
	ahead []token.Item

	panicking bool
	errLine   int

	syncPos token.SourceLocation
	syncCnt int

	exprLev int // < 0 inside a control-clause header (if/while/for test), matching the teacher's exprLev convention

	funcs        []*funcScope
	loopDepth    int
	finallyDepth int

	sawUnclosedBlockOrGrouping bool
}

func newParser(filename string, src []byte, sink *pyerrors.Sink, opts Options) *parser {
	if opts.LanguageVersion == 0 {
		opts.LanguageVersion = version.Default
	}
	p := &parser{
		sc:      scanner.New(filename, src, sink, opts.scannerOptions()),
		sink:    sink,
		v:       opts.LanguageVersion,
		opts:    opts,
		errLine: -1,
	}
	p.next()
	return p
}

func (p *parser) curFunc() *funcScope {
	if len(p.funcs) == 0 {
		return nil
	}
	return p.funcs[len(p.funcs)-1]
}

// next advances p.tok to the next semantically meaningful token,
// transparently skipping NL and COMMENT (the scanner only emits these as
// trivia; neither participates in the grammar).
func (p *parser) next() {
	if len(p.ahead) > 0 {
		p.tok = p.ahead[0]
		p.ahead = p.ahead[1:]
		return
	}
	p.tok = p.rawScan()
}

func (p *parser) rawScan() token.Item {
	for {
		it := p.sc.Scan()
		if it.Kind == token.NL || it.Kind == token.COMMENT {
			continue
		}
		return it
	}
}

// peek returns the token after p.tok without consuming it.
func (p *parser) peek() token.Item {
	if len(p.ahead) == 0 {
		p.ahead = append(p.ahead, p.rawScan())
	}
	return p.ahead[0]
}

// errorf records a diagnostic at span; there is no limit on how many are
// recorded. spec.md §5's "infinite-loop condition... asserts and aborts"
// is a separate guard, implemented in parseModule.
func (p *parser) errorf(span token.Span, format string, args ...interface{}) {
	p.sink.Add(span, format, args...)
}

func (p *parser) errorfSeverity(span token.Span, sev pyerrors.Severity, format string, args ...interface{}) {
	p.sink.AddSeverity(span, sev, format, args...)
}

func (p *parser) errorExpected(span token.Span, want string) {
	if p.tok.Kind == token.EOF {
		p.errorf(span, "expected %s, found EOF", want)
		return
	}
	if p.tok.Literal != "" {
		p.errorf(span, "expected %s, found '%s'", want, p.tok.Literal)
		return
	}
	p.errorf(span, "expected %s, found '%s'", want, p.tok.Kind)
}

// expect consumes the current token if it has kind k, recording an error
// otherwise; it always makes progress.
func (p *parser) expect(k token.Token) token.Item {
	it := p.tok
	if p.tok.Kind != k {
		p.errorExpected(p.tok.Span, "'"+k.String()+"'")
	}
	p.next()
	return it
}

// expectClosing is like expect but gives the common "missing comma
// before a closing delimiter" case a clearer message.
func (p *parser) expectClosing(k token.Token, context string) token.Item {
	if p.tok.Kind != k && p.tok.Kind == token.NEWLINE {
		p.errorf(p.tok.Span, "missing ',' before newline in %s", context)
	}
	return p.expect(k)
}

func (p *parser) expectKeyword(kw token.Keyword) token.Item {
	it := p.tok
	if p.tok.Kind != token.KEYWORD || p.tok.Keyword != kw {
		p.errorExpected(p.tok.Span, "'"+kw.String()+"'")
	}
	p.next()
	return it
}

func (p *parser) atKeyword(kw token.Keyword) bool {
	return p.tok.Kind == token.KEYWORD && p.tok.Keyword == kw
}

// syncStmt consumes tokens until a statement-synchronizing point: a NEWLINE
// at depth 0, a DEDENT, a ';', or a statement-introducing keyword,
// guarding against zero-progress loops the way the teacher's syncExpr
// bounds repeated calls with syncPos/syncCnt.
func (p *parser) syncStmt() {
	for {
		switch p.tok.Kind {
		case token.NEWLINE, token.DEDENT, token.SEMICOLON, token.EOF:
			return
		case token.KEYWORD:
			switch p.tok.Keyword {
			case token.KwIf, token.KwFor, token.KwWhile, token.KwDef, token.KwClass,
				token.KwReturn, token.KwImport, token.KwTry, token.KwWith, token.KwPass,
				token.KwBreak, token.KwContinue, token.KwRaise, token.KwGlobal, token.KwNonlocal:
				if p.tok.Span.Start == p.syncPos && p.syncCnt < 10 {
					p.syncCnt++
					return
				}
				if p.syncPos.Index < p.tok.Span.Start.Index {
					p.syncPos = p.tok.Span.Start
					p.syncCnt = 0
					return
				}
			}
		}
		p.next()
	}
}

func (p *parser) syncExpr() {
	for {
		switch p.tok.Kind {
		case token.COMMA, token.RPAREN, token.RBRACK, token.RBRACE, token.NEWLINE, token.EOF, token.COLON:
			return
		}
		p.next()
	}
}

func posSpan(start, end token.SourceLocation) token.Span { return token.NewSpan(start, end) }

// ----------------------------------------------------------------------
// Module / suite

func (p *parser) parseModule() *pyast.Module {
	start := p.tok.Span.Start
	var body []pyast.Stmt
	lastPos := token.SourceLocation{}
	lastTok := token.Token(-1)
	stalled := 0
	for p.tok.Kind != token.EOF {
		if p.tok.Kind == token.NEWLINE || p.tok.Kind == token.SEMICOLON {
			p.next()
			continue
		}
		if p.tok.Span.Start == lastPos && p.tok.Kind == lastTok {
			stalled++
			if stalled > 2 {
				panic(internalBugPanic)
			}
		} else {
			stalled = 0
		}
		lastPos, lastTok = p.tok.Span.Start, p.tok.Kind
		body = append(body, p.parseStmt()...)
	}
	end := p.tok.Span.End
	return &pyast.Module{Header: pyast.NewSpan(start, end), Body: body}
}

// parseSuite parses either a one-line suite (`: stmt; stmt` on the
// header's own line) or an indented block (`:` NEWLINE INDENT stmt+
// DEDENT), per the standard Python grammar.
func (p *parser) parseSuite() *pyast.Suite {
	start := p.tok.Span.Start
	p.expect(token.COLON)
	var body []pyast.Stmt
	if p.tok.Kind == token.NEWLINE {
		p.next()
		if p.tok.Kind != token.INDENT {
			p.errorExpected(p.tok.Span, "an indented block")
			p.sawUnclosedBlockOrGrouping = true
			end := p.tok.Span.End
			return &pyast.Suite{Header: pyast.NewSpan(start, end)}
		}
		p.next()
		for p.tok.Kind != token.DEDENT && p.tok.Kind != token.EOF {
			if p.tok.Kind == token.NEWLINE {
				p.next()
				continue
			}
			body = append(body, p.parseStmt()...)
		}
		end := p.tok.Span.End
		if p.tok.Kind == token.DEDENT {
			p.next()
		} else {
			p.sawUnclosedBlockOrGrouping = true
		}
		return &pyast.Suite{Header: pyast.NewSpan(start, end), Body: body}
	}
	body = append(body, p.parseSimpleStmtLine()...)
	end := p.tok.Span.Start
	if len(body) > 0 {
		end = body[len(body)-1].End()
	}
	return &pyast.Suite{Header: pyast.NewSpan(start, end), Body: body}
}

// ----------------------------------------------------------------------
// Statement dispatch

func (p *parser) parseStmt() []pyast.Stmt {
	switch {
	case p.tok.Kind == token.AT:
		return []pyast.Stmt{p.parseDecorated()}
	case p.atKeyword(token.KwDef):
		return []pyast.Stmt{p.parseFuncDef(nil, false)}
	case p.atKeyword(token.KwClass):
		return []pyast.Stmt{p.parseClassDef(nil)}
	case p.atKeyword(token.KwAsync):
		return []pyast.Stmt{p.parseAsyncStmt()}
	case p.atKeyword(token.KwIf):
		return []pyast.Stmt{p.parseIf()}
	case p.atKeyword(token.KwWhile):
		return []pyast.Stmt{p.parseWhile()}
	case p.atKeyword(token.KwFor):
		return []pyast.Stmt{p.parseFor(false)}
	case p.atKeyword(token.KwTry):
		return []pyast.Stmt{p.parseTry()}
	case p.atKeyword(token.KwWith):
		return []pyast.Stmt{p.parseWith(false)}
	default:
		return p.parseSimpleStmtLine()
	}
}

func (p *parser) parseAsyncStmt() pyast.Stmt {
	p.next() // consume `async`
	switch {
	case p.atKeyword(token.KwDef):
		return p.parseFuncDef(nil, true)
	case p.atKeyword(token.KwFor):
		return p.parseFor(true)
	case p.atKeyword(token.KwWith):
		return p.parseWith(true)
	default:
		span := p.tok.Span
		p.errorf(span, "invalid syntax, 'async' must be followed by 'def', 'for', or 'with'")
		p.syncStmt()
		return &pyast.ErrorStmt{Header: pyast.NewSpan(span.Start, span.End), Message: "invalid async statement"}
	}
}

// parseDecorated parses a run of `@expr` decorator lines followed by a
// def/class (optionally async), per spec.md §4.5.
func (p *parser) parseDecorated() pyast.Stmt {
	var decs []*pyast.Decorator
	for p.tok.Kind == token.AT {
		start := p.tok.Span.Start
		p.next()
		expr := p.parseDecoratorExpr()
		if p.tok.Kind == token.NEWLINE {
			p.next()
		}
		decs = append(decs, &pyast.Decorator{Header: pyast.NewSpan(start, expr.End()), Expr: expr})
	}
	isAsync := false
	if p.atKeyword(token.KwAsync) {
		isAsync = true
		p.next()
	}
	switch {
	case p.atKeyword(token.KwDef):
		return p.parseFuncDef(decs, isAsync)
	case p.atKeyword(token.KwClass):
		if !version.Supports(p.v, version.FeatClassDecorators) {
			msg, _ := version.Message(version.FeatClassDecorators)
			p.errorf(p.tok.Span, msg)
		}
		return p.parseClassDef(decs)
	default:
		span := p.tok.Span
		p.errorf(span, "expected 'def' or 'class' after decorator")
		p.syncStmt()
		return &pyast.ErrorStmt{Header: pyast.NewSpan(span.Start, span.End), Message: "decorator not followed by def/class"}
	}
}

// parseDecoratorExpr restricts the decorator expression to an attribute
// chain optionally followed by a call, per spec.md §4.5's stated scope
// ("for this scope the legal decorator expression is an attribute chain
// optionally followed by a call").
func (p *parser) parseDecoratorExpr() pyast.Expr {
	start := p.tok.Span.Start
	e := p.parseDottedNameExpr()
	if p.tok.Kind == token.LPAREN {
		e = p.parseCallTrailer(e)
	}
	_ = start
	return e
}

func (p *parser) parseDottedNameExpr() pyast.Expr {
	name := p.parseName()
	var e pyast.Expr = name
	for p.tok.Kind == token.DOT {
		p.next()
		attr := p.tok
		attrName := p.expectNameLiteral()
		e = &pyast.Attribute{Header: pyast.NewSpan(e.Pos(), attr.Span.End), Value: e, Attr: attrName}
	}
	return e
}

func (p *parser) expectNameLiteral() string {
	if p.tok.Kind != token.NAME {
		p.errorExpected(p.tok.Span, "identifier")
		name := p.tok.Literal
		p.next()
		return name
	}
	name := p.tok.Literal
	p.next()
	return name
}

func (p *parser) parseName() *pyast.Name {
	span := p.tok.Span
	name := p.expectNameLiteral()
	return &pyast.Name{Header: pyast.NewSpan(span.Start, span.End), Id: name}
}

// ----------------------------------------------------------------------
// Simple statements

// parseSimpleStmtLine parses one or more `;`-separated small statements
// terminated by NEWLINE or EOF.
func (p *parser) parseSimpleStmtLine() []pyast.Stmt {
	var stmts []pyast.Stmt
	for {
		stmts = append(stmts, p.parseSmallStmt())
		if p.tok.Kind == token.SEMICOLON {
			p.next()
			if p.tok.Kind == token.NEWLINE || p.tok.Kind == token.EOF || p.tok.Kind == token.DEDENT {
				break
			}
			continue
		}
		break
	}
	switch p.tok.Kind {
	case token.NEWLINE:
		p.next()
	case token.EOF, token.DEDENT:
		// line ends at the file or a dedent with nothing left to consume.
	default:
		p.errorf(p.tok.Span, "invalid syntax")
		p.syncStmt()
		if p.tok.Kind == token.NEWLINE {
			p.next()
		}
	}
	return stmts
}

func (p *parser) parseSmallStmt() pyast.Stmt {
	switch {
	case p.atKeyword(token.KwPass):
		span := p.tok.Span
		p.next()
		return &pyast.Pass{Header: pyast.NewSpan(span.Start, span.End)}
	case p.atKeyword(token.KwBreak):
		span := p.tok.Span
		if p.loopDepth == 0 {
			p.errorf(span, "'break' outside loop")
		}
		p.next()
		return &pyast.Break{Header: pyast.NewSpan(span.Start, span.End)}
	case p.atKeyword(token.KwContinue):
		span := p.tok.Span
		if p.loopDepth == 0 {
			p.errorf(span, "'continue' not properly in loop")
		} else if p.finallyDepth > 0 && !version.Supports(p.v, version.FeatContinueInFinally) {
			msg, _ := version.Message(version.FeatContinueInFinally)
			p.errorf(span, msg)
		}
		p.next()
		return &pyast.Continue{Header: pyast.NewSpan(span.Start, span.End)}
	case p.atKeyword(token.KwReturn):
		return p.parseReturn()
	case p.atKeyword(token.KwRaise):
		return p.parseRaise()
	case p.atKeyword(token.KwImport):
		return p.parseImport()
	case p.atKeyword(token.KwFrom):
		return p.parseFromImport()
	case p.atKeyword(token.KwGlobal):
		return p.parseGlobal()
	case p.atKeyword(token.KwNonlocal):
		return p.parseNonlocal()
	case p.atKeyword(token.KwDel):
		return p.parseDel()
	case p.atKeyword(token.KwAssert):
		return p.parseAssert()
	case p.atKeyword(token.KwExec):
		return p.parseExec()
	case p.atKeyword(token.KwPrint) && p.v.Is2():
		return p.parsePrint()
	default:
		return p.parseExprOrAssignment()
	}
}

func (p *parser) parseReturn() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	var value pyast.Expr
	end := p.tok.Span.End
	if !p.atStmtEnd() {
		value = p.parseTestListAsExpr()
		end = value.End()
	}
	if fs := p.curFunc(); fs != nil && value != nil && fs.hasYield {
		if !version.Supports(p.v, version.FeatReturnValueInGenerator) {
			msg, _ := version.Message(version.FeatReturnValueInGenerator)
			p.errorf(posSpan(start, end), msg)
		}
	} else if p.curFunc() == nil {
		p.errorf(posSpan(start, end), "'return' outside function")
	}
	return &pyast.Return{Header: pyast.NewSpan(start, end), Value: value}
}

func (p *parser) atStmtEnd() bool {
	switch p.tok.Kind {
	case token.NEWLINE, token.SEMICOLON, token.EOF, token.DEDENT:
		return true
	}
	return false
}

func (p *parser) parseRaise() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	var exc, cause, value, traceback pyast.Expr
	end := p.tok.Span.End
	if !p.atStmtEnd() {
		exc = p.parseTest()
		end = exc.End()
		if p.atKeyword(token.KwFrom) {
			if !version.Supports(p.v, version.FeatRaiseFrom) {
				msg, _ := version.Message(version.FeatRaiseFrom)
				p.errorf(p.tok.Span, msg)
			}
			p.next()
			cause = p.parseTest()
			end = cause.End()
		} else if p.tok.Kind == token.COMMA {
			if !version.Supports(p.v, version.FeatRaiseTraceback) {
				p.errorf(p.tok.Span, "invalid syntax")
			}
			p.next()
			value = p.parseTest()
			end = value.End()
			if p.tok.Kind == token.COMMA {
				p.next()
				traceback = p.parseTest()
				end = traceback.End()
			}
		}
	}
	return &pyast.Raise{Header: pyast.NewSpan(start, end), Exc: exc, Cause: cause, Value: value, Traceback: traceback}
}

func (p *parser) parseImport() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	var names []*pyast.Alias
	for {
		names = append(names, p.parseDottedAlias())
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
	}
	end := p.tok.Span.Start
	if len(names) > 0 {
		end = names[len(names)-1].End()
	}
	return &pyast.Import{Header: pyast.NewSpan(start, end), Names: names}
}

func (p *parser) parseDottedAlias() *pyast.Alias {
	start := p.tok.Span.Start
	var b []byte
	b = append(b, []byte(p.expectNameLiteral())...)
	end := p.tok.Span.Start
	for p.tok.Kind == token.DOT {
		p.next()
		b = append(b, '.')
		b = append(b, []byte(p.expectNameLiteral())...)
	}
	asName := ""
	if p.atKeyword(token.KwAs) {
		p.next()
		asName = p.expectNameLiteral()
		end = p.tok.Span.Start
	}
	_ = end
	return &pyast.Alias{Header: pyast.NewSpan(start, p.tok.Span.Start), Name: string(b), AsName: asName}
}

func (p *parser) parseFromImport() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	dots := 0
	for p.tok.Kind == token.DOT || p.tok.Kind == token.ELLIPSIS {
		if p.tok.Kind == token.ELLIPSIS {
			dots += 3
		} else {
			dots++
		}
		p.next()
	}
	module := ""
	if p.tok.Kind == token.NAME {
		module = p.expectNameLiteral()
		for p.tok.Kind == token.DOT {
			p.next()
			module += "." + p.expectNameLiteral()
		}
	} else if dots == 0 {
		p.errorExpected(p.tok.Span, "module name")
	}
	p.expectKeyword(token.KwImport)

	var names []*pyast.Alias
	if p.tok.Kind == token.STAR {
		star := p.tok.Span
		if !version.Supports(p.v, version.FeatImportStarModuleOnly) || len(p.funcs) > 0 {
			if len(p.funcs) > 0 {
				p.errorf(star, "import * only allowed at module level")
			}
		}
		p.next()
		names = append(names, &pyast.Alias{Header: pyast.NewSpan(star.Start, star.End), Name: "*"})
	} else if p.tok.Kind == token.LPAREN {
		p.next()
		for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
			names = append(names, p.parseSimpleAlias())
			if p.tok.Kind != token.COMMA {
				break
			}
			p.next()
		}
		p.expect(token.RPAREN)
	} else {
		for {
			names = append(names, p.parseSimpleAlias())
			if p.tok.Kind != token.COMMA {
				break
			}
			p.next()
		}
	}
	end := p.tok.Span.Start
	if len(names) > 0 {
		end = names[len(names)-1].End()
	}
	return &pyast.FromImport{Header: pyast.NewSpan(start, end), DotCount: dots, Module: module, Names: names}
}

func (p *parser) parseSimpleAlias() *pyast.Alias {
	start := p.tok.Span.Start
	name := p.expectNameLiteral()
	asName := ""
	if p.atKeyword(token.KwAs) {
		p.next()
		asName = p.expectNameLiteral()
	}
	return &pyast.Alias{Header: pyast.NewSpan(start, p.tok.Span.Start), Name: name, AsName: asName}
}

func (p *parser) parseGlobal() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	var names []string
	for {
		names = append(names, p.expectNameLiteral())
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
	}
	if fs := p.curFunc(); fs != nil {
		if fs.globals == nil {
			fs.globals = map[string]bool{}
		}
		for _, n := range names {
			fs.globals[n] = true
			if fs.nonlocals != nil && fs.nonlocals[n] {
				p.errorf(p.tok.Span, "name '%s' is nonlocal and global", n)
			}
		}
	}
	return &pyast.Global{Header: pyast.NewSpan(start, p.tok.Span.Start), Names: names}
}

func (p *parser) parseNonlocal() pyast.Stmt {
	start := p.tok.Span.Start
	if !version.Supports(p.v, version.FeatNonlocalKeyword) {
		msg, _ := version.Message(version.FeatNonlocalKeyword)
		p.errorf(p.tok.Span, msg)
	}
	p.next()
	var names []string
	for {
		names = append(names, p.expectNameLiteral())
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
	}
	fs := p.curFunc()
	if fs == nil {
		p.errorf(posSpan(start, p.tok.Span.Start), "nonlocal declaration not allowed at module level")
	} else {
		if fs.nonlocals == nil {
			fs.nonlocals = map[string]bool{}
		}
		for _, n := range names {
			if fs.params[n] {
				p.errorf(posSpan(start, p.tok.Span.Start), "name '%s' is parameter and nonlocal", n)
			}
			if fs.globals != nil && fs.globals[n] {
				p.errorf(posSpan(start, p.tok.Span.Start), "name '%s' is nonlocal and global", n)
			}
			fs.nonlocals[n] = true
		}
		if len(p.funcs) < 2 {
			p.errorf(posSpan(start, p.tok.Span.Start), "no binding for nonlocal '%s' found", names[0])
		}
	}
	return &pyast.Nonlocal{Header: pyast.NewSpan(start, p.tok.Span.Start), Names: names}
}

func (p *parser) parseDel() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	var targets []pyast.Expr
	for {
		t := p.parseTest()
		p.checkDeletable(t)
		targets = append(targets, t)
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
		if p.atStmtEnd() {
			break
		}
	}
	end := p.tok.Span.Start
	if len(targets) > 0 {
		end = targets[len(targets)-1].End()
	}
	return &pyast.Del{Header: pyast.NewSpan(start, end), Targets: targets}
}

func (p *parser) parseAssert() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	test := p.parseTest()
	var msg pyast.Expr
	end := test.End()
	if p.tok.Kind == token.COMMA {
		p.next()
		msg = p.parseTest()
		end = msg.End()
	}
	return &pyast.Assert{Header: pyast.NewSpan(start, end), Test: test, Msg: msg}
}

func (p *parser) parseExec() pyast.Stmt {
	start := p.tok.Span.Start
	if !version.Supports(p.v, version.FeatExecStatement) {
		p.errorf(p.tok.Span, "invalid syntax")
	}
	p.next()
	body := p.parseOrTest()
	var globals, locals pyast.Expr
	end := body.End()
	if p.atKeyword(token.KwIn) {
		p.next()
		globals = p.parseTest()
		end = globals.End()
		if p.tok.Kind == token.COMMA {
			p.next()
			locals = p.parseTest()
			end = locals.End()
		}
	}
	return &pyast.Exec{Header: pyast.NewSpan(start, end), Body: body, Globals: globals, Locals: locals}
}

func (p *parser) parsePrint() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	var dest pyast.Expr
	var values []pyast.Expr
	trailingComma := false
	if p.tok.Kind == token.RSHIFT {
		p.next()
		dest = p.parseTest()
		if p.tok.Kind == token.COMMA {
			p.next()
		}
	}
	for !p.atStmtEnd() {
		values = append(values, p.parseTest())
		if p.tok.Kind == token.COMMA {
			p.next()
			trailingComma = true
			if p.atStmtEnd() {
				break
			}
			trailingComma = false
			continue
		}
		break
	}
	end := p.tok.Span.Start
	if len(values) > 0 {
		end = values[len(values)-1].End()
	}
	return &pyast.Print{Header: pyast.NewSpan(start, end), Dest: dest, Values: values, TrailingComma: trailingComma}
}

// parseExprOrAssignment parses a bare expression statement, a (possibly
// chained/annotated) assignment, or an augmented assignment -- the
// default production when no keyword introduces the small statement.
func (p *parser) parseExprOrAssignment() pyast.Stmt {
	start := p.tok.Span.Start
	first := p.parseTestListStarAsExpr()

	switch {
	case p.tok.Kind == token.COLON:
		if !version.Supports(p.v, version.FeatVariableAnnotations) {
			msg, _ := version.Message(version.FeatVariableAnnotations)
			p.errorf(p.tok.Span, msg)
		}
		p.next()
		if isTupleOrListLiteral(first) {
			p.errorf(posSpan(start, first.End()), "only single target (not tuple) can be annotated")
		}
		ann := p.parseTest()
		var value pyast.Expr
		end := ann.End()
		if p.tok.Kind == token.ASSIGN {
			p.next()
			value = p.parseTestListAsExpr()
			end = value.End()
		}
		return &pyast.AnnotatedAssignment{Header: pyast.NewSpan(start, end), Target: first, Annotation: ann, Value: value}

	case p.tok.Kind == token.ASSIGN:
		var targets []pyast.Expr
		targets = append(targets, first)
		var value pyast.Expr
		for p.tok.Kind == token.ASSIGN {
			p.next()
			value = p.parseTestListStarAsExpr()
			if p.tok.Kind == token.ASSIGN {
				targets = append(targets, value)
			}
		}
		for _, t := range targets {
			p.checkAssignable(t)
		}
		return &pyast.Assignment{Header: pyast.NewSpan(start, value.End()), Targets: targets, Value: value}

	case p.tok.Kind == token.AUGASSIGN:
		op := augOpToken(p.tok.Literal)
		p.next()
		p.checkAugAssignable(first)
		value := p.parseTestListAsExpr()
		return &pyast.AugmentedAssignment{Header: pyast.NewSpan(start, value.End()), Target: first, Op: op, Value: value}

	default:
		return &pyast.ExpressionStmt{Header: pyast.NewSpan(start, first.End()), Value: first}
	}
}

func augOpToken(lit string) token.Token {
	switch lit {
	case "+=":
		return token.PLUS
	case "-=":
		return token.MINUS
	case "*=":
		return token.STAR
	case "**=":
		return token.DOUBLESTAR
	case "/=":
		return token.SLASH
	case "//=":
		return token.DOUBLESLASH
	case "%=":
		return token.PERCENT
	case "&=":
		return token.AMP
	case "|=":
		return token.PIPE
	case "^=":
		return token.CARET
	case "<<=":
		return token.LSHIFT
	case ">>=":
		return token.RSHIFT
	case "@=":
		return token.AT
	}
	return token.ILLEGAL
}

func isTupleOrListLiteral(e pyast.Expr) bool {
	switch e.(type) {
	case *pyast.Tuple, *pyast.ListExpr:
		return true
	}
	return false
}

// ----------------------------------------------------------------------
// Compound statements

func (p *parser) parseIf() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	test := p.parseCondTest()
	body := p.parseSuite()
	var orelse *pyast.Suite
	switch {
	case p.atKeyword(token.KwElif):
		elifStart := p.tok.Span.Start
		nested := p.parseIf()
		orelse = &pyast.Suite{Header: pyast.NewSpan(elifStart, nested.End()), Body: []pyast.Stmt{nested}}
	case p.atKeyword(token.KwElse):
		p.next()
		orelse = p.parseSuite()
	}
	end := body.End()
	if orelse != nil {
		end = orelse.End()
	}
	return &pyast.If{Header: pyast.NewSpan(start, end), Test: test, Body: body, Orelse: orelse}
}

// parseCondTest parses a control-clause test expression at exprLev < 0,
// the teacher's convention (cue/parser.exprLev) for "we are inside a
// clause header, a bare top-level tuple display is not being built".
func (p *parser) parseCondTest() pyast.Expr {
	p.exprLev--
	e := p.parseNamedTest()
	p.exprLev++
	return e
}

func (p *parser) parseWhile() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	test := p.parseCondTest()
	p.loopDepth++
	body := p.parseSuite()
	p.loopDepth--
	var orelse *pyast.Suite
	if p.atKeyword(token.KwElse) {
		p.next()
		orelse = p.parseSuite()
	}
	end := body.End()
	if orelse != nil {
		end = orelse.End()
	}
	return &pyast.While{Header: pyast.NewSpan(start, end), Test: test, Body: body, Orelse: orelse}
}

func (p *parser) parseFor(isAsync bool) pyast.Stmt {
	start := p.tok.Span.Start
	if isAsync {
		fs := p.curFunc()
		if !version.Supports(p.v, version.FeatAsyncAwait) || fs == nil || !fs.isAsync {
			if !version.Supports(p.v, version.FeatAsyncComprehension) {
				msg, _ := version.Message(version.FeatAsyncAwait)
				p.errorf(p.tok.Span, msg)
			}
		}
	}
	p.next()
	target := p.parseTargetList()
	p.checkAssignable(target)
	p.expectKeyword(token.KwIn)
	iter := p.parseTestListAsExpr()
	p.loopDepth++
	body := p.parseSuite()
	p.loopDepth--
	var orelse *pyast.Suite
	if p.atKeyword(token.KwElse) {
		p.next()
		orelse = p.parseSuite()
	}
	end := body.End()
	if orelse != nil {
		end = orelse.End()
	}
	return &pyast.For{Header: pyast.NewSpan(start, end), IsAsync: isAsync, Target: target, Iter: iter, Body: body, Orelse: orelse}
}

// parseTargetList parses the for-loop's target, which may be a bare
// comma-separated tuple without parentheses.
func (p *parser) parseTargetList() pyast.Expr {
	start := p.tok.Span.Start
	first := p.parseTargetItem()
	if p.tok.Kind != token.COMMA {
		return first
	}
	elts := []pyast.Expr{first}
	for p.tok.Kind == token.COMMA {
		p.next()
		if p.atKeyword(token.KwIn) {
			break
		}
		elts = append(elts, p.parseTargetItem())
	}
	end := elts[len(elts)-1].End()
	return &pyast.Tuple{Header: pyast.NewSpan(start, end), Elts: elts}
}

func (p *parser) parseTargetItem() pyast.Expr {
	if p.tok.Kind == token.STAR {
		start := p.tok.Span.Start
		p.next()
		v := p.parseOrExpr()
		return &pyast.Starred{Header: pyast.NewSpan(start, v.End()), Value: v}
	}
	if p.tok.Kind == token.LPAREN || p.tok.Kind == token.LBRACK {
		return p.parseAtomTrailers()
	}
	return p.parseOrExpr()
}

func (p *parser) parseTry() pyast.Stmt {
	start := p.tok.Span.Start
	p.next()
	body := p.parseSuite()
	var handlers []*pyast.ExceptHandler
	for p.atKeyword(token.KwExcept) {
		handlers = append(handlers, p.parseExceptHandler())
	}
	var orelse, finally *pyast.Suite
	if p.atKeyword(token.KwElse) {
		p.next()
		orelse = p.parseSuite()
	}
	if p.atKeyword(token.KwFinally) {
		p.next()
		p.finallyDepth++
		finally = p.parseSuite()
		p.finallyDepth--
	}
	end := body.End()
	if finally != nil {
		end = finally.End()
	} else if orelse != nil {
		end = orelse.End()
	} else if len(handlers) > 0 {
		end = handlers[len(handlers)-1].End()
	}
	if len(handlers) == 0 && finally == nil {
		p.errorExpected(p.tok.Span, "'except' or 'finally'")
	}
	return &pyast.Try{Header: pyast.NewSpan(start, end), Body: body, Handlers: handlers, Orelse: orelse, Finally: finally}
}

func (p *parser) parseExceptHandler() *pyast.ExceptHandler {
	start := p.tok.Span.Start
	p.next()
	var typ *pyast.Expr
	name := ""
	if p.tok.Kind != token.COLON {
		t := p.parseTest()
		typ = &t
		if p.atKeyword(token.KwAs) {
			if !version.Supports(p.v, version.FeatExceptAsBinding) {
				msg, _ := version.Message(version.FeatExceptAsBinding)
				p.errorf(p.tok.Span, msg)
			}
			p.next()
			name = p.expectNameLiteral()
		} else if p.tok.Kind == token.COMMA {
			if !version.Supports(p.v, version.FeatExceptCommaBinding) {
				p.errorf(p.tok.Span, "invalid syntax")
			}
			p.next()
			name = p.expectNameLiteral()
		}
	}
	body := p.parseSuite()
	return &pyast.ExceptHandler{Header: pyast.NewSpan(start, body.End()), Type: typ, Name: name, Body: body}
}

func (p *parser) parseWith(isAsync bool) pyast.Stmt {
	start := p.tok.Span.Start
	if isAsync {
		fs := p.curFunc()
		if fs == nil || !fs.isAsync || !version.Supports(p.v, version.FeatAsyncAwait) {
			msg, _ := version.Message(version.FeatAsyncAwait)
			p.errorf(p.tok.Span, msg)
		}
	}
	p.next()
	var items []*pyast.WithItem
	parenForm := false
	if p.tok.Kind == token.LPAREN && p.peek().Kind != token.EOF {
		parenForm = true
		p.next()
	}
	for {
		items = append(items, p.parseWithItem())
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
		if parenForm && p.tok.Kind == token.RPAREN {
			break
		}
	}
	if parenForm {
		p.expect(token.RPAREN)
	}
	body := p.parseSuite()
	return &pyast.With{Header: pyast.NewSpan(start, body.End()), IsAsync: isAsync, Items: items, Body: body}
}

func (p *parser) parseWithItem() *pyast.WithItem {
	start := p.tok.Span.Start
	ctx := p.parseTest()
	var optVar pyast.Expr
	end := ctx.End()
	if p.atKeyword(token.KwAs) {
		p.next()
		optVar = p.parseTargetItem()
		end = optVar.End()
		p.checkAssignable(optVar)
	}
	return &pyast.WithItem{Header: pyast.NewSpan(start, end), ContextExpr: ctx, OptionalVar: optVar}
}

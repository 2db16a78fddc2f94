package parser

import (
	pyast "github.com/gopythonic/pyparse/python/ast"
	"github.com/gopythonic/pyparse/python/token"
	"github.com/gopythonic/pyparse/python/version"
)

// parseFuncDef parses `def name(params) [-> ret]: suite`, optionally
// already past a leading `async`.
func (p *parser) parseFuncDef(decs []*pyast.Decorator, isAsync bool) pyast.Stmt {
	start := p.tok.Span.Start
	if len(decs) > 0 {
		start = decs[0].Pos()
	}
	p.expectKeyword(token.KwDef)
	name := p.expectNameLiteral()

	fs := &funcScope{name: name, isAsync: isAsync, params: map[string]bool{}}
	p.funcs = append(p.funcs, fs)

	p.expect(token.LPAREN)
	params := p.parseParamList(token.RPAREN)
	p.expect(token.RPAREN)

	var returns pyast.Expr
	if p.tok.Kind == token.ARROW {
		if !version.Supports(p.v, version.FeatAnnotations) {
			msg, _ := version.Message(version.FeatAnnotations)
			p.errorf(p.tok.Span, msg)
		}
		p.next()
		returns = p.parseTest()
	}

	for _, pa := range params {
		if pa.Name != "" {
			fs.params[pa.Name] = true
		}
	}

	body := p.parseSuite()
	p.funcs = p.funcs[:len(p.funcs)-1]

	return &pyast.FunctionDef{
		Header:     pyast.NewSpan(start, body.End()),
		IsAsync:    isAsync,
		Name:       name,
		Params:     params,
		Returns:    returns,
		Body:       body,
		Decorators: decs,
	}
}

// parseParamList parses a function's parameter list up to (but not
// consuming) closing, applying the ordering rules from spec.md §4.5:
// positional-only marker, then normal params (with or without defaults,
// defaults-once-started-must-continue), an optional bare `*`/`*args`,
// keyword-only params, and an optional `**kwargs`.
func (p *parser) parseParamList(closing token.Token) []*pyast.Parameter {
	var params []*pyast.Parameter
	seenDefault := false
	seenStar := false
	seenDoubleStar := false
	seenNames := map[string]bool{}

	checkDup := func(name string, span token.Span) {
		if name == "" {
			return
		}
		if seenNames[name] {
			p.errorf(span, "duplicate argument '%s' in function definition", name)
		}
		seenNames[name] = true
	}

	for p.tok.Kind != closing && p.tok.Kind != token.EOF {
		start := p.tok.Span.Start

		if seenDoubleStar {
			p.errorf(p.tok.Span, "invalid syntax")
		}

		switch {
		case p.tok.Kind == token.DOUBLESTAR:
			p.next()
			name := p.expectNameLiteral()
			checkDup(name, p.tok.Span)
			var ann pyast.Expr
			if p.tok.Kind == token.COLON {
				p.next()
				ann = p.parseTest()
			}
			params = append(params, &pyast.Parameter{
				Header: pyast.NewSpan(start, p.tok.Span.Start), Name: name, Annotation: ann, Kind: pyast.ParamDoubleStarKwargs,
			})
			seenDoubleStar = true

		case p.tok.Kind == token.STAR:
			p.next()
			if p.tok.Kind == token.COMMA || p.tok.Kind == closing {
				params = append(params, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Kind: pyast.ParamBareStar})
				seenStar = true
			} else {
				name := p.expectNameLiteral()
				checkDup(name, p.tok.Span)
				var ann pyast.Expr
				if p.tok.Kind == token.COLON {
					p.next()
					ann = p.parseTest()
				}
				params = append(params, &pyast.Parameter{
					Header: pyast.NewSpan(start, p.tok.Span.Start), Name: name, Annotation: ann, Kind: pyast.ParamStarArgs,
				})
				seenStar = true
			}

		case p.tok.Kind == token.SLASH:
			if !version.Supports(p.v, version.FeatPositionalOnlyParams) {
				msg, _ := version.Message(version.FeatPositionalOnlyParams)
				p.errorf(p.tok.Span, msg)
			}
			p.next()
			params = append(params, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Kind: pyast.ParamPositionalOnlyMarker})

		case p.tok.Kind == token.LPAREN:
			if !version.Supports(p.v, version.FeatSublistParameters) {
				msg, _ := version.Message(version.FeatSublistParameters)
				p.errorf(p.tok.Span, msg)
			}
			p.next()
			sub := p.parseSublistParam()
			p.expect(token.RPAREN)
			params = append(params, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Sublist: sub})

		default:
			name := p.expectNameLiteral()
			checkDup(name, p.tok.Span)
			var ann, def pyast.Expr
			if p.tok.Kind == token.COLON {
				if !version.Supports(p.v, version.FeatAnnotations) {
					msg, _ := version.Message(version.FeatAnnotations)
					p.errorf(p.tok.Span, msg)
				}
				p.next()
				ann = p.parseTest()
			}
			if p.tok.Kind == token.ASSIGN {
				p.next()
				def = p.parseTest()
				if !seenStar {
					seenDefault = true
				}
			} else if seenDefault && !seenStar {
				p.errorf(posSpan(start, p.tok.Span.Start), "non-default argument follows default argument")
			}
			params = append(params, &pyast.Parameter{
				Header: pyast.NewSpan(start, p.tok.Span.Start), Name: name, Annotation: ann, Default: def, Kind: pyast.ParamNormal,
			})
		}

		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
	}
	return params
}

// parseSublistParam parses the inside of a 2.x sublist parameter, e.g.
// `(a, (b, c))`, recursively.
func (p *parser) parseSublistParam() []*pyast.Parameter {
	var out []*pyast.Parameter
	for {
		start := p.tok.Span.Start
		if p.tok.Kind == token.LPAREN {
			p.next()
			sub := p.parseSublistParam()
			p.expect(token.RPAREN)
			out = append(out, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Sublist: sub})
		} else {
			name := p.expectNameLiteral()
			out = append(out, &pyast.Parameter{Header: pyast.NewSpan(start, p.tok.Span.Start), Name: name, Kind: pyast.ParamNormal})
		}
		if p.tok.Kind != token.COMMA {
			break
		}
		p.next()
		if p.tok.Kind == token.RPAREN {
			break
		}
	}
	return out
}

// parseClassDef parses `class Name[(bases)]: suite`.
func (p *parser) parseClassDef(decs []*pyast.Decorator) pyast.Stmt {
	start := p.tok.Span.Start
	if len(decs) > 0 {
		start = decs[0].Pos()
	}
	p.expectKeyword(token.KwClass)
	name := p.expectNameLiteral()

	var bases []pyast.Expr
	var keywords []*pyast.Keyword
	if p.tok.Kind == token.LPAREN {
		p.next()
		for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
			if p.tok.Kind == token.NAME && p.peek().Kind == token.ASSIGN {
				kwStart := p.tok.Span.Start
				kwName := p.expectNameLiteral()
				p.next() // consume '='
				v := p.parseTest()
				keywords = append(keywords, &pyast.Keyword{Header: pyast.NewSpan(kwStart, v.End()), Name: kwName, Value: v})
			} else if p.tok.Kind == token.DOUBLESTAR {
				kwStart := p.tok.Span.Start
				p.next()
				v := p.parseTest()
				keywords = append(keywords, &pyast.Keyword{Header: pyast.NewSpan(kwStart, v.End()), Value: v})
			} else {
				bases = append(bases, p.parseTest())
			}
			if p.tok.Kind != token.COMMA {
				break
			}
			p.next()
		}
		p.expect(token.RPAREN)
	}

	p.funcs = append(p.funcs, &funcScope{name: name}) // class body is its own scope for nonlocal/global purposes
	body := p.parseSuite()
	p.funcs = p.funcs[:len(p.funcs)-1]

	return &pyast.ClassDef{
		Header:     pyast.NewSpan(start, body.End()),
		Name:       name,
		Bases:      bases,
		Keywords:   keywords,
		Body:       body,
		Decorators: decs,
	}
}

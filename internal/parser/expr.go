package parser

import (
	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/source"
	"udonc/internal/token"
)

// Приоритеты бинарных операторов C#, от слабого к сильному.
const (
	precNone = iota
	precCoalesce
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.QuestionQuestion:
		return precCoalesce
	case token.OrOr:
		return precOr
	case token.AndAnd:
		return precAnd
	case token.Pipe:
		return precBitOr
	case token.Caret:
		return precBitXor
	case token.Amp:
		return precBitAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwIs:
		return precRelational
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return precNone
}

// parseExpr: assignment | conditional
func (p *Parser) parseExpr() ast.ExprID {
	if p.at(token.Ident) && p.peekN(1).Kind == token.FatArrow || p.at(token.LParen) && p.lambdaFollows() {
		p.err(diag.SynUnsupported, "lambda expressions are not supported")
		return ast.NoExprID
	}
	left := p.parseConditional()
	if !left.IsValid() {
		return ast.NoExprID
	}
	op := p.peekOp()
	if !op.Kind.IsAssignOp() {
		return left
	}
	p.consumeOp(op)
	right := p.parseExpr()
	if !right.IsValid() {
		return ast.NoExprID
	}
	return p.arenas.Exprs.New(ast.Expr{
		Kind:  ast.AssignmentExpression,
		Span:  p.exprSpan(left).Cover(p.lastSpan),
		Tok:   op,
		Left:  left,
		Right: right,
	})
}

// lambdaFollows: "(a, b) =>" или "() =>"
func (p *Parser) lambdaFollows() bool {
	pos, last := p.pos, p.lastSpan
	defer func() { p.pos, p.lastSpan = pos, last }()
	p.skipBalanced()
	return p.at(token.FatArrow)
}

// peekOp возвращает следующий оператор, склеивая ">>" и ">>=" из соседних токенов.
func (p *Parser) peekOp() token.Token {
	tok := p.peek()
	if tok.Kind != token.Gt || !p.adjacent(1) {
		return tok
	}
	next := p.peekN(1)
	switch next.Kind {
	case token.Gt:
		return token.Token{Kind: token.Shr, Span: tok.Span.Cover(next.Span), Text: ">>", Leading: tok.Leading}
	case token.GtEq:
		return token.Token{Kind: token.ShrAssign, Span: tok.Span.Cover(next.Span), Text: ">>=", Leading: tok.Leading}
	}
	return tok
}

func (p *Parser) consumeOp(op token.Token) {
	p.advance()
	if op.Kind == token.Shr || op.Kind == token.ShrAssign {
		p.advance()
	}
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

// parseConditional: binary ('?' expr ':' expr)?
func (p *Parser) parseConditional() ast.ExprID {
	cond := p.parseBinary(precCoalesce)
	if !cond.IsValid() || !p.at(token.Question) {
		return cond
	}
	p.advance()
	then := p.parseExpr()
	if !then.IsValid() {
		return ast.NoExprID
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "':' expected"); !ok {
		return ast.NoExprID
	}
	els := p.parseExpr()
	if !els.IsValid() {
		return ast.NoExprID
	}
	return p.arenas.Exprs.New(ast.Expr{
		Kind:  ast.ConditionalExpression,
		Span:  p.exprSpan(cond).Cover(p.lastSpan),
		Left:  cond,
		Right: then,
		Else:  els,
	})
}

// parseBinary: precedence climbing; "??" правоассоциативен.
func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	left := p.parseUnary()
	if !left.IsValid() {
		return ast.NoExprID
	}
	for {
		op := p.peekOp()
		prec := binaryPrec(op.Kind)
		if prec == precNone || prec < minPrec {
			return left
		}
		p.consumeOp(op)
		x := ast.Expr{Kind: ast.BinaryExpression, Tok: op, Left: left}
		if op.Kind == token.KwIs {
			typ, ok := p.parseType()
			if !ok {
				return ast.NoExprID
			}
			x.Type = typ
		} else {
			next := prec + 1
			if op.Kind == token.QuestionQuestion {
				next = prec
			}
			x.Right = p.parseBinary(next)
			if !x.Right.IsValid() {
				return ast.NoExprID
			}
		}
		x.Span = p.exprSpan(left).Cover(p.lastSpan)
		left = p.arenas.Exprs.New(x)
	}
}

// parseUnary: ('+'|'-'|'!'|'~'|'++'|'--') unary | cast | postfix
func (p *Parser) parseUnary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Plus, token.Minus, token.Bang, token.Tilde, token.PlusPlus, token.MinusMinus:
		p.advance()
		operand := p.parseUnary()
		if !operand.IsValid() {
			return ast.NoExprID
		}
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.PrefixUnaryExpression, Span: tok.Span.Cover(p.lastSpan), Tok: tok, Left: operand})
	case token.LParen:
		if id, ok := p.tryCast(); ok {
			return id
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// tryCast: '(' type ')' unary: если после ')' может начаться операнд.
func (p *Parser) tryCast() (ast.ExprID, bool) {
	open := p.peek()
	var typ ast.TypeID
	ok := p.speculate(func() bool {
		p.advance()
		var ok bool
		typ, ok = p.parseType()
		if !ok || !p.at(token.RParen) {
			return false
		}
		p.advance()
		te := p.arenas.Types.Get(typ)
		if te.Kind == ast.PredefinedType || te.Kind == ast.ArrayType || te.Kind == ast.NullableType {
			return !p.atOr(token.RParen, token.Semicolon, token.Comma, token.EOF) && binaryPrec(p.peek().Kind) == precNone || p.atOr(token.Minus, token.Plus)
		}
		switch p.peek().Kind {
		case token.Ident, token.IntLit, token.RealLit, token.StringLit, token.CharLit, token.LParen,
			token.KwTrue, token.KwFalse, token.KwNull, token.KwThis, token.KwBase, token.KwNew,
			token.KwTypeof, token.Bang, token.Tilde:
			return true
		}
		return p.peek().Kind.IsPredefinedType()
	})
	if !ok {
		return ast.NoExprID, false
	}
	operand := p.parseUnary()
	if !operand.IsValid() {
		return ast.NoExprID, true
	}
	return p.arenas.Exprs.New(ast.Expr{Kind: ast.CastExpression, Span: open.Span.Cover(p.lastSpan), Type: typ, Left: operand}), true
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.peek()
	if kind, ok := ast.LiteralKind(tok.Kind); ok {
		p.advance()
		return p.arenas.Exprs.New(ast.Expr{Kind: kind, Span: tok.Span, Tok: tok})
	}
	switch {
	case tok.Kind == token.Ident:
		p.advance()
		x := ast.Expr{Kind: ast.NameExpression, Span: tok.Span, Tok: tok, Name: ast.Name{Text: tok.Text, Tok: tok}}
		if p.at(token.Lt) {
			if args, ok := p.tryExprTypeArgs(); ok {
				x.TypeArgs = args
				x.Span = tok.Span.Cover(p.lastSpan)
			}
		}
		return p.arenas.Exprs.New(x)
	case tok.Kind == token.KwThis:
		p.advance()
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.ThisExpression, Span: tok.Span, Tok: tok})
	case tok.Kind == token.KwBase:
		p.advance()
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.BaseExpression, Span: tok.Span, Tok: tok})
	case tok.Kind.IsPredefinedType():
		p.advance()
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.PredefinedTypeExpression, Span: tok.Span, Tok: tok})
	case tok.Kind == token.LParen:
		open := p.advance()
		inner := p.parseExpr()
		if !inner.IsValid() || !p.expectClose(token.RParen, open) {
			return ast.NoExprID
		}
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.ParenthesizedExpression, Span: open.Span.Cover(p.lastSpan), Left: inner})
	case tok.Kind == token.KwNew:
		return p.parseNew()
	case tok.Kind == token.KwTypeof:
		p.advance()
		open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'(' expected")
		if !ok {
			return ast.NoExprID
		}
		typ, ok := p.parseType()
		if !ok || !p.expectClose(token.RParen, open) {
			return ast.NoExprID
		}
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.TypeOfExpression, Span: tok.Span.Cover(p.lastSpan), Tok: tok, Type: typ})
	case tok.Kind == token.KwDefault:
		p.err(diag.SynUnsupported, "default expressions are not supported")
		return ast.NoExprID
	case tok.Kind == token.Invalid:
		// лексер уже отчитался
		p.advance()
		if p.speculating > 0 {
			p.specFailed = true
		}
		return ast.NoExprID
	}
	p.err(diag.SynExpectExpression, "invalid expression term "+p.describe(tok))
	return ast.NoExprID
}

// tryExprTypeArgs: "Name<T>" в выражении, только если за '>' идёт то, что не продолжает сравнение.
func (p *Parser) tryExprTypeArgs() ([]ast.TypeID, bool) {
	var args []ast.TypeID
	ok := p.speculate(func() bool {
		var ok bool
		args, ok = p.parseTypeArgs()
		if !ok {
			return false
		}
		switch p.peek().Kind {
		case token.LParen, token.RParen, token.RBracket, token.Semicolon, token.Comma,
			token.Dot, token.EqEq, token.BangEq, token.Colon, token.RBrace, token.EOF:
			return true
		}
		return false
	})
	return args, ok
}

// new Type '(' args ')' | new Type '[' size ']' | new Type '[' ']' '{' elems '}'
func (p *Parser) parseNew() ast.ExprID {
	kw := p.advance()
	if p.at(token.LBracket) || p.at(token.LBrace) {
		p.err(diag.SynUnsupported, "implicitly typed arrays are not supported")
		return ast.NoExprID
	}
	var base ast.TypeID
	if p.peek().Kind.IsPredefinedType() {
		tok := p.advance()
		base = p.arenas.Types.New(ast.TypeExpr{Kind: ast.PredefinedType, Span: tok.Span, Tok: tok})
	} else {
		var ok bool
		if base, ok = p.parseTypeName(); !ok {
			return ast.NoExprID
		}
	}
	switch p.peek().Kind {
	case token.LParen:
		args, ok := p.parseArgumentList(token.LParen, token.RParen)
		if !ok {
			return ast.NoExprID
		}
		if p.at(token.LBrace) {
			p.err(diag.SynUnsupported, "object initializers are not supported")
			return ast.NoExprID
		}
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.ObjectCreationExpression, Span: kw.Span.Cover(p.lastSpan), Tok: kw, Type: base, Args: args})
	case token.LBracket:
		if p.rankFollows() {
			arr := p.parseTypeSuffix(base)
			if !p.at(token.LBrace) {
				p.err(diag.SynUnexpectedToken, "array creation must have array size or array initializer")
				return ast.NoExprID
			}
			id := p.parseArrayInitializer(arr)
			if e := p.arenas.Exprs.Get(id); e != nil {
				e.Tok = kw
				e.Span = kw.Span.Cover(e.Span)
			}
			return id
		}
		args, ok := p.parseArgumentList(token.LBracket, token.RBracket)
		if !ok {
			return ast.NoExprID
		}
		arr := p.arenas.Types.New(ast.TypeExpr{
			Kind: ast.ArrayType,
			Span: p.arenas.Types.Get(base).Span.Cover(p.lastSpan),
			Elem: base,
			Rank: len(args),
		})
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.ArrayCreationExpression, Span: kw.Span.Cover(p.lastSpan), Tok: kw, Type: arr, Args: args})
	}
	p.err(diag.SynUnexpectedToken, "'(' or '[' expected after type in new expression")
	return ast.NoExprID
}

// parseArrayInitializer: '{' (expr (',' expr)* ','?)? '}'
func (p *Parser) parseArrayInitializer(typ ast.TypeID) ast.ExprID {
	open := p.advance()
	var elems []ast.ExprID
	for !p.atOr(token.RBrace, token.EOF) {
		x := p.parseExpr()
		if !x.IsValid() {
			return ast.NoExprID
		}
		elems = append(elems, x)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if !p.expectClose(token.RBrace, open) {
		return ast.NoExprID
	}
	return p.arenas.Exprs.New(ast.Expr{Kind: ast.ArrayCreationExpression, Span: open.Span.Cover(p.lastSpan), Type: typ, Args: elems})
}

// parsePostfix: primary ('.' name | '(' args ')' | '[' args ']' | '++' | '--')*
func (p *Parser) parsePostfix(x ast.ExprID) ast.ExprID {
	for x.IsValid() {
		tok := p.peek()
		start := p.exprSpan(x)
		switch tok.Kind {
		case token.Dot:
			p.advance()
			nameTok, ok := p.expectIdent()
			if !ok {
				return ast.NoExprID
			}
			m := ast.Expr{Kind: ast.SimpleMemberAccessExpression, Tok: tok, Left: x, Name: ast.Name{Text: nameTok.Text, Tok: nameTok}}
			if p.at(token.Lt) {
				if args, ok := p.tryExprTypeArgs(); ok {
					m.TypeArgs = args
				}
			}
			m.Span = start.Cover(p.lastSpan)
			x = p.arenas.Exprs.New(m)
		case token.LParen:
			args, ok := p.parseArgumentList(token.LParen, token.RParen)
			if !ok {
				return ast.NoExprID
			}
			x = p.arenas.Exprs.New(ast.Expr{Kind: ast.InvocationExpression, Span: start.Cover(p.lastSpan), Left: x, Args: args})
		case token.LBracket:
			args, ok := p.parseArgumentList(token.LBracket, token.RBracket)
			if !ok {
				return ast.NoExprID
			}
			x = p.arenas.Exprs.New(ast.Expr{Kind: ast.ElementAccessExpression, Span: start.Cover(p.lastSpan), Left: x, Args: args})
		case token.PlusPlus, token.MinusMinus:
			p.advance()
			x = p.arenas.Exprs.New(ast.Expr{Kind: ast.PostfixUnaryExpression, Span: start.Cover(p.lastSpan), Tok: tok, Left: x})
		default:
			return x
		}
	}
	return x
}

// parseArgumentList: open (arg (',' arg)*)? close; arg = (name ':')? (ref|out|in)? expr
func (p *Parser) parseArgumentList(openKind, closeKind token.Kind) ([]ast.ExprID, bool) {
	open, ok := p.expect(openKind, diag.SynUnexpectedToken, "'"+openText(openKind)+"' expected")
	if !ok {
		return nil, false
	}
	var args []ast.ExprID
	for !p.atOr(closeKind, token.EOF) {
		if p.at(token.Ident) && p.peekN(1).Kind == token.Colon {
			p.advance()
			p.advance()
		}
		for p.atOr(token.KwRef, token.KwOut, token.KwIn) {
			p.advance()
			if p.at(token.Ident) && p.peek().Text == "var" && p.peekN(1).Kind == token.Ident {
				p.err(diag.SynUnsupported, "out variable declarations are not supported")
				return nil, false
			}
		}
		x := p.parseExpr()
		if !x.IsValid() {
			return nil, false
		}
		args = append(args, x)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if !p.expectClose(closeKind, open) {
		return nil, false
	}
	return args, true
}

func openText(k token.Kind) string {
	switch k {
	case token.LBracket:
		return "["
	case token.LBrace:
		return "{"
	}
	return "("
}

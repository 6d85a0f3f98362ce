package parser

import (
	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/token"
)

// parseBlock: '{' stmt* '}'
func (p *Parser) parseBlock() ast.StmtID {
	open := p.advance()
	var stmts []ast.StmtID
	for !p.atOr(token.RBrace, token.EOF) {
		if p.opts.Enough() {
			p.pos = len(p.toks) - 1
			break
		}
		pos := p.pos
		id := p.parseStmt()
		if id.IsValid() {
			stmts = append(stmts, id)
		} else {
			p.resyncStmt()
		}
		if p.pos == pos {
			p.advance()
		}
	}
	if !p.expectClose(token.RBrace, open) {
		return ast.NoStmtID
	}
	return p.arenas.Stmts.New(ast.Stmt{Kind: ast.Block, Span: open.Span.Cover(p.lastSpan), Stmts: stmts})
}

func (p *Parser) parseStmt() ast.StmtID {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return p.arenas.Stmts.New(ast.Stmt{Kind: ast.EmptyStatement, Span: tok.Span})
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDo()
	case token.KwFor:
		return p.parseFor()
	case token.KwForeach:
		return p.parseForeach()
	case token.KwReturn:
		p.advance()
		st := ast.Stmt{Kind: ast.ReturnStatement, Keyword: tok}
		if !p.at(token.Semicolon) {
			st.Expr = p.parseExpr()
			if !st.Expr.IsValid() {
				return ast.NoStmtID
			}
		}
		return p.finishSimple(st)
	case token.KwBreak, token.KwContinue:
		p.advance()
		kind := ast.BreakStatement
		if tok.Kind == token.KwContinue {
			kind = ast.ContinueStatement
		}
		return p.finishSimple(ast.Stmt{Kind: kind, Keyword: tok})
	case token.KwSwitch:
		p.err(diag.SynUnsupported, "switch statements are not supported")
		return ast.NoStmtID
	case token.KwUsing:
		p.err(diag.SynUnsupported, "using statements are not supported")
		return ast.NoStmtID
	case token.KwConst:
		p.advance()
		mods := ast.Modifiers{Flags: ast.ModConst, Tokens: []token.Token{tok}}
		typ, ok := p.parseType()
		if !ok {
			return ast.NoStmtID
		}
		return p.finishLocal(mods, typ, true)
	}
	next := p.peekN(1).Kind
	switch {
	case tok.IsContextual("try") && next == token.LBrace,
		tok.IsContextual("throw") && (next == token.KwNew || next == token.Semicolon),
		tok.IsContextual("lock") && next == token.LParen && p.lockFollows():
		p.err(diag.SynUnsupported, "'"+tok.Text+"' statements are not supported")
		return ast.NoStmtID
	}
	if typ, ok := p.tryLocalDeclType(); ok {
		return p.finishLocal(ast.Modifiers{}, typ, true)
	}
	return p.parseExprStmt(true)
}

// lockFollows: "lock (x) {" а не вызов метода lock(x);
func (p *Parser) lockFollows() bool {
	pos, last := p.pos, p.lastSpan
	defer func() { p.pos, p.lastSpan = pos, last }()
	p.pos++
	p.skipBalanced()
	return p.at(token.LBrace)
}

// tryLocalDeclType пробует разобрать "Type name" в начале оператора.
func (p *Parser) tryLocalDeclType() (ast.TypeID, bool) {
	if !p.peek().Kind.IsPredefinedType() && !p.at(token.Ident) {
		return ast.NoTypeID, false
	}
	var typ ast.TypeID
	ok := p.speculate(func() bool {
		var ok bool
		typ, ok = p.parseType()
		if !ok || !p.at(token.Ident) {
			return false
		}
		switch p.peekN(1).Kind {
		case token.Assign, token.Semicolon, token.Comma, token.KwIn:
			return true
		}
		return false
	})
	return typ, ok
}

func (p *Parser) finishLocal(mods ast.Modifiers, typ ast.TypeID, semi bool) ast.StmtID {
	vars, ok := p.parseDeclarators()
	if !ok {
		return ast.NoStmtID
	}
	if semi && !p.expectSemi() {
		return ast.NoStmtID
	}
	start := p.arenas.Types.Get(typ).Span
	if len(mods.Tokens) > 0 {
		start = mods.Tokens[0].Span
	}
	return p.arenas.Stmts.New(ast.Stmt{
		Kind: ast.LocalDeclarationStatement,
		Span: start.Cover(p.lastSpan),
		Mods: mods,
		Type: typ,
		Vars: vars,
	})
}

// parseExprStmt: expr ';': в C# допустимы только вызовы, присваивания, ++/-- и new.
func (p *Parser) parseExprStmt(semi bool) ast.StmtID {
	x := p.parseExpr()
	if !x.IsValid() {
		return ast.NoStmtID
	}
	e := p.arenas.Exprs.Get(x)
	switch e.Kind {
	case ast.InvocationExpression, ast.AssignmentExpression, ast.ObjectCreationExpression,
		ast.PostfixUnaryExpression:
	case ast.PrefixUnaryExpression:
		if e.Tok.Kind != token.PlusPlus && e.Tok.Kind != token.MinusMinus {
			p.errAt(diag.SynUnexpectedToken, e.Span, "only assignment, call, increment, decrement and new object expressions can be used as a statement")
		}
	default:
		p.errAt(diag.SynUnexpectedToken, e.Span, "only assignment, call, increment, decrement and new object expressions can be used as a statement")
	}
	if semi && !p.expectSemi() {
		return ast.NoStmtID
	}
	return p.arenas.Stmts.New(ast.Stmt{Kind: ast.ExpressionStatement, Span: e.Span.Cover(p.lastSpan), Expr: x})
}

func (p *Parser) finishSimple(st ast.Stmt) ast.StmtID {
	if !p.expectSemi() {
		return ast.NoStmtID
	}
	st.Span = st.Keyword.Span.Cover(p.lastSpan)
	return p.arenas.Stmts.New(st)
}

// parseCond: '(' expr ')'
func (p *Parser) parseCond() (ast.ExprID, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'(' expected")
	if !ok {
		return ast.NoExprID, false
	}
	x := p.parseExpr()
	if !x.IsValid() || !p.expectClose(token.RParen, open) {
		return ast.NoExprID, false
	}
	return x, true
}

func (p *Parser) parseEmbedded() (ast.StmtID, bool) {
	if p.atOr(token.RBrace, token.EOF) {
		p.err(diag.SynExpectExpression, "embedded statement expected")
		return ast.NoStmtID, false
	}
	id := p.parseStmt()
	if id.IsValid() && p.arenas.Stmts.Get(id).Kind == ast.LocalDeclarationStatement {
		p.errAt(diag.SynUnexpectedToken, p.arenas.Stmts.Get(id).Span, "embedded statement cannot be a declaration")
	}
	return id, id.IsValid()
}

func (p *Parser) parseIf() ast.StmtID {
	kw := p.advance()
	cond, ok := p.parseCond()
	if !ok {
		return ast.NoStmtID
	}
	then, ok := p.parseEmbedded()
	if !ok {
		return ast.NoStmtID
	}
	st := ast.Stmt{Kind: ast.IfStatement, Keyword: kw, Expr: cond, Then: then}
	if _, ok := p.eat(token.KwElse); ok {
		els, ok := p.parseEmbedded()
		if !ok {
			return ast.NoStmtID
		}
		st.Else = els
	}
	st.Span = kw.Span.Cover(p.lastSpan)
	return p.arenas.Stmts.New(st)
}

func (p *Parser) parseWhile() ast.StmtID {
	kw := p.advance()
	cond, ok := p.parseCond()
	if !ok {
		return ast.NoStmtID
	}
	body, ok := p.parseEmbedded()
	if !ok {
		return ast.NoStmtID
	}
	return p.arenas.Stmts.New(ast.Stmt{Kind: ast.WhileStatement, Span: kw.Span.Cover(p.lastSpan), Keyword: kw, Expr: cond, Then: body})
}

func (p *Parser) parseDo() ast.StmtID {
	kw := p.advance()
	body, ok := p.parseEmbedded()
	if !ok {
		return ast.NoStmtID
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "'while' expected"); !ok {
		return ast.NoStmtID
	}
	cond, ok := p.parseCond()
	if !ok || !p.expectSemi() {
		return ast.NoStmtID
	}
	return p.arenas.Stmts.New(ast.Stmt{Kind: ast.DoStatement, Span: kw.Span.Cover(p.lastSpan), Keyword: kw, Expr: cond, Then: body})
}

// for '(' init? ';' cond? ';' step? ')' stmt
func (p *Parser) parseFor() ast.StmtID {
	kw := p.advance()
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'(' expected")
	if !ok {
		return ast.NoStmtID
	}
	st := ast.Stmt{Kind: ast.ForStatement, Keyword: kw}
	if !p.at(token.Semicolon) {
		if typ, ok := p.tryLocalDeclType(); ok {
			id := p.finishLocal(ast.Modifiers{}, typ, false)
			if !id.IsValid() {
				return ast.NoStmtID
			}
			st.Init = append(st.Init, id)
		} else {
			for {
				id := p.parseExprStmt(false)
				if !id.IsValid() {
					return ast.NoStmtID
				}
				st.Init = append(st.Init, id)
				if _, ok := p.eat(token.Comma); !ok {
					break
				}
			}
		}
	}
	if !p.expectSemi() {
		return ast.NoStmtID
	}
	if !p.at(token.Semicolon) {
		st.Expr = p.parseExpr()
		if !st.Expr.IsValid() {
			return ast.NoStmtID
		}
	}
	if !p.expectSemi() {
		return ast.NoStmtID
	}
	for !p.atOr(token.RParen, token.EOF) {
		x := p.parseExpr()
		if !x.IsValid() {
			return ast.NoStmtID
		}
		st.Step = append(st.Step, x)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if !p.expectClose(token.RParen, open) {
		return ast.NoStmtID
	}
	body, ok := p.parseEmbedded()
	if !ok {
		return ast.NoStmtID
	}
	st.Then = body
	st.Span = kw.Span.Cover(p.lastSpan)
	return p.arenas.Stmts.New(st)
}

// foreach '(' Type name in expr ')' stmt
func (p *Parser) parseForeach() ast.StmtID {
	kw := p.advance()
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'(' expected")
	if !ok {
		return ast.NoStmtID
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.NoStmtID
	}
	nameTok, ok := p.expectIdent()
	if !ok {
		return ast.NoStmtID
	}
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "'in' expected"); !ok {
		return ast.NoStmtID
	}
	coll := p.parseExpr()
	if !coll.IsValid() || !p.expectClose(token.RParen, open) {
		return ast.NoStmtID
	}
	body, ok := p.parseEmbedded()
	if !ok {
		return ast.NoStmtID
	}
	return p.arenas.Stmts.New(ast.Stmt{
		Kind:    ast.ForEachStatement,
		Span:    kw.Span.Cover(p.lastSpan),
		Keyword: kw,
		Type:    typ,
		Name:    ast.Name{Text: nameTok.Text, Tok: nameTok},
		Expr:    coll,
		Then:    body,
	})
}

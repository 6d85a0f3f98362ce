package parser

import (
	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/source"
	"udonc/internal/token"
)

// parseAttributeLists: ('[' (target ':')? attr (',' attr)* ']')*
func (p *Parser) parseAttributeLists() []ast.AttrID {
	var out []ast.AttrID
	for p.at(token.LBracket) {
		open := p.advance()
		target := ""
		if (p.at(token.Ident) || p.peek().Kind.IsKeyword()) && p.peekN(1).Kind == token.Colon {
			target = p.advance().Text
			p.advance()
		}
		for {
			id, ok := p.parseAttribute(target)
			if !ok {
				p.resyncAttr()
				break
			}
			out = append(out, id)
			if _, ok := p.eat(token.Comma); !ok || p.at(token.RBracket) {
				break
			}
		}
		p.expectClose(token.RBracket, open)
	}
	return out
}

func (p *Parser) parseAttribute(target string) (ast.AttrID, bool) {
	name, ok := p.parseTypeName()
	if !ok {
		return ast.NoAttrID, false
	}
	attr := ast.Attr{Target: target, Name: name, Span: p.arenas.Types.Get(name).Span}
	if p.at(token.LParen) {
		args, ok := p.parseArgumentList(token.LParen, token.RParen)
		if !ok {
			return ast.NoAttrID, false
		}
		attr.Args = args
	}
	attr.Span = attr.Span.Cover(p.lastSpan)
	return p.arenas.Attrs.New(attr), true
}

func (p *Parser) resyncAttr() {
	for !p.atOr(token.EOF, token.RBracket, token.LBrace, token.RBrace, token.Semicolon) {
		p.advance()
	}
}

// parseModifiers собирает модификаторы; повтор: ошибка, но токен остаётся в списке.
func (p *Parser) parseModifiers() ast.Modifiers {
	var mods ast.Modifiers
	for {
		tok := p.peek()
		f, ok := ast.ModifierFor(tok)
		if !ok {
			return mods
		}
		// "partial" модификатор только перед class/struct/interface/void
		if f == ast.ModPartial && !p.partialFollows() {
			return mods
		}
		// "new" в начале члена может быть и выражением, но в объявлении: модификатор
		p.advance()
		if mods.Has(f) {
			p.errAt(diag.SynDuplicateModifier, tok.Span, "duplicate '"+tok.Text+"' modifier")
		}
		mods.Flags |= f
		mods.Tokens = append(mods.Tokens, tok)
	}
}

func (p *Parser) partialFollows() bool {
	switch p.peekN(1).Kind {
	case token.KwClass, token.KwStruct, token.KwInterface, token.KwVoid:
		return true
	}
	return false
}

// parseMember разбирает объявление типа или члена типа.
// typeName: имя объемлющего типа (для распознавания конструкторов).
func (p *Parser) parseMember(typeName string, topLevel bool) (ast.DeclID, bool) {
	start := p.peek().Span
	attrs := p.parseAttributeLists()
	mods := p.parseModifiers()
	if len(mods.Tokens) > 0 && len(attrs) == 0 {
		start = mods.Tokens[0].Span
	}

	switch p.peek().Kind {
	case token.KwClass, token.KwStruct, token.KwInterface:
		return p.parseTypeDecl(start, attrs, mods)
	case token.KwEnum:
		return p.parseEnumDecl(start, attrs, mods)
	case token.Tilde:
		p.err(diag.SynUnsupported, "destructors are not supported")
		return ast.NoDeclID, false
	case token.Ident:
		if p.peek().Text == typeName && p.peekN(1).Kind == token.LParen {
			return p.parseCtor(start, attrs, mods)
		}
		if p.peek().IsContextual("event") || p.peek().IsContextual("delegate") {
			p.err(diag.SynUnsupported, "'"+p.peek().Text+"' declarations are not supported")
			return ast.NoDeclID, false
		}
	case token.RBrace, token.EOF:
		if topLevel && p.at(token.RBrace) {
			p.err(diag.SynUnexpectedTopLevel, "type or namespace definition, or end-of-file expected")
		} else if len(attrs) > 0 || len(mods.Tokens) > 0 {
			p.err(diag.SynUnexpectedMember, "declaration expected")
		}
		return ast.NoDeclID, false
	}

	if !p.peek().Kind.IsPredefinedType() && !p.at(token.Ident) {
		code := diag.SynUnexpectedMember
		if topLevel {
			code = diag.SynUnexpectedTopLevel
		}
		p.err(code, "unexpected "+p.describe(p.peek())+" in declaration")
		return ast.NoDeclID, false
	}

	typ, ok := p.parseType()
	if !ok {
		return ast.NoDeclID, false
	}
	if p.at(token.KwThis) {
		p.err(diag.SynUnsupported, "indexers are not supported")
		return ast.NoDeclID, false
	}
	if p.at(token.Ident) && p.peek().Text == "operator" {
		p.err(diag.SynUnsupported, "operator declarations are not supported")
		return ast.NoDeclID, false
	}
	if !p.at(token.Ident) {
		p.err(diag.SynExpectIdentifier, "identifier expected, got "+p.describe(p.peek()))
		return ast.NoDeclID, false
	}
	switch p.peekN(1).Kind {
	case token.LParen, token.Lt:
		return p.parseMethod(start, attrs, mods, typ)
	case token.LBrace, token.FatArrow:
		return p.parseProperty(start, attrs, mods, typ)
	}
	return p.parseField(start, attrs, mods, typ)
}

// class|struct|interface Name (':' base (',' base)*)? '{' member* '}' ';'?
func (p *Parser) parseTypeDecl(start source.Span, attrs []ast.AttrID, mods ast.Modifiers) (ast.DeclID, bool) {
	kw := p.advance()
	kind := ast.ClassDeclaration
	switch kw.Kind {
	case token.KwStruct:
		kind = ast.StructDeclaration
	case token.KwInterface:
		kind = ast.InterfaceDeclaration
	}
	if len(attrs) == 0 && len(mods.Tokens) == 0 {
		start = kw.Span
	}
	nameTok, ok := p.expectIdent()
	if !ok {
		return ast.NoDeclID, false
	}
	if p.at(token.Lt) {
		p.err(diag.SynUnsupported, "generic type declarations are not supported")
		return ast.NoDeclID, false
	}
	d := ast.Decl{
		Kind:    kind,
		Attrs:   attrs,
		Mods:    mods,
		Keyword: kw,
		Name:    ast.Name{Text: nameTok.Text, Tok: nameTok},
	}
	if _, ok := p.eat(token.Colon); ok {
		bases, ok := p.parseTypeList()
		if !ok {
			return ast.NoDeclID, false
		}
		d.Bases = bases
	}
	if p.at(token.Ident) && p.peek().Text == "where" {
		p.err(diag.SynUnsupported, "type constraints are not supported")
		return ast.NoDeclID, false
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{' expected")
	if !ok {
		return ast.NoDeclID, false
	}
	d.Members = p.parseMembers(nameTok.Text)
	p.expectClose(token.RBrace, open)
	p.eat(token.Semicolon)
	d.Span = start.Cover(p.lastSpan)
	return p.arenas.Decls.New(d), true
}

func (p *Parser) parseMembers(typeName string) []ast.DeclID {
	var out []ast.DeclID
	for !p.atOr(token.RBrace, token.EOF) {
		if p.opts.Enough() {
			p.pos = len(p.toks) - 1
			break
		}
		pos := p.pos
		id, ok := p.parseMember(typeName, false)
		if ok {
			out = append(out, id)
		} else {
			p.resyncMember()
		}
		if p.pos == pos {
			p.advance()
		}
	}
	return out
}

// enum Name (':' type)? '{' (member (',' member)* ','?)? '}' ';'?
func (p *Parser) parseEnumDecl(start source.Span, attrs []ast.AttrID, mods ast.Modifiers) (ast.DeclID, bool) {
	kw := p.advance()
	if len(attrs) == 0 && len(mods.Tokens) == 0 {
		start = kw.Span
	}
	nameTok, ok := p.expectIdent()
	if !ok {
		return ast.NoDeclID, false
	}
	d := ast.Decl{
		Kind:    ast.EnumDeclaration,
		Attrs:   attrs,
		Mods:    mods,
		Keyword: kw,
		Name:    ast.Name{Text: nameTok.Text, Tok: nameTok},
	}
	if _, ok := p.eat(token.Colon); ok {
		base, ok := p.parseType()
		if !ok {
			return ast.NoDeclID, false
		}
		d.Bases = []ast.TypeID{base}
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{' expected")
	if !ok {
		return ast.NoDeclID, false
	}
	for !p.atOr(token.RBrace, token.EOF) {
		mstart := p.peek().Span
		mattrs := p.parseAttributeLists()
		tok, ok := p.expectIdent()
		if !ok {
			p.resyncAttr()
			break
		}
		if len(mattrs) == 0 {
			mstart = tok.Span
		}
		m := ast.Decl{Kind: ast.EnumMemberDeclaration, Attrs: mattrs, Name: ast.Name{Text: tok.Text, Tok: tok}}
		if _, ok := p.eat(token.Assign); ok {
			m.Init = p.parseExpr()
		}
		m.Span = mstart.Cover(p.lastSpan)
		d.Members = append(d.Members, p.arenas.Decls.New(m))
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	p.expectClose(token.RBrace, open)
	p.eat(token.Semicolon)
	d.Span = start.Cover(p.lastSpan)
	return p.arenas.Decls.New(d), true
}

// Type declarator (',' declarator)* ';'
func (p *Parser) parseField(start source.Span, attrs []ast.AttrID, mods ast.Modifiers, typ ast.TypeID) (ast.DeclID, bool) {
	if len(attrs) == 0 && len(mods.Tokens) == 0 {
		start = p.arenas.Types.Get(typ).Span
	}
	vars, ok := p.parseDeclarators()
	if !ok {
		return ast.NoDeclID, false
	}
	if !p.expectSemi() {
		return ast.NoDeclID, false
	}
	d := ast.Decl{
		Kind:  ast.FieldDeclaration,
		Span:  start.Cover(p.lastSpan),
		Attrs: attrs,
		Mods:  mods,
		Type:  typ,
		Vars:  vars,
	}
	return p.arenas.Decls.New(d), true
}

// parseDeclarators: name ('=' init)? (',' name ('=' init)?)*
func (p *Parser) parseDeclarators() ([]ast.VarID, bool) {
	var vars []ast.VarID
	for {
		nameTok, ok := p.expectIdent()
		if !ok {
			return nil, false
		}
		v := ast.VarDecl{Name: ast.Name{Text: nameTok.Text, Tok: nameTok}}
		if p.at(token.LBracket) {
			p.err(diag.SynUnsupported, "array size in a declarator is not allowed; use 'new T[n]'")
			return nil, false
		}
		if _, ok := p.eat(token.Assign); ok {
			if p.at(token.LBrace) {
				v.Init = p.parseArrayInitializer(ast.NoTypeID)
			} else {
				v.Init = p.parseExpr()
			}
			if !v.Init.IsValid() {
				return nil, false
			}
		}
		v.Span = nameTok.Span.Cover(p.lastSpan)
		vars = append(vars, p.arenas.Decls.NewVar(v))
		if _, ok := p.eat(token.Comma); !ok {
			return vars, true
		}
	}
}

// Type Name '(' params ')' (block | '=>' expr ';' | ';')
func (p *Parser) parseMethod(start source.Span, attrs []ast.AttrID, mods ast.Modifiers, typ ast.TypeID) (ast.DeclID, bool) {
	if len(attrs) == 0 && len(mods.Tokens) == 0 {
		start = p.arenas.Types.Get(typ).Span
	}
	nameTok := p.advance()
	if p.at(token.Lt) {
		p.err(diag.SynUnsupported, "generic methods are not supported")
		return ast.NoDeclID, false
	}
	d := ast.Decl{
		Kind:  ast.MethodDeclaration,
		Attrs: attrs,
		Mods:  mods,
		Type:  typ,
		Name:  ast.Name{Text: nameTok.Text, Tok: nameTok},
	}
	params, ok := p.parseParams()
	if !ok {
		return ast.NoDeclID, false
	}
	d.Params = params
	if !p.parseBody(&d.Body, &d.ExprBody) {
		return ast.NoDeclID, false
	}
	d.Span = start.Cover(p.lastSpan)
	return p.arenas.Decls.New(d), true
}

// Name '(' params ')' (':' (base|this) '(' args ')')? body
func (p *Parser) parseCtor(start source.Span, attrs []ast.AttrID, mods ast.Modifiers) (ast.DeclID, bool) {
	nameTok := p.advance()
	if len(attrs) == 0 && len(mods.Tokens) == 0 {
		start = nameTok.Span
	}
	d := ast.Decl{
		Kind:  ast.ConstructorDeclaration,
		Attrs: attrs,
		Mods:  mods,
		Name:  ast.Name{Text: nameTok.Text, Tok: nameTok},
	}
	params, ok := p.parseParams()
	if !ok {
		return ast.NoDeclID, false
	}
	d.Params = params
	if _, ok := p.eat(token.Colon); ok {
		p.err(diag.SynUnsupported, "constructor initializers are not supported")
		return ast.NoDeclID, false
	}
	if !p.parseBody(&d.Body, &d.ExprBody) {
		return ast.NoDeclID, false
	}
	d.Span = start.Cover(p.lastSpan)
	return p.arenas.Decls.New(d), true
}

// parseBody: block | '=>' expr ';' | ';'
func (p *Parser) parseBody(body *ast.StmtID, exprBody *ast.ExprID) bool {
	switch p.peek().Kind {
	case token.LBrace:
		*body = p.parseBlock()
		return body.IsValid()
	case token.FatArrow:
		p.advance()
		*exprBody = p.parseExpr()
		if !exprBody.IsValid() {
			return false
		}
		return p.expectSemi()
	case token.Semicolon:
		p.advance()
		return true
	}
	p.err(diag.SynExpectBody, "method body, '=>' or ';' expected")
	return false
}

// '(' (param (',' param)*)? ')'
func (p *Parser) parseParams() ([]ast.ParamID, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'(' expected")
	if !ok {
		return nil, false
	}
	var out []ast.ParamID
	for !p.atOr(token.RParen, token.EOF) {
		pstart := p.peek().Span
		if attrs := p.parseAttributeLists(); len(attrs) > 0 {
			p.errAt(diag.SynUnsupported, pstart, "parameter attributes are not supported")
		}
		var pd ast.ParamDecl
		for p.atOr(token.KwRef, token.KwOut, token.KwIn, token.KwParams, token.KwThis) {
			pd.Mods = append(pd.Mods, p.advance())
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		pd.Type = typ
		nameTok, ok := p.expectIdent()
		if !ok {
			return nil, false
		}
		pd.Name = ast.Name{Text: nameTok.Text, Tok: nameTok}
		if _, ok := p.eat(token.Assign); ok {
			pd.Default = p.parseExpr()
		}
		if len(pd.Mods) > 0 {
			pstart = pd.Mods[0].Span
		} else {
			pstart = p.arenas.Types.Get(typ).Span
		}
		pd.Span = pstart.Cover(p.lastSpan)
		out = append(out, p.arenas.Decls.NewParam(pd))
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if !p.expectClose(token.RParen, open) {
		return nil, false
	}
	return out, true
}

// Type Name ('{' accessor* '}' ('=' init ';')? | '=>' expr ';')
func (p *Parser) parseProperty(start source.Span, attrs []ast.AttrID, mods ast.Modifiers, typ ast.TypeID) (ast.DeclID, bool) {
	if len(attrs) == 0 && len(mods.Tokens) == 0 {
		start = p.arenas.Types.Get(typ).Span
	}
	nameTok := p.advance()
	d := ast.Decl{
		Kind:  ast.PropertyDeclaration,
		Attrs: attrs,
		Mods:  mods,
		Type:  typ,
		Name:  ast.Name{Text: nameTok.Text, Tok: nameTok},
	}
	if _, ok := p.eat(token.FatArrow); ok {
		d.ExprBody = p.parseExpr()
		if !d.ExprBody.IsValid() || !p.expectSemi() {
			return ast.NoDeclID, false
		}
		d.Span = start.Cover(p.lastSpan)
		return p.arenas.Decls.New(d), true
	}
	open := p.advance() // '{'
	for !p.atOr(token.RBrace, token.EOF) {
		astart := p.peek().Span
		amods := p.parseModifiers()
		kw := p.peek()
		kind := ast.GetAccessorDeclaration
		switch {
		case kw.IsContextual("get"):
		case kw.IsContextual("set"):
			kind = ast.SetAccessorDeclaration
		default:
			p.err(diag.SynBadAccessor, "a get or set accessor expected")
			return ast.NoDeclID, false
		}
		p.advance()
		if len(amods.Tokens) == 0 {
			astart = kw.Span
		}
		acc := ast.AccessorDecl{Kind: kind, Mods: amods, Keyword: kw}
		if !p.parseBody(&acc.Body, &acc.ExprBody) {
			return ast.NoDeclID, false
		}
		acc.Span = astart.Cover(p.lastSpan)
		d.Accessors = append(d.Accessors, p.arenas.Decls.NewAccessor(acc))
	}
	if !p.expectClose(token.RBrace, open) {
		return ast.NoDeclID, false
	}
	if _, ok := p.eat(token.Assign); ok {
		d.Init = p.parseExpr()
		if !d.Init.IsValid() || !p.expectSemi() {
			return ast.NoDeclID, false
		}
	}
	d.Span = start.Cover(p.lastSpan)
	return p.arenas.Decls.New(d), true
}

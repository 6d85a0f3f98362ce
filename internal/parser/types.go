package parser

import (
	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/token"
)

// parseType: (predefined | name) ('?')? ('[' ','* ']')*
func (p *Parser) parseType() (ast.TypeID, bool) {
	var id ast.TypeID
	if p.peek().Kind.IsPredefinedType() {
		tok := p.advance()
		id = p.arenas.Types.New(ast.TypeExpr{Kind: ast.PredefinedType, Span: tok.Span, Tok: tok})
	} else {
		var ok bool
		id, ok = p.parseTypeName()
		if !ok {
			return ast.NoTypeID, false
		}
	}
	return p.parseTypeSuffix(id), true
}

func (p *Parser) parseTypeSuffix(id ast.TypeID) ast.TypeID {
	start := p.arenas.Types.Get(id).Span
	if p.at(token.Question) && p.nullableFollows() {
		p.advance()
		id = p.arenas.Types.New(ast.TypeExpr{Kind: ast.NullableType, Span: start.Cover(p.lastSpan), Elem: id})
	}
	for p.at(token.LBracket) && p.rankFollows() {
		p.advance()
		rank := 1
		for p.at(token.Comma) {
			p.advance()
			rank++
		}
		p.advance() // ']'
		id = p.arenas.Types.New(ast.TypeExpr{Kind: ast.ArrayType, Span: start.Cover(p.lastSpan), Elem: id, Rank: rank})
	}
	return id
}

// nullableFollows: "T?" в объявлении, а не начало условного выражения.
func (p *Parser) nullableFollows() bool {
	switch p.peekN(1).Kind {
	case token.Ident, token.LBracket, token.RParen, token.Comma, token.Gt, token.Semicolon:
		return true
	}
	return false
}

// rankFollows: '[' ','* ']'
func (p *Parser) rankFollows() bool {
	for i := 1; ; i++ {
		switch p.peekN(i).Kind {
		case token.Comma:
			continue
		case token.RBracket:
			return true
		default:
			return false
		}
	}
}

// parseTypeName: simple ('.' simple)* ; simple = Ident ('<' typeArgs '>')?
// "global::X" разбирается как квалифицированное имя с левой частью "global".
func (p *Parser) parseTypeName() (ast.TypeID, bool) {
	left, ok := p.parseSimpleName()
	if !ok {
		return ast.NoTypeID, false
	}
	for p.atOr(token.Dot, token.ColonColon) && p.peekN(1).Kind == token.Ident {
		p.advance()
		right, ok := p.parseSimpleName()
		if !ok {
			return ast.NoTypeID, false
		}
		sp := p.arenas.Types.Get(left).Span.Cover(p.arenas.Types.Get(right).Span)
		left = p.arenas.Types.New(ast.TypeExpr{Kind: ast.QualifiedName, Span: sp, Left: left, Right: right})
	}
	return left, true
}

func (p *Parser) parseSimpleName() (ast.TypeID, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectType, "type expected, got "+p.describe(p.peek()))
	if !ok {
		return ast.NoTypeID, false
	}
	te := ast.TypeExpr{Kind: ast.IdentifierName, Span: tok.Span, Name: ast.Name{Text: tok.Text, Tok: tok}}
	if p.at(token.Lt) {
		args, ok := p.parseTypeArgs()
		if !ok {
			return ast.NoTypeID, false
		}
		te.Kind = ast.GenericName
		te.Args = args
		te.Span = tok.Span.Cover(p.lastSpan)
	}
	return p.arenas.Types.New(te), true
}

// parseTypeArgs: '<' type (',' type)* '>'
func (p *Parser) parseTypeArgs() ([]ast.TypeID, bool) {
	open := p.advance()
	var args []ast.TypeID
	for {
		t, ok := p.parseType()
		if !ok {
			return nil, false
		}
		args = append(args, t)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.Gt); !ok {
		p.reportNote(diag.SynUnexpectedToken, diag.SevError, p.getDiagnosticSpan(), "'>' expected", open.Span, "to match this '<'")
		return nil, false
	}
	return args, true
}

// parseTypeList: type (',' type)*
func (p *Parser) parseTypeList() ([]ast.TypeID, bool) {
	var out []ast.TypeID
	for {
		t, ok := p.parseType()
		if !ok {
			return nil, false
		}
		out = append(out, t)
		if _, ok := p.eat(token.Comma); !ok {
			return out, true
		}
	}
}

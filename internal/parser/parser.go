package parser

import (
	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/lexer"
	"udonc/internal/source"
	"udonc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Parser: состояние парсера на один файл.
// Токены вычитываются из лексера целиком: C# местами требует отката
// (generic-аргументы, приведения, локальные объявления против выражений).
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики

	// speculating > 0: идёт пробный разбор: диагностики не пишутся,
	// а specFailed отмечает, что попытка не удалась.
	speculating int
	specFailed  bool
}

// ParseFile: входная точка для разбора одного файла.
func ParseFile(fs *source.FileSet, lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	toks := lx.All()
	p := Parser{
		toks:   toks,
		arenas: arenas,
		fs:     fs,
		opts:   opts,
	}
	first := toks[0].Span
	p.lastSpan = source.Span{File: first.File, Start: first.Start, End: first.Start}
	p.file = arenas.NewFile(first)

	p.parseCompilationUnit()

	var bag *diag.Bag
	switch br := opts.Reporter.(type) {
	case diag.BagReporter:
		bag = br.Bag
	case *diag.BagReporter:
		bag = br.Bag
	}
	return Result{File: p.file, Bag: bag}
}

// parseCompilationUnit: using* (namespace | type | member)* EOF.
// Члены на верхнем уровне (поля, методы) допускаются: так пишутся
// однофайловые скрипты, их связывает неявный тип скрипта.
func (p *Parser) parseCompilationUnit() {
	f := p.arenas.Files.Get(p.file)
	usings, members := p.parseNamespaceBody(token.EOF)
	f.Usings = usings
	f.Members = members
	f.EOF = p.peek()
	f.Span = source.Span{File: f.EOF.Span.File, Start: 0, End: f.EOF.Span.End}
}

// parseNamespaceBody разбирает содержимое файла или namespace до закрывающего токена.
func (p *Parser) parseNamespaceBody(closer token.Kind) (usings, members []ast.DeclID) {
	for p.at(token.KwUsing) && !p.isUsingStatement() {
		if id, ok := p.parseUsing(); ok {
			usings = append(usings, id)
		}
	}
	for !p.at(token.EOF) && !p.at(closer) {
		if p.opts.Enough() {
			p.pos = len(p.toks) - 1
			break
		}
		start := p.pos
		if p.at(token.KwUsing) {
			p.err(diag.SynUsingAfterMember, "a using clause must precede all other elements defined in the namespace")
			if id, ok := p.parseUsing(); ok {
				usings = append(usings, id)
			}
			continue
		}
		if p.at(token.KwNamespace) {
			id, fileScoped, ok := p.parseNamespace()
			if ok {
				members = append(members, id)
			}
			if fileScoped {
				return usings, members
			}
			continue
		}
		id, ok := p.parseMember("", true)
		if ok {
			members = append(members, id)
		} else {
			p.resyncMember()
		}
		if p.pos == start {
			p.advance()
		}
	}
	return usings, members
}

// using X.Y; | using static X.Y; | using Alias = X.Y;
func (p *Parser) parseUsing() (ast.DeclID, bool) {
	kw := p.advance()
	d := ast.Decl{Kind: ast.UsingDirective, Keyword: kw}
	if p.at(token.KwStatic) {
		d.Static = true
		d.Mods.Tokens = append(d.Mods.Tokens, p.advance())
	}
	if p.at(token.Ident) && p.peekN(1).Kind == token.Assign {
		tok := p.advance()
		d.Alias = ast.Name{Text: tok.Text, Tok: tok}
		p.advance()
	}
	path, ok := p.parseTypeName()
	if !ok {
		p.resyncMember()
		return ast.NoDeclID, false
	}
	d.Path = path
	p.expectSemi()
	d.Span = kw.Span.Cover(p.lastSpan)
	return p.arenas.Decls.New(d), true
}

// namespace A.B { ... } | namespace A.B;
func (p *Parser) parseNamespace() (id ast.DeclID, fileScoped bool, ok bool) {
	kw := p.advance()
	path, ok := p.parseTypeName()
	if !ok {
		p.resyncMember()
		return ast.NoDeclID, false, false
	}
	d := ast.Decl{Kind: ast.NamespaceDeclaration, Keyword: kw, Path: path}
	switch {
	case p.at(token.Semicolon):
		p.advance()
		fileScoped = true
		d.Usings, d.Members = p.parseNamespaceBody(token.EOF)
	case p.at(token.LBrace):
		open := p.advance()
		d.Usings, d.Members = p.parseNamespaceBody(token.RBrace)
		p.expectClose(token.RBrace, open)
		p.eat(token.Semicolon)
	default:
		p.err(diag.SynUnexpectedToken, "'{' or ';' expected after namespace name")
		return ast.NoDeclID, false, false
	}
	d.Span = kw.Span.Cover(p.lastSpan)
	return p.arenas.Decls.New(d), fileScoped, true
}

// isUsingStatement отличает "using (x) {...}" от директивы.
func (p *Parser) isUsingStatement() bool {
	return p.peekN(1).Kind == token.LParen
}

package parser

import (
	"udonc/internal/diag"
	"udonc/internal/source"
	"udonc/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

// peekN смотрит на n токенов вперёд; за концом потока всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	k := p.peek().Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// adjacent: токен n вплотную примыкает к предыдущему (без trivia).
func (p *Parser) adjacent(n int) bool {
	prev, cur := p.peekN(n-1), p.peekN(n)
	return prev.Span.End == cur.Span.Start && len(cur.Leading) == 0
}

// getDiagnosticSpan: для EOF указываем сразу за последним съеденным токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет, репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

func (p *Parser) expectSemi() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';' expected")
	return ok
}

func (p *Parser) expectIdent() (token.Token, bool) {
	return p.expect(token.Ident, diag.SynExpectIdentifier, "identifier expected, got "+p.describe(p.peek()))
}

// expectClose закрывает скобку, открытую токеном open; нота указывает на открывающую.
func (p *Parser) expectClose(k token.Kind, open token.Token) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	code, msg := diag.SynUnclosedBrace, "'}' expected"
	switch k {
	case token.RParen:
		code, msg = diag.SynUnclosedParen, "')' expected"
	case token.RBracket:
		code, msg = diag.SynUnclosedBracket, "']' expected"
	}
	p.reportNote(code, diag.SevError, p.getDiagnosticSpan(), msg, open.Span, "to match this "+p.describe(open))
	return false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	return p.reportNote(code, sev, sp, msg, source.Span{}, "")
}

// reportNote пишет диагностику с необязательной нотой. Ошибки сверх MaxErrors
// считаются, но не пишутся; при пробном разборе ничего не пишется.
func (p *Parser) reportNote(code diag.Code, sev diag.Severity, sp source.Span, msg string, noteSpan source.Span, note string) bool {
	if p.speculating > 0 {
		if sev == diag.SevError {
			p.specFailed = true
		}
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
		if p.opts.MaxErrors != 0 && p.opts.CurrentErrors > p.opts.MaxErrors {
			return false
		}
	}
	if p.opts.Reporter == nil {
		return false
	}
	b := diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg)
	if note != "" {
		b.WithNote(noteSpan, note)
	}
	b.Emit()
	return true
}

func (p *Parser) describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "identifier '" + t.Text + "'"
	}
	if t.Text != "" {
		return "'" + t.Text + "'"
	}
	return t.Kind.String()
}

// speculate выполняет fn пробно: при неудаче позиция откатывается.
func (p *Parser) speculate(fn func() bool) bool {
	pos, last, failed := p.pos, p.lastSpan, p.specFailed
	p.speculating++
	p.specFailed = false
	ok := fn() && !p.specFailed
	p.speculating--
	p.specFailed = failed
	if !ok {
		p.pos, p.lastSpan = pos, last
	}
	return ok
}

// skipBalanced пропускает группу от открывающей скобки до парной закрывающей.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace, token.RParen, token.RBracket:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

// resyncMember: восстановление после ошибки в объявлении:
// до ';' (съедаем), до '}' (оставляем закрывающему) или через сбалансированный блок.
func (p *Parser) resyncMember() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace:
			return
		case token.LBrace:
			p.skipBalanced()
			return
		}
		p.advance()
	}
}

// resyncStmt: то же для операторов: фигурные скобки не пропускаем, чтобы не съесть конец блока.
func (p *Parser) resyncStmt() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace, token.LBrace:
			return
		}
		p.advance()
	}
}

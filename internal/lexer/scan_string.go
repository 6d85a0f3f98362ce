package lexer

import (
	"udonc/internal/diag"
	"udonc/internal/token"
)

// scanString: "..." с escape \' \" \\ \0 \a \b \f \n \r \t \v \xH..HHHH \uHHHH \UHHHHHHHH.
// Перевод строки внутри обычной строки: ошибка.
func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted('"', token.StringLit)
}

// scanChar: 'c' или '\n'. Пустой литерал и литерал из нескольких символов: ошибка.
func (lx *Lexer) scanChar() token.Token {
	tok := lx.scanQuoted('\'', token.CharLit)
	if tok.Kind != token.CharLit {
		return tok
	}
	switch body := tok.Text[1 : len(tok.Text)-1]; {
	case body == "":
		lx.errLex(diag.LexEmptyChar, tok.Span, "empty character literal")
		tok.Kind = token.Invalid
	case body[0] != '\\' && len([]rune(body)) != 1:
		lx.errLex(diag.LexUnterminatedChar, tok.Span, "too many characters in character literal")
		tok.Kind = token.Invalid
	}
	return tok
}

func (lx *Lexer) scanQuoted(quote byte, kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	unterminated := diag.LexUnterminatedString
	if quote == '\'' {
		unterminated = diag.LexUnterminatedChar
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		case '\\':
			lx.scanEscape()
			continue
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(unterminated, sp, "newline in constant")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(unterminated, sp, "unterminated literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	b := lx.cursor.Bump()
	switch b {
	case '\'', '"', '\\', '0', 'a', 'b', 'f', 'n', 'r', 't', 'v':
		return
	case 'x':
		n := 0
		for n < 4 && isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n > 0 {
			return
		}
	case 'u', 'U':
		want := 4
		if b == 'U' {
			want = 8
		}
		n := 0
		for n < want && isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n == want {
			return
		}
	case 0, '\n':
		// перевод строки/EOF сообщит вызывающий
		lx.cursor.Reset(start)
		lx.cursor.Bump()
		return
	}
	lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "unrecognized escape sequence")
}

// scanVerbatimString: @"...": без escape, кроме "" для кавычки; может занимать несколько строк.
func (lx *Lexer) scanVerbatimString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2 // @"
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '"' {
			if lx.cursor.PeekAt(1) == '"' {
				lx.cursor.Off += 2
				continue
			}
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated verbatim string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

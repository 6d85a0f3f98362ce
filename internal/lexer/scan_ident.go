package lexer

import (
	"golang.org/x/text/unicode/norm"

	"udonc/internal/diag"
	"udonc/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// "@name": verbatim-идентификатор: никогда не ключевое слово, '@' в Text не входит.
// Не-ASCII идентификаторы приводятся к NFC, чтобы "é" и "é" совпадали при связывании.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	verbatim := lx.cursor.Eat('@')
	bodyStart := lx.cursor.Off
	ascii := true

	r, sz := lx.peekRune()
	switch {
	case sz == 0:
	case r < utf8RuneSelf && isIdentStartByte(byte(r)):
		lx.cursor.Bump()
	case r >= utf8RuneSelf && isIdentStartRune(r):
		ascii = false
		lx.bumpRune()
	}
	if lx.cursor.Off == bodyStart {
		if !verbatim {
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[bodyStart:sp.End])
	if !ascii {
		text = norm.NFC.String(text)
	}
	if !verbatim {
		if k, ok := token.LookupKeyword(text); ok {
			return token.Token{Kind: k, Span: sp, Text: text}
		}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

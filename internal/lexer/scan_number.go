package lexer

import (
	"udonc/internal/diag"
	"udonc/internal/token"
)

// scanNumber:
//   - 0x[hex_]+ / 0b[01_]+ с целочисленным суффиксом (u, l, ul, lu в любом регистре)
//   - dec[_dec]* ('.' dec+)? ([eE][+-]?dec+)? с суффиксом f/d/m или u/l
//
// Точка входит в литерал, только если за ней цифра: "1.ToString()" это член, а не число.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	bad := false

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X' || b1 == 'b' || b1 == 'B') {
		lx.cursor.Off += 2
		digit := isHex
		if b1 == 'b' || b1 == 'B' {
			digit = isBin
		}
		if !lx.digits(digit) {
			bad = true
		}
		lx.intSuffix()
		if isIdentContinueByte(lx.cursor.Peek()) {
			bad = true
			lx.eatIdentTail()
		}
		return lx.finishNumber(start, kind, bad)
	}

	lx.digits(isDec)
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		lx.digits(isDec)
		kind = token.RealLit
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if lx.digits(isDec) {
			kind = token.RealLit
		} else {
			lx.cursor.Reset(mark)
			bad = true
		}
	}
	switch lx.cursor.Peek() {
	case 'f', 'F', 'd', 'D', 'm', 'M':
		lx.cursor.Bump()
		kind = token.RealLit
	default:
		if kind == token.IntLit {
			lx.intSuffix()
		}
	}
	if isIdentContinueByte(lx.cursor.Peek()) {
		bad = true
		lx.eatIdentTail()
	}
	return lx.finishNumber(start, kind, bad)
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind, bad bool) token.Token {
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if bad {
		lx.errLex(diag.LexBadNumber, sp, "invalid numeric literal '"+text+"'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

// digits съедает цифры с разделителями '_' и сообщает, была ли хоть одна цифра.
func (lx *Lexer) digits(ok func(byte) bool) bool {
	seen := false
	for {
		b := lx.cursor.Peek()
		switch {
		case ok(b):
			seen = true
		case b == '_' && seen:
		default:
			return seen
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) intSuffix() {
	switch lx.cursor.Peek() {
	case 'u', 'U':
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == 'l' || b == 'L' {
			lx.cursor.Bump()
		}
	case 'l', 'L':
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == 'u' || b == 'U' {
			lx.cursor.Bump()
		}
	}
}

func (lx *Lexer) eatIdentTail() {
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

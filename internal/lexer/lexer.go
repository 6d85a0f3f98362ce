package lexer

import (
	"udonc/internal/source"
	"udonc/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF; trivia перед EOF тоже приклеивается к нему,
// чтобы директивы в хвосте файла не терялись.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	var tok token.Token
	if lx.cursor.EOF() {
		tok = token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	} else {
		ch := lx.cursor.Peek()
		b0, b1, _ := lx.cursor.Peek2()
		switch {
		case isIdentStartByte(ch), ch >= utf8RuneSelf:
			tok = lx.scanIdentOrKeyword()
		case b0 == '@' && b1 == '"':
			tok = lx.scanVerbatimString()
		case ch == '@':
			tok = lx.scanIdentOrKeyword()
		case isDec(ch), ch == '.' && isDec(b1):
			tok = lx.scanNumber()
		case ch == '"':
			tok = lx.scanString()
		case ch == '\'':
			tok = lx.scanChar()
		default:
			tok = lx.scanOperatorOrPunct()
		}
	}

	if len(lx.hold) > 0 {
		tok.Leading = append([]token.Trivia(nil), lx.hold...)
	}
	lx.hold = lx.hold[:0]
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the remaining input, EOF token included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

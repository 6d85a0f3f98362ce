package token

import "udonc/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
	TriviaDirective // #region, #if, #pragma ... до конца строки
)

// String returns the Roslyn-style trivia name.
func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "WhitespaceTrivia"
	case TriviaNewline:
		return "EndOfLineTrivia"
	case TriviaLineComment:
		return "SingleLineCommentTrivia"
	case TriviaBlockComment:
		return "MultiLineCommentTrivia"
	case TriviaDocLine:
		return "SingleLineDocumentationCommentTrivia"
	case TriviaDirective:
		return "DirectiveTrivia"
	}
	return "UnknownTrivia"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

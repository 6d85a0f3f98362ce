package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token (including @verbatim identifiers).
	Ident

	kwBegin
	KwAbstract
	KwBase
	KwBool
	KwBreak
	KwByte
	KwCase
	KwChar
	KwClass
	KwConst
	KwContinue
	KwDecimal
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtern
	KwFalse
	KwFloat
	KwFor
	KwForeach
	KwIf
	KwIn
	KwInt
	KwInterface
	KwInternal
	KwIs
	KwLong
	KwNamespace
	KwNew
	KwNull
	KwObject
	KwOut
	KwOverride
	KwParams
	KwPrivate
	KwProtected
	KwPublic
	KwReadonly
	KwRef
	KwReturn
	KwSbyte
	KwSealed
	KwShort
	KwStatic
	KwString
	KwStruct
	KwSwitch
	KwThis
	KwTrue
	KwTypeof
	KwUint
	KwUlong
	KwUshort
	KwUsing
	KwVirtual
	KwVoid
	KwVolatile
	KwWhile
	kwEnd

	// IntLit represents an integer literal (decimal, hex or binary, with optional suffix).
	IntLit
	// RealLit represents a floating-point literal (with optional f/d/m suffix).
	RealLit
	// StringLit represents a regular or verbatim string literal.
	StringLit
	// CharLit represents a character literal.
	CharLit

	Plus             // +
	Minus            // -
	Star             // *
	Slash            // /
	Percent          // %
	Assign           // =
	PlusAssign       // +=
	MinusAssign      // -=
	StarAssign       // *=
	SlashAssign      // /=
	PercentAssign    // %=
	AmpAssign        // &=
	PipeAssign       // |=
	CaretAssign      // ^=
	ShlAssign        // <<=
	EqEq             // ==
	Bang             // !
	BangEq           // !=
	Lt               // <
	LtEq             // <=
	Gt               // >
	GtEq             // >=
	Shl              // <<
	Amp              // &
	Pipe             // |
	Caret            // ^
	Tilde            // ~
	AndAnd           // &&
	OrOr             // ||
	PlusPlus         // ++
	MinusMinus       // --
	Question         // ?
	QuestionQuestion // ??
	Colon            // :
	ColonColon       // ::
	Semicolon        // ;
	Comma            // ,
	Dot              // .
	Arrow            // ->
	FatArrow         // =>
	LParen           // (
	RParen           // )
	LBrace           // {
	RBrace           // }
	LBracket         // [
	RBracket         // ]

	// Shr и ShrAssign лексер не выдаёт: парсер склеивает их из соседних '>'.
	Shr       // >>
	ShrAssign // >>=
)

var kindNames = map[Kind]string{
	Invalid: "Invalid", EOF: "EndOfFile", Ident: "IdentifierToken",
	IntLit: "NumericLiteralToken", RealLit: "NumericLiteralToken",
	StringLit: "StringLiteralToken", CharLit: "CharacterLiteralToken",
	Plus: "PlusToken", Minus: "MinusToken", Star: "AsteriskToken", Slash: "SlashToken",
	Percent: "PercentToken", Assign: "EqualsToken", PlusAssign: "PlusEqualsToken",
	MinusAssign: "MinusEqualsToken", StarAssign: "AsteriskEqualsToken",
	SlashAssign: "SlashEqualsToken", PercentAssign: "PercentEqualsToken",
	AmpAssign: "AmpersandEqualsToken", PipeAssign: "BarEqualsToken",
	CaretAssign: "CaretEqualsToken", ShlAssign: "LessThanLessThanEqualsToken",
	EqEq: "EqualsEqualsToken", Bang: "ExclamationToken", BangEq: "ExclamationEqualsToken",
	Lt: "LessThanToken", LtEq: "LessThanEqualsToken", Gt: "GreaterThanToken",
	GtEq: "GreaterThanEqualsToken", Shl: "LessThanLessThanToken",
	Amp: "AmpersandToken", Pipe: "BarToken", Caret: "CaretToken", Tilde: "TildeToken",
	AndAnd: "AmpersandAmpersandToken", OrOr: "BarBarToken",
	PlusPlus: "PlusPlusToken", MinusMinus: "MinusMinusToken",
	Question: "QuestionToken", QuestionQuestion: "QuestionQuestionToken",
	Colon: "ColonToken", ColonColon: "ColonColonToken", Semicolon: "SemicolonToken",
	Comma: "CommaToken", Dot: "DotToken", Arrow: "MinusGreaterThanToken",
	FatArrow: "EqualsGreaterThanToken", LParen: "OpenParenToken", RParen: "CloseParenToken",
	LBrace: "OpenBraceToken", RBrace: "CloseBraceToken",
	LBracket: "OpenBracketToken", RBracket: "CloseBracketToken",
	Shr: "GreaterThanGreaterThanToken", ShrAssign: "GreaterThanGreaterThanEqualsToken",
}

// String returns the syntax-kind style name of the token kind
// (keywords render as e.g. "PublicKeyword").
func (k Kind) String() string {
	if k.IsKeyword() {
		if lex, ok := keywordText[k]; ok {
			return keywordDisplay(lex)
		}
	}
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is a reserved keyword.
func (k Kind) IsKeyword() bool { return k > kwBegin && k < kwEnd }

// IsPredefinedType reports whether k is a keyword that names a built-in type.
func (k Kind) IsPredefinedType() bool {
	switch k {
	case KwBool, KwByte, KwSbyte, KwChar, KwDecimal, KwDouble, KwFloat, KwInt,
		KwUint, KwLong, KwUlong, KwObject, KwShort, KwUshort, KwString, KwVoid:
		return true
	default:
		return false
	}
}

// IsModifier reports whether k can appear in a declaration modifier list.
func (k Kind) IsModifier() bool {
	switch k {
	case KwPublic, KwPrivate, KwProtected, KwInternal, KwStatic, KwReadonly,
		KwConst, KwSealed, KwAbstract, KwVirtual, KwOverride, KwExtern, KwVolatile, KwNew:
		return true
	default:
		return false
	}
}

// IsAssignOp reports whether k is '=' or a compound assignment operator.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign:
		return true
	default:
		return false
	}
}

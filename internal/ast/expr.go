package ast

import (
	"udonc/internal/source"
	"udonc/internal/token"
)

// Expr: выражение.
//
//	*LiteralExpression           Tok
//	NameExpression               Name, TypeArgs (generic-вызов Foo<int>())
//	PredefinedTypeExpression     Tok (int.MaxValue)
//	ParenthesizedExpression      Left
//	SimpleMemberAccessExpression Left, Name, TypeArgs
//	InvocationExpression         Left, Args
//	ElementAccessExpression      Left, Args
//	ObjectCreationExpression     Type, Args
//	ArrayCreationExpression      Type, Args (размеры или инициализатор)
//	CastExpression               Type, Left
//	TypeOfExpression             Type
//	ConditionalExpression        Left ? Right : Else
//	PrefixUnaryExpression        Tok, Left
//	PostfixUnaryExpression       Left, Tok
//	BinaryExpression             Left, Tok, Right (или Type для "x is T")
//	AssignmentExpression         Left, Tok, Right
type Expr struct {
	Kind     Kind
	Span     source.Span
	Tok      token.Token
	Name     Name
	Left     ExprID
	Right    ExprID
	Else     ExprID
	Args     []ExprID
	Type     TypeID
	TypeArgs []TypeID
}

type Exprs struct {
	Arena *Arena[Expr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{Arena: NewArena[Expr](capHint)}
}

func (e *Exprs) New(ex Expr) ExprID {
	return ExprID(e.Arena.Allocate(ex))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// IsLiteral reports the literal expression kinds.
func (k Kind) IsLiteral() bool {
	return k >= NumericLiteralExpression && k <= NullLiteralExpression
}

// LiteralKind maps a literal token to its expression kind.
func LiteralKind(t token.Kind) (Kind, bool) {
	switch t {
	case token.IntLit, token.RealLit:
		return NumericLiteralExpression, true
	case token.StringLit:
		return StringLiteralExpression, true
	case token.CharLit:
		return CharacterLiteralExpression, true
	case token.KwTrue:
		return TrueLiteralExpression, true
	case token.KwFalse:
		return FalseLiteralExpression, true
	case token.KwNull:
		return NullLiteralExpression, true
	}
	return KindInvalid, false
}

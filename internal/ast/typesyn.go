package ast

import (
	"udonc/internal/source"
	"udonc/internal/token"
)

// TypeExpr: синтаксис ссылки на тип.
//
//	PredefinedType  Tok (int, string, void, ...)
//	IdentifierName  Name
//	GenericName     Name, Args
//	QualifiedName   Left, Right (Right: IdentifierName или GenericName)
//	ArrayType       Elem, Rank
//	NullableType    Elem
type TypeExpr struct {
	Kind  Kind
	Span  source.Span
	Tok   token.Token
	Name  Name
	Args  []TypeID
	Left  TypeID
	Right TypeID
	Elem  TypeID
	Rank  int
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

func (t *TypeExprs) New(te TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(te))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

// DottedName renders a name-only type expression as "A.B.C".
// Generic arguments, arrays and nullables are not part of a dotted name; ok is false for them.
func (b *Builder) DottedName(id TypeID) (string, bool) {
	t := b.Types.Get(id)
	if t == nil {
		return "", false
	}
	switch t.Kind {
	case IdentifierName:
		return t.Name.Text, true
	case QualifiedName:
		left, ok := b.DottedName(t.Left)
		if !ok {
			return "", false
		}
		right, ok := b.DottedName(t.Right)
		if !ok {
			return "", false
		}
		return left + "." + right, true
	}
	return "", false
}

package ast

import (
	"udonc/internal/source"
)

// Attr: один атрибут из списка "[Target: A(x), B]".
// Target пуст, если спецификатор цели не указан.
type Attr struct {
	Span   source.Span
	Target string
	Name   TypeID
	Args   []ExprID
}

type Attrs struct {
	Arena *Arena[Attr]
}

func NewAttrs(capHint uint) *Attrs {
	return &Attrs{Arena: NewArena[Attr](capHint)}
}

func (a *Attrs) New(attr Attr) AttrID {
	return AttrID(a.Arena.Allocate(attr))
}

func (a *Attrs) Get(id AttrID) *Attr {
	return a.Arena.Get(uint32(id))
}

package ast

import (
	"udonc/internal/source"
	"udonc/internal/token"
)

// Name: идентификатор вместе с его токеном.
type Name struct {
	Text string
	Tok  token.Token
}

func (n Name) Span() source.Span { return n.Tok.Span }

func (n Name) IsValid() bool { return n.Text != "" }

// Decl описывает любое объявление: using, namespace, тип или член типа.
// Какие поля заполнены, зависит от Kind:
//
//	UsingDirective         Path, Alias, Static
//	NamespaceDeclaration   Path, Usings, Members
//	Class/Struct/Interface Attrs, Mods, Keyword, Name, Bases, Members
//	EnumDeclaration        Attrs, Mods, Keyword, Name, Bases, Members (EnumMemberDeclaration)
//	FieldDeclaration       Attrs, Mods, Type, Vars
//	MethodDeclaration      Attrs, Mods, Type, Name, Params, Body | ExprBody
//	PropertyDeclaration    Attrs, Mods, Type, Name, Accessors | ExprBody, Init
//	ConstructorDeclaration Attrs, Mods, Name, Params, Body | ExprBody
//	EnumMemberDeclaration  Attrs, Name, Init
type Decl struct {
	Kind      Kind
	Span      source.Span
	Attrs     []AttrID
	Mods      Modifiers
	Keyword   token.Token
	Name      Name
	Path      TypeID
	Alias     Name
	Static    bool
	Type      TypeID
	Vars      []VarID
	Params    []ParamID
	Bases     []TypeID
	Usings    []DeclID
	Members   []DeclID
	Accessors []AccessorID
	Body      StmtID
	ExprBody  ExprID
	Init      ExprID
}

// VarDecl: один декларатор: "Count = 0" в "public int Count = 0, Max;".
type VarDecl struct {
	Span source.Span
	Name Name
	Init ExprID
}

type ParamDecl struct {
	Span    source.Span
	Mods    []token.Token // ref/out/in/params/this
	Type    TypeID
	Name    Name
	Default ExprID
}

type AccessorDecl struct {
	Kind     Kind // GetAccessorDeclaration | SetAccessorDeclaration
	Span     source.Span
	Mods     Modifiers
	Keyword  token.Token
	Body     StmtID
	ExprBody ExprID
}

type Decls struct {
	Arena     *Arena[Decl]
	Vars      *Arena[VarDecl]
	Params    *Arena[ParamDecl]
	Accessors *Arena[AccessorDecl]
}

func NewDecls(capHint uint) *Decls {
	return &Decls{
		Arena:     NewArena[Decl](capHint),
		Vars:      NewArena[VarDecl](capHint),
		Params:    NewArena[ParamDecl](capHint),
		Accessors: NewArena[AccessorDecl](capHint / 4),
	}
}

func (d *Decls) New(decl Decl) DeclID {
	return DeclID(d.Arena.Allocate(decl))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

func (d *Decls) NewVar(v VarDecl) VarID {
	return VarID(d.Vars.Allocate(v))
}

func (d *Decls) Var(id VarID) *VarDecl {
	return d.Vars.Get(uint32(id))
}

func (d *Decls) NewParam(p ParamDecl) ParamID {
	return ParamID(d.Params.Allocate(p))
}

func (d *Decls) Param(id ParamID) *ParamDecl {
	return d.Params.Get(uint32(id))
}

func (d *Decls) NewAccessor(a AccessorDecl) AccessorID {
	return AccessorID(d.Accessors.Allocate(a))
}

func (d *Decls) Accessor(id AccessorID) *AccessorDecl {
	return d.Accessors.Get(uint32(id))
}

package ast

import (
	"udonc/internal/source"
	"udonc/internal/token"
)

// Stmt: оператор тела метода.
//
//	Block                     Stmts
//	LocalDeclarationStatement Mods (const), Type, Vars
//	ExpressionStatement       Expr
//	ReturnStatement           Expr (может отсутствовать)
//	IfStatement               Expr, Then, Else
//	WhileStatement            Expr, Then
//	DoStatement               Then, Expr
//	ForStatement              Init, Expr, Step, Then
//	ForEachStatement          Type, Name, Expr, Then
type Stmt struct {
	Kind    Kind
	Span    source.Span
	Keyword token.Token
	Stmts   []StmtID
	Mods    Modifiers
	Type    TypeID
	Vars    []VarID
	Name    Name
	Expr    ExprID
	Then    StmtID
	Else    StmtID
	Init    []StmtID
	Step    []ExprID
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{Arena: NewArena[Stmt](capHint)}
}

func (s *Stmts) New(st Stmt) StmtID {
	return StmtID(s.Arena.Allocate(st))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

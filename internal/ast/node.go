package ast

import (
	"udonc/internal/token"
)

// Node: размеченное объединение: вид узла плюс индекс в арене его категории.
type Node struct {
	Kind Kind
	ID   uint32
}

func (n Node) IsValid() bool { return n.Kind != KindInvalid && n.ID != 0 }

// Element: ребёнок узла в порядке исходника: либо узел, либо токен.
type Element struct {
	Node  Node
	Token token.Token
}

func (e Element) IsToken() bool { return !e.Node.IsValid() }

func FileNode(id FileID) Node { return Node{Kind: CompilationUnit, ID: uint32(id)} }

// DeclNode, TypeNode, StmtNode и ExprNode читают Kind из арены.
func (b *Builder) DeclNode(id DeclID) Node {
	if d := b.Decls.Get(id); d != nil {
		return Node{Kind: d.Kind, ID: uint32(id)}
	}
	return Node{}
}

func (b *Builder) TypeNode(id TypeID) Node {
	if t := b.Types.Get(id); t != nil {
		return Node{Kind: t.Kind, ID: uint32(id)}
	}
	return Node{}
}

func (b *Builder) StmtNode(id StmtID) Node {
	if s := b.Stmts.Get(id); s != nil {
		return Node{Kind: s.Kind, ID: uint32(id)}
	}
	return Node{}
}

func (b *Builder) ExprNode(id ExprID) Node {
	if e := b.Exprs.Get(id); e != nil {
		return Node{Kind: e.Kind, ID: uint32(id)}
	}
	return Node{}
}

func (b *Builder) AccessorNode(id AccessorID) Node {
	if a := b.Decls.Accessor(id); a != nil {
		return Node{Kind: a.Kind, ID: uint32(id)}
	}
	return Node{}
}

func VarNode(id VarID) Node     { return Node{Kind: VariableDeclarator, ID: uint32(id)} }
func ParamNode(id ParamID) Node { return Node{Kind: Parameter, ID: uint32(id)} }
func AttrNode(id AttrID) Node   { return Node{Kind: Attribute, ID: uint32(id)} }

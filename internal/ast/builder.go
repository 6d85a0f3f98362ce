package ast

import (
	"udonc/internal/source"
)

type Hints struct{ Files, Decls, Stmts, Exprs, Types uint }

// Builder владеет всеми аренами одного разбора.
type Builder struct {
	Files *Files
	Decls *Decls
	Attrs *Attrs
	Types *TypeExprs
	Stmts *Stmts
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Types == 0 {
		hints.Types = 1 << 6
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Decls: NewDecls(hints.Decls),
		Attrs: NewAttrs(hints.Decls / 4),
		Types: NewTypeExprs(hints.Types),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// Span returns the source span of any node.
func (b *Builder) Span(n Node) source.Span {
	switch n.Kind.Category() {
	case CatFile:
		if f := b.Files.Get(FileID(n.ID)); f != nil {
			return f.Span
		}
	case CatDecl:
		if d := b.Decls.Get(DeclID(n.ID)); d != nil {
			return d.Span
		}
	case CatVar:
		if v := b.Decls.Var(VarID(n.ID)); v != nil {
			return v.Span
		}
	case CatParam:
		if p := b.Decls.Param(ParamID(n.ID)); p != nil {
			return p.Span
		}
	case CatAccessor:
		if a := b.Decls.Accessor(AccessorID(n.ID)); a != nil {
			return a.Span
		}
	case CatAttr:
		if a := b.Attrs.Get(AttrID(n.ID)); a != nil {
			return a.Span
		}
	case CatType:
		if t := b.Types.Get(TypeID(n.ID)); t != nil {
			return t.Span
		}
	case CatStmt:
		if s := b.Stmts.Get(StmtID(n.ID)); s != nil {
			return s.Span
		}
	case CatExpr:
		if e := b.Exprs.Get(ExprID(n.ID)); e != nil {
			return e.Span
		}
	}
	return source.Span{}
}

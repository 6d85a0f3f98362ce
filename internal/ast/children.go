package ast

import (
	"udonc/internal/token"
)

type elems struct {
	b   *Builder
	out []Element
}

func (e *elems) node(n Node) {
	if n.IsValid() {
		e.out = append(e.out, Element{Node: n})
	}
}

func (e *elems) tok(t token.Token) {
	if t.Kind != token.Invalid && t.Kind != token.EOF && !t.Span.Empty() {
		e.out = append(e.out, Element{Token: t})
	}
}

func (e *elems) name(n Name) {
	if n.IsValid() {
		e.tok(n.Tok)
	}
}

func (e *elems) decl(id DeclID)   { e.node(e.b.DeclNode(id)) }
func (e *elems) typ(id TypeID)    { e.node(e.b.TypeNode(id)) }
func (e *elems) stmt(id StmtID)   { e.node(e.b.StmtNode(id)) }
func (e *elems) expr(id ExprID)   { e.node(e.b.ExprNode(id)) }
func (e *elems) attrs(ids []AttrID) {
	for _, id := range ids {
		e.node(AttrNode(id))
	}
}

func (e *elems) mods(m Modifiers) {
	for _, t := range m.Tokens {
		e.tok(t)
	}
}

// Children возвращает прямых детей узла: дочерние узлы и значимые токены
// (модификаторы, ключевые слова, имена, литералы, операторы) в порядке исходника.
// Пунктуация в дерево не попадает.
func (b *Builder) Children(n Node) []Element {
	e := &elems{b: b}
	switch n.Kind.Category() {
	case CatFile:
		f := b.Files.Get(FileID(n.ID))
		if f == nil {
			return nil
		}
		for _, id := range f.Usings {
			e.decl(id)
		}
		for _, id := range f.Members {
			e.decl(id)
		}
	case CatDecl:
		b.declChildren(e, b.Decls.Get(DeclID(n.ID)))
	case CatVar:
		if v := b.Decls.Var(VarID(n.ID)); v != nil {
			e.name(v.Name)
			e.expr(v.Init)
		}
	case CatParam:
		if p := b.Decls.Param(ParamID(n.ID)); p != nil {
			for _, t := range p.Mods {
				e.tok(t)
			}
			e.typ(p.Type)
			e.name(p.Name)
			e.expr(p.Default)
		}
	case CatAccessor:
		if a := b.Decls.Accessor(AccessorID(n.ID)); a != nil {
			e.mods(a.Mods)
			e.tok(a.Keyword)
			e.stmt(a.Body)
			e.expr(a.ExprBody)
		}
	case CatAttr:
		if a := b.Attrs.Get(AttrID(n.ID)); a != nil {
			e.typ(a.Name)
			for _, x := range a.Args {
				e.expr(x)
			}
		}
	case CatType:
		b.typeChildren(e, b.Types.Get(TypeID(n.ID)))
	case CatStmt:
		b.stmtChildren(e, b.Stmts.Get(StmtID(n.ID)))
	case CatExpr:
		b.exprChildren(e, b.Exprs.Get(ExprID(n.ID)))
	}
	return e.out
}

func (b *Builder) declChildren(e *elems, d *Decl) {
	if d == nil {
		return
	}
	e.attrs(d.Attrs)
	e.mods(d.Mods)
	switch d.Kind {
	case UsingDirective:
		e.tok(d.Keyword)
		e.name(d.Alias)
		e.typ(d.Path)
	case NamespaceDeclaration:
		e.tok(d.Keyword)
		e.typ(d.Path)
		for _, id := range d.Usings {
			e.decl(id)
		}
	case ClassDeclaration, StructDeclaration, InterfaceDeclaration, EnumDeclaration:
		e.tok(d.Keyword)
		e.name(d.Name)
		for _, t := range d.Bases {
			e.typ(t)
		}
	case FieldDeclaration:
		e.typ(d.Type)
		for _, v := range d.Vars {
			e.node(VarNode(v))
		}
	case MethodDeclaration, PropertyDeclaration, ConstructorDeclaration:
		e.typ(d.Type)
		e.name(d.Name)
		for _, p := range d.Params {
			e.node(ParamNode(p))
		}
		for _, a := range d.Accessors {
			e.node(b.AccessorNode(a))
		}
		e.stmt(d.Body)
		e.expr(d.ExprBody)
		e.expr(d.Init)
	case EnumMemberDeclaration:
		e.name(d.Name)
		e.expr(d.Init)
	}
	for _, id := range d.Members {
		e.decl(id)
	}
}

func (b *Builder) typeChildren(e *elems, t *TypeExpr) {
	if t == nil {
		return
	}
	switch t.Kind {
	case PredefinedType:
		e.tok(t.Tok)
	case IdentifierName:
		e.name(t.Name)
	case GenericName:
		e.name(t.Name)
		for _, a := range t.Args {
			e.typ(a)
		}
	case QualifiedName:
		e.typ(t.Left)
		e.typ(t.Right)
	case ArrayType, NullableType:
		e.typ(t.Elem)
	}
}

func (b *Builder) stmtChildren(e *elems, s *Stmt) {
	if s == nil {
		return
	}
	e.tok(s.Keyword)
	switch s.Kind {
	case Block:
		for _, id := range s.Stmts {
			e.stmt(id)
		}
	case LocalDeclarationStatement:
		e.mods(s.Mods)
		e.typ(s.Type)
		for _, v := range s.Vars {
			e.node(VarNode(v))
		}
	case DoStatement:
		e.stmt(s.Then)
		e.expr(s.Expr)
	case ForStatement:
		for _, id := range s.Init {
			e.stmt(id)
		}
		e.expr(s.Expr)
		for _, x := range s.Step {
			e.expr(x)
		}
		e.stmt(s.Then)
	case ForEachStatement:
		e.typ(s.Type)
		e.name(s.Name)
		e.expr(s.Expr)
		e.stmt(s.Then)
	default:
		e.expr(s.Expr)
		e.stmt(s.Then)
		e.stmt(s.Else)
	}
}

func (b *Builder) exprChildren(e *elems, x *Expr) {
	if x == nil {
		return
	}
	switch x.Kind {
	case NameExpression:
		e.name(x.Name)
		for _, t := range x.TypeArgs {
			e.typ(t)
		}
	case PostfixUnaryExpression:
		e.expr(x.Left)
		e.tok(x.Tok)
	case BinaryExpression, AssignmentExpression:
		e.expr(x.Left)
		e.tok(x.Tok)
		e.expr(x.Right)
		e.typ(x.Type)
	case SimpleMemberAccessExpression:
		e.expr(x.Left)
		e.name(x.Name)
		for _, t := range x.TypeArgs {
			e.typ(t)
		}
	case ObjectCreationExpression, ArrayCreationExpression, TypeOfExpression:
		e.tok(x.Tok)
		e.typ(x.Type)
		for _, a := range x.Args {
			e.expr(a)
		}
	case CastExpression:
		e.typ(x.Type)
		e.expr(x.Left)
	case ConditionalExpression:
		e.expr(x.Left)
		e.expr(x.Right)
		e.expr(x.Else)
	default:
		e.tok(x.Tok)
		e.expr(x.Left)
		for _, a := range x.Args {
			e.expr(a)
		}
	}
}

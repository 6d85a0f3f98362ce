package sema

import (
	"fmt"

	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/source"
)

// locals is the stack of local declaration spaces of one member body.
// A name may not be redeclared while an enclosing space still holds it.
type locals struct {
	frames []map[string]source.Span
}

func (l *locals) push() { l.frames = append(l.frames, make(map[string]source.Span)) }
func (l *locals) pop()  { l.frames = l.frames[:len(l.frames)-1] }

func (l *locals) lookup(name string) (source.Span, bool) {
	for i := len(l.frames) - 1; i >= 0; i-- {
		if sp, ok := l.frames[i][name]; ok {
			return sp, true
		}
	}
	return source.Span{}, false
}

func (bd *binder) bindBodies() {
	for _, m := range bd.members {
		d := bd.b.Decls.Get(m.decl)
		loc := &locals{}
		loc.push()
		for _, pid := range d.Params {
			p := bd.b.Decls.Param(pid)
			if p == nil || !p.Name.IsValid() {
				continue
			}
			if _, dup := loc.frames[0][p.Name.Text]; !dup {
				loc.frames[0][p.Name.Text] = p.Name.Span()
			}
			if p.Default.IsValid() {
				bd.walkExpr(m.sc, loc, p.Default)
			}
		}
		for _, v := range d.Vars {
			if vd := bd.b.Decls.Var(v); vd != nil && vd.Init.IsValid() {
				bd.walkExpr(m.sc, loc, vd.Init)
			}
		}
		bd.walkExpr(m.sc, loc, d.Init)
		bd.walkExpr(m.sc, loc, d.ExprBody)
		bd.walkStmt(m.sc, loc, d.Body)
		for _, aid := range d.Accessors {
			a := bd.b.Decls.Accessor(aid)
			if a == nil {
				continue
			}
			loc.push()
			if a.Kind == ast.SetAccessorDeclaration {
				loc.frames[len(loc.frames)-1]["value"] = a.Keyword.Span
			}
			bd.walkExpr(m.sc, loc, a.ExprBody)
			bd.walkStmt(m.sc, loc, a.Body)
			loc.pop()
		}
	}
}

func (bd *binder) declareLocal(loc *locals, name ast.Name) {
	if loc == nil || !name.IsValid() {
		return
	}
	if prev, dup := loc.lookup(name.Text); dup {
		bd.errorf(diag.SemaDuplicateLocal, name.Span(),
			fmt.Sprintf("a local variable or parameter named '%s' is already defined in this scope", name.Text),
			diag.Note{Span: prev, Msg: "previous declaration is here"})
		return
	}
	loc.frames[len(loc.frames)-1][name.Text] = name.Span()
}

// bindLocalType binds the declared type of a local; "var" means implicitly
// typed unless a type named var is in scope.
func (bd *binder) bindLocalType(sc scope, id ast.TypeID) {
	te := bd.b.Types.Get(id)
	if te == nil {
		return
	}
	if te.Kind == ast.IdentifierName && te.Name.Text == "var" {
		if sid, amb := bd.findSimple(sc, "var", 0); !sid.IsValid() || len(amb) > 0 {
			return
		}
	}
	bd.resolveType(sc, id)
}

func (bd *binder) walkStmt(sc scope, loc *locals, id ast.StmtID) {
	s := bd.b.Stmts.Get(id)
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.Block:
		loc.push()
		for _, c := range s.Stmts {
			bd.walkStmt(sc, loc, c)
		}
		loc.pop()
	case ast.LocalDeclarationStatement:
		bd.bindLocalType(sc, s.Type)
		for _, v := range s.Vars {
			vd := bd.b.Decls.Var(v)
			if vd == nil {
				continue
			}
			bd.walkExpr(sc, loc, vd.Init)
			bd.declareLocal(loc, vd.Name)
		}
	case ast.ExpressionStatement, ast.ReturnStatement:
		bd.walkExpr(sc, loc, s.Expr)
	case ast.IfStatement:
		bd.walkExpr(sc, loc, s.Expr)
		bd.walkEmbedded(sc, loc, s.Then)
		bd.walkEmbedded(sc, loc, s.Else)
	case ast.WhileStatement, ast.DoStatement:
		bd.walkExpr(sc, loc, s.Expr)
		bd.walkEmbedded(sc, loc, s.Then)
	case ast.ForStatement:
		loc.push()
		for _, init := range s.Init {
			bd.walkStmt(sc, loc, init)
		}
		bd.walkExpr(sc, loc, s.Expr)
		for _, step := range s.Step {
			bd.walkExpr(sc, loc, step)
		}
		bd.walkEmbedded(sc, loc, s.Then)
		loc.pop()
	case ast.ForEachStatement:
		bd.walkExpr(sc, loc, s.Expr)
		loc.push()
		bd.bindLocalType(sc, s.Type)
		bd.declareLocal(loc, s.Name)
		bd.walkEmbedded(sc, loc, s.Then)
		loc.pop()
	}
}

// walkEmbedded gives an embedded statement its own declaration space.
func (bd *binder) walkEmbedded(sc scope, loc *locals, id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	loc.push()
	bd.walkStmt(sc, loc, id)
	loc.pop()
}

// walkExpr binds the type syntax nested in an expression and records the
// identifiers it references. loc may be nil outside member bodies.
func (bd *binder) walkExpr(sc scope, loc *locals, id ast.ExprID) {
	e := bd.b.Exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.NameExpression:
		bd.used[e.Name.Text] = struct{}{}
	case ast.SimpleMemberAccessExpression:
		bd.used[e.Name.Text] = struct{}{}
	case ast.ObjectCreationExpression, ast.ArrayCreationExpression, ast.CastExpression, ast.TypeOfExpression:
		if e.Type.IsValid() {
			bd.resolveType(sc, e.Type)
		}
	case ast.BinaryExpression:
		if e.Type.IsValid() {
			bd.resolveType(sc, e.Type)
		}
	}
	for _, t := range e.TypeArgs {
		bd.resolveType(sc, t)
	}
	bd.walkExpr(sc, loc, e.Left)
	bd.walkExpr(sc, loc, e.Right)
	bd.walkExpr(sc, loc, e.Else)
	for _, a := range e.Args {
		bd.walkExpr(sc, loc, a)
	}
}

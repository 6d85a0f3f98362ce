package sema

import (
	"fmt"
	"strings"

	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/source"
)

const ctorName = ".ctor"

func (bd *binder) declareMembers() {
	for _, td := range bd.types {
		d := bd.b.Decls.Get(td.decl)
		inner := td.sc.withType(td.sym)
		for _, m := range d.Members {
			bd.declareMember(td.sym, m, inner)
		}
	}
	for _, st := range bd.stray {
		owner := bd.scriptType()
		bd.declareMember(owner, st.decl, st.sc.withType(owner))
	}
}

func (bd *binder) declareMember(owner SymbolID, id ast.DeclID, sc scope) {
	d := bd.b.Decls.Get(id)
	if d == nil || d.Kind.IsTypeDeclaration() {
		return
	}
	bd.bindAttributes(sc, d.Attrs)
	switch d.Kind {
	case ast.FieldDeclaration:
		bd.declareField(owner, id, d, sc)
	case ast.PropertyDeclaration:
		typ := bd.resolveType(sc, d.Type)
		if bd.isVoid(typ) {
			bd.errorf(diag.SemaVoidField, bd.b.Types.Get(d.Type).Span, "a property cannot have void type")
		}
		sid := bd.declareNamed(owner, id, d.Name, SymbolProperty, declFlags(d.Mods, true), typ, "")
		if sid.IsValid() {
			bd.model.decls[id] = sid
		}
		if d.Init.IsValid() && typ.IsValid() {
			bd.checkInitializer(typ, d.Init)
		}
		bd.members = append(bd.members, memberDecl{decl: id, owner: owner, sc: sc})
	case ast.MethodDeclaration, ast.ConstructorDeclaration:
		kind, name := SymbolMethod, d.Name
		typ := NoSymbolID
		if d.Kind == ast.ConstructorDeclaration {
			kind = SymbolConstructor
			name = ast.Name{Text: ctorName, Tok: d.Name.Tok}
		} else {
			typ = bd.resolveType(sc, d.Type)
		}
		params, sig := bd.bindParams(sc, d.Params)
		sid := bd.declareNamed(owner, id, name, kind, declFlags(d.Mods, true), typ, sig)
		if sid.IsValid() {
			bd.table.Get(sid).Params = params
			bd.model.decls[id] = sid
		}
		bd.members = append(bd.members, memberDecl{decl: id, owner: owner, sc: sc})
	case ast.EnumMemberDeclaration:
		sid := bd.declareNamed(owner, id, d.Name, SymbolEnumMember, SymbolFlagPublic|SymbolFlagStatic|SymbolFlagConst, owner, "")
		if sid.IsValid() {
			bd.model.decls[id] = sid
		}
		if d.Init.IsValid() {
			bd.members = append(bd.members, memberDecl{decl: id, owner: owner, sc: sc})
		}
	}
}

func (bd *binder) declareField(owner SymbolID, id ast.DeclID, d *ast.Decl, sc scope) {
	typ := bd.resolveType(sc, d.Type)
	if bd.isVoid(typ) {
		bd.errorf(diag.SemaVoidField, bd.b.Types.Get(d.Type).Span, "a field cannot have void type")
		typ = NoSymbolID
	}
	flags := declFlags(d.Mods, true)
	for i, v := range d.Vars {
		vd := bd.b.Decls.Var(v)
		if vd == nil {
			continue
		}
		sid := bd.declareNamed(owner, id, vd.Name, SymbolField, flags, typ, "")
		if !sid.IsValid() {
			continue
		}
		bd.model.vars[v] = sid
		if i == 0 {
			bd.model.decls[id] = sid
		}
		bd.fields = append(bd.fields, sid)
		if vd.Init.IsValid() && typ.IsValid() {
			bd.checkInitializer(typ, vd.Init)
		}
	}
	bd.members = append(bd.members, memberDecl{decl: id, owner: owner, sc: sc})
}

func (bd *binder) isVoid(sid SymbolID) bool {
	s := bd.table.Get(sid)
	return s != nil && s.Keyword == "void"
}

// bindParams resolves parameter types, reports duplicate names and returns
// the signature used to tell overloads apart.
func (bd *binder) bindParams(sc scope, params []ast.ParamID) ([]SymbolID, string) {
	seen := make(map[string]source.Span, len(params))
	types := make([]SymbolID, 0, len(params))
	sig := make([]string, 0, len(params))
	for _, pid := range params {
		p := bd.b.Decls.Param(pid)
		if p == nil {
			continue
		}
		typ := bd.resolveType(sc, p.Type)
		types = append(types, typ)
		part := bd.display(typ)
		for _, m := range p.Mods {
			if m.Text == "ref" || m.Text == "out" || m.Text == "in" {
				part = "ref " + part
			}
		}
		sig = append(sig, part)
		if prev, dup := seen[p.Name.Text]; dup && p.Name.IsValid() {
			bd.errorf(diag.SemaDuplicateParam, p.Name.Span(),
				fmt.Sprintf("the parameter name '%s' is a duplicate", p.Name.Text),
				diag.Note{Span: prev, Msg: "previous parameter is here"})
			continue
		}
		seen[p.Name.Text] = p.Name.Span()
	}
	return types, "(" + strings.Join(sig, ",") + ")"
}

// declareNamed adds a member symbol to owner. Methods and constructors with
// distinct signatures may share a name; everything else must be unique.
func (bd *binder) declareNamed(owner SymbolID, decl ast.DeclID, name ast.Name, kind SymbolKind, flags SymbolFlags, typ SymbolID, sig string) SymbolID {
	if !name.IsValid() {
		return NoSymbolID
	}
	key := bd.table.Strings.Intern(name.Text)
	o := bd.table.Get(owner)
	overload := kind == SymbolMethod || kind == SymbolConstructor
	for _, prev := range o.Members[key] {
		p := bd.table.Get(prev)
		if overload && p.Kind == kind && p.Signature != sig {
			continue
		}
		what := "a definition"
		if overload && p.Kind == kind {
			what = "a member with the same parameter types"
		}
		bd.errorf(diag.SemaDuplicateMember, name.Span(),
			fmt.Sprintf("the type '%s' already defines %s named '%s'", bd.ownerName(o), what, name.Text),
			diag.Note{Span: p.Span, Msg: "previous definition is here"})
		return NoSymbolID
	}
	full := name.Text
	if o.FullName != "" {
		full = o.FullName + "." + name.Text
	}
	sid := bd.table.add(Symbol{
		Kind:      kind,
		Name:      key,
		Flags:     flags,
		FullName:  full,
		Parent:    owner,
		Type:      typ,
		Decl:      decl,
		Span:      name.Span(),
		Signature: sig,
	})
	bd.table.Get(owner).addMember(key, sid)
	return sid
}

func (bd *binder) ownerName(o *Symbol) string {
	if o.Flags&SymbolFlagImplicit != 0 {
		return "script"
	}
	return o.FullName
}

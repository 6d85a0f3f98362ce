package sema

import (
	"fmt"
	"strings"

	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/refs"
)

func (bd *binder) declareContainer(lvl *level, outer scope, usings, members []ast.DeclID) {
	sc := scope{levels: append([]*level{lvl}, outer.levels...)}
	bd.levels = append(bd.levels, lvl)
	if len(usings) > 0 {
		// using directives are resolved as if their own level had no usings
		bare := &level{ns: lvl.ns}
		bd.pending = append(bd.pending, pendingLevel{
			lvl:    lvl,
			outer:  scope{levels: append([]*level{bare}, outer.levels...)},
			usings: usings,
		})
	}
	for _, id := range members {
		d := bd.b.Decls.Get(id)
		if d == nil {
			continue
		}
		switch {
		case d.Kind == ast.NamespaceDeclaration:
			bd.declareNamespace(id, d, sc)
		case d.Kind.IsTypeDeclaration():
			bd.declareType(lvl.ns, id, sc)
		default:
			bd.stray = append(bd.stray, strayMember{decl: id, sc: sc})
		}
	}
}

// declareNamespace: "namespace A.B { }" is "namespace A { namespace B { } }".
func (bd *binder) declareNamespace(id ast.DeclID, d *ast.Decl, sc scope) {
	dotted, ok := bd.b.DottedName(d.Path)
	if !ok {
		return
	}
	parts := strings.Split(dotted, ".")
	cur := sc
	ns := sc.levels[0].ns
	for i, part := range parts {
		ns = bd.table.childNamespace(ns, part)
		if i == len(parts)-1 {
			break
		}
		cur = scope{levels: append([]*level{{ns: ns}}, cur.levels...)}
	}
	bd.model.types[d.Path] = ns
	bd.model.decls[id] = ns
	bd.declareContainer(&level{ns: ns}, cur, d.Usings, d.Members)
}

func typeKindOf(k ast.Kind) refs.TypeKind {
	switch k {
	case ast.StructDeclaration:
		return refs.KindStruct
	case ast.InterfaceDeclaration:
		return refs.KindInterface
	case ast.EnumDeclaration:
		return refs.KindEnum
	default:
		return refs.KindClass
	}
}

// declFlags maps modifiers to symbol flags; members without an access
// modifier are private.
func declFlags(mods ast.Modifiers, member bool) SymbolFlags {
	var f SymbolFlags
	if mods.Has(ast.ModPublic) {
		f |= SymbolFlagPublic
	}
	if mods.Has(ast.ModPrivate) || (member && !mods.Has(ast.ModAccess)) {
		f |= SymbolFlagPrivate
	}
	if mods.Has(ast.ModStatic) {
		f |= SymbolFlagStatic
	}
	if mods.Has(ast.ModConst) {
		f |= SymbolFlagConst | SymbolFlagStatic
	}
	if mods.Has(ast.ModPartial) {
		f |= SymbolFlagPartial
	}
	return f
}

func (bd *binder) declareType(container SymbolID, id ast.DeclID, sc scope) {
	d := bd.b.Decls.Get(id)
	name := d.Name.Text
	if name == "" {
		return
	}
	kind := typeKindOf(d.Kind)
	partial := d.Mods.Has(ast.ModPartial)
	for _, prev := range bd.table.LookupType(container, name, 0) {
		p := bd.table.Get(prev)
		if !p.IsSource() {
			continue // source declarations shadow imported ones
		}
		if partial && p.Flags&SymbolFlagPartial != 0 && p.TypeKind == kind {
			p.Decls = append(p.Decls, id)
			bd.model.decls[id] = prev
			bd.types = append(bd.types, typeDecl{decl: id, sym: prev, sc: sc})
			bd.declareNested(prev, d, sc)
			return
		}
		bd.reportDuplicateType(container, d, p)
		break
	}

	key := bd.table.Strings.Intern(name)
	full := name
	if parent := bd.table.Get(container); parent.FullName != "" {
		full = parent.FullName + "." + name
	}
	sid := bd.table.add(Symbol{
		Kind:     SymbolType,
		Name:     key,
		Flags:    declFlags(d.Mods, false),
		FullName: full,
		TypeKind: kind,
		Parent:   container,
		Decl:     id,
		Decls:    []ast.DeclID{id},
		Span:     d.Name.Span(),
	})
	bd.table.Get(container).addMember(key, sid)
	bd.model.decls[id] = sid
	bd.types = append(bd.types, typeDecl{decl: id, sym: sid, sc: sc})
	bd.declareNested(sid, d, sc)
}

func (bd *binder) declareNested(owner SymbolID, d *ast.Decl, sc scope) {
	inner := sc.withType(owner)
	for _, m := range d.Members {
		if md := bd.b.Decls.Get(m); md != nil && md.Kind.IsTypeDeclaration() {
			bd.declareType(owner, m, inner)
		}
	}
}

func (bd *binder) reportDuplicateType(container SymbolID, d *ast.Decl, prev *Symbol) {
	c := bd.table.Get(container)
	note := diag.Note{Span: prev.Span, Msg: "previous definition is here"}
	if c.Kind == SymbolNamespace {
		nsName := c.FullName
		if nsName == "" {
			nsName = "<global namespace>"
		}
		bd.errorf(diag.SemaDuplicateType, d.Name.Span(),
			fmt.Sprintf("the namespace '%s' already contains a definition for '%s'", nsName, d.Name.Text), note)
		return
	}
	bd.errorf(diag.SemaDuplicateMember, d.Name.Span(),
		fmt.Sprintf("the type '%s' already contains a definition for '%s'", c.FullName, d.Name.Text), note)
}

// scriptType returns the implicit class for stray members, creating it on first use.
func (bd *binder) scriptType() SymbolID {
	if bd.script.IsValid() {
		return bd.script
	}
	key := bd.table.Strings.Intern(ScriptTypeName)
	bd.script = bd.table.add(Symbol{
		Kind:     SymbolType,
		Name:     key,
		Flags:    SymbolFlagImplicit | SymbolFlagPublic,
		FullName: ScriptTypeName,
		TypeKind: refs.KindClass,
		Parent:   bd.table.Global,
	})
	bd.table.Get(bd.table.Global).addMember(key, bd.script)
	return bd.script
}

// bindBases resolves base lists, derives attribute classes and binds type attributes.
func (bd *binder) bindBases() {
	for _, td := range bd.types {
		d := bd.b.Decls.Get(td.decl)
		for i, base := range d.Bases {
			sid := bd.resolveType(td.sc, base)
			if i > 0 || !sid.IsValid() || d.Kind != ast.ClassDeclaration {
				continue
			}
			if b := bd.table.Get(sid); b.Kind == SymbolType && (b.TypeKind == refs.KindClass || b.TypeKind == refs.KindAttribute) {
				if sym := bd.table.Get(td.sym); !sym.Type.IsValid() {
					sym.Type = sid
				}
			}
		}
	}
	for _, td := range bd.types {
		if bd.derivesFromAttribute(td.sym) {
			bd.table.Get(td.sym).TypeKind = refs.KindAttribute
		}
	}
	for _, td := range bd.types {
		bd.bindAttributes(td.sc, bd.b.Decls.Get(td.decl).Attrs)
	}
}

func (bd *binder) derivesFromAttribute(id SymbolID) bool {
	seen := make(map[SymbolID]bool)
	for cur := bd.table.Get(id).Type; cur.IsValid() && !seen[cur]; cur = bd.table.Get(cur).Type {
		seen[cur] = true
		if isAttributeClass(bd.table.Get(cur)) {
			return true
		}
	}
	return false
}

func isAttributeClass(s *Symbol) bool {
	return s != nil && s.Kind == SymbolType && (s.TypeKind == refs.KindAttribute || s.FullName == "System.Attribute")
}

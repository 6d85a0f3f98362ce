package sema

import (
	"fmt"
	"slices"

	"udonc/internal/ast"
	"udonc/internal/diag"
)

// resolveType binds a type syntax that must denote a type.
func (bd *binder) resolveType(sc scope, id ast.TypeID) SymbolID {
	sid := bd.resolveNamespaceOrType(sc, id)
	if !sid.IsValid() {
		return NoSymbolID
	}
	if s := bd.table.Get(sid); s.Kind == SymbolNamespace {
		delete(bd.model.types, id)
		bd.errorf(diag.SemaNamespaceAsType, bd.b.Types.Get(id).Span,
			fmt.Sprintf("'%s' is a namespace but is used like a type", s.FullName))
		return NoSymbolID
	}
	return sid
}

// resolveNamespaceOrType binds any name syntax and records the binding.
func (bd *binder) resolveNamespaceOrType(sc scope, id ast.TypeID) SymbolID {
	te := bd.b.Types.Get(id)
	if te == nil {
		return NoSymbolID
	}
	var sid SymbolID
	switch te.Kind {
	case ast.PredefinedType:
		sid, _ = bd.table.Special(te.Tok.Text)
	case ast.IdentifierName:
		sid = bd.lookupSimple(sc, te.Name, 0)
	case ast.GenericName:
		for _, a := range te.Args {
			bd.resolveType(sc, a)
		}
		sid = bd.lookupSimple(sc, te.Name, len(te.Args))
	case ast.QualifiedName:
		sid = bd.resolveQualified(sc, te)
	case ast.ArrayType:
		if elem := bd.resolveType(sc, te.Elem); elem.IsValid() {
			sid = bd.table.Array(elem, max(te.Rank, 1))
		}
	case ast.NullableType:
		if elem := bd.resolveType(sc, te.Elem); elem.IsValid() {
			sid = bd.table.Nullable(elem)
		}
	}
	if sid.IsValid() {
		bd.model.types[id] = sid
		bd.recordTypeArgs(id, te)
	}
	return sid
}

// recordTypeArgs keeps the argument syntax of a constructed generic name.
func (bd *binder) recordTypeArgs(id ast.TypeID, te *ast.TypeExpr) {
	switch te.Kind {
	case ast.GenericName:
		bd.model.typeArgs[id] = te.Args
	case ast.QualifiedName:
		if right := bd.b.Types.Get(te.Right); right != nil && right.Kind == ast.GenericName {
			bd.model.typeArgs[id] = right.Args
		}
	}
}

func (bd *binder) resolveQualified(sc scope, te *ast.TypeExpr) SymbolID {
	right := bd.b.Types.Get(te.Right)
	if right == nil {
		return NoSymbolID
	}
	arity := 0
	if right.Kind == ast.GenericName {
		arity = len(right.Args)
		for _, a := range right.Args {
			bd.resolveType(sc, a)
		}
	}

	var left SymbolID
	if lt := bd.b.Types.Get(te.Left); lt != nil && lt.Kind == ast.IdentifierName && lt.Name.Text == "global" {
		// global::X unless something named "global" is in scope
		if found, amb := bd.findSimple(sc, "global", 0); found.IsValid() && len(amb) == 0 {
			left = found
		} else {
			left = bd.table.Global
		}
		bd.model.types[te.Left] = left
	} else {
		left = bd.resolveNamespaceOrType(sc, te.Left)
	}
	if !left.IsValid() {
		return NoSymbolID
	}

	name := right.Name.Text
	if ids := bd.table.LookupType(left, name, arity); len(ids) > 0 {
		bd.model.types[te.Right] = ids[0]
		return ids[0]
	}
	l := bd.table.Get(left)
	if l.Kind == SymbolNamespace && arity == 0 {
		if ns := bd.table.lookupNamespace(left, bd.table.Strings.Intern(name)); ns.IsValid() {
			bd.model.types[te.Right] = ns
			return ns
		}
	}
	if other := bd.table.LookupType(left, name, -1); len(other) > 0 {
		bd.reportArity(right.Name, other[0], arity)
		return NoSymbolID
	}
	switch l.Kind {
	case SymbolNamespace:
		nsName := l.FullName
		if nsName == "" {
			nsName = "<global namespace>"
		}
		bd.errorf(diag.SemaMemberNotFound, right.Span,
			fmt.Sprintf("the type or namespace name '%s' does not exist in the namespace '%s' (are you missing an assembly reference?)", name, nsName))
	default:
		bd.errorf(diag.SemaMemberNotFound, right.Span,
			fmt.Sprintf("the type name '%s' does not exist in the type '%s'", name, bd.display(left)))
	}
	return NoSymbolID
}

// lookupSimple resolves an unqualified name and reports failures.
func (bd *binder) lookupSimple(sc scope, name ast.Name, arity int) SymbolID {
	sid, amb := bd.findSimple(sc, name.Text, arity)
	if len(amb) > 1 {
		bd.errorf(diag.SemaAmbiguousType, name.Span(),
			fmt.Sprintf("'%s' is an ambiguous reference between '%s' and '%s'", name.Text, bd.display(amb[0]), bd.display(amb[1])))
		return NoSymbolID
	}
	if sid.IsValid() {
		return sid
	}
	if other, _ := bd.findSimple(sc, name.Text, -1); other.IsValid() && bd.table.Get(other).Kind == SymbolType {
		bd.reportArity(name, other, arity)
		return NoSymbolID
	}
	bd.errorf(diag.SemaTypeNotFound, name.Span(),
		fmt.Sprintf("the type or namespace name '%s' could not be found (are you missing a using directive or an assembly reference?)", name.Text))
	return NoSymbolID
}

func (bd *binder) reportArity(name ast.Name, found SymbolID, arity int) {
	sym := bd.table.Get(found)
	if arity > 0 && sym.Arity == 0 {
		bd.errorf(diag.SemaNotGeneric, name.Span(),
			fmt.Sprintf("the non-generic type '%s' cannot be used with type arguments", bd.display(found)))
		return
	}
	bd.errorf(diag.SemaTypeNotFound, name.Span(),
		fmt.Sprintf("using the generic type '%s' requires %d type arguments", bd.display(found), sym.Arity))
}

// findSimple walks the scope chain: enclosing types, then per namespace
// level its members, its aliases and finally the types imported by its
// using directives. More than one imported candidate is returned in amb.
// arity < 0 matches any arity and skips namespaces and aliases.
func (bd *binder) findSimple(sc scope, text string, arity int) (SymbolID, []SymbolID) {
	for _, t := range sc.types {
		if ids := bd.table.LookupType(t, text, arity); len(ids) > 0 {
			return ids[0], nil
		}
	}
	key := bd.table.Strings.Intern(text)
	for _, lvl := range sc.levels {
		if ids := bd.table.LookupType(lvl.ns, text, arity); len(ids) > 0 {
			return ids[0], nil
		}
		if arity == 0 {
			if ns := bd.table.lookupNamespace(lvl.ns, key); ns.IsValid() {
				return ns, nil
			}
			if e, ok := lvl.aliases[text]; ok {
				e.used = true
				return e.target, nil
			}
		}
		var found []SymbolID
		var via []*usingEntry
		for _, group := range [][]*usingEntry{lvl.imports, lvl.statics} {
			for _, u := range group {
				ids := bd.table.LookupType(u.target, text, arity)
				if len(ids) == 0 {
					continue
				}
				via = append(via, u)
				if !slices.Contains(found, ids[0]) {
					found = append(found, ids[0])
				}
			}
		}
		if len(found) == 0 {
			continue
		}
		for _, u := range via {
			u.used = true
		}
		if len(found) > 1 {
			return NoSymbolID, found
		}
		return found[0], nil
	}
	return NoSymbolID, nil
}

// bindAttributes resolves attribute names ("X" tries X, then XAttribute).
func (bd *binder) bindAttributes(sc scope, attrs []ast.AttrID) {
	for _, aid := range attrs {
		a := bd.b.Attrs.Get(aid)
		if a == nil {
			continue
		}
		if sid := bd.resolveAttribute(sc, a); sid.IsValid() {
			bd.model.attrs[aid] = sid
		}
		for _, arg := range a.Args {
			bd.walkExpr(sc, nil, arg)
		}
	}
}

func (bd *binder) resolveAttribute(sc scope, a *ast.Attr) SymbolID {
	te := bd.b.Types.Get(a.Name)
	if te == nil {
		return NoSymbolID
	}
	bd.quiet++
	plain := bd.resolveNamespaceOrType(sc, a.Name)
	suffixed := NoSymbolID
	if !isAttributeClass(bd.table.Get(plain)) {
		suffixed = bd.resolveSuffixed(sc, te)
	}
	bd.quiet--

	switch {
	case isAttributeClass(bd.table.Get(plain)):
		return plain
	case isAttributeClass(bd.table.Get(suffixed)):
		bd.model.types[a.Name] = suffixed
		return suffixed
	}
	candidate := plain
	if s := bd.table.Get(candidate); s == nil || s.Kind != SymbolType {
		candidate = suffixed
	}
	if candidate.IsValid() && bd.table.Get(candidate).Kind == SymbolType {
		bd.errorf(diag.SemaAttributeNotType, te.Span,
			fmt.Sprintf("'%s' is not an attribute class", bd.display(candidate)))
		return NoSymbolID
	}
	delete(bd.model.types, a.Name)
	bd.resolveType(sc, a.Name) // reports why the plain name failed
	delete(bd.model.types, a.Name)
	return NoSymbolID
}

func (bd *binder) resolveSuffixed(sc scope, te *ast.TypeExpr) SymbolID {
	switch te.Kind {
	case ast.IdentifierName:
		sid, amb := bd.findSimple(sc, te.Name.Text+"Attribute", 0)
		if len(amb) > 0 {
			return NoSymbolID
		}
		return sid
	case ast.QualifiedName:
		right := bd.b.Types.Get(te.Right)
		left := bd.resolveNamespaceOrType(sc, te.Left)
		if right == nil || !left.IsValid() {
			return NoSymbolID
		}
		if ids := bd.table.LookupType(left, right.Name.Text+"Attribute", 0); len(ids) > 0 {
			return ids[0]
		}
	}
	return NoSymbolID
}

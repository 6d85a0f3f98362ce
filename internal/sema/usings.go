package sema

import (
	"fmt"
	"strings"

	"udonc/internal/ast"
	"udonc/internal/diag"
)

func (bd *binder) bindUsings(p pendingLevel) {
	for _, id := range p.usings {
		d := bd.b.Decls.Get(id)
		if d == nil || d.Kind != ast.UsingDirective {
			continue
		}
		switch {
		case d.Alias.IsValid():
			bd.bindAlias(p, id, d)
		case d.Static:
			bd.bindStatic(p, id, d)
		default:
			bd.bindImport(p, id, d)
		}
	}
}

func (bd *binder) bindAlias(p pendingLevel, id ast.DeclID, d *ast.Decl) {
	target := bd.resolveNamespaceOrType(p.outer, d.Path)
	if !target.IsValid() {
		return
	}
	name := d.Alias.Text
	if prev, ok := p.lvl.aliases[name]; ok {
		note := diag.Note{Span: prev.span, Msg: "previous alias is here"}
		if prev.target == target {
			bd.report(diag.SemaDuplicateUsing, diag.SevWarning, d.Span,
				fmt.Sprintf("the using alias '%s' appeared previously in this namespace", name), note)
		} else {
			bd.errorf(diag.SemaDuplicateUsing, d.Alias.Span(),
				fmt.Sprintf("the using alias '%s' appeared previously in this namespace", name), note)
		}
		return
	}
	if p.lvl.aliases == nil {
		p.lvl.aliases = make(map[string]*usingEntry)
	}
	e := &usingEntry{decl: id, target: target, span: d.Span}
	p.lvl.aliases[name] = e
	p.lvl.all = append(p.lvl.all, e)
	bd.model.decls[id] = target
}

func (bd *binder) bindStatic(p pendingLevel, id ast.DeclID, d *ast.Decl) {
	target := bd.resolveType(p.outer, d.Path)
	if !target.IsValid() {
		return
	}
	if bd.duplicateUsing(p.lvl.statics, target, d) {
		return
	}
	e := &usingEntry{decl: id, target: target, span: d.Span}
	p.lvl.statics = append(p.lvl.statics, e)
	p.lvl.all = append(p.lvl.all, e)
	bd.model.decls[id] = target
}

// bindImport resolves "using N;" against the enclosing namespaces, innermost first.
func (bd *binder) bindImport(p pendingLevel, id ast.DeclID, d *ast.Decl) {
	dotted, ok := bd.b.DottedName(d.Path)
	if !ok {
		bd.errorf(diag.SemaTypeNotFound, bd.b.Types.Get(d.Path).Span, "a using namespace directive can only be applied to namespaces")
		return
	}
	target := NoSymbolID
	for _, lvl := range p.outer.levels {
		prefix := bd.table.Get(lvl.ns).FullName
		full := dotted
		if prefix != "" {
			full = prefix + "." + dotted
		}
		if ns, found := bd.table.FindNamespace(full); found {
			target = ns
			break
		}
	}
	if !target.IsValid() {
		bd.reportMissingNamespace(p, d, dotted)
		return
	}
	bd.model.types[d.Path] = target
	if bd.duplicateUsing(p.lvl.imports, target, d) {
		return
	}
	e := &usingEntry{decl: id, target: target, span: d.Span}
	p.lvl.imports = append(p.lvl.imports, e)
	p.lvl.all = append(p.lvl.all, e)
	bd.model.decls[id] = target
}

func (bd *binder) reportMissingNamespace(p pendingLevel, d *ast.Decl, dotted string) {
	bd.quiet++
	asType := bd.resolveNamespaceOrType(p.outer, d.Path)
	bd.quiet--
	if s := bd.table.Get(asType); s != nil && s.Kind == SymbolType {
		delete(bd.model.types, d.Path)
		bd.errorf(diag.SemaNamespaceAsType, bd.b.Types.Get(d.Path).Span,
			fmt.Sprintf("'%s' is a type not a namespace; a using namespace directive can only be applied to namespaces (use 'using static')", s.FullName))
		return
	}
	// longest existing prefix decides between "not found" and "not in namespace"
	parts := strings.Split(dotted, ".")
	for i := len(parts) - 1; i > 0; i-- {
		prefix := strings.Join(parts[:i], ".")
		if _, found := bd.table.FindNamespace(prefix); found {
			bd.errorf(diag.SemaMemberNotFound, bd.b.Types.Get(d.Path).Span,
				fmt.Sprintf("the type or namespace name '%s' does not exist in the namespace '%s' (are you missing an assembly reference?)", parts[i], prefix))
			return
		}
	}
	bd.errorf(diag.SemaTypeNotFound, bd.b.Types.Get(d.Path).Span,
		fmt.Sprintf("the type or namespace name '%s' could not be found (are you missing a using directive or an assembly reference?)", parts[0]))
}

func (bd *binder) duplicateUsing(existing []*usingEntry, target SymbolID, d *ast.Decl) bool {
	for _, e := range existing {
		if e.target != target {
			continue
		}
		bd.report(diag.SemaDuplicateUsing, diag.SevWarning, d.Span,
			fmt.Sprintf("the using directive for '%s' appeared previously in this namespace", bd.table.Get(target).FullName),
			diag.Note{Span: e.span, Msg: "previous directive is here"})
		return true
	}
	return false
}

func (bd *binder) checkUnusedUsings() {
	for _, lvl := range bd.levels {
		for _, e := range lvl.all {
			if e.used {
				continue
			}
			bd.report(diag.SemaUnusedUsing, diag.SevInfo, e.span, "unnecessary using directive")
		}
	}
}

package sema

import (
	"fmt"

	"udonc/internal/ast"
	"udonc/internal/diag"
)

// serializedAttributes keep a private field alive: the engine writes it.
var serializedAttributes = []string{
	"UnityEngine.SerializeField",
	"UnityEngine.SerializePrivateVariables",
	"UdonSharp.UdonSyncedAttribute",
}

// checkUnusedFields warns about private fields no code refers to by name.
func (bd *binder) checkUnusedFields() {
	for _, sid := range bd.fields {
		f := bd.table.Get(sid)
		if f.Flags&SymbolFlagPrivate == 0 || f.Flags&SymbolFlagConst != 0 {
			continue
		}
		name := bd.table.Strings.MustLookup(f.Name)
		if _, ok := bd.used[name]; ok {
			continue
		}
		d := bd.b.Decls.Get(f.Decl)
		if bd.serialized(d) {
			continue
		}
		msg := fmt.Sprintf("the field '%s' is never used", bd.fieldDisplay(f))
		if bd.hasInitializer(d, name) {
			msg = fmt.Sprintf("the field '%s' is assigned but its value is never used", bd.fieldDisplay(f))
		}
		bd.report(diag.SemaUnusedField, diag.SevWarning, f.Span, msg)
	}
}

func (bd *binder) serialized(d *ast.Decl) bool {
	for _, name := range serializedAttributes {
		if bd.model.HasAttribute(d.Attrs, name) {
			return true
		}
	}
	return false
}

func (bd *binder) hasInitializer(d *ast.Decl, name string) bool {
	for _, v := range d.Vars {
		if vd := bd.b.Decls.Var(v); vd != nil && vd.Name.Text == name {
			return vd.Init.IsValid()
		}
	}
	return false
}

func (bd *binder) fieldDisplay(f *Symbol) string {
	owner := bd.table.Get(f.Parent)
	name := bd.table.Strings.MustLookup(f.Name)
	if owner == nil || owner.Flags&SymbolFlagImplicit != 0 {
		return name
	}
	return owner.FullName + "." + name
}

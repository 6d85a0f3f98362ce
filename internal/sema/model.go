package sema

import (
	"strings"

	"udonc/internal/ast"
)

// Model is the read-only result of binding one file.
type Model struct {
	Table *Table

	types    map[ast.TypeID]SymbolID
	typeArgs map[ast.TypeID][]ast.TypeID
	decls    map[ast.DeclID]SymbolID
	vars     map[ast.VarID]SymbolID
	attrs    map[ast.AttrID]SymbolID
}

func newModel(t *Table) *Model {
	return &Model{
		Table:    t,
		types:    make(map[ast.TypeID]SymbolID),
		typeArgs: make(map[ast.TypeID][]ast.TypeID),
		decls:    make(map[ast.DeclID]SymbolID),
		vars:     make(map[ast.VarID]SymbolID),
		attrs:    make(map[ast.AttrID]SymbolID),
	}
}

// Symbol returns a symbol by id.
func (m *Model) Symbol(id SymbolID) *Symbol {
	if m == nil {
		return nil
	}
	return m.Table.Get(id)
}

// TypeOf returns the symbol a type syntax binds to. Array and nullable syntax
// bind to SymbolArray / SymbolNullable; the left parts of qualified names may
// bind to namespaces. ok is false for syntax that did not bind.
func (m *Model) TypeOf(id ast.TypeID) (*Symbol, bool) {
	if m == nil {
		return nil, false
	}
	sid, ok := m.types[id]
	if !ok || !sid.IsValid() {
		return nil, false
	}
	return m.Table.Get(sid), true
}

// TypeArguments returns the type argument syntax of a constructed generic
// name (List<int> -> [int]); nil for anything else.
func (m *Model) TypeArguments(id ast.TypeID) []ast.TypeID {
	if m == nil {
		return nil
	}
	return m.typeArgs[id]
}

// ConstructedName renders a bound type syntax with its type arguments:
// "System.Collections.Generic.List<int>". Unbound parts render as "?".
func (m *Model) ConstructedName(id ast.TypeID) string {
	sym, ok := m.TypeOf(id)
	if !ok {
		return "?"
	}
	switch sym.Kind {
	case SymbolArray, SymbolNullable:
		return m.Display(sym)
	}
	args := m.TypeArguments(id)
	if len(args) == 0 {
		return m.Display(sym)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = m.ConstructedName(a)
	}
	return sym.FullName + "<" + strings.Join(parts, ", ") + ">"
}

// DeclaredSymbol returns the symbol introduced by a declaration: the type for
// type declarations, the member for methods, properties and constructors,
// the first declarator for field declarations.
func (m *Model) DeclaredSymbol(decl ast.DeclID) (*Symbol, bool) {
	if m == nil {
		return nil, false
	}
	sid, ok := m.decls[decl]
	if !ok {
		return nil, false
	}
	return m.Table.Get(sid), true
}

// DeclaredType returns the type a declaration introduces or carries: the
// type itself for type declarations, the field/property type or method
// return type for members.
func (m *Model) DeclaredType(decl ast.DeclID) (*Symbol, bool) {
	sym, ok := m.DeclaredSymbol(decl)
	if !ok {
		return nil, false
	}
	if sym.Kind == SymbolType {
		return sym, true
	}
	if !sym.Type.IsValid() {
		return nil, false
	}
	return m.Table.Get(sym.Type), true
}

// VarSymbol returns the field symbol of a field declarator.
func (m *Model) VarSymbol(v ast.VarID) (*Symbol, bool) {
	if m == nil {
		return nil, false
	}
	sid, ok := m.vars[v]
	if !ok {
		return nil, false
	}
	return m.Table.Get(sid), true
}

// AttributeType returns the attribute class an attribute binds to.
func (m *Model) AttributeType(a ast.AttrID) (*Symbol, bool) {
	if m == nil {
		return nil, false
	}
	sid, ok := m.attrs[a]
	if !ok {
		return nil, false
	}
	return m.Table.Get(sid), true
}

// HasAttribute reports whether any attribute of attrs binds to the type
// with the given canonical name.
func (m *Model) HasAttribute(attrs []ast.AttrID, fullName string) bool {
	for _, a := range attrs {
		if sym, ok := m.AttributeType(a); ok && sym.FullName == fullName {
			return true
		}
	}
	return false
}

// Display renders a symbol for messages: keyword spelling for special
// types, canonical name otherwise.
func (m *Model) Display(sym *Symbol) string {
	switch {
	case sym == nil:
		return "?"
	case sym.Keyword != "":
		return sym.Keyword
	case sym.Kind == SymbolArray:
		return m.Display(m.Table.Get(sym.Elem)) + "[" + strings.Repeat(",", sym.Rank-1) + "]"
	case sym.Kind == SymbolNullable:
		return m.Display(m.Table.Get(sym.Elem)) + "?"
	}
	return sym.FullName
}

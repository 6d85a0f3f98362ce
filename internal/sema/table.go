package sema

import (
	"strings"

	"udonc/internal/ast"
	"udonc/internal/refs"
	"udonc/internal/source"
)

// specialTypes maps System type names to their keyword spelling.
var specialTypes = map[string]string{
	"Boolean": "bool",
	"Byte":    "byte",
	"SByte":   "sbyte",
	"Char":    "char",
	"Decimal": "decimal",
	"Double":  "double",
	"Single":  "float",
	"Int32":   "int",
	"UInt32":  "uint",
	"Int64":   "long",
	"UInt64":  "ulong",
	"Object":  "object",
	"Int16":   "short",
	"UInt16":  "ushort",
	"String":  "string",
	"Void":    "void",
}

// keywordTypes is the inverse of specialTypes.
var keywordTypes = func() map[string]string {
	m := make(map[string]string, len(specialTypes))
	for name, kw := range specialTypes {
		m[kw] = name
	}
	return m
}()

// Table owns every symbol of one bind: imported and declared.
type Table struct {
	Symbols *ast.Arena[Symbol]
	Strings *source.Interner
	Global  SymbolID

	special map[string]SymbolID // keyword -> System type
	arrays  map[arrayKey]SymbolID
	nulls   map[SymbolID]SymbolID
}

type arrayKey struct {
	elem SymbolID
	rank int
}

// NewTable creates a table with the global namespace and the special System
// types; strings may be shared with other phases (nil allocates a fresh one).
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Symbols: ast.NewArena[Symbol](256),
		Strings: strings,
		special: make(map[string]SymbolID, len(specialTypes)),
		arrays:  make(map[arrayKey]SymbolID),
		nulls:   make(map[SymbolID]SymbolID),
	}
	t.Global = t.add(Symbol{Kind: SymbolNamespace, Name: strings.Intern("")})
	system := t.Namespace("System")
	for name, kw := range specialTypes {
		kind := refs.KindStruct
		if name == "Object" || name == "String" {
			kind = refs.KindClass
		}
		id := t.addType(system, refs.TypeDef{Namespace: "System", Name: name, Kind: kind}, "mscorlib")
		t.special[kw] = id
	}
	return t
}

func (t *Table) add(sym Symbol) SymbolID {
	return SymbolID(t.Symbols.Allocate(sym))
}

// Get returns the symbol by id, nil for invalid ids.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() {
		return nil
	}
	return t.Symbols.Get(uint32(id))
}

// NameOf returns the simple name of a symbol.
func (t *Table) NameOf(id SymbolID) string {
	sym := t.Get(id)
	if sym == nil {
		return ""
	}
	return t.Strings.MustLookup(sym.Name)
}

// Special returns the System type spelled by a predefined keyword.
func (t *Table) Special(keyword string) (SymbolID, bool) {
	id, ok := t.special[keyword]
	return id, ok
}

// Namespace returns (creating as needed) the namespace with the dotted name.
func (t *Table) Namespace(dotted string) SymbolID {
	cur := t.Global
	if dotted == "" {
		return cur
	}
	for _, part := range strings.Split(dotted, ".") {
		cur = t.childNamespace(cur, part)
	}
	return cur
}

func (t *Table) childNamespace(parent SymbolID, name string) SymbolID {
	key := t.Strings.Intern(name)
	if id := t.lookupNamespace(parent, key); id.IsValid() {
		return id
	}
	full := name
	if p := t.Get(parent); p != nil && p.FullName != "" {
		full = p.FullName + "." + name
	}
	id := t.add(Symbol{Kind: SymbolNamespace, Name: key, FullName: full, Parent: parent})
	t.Get(parent).addMember(key, id)
	return id
}

// FindNamespace returns an existing namespace, without creating it.
func (t *Table) FindNamespace(dotted string) (SymbolID, bool) {
	cur := t.Global
	if dotted == "" {
		return cur, true
	}
	for _, part := range strings.Split(dotted, ".") {
		cur = t.lookupNamespace(cur, t.Strings.Intern(part))
		if !cur.IsValid() {
			return NoSymbolID, false
		}
	}
	return cur, true
}

func (t *Table) lookupNamespace(parent SymbolID, name source.StringID) SymbolID {
	p := t.Get(parent)
	if p == nil {
		return NoSymbolID
	}
	for _, id := range p.Members[name] {
		if t.Get(id).Kind == SymbolNamespace {
			return id
		}
	}
	return NoSymbolID
}

func (t *Table) addType(ns SymbolID, td refs.TypeDef, assembly string) SymbolID {
	key := t.Strings.Intern(td.Name)
	sym := Symbol{
		Kind:     SymbolType,
		Name:     key,
		Flags:    SymbolFlagImported | SymbolFlagPublic,
		FullName: td.FullName(),
		TypeKind: td.Kind,
		Arity:    td.Arity,
		Parent:   ns,
		Assembly: assembly,
	}
	if td.Static {
		sym.Flags |= SymbolFlagStatic
	}
	if td.Namespace == "System" && td.Arity == 0 {
		sym.Keyword = specialTypes[td.Name]
	}
	id := t.add(sym)
	t.Get(ns).addMember(key, id)
	return id
}

// Import adds the namespaces and types of the given assemblies. A type that
// is already known under the same name and arity keeps its first definition.
func (t *Table) Import(assemblies []refs.Assembly) {
	for _, a := range assemblies {
		for _, td := range a.Types {
			ns := t.Namespace(td.Namespace)
			if existing := t.LookupType(ns, td.Name, td.Arity); len(existing) > 0 {
				continue
			}
			t.addType(ns, td, a.Name)
		}
	}
}

// LookupType returns the types named name declared directly in container.
// arity < 0 matches any arity. Source declarations come first.
func (t *Table) LookupType(container SymbolID, name string, arity int) []SymbolID {
	c := t.Get(container)
	if c == nil || len(c.Members) == 0 {
		return nil
	}
	var src, imported []SymbolID
	for _, id := range c.Members[t.Strings.Intern(name)] {
		sym := t.Get(id)
		if sym.Kind != SymbolType || (arity >= 0 && sym.Arity != arity) {
			continue
		}
		if sym.IsSource() {
			src = append(src, id)
		} else {
			imported = append(imported, id)
		}
	}
	return append(src, imported...)
}

// LookupFullName finds a type by canonical dotted name (arity 0).
func (t *Table) LookupFullName(full string) (SymbolID, bool) {
	nsName, name := "", full
	if i := strings.LastIndexByte(full, '.'); i >= 0 {
		nsName, name = full[:i], full[i+1:]
	}
	if ns, ok := t.FindNamespace(nsName); ok {
		if ids := t.LookupType(ns, name, 0); len(ids) > 0 {
			return ids[0], true
		}
	}
	// nested type: resolve the container as a type
	if outer, ok := t.LookupFullName(nsName); ok && nsName != "" {
		if ids := t.LookupType(outer, name, 0); len(ids) > 0 {
			return ids[0], true
		}
	}
	return NoSymbolID, false
}

// Array returns the interned array symbol of elem with the given rank.
func (t *Table) Array(elem SymbolID, rank int) SymbolID {
	key := arrayKey{elem: elem, rank: rank}
	if id, ok := t.arrays[key]; ok {
		return id
	}
	e := t.Get(elem)
	full := e.FullName + "[" + strings.Repeat(",", rank-1) + "]"
	id := t.add(Symbol{Kind: SymbolArray, Name: e.Name, FullName: full, Elem: elem, Rank: rank})
	t.arrays[key] = id
	return id
}

// Nullable returns the interned nullable symbol of elem.
func (t *Table) Nullable(elem SymbolID) SymbolID {
	if id, ok := t.nulls[elem]; ok {
		return id
	}
	e := t.Get(elem)
	id := t.add(Symbol{Kind: SymbolNullable, Name: e.Name, FullName: e.FullName + "?", Elem: elem})
	t.nulls[elem] = id
	return id
}

// Display renders a symbol the way diagnostics name it: keyword for special
// types, canonical name otherwise.
func (t *Table) Display(id SymbolID) string {
	sym := t.Get(id)
	switch {
	case sym == nil:
		return "?"
	case sym.Keyword != "":
		return sym.Keyword
	case sym.Kind == SymbolArray:
		return t.Display(sym.Elem) + "[" + strings.Repeat(",", sym.Rank-1) + "]"
	case sym.Kind == SymbolNullable:
		return t.Display(sym.Elem) + "?"
	}
	if sym.Arity > 0 {
		return sym.FullName + "<" + strings.Repeat(",", sym.Arity-1) + ">"
	}
	return sym.FullName
}

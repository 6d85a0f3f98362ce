package sema

import (
	"udonc/internal/ast"
	"udonc/internal/refs"
	"udonc/internal/source"
)

// SymbolID indexes the symbol arena; 0 is invalid.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolNamespace
	SymbolType
	SymbolField
	SymbolMethod
	SymbolProperty
	SymbolConstructor
	SymbolEnumMember
	SymbolArray    // T[] / T[,]
	SymbolNullable // T?
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolNamespace:
		return "namespace"
	case SymbolType:
		return "type"
	case SymbolField:
		return "field"
	case SymbolMethod:
		return "method"
	case SymbolProperty:
		return "property"
	case SymbolConstructor:
		return "constructor"
	case SymbolEnumMember:
		return "enum member"
	case SymbolArray:
		return "array"
	case SymbolNullable:
		return "nullable"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagPublic SymbolFlags = 1 << iota
	SymbolFlagPrivate
	SymbolFlagStatic
	SymbolFlagConst
	SymbolFlagPartial
	SymbolFlagImported // comes from a reference assembly
	SymbolFlagImplicit // synthesized container for top-level members
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&SymbolFlagPublic != 0 {
		labels = append(labels, "public")
	}
	if f&SymbolFlagPrivate != 0 {
		labels = append(labels, "private")
	}
	if f&SymbolFlagStatic != 0 {
		labels = append(labels, "static")
	}
	if f&SymbolFlagConst != 0 {
		labels = append(labels, "const")
	}
	if f&SymbolFlagPartial != 0 {
		labels = append(labels, "partial")
	}
	if f&SymbolFlagImported != 0 {
		labels = append(labels, "imported")
	}
	if f&SymbolFlagImplicit != 0 {
		labels = append(labels, "implicit")
	}
	return labels
}

// Symbol describes a named entity.
//
// FullName is the canonical dotted name ("UnityEngine.Transform",
// "Game.Door.count"). Keyword is set on the special System types that have a
// C# keyword spelling ("int" for System.Int32) regardless of how the
// reference was written.
type Symbol struct {
	Name      source.StringID
	Kind      SymbolKind
	Flags     SymbolFlags
	FullName  string
	Keyword   string
	TypeKind  refs.TypeKind
	Arity     int
	Parent    SymbolID // containing namespace or type
	Elem      SymbolID // array / nullable element
	Rank      int
	Type      SymbolID // field/property type, return type, base class
	Params    []SymbolID
	Signature string // parameter types of methods and constructors
	Assembly  string
	Decl      ast.DeclID
	Decls     []ast.DeclID // partial parts, Decl first
	Span      source.Span
	Members   map[source.StringID][]SymbolID
}

// IsNamedType reports a plain named type: not an array, nullable or namespace.
func (s *Symbol) IsNamedType() bool {
	return s != nil && s.Kind == SymbolType
}

// IsSource reports a symbol declared in the compiled text.
func (s *Symbol) IsSource() bool {
	return s != nil && s.Flags&SymbolFlagImported == 0
}

func (s *Symbol) addMember(name source.StringID, id SymbolID) {
	if s.Members == nil {
		s.Members = make(map[source.StringID][]SymbolID)
	}
	s.Members[name] = append(s.Members[name], id)
}

// Package refs describes the reference assemblies a compile binds against.
//
// An Assembly only carries what the binder needs: the namespaces and named
// types it exports. The host decides which assemblies are offered; Usable
// applies the closed-world policy (every non-dynamic assembly with a
// location on disk).
package refs

import (
	"slices"
	"strings"
)

// TypeKind classifies an exported type.
type TypeKind uint8

const (
	KindClass TypeKind = iota + 1
	KindStruct
	KindEnum
	KindInterface
	KindAttribute // class deriving from System.Attribute
	KindDelegate
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	case KindAttribute:
		return "attribute"
	case KindDelegate:
		return "delegate"
	default:
		return "invalid"
	}
}

// ParseKind converts a manifest kind string.
func ParseKind(s string) (TypeKind, bool) {
	switch strings.ToLower(s) {
	case "class", "":
		return KindClass, true
	case "struct":
		return KindStruct, true
	case "enum":
		return KindEnum, true
	case "interface":
		return KindInterface, true
	case "attribute":
		return KindAttribute, true
	case "delegate":
		return KindDelegate, true
	}
	return 0, false
}

// IsValueType reports kinds that cannot hold null.
func (k TypeKind) IsValueType() bool {
	return k == KindStruct || k == KindEnum
}

// TypeDef is one exported named type.
type TypeDef struct {
	Namespace string
	Name      string
	Kind      TypeKind
	Arity     int  // number of generic parameters
	Static    bool // static class, cannot be instantiated
}

// FullName returns "Namespace.Name" (just Name in the global namespace).
func (t TypeDef) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Assembly is a loaded reference module.
type Assembly struct {
	Name     string
	Location string // empty for in-memory modules
	Dynamic  bool   // emitted at runtime
	Types    []TypeDef
}

// Namespaces returns every namespace (including parents) the assembly exports, sorted.
func (a Assembly) Namespaces() []string {
	seen := make(map[string]struct{})
	for _, t := range a.Types {
		ns := t.Namespace
		for ns != "" {
			seen[ns] = struct{}{}
			i := strings.LastIndexByte(ns, '.')
			if i < 0 {
				break
			}
			ns = ns[:i]
		}
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	slices.Sort(out)
	return out
}

// Usable filters assemblies down to the ones offered to a compile:
// non-dynamic and backed by a file location.
func Usable(all []Assembly) []Assembly {
	out := make([]Assembly, 0, len(all))
	for _, a := range all {
		if a.Dynamic || strings.TrimSpace(a.Location) == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

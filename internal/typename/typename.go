// Package typename maps bound type syntax to the names the node catalog is
// keyed by.
package typename

import (
	"fmt"
	"slices"
	"strings"

	"udonc/internal/ast"
	"udonc/internal/sema"
)

// DefaultPrimitiveNamespace is the runtime namespace of the primitive types.
const DefaultPrimitiveNamespace = "System"

// VariablePrefix starts every variable-node definition name.
const VariablePrefix = "Variable_"

// aliases: keyword -> runtime type name. Total over the keyword types a
// field may be declared with.
var aliases = map[string]string{
	"bool":    "Boolean",
	"byte":    "Byte",
	"sbyte":   "SByte",
	"char":    "Char",
	"decimal": "Decimal",
	"double":  "Double",
	"float":   "Single",
	"int":     "Int32",
	"uint":    "UInt32",
	"long":    "Int64",
	"ulong":   "UInt64",
	"object":  "Object",
	"short":   "Int16",
	"ushort":  "UInt16",
	"string":  "String",
}

// Alias returns the runtime type name of a keyword type.
func Alias(keyword string) (string, bool) {
	name, ok := aliases[keyword]
	return name, ok
}

// Keywords lists the recognized keyword types in sorted order.
func Keywords() []string {
	out := make([]string, 0, len(aliases))
	for kw := range aliases {
		out = append(out, kw)
	}
	slices.Sort(out)
	return out
}

// TypeName is a resolved, non-array named type.
type TypeName struct {
	// Symbol is the keyword spelling for primitives ("int") and the
	// canonical dotted name otherwise ("UnityEngine.Transform",
	// "System.Collections.Generic.List<int>").
	Symbol    string
	Primitive bool
	// Namespace prefixes the alias of a primitive in CatalogKey.
	Namespace string
}

// CatalogKey: "SystemInt32" for int, "UnityEngineTransform" for
// UnityEngine.Transform. Only the dots are dropped, so constructed generics
// keep their argument list. Panics for a primitive outside the alias table.
func (n TypeName) CatalogKey() string {
	if n.Primitive {
		alias, ok := aliases[n.Symbol]
		if !ok {
			panic(fmt.Sprintf("typename: primitive %q has no alias", n.Symbol))
		}
		return n.Namespace + alias
	}
	return strings.ReplaceAll(n.Symbol, ".", "")
}

// DisplayName is the last dotted component of Symbol; the type argument
// list is kept as is.
func (n TypeName) DisplayName() string {
	head, args, generic := strings.Cut(n.Symbol, "<")
	if i := strings.LastIndexByte(head, '.'); i >= 0 {
		head = head[i+1:]
	}
	if generic {
		return head + "<" + args
	}
	return head
}

// LookupKey is the catalog name of the variable node for this type.
func (n TypeName) LookupKey() string {
	return VariablePrefix + n.CatalogKey()
}

func (n TypeName) String() string { return n.Symbol }

// ResolutionError reports type syntax that does not denote a plain named type.
type ResolutionError struct {
	Type   ast.TypeID
	Name   string // display of the bound symbol, empty when unbound
	Reason string
}

func (e *ResolutionError) Error() string {
	if e.Name == "" {
		return "cannot resolve type: " + e.Reason
	}
	return fmt.Sprintf("cannot resolve type '%s': %s", e.Name, e.Reason)
}

// Resolver turns type syntax into TypeNames. The zero value uses an empty
// primitive namespace; New applies DefaultPrimitiveNamespace.
type Resolver struct {
	PrimitiveNamespace string
}

func New() Resolver {
	return Resolver{PrimitiveNamespace: DefaultPrimitiveNamespace}
}

// Resolve looks up the binding of typeID in model.
func (r Resolver) Resolve(typeID ast.TypeID, model *sema.Model) (TypeName, error) {
	sym, ok := model.TypeOf(typeID)
	if !ok || sym == nil {
		return TypeName{}, &ResolutionError{Type: typeID, Reason: "type syntax is not bound"}
	}
	fail := func(reason string) (TypeName, error) {
		return TypeName{}, &ResolutionError{Type: typeID, Name: model.ConstructedName(typeID), Reason: reason}
	}
	switch sym.Kind {
	case sema.SymbolType:
	case sema.SymbolArray:
		return fail("array types have no variable node")
	case sema.SymbolNullable:
		return fail("nullable types have no variable node")
	default:
		return fail(fmt.Sprintf("%s is not a type", sym.Kind))
	}
	if sym.Keyword != "" {
		if _, ok := aliases[sym.Keyword]; !ok {
			return fail("keyword type has no runtime alias")
		}
		return TypeName{Symbol: sym.Keyword, Primitive: true, Namespace: r.PrimitiveNamespace}, nil
	}
	if sym.Arity > 0 {
		// ключ вида SystemCollectionsGenericList<int> в каталоге не найдётся,
		// и поле будет пропущено
		return TypeName{Symbol: model.ConstructedName(typeID)}, nil
	}
	return TypeName{Symbol: sym.FullName}, nil
}

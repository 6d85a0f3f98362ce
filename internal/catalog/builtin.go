package catalog

import (
	"crypto/sha256"

	"udonc/internal/refs"
	"udonc/internal/typename"
)

// builtinSchema changes whenever the builtin definitions change shape.
const builtinSchema = "udonc-builtin-catalog/1"

// variableParameters are the property slots of every variable node, in
// slot order; value takes the variable's own type.
var variableParameters = []Parameter{
	{Name: "value"},
	{Name: "name", Type: "System.String"},
	{Name: "public", Type: "System.Boolean"},
	{Name: "synced", Type: "System.Boolean"},
	{Name: "syncMode", Type: "System.String"},
}

type builtin struct {
	primitiveNamespace string
	assemblies         []refs.Assembly
}

// Builtin enumerates the variable nodes of the primitive types and of every
// plain class, struct and enum in the builtin reference assemblies.
// primitiveNamespace prefixes primitive keys the way typename.Resolver does.
func Builtin(primitiveNamespace string) Keyed {
	return builtin{primitiveNamespace: primitiveNamespace, assemblies: refs.Builtin()}
}

func (b builtin) Definitions() ([]Entry, error) {
	var out []Entry
	for _, kw := range typename.Keywords() {
		alias, _ := typename.Alias(kw)
		out = append(out, variableEntry(
			typename.TypeName{Symbol: kw, Primitive: true, Namespace: b.primitiveNamespace},
			"System."+alias))
	}
	for _, asm := range b.assemblies {
		for _, td := range asm.Types {
			if td.Namespace == "System" || !variableKind(td) {
				continue
			}
			out = append(out, variableEntry(typename.TypeName{Symbol: td.FullName()}, td.FullName()))
		}
	}
	return out, nil
}

func (b builtin) Key() (Digest, error) {
	h := sha256.New()
	_, _ = h.Write([]byte(builtinSchema))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(b.primitiveNamespace))
	for _, asm := range b.assemblies {
		for _, td := range asm.Types {
			_, _ = h.Write([]byte(td.FullName()))
			_, _ = h.Write([]byte{0})
		}
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

func variableKind(td refs.TypeDef) bool {
	if td.Arity > 0 || td.Static {
		return false
	}
	switch td.Kind {
	case refs.KindClass, refs.KindStruct, refs.KindEnum:
		return true
	}
	return false
}

// variableEntry builds the definition of the variable node holding values
// of runtime type typeName.
func variableEntry(name typename.TypeName, typeName string) Entry {
	params := make([]Parameter, len(variableParameters))
	copy(params, variableParameters)
	params[0].Type = typeName
	return Entry{
		FullName:   name.LookupKey(),
		Name:       typename.TypeName{Symbol: typeName}.DisplayName() + " Variable",
		Type:       typeName,
		Parameters: params,
	}
}

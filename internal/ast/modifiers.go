package ast

import (
	"strings"

	"udonc/internal/token"
)

type ModifierFlags uint16

const (
	ModPublic ModifierFlags = 1 << iota
	ModPrivate
	ModProtected
	ModInternal
	ModStatic
	ModReadonly
	ModConst
	ModSealed
	ModAbstract
	ModVirtual
	ModOverride
	ModExtern
	ModVolatile
	ModNew
	ModPartial
)

// ModAccess: маска модификаторов доступа.
const ModAccess = ModPublic | ModPrivate | ModProtected | ModInternal

var modifierByKind = map[token.Kind]ModifierFlags{
	token.KwPublic:    ModPublic,
	token.KwPrivate:   ModPrivate,
	token.KwProtected: ModProtected,
	token.KwInternal:  ModInternal,
	token.KwStatic:    ModStatic,
	token.KwReadonly:  ModReadonly,
	token.KwConst:     ModConst,
	token.KwSealed:    ModSealed,
	token.KwAbstract:  ModAbstract,
	token.KwVirtual:   ModVirtual,
	token.KwOverride:  ModOverride,
	token.KwExtern:    ModExtern,
	token.KwVolatile:  ModVolatile,
	token.KwNew:       ModNew,
}

// ModifierFor maps a modifier token to its flag; "partial" is contextual.
func ModifierFor(tok token.Token) (ModifierFlags, bool) {
	if tok.IsContextual("partial") {
		return ModPartial, true
	}
	f, ok := modifierByKind[tok.Kind]
	return f, ok
}

// Modifiers хранит и флаги, и исходные токены: токены нужны дампу дерева.
type Modifiers struct {
	Flags  ModifierFlags
	Tokens []token.Token
}

func (m Modifiers) Has(f ModifierFlags) bool { return m.Flags&f != 0 }

// IsPublic reports whether the public keyword is present.
func (m Modifiers) IsPublic() bool { return m.Has(ModPublic) }

func (m Modifiers) String() string {
	parts := make([]string, 0, len(m.Tokens))
	for _, t := range m.Tokens {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

package token_test

import (
	"testing"

	"udonc/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"class":     token.KwClass,
		"public":    token.KwPublic,
		"int":       token.KwInt,
		"ushort":    token.KwUshort,
		"foreach":   token.KwForeach,
		"namespace": token.KwNamespace,
	}
	for lexeme, want := range cases {
		got, ok := token.LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v,%v; want %v", lexeme, got, ok, want)
		}
	}

	// контекстные слова и регистр: не ключевые
	for _, s := range []string{"var", "get", "set", "partial", "Class", "INT", "Transform"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true", s)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[token.Kind]string{
		token.KwPublic:  "PublicKeyword",
		token.KwInt:     "IntKeyword",
		token.Ident:     "IdentifierToken",
		token.Semicolon: "SemicolonToken",
		token.IntLit:    "NumericLiteralToken",
		token.LBrace:    "OpenBraceToken",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestKindClassifiers(t *testing.T) {
	for _, k := range []token.Kind{token.KwInt, token.KwString, token.KwVoid, token.KwObject} {
		if !k.IsPredefinedType() {
			t.Errorf("%v should be a predefined type", k)
		}
	}
	if token.KwClass.IsPredefinedType() {
		t.Errorf("class is not a type keyword")
	}
	for _, k := range []token.Kind{token.KwPublic, token.KwStatic, token.KwReadonly, token.KwConst} {
		if !k.IsModifier() {
			t.Errorf("%v should be a modifier", k)
		}
	}
	if token.Ident.IsKeyword() || token.IntLit.IsKeyword() {
		t.Errorf("non-keywords classified as keywords")
	}
	if !token.ShlAssign.IsAssignOp() || token.EqEq.IsAssignOp() {
		t.Errorf("assign op classification broken")
	}
}

package ast

import (
	"testing"

	"udonc/internal/source"
	"udonc/internal/token"
)

func TestArenaOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatalf("empty arena must return nil")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 || a.Len() != 1 {
		t.Fatalf("Allocate/Get broken: id=%d", id)
	}
}

func TestKindCategory(t *testing.T) {
	cases := map[Kind]Category{
		CompilationUnit:           CatFile,
		FieldDeclaration:          CatDecl,
		VariableDeclarator:        CatVar,
		Parameter:                 CatParam,
		Attribute:                 CatAttr,
		SetAccessorDeclaration:    CatAccessor,
		GenericName:               CatType,
		LocalDeclarationStatement: CatStmt,
		AssignmentExpression:      CatExpr,
		PredefinedTypeExpression:  CatExpr,
	}
	for k, want := range cases {
		if got := k.Category(); got != want {
			t.Errorf("%v.Category() = %d, want %d", k, got, want)
		}
	}
	if NameExpression.String() != "IdentifierName" {
		t.Errorf("name expressions print like identifier names")
	}
}

func ident(b *Builder, text string, start uint32) TypeID {
	tok := token.Token{Kind: token.Ident, Text: text, Span: source.Span{Start: start, End: start + uint32(len(text))}}
	return b.Types.New(TypeExpr{Kind: IdentifierName, Span: tok.Span, Name: Name{Text: text, Tok: tok}})
}

func TestDottedName(t *testing.T) {
	b := NewBuilder(Hints{})
	left := ident(b, "UnityEngine", 0)
	right := ident(b, "Transform", 12)
	q := b.Types.New(TypeExpr{Kind: QualifiedName, Left: left, Right: right})
	if got, ok := b.DottedName(q); !ok || got != "UnityEngine.Transform" {
		t.Fatalf("DottedName = %q, %v", got, ok)
	}
	arr := b.Types.New(TypeExpr{Kind: ArrayType, Elem: q, Rank: 1})
	if _, ok := b.DottedName(arr); ok {
		t.Fatalf("arrays have no dotted name")
	}
}

func TestFieldChildrenOrder(t *testing.T) {
	b := NewBuilder(Hints{})
	pub := token.Token{Kind: token.KwPublic, Text: "public", Span: source.Span{Start: 0, End: 6}}
	intTok := token.Token{Kind: token.KwInt, Text: "int", Span: source.Span{Start: 7, End: 10}}
	typ := b.Types.New(TypeExpr{Kind: PredefinedType, Tok: intTok, Span: intTok.Span})
	nameTok := token.Token{Kind: token.Ident, Text: "Count", Span: source.Span{Start: 11, End: 16}}
	v := b.Decls.NewVar(VarDecl{Name: Name{Text: "Count", Tok: nameTok}})
	d := b.Decls.New(Decl{
		Kind: FieldDeclaration,
		Mods: Modifiers{Flags: ModPublic, Tokens: []token.Token{pub}},
		Type: typ,
		Vars: []VarID{v},
	})

	got := b.Children(b.DeclNode(d))
	if len(got) != 3 {
		t.Fatalf("children = %d, want 3", len(got))
	}
	if !got[0].IsToken() || got[0].Token.Kind != token.KwPublic {
		t.Fatalf("first child must be the public token")
	}
	if got[1].Node.Kind != PredefinedType || got[2].Node.Kind != VariableDeclarator {
		t.Fatalf("unexpected order: %v %v", got[1].Node.Kind, got[2].Node.Kind)
	}
	vc := b.Children(got[2].Node)
	if len(vc) != 1 || vc[0].Token.Text != "Count" {
		t.Fatalf("declarator children = %+v", vc)
	}
}

func TestModifiers(t *testing.T) {
	partial := token.Token{Kind: token.Ident, Text: "partial"}
	if f, ok := ModifierFor(partial); !ok || f != ModPartial {
		t.Fatalf("partial is a contextual modifier")
	}
	if _, ok := ModifierFor(token.Token{Kind: token.KwInt}); ok {
		t.Fatalf("int is not a modifier")
	}
	m := Modifiers{Flags: ModPublic | ModStatic}
	if !m.IsPublic() || !m.Has(ModAccess) || m.Has(ModReadonly) {
		t.Fatalf("Has() broken")
	}
}
